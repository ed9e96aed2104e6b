package container

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidName indicates a missing or blank entry name.
	ErrInvalidName = errors.New("invalid name")
	// ErrInvalidArgument indicates a payload that does not satisfy its kind,
	// an unknown kind or a malformed configuration record.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrClassNotFound indicates a type name absent from the type registry.
	ErrClassNotFound = errors.New("type not found")
	// ErrNotFound indicates a name that cannot be resolved.
	ErrNotFound = errors.New("entry not found")
	// ErrLocked indicates a mutation of a locked container.
	ErrLocked = errors.New("container is locked")
	// ErrNotAllowed indicates an override while overriding is disabled.
	ErrNotAllowed = errors.New("override not allowed")
)

// Error describes a failed container operation. Err is always one of the
// package sentinels, so callers match with errors.Is.
type Error struct {
	Op     string
	Name   string
	Err    error
	Reason string
}

func (e *Error) Error() string {
	msg := "container: " + e.Op
	if e.Name != "" {
		msg += fmt.Sprintf(" [%s]", e.Name)
	}
	msg += ": " + e.Err.Error()
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

func newError(op, name string, err error, format string, args ...any) *Error {
	e := &Error{Op: op, Name: name, Err: err}
	if format != "" {
		e.Reason = fmt.Sprintf(format, args...)
	}
	return e
}

// IsNotFound reports whether err means a name could not be resolved.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsLocked reports whether err was caused by a locked container.
func IsLocked(err error) bool { return errors.Is(err, ErrLocked) }

// IsNotAllowed reports whether err was caused by a refused override.
func IsNotAllowed(err error) bool { return errors.Is(err, ErrNotAllowed) }
