package app

import (
	"os"
	"strings"
	"time"

	"github.com/km-arc/go-container/framework/container"
)

// Type names registered by RegisterBuiltinTypes, usable as payloads in
// container files.
const (
	ClockType           = "builtin.Clock"
	HostnameFactoryType = "builtin.HostnameFactory"
	EnvFactoryType      = "builtin.EnvFactory"
)

// Clock reports the current time in a fixed location.
type Clock struct {
	Location *time.Location
}

// Now returns the current time, in UTC unless Location is set.
func (c *Clock) Now() time.Time {
	if c.Location == nil {
		return time.Now().UTC()
	}
	return time.Now().In(c.Location)
}

// HostnameFactory creates the machine's host name.
type HostnameFactory struct{}

func (HostnameFactory) Create(container.Resolver) (any, error) {
	return os.Hostname()
}

// EnvFactory answers for names of the form "env.<VARIABLE>" when the
// variable is set, creating its value.
type EnvFactory struct{}

const envPrefix = "env."

func (EnvFactory) CanCreate(_ container.Resolver, name string) bool {
	key, ok := strings.CutPrefix(name, envPrefix)
	if !ok {
		return false
	}
	_, set := os.LookupEnv(key)
	return set
}

func (EnvFactory) Create(_ container.Resolver, name string) (any, error) {
	return os.Getenv(strings.TrimPrefix(name, envPrefix)), nil
}

// RegisterBuiltinTypes adds the builtin types to types.
func RegisterBuiltinTypes(types *container.TypeRegistry) error {
	if err := container.RegisterType(types, ClockType, func() *Clock { return &Clock{} }); err != nil {
		return err
	}
	if err := container.RegisterType(types, HostnameFactoryType, func() HostnameFactory { return HostnameFactory{} }); err != nil {
		return err
	}
	return container.RegisterType(types, EnvFactoryType, func() EnvFactory { return EnvFactory{} })
}
