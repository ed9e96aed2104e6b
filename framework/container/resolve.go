package container

import (
	"fmt"
	"reflect"
)

// Get resolves name.
//
// With auto-lock enabled the first call locks the container, whether or not
// it succeeds. Values stored with Set and cached shared instances are
// returned directly; anything else is built according to its entry kind and
// cached afterwards when the entry is shared. Errors returned by factories
// are passed through unchanged.
func (c *Container) Get(name string) (any, error) {
	c.mu.Lock()
	if c.autoLock && c.state == stateOpen {
		c.transitionLocked(OpLock)
	}
	c.mu.Unlock()
	return c.resolve(name)
}

func (c *Container) resolve(name string) (any, error) {
	if !c.Has(name) {
		return nil, newError("get", name, ErrNotFound, "")
	}

	c.mu.Lock()
	original, mapped := c.names[Normalize(name)]
	e := c.entries[original]
	if e == nil || e.shared {
		if instance, ok := c.instances[original]; ok {
			c.mu.Unlock()
			return instance, nil
		}
	}
	effective := c.effectiveLocked()
	c.mu.Unlock()
	if !mapped || e == nil {
		// Removed after Has answered.
		return nil, newError("get", name, ErrNotFound, "")
	}

	instance, err := c.build(e, name, effective)
	if err != nil {
		return nil, err
	}
	if aware, ok := instance.(ContainerAware); ok {
		aware.SetContainer(effective)
	}
	if e.shared {
		c.mu.Lock()
		c.instances[e.name] = instance
		c.mu.Unlock()
	}
	c.logger.Trace("entry resolved", "name", name, "entry", e.name, "kind", e.source.kind())
	return instance, nil
}

// build runs the strategy for e's kind. name is the name as requested.
func (c *Container) build(e *entry, name string, effective Resolver) (any, error) {
	switch src := e.source.(type) {
	case classSource:
		return src.ctor(), nil
	case factorySource:
		f, err := src.factory.get()
		if err != nil {
			return nil, err
		}
		return f.Create(effective)
	case abstractFactorySource:
		f, err := src.factory.get()
		if err != nil {
			return nil, err
		}
		return f.Create(effective, name)
	case aliasSource:
		return c.resolve(c.displayName(src.target))
	default:
		panic(fmt.Sprintf("container: unhandled entry source %T", e.source))
	}
}

// displayName maps a normalized name back to the name it was registered
// under, so abstract factories see the requested spelling.
func (c *Container) displayName(normalized string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if original, ok := c.names[normalized]; ok {
		return original
	}
	return normalized
}

// ── Generics helper ───────────────────────────────────────────────────────────

// Resolve calls Get and type-asserts the result.
//
//	mailer, err := container.Resolve[*Mailer](c, "mailer")
func Resolve[T any](r Resolver, name string) (T, error) {
	var zero T
	instance, err := r.Get(name)
	if err != nil {
		return zero, err
	}
	typed, ok := instance.(T)
	if !ok {
		return zero, newError("resolve", name, ErrInvalidArgument,
			"resolved to %T, not %s", instance, reflect.TypeFor[T]())
	}
	return typed, nil
}

// MustResolve is like Resolve but panics on error.
func MustResolve[T any](r Resolver, name string) T {
	typed, err := Resolve[T](r, name)
	if err != nil {
		panic(err)
	}
	return typed
}
