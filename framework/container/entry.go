package container

import (
	"reflect"
	"sync"
)

// entry is one registration. source is chosen once at Add time; the
// resolver switches on its concrete type.
type entry struct {
	name   string
	shared bool
	source source
}

type source interface {
	kind() Kind
}

type classSource struct {
	typeName string // empty when cloned from an instance
	ctor     func() any
}

type factorySource struct {
	factory *lazy[Factory]
}

type abstractFactorySource struct {
	factory *lazy[AbstractFactory]
}

type aliasSource struct {
	target string // normalized
}

func (classSource) kind() Kind           { return KindClass }
func (factorySource) kind() Kind         { return KindFactory }
func (abstractFactorySource) kind() Kind { return KindAbstractFactory }
func (aliasSource) kind() Kind           { return KindAlias }

// lazy holds a factory that is either still a type reference or already an
// instance. The first get moves it from the former to the latter; every
// registration sharing the pointer sees the same instance afterwards.
type lazy[T any] struct {
	once     sync.Once
	typeName string
	ctor     func() any
	value    T
	err      error
}

func lazyInstance[T any](v T) *lazy[T] {
	l := &lazy[T]{value: v}
	l.once.Do(func() {})
	return l
}

func lazyType[T any](typeName string, ctor func() any) *lazy[T] {
	return &lazy[T]{typeName: typeName, ctor: ctor}
}

// get instantiates the factory on first use. A constructor that panics
// leaves the error in place for every later call.
func (l *lazy[T]) get() (T, error) {
	l.once.Do(func() {
		defer func() {
			if r := recover(); r != nil {
				l.err = newError("instantiate", l.typeName, ErrInvalidArgument, "constructor panicked: %v", r)
			}
		}()
		built := l.ctor()
		v, ok := built.(T)
		if !ok {
			l.err = newError("instantiate", l.typeName, ErrInvalidArgument,
				"constructor returned %T, not %s", built, reflect.TypeFor[T]())
			return
		}
		l.value = v
		l.ctor = nil
	})
	return l.value, l.err
}

// newSource validates payload against kind and returns the matching source.
// It never mutates the container; alias validation may probe abstract
// factories through Has.
func (c *Container) newSource(op, name string, payload any, kind Kind) (source, error) {
	switch kind {
	case KindClass:
		return c.classSource(op, name, payload)
	case KindFactory:
		return c.factorySource(op, name, payload)
	case KindAbstractFactory:
		return c.abstractFactorySource(op, name, payload)
	case KindAlias:
		target, ok := payload.(string)
		if !ok {
			return nil, newError(op, name, ErrInvalidArgument,
				"alias target must be a string; %T given", payload)
		}
		if !c.Has(target) {
			return nil, newError(op, target, ErrNotFound, "alias target for [%s]", name)
		}
		if Normalize(target) == Normalize(name) {
			return nil, newError(op, name, ErrInvalidArgument, "[%s] is aliased to itself", name)
		}
		return aliasSource{target: Normalize(target)}, nil
	default:
		return nil, newError(op, name, ErrInvalidArgument,
			"kind must be one of %v; %s given", Kinds(), kind)
	}
}

func (c *Container) classSource(op, name string, payload any) (source, error) {
	switch p := payload.(type) {
	case string:
		info, ok := c.types.lookup(p)
		if !ok {
			return nil, newError(op, p, ErrClassNotFound, "class for [%s]", name)
		}
		return classSource{typeName: p, ctor: info.ctor}, nil
	case nil:
		return nil, newError(op, name, ErrInvalidArgument, "class must be a type name or an instance; nil given")
	default:
		ctor, err := cloneConstructor(p)
		if err != nil {
			return nil, newError(op, name, ErrInvalidArgument,
				"class must be a type name or an instance: %v", err)
		}
		return classSource{ctor: ctor}, nil
	}
}

func (c *Container) factorySource(op, name string, payload any) (source, error) {
	switch p := payload.(type) {
	case string:
		info, ok := c.types.lookup(p)
		if !ok {
			return nil, newError(op, p, ErrClassNotFound, "factory for [%s]", name)
		}
		if !info.implements(factoryType) {
			return nil, newError(op, name, ErrInvalidArgument,
				"type %s (%s) does not implement Factory", p, info.typ)
		}
		return factorySource{factory: lazyType[Factory](p, info.ctor)}, nil
	case Factory:
		return factorySource{factory: lazyInstance(p)}, nil
	case func(Resolver) (any, error):
		return factorySource{factory: lazyInstance[Factory](FactoryFunc(p))}, nil
	case func(Resolver) any:
		return factorySource{factory: lazyInstance[Factory](FactoryFunc(func(c Resolver) (any, error) {
			return p(c), nil
		}))}, nil
	default:
		return nil, newError(op, name, ErrInvalidArgument,
			"factory must be a type name, a function or a Factory; %T given", payload)
	}
}

func (c *Container) abstractFactorySource(op, name string, payload any) (source, error) {
	switch p := payload.(type) {
	case string:
		info, ok := c.types.lookup(p)
		if !ok {
			return nil, newError(op, p, ErrClassNotFound, "abstract factory for [%s]", name)
		}
		if !info.implements(abstractFactoryType) {
			return nil, newError(op, name, ErrInvalidArgument,
				"type %s (%s) does not implement AbstractFactory", p, info.typ)
		}
		return abstractFactorySource{factory: lazyType[AbstractFactory](p, info.ctor)}, nil
	case AbstractFactory:
		return abstractFactorySource{factory: lazyInstance(p)}, nil
	default:
		return nil, newError(op, name, ErrInvalidArgument,
			"abstract factory must be a type name or an AbstractFactory; %T given", payload)
	}
}
