package container

import (
	"fmt"
	"reflect"
	"sort"
	"sync"
)

// TypeRegistry maps type names to no-argument constructors. It stands in for
// class lookup by name: a string payload given to AddClass, AddFactory or
// AddAbstractFactory is looked up here.
//
//	container.MustRegisterType(container.DefaultTypes, "app.Mailer", func() *Mailer {
//	    return &Mailer{}
//	})
//	c.AddClass("mailer", "app.Mailer")
type TypeRegistry struct {
	mu    sync.RWMutex
	types map[string]typeInfo
}

type typeInfo struct {
	name string
	typ  reflect.Type
	ctor func() any
}

func (t typeInfo) implements(iface reflect.Type) bool {
	return t.typ.Implements(iface)
}

// DefaultTypes is used by containers created without WithTypes.
var DefaultTypes = NewTypeRegistry()

// NewTypeRegistry creates an empty TypeRegistry.
func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{types: make(map[string]typeInfo)}
}

// RegisterType records ctor under name. The static type T is what capability
// checks run against, so register factories with their concrete type.
func RegisterType[T any](r *TypeRegistry, name string, ctor func() T) error {
	if !validName(name) {
		return newError("register type", name, ErrInvalidName, "")
	}
	if ctor == nil {
		return newError("register type", name, ErrInvalidArgument, "nil constructor")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.types[name]; exists {
		return newError("register type", name, ErrNotAllowed, "type already registered")
	}
	r.types[name] = typeInfo{
		name: name,
		typ:  reflect.TypeFor[T](),
		ctor: func() any { return ctor() },
	}
	return nil
}

// MustRegisterType is like RegisterType but panics on error.
func MustRegisterType[T any](r *TypeRegistry, name string, ctor func() T) {
	if err := RegisterType(r, name, ctor); err != nil {
		panic(err)
	}
}

// Has reports whether name is registered.
func (r *TypeRegistry) Has(name string) bool {
	_, ok := r.lookup(name)
	return ok
}

// New constructs a fresh value of the named type.
func (r *TypeRegistry) New(name string) (any, error) {
	info, ok := r.lookup(name)
	if !ok {
		return nil, newError("new", name, ErrClassNotFound, "")
	}
	return info.ctor(), nil
}

// Names returns the registered type names, sorted.
func (r *TypeRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.types))
	for name := range r.types {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (r *TypeRegistry) lookup(name string) (typeInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	info, ok := r.types[name]
	return info, ok
}

// cloneConstructor returns a constructor building a fresh zero value of the
// dynamic type of v. Pointers yield a pointer to a new zero element.
func cloneConstructor(v any) (func() any, error) {
	t := reflect.TypeOf(v)
	switch t.Kind() {
	case reflect.Pointer:
		elem := t.Elem()
		return func() any { return reflect.New(elem).Interface() }, nil
	case reflect.Struct:
		return func() any { return reflect.New(t).Elem().Interface() }, nil
	default:
		return nil, fmt.Errorf("%s is not a struct or pointer", t)
	}
}
