package container

import "reflect"

// Resolver is the read side of a container. Factories receive the effective
// requesting container as a Resolver: the composite when the container
// belongs to one, otherwise the container itself.
type Resolver interface {
	Has(name string) bool
	Get(name string) (any, error)
}

// Factory builds an instance for a single registered name.
type Factory interface {
	Create(c Resolver) (any, error)
}

// FactoryFunc adapts a function to Factory.
//
//	c.AddFactory("clock", container.FactoryFunc(func(c container.Resolver) (any, error) {
//	    return time.Now, nil
//	}))
type FactoryFunc func(c Resolver) (any, error)

func (f FactoryFunc) Create(c Resolver) (any, error) { return f(c) }

// AbstractFactory answers for names it recognizes. CanCreate and Create
// receive the name exactly as requested, before normalization, so the
// factory can derive meaning from it.
type AbstractFactory interface {
	CanCreate(c Resolver, name string) bool
	Create(c Resolver, name string) (any, error)
}

// ContainerAware instances get the effective requesting container injected
// after construction.
type ContainerAware interface {
	SetContainer(c Resolver)
}

// Aware is an embeddable ContainerAware implementation.
//
//	type ReportService struct {
//	    container.Aware
//	}
type Aware struct {
	container Resolver
}

func (a *Aware) SetContainer(c Resolver) { a.container = c }

// Container returns the injected container, or nil.
func (a *Aware) Container() Resolver { return a.container }

var (
	factoryType         = reflect.TypeFor[Factory]()
	abstractFactoryType = reflect.TypeFor[AbstractFactory]()
)
