package container_test

import (
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-container/framework/container"
)

type widget struct {
	ID int
}

type clock struct {
	Zone string
}

// countingFactory counts how often it is constructed and asked to create.
type countingFactory struct {
	creates *atomic.Int32
}

func (f *countingFactory) Create(container.Resolver) (any, error) {
	f.creates.Add(1)
	return &widget{ID: int(f.creates.Load())}, nil
}

// repoFactory answers for every name starting with "repo.".
type repoFactory struct {
	canCreateCalls atomic.Int32
	createCalls    atomic.Int32
	requested      []string
}

func (f *repoFactory) CanCreate(_ container.Resolver, name string) bool {
	f.canCreateCalls.Add(1)
	return strings.HasPrefix(strings.ToLower(name), "repo.")
}

func (f *repoFactory) Create(_ container.Resolver, name string) (any, error) {
	f.createCalls.Add(1)
	f.requested = append(f.requested, name)
	return &repository{Table: strings.TrimPrefix(strings.ToLower(name), "repo.")}, nil
}

type repository struct {
	Table string
}

type awareService struct {
	container.Aware
}

// testTypes is a fresh registry with the fixture types, plus counters for
// the constructors.
type testTypes struct {
	*container.TypeRegistry
	factoryCtors atomic.Int32
	creates      atomic.Int32
}

func newTestTypes(t *testing.T) *testTypes {
	t.Helper()
	types := &testTypes{TypeRegistry: container.NewTypeRegistry()}
	require.NoError(t, container.RegisterType(types.TypeRegistry, "test.Widget", func() *widget {
		return &widget{}
	}))
	require.NoError(t, container.RegisterType(types.TypeRegistry, "test.Clock", func() *clock {
		return &clock{Zone: "UTC"}
	}))
	require.NoError(t, container.RegisterType(types.TypeRegistry, "test.CountingFactory", func() *countingFactory {
		types.factoryCtors.Add(1)
		return &countingFactory{creates: &types.creates}
	}))
	require.NoError(t, container.RegisterType(types.TypeRegistry, "test.Repos", func() *repoFactory {
		return &repoFactory{}
	}))
	return types
}

func newTestContainer(t *testing.T, opts ...container.Option) (*container.Container, *testTypes) {
	t.Helper()
	types := newTestTypes(t)
	return container.New(append([]container.Option{container.WithTypes(types.TypeRegistry)}, opts...)...), types
}

func widgetFactory(id int) func(container.Resolver) any {
	return func(container.Resolver) any { return &widget{ID: id} }
}

func mustGet(t *testing.T, r container.Resolver, name string) any {
	t.Helper()
	v, err := r.Get(name)
	require.NoError(t, err, "get %q", name)
	return v
}
