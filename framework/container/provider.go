package container

import (
	"fmt"
	"sync"
)

// ── ServiceProvider interface ─────────────────────────────────────────────────

// ServiceProvider groups related registrations.
//
// Register adds entries and must not resolve anything. Boot runs after every
// provider has been registered, so it may resolve freely.
//
//	type MailProvider struct{ container.BaseProvider }
//
//	func (p *MailProvider) Register(app *container.Container) error {
//	    return app.AddFactory("mailer", func(c container.Resolver) (any, error) {
//	        cfg, err := container.Resolve[*config.Config](c, "config")
//	        if err != nil {
//	            return nil, err
//	        }
//	        return mail.New(cfg), nil
//	    })
//	}
type ServiceProvider interface {
	// Register adds entries to app.
	Register(app *Container) error

	// Boot is called once all providers are registered, with the container
	// factories would receive.
	Boot(app Resolver) error

	// Provides lists the names a deferred provider answers for.
	Provides() []string

	// IsDeferred reports whether Register should wait until one of
	// Provides() is first resolved.
	IsDeferred() bool
}

// ── BaseProvider ──────────────────────────────────────────────────────────────

// BaseProvider is an embeddable struct with no-op Boot, Provides and
// IsDeferred.
type BaseProvider struct{}

func (p *BaseProvider) Boot(_ Resolver) error { return nil }
func (p *BaseProvider) Provides() []string    { return nil }
func (p *BaseProvider) IsDeferred() bool      { return false }

// ── ProviderRegistry ──────────────────────────────────────────────────────────

// ProviderRegistry registers and boots ServiceProviders against one
// container.
type ProviderRegistry struct {
	mu         sync.Mutex
	app        *Container
	eager      []ServiceProvider
	deferred   []*deferredProvider
	booted     bool
	registered map[ServiceProvider]bool
}

// NewProviderRegistry creates a registry bound to app.
func NewProviderRegistry(app *Container) *ProviderRegistry {
	return &ProviderRegistry{
		app:        app,
		registered: make(map[ServiceProvider]bool),
	}
}

// Register adds a provider. Eager providers register immediately (and boot
// immediately when the registry has already booted). Deferred providers are
// bound as an abstract factory answering for their Provides() names.
func (r *ProviderRegistry) Register(provider ServiceProvider) error {
	r.mu.Lock()
	if r.registered[provider] {
		r.mu.Unlock()
		return nil
	}
	r.registered[provider] = true
	booted := r.booted
	r.mu.Unlock()

	if provider.IsDeferred() {
		return r.registerDeferred(provider)
	}

	if err := provider.Register(r.app); err != nil {
		r.forget(provider)
		return fmt.Errorf("error registering provider %T: %w", provider, err)
	}
	r.mu.Lock()
	r.eager = append(r.eager, provider)
	r.mu.Unlock()

	if booted {
		return bootProvider(provider, r.app.EffectiveContainer())
	}
	return nil
}

func (r *ProviderRegistry) registerDeferred(provider ServiceProvider) error {
	d := &deferredProvider{
		provider: provider,
		registry: r,
		names:    make(map[string]struct{}),
	}
	for _, name := range provider.Provides() {
		d.names[Normalize(name)] = struct{}{}
	}
	r.mu.Lock()
	registration := fmt.Sprintf("deferred-provider-%d", len(r.deferred))
	r.mu.Unlock()

	// Sharing is left to the entries the provider registers.
	if err := r.app.AddAbstractFactory(registration, d, Shared(false)); err != nil {
		r.forget(provider)
		return err
	}
	r.mu.Lock()
	r.deferred = append(r.deferred, d)
	r.mu.Unlock()
	return nil
}

func (r *ProviderRegistry) forget(provider ServiceProvider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.registered, provider)
}

// Boot boots every eager provider, and every deferred provider that has
// already been loaded. Later calls are no-ops.
func (r *ProviderRegistry) Boot() error {
	r.mu.Lock()
	if r.booted {
		r.mu.Unlock()
		return nil
	}
	r.booted = true
	eager := append([]ServiceProvider(nil), r.eager...)
	deferred := append([]*deferredProvider(nil), r.deferred...)
	r.mu.Unlock()

	root := r.app.EffectiveContainer()
	for _, provider := range eager {
		if err := bootProvider(provider, root); err != nil {
			return err
		}
	}
	for _, d := range deferred {
		if err := d.bootIfLoaded(root); err != nil {
			return err
		}
	}
	return nil
}

// Booted returns true once Boot has been called.
func (r *ProviderRegistry) Booted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.booted
}

// Providers returns the eager providers in registration order.
func (r *ProviderRegistry) Providers() []ServiceProvider {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ServiceProvider(nil), r.eager...)
}

func bootProvider(provider ServiceProvider, root Resolver) error {
	if err := provider.Boot(root); err != nil {
		return fmt.Errorf("error booting provider %T: %w", provider, err)
	}
	return nil
}

// ── Deferred loading ──────────────────────────────────────────────────────────

// deferredProvider loads its provider into a private container the first
// time one of its names is resolved. The private container delegates to the
// requesting container, so the provider's factories see the whole graph.
type deferredProvider struct {
	provider ServiceProvider
	registry *ProviderRegistry
	names    map[string]struct{}

	once   sync.Once
	mu     sync.Mutex
	inner  *Container
	booted bool
	err    error
}

func (d *deferredProvider) CanCreate(_ Resolver, name string) bool {
	_, ok := d.names[Normalize(name)]
	return ok
}

func (d *deferredProvider) Create(c Resolver, name string) (any, error) {
	d.once.Do(func() { d.err = d.load(c) })
	if d.err != nil {
		return nil, d.err
	}
	// Outside once: Boot may resolve the provider's own names.
	if d.registry.Booted() {
		if err := d.bootIfLoaded(c); err != nil {
			return nil, err
		}
	}
	return d.inner.Get(name)
}

func (d *deferredProvider) load(root Resolver) error {
	app := d.registry.app
	inner := New(
		WithAutoLock(false),
		WithSharedByDefault(app.SharedByDefault()),
		WithTypes(app.Types()),
		WithLogger(app.Logger()),
		WithDelegator(root),
	)
	if err := d.provider.Register(inner); err != nil {
		return fmt.Errorf("error registering deferred provider %T: %w", d.provider, err)
	}
	app.Logger().Debug("deferred provider loaded", "provider", fmt.Sprintf("%T", d.provider))

	d.mu.Lock()
	d.inner = inner
	d.mu.Unlock()
	return nil
}

func (d *deferredProvider) bootIfLoaded(root Resolver) error {
	d.mu.Lock()
	if d.inner == nil || d.booted {
		d.mu.Unlock()
		return nil
	}
	d.booted = true
	d.mu.Unlock()
	return bootProvider(d.provider, root)
}
