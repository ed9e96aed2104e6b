package container

import "sync"

// Member is a registry a Composite can hold. *Container satisfies it.
type Member interface {
	Resolver
	SetDelegator(d Resolver) error
}

// Composite chains registries into one logical lookup: a name is served by
// the first member that has it. Members get the composite as their
// delegator, so their factories resolve dependencies across the whole chain.
//
//	core := container.New()
//	plugins := container.New()
//	root, err := container.NewComposite(core, plugins)
//	svc, err := root.Get("svc") // core first, then plugins
type Composite struct {
	mu         sync.RWMutex
	containers []Member
}

// NewComposite builds a composite over members, in order.
func NewComposite(members ...Member) (*Composite, error) {
	cc := &Composite{}
	if err := cc.SetContainers(members); err != nil {
		return nil, err
	}
	return cc, nil
}

// AddContainer makes cc the delegator of m and appends m. It fails when m is
// locked, or already has a delegator and does not allow overriding it.
func (cc *Composite) AddContainer(m Member) error {
	if err := m.SetDelegator(cc); err != nil {
		return err
	}
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.containers = append(cc.containers, m)
	return nil
}

// SetContainers replaces the member list. Members are added one by one; on
// failure the ones added before it stay.
func (cc *Composite) SetContainers(members []Member) error {
	cc.mu.Lock()
	cc.containers = nil
	cc.mu.Unlock()
	for _, m := range members {
		if err := cc.AddContainer(m); err != nil {
			return err
		}
	}
	return nil
}

// Containers returns the members in lookup order.
func (cc *Composite) Containers() []Member {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	out := make([]Member, len(cc.containers))
	copy(out, cc.containers)
	return out
}

// Has reports whether any member has name.
func (cc *Composite) Has(name string) bool {
	for _, m := range cc.Containers() {
		if m.Has(name) {
			return true
		}
	}
	return false
}

// Get resolves name from the first member that has it.
func (cc *Composite) Get(name string) (any, error) {
	for _, m := range cc.Containers() {
		if m.Has(name) {
			return m.Get(name)
		}
	}
	return nil, newError("get", name, ErrNotFound, "no member container has it")
}
