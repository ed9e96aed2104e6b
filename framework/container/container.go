package container

import (
	"slices"
	"sort"
	"sync"

	"github.com/km-arc/go-container/framework/logging"
)

// Defaults applied by New.
const (
	DefaultAllowOverride   = false
	DefaultAutoLock        = true
	DefaultSharedByDefault = true
)

// Container is a name-keyed registry of entries.
//
// Names are matched after normalization (see Normalize); the name given at
// registration is kept for display and as the key of the shared instance
// cache. Entries resolve by kind:
//   - class: a registered type (or the type of a given instance) is constructed
//   - factory: a Factory or function is invoked with the requesting container
//   - abstract factory: answers for any name it recognizes (see Has)
//   - alias: resolves another name
//
// Values stored with Set bypass all of that and are returned as they are.
//
// A Container is safe for concurrent use. Add, Set and Remove are serialized,
// so the override check and the change it guards happen as one step. User
// code (constructors, factories, CanCreate) always runs without the internal
// mutex held, so factories may resolve other names from the container they
// are handed. CanCreate must not register entries, since a registration may
// be what is probing.
type Container struct {
	// held from the override check through the change in Add, Set and Remove
	regMu sync.Mutex
	mu    sync.Mutex

	// normalized name → original name
	names map[string]string

	// original name → shared or Set instance
	instances map[string]any

	// original name → entry
	entries map[string]*entry

	// abstract factory registrations, in registration order
	probes []*entry

	delegator Resolver

	allowOverride   bool
	autoLock        bool
	sharedByDefault bool
	state           lockState

	types  *TypeRegistry
	logger *logging.Logger
}

// Option configures a Container in New.
type Option func(*Container)

// WithAllowOverride sets whether existing entries may be replaced.
func WithAllowOverride(allow bool) Option {
	return func(c *Container) { c.allowOverride = allow }
}

// WithAutoLock sets whether the first Get locks the container.
func WithAutoLock(autoLock bool) Option {
	return func(c *Container) { c.autoLock = autoLock }
}

// WithSharedByDefault sets the shared flag used when Add is not given one.
func WithSharedByDefault(shared bool) Option {
	return func(c *Container) { c.sharedByDefault = shared }
}

// WithDelegator sets the container factories receive instead of this one.
func WithDelegator(d Resolver) Option {
	return func(c *Container) { c.delegator = d }
}

// WithInstances seeds raw values as if passed to Set. Names are applied in
// sorted order; a later name normalizing to an earlier one replaces it.
func WithInstances(instances map[string]any) Option {
	return func(c *Container) {
		names := make([]string, 0, len(instances))
		for name := range instances {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			if !validName(name) {
				panic("container: WithInstances: blank name")
			}
			c.removeLocked(name)
			c.names[Normalize(name)] = name
			c.instances[name] = instances[name]
		}
	}
}

// WithTypes sets the registry string payloads are looked up in.
func WithTypes(types *TypeRegistry) Option {
	return func(c *Container) { c.types = types }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *logging.Logger) Option {
	return func(c *Container) { c.logger = logger }
}

// New creates an empty, unlocked container.
//
//	c := container.New(container.WithAllowOverride(true))
//	_ = c.AddFactory("mailer", newMailer)
//	mailer, err := c.Get("mailer")
func New(opts ...Option) *Container {
	c := &Container{
		names:           make(map[string]string),
		instances:       make(map[string]any),
		entries:         make(map[string]*entry),
		allowOverride:   DefaultAllowOverride,
		autoLock:        DefaultAutoLock,
		sharedByDefault: DefaultSharedByDefault,
		types:           DefaultTypes,
		logger:          logging.NewDiscardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ── Entry options ─────────────────────────────────────────────────────────────

type entryOptions struct {
	shared *bool
}

// EntryOption configures a single Add call.
type EntryOption func(*entryOptions)

// Shared overrides the container's shared-by-default flag for one entry.
func Shared(shared bool) EntryOption {
	return func(o *entryOptions) { o.shared = &shared }
}

// ── Registration ──────────────────────────────────────────────────────────────

// Add registers payload under name, resolved according to kind.
//
// Validation happens before anything is changed. An existing entry under the
// same normalized name is replaced only when overriding is allowed.
func (c *Container) Add(name string, payload any, kind Kind, opts ...EntryOption) error {
	const op = "add"
	if err := c.checkMutation(OpAdd, op, name); err != nil {
		return err
	}
	var eo entryOptions
	for _, opt := range opts {
		opt(&eo)
	}
	c.mu.Lock()
	shared := c.sharedByDefault
	c.mu.Unlock()
	if eo.shared != nil {
		shared = *eo.shared
	}

	src, err := c.newSource(op, name, payload, kind)
	if err != nil {
		return err
	}

	c.regMu.Lock()
	defer c.regMu.Unlock()
	if err = c.evict(op, name); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err = c.claimLocked(OpAdd, op, name); err != nil {
		return err
	}
	e := &entry{name: name, shared: shared, source: src}
	if kind == KindAbstractFactory {
		// Bound to concrete names only when a probe matches.
		c.probes = append(c.probes, e)
	} else {
		c.names[Normalize(name)] = name
		c.entries[name] = e
	}
	if _, isTypeName := payload.(string); kind == KindClass && shared && !isTypeName {
		c.instances[name] = payload
	}
	c.logger.Debug("entry added", "name", name, "kind", kind, "shared", shared)
	return nil
}

// AddClass registers a type name or an instance whose type is constructed on
// resolution.
func (c *Container) AddClass(name string, class any, opts ...EntryOption) error {
	return c.Add(name, class, KindClass, opts...)
}

// AddFactory registers a Factory, a factory type name or a function taking
// the requesting container.
func (c *Container) AddFactory(name string, factory any, opts ...EntryOption) error {
	return c.Add(name, factory, KindFactory, opts...)
}

// AddAbstractFactory registers an AbstractFactory or its type name. name only
// identifies the registration; the factory answers for the names it accepts.
func (c *Container) AddAbstractFactory(name string, factory any, opts ...EntryOption) error {
	return c.Add(name, factory, KindAbstractFactory, opts...)
}

// AddAlias registers name as another way to resolve target.
func (c *Container) AddAlias(name, target string, opts ...EntryOption) error {
	return c.Add(name, target, KindAlias, opts...)
}

// Set stores a ready value under name.
//
//	_ = c.Set("config", cfg)
func (c *Container) Set(name string, instance any) error {
	const op = "set"
	if err := c.checkMutation(OpSet, op, name); err != nil {
		return err
	}
	c.regMu.Lock()
	defer c.regMu.Unlock()
	if err := c.evict(op, name); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.claimLocked(OpSet, op, name); err != nil {
		return err
	}
	c.names[Normalize(name)] = name
	c.instances[name] = instance
	c.logger.Debug("instance set", "name", name)
	return nil
}

// Remove deletes the entry under name along with its cached instance.
// Removing an absent name is a no-op; removing an existing one requires
// overriding to be allowed.
func (c *Container) Remove(name string) error {
	const op = "remove"
	if err := c.checkMutation(OpRemove, op, name); err != nil {
		return err
	}
	c.regMu.Lock()
	defer c.regMu.Unlock()
	return c.evict(op, name)
}

// evict removes whatever is registered under name, if anything.
func (c *Container) evict(op, name string) error {
	if !c.Has(name) && !c.hasRegistration(name) {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.allowOverride {
		return newError(op, name, ErrNotAllowed, "an entry with this name exists")
	}
	c.removeLocked(name)
	c.logger.Debug("entry removed", "name", name)
	return nil
}

// claimLocked re-checks the lock and name just before an insert. A probe
// from a concurrent Has may have bound name since evict ran. Must hold mu.
func (c *Container) claimLocked(o Operation, op, name string) error {
	if err := c.state.permits(o); err != nil {
		return err
	}
	if _, bound := c.names[Normalize(name)]; !bound {
		return nil
	}
	if !c.allowOverride {
		return newError(op, name, ErrNotAllowed, "an entry with this name exists")
	}
	c.removeLocked(name)
	return nil
}

// removeLocked must hold mu.
func (c *Container) removeLocked(name string) {
	normalized := Normalize(name)
	if original, ok := c.names[normalized]; ok {
		delete(c.entries, original)
		delete(c.instances, original)
		delete(c.names, normalized)
	}
	c.probes = slices.DeleteFunc(c.probes, func(e *entry) bool {
		return Normalize(e.name) == normalized
	})
}

// hasRegistration reports whether an abstract factory was registered under
// name itself.
func (c *Container) hasRegistration(name string) bool {
	normalized := Normalize(name)
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.ContainsFunc(c.probes, func(e *entry) bool {
		return Normalize(e.name) == normalized
	})
}

func (c *Container) checkMutation(o Operation, op, name string) error {
	c.mu.Lock()
	err := c.state.permits(o)
	c.mu.Unlock()
	if err != nil {
		return err
	}
	if !validName(name) {
		return newError(op, name, ErrInvalidName, "name must not be blank")
	}
	return nil
}

// ── Flags ─────────────────────────────────────────────────────────────────────

func (c *Container) setFlag(flag *bool, value bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.state.permits(OpSetFlag); err != nil {
		return err
	}
	*flag = value
	return nil
}

// SetAllowOverride sets whether existing entries and the delegator may be
// replaced.
func (c *Container) SetAllowOverride(allow bool) error {
	return c.setFlag(&c.allowOverride, allow)
}

// AllowsOverride reports the override flag.
func (c *Container) AllowsOverride() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.allowOverride
}

// SetAutoLock sets whether the first Get locks the container.
func (c *Container) SetAutoLock(autoLock bool) error {
	return c.setFlag(&c.autoLock, autoLock)
}

// AutoLock reports the auto-lock flag.
func (c *Container) AutoLock() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.autoLock
}

// SetSharedByDefault sets the shared flag used when Add is not given one.
func (c *Container) SetSharedByDefault(shared bool) error {
	return c.setFlag(&c.sharedByDefault, shared)
}

// SharedByDefault reports the shared-by-default flag.
func (c *Container) SharedByDefault() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sharedByDefault
}

// Lock freezes the container: every mutation fails with ErrLocked until
// Unlock. Get and Has keep working.
func (c *Container) Lock() {
	c.transition(OpLock)
}

// Unlock reopens a locked container.
func (c *Container) Unlock() {
	c.transition(OpUnlock)
}

// Locked reports whether the container is locked.
func (c *Container) Locked() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == stateLocked
}

func (c *Container) transition(op Operation) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.transitionLocked(op)
}

func (c *Container) transitionLocked(op Operation) {
	next := c.state.next(op)
	if next != c.state {
		c.logger.Debug("container state changed", "from", c.state, "to", next)
	}
	c.state = next
}

// SetDelegator makes d the container handed to factories, typically the
// Composite this container belongs to.
func (c *Container) SetDelegator(d Resolver) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.state.permits(OpSetDelegator); err != nil {
		return err
	}
	if c.delegator != nil && !c.allowOverride {
		return newError("set delegator", "", ErrNotAllowed, "a delegator is already set")
	}
	c.delegator = d
	return nil
}

// Delegator returns the delegator, or nil.
func (c *Container) Delegator() Resolver {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.delegator
}

// EffectiveContainer returns what factories are handed: the delegator when
// set, otherwise c.
func (c *Container) EffectiveContainer() Resolver {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.effectiveLocked()
}

func (c *Container) effectiveLocked() Resolver {
	if c.delegator != nil {
		return c.delegator
	}
	return c
}

// Types returns the type registry string payloads are looked up in.
func (c *Container) Types() *TypeRegistry { return c.types }

// Logger returns the container's logger.
func (c *Container) Logger() *logging.Logger { return c.logger }

// ── Lookup ────────────────────────────────────────────────────────────────────

// Has reports whether name can be resolved. When no entry is bound to name,
// abstract factories are asked in registration order; the first one that
// accepts it is bound to name for good.
func (c *Container) Has(name string) bool {
	c.mu.Lock()
	_, ok := c.names[Normalize(name)]
	c.mu.Unlock()
	if ok {
		return true
	}
	return c.probe(name)
}

// Names returns a copy of the normalized → original name mapping.
func (c *Container) Names() map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]string, len(c.names))
	for k, v := range c.names {
		out[k] = v
	}
	return out
}

// Description is a read-only view of one registration.
type Description struct {
	Name     string `json:"name"`
	Kind     string `json:"kind"`
	Shared   bool   `json:"shared"`
	Resolved bool   `json:"resolved"`
	// Pattern marks an abstract factory registration, which answers for
	// other names rather than its own.
	Pattern bool `json:"pattern,omitempty"`
}

// InstanceKind is the Description kind of names holding a value stored with
// Set.
const InstanceKind = "instance"

// Describe returns the registration bound to name. Unlike Has it never asks
// abstract factories.
func (c *Container) Describe(name string) (Description, error) {
	normalized := Normalize(name)
	c.mu.Lock()
	defer c.mu.Unlock()
	if original, ok := c.names[normalized]; ok {
		return c.describeLocked(original), nil
	}
	for _, e := range c.probes {
		if Normalize(e.name) == normalized {
			return describeProbe(e), nil
		}
	}
	return Description{}, newError("describe", name, ErrNotFound, "")
}

// Descriptions returns every registration, sorted by name.
func (c *Container) Descriptions() []Description {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Description, 0, len(c.names)+len(c.probes))
	for _, original := range c.names {
		out = append(out, c.describeLocked(original))
	}
	for _, e := range c.probes {
		out = append(out, describeProbe(e))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (c *Container) describeLocked(original string) Description {
	_, resolved := c.instances[original]
	d := Description{Name: original, Kind: InstanceKind, Shared: true, Resolved: resolved}
	if e, ok := c.entries[original]; ok {
		d.Kind = e.source.kind().String()
		d.Shared = e.shared
	}
	return d
}

func describeProbe(e *entry) Description {
	return Description{
		Name:    e.name,
		Kind:    KindAbstractFactory.String(),
		Shared:  e.shared,
		Pattern: true,
	}
}
