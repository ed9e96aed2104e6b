package container

import "slices"

// probe asks each abstract factory, in registration order, whether it can
// create name. The first match is bound to name as a regular entry so later
// lookups never ask again.
func (c *Container) probe(name string) bool {
	c.mu.Lock()
	probes := slices.Clone(c.probes)
	effective := c.effectiveLocked()
	c.mu.Unlock()

	for _, p := range probes {
		src := p.source.(abstractFactorySource)
		f, err := src.factory.get()
		if err != nil {
			c.logger.Error(err, "abstract factory unusable", "registration", p.name)
			continue
		}
		if !f.CanCreate(effective, name) {
			continue
		}
		c.bindProbe(p, name)
		return true
	}
	return false
}

func (c *Container) bindProbe(p *entry, name string) {
	normalized := Normalize(name)
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, bound := c.names[normalized]; bound {
		return
	}
	c.names[normalized] = name
	c.entries[name] = &entry{name: name, shared: p.shared, source: p.source}
	c.logger.Debug("abstract factory matched", "name", name, "registration", p.name)
}
