// Package container provides a name-keyed object registry.
//
// # Overview
//
// A Container maps names to entries and resolves them on demand. Names are
// compared after normalization (lowercase ASCII letters and digits only), so
// "Mail.Transport", "mail_transport" and "mailtransport" are the same entry.
// The spelling used at registration is kept for display and as the key of
// the shared instance cache.
//
// # Entries
//
//	// A ready value.
//	c.Set("config", cfg)
//
//	// A type, constructed on each resolution (or once, when shared).
//	c.AddClass("clock", "app.Clock")
//	c.AddClass("clock", &Clock{}, container.Shared(false))
//
//	// A factory, invoked with the requesting container.
//	c.AddFactory("mailer", func(c container.Resolver) (any, error) {
//	    cfg, err := container.Resolve[*Config](c, "config")
//	    if err != nil {
//	        return nil, err
//	    }
//	    return NewMailer(cfg), nil
//	})
//
//	// An abstract factory, answering for every name it accepts.
//	c.AddAbstractFactory("repositories", &RepositoryFactory{})
//
//	// Another name for an existing entry.
//	c.AddAlias("mail", "mailer")
//
// String payloads name types registered in a TypeRegistry (DefaultTypes
// unless WithTypes is given).
//
// # Resolving
//
//	raw, err := c.Get("mailer")
//	mailer, err := container.Resolve[*Mailer](c, "mailer")
//
// Shared entries are built once and cached; others are built on every Get.
// Factory errors are returned unchanged.
//
// # Locking and overrides
//
// With auto-lock on (the default) the first Get locks the container, after
// which Add, Set, Remove, flag setters and SetDelegator fail with ErrLocked.
// Replacing or removing an existing entry requires WithAllowOverride(true).
//
// # Composites
//
// A Composite chains containers: a name is served by the first member that
// has it, and members hand the composite to their factories so dependencies
// resolve across the whole chain.
//
// # Providers and configuration
//
// ProviderRegistry registers and boots ServiceProviders; deferred providers
// load only when one of their names is first requested. FromConfig and
// Apply build containers from a YAML document (see Config).
package container
