package providers

import (
	"github.com/km-arc/go-container/framework/config"
	"github.com/km-arc/go-container/framework/container"
	"github.com/km-arc/go-container/framework/inspect"
	"github.com/km-arc/go-container/framework/logging"
	"github.com/km-arc/go-container/framework/routing"
)

// ── ConfigServiceProvider ─────────────────────────────────────────────────────

// ConfigServiceProvider binds the loaded configuration.
//
// Bound names:
//   - "config"         → *config.Config
//   - "configuration"  → alias of "config"
type ConfigServiceProvider struct {
	container.BaseProvider
	Config *config.Config
}

func (p *ConfigServiceProvider) Register(app *container.Container) error {
	if err := app.Set("config", p.Config); err != nil {
		return err
	}
	return app.AddAlias("configuration", "config")
}

// ── LoggerServiceProvider ─────────────────────────────────────────────────────

// LoggerServiceProvider binds the application logger.
//
// Bound names:
//   - "logger"  → *logging.Logger
type LoggerServiceProvider struct {
	container.BaseProvider
	Logger *logging.Logger
}

func (p *LoggerServiceProvider) Register(app *container.Container) error {
	return app.Set("logger", p.Logger)
}

// ── RoutingServiceProvider ────────────────────────────────────────────────────

// RoutingServiceProvider registers the HTTP router.
//
// Bound names:
//   - "router"  → *routing.Router
type RoutingServiceProvider struct {
	container.BaseProvider
}

func (p *RoutingServiceProvider) Register(app *container.Container) error {
	return app.AddFactory("router", func(c container.Resolver) (any, error) {
		logger, err := container.Resolve[*logging.Logger](c, "logger")
		if err != nil {
			return nil, err
		}
		return routing.New(logger), nil
	}, container.Shared(true))
}

// ── InspectorServiceProvider ──────────────────────────────────────────────────

// InspectorServiceProvider adds the read-only inspector routes of Target to
// the router. It is deferred: nothing happens until "inspector" is first
// resolved.
//
// Bound names:
//   - "inspector"  → http.Handler (the router, with the routes added)
type InspectorServiceProvider struct {
	container.BaseProvider
	Target inspect.Inspectable
}

func (p *InspectorServiceProvider) Register(app *container.Container) error {
	return app.AddFactory("inspector", func(c container.Resolver) (any, error) {
		router, err := container.Resolve[*routing.Router](c, "router")
		if err != nil {
			return nil, err
		}
		inspect.Register(router, p.Target)
		return router, nil
	}, container.Shared(true))
}

func (p *InspectorServiceProvider) IsDeferred() bool   { return true }
func (p *InspectorServiceProvider) Provides() []string { return []string{"inspector"} }
