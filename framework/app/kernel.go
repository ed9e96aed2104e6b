package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/km-arc/go-container/framework/config"
	"github.com/km-arc/go-container/framework/container"
	"github.com/km-arc/go-container/framework/logging"
	"github.com/km-arc/go-container/framework/providers"
)

// Version is reported at startup.
const Version = "0.1.0"

// Application ties the configuration, the containers and the providers
// together.
//
// The embedded Container holds framework services registered by providers.
// Services holds the application's own entries, seeded from the container
// file named in the configuration. Root chains the two, Services first, and
// is what every factory receives.
type Application struct {
	*container.Container
	Services  *container.Container
	Root      *container.Composite
	Providers *container.ProviderRegistry

	cfg    *config.Config
	logger *logging.Logger
}

// NewLogger builds the logger described by cfg.
func NewLogger(cfg config.LogConfig) (*logging.Logger, error) {
	level, err := logging.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	format, err := logging.ParseFormat(cfg.Format)
	if err != nil {
		return nil, err
	}
	return logging.NewLogger(level, format)
}

// New creates the application and registers the framework providers.
func New(cfg *config.Config, logger *logging.Logger) (*Application, error) {
	types := container.NewTypeRegistry()
	if err := RegisterBuiltinTypes(types); err != nil {
		return nil, err
	}

	framework := container.New(
		container.WithTypes(types),
		container.WithLogger(logger.WithValues("container", "framework")),
	)
	services := container.New(append(
		cfg.Container.Options(),
		container.WithTypes(types),
		container.WithLogger(logger.WithValues("container", "services")),
	)...)
	if cfg.Container.File != "" {
		doc, err := container.LoadConfigFile(cfg.Container.File)
		if err != nil {
			return nil, err
		}
		if err = services.Apply(doc); err != nil {
			return nil, fmt.Errorf("error applying container file %s: %w", cfg.Container.File, err)
		}
		logger.Debug("container file applied", "file", cfg.Container.File)
	}

	root, err := container.NewComposite(services, framework)
	if err != nil {
		return nil, err
	}

	a := &Application{
		Container: framework,
		Services:  services,
		Root:      root,
		Providers: container.NewProviderRegistry(framework),
		cfg:       cfg,
		logger:    logger,
	}
	for _, provider := range []container.ServiceProvider{
		&providers.ConfigServiceProvider{Config: cfg},
		&providers.LoggerServiceProvider{Logger: logger},
		&providers.RoutingServiceProvider{},
		&providers.InspectorServiceProvider{Target: services},
	} {
		if err = a.Register(provider); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// Register adds a ServiceProvider to the application.
func (a *Application) Register(provider container.ServiceProvider) error {
	return a.Providers.Register(provider)
}

// Boot runs the Boot phase on all providers.
func (a *Application) Boot() error {
	return a.Providers.Boot()
}

// Config resolves *config.Config from the root container.
func (a *Application) Config() (*config.Config, error) {
	return container.Resolve[*config.Config](a.Root, "config")
}

// Logger returns the application logger.
func (a *Application) Logger() *logging.Logger { return a.logger }

// Run listens on the configured port and serves until ctx is done.
func (a *Application) Run(ctx context.Context) error {
	l, err := net.Listen("tcp", ":"+a.cfg.App.Port)
	if err != nil {
		return fmt.Errorf("error creating listener: %w", err)
	}
	defer l.Close()
	return a.Serve(ctx, l)
}

// Serve boots the application if needed and serves the inspector on l until
// ctx is done.
func (a *Application) Serve(ctx context.Context, l net.Listener) error {
	if !a.Providers.Booted() {
		if err := a.Boot(); err != nil {
			return err
		}
	}
	handler, err := container.Resolve[http.Handler](a.Root, "inspector")
	if err != nil {
		return fmt.Errorf("error resolving inspector: %w", err)
	}

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: time.Minute,
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(l)
	}()

	a.logger.Info(
		"Server is listening",
		"app", a.cfg.App.Name,
		"env", a.cfg.App.Env,
		"version", Version,
		"address", l.Addr().String(),
	)

	select {
	case <-ctx.Done():
		a.logger.Info("Gracefully stopping server...")
		return srv.Shutdown(context.Background())
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// Environment returns the APP_ENV value.
func (a *Application) Environment() string { return a.cfg.App.Env }
func (a *Application) IsLocal() bool       { return a.Environment() == "local" }
func (a *Application) IsProduction() bool  { return a.Environment() == "production" }
func (a *Application) IsTesting() bool     { return a.Environment() == "testing" }
