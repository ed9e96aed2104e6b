package providers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-container/framework/config"
	"github.com/km-arc/go-container/framework/container"
	"github.com/km-arc/go-container/framework/logging"
	"github.com/km-arc/go-container/framework/providers"
	"github.com/km-arc/go-container/framework/routing"
)

func newRegistry(t *testing.T, ps ...container.ServiceProvider) (*container.Container, *container.ProviderRegistry) {
	t.Helper()
	app := container.New()
	registry := container.NewProviderRegistry(app)
	for _, p := range ps {
		require.NoError(t, registry.Register(p))
	}
	return app, registry
}

// ── Config / Logger ──────────────────────────────────────────────────────────

func TestConfigServiceProvider(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Name: "test"}}
	app, _ := newRegistry(t, &providers.ConfigServiceProvider{Config: cfg})

	got, err := container.Resolve[*config.Config](app, "config")
	require.NoError(t, err)
	require.Same(t, cfg, got)

	aliased, err := container.Resolve[*config.Config](app, "Configuration")
	require.NoError(t, err)
	require.Same(t, cfg, aliased)
}

func TestLoggerServiceProvider(t *testing.T) {
	logger := logging.NewDiscardLogger()
	app, _ := newRegistry(t, &providers.LoggerServiceProvider{Logger: logger})

	got, err := container.Resolve[*logging.Logger](app, "logger")
	require.NoError(t, err)
	require.Same(t, logger, got)
}

// ── Routing ──────────────────────────────────────────────────────────────────

func TestRoutingServiceProvider_Shared(t *testing.T) {
	app, _ := newRegistry(t,
		&providers.LoggerServiceProvider{Logger: logging.NewDiscardLogger()},
		&providers.RoutingServiceProvider{},
	)

	first, err := container.Resolve[*routing.Router](app, "router")
	require.NoError(t, err)
	second, err := container.Resolve[*routing.Router](app, "router")
	require.NoError(t, err)
	require.Same(t, first, second)
}

func TestRoutingServiceProvider_NeedsLogger(t *testing.T) {
	app, _ := newRegistry(t, &providers.RoutingServiceProvider{})

	_, err := app.Get("router")
	require.ErrorIs(t, err, container.ErrNotFound)
}

// ── Inspector ────────────────────────────────────────────────────────────────

func TestInspectorServiceProvider(t *testing.T) {
	target := container.New()
	require.NoError(t, target.Set("answer", 42))

	app, registry := newRegistry(t,
		&providers.LoggerServiceProvider{Logger: logging.NewDiscardLogger()},
		&providers.RoutingServiceProvider{},
		&providers.InspectorServiceProvider{Target: target},
	)
	require.NoError(t, registry.Boot())

	// Deferred: nothing is registered until "inspector" is asked for.
	require.NotContains(t, app.Names(), "inspector")

	handler, err := container.Resolve[http.Handler](app, "inspector")
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/has/answer", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	var body struct {
		Data struct {
			Name string `json:"name"`
			Has  bool   `json:"has"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.True(t, body.Data.Has)

	// The routes went onto the shared router.
	router, err := container.Resolve[*routing.Router](app, "router")
	require.NoError(t, err)
	require.Same(t, router, handler)
}
