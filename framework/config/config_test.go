package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-container/framework/container"
)

// ── helpers ──────────────────────────────────────────────────────────────────

func writeEnvFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// unsetEnv clears key for the duration of the test.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}

// ── Load ─────────────────────────────────────────────────────────────────────

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"APP_NAME", "APP_ENV", "APP_PORT",
		"CONTAINER_SHARED_BY_DEFAULT", "CONTAINER_ALLOW_OVERRIDE", "CONTAINER_AUTO_LOCK", "CONTAINER_FILE",
		"LOG_LEVEL", "LOG_FORMAT",
	} {
		unsetEnv(t, key)
	}

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	require.Equal(t, &Config{
		App: AppConfig{Name: "containerctl", Env: "local", Port: "8000"},
		Container: ContainerConfig{
			SharedByDefault: container.DefaultSharedByDefault,
			AllowOverride:   container.DefaultAllowOverride,
			AutoLock:        container.DefaultAutoLock,
		},
		Log: LogConfig{Level: "INFO", Format: "console"},
	}, cfg)
}

func TestLoad_EnvOverridesDefaults(t *testing.T) {
	t.Setenv("APP_NAME", "MyApp")
	t.Setenv("APP_PORT", "9000")
	t.Setenv("CONTAINER_ALLOW_OVERRIDE", "true")
	t.Setenv("CONTAINER_AUTO_LOCK", "false")
	t.Setenv("CONTAINER_FILE", "container.yaml")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	require.Equal(t, "MyApp", cfg.App.Name)
	require.Equal(t, "9000", cfg.App.Port)
	require.True(t, cfg.Container.AllowOverride)
	require.False(t, cfg.Container.AutoLock)
	require.Equal(t, "container.yaml", cfg.Container.File)
	require.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_EnvFile(t *testing.T) {
	unsetEnv(t, "APP_ENV")
	unsetEnv(t, "CONTAINER_SHARED_BY_DEFAULT")
	t.Setenv("APP_NAME", "from-env")
	path := writeEnvFile(t, "APP_ENV=testing\nAPP_NAME=from-file\nCONTAINER_SHARED_BY_DEFAULT=false\n")
	t.Cleanup(func() {
		_ = os.Unsetenv("APP_ENV")
		_ = os.Unsetenv("CONTAINER_SHARED_BY_DEFAULT")
	})

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "testing", cfg.App.Env)
	// Variables already set win over the file.
	require.Equal(t, "from-env", cfg.App.Name)
	require.False(t, cfg.Container.SharedByDefault)
}

func TestLoad_InvalidValue(t *testing.T) {
	t.Setenv("CONTAINER_AUTO_LOCK", "sometimes")
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "CONTAINER")
}

func TestLoad_MalformedEnvFile(t *testing.T) {
	path := writeEnvFile(t, "NOT A VALID LINE WITHOUT EQUALS 'quoted\n")
	_, err := Load(path)
	require.Error(t, err)
}

// ── Options ──────────────────────────────────────────────────────────────────

func TestContainerConfig_Options(t *testing.T) {
	cfg := ContainerConfig{SharedByDefault: false, AllowOverride: true, AutoLock: false}
	c := container.New(cfg.Options()...)
	require.False(t, c.SharedByDefault())
	require.True(t, c.AllowsOverride())
	require.False(t, c.AutoLock())
}

// ── Get / GetBool ────────────────────────────────────────────────────────────

func TestGet(t *testing.T) {
	t.Setenv("CUSTOM_KEY", "hello")
	require.Equal(t, "hello", Get("CUSTOM_KEY", "default"))

	unsetEnv(t, "MISSING_KEY")
	require.Equal(t, "fallback", Get("MISSING_KEY", "fallback"))
}

func TestGetBool(t *testing.T) {
	for _, val := range []string{"true", "1", "True", "TRUE"} {
		t.Setenv("BOOL_KEY", val)
		require.True(t, GetBool("BOOL_KEY", false), val)
	}

	t.Setenv("BOOL_KEY", "false")
	require.False(t, GetBool("BOOL_KEY", true))

	t.Setenv("BOOL_KEY", "notabool")
	require.True(t, GetBool("BOOL_KEY", true))
}
