package container_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/km-arc/go-container/framework/container"
)

const fullConfig = `
allow_override: true
auto_lock: false
classes:
  clock: test.Clock
factories:
  mailer: test.CountingFactory
abstract_factories:
  repositories: test.Repos
aliases:
  mail: mailer
  post: mail
  users: repo.users
entries:
  - {type: factory, name: cache, value: test.CountingFactory, shared: false}
  - {type: 4, name: timepiece, value: clock}
`

func TestFromConfig(t *testing.T) {
	cfg, err := container.ParseConfig([]byte(fullConfig))
	require.NoError(t, err)

	types := newTestTypes(t)
	c, err := container.FromConfig(cfg, container.WithTypes(types.TypeRegistry))
	require.NoError(t, err)

	require.True(t, c.AllowsOverride())
	require.False(t, c.AutoLock())
	require.True(t, c.SharedByDefault())

	mailer := mustGet(t, c, "mailer")
	require.Same(t, mailer, mustGet(t, c, "post"))
	require.Same(t, mustGet(t, c, "clock"), mustGet(t, c, "timepiece"))
	require.Equal(t, &repository{Table: "users"}, mustGet(t, c, "users"))
	require.NotSame(t, mustGet(t, c, "cache"), mustGet(t, c, "cache"))
	require.False(t, c.Locked())

	d, err := c.Describe("cache")
	require.NoError(t, err)
	require.Equal(t, "factory", d.Kind)
	require.False(t, d.Shared)
}

func TestBindings_KeepDocumentOrder(t *testing.T) {
	cfg, err := container.ParseConfig([]byte("aliases:\n  z: a\n  b: z\n  a2: b\n"))
	require.NoError(t, err)
	require.Equal(t, container.Bindings{
		{Name: "z", Value: "a"},
		{Name: "b", Value: "z"},
		{Name: "a2", Value: "b"},
	}, cfg.Aliases)

	out, err := yaml.Marshal(cfg)
	require.NoError(t, err)
	require.Equal(t, "aliases:\n    z: a\n    b: z\n    a2: b\n", string(out))
}

func TestParseConfig_JSON(t *testing.T) {
	cfg, err := container.ParseConfig([]byte(`{"shared_by_default": false, "factories": {"a": "test.CountingFactory"}}`))
	require.NoError(t, err)
	require.NotNil(t, cfg.SharedByDefault)
	require.False(t, *cfg.SharedByDefault)
	require.Len(t, cfg.Factories, 1)
}

func TestParseConfig_Malformed(t *testing.T) {
	testCases := map[string]string{
		"not yaml":          "classes: [",
		"section not a map": "classes: [a, b]",
		"bad type code":     "entries:\n  - {type: 9, name: a, value: b}",
		"bad type name":     "entries:\n  - {type: service, name: a, value: b}",
		"flag not a bool":   "auto_lock: sometimes",
	}
	for name, doc := range testCases {
		t.Run(name, func(t *testing.T) {
			_, err := container.ParseConfig([]byte(doc))
			require.ErrorIs(t, err, container.ErrInvalidArgument)
		})
	}
}

func TestFromConfig_MalformedEntries(t *testing.T) {
	testCases := map[string]string{
		"missing name":  "entries:\n  - {type: class, value: test.Widget}",
		"missing type":  "entries:\n  - {name: a, value: test.Widget}",
		"missing value": "entries:\n  - {type: alias, name: a}",
	}
	for name, doc := range testCases {
		t.Run(name, func(t *testing.T) {
			cfg, err := container.ParseConfig([]byte(doc))
			require.NoError(t, err)

			_, err = container.FromConfig(cfg, container.WithTypes(newTestTypes(t).TypeRegistry))
			require.ErrorIs(t, err, container.ErrInvalidArgument)
			var containerErr *container.Error
			require.ErrorAs(t, err, &containerErr)
			require.Equal(t, "entries[0]", containerErr.Name)
		})
	}
}

func TestFromConfig_RegistrationErrorsPropagate(t *testing.T) {
	testCases := map[string]struct {
		doc      string
		expected error
	}{
		"unknown class":       {doc: "classes:\n  a: test.Missing", expected: container.ErrClassNotFound},
		"alias before target": {doc: "aliases:\n  a: b\n  b: c", expected: container.ErrNotFound},
		"duplicate name":      {doc: "classes:\n  a: test.Widget\nfactories:\n  A: test.CountingFactory", expected: container.ErrNotAllowed},
	}
	for name, testCase := range testCases {
		t.Run(name, func(t *testing.T) {
			cfg, err := container.ParseConfig([]byte(testCase.doc))
			require.NoError(t, err)

			_, err = container.FromConfig(cfg, container.WithTypes(newTestTypes(t).TypeRegistry))
			require.ErrorIs(t, err, testCase.expected)
		})
	}
}

func TestApply_LockedContainer(t *testing.T) {
	c := container.New()
	c.Lock()
	err := c.Apply(&container.Config{Aliases: container.Bindings{{Name: "a", Value: "b"}}})
	require.True(t, container.IsLocked(err))
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "container.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fullConfig), 0o600))

	cfg, err := container.LoadConfigFile(path)
	require.NoError(t, err)
	require.Len(t, cfg.Entries, 2)
	require.Equal(t, container.KindAlias, cfg.Entries[1].Type)

	_, err = container.LoadConfigFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
