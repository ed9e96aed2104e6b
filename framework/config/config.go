package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/km-arc/go-container/framework/container"
)

// Config is the central typed configuration struct.
type Config struct {
	App       AppConfig
	Container ContainerConfig
	Log       LogConfig
}

// AppConfig is read from APP_* variables.
type AppConfig struct {
	Name string `envconfig:"NAME" default:"containerctl"`
	Env  string `envconfig:"ENV" default:"local"` // local | production | testing
	Port string `envconfig:"PORT" default:"8000"`
}

// ContainerConfig is read from CONTAINER_* variables. The defaults are the
// container's own.
type ContainerConfig struct {
	SharedByDefault bool `envconfig:"SHARED_BY_DEFAULT" default:"true"`
	AllowOverride   bool `envconfig:"ALLOW_OVERRIDE" default:"false"`
	AutoLock        bool `envconfig:"AUTO_LOCK" default:"true"`
	// File is an optional YAML document applied to the root container.
	File string `envconfig:"FILE"`
}

// LogConfig is read from LOG_* variables.
type LogConfig struct {
	Level  string `envconfig:"LEVEL" default:"INFO"`
	Format string `envconfig:"FORMAT" default:"console"`
}

// Load reads the given .env files (".env" when none are given) and
// populates a Config from environment variables. Variables already set in
// the environment win over .env entries; missing files are skipped.
//
//	cfg, err := config.Load()
func Load(envFiles ...string) (*Config, error) {
	files := envFiles
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil {
			// Non-fatal: .env may not exist in production
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("error loading env file %s: %w", file, err)
		}
	}

	cfg := &Config{}
	sections := []struct {
		prefix string
		target any
	}{
		{"APP", &cfg.App},
		{"CONTAINER", &cfg.Container},
		{"LOG", &cfg.Log},
	}
	for _, section := range sections {
		if err := envconfig.Process(section.prefix, section.target); err != nil {
			return nil, fmt.Errorf("error processing %s configuration: %w", section.prefix, err)
		}
	}
	return cfg, nil
}

// Options turns the container settings into options for container.New.
func (c ContainerConfig) Options() []container.Option {
	return []container.Option{
		container.WithSharedByDefault(c.SharedByDefault),
		container.WithAllowOverride(c.AllowOverride),
		container.WithAutoLock(c.AutoLock),
	}
}

// Get returns a raw env value, falling back to defaultVal.
func Get(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

// GetBool returns a bool env value, falling back to defaultVal when unset or
// unparsable.
func GetBool(key string, defaultVal bool) bool {
	b, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultVal
	}
	return b
}
