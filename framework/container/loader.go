package container

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/km-arc/go-container/framework/validation"
)

// Config is the declarative form of a container.
//
//	shared_by_default: true
//	allow_override: false
//	auto_lock: true
//	classes:
//	  clock: app.Clock
//	factories:
//	  mailer: app.MailerFactory
//	abstract_factories:
//	  repositories: app.RepositoryFactory
//	aliases:
//	  mail: mailer
//	entries:
//	  - {type: factory, name: cache, value: app.CacheFactory, shared: false}
type Config struct {
	SharedByDefault   *bool         `yaml:"shared_by_default,omitempty"`
	AllowOverride     *bool         `yaml:"allow_override,omitempty"`
	AutoLock          *bool         `yaml:"auto_lock,omitempty"`
	Classes           Bindings      `yaml:"classes,omitempty"`
	Factories         Bindings      `yaml:"factories,omitempty"`
	AbstractFactories Bindings      `yaml:"abstract_factories,omitempty"`
	Aliases           Bindings      `yaml:"aliases,omitempty"`
	Entries           []EntryConfig `yaml:"entries,omitempty"`
}

// Binding is one name → payload pair of a Config section.
type Binding struct {
	Name  string
	Value any
}

// Bindings keeps the document order of a YAML mapping, which matters for
// aliases pointing at other aliases.
type Bindings []Binding

func (b *Bindings) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping of names", node.Line)
	}
	out := make(Bindings, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		var binding Binding
		if err := node.Content[i].Decode(&binding.Name); err != nil {
			return err
		}
		if err := node.Content[i+1].Decode(&binding.Value); err != nil {
			return err
		}
		out = append(out, binding)
	}
	*b = out
	return nil
}

func (b Bindings) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, binding := range b {
		var key, value yaml.Node
		if err := key.Encode(binding.Name); err != nil {
			return nil, err
		}
		if err := value.Encode(binding.Value); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, &key, &value)
	}
	return node, nil
}

// EntryConfig is a record of the generic entries list.
type EntryConfig struct {
	Type   Kind   `yaml:"type"`
	Name   string `yaml:"name"`
	Value  any    `yaml:"value"`
	Shared *bool  `yaml:"shared,omitempty"`
}

var entryRules = validation.Rules{
	"name":  "required",
	"type":  "required|in:class,factory,abstract_factory,alias",
	"value": "required",
}

// validate checks the required fields and the type code.
func (e EntryConfig) validate() error {
	record := map[string]string{"name": e.Name}
	switch {
	case e.Type.Valid():
		record["type"] = e.Type.String()
	case e.Type != 0:
		record["type"] = fmt.Sprint(int(e.Type))
	}
	if e.Value != nil {
		record["value"] = fmt.Sprint(e.Value)
	}
	v := validation.Make(record, entryRules)
	if v.Fails() {
		return fmt.Errorf("%s", v.Errors().String())
	}
	return nil
}

// ParseConfig decodes a YAML (or JSON) document.
func ParseConfig(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, newError("parse config", "", ErrInvalidArgument, "%v", err)
	}
	return cfg, nil
}

// LoadConfigFile reads and decodes the config file at path.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading container config %s: %w", path, err)
	}
	return ParseConfig(data)
}

// FromConfig builds a container from cfg: flags first, then classes,
// factories, abstract factories and aliases in document order, then the
// generic entries. The first failure is returned as is.
func FromConfig(cfg *Config, opts ...Option) (*Container, error) {
	c := New(opts...)
	if err := c.Apply(cfg); err != nil {
		return nil, err
	}
	return c, nil
}

// Apply registers everything cfg declares into c.
func (c *Container) Apply(cfg *Config) error {
	flags := []struct {
		value *bool
		set   func(bool) error
	}{
		{cfg.AllowOverride, c.SetAllowOverride},
		{cfg.AutoLock, c.SetAutoLock},
		{cfg.SharedByDefault, c.SetSharedByDefault},
	}
	for _, flag := range flags {
		if flag.value == nil {
			continue
		}
		if err := flag.set(*flag.value); err != nil {
			return err
		}
	}

	sections := []struct {
		kind     Kind
		bindings Bindings
	}{
		{KindClass, cfg.Classes},
		{KindFactory, cfg.Factories},
		{KindAbstractFactory, cfg.AbstractFactories},
		{KindAlias, cfg.Aliases},
	}
	for _, section := range sections {
		for _, binding := range section.bindings {
			if err := c.Add(binding.Name, binding.Value, section.kind); err != nil {
				return err
			}
		}
	}

	shared := c.SharedByDefault()
	for i, record := range cfg.Entries {
		if err := record.validate(); err != nil {
			return newError("load config", fmt.Sprintf("entries[%d]", i), ErrInvalidArgument, "%v", err)
		}
		entryShared := shared
		if record.Shared != nil {
			entryShared = *record.Shared
		}
		if err := c.Add(record.Name, record.Value, record.Type, Shared(entryShared)); err != nil {
			return err
		}
	}
	return nil
}
