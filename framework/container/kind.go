package container

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Kind selects how an entry is resolved. The numeric values match the type
// codes accepted by configuration files.
type Kind int

const (
	KindClass Kind = iota + 1
	KindFactory
	KindAbstractFactory
	KindAlias
)

var kindNames = map[Kind]string{
	KindClass:           "class",
	KindFactory:         "factory",
	KindAbstractFactory: "abstract_factory",
	KindAlias:           "alias",
}

// Kinds returns every valid kind in code order.
func Kinds() []Kind {
	return []Kind{KindClass, KindFactory, KindAbstractFactory, KindAlias}
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool {
	_, ok := kindNames[k]
	return ok
}

// ParseKind accepts a kind name ("factory", "abstract-factory", ...) or its
// numeric code ("2").
func ParseKind(s string) (Kind, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		if k := Kind(n); k.Valid() {
			return k, nil
		}
	} else {
		want := Normalize(s)
		for k, name := range kindNames {
			if Normalize(name) == want {
				return k, nil
			}
		}
	}
	return 0, newError("parse kind", "", ErrInvalidArgument,
		"%q is not one of %v", s, Kinds())
}

func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("cannot marshal invalid kind %d", int(k))
	}
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

func (k *Kind) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return newError("parse kind", "", ErrInvalidArgument,
			"line %d: expected a scalar", node.Line)
	}
	return k.UnmarshalText([]byte(node.Value))
}
