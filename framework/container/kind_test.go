package container_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/km-arc/go-container/framework/container"
)

func TestParseKind(t *testing.T) {
	testCases := []struct {
		input    string
		expected container.Kind
		wantErr  bool
	}{
		{input: "1", expected: container.KindClass},
		{input: "2", expected: container.KindFactory},
		{input: "3", expected: container.KindAbstractFactory},
		{input: "4", expected: container.KindAlias},
		{input: "class", expected: container.KindClass},
		{input: "Abstract-Factory", expected: container.KindAbstractFactory},
		{input: " alias ", expected: container.KindAlias},
		{input: "0", wantErr: true},
		{input: "5", wantErr: true},
		{input: "service", wantErr: true},
		{input: "", wantErr: true},
	}
	for _, testCase := range testCases {
		t.Run(testCase.input, func(t *testing.T) {
			kind, err := container.ParseKind(testCase.input)
			if testCase.wantErr {
				require.ErrorIs(t, err, container.ErrInvalidArgument)
				return
			}
			require.NoError(t, err)
			require.Equal(t, testCase.expected, kind)
		})
	}
}

func TestKind_String(t *testing.T) {
	require.Equal(t, "abstract_factory", container.KindAbstractFactory.String())
	require.Equal(t, "kind(7)", container.Kind(7).String())
	require.False(t, container.Kind(0).Valid())
	require.Equal(t, []container.Kind{
		container.KindClass, container.KindFactory, container.KindAbstractFactory, container.KindAlias,
	}, container.Kinds())
}

func TestKind_YAML(t *testing.T) {
	var doc struct {
		Kinds []container.Kind `yaml:"kinds"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("kinds: [1, factory, abstract_factory, 4]"), &doc))
	require.Equal(t, container.Kinds(), doc.Kinds)

	out, err := yaml.Marshal(doc)
	require.NoError(t, err)
	require.Equal(t, "kinds:\n    - class\n    - factory\n    - abstract_factory\n    - alias\n", string(out))

	err = yaml.Unmarshal([]byte("kinds: [{a: b}]"), &doc)
	require.ErrorIs(t, err, container.ErrInvalidArgument)

	_, err = container.Kind(0).MarshalText()
	require.Error(t, err)
}
