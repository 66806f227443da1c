package jsonschema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseValueDecodesExactDecimals(t *testing.T) {
	v, err := ParseValue([]byte(`{"a": 1.50, "b": [1, 2, 3], "c": null, "d": true}`))
	require.NoError(t, err)
	assert.Equal(t, ObjectValue, v.Kind)
	assert.Equal(t, "1.5", v.Prop("a").Num.String())
	assert.Equal(t, 3, v.Prop("b").Len())
	assert.Equal(t, NullValue, v.Prop("c").Kind)
	assert.True(t, v.Prop("d").Boolean)
}

func TestValueEqualNumberExactness(t *testing.T) {
	a, err := FromAny(1)
	require.NoError(t, err)
	b, err := FromAny(1.0)
	require.NoError(t, err)
	assert.True(t, a.Equal(b))
}

func TestValueEqualObjectIgnoresKeyOrder(t *testing.T) {
	a, err := FromAny(map[string]any{"x": 1, "y": 2})
	require.NoError(t, err)
	b, err := FromAny(map[string]any{"y": 2, "x": 1})
	require.NoError(t, err)
	assert.True(t, a.Equal(b))
}

func TestValueEqualArrayOrderSensitive(t *testing.T) {
	a, err := FromAny([]any{1, 2})
	require.NoError(t, err)
	b, err := FromAny([]any{2, 1})
	require.NoError(t, err)
	assert.False(t, a.Equal(b))
}

func TestValueTypeNameNeverReportsInteger(t *testing.T) {
	v, err := FromAny(5)
	require.NoError(t, err)
	assert.Equal(t, "number", v.TypeName())
}
