package jsonschema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePointerFragmentForm(t *testing.T) {
	p, err := ParsePointer("#/properties/name")
	require.NoError(t, err)
	assert.Equal(t, []string{"properties", "name"}, p.Tokens())
}

func TestParsePointerPlainForm(t *testing.T) {
	p, err := ParsePointer("/a/b/0")
	require.NoError(t, err)
	assert.Equal(t, "/a/b/0", p.String())
}

func TestParsePointerEmpty(t *testing.T) {
	p, err := ParsePointer("#")
	require.NoError(t, err)
	assert.Empty(t, p.Tokens())
	assert.Equal(t, "", p.String())
}

func TestPointerAppendEscapesOnRender(t *testing.T) {
	p := NewPointer("$defs").Append("a/b").Append("c~d")
	assert.Equal(t, "/$defs/a~1b/c~0d", p.String())
}

func TestPointerEvaluateObjectAndArray(t *testing.T) {
	doc, err := ParseValue([]byte(`{"a": {"b": [10, 20, 30]}}`))
	require.NoError(t, err)

	p := NewPointer("a", "b", "1")
	v, err := p.Evaluate(doc)
	require.NoError(t, err)
	assert.Equal(t, "20", v.Num.String())
}

func TestPointerEvaluateMissingToken(t *testing.T) {
	doc, err := ParseValue([]byte(`{"a": 1}`))
	require.NoError(t, err)

	p := NewPointer("b")
	_, err = p.Evaluate(doc)
	require.Error(t, err)
	var perr *JSONPointerError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, ErrPointerTokenNotFound, perr.Kind)
}

func TestPointerEvaluateIndexOutOfRange(t *testing.T) {
	doc, err := ParseValue([]byte(`[1, 2]`))
	require.NoError(t, err)

	p := NewPointer("5")
	_, err = p.Evaluate(doc)
	require.Error(t, err)
	var perr *JSONPointerError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, ErrPointerIndexRange, perr.Kind)
}
