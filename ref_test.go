package jsonschema

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefSelfCycleThatNeverAdvancesInstancePanicsInfiniteRecursion(t *testing.T) {
	cat := newTestCatalogue(t, "2020-12")
	schema := compileDoc(t, cat, `{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"$ref": "#"
	}`)

	defer func() {
		r := recover()
		require.NotNil(t, r, "expected a panic from the reference cycle")
		err, ok := r.(error)
		require.True(t, ok, "panic value must be an error")
		var schemaErr *JSONSchemaError
		require.True(t, errors.As(err, &schemaErr))
		assert.Equal(t, ErrInfiniteRecursion, schemaErr.Kind)
	}()

	schema.Evaluate(mustParse(t, `{"anything": 1}`))
	t.Fatal("expected Evaluate to panic before returning")
}

func TestRefAcrossSiblingResourcesResolvesForwardReference(t *testing.T) {
	cat := newTestCatalogue(t, "2020-12")
	schema := compileDoc(t, cat, `{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"$id": "https://example.com/root",
		"type": "object",
		"properties": {
			"value": {"$ref": "https://example.com/leaf"}
		},
		"$defs": {
			"leafHolder": {
				"$id": "https://example.com/leaf",
				"type": "integer",
				"minimum": 0
			}
		}
	}`)

	ok := schema.Evaluate(mustParse(t, `{"value": 3}`))
	require.True(t, ok.Valid())

	bad := schema.Evaluate(mustParse(t, `{"value": -1}`))
	require.False(t, bad.Valid())
}
