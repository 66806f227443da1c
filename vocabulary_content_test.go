package jsonschema

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestContentEncodingMediaTypeSchemaChain(t *testing.T) {
	cat := newTestCatalogue(t, "2020-12")
	schema := compileDoc(t, cat, `{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"type": "string",
		"contentEncoding": "base64",
		"contentMediaType": "application/json",
		"contentSchema": {"type": "object", "required": ["ok"]}
	}`)

	payload := base64.StdEncoding.EncodeToString([]byte(`{"ok": true}`))
	result := schema.Evaluate(mustParse(t, `"`+payload+`"`))
	require.True(t, result.Valid())

	badSchema := base64.StdEncoding.EncodeToString([]byte(`{"nope": true}`))
	result = schema.Evaluate(mustParse(t, `"`+badSchema+`"`))
	require.False(t, result.Valid())
}

func TestContentEncodingFailsOnBadBase64(t *testing.T) {
	cat := newTestCatalogue(t, "2020-12")
	schema := compileDoc(t, cat, `{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"type": "string",
		"contentEncoding": "base64"
	}`)

	result := schema.Evaluate(mustParse(t, `"not valid base64!!"`))
	require.False(t, result.Valid())
}

func TestContentMediaTypeWithoutEncodingReadsRawString(t *testing.T) {
	cat := newTestCatalogue(t, "2020-12")
	schema := compileDoc(t, cat, `{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"type": "string",
		"contentMediaType": "application/json"
	}`)

	result := schema.Evaluate(mustParse(t, `"{\"a\": 1}"`))
	require.True(t, result.Valid())

	badJSON := schema.Evaluate(mustParse(t, `"not json"`))
	require.False(t, badJSON.Valid())
}
