package jsonschema

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestCatalogue(t *testing.T, versions ...string) *Catalogue {
	t.Helper()
	cat, err := NewCatalogue(versions)
	require.NoError(t, err)
	return cat
}

func compileDoc(t *testing.T, cat *Catalogue, schemaJSON string) *Schema {
	t.Helper()
	doc, err := ParseValue([]byte(schemaJSON))
	require.NoError(t, err)
	schema, err := Compile(doc, cat)
	require.NoError(t, err)
	return schema
}

func mustParse(t *testing.T, instanceJSON string) *Value {
	t.Helper()
	v, err := ParseValue([]byte(instanceJSON))
	require.NoError(t, err)
	return v
}

func TestBasicTypeAndPropertiesValidation2020(t *testing.T) {
	cat := newTestCatalogue(t, "2020-12")
	schema := compileDoc(t, cat, `{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"type": "object",
		"properties": {"name": {"type": "string"}, "age": {"type": "integer", "minimum": 0}},
		"required": ["name"]
	}`)

	ok := schema.Evaluate(mustParse(t, `{"name": "ada", "age": 36}`))
	require.True(t, ok.Valid())

	badType := schema.Evaluate(mustParse(t, `{"name": "ada", "age": -1}`))
	require.False(t, badType.Valid())

	missingRequired := schema.Evaluate(mustParse(t, `{"age": 5}`))
	require.False(t, missingRequired.Valid())
}

func TestUnevaluatedPropertiesAcrossAllOf2020(t *testing.T) {
	cat := newTestCatalogue(t, "2020-12")
	schema := compileDoc(t, cat, `{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"allOf": [
			{"properties": {"a": {"type": "string"}}},
			{"properties": {"b": {"type": "string"}}}
		],
		"unevaluatedProperties": false
	}`)

	ok := schema.Evaluate(mustParse(t, `{"a": "x", "b": "y"}`))
	require.True(t, ok.Valid())

	bad := schema.Evaluate(mustParse(t, `{"a": "x", "c": "z"}`))
	require.False(t, bad.Valid())
}

func TestMinContainsIndependentOfContainsValidity(t *testing.T) {
	cat := newTestCatalogue(t, "2020-12")
	schema := compileDoc(t, cat, `{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"contains": {"type": "number", "minimum": 10},
		"minContains": 2
	}`)

	ok := schema.Evaluate(mustParse(t, `[1, 11, 12, 2]`))
	require.True(t, ok.Valid())

	tooFew := schema.Evaluate(mustParse(t, `[1, 11, 2]`))
	require.False(t, tooFew.Valid())
}

func TestDynamicRefRecursesThroughOwnAnchor2020(t *testing.T) {
	cat := newTestCatalogue(t, "2020-12")
	schema := compileDoc(t, cat, `{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"$id": "https://example.com/tree",
		"$dynamicAnchor": "node",
		"type": "object",
		"properties": {
			"children": {"type": "array", "items": {"$dynamicRef": "#node"}}
		}
	}`)

	ok := schema.Evaluate(mustParse(t, `{"children": [{"children": []}, {"children": [{"children": []}]}]}`))
	require.True(t, ok.Valid())

	bad := schema.Evaluate(mustParse(t, `{"children": [{"children": "not-an-array"}]}`))
	require.False(t, bad.Valid())
}

func TestRecursiveRefLegacy201909(t *testing.T) {
	cat := newTestCatalogue(t, "2019-09")
	schema := compileDoc(t, cat, `{
		"$schema": "https://json-schema.org/draft/2019-09/schema",
		"$id": "https://example.com/tree",
		"$recursiveAnchor": true,
		"type": "object",
		"properties": {
			"children": {"type": "array", "items": {"$recursiveRef": "#"}}
		}
	}`)

	ok := schema.Evaluate(mustParse(t, `{"children": [{"children": []}, {"children": [{"children": []}]}]}`))
	require.True(t, ok.Valid())

	bad := schema.Evaluate(mustParse(t, `{"children": [{"children": "not-an-array"}]}`))
	require.False(t, bad.Valid())
}

func TestFormatAnnotationOnlyBy201909Default(t *testing.T) {
	cat := newTestCatalogue(t, "2019-09")
	schema := compileDoc(t, cat, `{
		"$schema": "https://json-schema.org/draft/2019-09/schema",
		"type": "string",
		"format": "email"
	}`)

	result := schema.Evaluate(mustParse(t, `"not-an-email"`))
	require.True(t, result.Valid(), "2019-09 format vocabulary is annotation-only by default")
}

func TestDraft7DefinitionsAliasIsReachableByRef(t *testing.T) {
	cat := newTestCatalogue(t, "2020-12")
	schema := compileDoc(t, cat, `{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"definitions": {"pos": {"type": "integer", "exclusiveMinimum": 0}},
		"type": "object",
		"properties": {"count": {"$ref": "#/definitions/pos"}}
	}`)

	ok := schema.Evaluate(mustParse(t, `{"count": 3}`))
	require.True(t, ok.Valid())

	bad := schema.Evaluate(mustParse(t, `{"count": 0}`))
	require.False(t, bad.Valid())
}

func TestRefResolvesSiblingDefs(t *testing.T) {
	cat := newTestCatalogue(t, "2020-12")
	schema := compileDoc(t, cat, `{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"$defs": {"pos": {"type": "integer", "exclusiveMinimum": 0}},
		"type": "object",
		"properties": {"count": {"$ref": "#/$defs/pos"}}
	}`)

	ok := schema.Evaluate(mustParse(t, `{"count": 3}`))
	require.True(t, ok.Valid())

	bad := schema.Evaluate(mustParse(t, `{"count": 0}`))
	require.False(t, bad.Valid())
}
