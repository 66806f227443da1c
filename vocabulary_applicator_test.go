package jsonschema

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAllOfAnyOfOneOfNot(t *testing.T) {
	cat := newTestCatalogue(t, "2020-12")
	schema := compileDoc(t, cat, `{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"allOf": [{"type": "number"}, {"minimum": 0}],
		"anyOf": [{"multipleOf": 2}, {"multipleOf": 3}],
		"oneOf": [{"multipleOf": 5}, {"multipleOf": 7}],
		"not": {"const": 0}
	}`)

	ok := schema.Evaluate(mustParse(t, `10`))
	require.True(t, ok.Valid())

	notMultipleOf2or3 := schema.Evaluate(mustParse(t, `25`))
	require.False(t, notMultipleOf2or3.Valid(), "25 fails anyOf(multipleOf 2 or 3)")

	bothFiveAndSeven := schema.Evaluate(mustParse(t, `70`))
	require.False(t, bothFiveAndSeven.Valid(), "70 matches both oneOf branches")

	zero := schema.Evaluate(mustParse(t, `0`))
	require.False(t, zero.Valid(), "0 fails not/const 0 and allOf minimum-adjacent checks trivially pass, not fails")
}

func TestIfThenElse(t *testing.T) {
	cat := newTestCatalogue(t, "2020-12")
	schema := compileDoc(t, cat, `{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"if": {"properties": {"country": {"const": "US"}}},
		"then": {"required": ["zip"]},
		"else": {"required": ["postalCode"]}
	}`)

	usOK := schema.Evaluate(mustParse(t, `{"country": "US", "zip": "10001"}`))
	require.True(t, usOK.Valid())

	usMissingZip := schema.Evaluate(mustParse(t, `{"country": "US"}`))
	require.False(t, usMissingZip.Valid())

	otherOK := schema.Evaluate(mustParse(t, `{"country": "CA", "postalCode": "K1A0B1"}`))
	require.True(t, otherOK.Valid())
}

func TestDependentSchemas(t *testing.T) {
	cat := newTestCatalogue(t, "2020-12")
	schema := compileDoc(t, cat, `{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"dependentSchemas": {
			"creditCard": {"required": ["billingAddress"]}
		}
	}`)

	ok := schema.Evaluate(mustParse(t, `{"creditCard": "1234", "billingAddress": "x"}`))
	require.True(t, ok.Valid())

	missing := schema.Evaluate(mustParse(t, `{"creditCard": "1234"}`))
	require.False(t, missing.Valid())

	irrelevant := schema.Evaluate(mustParse(t, `{"other": 1}`))
	require.True(t, irrelevant.Valid())
}

func TestPropertiesPatternPropertiesAdditionalProperties(t *testing.T) {
	cat := newTestCatalogue(t, "2020-12")
	schema := compileDoc(t, cat, `{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"properties": {"name": {"type": "string"}},
		"patternProperties": {"^x-": {"type": "number"}},
		"additionalProperties": false
	}`)

	ok := schema.Evaluate(mustParse(t, `{"name": "a", "x-extra": 1}`))
	require.True(t, ok.Valid())

	bad := schema.Evaluate(mustParse(t, `{"name": "a", "other": 1}`))
	require.False(t, bad.Valid())
}

func TestPropertyNames(t *testing.T) {
	cat := newTestCatalogue(t, "2020-12")
	schema := compileDoc(t, cat, `{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"propertyNames": {"pattern": "^[a-z]+$"}
	}`)

	ok := schema.Evaluate(mustParse(t, `{"abc": 1}`))
	require.True(t, ok.Valid())

	bad := schema.Evaluate(mustParse(t, `{"ABC": 1}`))
	require.False(t, bad.Valid())
}

func TestLegacyItemsTupleAndAdditionalItems2019(t *testing.T) {
	cat := newTestCatalogue(t, "2019-09")
	schema := compileDoc(t, cat, `{
		"$schema": "https://json-schema.org/draft/2019-09/schema",
		"items": [{"type": "string"}, {"type": "number"}],
		"additionalItems": {"type": "boolean"}
	}`)

	ok := schema.Evaluate(mustParse(t, `["a", 1, true, false]`))
	require.True(t, ok.Valid())

	bad := schema.Evaluate(mustParse(t, `["a", 1, "not-a-bool"]`))
	require.False(t, bad.Valid())
}

func TestPrefixItemsAndItems2020(t *testing.T) {
	cat := newTestCatalogue(t, "2020-12")
	schema := compileDoc(t, cat, `{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"prefixItems": [{"type": "string"}, {"type": "number"}],
		"items": {"type": "boolean"}
	}`)

	ok := schema.Evaluate(mustParse(t, `["a", 1, true, false]`))
	require.True(t, ok.Valid())

	bad := schema.Evaluate(mustParse(t, `["a", 1, "nope"]`))
	require.False(t, bad.Valid())
}
