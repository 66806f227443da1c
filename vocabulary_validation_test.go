package jsonschema

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTypeKeywordTreatsWholeNumberAsInteger(t *testing.T) {
	cat := newTestCatalogue(t, "2020-12")
	schema := compileDoc(t, cat, `{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"type": "integer"
	}`)

	ok := schema.Evaluate(mustParse(t, `5`))
	require.True(t, ok.Valid())

	okWhole := schema.Evaluate(mustParse(t, `5.0`))
	require.True(t, okWhole.Valid(), "5.0 has no fractional part so it satisfies type: integer")

	bad := schema.Evaluate(mustParse(t, `5.5`))
	require.False(t, bad.Valid())
}

func TestEnumAndConst(t *testing.T) {
	cat := newTestCatalogue(t, "2020-12")
	schema := compileDoc(t, cat, `{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"enum": ["red", "green", "blue"]
	}`)
	require.True(t, schema.Evaluate(mustParse(t, `"green"`)).Valid())
	require.False(t, schema.Evaluate(mustParse(t, `"purple"`)).Valid())

	constSchema := compileDoc(t, cat, `{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"const": {"x": 1, "y": 2}
	}`)
	require.True(t, constSchema.Evaluate(mustParse(t, `{"y": 2, "x": 1}`)).Valid(), "const comparison ignores object key order")
	require.False(t, constSchema.Evaluate(mustParse(t, `{"x": 1, "y": 3}`)).Valid())
}

func TestNumericRangeKeywords(t *testing.T) {
	cat := newTestCatalogue(t, "2020-12")
	schema := compileDoc(t, cat, `{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"multipleOf": 0.5,
		"minimum": 0,
		"exclusiveMaximum": 10
	}`)

	require.True(t, schema.Evaluate(mustParse(t, `9.5`)).Valid())
	require.False(t, schema.Evaluate(mustParse(t, `9.3`)).Valid(), "9.3 is not a multiple of 0.5")
	require.False(t, schema.Evaluate(mustParse(t, `10`)).Valid(), "exclusiveMaximum 10 excludes 10 itself")
	require.False(t, schema.Evaluate(mustParse(t, `-0.5`)).Valid())
}

func TestStringLengthAndPattern(t *testing.T) {
	cat := newTestCatalogue(t, "2020-12")
	schema := compileDoc(t, cat, `{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"minLength": 2,
		"maxLength": 5,
		"pattern": "^[a-z]+$"
	}`)

	require.True(t, schema.Evaluate(mustParse(t, `"abc"`)).Valid())
	require.False(t, schema.Evaluate(mustParse(t, `"a"`)).Valid())
	require.False(t, schema.Evaluate(mustParse(t, `"abcdef"`)).Valid())
	require.False(t, schema.Evaluate(mustParse(t, `"ABC"`)).Valid())
}

func TestArraySizeAndUniqueItems(t *testing.T) {
	cat := newTestCatalogue(t, "2020-12")
	schema := compileDoc(t, cat, `{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"minItems": 2,
		"maxItems": 3,
		"uniqueItems": true
	}`)

	require.True(t, schema.Evaluate(mustParse(t, `[1, 2]`)).Valid())
	require.False(t, schema.Evaluate(mustParse(t, `[1]`)).Valid())
	require.False(t, schema.Evaluate(mustParse(t, `[1, 2, 3, 4]`)).Valid())
	require.False(t, schema.Evaluate(mustParse(t, `[1, 1]`)).Valid())
}

func TestObjectSizeRequiredAndDependentRequired(t *testing.T) {
	cat := newTestCatalogue(t, "2020-12")
	schema := compileDoc(t, cat, `{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"minProperties": 1,
		"maxProperties": 3,
		"required": ["id"],
		"dependentRequired": {"credit": ["billing"]}
	}`)

	require.True(t, schema.Evaluate(mustParse(t, `{"id": 1, "credit": "x", "billing": "y"}`)).Valid())
	require.False(t, schema.Evaluate(mustParse(t, `{}`)).Valid(), "missing required id and below minProperties")
	require.False(t, schema.Evaluate(mustParse(t, `{"id": 1, "credit": "x"}`)).Valid(), "credit without billing")
	require.False(t, schema.Evaluate(mustParse(t, `{"id": 1, "a": 1, "b": 2, "c": 3}`)).Valid(), "exceeds maxProperties")
}
