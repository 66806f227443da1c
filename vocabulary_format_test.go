package jsonschema

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// registerFormatAssertionDialect reuses the embedded 2020-12 metaschema
// document under a new URI that requires the format-assertion vocabulary,
// since a plain schema's own `$vocabulary` keyword is not consulted for
// vocabulary activation here — only the metaschema named by `$schema` is.
func registerFormatAssertionDialect(t *testing.T, cat *Catalogue, uri string) {
	t.Helper()
	doc, err := loadEmbeddedMetaschema("2020-12.json")
	require.NoError(t, err)
	// The embedded document declares its own $id/$schema pointing back at the
	// canonical 2020-12 dialect; retarget both so this second registration
	// isn't immediately overridden back to the original metaschema URI.
	doc.Object["$id"] = Str(uri)
	doc.Object["$schema"] = Str(uri)
	err = cat.CreateMetaschema(doc, uri, Core202012URI,
		Applicator202012URI, Unevaluated202012URI, Validation202012URI,
		FormatAssertion202012URI, Content202012URI, Metadata202012URI)
	require.NoError(t, err)
}

func TestFormatAssertsUnder2020FormatAssertionVocabulary(t *testing.T) {
	cat := newTestCatalogue(t, "2020-12")
	const dialect = "https://example.com/dialects/format-assert"
	registerFormatAssertionDialect(t, cat, dialect)

	schema := compileDoc(t, cat, `{
		"$schema": "`+dialect+`",
		"type": "string",
		"format": "uuid"
	}`)

	ok := schema.Evaluate(mustParse(t, `"123e4567-e89b-12d3-a456-426614174000"`))
	require.True(t, ok.Valid())

	bad := schema.Evaluate(mustParse(t, `"not-a-uuid"`))
	require.False(t, bad.Valid())
}

func TestFormatAnnotationOnlyByDefaultUnder202012(t *testing.T) {
	cat := newTestCatalogue(t, "2020-12")
	schema := compileDoc(t, cat, `{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"type": "string",
		"format": "uuid"
	}`)

	result := schema.Evaluate(mustParse(t, `"not-a-uuid"`))
	require.True(t, result.Valid(), "the 2020-12 dialect is format-annotation-only unless a dialect requires format-assertion")
}

func TestUnknownFormatNameIsIgnored(t *testing.T) {
	cat := newTestCatalogue(t, "2020-12")
	schema := compileDoc(t, cat, `{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"type": "string",
		"format": "x-totally-made-up"
	}`)

	result := schema.Evaluate(mustParse(t, `"anything"`))
	require.True(t, result.Valid())
}

func TestCustomFormatValidatorIsApplied(t *testing.T) {
	cat := newTestCatalogue(t, "2020-12")
	cat.AddFormatValidators(map[string]FormatValidator{
		"even-digits": func(v *Value) bool {
			return v.Kind == StringValue && len(v.Str)%2 == 0
		},
	})
	const dialect = "https://example.com/dialects/format-assert-custom"
	registerFormatAssertionDialect(t, cat, dialect)

	schema := compileDoc(t, cat, `{
		"$schema": "`+dialect+`",
		"type": "string",
		"format": "even-digits"
	}`)

	ok := schema.Evaluate(mustParse(t, `"1234"`))
	require.True(t, ok.Valid())

	bad := schema.Evaluate(mustParse(t, `"123"`))
	require.False(t, bad.Valid())
}
