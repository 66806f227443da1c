package jsonschema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func annotationOf(t *testing.T, scope *Scope, keyword string) *Value {
	t.Helper()
	for _, child := range scope.Children() {
		if child.Keyword == keyword {
			ann, ok := child.Annotation()
			require.True(t, ok, "keyword %s produced no annotation", keyword)
			v, ok := ann.(*Value)
			require.True(t, ok, "keyword %s annotation is not a *Value", keyword)
			return v
		}
	}
	t.Fatalf("no child scope for keyword %s", keyword)
	return nil
}

func TestMetadataKeywordsAnnotateAndNeverAssert(t *testing.T) {
	cat := newTestCatalogue(t, "2020-12")
	schema := compileDoc(t, cat, `{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"title": "Widget",
		"description": "A widget",
		"deprecated": true,
		"default": 42,
		"type": "string"
	}`)

	// title/description/deprecated/default apply regardless of the
	// instance's type, and a type mismatch is the only thing that can fail.
	result := schema.Evaluate(mustParse(t, `"anything"`))
	require.True(t, result.Valid())

	assert.Equal(t, "Widget", annotationOf(t, result, "title").Str)
	assert.Equal(t, "A widget", annotationOf(t, result, "description").Str)
	assert.True(t, annotationOf(t, result, "deprecated").Boolean)
}
