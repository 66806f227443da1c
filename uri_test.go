package jsonschema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitRef(t *testing.T) {
	base, fragment := SplitRef("https://example.com/schema#/properties/name")
	assert.Equal(t, "https://example.com/schema", base)
	assert.Equal(t, "/properties/name", fragment)

	base, fragment = SplitRef("#foo")
	assert.Equal(t, "", base)
	assert.Equal(t, "foo", fragment)
}

func TestURIResolveReference(t *testing.T) {
	base, err := ParseURI("https://example.com/a/b")
	require.NoError(t, err)
	rel, err := ParseURI("c")
	require.NoError(t, err)
	resolved := base.ResolveReference(rel)
	assert.Equal(t, "https://example.com/a/c", resolved.String())
}

func TestURIWithoutFragment(t *testing.T) {
	u, err := ParseURI("https://example.com/schema#/defs/x")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/schema", u.WithoutFragment().String())
}

func TestBaseDirDropsFinalSegment(t *testing.T) {
	u, err := ParseURI("https://example.com/a/b/schema.json")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/a/b/", BaseDir(u).String())
}
