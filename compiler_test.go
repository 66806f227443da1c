package jsonschema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCatalogueRejectsUnknownVersion(t *testing.T) {
	_, err := NewCatalogue([]string{"1999-99"})
	require.Error(t, err)
}

func TestSessionAcquireReleaseLifecycle(t *testing.T) {
	cat := newTestCatalogue(t, "2020-12")

	sess, err := cat.Session("req-1")
	require.NoError(t, err)

	_, err = cat.Session("req-1")
	require.Error(t, err, "the same tag cannot be acquired twice concurrently")

	doc, err := ParseValue([]byte(`{"$schema": "https://json-schema.org/draft/2020-12/schema", "type": "string"}`))
	require.NoError(t, err)
	schema, err := Compile(doc, cat, WithSession(sess.Tag()))
	require.NoError(t, err)
	sess.AddSchema("https://example.com/req-1-schema", schema)

	found, err := sess.GetSchema("https://example.com/req-1-schema")
	require.NoError(t, err)
	assert.True(t, found.Evaluate(mustParse(t, `"ok"`)).Valid())

	sess.Close()

	sess2, err := cat.Session("req-1")
	require.NoError(t, err)
	defer sess2.Close()
	_, err = sess2.GetSchema("https://example.com/req-1-schema")
	require.Error(t, err, "closing a session drops everything registered under its partition")
}

func TestAddDirectoryAndLoadJSONLongestPrefixMatch(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "widget.json"), []byte(`{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"type": "object",
		"required": ["id"]
	}`), 0o644))

	cat := newTestCatalogue(t, "2020-12")
	cat.AddDirectory("https://example.com/", t.TempDir()+"/")
	cat.AddDirectory("https://example.com/schemas/", dir+"/")

	schema, err := cat.GetSchema("https://example.com/schemas/widget", "")
	require.NoError(t, err)
	assert.True(t, schema.Evaluate(mustParse(t, `{"id": 1}`)).Valid())
	assert.False(t, schema.Evaluate(mustParse(t, `{}`)).Valid())
}

func TestRegisterDecoderIsUsedByContentEncoding(t *testing.T) {
	cat := newTestCatalogue(t, "2020-12")
	calls := 0
	cat.RegisterDecoder("upper", func(s string) ([]byte, error) {
		calls++
		return []byte(s), nil
	})

	schema := compileDoc(t, cat, `{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"type": "string",
		"contentEncoding": "upper"
	}`)
	result := schema.Evaluate(mustParse(t, `"HELLO"`))
	require.True(t, result.Valid())
	assert.Equal(t, 1, calls)
}
