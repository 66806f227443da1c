// Package jsonschema implements a JSON Schema validator for Go supporting
// the 2019-09 and 2020-12 drafts: a Catalogue of vocabularies, metaschemas
// and compiled schemas, a Compile step that turns a schema document into a
// keyword tree, and Schema.Evaluate, which runs that tree against an
// instance and returns a Scope result tree.
//
// Credit to https://github.com/santhosh-tekuri/jsonschema for the format
// validators adapted into vocabulary_format.go.
package jsonschema
