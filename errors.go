package jsonschema

import (
	"errors"
	"fmt"
)

// Sentinel error kinds. Each is wrapped into one of the four structured
// error types below; callers match with errors.Is against these sentinels
// or errors.As against the wrapping type.
var (
	// === Catalogue-related sentinels ===
	ErrSessionInUse       = errors.New("session tag already acquired")
	ErrSessionNotFound    = errors.New("session tag not found")
	ErrSchemaNotFound     = errors.New("schema not found in catalogue")
	ErrVocabularyNotFound = errors.New("vocabulary not registered")
	ErrMetaschemaNotFound = errors.New("metaschema not registered")
	ErrNoDirectoryMount   = errors.New("no directory mounted for uri")
	ErrNoLoaderRegistered = errors.New("no loader registered for scheme")
	ErrFileRead           = errors.New("file read failed")

	// === URI-related sentinels ===
	ErrInvalidURI       = errors.New("invalid uri")
	ErrURINotAbsolute   = errors.New("uri must be absolute")
	ErrURIHasFragment   = errors.New("uri must not contain a fragment")
	ErrInvalidURIScheme  = errors.New("unsupported uri scheme")

	// === JSON Pointer sentinels ===
	ErrInvalidPointer     = errors.New("invalid json pointer")
	ErrPointerTokenNotFound = errors.New("json pointer token not found in document")
	ErrPointerIndexRange  = errors.New("json pointer array index out of range")

	// === Schema compile/evaluate sentinels ===
	ErrSchemaCompilation    = errors.New("schema compilation failed")
	ErrReferenceResolution  = errors.New("reference resolution failed")
	ErrDynamicRefResolution = errors.New("dynamic reference resolution failed")
	ErrCyclicDependency     = errors.New("cyclic keyword dependency")
	ErrInvalidSchemaType    = errors.New("schema document must be a boolean or object")
	ErrUnknownKeyword       = errors.New("unknown keyword for active vocabularies")
	ErrAnchorCollision      = errors.New("anchor already defined in this schema resource")
	ErrBootstrapFailed      = errors.New("metaschema failed to validate against itself")
	ErrInfiniteRecursion    = errors.New("infinite recursion detected during evaluation")

	// === Value / number conversion sentinels ===
	ErrUnsupportedRatType = errors.New("unsupported type for exact-decimal conversion")
	ErrRatConversion      = errors.New("could not convert value to exact decimal")
)

// CatalogueError reports a failure in registering or looking up a resource
// (schema, vocabulary, metaschema, directory mount, or session) in a Catalogue.
type CatalogueError struct {
	Kind    error
	URI     string
	Message string
	Cause   error
}

func (e *CatalogueError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.Error()
	}
	if e.URI != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.URI)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s (%v)", msg, e.Cause)
	}
	return msg
}

func (e *CatalogueError) Unwrap() error { return e.Kind }

// URIError reports a malformed or unsupported URI encountered while
// resolving `$id`, `$ref`, or `$anchor`.
type URIError struct {
	Kind  error
	URI   string
	Cause error
}

func (e *URIError) Error() string {
	if e.URI == "" {
		return e.Kind.Error()
	}
	msg := fmt.Sprintf("%s: %q", e.Kind.Error(), e.URI)
	if e.Cause != nil {
		msg = fmt.Sprintf("%s (%v)", msg, e.Cause)
	}
	return msg
}

func (e *URIError) Unwrap() error { return e.Kind }

// JSONPointerError reports a malformed pointer string or a pointer that
// cannot be dereferenced against a given document.
type JSONPointerError struct {
	Kind    error
	Pointer string
	Cause   error
}

func (e *JSONPointerError) Error() string {
	msg := fmt.Sprintf("%s: %q", e.Kind.Error(), e.Pointer)
	if e.Cause != nil {
		msg = fmt.Sprintf("%s (%v)", msg, e.Cause)
	}
	return msg
}

func (e *JSONPointerError) Unwrap() error { return e.Kind }

// JSONSchemaError reports a schema failure: at compile time a malformed
// keyword value, a non-schema value, or a cyclic keyword dependency; when a
// reference is resolved, a fragment that names no schema; and, as a panic
// value during evaluation, infinite reference recursion.
type JSONSchemaError struct {
	Kind           error
	SchemaLocation string
	Message        string
	Cause          error
}

func (e *JSONSchemaError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.Error()
	}
	if e.SchemaLocation != "" {
		msg = fmt.Sprintf("%s at %s", msg, e.SchemaLocation)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s (%v)", msg, e.Cause)
	}
	return msg
}

func (e *JSONSchemaError) Unwrap() error { return e.Kind }
