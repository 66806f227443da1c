package jsonschema

// Keyword is a compiled instance of one keyword within one schema object.
// Evaluate runs the keyword's assertion/applicator logic against instance,
// reporting outcome through scope (failing it, attaching an annotation, or
// spawning child scopes for subschema application).
//
// This interface plus KeywordClass is the Go translation of the original
// jschon's class-attribute-driven Keyword base class
// (__keyword__/__schema__/__types__/__depends__ in
// original_source/jschon/vocabulary/validation.py) — Go has no class
// attributes, so the static descriptor moves into KeywordClass and the
// per-instance behavior moves into this interface.
type Keyword interface {
	Evaluate(instance *Value, scope *Scope)
}

// KeywordClass statically describes one keyword: its name, the metaschema
// fragment that constrains its own value, which instance types it applies
// to, which sibling keywords it must evaluate after, and a factory that
// compiles a keyword value into a Keyword instance.
type KeywordClass struct {
	Name string

	// Schema is a JSON Schema value (expressed as *Value) describing this
	// keyword's own value. It is descriptive only: neither compilation nor
	// metaschema self-validation reads it.
	Schema *Value

	// Types restricts which instance types this keyword evaluates against;
	// nil means all types. "integer" is never listed here — it is handled
	// by the `type` keyword's own coercion rule, not by type filtering.
	Types []string

	// Depends names sibling keywords (within the same schema object) that
	// must be compiled and evaluated before this one, so the compiler's
	// keyword scheduler can topologically order evaluation (e.g.
	// `minContains`/`maxContains` depend on `contains`).
	Depends []string

	// New compiles value (this keyword's raw schema value) into a Keyword,
	// given the parent compiled Schema for context (base URI, vocabulary
	// set, sibling access during compilation).
	New func(parent *Schema, value *Value) (Keyword, error)
}

// AppliesTo reports whether this keyword class evaluates against instances
// of the given JSON Schema instance type ("null", "boolean", "number",
// "string", "array", "object" — never "integer"; see typeKeyword).
func (kc *KeywordClass) AppliesTo(typeName string) bool {
	if len(kc.Types) == 0 {
		return true
	}
	for _, t := range kc.Types {
		if t == typeName {
			return true
		}
	}
	return false
}

// Vocabulary is a named, versioned set of keyword classes, the unit the
// Catalogue registers and a metaschema activates for the schemas that name
// it. The active set is the vocabulary list given to
// Catalogue.CreateMetaschema; a metaschema document's `$vocabulary` map is
// not consulted. Grounded on original_source's per-module vocabulary
// __all__ lists (validation.py, etc.), generalized into an explicit
// registry entry since Go has no metaclass to auto-collect them.
type Vocabulary struct {
	URI     string
	Classes map[string]*KeywordClass
}

// NewVocabulary builds a Vocabulary from its keyword classes.
func NewVocabulary(uri string, classes ...*KeywordClass) *Vocabulary {
	v := &Vocabulary{URI: uri, Classes: make(map[string]*KeywordClass, len(classes))}
	for _, kc := range classes {
		v.Classes[kc.Name] = kc
	}
	return v
}
