package jsonschema

import (
	"github.com/kaptinlin/go-i18n"
)

// EvaluationError is one keyword's failure message, carrying enough
// structure (a code plus template params) to render in any locale.
// Grounded on the teacher's i18n.go EvaluationError, kept byte-for-byte
// compatible in shape since it is the one part of the teacher the spec
// does not ask us to change.
type EvaluationError struct {
	Keyword string         `json:"keyword"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Params  map[string]any `json:"params"`
}

// NewEvaluationError builds an EvaluationError for keyword, identified by
// code (an entry in locales/*.json) with an English fallback message and
// optional template params.
func NewEvaluationError(keyword, code, message string, params ...map[string]any) *EvaluationError {
	e := &EvaluationError{Keyword: keyword, Code: code, Message: message}
	if len(params) > 0 {
		e.Params = params[0]
	}
	return e
}

func (e *EvaluationError) Error() string {
	return replace(e.Message, e.Params)
}

// Localize renders the error via localizer, falling back to the English
// template when localizer is nil.
func (e *EvaluationError) Localize(localizer *i18n.Localizer) string {
	if localizer == nil {
		return e.Error()
	}
	return localizer.Get(e.Code, i18n.Vars(e.Params))
}

// Flag is the coarsest JSON Schema output format: pass/fail only.
type Flag struct {
	Valid bool `json:"valid"`
}

// List is the flat/hierarchical JSON Schema "list" output format.
type List struct {
	Valid            bool              `json:"valid"`
	EvaluationPath   string            `json:"evaluationPath"`
	SchemaLocation   string            `json:"schemaLocation"`
	InstanceLocation string            `json:"instanceLocation"`
	Annotations      map[string]any    `json:"annotations,omitempty"`
	Errors           map[string]string `json:"errors,omitempty"`
	Details          []List            `json:"details,omitempty"`
}

// Scope is one node of the evaluation tree: the result of evaluating one
// keyword (or an applied subschema) against one instance location. The
// tree as a whole is the return value of Schema.Evaluate.
//
// Renamed from the teacher's EvaluationResult to match the vocabulary the
// keyword evaluators are grounded on (original_source's jschon.Scope:
// scope.fail, scope.sibling, scope.annotations, scope._assert). Keywords
// are written against this substrate, not against a result struct they
// mutate after the fact.
type Scope struct {
	parent    *Scope
	children  []*Scope
	byKeyword map[string]*Scope
	schemaCtx *Schema // schema resource this scope is evaluating within; set on resource entry

	// recursion is the whole evaluation's in-flight (schema_uri, instance_pointer)
	// fingerprint set (shared by reference, not copied) used to detect reference
	// cycles that never advance the instance location. Populated only by
	// ref.go's enterRef (and the exit func it returns).
	recursion map[string]bool

	Keyword          string
	EvaluationPath   string
	SchemaLocation   string
	InstanceLocation string

	valid  bool
	assert bool // false for annotation-only format scopes, non-asserting applicator branches, and contains under minContains/maxContains

	annotations map[string]any
	errors      []*EvaluationError
}

// newRootScope starts a fresh evaluation tree rooted at schema's location.
func newRootScope(schema *Schema) *Scope {
	return &Scope{
		valid:            true,
		assert:           true,
		schemaCtx:        schema,
		SchemaLocation:   schema.Location(),
		InstanceLocation: "",
		annotations:      map[string]any{},
		recursion:        map[string]bool{},
	}
}

// Descend creates a child scope for evaluating `keyword` (optionally
// applying a subschema to a deeper instance location, via instanceStep).
// schemaStep defaults to "/"+keyword when empty.
func (s *Scope) Descend(keyword, schemaStep, instanceStep string) *Scope {
	if schemaStep == "" {
		schemaStep = "/" + keyword
	}
	child := &Scope{
		parent:           s,
		schemaCtx:        s.schemaCtx,
		recursion:        s.recursion,
		Keyword:          keyword,
		EvaluationPath:   s.EvaluationPath + "/" + keyword,
		SchemaLocation:   s.SchemaLocation + schemaStep,
		InstanceLocation: s.InstanceLocation + instanceStep,
		valid:            true,
		assert:           true,
		annotations:      map[string]any{},
	}
	s.children = append(s.children, child)
	if s.byKeyword == nil {
		s.byKeyword = map[string]*Scope{}
	}
	s.byKeyword[keyword] = child
	return child
}

// Fail marks scope (and, if it asserts, every assert-ing ancestor) invalid
// and records an EvaluationError under code, rendering message with
// "{param}"-style placeholders from params.
func (s *Scope) Fail(code, message string, params ...map[string]any) {
	err := NewEvaluationError(s.Keyword, code, message, params...)
	s.errors = append(s.errors, err)
	s.markInvalid()
}

func (s *Scope) markInvalid() {
	if !s.valid {
		return
	}
	s.valid = false
	if s.assert && s.parent != nil {
		s.parent.markInvalid()
	}
}

// SetAssert controls whether a failure in this scope propagates invalidity
// to its parent. It is set to false for a `format` scope under an
// annotation-only format vocabulary, for branches run through
// EvaluateChildNonAsserting, and for `contains` when a sibling
// minContains/maxContains decides validity.
func (s *Scope) SetAssert(assert bool) { s.assert = assert }

// Annotate records keyword's annotation value on this scope.
func (s *Scope) Annotate(value any) {
	s.annotations[s.Keyword] = value
}

// Annotation returns the scope's own annotation value, if any.
func (s *Scope) Annotation() (any, bool) {
	v, ok := s.annotations[s.Keyword]
	return v, ok
}

// Sibling returns the child scope of this scope's parent produced by
// keyword, or nil if that keyword was not present/evaluated. Mirrors
// original_source's Scope.sibling, used by maxContains/minContains to read
// the `contains` scope's annotation and clear its errors.
func (s *Scope) Sibling(keyword string) *Scope {
	if s.parent == nil {
		return nil
	}
	return s.parent.byKeyword[keyword]
}

// Valid reports whether this scope (and its asserting descendants)
// succeeded.
func (s *Scope) Valid() bool { return s.valid }

// Children returns this scope's child scopes in evaluation order.
func (s *Scope) Children() []*Scope { return s.children }

// Errors returns this scope's own evaluation errors (not its children's).
func (s *Scope) Errors() []*EvaluationError { return s.errors }

// ClearErrors discards this scope's own errors without changing validity,
// the mechanism `minContains: 0` uses to drop a `contains` scope's
// zero-match error.
func (s *Scope) ClearErrors() { s.errors = nil }

// ToFlag reduces the tree to a pass/fail Flag.
func (s *Scope) ToFlag() *Flag { return &Flag{Valid: s.valid} }

// ToList renders the tree as the "list" output format. hierarchy defaults
// to true (nested Details); pass false for a flattened list.
func (s *Scope) ToList(hierarchy ...bool) *List {
	return s.ToLocalizeList(nil, hierarchy...)
}

// ToLocalizeList is ToList with error messages rendered via localizer.
func (s *Scope) ToLocalizeList(localizer *i18n.Localizer, hierarchy ...bool) *List {
	includeHierarchy := true
	if len(hierarchy) > 0 {
		includeHierarchy = hierarchy[0]
	}
	list := &List{
		Valid:            s.valid,
		EvaluationPath:   s.EvaluationPath,
		SchemaLocation:   s.SchemaLocation,
		InstanceLocation: s.InstanceLocation,
		Annotations:      s.annotations,
		Errors:           s.errorStrings(localizer),
	}
	if includeHierarchy {
		for _, c := range s.children {
			list.Details = append(list.Details, *c.ToLocalizeList(localizer, true))
		}
	} else {
		s.flatten(localizer, list)
	}
	return list
}

func (s *Scope) flatten(localizer *i18n.Localizer, list *List) {
	for _, c := range s.children {
		list.Details = append(list.Details, List{
			Valid:            c.valid,
			EvaluationPath:   c.EvaluationPath,
			SchemaLocation:   c.SchemaLocation,
			InstanceLocation: c.InstanceLocation,
			Annotations:      c.annotations,
			Errors:           c.errorStrings(localizer),
		})
		c.flatten(localizer, list)
	}
}

func (s *Scope) errorStrings(localizer *i18n.Localizer) map[string]string {
	if len(s.errors) == 0 {
		return nil
	}
	out := make(map[string]string, len(s.errors))
	for _, e := range s.errors {
		if localizer != nil {
			out[e.Code] = e.Localize(localizer)
		} else {
			out[e.Code] = e.Error()
		}
	}
	return out
}
