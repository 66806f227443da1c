package jsonschema

import (
	"sort"
)

// structuralKeys are handled directly by the compiler (resource/anchor
// bookkeeping) rather than dispatched through the keyword registry.
var structuralKeys = map[string]bool{
	"$id": true, "$schema": true, "$anchor": true, "$dynamicAnchor": true,
	"$comment": true, "$vocabulary": true, "$recursiveAnchor": true,
}

// compileCtx is shared by every Schema compiled from one Compile() call:
// the catalogue, the session new resources should register under, and the
// set of resource roots discovered so far (so `$ref`/`$dynamicRef` can
// find a sibling resource compiled earlier in the same walk without a
// catalogue round trip).
type compileCtx struct {
	cat       *Catalogue
	session   string
	resources map[string]*Schema // absolute base URI (no fragment) -> resource-root Schema
}

// Schema is a compiled schema node: either a boolean literal or an object
// whose present keywords have each been compiled into a Keyword instance,
// topologically ordered by KeywordClass.Depends. A Schema that declares
// `$id` (or is the document root) is a "resource root" and carries the
// anchor/pointer indices its descendants consult.
//
// This replaces the teacher's Schema (schema.go), which had one typed Go
// field per keyword and a hand-written UnmarshalJSON polymorphism switch.
// SPEC_FULL's vocabulary/metaschema model needs the set of active keywords
// to be data (the vocabularies registered for the metaschema named by
// `$schema`), not a fixed struct shape, so
// compilation here walks a keyword *registry* instead — grounded on
// original_source's JSONSchema, which does the same thing in Python via
// its Vocabulary/Keyword/Catalogue classes.
type Schema struct {
	ctx    *compileCtx
	parent *Schema

	resourceRoot *Schema // self, if this schema owns a base URI
	baseURI      *URI    // meaningful only when resourceRoot == self
	location     string  // JSON Pointer from resourceRoot's document root

	doc     *Value
	boolean *bool // non-nil for a boolean schema literal

	metaschemaURI string
	vocabularies  []*Vocabulary
	assertFormat  bool

	keywords []compiledKeyword

	// resource-root-only indices
	byPointer       map[string]*Schema
	anchors         map[string]*Schema
	dynamicAnchors  map[string]*Schema
	recursiveAnchor bool // true if this resource declares `$recursiveAnchor: true` (2019-09)
}

type compiledKeyword struct {
	name  string
	class *KeywordClass
	inst  Keyword
}

// CompileOption configures one Compile call.
type CompileOption func(*compileSettings)

type compileSettings struct {
	metaschemaURI string
	session       string
}

// WithMetaschemaURI pins the metaschema to use instead of reading the
// document's own `$schema` keyword — used by Catalogue.CreateMetaschema
// to bootstrap a metaschema against itself.
func WithMetaschemaURI(uri string) CompileOption {
	return func(s *compileSettings) { s.metaschemaURI = uri }
}

// WithSession compiles the schema (and any nested resources discovered
// along the way) into the named session partition instead of the
// process-wide one.
func WithSession(tag string) CompileOption {
	return func(s *compileSettings) { s.session = tag }
}

// Compile compiles a schema document against cat, registering every
// resource root it discovers that has a base URI (the document root, and
// any nested `$id` boundary) into the catalogue's schema cache. A document
// root with neither an `$id` nor a catalogue default base URI is not
// registered.
func Compile(doc *Value, cat *Catalogue, opts ...CompileOption) (*Schema, error) {
	settings := &compileSettings{}
	for _, opt := range opts {
		opt(settings)
	}

	metaschemaURI := settings.metaschemaURI
	if metaschemaURI == "" {
		if doc.Kind == ObjectValue {
			if s := doc.Prop("$schema"); s != nil && s.Kind == StringValue {
				metaschemaURI = s.Str
			}
		}
	}
	if metaschemaURI == "" {
		return nil, &JSONSchemaError{Kind: ErrSchemaCompilation, Message: "no $schema and no metaschema override given"}
	}

	var baseURI *URI
	if cat.defaultURI != "" {
		u, err := ParseURI(cat.defaultURI)
		if err != nil {
			return nil, err
		}
		baseURI = u
	}

	ctx := &compileCtx{cat: cat, session: settings.session, resources: map[string]*Schema{}}
	schema, err := compileResource(ctx, doc, nil, baseURI, metaschemaURI, "")
	if err != nil {
		return nil, err
	}

	for uri, res := range ctx.resources {
		cat.AddSchema(uri, res, ctx.session)
	}
	return schema, nil
}

func compileResource(ctx *compileCtx, doc *Value, parent *Schema, inheritedBase *URI, metaschemaURI, location string) (*Schema, error) {
	if doc.Kind == BooleanValue {
		b := doc.Boolean
		s := &Schema{ctx: ctx, parent: parent, doc: doc, boolean: &b, baseURI: inheritedBase, location: location, metaschemaURI: metaschemaURI}
		if parent != nil {
			s.resourceRoot = parent.resourceRoot
		} else {
			s.resourceRoot = s
			s.byPointer = map[string]*Schema{}
		}
		return s, nil
	}
	if doc.Kind != ObjectValue {
		return nil, &JSONSchemaError{Kind: ErrInvalidSchemaType, SchemaLocation: location}
	}

	s := &Schema{ctx: ctx, parent: parent, doc: doc, location: location, metaschemaURI: metaschemaURI}

	// Resource boundary: a declared $id, or the document root.
	base := inheritedBase
	isNewResource := parent == nil
	if idVal := doc.Prop("$id"); idVal != nil && idVal.Kind == StringValue {
		idURI, err := ParseURI(idVal.Str)
		if err != nil {
			return nil, err
		}
		if base != nil {
			base = base.ResolveReference(idURI)
		} else {
			base = idURI
		}
		isNewResource = true
	}
	s.baseURI = base

	if schemaVal := doc.Prop("$schema"); schemaVal != nil && schemaVal.Kind == StringValue {
		s.metaschemaURI = schemaVal.Str
	}

	if isNewResource {
		s.resourceRoot = s
		s.byPointer = map[string]*Schema{}
		s.anchors = map[string]*Schema{}
		s.dynamicAnchors = map[string]*Schema{}
		s.location = ""
		if base != nil {
			ctx.resources[base.WithoutFragment().String()] = s
		}
	} else {
		s.resourceRoot = parent.resourceRoot
	}
	s.resourceRoot.byPointer[s.location] = s

	ms, err := ctx.cat.Metaschema(s.metaschemaURI)
	if err != nil {
		return nil, err
	}
	s.vocabularies = ms.vocabularies
	s.assertFormat = vocabulariesRequireFormat(s.vocabularies)

	if anchorVal := doc.Prop("$anchor"); anchorVal != nil && anchorVal.Kind == StringValue {
		s.resourceRoot.anchors[anchorVal.Str] = s
	}
	if danchorVal := doc.Prop("$dynamicAnchor"); danchorVal != nil && danchorVal.Kind == StringValue {
		s.resourceRoot.dynamicAnchors[danchorVal.Str] = s
	}
	if raVal := doc.Prop("$recursiveAnchor"); raVal != nil && raVal.Kind == BooleanValue && raVal.Boolean && isNewResource {
		s.recursiveAnchor = true
	}

	if err := s.compileKeywords(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Schema) compileKeywords() error {
	present := make(map[string]*KeywordClass, len(s.doc.Keys))
	for _, key := range s.doc.Keys {
		if structuralKeys[key] {
			continue
		}
		for _, vocab := range s.vocabularies {
			if class, ok := vocab.Classes[key]; ok {
				present[key] = class
				break
			}
		}
		// A key matching no active vocabulary is an unrecognized keyword;
		// per the core spec it is ignored, not an error.
	}

	order, err := topoSort(present)
	if err != nil {
		return &JSONSchemaError{Kind: ErrCyclicDependency, SchemaLocation: s.Location(), Cause: err}
	}

	for _, name := range order {
		class := present[name]
		inst, err := class.New(s, s.doc.Prop(name))
		if err != nil {
			return &JSONSchemaError{Kind: ErrSchemaCompilation, SchemaLocation: s.Location() + "/" + name, Cause: err}
		}
		s.keywords = append(s.keywords, compiledKeyword{name: name, class: class, inst: inst})
	}
	return nil
}

// topoSort orders present's keywords so each comes after every sibling it
// depends on (Kahn's algorithm), considering only edges between keywords
// that are actually present in this schema object.
func topoSort(present map[string]*KeywordClass) ([]string, error) {
	indegree := map[string]int{}
	edges := map[string][]string{} // dependency -> dependents
	for name := range present {
		indegree[name] = 0
	}
	for name, class := range present {
		for _, dep := range class.Depends {
			if _, ok := present[dep]; !ok {
				continue
			}
			edges[dep] = append(edges[dep], name)
			indegree[name]++
		}
	}

	var queue, order []string
	for name := range present {
		if indegree[name] == 0 {
			queue = append(queue, name)
		}
	}
	sort.Strings(queue)
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		order = append(order, n)
		next := append([]string(nil), edges[n]...)
		sort.Strings(next)
		for _, m := range next {
			indegree[m]--
			if indegree[m] == 0 {
				queue = append(queue, m)
				sort.Strings(queue)
			}
		}
	}
	if len(order) != len(present) {
		return nil, ErrCyclicDependency
	}
	return order, nil
}

func vocabulariesRequireFormat(vocabs []*Vocabulary) bool {
	for _, v := range vocabs {
		if v.URI == FormatAssertionVocabularyURI {
			return true
		}
	}
	return false
}

// compileChild compiles value as a subschema located at step (a JSON
// Pointer segment such as "/properties/name") beneath s, inheriting s's
// base URI and metaschema. Keyword factories call this to compile any
// nested schema value they own (allOf entries, properties values, etc.)
// instead of recursing into compileResource directly.
func (s *Schema) compileChild(step string, value *Value) (*Schema, error) {
	return compileResource(s.ctx, value, s, s.BaseURI(), s.metaschemaURI, s.location+step)
}

// BaseURI returns the base URI of the resource this schema belongs to.
func (s *Schema) BaseURI() *URI {
	if s.resourceRoot != nil {
		return s.resourceRoot.baseURI
	}
	return s.baseURI
}

// Location returns a human-readable schema location (base URI + JSON
// Pointer fragment) for use in Scope.SchemaLocation.
func (s *Schema) Location() string {
	base := s.BaseURI().String()
	return base + "#" + s.location
}

// Pointer returns this schema's JSON Pointer location relative to its
// resource root.
func (s *Schema) Pointer() string { return s.location }

// IsBoolean reports whether this schema is a boolean literal, and its
// value.
func (s *Schema) IsBoolean() (bool, bool) {
	if s.boolean == nil {
		return false, false
	}
	return *s.boolean, true
}

// resolveFragment resolves a `$ref` fragment (the part after "#") against
// this resource-root schema: a leading "/" means a JSON Pointer relative
// to the resource's document root, anything else is an `$anchor` name or,
// failing that, a `$dynamicAnchor` name.
func (s *Schema) resolveFragment(fragment string) (*Schema, error) {
	root := s.resourceRoot
	if fragment == "" {
		return root, nil
	}
	if fragment[0] == '/' {
		target, ok := root.byPointer[fragment]
		if !ok {
			return nil, &JSONSchemaError{Kind: ErrReferenceResolution, SchemaLocation: fragment, Message: "no schema at pointer"}
		}
		return target, nil
	}
	target, ok := root.anchors[fragment]
	if !ok {
		target, ok = root.dynamicAnchors[fragment]
	}
	if !ok {
		return nil, &JSONSchemaError{Kind: ErrReferenceResolution, SchemaLocation: fragment, Message: "no such $anchor"}
	}
	return target, nil
}

// Evaluate validates instance against the schema, returning the root of
// the resulting Scope tree.
func (s *Schema) Evaluate(instance *Value) *Scope {
	scope := newRootScope(s)
	s.evaluateInto(instance, scope)
	return scope
}

// evaluateInto runs this schema's compiled keywords against instance,
// attaching results to the (already positioned) scope. Keywords that
// apply subschemas call this recursively on the subschema with a
// freshly-descended child scope.
func (s *Schema) evaluateInto(instance *Value, scope *Scope) {
	if s.boolean != nil {
		if !*s.boolean {
			scope.Fail("schema", "schema is always false")
		}
		return
	}

	typeName := instance.TypeName()
	for _, kw := range s.keywords {
		if !kw.class.AppliesTo(typeName) {
			continue
		}
		child := scope.Descend(kw.name, "", "")
		if kw.name == "format" && !s.assertFormat {
			child.SetAssert(false)
		}
		kw.inst.Evaluate(instance, child)
	}
}

// EvaluateChild runs a subschema (obtained via compileChild, or resolved
// via $ref/$dynamicRef) against instance, under a scope descended with
// the given keyword name and location steps. A failure in the returned
// scope propagates invalidity to parent. Exposed for the applicator and
// reference keywords in vocabulary_applicator.go / ref.go.
func EvaluateChild(sub *Schema, instance *Value, parent *Scope, keyword, schemaStep, instanceStep string) *Scope {
	child := parent.Descend(keyword, schemaStep, instanceStep)
	child.schemaCtx = sub
	sub.evaluateInto(instance, child)
	return child
}

// EvaluateChildNonAsserting runs a subschema exactly like EvaluateChild,
// except the branch's own failures never propagate invalidity to parent:
// the branch's assert flag must be cleared before evaluation runs, not
// after, since Scope.Fail walks up assert-ing ancestors as soon as a
// nested keyword fails. Used by anyOf/oneOf/not/if, whose keywords
// each decide pass/fail from child.Valid() themselves rather than letting
// a single branch's failure invalidate the whole evaluation.
func EvaluateChildNonAsserting(sub *Schema, instance *Value, parent *Scope, keyword, schemaStep, instanceStep string) *Scope {
	child := parent.Descend(keyword, schemaStep, instanceStep)
	child.SetAssert(false)
	child.schemaCtx = sub
	sub.evaluateInto(instance, child)
	return child
}
