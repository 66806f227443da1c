package jsonschema

// refKeyword implements `$ref`: static resolution against the schema's
// own base URI, looked up through the catalogue (or the in-flight compile
// unit's resource map) so forward references to not-yet-finished sibling
// resources still work. Grounded on the teacher's ref.go, which performed
// the same base-URI-relative lookup through its Compiler.schemas cache;
// generalized here to go through Catalogue.GetSchema so a `$ref` can also
// cross into schemas registered from disk or from another session.
type refKeyword struct {
	owner *Schema
	ref   string
}

func (k *refKeyword) Evaluate(instance *Value, scope *Scope) {
	target, err := resolveStaticRef(k.owner, k.ref)
	if err != nil {
		scope.Fail("ref", "value does not match the referenced schema {ref}", map[string]any{"ref": k.ref})
		return
	}
	exit := enterRef(scope, target)
	defer exit()
	child := EvaluateChild(target, instance, scope, "$ref", "", "")
	if !child.Valid() {
		scope.Fail("ref", "value does not match the referenced schema {ref}", map[string]any{"ref": k.ref})
	}
}

// resolveStaticRef resolves ref against owner's base URI: first against
// resources discovered earlier in the same compile walk, then by asking
// the catalogue to load/compile it (from its own cache or a directory
// mount). A fragment-only ref inside a resource that has no base URI is
// resolved within that resource.
func resolveStaticRef(owner *Schema, ref string) (*Schema, error) {
	base, fragment := SplitRef(ref)
	var absolute string
	if base == "" {
		if owner.BaseURI() == nil {
			return owner.resolveFragment(fragment)
		}
		absolute = owner.BaseURI().WithoutFragment().String()
	} else {
		refURI, err := ParseURI(base)
		if err != nil {
			return nil, err
		}
		resolved := refURI
		if owner.BaseURI() != nil {
			resolved = owner.BaseURI().ResolveReference(refURI)
		}
		absolute = resolved.WithoutFragment().String()
	}

	if res, ok := owner.ctx.resources[absolute]; ok {
		if fragment == "" {
			return res, nil
		}
		return res.resolveFragment(fragment)
	}

	full := absolute
	if fragment != "" {
		full += "#" + fragment
	}
	return owner.ctx.cat.GetSchema(full, owner.ctx.session)
}

func refKeywordClass() *KeywordClass {
	return &KeywordClass{
		Name:   "$ref",
		Schema: Str(""),
		New: func(parent *Schema, value *Value) (Keyword, error) {
			return &refKeyword{owner: parent, ref: value.Str}, nil
		},
	}
}

// dynamicRefKeyword implements 2020-12's `$dynamicRef`: resolve
// statically like `$ref` to find the initial candidate and fragment name,
// then, if that fragment names a plain `$anchor` (or is a JSON Pointer),
// use the static target as-is; if it names a `$dynamicAnchor`, search the
// dynamic scope (the chain of schema resources actually entered during
// this evaluation, outermost first) for the first resource that also
// defines that `$dynamicAnchor`, and use that instead. This outermost-
// first search is what lets a base schema's `$dynamicRef` be overridden by
// an extending schema further up the call stack — the mechanism
// 2020-12 replaced 2019-09's `$recursiveRef` with.
type dynamicRefKeyword struct {
	owner *Schema
	ref   string
}

func (k *dynamicRefKeyword) Evaluate(instance *Value, scope *Scope) {
	target, _, err := resolveDynamicRefTarget(k.owner, k.ref, dynamicChain(scope))
	if err != nil {
		scope.Fail("dynamic-ref", "value does not match the dynamically resolved schema {ref}", map[string]any{"ref": k.ref})
		return
	}
	exit := enterRef(scope, target)
	defer exit()
	child := EvaluateChild(target, instance, scope, "$dynamicRef", "", "")
	if !child.Valid() {
		scope.Fail("dynamic-ref", "value does not match the dynamically resolved schema {ref}", map[string]any{"ref": k.ref})
	}
}

func resolveDynamicRefTarget(owner *Schema, ref string, chain []*Schema) (*Schema, string, error) {
	staticTarget, err := resolveStaticRef(owner, ref)
	if err != nil {
		return nil, "", err
	}
	_, fragment := SplitRef(ref)
	if fragment == "" || fragment[0] == '/' {
		return staticTarget, "", nil
	}
	if _, isDynamic := staticTarget.resourceRoot.dynamicAnchors[fragment]; !isDynamic {
		return staticTarget, "", nil
	}
	for _, res := range chain {
		if found, ok := res.resourceRoot.dynamicAnchors[fragment]; ok {
			return found, fragment, nil
		}
	}
	return staticTarget, fragment, nil
}

func dynamicRefKeywordClass() *KeywordClass {
	return &KeywordClass{
		Name:   "$dynamicRef",
		Schema: Str(""),
		New: func(parent *Schema, value *Value) (Keyword, error) {
			return &dynamicRefKeyword{owner: parent, ref: value.Str}, nil
		},
	}
}

// recursiveRefKeyword implements 2019-09's `$recursiveRef`, the
// predecessor to `$dynamicRef`: it only ever targets `#` (the document's
// own root) and walks the dynamic scope looking for the outermost
// resource with `$recursiveAnchor: true`.
type recursiveRefKeyword struct {
	owner *Schema
	ref   string
}

func (k *recursiveRefKeyword) Evaluate(instance *Value, scope *Scope) {
	target, err := resolveStaticRef(k.owner, k.ref)
	if err != nil {
		scope.Fail("recursive-ref", "value does not match the recursively resolved schema {ref}", map[string]any{"ref": k.ref})
		return
	}
	chain := dynamicChain(scope)
	for _, res := range chain {
		if res.resourceRoot.recursiveAnchor {
			target = res.resourceRoot
			break
		}
	}
	exit := enterRef(scope, target)
	defer exit()
	child := EvaluateChild(target, instance, scope, "$recursiveRef", "", "")
	if !child.Valid() {
		scope.Fail("recursive-ref", "value does not match the recursively resolved schema {ref}", map[string]any{"ref": k.ref})
	}
}

func recursiveRefKeywordClass() *KeywordClass {
	return &KeywordClass{
		Name:   "$recursiveRef",
		Schema: Str(""),
		New: func(parent *Schema, value *Value) (Keyword, error) {
			return &recursiveRefKeyword{owner: parent, ref: value.Str}, nil
		},
	}
}

// enterRef records (target's resolved schema location, current instance
// pointer) as in flight on scope's shared recursion set, for the duration
// of resolving one $ref/$dynamicRef/$recursiveRef. Re-entering the same
// fingerprint — a reference cycle that resolves to the same schema without
// the instance location ever advancing — panics with an InfiniteRecursion
// JSONSchemaError rather than recursing until the stack overflows. Cleared
// on exit via the returned func, per spec's entry/exit fingerprint rule.
func enterRef(scope *Scope, target *Schema) func() {
	fingerprint := target.Location() + "@" + scope.InstanceLocation
	if scope.recursion[fingerprint] {
		panic(&JSONSchemaError{
			Kind:           ErrInfiniteRecursion,
			SchemaLocation: scope.SchemaLocation,
			Message:        "reference cycle never advances the instance location",
		})
	}
	scope.recursion[fingerprint] = true
	return func() { delete(scope.recursion, fingerprint) }
}

// dynamicChain returns the chain of schema resources entered while
// producing scope, ordered outermost (root of the evaluation) first —
// the substrate `$dynamicRef`/`$recursiveRef` search over.
func dynamicChain(scope *Scope) []*Schema {
	var resources []*Schema
	seen := map[*Schema]bool{}
	for s := scope; s != nil; s = s.parent {
		if s.schemaCtx != nil && s.schemaCtx.resourceRoot != nil && !seen[s.schemaCtx.resourceRoot] {
			seen[s.schemaCtx.resourceRoot] = true
			resources = append(resources, s.schemaCtx.resourceRoot)
		}
	}
	for i, j := 0, len(resources)-1; i < j; i, j = i+1, j-1 {
		resources[i], resources[j] = resources[j], resources[i]
	}
	return resources
}
