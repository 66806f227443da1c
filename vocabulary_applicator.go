package jsonschema

import (
	"fmt"
	"regexp"
)

// applicatorKeywordClasses returns the Applicator vocabulary's keyword
// classes. includePrefixItems selects 2020-12's `prefixItems`+`items` split
// (true) versus 2019-09's array-form `items`+`additionalItems` (false).
// Grounded on the teacher's allOf.go/anyOf.go/oneOf.go/not.go/
// conditional.go/dependentSchemas.go/properties.go/patternProperties.go/
// additionalProperties.go/propertyNames.go/items.go/prefixItems.go/
// contains.go, generalized from typed Schema fields into the KeywordClass
// registry.
func applicatorKeywordClasses(includePrefixItems bool) []*KeywordClass {
	classes := []*KeywordClass{
		allOfKeywordClass(),
		anyOfKeywordClass(),
		oneOfKeywordClass(),
		notKeywordClass(),
		ifKeywordClass(),
		thenKeywordClass(),
		elseKeywordClass(),
		dependentSchemasKeywordClass(),
		propertiesKeywordClass(),
		patternPropertiesKeywordClass(),
		additionalPropertiesKeywordClass(),
		propertyNamesKeywordClass(),
		containsKeywordClass(),
	}
	if includePrefixItems {
		classes = append(classes, prefixItemsKeywordClass(), itemsKeywordClass())
	} else {
		classes = append(classes, legacyItemsKeywordClass(), additionalItemsKeywordClass())
	}
	return classes
}

// ---- allOf / anyOf / oneOf / not ----

type allOfKeyword struct{ subs []*Schema }

func (k *allOfKeyword) Evaluate(instance *Value, scope *Scope) {
	for i, sub := range k.subs {
		child := EvaluateChild(sub, instance, scope, "allOf", fmt.Sprintf("/%d", i), "")
		if !child.Valid() {
			scope.Fail("all-of", "value must match all schemas in {keyword}, failed at index {index}", map[string]any{"keyword": "allOf", "index": i})
		}
	}
}

func allOfKeywordClass() *KeywordClass {
	return &KeywordClass{
		Name:   "allOf",
		Schema: Arr(),
		New: func(parent *Schema, value *Value) (Keyword, error) {
			subs, err := compileSchemaArray(parent, "/allOf", value)
			if err != nil {
				return nil, err
			}
			return &allOfKeyword{subs: subs}, nil
		},
	}
}

type anyOfKeyword struct{ subs []*Schema }

func (k *anyOfKeyword) Evaluate(instance *Value, scope *Scope) {
	matched := false
	for i, sub := range k.subs {
		child := EvaluateChildNonAsserting(sub, instance, scope, "anyOf", fmt.Sprintf("/%d", i), "")
		if child.Valid() {
			matched = true
		}
	}
	if !matched {
		scope.Fail("any-of", "value must match at least one schema in {keyword}", map[string]any{"keyword": "anyOf"})
	}
}

func anyOfKeywordClass() *KeywordClass {
	return &KeywordClass{
		Name:   "anyOf",
		Schema: Arr(),
		New: func(parent *Schema, value *Value) (Keyword, error) {
			subs, err := compileSchemaArray(parent, "/anyOf", value)
			if err != nil {
				return nil, err
			}
			return &anyOfKeyword{subs: subs}, nil
		},
	}
}

type oneOfKeyword struct{ subs []*Schema }

func (k *oneOfKeyword) Evaluate(instance *Value, scope *Scope) {
	matches := 0
	for i, sub := range k.subs {
		child := EvaluateChildNonAsserting(sub, instance, scope, "oneOf", fmt.Sprintf("/%d", i), "")
		if child.Valid() {
			matches++
		}
	}
	if matches == 0 {
		scope.Fail("one-of-none", "value must match exactly one schema in {keyword}, matched {count}", map[string]any{"keyword": "oneOf", "count": matches})
	} else if matches > 1 {
		scope.Fail("one-of-multiple", "value must match exactly one schema in {keyword}, matched {count}", map[string]any{"keyword": "oneOf", "count": matches})
	}
}

func oneOfKeywordClass() *KeywordClass {
	return &KeywordClass{
		Name:   "oneOf",
		Schema: Arr(),
		New: func(parent *Schema, value *Value) (Keyword, error) {
			subs, err := compileSchemaArray(parent, "/oneOf", value)
			if err != nil {
				return nil, err
			}
			return &oneOfKeyword{subs: subs}, nil
		},
	}
}

type notKeyword struct{ sub *Schema }

func (k *notKeyword) Evaluate(instance *Value, scope *Scope) {
	child := EvaluateChildNonAsserting(k.sub, instance, scope, "not", "", "")
	if child.Valid() {
		scope.Fail("not", "value must not match the schema in {keyword}", map[string]any{"keyword": "not"})
	}
}

func notKeywordClass() *KeywordClass {
	return &KeywordClass{
		Name:   "not",
		Schema: Bool(true),
		New: func(parent *Schema, value *Value) (Keyword, error) {
			sub, err := parent.compileChild("/not", value)
			if err != nil {
				return nil, err
			}
			return &notKeyword{sub: sub}, nil
		},
	}
}

// ---- if / then / else ----
//
// `if` alone decides which of the sibling `then`/`else` applies; it never
// fails the parent on its own (an invalid `if` simply selects `else`).
// Grounded on the teacher's conditional.go, which threads the same
// if-decides-then/else-applies logic through EvaluationResult instead of
// Scope.

type ifKeyword struct{ sub *Schema }

func (k *ifKeyword) Evaluate(instance *Value, scope *Scope) {
	// `if`'s own outcome never fails the parent; the branch must be made
	// non-asserting before it evaluates; a sibling failure inside it would
	// otherwise propagate invalidity upward as soon as it occurs.
	EvaluateChildNonAsserting(k.sub, instance, scope, "if", "", "")
}

func ifKeywordClass() *KeywordClass {
	return &KeywordClass{
		Name:   "if",
		Schema: Bool(true),
		New: func(parent *Schema, value *Value) (Keyword, error) {
			sub, err := parent.compileChild("/if", value)
			if err != nil {
				return nil, err
			}
			return &ifKeyword{sub: sub}, nil
		},
	}
}

type thenKeyword struct{ sub *Schema }

func (k *thenKeyword) Evaluate(instance *Value, scope *Scope) {
	// The `if` keyword scope itself stays valid (its branch is
	// non-asserting), so the outcome is read from the branch scope.
	ifScope := scope.Sibling("if")
	if ifScope == nil || len(ifScope.Children()) == 0 || !ifScope.Children()[0].Valid() {
		return
	}
	child := EvaluateChild(k.sub, instance, scope, "then", "", "")
	if !child.Valid() {
		scope.Fail("if-then", "value must match the schema in {keyword} when {keyword} is satisfied", map[string]any{"keyword": "then"})
	}
}

func thenKeywordClass() *KeywordClass {
	return &KeywordClass{
		Name:    "then",
		Schema:  Bool(true),
		Depends: []string{"if"},
		New: func(parent *Schema, value *Value) (Keyword, error) {
			sub, err := parent.compileChild("/then", value)
			if err != nil {
				return nil, err
			}
			return &thenKeyword{sub: sub}, nil
		},
	}
}

type elseKeyword struct{ sub *Schema }

func (k *elseKeyword) Evaluate(instance *Value, scope *Scope) {
	ifScope := scope.Sibling("if")
	if ifScope == nil || len(ifScope.Children()) == 0 || ifScope.Children()[0].Valid() {
		return
	}
	child := EvaluateChild(k.sub, instance, scope, "else", "", "")
	if !child.Valid() {
		scope.Fail("if-else", "value must match the schema in {keyword} when {keyword} is not satisfied", map[string]any{"keyword": "else"})
	}
}

func elseKeywordClass() *KeywordClass {
	return &KeywordClass{
		Name:    "else",
		Schema:  Bool(true),
		Depends: []string{"if"},
		New: func(parent *Schema, value *Value) (Keyword, error) {
			sub, err := parent.compileChild("/else", value)
			if err != nil {
				return nil, err
			}
			return &elseKeyword{sub: sub}, nil
		},
	}
}

// ---- dependentSchemas ----

type dependentSchemasKeyword struct{ subs map[string]*Schema }

func (k *dependentSchemasKeyword) Evaluate(instance *Value, scope *Scope) {
	if instance.Kind != ObjectValue {
		return
	}
	for prop, sub := range k.subs {
		if !instance.Has(prop) {
			continue
		}
		child := EvaluateChild(sub, instance, scope, "dependentSchemas", "/"+prop, "")
		if !child.Valid() {
			scope.Fail("dependent-schemas", "value must match the schema dependent on property {property}", map[string]any{"property": prop})
		}
	}
}

func dependentSchemasKeywordClass() *KeywordClass {
	return &KeywordClass{
		Name:   "dependentSchemas",
		Schema: Obj(),
		Types:  []string{"object"},
		New: func(parent *Schema, value *Value) (Keyword, error) {
			subs := make(map[string]*Schema, len(value.Keys))
			for _, key := range value.Keys {
				sub, err := parent.compileChild("/dependentSchemas/"+key, value.Object[key])
				if err != nil {
					return nil, err
				}
				subs[key] = sub
			}
			return &dependentSchemasKeyword{subs: subs}, nil
		},
	}
}

// ---- properties / patternProperties / additionalProperties / propertyNames ----

type propertiesKeyword struct{ subs map[string]*Schema }

func (k *propertiesKeyword) Evaluate(instance *Value, scope *Scope) {
	if instance.Kind != ObjectValue {
		return
	}
	// matched records every property a subschema was applied to, valid or
	// not — additionalProperties/unevaluatedProperties key off which
	// properties were applied to, not which ones passed.
	var matched []string
	for prop, sub := range k.subs {
		propVal, ok := instance.Object[prop]
		if !ok {
			continue
		}
		matched = append(matched, prop)
		child := EvaluateChild(sub, propVal, scope, "properties", "/"+prop, "/"+prop)
		if !child.Valid() {
			scope.Fail("properties", "property {property} does not match its schema", map[string]any{"property": prop})
		}
	}
	scope.Annotate(matched)
}

func propertiesKeywordClass() *KeywordClass {
	return &KeywordClass{
		Name:   "properties",
		Schema: Obj(),
		Types:  []string{"object"},
		New: func(parent *Schema, value *Value) (Keyword, error) {
			subs := make(map[string]*Schema, len(value.Keys))
			for _, key := range value.Keys {
				sub, err := parent.compileChild("/properties/"+key, value.Object[key])
				if err != nil {
					return nil, err
				}
				subs[key] = sub
			}
			return &propertiesKeyword{subs: subs}, nil
		},
	}
}

type patternPropertiesKeyword struct {
	subs map[string]*Schema
	res  map[string]*regexp.Regexp
}

func (k *patternPropertiesKeyword) Evaluate(instance *Value, scope *Scope) {
	if instance.Kind != ObjectValue {
		return
	}
	// matched records every property a subschema was applied to (one entry
	// per matching pattern), valid or not — same rule as `properties`.
	var matched []string
	for _, prop := range instance.Keys {
		propVal := instance.Object[prop]
		for pattern, sub := range k.subs {
			if !k.res[pattern].MatchString(prop) {
				continue
			}
			matched = append(matched, prop)
			child := EvaluateChild(sub, propVal, scope, "patternProperties", "/"+pattern, "/"+prop)
			if !child.Valid() {
				scope.Fail("pattern-properties", "property {property} does not match pattern {pattern}", map[string]any{"property": prop, "pattern": pattern})
			}
		}
	}
	scope.Annotate(matched)
}

func patternPropertiesKeywordClass() *KeywordClass {
	return &KeywordClass{
		Name:   "patternProperties",
		Schema: Obj(),
		Types:  []string{"object"},
		New: func(parent *Schema, value *Value) (Keyword, error) {
			subs := make(map[string]*Schema, len(value.Keys))
			res := make(map[string]*regexp.Regexp, len(value.Keys))
			for _, pattern := range value.Keys {
				sub, err := parent.compileChild("/patternProperties/"+pattern, value.Object[pattern])
				if err != nil {
					return nil, err
				}
				re, err := regexp.Compile(pattern)
				if err != nil {
					return nil, &JSONSchemaError{Kind: ErrSchemaCompilation, Message: "invalid patternProperties regex", Cause: err}
				}
				subs[pattern] = sub
				res[pattern] = re
			}
			return &patternPropertiesKeyword{subs: subs, res: res}, nil
		},
	}
}

type additionalPropertiesKeyword struct{ sub *Schema }

func (k *additionalPropertiesKeyword) Evaluate(instance *Value, scope *Scope) {
	if instance.Kind != ObjectValue {
		return
	}
	evaluated := siblingEvaluatedProperties(scope)
	var matched []string
	for _, prop := range instance.Keys {
		if evaluated[prop] {
			continue
		}
		child := EvaluateChild(k.sub, instance.Object[prop], scope, "additionalProperties", "", "/"+prop)
		if child.Valid() {
			matched = append(matched, prop)
		} else {
			scope.Fail("additional-properties", "additional property {property} does not match the schema", map[string]any{"property": prop})
		}
	}
	scope.Annotate(matched)
}

func additionalPropertiesKeywordClass() *KeywordClass {
	return &KeywordClass{
		Name:    "additionalProperties",
		Schema:  Bool(true),
		Types:   []string{"object"},
		Depends: []string{"properties", "patternProperties"},
		New: func(parent *Schema, value *Value) (Keyword, error) {
			sub, err := parent.compileChild("/additionalProperties", value)
			if err != nil {
				return nil, err
			}
			return &additionalPropertiesKeyword{sub: sub}, nil
		},
	}
}

// siblingEvaluatedProperties collects the property names `properties` and
// `patternProperties` annotated as matched at this schema level, the set
// `additionalProperties` (and, transitively, `unevaluatedProperties`) must
// exclude.
func siblingEvaluatedProperties(scope *Scope) map[string]bool {
	evaluated := map[string]bool{}
	for _, kw := range []string{"properties", "patternProperties"} {
		if sib := scope.Sibling(kw); sib != nil {
			if names, ok := sib.Annotation(); ok {
				for _, n := range names.([]string) {
					evaluated[n] = true
				}
			}
		}
	}
	return evaluated
}

type propertyNamesKeyword struct{ sub *Schema }

func (k *propertyNamesKeyword) Evaluate(instance *Value, scope *Scope) {
	if instance.Kind != ObjectValue {
		return
	}
	for _, prop := range instance.Keys {
		child := EvaluateChild(k.sub, Str(prop), scope, "propertyNames", "", "")
		if !child.Valid() {
			scope.Fail("property-names", "property name {property} does not match the schema", map[string]any{"property": prop})
		}
	}
}

func propertyNamesKeywordClass() *KeywordClass {
	return &KeywordClass{
		Name:   "propertyNames",
		Schema: Bool(true),
		Types:  []string{"object"},
		New: func(parent *Schema, value *Value) (Keyword, error) {
			sub, err := parent.compileChild("/propertyNames", value)
			if err != nil {
				return nil, err
			}
			return &propertyNamesKeyword{sub: sub}, nil
		},
	}
}

// ---- items (2019-09 array form) / additionalItems ----

type legacyItemsKeyword struct {
	single *Schema   // non-nil when `items` is a single schema applied to every item
	tuple  []*Schema // non-nil when `items` is an array (tuple validation)
}

func (k *legacyItemsKeyword) Evaluate(instance *Value, scope *Scope) {
	if instance.Kind != ArrayValue {
		return
	}
	if k.single != nil {
		for i, item := range instance.Array {
			child := EvaluateChild(k.single, item, scope, "items", "", fmt.Sprintf("/%d", i))
			if !child.Valid() {
				scope.Fail("items", "item at index {index} does not match the schema", map[string]any{"index": i})
			}
		}
		scope.Annotate(true)
		return
	}
	n := len(k.tuple)
	if n > len(instance.Array) {
		n = len(instance.Array)
	}
	for i := 0; i < n; i++ {
		child := EvaluateChild(k.tuple[i], instance.Array[i], scope, "items", fmt.Sprintf("/%d", i), fmt.Sprintf("/%d", i))
		if !child.Valid() {
			scope.Fail("items", "item at index {index} does not match the schema", map[string]any{"index": i})
		}
	}
	scope.Annotate(n - 1)
}

func legacyItemsKeywordClass() *KeywordClass {
	return &KeywordClass{
		Name:   "items",
		Schema: Bool(true),
		Types:  []string{"array"},
		New: func(parent *Schema, value *Value) (Keyword, error) {
			if value.Kind == ArrayValue {
				subs, err := compileSchemaArray(parent, "/items", value)
				if err != nil {
					return nil, err
				}
				return &legacyItemsKeyword{tuple: subs}, nil
			}
			sub, err := parent.compileChild("/items", value)
			if err != nil {
				return nil, err
			}
			return &legacyItemsKeyword{single: sub}, nil
		},
	}
}

type additionalItemsKeyword struct{ sub *Schema }

func (k *additionalItemsKeyword) Evaluate(instance *Value, scope *Scope) {
	if instance.Kind != ArrayValue {
		return
	}
	start := 0
	if sib := scope.Sibling("items"); sib != nil {
		if ann, ok := sib.Annotation(); ok {
			switch v := ann.(type) {
			case bool:
				return // `items` already applied to every element
			case int:
				start = v + 1
			}
		}
	}
	applied := false
	for i := start; i < len(instance.Array); i++ {
		applied = true
		child := EvaluateChild(k.sub, instance.Array[i], scope, "additionalItems", "", fmt.Sprintf("/%d", i))
		if !child.Valid() {
			scope.Fail("additional-items", "additional item at index {index} does not match the schema", map[string]any{"index": i})
		}
	}
	if applied {
		scope.Annotate(true)
	}
}

func additionalItemsKeywordClass() *KeywordClass {
	return &KeywordClass{
		Name:    "additionalItems",
		Schema:  Bool(true),
		Types:   []string{"array"},
		Depends: []string{"items"},
		New: func(parent *Schema, value *Value) (Keyword, error) {
			sub, err := parent.compileChild("/additionalItems", value)
			if err != nil {
				return nil, err
			}
			return &additionalItemsKeyword{sub: sub}, nil
		},
	}
}

// ---- prefixItems / items (2020-12) ----

type prefixItemsKeyword struct{ subs []*Schema }

func (k *prefixItemsKeyword) Evaluate(instance *Value, scope *Scope) {
	if instance.Kind != ArrayValue {
		return
	}
	n := len(k.subs)
	if n > len(instance.Array) {
		n = len(instance.Array)
	}
	for i := 0; i < n; i++ {
		child := EvaluateChild(k.subs[i], instance.Array[i], scope, "prefixItems", fmt.Sprintf("/%d", i), fmt.Sprintf("/%d", i))
		if !child.Valid() {
			scope.Fail("prefix-items", "item at index {index} does not match its schema", map[string]any{"index": i})
		}
	}
	if n > 0 {
		scope.Annotate(n - 1)
	}
}

func prefixItemsKeywordClass() *KeywordClass {
	return &KeywordClass{
		Name:   "prefixItems",
		Schema: Arr(),
		Types:  []string{"array"},
		New: func(parent *Schema, value *Value) (Keyword, error) {
			subs, err := compileSchemaArray(parent, "/prefixItems", value)
			if err != nil {
				return nil, err
			}
			return &prefixItemsKeyword{subs: subs}, nil
		},
	}
}

type itemsKeyword struct{ sub *Schema }

func (k *itemsKeyword) Evaluate(instance *Value, scope *Scope) {
	if instance.Kind != ArrayValue {
		return
	}
	start := 0
	if sib := scope.Sibling("prefixItems"); sib != nil {
		if ann, ok := sib.Annotation(); ok {
			start = ann.(int) + 1
		}
	}
	applied := false
	for i := start; i < len(instance.Array); i++ {
		applied = true
		child := EvaluateChild(k.sub, instance.Array[i], scope, "items", "", fmt.Sprintf("/%d", i))
		if !child.Valid() {
			scope.Fail("items", "item at index {index} does not match the schema", map[string]any{"index": i})
		}
	}
	if applied {
		scope.Annotate(true)
	}
}

func itemsKeywordClass() *KeywordClass {
	return &KeywordClass{
		Name:    "items",
		Schema:  Bool(true),
		Types:   []string{"array"},
		Depends: []string{"prefixItems"},
		New: func(parent *Schema, value *Value) (Keyword, error) {
			sub, err := parent.compileChild("/items", value)
			if err != nil {
				return nil, err
			}
			return &itemsKeyword{sub: sub}, nil
		},
	}
}

// ---- contains ----

// containsKeyword reports, via annotation, which indices matched its
// subschema. When a sibling minContains/maxContains is present, those
// keywords take over the pass/fail decision entirely (minContains: 0 makes
// zero matches valid) so contains evaluates non-asserting in that case —
// grounded on original_source/jschon/vocabulary/validation.py's
// ContainsKeyword, which defers to MinContainsKeyword/MaxContainsKeyword
// the same way.
type containsKeyword struct {
	sub          *Schema
	nonAsserting bool
}

func (k *containsKeyword) Evaluate(instance *Value, scope *Scope) {
	if k.nonAsserting {
		scope.SetAssert(false)
	}
	if instance.Kind != ArrayValue {
		return
	}
	var matched []int
	for i, item := range instance.Array {
		child := EvaluateChild(k.sub, item, scope, "contains", "", fmt.Sprintf("/%d", i))
		if child.Valid() {
			matched = append(matched, i)
		}
	}
	scope.Annotate(matched)
	if len(matched) == 0 {
		scope.Fail("contains", "array must contain at least one item matching the schema")
	}
}

func containsKeywordClass() *KeywordClass {
	return &KeywordClass{
		Name:   "contains",
		Schema: Bool(true),
		Types:  []string{"array"},
		New: func(parent *Schema, value *Value) (Keyword, error) {
			sub, err := parent.compileChild("/contains", value)
			if err != nil {
				return nil, err
			}
			nonAsserting := parent.doc.Has("minContains") || parent.doc.Has("maxContains")
			return &containsKeyword{sub: sub, nonAsserting: nonAsserting}, nil
		},
	}
}

// compileSchemaArray compiles each element of an array-valued keyword (
// allOf/anyOf/oneOf/prefixItems/legacy-form items) into a child Schema.
func compileSchemaArray(parent *Schema, step string, value *Value) ([]*Schema, error) {
	subs := make([]*Schema, len(value.Array))
	for i, item := range value.Array {
		sub, err := parent.compileChild(fmt.Sprintf("%s/%d", step, i), item)
		if err != nil {
			return nil, err
		}
		subs[i] = sub
	}
	return subs, nil
}
