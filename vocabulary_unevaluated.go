package jsonschema

import "fmt"

// unevaluatedKeywordClasses returns the 2020-12 Unevaluated vocabulary's
// keyword classes. Grounded on the teacher's unevaluatedProperties.go/
// unevaluatedItems.go, which tracked evaluated names/indices through
// explicit maps threaded down the call stack; here the same information is
// recovered from the Scope tree's annotations instead, since Scope already
// carries it for `additionalProperties`/`additionalItems`.
func unevaluatedKeywordClasses() []*KeywordClass {
	return []*KeywordClass{unevaluatedPropertiesKeywordClass(), unevaluatedItemsKeywordClass()}
}

// applicatorKeywords are the sibling keywords whose nested scope trees may
// contain further `properties`/`items`/`unevaluated*` annotations that
// count toward this level's evaluated set.
var applicatorKeywords = []string{
	"allOf", "anyOf", "oneOf", "if", "then", "else", "dependentSchemas",
	"$ref", "$dynamicRef", "$recursiveRef",
}

// collectEvaluatedProperties walks scope's sibling keyword scopes (and,
// recursively, the subschema scopes reached through applicator keywords),
// returning every object property name some keyword at or below this level
// has already evaluated.
func collectEvaluatedProperties(scope *Scope) map[string]bool {
	evaluated := map[string]bool{}
	for _, kw := range []string{"properties", "patternProperties", "additionalProperties", "unevaluatedProperties"} {
		if sib := scope.Sibling(kw); sib != nil {
			if names, ok := sib.Annotation(); ok {
				if list, ok := names.([]string); ok {
					for _, n := range list {
						evaluated[n] = true
					}
				}
			}
		}
	}
	for _, kw := range applicatorKeywords {
		sib := scope.Sibling(kw)
		if sib == nil || !sib.Valid() {
			continue
		}
		for prop := range collectEvaluatedPropertiesAcross(sib) {
			evaluated[prop] = true
		}
	}
	return evaluated
}

// collectEvaluatedPropertiesAcross gathers evaluated property names from
// every child scope sib produced (covers oneOf/anyOf branch arrays and
// dependentSchemas' per-property subschemas, which fan out into several
// children rather than one). Each child is a subschema-level scope whose
// keyword scopes are its own children, so it is walked through a probe
// scope whose parent is that child.
func collectEvaluatedPropertiesAcross(sib *Scope) map[string]bool {
	evaluated := map[string]bool{}
	for _, child := range sib.Children() {
		if !child.Valid() {
			continue
		}
		for prop := range collectEvaluatedProperties(&Scope{parent: child}) {
			evaluated[prop] = true
		}
	}
	return evaluated
}

type unevaluatedPropertiesKeyword struct{ sub *Schema }

func (k *unevaluatedPropertiesKeyword) Evaluate(instance *Value, scope *Scope) {
	if instance.Kind != ObjectValue {
		return
	}
	evaluated := collectEvaluatedProperties(scope)
	var matched []string
	for _, prop := range instance.Keys {
		if evaluated[prop] {
			continue
		}
		child := EvaluateChild(k.sub, instance.Object[prop], scope, "unevaluatedProperties", "", "/"+prop)
		if child.Valid() {
			matched = append(matched, prop)
		} else {
			scope.Fail("unevaluated-properties", "unevaluated property {property} does not match the schema", map[string]any{"property": prop})
		}
	}
	scope.Annotate(matched)
}

func unevaluatedPropertiesKeywordClass() *KeywordClass {
	return &KeywordClass{
		Name:  "unevaluatedProperties",
		Schema: Bool(true),
		Types: []string{"object"},
		Depends: []string{
			"properties", "patternProperties", "additionalProperties",
			"allOf", "anyOf", "oneOf", "if", "then", "else", "dependentSchemas",
			"$ref", "$dynamicRef", "$recursiveRef",
		},
		New: func(parent *Schema, value *Value) (Keyword, error) {
			sub, err := parent.compileChild("/unevaluatedProperties", value)
			if err != nil {
				return nil, err
			}
			return &unevaluatedPropertiesKeyword{sub: sub}, nil
		},
	}
}

// collectEvaluatedItems mirrors collectEvaluatedProperties for arrays: the
// highest index `prefixItems`/legacy `items` evaluated up to, plus whether
// `items`/`additionalItems`/`contains`/`unevaluatedItems` applied to the
// remainder, gathered from this level and from applicator siblings.
func collectEvaluatedItems(scope *Scope, length int) map[int]bool {
	evaluated := map[int]bool{}
	for _, kw := range []string{"prefixItems", "items"} {
		if sib := scope.Sibling(kw); sib != nil {
			if ann, ok := sib.Annotation(); ok {
				switch v := ann.(type) {
				case bool:
					if v {
						for i := 0; i < length; i++ {
							evaluated[i] = true
						}
					}
				case int:
					for i := 0; i <= v && i < length; i++ {
						evaluated[i] = true
					}
				}
			}
		}
	}
	if sib := scope.Sibling("additionalItems"); sib != nil {
		if ann, ok := sib.Annotation(); ok && ann.(bool) {
			for i := 0; i < length; i++ {
				evaluated[i] = true
			}
		}
	}
	if sib := scope.Sibling("contains"); sib != nil {
		if ann, ok := sib.Annotation(); ok {
			for _, i := range ann.([]int) {
				evaluated[i] = true
			}
		}
	}
	if sib := scope.Sibling("unevaluatedItems"); sib != nil {
		if ann, ok := sib.Annotation(); ok && ann.(bool) {
			for i := 0; i < length; i++ {
				evaluated[i] = true
			}
		}
	}
	for _, kw := range applicatorKeywords {
		sib := scope.Sibling(kw)
		if sib == nil || !sib.Valid() {
			continue
		}
		for _, child := range sib.Children() {
			if !child.Valid() {
				continue
			}
			for i := range collectEvaluatedItems(&Scope{parent: child}, length) {
				evaluated[i] = true
			}
		}
	}
	return evaluated
}

type unevaluatedItemsKeyword struct{ sub *Schema }

func (k *unevaluatedItemsKeyword) Evaluate(instance *Value, scope *Scope) {
	if instance.Kind != ArrayValue {
		return
	}
	evaluated := collectEvaluatedItems(scope, len(instance.Array))
	applied := false
	for i, item := range instance.Array {
		if evaluated[i] {
			continue
		}
		applied = true
		child := EvaluateChild(k.sub, item, scope, "unevaluatedItems", "", fmt.Sprintf("/%d", i))
		if !child.Valid() {
			scope.Fail("unevaluated-items", "unevaluated item at index {index} does not match the schema", map[string]any{"index": i})
		}
	}
	if applied {
		scope.Annotate(true)
	}
}

func unevaluatedItemsKeywordClass() *KeywordClass {
	return &KeywordClass{
		Name:   "unevaluatedItems",
		Schema: Bool(true),
		Types:  []string{"array"},
		Depends: []string{
			"prefixItems", "items", "additionalItems", "contains",
			"allOf", "anyOf", "oneOf", "if", "then", "else", "dependentSchemas",
			"$ref", "$dynamicRef", "$recursiveRef",
		},
		New: func(parent *Schema, value *Value) (Keyword, error) {
			sub, err := parent.compileChild("/unevaluatedItems", value)
			if err != nil {
				return nil, err
			}
			return &unevaluatedItemsKeyword{sub: sub}, nil
		},
	}
}
