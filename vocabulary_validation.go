package jsonschema

import (
	"math/big"
	"regexp"
)

// validationKeywordClasses returns the Validation vocabulary's keyword
// classes, shared unchanged between 2019-09 and 2020-12. Grounded on the
// teacher's type.go/enum.go/const.go/multipleOf.go/maximum.go/minimum.go/
// exclusiveMaximum.go/exclusiveMinimum.go/maxlength.go/minlength.go/
// pattern.go/maxItems.go/minItems.go/uniqueItems.go/maxProperties.go/
// minProperties.go/required.go/dependentRequired.go, reworked against
// Number (exact decimal) and Value instead of the teacher's json.Number/any.
func validationKeywordClasses() []*KeywordClass {
	return []*KeywordClass{
		typeKeywordClass(),
		enumKeywordClass(),
		constKeywordClass(),
		multipleOfKeywordClass(),
		maximumKeywordClass(),
		exclusiveMaximumKeywordClass(),
		minimumKeywordClass(),
		exclusiveMinimumKeywordClass(),
		maxLengthKeywordClass(),
		minLengthKeywordClass(),
		patternKeywordClass(),
		maxItemsKeywordClass(),
		minItemsKeywordClass(),
		uniqueItemsKeywordClass(),
		maxContainsKeywordClass(),
		minContainsKeywordClass(),
		maxPropertiesKeywordClass(),
		minPropertiesKeywordClass(),
		requiredKeywordClass(),
		dependentRequiredKeywordClass(),
	}
}

// ---- type ----
//
// "integer" is not a JSON Schema instance type (Value.Kind never reports
// it) — the `type` keyword is the one place that distinction is tested, by
// asking whether a NumberValue instance's Number has no fractional part.
// Grounded on the teacher's type.go, which performed the same float-is-
// whole-number check against json.Number.

type typeKeyword struct{ types []string }

func (k *typeKeyword) Evaluate(instance *Value, scope *Scope) {
	actual := instance.TypeName()
	for _, t := range k.types {
		if t == actual {
			return
		}
		if t == "integer" && actual == "number" && instance.Num.IsInteger() {
			return
		}
	}
	scope.Fail("type-mismatch", "value must be of type {types}, got {actual}", map[string]any{"types": k.types, "actual": actual})
}

func typeKeywordClass() *KeywordClass {
	return &KeywordClass{
		Name:   "type",
		Schema: Bool(true),
		New: func(parent *Schema, value *Value) (Keyword, error) {
			var types []string
			if value.Kind == StringValue {
				types = []string{value.Str}
			} else {
				for _, v := range value.Array {
					types = append(types, v.Str)
				}
			}
			return &typeKeyword{types: types}, nil
		},
	}
}

// ---- enum / const ----

type enumKeyword struct{ values []*Value }

func (k *enumKeyword) Evaluate(instance *Value, scope *Scope) {
	for _, v := range k.values {
		if instance.Equal(v) {
			return
		}
	}
	scope.Fail("enum-mismatch", "value must be one of the enumerated values")
}

func enumKeywordClass() *KeywordClass {
	return &KeywordClass{
		Name:   "enum",
		Schema: Arr(),
		New: func(parent *Schema, value *Value) (Keyword, error) {
			return &enumKeyword{values: value.Array}, nil
		},
	}
}

type constKeyword struct{ value *Value }

func (k *constKeyword) Evaluate(instance *Value, scope *Scope) {
	if !instance.Equal(k.value) {
		scope.Fail("const-mismatch", "value must equal the constant")
	}
}

func constKeywordClass() *KeywordClass {
	return &KeywordClass{
		Name:   "const",
		Schema: Bool(true),
		New: func(parent *Schema, value *Value) (Keyword, error) {
			return &constKeyword{value: value}, nil
		},
	}
}

// ---- numeric range keywords ----

type multipleOfKeyword struct{ divisor *Number }

func (k *multipleOfKeyword) Evaluate(instance *Value, scope *Scope) {
	quotient := new(big.Rat).Quo(instance.Num.Rat, k.divisor.Rat)
	if !quotient.IsInt() {
		scope.Fail("multiple-of", "value must be a multiple of {divisor}", map[string]any{"divisor": k.divisor.String()})
	}
}

func multipleOfKeywordClass() *KeywordClass {
	return &KeywordClass{
		Name:   "multipleOf",
		Schema: Num_(0),
		Types:  []string{"number"},
		New: func(parent *Schema, value *Value) (Keyword, error) {
			return &multipleOfKeyword{divisor: value.Num}, nil
		},
	}
}

type maximumKeyword struct{ limit *Number }

func (k *maximumKeyword) Evaluate(instance *Value, scope *Scope) {
	if instance.Num.Cmp(k.limit.Rat) > 0 {
		scope.Fail("maximum", "value must be <= {limit}", map[string]any{"limit": k.limit.String()})
	}
}

func maximumKeywordClass() *KeywordClass {
	return &KeywordClass{
		Name:   "maximum",
		Schema: Num_(0),
		Types:  []string{"number"},
		New: func(parent *Schema, value *Value) (Keyword, error) {
			return &maximumKeyword{limit: value.Num}, nil
		},
	}
}

type exclusiveMaximumKeyword struct{ limit *Number }

func (k *exclusiveMaximumKeyword) Evaluate(instance *Value, scope *Scope) {
	if instance.Num.Cmp(k.limit.Rat) >= 0 {
		scope.Fail("exclusive-maximum", "value must be < {limit}", map[string]any{"limit": k.limit.String()})
	}
}

func exclusiveMaximumKeywordClass() *KeywordClass {
	return &KeywordClass{
		Name:   "exclusiveMaximum",
		Schema: Num_(0),
		Types:  []string{"number"},
		New: func(parent *Schema, value *Value) (Keyword, error) {
			return &exclusiveMaximumKeyword{limit: value.Num}, nil
		},
	}
}

type minimumKeyword struct{ limit *Number }

func (k *minimumKeyword) Evaluate(instance *Value, scope *Scope) {
	if instance.Num.Cmp(k.limit.Rat) < 0 {
		scope.Fail("minimum", "value must be >= {limit}", map[string]any{"limit": k.limit.String()})
	}
}

func minimumKeywordClass() *KeywordClass {
	return &KeywordClass{
		Name:   "minimum",
		Schema: Num_(0),
		Types:  []string{"number"},
		New: func(parent *Schema, value *Value) (Keyword, error) {
			return &minimumKeyword{limit: value.Num}, nil
		},
	}
}

type exclusiveMinimumKeyword struct{ limit *Number }

func (k *exclusiveMinimumKeyword) Evaluate(instance *Value, scope *Scope) {
	if instance.Num.Cmp(k.limit.Rat) <= 0 {
		scope.Fail("exclusive-minimum", "value must be > {limit}", map[string]any{"limit": k.limit.String()})
	}
}

func exclusiveMinimumKeywordClass() *KeywordClass {
	return &KeywordClass{
		Name:   "exclusiveMinimum",
		Schema: Num_(0),
		Types:  []string{"number"},
		New: func(parent *Schema, value *Value) (Keyword, error) {
			return &exclusiveMinimumKeyword{limit: value.Num}, nil
		},
	}
}

// ---- string length / pattern ----

type maxLengthKeyword struct{ limit int }

func (k *maxLengthKeyword) Evaluate(instance *Value, scope *Scope) {
	if instance.Len() > k.limit {
		scope.Fail("max-length", "length must be <= {limit}", map[string]any{"limit": k.limit})
	}
}

func maxLengthKeywordClass() *KeywordClass {
	return &KeywordClass{
		Name:   "maxLength",
		Schema: Num_(0),
		Types:  []string{"string"},
		New: func(parent *Schema, value *Value) (Keyword, error) {
			return &maxLengthKeyword{limit: int(value.Num.Num().Int64())}, nil
		},
	}
}

type minLengthKeyword struct{ limit int }

func (k *minLengthKeyword) Evaluate(instance *Value, scope *Scope) {
	if instance.Len() < k.limit {
		scope.Fail("min-length", "length must be >= {limit}", map[string]any{"limit": k.limit})
	}
}

func minLengthKeywordClass() *KeywordClass {
	return &KeywordClass{
		Name:   "minLength",
		Schema: Num_(0),
		Types:  []string{"string"},
		New: func(parent *Schema, value *Value) (Keyword, error) {
			return &minLengthKeyword{limit: int(value.Num.Num().Int64())}, nil
		},
	}
}

type patternKeyword struct {
	re     *regexp.Regexp
	source string
}

func (k *patternKeyword) Evaluate(instance *Value, scope *Scope) {
	if !k.re.MatchString(instance.Str) {
		scope.Fail("pattern", "value must match the pattern {pattern}", map[string]any{"pattern": k.source})
	}
}

func patternKeywordClass() *KeywordClass {
	return &KeywordClass{
		Name:   "pattern",
		Schema: Str(""),
		Types:  []string{"string"},
		New: func(parent *Schema, value *Value) (Keyword, error) {
			re, err := regexp.Compile(value.Str)
			if err != nil {
				return nil, &JSONSchemaError{Kind: ErrSchemaCompilation, Message: "invalid pattern regex", Cause: err}
			}
			return &patternKeyword{re: re, source: value.Str}, nil
		},
	}
}

// ---- array size / uniqueness / contains bounds ----

type maxItemsKeyword struct{ limit int }

func (k *maxItemsKeyword) Evaluate(instance *Value, scope *Scope) {
	if instance.Len() > k.limit {
		scope.Fail("max-items", "array must have at most {limit} items", map[string]any{"limit": k.limit})
	}
}

func maxItemsKeywordClass() *KeywordClass {
	return &KeywordClass{
		Name:   "maxItems",
		Schema: Num_(0),
		Types:  []string{"array"},
		New: func(parent *Schema, value *Value) (Keyword, error) {
			return &maxItemsKeyword{limit: int(value.Num.Num().Int64())}, nil
		},
	}
}

type minItemsKeyword struct{ limit int }

func (k *minItemsKeyword) Evaluate(instance *Value, scope *Scope) {
	if instance.Len() < k.limit {
		scope.Fail("min-items", "array must have at least {limit} items", map[string]any{"limit": k.limit})
	}
}

func minItemsKeywordClass() *KeywordClass {
	return &KeywordClass{
		Name:   "minItems",
		Schema: Num_(0),
		Types:  []string{"array"},
		New: func(parent *Schema, value *Value) (Keyword, error) {
			return &minItemsKeyword{limit: int(value.Num.Num().Int64())}, nil
		},
	}
}

type uniqueItemsKeyword struct{ enabled bool }

func (k *uniqueItemsKeyword) Evaluate(instance *Value, scope *Scope) {
	if !k.enabled {
		return
	}
	for i := 1; i < len(instance.Array); i++ {
		for j := 0; j < i; j++ {
			if instance.Array[i].Equal(instance.Array[j]) {
				scope.Fail("unique-items", "array items at indices {i} and {j} are duplicates", map[string]any{"i": i, "j": j})
				return
			}
		}
	}
}

func uniqueItemsKeywordClass() *KeywordClass {
	return &KeywordClass{
		Name:   "uniqueItems",
		Schema: Bool(true),
		Types:  []string{"array"},
		New: func(parent *Schema, value *Value) (Keyword, error) {
			return &uniqueItemsKeyword{enabled: value.Boolean}, nil
		},
	}
}

// maxContainsKeyword / minContainsKeyword read the `contains` sibling's
// matched-index annotation and decide validity from its count, rather than
// from whether `contains` itself passed (see containsKeyword.nonAsserting).

type maxContainsKeyword struct{ limit int }

func (k *maxContainsKeyword) Evaluate(instance *Value, scope *Scope) {
	sib := scope.Sibling("contains")
	if sib == nil {
		return
	}
	matched, _ := sib.Annotation()
	count := 0
	if m, ok := matched.([]int); ok {
		count = len(m)
	}
	if count > k.limit {
		scope.Fail("max-contains", "array must contain at most {limit} matching items", map[string]any{"limit": k.limit})
	}
}

func maxContainsKeywordClass() *KeywordClass {
	return &KeywordClass{
		Name:    "maxContains",
		Schema:  Num_(0),
		Types:   []string{"array"},
		Depends: []string{"contains"},
		New: func(parent *Schema, value *Value) (Keyword, error) {
			return &maxContainsKeyword{limit: int(value.Num.Num().Int64())}, nil
		},
	}
}

type minContainsKeyword struct{ limit int }

func (k *minContainsKeyword) Evaluate(instance *Value, scope *Scope) {
	sib := scope.Sibling("contains")
	if sib == nil {
		return
	}
	matched, _ := sib.Annotation()
	count := 0
	if m, ok := matched.([]int); ok {
		count = len(m)
	}
	if count < k.limit {
		scope.Fail("min-contains", "array must contain at least {limit} matching items", map[string]any{"limit": k.limit})
	}
	if k.limit == 0 {
		// zero matches are allowed, so contains' own zero-match error is dropped
		sib.ClearErrors()
	}
}

func minContainsKeywordClass() *KeywordClass {
	return &KeywordClass{
		Name:    "minContains",
		Schema:  Num_(0),
		Types:   []string{"array"},
		Depends: []string{"contains"},
		New: func(parent *Schema, value *Value) (Keyword, error) {
			return &minContainsKeyword{limit: int(value.Num.Num().Int64())}, nil
		},
	}
}

// ---- object size / required ----

type maxPropertiesKeyword struct{ limit int }

func (k *maxPropertiesKeyword) Evaluate(instance *Value, scope *Scope) {
	if instance.Len() > k.limit {
		scope.Fail("max-properties", "object must have at most {limit} properties", map[string]any{"limit": k.limit})
	}
}

func maxPropertiesKeywordClass() *KeywordClass {
	return &KeywordClass{
		Name:   "maxProperties",
		Schema: Num_(0),
		Types:  []string{"object"},
		New: func(parent *Schema, value *Value) (Keyword, error) {
			return &maxPropertiesKeyword{limit: int(value.Num.Num().Int64())}, nil
		},
	}
}

type minPropertiesKeyword struct{ limit int }

func (k *minPropertiesKeyword) Evaluate(instance *Value, scope *Scope) {
	if instance.Len() < k.limit {
		scope.Fail("min-properties", "object must have at least {limit} properties", map[string]any{"limit": k.limit})
	}
}

func minPropertiesKeywordClass() *KeywordClass {
	return &KeywordClass{
		Name:   "minProperties",
		Schema: Num_(0),
		Types:  []string{"object"},
		New: func(parent *Schema, value *Value) (Keyword, error) {
			return &minPropertiesKeyword{limit: int(value.Num.Num().Int64())}, nil
		},
	}
}

type requiredKeyword struct{ names []string }

func (k *requiredKeyword) Evaluate(instance *Value, scope *Scope) {
	for _, name := range k.names {
		if !instance.Has(name) {
			scope.Fail("required", "property {property} is required", map[string]any{"property": name})
		}
	}
}

func requiredKeywordClass() *KeywordClass {
	return &KeywordClass{
		Name:   "required",
		Schema: Arr(),
		Types:  []string{"object"},
		New: func(parent *Schema, value *Value) (Keyword, error) {
			names := make([]string, len(value.Array))
			for i, v := range value.Array {
				names[i] = v.Str
			}
			return &requiredKeyword{names: names}, nil
		},
	}
}

type dependentRequiredKeyword struct{ deps map[string][]string }

func (k *dependentRequiredKeyword) Evaluate(instance *Value, scope *Scope) {
	for prop, required := range k.deps {
		if !instance.Has(prop) {
			continue
		}
		for _, name := range required {
			if !instance.Has(name) {
				scope.Fail("dependent-required", "property {property} requires property {required}", map[string]any{"property": prop, "required": name})
			}
		}
	}
}

func dependentRequiredKeywordClass() *KeywordClass {
	return &KeywordClass{
		Name:   "dependentRequired",
		Schema: Obj(),
		Types:  []string{"object"},
		New: func(parent *Schema, value *Value) (Keyword, error) {
			deps := make(map[string][]string, len(value.Keys))
			for _, key := range value.Keys {
				arr := value.Object[key]
				names := make([]string, len(arr.Array))
				for i, v := range arr.Array {
					names[i] = v.Str
				}
				deps[key] = names
			}
			return &dependentRequiredKeyword{deps: deps}, nil
		},
	}
}
