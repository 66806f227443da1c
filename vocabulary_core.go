package jsonschema

// coreKeywordClasses returns the Core vocabulary's keyword classes: `$ref`
// plus `$defs` (always), and whichever dynamic-scope reference keyword the
// draft uses — `$recursiveRef` for 2019-09, `$dynamicRef` for 2020-12.
// Grounded on original_source/jschon/vocabulary/core.py, which registers the
// same split between the two draft versions.
func coreKeywordClasses(legacy bool) []*KeywordClass {
	classes := []*KeywordClass{refKeywordClass(), defsKeywordClass("$defs"), definitionsKeywordClass()}
	if legacy {
		classes = append(classes, recursiveRefKeywordClass())
	} else {
		classes = append(classes, dynamicRefKeywordClass())
	}
	return classes
}

// defsKeyword compiles a defs-style object's entries so they are reachable
// by JSON Pointer (and register as resource roots if they declare their own
// `$id`) without being applied to the instance themselves.
type defsKeyword struct{}

func (defsKeyword) Evaluate(instance *Value, scope *Scope) {}

func defsKeywordClass(name string) *KeywordClass {
	return &KeywordClass{
		Name:   name,
		Schema: Obj(),
		New: func(parent *Schema, value *Value) (Keyword, error) {
			if value.Kind == ObjectValue {
				for _, key := range value.Keys {
					if _, err := parent.compileChild("/"+name+"/"+key, value.Object[key]); err != nil {
						return nil, err
					}
				}
			}
			return defsKeyword{}, nil
		},
	}
}

// definitionsKeywordClass registers draft-7's "definitions" the same way as
// `$defs`: a bag of reachable-by-pointer subschemas, never applied to the
// instance. Kept for compatibility with schemas migrated from older drafts,
// mirroring the teacher's UnmarshalJSON handling of legacy keyword aliases.
func definitionsKeywordClass() *KeywordClass {
	return defsKeywordClass("definitions")
}
