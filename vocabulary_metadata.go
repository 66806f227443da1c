package jsonschema

// metadataKeywordClasses returns the Meta-Data vocabulary's keyword
// classes: title/description/default/deprecated/readOnly/writeOnly/examples
// never constrain an instance, they only record an annotation for tooling
// to read back. Grounded on the teacher's struct-tag doc comments for these
// fields (schema.go's Title/Description/Default etc.), generalized into
// annotation-only keywords since nothing here asserts.
func metadataKeywordClasses() []*KeywordClass {
	names := []string{"title", "description", "deprecated", "readOnly", "writeOnly", "examples"}
	classes := make([]*KeywordClass, 0, len(names)+1)
	for _, name := range names {
		classes = append(classes, annotationKeywordClass(name))
	}
	classes = append(classes, annotationKeywordClass("default"))
	return classes
}

type annotationKeyword struct{ value *Value }

func (k *annotationKeyword) Evaluate(instance *Value, scope *Scope) {
	scope.Annotate(k.value)
}

func annotationKeywordClass(name string) *KeywordClass {
	return &KeywordClass{
		Name:   name,
		Schema: Bool(true),
		New: func(parent *Schema, value *Value) (Keyword, error) {
			return &annotationKeyword{value: value}, nil
		},
	}
}
