package jsonschema

// contentKeywordClasses returns the Content vocabulary's keyword classes.
// Each of contentEncoding/contentMediaType/contentSchema asserts on its own
// decode failure (rather than being purely annotation-only, as a strict
// reading of the validation spec would have it) — grounded on the
// teacher's content.go, which chained the same three decode stages and
// failed on the first one that errored.
func contentKeywordClasses() []*KeywordClass {
	return []*KeywordClass{
		contentEncodingKeywordClass(),
		contentMediaTypeKeywordClass(),
		contentSchemaKeywordClass(),
	}
}

type contentEncodingKeyword struct {
	owner    *Schema
	encoding string
}

func (k *contentEncodingKeyword) Evaluate(instance *Value, scope *Scope) {
	if instance.Kind != StringValue {
		return
	}
	decode, ok := k.owner.ctx.cat.decoder(k.encoding)
	if !ok {
		scope.Fail("content-encoding", "unsupported content encoding {encoding}", map[string]any{"encoding": k.encoding})
		return
	}
	decoded, err := decode(instance.Str)
	if err != nil {
		scope.Fail("content-encoding", "value is not validly encoded as {encoding}", map[string]any{"encoding": k.encoding})
		return
	}
	scope.Annotate(decoded)
}

func contentEncodingKeywordClass() *KeywordClass {
	return &KeywordClass{
		Name:   "contentEncoding",
		Schema: Str(""),
		Types:  []string{"string"},
		New: func(parent *Schema, value *Value) (Keyword, error) {
			return &contentEncodingKeyword{owner: parent, encoding: value.Str}, nil
		},
	}
}

type contentMediaTypeKeyword struct {
	owner     *Schema
	mediaType string
}

func (k *contentMediaTypeKeyword) Evaluate(instance *Value, scope *Scope) {
	if instance.Kind != StringValue {
		return
	}
	raw := []byte(instance.Str)
	if sib := scope.Sibling("contentEncoding"); sib != nil {
		if ann, ok := sib.Annotation(); ok {
			raw = ann.([]byte)
		} else {
			return // contentEncoding failed to decode; nothing to parse
		}
	}
	decode, ok := k.owner.ctx.cat.mediaTypeDecoder(k.mediaType)
	if !ok {
		scope.Fail("content-media-type", "unsupported content media type {mediaType}", map[string]any{"mediaType": k.mediaType})
		return
	}
	parsed, err := decode(raw)
	if err != nil {
		scope.Fail("content-media-type", "content does not match media type {mediaType}", map[string]any{"mediaType": k.mediaType})
		return
	}
	scope.Annotate(parsed)
}

func contentMediaTypeKeywordClass() *KeywordClass {
	return &KeywordClass{
		Name:    "contentMediaType",
		Schema:  Str(""),
		Types:   []string{"string"},
		Depends: []string{"contentEncoding"},
		New: func(parent *Schema, value *Value) (Keyword, error) {
			return &contentMediaTypeKeyword{owner: parent, mediaType: value.Str}, nil
		},
	}
}

type contentSchemaKeyword struct{ sub *Schema }

func (k *contentSchemaKeyword) Evaluate(instance *Value, scope *Scope) {
	sib := scope.Sibling("contentMediaType")
	if sib == nil {
		return
	}
	ann, ok := sib.Annotation()
	if !ok {
		return
	}
	parsed := ann.(*Value)
	child := EvaluateChild(k.sub, parsed, scope, "contentSchema", "", "")
	if !child.Valid() {
		scope.Fail("content-schema", "decoded content does not match contentSchema")
	}
}

func contentSchemaKeywordClass() *KeywordClass {
	return &KeywordClass{
		Name:    "contentSchema",
		Schema:  Bool(true),
		Types:   []string{"string"},
		Depends: []string{"contentMediaType"},
		New: func(parent *Schema, value *Value) (Keyword, error) {
			sub, err := parent.compileChild("/contentSchema", value)
			if err != nil {
				return nil, err
			}
			return &contentSchemaKeyword{sub: sub}, nil
		},
	}
}
