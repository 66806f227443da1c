package jsonschema

import "embed"

//go:embed metaschemas/*.json
var metaschemasFS embed.FS

// Metaschema is a registered metaschema resource: the vocabularies it
// requires, and (once bootstrapped) its own compiled Schema, which is used
// to self-validate the metaschema document; Compile does not validate
// other schemas' documents against it. Grounded on original_source's Metaschema,
// which subclasses JSONSchema and additionally tracks core_vocabulary /
// vocabulary; here it is a distinct type since Go has no subclassing, but
// it embeds the same data a Catalogue needs to activate vocabularies for
// schemas that declare this metaschema via `$schema`.
type Metaschema struct {
	catalogue    *Catalogue
	uri          string
	vocabularies []*Vocabulary
	schema       *Schema
}

// URI returns the metaschema's identifying URI.
func (m *Metaschema) URI() string { return m.uri }

// Vocabularies returns the vocabularies this metaschema activates.
func (m *Metaschema) Vocabularies() []*Vocabulary { return m.vocabularies }

// Well-known vocabulary URIs, used throughout the core/applicator/
// validation/format/content/metadata keyword registrations and to decide
// whether `format` is an assertion or an annotation-only vocabulary.
const (
	Core201909URI        = "https://json-schema.org/draft/2019-09/vocab/core"
	Applicator201909URI  = "https://json-schema.org/draft/2019-09/vocab/applicator"
	Validation201909URI  = "https://json-schema.org/draft/2019-09/vocab/validation"
	FormatAnnotation201909URI = "https://json-schema.org/draft/2019-09/vocab/format"
	Content201909URI     = "https://json-schema.org/draft/2019-09/vocab/content"
	Metadata201909URI    = "https://json-schema.org/draft/2019-09/vocab/meta-data"

	Core202012URI              = "https://json-schema.org/draft/2020-12/vocab/core"
	Applicator202012URI        = "https://json-schema.org/draft/2020-12/vocab/applicator"
	Unevaluated202012URI       = "https://json-schema.org/draft/2020-12/vocab/unevaluated"
	Validation202012URI        = "https://json-schema.org/draft/2020-12/vocab/validation"
	FormatAnnotation202012URI  = "https://json-schema.org/draft/2020-12/vocab/format-annotation"
	FormatAssertion202012URI   = "https://json-schema.org/draft/2020-12/vocab/format-assertion"
	Content202012URI           = "https://json-schema.org/draft/2020-12/vocab/content"
	Metadata202012URI          = "https://json-schema.org/draft/2020-12/vocab/meta-data"

	Metaschema201909URI = "https://json-schema.org/draft/2019-09/schema"
	Metaschema202012URI = "https://json-schema.org/draft/2020-12/schema"
)

// FormatAssertionVocabularyURI is the format vocabulary URI that, when it
// is among the vocabularies registered for a metaschema, makes the
// `format` keyword an assertion instead of an annotation. Only the 2020-12
// "format-assertion" URI has this effect; 2019-09 has no separate
// assertion vocabulary, so its format vocabulary is always
// annotation-only.
const FormatAssertionVocabularyURI = FormatAssertion202012URI

var versionInitializers = map[string]func(*Catalogue) error{
	"2019-09": initialize201909,
	"2020-12": initialize202012,
}

func initialize201909(c *Catalogue) error {
	c.CreateVocabulary(Core201909URI, coreKeywordClasses(true)...)
	c.CreateVocabulary(Applicator201909URI, applicatorKeywordClasses(false)...)
	c.CreateVocabulary(Validation201909URI, validationKeywordClasses()...)
	c.CreateVocabulary(FormatAnnotation201909URI, formatKeywordClasses()...)
	c.CreateVocabulary(Content201909URI, contentKeywordClasses()...)
	c.CreateVocabulary(Metadata201909URI, metadataKeywordClasses()...)

	doc, err := loadEmbeddedMetaschema("2019-09.json")
	if err != nil {
		return err
	}
	return c.CreateMetaschema(doc, Metaschema201909URI, Core201909URI,
		Applicator201909URI, Validation201909URI, FormatAnnotation201909URI, Content201909URI, Metadata201909URI)
}

func initialize202012(c *Catalogue) error {
	c.CreateVocabulary(Core202012URI, coreKeywordClasses(false)...)
	c.CreateVocabulary(Applicator202012URI, applicatorKeywordClasses(true)...)
	c.CreateVocabulary(Unevaluated202012URI, unevaluatedKeywordClasses()...)
	c.CreateVocabulary(Validation202012URI, validationKeywordClasses()...)
	c.CreateVocabulary(FormatAnnotation202012URI, formatKeywordClasses()...)
	c.CreateVocabulary(FormatAssertion202012URI, formatKeywordClasses()...)
	c.CreateVocabulary(Content202012URI, contentKeywordClasses()...)
	c.CreateVocabulary(Metadata202012URI, metadataKeywordClasses()...)

	doc, err := loadEmbeddedMetaschema("2020-12.json")
	if err != nil {
		return err
	}
	return c.CreateMetaschema(doc, Metaschema202012URI, Core202012URI,
		Applicator202012URI, Unevaluated202012URI, Validation202012URI, FormatAnnotation202012URI, Content202012URI, Metadata202012URI)
}

func loadEmbeddedMetaschema(name string) (*Value, error) {
	data, err := metaschemasFS.ReadFile("metaschemas/" + name)
	if err != nil {
		return nil, &CatalogueError{Kind: ErrBootstrapFailed, URI: name, Cause: err}
	}
	return ParseValue(data)
}
