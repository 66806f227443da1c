package jsonschema

// Session is an acquired, exclusive partition of a Catalogue's compiled
// schema cache. It lets concurrent callers register session-local schemas
// (e.g. request-scoped `$ref` overrides) without colliding, and guarantees
// they are dropped together when the session ends.
//
// New to this module — original_source's Catalogue supports session
// tags as a plain string parameter on add_schema/get_schema/del_schema;
// SPEC_FULL promotes that into an explicit acquire/release lifecycle
// object so callers cannot forget to release a tag.
type Session struct {
	catalogue *Catalogue
	tag       string
}

// Tag returns the session's identifying tag.
func (s *Session) Tag() string { return s.tag }

// GetSchema resolves uri within this session's partition (falling back to
// the process-wide partition), exactly as Catalogue.GetSchema does.
func (s *Session) GetSchema(uri string) (*Schema, error) {
	return s.catalogue.GetSchema(uri, s.tag)
}

// AddSchema registers schema under uri in this session's partition.
func (s *Session) AddSchema(uri string, schema *Schema) {
	s.catalogue.AddSchema(uri, schema, s.tag)
}

// Close releases the session tag and unconditionally drops every schema
// cached under it.
func (s *Session) Close() {
	s.catalogue.closeSession(s.tag)
}
