package jsonschema

import (
	"net/url"
	"path"
	"strings"
)

// URI wraps net/url.URL with the resolution rules `$id`/`$ref`/`$anchor`
// need: splitting a reference into base URI and fragment, resolving a
// relative reference against a base, and computing the base URI a schema
// resource contributes to its subschemas. Grounded on the teacher's
// utils.go (getURLScheme, resolveRelativeURI, getBaseURI, splitRef),
// generalized into a value type instead of a clutch of free functions.
type URI struct {
	*url.URL
}

// ParseURI parses s, reporting a URIError (not a bare url error) on failure
// so catalogue and compiler code can wrap it uniformly.
func ParseURI(s string) (*URI, error) {
	u, err := url.Parse(s)
	if err != nil {
		return nil, &URIError{Kind: ErrInvalidURI, URI: s, Cause: err}
	}
	return &URI{u}, nil
}

// IsAbsolute reports whether the URI has both a scheme and is not merely a
// fragment-only reference.
func (u *URI) IsAbsolute() bool {
	return u != nil && u.Scheme != ""
}

// ResolveReference resolves ref (relative or absolute) against u, per
// RFC 3986 §5 — the same operation net/url.URL.ResolveReference performs,
// exposed on our wrapper so callers never reach past it into net/url.
func (u *URI) ResolveReference(ref *URI) *URI {
	return &URI{u.URL.ResolveReference(ref.URL)}
}

// WithoutFragment returns a copy of u with its fragment cleared, the
// canonical form used as a schema resource's base URI and as a cache key.
func (u *URI) WithoutFragment() *URI {
	cp := *u.URL
	cp.Fragment = ""
	cp.RawFragment = ""
	return &URI{&cp}
}

// SplitRef splits a `$ref`/`$dynamicRef` value into its base-URI part and
// fragment part (without the leading `#`). Mirrors the teacher's splitRef.
func SplitRef(ref string) (base string, fragment string) {
	parts := strings.SplitN(ref, "#", 2)
	if len(parts) == 2 {
		return parts[0], parts[1]
	}
	return ref, ""
}

// BaseDir computes the directory-level base URI an `$id` value
// contributes to resolving sibling/child relative references, mirroring
// the teacher's getBaseURI: if the id's path already ends in "/" it is
// used as-is, otherwise the final path segment is dropped.
func BaseDir(id *URI) *URI {
	if id == nil {
		return nil
	}
	cp := *id.URL
	if strings.HasSuffix(cp.Path, "/") {
		return &URI{&cp}
	}
	cp.Path = path.Dir(cp.Path)
	if cp.Path == "." {
		cp.Path = "/"
	}
	if cp.Path != "/" && !strings.HasSuffix(cp.Path, "/") {
		cp.Path += "/"
	}
	cp.Fragment = ""
	cp.RawFragment = ""
	return &URI{&cp}
}

// String renders the URI, defaulting to "" for a nil receiver so callers
// can embed it in error messages without a nil check.
func (u *URI) String() string {
	if u == nil || u.URL == nil {
		return ""
	}
	return u.URL.String()
}
