package jsonschema

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/kaptinlin/jsonpointer"
)

// Pointer is a parsed JSON Pointer (RFC 6901): an ordered list of
// reference tokens. Grounded on the teacher's ref.go, which walked
// "/"-split segments by hand; here token parsing and ~0/~1 escaping are
// delegated to kaptinlin/jsonpointer, the library the rest of the pack
// reaches for, instead of hand-rolled splitting.
type Pointer struct {
	tokens []string
}

// ParsePointer parses a pointer string in either of the two forms the
// core vocabulary produces: a plain "/a/b/0" JSON Pointer, or the
// "#/a/b/0" fragment form used inside `$ref`/`$anchor` values (where the
// fragment itself is additionally percent-decoded before tokenizing).
func ParsePointer(s string) (*Pointer, error) {
	if strings.HasPrefix(s, "#") {
		decoded, err := url.PathUnescape(s[1:])
		if err != nil {
			return nil, &JSONPointerError{Kind: ErrInvalidPointer, Pointer: s, Cause: err}
		}
		s = decoded
	}
	if s == "" {
		return &Pointer{}, nil
	}
	toks, err := jsonpointer.Parse(s)
	if err != nil {
		return nil, &JSONPointerError{Kind: ErrInvalidPointer, Pointer: s, Cause: err}
	}
	return &Pointer{tokens: toks}, nil
}

// NewPointer builds a Pointer directly from unescaped tokens, as used
// when the compiler descends into a schema document keyword by keyword.
func NewPointer(tokens ...string) *Pointer {
	return &Pointer{tokens: append([]string(nil), tokens...)}
}

// Append returns a new Pointer with tok appended.
func (p *Pointer) Append(tok string) *Pointer {
	next := make([]string, len(p.tokens)+1)
	copy(next, p.tokens)
	next[len(p.tokens)] = tok
	return &Pointer{tokens: next}
}

// Tokens returns the pointer's reference tokens, unescaped.
func (p *Pointer) Tokens() []string {
	return p.tokens
}

// String renders the pointer in RFC 6901 "/a/b/0" form, escaping "~" and
// "/" in each token via kaptinlin/jsonpointer's Format.
func (p *Pointer) String() string {
	if len(p.tokens) == 0 {
		return ""
	}
	return jsonpointer.Format(p.tokens)
}

// Evaluate walks doc following the pointer's tokens, returning
// JSONPointerError (wrapping ErrPointerTokenNotFound / ErrPointerIndexRange)
// when a token cannot be dereferenced.
func (p *Pointer) Evaluate(doc *Value) (*Value, error) {
	cur := doc
	for i, tok := range p.tokens {
		switch cur.Kind {
		case ObjectValue:
			next, ok := cur.Object[tok]
			if !ok {
				return nil, &JSONPointerError{Kind: ErrPointerTokenNotFound, Pointer: p.String()}
			}
			cur = next
		case ArrayValue:
			idx, err := strconv.Atoi(tok)
			if err != nil || idx < 0 || idx >= len(cur.Array) {
				return nil, &JSONPointerError{Kind: ErrPointerIndexRange, Pointer: p.String()}
			}
			cur = cur.Array[idx]
		default:
			return nil, &JSONPointerError{
				Kind:    ErrPointerTokenNotFound,
				Pointer: p.String(),
				Cause:   &JSONPointerError{Kind: ErrInvalidPointer, Pointer: strings.Join(p.tokens[i:], "/")},
			}
		}
	}
	return cur, nil
}
