package jsonschema

import (
	"fmt"
	"math/big"
	"strings"
)

// Number wraps a big.Rat so schema and instance numbers compare exactly,
// without the float64 round-trip that would make 0.1 and 1/10 diverge.
// Grounded on the teacher's Rat type (rat.go); renamed and trimmed to the
// operations the validation vocabulary actually needs.
type Number struct {
	*big.Rat
}

// NewNumber builds a Number from a decimal literal, an int, or a float.
func NewNumber(value any) (*Number, error) {
	r, err := toBigRat(value)
	if err != nil {
		return nil, err
	}
	return &Number{r}, nil
}

// MustNumber panics on conversion failure; for literals whose input is
// known to be well-formed.
func MustNumber(value any) *Number {
	n, err := NewNumber(value)
	if err != nil {
		panic(err)
	}
	return n
}

func toBigRat(data any) (*big.Rat, error) {
	var str string
	switch v := data.(type) {
	case *Number:
		return new(big.Rat).Set(v.Rat), nil
	case float64, float32, int, int64, int32, int16, int8, uint, uint64, uint32, uint16, uint8:
		str = fmt.Sprint(v)
	case string:
		str = v
	default:
		return nil, &CatalogueError{Kind: ErrUnsupportedRatType, Message: fmt.Sprintf("%T", data)}
	}

	r := new(big.Rat)
	if _, ok := r.SetString(str); !ok {
		return nil, &CatalogueError{Kind: ErrRatConversion, Message: str}
	}
	return r, nil
}

// IsInteger reports whether the number has no fractional part, the test
// the `type` keyword uses to decide whether a "number" instance also
// satisfies a declared type of "integer".
func (n *Number) IsInteger() bool {
	return n.IsInt()
}

// String renders the number as a plain decimal, trimming trailing zeros;
// integers are rendered without a decimal point.
func (n *Number) String() string {
	if n == nil {
		return "null"
	}
	if n.IsInt() {
		return n.Num().String()
	}
	dec := n.FloatString(20)
	dec = strings.TrimRight(dec, "0")
	dec = strings.TrimRight(dec, ".")
	if dec == "" || dec == "-" {
		return "0"
	}
	return dec
}

// MarshalJSON renders the number as a bare JSON number token.
func (n *Number) MarshalJSON() ([]byte, error) {
	return []byte(n.String()), nil
}

// UnmarshalJSON parses a JSON number token (already isolated by the
// jsontext tokenizer) into an exact big.Rat.
func (n *Number) UnmarshalJSON(data []byte) error {
	r, err := toBigRat(string(data))
	if err != nil {
		return err
	}
	n.Rat = r
	return nil
}

// Equal implements the JSON-Schema equality used by `const`, `enum`, and
// `uniqueItems`: exact decimal comparison, so 1 and 1.0 are equal.
func (n *Number) Equal(other *Number) bool {
	if n == nil || other == nil {
		return n == other
	}
	return n.Cmp(other.Rat) == 0
}
