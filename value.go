package jsonschema

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/go-json-experiment/json/jsontext"
)

// Kind identifies which JSON type a Value holds.
type Kind int

const (
	NullValue Kind = iota
	BooleanValue
	NumberValue
	StringValue
	ArrayValue
	ObjectValue
)

// TypeName returns the JSON Schema instance type name for k ("integer" is
// never returned here — integer-vs-number is a `type`-keyword concern, per
// the original jschon's TypeKeyword, not a property of the value itself).
func (k Kind) TypeName() string {
	switch k {
	case NullValue:
		return "null"
	case BooleanValue:
		return "boolean"
	case NumberValue:
		return "number"
	case StringValue:
		return "string"
	case ArrayValue:
		return "array"
	case ObjectValue:
		return "object"
	default:
		return "unknown"
	}
}

// Value is a parsed JSON document node carrying exact-decimal numbers and
// deterministic object key order, the substrate every keyword evaluates
// against. Grounded on the teacher's use of json.Number/map[string]any in
// schema.go, generalized into an explicit tree so the evaluator (scope.go)
// and the compiler (schema.go) share one representation instead of each
// re-decoding raw `any` values.
type Value struct {
	Kind    Kind
	Boolean bool
	Num     *Number
	Str     string
	Array   []*Value
	Object  map[string]*Value
	Keys    []string // object key insertion order, for deterministic iteration
}

// TypeName returns the JSON Schema instance type name of v.
func (v *Value) TypeName() string { return v.Kind.TypeName() }

// Len reports the element/property/character count `minItems`,
// `maxProperties`, `minLength`, etc. need.
func (v *Value) Len() int {
	switch v.Kind {
	case StringValue:
		return len([]rune(v.Str))
	case ArrayValue:
		return len(v.Array)
	case ObjectValue:
		return len(v.Keys)
	default:
		return 0
	}
}

// Has reports whether an object Value has property name.
func (v *Value) Has(name string) bool {
	if v.Kind != ObjectValue {
		return false
	}
	_, ok := v.Object[name]
	return ok
}

// Prop returns an object Value's property, or nil if absent.
func (v *Value) Prop(name string) *Value {
	if v.Kind != ObjectValue {
		return nil
	}
	return v.Object[name]
}

// Null, Bool, Str, Arr, Obj are constructors used when building literal
// values in Go (metaschema bootstrap, tests).
func Null() *Value { return &Value{Kind: NullValue} }
func Bool(b bool) *Value { return &Value{Kind: BooleanValue, Boolean: b} }
func Str(s string) *Value { return &Value{Kind: StringValue, Str: s} }
func Arr(items ...*Value) *Value { return &Value{Kind: ArrayValue, Array: items} }

func Obj(pairs ...any) *Value {
	v := &Value{Kind: ObjectValue, Object: map[string]*Value{}}
	for i := 0; i+1 < len(pairs); i += 2 {
		k := pairs[i].(string)
		val := pairs[i+1].(*Value)
		if _, exists := v.Object[k]; !exists {
			v.Keys = append(v.Keys, k)
		}
		v.Object[k] = val
	}
	return v
}

// Num_ builds a NumberValue from a numeric literal.
func Num_(n any) *Value {
	num, err := NewNumber(n)
	if err != nil {
		panic(err)
	}
	return &Value{Kind: NumberValue, Num: num}
}

// ParseValue decodes raw JSON bytes into a Value tree, tokenizing numbers
// with jsontext so decimal literals survive exactly into *big.Rat instead
// of round-tripping through float64. Grounded on the teacher's use of
// go-json-experiment/json in schema.go/compiler.go for the same reason.
func ParseValue(data []byte) (*Value, error) {
	dec := jsontext.NewDecoder(bytes.NewReader(data))
	v, err := decodeValue(dec)
	if err != nil {
		return nil, &CatalogueError{Kind: ErrSchemaCompilation, Message: "parse json", Cause: err}
	}
	return v, nil
}

func decodeValue(dec *jsontext.Decoder) (*Value, error) {
	tok, err := dec.ReadToken()
	if err != nil {
		return nil, err
	}
	switch tok.Kind() {
	case 'n':
		return Null(), nil
	case 't':
		return Bool(true), nil
	case 'f':
		return Bool(false), nil
	case '"':
		return Str(tok.String()), nil
	case '0':
		num, err := NewNumber(tok.String())
		if err != nil {
			return nil, err
		}
		return &Value{Kind: NumberValue, Num: num}, nil
	case '[':
		v := &Value{Kind: ArrayValue}
		for dec.PeekKind() != ']' {
			item, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			v.Array = append(v.Array, item)
		}
		if _, err := dec.ReadToken(); err != nil { // consume ']'
			return nil, err
		}
		return v, nil
	case '{':
		v := &Value{Kind: ObjectValue, Object: map[string]*Value{}}
		for dec.PeekKind() != '}' {
			keyTok, err := dec.ReadToken()
			if err != nil {
				return nil, err
			}
			key := keyTok.String()
			val, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			if _, exists := v.Object[key]; !exists {
				v.Keys = append(v.Keys, key)
			}
			v.Object[key] = val
		}
		if _, err := dec.ReadToken(); err != nil { // consume '}'
			return nil, err
		}
		return v, nil
	default:
		return nil, fmt.Errorf("unexpected json token kind %q", tok.Kind())
	}
}

// FromAny converts an already-decoded Go value (as produced by
// encoding/json, map[string]any literals in tests, etc.) into a Value
// tree. Numeric literals pass through NewNumber for exact conversion.
func FromAny(in any) (*Value, error) {
	switch v := in.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(v), nil
	case string:
		return Str(v), nil
	case *Value:
		return v, nil
	case []any:
		arr := &Value{Kind: ArrayValue}
		for _, item := range v {
			cv, err := FromAny(item)
			if err != nil {
				return nil, err
			}
			arr.Array = append(arr.Array, cv)
		}
		return arr, nil
	case map[string]any:
		obj := &Value{Kind: ObjectValue, Object: map[string]*Value{}}
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			cv, err := FromAny(v[k])
			if err != nil {
				return nil, err
			}
			obj.Keys = append(obj.Keys, k)
			obj.Object[k] = cv
		}
		return obj, nil
	default:
		num, err := NewNumber(v)
		if err != nil {
			return nil, err
		}
		return &Value{Kind: NumberValue, Num: num}, nil
	}
}

// Equal implements JSON-Schema instance equality: exact decimal number
// comparison, elementwise ordered array comparison, and unordered key-set
// object comparison. Used by `const`, `enum`, and `uniqueItems`.
func (v *Value) Equal(other *Value) bool {
	if v == nil || other == nil {
		return v == other
	}
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case NullValue:
		return true
	case BooleanValue:
		return v.Boolean == other.Boolean
	case NumberValue:
		return v.Num.Equal(other.Num)
	case StringValue:
		return v.Str == other.Str
	case ArrayValue:
		if len(v.Array) != len(other.Array) {
			return false
		}
		for i := range v.Array {
			if !v.Array[i].Equal(other.Array[i]) {
				return false
			}
		}
		return true
	case ObjectValue:
		if len(v.Keys) != len(other.Keys) {
			return false
		}
		for k, cv := range v.Object {
			ov, ok := other.Object[k]
			if !ok || !cv.Equal(ov) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
