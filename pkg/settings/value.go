package settings

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/zclconf/go-cty/cty"
)

// Kind tags the type held by a Value.
type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	default:
		return "unknown"
	}
}

// Value is a parameter value: a string, a number or a bool.
// Numbers keep their textual literal so "1.0" is written back as 1.0.
type Value struct {
	kind Kind
	text string
	b    bool
}

// StringValue returns a string Value.
func StringValue(s string) Value {
	return Value{kind: KindString, text: s}
}

// BoolValue returns a bool Value.
func BoolValue(b bool) Value {
	return Value{kind: KindBool, b: b, text: strconv.FormatBool(b)}
}

// NumberValue returns a number Value for a JSON number literal.
func NumberValue(literal string) (Value, error) {
	if !isNumberLiteral(literal) {
		return Value{}, fmt.Errorf("invalid number literal %q", literal)
	}
	return Value{kind: KindNumber, text: literal}, nil
}

func isNumberLiteral(s string) bool {
	if s == "" {
		return false
	}
	var n json.Number
	if err := json.Unmarshal([]byte(s), &n); err != nil {
		return false
	}
	return n.String() == s
}

// Kind reports the value's type.
func (v Value) Kind() Kind {
	return v.kind
}

// String returns the textual form used when substituting the value.
func (v Value) String() string {
	return v.text
}

// Replace returns the value an operator answer stands for. Blank answers
// keep v; otherwise the answer keeps v's kind when it parses as that kind
// and becomes a string when it does not.
func (v Value) Replace(answer string) Value {
	if answer == "" {
		return v
	}
	switch v.kind {
	case KindNumber:
		if n, err := NumberValue(answer); err == nil {
			return n
		}
	case KindBool:
		if b, err := strconv.ParseBool(answer); err == nil {
			return BoolValue(b)
		}
	}
	return StringValue(answer)
}

// MarshalJSON writes the value with its own JSON type.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNumber:
		return []byte(v.text), nil
	case KindBool:
		return []byte(strconv.FormatBool(v.b)), nil
	default:
		return json.Marshal(v.text)
	}
}

// CtyValue converts the value for the token engine.
func (v Value) CtyValue() (cty.Value, error) {
	switch v.kind {
	case KindNumber:
		return cty.ParseNumberVal(v.text)
	case KindBool:
		return cty.BoolVal(v.b), nil
	default:
		return cty.StringVal(v.text), nil
	}
}
