package edgar

import (
	"encoding/json"
	"strconv"
	"strings"
)

// ValueKind discriminates Value.
type ValueKind int

const (
	EmptyValue ValueKind = iota
	IntValue
	FloatValue
	TextValue
)

// Value is a normalized cell: an integer, a float, the original token when
// it is not numeric, or empty.
type Value struct {
	Kind  ValueKind
	Int   int64
	Float float64
	Text  string
}

// Int returns an integer Value.
func Int(n int64) Value { return Value{Kind: IntValue, Int: n} }

// Float returns a float Value.
func Float(f float64) Value { return Value{Kind: FloatValue, Float: f} }

// IsEmpty reports whether the cell was absent.
func (v Value) IsEmpty() bool { return v.Kind == EmptyValue }

// IsNumber reports whether the value is an int or a float.
func (v Value) IsNumber() bool { return v.Kind == IntValue || v.Kind == FloatValue }

// Number returns the value as a float64.
func (v Value) Number() (float64, bool) {
	switch v.Kind {
	case IntValue:
		return float64(v.Int), true
	case FloatValue:
		return v.Float, true
	}
	return 0, false
}

func (v Value) String() string {
	switch v.Kind {
	case IntValue:
		return strconv.FormatInt(v.Int, 10)
	case FloatValue:
		return strconv.FormatFloat(v.Float, 'f', -1, 64)
	case TextValue:
		return v.Text
	}
	return ""
}

// Renormalize is NormalizeValue applied to an already normalized value.
// Numbers are returned unchanged.
func (v Value) Renormalize() Value {
	if v.Kind == TextValue {
		return NormalizeValue(v.Text)
	}
	return v
}

// MarshalJSON writes numbers as JSON numbers, text as a string and empty
// cells as null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case IntValue, FloatValue:
		return []byte(v.String()), nil
	case TextValue:
		return json.Marshal(v.Text)
	}
	return []byte("null"), nil
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (v *Value) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	switch {
	case s == "null":
		*v = Value{}
	case strings.HasPrefix(s, `"`):
		var text string
		if err := json.Unmarshal(b, &text); err != nil {
			return err
		}
		*v = Value{Kind: TextValue, Text: text}
	default:
		*v = NormalizeValue(s)
	}
	return nil
}

// placeholder marks a "not meaningful" cell in legacy filings. It is the
// cp1252 em dash, which also shows up decoded as U+2014.
const placeholder = "\x97"

// NormalizeValue turns a raw numeric cell into a number.
//
//   - the placeholder dash becomes 0
//   - thousands separators and a leading currency symbol are removed
//   - a parenthesised amount becomes negative; either parenthesis alone
//     is enough, since wrapped cells often lose one of them
//   - a token containing "." is a float, otherwise an integer
//
// Empty tokens stay empty and non-numeric tokens come back as text.
func NormalizeValue(token string) Value {
	s := strings.TrimSpace(token)
	if s == "" {
		return Value{}
	}
	if isPlaceholder(s) {
		return Int(0)
	}

	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimPrefix(s, "$")
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "(") || strings.HasSuffix(s, ")") {
		s = strings.TrimSpace(strings.Trim(s, "()"))
		s = strings.TrimSpace(strings.TrimPrefix(s, "$"))
		if s != "" && !strings.HasPrefix(s, "-") {
			s = "-" + s
		}
	}

	if strings.Contains(s, ".") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return Float(f)
		}
	} else if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Int(n)
	}
	return Value{Kind: TextValue, Text: strings.TrimSpace(token)}
}

func isPlaceholder(s string) bool {
	switch s {
	case placeholder, "—", "–", "-", "--", "---":
		return true
	}
	return false
}

// looksNumeric reports whether a token would normalize to a number.
func looksNumeric(token string) bool {
	return NormalizeValue(token).IsNumber()
}
