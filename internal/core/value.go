package core

import (
	"fmt"
	"time"
)

// Kind identifies which variant a Value holds.
type Kind int

const (
	KindEmpty Kind = iota
	KindString
	KindNumber
	KindDateTime
	KindBoolean
)

// String returns the lowercase kind name used in error messages and logs.
func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindDateTime:
		return "datetime"
	case KindBoolean:
		return "boolean"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Value is one spreadsheet cell: exactly one of string, number, date-time,
// boolean, or empty. The zero Value is Empty.
//
// Fields are unexported so a Value can only be built through the
// constructors below and never changes afterwards.
type Value struct {
	kind Kind
	str  string
	num  float64
	ts   time.Time
	b    bool
}

// StringValue returns a String cell.
func StringValue(s string) Value { return Value{kind: KindString, str: s} }

// NumberValue returns a Number cell. Integral spreadsheet numbers are numbers too.
func NumberValue(f float64) Value { return Value{kind: KindNumber, num: f} }

// DateTimeValue returns a DateTime cell. The timestamp's location is kept as
// given; no timezone is assumed.
func DateTimeValue(t time.Time) Value { return Value{kind: KindDateTime, ts: t} }

// BooleanValue returns a Boolean cell.
func BooleanValue(b bool) Value { return Value{kind: KindBoolean, b: b} }

// EmptyValue returns the absent-value cell.
func EmptyValue() Value { return Value{} }

// Kind reports which variant v holds.
func (v Value) Kind() Kind { return v.kind }

// IsEmpty reports whether v is the Empty variant.
func (v Value) IsEmpty() bool { return v.kind == KindEmpty }

// AsString returns the text of a String cell.
func (v Value) AsString() (string, bool) {
	return v.str, v.kind == KindString
}

// AsNumber returns the number of a Number cell.
func (v Value) AsNumber() (float64, bool) {
	return v.num, v.kind == KindNumber
}

// AsDateTime returns the timestamp of a DateTime cell.
func (v Value) AsDateTime() (time.Time, bool) {
	return v.ts, v.kind == KindDateTime
}

// AsBoolean returns the flag of a Boolean cell.
func (v Value) AsBoolean() (bool, bool) {
	return v.b, v.kind == KindBoolean
}

// String renders v for logs and previews.
func (v Value) String() string {
	switch v.kind {
	case KindEmpty:
		return ""
	case KindString:
		return v.str
	case KindNumber:
		return fmt.Sprintf("%g", v.num)
	case KindDateTime:
		return v.ts.Format(time.RFC3339)
	case KindBoolean:
		return fmt.Sprintf("%t", v.b)
	default:
		return fmt.Sprintf("<%s>", v.kind)
	}
}
