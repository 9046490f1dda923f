package runtime

import (
	"strconv"
)

// Kind discriminates the two value domains of the language.
type Kind int

const (
	KindInteger Kind = iota
	KindText
)

func (k Kind) String() string {
	if k == KindText {
		return "text"
	}
	return "integer"
}

// Value is a tagged union of Integer and Text. The zero Value is Integer 0,
// which is also the initial value of every declared scalar.
type Value struct {
	kind Kind
	num  int64
	text string
}

// Integer returns an Integer value
func Integer(n int64) Value {
	return Value{kind: KindInteger, num: n}
}

// Text returns a Text value
func Text(s string) Value {
	return Value{kind: KindText, text: s}
}

// Coerce turns an unquoted literal into a Value: Integer when the whole token
// is a decimal integer, Text otherwise.
func Coerce(literal string) Value {
	if n, ok := ParseInteger(literal); ok {
		return Integer(n)
	}
	return Text(literal)
}

// ParseInteger reports whether s is fully a decimal integer (optional sign).
func ParseInteger(s string) (int64, bool) {
	if s == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Kind returns the value's domain
func (v Value) Kind() Kind {
	return v.kind
}

// IsInteger reports whether the value is tagged Integer
func (v Value) IsInteger() bool {
	return v.kind == KindInteger
}

// Int returns the numeric reading of the value. Text values count as numeric
// only when their whole content parses as a decimal integer.
func (v Value) Int() (int64, bool) {
	if v.kind == KindInteger {
		return v.num, true
	}
	return ParseInteger(v.text)
}

// IntOrZero is Int with missing or non-numeric content read as 0.
func (v Value) IntOrZero() int64 {
	n, _ := v.Int()
	return n
}

// String renders the value the way WRITE prints it
func (v Value) String() string {
	if v.kind == KindInteger {
		return strconv.FormatInt(v.num, 10)
	}
	return v.text
}

// LooseEqual compares numerically when both sides read as integers and as
// text otherwise.
func LooseEqual(a, b Value) bool {
	an, aok := a.Int()
	bn, bok := b.Int()
	if aok && bok {
		return an == bn
	}
	return a.String() == b.String()
}

// Initial returns the initial value of the same domain, used by CLEAR.
func (v Value) Initial() Value {
	if v.kind == KindText {
		return Text("")
	}
	return Integer(0)
}
