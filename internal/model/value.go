package model

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ValueKind tags what a baseline field holds.
type ValueKind int

const (
	KindNumber ValueKind = iota
	KindText
)

func (k ValueKind) String() string {
	if k == KindText {
		return "text"
	}
	return "number"
}

// Value is a single baseline field: either a number or opaque text that
// could not be coerced. The zero Value is the number 0.
type Value struct {
	kind ValueKind
	num  decimal.Decimal
	text string
}

// Number returns a numeric Value.
func Number(d decimal.Decimal) Value {
	return Value{kind: KindNumber, num: d}
}

// Text returns an opaque, non-numeric Value.
func Text(s string) Value {
	return Value{kind: KindText, text: s}
}

// ParseValue runs the coercion chain used for raw source cells:
// direct parse, then parse with comma separators stripped, then keep as text.
func ParseValue(raw string) Value {
	s := strings.TrimSpace(raw)
	if d, err := decimal.NewFromString(s); err == nil {
		return Number(d)
	}
	if strings.Contains(s, ",") {
		if d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", "")); err == nil {
			return Number(d)
		}
	}
	return Text(raw)
}

// Kind reports whether v is a number or text.
func (v Value) Kind() ValueKind { return v.kind }

// IsNumber reports whether v holds a number.
func (v Value) IsNumber() bool { return v.kind == KindNumber }

// Decimal returns the numeric value and true, or zero and false for text.
func (v Value) Decimal() (decimal.Decimal, bool) {
	if v.kind != KindNumber {
		return decimal.Zero, false
	}
	return v.num, true
}

// Raw returns the value as it should be written back out: the canonical
// decimal string for numbers, the original text otherwise.
func (v Value) Raw() string {
	if v.kind == KindText {
		return v.text
	}
	return v.num.String()
}

// String implements fmt.Stringer.
func (v Value) String() string { return v.Raw() }

// Equal reports whether two values have the same kind and content.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	if v.kind == KindText {
		return v.text == o.text
	}
	return v.num.Equal(o.num)
}

// ValueOf rebuilds a Value from its kind and Raw form.
func ValueOf(kind ValueKind, raw string) (Value, error) {
	if kind == KindText {
		return Text(raw), nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return Value{}, fmt.Errorf("numeric value %q: %w", raw, err)
	}
	return Number(d), nil
}

// ParseValueKind is the inverse of ValueKind.String.
func ParseValueKind(s string) (ValueKind, error) {
	switch s {
	case "number":
		return KindNumber, nil
	case "text":
		return KindText, nil
	}
	return 0, fmt.Errorf("unknown value kind %q", s)
}

// MarshalJSON encodes numbers as JSON numbers and text as JSON strings.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.kind == KindText {
		return json.Marshal(v.text)
	}
	return []byte(v.num.String()), nil
}

// UnmarshalJSON is the inverse of MarshalJSON. Strings are kept as text
// without re-running coercion.
func (v *Value) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = Text(s)
		return nil
	}
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("value must be a number or string: %w", err)
	}
	*v = Number(d)
	return nil
}
