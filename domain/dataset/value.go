package dataset

import (
	"strconv"
	"strings"
)

// ValueType defines the storage type for values
type ValueType string

const (
	ValueTypeString  ValueType = "string"
	ValueTypeNumeric ValueType = "numeric"
	ValueTypeBoolean ValueType = "boolean"
	ValueTypeMissing ValueType = "missing"
)

// Value is one typed cell. Raw keeps the text the cell was read from so labels
// are reported exactly as they appeared in the source.
type Value struct {
	Type       ValueType `json:"type"`
	Raw        string    `json:"raw,omitempty"`
	NumericVal *float64  `json:"numeric_val,omitempty"`
	BooleanVal *bool     `json:"boolean_val,omitempty"`
	IsMissing  bool      `json:"is_missing"`
}

// NewStringValue creates a string value
func NewStringValue(s string) Value {
	if s == "" {
		return NewMissingValue()
	}
	return Value{Type: ValueTypeString, Raw: s}
}

// NewNumericValue creates a numeric value; raw may be empty for computed numbers.
func NewNumericValue(n float64, raw string) Value {
	if raw == "" {
		raw = strconv.FormatFloat(n, 'f', -1, 64)
	}
	return Value{Type: ValueTypeNumeric, Raw: raw, NumericVal: &n}
}

// NewBooleanValue creates a boolean value
func NewBooleanValue(b bool, raw string) Value {
	if raw == "" {
		raw = strconv.FormatBool(b)
	}
	return Value{Type: ValueTypeBoolean, Raw: raw, BooleanVal: &b}
}

// NewMissingValue creates a missing value
func NewMissingValue() Value {
	return Value{Type: ValueTypeMissing, IsMissing: true}
}

// String returns the label used when the value is counted as a category.
func (v Value) String() string {
	if v.IsMissing {
		return "<missing>"
	}
	return v.Raw
}

// IsNumeric returns true if the value represents a valid number
func (v Value) IsNumeric() bool {
	return v.Type == ValueTypeNumeric && v.NumericVal != nil
}

// IsString returns true if the value is text
func (v Value) IsString() bool {
	return v.Type == ValueTypeString && !v.IsMissing
}

// IsBoolean returns true if the value represents a valid boolean
func (v Value) IsBoolean() bool {
	return v.Type == ValueTypeBoolean && v.BooleanVal != nil
}

// Float coerces the value to a number. Text is parsed strictly (surrounding
// whitespace allowed); anything unparseable reports ok=false.
func (v Value) Float() (float64, bool) {
	switch {
	case v.IsMissing:
		return 0, false
	case v.IsNumeric():
		return *v.NumericVal, true
	case v.IsBoolean():
		if *v.BooleanVal {
			return 1, true
		}
		return 0, true
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v.Raw), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Truthy reports whether a flag-like value is set: true booleans and non-zero numbers.
func (v Value) Truthy() bool {
	switch {
	case v.IsMissing:
		return false
	case v.IsBoolean():
		return *v.BooleanVal
	case v.IsNumeric():
		return *v.NumericVal != 0
	}
	return v.Raw != "" && v.Raw != "0"
}
