package blockstate

import (
	"strconv"
)

// Kind is the type of a property value
type Kind uint8

const (
	Number Kind = iota
	Boolean
	String
)

// Value is a typed block property value. Values written as integers compare as numbers,
// "true" and "false" as booleans, anything else as strings.
type Value struct {
	Kind    Kind
	Number  int64
	Boolean bool
	Str     string
}

// ParseValue types a property value the way block-state conditions are written
func ParseValue(s string) Value {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Value{Kind: Number, Number: n}
	}
	switch s {
	case "true":
		return Value{Kind: Boolean, Boolean: true}
	case "false":
		return Value{Kind: Boolean, Boolean: false}
	}
	return Value{Kind: String, Str: s}
}

// NumberValue returns a numeric value
func NumberValue(n int64) Value { return Value{Kind: Number, Number: n} }

// BoolValue returns a boolean value
func BoolValue(b bool) Value { return Value{Kind: Boolean, Boolean: b} }

// StringValue returns a string value; it is not re-typed even if it looks numeric
func StringValue(s string) Value { return Value{Kind: String, Str: s} }

func (v Value) String() string {
	switch v.Kind {
	case Number:
		return strconv.FormatInt(v.Number, 10)
	case Boolean:
		return strconv.FormatBool(v.Boolean)
	default:
		return v.Str
	}
}

// Properties holds the property values of one block instance
type Properties map[string]Value

// ParseProperties types a set of raw property values
func ParseProperties(raw map[string]string) Properties {
	props := make(Properties, len(raw))
	for k, v := range raw {
		props[k] = ParseValue(v)
	}
	return props
}
