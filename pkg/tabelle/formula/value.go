package formula

import "strconv"

// ValueKind tags a Value.
type ValueKind uint8

const (
	ValueEmpty ValueKind = iota
	ValueString
	ValueNumber
	ValueFloat
	// ValueError marks a failed evaluation. It is terminal: nothing retries it.
	ValueError
)

// Value is the evaluated result of a formula.
type Value struct {
	Kind   ValueKind `json:"kind"`
	String string    `json:"string,omitempty"`
	Number int64     `json:"number,omitempty"`
	Float  float64   `json:"float,omitempty"`
}

// ErrorDisplay is how an error value is shown in a cell.
const ErrorDisplay = "#error"

// StringValue returns a string value.
func StringValue(s string) Value { return Value{Kind: ValueString, String: s} }

// NumberValue returns an integer value.
func NumberValue(n int64) Value { return Value{Kind: ValueNumber, Number: n} }

// FloatValue returns a floating point value.
func FloatValue(f float64) Value { return Value{Kind: ValueFloat, Float: f} }

// ErrorValue returns the error marker.
func ErrorValue() Value { return Value{Kind: ValueError} }

// IsNumeric reports whether v holds a Number or a Float.
func (v Value) IsNumeric() bool {
	return v.Kind == ValueNumber || v.Kind == ValueFloat
}

// IsScalar reports whether v can be handed to an evaluator as a binding.
func (v Value) IsScalar() bool {
	return v.Kind == ValueString || v.IsNumeric()
}

// AsFloat returns the numeric value promoted to float64.
func (v Value) AsFloat() float64 {
	if v.Kind == ValueNumber {
		return float64(v.Number)
	}
	return v.Float
}

// Display renders the value the way a cell shows it.
func (v Value) Display() string {
	switch v.Kind {
	case ValueString:
		return v.String
	case ValueNumber:
		return strconv.FormatInt(v.Number, 10)
	case ValueFloat:
		return FormatFloat(v.Float)
	case ValueError:
		return ErrorDisplay
	}
	return ""
}

// FormatFloat renders a float with the shortest representation that round-trips.
func FormatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
