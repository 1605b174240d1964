// Package cell defines cell content, its character-driven editing rules, the
// sort order used by column sorting and the bindings a formula is evaluated
// against.
package cell

import (
	"math"
	"strconv"
	"strings"

	"github.com/ukaji3/tabelle-go/pkg/tabelle/address"
	"github.com/ukaji3/tabelle-go/pkg/tabelle/formula"
)

// Kind tags Content.
type Kind uint8

const (
	KindEmpty Kind = iota
	KindText
	KindNumber
	KindFloat
	KindFormula
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindFloat:
		return "float"
	case KindFormula:
		return "formula"
	}
	return "empty"
}

// Content is exactly one of empty, text, integer, float or formula, selected
// by Kind. Digits counts the fractional digits typed so far into a float; it
// is editing state, not a display precision.
type Content struct {
	Kind    Kind             `json:"kind"`
	Text    string           `json:"text,omitempty"`
	Number  int64            `json:"number,omitempty"`
	Float   float64          `json:"float,omitempty"`
	Digits  int              `json:"digits,omitempty"`
	Formula *formula.Formula `json:"formula,omitempty"`
}

// Empty returns empty content.
func Empty() Content { return Content{} }

// Text returns text content.
func Text(s string) Content { return Content{Kind: KindText, Text: s} }

// Number returns integer content.
func Number(n int64) Content { return Content{Kind: KindNumber, Number: n} }

// FloatNumber returns float content with digits fractional digits entered.
func FloatNumber(v float64, digits int) Content {
	return Content{Kind: KindFloat, Float: v, Digits: digits}
}

// FormulaContent wraps f.
func FormulaContent(f *formula.Formula) Content {
	return Content{Kind: KindFormula, Formula: f}
}

// Parse builds content from stored text, e.g. a delimited-text field or a
// workbook cell. Text starting with '=' becomes a formula over the rest; a
// formula that fails to parse is still returned, together with the error.
func Parse(raw string, pos address.Position, size address.Size) (Content, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Empty(), nil
	}
	if body, ok := strings.CutPrefix(raw, "="); ok {
		f, err := formula.Parse(body, pos, size)
		return FormulaContent(f), err
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return Number(n), nil
	}
	if v, err := strconv.ParseFloat(raw, 64); err == nil && !math.IsNaN(v) && !math.IsInf(v, 0) {
		return FloatNumber(v, 0), nil
	}
	return Text(raw), nil
}

// InputChar applies one typed character. pos is the position of the cell
// being edited and seeds a new formula. Formula text is re-parsed after every
// character; the returned error is the parse error of the partial buffer,
// which is expected while a range is half typed.
func (c *Content) InputChar(ch rune, pos address.Position, size address.Size) error {
	digit, isDigit := digitValue(ch)
	switch c.Kind {
	case KindEmpty:
		switch {
		case isDigit:
			*c = Number(digit)
		case ch == '=':
			*c = FormulaContent(formula.New(pos))
		case ch == '.':
			*c = FloatNumber(0, 1)
		default:
			*c = Text(string(ch))
		}
	case KindText:
		c.Text += string(ch)
	case KindFormula:
		return c.Formula.Append(ch, size)
	case KindNumber:
		switch {
		case isDigit:
			c.Number = c.Number*10 + digit
		case ch == '.':
			*c = FloatNumber(float64(c.Number), 1)
		default:
			*c = Text(strconv.FormatInt(c.Number, 10) + string(ch))
		}
	case KindFloat:
		if isDigit {
			c.Float += float64(digit) / math.Pow10(c.Digits)
			c.Digits++
			return nil
		}
		*c = Text(formula.FormatFloat(c.Float) + string(ch))
	}
	return nil
}

func digitValue(ch rune) (int64, bool) {
	if ch < '0' || ch > '9' {
		return 0, false
	}
	return int64(ch - '0'), true
}

// IsEmpty reports whether c holds nothing.
func (c Content) IsEmpty() bool {
	return c.Kind == KindEmpty
}

// IsError reports whether c is a formula whose last evaluation failed.
func (c Content) IsError() bool {
	return c.Kind == KindFormula && c.Formula.IsError()
}

// IsRightAligned reports whether c displays as a number.
func (c Content) IsRightAligned() bool {
	switch c.Kind {
	case KindNumber, KindFloat:
		return true
	case KindFormula:
		return c.Formula.IsRightAligned()
	}
	return false
}

// Display is the short form: the evaluated value of a formula, the scalar
// otherwise.
func (c Content) Display() string {
	switch c.Kind {
	case KindText:
		return c.Text
	case KindNumber:
		return strconv.FormatInt(c.Number, 10)
	case KindFloat:
		return formula.FormatFloat(c.Float)
	case KindFormula:
		return c.Formula.Display()
	}
	return ""
}

// LongDisplay is the editable form: "=" and the raw text of a formula, the
// scalar otherwise. Parse(c.LongDisplay()) restores c up to evaluation state.
func (c Content) LongDisplay() string {
	if c.Kind == KindFormula {
		return c.Formula.LongDisplay()
	}
	return c.Display()
}

// Scalar returns the value c contributes to formula bindings. Empty content
// and formulas without a string or numeric value contribute nothing.
func (c Content) Scalar() (formula.Value, bool) {
	switch c.Kind {
	case KindText:
		return formula.StringValue(c.Text), true
	case KindNumber:
		return formula.NumberValue(c.Number), true
	case KindFloat:
		return formula.FloatValue(c.Float), true
	case KindFormula:
		return c.Formula.Value, c.Formula.Value.IsScalar()
	}
	return formula.Value{}, false
}
