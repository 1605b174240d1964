package cell

import (
	"cmp"
	"strings"

	"github.com/ukaji3/tabelle-go/pkg/tabelle/formula"
)

// Compare orders content for column sorting and returns -1, 0 or +1.
//
//   - Empty equals Empty and is less than anything else.
//   - Text sorts in reverse lexicographic order and is greater than numbers.
//   - Numbers, floats and formulas with a numeric value compare by value,
//     promoting integers to float when mixed.
//   - A formula with a string value compares like Text.
//   - A formula whose value is empty or an error is less than everything,
//     including another such formula and Empty.
//
// The last rule makes Compare inconsistent: for two such formulas a and b
// both Compare(a, b) and Compare(b, a) are -1. Sorting with it is stable but
// the relative order of those formulas is unspecified.
func Compare(a, b Content) int {
	switch {
	case a.isBlankFormula():
		return -1
	case a.Kind == KindEmpty:
		if b.Kind == KindEmpty {
			return 0
		}
		return -1
	case b.isBlankFormula(), b.Kind == KindEmpty:
		return 1
	}

	as, aText := a.sortText()
	bs, bText := b.sortText()
	switch {
	case aText && bText:
		return strings.Compare(bs, as)
	case aText:
		return 1
	case bText:
		return -1
	}
	return compareNumeric(a.sortValue(), b.sortValue())
}

func (c Content) isBlankFormula() bool {
	if c.Kind != KindFormula {
		return false
	}
	kind := c.Formula.Value.Kind
	return kind == formula.ValueEmpty || kind == formula.ValueError
}

func (c Content) sortText() (string, bool) {
	switch {
	case c.Kind == KindText:
		return c.Text, true
	case c.Kind == KindFormula && c.Formula.Value.Kind == formula.ValueString:
		return c.Formula.Value.String, true
	}
	return "", false
}

// sortValue returns the numeric value of number, float and numeric formula
// content.
func (c Content) sortValue() formula.Value {
	switch c.Kind {
	case KindNumber:
		return formula.NumberValue(c.Number)
	case KindFloat:
		return formula.FloatValue(c.Float)
	}
	return c.Formula.Value
}

func compareNumeric(a, b formula.Value) int {
	if a.Kind == formula.ValueNumber && b.Kind == formula.ValueNumber {
		return cmp.Compare(a.Number, b.Number)
	}
	return cmp.Compare(a.AsFloat(), b.AsFloat())
}
