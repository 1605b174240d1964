package cell

import (
	"fmt"

	"github.com/ukaji3/tabelle-go/pkg/tabelle/formula"
)

// Unit is a display unit attached to a cell.
type Unit uint8

const (
	UnitNone Unit = iota
	// UnitDollar shows integers as an amount of cents, e.g. 1999 as "$ 19.99".
	UnitDollar
)

// Workbook number format codes for each unit.
const (
	FormatGeneral     = "General"
	FormatCurrencyUSD = "$#,##0_-"
)

func (u Unit) String() string {
	if u == UnitDollar {
		return "$"
	}
	return ""
}

// FormatCode returns the workbook number format code of u.
func (u Unit) FormatCode() string {
	if u == UnitDollar {
		return FormatCurrencyUSD
	}
	return FormatGeneral
}

// UnitFromFormatCode maps a workbook number format code to a unit. Unknown
// codes report false.
func UnitFromFormatCode(code string) (Unit, bool) {
	switch code {
	case FormatCurrencyUSD:
		return UnitDollar, true
	case FormatGeneral, "":
		return UnitNone, true
	}
	return UnitNone, false
}

// Display renders c in unit u. Only integer values are affected by a unit.
func (u Unit) Display(c Content) string {
	switch {
	case c.Kind == KindNumber:
		return u.formatNumber(c.Number)
	case c.Kind == KindFormula && c.Formula.Value.Kind == formula.ValueNumber:
		return u.formatNumber(c.Formula.Value.Number)
	}
	return c.Display()
}

func (u Unit) formatNumber(n int64) string {
	if u == UnitDollar {
		return fmt.Sprintf("$ %.2f", float64(n)*0.01)
	}
	return fmt.Sprint(n)
}
