package parser

import (
	"strconv"
	"strings"

	"github.com/xuri/efp"
	"github.com/xuri/excelize/v2"

	"github.com/ukaji3/tabelle-go/pkg/tabelle/address"
)

// Workbook formulas and grid formulas differ in three ways: workbook rows
// are 1-based, workbook column names are bijective ("AA" follows "Z") and
// workbook function names are upper case. The translators below walk the
// efp token stream and rewrite range operands and function names.

var excelToGridFunctions = map[string]string{
	"AVERAGE": "avg",
}

var gridToExcelFunctions = map[string]string{
	"avg": "AVERAGE",
}

// ToGridFormula converts a workbook formula (without the leading '=') to
// grid formula text.
func ToGridFormula(formula string) string {
	ps := efp.ExcelParser()
	tokens := ps.Parse(formula)
	var b strings.Builder
	for _, token := range tokens {
		switch {
		case token.TType == efp.TokenTypeOperand && token.TSubType == efp.TokenSubTypeRange:
			b.WriteString(excelRangeToGrid(token.TValue))
		case token.TType == efp.TokenTypeOperand && token.TSubType == efp.TokenSubTypeLogical:
			b.WriteString(strings.ToLower(token.TValue))
		case token.TType == efp.TokenTypeOperatorInfix && token.TValue == "&":
			b.WriteString("+")
		case token.TType == efp.TokenTypeFunction && token.TSubType == efp.TokenSubTypeStart:
			name, ok := excelToGridFunctions[strings.ToUpper(token.TValue)]
			if !ok {
				name = strings.ToLower(token.TValue)
			}
			b.WriteString(name + "(")
		default:
			renderToken(&b, token)
		}
	}
	return b.String()
}

// ToExcelFormula converts grid formula text to a workbook formula without the
// leading '='.
func ToExcelFormula(formula string) string {
	ps := efp.ExcelParser()
	tokens := ps.Parse(formula)
	var b strings.Builder
	for _, token := range tokens {
		switch {
		case token.TType == efp.TokenTypeOperand && token.TSubType == efp.TokenSubTypeRange:
			b.WriteString(gridRangeToExcel(token.TValue))
		case token.TType == efp.TokenTypeFunction && token.TSubType == efp.TokenSubTypeStart:
			name, ok := gridToExcelFunctions[token.TValue]
			if !ok {
				name = strings.ToUpper(token.TValue)
			}
			b.WriteString(name + "(")
		default:
			renderToken(&b, token)
		}
	}
	return b.String()
}

func renderToken(b *strings.Builder, token efp.Token) {
	switch token.TType {
	case efp.TokenTypeFunction, efp.TokenTypeSubexpression:
		if token.TSubType == efp.TokenSubTypeStart {
			b.WriteString(token.TValue + "(")
		} else {
			b.WriteString(")")
		}
	case efp.TokenTypeArgument:
		b.WriteString(",")
	case efp.TokenTypeWhitespace:
		b.WriteString(" ")
	case efp.TokenTypeOperand:
		if token.TSubType == efp.TokenSubTypeText {
			b.WriteString(`"` + strings.ReplaceAll(token.TValue, `"`, `""`) + `"`)
			return
		}
		b.WriteString(token.TValue)
	default:
		b.WriteString(token.TValue)
	}
}

// excelRangeToGrid rewrites "A1", "$A$1:B3" and "A:C". Sheet-qualified
// references are kept verbatim; the grid has a single sheet.
func excelRangeToGrid(ref string) string {
	if strings.Contains(ref, "!") {
		return ref
	}
	ref = strings.ReplaceAll(ref, "$", "")
	start, end, isRange := strings.Cut(ref, ":")
	if !isRange {
		if name, ok := excelCellToGrid(start); ok {
			return name
		}
		return ref
	}

	// whole columns: A:C becomes the concatenation of columns A, B and C
	first, errFirst := excelize.ColumnNameToNumber(start)
	last, errLast := excelize.ColumnNameToNumber(end)
	if errFirst == nil && errLast == nil {
		if first == last {
			return address.ColumnName(first - 1)
		}
		names := make([]string, 0, last-first+1)
		for n := min(first, last); n <= max(first, last); n++ {
			names = append(names, address.ColumnName(n-1))
		}
		return "(" + strings.Join(names, " + ") + ")"
	}

	from, okFrom := excelCellToGrid(start)
	to, okTo := excelCellToGrid(end)
	if okFrom && okTo {
		return from + ":" + to
	}
	return ref
}

func excelCellToGrid(name string) (string, bool) {
	col, row, err := excelize.CellNameToCoordinates(name)
	if err != nil {
		return "", false
	}
	return address.CellName(col-1, row-1), true
}

// gridRangeToExcel rewrites "A0", "A0:B2", "A0:5" and bare column names.
// Anything else, e.g. lower case bindings, is kept verbatim.
func gridRangeToExcel(ref string) string {
	start, end, isRange := strings.Cut(ref, ":")
	if !isRange {
		if name, ok := gridCellToExcel(start); ok {
			return name
		}
		if start == strings.ToUpper(start) {
			if column, err := address.ColumnIndex(start); err == nil {
				name, _ := excelize.ColumnNumberToName(column + 1)
				return name + ":" + name
			}
		}
		return ref
	}

	from, ok := gridCellToExcel(start)
	if !ok {
		return ref
	}
	if to, ok := gridCellToExcel(end); ok {
		return from + ":" + to
	}
	if row, err := strconv.ParseUint(end, 10, 0); err == nil {
		pos, _ := address.ParseCellName(start)
		to, _ := excelize.CoordinatesToCellName(pos.Column+1, int(row)+1)
		return from + ":" + to
	}
	return ref
}

func gridCellToExcel(name string) (string, bool) {
	pos, err := address.ParseCellName(name)
	if err != nil {
		return "", false
	}
	out, err := excelize.CoordinatesToCellName(pos.Column+1, pos.Row+1)
	return out, err == nil
}
