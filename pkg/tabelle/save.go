package tabelle

import (
	"os"

	"github.com/ukaji3/tabelle-go/pkg/tabelle/cell"
	"github.com/ukaji3/tabelle-go/pkg/tabelle/formula"
	"github.com/ukaji3/tabelle-go/pkg/tabelle/grid"
	"github.com/ukaji3/tabelle-go/pkg/tabelle/parser"
)

// Save writes g to path, choosing the format by extension, and records path
// as the grid's file.
func Save(g *grid.Grid, path string, opts Options) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	if format == FormatWorkbook {
		err = SaveWorkbook(g, path)
	} else {
		err = SaveDelimited(g, path, opts.Separator)
	}
	if err != nil {
		return err
	}
	g.SetPath(path)
	opts.logger().Info("saved", "path", path, "format", string(format))
	return nil
}

// SaveDelimited writes the used area of g as delimited text. A zero sep
// writes commas.
func SaveDelimited(g *grid.Grid, path string, sep rune) error {
	if sep == 0 {
		sep = ','
	}
	if err := os.WriteFile(path, []byte(g.SerializeCSV(sep)), 0644); err != nil {
		return NewLoadError(path, "write", err)
	}
	return nil
}

// SaveWorkbook writes g as a single-sheet workbook. Formulas are stored as
// workbook formulas with their last value cached.
func SaveWorkbook(g *grid.Grid, path string) error {
	if err := parser.WriteWorkbook(path, ToWorkbook(g)); err != nil {
		return NewLoadError(path, "write", err)
	}
	return nil
}

// ToWorkbook converts g to workbook terms.
func ToWorkbook(g *grid.Grid) *parser.Workbook {
	wb := &parser.Workbook{
		Size:         g.Size(),
		ColumnWidths: g.ColumnWidths(),
		Active:       g.Cursor(),
		FixedRows:    g.FixedRows(),
	}
	for _, c := range g.Cells() {
		if c.Content.IsEmpty() && c.Unit == cell.UnitNone {
			continue
		}
		wc := parser.WorkbookCell{Position: c.Position, Value: contentValue(c.Content)}
		if c.Content.Kind == cell.KindFormula {
			wc.Formula = c.Content.Formula.Raw
		}
		if c.Unit != cell.UnitNone {
			wc.FormatCode = c.Unit.FormatCode()
		}
		wb.Cells = append(wb.Cells, wc)
	}
	return wb
}

// contentValue is the value of c as a Go value: the evaluated value of a
// formula, the scalar otherwise.
func contentValue(c cell.Content) any {
	switch c.Kind {
	case cell.KindText:
		return c.Text
	case cell.KindNumber:
		return c.Number
	case cell.KindFloat:
		return c.Float
	case cell.KindFormula:
		return scalarValue(c.Formula.Value)
	}
	return nil
}

// scalarValue returns v as a Go value: string, int64 or float64, the error
// display text for errors and nil when empty.
func scalarValue(v formula.Value) any {
	switch v.Kind {
	case formula.ValueString:
		return v.String
	case formula.ValueNumber:
		return v.Number
	case formula.ValueFloat:
		return v.Float
	case formula.ValueError:
		return formula.ErrorDisplay
	}
	return nil
}
