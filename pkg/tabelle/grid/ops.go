package grid

import (
	"fmt"
	"slices"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/ukaji3/tabelle-go/pkg/tabelle/address"
	"github.com/ukaji3/tabelle-go/pkg/tabelle/cell"
)

// SortColumn reorders the rows below the fixed rows by the content of column
// x. Rows are sorted ascending with cell.Compare and then reversed, so text
// comes first and empty cells last. Every moved cell, including its formula,
// takes the position of its new slot.
func (g *Grid) SortColumn(x int) error {
	if x < 0 || x >= g.width {
		return fmt.Errorf("%w: column %d", ErrOutOfBounds, x)
	}

	rows := make([][]cell.Cell, 0, g.height-g.fixedRows)
	for y := g.fixedRows; y < g.height; y++ {
		rows = append(rows, slices.Clone(g.Row(y)))
	}
	slices.SortStableFunc(rows, func(a, b []cell.Cell) int {
		return cell.Compare(a[x].Content, b[x].Content)
	})
	slices.Reverse(rows)

	for i, row := range rows {
		y := g.fixedRows + i
		for col, c := range row {
			c.Position = address.Position{Column: col, Row: y}
			if c.Content.Kind == cell.KindFormula {
				moved := *c.Content.Formula
				moved.Position = c.Position
				c.Content.Formula = &moved
			}
			g.cells[y*g.width+col] = c
		}
	}
	g.checkInvariant()
	return nil
}

// FitColumnWidth sets the width of column x to the widest display text in
// that column plus one.
func (g *Grid) FitColumnWidth(x int) error {
	if x < 0 || x >= g.width {
		return fmt.Errorf("%w: column %d", ErrOutOfBounds, x)
	}
	widest := 0
	for y := 0; y < g.height; y++ {
		widest = max(widest, runewidth.StringWidth(g.cells[y*g.width+x].Display()))
	}
	g.columnWidths[x] = widest + 1
	return nil
}

// Find moves the cursor to the next text cell containing text, scanning
// row-major from just after the cursor and wrapping around. The cell under
// the cursor is checked last.
func (g *Grid) Find(text string) (address.Position, bool) {
	start := g.cursor.Index(g.width)
	for i := 1; i <= len(g.cells); i++ {
		c := g.cells[(start+i)%len(g.cells)]
		if c.Content.Kind == cell.KindText && strings.Contains(c.Content.Text, text) {
			g.cursor = c.Position
			return c.Position, true
		}
	}
	return g.cursor, false
}

// RecommendedContent returns the content of the cell at from adapted to the
// cursor: integers continue a series by the distance moved, formulas are
// relocated and everything else is copied.
func (g *Grid) RecommendedContent(from address.Position) (cell.Content, error) {
	src, err := g.CellAt(from)
	if err != nil {
		return cell.Content{}, err
	}
	dx, dy := g.cursor.Sub(from)
	switch src.Content.Kind {
	case cell.KindNumber:
		return cell.Number(src.Content.Number + int64(dx+dy)), nil
	case cell.KindFormula:
		moved, err := src.Content.Formula.MoveTo(g.cursor, g.Size())
		if err != nil {
			return cell.Content{}, err
		}
		return cell.FormulaContent(moved), nil
	}
	return src.Content, nil
}

// FillFrom writes RecommendedContent(from) into the cell under the cursor.
func (g *Grid) FillFrom(from address.Position) error {
	content, err := g.RecommendedContent(from)
	if err != nil {
		return err
	}
	return g.UpdateCellAt(g.cursor, content)
}
