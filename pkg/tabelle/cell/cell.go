package cell

import (
	"fmt"
	"strings"

	"github.com/ukaji3/tabelle-go/pkg/tabelle/address"
	"github.com/ukaji3/tabelle-go/pkg/tabelle/formula"
)

// Cell is content at a grid position. Identity is the position alone:
// Equal and Compare ignore content and unit.
type Cell struct {
	Content  Content          `json:"content"`
	Position address.Position `json:"position"`
	Unit     Unit             `json:"unit,omitempty"`
}

// Equal reports whether c and o sit at the same position.
func (c Cell) Equal(o Cell) bool {
	return c.Position == o.Position
}

// Compare orders cells row-major by position.
func (c Cell) Compare(o Cell) int {
	return c.Position.Compare(o.Position)
}

// Name returns the cell name, e.g. "B3".
func (c Cell) Name() string {
	return c.Position.Name()
}

// Display is the short form rendered in the cell's unit.
func (c Cell) Display() string {
	return c.Unit.Display(c.Content)
}

// LongDisplay is the editable form of the content.
func (c Cell) LongDisplay() string {
	return c.Content.LongDisplay()
}

func (c Cell) String() string {
	return fmt.Sprintf("%s %s %q", c.Name(), c.Content.Kind, c.LongDisplay())
}

// Sheet is the read-only view a formula is evaluated against. Cells must be
// row-major with len(Cells()) a multiple of Width().
type Sheet interface {
	Width() int
	Cells() []Cell
}

// Evaluate evaluates c's formula, if any, against sheet. sheet must not be
// the slice c lives in when other cells of the same pass are still pending.
func (c *Cell) Evaluate(sheet Sheet, ev formula.Evaluator) {
	if c.Content.Kind != KindFormula {
		return
	}
	c.Content.Formula.Evaluate(ev, Bindings(sheet, c.Position))
}

// Bindings builds the names visible to the formula at self: every other
// cell's scalar under its upper and lower case name, and per column, under
// both cases, the scalars of the other non-empty cells in row order.
func Bindings(sheet Sheet, self address.Position) formula.Bindings {
	b := formula.NewBindings()
	cells := sheet.Cells()
	for _, c := range cells {
		if c.Position == self {
			continue
		}
		v, ok := c.Content.Scalar()
		if !ok {
			continue
		}
		name := c.Name()
		b.Cells[name] = v
		b.Cells[strings.ToLower(name)] = v
	}

	width := sheet.Width()
	for x := 0; x < width; x++ {
		column := make([]formula.Value, 0, len(cells)/width)
		for i := x; i < len(cells); i += width {
			if cells[i].Position == self {
				continue
			}
			if v, ok := cells[i].Content.Scalar(); ok {
				column = append(column, v)
			}
		}
		name := address.ColumnName(x)
		b.Columns[name] = column
		b.Columns[strings.ToLower(name)] = column
	}
	return b
}
