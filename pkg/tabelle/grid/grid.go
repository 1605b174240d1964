// Package grid holds a rectangular sheet of cells with a cursor, the editing
// operations applied at the cursor and the fixed-point formula evaluator.
package grid

import (
	"errors"
	"fmt"

	"github.com/ukaji3/tabelle-go/pkg/tabelle/address"
	"github.com/ukaji3/tabelle-go/pkg/tabelle/cell"
	"github.com/ukaji3/tabelle-go/pkg/tabelle/evaluator"
	"github.com/ukaji3/tabelle-go/pkg/tabelle/formula"
)

// DefaultColumnWidth is the display width, in characters, of a new column.
const DefaultColumnWidth = 10

var (
	// ErrShrink is returned by Resize when either dimension would get smaller.
	ErrShrink = errors.New("grid cannot shrink")
	// ErrOutOfBounds indicates a position or column outside the grid.
	ErrOutOfBounds = errors.New("out of bounds")
)

// Grid is a row-major vector of width*height cells. The cell at index i
// always sits at address.FromIndex(i, width).
//
// A Grid is not safe for concurrent use.
type Grid struct {
	cursor       address.Position
	width        int
	height       int
	cells        []cell.Cell
	columnWidths []int
	used         address.Position
	fixedRows    int
	path         string
	evaluator    formula.Evaluator
}

// New returns an empty grid. Dimensions below one are raised to one.
func New(width, height int) *Grid {
	width, height = max(width, 1), max(height, 1)
	g := &Grid{
		width:        width,
		height:       height,
		cells:        make([]cell.Cell, width*height),
		columnWidths: make([]int, width),
	}
	for i := range g.cells {
		g.cells[i].Position = address.FromIndex(i, width)
	}
	for x := range g.columnWidths {
		g.columnWidths[x] = DefaultColumnWidth
	}
	return g
}

// SetEvaluator replaces the expression evaluator. nil restores the default.
func (g *Grid) SetEvaluator(ev formula.Evaluator) {
	g.evaluator = ev
}

func (g *Grid) expressionEvaluator() formula.Evaluator {
	if g.evaluator == nil {
		g.evaluator = evaluator.New()
	}
	return g.evaluator
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// Size returns the grid dimensions.
func (g *Grid) Size() address.Size {
	return address.Size{Width: g.width, Height: g.height}
}

// Cells returns the row-major cell vector. Callers must not modify it.
func (g *Grid) Cells() []cell.Cell { return g.cells }

// Row returns the cells of row y.
func (g *Grid) Row(y int) []cell.Cell {
	return g.cells[y*g.width : (y+1)*g.width]
}

// Contains reports whether pos lies inside the grid.
func (g *Grid) Contains(pos address.Position) bool {
	return pos.Column >= 0 && pos.Row >= 0 && pos.Column < g.width && pos.Row < g.height
}

// CellAt returns the cell at pos.
func (g *Grid) CellAt(pos address.Position) (cell.Cell, error) {
	if !g.Contains(pos) {
		return cell.Cell{}, fmt.Errorf("%w: %s", ErrOutOfBounds, pos)
	}
	return g.cells[pos.Index(g.width)], nil
}

// CurrentCell returns the cell under the cursor.
func (g *Grid) CurrentCell() cell.Cell {
	return g.cells[g.cursor.Index(g.width)]
}

// UpdateCellAt replaces the content at pos and raises the used bounds.
func (g *Grid) UpdateCellAt(pos address.Position, content cell.Content) error {
	if !g.Contains(pos) {
		return fmt.Errorf("%w: %s", ErrOutOfBounds, pos)
	}
	g.cells[pos.Index(g.width)].Content = content
	g.markUsed(pos)
	return nil
}

// SetUnit sets the display unit of the cell at pos.
func (g *Grid) SetUnit(pos address.Position, unit cell.Unit) error {
	if !g.Contains(pos) {
		return fmt.Errorf("%w: %s", ErrOutOfBounds, pos)
	}
	g.cells[pos.Index(g.width)].Unit = unit
	return nil
}

// Cursor returns the cursor position.
func (g *Grid) Cursor() address.Position { return g.cursor }

// SetCursor moves the cursor to pos, clamped to the grid.
func (g *Grid) SetCursor(pos address.Position) {
	g.cursor = address.Position{
		Column: min(max(pos.Column, 0), g.width-1),
		Row:    min(max(pos.Row, 0), g.height-1),
	}
}

// MoveCursor moves the cursor by (dx, dy), clamped to the grid, and reports
// whether the cursor position changed.
func (g *Grid) MoveCursor(dx, dy int) bool {
	before := g.cursor
	g.SetCursor(before.Add(dx, dy))
	return g.cursor != before
}

// InputChar types ch into the cell under the cursor. The error is the parse
// error of a partially typed formula; the character is applied either way.
func (g *Grid) InputChar(ch rune) error {
	c := &g.cells[g.cursor.Index(g.width)]
	err := c.Content.InputChar(ch, g.cursor, g.Size())
	g.markUsed(g.cursor)
	return err
}

// ClearCurrentCell empties the cell under the cursor. Its unit is kept.
func (g *Grid) ClearCurrentCell() {
	g.cells[g.cursor.Index(g.width)].Content = cell.Empty()
}

func (g *Grid) markUsed(pos address.Position) {
	g.used.Column = max(g.used.Column, pos.Column)
	g.used.Row = max(g.used.Row, pos.Row)
}

// UsedBounds returns the bottom-right corner of the area ever written to.
func (g *Grid) UsedBounds() address.Position { return g.used }

// ColumnWidth returns the display width of column x.
func (g *Grid) ColumnWidth(x int) int { return g.columnWidths[x] }

// ColumnWidths returns the display width of every column.
func (g *Grid) ColumnWidths() []int { return g.columnWidths }

// SetColumnWidth sets the display width of column x.
func (g *Grid) SetColumnWidth(x, width int) error {
	if x < 0 || x >= g.width {
		return fmt.Errorf("%w: column %d", ErrOutOfBounds, x)
	}
	g.columnWidths[x] = max(width, 1)
	return nil
}

// FixedRows returns the number of header rows excluded from sorting.
func (g *Grid) FixedRows() int { return g.fixedRows }

// FixRows marks the first n rows as header rows.
func (g *Grid) FixRows(n int) {
	g.fixedRows = min(max(n, 0), g.height)
}

// Path returns the file the grid was loaded from or last saved to.
func (g *Grid) Path() string { return g.path }

// SetPath records the file backing the grid.
func (g *Grid) SetPath(path string) { g.path = path }

// Resize grows the grid to width x height, keeping every cell at its
// position. New columns get DefaultColumnWidth.
func (g *Grid) Resize(width, height int) error {
	if width < g.width || height < g.height {
		return fmt.Errorf("%w: %dx%d to %dx%d", ErrShrink, g.width, g.height, width, height)
	}
	if width == g.width && height == g.height {
		return nil
	}

	cells := make([]cell.Cell, 0, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if x < g.width && y < g.height {
				cells = append(cells, g.cells[y*g.width+x])
				continue
			}
			cells = append(cells, cell.Cell{Position: address.Position{Column: x, Row: y}})
		}
	}
	for x := g.width; x < width; x++ {
		g.columnWidths = append(g.columnWidths, DefaultColumnWidth)
	}
	g.cells, g.width, g.height = cells, width, height
	g.checkInvariant()
	return nil
}

// checkInvariant panics when the cell vector no longer matches the grid.
func (g *Grid) checkInvariant() {
	if len(g.cells) != g.width*g.height {
		panic(fmt.Sprintf("grid: %d cells for %dx%d", len(g.cells), g.width, g.height))
	}
	if len(g.columnWidths) != g.width {
		panic(fmt.Sprintf("grid: %d column widths for width %d", len(g.columnWidths), g.width))
	}
	for i, c := range g.cells {
		if want := address.FromIndex(i, g.width); c.Position != want {
			panic(fmt.Sprintf("grid: cell %d at %s, want %s", i, c.Position, want))
		}
	}
}
