package grid

import (
	"fmt"

	"github.com/ukaji3/tabelle-go/pkg/tabelle/address"
	"github.com/ukaji3/tabelle-go/pkg/tabelle/cell"
)

// Snapshot is the complete serializable state of a grid.
type Snapshot struct {
	Cursor       address.Position `json:"cursor"`
	Size         address.Size     `json:"size"`
	Cells        []cell.Cell      `json:"cells"`
	ColumnWidths []int            `json:"column_widths"`
	Used         address.Position `json:"used"`
	FixedRows    int              `json:"fixed_rows,omitempty"`
	Path         string           `json:"path,omitempty"`
}

// Snapshot returns the grid state. The cell slice is shared with the grid
// until the next edit.
func (g *Grid) Snapshot() Snapshot {
	return Snapshot{
		Cursor:       g.cursor,
		Size:         g.Size(),
		Cells:        g.cells,
		ColumnWidths: g.columnWidths,
		Used:         g.used,
		FixedRows:    g.fixedRows,
		Path:         g.path,
	}
}

// FromSnapshot rebuilds a grid from s. It fails when the cells or column
// widths do not match the recorded size.
func FromSnapshot(s Snapshot) (*Grid, error) {
	w, h := s.Size.Width, s.Size.Height
	if w < 1 || h < 1 || len(s.Cells) != w*h {
		return nil, fmt.Errorf("snapshot: %d cells for %dx%d", len(s.Cells), w, h)
	}
	if len(s.ColumnWidths) != w {
		return nil, fmt.Errorf("snapshot: %d column widths for width %d", len(s.ColumnWidths), w)
	}
	for i, c := range s.Cells {
		if want := address.FromIndex(i, w); c.Position != want {
			return nil, fmt.Errorf("snapshot: cell %d at %s, want %s", i, c.Position, want)
		}
		if c.Content.Kind == cell.KindFormula && c.Content.Formula == nil {
			return nil, fmt.Errorf("snapshot: cell %s has no formula", c.Position)
		}
	}

	g := &Grid{
		width:        w,
		height:       h,
		cells:        s.Cells,
		columnWidths: s.ColumnWidths,
		path:         s.Path,
	}
	g.SetCursor(s.Cursor)
	g.FixRows(s.FixedRows)
	g.markUsed(address.Position{
		Column: min(max(s.Used.Column, 0), w-1),
		Row:    min(max(s.Used.Row, 0), h-1),
	})
	return g, nil
}
