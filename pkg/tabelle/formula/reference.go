package formula

import (
	"strconv"

	"github.com/ukaji3/tabelle-go/pkg/tabelle/address"
)

// ReferenceKind tags a Reference.
type ReferenceKind uint8

const (
	RefCell ReferenceKind = iota
	RefRow
	RefColumn
)

// Reference is a dependency of a formula on a cell, a whole row or a whole
// column. Cell is set for RefCell, Index for RefRow and RefColumn.
type Reference struct {
	Kind  ReferenceKind    `json:"kind"`
	Cell  address.Position `json:"cell"`
	Index int              `json:"index,omitempty"`
}

// CellRef references a single cell.
func CellRef(p address.Position) Reference { return Reference{Kind: RefCell, Cell: p} }

// RowRef references a row.
func RowRef(row int) Reference { return Reference{Kind: RefRow, Index: row} }

// ColumnRef references a column.
func ColumnRef(column int) Reference { return Reference{Kind: RefColumn, Index: column} }

// Text returns the reference the way it is written in raw formula text.
func (r Reference) Text() string {
	switch r.Kind {
	case RefRow:
		return strconv.Itoa(r.Index)
	case RefColumn:
		return address.ColumnName(r.Index)
	}
	return r.Cell.Name()
}

func (r Reference) String() string {
	switch r.Kind {
	case RefRow:
		return "row " + r.Text()
	case RefColumn:
		return "column " + r.Text()
	}
	return "cell " + r.Text()
}

// shifted returns r moved by (dx, dy) and whether every coordinate stays
// non-negative. Rows only follow dy, columns only dx.
func (r Reference) shifted(dx, dy int) (Reference, bool) {
	switch r.Kind {
	case RefRow:
		r.Index += dy
		return r, r.Index >= 0
	case RefColumn:
		r.Index += dx
		return r, r.Index >= 0
	}
	r.Cell = r.Cell.Add(dx, dy)
	return r, r.Cell.Column >= 0 && r.Cell.Row >= 0
}

// pastWidth reports whether a cell or column reference lies right of the
// last of width columns.
func (r Reference) pastWidth(width int) bool {
	switch r.Kind {
	case RefCell:
		return r.Cell.Column >= width
	case RefColumn:
		return r.Index >= width
	}
	return false
}
