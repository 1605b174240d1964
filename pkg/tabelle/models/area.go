package models

// Area represents cell coordinate bounds.
type Area struct {
	// R1 is the start row (0-based).
	R1 int `json:"r1"`
	// C1 is the start column (0-based).
	C1 int `json:"c1"`
	// R2 is the end row (0-based, inclusive).
	R2 int `json:"r2"`
	// C2 is the end column (0-based, inclusive).
	C2 int `json:"c2"`
}

// Contains reports whether the cell at (row, col) lies inside a.
func (a Area) Contains(row, col int) bool {
	return row >= a.R1 && row <= a.R2 && col >= a.C1 && col <= a.C2
}

// AreaView represents a slice of a sheet restricted to an area, e.g. a
// table candidate.
type AreaView struct {
	// BookName is the file name owning the area.
	BookName string `json:"book_name"`
	// SheetName is the sheet name owning the area.
	SheetName string `json:"sheet_name"`
	// Range is the area as a cell range, e.g. "A0:C4".
	Range string `json:"range"`
	// Area is the area bounds.
	Area Area `json:"area"`
	// Rows contains rows within the area bounds, restricted to its columns.
	Rows []CellRow `json:"rows,omitempty"`
}
