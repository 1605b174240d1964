package models

// SheetData represents the evaluated content of a grid.
type SheetData struct {
	// Width is the number of columns.
	Width int `json:"width"`
	// Height is the number of rows.
	Height int `json:"height"`
	// Cursor is the name of the cell under the cursor.
	Cursor string `json:"cursor"`
	// FixedRows is the number of header rows excluded from sorting.
	FixedRows int `json:"fixed_rows,omitempty"`
	// ColumnWidths contains the display width of every column in characters.
	ColumnWidths []int `json:"column_widths,omitempty"`
	// Rows contains the non-empty rows.
	Rows []CellRow `json:"rows,omitempty"`
	// TableCandidates contains cell ranges likely representing tables.
	TableCandidates []string `json:"table_candidates,omitempty"`
	// Errors contains the names of formula cells whose evaluation failed.
	Errors []string `json:"errors,omitempty"`
}
