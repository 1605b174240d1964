// Package models defines the JSON export structures of a grid.
package models

// CellRow represents a single row of non-empty cells.
type CellRow struct {
	// R is the row index (0-based).
	R int `json:"r"`
	// C maps column name to the evaluated cell value.
	C map[string]interface{} `json:"c"`
	// Formulas maps column name to the formula text, including '=' (optional).
	Formulas map[string]string `json:"formulas,omitempty"`
	// Units maps column name to the display unit of unit-formatted cells (optional).
	Units map[string]string `json:"units,omitempty"`
}
