package models

// WorkbookData represents a loaded file with its sheet.
type WorkbookData struct {
	// BookName is the file name (no path).
	BookName string `json:"book_name"`
	// Sheets maps sheet name to SheetData.
	Sheets map[string]SheetData `json:"sheets"`
}
