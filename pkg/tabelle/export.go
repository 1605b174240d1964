package tabelle

import (
	"path/filepath"
	"strings"

	"github.com/ukaji3/tabelle-go/pkg/tabelle/address"
	"github.com/ukaji3/tabelle-go/pkg/tabelle/cell"
	"github.com/ukaji3/tabelle-go/pkg/tabelle/grid"
	"github.com/ukaji3/tabelle-go/pkg/tabelle/models"
	"github.com/ukaji3/tabelle-go/pkg/tabelle/parser"
)

// ToSheetData exports the evaluated content of g.
func ToSheetData(g *grid.Grid) models.SheetData {
	sheet := models.SheetData{
		Width:        g.Width(),
		Height:       g.Height(),
		Cursor:       g.Cursor().Name(),
		FixedRows:    g.FixedRows(),
		ColumnWidths: g.ColumnWidths(),
	}

	display := make([][]string, g.Height())
	for y := 0; y < g.Height(); y++ {
		display[y] = make([]string, g.Width())
		var row models.CellRow
		for x, c := range g.Row(y) {
			display[y][x] = c.Display()
			if c.Content.IsEmpty() {
				continue
			}
			if row.C == nil {
				row = models.CellRow{R: y, C: make(map[string]interface{})}
			}
			col := address.ColumnName(x)
			row.C[col] = contentValue(c.Content)
			if c.Content.Kind == cell.KindFormula {
				if row.Formulas == nil {
					row.Formulas = make(map[string]string)
				}
				row.Formulas[col] = c.LongDisplay()
				if c.Content.IsError() {
					sheet.Errors = append(sheet.Errors, c.Name())
				}
			}
			if c.Unit != cell.UnitNone {
				if row.Units == nil {
					row.Units = make(map[string]string)
				}
				row.Units[col] = c.Unit.String()
			}
		}
		if row.C != nil {
			sheet.Rows = append(sheet.Rows, row)
		}
	}
	sheet.TableCandidates = parser.DetectTables(display, parser.DefaultTableParams())
	return sheet
}

// ToWorkbookData exports g as a one-sheet workbook named after its file.
func ToWorkbookData(g *grid.Grid) *models.WorkbookData {
	bookName := filepath.Base(g.Path())
	if g.Path() == "" {
		bookName = "untitled"
	}
	return &models.WorkbookData{
		BookName: bookName,
		Sheets:   map[string]models.SheetData{SheetName(g): ToSheetData(g)},
	}
}

// SheetName is the file name of g without its extension.
func SheetName(g *grid.Grid) string {
	if g.Path() == "" {
		return "untitled"
	}
	base := filepath.Base(g.Path())
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// TableViews returns one view per table candidate of sheet.
func TableViews(bookName, sheetName string, sheet models.SheetData) []models.AreaView {
	var views []models.AreaView
	for _, ref := range sheet.TableCandidates {
		area, ok := parseArea(ref)
		if !ok {
			continue
		}
		view := models.AreaView{
			BookName:  bookName,
			SheetName: sheetName,
			Range:     ref,
			Area:      area,
		}
		for _, row := range sheet.Rows {
			if row.R < area.R1 || row.R > area.R2 {
				continue
			}
			if clipped, ok := clipRow(row, area); ok {
				view.Rows = append(view.Rows, clipped)
			}
		}
		views = append(views, view)
	}
	return views
}

func parseArea(ref string) (models.Area, bool) {
	from, to, ok := strings.Cut(ref, ":")
	if !ok {
		to = from
	}
	start, err := address.ParseCellName(from)
	if err != nil {
		return models.Area{}, false
	}
	end, err := address.ParseCellName(to)
	if err != nil {
		return models.Area{}, false
	}
	return models.Area{R1: start.Row, C1: start.Column, R2: end.Row, C2: end.Column}, true
}

// clipRow keeps the cells of row inside the columns of area.
func clipRow(row models.CellRow, area models.Area) (models.CellRow, bool) {
	out := models.CellRow{R: row.R, C: make(map[string]interface{})}
	for col, v := range row.C {
		x, err := address.ColumnIndex(col)
		if err != nil || !area.Contains(row.R, x) {
			continue
		}
		out.C[col] = v
		if f, ok := row.Formulas[col]; ok {
			if out.Formulas == nil {
				out.Formulas = make(map[string]string)
			}
			out.Formulas[col] = f
		}
		if u, ok := row.Units[col]; ok {
			if out.Units == nil {
				out.Units = make(map[string]string)
			}
			out.Units[col] = u
		}
	}
	return out, len(out.C) > 0
}
