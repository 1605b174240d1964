// Package parser reads delimited text and workbook files into grid terms and
// writes grids back to workbooks.
package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ukaji3/tabelle-go/pkg/tabelle/address"
)

// excelize reports this width for columns that have none set.
const excelDefaultColWidth = 9.140625

// ErrNoSheets indicates a workbook without worksheets.
var ErrNoSheets = errors.New("workbook has no sheets")

// Workbook is the first sheet of a workbook file in grid terms: zero-based
// positions, grid formula text and column widths in characters. A column
// width of 0 means the column has no explicit width.
type Workbook struct {
	SheetName    string
	Size         address.Size
	ColumnWidths []int
	Cells        []WorkbookCell
	Active       address.Position
	FixedRows    int
}

// WorkbookCell is one cell with content or a number format.
//
// When reading, Value is the raw cell text. When writing, Value is a string,
// an integer or a float; for formulas it is the cached result and may be nil.
type WorkbookCell struct {
	Position   address.Position
	Value      any
	Formula    string // grid formula text without '='
	FormatCode string
}

// ReadWorkbook reads the first sheet of the workbook at path.
func ReadWorkbook(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoSheets
	}
	sheet := sheets[0]

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}
	_, maxRow, _, maxCol := findDataBounds(rows)
	width, height := maxCol+1, maxRow+1
	if w, h, ok := sheetDimension(f, sheet); ok {
		width, height = max(width, w), max(height, h)
	}
	width, height = max(width, 1), max(height, 1)

	wb := &Workbook{
		SheetName:    sheet,
		Size:         address.Size{Width: width, Height: height},
		ColumnWidths: make([]int, width),
	}

	for x := range wb.ColumnWidths {
		colName, _ := excelize.ColumnNumberToName(x + 1)
		if w, err := f.GetColWidth(sheet, colName); err == nil && w != excelDefaultColWidth && w >= 1 {
			wb.ColumnWidths[x] = int(w)
		}
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c, err := readCell(f, sheet, rows, x, y)
			if err != nil {
				return nil, fmt.Errorf("read %s: %w", address.CellName(x, y), err)
			}
			if c.Formula != "" || c.Value != "" || c.FormatCode != "" {
				wb.Cells = append(wb.Cells, c)
			}
		}
	}

	if panes, err := f.GetPanes(sheet); err == nil {
		if panes.Freeze && panes.YSplit > 0 {
			wb.FixedRows = panes.YSplit
		}
		for _, s := range panes.Selection {
			if s.ActiveCell == "" {
				continue
			}
			if col, row, err := excelize.CellNameToCoordinates(s.ActiveCell); err == nil {
				wb.Active = address.Position{
					Column: min(col-1, width-1),
					Row:    min(row-1, height-1),
				}
			}
		}
	}

	return wb, nil
}

func readCell(f *excelize.File, sheet string, rows [][]string, x, y int) (WorkbookCell, error) {
	c := WorkbookCell{Position: address.Position{Column: x, Row: y}, Value: ""}
	if y < len(rows) && x < len(rows[y]) {
		c.Value = rows[y][x]
	}

	name, err := excelize.CoordinatesToCellName(x+1, y+1)
	if err != nil {
		return c, err
	}
	formula, err := f.GetCellFormula(sheet, name)
	if err != nil {
		return c, err
	}
	if formula != "" {
		c.Formula = ToGridFormula(strings.TrimPrefix(formula, "="))
	}

	styleID, err := f.GetCellStyle(sheet, name)
	if err != nil || styleID == 0 {
		return c, nil
	}
	style, err := f.GetStyle(styleID)
	if err == nil && style.CustomNumFmt != nil {
		c.FormatCode = *style.CustomNumFmt
	}
	return c, nil
}

// sheetDimension returns the size recorded in the sheet's dimension element.
func sheetDimension(f *excelize.File, sheet string) (width, height int, ok bool) {
	ref, err := f.GetSheetDimension(sheet)
	if err != nil || ref == "" {
		return 0, 0, false
	}
	_, end, found := strings.Cut(ref, ":")
	if !found {
		end = ref
	}
	col, row, err := excelize.CellNameToCoordinates(strings.ReplaceAll(end, "$", ""))
	if err != nil {
		return 0, 0, false
	}
	return col, row, true
}

// WriteWorkbook writes wb as a single-sheet workbook to path.
func WriteWorkbook(path string, wb *Workbook) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	if wb.SheetName != "" && wb.SheetName != sheet {
		if err := f.SetSheetName(sheet, wb.SheetName); err != nil {
			return err
		}
		sheet = wb.SheetName
	}

	for x, w := range wb.ColumnWidths {
		if w <= 0 {
			continue
		}
		colName, err := excelize.ColumnNumberToName(x + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, colName, colName, float64(w)); err != nil {
			return err
		}
	}

	styles := make(map[string]int)
	for _, c := range wb.Cells {
		name, err := excelize.CoordinatesToCellName(c.Position.Column+1, c.Position.Row+1)
		if err != nil {
			return err
		}
		if c.Value != nil && c.Value != "" {
			if err := f.SetCellValue(sheet, name, c.Value); err != nil {
				return err
			}
		}
		if c.Formula != "" {
			if err := f.SetCellFormula(sheet, name, ToExcelFormula(c.Formula)); err != nil {
				return err
			}
		}
		if c.FormatCode == "" || c.FormatCode == "General" {
			continue
		}
		id, ok := styles[c.FormatCode]
		if !ok {
			code := c.FormatCode
			if id, err = f.NewStyle(&excelize.Style{CustomNumFmt: &code}); err != nil {
				return err
			}
			styles[c.FormatCode] = id
		}
		if err := f.SetCellStyle(sheet, name, name, id); err != nil {
			return err
		}
	}

	if wb.Size.Width > 0 && wb.Size.Height > 0 {
		end, _ := excelize.CoordinatesToCellName(wb.Size.Width, wb.Size.Height)
		if err := f.SetSheetDimension(sheet, "A1:"+end); err != nil {
			return err
		}
	}

	active, err := excelize.CoordinatesToCellName(wb.Active.Column+1, wb.Active.Row+1)
	if err != nil {
		return err
	}
	panes := &excelize.Panes{
		Selection: []excelize.Selection{{SQRef: active, ActiveCell: active}},
	}
	if wb.FixedRows > 0 {
		topLeft, _ := excelize.CoordinatesToCellName(1, wb.FixedRows+1)
		panes.Freeze = true
		panes.YSplit = wb.FixedRows
		panes.TopLeftCell = topLeft
		panes.ActivePane = "bottomLeft"
		panes.Selection[0].Pane = "bottomLeft"
	}
	if err := f.SetPanes(sheet, panes); err != nil {
		return err
	}

	return f.SaveAs(path)
}
