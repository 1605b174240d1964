package tabelle

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ukaji3/tabelle-go/pkg/tabelle/address"
	"github.com/ukaji3/tabelle-go/pkg/tabelle/cell"
	"github.com/ukaji3/tabelle-go/pkg/tabelle/grid"
	"github.com/ukaji3/tabelle-go/pkg/tabelle/parser"
)

// Format is a file format a grid can be loaded from and saved to.
type Format string

const (
	// FormatDelimited is comma, semicolon or tab separated text.
	FormatDelimited Format = "delimited"
	// FormatWorkbook is an Office Open XML workbook.
	FormatWorkbook Format = "workbook"
)

// FormatOf returns the format implied by the extension of path.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".tsv", ".txt":
		return FormatDelimited, nil
	case ".xlsx", ".xlsm":
		return FormatWorkbook, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}

// Open loads the file at path into a grid, choosing the format by extension.
func Open(path string, opts Options) (*grid.Grid, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, NewLoadError(path, "read", ErrFileNotFound)
	}
	if format == FormatWorkbook {
		return OpenWorkbook(path, opts)
	}
	return OpenDelimited(path, opts)
}

// OpenDelimited loads delimited text from path.
func OpenDelimited(path string, opts Options) (*grid.Grid, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewLoadError(path, "read", err)
	}
	text, err := parser.Decode(data, opts.Encoding)
	if err != nil {
		return nil, NewLoadError(path, "decode", err)
	}
	g, err := FromDelimited(text, opts)
	if err != nil {
		return nil, NewLoadError(path, "parse", err)
	}
	g.SetPath(path)
	return g, nil
}

// FromDelimited builds a grid from delimited text. Each field is parsed as
// cell content; a field holding a formula that does not parse is kept as a
// formula that evaluates to an error.
func FromDelimited(text string, opts Options) (*grid.Grid, error) {
	log := opts.logger()

	var (
		d   *parser.Delimited
		err error
	)
	if opts.Separator != 0 {
		d, err = parser.ParseDelimitedWith(text, opts.Separator)
	} else {
		d, err = parser.ParseDelimited(text)
	}
	if err != nil {
		return nil, err
	}
	log.Debug("parsed delimited text", "separator", string(d.Separator), "width", d.Width, "height", d.Height)

	g := grid.New(d.Width, d.Height)
	size := g.Size()
	for i, raw := range d.Cells {
		pos := address.FromIndex(i, d.Width)
		content, err := cell.Parse(raw, pos, size)
		if err != nil {
			log.Warn("formula does not parse", "cell", pos.Name(), "text", raw, "error", err)
		}
		if content.IsEmpty() {
			continue
		}
		if err := g.UpdateCellAt(pos, content); err != nil {
			return nil, err
		}
	}
	applyColumnWidth(g, nil, opts)
	finish(g, opts)
	return g, nil
}

// OpenWorkbook loads the first sheet of the workbook at path.
func OpenWorkbook(path string, opts Options) (*grid.Grid, error) {
	log := opts.logger()

	wb, err := parser.ReadWorkbook(path)
	if err != nil {
		return nil, NewLoadError(path, "read", err)
	}
	log.Debug("read workbook", "sheet", wb.SheetName, "width", wb.Size.Width, "height", wb.Size.Height)

	g := grid.New(wb.Size.Width, wb.Size.Height)
	size := g.Size()
	for _, wc := range wb.Cells {
		raw := fmt.Sprint(wc.Value)
		if wc.Formula != "" {
			raw = "=" + wc.Formula
		}
		content, err := cell.Parse(raw, wc.Position, size)
		if err != nil {
			log.Warn("formula does not parse", "cell", wc.Position.Name(), "text", raw, "error", err)
		}
		if err := g.UpdateCellAt(wc.Position, content); err != nil {
			return nil, NewLoadError(path, "parse", err)
		}
		unit, ok := cell.UnitFromFormatCode(wc.FormatCode)
		if !ok {
			log.Debug("ignoring number format", "cell", wc.Position.Name(), "format", wc.FormatCode)
		}
		if err := g.SetUnit(wc.Position, unit); err != nil {
			return nil, NewLoadError(path, "parse", err)
		}
	}
	applyColumnWidth(g, wb.ColumnWidths, opts)
	g.FixRows(wb.FixedRows)
	g.SetCursor(wb.Active)
	g.SetPath(path)
	finish(g, opts)
	return g, nil
}

// applyColumnWidth sets explicit widths and, for the other columns, the
// configured default.
func applyColumnWidth(g *grid.Grid, widths []int, opts Options) {
	for x := 0; x < g.Width(); x++ {
		switch {
		case x < len(widths) && widths[x] > 0:
			g.SetColumnWidth(x, widths[x])
		case opts.ColumnWidth > 0:
			g.SetColumnWidth(x, opts.ColumnWidth)
		}
	}
}

// finish installs the evaluator and evaluates the grid until its formulas
// settle.
func finish(g *grid.Grid, opts Options) {
	g.SetEvaluator(opts.Evaluator)
	if !opts.ShouldEvaluate() || !g.HasFormulas() {
		return
	}
	limit := opts.PassLimit(g.Size())
	passes, stable := g.EvaluateUntilStable(limit)
	log := opts.logger()
	if !stable {
		log.Warn("formulas may not have settled", "passes", passes)
		return
	}
	log.Debug("evaluated formulas", "passes", passes)
}
