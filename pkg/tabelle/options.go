// Package tabelle loads delimited text and workbooks into grids, evaluates
// their formulas, runs editor commands and saves grids back to files.
package tabelle

import (
	"log/slog"

	"github.com/ukaji3/tabelle-go/pkg/tabelle/address"
	"github.com/ukaji3/tabelle-go/pkg/tabelle/formula"
)

// Options configures loading, evaluation and saving.
type Options struct {
	// Encoding names the character encoding of delimited text (see
	// parser.Encodings). Empty means UTF-8.
	Encoding string
	// Separator forces the field separator of delimited text.
	// Zero detects it from the input.
	Separator rune
	// Evaluate specifies whether formulas are evaluated after loading.
	// If nil, defaults to true.
	Evaluate *bool
	// MaxPasses bounds the evaluation passes after loading.
	// Zero means one pass per cell.
	MaxPasses int
	// ColumnWidth is the display width of columns without an explicit width.
	// Zero keeps the grid default.
	ColumnWidth int
	// Evaluator evaluates formula expressions. If nil, the expr based
	// evaluator is used.
	Evaluator formula.Evaluator
	// Logger receives progress and warnings. If nil, slog.Default is used.
	Logger *slog.Logger
}

// DefaultOptions returns default options.
func DefaultOptions() Options {
	return Options{}
}

// ShouldEvaluate returns whether formulas are evaluated after loading.
func (o Options) ShouldEvaluate() bool {
	if o.Evaluate != nil {
		return *o.Evaluate
	}
	return true
}

// PassLimit returns the maximum number of evaluation passes for a grid of
// the given size. A chain of dependent formulas can be no longer than the
// number of cells, so one pass per cell is always enough without cycles.
func (o Options) PassLimit(size address.Size) int {
	if o.MaxPasses > 0 {
		return o.MaxPasses
	}
	return max(size.Width*size.Height, 1)
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}
