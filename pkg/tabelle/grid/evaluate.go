package grid

import (
	"fmt"
	"slices"

	"github.com/tiendc/go-deepcopy"

	"github.com/ukaji3/tabelle-go/pkg/tabelle/cell"
	"github.com/ukaji3/tabelle-go/pkg/tabelle/formula"
)

// Evaluate runs one pass over every formula. All formulas of a pass read the
// grid as it was before the pass; the results replace the grid at the end.
// A chain of n dependent formulas therefore needs n passes to settle.
func (g *Grid) Evaluate() {
	var next []cell.Cell
	if err := deepcopy.Copy(&next, &g.cells); err != nil {
		panic(fmt.Sprintf("grid: clone cells: %v", err))
	}
	ev := g.expressionEvaluator()
	for i := range next {
		next[i].Evaluate(g, ev)
	}
	g.cells = next
}

// EvaluateUntilStable runs up to limit passes and stops after the first pass
// that changes no formula value. It returns the number of passes run and
// whether the last of them changed nothing. Cyclic references never settle
// and run the full limit. A grid without formulas is stable after 0 passes.
func (g *Grid) EvaluateUntilStable(limit int) (int, bool) {
	if !g.HasFormulas() {
		return 0, true
	}
	for pass := 1; pass <= limit; pass++ {
		before := g.formulaValues()
		g.Evaluate()
		if slices.Equal(before, g.formulaValues()) {
			return pass, true
		}
	}
	return limit, false
}

// HasFormulas reports whether any cell holds a formula.
func (g *Grid) HasFormulas() bool {
	for _, c := range g.cells {
		if c.Content.Kind == cell.KindFormula {
			return true
		}
	}
	return false
}

func (g *Grid) formulaValues() []formula.Value {
	var values []formula.Value
	for _, c := range g.cells {
		if c.Content.Kind == cell.KindFormula {
			values = append(values, c.Content.Formula.Value)
		}
	}
	return values
}
