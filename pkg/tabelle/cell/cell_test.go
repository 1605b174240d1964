package cell

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/tabelle-go/pkg/tabelle/address"
	"github.com/ukaji3/tabelle-go/pkg/tabelle/formula"
)

type testSheet struct {
	width int
	cells []Cell
}

func (s testSheet) Width() int    { return s.width }
func (s testSheet) Cells() []Cell { return s.cells }

func newTestSheet(width int, contents ...Content) testSheet {
	s := testSheet{width: width}
	for i, c := range contents {
		s.cells = append(s.cells, Cell{Content: c, Position: address.FromIndex(i, width)})
	}
	return s
}

func TestCellIdentityIsPosition(t *testing.T) {
	a := Cell{Content: Number(1), Position: address.Position{Column: 1, Row: 0}}
	b := Cell{Content: Text("x"), Position: address.Position{Column: 1, Row: 0}, Unit: UnitDollar}
	c := Cell{Content: Number(1), Position: address.Position{Column: 0, Row: 1}}

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.Equal(t, 0, a.Compare(b))
	assert.Equal(t, -1, a.Compare(c))
	assert.Equal(t, "B0", a.Name())
}

func TestBindings(t *testing.T) {
	// A0=1     B0=x
	// A1=self  B1=(empty)
	// A2=2.5   B2=formula "s"
	sheet := newTestSheet(2,
		Number(1), Text("x"),
		Number(99), Empty(),
		FloatNumber(2.5, 0), formulaWith(formula.StringValue("s")),
	)
	self := address.Position{Column: 0, Row: 1}

	b := Bindings(sheet, self)

	assert.Equal(t, formula.NumberValue(1), b.Cells["A0"])
	assert.Equal(t, formula.NumberValue(1), b.Cells["a0"])
	assert.Equal(t, formula.StringValue("x"), b.Cells["b0"])
	assert.Equal(t, formula.StringValue("s"), b.Cells["B2"])
	assert.NotContains(t, b.Cells, "A1")
	assert.NotContains(t, b.Cells, "B1")
	assert.Len(t, b.Cells, 8)

	want := []formula.Value{formula.NumberValue(1), formula.FloatValue(2.5)}
	assert.Equal(t, want, b.Columns["A"])
	assert.Equal(t, want, b.Columns["a"])
	assert.Equal(t, []formula.Value{formula.StringValue("x"), formula.StringValue("s")}, b.Columns["B"])
}

func TestCellEvaluate(t *testing.T) {
	size := address.Size{Width: 2, Height: 1}
	f, err := formula.Parse("A0 * 2", address.Position{Column: 1}, size)
	require.NoError(t, err)
	sheet := newTestSheet(2, Number(21), FormulaContent(f))

	target := sheet.cells[1]
	target.Evaluate(sheet, formula.EvaluatorFunc(func(expression string, b formula.Bindings) (formula.Value, error) {
		assert.Equal(t, "A0 * 2", expression)
		assert.NotContains(t, b.Cells, "B0")
		return formula.NumberValue(b.Cells["A0"].Number * 2), nil
	}))
	assert.Equal(t, formula.NumberValue(42), target.Content.Formula.Value)
	assert.Equal(t, "42", target.Display())

	plain := sheet.cells[0]
	plain.Evaluate(sheet, nil)
	assert.Equal(t, Number(21), plain.Content)
}
