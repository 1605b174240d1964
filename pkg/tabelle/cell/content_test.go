package cell

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/tabelle-go/pkg/tabelle/address"
	"github.com/ukaji3/tabelle-go/pkg/tabelle/formula"
)

var size = address.Size{Width: 4, Height: 4}

func typeInto(t *testing.T, input string) Content {
	t.Helper()
	var c Content
	for _, ch := range input {
		_ = c.InputChar(ch, address.Position{Column: 1, Row: 1}, size)
	}
	return c
}

func TestInputChar(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Content
	}{
		{"digit", "7", Number(7)},
		{"digits", "123", Number(123)},
		{"leading dot", ".", FloatNumber(0, 1)},
		{"float", "1.5", FloatNumber(1.5, 2)},
		{"leading dot float", ".5", FloatNumber(0.5, 2)},
		{"number then letter", "1a", Text("1a")},
		{"float then letter", "1.5x", Text("1.5x")},
		{"float with second dot", "2.5.", Text("2.5.")},
		{"text", "ab1", Text("ab1")},
		{"text keeps dots", "a.b", Text("a.b")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := typeInto(t, tt.input)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInputCharFormula(t *testing.T) {
	var c Content
	pos := address.Position{Column: 2, Row: 3}
	require.NoError(t, c.InputChar('=', pos, size))
	require.Equal(t, KindFormula, c.Kind)
	assert.Equal(t, pos, c.Formula.Position)

	for _, ch := range "A0+B" {
		require.NoError(t, c.InputChar(ch, pos, size))
	}
	assert.Equal(t, "A0+B", c.Formula.Raw)
	assert.Equal(t, "A0+B", c.Formula.Parsed)
	assert.Equal(t, []formula.Reference{
		formula.CellRef(address.Position{}),
		formula.ColumnRef(1),
	}, c.Formula.References)

	// a half-typed range reports the error but keeps the text
	require.NoError(t, c.InputChar('1', pos, size))
	err := c.InputChar(':', pos, size)
	assert.True(t, errors.Is(err, formula.ErrMalformedRange), "got %v", err)
	assert.Equal(t, "=A0+B1:", c.LongDisplay())
	assert.True(t, c.Formula.Broken())
}

func TestParse(t *testing.T) {
	pos := address.Position{Column: 0, Row: 2}
	tests := []struct {
		name string
		raw  string
		want Content
	}{
		{"empty", "", Empty()},
		{"blank", "   ", Empty()},
		{"number", "42", Number(42)},
		{"negative", "-3", Number(-3)},
		{"float", " 2.5 ", FloatNumber(2.5, 0)},
		{"text", "apple", Text("apple")},
		{"nan is text", "NaN", Text("NaN")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.raw, pos, size)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	got, err := Parse("=A0 * 2", pos, size)
	require.NoError(t, err)
	require.Equal(t, KindFormula, got.Kind)
	assert.Equal(t, "A0 * 2", got.Formula.Raw)
	assert.Equal(t, pos, got.Formula.Position)

	got, err = Parse("=A0:", pos, size)
	require.Error(t, err)
	assert.Equal(t, KindFormula, got.Kind)
	assert.True(t, got.Formula.Broken())
}

func TestQueries(t *testing.T) {
	failed := FormulaContent(&formula.Formula{Raw: "x", Parsed: "x", Value: formula.ErrorValue()})
	text := FormulaContent(&formula.Formula{Raw: "x", Parsed: "x", Value: formula.StringValue("hi")})

	tests := []struct {
		name         string
		content      Content
		empty        bool
		isError      bool
		rightAligned bool
		display      string
	}{
		{"empty", Empty(), true, false, false, ""},
		{"text", Text("a"), false, false, false, "a"},
		{"number", Number(12), false, false, true, "12"},
		{"float", FloatNumber(2, 0), false, false, true, "2"},
		{"failed formula", failed, false, true, true, formula.ErrorDisplay},
		{"string formula", text, false, false, false, "hi"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.empty, tt.content.IsEmpty())
			assert.Equal(t, tt.isError, tt.content.IsError())
			assert.Equal(t, tt.rightAligned, tt.content.IsRightAligned())
			assert.Equal(t, tt.display, tt.content.Display())
		})
	}

	assert.Equal(t, "=x", failed.LongDisplay())
}

func TestUnitDisplay(t *testing.T) {
	assert.Equal(t, "$ 19.99", UnitDollar.Display(Number(1999)))
	assert.Equal(t, "1999", UnitNone.Display(Number(1999)))
	assert.Equal(t, "2.5", UnitDollar.Display(FloatNumber(2.5, 0)))

	f := FormulaContent(&formula.Formula{Raw: "x", Parsed: "x", Value: formula.NumberValue(250)})
	assert.Equal(t, "$ 2.50", UnitDollar.Display(f))

	unit, ok := UnitFromFormatCode(UnitDollar.FormatCode())
	assert.True(t, ok)
	assert.Equal(t, UnitDollar, unit)
	_, ok = UnitFromFormatCode("0.00%")
	assert.False(t, ok)
}
