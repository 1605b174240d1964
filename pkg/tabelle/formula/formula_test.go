package formula

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/tabelle-go/pkg/tabelle/address"
)

func pos(column, row int) address.Position {
	return address.Position{Column: column, Row: row}
}

func TestParseRaw(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		width      int
		parsed     string
		references []Reference
	}{
		{"cells", "A1+B2", 3, "A1+B2", []Reference{CellRef(pos(0, 1)), CellRef(pos(1, 2))}},
		{"leading spaces dropped", "  A1 * 2", 3, "A1 * 2", []Reference{CellRef(pos(0, 1))}},
		{"cell range", "sum(A0:B2)", 5, "sum(A[0:3] + B[0:3])", []Reference{CellRef(pos(0, 0)), CellRef(pos(1, 2))}},
		{"row range", "A0:5", 5, "A[0:6]", []Reference{CellRef(pos(0, 0)), RowRef(5)}},
		{"column inside grid", "B * 2", 3, "B * 2", []Reference{ColumnRef(1)}},
		{"column outside grid", "B * 2", 1, "B * 2", nil},
		{"lowercase is not a cell", "a1 + 1", 3, "a1 + 1", nil},
		{"numbers", "1.5 + 2", 3, "1.5 + 2", nil},
		{"text before colon kept", "x:1", 3, "x:1", nil},
		{"order of occurrence", "C3-A0:A2+B", 3, "C3-A[0:3]+B", []Reference{
			CellRef(pos(2, 3)), CellRef(pos(0, 0)), CellRef(pos(0, 2)), ColumnRef(1),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, refs, err := ParseRaw(tt.raw, address.Size{Width: tt.width, Height: 10})
			require.NoError(t, err)
			assert.Equal(t, tt.parsed, parsed)
			assert.Equal(t, tt.references, refs)
		})
	}
}

func TestParseRawMalformedRange(t *testing.T) {
	_, _, err := ParseRaw("A0:x+1", address.Size{Width: 3, Height: 3})
	assert.True(t, errors.Is(err, ErrMalformedRange), "got %v", err)

	f, err := Parse("sum(A0:)", pos(1, 1), address.Size{Width: 3, Height: 3})
	require.Error(t, err)
	assert.True(t, f.Broken())
	f.Evaluate(EvaluatorFunc(func(string, Bindings) (Value, error) {
		t.Fatal("broken formula must not reach the evaluator")
		return Value{}, nil
	}), NewBindings())
	assert.True(t, f.IsError())
}

func TestMoveTo(t *testing.T) {
	size := address.Size{Width: 10, Height: 10}
	tests := []struct {
		name   string
		raw    string
		from   address.Position
		to     address.Position
		want   string
		parsed string
	}{
		{"single cell", "A1+1", pos(2, 2), pos(2, 3), "A2+1", "A2+1"},
		{"adjacent rewrites", "A1+A2", pos(3, 0), pos(3, 1), "A2+A3", "A2+A3"},
		{"cell range", "sum(A0:B2)", pos(4, 4), pos(5, 5), "sum(B1:C3)", "sum(B[1:4] + C[1:4])"},
		{"row range", "A0:3", pos(4, 4), pos(4, 6), "A2:5", "A[2:6]"},
		{"column", "sum(B) + B0", pos(1, 0), pos(2, 0), "sum(C) + C0", "sum(C) + C0"},
		{"token boundaries", "BOB + B", pos(0, 0), pos(1, 0), "BOB + C", "BOB + C"},
		{"lowercase column", "sum(a) + a0", pos(1, 0), pos(2, 0), "sum(b) + a0", "sum(b) + a0"},
		{"leading zero digit", "AA * 2", pos(0, 0), pos(1, 0), "B * 2", "B * 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Parse(tt.raw, tt.from, size)
			require.NoError(t, err)
			f.Value = NumberValue(7)

			moved, err := f.MoveTo(tt.to, size)
			require.NoError(t, err)
			assert.Equal(t, tt.want, moved.Raw)
			assert.Equal(t, tt.parsed, moved.Parsed)
			assert.Equal(t, tt.to, moved.Position)
			assert.Equal(t, Value{}, moved.Value)

			// the source stays untouched
			assert.Equal(t, tt.raw, f.Raw)
		})
	}
}

func TestMoveToShiftsEveryReference(t *testing.T) {
	size := address.Size{Width: 30, Height: 30}
	origin := pos(5, 5)
	for dx := -3; dx <= 3; dx++ {
		for dy := -3; dy <= 3; dy++ {
			raw := "J7*2 + sum(K3:L9) - M4:12"
			f, err := Parse(raw, origin, size)
			require.NoError(t, err)

			moved, err := f.MoveTo(origin.Add(dx, dy), size)
			require.NoError(t, err, fmt.Sprintf("dx=%d dy=%d", dx, dy))

			require.Len(t, moved.References, len(f.References))
			for i, ref := range f.References {
				want, _ := ref.shifted(dx, dy)
				assert.Equal(t, want, moved.References[i])
			}
			_, reparsed, err := ParseRaw(moved.Raw, size)
			require.NoError(t, err)
			assert.Equal(t, moved.References, reparsed)
		}
	}
}

func TestMoveToOutOfRange(t *testing.T) {
	size := address.Size{Width: 3, Height: 10}

	f, err := Parse("A0+1", pos(1, 1), size)
	require.NoError(t, err)
	_, err = f.MoveTo(pos(0, 1), size)
	assert.True(t, errors.Is(err, ErrReferenceOutOfRange), "got %v", err)

	f, err = Parse("sum(C)", pos(0, 0), size)
	require.NoError(t, err)
	_, err = f.MoveTo(pos(1, 0), size)
	assert.True(t, errors.Is(err, ErrReferenceOutOfRange), "got %v", err)

	f, err = Parse("C4 * 2", pos(0, 0), size)
	require.NoError(t, err)
	_, err = f.MoveTo(pos(1, 0), size)
	assert.True(t, errors.Is(err, ErrReferenceOutOfRange), "got %v", err)
}

func TestMoveToKeepsBrokenFormula(t *testing.T) {
	size := address.Size{Width: 3, Height: 3}
	f, err := Parse("sum(A0:)", pos(0, 0), size)
	require.Error(t, err)

	moved, err := f.MoveTo(pos(1, 1), size)
	require.NoError(t, err)
	assert.Equal(t, "sum(A0:)", moved.Raw)
	assert.Equal(t, pos(1, 1), moved.Position)
	assert.True(t, moved.Broken())
}

func TestParseRawOversizedColumns(t *testing.T) {
	size := address.Size{Width: 5, Height: 5}

	parsed, refs, err := ParseRaw("ZZZZZZZZZZZZZZZ0:A1", size)
	require.NoError(t, err)
	assert.Equal(t, "ZZZZZZZZZZZZZZZ0:A1", parsed)
	assert.Equal(t, []Reference{CellRef(pos(0, 1))}, refs)

	parsed, refs, err = ParseRaw("sum(ZZZZZZZZZZZZZZZ)", size)
	require.NoError(t, err)
	assert.Equal(t, "sum(ZZZZZZZZZZZZZZZ)", parsed)
	assert.Empty(t, refs)

	for _, raw := range []string{"A0:ZZZZZZZZZZZZZZ1", "sum(A0:Z1)", "F0:3"} {
		_, _, err := ParseRaw(raw, size)
		assert.True(t, errors.Is(err, ErrMalformedRange), "%s: got %v", raw, err)
	}
}

func TestAppendReparses(t *testing.T) {
	size := address.Size{Width: 5, Height: 5}
	f := New(pos(4, 4))
	require.NoError(t, f.Append('A', size))
	assert.Equal(t, []Reference{ColumnRef(0)}, f.References)
	require.NoError(t, f.Append('0', size))
	assert.Equal(t, []Reference{CellRef(pos(0, 0))}, f.References)

	err := f.Append(':', size)
	assert.True(t, errors.Is(err, ErrMalformedRange), "got %v", err)
	assert.True(t, f.Broken())
	assert.Empty(t, f.References)

	err = f.Append('B', size)
	assert.True(t, errors.Is(err, ErrMalformedRange), "got %v", err)

	require.NoError(t, f.Append('1', size))
	assert.Equal(t, "A0:B1", f.Raw)
	assert.Equal(t, "A[0:2] + B[0:2]", f.Parsed)
	assert.Equal(t, []Reference{CellRef(pos(0, 0)), CellRef(pos(1, 1))}, f.References)
}

func TestEvaluate(t *testing.T) {
	bindings := NewBindings()
	bindings.Cells["A0"] = NumberValue(2)

	f, err := Parse("A0*3", pos(1, 0), address.Size{Width: 2, Height: 1})
	require.NoError(t, err)

	f.Evaluate(EvaluatorFunc(func(expression string, b Bindings) (Value, error) {
		assert.Equal(t, "A0*3", expression)
		return NumberValue(b.Cells["A0"].Number * 3), nil
	}), bindings)
	assert.Equal(t, NumberValue(6), f.Value)
	assert.True(t, f.IsRightAligned())
	assert.Equal(t, "6", f.Display())
	assert.Equal(t, "=A0*3", f.LongDisplay())

	f.Evaluate(EvaluatorFunc(func(string, Bindings) (Value, error) {
		return Value{}, errors.New("boom")
	}), bindings)
	assert.True(t, f.IsError())
	assert.Equal(t, ErrorDisplay, f.Display())

	empty := New(pos(0, 0))
	empty.Evaluate(nil, bindings)
	assert.Equal(t, Value{}, empty.Value)
}
