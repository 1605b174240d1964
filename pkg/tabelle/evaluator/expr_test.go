package evaluator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukaji3/tabelle-go/pkg/tabelle/formula"
)

func testBindings() formula.Bindings {
	b := formula.NewBindings()
	for name, v := range map[string]formula.Value{
		"A0": formula.NumberValue(21),
		"A1": formula.NumberValue(4),
		"A2": formula.FloatValue(0.5),
		"B0": formula.StringValue("hi"),
		"B1": formula.NumberValue(10),
	} {
		b.Cells[name] = v
	}
	b.Cells["a0"] = b.Cells["A0"]
	b.Columns["A"] = []formula.Value{formula.NumberValue(21), formula.NumberValue(4), formula.FloatValue(0.5)}
	b.Columns["B"] = []formula.Value{formula.NumberValue(10), formula.NumberValue(20)}
	b.Columns["C"] = []formula.Value{}
	return b
}

func TestExprEvaluate(t *testing.T) {
	tests := []struct {
		name       string
		expression string
		want       formula.Value
	}{
		{"constant", "1+2", formula.NumberValue(3)},
		{"cell", "A0 * 2", formula.NumberValue(42)},
		{"lower case cell", "a0 + 0.5", formula.FloatValue(21.5)},
		{"division is float", "A0 / 2", formula.FloatValue(10.5)},
		{"string", `B0 + "!"`, formula.StringValue("hi!")},
		{"column sum", "sum(B)", formula.NumberValue(30)},
		{"empty column sum", "sum(C)", formula.NumberValue(0)},
		{"row slice", "sum(A[0:2])", formula.NumberValue(25)},
		{"slice past end", "sum(B[1:10])", formula.NumberValue(20)},
		{"cell range", "sum(A[0:2] + B[0:2])", formula.NumberValue(55)},
		{"max", "max(A1, B1, 3)", formula.NumberValue(10)},
		{"min over column", "min(A)", formula.FloatValue(0.5)},
		{"avg", "avg(B)", formula.FloatValue(15)},
		{"len", "len(A)", formula.NumberValue(3)},
		{"abs", "abs(-3)", formula.NumberValue(3)},
	}

	ev := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ev.Evaluate(tt.expression, testBindings())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExprEvaluateFailures(t *testing.T) {
	tests := []struct {
		name       string
		expression string
	}{
		{"syntax", "1 +"},
		{"unbound name", "nothing + 1"},
		{"boolean result", "A0 > 1"},
		{"list result", "A[0:2]"},
		{"max of nothing", "max(C)"},
	}

	ev := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ev.Evaluate(tt.expression, testBindings())
			assert.Error(t, err)
			assert.Equal(t, formula.ErrorValue(), got)
		})
	}

	_, err := ev.Evaluate("A0 > 1", testBindings())
	assert.True(t, errors.Is(err, ErrUnsupportedResult), "got %v", err)
}

func TestFormulaWithExpr(t *testing.T) {
	f := &formula.Formula{Raw: "A0+1", Parsed: "A0+1"}
	f.Evaluate(New(), testBindings())
	assert.Equal(t, formula.NumberValue(22), f.Value)

	f = &formula.Formula{Raw: "B0*B0", Parsed: "B0*B0"}
	f.Evaluate(New(), testBindings())
	assert.True(t, f.IsError())
}
