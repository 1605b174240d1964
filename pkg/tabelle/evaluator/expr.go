// Package evaluator provides the default expression evaluator for formulas,
// backed by github.com/expr-lang/expr.
package evaluator

import (
	"errors"
	"fmt"
	"math"

	"github.com/expr-lang/expr"

	"github.com/ukaji3/tabelle-go/pkg/tabelle/formula"
)

// ErrUnsupportedResult indicates an expression that evaluated to something
// other than a string or a number, e.g. a list or a boolean.
var ErrUnsupportedResult = errors.New("unsupported result")

// Expr evaluates formula expressions with expr. Cell bindings become
// variables, column bindings become lists that can be sliced ("A[0:3]") and
// aggregated ("sum(A)"). Names that are not bound evaluate to nil.
type Expr struct {
	options []expr.Option
}

// New returns an Expr with the aggregate and math functions registered.
func New() *Expr {
	return &Expr{
		options: []expr.Option{
			expr.AllowUndefinedVariables(),
			expr.DisableAllBuiltins(),
			sumFunction,
			maxFunction,
			minFunction,
			avgFunction,
			lenFunction,
			absFunction,
			floorFunction,
			ceilFunction,
			roundFunction,
			concatFunction,
			expr.Operator("+", "concat"),
		},
	}
}

// Evaluate compiles expression against bindings and runs it.
func (e *Expr) Evaluate(expression string, bindings formula.Bindings) (formula.Value, error) {
	env := environment(bindings)
	options := append([]expr.Option{expr.Env(env)}, e.options...)

	program, err := expr.Compile(expression, options...)
	if err != nil {
		return formula.ErrorValue(), fmt.Errorf("compile %q: %w", expression, err)
	}
	out, err := expr.Run(program, env)
	if err != nil {
		return formula.ErrorValue(), fmt.Errorf("run %q: %w", expression, err)
	}
	return toValue(out)
}

func environment(bindings formula.Bindings) map[string]any {
	env := make(map[string]any, len(bindings.Cells)+len(bindings.Columns))
	for name, column := range bindings.Columns {
		list := make([]any, 0, len(column))
		for _, v := range column {
			if s, ok := scalar(v); ok {
				list = append(list, s)
			}
		}
		env[name] = list
	}
	for name, v := range bindings.Cells {
		if s, ok := scalar(v); ok {
			env[name] = s
		}
	}
	return env
}

func scalar(v formula.Value) (any, bool) {
	switch v.Kind {
	case formula.ValueString:
		return v.String, true
	case formula.ValueNumber:
		return int(v.Number), true
	case formula.ValueFloat:
		return v.Float, true
	}
	return nil, false
}

func toValue(out any) (formula.Value, error) {
	switch v := out.(type) {
	case string:
		return formula.StringValue(v), nil
	case int:
		return formula.NumberValue(int64(v)), nil
	case int8:
		return formula.NumberValue(int64(v)), nil
	case int16:
		return formula.NumberValue(int64(v)), nil
	case int32:
		return formula.NumberValue(int64(v)), nil
	case int64:
		return formula.NumberValue(v), nil
	case uint:
		if uint64(v) > math.MaxInt64 {
			break
		}
		return formula.NumberValue(int64(v)), nil
	case uint8:
		return formula.NumberValue(int64(v)), nil
	case uint16:
		return formula.NumberValue(int64(v)), nil
	case uint32:
		return formula.NumberValue(int64(v)), nil
	case uint64:
		if v > math.MaxInt64 {
			break
		}
		return formula.NumberValue(int64(v)), nil
	case float32:
		return formula.FloatValue(float64(v)), nil
	case float64:
		return formula.FloatValue(v), nil
	}
	return formula.ErrorValue(), fmt.Errorf("%w: %T", ErrUnsupportedResult, out)
}
