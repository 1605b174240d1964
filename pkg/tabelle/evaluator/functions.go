package evaluator

import (
	"errors"
	"fmt"
	"math"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm/runtime"
)

var errEmptyArguments = errors.New("no values")

// flatten expands list arguments so sum(A), sum(A0, A1) and
// sum(A[0:2] + B[0:2]) all see plain scalars.
func flatten(args []any) []any {
	out := make([]any, 0, len(args))
	for _, arg := range args {
		if list, ok := arg.([]any); ok {
			out = append(out, flatten(list)...)
			continue
		}
		out = append(out, arg)
	}
	return out
}

var calculateSum = func(args ...any) (any, error) {
	values := flatten(args)
	if len(values) == 0 {
		return 0, nil
	}
	sum := values[0]
	for i := 1; i < len(values); i++ {
		sum = runtime.Add(sum, values[i])
	}
	return sum, nil
}

var calculateMax = func(args ...any) (any, error) {
	values := flatten(args)
	if len(values) == 0 {
		return nil, fmt.Errorf("max: %w", errEmptyArguments)
	}
	maxValue := values[0]
	for _, v := range values[1:] {
		if runtime.Less(maxValue, v) {
			maxValue = v
		}
	}
	return maxValue, nil
}

var calculateMin = func(args ...any) (any, error) {
	values := flatten(args)
	if len(values) == 0 {
		return nil, fmt.Errorf("min: %w", errEmptyArguments)
	}
	minValue := values[0]
	for _, v := range values[1:] {
		if runtime.More(minValue, v) {
			minValue = v
		}
	}
	return minValue, nil
}

var calculateAvg = func(args ...any) (any, error) {
	values := flatten(args)
	if len(values) == 0 {
		return nil, fmt.Errorf("avg: %w", errEmptyArguments)
	}
	sum, err := calculateSum(values...)
	if err != nil {
		return nil, err
	}
	return runtime.Divide(sum, len(values)), nil
}

var calculateLen = func(args ...any) (any, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("len: want 1 argument, got %d", len(args))
	}
	switch v := args[0].(type) {
	case []any:
		return len(v), nil
	case string:
		return len([]rune(v)), nil
	}
	return nil, fmt.Errorf("len: unsupported %T", args[0])
}

// unary wraps a float function so that it accepts any numeric argument.
func unary(name string, fn func(float64) float64) func(args ...any) (any, error) {
	return func(args ...any) (any, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("%s: want 1 argument, got %d", name, len(args))
		}
		switch v := args[0].(type) {
		case int:
			return int(fn(float64(v))), nil
		case float64:
			return fn(v), nil
		}
		return nil, fmt.Errorf("%s: unsupported %T", name, args[0])
	}
}

// concatLists backs "+" between two lists, which is how a cell range over
// several columns reaches the evaluator.
var concatLists = func(args ...any) (any, error) {
	a, _ := args[0].([]any)
	b, _ := args[1].([]any)
	out := make([]any, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...), nil
}

var (
	sumFunction    = expr.Function("sum", calculateSum)
	maxFunction    = expr.Function("max", calculateMax)
	minFunction    = expr.Function("min", calculateMin)
	avgFunction    = expr.Function("avg", calculateAvg)
	lenFunction    = expr.Function("len", calculateLen)
	absFunction    = expr.Function("abs", unary("abs", math.Abs))
	floorFunction  = expr.Function("floor", unary("floor", math.Floor))
	ceilFunction   = expr.Function("ceil", unary("ceil", math.Ceil))
	roundFunction  = expr.Function("round", unary("round", math.Round))
	concatFunction = expr.Function("concat", concatLists, new(func([]any, []any) []any))
)
