package formula

// Bindings are the names an expression may use. Cells maps every cell name
// (upper and lower case) to its scalar value; Columns maps every column name
// (upper and lower case) to the scalar values of that column in row order.
type Bindings struct {
	Cells   map[string]Value
	Columns map[string][]Value
}

// NewBindings returns empty bindings.
func NewBindings() Bindings {
	return Bindings{
		Cells:   make(map[string]Value),
		Columns: make(map[string][]Value),
	}
}

// Evaluator executes a parsed expression against bindings.
type Evaluator interface {
	Evaluate(expression string, bindings Bindings) (Value, error)
}

// EvaluatorFunc adapts a function to the Evaluator interface.
type EvaluatorFunc func(expression string, bindings Bindings) (Value, error)

func (fn EvaluatorFunc) Evaluate(expression string, bindings Bindings) (Value, error) {
	return fn(expression, bindings)
}
