// Package values implements the expression/value model: numbers, booleans,
// variables, sensor probes, and directions, combined by the fixed operator
// set in spec.md §4.1. Grounded on
// original_source/src/engine/values/{base,types,expression}.py.
package values

import (
	"fmt"
	"strconv"

	"github.com/tinkerblocks/core/core/types"
)

// EvalContext is the narrow slice of ExecutionContext that value
// evaluation needs: variable lookup and sensor reads. Declared here (rather
// than imported from runtime/execution) so this package never depends on
// the execution package — execution.ExecutionContext satisfies this
// interface structurally.
type EvalContext interface {
	GetVariable(name string) any
	GetSensorValue(kind types.SensorKind) (any, error)
}

// Value is an expression node. Evaluate returns a float64, bool, or string
// — never an error-carrying sentinel; evaluation failures are real errors.
type Value interface {
	Evaluate(ctx EvalContext) (any, error)
	String() string
}

// ToNumber coerces an evaluated value to a float64 per spec.md §4.1's
// coercion rules: Number -> itself, Boolean -> 1/0, String -> parsed float
// or a conversion error.
func ToNumber(v any) (float64, error) {
	switch val := v.(type) {
	case float64:
		return val, nil
	case bool:
		if val {
			return 1, nil
		}
		return 0, nil
	case string:
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f, nil
		}
		return 0, fmt.Errorf("cannot convert %q to number", val)
	default:
		return 0, fmt.Errorf("cannot convert %T to number", v)
	}
}

// Truthy implements the non-zero-number / non-empty-string / true
// truthiness rule used by AND/OR.
func Truthy(v any) bool {
	switch val := v.(type) {
	case float64:
		return val != 0
	case bool:
		return val
	case string:
		return val != ""
	default:
		return false
	}
}
