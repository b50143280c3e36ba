package values

import (
	"fmt"
	"strings"

	"github.com/tinkerblocks/core/core/types"
)

// Number is a literal numeric value; ints and floats are merged at this
// layer per spec.md §3.
type Number float64

func (n Number) Evaluate(EvalContext) (any, error) { return float64(n), nil }
func (n Number) String() string                     { return fmt.Sprintf("%g", float64(n)) }

// Boolean is a literal TRUE/FALSE value.
type Boolean bool

func (b Boolean) Evaluate(EvalContext) (any, error) { return bool(b), nil }
func (b Boolean) String() string {
	if b {
		return "TRUE"
	}
	return "FALSE"
}

// Variable looks up an uppercased identifier in the execution context,
// yielding 0 if unset.
type Variable string

func (v Variable) Evaluate(ctx EvalContext) (any, error) {
	return ctx.GetVariable(string(v)), nil
}
func (v Variable) String() string { return string(v) }

// NewVariable upper-cases the name per spec.md §3.
func NewVariable(name string) Variable {
	return Variable(strings.ToUpper(name))
}

// Sensor reads one of the four hardware probes through the context.
type Sensor types.SensorKind

func (s Sensor) Evaluate(ctx EvalContext) (any, error) {
	return ctx.GetSensorValue(types.SensorKind(s))
}
func (s Sensor) String() string { return types.SensorKind(s).String() }

// DirectionValue is a bare LEFT/RIGHT/FORWARD/BACKWARD token. For LEFT/RIGHT
// — the only directions meaningful as a TURN argument — Evaluate yields the
// signed degrees (-90/+90) directly, matching
// original_source/src/engine/values/types.py's DirectionValue.evaluate.
// FORWARD/BACKWARD evaluate to their lowercase name ("forward"/"backward",
// as types.Direction.String renders it) instead, since they carry no turn
// magnitude.
type DirectionValue types.Direction

func (d DirectionValue) Evaluate(EvalContext) (any, error) {
	switch types.Direction(d) {
	case types.Left:
		return -90.0, nil
	case types.Right:
		return 90.0, nil
	default:
		return types.Direction(d).String(), nil
	}
}
func (d DirectionValue) String() string { return strings.ToUpper(types.Direction(d).String()) }
