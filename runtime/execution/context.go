// Package execution implements ExecutionContext: the mutable state owned by
// one program run — position, heading, variables, pen, path, and the step
// budget — plus the hardware-facing operations commands call into.
// Grounded on original_source/src/engine/context.py.
package execution

import (
	"fmt"

	"github.com/tinkerblocks/core/core/types"
	"github.com/tinkerblocks/core/hardware"
	"github.com/tinkerblocks/core/internal/config"
)

// Context is created per workflow run, lives only for the duration of
// Executor.Execute, and is discarded on return. Commands mutate it through
// the methods below; nothing else touches it concurrently (spec.md §5).
type Context struct {
	Position types.Position
	Heading  types.Direction

	Variables map[string]any // Number (float64) or Boolean; names upper-cased

	PenDown bool
	Path    []types.Position

	StepsExecuted uint64
	MaxSteps      uint64

	Hardware hardware.Interface
	Sink     types.Sink

	cfg config.Config
}

// New constructs a fresh Context at the origin, facing FORWARD, pen up,
// with an empty variable set and path.
func New(hw hardware.Interface, sink types.Sink, cfg config.Config) *Context {
	maxSteps := cfg.MaxSteps
	if maxSteps == 0 {
		maxSteps = config.Default().MaxSteps
	}
	return &Context{
		Heading:   types.Forward,
		Variables: make(map[string]any),
		Hardware:  hw,
		Sink:      sink,
		MaxSteps:  maxSteps,
		cfg:       cfg,
	}
}

func (c *Context) log(text string, level types.LogLevel) {
	if c.Sink != nil {
		c.Sink(text, level)
	}
}

// scale converts a logical distance to real-world centimeters using the
// configured logical-to-real scale factor (default 10cm per unit).
func (c *Context) scale() float64 {
	if c.cfg.ScaleCmPerUnit == 0 {
		return config.Default().ScaleCmPerUnit
	}
	return c.cfg.ScaleCmPerUnit
}

func (c *Context) obstacleThreshold() float64 {
	if c.cfg.ObstacleThresholdCm == 0 {
		return config.Default().ObstacleThresholdCm
	}
	return c.cfg.ObstacleThresholdCm
}

// Move advances the car by distance logical units along the current
// heading. A hardware failure is logged as a warning and never aborts the
// run — position tracking and path recording always proceed regardless of
// hardware success (spec.md §4.5).
func (c *Context) Move(distance float64) {
	if c.Hardware != nil {
		if ok := c.Hardware.MoveDistance(distance * c.scale()); !ok {
			c.log(fmt.Sprintf("hardware move failed for distance %gcm", distance*c.scale()), types.Warning)
		}
	}

	dx, dy := c.Heading.Vector()
	next := types.Position{X: c.Position.X + dx*distance, Y: c.Position.Y + dy*distance}

	if c.PenDown {
		c.Path = append(c.Path, c.Position, next)
	}

	c.Position = next
	c.StepsExecuted++
}

// Turn rotates the car by degrees (right positive, left negative),
// snapping the resulting heading to the nearest cardinal direction per the
// band table in spec.md §4.5.
func (c *Context) Turn(degrees float64) {
	if c.Hardware != nil {
		if ok := c.Hardware.RotateDegrees(degrees); !ok {
			c.log(fmt.Sprintf("hardware rotate failed for %g degrees", degrees), types.Warning)
		}
	}

	current := headingDegrees(c.Heading)
	normalized := normalizeDegrees(degrees)
	next := normalizeDegrees(current + normalized)
	c.Heading = snapToCardinal(next)
	c.StepsExecuted++
}

// headingDegrees maps a cardinal heading onto the 0/90/180/270 scale used
// for turn arithmetic.
func headingDegrees(d types.Direction) float64 {
	switch d {
	case types.Forward:
		return 0
	case types.Right:
		return 90
	case types.Backward:
		return 180
	case types.Left:
		return 270
	default:
		return 0
	}
}

// normalizeDegrees reduces degrees modulo 360 into [0, 360).
func normalizeDegrees(degrees float64) float64 {
	d := degrees
	for d < 0 {
		d += 360
	}
	for d >= 360 {
		d -= 360
	}
	return d
}

// snapToCardinal snaps a [0, 360) angle to its nearest cardinal direction
// using the band table from spec.md §4.5:
// [315,360)∪[0,45) FORWARD, [45,135) RIGHT, [135,225) BACKWARD, [225,315) LEFT.
func snapToCardinal(degrees float64) types.Direction {
	switch {
	case degrees >= 315 || degrees < 45:
		return types.Forward
	case degrees < 135:
		return types.Right
	case degrees < 225:
		return types.Backward
	default:
		return types.Left
	}
}

// SetVariable stores value (a float64 or bool) under the upper-cased name.
func (c *Context) SetVariable(name string, value any) {
	c.Variables[normalizeVarName(name)] = value
	c.StepsExecuted++
}

// GetVariable returns a variable's value, defaulting to 0.0 if unset.
// Satisfies values.EvalContext.
func (c *Context) GetVariable(name string) any {
	if v, ok := c.Variables[normalizeVarName(name)]; ok {
		return v
	}
	return float64(0)
}

func normalizeVarName(name string) string {
	out := make([]byte, len(name))
	for i := 0; i < len(name); i++ {
		ch := name[i]
		if ch >= 'a' && ch <= 'z' {
			ch -= 'a' - 'A'
		}
		out[i] = ch
	}
	return string(out)
}

// GetSensorValue reads one of the four hardware probes. Satisfies
// values.EvalContext.
func (c *Context) GetSensorValue(kind types.SensorKind) (any, error) {
	if c.Hardware == nil {
		return nil, fmt.Errorf("no hardware interface configured")
	}

	switch kind {
	case types.Distance:
		return c.Hardware.GetDistanceCm(), nil
	case types.Obstacle:
		return c.Hardware.IsObstacleDetected(c.obstacleThreshold()), nil
	case types.BlackDetected:
		return c.Hardware.IsBlackDetected(), nil
	case types.BlackLost:
		return !c.Hardware.IsBlackDetected(), nil
	default:
		return nil, fmt.Errorf("unknown sensor kind: %v", kind)
	}
}

// IncrementSteps bumps the step counter, failing once it exceeds MaxSteps.
// The +1 tolerance in spec.md §8's property ("steps_executed <= N+1")
// belongs to this exact check: the step that crosses the budget is the one
// that fails, so MaxSteps+1 is observable for an instant before the error
// unwinds.
func (c *Context) IncrementSteps() error {
	c.StepsExecuted++
	if c.StepsExecuted > c.MaxSteps {
		return fmt.Errorf("maximum steps (%d) exceeded", c.MaxSteps)
	}
	return nil
}

// SetPen raises or lowers the pen: instructs hardware (failure only logs a
// warning), updates PenDown, and on lowering appends the current position
// to Path if it isn't already the last recorded point.
func (c *Context) SetPen(down bool) {
	if c.Hardware != nil {
		if ok := c.Hardware.SetPenDown(down); !ok {
			c.log("hardware pen control failed", types.Warning)
		}
	}

	c.PenDown = down
	c.StepsExecuted++

	if down && (len(c.Path) == 0 || c.Path[len(c.Path)-1] != c.Position) {
		c.Path = append(c.Path, c.Position)
	}
}

// ControlBuzzer forwards buzzer control to hardware, logging a warning on
// failure, and increments the step counter.
func (c *Context) ControlBuzzer(state string) {
	if c.Hardware != nil {
		if ok := c.Hardware.ControlBuzzer(state); !ok {
			c.log("hardware buzzer control failed", types.Warning)
		}
	}
	c.StepsExecuted++
}

// State is the immutable snapshot returned in a WorkflowResult.
type State struct {
	Position      types.Position
	Heading       types.Direction
	Variables     map[string]any
	PenDown       bool
	Path          []types.Position
	StepsExecuted uint64
}

// Snapshot captures the current state by value.
func (c *Context) Snapshot() State {
	vars := make(map[string]any, len(c.Variables))
	for k, v := range c.Variables {
		vars[k] = v
	}
	return State{
		Position:      c.Position,
		Heading:       c.Heading,
		Variables:     vars,
		PenDown:       c.PenDown,
		Path:          append([]types.Position(nil), c.Path...),
		StepsExecuted: c.StepsExecuted,
	}
}
