package command

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tinkerblocks/core/core/types"
	"github.com/tinkerblocks/core/runtime/execution"
	"github.com/tinkerblocks/core/runtime/values"
)

// stepDelay is the cooperative-yield pause used by the WHILE-modifier
// stepping loops on Move and Turn, matching the 10ms
// asyncio.sleep(0.01) in original_source/src/engine/commands/movement.py.
const stepDelay = 10 * time.Millisecond

// Move implements MOVE: moves the car distance logical units along the
// current heading, or steps one unit at a time along the current heading
// while a WHILE condition holds. Grounded on
// original_source/src/engine/commands/movement.py's MoveCommand.
type Move struct {
	Base
	Distance      values.Value
	WhileCondition values.Value
}

// ParseArgs accepts: no tokens (default distance, spec.md's 999 "until
// external stop" sentinel), "WHILE <condition>", or a distance value/
// expression.
func (m *Move) ParseArgs(tokens []string) error {
	if len(tokens) == 0 {
		m.Distance = values.Number(999)
		return nil
	}

	if strings.EqualFold(tokens[0], "WHILE") {
		if len(tokens) < 2 {
			return fmt.Errorf("WHILE requires a condition")
		}
		cond, ok := values.ParseExpression(tokens[1:])
		if !ok {
			return fmt.Errorf("invalid condition: %s", strings.Join(tokens[1:], " "))
		}
		m.WhileCondition = cond
		return nil
	}

	dist, ok := values.ParseExpression(tokens)
	if !ok {
		return fmt.Errorf("invalid distance value: %s", strings.Join(tokens, " "))
	}
	m.Distance = dist
	return nil
}

func (m *Move) Execute(ctx context.Context, ec *execution.Context) error {
	if m.WhileCondition != nil {
		const step = 1.0
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			result, err := m.WhileCondition.Evaluate(ec)
			if err != nil {
				return err
			}
			if !values.Truthy(result) {
				return nil
			}

			ec.Move(step)

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(stepDelay):
			}

			if ec.StepsExecuted > ec.MaxSteps {
				return fmt.Errorf("maximum steps exceeded")
			}
		}
	}

	if m.Distance == nil {
		return fmt.Errorf("MOVE command has neither distance nor WHILE condition")
	}

	result, err := m.Distance.Evaluate(ec)
	if err != nil {
		return err
	}
	distance, err := values.ToNumber(result)
	if err != nil {
		return fmt.Errorf("distance must be a number: %w", err)
	}

	ec.Move(distance)
	return nil
}

// Turn implements TURN: rotates by signed degrees, by LEFT/RIGHT (±90), by
// a direction plus explicit magnitude, or steps 5° at a time while a WHILE
// condition holds. Grounded on the same source file's TurnCommand.
type Turn struct {
	Base
	Degrees        values.Value
	WhileCondition values.Value
}

func (t *Turn) ParseArgs(tokens []string) error {
	if len(tokens) == 0 {
		return fmt.Errorf("TURN requires direction (LEFT or RIGHT) or degrees")
	}

	if v, ok := values.ParseValue(tokens[0]); ok {
		if _, isNumber := v.(values.Number); isNumber {
			t.Degrees = v
			return nil
		}
	}

	direction := strings.ToUpper(tokens[0])
	if direction != "LEFT" && direction != "RIGHT" {
		// Fall back to treating the whole argument list as a general
		// expression (e.g. a variable or arithmetic result used as
		// degrees), per spec.md §4.4's "expression" TURN argument form.
		if expr, ok := values.ParseExpression(tokens); ok {
			t.Degrees = expr
			return nil
		}
		return fmt.Errorf("TURN requires LEFT, RIGHT, or degrees, got: %s", tokens[0])
	}

	if len(tokens) == 1 {
		t.Degrees = directionDefault(direction)
		return nil
	}

	if strings.EqualFold(tokens[1], "WHILE") {
		if len(tokens) < 3 {
			return fmt.Errorf("WHILE requires a condition")
		}
		cond, ok := values.ParseExpression(tokens[2:])
		if !ok {
			return fmt.Errorf("invalid condition: %s", strings.Join(tokens[2:], " "))
		}
		t.Degrees = directionDefault(direction)
		t.WhileCondition = cond
		return nil
	}

	magnitude, ok := values.ParseValue(tokens[1])
	if !ok {
		return fmt.Errorf("invalid degrees value: %s", tokens[1])
	}
	num, isNumber := magnitude.(values.Number)
	if !isNumber {
		return fmt.Errorf("invalid degrees value: %s", tokens[1])
	}
	signed := float64(num)
	if signed < 0 {
		signed = -signed
	}
	if direction == "LEFT" {
		signed = -signed
	}
	t.Degrees = values.Number(signed)
	return nil
}

// directionDefault resolves a bare "LEFT"/"RIGHT" token to the
// values.Value that evaluates to its signed degrees.
func directionDefault(direction string) values.Value {
	dir, _ := types.DirectionFromString(direction)
	return values.DirectionValue(dir)
}

func (t *Turn) Execute(ctx context.Context, ec *execution.Context) error {
	if t.Degrees == nil {
		return fmt.Errorf("TURN command has no direction")
	}

	if t.WhileCondition != nil {
		result, err := t.Degrees.Evaluate(ec)
		if err != nil {
			return err
		}
		degrees, err := resolveTurnDegrees(result)
		if err != nil {
			return err
		}
		step := 5.0
		if degrees < 0 {
			step = -5.0
		}

		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			condResult, err := t.WhileCondition.Evaluate(ec)
			if err != nil {
				return err
			}
			if !values.Truthy(condResult) {
				return nil
			}

			ec.Turn(step)

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(stepDelay):
			}

			if ec.StepsExecuted > ec.MaxSteps {
				return fmt.Errorf("maximum steps exceeded")
			}
		}
	}

	result, err := t.Degrees.Evaluate(ec)
	if err != nil {
		return err
	}
	degrees, err := resolveTurnDegrees(result)
	if err != nil {
		return fmt.Errorf("invalid turn degrees: %w", err)
	}
	ec.Turn(degrees)
	return nil
}

// resolveTurnDegrees accepts either a number or the bare strings
// "LEFT"/"RIGHT" (as an expression might still evaluate to, per spec.md
// §4.4's "Expression result must be numeric or the strings LEFT/RIGHT").
func resolveTurnDegrees(v any) (float64, error) {
	if s, ok := v.(string); ok {
		switch strings.ToUpper(s) {
		case "LEFT":
			return -90, nil
		case "RIGHT":
			return 90, nil
		default:
			return 0, fmt.Errorf("expected numeric degrees or LEFT/RIGHT, got %q", s)
		}
	}
	return values.ToNumber(v)
}
