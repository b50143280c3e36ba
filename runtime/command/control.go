package command

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tinkerblocks/core/runtime/execution"
	"github.com/tinkerblocks/core/runtime/values"
)

// Loop implements LOOP/REPEAT/FOR: runs its nested body count times,
// where a boolean count means infinite (TRUE, bounded only by the step
// budget) or zero (FALSE). Grounded on
// original_source/src/engine/commands/control.py's LoopCommand.
type Loop struct {
	Base
	Count values.Value
}

func (l *Loop) ParseArgs(tokens []string) error {
	if len(tokens) == 0 {
		return fmt.Errorf("LOOP requires a count")
	}
	count, ok := values.ParseExpression(tokens)
	if !ok {
		return fmt.Errorf("invalid loop count: %s", strings.Join(tokens, " "))
	}
	l.Count = count
	return nil
}

func (l *Loop) Execute(ctx context.Context, ec *execution.Context) error {
	if l.Count == nil {
		return fmt.Errorf("LOOP command has no count")
	}

	result, err := l.Count.Evaluate(ec)
	if err != nil {
		return err
	}

	switch v := result.(type) {
	case bool:
		if !v {
			return nil
		}
		for {
			if err := executeAll(ctx, ec, l.Nested()); err != nil {
				return err
			}
			if err := yield(ctx); err != nil {
				return err
			}
			if ec.StepsExecuted > ec.MaxSteps {
				return fmt.Errorf("maximum steps exceeded")
			}
		}
	case float64:
		iterations := int(v)
		for i := 0; i < iterations; i++ {
			if err := executeAll(ctx, ec, l.Nested()); err != nil {
				return err
			}
			if err := yield(ctx); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("loop count must be a number or boolean, got %T", result)
	}
}

// While implements WHILE: re-evaluates condition before each iteration of
// its nested body. Grounded on the same source file's WhileCommand.
type While struct {
	Base
	Condition values.Value
}

func (w *While) ParseArgs(tokens []string) error {
	if len(tokens) == 0 {
		return fmt.Errorf("WHILE requires a condition")
	}
	cond, ok := values.ParseExpression(tokens)
	if !ok {
		return fmt.Errorf("invalid condition: %s", strings.Join(tokens, " "))
	}
	w.Condition = cond
	return nil
}

func (w *While) Execute(ctx context.Context, ec *execution.Context) error {
	if w.Condition == nil {
		return fmt.Errorf("WHILE command has no condition")
	}

	for {
		result, err := w.Condition.Evaluate(ec)
		if err != nil {
			return err
		}
		if !values.Truthy(result) {
			return nil
		}

		if err := executeAll(ctx, ec, w.Nested()); err != nil {
			return err
		}
		if err := yield(ctx); err != nil {
			return err
		}
		if ec.StepsExecuted > ec.MaxSteps {
			return fmt.Errorf("maximum steps exceeded")
		}
	}
}

// If implements IF/ELSE: runs Nested() on a true condition, Else on
// false. Grounded on the same source file's IfCommand.
type If struct {
	Base
	Condition values.Value
	ElseBody  []Command
}

func (i *If) ParseArgs(tokens []string) error {
	if len(tokens) == 0 {
		return fmt.Errorf("IF requires a condition")
	}
	cond, ok := values.ParseExpression(tokens)
	if !ok {
		return fmt.Errorf("invalid condition: %s", strings.Join(tokens, " "))
	}
	i.Condition = cond
	return nil
}

// AddElse appends a command to the ELSE branch; called by the grid parser
// when binding an ELSE row to this IF.
func (i *If) AddElse(c Command) {
	i.ElseBody = append(i.ElseBody, c)
}

func (i *If) Execute(ctx context.Context, ec *execution.Context) error {
	if i.Condition == nil {
		return fmt.Errorf("IF command has no condition")
	}

	result, err := i.Condition.Evaluate(ec)
	if err != nil {
		return err
	}

	if values.Truthy(result) {
		return executeAll(ctx, ec, i.Nested())
	}
	return executeAll(ctx, ec, i.ElseBody)
}

// Else is a parser-only marker: it must never survive into a built tree
// (invariant 2) and raises if somehow executed.
type Else struct {
	Base
}

func (e *Else) ParseArgs(tokens []string) error {
	if len(tokens) != 0 {
		return fmt.Errorf("ELSE takes no arguments")
	}
	return nil
}

func (e *Else) Execute(context.Context, *execution.Context) error {
	return fmt.Errorf("ELSE command should not be executed directly")
}

// ExecuteAll runs a top-level command forest in order, stopping at the
// first error. Exported for the workflow executor to drive the commands
// the parser produced.
func ExecuteAll(ctx context.Context, ec *execution.Context, body []Command) error {
	return executeAll(ctx, ec, body)
}

// executeAll runs each command in body in order, stopping at the first
// error (including cancellation).
func executeAll(ctx context.Context, ec *execution.Context, body []Command) error {
	for _, c := range body {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := c.Execute(ctx, ec); err != nil {
			return err
		}
	}
	return nil
}

// yield is the per-iteration cooperative suspension point spec.md §5 names
// for Loop/While ("explicit yield at the end of each Loop/While
// iteration"), mapped onto context cancellation instead of a polled flag.
func yield(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(0):
		return nil
	}
}
