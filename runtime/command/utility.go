package command

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tinkerblocks/core/runtime/execution"
	"github.com/tinkerblocks/core/runtime/values"
)

// waitPollInterval is the 100ms polling granularity of WAIT's
// WHILE-condition variant. A fixed-time WAIT sleeps on a single timer that
// ctx cancellation interrupts at any moment.
const waitPollInterval = 100 * time.Millisecond

// Wait implements WAIT/PAUSE/SLEEP/DELAY: suspends for a fixed number of
// seconds, or loops checking a WHILE condition every waitPollInterval
// until it goes false. Grounded on
// original_source/src/engine/commands/utility.py's WaitCommand.
type Wait struct {
	Base
	Seconds        values.Value
	WhileCondition values.Value
}

func (w *Wait) ParseArgs(tokens []string) error {
	if len(tokens) == 0 {
		return fmt.Errorf("WAIT requires time in seconds or WHILE condition")
	}

	if strings.EqualFold(tokens[0], "WHILE") {
		if len(tokens) < 2 {
			return fmt.Errorf("WHILE requires a condition")
		}
		cond, ok := values.ParseExpression(tokens[1:])
		if !ok {
			return fmt.Errorf("invalid condition: %s", strings.Join(tokens[1:], " "))
		}
		w.WhileCondition = cond
		return nil
	}

	seconds, ok := values.ParseExpression(tokens)
	if !ok {
		return fmt.Errorf("invalid time value: %s", strings.Join(tokens, " "))
	}
	w.Seconds = seconds
	return nil
}

func (w *Wait) Execute(ctx context.Context, ec *execution.Context) error {
	if w.WhileCondition != nil {
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			result, err := w.WhileCondition.Evaluate(ec)
			if err != nil {
				return err
			}
			if !values.Truthy(result) {
				return nil
			}

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(waitPollInterval):
			}

			if err := ec.IncrementSteps(); err != nil {
				return err
			}
		}
	}

	if w.Seconds == nil {
		return fmt.Errorf("WAIT command has neither time nor WHILE condition")
	}

	result, err := w.Seconds.Evaluate(ec)
	if err != nil {
		return err
	}
	seconds, err := values.ToNumber(result)
	if err != nil {
		return fmt.Errorf("wait time must be a number: %w", err)
	}
	if seconds < 0 {
		return fmt.Errorf("wait time must not be negative, got %g", seconds)
	}

	deadline := time.Duration(seconds * float64(time.Second))
	timer := time.NewTimer(deadline)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
	}

	return ec.IncrementSteps()
}
