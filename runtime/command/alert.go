package command

import (
	"context"
	"fmt"

	"github.com/tinkerblocks/core/runtime/execution"
)

// AlertOn implements ALERT_ON: forwards buzzer control to hardware.
// Grounded on original_source/src/engine/commands/alert.py's
// AlertOnCommand.
type AlertOn struct{ Base }

func (a *AlertOn) ParseArgs(tokens []string) error {
	if len(tokens) != 0 {
		return fmt.Errorf("ALERT_ON takes no arguments")
	}
	return nil
}

func (a *AlertOn) Execute(ctx context.Context, ec *execution.Context) error {
	ec.ControlBuzzer("on")
	return nil
}

// AlertOff implements ALERT_OFF. Grounded on the same source file's
// AlertOffCommand.
type AlertOff struct{ Base }

func (a *AlertOff) ParseArgs(tokens []string) error {
	if len(tokens) != 0 {
		return fmt.Errorf("ALERT_OFF takes no arguments")
	}
	return nil
}

func (a *AlertOff) Execute(ctx context.Context, ec *execution.Context) error {
	ec.ControlBuzzer("off")
	return nil
}
