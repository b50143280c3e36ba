package command

import (
	"context"
	"fmt"

	"github.com/tinkerblocks/core/runtime/execution"
)

// PenUp implements PEN_UP/PENUP/UP. Grounded on
// original_source/src/engine/commands/drawing.py's PenUpCommand.
type PenUp struct{ Base }

func (p *PenUp) ParseArgs(tokens []string) error {
	if len(tokens) != 0 {
		return fmt.Errorf("PEN_UP takes no arguments")
	}
	return nil
}

func (p *PenUp) Execute(ctx context.Context, ec *execution.Context) error {
	ec.SetPen(false)
	return nil
}

// PenDown implements PEN_DOWN/PENDOWN/DOWN. Grounded on the same source
// file's PenDownCommand.
type PenDown struct{ Base }

func (p *PenDown) ParseArgs(tokens []string) error {
	if len(tokens) != 0 {
		return fmt.Errorf("PEN_DOWN takes no arguments")
	}
	return nil
}

func (p *PenDown) Execute(ctx context.Context, ec *execution.Context) error {
	ec.SetPen(true)
	return nil
}
