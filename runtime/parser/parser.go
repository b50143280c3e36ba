package parser

import (
	"strings"

	"github.com/tinkerblocks/core/core/types"
	"github.com/tinkerblocks/core/runtime/command"
	"github.com/tinkerblocks/core/runtime/grid"
)

// frame is one open control-flow scope: the indentation column it was
// opened at, and the command itself.
type frame struct {
	indent int
	cmd    command.Command
}

// GridParser produces the top-level command forest from a preprocessed
// grid, per spec.md §4.3's eight-step row algorithm.
type GridParser struct {
	registry *command.Registry
}

// New builds a GridParser resolving command names against registry.
func New(registry *command.Registry) *GridParser {
	return &GridParser{registry: registry}
}

// Parse runs the indentation-stack algorithm over g (already
// alias-preprocessed) and returns the top-level commands, or the first
// fatal Error encountered.
func (p *GridParser) Parse(g grid.Grid) ([]command.Command, error) {
	var top []command.Command
	var stack []frame

	inElse := false
	var elseTarget *command.If

	for rowIdx, row := range g {
		firstCol := leadingNonEmptyCol(row)
		if firstCol == -1 {
			continue // empty row
		}

		token := strings.ToUpper(strings.TrimSpace(row[firstCol]))
		isElseRow := token == "ELSE"

		// Pop frames at or above this indentation, except: don't pop an
		// IF frame at exactly firstCol when the current row is ELSE —
		// that ELSE must bind to it (step 3).
		for len(stack) > 0 && stack[len(stack)-1].indent >= firstCol {
			top1 := stack[len(stack)-1]
			if isElseRow && top1.indent == firstCol {
				if _, ok := top1.cmd.(*command.If); ok {
					break
				}
			}

			popped := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if _, ok := popped.cmd.(*command.Else); ok {
				inElse = false
				elseTarget = nil
			}
		}

		pos := types.GridPosition{Row: rowIdx, Col: firstCol}
		args := collectArgs(p.registry, row, firstCol)

		cmd, err := p.registry.Create(token, args, pos)
		if err != nil {
			if !p.registry.Has(token) {
				return nil, &Error{
					Kind:       UnknownCommand,
					Position:   pos,
					Token:      token,
					Message:    err.Error(),
					Suggestion: p.registry.Suggest(token),
				}
			}
			return nil, &Error{Kind: BadArguments, Position: pos, Token: token, Message: err.Error()}
		}

		if elseCmd, ok := cmd.(*command.Else); ok {
			target := findNearestIf(stack)
			if target == nil {
				return nil, &Error{Kind: OrphanElse, Position: pos, Token: token, Message: "ELSE without matching IF"}
			}
			elseTarget = target
			inElse = true
			stack = append(stack, frame{indent: firstCol, cmd: elseCmd})
			continue
		}

		attachCommand(&top, stack, inElse, elseTarget, firstCol, cmd)

		stack = append(stack, frame{indent: firstCol, cmd: cmd})
	}

	return top, nil
}

// leadingNonEmptyCol returns the column of the first non-blank cell in
// row, or -1 if the row is entirely blank.
func leadingNonEmptyCol(row []string) int {
	for i, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return i
		}
	}
	return -1
}

// collectArgs reads subsequent non-empty cells in the row as argument
// tokens, stopping at the first token that is itself a registered command
// name (ELSE never stops collection — it isn't a stand-alone command in
// argument position).
func collectArgs(registry *command.Registry, row []string, firstCol int) []string {
	var args []string
	for i := firstCol + 1; i < len(row); i++ {
		cell := strings.TrimSpace(row[i])
		if cell == "" {
			continue
		}
		upper := strings.ToUpper(cell)
		if upper != "ELSE" && registry.Has(upper) {
			break
		}
		args = append(args, cell)
	}
	return args
}

// findNearestIf walks the stack downward (innermost first) for the
// nearest open *command.If frame.
func findNearestIf(stack []frame) *command.If {
	for i := len(stack) - 1; i >= 0; i-- {
		if ifCmd, ok := stack[i].cmd.(*command.If); ok {
			return ifCmd
		}
	}
	return nil
}

// attachCommand implements step 7: attach the new command to the topmost
// frame's nested list if it's more indented than that frame, else to the
// active ELSE scope's IF.else list if one is open, else to the top-level
// output list.
func attachCommand(top *[]command.Command, stack []frame, inElse bool, elseTarget *command.If, col int, cmd command.Command) {
	if len(stack) > 0 && col > stack[len(stack)-1].indent {
		parent := stack[len(stack)-1].cmd
		if _, isElseMarker := parent.(*command.Else); isElseMarker {
			if inElse && elseTarget != nil {
				elseTarget.AddElse(cmd)
			}
			return
		}
		parent.AddNested(cmd)
		return
	}

	if inElse && elseTarget != nil && len(stack) > 0 {
		elseTarget.AddElse(cmd)
		return
	}

	*top = append(*top, cmd)
}
