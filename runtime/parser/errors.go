// Package parser builds a forest of command.Command from a preprocessed
// Grid using indentation (the column of each row's leading non-empty
// cell) for nesting, with ELSE binding to the nearest open IF. Grounded on
// original_source/src/engine/parser.py's GridParser.parse.
package parser

import (
	"fmt"

	"github.com/tinkerblocks/core/core/types"
)

// ErrorKind discriminates the fatal parse failure taxonomy of spec.md §7.
type ErrorKind int

const (
	UnknownCommand ErrorKind = iota
	BadArguments
	OrphanElse
	Invariant
)

func (k ErrorKind) String() string {
	switch k {
	case UnknownCommand:
		return "UnknownCommand"
	case BadArguments:
		return "BadArguments"
	case OrphanElse:
		return "OrphanElse"
	case Invariant:
		return "Invariant"
	default:
		return "Unknown"
	}
}

// Error is the fatal ParseError kind of spec.md §7: always carries the
// offending grid position when one is available.
type Error struct {
	Kind       ErrorKind
	Position   types.GridPosition
	Token      string
	Message    string
	Suggestion string // populated only for UnknownCommand, via fuzzy match
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s at %s: %s", e.Kind, e.Position, e.Message)
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", e.Suggestion)
	}
	return msg
}
