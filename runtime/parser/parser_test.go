package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinkerblocks/core/runtime/command"
	"github.com/tinkerblocks/core/runtime/grid"
)

func newParser() *GridParser {
	return New(command.NewDefaultRegistry())
}

func TestParse_FlatSequence(t *testing.T) {
	g := grid.Grid{
		{"MOVE", "1"},
		{"TURN", "RIGHT"},
	}
	commands, err := newParser().Parse(g)
	require.NoError(t, err)
	require.Len(t, commands, 2)
	assert.Empty(t, commands[0].Nested())
}

func TestParse_NestedLoopBody(t *testing.T) {
	g := grid.Grid{
		{"LOOP", "4"},
		{" ", "MOVE", "1"},
		{" ", "TURN", "RIGHT"},
	}
	commands, err := newParser().Parse(g)
	require.NoError(t, err)
	require.Len(t, commands, 1)
	assert.Len(t, commands[0].Nested(), 2)
}

func TestParse_IfElseBinding(t *testing.T) {
	g := grid.Grid{
		{"IF", "TRUE"},
		{" ", "MOVE", "1"},
		{"ELSE"},
		{" ", "MOVE", "2"},
	}
	commands, err := newParser().Parse(g)
	require.NoError(t, err)
	require.Len(t, commands, 1)

	ifCmd, ok := commands[0].(*command.If)
	require.True(t, ok)
	assert.Len(t, ifCmd.Nested(), 1)
	assert.Len(t, ifCmd.ElseBody, 1)
}

func TestParse_ExitingElseReturnsToTopLevel(t *testing.T) {
	g := grid.Grid{
		{"IF", "TRUE"},
		{" ", "MOVE", "1"},
		{"ELSE"},
		{" ", "MOVE", "2"},
		{"TURN", "RIGHT"},
	}
	commands, err := newParser().Parse(g)
	require.NoError(t, err)
	require.Len(t, commands, 2)
	_, isTurn := commands[1].(*command.Turn)
	assert.True(t, isTurn)
}

func TestParse_NestedIfInsideLoop(t *testing.T) {
	g := grid.Grid{
		{"LOOP", "2"},
		{" ", "IF", "TRUE"},
		{" ", " ", "MOVE", "1"},
		{" ", "TURN", "RIGHT"},
	}
	commands, err := newParser().Parse(g)
	require.NoError(t, err)
	require.Len(t, commands, 1)
	loopBody := commands[0].Nested()
	require.Len(t, loopBody, 2)
	ifCmd, ok := loopBody[0].(*command.If)
	require.True(t, ok)
	assert.Len(t, ifCmd.Nested(), 1)
}

func TestParse_OrphanElseIsFatal(t *testing.T) {
	g := grid.Grid{{"ELSE"}}
	_, err := newParser().Parse(g)
	require.Error(t, err)
	perr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, OrphanElse, perr.Kind)
}

func TestParse_UnknownCommandReportsPositionAndSuggestion(t *testing.T) {
	g := grid.Grid{{"MOOVE", "1"}}
	_, err := newParser().Parse(g)
	require.Error(t, err)
	perr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, UnknownCommand, perr.Kind)
	assert.Equal(t, "MOVE", perr.Suggestion)
}

func TestParse_BlankRowsAreSkipped(t *testing.T) {
	g := grid.Grid{
		{"MOVE", "1"},
		{"", ""},
		{"TURN", "RIGHT"},
	}
	commands, err := newParser().Parse(g)
	require.NoError(t, err)
	assert.Len(t, commands, 2)
}

func TestParse_EmptyGridYieldsNoCommands(t *testing.T) {
	commands, err := newParser().Parse(grid.Grid{})
	require.NoError(t, err)
	assert.Empty(t, commands)
}

func TestParse_BadArgumentsReported(t *testing.T) {
	g := grid.Grid{{"MOVE", "<", ">"}}
	_, err := newParser().Parse(g)
	require.Error(t, err)
	perr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, BadArguments, perr.Kind)
}
