package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinkerblocks/core/hardware"
	"github.com/tinkerblocks/core/internal/config"
	"github.com/tinkerblocks/core/runtime/execution"
)

func TestLoop_NumericCountRunsBodyNTimes(t *testing.T) {
	loop := &Loop{}
	require.NoError(t, loop.ParseArgs([]string{"3"}))

	move := &Move{}
	require.NoError(t, move.ParseArgs([]string{"1"}))
	loop.AddNested(move)

	ec := newTestContext()
	require.NoError(t, loop.Execute(context.Background(), ec))
	assert.Equal(t, 3.0, ec.Position.Y)
}

func TestLoop_FalseSkipsBody(t *testing.T) {
	loop := &Loop{}
	require.NoError(t, loop.ParseArgs([]string{"FALSE"}))

	move := &Move{}
	require.NoError(t, move.ParseArgs([]string{"1"}))
	loop.AddNested(move)

	ec := newTestContext()
	require.NoError(t, loop.Execute(context.Background(), ec))
	assert.Equal(t, 0.0, ec.Position.Y)
}

func TestLoop_TrueRunsUntilStepBudgetExceeded(t *testing.T) {
	loop := &Loop{}
	require.NoError(t, loop.ParseArgs([]string{"TRUE"}))

	move := &Move{}
	require.NoError(t, move.ParseArgs([]string{"1"}))
	loop.AddNested(move)

	ec := newTestContextWithBudget(3)
	err := loop.Execute(context.Background(), ec)
	assert.Error(t, err)
}

func TestWhile_ReevaluatesConditionEachIteration(t *testing.T) {
	w := &While{}
	require.NoError(t, w.ParseArgs([]string{"COUNT", "<", "3"}))

	set := &Set{}
	require.NoError(t, set.ParseArgs([]string{"COUNT", "COUNT", "+", "1"}))
	w.AddNested(set)

	ec := newTestContext()
	ec.SetVariable("COUNT", 0.0)

	require.NoError(t, w.Execute(context.Background(), ec))
	assert.Equal(t, 3.0, ec.GetVariable("COUNT"))
}

func TestIf_RunsThenBranchWhenTrue(t *testing.T) {
	ifCmd := &If{}
	require.NoError(t, ifCmd.ParseArgs([]string{"TRUE"}))
	move := &Move{}
	require.NoError(t, move.ParseArgs([]string{"1"}))
	ifCmd.AddNested(move)

	ec := newTestContext()
	require.NoError(t, ifCmd.Execute(context.Background(), ec))
	assert.Equal(t, 1.0, ec.Position.Y)
}

func TestIf_RunsElseBranchWhenFalse(t *testing.T) {
	ifCmd := &If{}
	require.NoError(t, ifCmd.ParseArgs([]string{"FALSE"}))
	then := &Move{}
	require.NoError(t, then.ParseArgs([]string{"1"}))
	ifCmd.AddNested(then)

	elseMove := &Move{}
	require.NoError(t, elseMove.ParseArgs([]string{"2"}))
	ifCmd.AddElse(elseMove)

	ec := newTestContext()
	require.NoError(t, ifCmd.Execute(context.Background(), ec))
	assert.Equal(t, 2.0, ec.Position.Y)
}

func TestElse_CannotBeExecutedDirectly(t *testing.T) {
	e := &Else{}
	require.NoError(t, e.ParseArgs(nil))
	ec := newTestContext()
	assert.Error(t, e.Execute(context.Background(), ec))
}

func TestExecuteAll_StopsAtFirstError(t *testing.T) {
	bad := &Turn{} // no args parsed, Degrees is nil -> Execute errors
	good := &Move{}
	require.NoError(t, good.ParseArgs([]string{"1"}))

	ec := newTestContext()
	err := ExecuteAll(context.Background(), ec, []Command{bad, good})
	assert.Error(t, err)
	assert.Equal(t, 0.0, ec.Position.Y, "the command after the failing one must not run")
}

func TestExecuteAll_RespectsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ec := newTestContext()
	move := &Move{}
	require.NoError(t, move.ParseArgs([]string{"1"}))

	err := ExecuteAll(ctx, ec, []Command{move})
	assert.ErrorIs(t, err, context.Canceled)
}

func newTestContextWithBudget(maxSteps uint64) *execution.Context {
	cfg := config.Default()
	cfg.MaxSteps = maxSteps
	return execution.New(hardware.NewMock(), noopSink, cfg)
}
