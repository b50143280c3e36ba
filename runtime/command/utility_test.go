package command

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWait_FixedSecondsCompletes(t *testing.T) {
	w := &Wait{}
	require.NoError(t, w.ParseArgs([]string{"0.01"}))
	ec := newTestContext()

	start := time.Now()
	require.NoError(t, w.Execute(context.Background(), ec))
	assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)
	assert.Equal(t, uint64(1), ec.StepsExecuted)
}

func TestWait_NegativeSecondsErrors(t *testing.T) {
	w := &Wait{}
	require.NoError(t, w.ParseArgs([]string{"0", "-", "1"}))
	ec := newTestContext()
	assert.Error(t, w.Execute(context.Background(), ec))
}

func TestWait_CancelledDuringSleep(t *testing.T) {
	w := &Wait{}
	require.NoError(t, w.ParseArgs([]string{"10"}))
	ec := newTestContext()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()

	err := w.Execute(ctx, ec)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestWait_WhileKeepsPollingUntilCancelled(t *testing.T) {
	w := &Wait{}
	require.NoError(t, w.ParseArgs([]string{"WHILE", "READY", "=", "0"}))

	ec := newTestContext()
	ec.SetVariable("READY", 0.0)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := w.Execute(ctx, ec)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestWait_RequiresTimeOrCondition(t *testing.T) {
	w := &Wait{}
	assert.Error(t, w.ParseArgs(nil))
}
