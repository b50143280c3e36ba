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

func TestAlertOn_CallsBuzzer(t *testing.T) {
	mock := hardware.NewMock()
	ec := execution.New(mock, noopSink, config.Default())

	a := &AlertOn{}
	require.NoError(t, a.ParseArgs(nil))
	require.NoError(t, a.Execute(context.Background(), ec))
	assert.Equal(t, []string{"on"}, mock.BuzzerCalls())
}

func TestAlertOff_CallsBuzzer(t *testing.T) {
	mock := hardware.NewMock()
	ec := execution.New(mock, noopSink, config.Default())

	a := &AlertOff{}
	require.NoError(t, a.ParseArgs(nil))
	require.NoError(t, a.Execute(context.Background(), ec))
	assert.Equal(t, []string{"off"}, mock.BuzzerCalls())
}
