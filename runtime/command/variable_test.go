package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSet_StoresNumericResult(t *testing.T) {
	s := &Set{}
	require.NoError(t, s.ParseArgs([]string{"X", "2", "+", "3"}))
	ec := newTestContext()
	require.NoError(t, s.Execute(context.Background(), ec))
	assert.Equal(t, 5.0, ec.GetVariable("X"))
}

func TestSet_LowercasesNameUpperOnStore(t *testing.T) {
	s := &Set{}
	require.NoError(t, s.ParseArgs([]string{"total", "1"}))
	ec := newTestContext()
	require.NoError(t, s.Execute(context.Background(), ec))
	assert.Equal(t, 1.0, ec.GetVariable("TOTAL"))
}

func TestSet_CoercesStringToBoolean(t *testing.T) {
	assert.Equal(t, true, mustCoerce(t, "yes"))
	assert.Equal(t, true, mustCoerce(t, "TRUE"))
	assert.Equal(t, false, mustCoerce(t, "no"))
}

func mustCoerce(t *testing.T, s string) any {
	t.Helper()
	v, err := coerceStoredValue(s)
	require.NoError(t, err)
	return v
}

func TestSet_RequiresNameAndValue(t *testing.T) {
	s := &Set{}
	assert.Error(t, s.ParseArgs([]string{"ONLYNAME"}))
}
