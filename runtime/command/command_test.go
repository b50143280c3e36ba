package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinkerblocks/core/core/types"
)

func TestRegistry_RegisterAndCreate(t *testing.T) {
	r := NewRegistry()
	r.Register(func() Command { return &AlertOn{} }, "ALERT_ON", "BUZZ")

	assert.True(t, r.Has("alert_on"))
	assert.True(t, r.Has("BUZZ"))
	assert.False(t, r.Has("UNKNOWN"))

	cmd, err := r.Create("BUZZ", nil, types.GridPosition{Row: 1, Col: 2})
	require.NoError(t, err)
	assert.Equal(t, types.GridPosition{Row: 1, Col: 2}, cmd.GridPosition())
}

func TestRegistry_CreateUnknownErrors(t *testing.T) {
	r := NewRegistry()
	_, err := r.Create("NOPE", nil, types.GridPosition{})
	assert.Error(t, err)
}

func TestRegistry_RegisterCollisionPanics(t *testing.T) {
	r := NewRegistry()
	r.Register(func() Command { return &AlertOn{} }, "ALERT_ON")
	assert.Panics(t, func() {
		r.Register(func() Command { return &AlertOff{} }, "ALERT_ON")
	})
}

func TestRegistry_Suggest(t *testing.T) {
	r := NewDefaultRegistry()
	assert.Equal(t, "MOVE", r.Suggest("MOOVE"))
	assert.Equal(t, "", r.Suggest("COMPLETELYUNRELATEDWORD"))
}

func TestNewDefaultRegistry_HasAllCommandNames(t *testing.T) {
	r := NewDefaultRegistry()
	for _, name := range []string{
		"MOVE", "TURN", "LOOP", "REPEAT", "FOR", "WHILE", "IF", "ELSE",
		"SET", "ASSIGN", "LET", "PEN_UP", "PEN_DOWN", "WAIT", "PAUSE",
		"ALERT_ON", "ALERT_OFF",
	} {
		assert.True(t, r.Has(name), "expected %s to be registered", name)
	}
}

func TestBase_NestedAndPosition(t *testing.T) {
	var b Base
	b.SetGridPosition(types.GridPosition{Row: 3, Col: 4})
	assert.Equal(t, types.GridPosition{Row: 3, Col: 4}, b.GridPosition())

	assert.Empty(t, b.Nested())
	b.AddNested(&AlertOn{})
	assert.Len(t, b.Nested(), 1)
}
