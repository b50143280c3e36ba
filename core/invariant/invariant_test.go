package invariant

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrecondition_PassesSilently(t *testing.T) {
	assert.NotPanics(t, func() {
		Precondition(true, "unreachable")
	})
}

func TestPrecondition_PanicsWithFormattedMessage(t *testing.T) {
	assert.PanicsWithValue(t, "PRECONDITION VIOLATION: count must be positive, got -1", func() {
		Precondition(false, "count must be positive, got %d", -1)
	})
}

func TestInvariant_Panics(t *testing.T) {
	assert.Panics(t, func() {
		Invariant(1 == 2, "math broke")
	})
}

func TestNotNil_PanicsOnNil(t *testing.T) {
	assert.Panics(t, func() {
		NotNil(nil, "registry")
	})
}

func TestNotNil_PassesOnValue(t *testing.T) {
	assert.NotPanics(t, func() {
		NotNil("x", "registry")
	})
}
