package idgen

import (
	"math"
	"testing"

	"github.com/abdoElHodaky/tradSys/internal/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecutionIDContext_GeneratesSequencePerParent(t *testing.T) {
	ctx := NewExecutionIDContext(types.VenueOrderID("250304093001000000"))

	first, err := ctx.Next()
	require.NoError(t, err)
	assert.Equal(t, "250304093001000000-1", first)

	second, err := ctx.Next()
	require.NoError(t, err)
	assert.Equal(t, "250304093001000000-2", second)
}

func TestExecutionIDContext_BecomesUnusableAfterExhaustion(t *testing.T) {
	ctx := NewExecutionIDContext(types.VenueOrderID("x"))
	ctx.counter = math.MaxUint64

	_, err := ctx.Next()
	assert.ErrorIs(t, err, ErrCollisionDetected)

	_, err = ctx.Next()
	assert.ErrorIs(t, err, ErrCollisionDetected)
}
