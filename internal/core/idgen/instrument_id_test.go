package idgen

import (
	"math"
	"testing"

	"github.com/abdoElHodaky/tradSys/internal/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstrumentIDContext_GeneratesIncreasingIdentifiers(t *testing.T) {
	ctx := NewInstrumentIDContext()

	first, err := ctx.Next()
	require.NoError(t, err)
	assert.Equal(t, types.InstrumentID(1), first)

	second, err := ctx.Next()
	require.NoError(t, err)
	assert.Equal(t, types.InstrumentID(2), second)
}

func TestInstrumentIDContext_ResetReturnsToOne(t *testing.T) {
	ctx := NewInstrumentIDContext()
	_, _ = ctx.Next()
	_, _ = ctx.Next()

	ctx.Reset()

	id, err := ctx.Next()
	require.NoError(t, err)
	assert.Equal(t, types.InstrumentID(1), id)
}

func TestInstrumentIDContext_ExhaustionDetected(t *testing.T) {
	ctx := &InstrumentIDContext{counter: math.MaxUint64}

	_, err := ctx.Next()

	assert.ErrorIs(t, err, ErrCollisionDetected)
}
