package idgen

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOrderIDContext_ComposesTimestampAndCounter(t *testing.T) {
	fixed := time.Date(2025, time.March, 4, 9, 30, 1, 0, time.UTC)
	ctx := NewOrderIDContext(func() time.Time { return fixed })

	id := ctx.Next()

	assert.Equal(t, "250304093001000000", string(id))
}

func TestOrderIDContext_CounterIncrementsWithinSameSecond(t *testing.T) {
	fixed := time.Date(2025, time.March, 4, 9, 30, 1, 0, time.UTC)
	ctx := NewOrderIDContext(func() time.Time { return fixed })

	first := ctx.Next()
	second := ctx.Next()

	assert.Equal(t, "250304093001000000", string(first))
	assert.Equal(t, "250304093001000001", string(second))
}

func TestOrderIDContext_CounterResetsOnNewSecond(t *testing.T) {
	tick := time.Date(2025, time.March, 4, 9, 30, 1, 0, time.UTC)
	advanced := false
	ctx := NewOrderIDContext(func() time.Time {
		if advanced {
			return tick.Add(time.Second)
		}
		return tick
	})

	_ = ctx.Next()
	advanced = true
	second := ctx.Next()

	assert.Equal(t, "250304093002000000", string(second))
}

func TestOrderIDContext_CounterWrapsPastMax(t *testing.T) {
	fixed := time.Date(2025, time.March, 4, 9, 30, 1, 0, time.UTC)
	ctx := NewOrderIDContext(func() time.Time { return fixed })
	ctx.lastTick = formatTimestampComponent(fixed)
	ctx.counter = 999999

	wrapped := ctx.Next()

	assert.Equal(t, "250304093001000000", string(wrapped))
}
