package idgen

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMarketEntryIDContext_GeneratesSeedAndCounter(t *testing.T) {
	fixed := time.Unix(1700000000, 0)
	ctx := NewMarketEntryIDContext(func() time.Time { return fixed })

	first := ctx.Next()
	second := ctx.Next()

	assert.Equal(t, "1700000000:1", first)
	assert.Equal(t, "1700000000:2", second)
}

func TestMarketEntryIDContext_RerollsSeedOnOverflow(t *testing.T) {
	fixed := time.Unix(1700000000, 0)
	ctx := NewMarketEntryIDContext(func() time.Time { return fixed })
	ctx.counter = math.MaxUint64

	id := ctx.Next()

	assert.Equal(t, fmt.Sprintf("%d:1", fixed.Unix()), id)
}
