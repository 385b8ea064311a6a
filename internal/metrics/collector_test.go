package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCollector_RecordTradeIncrementsCounter(t *testing.T) {
	c := New()
	c.RecordTrade("XNYS.AAPL")
	c.RecordTrade("XNYS.AAPL")

	assert.Equal(t, float64(2), testutil.ToFloat64(c.trades.WithLabelValues("XNYS.AAPL")))
}

func TestCollector_RecordRejectIsLabeledByReason(t *testing.T) {
	c := New()
	c.RecordReject("OrderPlacementRequest", "TradingNotAccepting")

	assert.Equal(t, float64(1), testutil.ToFloat64(c.rejects.WithLabelValues("OrderPlacementRequest", "TradingNotAccepting")))
	assert.Equal(t, float64(0), testutil.ToFloat64(c.rejects.WithLabelValues("OrderPlacementRequest", "OtherReason")))
}

func TestCollector_RecordGeneratorExhaustion(t *testing.T) {
	c := New()
	c.RecordGeneratorExhaustion("execution_id")

	assert.Equal(t, float64(1), testutil.ToFloat64(c.generatorExhaustion.WithLabelValues("execution_id")))
}

func TestCollector_ObserveMatchLatencyRecordsSample(t *testing.T) {
	c := New()
	c.ObserveMatchLatency("XNYS.AAPL", 5*time.Millisecond)

	count := testutil.CollectAndCount(c.matchLatency)
	assert.Equal(t, 1, count)
}

func TestCollector_NilCollectorIsNoOp(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.RecordTrade("x")
		c.RecordReject("x", "y")
		c.RecordGeneratorExhaustion("x")
		c.ObserveMatchLatency("x", time.Millisecond)
	})
}
