// Package metrics collects Prometheus counters and histograms for the
// simulator core: trades, rejects, identifier-generator exhaustion and
// match latency.
//
// Grounded on internal/monitoring/metrics.go's MetricsCollector -
// promauto-registered vectors behind a struct, a RecordX method per
// domain event - narrowed to the events internal/core actually raises,
// and on internal/architecture/fx/workerpool's CircuitBreakerMetrics for
// the counter-by-label-then-Inc idiom used for reject reasons.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector is the simulator core's metrics sink. A nil *Collector is
// valid and every Record method becomes a no-op, so packages that accept
// an optional collector need no nil-check before calling it.
type Collector struct {
	trades              *prometheus.CounterVec
	rejects             *prometheus.CounterVec
	generatorExhaustion *prometheus.CounterVec
	matchLatency        *prometheus.HistogramVec
}

// New registers the collector's metrics against the default Prometheus
// registry via promauto, exactly as internal/monitoring/metrics.go does.
func New() *Collector {
	return &Collector{
		trades: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "simcore_trades_total",
				Help: "Total number of trades executed by the matching engine",
			},
			[]string{"instrument"},
		),
		rejects: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "simcore_rejects_total",
				Help: "Total number of requests rejected before or during matching",
			},
			[]string{"request_type", "reason"},
		),
		generatorExhaustion: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "simcore_generator_exhaustion_total",
				Help: "Total number of identifier-generator collisions (counter space exhausted)",
			},
			[]string{"generator"},
		),
		matchLatency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "simcore_match_latency_seconds",
				Help:    "Latency of a single aggressor-vs-book match pass",
				Buckets: prometheus.ExponentialBuckets(0.00001, 2, 12), // 10µs to ~40ms
			},
			[]string{"instrument"},
		),
	}
}

// RecordTrade increments the trade counter for instrument.
func (c *Collector) RecordTrade(instrument string) {
	if c == nil {
		return
	}
	c.trades.WithLabelValues(instrument).Inc()
}

// RecordReject increments the reject counter for a request type and
// reason (spec section 4.5's reject taxonomy).
func (c *Collector) RecordReject(requestType, reason string) {
	if c == nil {
		return
	}
	c.rejects.WithLabelValues(requestType, reason).Inc()
}

// RecordGeneratorExhaustion increments the exhaustion counter for the
// named generator (order, execution, market-entry or instrument ids).
func (c *Collector) RecordGeneratorExhaustion(generator string) {
	if c == nil {
		return
	}
	c.generatorExhaustion.WithLabelValues(generator).Inc()
}

// ObserveMatchLatency records how long a single match pass took for
// instrument.
func (c *Collector) ObserveMatchLatency(instrument string, d time.Duration) {
	if c == nil {
		return
	}
	c.matchLatency.WithLabelValues(instrument).Observe(d.Seconds())
}

// Since is a small helper for the common "time.Since(start)" call site,
// mirroring internal/monitoring/metrics.go's RecordOrderCreated(latency
// time.Duration) signature so callers pass a duration, not a start time.
func Since(start time.Time) time.Duration {
	return time.Since(start)
}
