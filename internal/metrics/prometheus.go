package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/entur/gibil-sub000/types"
)

// PrometheusCollector implements types.MetricsCollector backed by Prometheus.
type PrometheusCollector struct {
	reg       prometheus.Registerer
	namespace string
	once      sync.Once

	fetchTotal    *prometheus.CounterVec
	fetchDuration prometheus.Histogram

	cycleDuration prometheus.Histogram
	cycleFlights  *prometheus.GaugeVec
	cycleFailures prometheus.Counter

	pushTotal      *prometheus.CounterVec
	heartbeatTotal *prometheus.CounterVec
	evictions      prometheus.Counter
	activeSubs     prometheus.Gauge
}

// Compile-time assertion that PrometheusCollector implements MetricsCollector.
var _ types.MetricsCollector = (*PrometheusCollector)(nil)

// NewPrometheus creates a new Prometheus-backed metrics collector.
//
// Parameters:
//   - reg: Prometheus registerer (uses prometheus.DefaultRegisterer if nil)
//   - namespace: Metrics namespace (defaults to "gibil" if empty)
//
// Returns:
//   - *PrometheusCollector: A MetricsCollector implementation using Prometheus
func NewPrometheus(reg prometheus.Registerer, namespace string) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "gibil"
	}

	return &PrometheusCollector{reg: reg, namespace: namespace}
}

func (p *PrometheusCollector) ensureRegistered() {
	p.once.Do(func() {
		p.fetchTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "feed",
			Name:      "fetches_total",
			Help:      "Per-airport feed fetch attempts by result.",
		}, []string{"airport", "result"})

		p.fetchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "feed",
			Name:      "fetch_duration_seconds",
			Help:      "Feed fetch durations in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		})

		p.cycleDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "cycle",
			Name:      "duration_seconds",
			Help:      "Poll cycle durations in seconds.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60},
		})

		p.cycleFlights = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "cycle",
			Name:      "flights",
			Help:      "Journeys per poll cycle by pipeline stage.",
		}, []string{"stage"})

		p.cycleFailures = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "cycle",
			Name:      "failures_total",
			Help:      "Poll cycles abandoned by the top-level recovery handler.",
		})

		p.pushTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "delivery",
			Name:      "pushes_total",
			Help:      "Per-subscriber push attempts by result.",
		}, []string{"result"})

		p.heartbeatTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "delivery",
			Name:      "heartbeats_total",
			Help:      "Per-subscriber heartbeat attempts by result.",
		}, []string{"result"})

		p.evictions = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "delivery",
			Name:      "evictions_total",
			Help:      "Subscribers evicted after repeated failures.",
		})

		p.activeSubs = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "delivery",
			Name:      "active_subscriptions",
			Help:      "Currently active subscriptions.",
		})

		collectors := []prometheus.Collector{
			p.fetchTotal, p.fetchDuration,
			p.cycleDuration, p.cycleFlights, p.cycleFailures,
			p.pushTotal, p.heartbeatTotal, p.evictions, p.activeSubs,
		}
		for _, c := range collectors {
			// AlreadyRegisteredError is tolerated so multiple collectors
			// can share a registry in tests.
			if err := p.reg.Register(c); err != nil {
				if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
					panic(err)
				}
			}
		}
	})
}

func resultLabel(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}

// RecordFeedFetch records one per-airport fetch attempt.
func (p *PrometheusCollector) RecordFeedFetch(airportCode string, success bool, seconds float64) {
	p.ensureRegistered()
	p.fetchTotal.WithLabelValues(airportCode, resultLabel(success)).Inc()
	p.fetchDuration.Observe(seconds)
}

// RecordCycle records one completed poll cycle.
func (p *PrometheusCollector) RecordCycle(seconds float64, stitched, admitted, changed int) {
	p.ensureRegistered()
	p.cycleDuration.Observe(seconds)
	p.cycleFlights.WithLabelValues("stitched").Set(float64(stitched))
	p.cycleFlights.WithLabelValues("admitted").Set(float64(admitted))
	p.cycleFlights.WithLabelValues("changed").Set(float64(changed))
}

// RecordCycleFailure records an abandoned poll cycle.
func (p *PrometheusCollector) RecordCycleFailure() {
	p.ensureRegistered()
	p.cycleFailures.Inc()
}

// RecordPush records one per-subscriber delivery attempt.
func (p *PrometheusCollector) RecordPush(_ string, success bool) {
	p.ensureRegistered()
	p.pushTotal.WithLabelValues(resultLabel(success)).Inc()
}

// RecordHeartbeat records one per-subscriber heartbeat attempt.
func (p *PrometheusCollector) RecordHeartbeat(_ string, success bool) {
	p.ensureRegistered()
	p.heartbeatTotal.WithLabelValues(resultLabel(success)).Inc()
}

// RecordEviction records a subscriber eviction.
func (p *PrometheusCollector) RecordEviction(_ string) {
	p.ensureRegistered()
	p.evictions.Inc()
}

// SetActiveSubscriptions reports the current number of active subscribers.
func (p *PrometheusCollector) SetActiveSubscriptions(n int) {
	p.ensureRegistered()
	p.activeSubs.Set(float64(n))
}
