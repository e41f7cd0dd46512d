// Package metrics provides types.MetricsCollector implementations.
package metrics

import "github.com/entur/gibil-sub000/types"

// NopMetrics implements a no-op metrics collector.
//
// All metrics are discarded. Useful for tests or when external metrics
// collection is not wanted.
type NopMetrics struct{}

// Compile-time assertion that NopMetrics implements MetricsCollector.
var _ types.MetricsCollector = (*NopMetrics)(nil)

// NewNop creates a new no-op metrics collector.
func NewNop() *NopMetrics {
	return &NopMetrics{}
}

// RecordFeedFetch discards the fetch metric.
func (n *NopMetrics) RecordFeedFetch(_ /* airportCode */ string, _ /* success */ bool, _ /* seconds */ float64) {
	// No-op
}

// RecordCycle discards the cycle metric.
func (n *NopMetrics) RecordCycle(_ /* seconds */ float64, _ /* stitched */, _ /* admitted */, _ /* changed */ int) {
	// No-op
}

// RecordCycleFailure discards the cycle failure counter.
func (n *NopMetrics) RecordCycleFailure() {
	// No-op
}

// RecordPush discards the push metric.
func (n *NopMetrics) RecordPush(_ /* subscriptionID */ string, _ /* success */ bool) {
	// No-op
}

// RecordHeartbeat discards the heartbeat metric.
func (n *NopMetrics) RecordHeartbeat(_ /* subscriptionID */ string, _ /* success */ bool) {
	// No-op
}

// RecordEviction discards the eviction counter.
func (n *NopMetrics) RecordEviction(_ /* subscriptionID */ string) {
	// No-op
}

// SetActiveSubscriptions discards the active subscription gauge.
func (n *NopMetrics) SetActiveSubscriptions(_ /* n */ int) {
	// No-op
}
