package types

// MetricsCollector defines methods for recording operational metrics.
//
// Implementations must be non-blocking and safe for concurrent use; all
// methods are called from the poll-cycle goroutine and from per-subscriber
// heartbeat goroutines.
//
// The interface composes smaller, domain-focused interfaces so components
// only need to know about the metrics they emit.
type MetricsCollector interface {
	FeedMetrics
	CycleMetrics
	DeliveryMetrics
}

// FeedMetrics covers upstream feed retrieval.
type FeedMetrics interface {
	// RecordFeedFetch records one per-airport fetch attempt.
	//
	// Parameters:
	//   - airportCode: Airport whose feed was fetched
	//   - success: Whether the fetch produced a usable payload
	//   - seconds: Fetch duration in seconds
	RecordFeedFetch(airportCode string, success bool, seconds float64)
}

// CycleMetrics covers poll-cycle level outcomes.
type CycleMetrics interface {
	// RecordCycle records one completed poll cycle.
	//
	// Parameters:
	//   - seconds: Total cycle duration in seconds
	//   - stitched: Journeys reconstructed this cycle
	//   - admitted: Journeys inside the time window
	//   - changed: Journeys whose fingerprint changed
	RecordCycle(seconds float64, stitched, admitted, changed int)

	// RecordCycleFailure records a cycle abandoned by the top-level
	// recovery handler.
	RecordCycleFailure()
}

// DeliveryMetrics covers the subscriber-facing push path.
type DeliveryMetrics interface {
	// RecordPush records one per-subscriber delivery attempt.
	RecordPush(subscriptionID string, success bool)

	// RecordHeartbeat records one per-subscriber heartbeat attempt.
	RecordHeartbeat(subscriptionID string, success bool)

	// RecordEviction records the terminal removal of a subscriber after
	// repeated failures.
	RecordEviction(subscriptionID string)

	// SetActiveSubscriptions reports the current number of active
	// subscribers.
	SetActiveSubscriptions(n int)
}
