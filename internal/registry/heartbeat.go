package registry

import (
	"context"
	"time"
)

// heartbeatLoop is the background goroutine owned 1:1 by a subscriber.
// It runs until the entry is stopped, either by termination or eviction.
func (r *Registry) heartbeatLoop(e *entry) {
	defer r.wg.Done()

	ticker := time.NewTicker(e.sub.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-e.stopCh:
			return
		case <-ticker.C:
			r.heartbeatTick(e)
		}
	}
}

// heartbeatTick performs one liveness evaluation for a subscriber.
//
// The failure threshold is checked before any network I/O: a subscriber
// already over the threshold is evicted immediately. The counter is shared
// with push-failure accounting, so either kind of failure can trip
// eviction, but eviction is only evaluated here, never the instant a push
// failure crosses the threshold.
func (r *Registry) heartbeatTick(e *entry) {
	failures := e.failures.Load()
	if failures >= r.cfg.FailureThreshold {
		r.logger.Warn("evicting subscription after repeated failures",
			"subscriptionId", e.sub.ID,
			"failureCount", failures,
			"threshold", r.cfg.FailureThreshold,
		)
		r.metrics.RecordEviction(e.sub.ID)
		r.Terminate(e.sub.ID)

		return
	}

	doc, err := r.encoder.EncodeHeartbeat(e.sub.RequestorRef, time.Now())
	if err != nil {
		e.failures.Add(1)
		r.metrics.RecordHeartbeat(e.sub.ID, false)
		r.logger.Error("heartbeat encoding failed",
			"subscriptionId", e.sub.ID,
			"error", err,
		)

		return
	}

	ok := r.deliver(context.Background(), e, doc.Body)
	r.metrics.RecordHeartbeat(e.sub.ID, ok)
	if !ok {
		failures := e.failures.Add(1)
		r.logger.Warn("heartbeat delivery failed",
			"subscriptionId", e.sub.ID,
			"failureCount", failures,
		)
	}
}
