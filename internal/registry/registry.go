package registry

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/puzpuzpuz/xsync/v4"

	"github.com/entur/gibil-sub000/types"
)

// Common errors for registry operations.
var (
	// ErrDuplicateSubscription is returned when a subscription ID is
	// already registered.
	ErrDuplicateSubscription = errors.New("subscription already registered")

	// ErrRegistryClosed is returned when adding to a closed registry.
	ErrRegistryClosed = errors.New("registry closed")
)

// Config holds the registry's failure and delivery settings.
type Config struct {
	// FailureThreshold is the shared failure count at which a subscriber
	// is evicted on its next heartbeat tick.
	FailureThreshold int32

	// PostTimeout bounds each outbound POST (push and heartbeat alike).
	PostTimeout time.Duration
}

// Registry holds active subscribers and drives delivery to them.
//
// Subscriber state machine: Active (receiving pushes and heartbeats) →
// Evicted (terminal, entry removed, timer cancelled). There is no
// intermediate state and no resurrection; a subscriber that wants back in
// must resubscribe.
type Registry struct {
	cfg     Config
	poster  types.Poster
	encoder types.Encoder
	logger  types.Logger
	metrics types.MetricsCollector

	subs   *xsync.Map[string, *entry]
	closed atomic.Bool
	wg     sync.WaitGroup

	// lifecycleMu serializes Add against Close so a registration cannot
	// slip between Close marking the registry closed and draining the
	// active set, which would leak its heartbeat goroutine.
	lifecycleMu sync.Mutex
}

// entry pairs an immutable subscription with its registry-owned mutable
// state: the shared failure counter and the heartbeat stop handle.
type entry struct {
	sub      types.Subscription
	failures atomic.Int32
	stopCh   chan struct{}
	stopOnce sync.Once
}

// stop cancels the entry's heartbeat loop. Idempotent.
func (e *entry) stop() {
	e.stopOnce.Do(func() { close(e.stopCh) })
}

// New creates a registry.
//
// Parameters:
//   - cfg: Failure threshold and POST timeout
//   - poster: Outbound HTTP boundary
//   - encoder: Protocol encoder, used for heartbeat notifications
//   - logger: Structured logger
//   - metrics: Metrics collector
func New(cfg Config, poster types.Poster, encoder types.Encoder, logger types.Logger, metrics types.MetricsCollector) *Registry {
	return &Registry{
		cfg:     cfg,
		poster:  poster,
		encoder: encoder,
		logger:  logger,
		metrics: metrics,
		subs:    xsync.NewMap[string, *entry](),
	}
}

// Add inserts the subscription into the active set and starts its dedicated
// heartbeat timer.
//
// The initial full-snapshot delivery is the caller's concern: it needs the
// current global flight state, which the registry does not hold.
//
// Returns:
//   - error: ErrDuplicateSubscription or ErrRegistryClosed
func (r *Registry) Add(sub types.Subscription) error {
	r.lifecycleMu.Lock()
	defer r.lifecycleMu.Unlock()

	if r.closed.Load() {
		return ErrRegistryClosed
	}

	e := &entry{sub: sub, stopCh: make(chan struct{})}
	if _, loaded := r.subs.LoadOrStore(sub.ID, e); loaded {
		return ErrDuplicateSubscription
	}

	r.metrics.SetActiveSubscriptions(r.subs.Size())
	r.logger.Info("subscription registered",
		"subscriptionId", sub.ID,
		"callback", sub.CallbackAddress,
		"heartbeatInterval", sub.HeartbeatInterval,
	)

	r.wg.Add(1)
	go r.heartbeatLoop(e)

	return nil
}

// Terminate removes the subscriber, cancels its heartbeat timer, and clears
// its failure counter. Terminating an already-terminated subscription is a
// no-op.
//
// Returns:
//   - bool: true if the subscription was active
func (r *Registry) Terminate(id string) bool {
	e, ok := r.subs.LoadAndDelete(id)
	if !ok {
		return false
	}

	e.stop()
	e.failures.Store(0)
	r.metrics.SetActiveSubscriptions(r.subs.Size())
	r.logger.Info("subscription terminated", "subscriptionId", id)

	return true
}

// Push attempts delivery of the encoded document to every active subscriber
// whose registered data type matches.
//
// Each subscriber's attempt is isolated: a failure increments that
// subscriber's counter and is logged, but never affects other subscribers
// and never reaches the caller. No retry is scheduled; the next change or
// heartbeat tick is the next delivery opportunity.
func (r *Registry) Push(ctx context.Context, doc types.Document) {
	r.subs.Range(func(id string, e *entry) bool {
		if e.sub.DataType != doc.Type {
			return true
		}

		ok := r.deliver(ctx, e, doc.Body)
		r.metrics.RecordPush(id, ok)
		if !ok {
			failures := e.failures.Add(1)
			r.logger.Warn("push delivery failed",
				"subscriptionId", id,
				"failureCount", failures,
			)
		}

		return true
	})
}

// Deliver posts an encoded document to one specific active subscriber.
// Used for the initial full-snapshot delivery after subscribe; failures
// count toward eviction like any other delivery failure.
//
// Returns:
//   - bool: true if the subscriber accepted the document
func (r *Registry) Deliver(ctx context.Context, id string, doc types.Document) bool {
	e, found := r.subs.Load(id)
	if !found {
		return false
	}

	ok := r.deliver(ctx, e, doc.Body)
	r.metrics.RecordPush(id, ok)
	if !ok {
		e.failures.Add(1)
	}

	return ok
}

// Len returns the number of active subscriptions.
func (r *Registry) Len() int {
	return r.subs.Size()
}

// Get returns the subscription with the given ID, if active.
func (r *Registry) Get(id string) (types.Subscription, bool) {
	e, ok := r.subs.Load(id)
	if !ok {
		return types.Subscription{}, false
	}

	return e.sub, true
}

// Close terminates every subscription and waits for all heartbeat
// goroutines to exit. The registry accepts no further additions.
func (r *Registry) Close() {
	r.lifecycleMu.Lock()
	r.closed.Store(true)

	r.subs.Range(func(id string, _ *entry) bool {
		r.Terminate(id)
		return true
	})
	r.lifecycleMu.Unlock()

	r.wg.Wait()
}

// deliver performs one bounded POST and classifies the outcome.
func (r *Registry) deliver(ctx context.Context, e *entry, body []byte) bool {
	postCtx := ctx
	if r.cfg.PostTimeout > 0 {
		var cancel context.CancelFunc
		postCtx, cancel = context.WithTimeout(ctx, r.cfg.PostTimeout)
		defer cancel()
	}

	status, err := r.poster.Post(postCtx, e.sub.CallbackAddress, body)
	if err != nil {
		return false
	}

	return status >= 200 && status < 300
}
