package gibil

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/entur/gibil-sub000/internal/changecache"
	"github.com/entur/gibil-sub000/internal/fetch"
	"github.com/entur/gibil-sub000/internal/logging"
	"github.com/entur/gibil-sub000/internal/metrics"
	"github.com/entur/gibil-sub000/internal/registry"
	"github.com/entur/gibil-sub000/internal/stitch"
	"github.com/entur/gibil-sub000/types"
)

// Service is the main entry point of the gibil library. It handles:
//   - Periodic polling of per-airport feeds with bounded fan-out
//   - Journey reconstruction and time-window admission
//   - Fingerprint-based change detection across cycles
//   - Push delivery to subscribers with per-subscriber heartbeats and
//     failure-driven eviction
//
// Thread Safety:
//   - All public methods are safe for concurrent use
//   - The change cache and the subscriber registry are the only state
//     shared between the poll-cycle goroutine and heartbeat goroutines
//
// Lifecycle:
//   - Create with New()
//   - Call Start() to begin the poll loop
//   - Subscribe/Unsubscribe at any time
//   - Call Stop() for graceful shutdown
type Service struct {
	cfg     Config
	feed    types.FeedSource
	encoder types.Encoder
	logger  types.Logger
	metrics types.MetricsCollector

	changePub types.ChangePublisher

	fetcher  *fetch.Fetcher
	stitcher *stitch.Stitcher
	window   stitch.Window
	cache    *changecache.Cache
	registry *registry.Registry

	idSeq atomic.Uint64

	ctx     context.Context
	cancel  context.CancelFunc
	stopped bool
	wg      sync.WaitGroup
	mu      sync.Mutex
}

// New creates a Service instance with the provided configuration.
//
// Returns a concrete *Service struct following the "accept interfaces,
// return structs" principle; consumers can define their own interfaces for
// testing if needed.
//
// Parameters:
//   - cfg: Runtime configuration; missing values are defaulted in place
//   - feed: Per-airport feed boundary (external feed parser)
//   - encoder: Wire protocol encoder (external protocol contract)
//   - poster: Outbound HTTP boundary (e.g. transport.NewHTTP())
//   - opts: Optional configuration (logger, metrics, change publisher)
//
// Returns:
//   - *Service: Initialized service instance
//   - error: Validation error if configuration is invalid
func New(cfg *Config, feed FeedSource, encoder Encoder, poster Poster, opts ...Option) (*Service, error) {
	if cfg == nil {
		return nil, ErrInvalidConfig
	}
	if feed == nil {
		return nil, ErrFeedSourceRequired
	}
	if encoder == nil {
		return nil, ErrEncoderRequired
	}
	if poster == nil {
		return nil, ErrPosterRequired
	}

	SetDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: timezone %q: %v", ErrInvalidConfig, cfg.Timezone, err)
	}

	options := &serviceOptions{}
	for _, opt := range opts {
		opt(options)
	}

	// Safe defaults for optional dependencies avoid nil checks everywhere.
	loggerInstance := options.logger
	if loggerInstance == nil {
		loggerInstance = logging.NewNop()
	}
	metricsCollector := options.metrics
	if metricsCollector == nil {
		metricsCollector = metrics.NewNop()
	}

	cfg.ValidateWithWarnings(loggerInstance)

	s := &Service{
		cfg:       *cfg,
		feed:      feed,
		encoder:   encoder,
		logger:    loggerInstance,
		metrics:   metricsCollector,
		changePub: options.changePub,
		fetcher: fetch.New(
			feed,
			cfg.Fetch.Concurrency,
			cfg.Fetch.Pacing,
			cfg.Fetch.Timeout,
			loggerInstance,
			metricsCollector,
		),
		stitcher: stitch.New(loc, cfg.ExtraScopeAirports, loggerInstance),
		window:   stitch.Window{Past: cfg.Window.Past, Future: cfg.Window.Future},
		cache:    changecache.New(),
	}
	s.registry = registry.New(
		registry.Config{
			FailureThreshold: int32(cfg.FailureThreshold),
			PostTimeout:      cfg.PostTimeout,
		},
		poster,
		encoder,
		loggerInstance,
		metricsCollector,
	)

	return s, nil
}

// Start launches the poll loop.
//
// The first cycle runs after the startup grace delay; subsequent cycles run
// on the fixed poll period. Cycles never overlap. The loop stops when the
// provided context is cancelled or Stop is called.
//
// Parameters:
//   - ctx: Parent context for the poll loop
//
// Returns:
//   - error: ErrAlreadyStarted if the service is running
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ctx != nil {
		return ErrAlreadyStarted
	}

	s.ctx, s.cancel = context.WithCancel(ctx)
	s.wg.Add(1)
	go s.pollLoop(s.ctx)

	s.logger.Info("service started",
		"airports", len(s.cfg.Airports),
		"pollInterval", s.cfg.PollInterval,
		"graceDelay", s.cfg.StartupGraceDelay,
	)

	return nil
}

// Stop gracefully shuts down the service: the poll loop exits, every
// subscription is terminated, and all heartbeat goroutines are joined.
//
// Parameters:
//   - ctx: Context bounding the wait for the poll loop to finish
//
// Returns:
//   - error: ErrNotStarted if the service is not running, or ctx.Err() on
//     shutdown timeout
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	if s.ctx == nil || s.stopped {
		s.mu.Unlock()

		return ErrNotStarted
	}
	s.stopped = true
	s.cancel()
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return fmt.Errorf("shutdown wait: %w", ctx.Err())
	}

	s.registry.Close()
	s.logger.Info("service stopped")

	return nil
}

// Subscribe registers a new push subscriber, starts its heartbeat timer,
// and immediately attempts one full-snapshot delivery of the current global
// flight state. A failed initial delivery is logged but keeps the
// subscription active; the next change or heartbeat retries contact.
//
// Parameters:
//   - ctx: Context for the snapshot fetch and delivery
//   - callbackAddress: URL receiving pushes and heartbeat notifications
//   - requestorRef: Subscriber-supplied participant reference
//   - heartbeatInterval: Liveness probe period; 0 uses the configured default
//
// Returns:
//   - string: Assigned subscription ID
//   - error: ErrInvalidCallback or a registration error
func (s *Service) Subscribe(ctx context.Context, callbackAddress, requestorRef string, heartbeatInterval time.Duration) (string, error) {
	if callbackAddress == "" {
		return "", ErrInvalidCallback
	}
	if heartbeatInterval <= 0 {
		heartbeatInterval = s.cfg.DefaultHeartbeatInterval
	}

	sub := types.Subscription{
		ID:                s.nextSubscriptionID(),
		CallbackAddress:   callbackAddress,
		RequestorRef:      requestorRef,
		HeartbeatInterval: heartbeatInterval,
		DataType:          types.DataTypeFlightStatus,
		RegisteredAt:      time.Now(),
	}

	if err := s.registry.Add(sub); err != nil {
		return "", fmt.Errorf("failed to register subscription: %w", err)
	}

	s.deliverInitialSnapshot(ctx, sub)

	return sub.ID, nil
}

// Unsubscribe terminates the subscription with the given ID.
//
// Returns:
//   - error: ErrSubscriptionNotFound when the ID is unknown or already evicted
func (s *Service) Unsubscribe(id string) error {
	if !s.registry.Terminate(id) {
		return ErrSubscriptionNotFound
	}

	return nil
}

// ActiveSubscriptions returns the number of currently active subscribers.
func (s *Service) ActiveSubscriptions() int {
	return s.registry.Len()
}

// pollLoop drives the fixed-period poll cycle.
func (s *Service) pollLoop(ctx context.Context) {
	defer s.wg.Done()

	// Grace delay before the first run avoids a fetch storm during
	// process warm-up.
	select {
	case <-time.After(s.cfg.StartupGraceDelay):
	case <-ctx.Done():
		return
	}

	s.runCycle(ctx)

	ticker := time.NewTicker(s.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runCycle(ctx)
		}
	}
}

// runCycle executes one fetch → stitch → filter → diff → encode → push pass.
//
// Ordering within a cycle: cache cleanup strictly precedes change
// detection, which strictly precedes encoding and push. An unexpected panic
// escaping the pipeline abandons this tick only; the next tick proceeds
// normally.
func (s *Service) runCycle(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			s.metrics.RecordCycleFailure()
			s.logger.Error("poll cycle abandoned", "panic", r)
		}
	}()

	start := time.Now()

	flights := s.collect(ctx)
	now := time.Now()

	admitted := make([]types.UnifiedFlight, 0, len(flights))
	currentKeys := make(map[string]struct{}, len(flights))
	for i := range flights {
		if s.window.Admit(&flights[i], now) {
			admitted = append(admitted, flights[i])
			currentKeys[flights[i].Key().String()] = struct{}{}
		}
	}

	// Retired keys must go before change detection so a flight that
	// disappears and reappears counts as new.
	s.cache.Clean(currentKeys)
	changed := s.cache.FilterChanged(admitted)

	if len(changed) > 0 {
		s.publishChanges(ctx, changed)
	}

	s.metrics.RecordCycle(time.Since(start).Seconds(), len(flights), len(admitted), len(changed))
	s.logger.Debug("poll cycle complete",
		"duration", time.Since(start),
		"stitched", len(flights),
		"admitted", len(admitted),
		"changed", len(changed),
	)
}

// publishChanges encodes the changed journeys and hands them to the push
// path and the optional mirror publisher.
func (s *Service) publishChanges(ctx context.Context, changed []types.UnifiedFlight) {
	doc, err := s.encoder.EncodeChanges(changed)
	if err != nil {
		s.logger.Error("failed to encode changed journeys", "count", len(changed), "error", err)

		return
	}

	s.registry.Push(ctx, doc)

	if s.changePub != nil {
		if err := s.changePub.Publish(ctx, doc); err != nil {
			s.logger.Warn("change mirror publish failed", "error", err)
		}
	}
}

// collect fetches every configured airport's feed and stitches the flat
// sighting collection into journeys.
func (s *Service) collect(ctx context.Context) []types.UnifiedFlight {
	perAirport := s.fetcher.FetchAll(ctx, s.cfg.Airports)

	var sightings []types.RawSighting
	for _, batch := range perAirport {
		sightings = append(sightings, batch...)
	}

	return s.stitcher.Stitch(sightings)
}

// deliverInitialSnapshot sends the current global state to one new
// subscriber, one document per configured context airport, and records the
// fingerprints as the diff baseline for coming cycles.
//
// The baseline write mutates the cache shared by all subscribers, which can
// suppress a changed signal for others on the very next cycle. Inherited
// trade-off; see the changecache package.
func (s *Service) deliverInitialSnapshot(ctx context.Context, sub types.Subscription) {
	flights := s.collect(ctx)
	now := time.Now()

	admitted := make([]types.UnifiedFlight, 0, len(flights))
	for i := range flights {
		if s.window.Admit(&flights[i], now) {
			admitted = append(admitted, flights[i])
		}
	}

	s.cache.Populate(admitted)

	for _, airport := range s.cfg.Airports {
		local := make([]types.UnifiedFlight, 0, len(admitted))
		for i := range admitted {
			if admitted[i].Touches(airport) {
				local = append(local, admitted[i])
			}
		}
		if len(local) == 0 {
			continue
		}

		doc, err := s.encoder.EncodeSnapshot(local, airport)
		if err != nil {
			s.logger.Error("failed to encode snapshot",
				"subscriptionId", sub.ID,
				"airport", airport,
				"error", err,
			)

			continue
		}

		if !s.registry.Deliver(ctx, sub.ID, doc) {
			s.logger.Warn("initial snapshot delivery failed, keeping subscription",
				"subscriptionId", sub.ID,
				"airport", airport,
			)
		}
	}
}

// nextSubscriptionID assigns a process-unique subscription identifier.
func (s *Service) nextSubscriptionID() string {
	return fmt.Sprintf("gibil-%d-%d", time.Now().Unix(), s.idSeq.Add(1))
}
