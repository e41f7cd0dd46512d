package fetch

import (
	"context"
	"sync"
	"time"

	"github.com/entur/gibil-sub000/types"
)

// Fetcher performs bounded-concurrency retrieval of raw airport feeds.
//
// Concurrency model: airport codes are split into sequential chunks of
// Concurrency size. Within a chunk, each request goroutine launch is
// preceded by the Pacing delay, so at most Concurrency requests are in
// flight and request starts are staggered. The fetcher waits for the whole
// chunk before starting the next one.
type Fetcher struct {
	source      types.FeedSource
	concurrency int
	pacing      time.Duration
	timeout     time.Duration
	logger      types.Logger
	metrics     types.MetricsCollector
}

// New creates a fetcher over the given feed source.
//
// Parameters:
//   - source: Per-airport feed boundary
//   - concurrency: Maximum requests in flight (chunk size)
//   - pacing: Delay before each request launch within a chunk
//   - timeout: Per-request timeout
//   - logger: Structured logger
//   - metrics: Metrics collector
func New(source types.FeedSource, concurrency int, pacing, timeout time.Duration, logger types.Logger, metrics types.MetricsCollector) *Fetcher {
	return &Fetcher{
		source:      source,
		concurrency: concurrency,
		pacing:      pacing,
		timeout:     timeout,
		logger:      logger,
		metrics:     metrics,
	}
}

// FetchAll retrieves the raw feed of every airport and returns the results
// keyed by airport code.
//
// Every airport is present in the result; a failed fetch maps to an empty
// slice. An airport with genuinely no flights also maps to an empty slice;
// the two differ only in log treatment.
//
// Parameters:
//   - ctx: Context for cancellation; a cancelled context stops launching
//     new requests but in-flight ones finish on their own timeout
//
// Returns:
//   - map[string][]types.RawSighting: Per-airport sightings for this cycle
func (f *Fetcher) FetchAll(ctx context.Context, airportCodes []string) map[string][]types.RawSighting {
	results := make(map[string][]types.RawSighting, len(airportCodes))
	var mu sync.Mutex

	chunkSize := f.concurrency
	if chunkSize < 1 {
		chunkSize = 1
	}

	for start := 0; start < len(airportCodes); start += chunkSize {
		end := start + chunkSize
		if end > len(airportCodes) {
			end = len(airportCodes)
		}
		chunk := airportCodes[start:end]

		var wg sync.WaitGroup
		for _, code := range chunk {
			// Stagger launches to avoid bursting the upstream service.
			if f.pacing > 0 {
				select {
				case <-time.After(f.pacing):
				case <-ctx.Done():
				}
			}
			if ctx.Err() != nil {
				mu.Lock()
				results[code] = nil
				mu.Unlock()

				continue
			}

			wg.Add(1)
			go func(airport string) {
				defer wg.Done()

				sightings := f.fetchOne(ctx, airport)

				mu.Lock()
				results[airport] = sightings
				mu.Unlock()
			}(code)
		}
		// Chunk barrier: the next chunk starts only after this one is done.
		wg.Wait()
	}

	return results
}

// fetchOne retrieves one airport's feed, isolating any failure.
//
// Failure includes a panicking FeedSource implementation: the panic is
// recovered here, on the worker goroutine that would otherwise kill the
// process, and downgraded to a logged per-airport failure.
func (f *Fetcher) fetchOne(ctx context.Context, airport string) (result []types.RawSighting) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			f.metrics.RecordFeedFetch(airport, false, time.Since(start).Seconds())
			f.logger.Error("feed fetch panicked, airport contributes nothing this cycle",
				"airport", airport,
				"panic", r,
			)
			result = nil
		}
	}()

	reqCtx := ctx
	if f.timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	sightings, err := f.source.FetchRawFeed(reqCtx, airport)
	elapsed := time.Since(start).Seconds()

	if err != nil {
		f.metrics.RecordFeedFetch(airport, false, elapsed)
		f.logger.Warn("feed fetch failed, airport contributes nothing this cycle",
			"airport", airport,
			"error", err,
		)

		return nil
	}

	f.metrics.RecordFeedFetch(airport, true, elapsed)
	if len(sightings) == 0 {
		f.logger.Debug("feed returned no flights", "airport", airport)
	}

	return sightings
}
