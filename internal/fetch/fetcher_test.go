package fetch

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/entur/gibil-sub000/internal/logging"
	"github.com/entur/gibil-sub000/internal/metrics"
	"github.com/entur/gibil-sub000/types"
)

// fakeSource implements types.FeedSource with per-airport canned behavior.
type fakeSource struct {
	mu        sync.Mutex
	inFlight  atomic.Int32
	maxSeen   atomic.Int32
	calls     []string
	sightings map[string][]types.RawSighting
	failures  map[string]error
	delay     time.Duration
}

func (s *fakeSource) FetchRawFeed(_ context.Context, airport string) ([]types.RawSighting, error) {
	cur := s.inFlight.Add(1)
	for {
		max := s.maxSeen.Load()
		if cur <= max || s.maxSeen.CompareAndSwap(max, cur) {
			break
		}
	}
	defer s.inFlight.Add(-1)

	s.mu.Lock()
	s.calls = append(s.calls, airport)
	s.mu.Unlock()

	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	if err, ok := s.failures[airport]; ok {
		return nil, err
	}

	return s.sightings[airport], nil
}

func newTestFetcher(source types.FeedSource, concurrency int, pacing time.Duration) *Fetcher {
	return New(source, concurrency, pacing, time.Second, logging.NewNop(), metrics.NewNop())
}

func TestFetchAllReturnsEveryAirport(t *testing.T) {
	source := &fakeSource{
		sightings: map[string][]types.RawSighting{
			"OSL": {{SourceAirport: "OSL", FlightID: "DY123"}},
			"BGO": {{SourceAirport: "BGO", FlightID: "DY123"}},
		},
	}
	fetcher := newTestFetcher(source, 2, 0)

	results := fetcher.FetchAll(context.Background(), []string{"OSL", "BGO", "TRD"})

	require.Len(t, results, 3)
	require.Len(t, results["OSL"], 1)
	require.Len(t, results["BGO"], 1)
	require.Empty(t, results["TRD"])
}

func TestFetchAllIsolatesFailures(t *testing.T) {
	source := &fakeSource{
		sightings: map[string][]types.RawSighting{
			"BGO": {{SourceAirport: "BGO", FlightID: "WF456"}},
		},
		failures: map[string]error{
			"OSL": errors.New("upstream returned 503"),
		},
	}
	fetcher := newTestFetcher(source, 2, 0)

	results := fetcher.FetchAll(context.Background(), []string{"OSL", "BGO"})

	// The failed airport contributes an empty result, the batch continues.
	require.Len(t, results, 2)
	require.Empty(t, results["OSL"])
	require.Len(t, results["BGO"], 1)
}

func TestFetchAllBoundsConcurrency(t *testing.T) {
	source := &fakeSource{delay: 20 * time.Millisecond}
	fetcher := newTestFetcher(source, 3, 0)

	airports := []string{"OSL", "BGO", "TRD", "SVG", "BOO", "TOS", "KRS", "AES"}
	results := fetcher.FetchAll(context.Background(), airports)

	require.Len(t, results, len(airports))
	require.LessOrEqual(t, source.maxSeen.Load(), int32(3))
	require.Len(t, source.calls, len(airports))
}

// panickingSource panics for selected airports and serves the rest normally.
type panickingSource struct {
	panics    map[string]bool
	sightings map[string][]types.RawSighting
}

func (s *panickingSource) FetchRawFeed(_ context.Context, airport string) ([]types.RawSighting, error) {
	if s.panics[airport] {
		panic("feed parser exploded")
	}

	return s.sightings[airport], nil
}

func TestFetchAllContainsPanickingSource(t *testing.T) {
	source := &panickingSource{
		panics: map[string]bool{"OSL": true},
		sightings: map[string][]types.RawSighting{
			"BGO": {{SourceAirport: "BGO", FlightID: "WF456"}},
		},
	}
	fetcher := newTestFetcher(source, 2, 0)

	var results map[string][]types.RawSighting
	require.NotPanics(t, func() {
		results = fetcher.FetchAll(context.Background(), []string{"OSL", "BGO"})
	})

	// The panicking airport degrades to an empty batch, its siblings finish.
	require.Len(t, results, 2)
	require.Empty(t, results["OSL"])
	require.Len(t, results["BGO"], 1)
}

func TestFetchAllStopsLaunchingOnCancelledContext(t *testing.T) {
	source := &fakeSource{delay: 5 * time.Millisecond}
	fetcher := newTestFetcher(source, 1, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := fetcher.FetchAll(ctx, []string{"OSL", "BGO"})

	// Every airport is still present, but no requests were issued.
	require.Len(t, results, 2)
	require.Empty(t, source.calls)
}
