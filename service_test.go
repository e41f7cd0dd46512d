package gibil

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/entur/gibil-sub000/types"
)

// fakeFeed serves canned sightings per airport and supports error and panic
// injection for failure-path tests.
type fakeFeed struct {
	mu        sync.Mutex
	sightings map[string][]types.RawSighting
	failAll   bool
	panicAll  bool
}

func newFakeFeed() *fakeFeed {
	return &fakeFeed{sightings: make(map[string][]types.RawSighting)}
}

func (f *fakeFeed) FetchRawFeed(_ context.Context, airportCode string) ([]types.RawSighting, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.panicAll {
		panic("feed exploded")
	}
	if f.failAll {
		return nil, errors.New("upstream unavailable")
	}

	return f.sightings[airportCode], nil
}

func (f *fakeFeed) set(sightings map[string][]types.RawSighting) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sightings = sightings
}

func (f *fakeFeed) setPanic(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.panicAll = v
}

// fakeEncoder produces recognizable plain-text bodies so tests can tell the
// delivery kinds apart.
type fakeEncoder struct{}

func (fakeEncoder) EncodeSnapshot(flights []types.UnifiedFlight, contextAirport string) (types.Document, error) {
	return types.Document{
		Type: types.DataTypeFlightStatus,
		Body: []byte(fmt.Sprintf("SNAPSHOT:%s:%d", contextAirport, len(flights))),
	}, nil
}

func (fakeEncoder) EncodeChanges(flights []types.UnifiedFlight) (types.Document, error) {
	return types.Document{
		Type: types.DataTypeFlightStatus,
		Body: []byte(fmt.Sprintf("CHANGES:%d", len(flights))),
	}, nil
}

func (fakeEncoder) EncodeHeartbeat(requestorRef string, _ time.Time) (types.Document, error) {
	return types.Document{
		Type: types.DataTypeFlightStatus,
		Body: []byte("HEARTBEAT:" + requestorRef),
	}, nil
}

// fakePoster records every POST body per URL and always answers 200.
type fakePoster struct {
	mu    sync.Mutex
	posts map[string][]string
}

func newFakePoster() *fakePoster {
	return &fakePoster{posts: make(map[string][]string)}
}

func (p *fakePoster) Post(_ context.Context, url string, body []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.posts[url] = append(p.posts[url], string(body))

	return 200, nil
}

// countBody returns the number of recorded posts to url whose body starts
// with the given prefix.
func (p *fakePoster) countBody(url, prefix string) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := 0
	for _, body := range p.posts[url] {
		if strings.HasPrefix(body, prefix) {
			n++
		}
	}

	return n
}

// journeySightings returns the two feed records of a direct OSL→BGO flight
// scheduled around now, with the given departure status code.
func journeySightings(flightID, statusCode string, now time.Time) map[string][]types.RawSighting {
	statusTime := now.Add(-time.Minute)

	return map[string][]types.RawSighting{
		"OSL": {{
			SourceAirport: "OSL",
			FlightID:      flightID,
			Scope:         types.ScopeDomestic,
			Direction:     types.DirectionDeparture,
			OtherAirport:  "BGO",
			ScheduledTime: now.Add(30 * time.Minute),
			StatusCode:    statusCode,
			StatusTime:    &statusTime,
		}},
		"BGO": {{
			SourceAirport: "BGO",
			FlightID:      flightID,
			Scope:         types.ScopeDomestic,
			Direction:     types.DirectionArrival,
			OtherAirport:  "OSL",
			ScheduledTime: now.Add(80 * time.Minute),
		}},
	}
}

func newTestService(t *testing.T, feed *fakeFeed, poster *fakePoster) *Service {
	t.Helper()

	cfg := TestConfig()
	svc, err := New(&cfg, feed, fakeEncoder{}, poster)
	require.NoError(t, err)

	return svc
}

func TestNewValidation(t *testing.T) {
	feed := newFakeFeed()
	poster := newFakePoster()
	cfg := TestConfig()

	_, err := New(nil, feed, fakeEncoder{}, poster)
	require.ErrorIs(t, err, ErrInvalidConfig)

	_, err = New(&cfg, nil, fakeEncoder{}, poster)
	require.ErrorIs(t, err, ErrFeedSourceRequired)

	_, err = New(&cfg, feed, nil, poster)
	require.ErrorIs(t, err, ErrEncoderRequired)

	_, err = New(&cfg, feed, fakeEncoder{}, nil)
	require.ErrorIs(t, err, ErrPosterRequired)

	bad := TestConfig()
	bad.Airports = nil
	_, err = New(&bad, feed, fakeEncoder{}, poster)
	require.ErrorIs(t, err, ErrInvalidConfig)

	badTZ := TestConfig()
	badTZ.Timezone = "Mars/Olympus"
	_, err = New(&badTZ, feed, fakeEncoder{}, poster)
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestNewAppliesDefaults(t *testing.T) {
	cfg := Config{Airports: []string{"OSL"}}
	svc, err := New(&cfg, newFakeFeed(), fakeEncoder{}, newFakePoster())
	require.NoError(t, err)
	require.Equal(t, 2*time.Minute, svc.cfg.PollInterval)
	require.Equal(t, 5, svc.cfg.Fetch.Concurrency)
}

func TestCyclePushesNewJourney(t *testing.T) {
	feed := newFakeFeed()
	poster := newFakePoster()
	svc := newTestService(t, feed, poster)
	ctx := context.Background()

	id, err := svc.Subscribe(ctx, "http://subscriber.test/cb", "ref-1", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, id)
	require.Equal(t, 1, svc.ActiveSubscriptions())

	// Empty feed, empty baseline: no snapshot posts, nothing to push.
	require.Equal(t, 0, poster.countBody("http://subscriber.test/cb", "SNAPSHOT"))

	feed.set(journeySightings("DY123", "boarding", time.Now()))
	svc.runCycle(ctx)

	require.Equal(t, 1, poster.countBody("http://subscriber.test/cb", "CHANGES:1"))
}

func TestCycleSilentWhenUnchanged(t *testing.T) {
	feed := newFakeFeed()
	poster := newFakePoster()
	svc := newTestService(t, feed, poster)
	ctx := context.Background()

	_, err := svc.Subscribe(ctx, "http://subscriber.test/cb", "ref-1", time.Hour)
	require.NoError(t, err)

	feed.set(journeySightings("DY123", "boarding", time.Now()))
	svc.runCycle(ctx)
	svc.runCycle(ctx)
	svc.runCycle(ctx)

	require.Equal(t, 1, poster.countBody("http://subscriber.test/cb", "CHANGES"))
}

func TestCyclePushesOnStatusChange(t *testing.T) {
	feed := newFakeFeed()
	poster := newFakePoster()
	svc := newTestService(t, feed, poster)
	ctx := context.Background()

	_, err := svc.Subscribe(ctx, "http://subscriber.test/cb", "ref-1", time.Hour)
	require.NoError(t, err)

	now := time.Now()
	feed.set(journeySightings("DY123", "boarding", now))
	svc.runCycle(ctx)
	require.Equal(t, 1, poster.countBody("http://subscriber.test/cb", "CHANGES"))

	feed.set(journeySightings("DY123", "departed", now))
	svc.runCycle(ctx)
	require.Equal(t, 2, poster.countBody("http://subscriber.test/cb", "CHANGES"))
}

func TestCycleReannouncesAfterDisappearance(t *testing.T) {
	feed := newFakeFeed()
	poster := newFakePoster()
	svc := newTestService(t, feed, poster)
	ctx := context.Background()

	_, err := svc.Subscribe(ctx, "http://subscriber.test/cb", "ref-1", time.Hour)
	require.NoError(t, err)

	now := time.Now()
	feed.set(journeySightings("DY123", "boarding", now))
	svc.runCycle(ctx)
	require.Equal(t, 1, poster.countBody("http://subscriber.test/cb", "CHANGES"))

	// The journey drops out of the feed; its fingerprint must be retired.
	feed.set(nil)
	svc.runCycle(ctx)
	require.Equal(t, 1, poster.countBody("http://subscriber.test/cb", "CHANGES"))

	// Reappearing with an identical payload counts as new again.
	feed.set(journeySightings("DY123", "boarding", now))
	svc.runCycle(ctx)
	require.Equal(t, 2, poster.countBody("http://subscriber.test/cb", "CHANGES"))
}

func TestSubscribeDeliversSnapshotAndSetsBaseline(t *testing.T) {
	feed := newFakeFeed()
	poster := newFakePoster()
	svc := newTestService(t, feed, poster)
	ctx := context.Background()

	feed.set(journeySightings("DY123", "boarding", time.Now()))

	_, err := svc.Subscribe(ctx, "http://subscriber.test/cb", "ref-1", time.Hour)
	require.NoError(t, err)

	// One snapshot per configured airport the journey touches: OSL and BGO,
	// not TRD.
	require.Equal(t, 1, poster.countBody("http://subscriber.test/cb", "SNAPSHOT:OSL:1"))
	require.Equal(t, 1, poster.countBody("http://subscriber.test/cb", "SNAPSHOT:BGO:1"))
	require.Equal(t, 0, poster.countBody("http://subscriber.test/cb", "SNAPSHOT:TRD"))

	// The snapshot is the diff baseline: the unchanged journey must not be
	// re-announced on the next cycle.
	svc.runCycle(ctx)
	require.Equal(t, 0, poster.countBody("http://subscriber.test/cb", "CHANGES"))
}

func TestSubscribeValidation(t *testing.T) {
	svc := newTestService(t, newFakeFeed(), newFakePoster())

	_, err := svc.Subscribe(context.Background(), "", "ref-1", time.Hour)
	require.ErrorIs(t, err, ErrInvalidCallback)
}

func TestSubscribeAssignsUniqueIDs(t *testing.T) {
	svc := newTestService(t, newFakeFeed(), newFakePoster())
	ctx := context.Background()

	a, err := svc.Subscribe(ctx, "http://a.test/cb", "ref-a", time.Hour)
	require.NoError(t, err)
	b, err := svc.Subscribe(ctx, "http://b.test/cb", "ref-b", time.Hour)
	require.NoError(t, err)
	require.NotEqual(t, a, b)
	require.Equal(t, 2, svc.ActiveSubscriptions())
}

func TestUnsubscribe(t *testing.T) {
	svc := newTestService(t, newFakeFeed(), newFakePoster())
	ctx := context.Background()

	id, err := svc.Subscribe(ctx, "http://subscriber.test/cb", "ref-1", time.Hour)
	require.NoError(t, err)

	require.NoError(t, svc.Unsubscribe(id))
	require.Equal(t, 0, svc.ActiveSubscriptions())

	require.ErrorIs(t, svc.Unsubscribe(id), ErrSubscriptionNotFound)
	require.ErrorIs(t, svc.Unsubscribe("never-existed"), ErrSubscriptionNotFound)
}

func TestCyclePanicContainment(t *testing.T) {
	feed := newFakeFeed()
	poster := newFakePoster()
	svc := newTestService(t, feed, poster)
	ctx := context.Background()

	_, err := svc.Subscribe(ctx, "http://subscriber.test/cb", "ref-1", time.Hour)
	require.NoError(t, err)

	feed.setPanic(true)
	require.NotPanics(t, func() { svc.runCycle(ctx) })

	// The next tick proceeds normally.
	feed.setPanic(false)
	feed.set(journeySightings("DY123", "boarding", time.Now()))
	svc.runCycle(ctx)
	require.Equal(t, 1, poster.countBody("http://subscriber.test/cb", "CHANGES"))
}

func TestStartStopLifecycle(t *testing.T) {
	feed := newFakeFeed()
	poster := newFakePoster()
	svc := newTestService(t, feed, poster)
	ctx := context.Background()

	require.ErrorIs(t, svc.Stop(ctx), ErrNotStarted)

	feed.set(journeySightings("DY123", "boarding", time.Now()))

	_, err := svc.Subscribe(ctx, "http://subscriber.test/cb", "ref-1", time.Hour)
	require.NoError(t, err)
	// The subscribe snapshot set the baseline; move the journey so the loop
	// has something to announce.
	feed.set(journeySightings("DY123", "departed", time.Now()))

	require.NoError(t, svc.Start(ctx))
	require.ErrorIs(t, svc.Start(ctx), ErrAlreadyStarted)

	require.Eventually(t, func() bool {
		return poster.countBody("http://subscriber.test/cb", "CHANGES") >= 1
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, svc.Stop(ctx))
	require.Equal(t, 0, svc.ActiveSubscriptions())
}

func TestStartHonorsContextCancel(t *testing.T) {
	feed := newFakeFeed()
	poster := newFakePoster()
	svc := newTestService(t, feed, poster)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, svc.Start(ctx))
	cancel()

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer stopCancel()
	require.NoError(t, svc.Stop(stopCtx))
}
