package types

import (
	"context"
	"time"
)

// FeedSource retrieves and parses one airport's raw feed.
//
// Implementations live outside the core; the upstream feed format is an
// external contract. A nil-error return with zero sightings means the
// airport genuinely has no flights; an error means the fetch or parse
// failed. The two receive different log treatment but identical downstream
// handling: an empty contribution to the cycle.
type FeedSource interface {
	// FetchRawFeed retrieves the current raw feed for one airport.
	FetchRawFeed(ctx context.Context, airportCode string) ([]RawSighting, error)
}

// Encoder translates journeys into wire protocol documents.
//
// Both encode forms must be deterministic for identical input so tests can
// assert on encoded output; embedded wall-clock timestamps are the one
// allowed exception.
type Encoder interface {
	// EncodeSnapshot encodes the full current state as seen from one
	// context airport. Used for the initial delivery to a new subscriber.
	EncodeSnapshot(flights []UnifiedFlight, contextAirport string) (Document, error)

	// EncodeChanges encodes a batch of changed journeys with no single
	// context airport. Used by the regular poll cycle.
	EncodeChanges(flights []UnifiedFlight) (Document, error)

	// EncodeHeartbeat encodes a lightweight liveness notification for the
	// given requestor reference.
	EncodeHeartbeat(requestorRef string, ts time.Time) (Document, error)
}

// Poster performs one outbound HTTP POST.
//
// Implementations must honor the context deadline. The returned status code
// is reported as-is; classifying non-2xx responses as delivery failures is
// the caller's concern.
type Poster interface {
	Post(ctx context.Context, url string, body []byte) (int, error)
}

// ChangePublisher mirrors changed-journey documents to an internal message
// bus in addition to the HTTP push path. Optional; publish failures must
// never abort a poll cycle.
type ChangePublisher interface {
	Publish(ctx context.Context, doc Document) error
}
