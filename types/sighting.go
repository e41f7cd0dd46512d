package types

import "time"

// Direction indicates whether a sighting describes an arrival or a departure
// event at the feed's airport.
type Direction string

// Direction values as reported by the upstream per-airport feeds.
const (
	DirectionArrival   Direction = "arrival"
	DirectionDeparture Direction = "departure"
)

// TrafficScope classifies a flight leg by the upstream provider's
// domestic/international flag. It is used only for admission filtering.
type TrafficScope string

// TrafficScope values.
const (
	ScopeDomestic      TrafficScope = "domestic"
	ScopeInternational TrafficScope = "international"
	ScopeSchengen      TrafficScope = "schengen"
)

// RawSighting is one record from one airport's feed describing a single
// arrival or departure event. Sightings are ephemeral: they are produced by
// the fetcher, consumed by the stitcher within the same poll cycle, and
// never retained.
type RawSighting struct {
	// SourceAirport is the IATA code of the airport whose feed produced
	// this record.
	SourceAirport string

	// FlightID is the carrier designator plus flight number (e.g. "DY123").
	// May be empty; sightings without a flight ID cannot be stitched.
	FlightID string

	// Scope is the provider's domestic/international classification.
	Scope TrafficScope

	// Direction tells whether this record is an arrival or a departure
	// at SourceAirport.
	Direction Direction

	// OtherAirport is the endpoint named in the record: the airport this
	// leg connects SourceAirport to.
	OtherAirport string

	// ViaAirports lists the remaining intermediate stops still ahead on
	// the aircraft's route, in order, as disclosed by the feed.
	ViaAirports []string

	// ScheduledTime is the scheduled time of the event. A zero value means
	// the feed's time was unparseable; such sightings are dropped.
	ScheduledTime time.Time

	// StatusCode is the current operational status code, empty if none.
	StatusCode string

	// StatusTime is the timestamp attached to StatusCode, nil if none.
	StatusTime *time.Time

	// Gate is informational only and never affects stitching or change
	// detection.
	Gate string
}
