package gibil

import "github.com/entur/gibil-sub000/types"

// Re-export types from the types subpackage.
//
// This file provides a stable public API for the library's core types and
// interfaces via type aliases. Internal packages depend on the types
// subpackage directly, which keeps them free of import cycles while users
// get convenient gibil.UnifiedFlight, gibil.Logger, etc.
type (
	RawSighting   = types.RawSighting
	FlightStop    = types.FlightStop
	UnifiedFlight = types.UnifiedFlight
	FlightKey     = types.FlightKey
	Subscription  = types.Subscription
	Document      = types.Document
	Direction     = types.Direction
	TrafficScope  = types.TrafficScope
	DataType      = types.DataType
)

// Re-export boundary and observability interfaces for convenience.
type (
	FeedSource       = types.FeedSource
	Encoder          = types.Encoder
	Poster           = types.Poster
	ChangePublisher  = types.ChangePublisher
	Logger           = types.Logger
	MetricsCollector = types.MetricsCollector
)

// Re-export enum constants from the types subpackage.
const (
	DirectionArrival   = types.DirectionArrival
	DirectionDeparture = types.DirectionDeparture

	ScopeDomestic      = types.ScopeDomestic
	ScopeInternational = types.ScopeInternational
	ScopeSchengen      = types.ScopeSchengen

	DataTypeFlightStatus = types.DataTypeFlightStatus
)
