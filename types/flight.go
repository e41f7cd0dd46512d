package types

import "time"

// FlightStop is one airport visit within a reconstructed journey.
//
// Invariant: at least one of ArrivalTime and DepartureTime is non-nil,
// except for synthetic stops created by single-stop salvage, which carry
// only an airport code.
type FlightStop struct {
	AirportCode string

	ArrivalTime   *time.Time
	DepartureTime *time.Time

	DepartureStatusCode string
	DepartureStatusTime *time.Time
	ArrivalStatusCode   string
	ArrivalStatusTime   *time.Time

	// TargetAirport is the next stop this aircraft is scheduled to visit
	// after departing here, derived from the departure sighting's via-list.
	// Empty when unknown or for pure-arrival stops.
	TargetAirport string
}

// FlightKey identifies one flight number on one operating date. Sightings
// with the same flight ID but different operating dates must never be merged
// into one journey.
type FlightKey struct {
	FlightID string
	Date     string // operating date, formatted 2006-01-02
}

// String returns the cache key form of the flight key.
func (k FlightKey) String() string {
	return k.FlightID + "@" + k.Date
}

// UnifiedFlight is the reconstructed end-to-end record of one flight
// number's movement through two or more airports on one operating date.
//
// Invariants:
//   - len(Stops) >= 2
//   - Stops are in non-decreasing chronological order of the event that
//     produced them
//   - for every adjacent pair, a set TargetAirport on the earlier stop
//     equals the later stop's AirportCode (gap-free chain)
//
// UnifiedFlight values are constructed fresh each poll cycle and never
// mutated afterwards; only their fingerprint outlives the cycle.
type UnifiedFlight struct {
	FlightID string
	Operator string // first two characters of FlightID
	Date     string // operating date, formatted 2006-01-02
	Stops    []FlightStop
}

// Key returns the grouping and cache key for the flight.
func (f *UnifiedFlight) Key() FlightKey {
	return FlightKey{FlightID: f.FlightID, Date: f.Date}
}

// Origin returns the airport code of the first stop.
func (f *UnifiedFlight) Origin() string {
	if len(f.Stops) == 0 {
		return ""
	}
	return f.Stops[0].AirportCode
}

// Destination returns the airport code of the last stop.
func (f *UnifiedFlight) Destination() string {
	if len(f.Stops) == 0 {
		return ""
	}
	return f.Stops[len(f.Stops)-1].AirportCode
}

// IsMultiLeg reports whether the journey has intermediate stops.
func (f *UnifiedFlight) IsMultiLeg() bool {
	return len(f.Stops) > 2
}

// Touches reports whether the journey visits the given airport at any stop.
func (f *UnifiedFlight) Touches(airportCode string) bool {
	for i := range f.Stops {
		if f.Stops[i].AirportCode == airportCode {
			return true
		}
	}
	return false
}
