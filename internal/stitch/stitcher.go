package stitch

import (
	"slices"
	"time"

	"github.com/entur/gibil-sub000/types"
)

// DateFormat is the operating-date layout used in flight keys.
const DateFormat = "2006-01-02"

// Stitcher groups raw per-airport sightings by flight identity and
// reconstructs ordered multi-stop journeys.
type Stitcher struct {
	loc             *time.Location
	scopeExceptions map[string]struct{}
	logger          types.Logger
}

// New creates a stitcher.
//
// Parameters:
//   - loc: Time zone used to derive the operating date from scheduled times
//   - scopeExceptions: Airport codes whose non-domestic sightings are kept
//     anyway (designated remote-region exceptions)
//   - logger: Structured logger
func New(loc *time.Location, scopeExceptions []string, logger types.Logger) *Stitcher {
	exceptions := make(map[string]struct{}, len(scopeExceptions))
	for _, code := range scopeExceptions {
		exceptions[code] = struct{}{}
	}

	return &Stitcher{loc: loc, scopeExceptions: exceptions, logger: logger}
}

// stopBuilder accumulates sightings for one airport visit. It carries the
// arrival's counterpart airport, which FlightStop does not, for single-stop
// salvage.
type stopBuilder struct {
	stop        types.FlightStop
	arrivalFrom string
}

// Stitch turns the cycle's flat sighting collection into the set of
// journeys that pass all consistency checks.
//
// Sightings outside the domestic-or-exception scope, without a parseable
// scheduled time, or without a flight ID are dropped up front. The
// remainder is grouped by (flight ID, operating date), walked in scheduled
// order, salvaged when only one airport reported, and finally checked for
// gap-free chaining.
//
// Returns:
//   - []types.UnifiedFlight: Surviving journeys, ordered by flight key
func (s *Stitcher) Stitch(sightings []types.RawSighting) []types.UnifiedFlight {
	groups := make(map[types.FlightKey][]types.RawSighting)

	for _, sighting := range sightings {
		if !s.inScope(sighting) {
			continue
		}
		if sighting.ScheduledTime.IsZero() {
			continue
		}
		if sighting.FlightID == "" {
			continue
		}

		key := types.FlightKey{
			FlightID: sighting.FlightID,
			Date:     sighting.ScheduledTime.In(s.loc).Format(DateFormat),
		}
		groups[key] = append(groups[key], sighting)
	}

	flights := make([]types.UnifiedFlight, 0, len(groups))
	for key, group := range groups {
		if flight, ok := s.buildFlight(key, group); ok {
			flights = append(flights, flight)
		}
	}

	// Map iteration order is random; keep output deterministic.
	slices.SortFunc(flights, func(a, b types.UnifiedFlight) int {
		ka, kb := a.Key().String(), b.Key().String()
		switch {
		case ka < kb:
			return -1
		case ka > kb:
			return 1
		default:
			return 0
		}
	})

	return flights
}

// inScope keeps domestic sightings, plus any sighting whose source or
// counterpart airport is a whitelisted remote-region exception.
func (s *Stitcher) inScope(sighting types.RawSighting) bool {
	if sighting.Scope == types.ScopeDomestic {
		return true
	}
	if _, ok := s.scopeExceptions[sighting.SourceAirport]; ok {
		return true
	}
	if _, ok := s.scopeExceptions[sighting.OtherAirport]; ok {
		return true
	}

	return false
}

// buildFlight assembles one journey from a same-key sighting group.
func (s *Stitcher) buildFlight(key types.FlightKey, group []types.RawSighting) (types.UnifiedFlight, bool) {
	// Operator is the first two characters of the flight ID.
	if len(key.FlightID) < 2 {
		s.logger.Debug("dropping group with too-short flight id", "flightId", key.FlightID)
		return types.UnifiedFlight{}, false
	}

	slices.SortStableFunc(group, func(a, b types.RawSighting) int {
		return a.ScheduledTime.Compare(b.ScheduledTime)
	})

	stops := buildStops(group)
	stops = salvage(stops)
	if len(stops) < 2 {
		s.logger.Debug("dropping group below two stops after salvage", "key", key.String())
		return types.UnifiedFlight{}, false
	}

	// Gap check: a declared target that does not match the next stop means
	// the data is inconsistent or incomplete. Omitting the journey beats
	// publishing a wrong route.
	for i := 0; i < len(stops)-1; i++ {
		target := stops[i].stop.TargetAirport
		if target != "" && target != stops[i+1].stop.AirportCode {
			s.logger.Debug("dropping group failing gap check",
				"key", key.String(),
				"declaredTarget", target,
				"nextStop", stops[i+1].stop.AirportCode,
			)

			return types.UnifiedFlight{}, false
		}
	}

	flight := types.UnifiedFlight{
		FlightID: key.FlightID,
		Operator: key.FlightID[:2],
		Date:     key.Date,
		Stops:    make([]types.FlightStop, len(stops)),
	}
	for i, b := range stops {
		flight.Stops[i] = b.stop
	}

	return flight, true
}

// buildStops walks chronologically sorted sightings, merging consecutive
// sightings at the same airport into one stop. A sighting at a different
// airport closes the open stop, so the same airport can legitimately appear
// as two non-adjacent stops on circular routings (A-B-C-A).
func buildStops(group []types.RawSighting) []*stopBuilder {
	var stops []*stopBuilder

	for i := range group {
		sighting := &group[i]

		var current *stopBuilder
		if len(stops) > 0 && stops[len(stops)-1].stop.AirportCode == sighting.SourceAirport {
			current = stops[len(stops)-1]
		} else {
			current = &stopBuilder{stop: types.FlightStop{AirportCode: sighting.SourceAirport}}
			stops = append(stops, current)
		}

		applySighting(current, sighting)
	}

	return stops
}

// applySighting populates one side of a stop from a sighting.
func applySighting(b *stopBuilder, sighting *types.RawSighting) {
	scheduled := sighting.ScheduledTime

	switch sighting.Direction {
	case types.DirectionArrival:
		b.stop.ArrivalTime = &scheduled
		b.stop.ArrivalStatusCode = sighting.StatusCode
		b.stop.ArrivalStatusTime = sighting.StatusTime
		b.arrivalFrom = sighting.OtherAirport
	case types.DirectionDeparture:
		b.stop.DepartureTime = &scheduled
		b.stop.DepartureStatusCode = sighting.StatusCode
		b.stop.DepartureStatusTime = sighting.StatusTime
		b.stop.TargetAirport = targetOf(sighting)
	}
}

// targetOf derives the next airport from a departure sighting: the head of
// the via-list when present, otherwise the record's counterpart airport.
func targetOf(sighting *types.RawSighting) string {
	if len(sighting.ViaAirports) > 0 {
		return sighting.ViaAirports[0]
	}

	return sighting.OtherAirport
}

// salvage completes single-stop groups where the missing leg is still
// derivable: a lone departure gains a synthetic stop for its target, a lone
// arrival gains a synthetic origin stop. Synthetic stops carry no times.
func salvage(stops []*stopBuilder) []*stopBuilder {
	if len(stops) != 1 {
		return stops
	}

	only := stops[0]
	switch {
	case only.stop.DepartureTime != nil && only.stop.TargetAirport != "":
		stub := &stopBuilder{stop: types.FlightStop{AirportCode: only.stop.TargetAirport}}
		return append(stops, stub)
	case only.stop.ArrivalTime != nil && only.arrivalFrom != "":
		stub := &stopBuilder{stop: types.FlightStop{AirportCode: only.arrivalFrom}}
		return append([]*stopBuilder{stub}, stops...)
	default:
		return stops
	}
}
