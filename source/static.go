package source

import (
	"context"
	"sync"

	"github.com/entur/gibil-sub000/types"
)

// Static implements a feed source backed by a fixed in-memory sighting set.
//
// Useful for examples, demos, and integration tests where real upstream
// feeds are unavailable. The sighting set can be swapped at runtime to
// simulate feed updates between poll cycles.
type Static struct {
	mu        sync.RWMutex
	sightings map[string][]types.RawSighting
}

var _ types.FeedSource = (*Static)(nil)

// NewStatic creates a static feed source serving the given per-airport
// sightings. A nil map is treated as empty.
//
// Parameters:
//   - sightings: Sightings keyed by source airport IATA code
//
// Returns:
//   - *Static: Static feed source instance
func NewStatic(sightings map[string][]types.RawSighting) *Static {
	if sightings == nil {
		sightings = make(map[string][]types.RawSighting)
	}

	return &Static{sightings: sightings}
}

// FetchRawFeed returns a copy of the current sightings for one airport.
// An unknown airport yields an empty feed, not an error.
func (s *Static) FetchRawFeed(ctx context.Context, airportCode string) ([]types.RawSighting, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	batch := s.sightings[airportCode]
	out := make([]types.RawSighting, len(batch))
	copy(out, batch)

	return out, nil
}

// Update replaces the entire sighting set, affecting the next fetch.
//
// Parameters:
//   - sightings: New sightings keyed by source airport IATA code
func (s *Static) Update(sightings map[string][]types.RawSighting) {
	if sightings == nil {
		sightings = make(map[string][]types.RawSighting)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sightings = sightings
}

// UpdateAirport replaces the sightings of a single airport.
func (s *Static) UpdateAirport(airportCode string, batch []types.RawSighting) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sightings[airportCode] = batch
}
