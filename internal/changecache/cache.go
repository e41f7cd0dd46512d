package changecache

import (
	"encoding/binary"
	"time"

	"github.com/puzpuzpuz/xsync/v4"
	"github.com/zeebo/xxh3"

	"github.com/entur/gibil-sub000/types"
)

// Cache is a concurrent key-to-fingerprint map with change detection.
type Cache struct {
	entries *xsync.Map[string, uint64]
}

// New creates an empty change cache.
func New() *Cache {
	return &Cache{entries: xsync.NewMap[string, uint64]()}
}

// Fingerprint hashes the journey's mutable status fields: the ordered
// (departure status code, departure status time, arrival status code,
// arrival status time) tuples across all stops. Schedule times and gates do
// not participate; only status movement counts as change.
func Fingerprint(flight *types.UnifiedFlight) uint64 {
	buf := make([]byte, 0, len(flight.Stops)*32)

	appendString := func(s string) {
		buf = append(buf, s...)
		buf = append(buf, 0x1f)
	}
	appendTime := func(t *time.Time) {
		var nanos int64
		if t != nil {
			nanos = t.UnixNano()
		}
		buf = binary.LittleEndian.AppendUint64(buf, uint64(nanos))
	}

	for i := range flight.Stops {
		stop := &flight.Stops[i]
		appendString(stop.DepartureStatusCode)
		appendTime(stop.DepartureStatusTime)
		appendString(stop.ArrivalStatusCode)
		appendTime(stop.ArrivalStatusTime)
	}

	return xxh3.Hash(buf)
}

// HasChanged computes the journey's fingerprint, swaps it into the cache
// under the flight key, and reports whether it differs from the previous
// value. A flight never seen before is always reported changed; the first
// sighting is new information.
func (c *Cache) HasChanged(flight *types.UnifiedFlight) bool {
	fingerprint := Fingerprint(flight)
	previous, loaded := c.entries.LoadAndStore(flight.Key().String(), fingerprint)

	return !loaded || previous != fingerprint
}

// FilterChanged keeps only the journeys whose fingerprint differs from the
// last observed one. Result order follows input order.
func (c *Cache) FilterChanged(flights []types.UnifiedFlight) []types.UnifiedFlight {
	changed := make([]types.UnifiedFlight, 0, len(flights))
	for i := range flights {
		if c.HasChanged(&flights[i]) {
			changed = append(changed, flights[i])
		}
	}

	return changed
}

// Populate unconditionally records fingerprints without reporting change.
//
// Used once per new subscriber to establish a baseline so the next regular
// cycle does not re-announce already-known state. The cache is shared across
// all subscribers, so a single subscriber's baseline affects global change
// detection, a documented trade-off inherited from the original design.
func (c *Cache) Populate(flights []types.UnifiedFlight) {
	for i := range flights {
		c.entries.Store(flights[i].Key().String(), Fingerprint(&flights[i]))
	}
}

// Clean removes entries whose key is not in currentKeys.
//
// Must run before the cycle's HasChanged calls: a flight that disappeared
// and reappears is then treated as new, and the map cannot grow without
// bound as flights retire.
func (c *Cache) Clean(currentKeys map[string]struct{}) {
	c.entries.Range(func(key string, _ uint64) bool {
		if _, ok := currentKeys[key]; !ok {
			c.entries.Delete(key)
		}

		return true
	})
}

// Size returns the number of cached fingerprints.
func (c *Cache) Size() int {
	return c.entries.Size()
}
