package stitch

import (
	"time"

	"github.com/entur/gibil-sub000/types"
)

// Window admits only journeys relevant to the present moment.
//
// Admission looks at the full set of stop times, not just the endpoints: an
// in-progress multi-leg journey whose first departure is long past must stay
// visible as long as some future leg is still upcoming.
type Window struct {
	// Past is how far behind now the latest stop time may lie.
	Past time.Duration

	// Future is how far ahead of now the earliest stop time may lie.
	Future time.Duration
}

// Admit decides whether the journey is inside the window at the given
// instant.
//
// A journey with no times at all is admitted: there is nothing to filter
// on. Otherwise it is rejected when every stop time is already older than
// now-Past (entirely in the past) or when the earliest stop time is beyond
// now+Future (not started yet).
func (w Window) Admit(flight *types.UnifiedFlight, now time.Time) bool {
	var minTime, maxTime time.Time

	observe := func(t *time.Time) {
		if t == nil {
			return
		}
		if minTime.IsZero() || t.Before(minTime) {
			minTime = *t
		}
		if maxTime.IsZero() || t.After(maxTime) {
			maxTime = *t
		}
	}

	for i := range flight.Stops {
		observe(flight.Stops[i].ArrivalTime)
		observe(flight.Stops[i].DepartureTime)
	}

	if minTime.IsZero() {
		return true
	}
	if maxTime.Before(now.Add(-w.Past)) {
		return false
	}
	if minTime.After(now.Add(w.Future)) {
		return false
	}

	return true
}
