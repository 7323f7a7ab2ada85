package reconcile

import (
	"errors"
	"math"
	"sort"
	"time"

	"github.com/transitboard/gtfsrt-departures/gtfs"
	"github.com/transitboard/gtfsrt-departures/gtfsrt"
)

// ErrNoIndex is returned when reconciliation is attempted before the static
// schedule index has been loaded.
var ErrNoIndex = errors.New("reconcile: schedule index not loaded")

// DefaultGrace is how long past its departure time a trip is still emitted,
// to avoid flapping right at departure.
const DefaultGrace = time.Minute

// Candidate is a fully-described departure for one stop, recomputed every
// refresh cycle and never persisted.
type Candidate struct {
	TripID       string        `json:"trip_id"`
	RouteID      string        `json:"route_id"`
	Headsign     string        `json:"headsign"`
	StopID       string        `json:"stop_id"`
	Departure    time.Time     `json:"departure"`
	MinutesUntil int           `json:"minutes_until"`
	Status       gtfsrt.Status `json:"status"`
}

// Reconciler merges realtime stop-time events with the static schedule for
// a stop. Missing or partial realtime data degrades to schedule-only
// entries; it never fails for that.
type Reconciler struct {
	Index *gtfs.ScheduleIndex
	// Grace widens the departure cutoff; zero means DefaultGrace.
	Grace time.Duration
}

// Reconcile produces the candidate departures for one stop, ordered by
// departure time with ties broken by trip ID. CANCELLED and SKIPPED
// candidates are carried in the output for observability; ranked selection
// excludes them later.
func (r *Reconciler) Reconcile(stopID string, events []gtfsrt.StopTimeEvent, now time.Time) ([]Candidate, error) {
	if r.Index == nil {
		return nil, ErrNoIndex
	}
	grace := r.Grace
	if grace == 0 {
		grace = DefaultGrace
	}
	cutoff := now.Add(-grace)

	// working set of realtime events at this stop, keyed by trip
	byTrip := make(map[string]gtfsrt.StopTimeEvent)
	for _, ev := range events {
		if ev.StopID != stopID {
			continue
		}
		if _, ok := byTrip[ev.TripID]; !ok {
			byTrip[ev.TripID] = ev
		}
	}

	loc := r.Index.Location()
	y, m, d := now.In(loc).Date()
	dayStart := time.Date(y, m, d, 0, 0, 0, 0, loc)

	var out []Candidate
	matched := make(map[string]bool, len(byTrip))
	for _, entry := range r.Index.ScheduledTimesForStop(stopID) {
		meta, ok := r.Index.TripMeta(entry.TripID)
		if !ok {
			continue
		}
		dep := dayStart.Add(time.Duration(entry.Departure) * time.Second)
		status := gtfsrt.StatusScheduled
		if ev, found := byTrip[entry.TripID]; found {
			matched[entry.TripID] = true
			status = ev.Status
			if !ev.Status.Excluded() && ev.Departure != 0 {
				dep = time.Unix(ev.Departure, 0)
			}
		}
		if dep.Before(cutoff) {
			continue
		}
		out = append(out, newCandidate(meta, stopID, dep, status, now))
	}

	// realtime-only trips with no schedule entry at this stop; trips the
	// static index cannot resolve contribute nothing
	for tripID, ev := range byTrip {
		if matched[tripID] {
			continue
		}
		meta, ok := r.Index.TripMeta(tripID)
		if !ok || ev.Departure == 0 {
			continue
		}
		dep := time.Unix(ev.Departure, 0)
		if dep.Before(cutoff) {
			continue
		}
		out = append(out, newCandidate(meta, stopID, dep, ev.Status, now))
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Departure.Equal(out[j].Departure) {
			return out[i].Departure.Before(out[j].Departure)
		}
		return out[i].TripID < out[j].TripID
	})
	return out, nil
}

func newCandidate(meta gtfs.TripMeta, stopID string, dep time.Time, status gtfsrt.Status, now time.Time) Candidate {
	return Candidate{
		TripID:       meta.TripID,
		RouteID:      meta.RouteID,
		Headsign:     meta.Headsign,
		StopID:       stopID,
		Departure:    dep,
		MinutesUntil: MinutesUntil(dep, now),
		Status:       status,
	}
}

// MinutesUntil is the display value: whole minutes to departure, rounded up.
func MinutesUntil(dep, now time.Time) int {
	return int(math.Ceil(dep.Sub(now).Minutes()))
}
