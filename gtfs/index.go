package gtfs

import (
	"time"
)

// ScheduleIndex stores GTFS static data in memory for fast lookups.
// It is built once at load time and read-only thereafter, so concurrent
// reads need no locking.
type ScheduleIndex struct {
	agencyID   string
	agencyTZ   string
	agencyName string
	loc        *time.Location

	routeLongNames  map[string]string          // route_id -> long_name
	routeShortNames map[string]string          // route_id -> short_name
	trips           map[string]TripMeta        // trip_id -> meta
	stopNames       map[string]string          // stop_id -> name
	stopTimes       map[string][]ScheduleEntry // stop_id -> entries, ordered by departure
}

func newScheduleIndex() *ScheduleIndex {
	return &ScheduleIndex{
		loc:             time.UTC,
		routeLongNames:  map[string]string{},
		routeShortNames: map[string]string{},
		trips:           map[string]TripMeta{},
		stopNames:       map[string]string{},
		stopTimes:       map[string][]ScheduleEntry{},
	}
}

// TripMeta returns the static metadata for a trip. The headsign falls back
// to the route long name, then short name, then "Route <route_id>" when
// trips.txt carried no headsign.
func (g *ScheduleIndex) TripMeta(tripID string) (TripMeta, bool) {
	m, ok := g.trips[tripID]
	if !ok {
		return TripMeta{}, false
	}
	if m.Headsign == "" {
		m.Headsign = g.RouteName(m.RouteID)
	}
	return m, true
}

// ScheduledTimesForStop returns the scheduled stop-times at a stop, ordered
// by nondecreasing departure time. The returned slice is shared; callers
// must not modify it.
func (g *ScheduleIndex) ScheduledTimesForStop(stopID string) []ScheduleEntry {
	return g.stopTimes[stopID]
}

// RouteName returns a rider-facing name for a route, preferring the long
// name over the short name.
func (g *ScheduleIndex) RouteName(routeID string) string {
	if n := g.routeLongNames[routeID]; n != "" {
		return n
	}
	if n := g.routeShortNames[routeID]; n != "" {
		return n
	}
	return "Route " + routeID
}

func (g *ScheduleIndex) GetStopName(stopID string) string { return g.stopNames[stopID] }

func (g *ScheduleIndex) GetAgencyID() string { return g.agencyID }

func (g *ScheduleIndex) GetAgencyName() string { return g.agencyName }

// Location returns the agency timezone, defaulting to America/New_York
// when agency.txt carried none.
func (g *ScheduleIndex) Location() *time.Location { return g.loc }

func (g *ScheduleIndex) TripCount() int { return len(g.trips) }

func (g *ScheduleIndex) StopCount() int { return len(g.stopTimes) }
