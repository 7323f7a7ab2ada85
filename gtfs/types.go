package gtfs

import "fmt"

// TripMeta is the static description of one trip.
type TripMeta struct {
	TripID   string
	RouteID  string
	Headsign string
}

// ScheduleEntry is one scheduled stop-time: a trip calling at a stop.
// Departure is seconds since midnight of the service day; GTFS allows
// values past 24:00:00 for trips that run into the next day.
type ScheduleEntry struct {
	TripID    string
	StopID    string
	Departure int
	Sequence  int
}

// LoadError indicates the static schedule source was missing, malformed,
// or lacked a required table. It is fatal to startup.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("gtfs: loading schedule from %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }
