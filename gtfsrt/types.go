package gtfsrt

import (
	"fmt"
	"time"
)

// Status classifies a realtime stop-time event.
type Status string

const (
	StatusScheduled Status = "SCHEDULED"
	StatusUpdated   Status = "UPDATED"
	StatusCancelled Status = "CANCELLED"
	StatusSkipped   Status = "SKIPPED"
)

// Excluded reports whether an event with this status is kept out of ranked
// departure output.
func (s Status) Excluded() bool {
	return s == StatusCancelled || s == StatusSkipped
}

// StopTimeEvent is one realtime prediction: a trip calling at a stop.
// Departure is a Unix epoch; 0 means the feed carried no usable time and
// the scheduled time applies.
type StopTimeEvent struct {
	TripID    string
	RouteID   string
	StopID    string
	Departure int64
	Status    Status
}

// Snapshot is one decoded feed read. It is replaced wholesale on every
// refresh and treated as immutable once returned.
type Snapshot struct {
	FetchedAt time.Time
	// FeedTimestamp is the feed header timestamp, or FetchedAt when the
	// header carried none.
	FeedTimestamp time.Time
	Events        []StopTimeEvent
}

// EventsForStop returns the snapshot's events at one stop, in feed order.
func (s *Snapshot) EventsForStop(stopID string) []StopTimeEvent {
	var out []StopTimeEvent
	for _, ev := range s.Events {
		if ev.StopID == stopID {
			out = append(out, ev)
		}
	}
	return out
}

// FetchError is a transient network-level failure retrieving the feed.
// The previous snapshot stays valid; retry happens on the next cadence tick.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("gtfsrt: fetching %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// DecodeError is a malformed feed payload. Also retried on the next tick,
// but logged distinctly since it may indicate a feed format change.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("gtfsrt: decoding feed: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
