package engine

import (
	"time"

	"github.com/transitboard/gtfsrt-departures/reconcile"
	"github.com/transitboard/gtfsrt-departures/view"
)

// ViewResult is one station view's bounded, ordered departure list for a
// cycle, together with the filters that produced it.
type ViewResult struct {
	View       view.StationView
	Departures []reconcile.Candidate
	// Diagnostics carries the CANCELLED/SKIPPED candidates the ranked list
	// excludes.
	Diagnostics []reconcile.Candidate
}

// Snapshot is the published output of one successful refresh cycle. Every
// view in it was computed from the same feed fetch. It is replaced
// wholesale on the next successful cycle and must be treated as immutable.
type Snapshot struct {
	// CycleID identifies the refresh cycle in logs and API responses.
	CycleID       string
	FetchedAt     time.Time
	FeedTimestamp time.Time
	Views         map[string]ViewResult
}

// Result returns the current result for a named view.
func (s *Snapshot) Result(name string) (ViewResult, bool) {
	if s == nil {
		return ViewResult{}, false
	}
	r, ok := s.Views[name]
	return r, ok
}
