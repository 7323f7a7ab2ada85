package view

import (
	"github.com/transitboard/gtfsrt-departures/reconcile"
)

// Select applies a view's filters to reconciled candidates and truncates to
// the view's departure limit. Both filter dimensions compose conjunctively;
// within each dimension terms compose disjunctively. CANCELLED and SKIPPED
// candidates never occupy a limit slot. Input order is preserved, so a
// time-ordered input yields a time-ordered result; the call is idempotent.
func Select(candidates []reconcile.Candidate, v StationView) []reconcile.Candidate {
	limit := v.EffectiveLimit()
	out := make([]reconcile.Candidate, 0, limit)
	for _, c := range candidates {
		if c.Status.Excluded() {
			continue
		}
		if !v.MatchesHeadsign(c.Headsign) || !v.MatchesRoute(c.RouteID) {
			continue
		}
		out = append(out, c)
		if len(out) == limit {
			break
		}
	}
	return out
}
