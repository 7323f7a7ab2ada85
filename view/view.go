package view

import (
	"strings"

	"github.com/transitboard/gtfsrt-departures/config"
)

// Limit bounds for one view's departure list.
const (
	MinLimit = 1
	MaxLimit = 20
)

// StationView is a user-configured filtered perspective on one stop's
// departures. The engine reads it per refresh cycle and never mutates it.
type StationView struct {
	Name        string
	StationName string
	StopID      string
	// DirectionTerms OR-match case-insensitively as substrings of the
	// headsign; empty matches all.
	DirectionTerms []string
	// RouteIDs OR-match exactly against the route ID; empty matches all.
	RouteIDs []string
	Limit    int
}

// FromConfig converts a configured view, splitting its pipe-separated
// filter text into term sets.
func FromConfig(cfg config.ViewConfig) StationView {
	limit := cfg.DepartureLimit
	if limit == 0 {
		limit = config.DefaultDepartureLimit
	}
	return StationView{
		Name:           cfg.Name,
		StationName:    cfg.StationName,
		StopID:         cfg.StopID,
		DirectionTerms: ParseTerms(cfg.DirectionFilter),
		RouteIDs:       ParseTerms(cfg.RouteFilter),
		Limit:          limit,
	}
}

// ParseTerms splits pipe-separated user filter text into trimmed terms,
// dropping blanks. Nil means "match everything".
func ParseTerms(s string) []string {
	var terms []string
	for _, t := range strings.Split(s, "|") {
		if t = strings.TrimSpace(t); t != "" {
			terms = append(terms, t)
		}
	}
	return terms
}

// MatchesHeadsign reports whether the headsign satisfies the direction
// filter dimension.
func (v StationView) MatchesHeadsign(headsign string) bool {
	if len(v.DirectionTerms) == 0 {
		return true
	}
	h := strings.ToLower(headsign)
	for _, term := range v.DirectionTerms {
		if strings.Contains(h, strings.ToLower(term)) {
			return true
		}
	}
	return false
}

// MatchesRoute reports whether the route ID satisfies the route filter
// dimension.
func (v StationView) MatchesRoute(routeID string) bool {
	if len(v.RouteIDs) == 0 {
		return true
	}
	for _, id := range v.RouteIDs {
		if id == routeID {
			return true
		}
	}
	return false
}

// EffectiveLimit clamps the configured limit into [MinLimit, MaxLimit].
func (v StationView) EffectiveLimit() int {
	switch {
	case v.Limit < MinLimit:
		return MinLimit
	case v.Limit > MaxLimit:
		return MaxLimit
	}
	return v.Limit
}
