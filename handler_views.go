package departures

import (
	"net/http"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"
)

type viewSummary struct {
	Name            string `json:"name"`
	Station         string `json:"station"`
	StopID          string `json:"stop_id"`
	DirectionFilter string `json:"direction_filter"`
	RouteFilter     string `json:"route_filter"`
	DepartureLimit  int    `json:"departure_limit"`
	DepartureCount  int    `json:"departure_count"`
}

func (s *Server) handleViews(w http.ResponseWriter, r *http.Request) {
	snap := s.engine.Current()
	if snap == nil {
		writeError(w, http.StatusServiceUnavailable, "no refresh cycle has completed yet")
		return
	}
	summaries := make([]viewSummary, 0, len(snap.Views))
	for _, res := range snap.Views {
		summaries = append(summaries, viewSummary{
			Name:            res.View.Name,
			Station:         res.View.StationName,
			StopID:          res.View.StopID,
			DirectionFilter: strings.Join(res.View.DirectionTerms, "|"),
			RouteFilter:     strings.Join(res.View.RouteIDs, "|"),
			DepartureLimit:  res.View.EffectiveLimit(),
			DepartureCount:  len(res.Departures),
		})
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].Name < summaries[j].Name })
	writeJSON(w, http.StatusOK, summaries)
}

func (s *Server) handleViewDepartures(w http.ResponseWriter, r *http.Request) {
	snap := s.engine.Current()
	if snap == nil {
		writeError(w, http.StatusServiceUnavailable, "no refresh cycle has completed yet")
		return
	}
	name := chi.URLParam(r, "name")
	res, ok := snap.Result(name)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown view: "+name)
		return
	}
	writeJSON(w, http.StatusOK, s.viewResponseFor(snap, res))
}
