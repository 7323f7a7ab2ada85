package departures

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/transitboard/gtfsrt-departures/engine"
	"github.com/transitboard/gtfsrt-departures/reconcile"
)

// departureRecord is the consumer-facing shape of one departure.
type departureRecord struct {
	Headsign string `json:"headsign"`
	// DepartureTime is the rider-facing clock time in the agency timezone.
	DepartureTime  string `json:"departure_time"`
	DepartureEpoch int64  `json:"departure_epoch"`
	MinutesUntil   int    `json:"minutes_until"`
	RouteID        string `json:"route_id"`
	TripID         string `json:"trip_id"`
	StopID         string `json:"stop_id"`
	Status         string `json:"status"`
}

// viewResponse is one station view's current result set plus the filters
// that were applied and the snapshot it came from.
type viewResponse struct {
	Name            string            `json:"name"`
	Station         string            `json:"station"`
	StopID          string            `json:"stop_id"`
	DirectionFilter string            `json:"direction_filter"`
	RouteFilter     string            `json:"route_filter"`
	CycleID         string            `json:"cycle_id"`
	FetchedAt       string            `json:"fetched_at"`
	FeedTimestamp   string            `json:"feed_timestamp"`
	Departures      []departureRecord `json:"departures"`
	NextDeparture   *departureRecord  `json:"next_departure"`
}

func (s *Server) viewResponseFor(snap *engine.Snapshot, res engine.ViewResult) viewResponse {
	loc := s.engine.Index().Location()
	records := make([]departureRecord, 0, len(res.Departures))
	for _, c := range res.Departures {
		records = append(records, toRecord(c, loc))
	}
	resp := viewResponse{
		Name:            res.View.Name,
		Station:         res.View.StationName,
		StopID:          res.View.StopID,
		DirectionFilter: strings.Join(res.View.DirectionTerms, "|"),
		RouteFilter:     strings.Join(res.View.RouteIDs, "|"),
		CycleID:         snap.CycleID,
		FetchedAt:       snap.FetchedAt.UTC().Format(time.RFC3339),
		FeedTimestamp:   snap.FeedTimestamp.UTC().Format(time.RFC3339),
		Departures:      records,
	}
	if len(records) > 0 {
		resp.NextDeparture = &records[0]
	}
	return resp
}

func toRecord(c reconcile.Candidate, loc *time.Location) departureRecord {
	return departureRecord{
		Headsign:       c.Headsign,
		DepartureTime:  c.Departure.In(loc).Format("3:04 PM"),
		DepartureEpoch: c.Departure.Unix(),
		MinutesUntil:   c.MinutesUntil,
		RouteID:        c.RouteID,
		TripID:         c.TripID,
		StopID:         c.StopID,
		Status:         string(c.Status),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
