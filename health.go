package departures

import (
	"net/http"
	"time"
)

type healthResponse struct {
	Status        string `json:"status"`
	CycleID       string `json:"cycle_id,omitempty"`
	FeedTimestamp string `json:"feed_timestamp,omitempty"`
	ViewCount     int    `json:"view_count"`
	TripCount     int    `json:"trip_count"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:    "waiting",
		TripCount: s.engine.Index().TripCount(),
	}
	if snap := s.engine.Current(); snap != nil {
		resp.Status = "ok"
		resp.CycleID = snap.CycleID
		resp.FeedTimestamp = snap.FeedTimestamp.UTC().Format(time.RFC3339)
		resp.ViewCount = len(snap.Views)
	}
	writeJSON(w, http.StatusOK, resp)
}
