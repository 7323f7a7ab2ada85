package reconcile_test

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/transitboard/gtfsrt-departures/gtfsrt"
	"github.com/transitboard/gtfsrt-departures/internal/gtfstest"
	"github.com/transitboard/gtfsrt-departures/reconcile"
)

// testNow is 08:00 local on the fixture's service day.
func testNow(t *testing.T) time.Time {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("loading tz: %v", err)
	}
	return time.Date(2025, 6, 2, 8, 0, 0, 0, loc)
}

func ev(tripID, stopID string, dep int64, status gtfsrt.Status) gtfsrt.StopTimeEvent {
	return gtfsrt.StopTimeEvent{TripID: tripID, StopID: stopID, Departure: dep, Status: status}
}

func TestReconcile_RealtimeOverridesSchedule(t *testing.T) {
	idx := gtfstest.LoadIndex(t, gtfstest.LIRRStyleTables())
	now := testNow(t)
	r := &reconcile.Reconciler{Index: idx}

	// three of the ten scheduled trips carry realtime predictions
	events := []gtfsrt.StopTimeEvent{
		ev("t01", "211", now.Add(7*time.Minute).Unix(), gtfsrt.StatusUpdated),
		ev("t03", "211", now.Add(17*time.Minute).Unix(), gtfsrt.StatusUpdated),
		ev("t05", "211", now.Add(26*time.Minute).Unix(), gtfsrt.StatusUpdated),
		// same trip at another stop must not affect this stop
		ev("t01", "237", now.Add(40*time.Minute).Unix(), gtfsrt.StatusUpdated),
	}

	got, err := r.Reconcile("211", events, now)
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if len(got) != 10 {
		t.Fatalf("got %d candidates, want 10", len(got))
	}

	statuses := map[string]gtfsrt.Status{}
	for _, c := range got {
		statuses[c.TripID] = c.Status
	}
	for _, tripID := range []string{"t01", "t03", "t05"} {
		if statuses[tripID] != gtfsrt.StatusUpdated {
			t.Errorf("trip %s status = %s, want UPDATED", tripID, statuses[tripID])
		}
	}
	for _, tripID := range []string{"t02", "t04", "t06", "t07", "t08", "t09", "t10"} {
		if statuses[tripID] != gtfsrt.StatusScheduled {
			t.Errorf("trip %s status = %s, want SCHEDULED (pure-schedule fallback)", tripID, statuses[tripID])
		}
	}

	// t01's realtime prediction (08:07) replaces its 08:05 scheduled time
	for _, c := range got {
		if c.TripID == "t01" && !c.Departure.Equal(now.Add(7*time.Minute)) {
			t.Errorf("t01 departure = %v, want predicted 08:07", c.Departure)
		}
	}

	for i := 1; i < len(got); i++ {
		if got[i].Departure.Before(got[i-1].Departure) {
			t.Errorf("candidates out of order at %d", i)
		}
	}
}

func TestReconcile_UnresolvableTripDropped(t *testing.T) {
	idx := gtfstest.LoadIndex(t, gtfstest.LIRRStyleTables())
	now := testNow(t)
	r := &reconcile.Reconciler{Index: idx}

	events := []gtfsrt.StopTimeEvent{
		ev("ghost-trip", "211", now.Add(5*time.Minute).Unix(), gtfsrt.StatusUpdated),
	}
	got, err := r.Reconcile("211", events, now)
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	for _, c := range got {
		if c.TripID == "ghost-trip" {
			t.Error("trip without static metadata must contribute no candidate")
		}
	}
	if len(got) != 10 {
		t.Errorf("got %d candidates, want the 10 scheduled ones", len(got))
	}
}

func TestReconcile_ExtraRealtimeTrip(t *testing.T) {
	tables := gtfstest.LIRRStyleTables()
	// t10 exists in trips.txt; remove its stop_times row at 211 so it only
	// appears via realtime
	tables["stop_times.txt"] = "trip_id,stop_id,stop_sequence,departure_time\n" +
		"t01,211,1,08:05:00\n"
	idx := gtfstest.LoadIndex(t, tables)
	now := testNow(t)
	r := &reconcile.Reconciler{Index: idx}

	events := []gtfsrt.StopTimeEvent{
		ev("t10", "211", now.Add(12*time.Minute).Unix(), gtfsrt.StatusUpdated),
	}
	got, err := r.Reconcile("211", events, now)
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d candidates, want 2", len(got))
	}
	if got[1].TripID != "t10" || got[1].Headsign != "Penn Station" {
		t.Errorf("extra realtime trip not resolved through static metadata: %+v", got[1])
	}
}

func TestReconcile_Deterministic(t *testing.T) {
	idx := gtfstest.LoadIndex(t, gtfstest.LIRRStyleTables())
	now := testNow(t)
	r := &reconcile.Reconciler{Index: idx}
	events := []gtfsrt.StopTimeEvent{
		ev("t03", "211", now.Add(9*time.Minute).Unix(), gtfsrt.StatusUpdated),
		ev("t08", "211", now.Add(33*time.Minute).Unix(), gtfsrt.StatusUpdated),
	}

	first, err := r.Reconcile("211", events, now)
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := r.Reconcile("211", events, now)
		if err != nil {
			t.Fatalf("reconcile: %v", err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatal("repeated reconciliation produced different output")
		}
	}
}

func TestReconcile_TieBreaksByTripID(t *testing.T) {
	idx := gtfstest.LoadIndex(t, gtfstest.LIRRStyleTables())
	now := testNow(t)
	r := &reconcile.Reconciler{Index: idx}
	same := now.Add(10 * time.Minute).Unix()
	events := []gtfsrt.StopTimeEvent{
		ev("t09", "211", same, gtfsrt.StatusUpdated),
		ev("t02", "211", same, gtfsrt.StatusUpdated),
	}

	got, err := r.Reconcile("211", events, now)
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	var tied []string
	for _, c := range got {
		if c.Departure.Unix() == same {
			tied = append(tied, c.TripID)
		}
	}
	if !reflect.DeepEqual(tied, []string{"t02", "t09"}) {
		t.Errorf("tie order = %v, want [t02 t09]", tied)
	}
}

func TestReconcile_GraceWindow(t *testing.T) {
	idx := gtfstest.LoadIndex(t, gtfstest.LIRRStyleTables())
	now := testNow(t)

	tests := []struct {
		name      string
		grace     time.Duration
		departure time.Time
		want      bool
	}{
		{name: "future kept", grace: 0, departure: now.Add(5 * time.Minute), want: true},
		{name: "just departed kept within default grace", grace: 0, departure: now.Add(-30 * time.Second), want: true},
		{name: "long departed dropped", grace: 0, departure: now.Add(-2 * time.Minute), want: false},
		{name: "wider grace keeps it", grace: 5 * time.Minute, departure: now.Add(-2 * time.Minute), want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &reconcile.Reconciler{Index: idx, Grace: tt.grace}
			events := []gtfsrt.StopTimeEvent{
				ev("t01", "211", tt.departure.Unix(), gtfsrt.StatusUpdated),
			}
			got, err := r.Reconcile("211", events, now)
			if err != nil {
				t.Fatalf("reconcile: %v", err)
			}
			found := false
			for _, c := range got {
				if c.TripID == "t01" {
					found = true
				}
			}
			if found != tt.want {
				t.Errorf("t01 present = %v, want %v", found, tt.want)
			}
		})
	}
}

func TestReconcile_CancelledCarriedWithScheduledTime(t *testing.T) {
	idx := gtfstest.LoadIndex(t, gtfstest.LIRRStyleTables())
	now := testNow(t)
	r := &reconcile.Reconciler{Index: idx}

	events := []gtfsrt.StopTimeEvent{
		// predicted time on a cancelled stop call is ignored
		ev("t02", "211", now.Add(45*time.Minute).Unix(), gtfsrt.StatusCancelled),
		ev("t04", "211", 0, gtfsrt.StatusSkipped),
	}
	got, err := r.Reconcile("211", events, now)
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}

	byTrip := map[string]reconcile.Candidate{}
	for _, c := range got {
		byTrip[c.TripID] = c
	}
	c, ok := byTrip["t02"]
	if !ok || c.Status != gtfsrt.StatusCancelled {
		t.Fatalf("cancelled candidate missing from output: %+v", c)
	}
	if !c.Departure.Equal(now.Add(10 * time.Minute)) {
		t.Errorf("cancelled candidate departure = %v, want scheduled 08:10", c.Departure)
	}
	if s, ok := byTrip["t04"]; !ok || s.Status != gtfsrt.StatusSkipped {
		t.Errorf("skipped candidate missing from output: %+v", s)
	}
}

func TestReconcile_UnknownStop(t *testing.T) {
	idx := gtfstest.LoadIndex(t, gtfstest.LIRRStyleTables())
	got, err := (&reconcile.Reconciler{Index: idx}).Reconcile("9999", nil, testNow(t))
	if err != nil {
		t.Fatalf("unlisted stop must not error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d candidates for unlisted stop, want 0", len(got))
	}
}

func TestReconcile_NilIndex(t *testing.T) {
	_, err := (&reconcile.Reconciler{}).Reconcile("211", nil, testNow(t))
	if !errors.Is(err, reconcile.ErrNoIndex) {
		t.Fatalf("err = %v, want ErrNoIndex", err)
	}
}

func TestMinutesUntil(t *testing.T) {
	now := testNow(t)
	tests := []struct {
		name string
		dep  time.Time
		want int
	}{
		{name: "exact minutes", dep: now.Add(5 * time.Minute), want: 5},
		{name: "rounds up", dep: now.Add(4*time.Minute + time.Second), want: 5},
		{name: "now", dep: now, want: 0},
		{name: "just departed", dep: now.Add(-30 * time.Second), want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := reconcile.MinutesUntil(tt.dep, now); got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMinutesUntil_MonotonicWithinCycle(t *testing.T) {
	now := testNow(t)
	dep := now.Add(30 * time.Minute)
	prev := reconcile.MinutesUntil(dep, now)
	for elapsed := time.Minute; elapsed <= 10*time.Minute; elapsed += time.Minute {
		cur := reconcile.MinutesUntil(dep, now.Add(elapsed))
		if cur >= prev {
			t.Fatalf("minutes until did not decrease: %d then %d after %v", prev, cur, elapsed)
		}
		prev = cur
	}
}
