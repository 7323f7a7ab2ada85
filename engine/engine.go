package engine

import (
	"context"
	"errors"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/transitboard/gtfsrt-departures/gtfs"
	"github.com/transitboard/gtfsrt-departures/gtfsrt"
	"github.com/transitboard/gtfsrt-departures/reconcile"
	"github.com/transitboard/gtfsrt-departures/view"
)

// ErrRefreshInFlight is returned when a refresh request arrives while a
// cycle is already running. The request is coalesced, not queued.
var ErrRefreshInFlight = errors.New("engine: refresh already in flight")

// DefaultInterval is the refresh cadence when none is configured.
const DefaultInterval = 60 * time.Second

// FeedSource supplies one decoded realtime snapshot per refresh cycle.
type FeedSource interface {
	Fetch(ctx context.Context) (*gtfsrt.Snapshot, error)
}

// ViewSource supplies the configured station views. It is consulted once
// per cycle, so edits take effect on the next cycle.
type ViewSource func() []view.StationView

// Engine drives the refresh pipeline: fetch, reconcile per stop, select per
// view, publish. At most one cycle runs at a time.
type Engine struct {
	index    *gtfs.ScheduleIndex
	source   FeedSource
	views    ViewSource
	interval time.Duration
	grace    time.Duration

	now func() time.Time

	busy atomic.Bool

	mu      sync.RWMutex
	current *Snapshot
}

// Option configures an Engine.
type Option func(*Engine)

// WithInterval sets the refresh cadence.
func WithInterval(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.interval = d
		}
	}
}

// WithGrace sets how long past departure a trip is still listed.
func WithGrace(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.grace = d
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New creates an engine over a loaded schedule index, a realtime feed
// source and a view source.
func New(index *gtfs.ScheduleIndex, source FeedSource, views ViewSource, opts ...Option) *Engine {
	e := &Engine{
		index:    index,
		source:   source,
		views:    views,
		interval: DefaultInterval,
		grace:    reconcile.DefaultGrace,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run refreshes immediately, then on every cadence tick until the context
// is cancelled. Fetch and decode failures are logged and the cycle skipped;
// the loop itself never stops on them.
func (e *Engine) Run(ctx context.Context) {
	e.refreshLogged(ctx)
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.refreshLogged(ctx)
		}
	}
}

func (e *Engine) refreshLogged(ctx context.Context) {
	err := e.Refresh(ctx)
	switch {
	case err == nil:
	case errors.Is(err, ErrRefreshInFlight):
		log.Printf("engine: tick coalesced, cycle still in flight")
	default:
		var decodeErr *gtfsrt.DecodeError
		if errors.As(err, &decodeErr) {
			log.Printf("engine: feed payload undecodable, keeping last snapshot (possible feed format change): %v", err)
		} else {
			log.Printf("engine: refresh failed, keeping last snapshot: %v", err)
		}
	}
}

// Refresh runs one cycle. A concurrent call returns ErrRefreshInFlight. On
// fetch or decode failure the previously published snapshot is retained and
// the error returned. Nothing is published when the context is cancelled
// mid-fetch.
func (e *Engine) Refresh(ctx context.Context) error {
	if !e.busy.CompareAndSwap(false, true) {
		return ErrRefreshInFlight
	}
	defer e.busy.Store(false)

	feed, err := e.source.Fetch(ctx)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	views := e.views()
	now := e.now()
	rec := &reconcile.Reconciler{Index: e.index, Grace: e.grace}

	// one reconciliation per distinct stop; every view of a stop reads the
	// same candidate set from this single fetch
	byStop := make(map[string][]reconcile.Candidate)
	for _, v := range views {
		if _, done := byStop[v.StopID]; done {
			continue
		}
		candidates, err := rec.Reconcile(v.StopID, feed.Events, now)
		if err != nil {
			return err
		}
		byStop[v.StopID] = candidates
	}

	snap := &Snapshot{
		CycleID:       uuid.NewString(),
		FetchedAt:     feed.FetchedAt,
		FeedTimestamp: feed.FeedTimestamp,
		Views:         make(map[string]ViewResult, len(views)),
	}
	for _, v := range views {
		candidates := byStop[v.StopID]
		snap.Views[v.Name] = ViewResult{
			View:        v,
			Departures:  view.Select(candidates, v),
			Diagnostics: excluded(candidates),
		}
	}

	e.mu.Lock()
	e.current = snap
	e.mu.Unlock()
	log.Printf("engine: cycle %s published %d views (feed ts %s)",
		snap.CycleID, len(snap.Views), snap.FeedTimestamp.UTC().Format(time.RFC3339))
	return nil
}

// Current returns the latest published snapshot, or nil before the first
// successful cycle. The snapshot is shared; callers must not modify it.
func (e *Engine) Current() *Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.current
}

// Index exposes the loaded schedule index (read-only).
func (e *Engine) Index() *gtfs.ScheduleIndex { return e.index }

func excluded(candidates []reconcile.Candidate) []reconcile.Candidate {
	var out []reconcile.Candidate
	for _, c := range candidates {
		if c.Status.Excluded() {
			out = append(out, c)
		}
	}
	return out
}
