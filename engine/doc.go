// Package engine drives the periodic refresh pipeline and owns the
// published per-view departure snapshots.
//
// One cycle is: fetch the realtime feed, reconcile each configured stop
// against the static schedule, run every view's filtered selection, publish
// the results as a single immutable Snapshot. Failed cycles keep the last
// published snapshot; a tick arriving mid-cycle is coalesced.
package engine
