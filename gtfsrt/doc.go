// Package gtfsrt handles fetching and decoding GTFS-Realtime trip updates.
//
// A fetch produces an immutable Snapshot of per-stop StopTimeEvent records,
// superseded wholesale by the next fetch. On fetch or decode failure the
// caller keeps its previous snapshot; stale-but-valid beats empty.
package gtfsrt
