/*
Package gtfs provides GTFS static schedule loading and indexing.

The loader accepts a GTFS zip from a URL, a local path, or raw bytes and
builds an in-memory ScheduleIndex keyed by trip and stop. The index is built
once and read-only afterwards, so it may be shared across goroutines without
locking.

Parse the schedule once at startup and keep the index in memory; a gob-based
disk cache (SerializeIndexToFile / DeserializeIndexFromFile) avoids repeated
downloads across restarts.
*/
package gtfs
