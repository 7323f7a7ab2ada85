// Package reconcile joins realtime stop-time events with the static
// schedule index to produce candidate departures for a stop.
//
// Realtime predictions override scheduled times for matching trips; trips
// the feed does not cover fall back to their scheduled times; realtime
// trips the static schedule cannot resolve are dropped. Output ordering is
// deterministic: ascending departure time, ties broken by trip ID.
package reconcile
