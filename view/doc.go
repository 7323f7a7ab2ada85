// Package view implements user-configured station views: per-stop filter
// predicates (destination substrings, route IDs) and the bounded selection
// of ranked candidate departures.
package view
