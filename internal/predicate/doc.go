// Package predicate defines how the suppression plugin learns whether an
// alert is inside an active blackout window.
//
// Matching alerts against window schedules and scopes belongs to the
// blackout service; Tracker records the answers it publishes.
package predicate
