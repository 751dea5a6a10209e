// Package alert contains core domain types for alerts handled by the
// blackout suppression plugin.
//
// It defines Alert with its status vocabulary, the Reason enum recorded in
// the alert history on every status change, and the AlarmModel that selects
// which status name is used for suppressed alerts.
package alert
