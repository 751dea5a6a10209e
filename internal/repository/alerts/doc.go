// Package alerts implements persistence for alert records.
//
// Repository is the store contract used by the processing pipeline and the
// blackout reconciler. MemoryRepository keeps alerts in process and
// FileRepository stores them as JSON on disk.
package alerts
