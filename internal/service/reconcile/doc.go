// Package reconcile replays a single blackout window change, either directly
// against the local alert store or through a running blackout server.
package reconcile
