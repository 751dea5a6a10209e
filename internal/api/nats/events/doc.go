// Package events consumes blackout window lifecycle events from NATS.
//
// Each message carries a JSON event in the codec package's shape. Requests
// with a reply subject are answered with the processing result.
package events
