// Package codec converts domain alerts, blackout windows and lifecycle
// events to and from protobuf Struct values.
//
// The same representation is used on the gRPC intake API, on the NATS
// event subject and in the alert store file, so every surface speaks the
// same JSON (via protojson).
package codec
