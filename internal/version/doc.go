// Package version exposes build metadata for the alarm-blackout binaries.
//
// Version, Commit and BuildTime are injected with -ldflags at build time.
package version
