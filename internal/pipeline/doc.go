// Package pipeline runs incoming alerts and blackout window changes through
// the configured plugins.
package pipeline
