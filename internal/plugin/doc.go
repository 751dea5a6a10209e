// Package plugin defines the capability contract every alert-processing
// plugin implements.
//
// Base provides a default for each capability that fails with
// ErrNotImplemented, so a plugin embeds Base and overrides only what it
// supports while callers keep a uniform handle over the full capability set.
package plugin
