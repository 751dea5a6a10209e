// Package window defines blackout windows and the lifecycle actions that
// are reported when a window is created, updated or deleted.
//
// Window definitions are opaque here: matching alerts against a window is
// done elsewhere, only the window identity matters to the suppression plugin.
package window
