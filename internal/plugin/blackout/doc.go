// Package blackout implements the blackout suppression plugin.
//
// At intake the plugin either passes an alert unchanged, mutes it by forcing
// the suppressed status of the active alarm model, or stops the pipeline when
// notification blackout is disabled. When blackout windows are created,
// updated or deleted it rescans every stored alert and mutes or reopens it.
//
// An alert remembers a single muting window in its "blackout" attribute.
// With overlapping windows the last writer wins, so deleting one window can
// reopen an alert that another window still covers.
package blackout
