// Package config defines the settings shared by the alarm-blackout binaries
// and provides helpers to load, validate and save them in YAML format.
//
// Plugin settings are exposed through the Provider interface under the
// legacy keys NOTIFICATION_BLACKOUT and ALARM_MODEL. Holder keeps the active
// configuration and Watch refreshes it when the file changes on disk.
package config
