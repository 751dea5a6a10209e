// Package server runs the alarm-blackout service: the gRPC intake API, the
// NATS blackout event subscription and the Prometheus metrics endpoint, all
// backed by the blackout suppression plugin.
//
// Plugin settings and the log level are reloaded when the settings file
// changes; listen addresses and the alert store need a restart.
package server
