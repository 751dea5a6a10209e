// Package intake implements the gRPC transport of the alarm-blackout service.
//
// The alarmblackout.v1.IntakeService exchanges protobuf Struct messages in
// the codec package's JSON shape: alerts are submitted with Receive and
// blackout window changes with BlackoutChange. Client is the matching
// caller used by the command-line tools.
package intake
