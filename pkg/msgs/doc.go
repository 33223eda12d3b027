// Package msgs defines the bus schema of link traffic: a protobuf mirror
// of every payload, wrapped in a Typed envelope carrying the link addresses.
package msgs

// Telemetry and sensor samples are events flowing from the vehicle,
// control input is a command flowing to the vehicle.
//
// Producer: skylinkd (events), ground control (commands)
// Consumer: skylinkmon, websocket clients (events), skylinkd (commands)
