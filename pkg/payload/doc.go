// Package payload defines the closed set of telemetry, control and sensor
// records carried by a skylink frame, and their fixed-size binary encodings.
package payload

// Every variant is a fixed-size record of IEEE-754 fields encoded
// little-endian, field by field, with no padding and no length prefix.
// The frame reserves MaxSize bytes for the encoding; a variant larger than
// that can't be registered.
