// Package bridge connects a link stream to packet based transports.
//
// Frames received from the link are converted to msgs.Typed packets and
// written to every sink. Command packets read from an uplink source are
// converted back to payloads and sent over the link.
package bridge
