// Package device reads joystick events from the operating system.
package device

import (
	"encoding/binary"
	"errors"
	"io"
)

// ErrUnsupported indicates joysticks aren't supported on this platform.
var ErrUnsupported = errors.New("joystick unsupported on this platform")

// EventKind tells what changed.
type EventKind uint8

// Event kinds
const (
	EventButton EventKind = 0x01
	EventAxis   EventKind = 0x02
)

// event flag set on the synthetic events reporting the initial state.
const evINIT uint8 = 0x80

// EventSize is the size of a raw event.
const EventSize = 8

// AxisMax is the absolute maximum of an axis value.
const AxisMax = 32767

// Event is a change on an axis or a button.
type Event struct {
	// Time is a timestamp in milliseconds.
	Time uint32
	Kind EventKind
	// Init indicates the event reports the initial state.
	Init  bool
	Index int
	// Value is the axis position, or non-zero for a pressed button.
	Value int16
}

// Pressed tells the button state.
func (e Event) Pressed() bool {
	return e.Kind == EventButton && e.Value != 0
}

// DecodeEvent decodes a raw event, laid out as time u32, value i16,
// type u8, number u8 in little-endian.
func DecodeEvent(b []byte) (Event, error) {
	if len(b) < EventSize {
		return Event{}, io.ErrUnexpectedEOF
	}
	typ := b[6]
	return Event{
		Time:  binary.LittleEndian.Uint32(b[0:]),
		Value: int16(binary.LittleEndian.Uint16(b[4:])),
		Kind:  EventKind(typ &^ evINIT),
		Init:  typ&evINIT != 0,
		Index: int(b[7]),
	}, nil
}

// Device represents an opened joystick.
type Device interface {
	io.Closer
	// Name returns the name of the device.
	Name() string
	// AxisCount returns the number of Axis on the device.
	AxisCount() int
	// ButtonCount returns the number of buttons on the device.
	ButtonCount() int
	// ReadEvent blocks until the next event.
	ReadEvent() (Event, error)
}
