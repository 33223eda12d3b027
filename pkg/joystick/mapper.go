// Package joystick turns joystick input into control input frames.
package joystick

import (
	"sync"

	"github.com/robotalks/skylink/pkg/joystick/device"
	"github.com/robotalks/skylink/pkg/payload"
)

// Axis selects a device axis. A negative Index leaves the channel centered.
type Axis struct {
	Index  int
	Invert bool
}

// Mapper keeps axis positions and maps them to ControlInput.
// Roll, pitch and yaw are in [-1, 1], throttle in [0, 1].
type Mapper struct {
	Roll     Axis
	Pitch    Axis
	Yaw      Axis
	Throttle Axis
	// Deadband is the fraction around center reported as zero.
	Deadband float32

	axes map[int]int16
	lock sync.Mutex
}

// DefaultMapper maps a mode 2 transmitter-like gamepad: left stick is
// yaw/throttle, right stick is roll/pitch.
func DefaultMapper() *Mapper {
	return &Mapper{
		Yaw:      Axis{Index: 0},
		Throttle: Axis{Index: 1, Invert: true},
		Roll:     Axis{Index: 3},
		Pitch:    Axis{Index: 4, Invert: true},
		Deadband: 0.02,
	}
}

// Apply records an axis event. Others are ignored.
func (m *Mapper) Apply(ev device.Event) {
	if ev.Kind != device.EventAxis {
		return
	}
	m.lock.Lock()
	if m.axes == nil {
		m.axes = make(map[int]int16)
	}
	m.axes[ev.Index] = ev.Value
	m.lock.Unlock()
}

// ControlInput builds the payload from current positions.
func (m *Mapper) ControlInput() payload.ControlInput {
	m.lock.Lock()
	defer m.lock.Unlock()
	return payload.ControlInput{
		Roll:     m.stick(m.Roll),
		Pitch:    m.stick(m.Pitch),
		Yaw:      m.stick(m.Yaw),
		Throttle: (m.normalize(m.Throttle, 0) + 1) / 2,
	}
}

func (m *Mapper) stick(a Axis) float32 {
	v := m.normalize(a, 0)
	if v > -m.Deadband && v < m.Deadband {
		return 0
	}
	return v
}

func (m *Mapper) normalize(a Axis, center float32) float32 {
	if a.Index < 0 {
		return center
	}
	raw, ok := m.axes[a.Index]
	if !ok {
		return center
	}
	v := float32(raw) / device.AxisMax
	if v < -1 {
		v = -1
	}
	if a.Invert {
		v = -v
	}
	return v
}
