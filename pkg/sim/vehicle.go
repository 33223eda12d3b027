package sim

import (
	"math"
	"time"

	"github.com/robotalks/skylink/pkg/payload"
)

const (
	// StandardGravity in m/s^2.
	StandardGravity = 9.80665
	earthRadius     = 6371000.0
	// tiltResponse is the time constant of roll/pitch following the sticks.
	tiltResponse = 200 * time.Millisecond
)

// Caps defines the flight envelope of a vehicle.
type Caps struct {
	// MaxTilt is the roll/pitch at full stick.
	MaxTilt Angle
	// MaxYawRate in radians/second at full stick.
	MaxYawRate float64
	// MaxClimbRate in meters/second at full or zero throttle.
	MaxClimbRate float64
	// MaxSpeed is the ground speed in meters/second at MaxTilt.
	MaxSpeed float64
	// ControlTimeout falls back to hover when no control input arrives.
	// Zero disables the fallback.
	ControlTimeout time.Duration
}

// State is the simulated state of a vehicle.
type State struct {
	Roll, Pitch, Yaw Angle
	// Altitude above the ground in meters, never negative.
	Altitude  float64
	ClimbRate float64
	// Lat, Lon in degrees.
	Lat, Lon float64
	// Angular rates in radians/second during the last step.
	RollRate, PitchRate, YawRate float64
}

// Hover is the neutral control input holding the altitude.
var Hover = payload.ControlInput{Throttle: 0.5}

// Vehicle is a simple multirotor model driven by control inputs.
type Vehicle struct {
	Caps  Caps
	State State

	control     payload.ControlInput
	controlTime time.Time
	lastStep    time.Time
}

// NewVehicle creates a landed vehicle at the given position.
func NewVehicle(caps Caps, lat, lon float64) *Vehicle {
	return &Vehicle{
		Caps:    caps,
		State:   State{Lat: lat, Lon: lon},
		control: Hover,
	}
}

// Control sets the control input, values are clamped to their ranges.
func (v *Vehicle) Control(in payload.ControlInput, now time.Time) {
	v.control = payload.ControlInput{
		Roll:     clamp(in.Roll, -1, 1),
		Pitch:    clamp(in.Pitch, -1, 1),
		Yaw:      clamp(in.Yaw, -1, 1),
		Throttle: clamp(in.Throttle, 0, 1),
	}
	v.controlTime = now
}

// CurrentControl returns the control input in effect at now.
func (v *Vehicle) CurrentControl(now time.Time) payload.ControlInput {
	if v.Caps.ControlTimeout > 0 && now.Sub(v.controlTime) > v.Caps.ControlTimeout {
		return Hover
	}
	return v.control
}

// Step advances the simulation to now.
func (v *Vehicle) Step(now time.Time) {
	if v.lastStep.IsZero() {
		v.lastStep = now
		return
	}
	dt := now.Sub(v.lastStep).Seconds()
	v.lastStep = now
	if dt <= 0 {
		return
	}
	in, s := v.CurrentControl(now), &v.State

	k := math.Min(1, dt/tiltResponse.Seconds())
	maxTilt := v.Caps.MaxTilt.Radians()
	roll := s.Roll.Radians() + (float64(in.Roll)*maxTilt-s.Roll.Radians())*k
	pitch := s.Pitch.Radians() + (float64(in.Pitch)*maxTilt-s.Pitch.Radians())*k
	s.RollRate, s.PitchRate = (roll-s.Roll.Radians())/dt, (pitch-s.Pitch.Radians())/dt
	s.Roll, s.Pitch = AngleFromRadians(roll), AngleFromRadians(pitch)
	s.YawRate = float64(in.Yaw) * v.Caps.MaxYawRate
	s.Yaw = s.Yaw.AddRadians(s.YawRate * dt)

	s.ClimbRate = (float64(in.Throttle) - 0.5) * 2 * v.Caps.MaxClimbRate
	s.Altitude += s.ClimbRate * dt
	if s.Altitude <= 0 {
		s.Altitude, s.ClimbRate = 0, 0
	}
	if s.Altitude == 0 || maxTilt == 0 {
		return
	}

	// nose down (negative pitch) flies forward, right roll flies right.
	forward := -pitch / maxTilt * v.Caps.MaxSpeed
	right := roll / maxTilt * v.Caps.MaxSpeed
	north := forward*s.Yaw.Cos() - right*s.Yaw.Sin()
	east := forward*s.Yaw.Sin() + right*s.Yaw.Cos()
	s.Lat += north * dt / earthRadius * 180 / math.Pi
	s.Lon += east * dt / (earthRadius * math.Cos(s.Lat*math.Pi/180)) * 180 / math.Pi
}

// Telemetry returns the payloads reporting the current state.
func (v *Vehicle) Telemetry() []payload.Payload {
	s := &v.State
	return []payload.Payload{
		payload.Attitude{
			Roll:  float32(s.Roll.Degrees()),
			Pitch: float32(s.Pitch.Degrees()),
			Yaw:   float32(s.Yaw.Degrees()),
		},
		payload.Altitude{Altitude: float32(s.Altitude), ClimbRate: float32(s.ClimbRate)},
		payload.Gps{Lat: s.Lat, Lon: s.Lon, Alt: float32(s.Altitude)},
		payload.GyroSample{X: float32(s.RollRate), Y: float32(s.PitchRate), Z: float32(s.YawRate)},
		v.accel(),
	}
}

// accel is the specific force in body frame (z down) when not accelerating.
func (v *Vehicle) accel() payload.AccelSample {
	s := &v.State
	return payload.AccelSample{
		X: float32(StandardGravity * s.Pitch.Sin()),
		Y: float32(-StandardGravity * s.Roll.Sin() * s.Pitch.Cos()),
		Z: float32(-StandardGravity * s.Roll.Cos() * s.Pitch.Cos()),
	}
}

func clamp(v, min, max float32) float32 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
