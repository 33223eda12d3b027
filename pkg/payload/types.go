package payload

import (
	"encoding/binary"
	"math"
)

// Type is the tag selecting a payload variant on the wire.
type Type uint8

// Payload types. The values are part of the wire format.
const (
	TypeHeartbeat    Type = 0x01
	TypeAttitude     Type = 0x02
	TypeAltitude     Type = 0x03
	TypeGps          Type = 0x04
	TypeControlInput Type = 0x05
	TypeGyroSample   Type = 0x06
	TypeAccelSample  Type = 0x07
)

// MaxSize is the number of bytes a frame reserves for payload data.
const MaxSize = 55

// Payload is a value which can be carried in a frame.
type Payload interface {
	// Type returns the wire tag.
	Type() Type
	// Size returns the exact number of bytes MarshalTo writes.
	Size() int
	// MarshalTo writes the encoding into b and returns the bytes written.
	MarshalTo(b []byte) (int, error)
}

// Heartbeat carries no data, its arrival is the information.
type Heartbeat struct{}

// Type implements Payload.
func (Heartbeat) Type() Type { return TypeHeartbeat }

// Size implements Payload.
func (Heartbeat) Size() int { return 0 }

// MarshalTo implements Payload.
func (Heartbeat) MarshalTo(b []byte) (int, error) { return 0, nil }

// Attitude is the vehicle orientation in degrees.
type Attitude struct {
	Roll  float32
	Pitch float32
	Yaw   float32
}

// Type implements Payload.
func (Attitude) Type() Type { return TypeAttitude }

// Size implements Payload.
func (Attitude) Size() int { return 12 }

// MarshalTo implements Payload.
func (p Attitude) MarshalTo(b []byte) (int, error) {
	if len(b) < p.Size() {
		return 0, ErrEncodingFailure
	}
	putFloat32(b[0:], p.Roll)
	putFloat32(b[4:], p.Pitch)
	putFloat32(b[8:], p.Yaw)
	return p.Size(), nil
}

// Altitude is the height in meters and the climb rate in meters/second.
type Altitude struct {
	Altitude  float32
	ClimbRate float32
}

// Type implements Payload.
func (Altitude) Type() Type { return TypeAltitude }

// Size implements Payload.
func (Altitude) Size() int { return 8 }

// MarshalTo implements Payload.
func (p Altitude) MarshalTo(b []byte) (int, error) {
	if len(b) < p.Size() {
		return 0, ErrEncodingFailure
	}
	putFloat32(b[0:], p.Altitude)
	putFloat32(b[4:], p.ClimbRate)
	return p.Size(), nil
}

// Gps is a position fix. Lat/Lon are in degrees, Alt in meters.
type Gps struct {
	Lat float64
	Lon float64
	Alt float32
}

// Type implements Payload.
func (Gps) Type() Type { return TypeGps }

// Size implements Payload.
func (Gps) Size() int { return 20 }

// MarshalTo implements Payload.
func (p Gps) MarshalTo(b []byte) (int, error) {
	if len(b) < p.Size() {
		return 0, ErrEncodingFailure
	}
	putFloat64(b[0:], p.Lat)
	putFloat64(b[8:], p.Lon)
	putFloat32(b[16:], p.Alt)
	return p.Size(), nil
}

// ControlInput is a raw pilot command in normalized units.
type ControlInput struct {
	Roll     float32
	Pitch    float32
	Yaw      float32
	Throttle float32
}

// Type implements Payload.
func (ControlInput) Type() Type { return TypeControlInput }

// Size implements Payload.
func (ControlInput) Size() int { return 16 }

// MarshalTo implements Payload.
func (p ControlInput) MarshalTo(b []byte) (int, error) {
	if len(b) < p.Size() {
		return 0, ErrEncodingFailure
	}
	putFloat32(b[0:], p.Roll)
	putFloat32(b[4:], p.Pitch)
	putFloat32(b[8:], p.Yaw)
	putFloat32(b[12:], p.Throttle)
	return p.Size(), nil
}

// GyroSample is an angular rate sample in rad/s.
type GyroSample struct {
	X, Y, Z float32
}

// Type implements Payload.
func (GyroSample) Type() Type { return TypeGyroSample }

// Size implements Payload.
func (GyroSample) Size() int { return 12 }

// MarshalTo implements Payload.
func (p GyroSample) MarshalTo(b []byte) (int, error) {
	return marshalVec3(b, p.X, p.Y, p.Z)
}

// AccelSample is an acceleration sample in m/s².
type AccelSample struct {
	X, Y, Z float32
}

// Type implements Payload.
func (AccelSample) Type() Type { return TypeAccelSample }

// Size implements Payload.
func (AccelSample) Size() int { return 12 }

// MarshalTo implements Payload.
func (p AccelSample) MarshalTo(b []byte) (int, error) {
	return marshalVec3(b, p.X, p.Y, p.Z)
}

func marshalVec3(b []byte, x, y, z float32) (int, error) {
	if len(b) < 12 {
		return 0, ErrEncodingFailure
	}
	putFloat32(b[0:], x)
	putFloat32(b[4:], y)
	putFloat32(b[8:], z)
	return 12, nil
}

func putFloat32(b []byte, v float32) {
	binary.LittleEndian.PutUint32(b, math.Float32bits(v))
}

func putFloat64(b []byte, v float64) {
	binary.LittleEndian.PutUint64(b, math.Float64bits(v))
}

func float32At(b []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b[off:]))
}

func float64At(b []byte, off int) float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(b[off:]))
}
