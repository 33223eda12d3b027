package msgs

import (
	"github.com/golang/protobuf/proto"

	"github.com/robotalks/skylink/pkg/payload"
)

// Heartbeat mirrors payload.Heartbeat.
type Heartbeat struct {
}

// NewMessage implements Message.
func (m *Heartbeat) NewMessage() Message { return &Heartbeat{} }

// TypeID implements Message.
func (m *Heartbeat) TypeID() uint32 { return HeartbeatTypeID }

// Payload implements Message.
func (m *Heartbeat) Payload() payload.Payload { return payload.Heartbeat{} }

// ProtoMessage implements proto.Message.
func (m *Heartbeat) ProtoMessage() {}

// Reset implements proto.Message.
func (m *Heartbeat) Reset() { *m = Heartbeat{} }

// String implements proto.Message.
func (m *Heartbeat) String() string { return proto.CompactTextString(m) }

// Attitude mirrors payload.Attitude.
type Attitude struct {
	Roll  float32 `protobuf:"fixed32,1,opt,name=roll,proto3" json:"roll,omitempty"`
	Pitch float32 `protobuf:"fixed32,2,opt,name=pitch,proto3" json:"pitch,omitempty"`
	Yaw   float32 `protobuf:"fixed32,3,opt,name=yaw,proto3" json:"yaw,omitempty"`
}

// NewMessage implements Message.
func (m *Attitude) NewMessage() Message { return &Attitude{} }

// TypeID implements Message.
func (m *Attitude) TypeID() uint32 { return AttitudeTypeID }

// Payload implements Message.
func (m *Attitude) Payload() payload.Payload {
	return payload.Attitude{Roll: m.Roll, Pitch: m.Pitch, Yaw: m.Yaw}
}

// ProtoMessage implements proto.Message.
func (m *Attitude) ProtoMessage() {}

// Reset implements proto.Message.
func (m *Attitude) Reset() { *m = Attitude{} }

// String implements proto.Message.
func (m *Attitude) String() string { return proto.CompactTextString(m) }

// Altitude mirrors payload.Altitude.
type Altitude struct {
	Altitude  float32 `protobuf:"fixed32,1,opt,name=altitude,proto3" json:"altitude,omitempty"`
	ClimbRate float32 `protobuf:"fixed32,2,opt,name=climb_rate,json=climbRate,proto3" json:"climb_rate,omitempty"`
}

// NewMessage implements Message.
func (m *Altitude) NewMessage() Message { return &Altitude{} }

// TypeID implements Message.
func (m *Altitude) TypeID() uint32 { return AltitudeTypeID }

// Payload implements Message.
func (m *Altitude) Payload() payload.Payload {
	return payload.Altitude{Altitude: m.Altitude, ClimbRate: m.ClimbRate}
}

// ProtoMessage implements proto.Message.
func (m *Altitude) ProtoMessage() {}

// Reset implements proto.Message.
func (m *Altitude) Reset() { *m = Altitude{} }

// String implements proto.Message.
func (m *Altitude) String() string { return proto.CompactTextString(m) }

// Gps mirrors payload.Gps.
type Gps struct {
	Lat float64 `protobuf:"fixed64,1,opt,name=lat,proto3" json:"lat,omitempty"`
	Lon float64 `protobuf:"fixed64,2,opt,name=lon,proto3" json:"lon,omitempty"`
	Alt float32 `protobuf:"fixed32,3,opt,name=alt,proto3" json:"alt,omitempty"`
}

// NewMessage implements Message.
func (m *Gps) NewMessage() Message { return &Gps{} }

// TypeID implements Message.
func (m *Gps) TypeID() uint32 { return GpsTypeID }

// Payload implements Message.
func (m *Gps) Payload() payload.Payload {
	return payload.Gps{Lat: m.Lat, Lon: m.Lon, Alt: m.Alt}
}

// ProtoMessage implements proto.Message.
func (m *Gps) ProtoMessage() {}

// Reset implements proto.Message.
func (m *Gps) Reset() { *m = Gps{} }

// String implements proto.Message.
func (m *Gps) String() string { return proto.CompactTextString(m) }

// ControlInput mirrors payload.ControlInput.
type ControlInput struct {
	Roll     float32 `protobuf:"fixed32,1,opt,name=roll,proto3" json:"roll,omitempty"`
	Pitch    float32 `protobuf:"fixed32,2,opt,name=pitch,proto3" json:"pitch,omitempty"`
	Yaw      float32 `protobuf:"fixed32,3,opt,name=yaw,proto3" json:"yaw,omitempty"`
	Throttle float32 `protobuf:"fixed32,4,opt,name=throttle,proto3" json:"throttle,omitempty"`
}

// NewMessage implements Message.
func (m *ControlInput) NewMessage() Message { return &ControlInput{} }

// TypeID implements Message.
func (m *ControlInput) TypeID() uint32 { return ControlInputTypeID }

// Payload implements Message.
func (m *ControlInput) Payload() payload.Payload {
	return payload.ControlInput{Roll: m.Roll, Pitch: m.Pitch, Yaw: m.Yaw, Throttle: m.Throttle}
}

// ProtoMessage implements proto.Message.
func (m *ControlInput) ProtoMessage() {}

// Reset implements proto.Message.
func (m *ControlInput) Reset() { *m = ControlInput{} }

// String implements proto.Message.
func (m *ControlInput) String() string { return proto.CompactTextString(m) }

// GyroSample mirrors payload.GyroSample.
type GyroSample struct {
	X float32 `protobuf:"fixed32,1,opt,name=x,proto3" json:"x,omitempty"`
	Y float32 `protobuf:"fixed32,2,opt,name=y,proto3" json:"y,omitempty"`
	Z float32 `protobuf:"fixed32,3,opt,name=z,proto3" json:"z,omitempty"`
}

// NewMessage implements Message.
func (m *GyroSample) NewMessage() Message { return &GyroSample{} }

// TypeID implements Message.
func (m *GyroSample) TypeID() uint32 { return GyroSampleTypeID }

// Payload implements Message.
func (m *GyroSample) Payload() payload.Payload {
	return payload.GyroSample{X: m.X, Y: m.Y, Z: m.Z}
}

// ProtoMessage implements proto.Message.
func (m *GyroSample) ProtoMessage() {}

// Reset implements proto.Message.
func (m *GyroSample) Reset() { *m = GyroSample{} }

// String implements proto.Message.
func (m *GyroSample) String() string { return proto.CompactTextString(m) }

// AccelSample mirrors payload.AccelSample.
type AccelSample struct {
	X float32 `protobuf:"fixed32,1,opt,name=x,proto3" json:"x,omitempty"`
	Y float32 `protobuf:"fixed32,2,opt,name=y,proto3" json:"y,omitempty"`
	Z float32 `protobuf:"fixed32,3,opt,name=z,proto3" json:"z,omitempty"`
}

// NewMessage implements Message.
func (m *AccelSample) NewMessage() Message { return &AccelSample{} }

// TypeID implements Message.
func (m *AccelSample) TypeID() uint32 { return AccelSampleTypeID }

// Payload implements Message.
func (m *AccelSample) Payload() payload.Payload {
	return payload.AccelSample{X: m.X, Y: m.Y, Z: m.Z}
}

// ProtoMessage implements proto.Message.
func (m *AccelSample) ProtoMessage() {}

// Reset implements proto.Message.
func (m *AccelSample) Reset() { *m = AccelSample{} }

// String implements proto.Message.
func (m *AccelSample) String() string { return proto.CompactTextString(m) }

// FromPayload creates the message mirroring p.
func FromPayload(p payload.Payload) (Message, error) {
	switch v := p.(type) {
	case payload.Heartbeat:
		return &Heartbeat{}, nil
	case payload.Attitude:
		return &Attitude{Roll: v.Roll, Pitch: v.Pitch, Yaw: v.Yaw}, nil
	case payload.Altitude:
		return &Altitude{Altitude: v.Altitude, ClimbRate: v.ClimbRate}, nil
	case payload.Gps:
		return &Gps{Lat: v.Lat, Lon: v.Lon, Alt: v.Alt}, nil
	case payload.ControlInput:
		return &ControlInput{Roll: v.Roll, Pitch: v.Pitch, Yaw: v.Yaw, Throttle: v.Throttle}, nil
	case payload.GyroSample:
		return &GyroSample{X: v.X, Y: v.Y, Z: v.Z}, nil
	case payload.AccelSample:
		return &AccelSample{X: v.X, Y: v.Y, Z: v.Z}, nil
	}
	return nil, &ErrUnknownType{TypeID: TypeIDOf(p.Type())}
}
