package payload

import (
	"fmt"
	"strings"
)

type entry struct {
	name   string
	size   int
	decode func(b []byte) Payload
}

// Types lists every payload variant. Each one must have a registry entry.
var Types = []Type{
	TypeHeartbeat,
	TypeAttitude,
	TypeAltitude,
	TypeGps,
	TypeControlInput,
	TypeGyroSample,
	TypeAccelSample,
}

var registry = map[Type]entry{
	TypeHeartbeat: {"Heartbeat", 0, func(b []byte) Payload {
		return Heartbeat{}
	}},
	TypeAttitude: {"Attitude", 12, func(b []byte) Payload {
		return Attitude{Roll: float32At(b, 0), Pitch: float32At(b, 4), Yaw: float32At(b, 8)}
	}},
	TypeAltitude: {"Altitude", 8, func(b []byte) Payload {
		return Altitude{Altitude: float32At(b, 0), ClimbRate: float32At(b, 4)}
	}},
	TypeGps: {"Gps", 20, func(b []byte) Payload {
		return Gps{Lat: float64At(b, 0), Lon: float64At(b, 8), Alt: float32At(b, 16)}
	}},
	TypeControlInput: {"ControlInput", 16, func(b []byte) Payload {
		return ControlInput{
			Roll:     float32At(b, 0),
			Pitch:    float32At(b, 4),
			Yaw:      float32At(b, 8),
			Throttle: float32At(b, 12),
		}
	}},
	TypeGyroSample: {"GyroSample", 12, func(b []byte) Payload {
		return GyroSample{X: float32At(b, 0), Y: float32At(b, 4), Z: float32At(b, 8)}
	}},
	TypeAccelSample: {"AccelSample", 12, func(b []byte) Payload {
		return AccelSample{X: float32At(b, 0), Y: float32At(b, 4), Z: float32At(b, 8)}
	}},
}

func init() {
	if err := checkRegistry(); err != nil {
		panic(err)
	}
}

func checkRegistry() error {
	if len(registry) != len(Types) {
		return fmt.Errorf("payload registry has %d entries for %d types", len(registry), len(Types))
	}
	var zero [MaxSize]byte
	for _, t := range Types {
		e, ok := registry[t]
		if !ok {
			return fmt.Errorf("payload type 0x%02x is not registered", uint8(t))
		}
		if e.size > MaxSize {
			return fmt.Errorf("payload %s is %d bytes, exceeds %d", e.name, e.size, MaxSize)
		}
		p := e.decode(zero[:e.size])
		if p.Type() != t || p.Size() != e.size {
			return fmt.Errorf("payload %s registered as 0x%02x/%d but reports 0x%02x/%d",
				e.name, uint8(t), e.size, uint8(p.Type()), p.Size())
		}
	}
	return nil
}

// String returns the variant name.
func (t Type) String() string {
	if e, ok := registry[t]; ok {
		return e.name
	}
	return fmt.Sprintf("Type(0x%02x)", uint8(t))
}

// TypeByName finds the type by its variant name, case insensitive.
func TypeByName(name string) (Type, bool) {
	for _, t := range Types {
		if strings.EqualFold(registry[t].name, name) {
			return t, true
		}
	}
	return 0, false
}

// IsKnown indicates the type is registered.
func (t Type) IsKnown() bool {
	_, ok := registry[t]
	return ok
}

// SizeOf returns the encoded size of a registered type.
func SizeOf(t Type) (int, bool) {
	e, ok := registry[t]
	return e.size, ok
}

// Encode writes the encoding of p into out and returns the bytes written.
func Encode(p Payload, out []byte) (int, error) {
	if len(out) < p.Size() {
		return 0, ErrEncodingFailure
	}
	return p.MarshalTo(out)
}

// Decode decodes a payload of type t from in. Only the variant's fixed
// width is read, trailing bytes are ignored.
func Decode(t Type, in []byte) (Payload, error) {
	e, ok := registry[t]
	if !ok {
		return nil, &ErrUnknownType{Type: t}
	}
	if len(in) < e.size {
		return nil, ErrMalformedPayload
	}
	return e.decode(in[:e.size]), nil
}
