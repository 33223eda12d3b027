package msgs

import (
	"errors"
	"fmt"

	"github.com/golang/protobuf/proto"

	"github.com/robotalks/skylink/pkg/payload"
)

// TypeID masks
const (
	TypeIDMaskKind  uint32 = 0x80000000
	TypeIDMaskGroup uint32 = 0x7fff0000
	TypeIDMaskID    uint32 = 0x0000ffff
)

// Message Kinds
const (
	TypeIDKindCommand uint32 = 0x00000000
	TypeIDKindEvent   uint32 = 0x80000000
)

// GroupLink is the group of messages mirroring link payloads. The ID part
// is the payload type tag.
const GroupLink uint32 = 0x00010000

// Type IDs
const (
	HeartbeatTypeID    uint32 = GroupLink | TypeIDKindEvent | uint32(payload.TypeHeartbeat)
	AttitudeTypeID     uint32 = GroupLink | TypeIDKindEvent | uint32(payload.TypeAttitude)
	AltitudeTypeID     uint32 = GroupLink | TypeIDKindEvent | uint32(payload.TypeAltitude)
	GpsTypeID          uint32 = GroupLink | TypeIDKindEvent | uint32(payload.TypeGps)
	ControlInputTypeID uint32 = GroupLink | TypeIDKindCommand | uint32(payload.TypeControlInput)
	GyroSampleTypeID   uint32 = GroupLink | TypeIDKindEvent | uint32(payload.TypeGyroSample)
	AccelSampleTypeID  uint32 = GroupLink | TypeIDKindEvent | uint32(payload.TypeAccelSample)
)

// Message is a bus message mirroring a payload.
type Message interface {
	proto.Message
	// NewMessage creates an empty message of the same type.
	NewMessage() Message
	TypeID() uint32
	// Payload converts the message back to the link payload.
	Payload() payload.Payload
}

// MessageTypes are predefined mapping of type ID to messages.
var MessageTypes = map[uint32]Message{
	HeartbeatTypeID:    (*Heartbeat)(nil),
	AttitudeTypeID:     (*Attitude)(nil),
	AltitudeTypeID:     (*Altitude)(nil),
	GpsTypeID:          (*Gps)(nil),
	ControlInputTypeID: (*ControlInput)(nil),
	GyroSampleTypeID:   (*GyroSample)(nil),
	AccelSampleTypeID:  (*AccelSample)(nil),
}

// TypeIDOf maps a payload type to the type ID of its mirror.
func TypeIDOf(t payload.Type) uint32 {
	for id := range MessageTypes {
		if id&TypeIDMaskID == uint32(t) {
			return id
		}
	}
	return GroupLink | uint32(t)
}

// ErrUnknownType indicates unknown type id.
type ErrUnknownType struct {
	TypeID uint32
}

// Error implements error.
func (e *ErrUnknownType) Error() string {
	return fmt.Sprintf("unknown type: %x", e.TypeID)
}

// ErrAddressRange indicates an address in the envelope doesn't fit a
// link address.
var ErrAddressRange = errors.New("address out of range")

// Typed wraps a message with type information and link addresses.
type Typed struct {
	TypeID  uint32 `protobuf:"varint,1,opt,name=type_id,json=typeId,proto3" json:"type_id,omitempty"`
	From    uint32 `protobuf:"varint,2,opt,name=from,proto3" json:"from,omitempty"`
	To      uint32 `protobuf:"varint,3,opt,name=to,proto3" json:"to,omitempty"`
	Message []byte `protobuf:"bytes,4,opt,name=message,proto3" json:"message,omitempty"`
}

// ProtoMessage implements proto.Message.
func (p *Typed) ProtoMessage() {}

// Reset implements proto.Message.
func (p *Typed) Reset() { *p = Typed{} }

// String implements proto.Message.
func (p *Typed) String() string { return proto.CompactTextString(p) }

// TypedFrom creates a Typed from a message.
func TypedFrom(msg Message, from, to uint16) (*Typed, error) {
	data, err := proto.Marshal(msg)
	if err != nil {
		return nil, err
	}
	return &Typed{TypeID: msg.TypeID(), From: uint32(from), To: uint32(to), Message: data}, nil
}

// TypedFromPayload creates a Typed from a link payload.
func TypedFromPayload(p payload.Payload, from, to uint16) (*Typed, error) {
	msg, err := FromPayload(p)
	if err != nil {
		return nil, err
	}
	return TypedFrom(msg, from, to)
}

// Decode decodes the packet into actual message.
func (p *Typed) Decode() (Message, error) {
	msgType, ok := MessageTypes[p.TypeID]
	if !ok {
		return nil, &ErrUnknownType{TypeID: p.TypeID}
	}
	msg := msgType.NewMessage()
	if err := proto.Unmarshal(p.Message, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// Payload decodes the packet into a link payload.
func (p *Typed) Payload() (payload.Payload, error) {
	msg, err := p.Decode()
	if err != nil {
		return nil, err
	}
	return msg.Payload(), nil
}

// Addresses returns From and To as link addresses.
func (p *Typed) Addresses() (from, to uint16, err error) {
	if p.From > 0xffff || p.To > 0xffff {
		return 0, 0, ErrAddressRange
	}
	return uint16(p.From), uint16(p.To), nil
}

// Encode encodes the Typed to bytes.
func (p *Typed) Encode() ([]byte, error) {
	return proto.Marshal(p)
}

// Kind gets message kind from type ID.
func (p *Typed) Kind() uint32 {
	return p.TypeID & TypeIDMaskKind
}

// IsCommand determines if the message is a command.
func (p *Typed) IsCommand() bool {
	return p.Kind() == TypeIDKindCommand
}

// IsEvent determines if the message is an event.
func (p *Typed) IsEvent() bool {
	return p.Kind() == TypeIDKindEvent
}

// DecodeTyped decodes bytes into Typed.
func DecodeTyped(data []byte) (*Typed, error) {
	var typed Typed
	if err := proto.Unmarshal(data, &typed); err != nil {
		return nil, err
	}
	return &typed, nil
}
