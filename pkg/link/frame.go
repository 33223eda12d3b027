package link

import (
	"encoding/binary"
	"io"

	"github.com/robotalks/skylink/pkg/payload"
)

// Address identifies an endpoint on the link.
type Address uint16

// Frame layout.
const (
	StartByte byte = 0xA7
	EndByte   byte = 0xAA

	HeaderSize = 6
	DataSize   = payload.MaxSize
	FrameSize  = HeaderSize + DataSize + 2

	offFrom     = 1
	offTo       = 3
	offType     = 5
	offData     = HeaderSize
	offChecksum = offData + DataSize
	offEnd      = offChecksum + 1
)

// scratch space for payload encoding, larger than the data slot so an
// oversized encoding is detected instead of truncated.
const scratchSize = 64

// Frame is a decoded frame.
type Frame struct {
	From Address
	To   Address
	Type payload.Type
	Data [DataSize]byte
}

// RawFrame is an encoded frame.
type RawFrame [FrameSize]byte

// Marshal encodes the frame.
func (f *Frame) Marshal() (raw RawFrame) {
	raw[0] = StartByte
	binary.LittleEndian.PutUint16(raw[offFrom:], uint16(f.From))
	binary.LittleEndian.PutUint16(raw[offTo:], uint16(f.To))
	raw[offType] = byte(f.Type)
	copy(raw[offData:offChecksum], f.Data[:])
	raw[offChecksum] = checksum(raw[:offChecksum])
	raw[offEnd] = EndByte
	return
}

// Payload decodes the payload in the data slot.
func (f *Frame) Payload() (payload.Payload, error) {
	return DecodePayload(f)
}

// Bytes returns the encoded bytes for sending.
func (r *RawFrame) Bytes() []byte {
	return r[:]
}

// WriteTo writes the encoded bytes.
func (r *RawFrame) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(r[:])
	return int64(n), err
}

// Encode builds a frame carrying p.
func Encode(p payload.Payload, from, to Address) (raw RawFrame, err error) {
	if p.Size() > DataSize {
		return raw, ErrPayloadTooLarge
	}
	var scratch [scratchSize]byte
	n, err := payload.Encode(p, scratch[:])
	if err != nil {
		return raw, err
	}
	if n > DataSize {
		return raw, ErrPayloadTooLarge
	}
	f := Frame{From: from, To: to, Type: p.Type()}
	copy(f.Data[:], scratch[:n])
	return f.Marshal(), nil
}

// Decode parses a frame from the beginning of b and returns the number of
// bytes consumed, which is always FrameSize on success.
func Decode(b []byte) (f Frame, n int, err error) {
	if len(b) < FrameSize {
		return f, 0, ErrFrameTooShort
	}
	if b[0] != StartByte || b[offEnd] != EndByte {
		return f, 0, ErrInvalidFrame
	}
	if checksum(b[:offChecksum]) != b[offChecksum] {
		return f, 0, ErrCRCMismatch
	}
	f.From = Address(binary.LittleEndian.Uint16(b[offFrom:]))
	f.To = Address(binary.LittleEndian.Uint16(b[offTo:]))
	f.Type = payload.Type(b[offType])
	copy(f.Data[:], b[offData:offChecksum])
	return f, FrameSize, nil
}

// DecodePayload decodes the payload carried by f.
func DecodePayload(f *Frame) (payload.Payload, error) {
	return payload.Decode(f.Type, f.Data[:])
}
