package link

import (
	"errors"

	"github.com/robotalks/skylink/pkg/payload"
)

var (
	// ErrPayloadTooLarge indicates the payload doesn't fit in the data slot.
	ErrPayloadTooLarge = errors.New("payload too large")
	// ErrEncodingFailure indicates the payload can't be encoded into the
	// scratch buffer.
	ErrEncodingFailure = payload.ErrEncodingFailure
	// ErrFrameTooShort indicates fewer bytes than a whole frame.
	ErrFrameTooShort = errors.New("frame too short")
	// ErrInvalidFrame indicates the start or end sentinel is missing.
	ErrInvalidFrame = errors.New("invalid frame")
	// ErrCRCMismatch indicates the frame was corrupted.
	ErrCRCMismatch = errors.New("crc mismatch")
)
