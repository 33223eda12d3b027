package payload

import (
	"errors"
	"fmt"
)

var (
	// ErrEncodingFailure indicates the output buffer can't hold the encoding.
	ErrEncodingFailure = errors.New("payload encoding does not fit")
	// ErrMalformedPayload indicates the bytes are too short for the variant
	// selected by the type tag.
	ErrMalformedPayload = errors.New("malformed payload")
)

// ErrUnknownType indicates the type tag is not registered.
type ErrUnknownType struct {
	Type Type
}

// Error implements error.
func (e *ErrUnknownType) Error() string {
	return fmt.Sprintf("unknown payload type: 0x%02x", uint8(e.Type))
}
