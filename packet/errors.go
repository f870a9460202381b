package packet

import (
	"errors"
	"fmt"
	"io"
)

var (
	// ErrUnexpectedEnd is returned when a field needs more bytes than the frame holds.
	ErrUnexpectedEnd   = io.ErrUnexpectedEOF
	ErrVarIntTooLarge  = errors.New("VarInt is too large")
	ErrVarLongTooLarge = errors.New("VarLong is too large")
	ErrInvalidUTF8     = errors.New("string is not valid UTF-8")
	ErrNotBoolean      = errors.New("invalid byte for Boolean field")
	ErrNegativeLength  = errors.New("negative length")
	ErrStringTooLong   = errors.New("string exceeds maximum length")
	ErrNotStringTag    = errors.New("text component is not an NBT string tag")

	ErrInvalidPacketID = errors.New("invalid packet id")
	ErrNotExhausted    = errors.New("packet payload not exhausted")
)

// FrameError reports a frame that could not be turned into a packet of the
// connection's current state.
type FrameError struct {
	State State
	ID    int32
	Err   error
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("%s packet 0x%02x: %v", e.State, e.ID, e.Err)
}

func (e *FrameError) Unwrap() error {
	return e.Err
}
