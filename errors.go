package mcserver

import (
	"compress/flate"
	"compress/zlib"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"syscall"

	"github.com/gstoney/mcserver/packet"
)

var (
	ErrConnectionClosed  = errors.New("connection closed")
	ErrTimeout           = errors.New("connection timed out")
	ErrIllegalTransition = errors.New("illegal state transition")
	ErrWrongState        = errors.New("packet does not belong to the connection state")
)

// ProtocolError is a malformed frame or a packet that breaks the protocol.
// It always ends the connection.
type ProtocolError struct {
	State packet.State
	Err   error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("protocol error in %s: %v", e.State, e.Err)
}

func (e *ProtocolError) Unwrap() error {
	return e.Err
}

// classify maps a raw read or write error onto the connection error taxonomy.
func classify(state packet.State, err error) error {
	if err == nil {
		return nil
	}

	var (
		fe      *packet.FrameError
		corrupt flate.CorruptInputError
		ne      net.Error
	)

	switch {
	case errors.As(err, &fe), errors.As(err, &corrupt):
		return &ProtocolError{State: state, Err: err}
	case errors.Is(err, ErrPacketTooBig),
		errors.Is(err, ErrInvalidFrameLength),
		errors.Is(err, ErrInvalidDataLength),
		errors.Is(err, ErrZlibPayloadOverrun),
		errors.Is(err, ErrZlibPayloadUnderrun),
		errors.Is(err, ErrZlibTrailingData),
		errors.Is(err, zlib.ErrHeader),
		errors.Is(err, zlib.ErrChecksum),
		errors.Is(err, packet.ErrVarIntTooLarge):
		return &ProtocolError{State: state, Err: err}
	case errors.Is(err, os.ErrDeadlineExceeded), errors.As(err, &ne) && ne.Timeout():
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	case errors.Is(err, io.EOF),
		errors.Is(err, io.ErrUnexpectedEOF),
		errors.Is(err, io.ErrClosedPipe),
		errors.Is(err, net.ErrClosed),
		errors.Is(err, syscall.ECONNRESET),
		errors.Is(err, syscall.EPIPE):
		return fmt.Errorf("%w: %w", ErrConnectionClosed, err)
	}
	return fmt.Errorf("connection i/o: %w", err)
}
