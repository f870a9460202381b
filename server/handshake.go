package server

import (
	"errors"
	"fmt"

	"github.com/gstoney/mcserver"
	"github.com/gstoney/mcserver/packet"
)

var (
	ErrUnexpectedPacket = errors.New("unexpected packet")
	ErrUnknownIntent    = errors.New("unknown handshake intent")
)

func unexpected(state packet.State, p packet.Packet) error {
	return &mcserver.ProtocolError{
		State: state,
		Err:   fmt.Errorf("%w 0x%02x (%T)", ErrUnexpectedPacket, p.ID(), p),
	}
}

// handshake reads the Intention and moves the connection to the state it
// asks for. Transfers log in like a fresh connection.
func (s *Server) handshake(c *mcserver.Conn) (*packet.Intention, error) {
	p, err := c.ReadPacket()
	if err != nil {
		return nil, err
	}

	intent, ok := p.(*packet.Intention)
	if !ok {
		return nil, unexpected(packet.Handshake, p)
	}

	c.Logger().Debug().
		Int32("protocol", intent.ProtocolVersion).
		Str("host", intent.ServerAddr).
		Uint16("port", intent.ServerPort).
		Int32("next_state", intent.NextState).
		Msg("handshake")

	var next packet.State
	switch intent.NextState {
	case packet.IntentStatus:
		next = packet.Status
	case packet.IntentLogin, packet.IntentTransfer:
		next = packet.Login
	default:
		return nil, &mcserver.ProtocolError{
			State: packet.Handshake,
			Err:   fmt.Errorf("%w %d", ErrUnknownIntent, intent.NextState),
		}
	}

	if s.Metrics != nil {
		s.Metrics.Connections.WithLabelValues(intentLabel(intent.NextState)).Inc()
	}
	return intent, c.SetState(next)
}

func intentLabel(next int32) string {
	switch next {
	case packet.IntentStatus:
		return "status"
	case packet.IntentLogin:
		return "login"
	case packet.IntentTransfer:
		return "transfer"
	}
	return "unknown"
}
