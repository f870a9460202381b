// Package packet implements the Minecraft Java protocol field codec, the
// packet types of every connection state and the inbound packet registry.
package packet

import (
	"io"
)

// ProtocolVersion is the protocol spoken by this package (Minecraft 1.21 / 1.21.1).
const (
	ProtocolVersion = 767
	VersionName     = "1.21.1"
)

// State is the protocol phase that decides which packet ids are valid.
type State byte

const (
	Handshake State = iota
	Status
	Login
	Configuration
	Play
)

func (s State) String() string {
	switch s {
	case Handshake:
		return "Handshake"
	case Status:
		return "Status"
	case Login:
		return "Login"
	case Configuration:
		return "Configuration"
	case Play:
		return "Play"
	}
	return "Unknown"
}

// Handshake intents carried in the next_state field.
const (
	IntentStatus   = 1
	IntentLogin    = 2
	IntentTransfer = 3
)

type Packet interface {
	ID() int32
	State() State
}

// Clientbound packets are sent by the server and can only be encoded.
type Clientbound interface {
	Packet
	Encode(w io.Writer) error
}

// Serverbound packets are sent by the client and can only be decoded.
type Serverbound interface {
	Packet
	Decode(r *Reader) error
}

// Frame is one undecoded packet: its id and the payload that follows it.
type Frame struct {
	ID      int32
	Payload []byte
}

// Property is a signed game profile property, such as the skin "textures".
type Property struct {
	Name      string
	Value     string
	Signature Optional[string]
}

func writeProperty(w io.Writer, v Property) (err error) {
	if err = WriteString(w, v.Name); err != nil {
		return
	}
	if err = WriteString(w, v.Value); err != nil {
		return
	}
	err = WriteOptional(w, v.Signature, WriteString)
	return
}

func readProperty(r *Reader) (v Property, err error) {
	if v.Name, err = ReadString(r); err != nil {
		return
	}
	if v.Value, err = ReadString(r); err != nil {
		return
	}
	v.Signature, err = ReadOptional(r, ReadString)
	return
}

var PropertyCodec = Codec[Property]{writeProperty, readProperty}
