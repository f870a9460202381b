package packet

// HandshakeInbound is the closed set of packets a client may send in the Handshake state.
type HandshakeInbound interface {
	Serverbound
	handshakeInbound()
}

type Intention struct {
	ProtocolVersion int32
	ServerAddr      string
	ServerPort      uint16
	NextState       int32
}

var intentionSchema = NewSchema("Intention",
	Field("protocol_version", func(p *Intention) *int32 { return &p.ProtocolVersion }, VarInt),
	Field("server_address", func(p *Intention) *string { return &p.ServerAddr }, BoundedString(255)),
	Field("server_port", func(p *Intention) *uint16 { return &p.ServerPort }, UnsignedShort),
	Field("next_state", func(p *Intention) *int32 { return &p.NextState }, VarInt),
)

func (p *Intention) ID() int32              { return 0x00 }
func (p *Intention) State() State           { return Handshake }
func (p *Intention) Decode(r *Reader) error { return intentionSchema.Decode(r, p) }
func (p *Intention) handshakeInbound()      {}
