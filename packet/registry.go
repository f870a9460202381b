package packet

// Table maps the inbound packet ids of one state to constructors of that
// state's packet union.
type Table[P Serverbound] map[int32]func() P

func (t Table[P]) Has(id int32) bool {
	_, ok := t[id]
	return ok
}

// Registry resolves inbound frames to typed packets for every state.
// It is immutable after NewRegistry returns and safe for concurrent use.
type Registry struct {
	handshake Table[HandshakeInbound]
	status    Table[StatusInbound]
	login     Table[LoginInbound]
	config    Table[ConfigInbound]
	play      Table[PlayInbound]
}

// lastPlayServerboundID is the highest serverbound Play id of protocol 767.
const lastPlayServerboundID = 0x39

func NewRegistry() *Registry {
	reg := &Registry{
		handshake: Table[HandshakeInbound]{
			0x00: func() HandshakeInbound { return new(Intention) },
		},
		status: Table[StatusInbound]{
			0x00: func() StatusInbound { return new(StatusRequest) },
			0x01: func() StatusInbound { return new(PingRequest) },
		},
		login: Table[LoginInbound]{
			0x00: func() LoginInbound { return new(LoginStart) },
			0x02: func() LoginInbound { return new(LoginPluginResponse) },
			0x03: func() LoginInbound { return new(LoginAcknowledged) },
			0x04: func() LoginInbound { return new(CookieResponse) },
		},
		config: Table[ConfigInbound]{
			0x00: func() ConfigInbound { return new(ConfigClientInformation) },
			0x02: func() ConfigInbound { return new(ConfigPluginMessage) },
			0x03: func() ConfigInbound { return new(AcknowledgeFinishConfiguration) },
			0x04: func() ConfigInbound { return new(ConfigKeepAlive) },
			0x05: func() ConfigInbound { return new(ConfigPong) },
			0x06: func() ConfigInbound { return new(ResourcePackResponse) },
			0x07: func() ConfigInbound { return new(KnownPacks) },
		},
		play: Table[PlayInbound]{
			0x00: func() PlayInbound { return new(ConfirmTeleportation) },
			0x04: func() PlayInbound { return new(ChatCommand) },
			0x0A: func() PlayInbound { return new(PlayClientInformation) },
			0x12: func() PlayInbound { return new(PlayPluginMessage) },
			0x18: func() PlayInbound { return new(PlayKeepAlive) },
			0x1A: func() PlayInbound { return new(SetPlayerPosition) },
			0x1B: func() PlayInbound { return new(SetPlayerPositionAndRotation) },
			0x1C: func() PlayInbound { return new(SetPlayerRotation) },
			0x1D: func() PlayInbound { return new(SetPlayerOnGround) },
		},
	}

	for id := int32(0); id <= lastPlayServerboundID; id++ {
		if !reg.play.Has(id) {
			reg.play[id] = func() PlayInbound { return &Opaque{PacketID: id} }
		}
	}
	return reg
}

// DefaultRegistry is shared by every connection that is not given its own.
var DefaultRegistry = NewRegistry()

// Has reports whether id is a valid inbound packet in state.
func (reg *Registry) Has(state State, id int32) bool {
	switch state {
	case Handshake:
		return reg.handshake.Has(id)
	case Status:
		return reg.status.Has(id)
	case Login:
		return reg.login.Has(id)
	case Configuration:
		return reg.config.Has(id)
	case Play:
		return reg.play.Has(id)
	}
	return false
}

// Decode turns a frame into the inbound packet registered for (state, id).
// The payload must be consumed exactly.
func (reg *Registry) Decode(state State, f Frame) (Serverbound, error) {
	switch state {
	case Handshake:
		return decodeFrame(reg.handshake, state, f)
	case Status:
		return decodeFrame(reg.status, state, f)
	case Login:
		return decodeFrame(reg.login, state, f)
	case Configuration:
		return decodeFrame(reg.config, state, f)
	case Play:
		return decodeFrame(reg.play, state, f)
	}
	return nil, &FrameError{State: state, ID: f.ID, Err: ErrInvalidPacketID}
}

func decodeFrame[P Serverbound](t Table[P], state State, f Frame) (Serverbound, error) {
	newPacket, ok := t[f.ID]
	if !ok {
		return nil, &FrameError{State: state, ID: f.ID, Err: ErrInvalidPacketID}
	}

	p := newPacket()
	r := NewReader(f.Payload)
	if err := p.Decode(&r); err != nil {
		return nil, &FrameError{State: state, ID: f.ID, Err: err}
	}
	if r.Remaining() != 0 {
		return nil, &FrameError{State: state, ID: f.ID, Err: ErrNotExhausted}
	}
	return p, nil
}
