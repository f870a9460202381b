package mcserver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net"
	"runtime"
	"sync"
	"time"
	"weak"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gstoney/mcserver/packet"
	"github.com/gstoney/mcserver/session"
)

// Observer is notified of traffic and state changes on a Conn.
type Observer interface {
	PacketReceived(state packet.State, id int32)
	PacketSent(state packet.State, id int32)
	StateChanged(from, to packet.State)
}

type ConnConfig struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// CloseTimeout bounds the half-close performed by Close.
	CloseTimeout time.Duration

	Transport TransportConfig
	Registry  *packet.Registry
	Observer  Observer
}

func DefaultConnConfig() ConnConfig {
	return ConnConfig{
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 10 * time.Second,
		CloseTimeout: time.Second,
		Transport:    DefaultTransportConfig(),
		Registry:     packet.DefaultRegistry,
	}
}

// Conn is one client connection driven through the protocol states.
//
// Reads are owned by a single goroutine. Writes may come from any goroutine
// and are serialized, so frames never interleave.
type Conn struct {
	raw       net.Conn
	transport *Transport
	registry  *packet.Registry
	cfg       ConnConfig
	logger    zerolog.Logger

	wmu  sync.Mutex
	wbuf bytes.Buffer

	mu        sync.Mutex
	state     packet.State
	session   weak.Pointer[session.Session]
	sessionID uint64
	detach    func(sessionID uint64)

	closeOnce sync.Once
	done      chan struct{}
}

// NewConn wraps an accepted socket. The connection starts in Handshake with
// compression disabled.
func NewConn(raw net.Conn, cfg ConnConfig) *Conn {
	if cfg.Registry == nil {
		cfg.Registry = packet.DefaultRegistry
	}

	c := &Conn{
		raw:       raw,
		transport: NewTransport(raw, raw, cfg.Transport),
		registry:  cfg.Registry,
		cfg:       cfg,
		logger:    log.With().Str("component", "conn").Str("remote", raw.RemoteAddr().String()).Logger(),
		state:     packet.Handshake,
		done:      make(chan struct{}),
	}

	// Drivers always Close; this only catches a Conn that was dropped without it.
	runtime.AddCleanup(c, func(raw net.Conn) { raw.Close() }, raw)
	return c
}

func (c *Conn) RemoteAddr() net.Addr {
	return c.raw.RemoteAddr()
}

// Logger returns the connection's logger, annotated with the peer address.
func (c *Conn) Logger() *zerolog.Logger {
	return &c.logger
}

func (c *Conn) State() packet.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

var transitions = map[packet.State][]packet.State{
	packet.Handshake:     {packet.Status, packet.Login},
	packet.Login:         {packet.Configuration},
	packet.Configuration: {packet.Play},
}

// SetState moves the connection to next. Only the forward transitions of the
// protocol are legal.
func (c *Conn) SetState(next packet.State) error {
	c.mu.Lock()
	cur := c.state
	legal := false
	for _, s := range transitions[cur] {
		if s == next {
			legal = true
			break
		}
	}
	if legal {
		c.state = next
	}
	c.mu.Unlock()

	if !legal {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, cur, next)
	}

	c.logger.Debug().Stringer("from", cur).Stringer("to", next).Msg("state changed")
	if c.cfg.Observer != nil {
		c.cfg.Observer.StateChanged(cur, next)
	}
	return nil
}

// SetCompression sets the compression threshold for both directions.
// A negative threshold disables compression.
func (c *Conn) SetCompression(threshold int) {
	c.wmu.Lock()
	c.transport.CompressionThreshold = threshold
	c.wmu.Unlock()
}

// ReadPacket reads the next packet of the current state under the read timeout.
func (c *Conn) ReadPacket() (packet.Serverbound, error) {
	state := c.State()

	if c.cfg.ReadTimeout > 0 {
		c.raw.SetReadDeadline(time.Now().Add(c.cfg.ReadTimeout))
	}

	f, err := c.transport.Recv()
	if err != nil {
		return nil, classify(state, err)
	}

	p, err := c.registry.Decode(state, f)
	if err != nil {
		return nil, classify(state, err)
	}

	if c.cfg.Observer != nil {
		c.cfg.Observer.PacketReceived(state, f.ID)
	}
	return p, nil
}

// WritePacket encodes p and sends it under the write timeout.
// Packets from one goroutine reach the peer in call order.
func (c *Conn) WritePacket(p packet.Clientbound) error {
	if state := c.State(); p.State() != state {
		return fmt.Errorf("%w: %s packet 0x%02x in %s", ErrWrongState, p.State(), p.ID(), state)
	}

	c.wmu.Lock()
	defer c.wmu.Unlock()

	select {
	case <-c.done:
		return ErrConnectionClosed
	default:
	}

	c.wbuf.Reset()
	if err := p.Encode(&c.wbuf); err != nil {
		return fmt.Errorf("encode %s packet 0x%02x: %w", p.State(), p.ID(), err)
	}

	if c.cfg.WriteTimeout > 0 {
		c.raw.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
	}

	if err := c.transport.Send(p.ID(), c.wbuf.Bytes()); err != nil {
		return classify(p.State(), err)
	}

	if c.cfg.Observer != nil {
		c.cfg.Observer.PacketSent(p.State(), p.ID())
	}
	return nil
}

// Attach links an authenticated session to the connection. detach runs with
// the session id when the connection closes.
func (c *Conn) Attach(s *session.Session, detach func(sessionID uint64)) {
	c.mu.Lock()
	c.session = weak.Make(s)
	c.sessionID = s.ID
	c.detach = detach
	c.mu.Unlock()

	wc := weak.Make(c)
	s.BindKicker(func(reason string) {
		if c := wc.Value(); c != nil {
			c.Disconnect(reason)
		}
	})
}

// Session returns the attached session, or nil if there is none or the
// registry has already let it go.
func (c *Conn) Session() *session.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.Value()
}

type chatText struct {
	Text string `json:"text"`
}

// Disconnect sends the peer a reason where the state has a disconnect packet,
// then closes the connection.
func (c *Conn) Disconnect(reason string) error {
	var p packet.Clientbound

	switch c.State() {
	case packet.Login:
		b, _ := json.Marshal(chatText{reason})
		p = &packet.LoginDisconnect{Reason: string(b)}
	case packet.Configuration:
		p = &packet.ConfigDisconnect{Reason: reason}
	case packet.Play:
		p = &packet.PlayDisconnect{Reason: reason}
	}

	var err error
	if p != nil {
		err = c.WritePacket(p)
	}

	c.logger.Debug().Str("reason", reason).Msg("disconnecting")
	c.Close()
	return err
}

// Close shuts the connection down once: the pending frame finishes, the write
// half is closed under CloseTimeout, the socket is released and the attached
// session is detached.
func (c *Conn) Close() error {
	var err error

	c.closeOnce.Do(func() {
		c.wmu.Lock()
		close(c.done)
		c.wmu.Unlock()

		if cw, ok := c.raw.(interface{ CloseWrite() error }); ok {
			c.raw.SetWriteDeadline(time.Now().Add(c.cfg.CloseTimeout))
			cw.CloseWrite()
		}
		err = c.raw.Close()

		c.teardown()
	})
	return err
}

func (c *Conn) teardown() {
	c.mu.Lock()
	s := c.session.Value()
	id, detach := c.sessionID, c.detach
	c.detach = nil
	c.mu.Unlock()

	if s != nil {
		s.MarkDisconnected()
	}
	if detach != nil {
		detach(id)
	}
}

// Done is closed once Close has run.
func (c *Conn) Done() <-chan struct{} {
	return c.done
}
