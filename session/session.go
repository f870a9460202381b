// Package session holds authenticated players and the server-wide registry
// that owns them.
package session

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gstoney/mcserver/packet"
)

// InboundQueueLen is the number of Play packets buffered for external handlers.
const InboundQueueLen = 64

var lastID atomic.Uint64

// A Session is one authenticated player. It is owned by the Registry;
// connections only keep weak references to it.
type Session struct {
	ID         uint64
	UUID       uuid.UUID
	Name       string
	Properties []packet.Property
	RemoteAddr string
	CreatedAt  time.Time

	connected atomic.Bool
	settings  atomic.Pointer[packet.ClientSettings]

	mu   sync.Mutex
	kick func(reason string)
	done chan struct{}

	inbound chan packet.PlayInbound
}

// New creates a connected session with a process-unique ID.
func New(id uuid.UUID, name string, props []packet.Property, remote string) *Session {
	s := &Session{
		ID:         lastID.Add(1),
		UUID:       id,
		Name:       name,
		Properties: props,
		RemoteAddr: remote,
		CreatedAt:  time.Now(),
		done:       make(chan struct{}),
		inbound:    make(chan packet.PlayInbound, InboundQueueLen),
	}
	s.connected.Store(true)
	return s
}

// Connected reports whether the session is still live. It clears exactly once.
func (s *Session) Connected() bool {
	return s.connected.Load()
}

// Done is closed when the connected flag clears.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// MarkDisconnected clears the connected flag. It reports whether this call
// cleared it.
func (s *Session) MarkDisconnected() bool {
	if !s.connected.CompareAndSwap(true, false) {
		return false
	}
	close(s.done)
	return true
}

// BindKicker sets the function Kick uses to reach the player's connection.
// The function must not hold a strong reference to the connection.
func (s *Session) BindKicker(kick func(reason string)) {
	s.mu.Lock()
	s.kick = kick
	s.mu.Unlock()
}

// Kick disconnects the player with reason. The reason is delivered before
// the connected flag clears.
func (s *Session) Kick(reason string) {
	s.mu.Lock()
	kick := s.kick
	s.mu.Unlock()

	if kick != nil {
		kick(reason)
	}
	s.MarkDisconnected()
}

func (s *Session) SetClientSettings(cs packet.ClientSettings) {
	s.settings.Store(&cs)
}

// ClientSettings returns the last client information the player sent, or nil.
func (s *Session) ClientSettings() *packet.ClientSettings {
	return s.settings.Load()
}

// Enqueue hands a Play packet to external handlers. It never blocks and
// reports false when the queue is full.
func (s *Session) Enqueue(p packet.PlayInbound) bool {
	select {
	case s.inbound <- p:
		return true
	default:
		return false
	}
}

// Inbound is the queue of Play packets received from the player.
func (s *Session) Inbound() <-chan packet.PlayInbound {
	return s.inbound
}
