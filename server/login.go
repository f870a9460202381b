package server

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/gstoney/mcserver"
	"github.com/gstoney/mcserver/auth"
	"github.com/gstoney/mcserver/packet"
	"github.com/gstoney/mcserver/session"
)

var (
	ErrProtocolVersion = errors.New("unsupported protocol version")
	ErrInvalidName     = errors.New("invalid player name")
	ErrServerFull      = errors.New("server full")
	ErrAuthFailed      = errors.New("authentication failed")
)

// Login disconnect reasons.
const (
	ReasonOutdatedClient = "Outdated client! Please use " + packet.VersionName
	ReasonOutdatedServer = "Outdated server! I'm still on " + packet.VersionName
	ReasonInvalidName    = "Invalid player name"
	ReasonServerFull     = "The server is full!"
	ReasonUnknownProfile = "Failed to verify username!"
	ReasonAuthDown       = "Authentication servers are down. Please try again later."
	ReasonDuplicateLogin = "You logged in from another location"
)

// validName reports whether name is 1-16 characters of [A-Za-z0-9_].
func validName(name string) bool {
	if len(name) == 0 || len(name) > 16 {
		return false
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
		default:
			return false
		}
	}
	return true
}

// login authenticates the player and admits its session to the registry,
// replacing any session with the same identity. It then enables compression
// and waits for the client to acknowledge LoginSuccess.
func (s *Server) login(ctx context.Context, c *mcserver.Conn, intent *packet.Intention) (*session.Session, error) {
	p, err := c.ReadPacket()
	if err != nil {
		return nil, err
	}
	start, ok := p.(*packet.LoginStart)
	if !ok {
		return nil, unexpected(packet.Login, p)
	}

	logger := c.Logger().With().Str("player", start.Name).Logger()

	if v := intent.ProtocolVersion; v != packet.ProtocolVersion {
		reason := ReasonOutdatedClient
		if v > packet.ProtocolVersion {
			reason = ReasonOutdatedServer
		}
		c.Disconnect(reason)
		return nil, fmt.Errorf("%w %d", ErrProtocolVersion, v)
	}

	if !validName(start.Name) {
		c.Disconnect(ReasonInvalidName)
		return nil, fmt.Errorf("%w %q", ErrInvalidName, start.Name)
	}

	id, props, err := s.authenticate(ctx, start.Name)
	if err != nil {
		reason := ReasonAuthDown
		if errors.Is(err, auth.ErrProfileNotFound) {
			reason = ReasonUnknownProfile
		}
		c.Disconnect(reason)
		return nil, fmt.Errorf("%w: %w", ErrAuthFailed, err)
	}

	// The kicker is bound before the session becomes visible. Every failure
	// after this point releases the reservation through the conn's teardown.
	sess := session.New(id, start.Name, props, c.RemoteAddr().String())
	c.Attach(sess, s.detach)

	prev, err := s.Sessions.Admit(sess, s.Config.MaxPlayers)
	if err != nil {
		c.Disconnect(ReasonServerFull)
		return nil, ErrServerFull
	}
	if prev != nil {
		logger.Info().Uint64("session", prev.ID).Msg("replacing existing session")
		prev.Kick(ReasonDuplicateLogin)
	}
	if s.Metrics != nil {
		s.Metrics.OnlinePlayers.Set(float64(s.Sessions.Len()))
	}

	if t := s.Config.CompressionThreshold; t >= 0 {
		if err := c.WritePacket(&packet.SetCompression{Threshold: int32(t)}); err != nil {
			return nil, err
		}
		c.SetCompression(t)
	}

	err = c.WritePacket(&packet.LoginSuccess{
		UUID:              id,
		Username:          start.Name,
		Properties:        props,
		StrictErrHandling: true,
	})
	if err != nil {
		return nil, err
	}

	if p, err = c.ReadPacket(); err != nil {
		return nil, err
	}
	if _, ok := p.(*packet.LoginAcknowledged); !ok {
		return nil, unexpected(packet.Login, p)
	}

	if err := c.SetState(packet.Configuration); err != nil {
		return nil, err
	}

	if !sess.Connected() {
		return nil, mcserver.ErrConnectionClosed
	}
	logger.Info().Stringer("uuid", id).Uint64("session", sess.ID).Msg("player logged in")
	return sess, nil
}

// authenticate resolves the player's UUID and profile properties. Offline
// servers derive the UUID from the name and send no properties.
func (s *Server) authenticate(ctx context.Context, name string) (uuid.UUID, []packet.Property, error) {
	if !s.Config.OnlineMode {
		return auth.OfflineUUID(name), nil, nil
	}

	if s.Config.AuthTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Config.AuthTimeout)
		defer cancel()
	}

	id, err := s.Resolver.ResolveUUID(ctx, name)
	if err != nil {
		return uuid.Nil, nil, err
	}

	props, err := s.Resolver.FetchProfileProperties(ctx, id)
	if err != nil {
		return uuid.Nil, nil, err
	}
	return id, props, nil
}
