// Package server accepts Minecraft clients and drives each connection through
// the Handshake, Status, Login, Configuration and Play states.
package server

import (
	"context"
	"errors"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pires/go-proxyproto"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/gstoney/mcserver"
	"github.com/gstoney/mcserver/auth"
	"github.com/gstoney/mcserver/config"
	"github.com/gstoney/mcserver/internal/logging"
	"github.com/gstoney/mcserver/packet"
	"github.com/gstoney/mcserver/session"
)

var ErrServerClosed = errors.New("server closed")

// Config holds the parameters of a running server.
type Config struct {
	Addr       string
	MOTD       string
	MaxPlayers int
	OnlineMode bool
	// Negative disables compression.
	CompressionThreshold int
	ProxyProtocol        bool
	// Favicon is a data URI ("data:image/png;base64,...") or empty.
	Favicon string
	Brand   string

	KeepAliveInterval time.Duration
	AuthTimeout       time.Duration

	Conn mcserver.ConnConfig
}

func DefaultConfig() Config {
	return Config{
		Addr:                 ":25565",
		MOTD:                 "A Minecraft Server",
		MaxPlayers:           20,
		CompressionThreshold: 256,
		Brand:                "mcserver",
		KeepAliveInterval:    15 * time.Second,
		AuthTimeout:          10 * time.Second,
		Conn:                 mcserver.DefaultConnConfig(),
	}
}

// A Server defines parameters for running a Minecraft server.
// The exported collaborators may be replaced before Serve is called.
type Server struct {
	Config     Config
	Sessions   *session.Registry
	Resolver   auth.Resolver
	Registries *config.Registries
	Joiner     Joiner
	Metrics    *Metrics

	logger zerolog.Logger

	mu       sync.Mutex
	listener net.Listener
	conns    map[*mcserver.Conn]struct{}
	wg       sync.WaitGroup
	closing  atomic.Bool

	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a Server with an empty session registry, offline
// authentication, the built-in registries, the default joiner and
// unregistered metrics. It panics if the built-in registries do not parse.
func New(cfg Config) *Server {
	ctx, cancel := context.WithCancel(context.Background())

	regs, err := config.DefaultRegistries()
	if err != nil {
		panic("server: built-in registries: " + err.Error())
	}
	jc := DefaultJoinConfig()
	jc.MaxPlayers = int32(cfg.MaxPlayers)

	return &Server{
		Config:     cfg,
		Sessions:   session.NewRegistry(),
		Resolver:   auth.Offline{},
		Registries: regs,
		Joiner:     NewJoiner(regs, jc),
		Metrics:    NewMetrics(prometheus.NewRegistry()),
		logger:     logging.Component("server"),
		conns:      make(map[*mcserver.Conn]struct{}),
		ctx:        ctx,
		cancel:     cancel,
	}
}

// ListenAndServe listens on Config.Addr and calls Serve.
func (s *Server) ListenAndServe() error {
	l, err := net.Listen("tcp", s.Config.Addr)
	if err != nil {
		return err
	}
	return s.Serve(l)
}

// Serve accepts incoming connections on the Listener l,
// creating a new goroutine for each.
// The goroutines read the handshake packet and either respond to the
// status request or log the player in and keep them in Play.
func (s *Server) Serve(l net.Listener) error {
	if s.Config.ProxyProtocol {
		l = &proxyproto.Listener{Listener: l, ReadHeaderTimeout: s.Config.Conn.ReadTimeout}
	}

	s.mu.Lock()
	s.listener = l
	s.mu.Unlock()

	s.logger.Info().Str("addr", l.Addr().String()).Bool("proxy_protocol", s.Config.ProxyProtocol).Msg("listening")

	for {
		c, err := l.Accept()
		if err != nil {
			if s.closing.Load() {
				return ErrServerClosed
			}
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				s.logger.Warn().Err(err).Msg("accept error")
				time.Sleep(50 * time.Millisecond)
				continue
			}
			return err
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handle(c)
		}()
	}
}

func (s *Server) connConfig() mcserver.ConnConfig {
	cfg := s.Config.Conn
	if s.Metrics != nil {
		cfg.Observer = s.Metrics
	}
	return cfg
}

func (s *Server) track(c *mcserver.Conn, add bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if add {
		s.conns[c] = struct{}{}
	} else {
		delete(s.conns, c)
	}
}

// handle owns one accepted socket until it closes.
func (s *Server) handle(raw net.Conn) {
	c := mcserver.NewConn(raw, s.connConfig())
	s.track(c, true)
	defer s.track(c, false)
	defer c.Close()

	err := s.serveConn(c)
	s.finish(c, err)
}

func (s *Server) serveConn(c *mcserver.Conn) error {
	intent, err := s.handshake(c)
	if err != nil {
		return err
	}

	if c.State() == packet.Status {
		return s.status(c)
	}

	sess, err := s.login(s.ctx, c, intent)
	if err != nil {
		return err
	}

	if err := s.configure(s.ctx, c, sess); err != nil {
		return err
	}

	return s.play(s.ctx, c, sess)
}

// detach is the teardown hook of every logged-in connection.
func (s *Server) detach(id uint64) {
	if sess := s.Sessions.RemoveByID(id); sess != nil {
		s.logger.Info().Str("player", sess.Name).Stringer("uuid", sess.UUID).Msg("player left")
	}
	if s.Metrics != nil {
		s.Metrics.OnlinePlayers.Set(float64(s.Sessions.Len()))
	}
}

// Shutdown stops accepting, kicks every player, closes every connection and
// waits for their goroutines until ctx is done.
func (s *Server) Shutdown(ctx context.Context) error {
	s.closing.Store(true)

	s.mu.Lock()
	if s.listener != nil {
		s.listener.Close()
	}
	s.mu.Unlock()

	for _, sess := range s.Sessions.All() {
		sess.Kick("Server closed")
	}

	s.mu.Lock()
	for c := range s.conns {
		c.Close()
	}
	s.mu.Unlock()
	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// finish logs how a connection ended and, for protocol errors and read
// timeouts, tells the client why before the socket closes.
func (s *Server) finish(c *mcserver.Conn, err error) {
	logger := c.Logger().With().Stringer("state", c.State()).Logger()
	cause := "closed"

	var pe *mcserver.ProtocolError
	switch {
	case err == nil, errors.Is(err, mcserver.ErrConnectionClosed):
		logger.Debug().Err(err).Msg("connection closed")
	case errors.Is(err, ErrKeepAliveTimeout):
		cause = "keepalive"
		logger.Info().Msg("keep-alive timed out")
	case errors.As(err, &pe):
		cause = "protocol"
		logger.Warn().Err(err).Msg("protocol error")
		c.Disconnect("Protocol error: " + pe.Err.Error())
	case errors.Is(err, mcserver.ErrTimeout):
		cause = "timeout"
		logger.Info().Err(err).Msg("read timed out")
		c.Disconnect(ReasonTimedOut)
	case errors.Is(err, ErrProtocolVersion), errors.Is(err, ErrInvalidName),
		errors.Is(err, ErrServerFull), errors.Is(err, ErrAuthFailed):
		cause = "rejected"
		logger.Info().Err(err).Msg("login rejected")
	default:
		cause = "error"
		logger.Error().Err(err).Msg("connection failed")
	}

	if s.Metrics != nil {
		s.Metrics.Disconnects.WithLabelValues(cause).Inc()
	}
}
