// Package admin implements the operator HTTP API: server status, the player
// list and kicks.
package admin

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/gstoney/mcserver/internal/logging"
	"github.com/gstoney/mcserver/server"
	"github.com/gstoney/mcserver/session"
)

const DefaultKickReason = "Kicked by an operator"

// Server is the admin REST API for one game server.
type Server struct {
	game   *server.Server
	router *gin.Engine
	logger zerolog.Logger

	httpServer *http.Server
}

func New(game *server.Server) *Server {
	s := &Server{
		game:   game,
		logger: logging.Component("admin"),
	}
	s.router = s.buildRouter()
	return s
}

// Handler returns the API's http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) buildRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(s.requestLogger())

	api := router.Group("/api")
	{
		api.GET("/status", s.handleStatus)
		api.GET("/players", s.handlePlayers)
		api.GET("/players/:name", s.handlePlayer)
		api.POST("/players/:name/kick", s.handleKick)
	}
	return router
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		s.logger.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("api request")
	}
}

// Serve serves the API on l until ctx is done.
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	s.httpServer = &http.Server{
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.httpServer.Shutdown(shutdownCtx)
	}()

	s.logger.Info().Str("addr", l.Addr().String()).Msg("admin API listening")

	if err := s.httpServer.Serve(l); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("admin API error: %w", err)
	}
	return nil
}

type playerJSON struct {
	ID          uint64    `json:"id"`
	UUID        string    `json:"uuid"`
	Name        string    `json:"name"`
	RemoteAddr  string    `json:"remote_addr"`
	ConnectedAt time.Time `json:"connected_at"`
	Locale      string    `json:"locale,omitempty"`
	View        int8      `json:"view_distance,omitempty"`
}

func toPlayer(sess *session.Session) playerJSON {
	p := playerJSON{
		ID:          sess.ID,
		UUID:        sess.UUID.String(),
		Name:        sess.Name,
		RemoteAddr:  sess.RemoteAddr,
		ConnectedAt: sess.CreatedAt,
	}
	if cs := sess.ClientSettings(); cs != nil {
		p.Locale = cs.Locale
		p.View = cs.ViewDistance
	}
	return p
}

func (s *Server) handleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.game.StatusResponse())
}

func (s *Server) handlePlayers(c *gin.Context) {
	all := s.game.Sessions.All()

	players := make([]playerJSON, 0, len(all))
	for _, sess := range all {
		players = append(players, toPlayer(sess))
	}
	c.JSON(http.StatusOK, gin.H{
		"online":  len(players),
		"players": players,
	})
}

func (s *Server) handlePlayer(c *gin.Context) {
	sess := s.game.Sessions.FindByName(c.Param("name"))
	if sess == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "player not found", "name": c.Param("name")})
		return
	}
	c.JSON(http.StatusOK, toPlayer(sess))
}

type kickRequest struct {
	Reason string `json:"reason"`
}

func (s *Server) handleKick(c *gin.Context) {
	name := c.Param("name")

	var req kickRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
	}
	if req.Reason == "" {
		req.Reason = DefaultKickReason
	}

	sess := s.game.Sessions.FindByName(name)
	if sess == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "player not found", "name": name})
		return
	}

	sess.Kick(req.Reason)
	s.logger.Info().Str("player", sess.Name).Str("reason", req.Reason).Msg("player kicked")

	c.JSON(http.StatusOK, gin.H{
		"status": "kicked",
		"name":   sess.Name,
	})
}
