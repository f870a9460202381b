package config

import (
	"errors"
	"fmt"
	"net"
	"os"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("config validation error [%s]: %s", e.Field, e.Message)
}

// Validate rejects values the server cannot run with. All problems are
// reported at once.
func (c *Config) Validate() error {
	var errs []error
	add := func(field, msg string) {
		errs = append(errs, ValidationError{Field: field, Message: msg})
	}

	s := &c.Server
	if _, _, err := net.SplitHostPort(s.Addr); err != nil {
		add("server.addr", err.Error())
	}
	if s.MaxPlayers < 0 {
		add("server.max_players", "must not be negative")
	}
	if s.ReadTimeout.Duration <= 0 {
		add("server.read_timeout", "must be positive")
	}
	if s.WriteTimeout.Duration <= 0 {
		add("server.write_timeout", "must be positive")
	}
	if s.KeepAliveInterval.Duration <= 0 {
		add("server.keepalive_interval", "must be positive")
	}
	if s.KeepAliveInterval.Duration >= s.ReadTimeout.Duration {
		add("server.keepalive_interval", "must be shorter than read_timeout")
	}
	if s.MaxPacketLen <= 0 || s.MaxPacketLen > 1<<21-1 {
		add("server.max_packet_len", "must be between 1 and 2097151")
	}
	if s.MaxDecompressedLen <= 0 {
		add("server.max_decompressed_len", "must be positive")
	}
	if s.CompressionThreshold >= int(s.MaxPacketLen) {
		add("server.compression_threshold", "must be below max_packet_len")
	}
	if s.GameMode > 3 {
		add("server.game_mode", "must be 0 (survival) to 3 (spectator)")
	}
	if s.Favicon != "" {
		if _, err := os.Stat(s.Favicon); err != nil {
			add("server.favicon", err.Error())
		}
	}

	if c.Server.OnlineMode && c.Auth.APIURL == "" {
		add("auth.api_url", "required in online mode")
	}
	if c.Auth.CacheSize <= 0 {
		add("auth.cache_size", "must be positive")
	}

	for field, addr := range map[string]string{"admin.addr": c.Admin.Addr, "metrics.addr": c.Metrics.Addr} {
		if addr == "" {
			continue
		}
		if _, _, err := net.SplitHostPort(addr); err != nil {
			add(field, err.Error())
		}
	}

	return errors.Join(errs...)
}
