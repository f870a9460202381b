// Package logging configures the zerolog global logger used by every package.
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config holds configuration for the logging system.
type Config struct {
	Level   string `toml:"level"`
	Console bool   `toml:"console"`
	// File, when set, receives JSON lines in addition to stdout.
	File string `toml:"file"`
}

// DefaultConfig returns the default logging configuration.
func DefaultConfig() Config {
	return Config{
		Level:   "info",
		Console: true,
	}
}

// Init sets the global level and output of zerolog. It returns a function
// that closes the log file, if one was opened.
func Init(cfg Config) (func() error, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	var writers []io.Writer
	closer := func() error { return nil }

	if cfg.Console {
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: "15:04:05",
		})
	} else {
		writers = append(writers, os.Stdout)
	}

	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return closer, fmt.Errorf("failed to open log file %s: %w", cfg.File, err)
		}
		writers = append(writers, f)
		closer = f.Close
	}

	log.Logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).
		With().
		Timestamp().
		Logger()

	log.Debug().Str("level", level.String()).Msg("logger initialized")
	return closer, nil
}

// Component creates a logger with a component name field.
func Component(name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}
