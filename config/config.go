// Package config loads server configuration from a TOML file, an optional
// .env file and MCSERVER_* environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/gstoney/mcserver/internal/logging"
)

const (
	DefaultConfigFile = "server.toml"
	DefaultEnvFile    = ".env"
	EnvPrefix         = "MCSERVER_"
)

// Duration is a time.Duration written as a string such as "15s" in TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) (err error) {
	d.Duration, err = time.ParseDuration(string(text))
	return
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Config is the root configuration structure.
type Config struct {
	Server  Server         `toml:"server"`
	Auth    Auth           `toml:"auth"`
	Log     logging.Config `toml:"log"`
	Admin   Admin          `toml:"admin"`
	Metrics Metrics        `toml:"metrics"`
}

type Server struct {
	Addr       string `toml:"addr"`
	MOTD       string `toml:"motd"`
	MaxPlayers int    `toml:"max_players"`
	OnlineMode bool   `toml:"online_mode"`
	// Negative disables compression.
	CompressionThreshold int    `toml:"compression_threshold"`
	ProxyProtocol        bool   `toml:"proxy_protocol"`
	Favicon              string `toml:"favicon"`
	Brand                string `toml:"brand"`

	ReadTimeout       Duration `toml:"read_timeout"`
	WriteTimeout      Duration `toml:"write_timeout"`
	KeepAliveInterval Duration `toml:"keepalive_interval"`
	AuthTimeout       Duration `toml:"auth_timeout"`

	MaxPacketLen       int32 `toml:"max_packet_len"`
	MaxDecompressedLen int32 `toml:"max_decompressed_len"`

	ViewDistance       int32  `toml:"view_distance"`
	SimulationDistance int32  `toml:"simulation_distance"`
	GameMode           byte   `toml:"game_mode"`
	Hardcore           bool   `toml:"hardcore"`
	Welcome            string `toml:"welcome"`

	// RegistryFile replaces the built-in registry data.
	RegistryFile string `toml:"registry_file"`
}

type Auth struct {
	APIURL     string   `toml:"api_url"`
	SessionURL string   `toml:"session_url"`
	CacheSize  int      `toml:"cache_size"`
	CacheTTL   Duration `toml:"cache_ttl"`
}

type Admin struct {
	// Addr is the listen address of the admin API. Empty disables it.
	Addr string `toml:"addr"`
}

type Metrics struct {
	// Addr is the listen address of /metrics. Empty disables it.
	Addr string `toml:"addr"`
}

// Default returns the configuration used for every unset value.
func Default() *Config {
	return &Config{
		Server: Server{
			Addr:                 ":25565",
			MOTD:                 "A Minecraft Server",
			MaxPlayers:           20,
			OnlineMode:           false,
			CompressionThreshold: 256,
			Brand:                "mcserver",
			ReadTimeout:          Duration{30 * time.Second},
			WriteTimeout:         Duration{10 * time.Second},
			KeepAliveInterval:    Duration{15 * time.Second},
			AuthTimeout:          Duration{10 * time.Second},
			MaxPacketLen:         1<<21 - 1,
			MaxDecompressedLen:   1 << 23,
			ViewDistance:         10,
			SimulationDistance:   10,
			Welcome:              "Welcome to the server!",
		},
		Auth: Auth{
			APIURL:     "https://api.mojang.com",
			SessionURL: "https://sessionserver.mojang.com",
			CacheSize:  1024,
			CacheTTL:   Duration{10 * time.Minute},
		},
		Log:   logging.DefaultConfig(),
		Admin: Admin{Addr: "127.0.0.1:8080"},
		Metrics: Metrics{
			Addr: ":9100",
		},
	}
}

// Load builds the configuration: defaults, then the TOML file at path (a
// missing file is not an error), then envFile, then the process environment.
func Load(path, envFile string) (*Config, error) {
	cfg := Default()

	if path != "" {
		md, err := toml.DecodeFile(path, cfg)
		switch {
		case errors.Is(err, os.ErrNotExist):
			log.Info().Str("path", path).Msg("config file not found, using defaults")
		case err != nil:
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		default:
			for _, key := range md.Undecoded() {
				log.Warn().Str("path", path).Str("key", key.String()).Msg("unknown config key")
			}
		}
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

type envVar struct {
	name  string
	apply func(c *Config, v string) error
}

func setString(dst func(*Config) *string) func(*Config, string) error {
	return func(c *Config, v string) error {
		*dst(c) = v
		return nil
	}
}

func setInt(dst func(*Config) *int) func(*Config, string) error {
	return func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		*dst(c) = n
		return err
	}
}

func setBool(dst func(*Config) *bool) func(*Config, string) error {
	return func(c *Config, v string) (err error) {
		*dst(c), err = strconv.ParseBool(v)
		return
	}
}

func setDuration(dst func(*Config) *Duration) func(*Config, string) error {
	return func(c *Config, v string) error {
		return dst(c).UnmarshalText([]byte(v))
	}
}

var envVars = []envVar{
	{"ADDR", setString(func(c *Config) *string { return &c.Server.Addr })},
	{"MOTD", setString(func(c *Config) *string { return &c.Server.MOTD })},
	{"MAX_PLAYERS", setInt(func(c *Config) *int { return &c.Server.MaxPlayers })},
	{"ONLINE_MODE", setBool(func(c *Config) *bool { return &c.Server.OnlineMode })},
	{"COMPRESSION_THRESHOLD", setInt(func(c *Config) *int { return &c.Server.CompressionThreshold })},
	{"PROXY_PROTOCOL", setBool(func(c *Config) *bool { return &c.Server.ProxyProtocol })},
	{"FAVICON", setString(func(c *Config) *string { return &c.Server.Favicon })},
	{"KEEPALIVE_INTERVAL", setDuration(func(c *Config) *Duration { return &c.Server.KeepAliveInterval })},
	{"READ_TIMEOUT", setDuration(func(c *Config) *Duration { return &c.Server.ReadTimeout })},
	{"WRITE_TIMEOUT", setDuration(func(c *Config) *Duration { return &c.Server.WriteTimeout })},
	{"REGISTRY_FILE", setString(func(c *Config) *string { return &c.Server.RegistryFile })},
	{"LOG_LEVEL", setString(func(c *Config) *string { return &c.Log.Level })},
	{"LOG_FILE", setString(func(c *Config) *string { return &c.Log.File })},
	{"ADMIN_ADDR", setString(func(c *Config) *string { return &c.Admin.Addr })},
	{"METRICS_ADDR", setString(func(c *Config) *string { return &c.Metrics.Addr })},
}

// ApplyEnv overrides values from MCSERVER_* variables found by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	for _, ev := range envVars {
		name := EnvPrefix + ev.name
		v, ok := lookup(name)
		if !ok {
			continue
		}
		if err := ev.apply(c, strings.TrimSpace(v)); err != nil {
			return fmt.Errorf("invalid %s: %w", name, err)
		}
	}
	return nil
}
