package server

import (
	"context"
	"sync/atomic"

	"github.com/gstoney/mcserver"
	"github.com/gstoney/mcserver/config"
	"github.com/gstoney/mcserver/packet"
	"github.com/gstoney/mcserver/session"
)

// A Joiner sends the packets that place a player in the world once the
// connection enters Play.
type Joiner interface {
	Join(ctx context.Context, c *mcserver.Conn, s *session.Session) error
}

// JoinFunc adapts a function to the Joiner interface.
type JoinFunc func(ctx context.Context, c *mcserver.Conn, s *session.Session) error

func (f JoinFunc) Join(ctx context.Context, c *mcserver.Conn, s *session.Session) error {
	return f(ctx, c, s)
}

type JoinConfig struct {
	Dimension          string
	MaxPlayers         int32
	ViewDistance       int32
	SimulationDistance int32
	GameMode           byte
	Hardcore           bool
	// Welcome is sent as a system chat message when not empty.
	Welcome string
	SpawnY  float64
}

func DefaultJoinConfig() JoinConfig {
	return JoinConfig{
		Dimension:          "minecraft:overworld",
		MaxPlayers:         20,
		ViewDistance:       10,
		SimulationDistance: 10,
		SpawnY:             64,
	}
}

// DefaultJoiner spawns every player in an empty flat world.
type DefaultJoiner struct {
	Registries *config.Registries
	Config     JoinConfig

	nextEntityID atomic.Int32
}

func NewJoiner(regs *config.Registries, cfg JoinConfig) *DefaultJoiner {
	return &DefaultJoiner{Registries: regs, Config: cfg}
}

func (j *DefaultJoiner) Join(_ context.Context, c *mcserver.Conn, s *session.Session) error {
	dimType := j.Registries.Index("minecraft:dimension_type", j.Config.Dimension)
	if dimType < 0 {
		dimType = 0
	}

	packets := []packet.Clientbound{
		&packet.JoinGame{
			EntityID:            j.nextEntityID.Add(1),
			IsHardcore:          j.Config.Hardcore,
			DimensionNames:      []string{j.Config.Dimension},
			MaxPlayers:          j.Config.MaxPlayers,
			ViewDistance:        j.Config.ViewDistance,
			SimulationDistance:  j.Config.SimulationDistance,
			EnableRespawnScreen: true,
			DimensionType:       int32(dimType),
			DimensionName:       j.Config.Dimension,
			GameMode:            j.Config.GameMode,
			PreviousGameMode:    -1,
			IsFlat:              true,
		},
		&packet.GameEvent{Event: packet.GameEventStartWaitingOnChunks},
		&packet.SynchronizePlayerPosition{Y: j.Config.SpawnY, TeleportID: 1},
	}
	if j.Config.Welcome != "" {
		packets = append(packets, &packet.SystemChatMessage{Content: j.Config.Welcome})
	}

	for _, p := range packets {
		if err := c.WritePacket(p); err != nil {
			return err
		}
	}

	c.Logger().Debug().Str("player", s.Name).Int32("entity", j.nextEntityID.Load()).Msg("joined")
	return nil
}
