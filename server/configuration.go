package server

import (
	"bytes"
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/gstoney/mcserver"
	"github.com/gstoney/mcserver/packet"
	"github.com/gstoney/mcserver/session"
)

const BrandChannel = "minecraft:brand"

// CorePack is the vanilla data pack the registry entries are taken from.
var CorePack = packet.KnownPack{Namespace: "minecraft", ID: "core", Version: "1.21"}

func (s *Server) brand() []byte {
	var b bytes.Buffer
	packet.WriteString(&b, s.Config.Brand)
	return b.Bytes()
}

// configure runs the Configuration state: it announces the server, answers
// the client's known packs with the registries, and returns once the client
// acknowledges FinishConfiguration and the connection is in Play.
func (s *Server) configure(ctx context.Context, c *mcserver.Conn, sess *session.Session) error {
	hello := []packet.Clientbound{
		&packet.ClientboundConfigPluginMessage{PluginPayload: packet.PluginPayload{Channel: BrandChannel, Data: s.brand()}},
		&packet.FeatureFlags{Flags: []string{"minecraft:vanilla"}},
		&packet.ClientboundKnownPacks{Packs: []packet.KnownPack{CorePack}},
	}
	for _, p := range hello {
		if err := c.WritePacket(p); err != nil {
			return err
		}
	}

	ka := newKeepAlive(c, sess, s.Config.KeepAliveInterval, s.Metrics, func(id int64) packet.Clientbound {
		return &packet.ClientboundConfigKeepAlive{KeepAliveBody: packet.KeepAliveBody{KeepAliveID: id}}
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return ka.run(gctx) })
	g.Go(func() error {
		defer ka.halt()
		return s.configLoop(c, sess, ka)
	})

	err := g.Wait()
	if ka.TimedOut() {
		return ErrKeepAliveTimeout
	}
	if err != nil {
		return err
	}
	return c.SetState(packet.Play)
}

func (s *Server) configLoop(c *mcserver.Conn, sess *session.Session, ka *keepAlive) error {
	finished := false

	for {
		p, err := c.ReadPacket()
		if err != nil {
			return err
		}

		switch p := p.(type) {
		case *packet.ConfigClientInformation:
			sess.SetClientSettings(p.ClientSettings)
		case *packet.ConfigPluginMessage:
			c.Logger().Debug().Str("channel", p.Channel).Int("len", len(p.Data)).Msg("plugin message")
		case *packet.ConfigKeepAlive:
			ka.reply(p.KeepAliveID)
		case *packet.ConfigPong, *packet.ResourcePackResponse:
		case *packet.KnownPacks:
			if finished {
				return unexpected(packet.Configuration, p)
			}
			if err := s.sendRegistries(c, p.Packs); err != nil {
				return err
			}
			if err := c.WritePacket(&packet.FinishConfiguration{}); err != nil {
				return err
			}
			finished = true
		case *packet.AcknowledgeFinishConfiguration:
			if !finished {
				return unexpected(packet.Configuration, p)
			}
			return nil
		default:
			return unexpected(packet.Configuration, p)
		}
	}
}

func (s *Server) sendRegistries(c *mcserver.Conn, known []packet.KnownPack) error {
	hasCore := false
	for _, kp := range known {
		if kp == CorePack {
			hasCore = true
		}
	}
	if !hasCore {
		c.Logger().Warn().Interface("packs", known).Msg("client does not know the core pack")
	}

	for _, reg := range s.Registries.Registry {
		entries := make([]packet.RegistryEntry, len(reg.Entries))
		for i, e := range reg.Entries {
			entries[i] = packet.RegistryEntry{EntryID: e}
		}
		if err := c.WritePacket(&packet.RegistryData{RegistryID: reg.ID, Entries: entries}); err != nil {
			return err
		}
	}
	return nil
}
