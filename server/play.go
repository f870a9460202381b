package server

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/gstoney/mcserver"
	"github.com/gstoney/mcserver/packet"
	"github.com/gstoney/mcserver/session"
)

// play joins the player and serves Play until the session disconnects or the
// connection fails. Packets other than keep-alive answers and client
// information go to the session's inbound queue.
func (s *Server) play(ctx context.Context, c *mcserver.Conn, sess *session.Session) error {
	if err := s.Joiner.Join(ctx, c, sess); err != nil {
		return err
	}

	ka := newKeepAlive(c, sess, s.Config.KeepAliveInterval, s.Metrics, func(id int64) packet.Clientbound {
		return &packet.ClientboundPlayKeepAlive{KeepAliveBody: packet.KeepAliveBody{KeepAliveID: id}}
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return ka.run(gctx) })
	g.Go(func() error {
		select {
		case <-sess.Done():
		case <-gctx.Done():
		}
		c.Close()
		return nil
	})
	g.Go(func() error {
		err := s.playLoop(c, sess, ka)
		if !sess.Connected() {
			return nil
		}
		return err
	})

	err := g.Wait()
	if ka.TimedOut() {
		return ErrKeepAliveTimeout
	}
	return err
}

func (s *Server) playLoop(c *mcserver.Conn, sess *session.Session, ka *keepAlive) error {
	for {
		p, err := c.ReadPacket()
		if err != nil {
			return err
		}

		switch p := p.(type) {
		case *packet.PlayKeepAlive:
			ka.reply(p.KeepAliveID)
		case *packet.PlayClientInformation:
			sess.SetClientSettings(p.ClientSettings)
		case packet.PlayInbound:
			if !sess.Enqueue(p) {
				c.Logger().Debug().Int32("id", p.ID()).Msg("inbound queue full, dropping packet")
				if s.Metrics != nil {
					s.Metrics.DroppedPackets.Inc()
				}
			}
		default:
			return unexpected(packet.Play, p)
		}
	}
}
