package server

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
	"weak"

	"github.com/gstoney/mcserver"
	"github.com/gstoney/mcserver/packet"
	"github.com/gstoney/mcserver/session"
)

var ErrKeepAliveTimeout = errors.New("keep-alive timed out")

const ReasonTimedOut = "Timed out."

// keepAlive challenges the client every interval. A challenge still
// unanswered at the next tick disconnects the player. It holds the session
// weakly and ends when the session disconnects.
type keepAlive struct {
	conn      *mcserver.Conn
	sess      weak.Pointer[session.Session]
	done      <-chan struct{}
	interval  time.Duration
	challenge func(id int64) packet.Clientbound
	metrics   *Metrics

	mu      sync.Mutex
	pending int64
	sentAt  time.Time
	waiting bool

	timedOut atomic.Bool
	stop     chan struct{}
	stopOnce sync.Once
}

func newKeepAlive(c *mcserver.Conn, s *session.Session, interval time.Duration, m *Metrics, p func(id int64) packet.Clientbound) *keepAlive {
	return &keepAlive{
		conn:      c,
		sess:      weak.Make(s),
		done:      s.Done(),
		interval:  interval,
		challenge: p,
		metrics:   m,
		stop:      make(chan struct{}),
	}
}

func (k *keepAlive) run(ctx context.Context) error {
	t := time.NewTicker(k.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-k.stop:
			return nil
		case <-k.done:
			return nil
		case <-t.C:
		}

		if !k.live() {
			return nil
		}

		k.mu.Lock()
		if k.waiting {
			k.mu.Unlock()
			k.timedOut.Store(true)
			k.conn.Logger().Info().Int64("id", k.pending).Msg("keep-alive timed out")
			k.conn.Disconnect(ReasonTimedOut)
			return ErrKeepAliveTimeout
		}
		now := time.Now()
		id := now.UnixMilli()
		if id <= k.pending {
			id = k.pending + 1
		}
		k.pending, k.sentAt, k.waiting = id, now, true
		k.mu.Unlock()

		if err := k.conn.WritePacket(k.challenge(id)); err != nil {
			if !k.live() {
				return nil
			}
			k.conn.Close()
			return err
		}
	}
}

func (k *keepAlive) live() bool {
	s := k.sess.Value()
	return s != nil && s.Connected()
}

// reply records the client's answer. Answers that do not match the
// outstanding challenge are ignored.
func (k *keepAlive) reply(id int64) bool {
	k.mu.Lock()
	defer k.mu.Unlock()

	if !k.waiting || id != k.pending {
		k.conn.Logger().Debug().Int64("id", id).Int64("want", k.pending).Msg("ignoring keep-alive")
		return false
	}
	k.waiting = false

	if k.metrics != nil {
		k.metrics.KeepAliveRTT.Observe(time.Since(k.sentAt).Seconds())
	}
	return true
}

func (k *keepAlive) halt() {
	k.stopOnce.Do(func() { close(k.stop) })
}

func (k *keepAlive) TimedOut() bool {
	return k.timedOut.Load()
}
