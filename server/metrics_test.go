package server

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/gstoney/mcserver"
	"github.com/gstoney/mcserver/packet"
)

var _ mcserver.Observer = (*Metrics)(nil)

func TestMetrics_Observer(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.StateChanged(packet.Handshake, packet.Login)
	m.StateChanged(packet.Login, packet.Configuration)
	m.PacketReceived(packet.Login, 0x00)
	m.PacketReceived(packet.Login, 0x03)
	m.PacketSent(packet.Configuration, 0x07)

	testCases := []struct {
		desc string
		c    prometheus.Collector
		want float64
	}{
		{"handshake to login", m.Transitions.WithLabelValues("Handshake", "Login"), 1},
		{"login to configuration", m.Transitions.WithLabelValues("Login", "Configuration"), 1},
		{"login received", m.PacketsReceived.WithLabelValues("Login"), 2},
		{"configuration sent", m.PacketsSent.WithLabelValues("Configuration"), 1},
		{"play sent", m.PacketsSent.WithLabelValues("Play"), 0},
	}

	for _, tC := range testCases {
		if got := testutil.ToFloat64(tC.c); got != tC.want {
			t.Errorf("%s = %v, want %v", tC.desc, got, tC.want)
		}
	}

	if n, err := testutil.GatherAndCount(reg, "mcserver_state_transitions_total"); err != nil || n != 2 {
		t.Errorf("transition series = %d, %v; want 2", n, err)
	}
}
