package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/gstoney/mcserver/packet"
)

const namespace = "mcserver"

var keepAliveBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5}

// Metrics holds the server's Prometheus collectors. It observes every
// connection the server creates.
type Metrics struct {
	Connections     *prometheus.CounterVec
	Transitions     *prometheus.CounterVec
	PacketsReceived *prometheus.CounterVec
	PacketsSent     *prometheus.CounterVec
	Disconnects     *prometheus.CounterVec
	OnlinePlayers   prometheus.Gauge
	KeepAliveRTT    prometheus.Histogram
	DroppedPackets  prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		Connections: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connections_total",
			Help:      "Handshakes received, by intent.",
		}, []string{"intent"}),
		Transitions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "state_transitions_total",
			Help:      "Connection state transitions.",
		}, []string{"from", "to"}),
		PacketsReceived: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "packets_received_total",
			Help:      "Packets decoded, by state.",
		}, []string{"state"}),
		PacketsSent: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "packets_sent_total",
			Help:      "Packets sent, by state.",
		}, []string{"state"}),
		Disconnects: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "disconnects_total",
			Help:      "Closed connections, by cause.",
		}, []string{"cause"}),
		OnlinePlayers: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "online_players",
			Help:      "Registered sessions.",
		}),
		KeepAliveRTT: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "keepalive_rtt_seconds",
			Help:      "Time between a keep-alive challenge and its answer.",
			Buckets:   keepAliveBuckets,
		}),
		DroppedPackets: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inbound_dropped_total",
			Help:      "Play packets dropped because the session queue was full.",
		}),
	}
}

func (m *Metrics) PacketReceived(state packet.State, _ int32) {
	m.PacketsReceived.WithLabelValues(state.String()).Inc()
}

func (m *Metrics) PacketSent(state packet.State, _ int32) {
	m.PacketsSent.WithLabelValues(state.String()).Inc()
}

func (m *Metrics) StateChanged(from, to packet.State) {
	m.Transitions.WithLabelValues(from.String(), to.String()).Inc()
}
