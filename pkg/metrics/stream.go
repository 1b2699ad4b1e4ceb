// Package metrics holds the Prometheus collectors of the dashboard gateway.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "neurales"

// Stream collects live stream and session counters. A nil *Stream is valid
// and records nothing, so components can run without a registry.
type Stream struct {
	framesReceived prometheus.Counter
	framesDropped  *prometheus.CounterVec
	connections    prometheus.Counter
	status         *prometheus.GaugeVec
	sessionStarts  *prometheus.CounterVec
}

// NewStream creates the stream collectors and registers them on reg.
func NewStream(reg prometheus.Registerer) *Stream {
	if reg == nil {
		return nil
	}
	m := &Stream{
		framesReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stream",
			Name:      "frames_received_total",
			Help:      "Data frames applied to the quality map",
		}),
		framesDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stream",
			Name:      "frames_dropped_total",
			Help:      "Stream messages discarded",
		}, []string{"reason"}),
		connections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stream",
			Name:      "connections_total",
			Help:      "Stream connections attempted",
		}),
		status: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "stream",
			Name:      "status",
			Help:      "1 for the current stream status, 0 otherwise",
		}, []string{"status"}),
		sessionStarts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "starts_total",
			Help:      "Acquisition sessions started, by id origin",
		}, []string{"origin"}),
	}
	reg.MustRegister(m.framesReceived, m.framesDropped, m.connections, m.status, m.sessionStarts)
	return m
}

// FrameReceived counts one applied data frame.
func (m *Stream) FrameReceived() {
	if m == nil {
		return
	}
	m.framesReceived.Inc()
}

// FrameDropped counts one discarded message. reason is "decode" or "error_frame".
func (m *Stream) FrameDropped(reason string) {
	if m == nil {
		return
	}
	m.framesDropped.WithLabelValues(reason).Inc()
}

// ConnectionOpened counts one dial attempt.
func (m *Stream) ConnectionOpened() {
	if m == nil {
		return
	}
	m.connections.Inc()
}

// SetStatus flags status as the current one among all.
func (m *Stream) SetStatus(status string, all ...string) {
	if m == nil {
		return
	}
	for _, s := range all {
		m.status.WithLabelValues(s).Set(0)
	}
	m.status.WithLabelValues(status).Set(1)
}

// SessionStarted counts one started session; local is true for fallback ids.
func (m *Stream) SessionStarted(local bool) {
	if m == nil {
		return
	}
	origin := "backend"
	if local {
		origin = "local"
	}
	m.sessionStarts.WithLabelValues(origin).Inc()
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
