package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RoomsActive tracks rooms currently holding at least one user.
	RoomsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "poker_rooms_active",
		Help: "Number of rooms with at least one connected user.",
	})

	// ConnectionsActive tracks open websocket sessions.
	ConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "poker_connections_active",
		Help: "Number of open websocket sessions.",
	})

	// Messages counts recognized client messages by type.
	Messages = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "poker_messages_total",
		Help: "Recognized client messages processed, by type.",
	}, []string{"type"})
)

// Handler exposes Prometheus metrics at /metrics
func Handler() http.Handler {
	return promhttp.Handler()
}
