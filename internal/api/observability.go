package api

import (
	"net/http"
	"net/http/pprof"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pixel-plaza/internal/logging"
)

// Metrics with bounded cardinality (no per-participant labels).
var (
	participantsOnline = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "plaza_participants_online",
		Help: "Current number of joined participants",
	})

	wsConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "plaza_websocket_connections_active",
		Help: "Currently active WebSocket connections",
	})

	inboundEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "plaza_inbound_events_total",
		Help: "Inbound protocol events by name",
	}, []string{"event"}) // Bounded: protocol event names only

	broadcastsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "plaza_broadcasts_total",
		Help: "Outbound events fanned out, by event and audience",
	}, []string{"event", "audience"})

	messagesDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "plaza_messages_dropped_total",
		Help: "Outbound messages dropped because a client send buffer was full",
	})

	dispatchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "plaza_dispatch_duration_seconds",
		Help:    "Time spent handling one inbound event",
		Buckets: []float64{0.00001, 0.0001, 0.001, 0.005, 0.01, 0.05},
	})

	connectionRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "plaza_connection_rejected_total",
		Help: "Connections rejected by rate limiter or origin check",
	}, []string{"reason"}) // Bounded: "rate_limit", "origin", "ws_total_limit", "ws_ip_limit"
)

// ObservabilityConfig configures the debug server.
type ObservabilityConfig struct {
	Enabled    bool
	ListenAddr string // MUST stay on localhost in production
}

// DefaultObservabilityConfig returns safe defaults.
func DefaultObservabilityConfig() ObservabilityConfig {
	return ObservabilityConfig{
		Enabled:    true,
		ListenAddr: "127.0.0.1:6060", // Localhost only - NEVER expose externally
	}
}

// StartDebugServer starts the internal observability server with pprof and
// the Prometheus scrape endpoint. Binding is forced to localhost unless
// ALLOW_DEBUG_EXTERNAL=true.
func StartDebugServer(cfg ObservabilityConfig) error {
	if !cfg.Enabled {
		logging.Log.Info("📊 Debug server disabled")
		return nil
	}

	if cfg.ListenAddr != "127.0.0.1:6060" && cfg.ListenAddr != "localhost:6060" {
		if os.Getenv("ALLOW_DEBUG_EXTERNAL") != "true" {
			logging.Log.Warn("⚠️ Debug server forced to localhost for security")
			cfg.ListenAddr = "127.0.0.1:6060"
		}
	}

	mux := http.NewServeMux()

	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	go func() {
		logging.Log.Infof("📊 Debug server starting on %s", cfg.ListenAddr)
		if err := http.ListenAndServe(cfg.ListenAddr, mux); err != nil {
			logging.Log.Warnf("⚠️ Debug server error: %v", err)
		}
	}()

	return nil
}

// RecordInboundEvent counts one inbound protocol event.
func RecordInboundEvent(event string) {
	inboundEventsTotal.WithLabelValues(event).Inc()
}

// RecordBroadcast counts one outbound fan-out.
func RecordBroadcast(event, audience string) {
	broadcastsTotal.WithLabelValues(event, audience).Inc()
}

// RecordDroppedMessage counts an outbound message dropped on backpressure.
func RecordDroppedMessage() {
	messagesDropped.Inc()
}

// RecordDispatch records how long one inbound event took to handle.
func RecordDispatch(duration time.Duration) {
	dispatchDuration.Observe(duration.Seconds())
}

// RecordConnectionRejected increments the rejection counter.
// reason must be one of: "rate_limit", "origin", "ws_total_limit", "ws_ip_limit".
func RecordConnectionRejected(reason string) {
	connectionRejected.WithLabelValues(reason).Inc()
}

// UpdateParticipants updates the participants gauge.
func UpdateParticipants(count int) {
	participantsOnline.Set(float64(count))
}

// UpdateWSConnections updates the WebSocket connection gauge.
func UpdateWSConnections(count int) {
	wsConnectionsActive.Set(float64(count))
}
