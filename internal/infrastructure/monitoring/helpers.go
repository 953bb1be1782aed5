package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler serves the collector's registry in Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Snapshot returns the current values for the JSON stats API.
func (m *Metrics) Snapshot() map[string]interface{} {
	m.mu.RLock()
	s := m.snapshot
	m.mu.RUnlock()

	avg := 0.0
	if s.RequestCount > 0 {
		avg = s.TotalDuration / float64(s.RequestCount) * 1000
	}

	return map[string]interface{}{
		"uptime_seconds":     time.Since(m.startTime).Seconds(),
		"requests_total":     s.TotalRequests,
		"errors_total":       s.TotalErrors,
		"avg_latency_ms":     avg,
		"mutations_total":    s.Mutations,
		"persist_failures":   s.PersistFailures,
		"uploads_total":      s.Uploads,
		"active_connections": s.ActiveConnections,
	}
}
