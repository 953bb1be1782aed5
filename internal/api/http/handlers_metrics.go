package http

import (
	"time"

	"github.com/GriffinCanCode/CodeCraft/backend/internal/infrastructure/monitoring"
)

// HandlerMetrics records handler-level outcomes that the request
// middleware cannot see. A nil collector turns every call into a no-op.
type HandlerMetrics struct {
	metrics *monitoring.Metrics
}

// NewHandlerMetrics creates a metrics wrapper
func NewHandlerMetrics(metrics *monitoring.Metrics) *HandlerMetrics {
	return &HandlerMetrics{metrics: metrics}
}

// TrackExport starts timing an export; call the result with the outcome.
func (hm *HandlerMetrics) TrackExport(format string) func(ok bool) {
	start := time.Now()
	return func(ok bool) {
		if hm == nil || hm.metrics == nil {
			return
		}
		hm.metrics.RecordExport(format, ok)
		hm.metrics.ObserveExport(time.Since(start))
	}
}

// Snapshot returns the JSON view of the collector, or nil without one.
func (hm *HandlerMetrics) Snapshot() map[string]interface{} {
	if hm == nil || hm.metrics == nil {
		return nil
	}
	return hm.metrics.Snapshot()
}
