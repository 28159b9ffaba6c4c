package handlers

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HandleHealth reports service liveness plus request counters
func (s *Server) HandleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := s.Metrics.Snapshot()
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status":        "healthy",
			"uptime":        snap.Uptime.String(),
			"requests":      snap.RequestCount,
			"errors":        snap.ErrorCount,
			"avg_latencies": snap.AvgLatencyMs,
		})
	}
}

// HandleMetrics exposes Prometheus metrics
func (s *Server) HandleMetrics() http.Handler {
	return promhttp.Handler()
}
