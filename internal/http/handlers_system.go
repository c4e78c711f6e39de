package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"fatture/internal/version"
)

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	metrics := s.tracer.GetMetrics()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"timestamp":      time.Now().Format(time.RFC3339),
		"uptime":         time.Since(s.startedAt).String(),
		"total_requests": metrics.TotalRequests,
	})
}

// handleReady performs readiness check with dependency verification
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	status := "ready"
	httpStatus := http.StatusOK
	checks := make(map[string]any)

	// A cheap fetch proves the data backend is reachable.
	if err := s.store.FetchCategories(ctx); err != nil {
		checks["data_backend"] = fmt.Sprintf("failed: %v", err)
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["data_backend"] = "ok"
	}

	checks["summary_cache_entries"] = s.summaryCache.Size()

	writeJSON(w, httpStatus, map[string]any{
		"status": status,
		"checks": checks,
	})
}

// handleVersion reports the build stamp written at release time.
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	stamp, err := version.Read(s.versionPath)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorBody("version stamp not available"))
		return
	}
	writeJSON(w, http.StatusOK, stamp)
}
