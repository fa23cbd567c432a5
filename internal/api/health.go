package api

import (
	"net/http"
	"runtime"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/maxbet-labs/casino-sim-go/internal/games"
)

// HealthStatus represents the overall health status
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// HealthCheckResponse represents the health check response
type HealthCheckResponse struct {
	Status    HealthStatus `json:"status"`
	Timestamp string       `json:"timestamp"`
	Uptime    string       `json:"uptime"`
	Games     int          `json:"games"`
	System    SystemInfo   `json:"system"`
	RequestID string       `json:"request_id,omitempty"`
}

// SystemInfo contains runtime information
type SystemInfo struct {
	GoVersion     string `json:"go_version"`
	NumGoroutines int    `json:"num_goroutines"`
	NumCPU        int    `json:"num_cpu"`
	MemoryAlloc   uint64 `json:"memory_alloc_bytes"`
	MemorySys     uint64 `json:"memory_sys_bytes"`
	GCCycles      uint32 `json:"gc_cycles"`
}

func systemInfo() SystemInfo {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	return SystemInfo{
		GoVersion:     runtime.Version(),
		NumGoroutines: runtime.NumGoroutine(),
		NumCPU:        runtime.NumCPU(),
		MemoryAlloc:   mem.Alloc,
		MemorySys:     mem.Sys,
		GCCycles:      mem.NumGC,
	}
}

// handleHealthCheck reports overall service health
func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	status := HealthStatusHealthy
	httpStatus := http.StatusOK

	// The registry must hold every game the casino serves.
	if len(games.List()) == 0 || len(s.casino.List()) == 0 {
		status = HealthStatusUnhealthy
		httpStatus = http.StatusServiceUnavailable
	}

	s.writeJSON(w, httpStatus, HealthCheckResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Uptime:    time.Since(s.startTime).String(),
		Games:     len(s.casino.List()),
		System:    systemInfo(),
		RequestID: middleware.GetReqID(r.Context()),
	})
}

// handleReadiness reports whether the service can take traffic
func (s *Server) handleReadiness(w http.ResponseWriter, r *http.Request) {
	if s.db != nil {
		if _, err := s.db.Summary(""); err != nil {
			s.writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"reason": err.Error(),
			})
			return
		}
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handleLiveness is the trivial liveness probe
func (s *Server) handleLiveness(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}
