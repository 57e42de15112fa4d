package rest

import (
	"context"
	"net/http"
	"time"
)

// storePinger is the minimal store health check.
type storePinger interface {
	Ping(ctx context.Context) error
}

// jobCounter reports in-flight batched imports.
type jobCounter interface {
	Active() int
}

// HealthHandler serves /live, /ready and /health.
type HealthHandler struct {
	store   storePinger
	driver  string
	jobs    jobCounter
	version string
}

func NewHealthHandler(store storePinger, driver string, jobs jobCounter, version string) *HealthHandler {
	return &HealthHandler{store: store, driver: driver, jobs: jobs, version: version}
}

// HealthResponse is the JSON body of every health endpoint.
type HealthResponse struct {
	Status     string                `json:"status"`
	Version    string                `json:"version,omitempty"`
	Components map[string]CompStatus `json:"components,omitempty"`
	Timestamp  time.Time             `json:"timestamp"`
}

// CompStatus is the status of one component.
type CompStatus struct {
	Status  string `json:"status"`
	Driver  string `json:"driver,omitempty"`
	Latency string `json:"latency,omitempty"`
	Active  *int   `json:"active,omitempty"`
}

// Live always returns 200.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Timestamp: time.Now()})
}

// Ready returns 503 while the store is unreachable.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "down", Timestamp: time.Now()})
		return
	}
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Timestamp: time.Now()})
}

// Health reports store latency and the number of running import jobs.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	components := make(map[string]CompStatus, 2)
	overall := "ok"

	start := time.Now()
	if err := h.store.Ping(ctx); err != nil {
		components["store"] = CompStatus{Status: "down", Driver: h.driver}
		overall = "down"
	} else {
		components["store"] = CompStatus{Status: "ok", Driver: h.driver, Latency: time.Since(start).String()}
	}

	active := h.jobs.Active()
	components["jobs"] = CompStatus{Status: "ok", Active: &active}

	status := http.StatusOK
	if overall != "ok" {
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, HealthResponse{
		Status:     overall,
		Version:    h.version,
		Components: components,
		Timestamp:  time.Now(),
	})
}
