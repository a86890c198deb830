package handlers

import "net/http"

// RootResponse describes the running API
// swagger:model RootResponse
type RootResponse struct {
	// default: Dream Vault API
	Message string `json:"message"`
	// default: 1.0.0
	Version string `json:"version"`
}

// HealthResponse is the liveness answer
// swagger:model HealthResponse
type HealthResponse struct {
	// default: healthy
	Status string `json:"status"`
}

// NewRootHandler returns an HTTP handler describing the API.
// @Summary API info
// @Tags system
// @Produce json
// @Success 200 {object} handlers.RootResponse
// @Router / [get]
func NewRootHandler(version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, RootResponse{Message: "Dream Vault API", Version: version})
	}
}

// NewHealthHandler returns a liveness probe handler.
// @Summary Health check
// @Tags system
// @Produce json
// @Success 200 {object} handlers.HealthResponse
// @Router /health [get]
func NewHealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, HealthResponse{Status: "healthy"})
	}
}
