package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/yt-subtitles/backend/internal/provider"
)

type HealthHandler struct {
	registry *provider.Registry
	version  string
}

func NewHealthHandler(registry *provider.Registry, version string) *HealthHandler {
	return &HealthHandler{registry: registry, version: version}
}

// Health reports readiness and the registered provider identifiers
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, map[string]interface{}{
		"status":    "healthy",
		"providers": h.registry.Names(),
		"version":   h.version,
	}, http.StatusOK)
}

// Root serves a small identification blurb
func (h *HealthHandler) Root(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, map[string]string{
		"message": "YouTube AI Subtitles Backend",
		"version": h.version,
	}, http.StatusOK)
}

func jsonResponse(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func jsonError(w http.ResponseWriter, msg string, status int) {
	jsonResponse(w, map[string]string{"error": msg}, status)
}
