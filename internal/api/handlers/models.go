package handlers

import (
	"net/http"

	"github.com/yt-subtitles/backend/internal/provider"
)

type ModelsHandler struct{}

func NewModelsHandler() *ModelsHandler {
	return &ModelsHandler{}
}

// ListModels returns the supported models per provider for frontend dropdowns
func (h *ModelsHandler) ListModels(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, map[string]interface{}{
		"providers": provider.Catalog(),
	}, http.StatusOK)
}
