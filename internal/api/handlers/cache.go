package handlers

import (
	"net/http"

	"github.com/yt-subtitles/backend/internal/cache"
)

type CacheHandler struct {
	cache *cache.Cache
}

func NewCacheHandler(c *cache.Cache) *CacheHandler {
	return &CacheHandler{cache: c}
}

// Clear removes every cached transcript and reports the count
func (h *CacheHandler) Clear(w http.ResponseWriter, r *http.Request) {
	count, err := h.cache.ClearAll()
	if err != nil {
		jsonError(w, "failed to clear cache: "+err.Error(), http.StatusInternalServerError)
		return
	}
	jsonResponse(w, map[string]int64{"removed_count": count}, http.StatusOK)
}
