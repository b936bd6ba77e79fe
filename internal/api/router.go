package api

import (
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/yt-subtitles/backend/internal/api/handlers"
	"github.com/yt-subtitles/backend/internal/api/middleware"
	"github.com/yt-subtitles/backend/internal/cache"
	"github.com/yt-subtitles/backend/internal/pipeline"
	"github.com/yt-subtitles/backend/internal/provider"
)

func NewRouter(registry *provider.Registry, transcriptCache *cache.Cache, runner *pipeline.Runner, corsOrigins []string, version string) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger)
	r.Use(cors.Handler(middleware.CORSHandler(corsOrigins)))

	// Handlers
	healthHandler := handlers.NewHealthHandler(registry, version)
	modelsHandler := handlers.NewModelsHandler()
	cacheHandler := handlers.NewCacheHandler(transcriptCache)
	transcribeHandler := handlers.NewTranscribeHandler(runner)

	r.Get("/", healthHandler.Root)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", healthHandler.Health)
		r.Get("/models", modelsHandler.ListModels)
		r.Delete("/cache", cacheHandler.Clear)

		// Streaming channel: one websocket connection per job
		r.Get("/transcribe/ws", transcribeHandler.Stream)
	})

	return r
}
