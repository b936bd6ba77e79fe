package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/yt-subtitles/backend/internal/api"
	"github.com/yt-subtitles/backend/internal/cache"
	"github.com/yt-subtitles/backend/internal/config"
	"github.com/yt-subtitles/backend/internal/downloader"
	"github.com/yt-subtitles/backend/internal/pipeline"
	"github.com/yt-subtitles/backend/internal/provider"
)

const version = "1.0.0"

func main() {
	godotenv.Load()
	cfg := config.Load()

	// Ensure data directory exists
	os.MkdirAll(cfg.DataPath, 0755)

	// Initialize transcript cache
	transcriptCache, err := cache.Open(cfg.DBPath, cfg.CacheTTL)
	if err != nil {
		log.Fatalf("Failed to open cache: %v", err)
	}
	defer transcriptCache.Close()

	// Register providers
	registry := provider.NewRegistry()
	registry.Register(provider.NewOpenAI())
	registry.Register(provider.NewGroq())
	log.Printf("Registered providers: %v", registry.Names())

	// Audio fetcher
	var fetcher downloader.Fetcher
	switch cfg.Fetcher {
	case "native":
		fetcher = downloader.NewNative()
		log.Printf("Using native audio fetcher")
	default:
		fetcher = downloader.NewYTDLP(cfg.YTDLPPath)
		log.Printf("Using yt-dlp audio fetcher (%s)", cfg.YTDLPPath)
	}

	runner := pipeline.NewRunner(registry, transcriptCache, fetcher, cfg.JobTimeout)

	// Create router
	router := api.NewRouter(registry, transcriptCache, runner, cfg.CORSOrigins, version)

	// Start server
	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Printf("Starting server on %s", addr)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Println("Shutting down...")
		transcriptCache.Close()
		os.Exit(0)
	}()

	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
