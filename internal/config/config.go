package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port        int
	DataPath    string
	DBPath      string
	Fetcher     string // "yt-dlp" or "native"
	YTDLPPath   string
	CORSOrigins []string
	JobTimeout  time.Duration
	CacheTTL    time.Duration
}

func Load() *Config {
	port, _ := strconv.Atoi(getEnv("PORT", "8000"))
	dataPath := getEnv("DATA_PATH", "./data")

	timeoutMinutes, _ := strconv.Atoi(getEnv("JOB_TIMEOUT_MINUTES", "30"))
	ttlDays, _ := strconv.Atoi(getEnv("CACHE_TTL_DAYS", "7"))

	// CORS origins: comma-separated list or "*" (default)
	corsOrigins := []string{"*"}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		origins := strings.Split(v, ",")
		corsOrigins = make([]string, 0, len(origins))
		for _, o := range origins {
			o = strings.TrimSpace(o)
			if o != "" {
				corsOrigins = append(corsOrigins, o)
			}
		}
	}

	return &Config{
		Port:        port,
		DataPath:    dataPath,
		DBPath:      getEnv("DB_PATH", dataPath+"/subtitles.db"),
		Fetcher:     getEnv("FETCHER", "yt-dlp"),
		YTDLPPath:   getEnv("YTDLP_PATH", "yt-dlp"),
		CORSOrigins: corsOrigins,
		JobTimeout:  time.Duration(timeoutMinutes) * time.Minute,
		CacheTTL:    time.Duration(ttlDays) * 24 * time.Hour,
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
