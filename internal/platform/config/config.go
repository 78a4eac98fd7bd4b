package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
)

type HTTPConfig struct {
	Addr string
}

type SearchConfig struct {
	// CandidateLimit caps the pre-ranking candidate fetch.
	CandidateLimit int
	// TrendingWindowDays is the trailing window for the trending aggregate.
	TrendingWindowDays int
	// TrendingTopN bounds the trending result list.
	TrendingTopN int
}

type RateLimitConfig struct {
	RPS   float64
	Burst int
}

type AppConfig struct {
	ServiceName string
	LogLevel    string
	HTTP        HTTPConfig
	// NATSURL empty means analytics publishing is disabled.
	NATSURL   string
	Search    SearchConfig
	RateLimit RateLimitConfig
}

func Load() (AppConfig, error) {
	cfg := AppConfig{
		ServiceName: strings.TrimSpace(os.Getenv("SERVICE_NAME")),
		LogLevel:    strings.TrimSpace(os.Getenv("LOG_LEVEL")),
		HTTP: HTTPConfig{
			Addr: strings.TrimSpace(os.Getenv("HTTP_ADDR")),
		},
		NATSURL: strings.TrimSpace(os.Getenv("NATS_URL")),
		Search: SearchConfig{
			CandidateLimit:     envInt("SEARCH_CANDIDATE_LIMIT", 100),
			TrendingWindowDays: envInt("TRENDING_WINDOW_DAYS", 90),
			TrendingTopN:       envInt("TRENDING_TOP_N", 20),
		},
		RateLimit: RateLimitConfig{
			RPS:   envFloat("RATE_LIMIT_RPS", 10),
			Burst: envInt("RATE_LIMIT_BURST", 20),
		},
	}
	if cfg.ServiceName == "" {
		return AppConfig{}, errors.New("SERVICE_NAME is required")
	}
	if cfg.HTTP.Addr == "" {
		cfg.HTTP.Addr = ":8080"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	return cfg, nil
}

func envInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func envFloat(key string, fallback float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		return fallback
	}
	return f
}
