package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/dgallion1/docreview/internal/extract"
	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	// Auth; empty disables API key checks.
	APIKey string

	// Extraction service
	ExtractBaseURL      string
	ExtractDefaultModel string
	ExtractTimeout      time.Duration

	// Worker pool
	WorkerCount  int
	MaxQueueSize int

	// Upload limits
	MaxUploadBytes int64

	// Session state
	SessionTTL time.Duration

	// Page rasterization
	RenderDPI      float64
	RenderMaxWidth int
}

// Load reads configuration from the environment, after applying a .env
// file from the working directory if one exists.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("DOCREVIEW_API_KEY"),

		ExtractBaseURL:      envOr("EXTRACT_BASE_URL", "http://localhost:8000/api"),
		ExtractDefaultModel: envOr("EXTRACT_DEFAULT_MODEL", "surya"),
		ExtractTimeout:      envDuration("EXTRACT_TIMEOUT", 5*time.Minute),

		WorkerCount:  envInt("WORKER_COUNT", 4),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 100),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		SessionTTL: envDuration("SESSION_TTL", 1*time.Hour),

		RenderDPI:      envFloat("RENDER_DPI", 144),
		RenderMaxWidth: envInt("RENDER_MAX_WIDTH", 2400),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.ExtractTimeout <= 0 {
		cfg.ExtractTimeout = 5 * time.Minute
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 1 * time.Hour
	}
	if cfg.RenderDPI <= 0 {
		cfg.RenderDPI = 144
	}
	if cfg.RenderMaxWidth <= 0 {
		cfg.RenderMaxWidth = 2400
	}

	return cfg
}

func (c Config) Validate() error {
	u, err := url.Parse(c.ExtractBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("EXTRACT_BASE_URL must be an absolute URL, got %q", c.ExtractBaseURL)
	}
	if !extract.Models[c.ExtractDefaultModel] {
		return fmt.Errorf("EXTRACT_DEFAULT_MODEL %q is not a supported model", c.ExtractDefaultModel)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
