package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "EXTRACT_BASE_URL", "EXTRACT_DEFAULT_MODEL", "WORKER_COUNT", "SESSION_TTL", "RENDER_DPI"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	assert.Equal(t, "8090", cfg.Port)
	assert.Equal(t, "surya", cfg.ExtractDefaultModel)
	assert.Equal(t, 4, cfg.WorkerCount)
	assert.Equal(t, time.Hour, cfg.SessionTTL)
	assert.Equal(t, 144.0, cfg.RenderDPI)
	require.NoError(t, cfg.Validate())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("WORKER_COUNT", "9")
	t.Setenv("SESSION_TTL", "15m")
	t.Setenv("RENDER_DPI", "72.5")
	t.Setenv("EXTRACT_DEFAULT_MODEL", "docling")
	cfg := Load()
	assert.Equal(t, 9, cfg.WorkerCount)
	assert.Equal(t, 15*time.Minute, cfg.SessionTTL)
	assert.Equal(t, 72.5, cfg.RenderDPI)
	assert.Equal(t, "docling", cfg.ExtractDefaultModel)
}

func TestLoad_InvalidFallsBack(t *testing.T) {
	t.Setenv("WORKER_COUNT", "-2")
	t.Setenv("MAX_QUEUE_SIZE", "lots")
	t.Setenv("SESSION_TTL", "0s")
	cfg := Load()
	assert.Equal(t, 4, cfg.WorkerCount)
	assert.Equal(t, 100, cfg.MaxQueueSize)
	assert.Equal(t, time.Hour, cfg.SessionTTL)
}

func TestValidate(t *testing.T) {
	cfg := Config{ExtractBaseURL: "http://svc/api", ExtractDefaultModel: "surya"}
	require.NoError(t, cfg.Validate())

	cfg.ExtractBaseURL = "not a url"
	assert.Error(t, cfg.Validate())

	cfg.ExtractBaseURL = "http://svc/api"
	cfg.ExtractDefaultModel = "unknown"
	assert.Error(t, cfg.Validate())
}
