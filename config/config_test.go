package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "API_BASE_URL", "WS_BASE_URL", "REDIS_ADDR", "CORS_ALLOWED_ORIGINS", "UPSTREAM_TIMEOUT_SEC"} {
		t.Setenv(k, "")
	}
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.Server.CORSAllowedOrigins)
	assert.Equal(t, "ws://localhost:8000/eeg/stream", cfg.Upstream.StreamURL())
	assert.Equal(t, 20*time.Second, cfg.Upstream.Timeout())
	assert.Equal(t, 45*time.Second, cfg.Upstream.HandshakeTimeout())
	assert.Empty(t, cfg.Redis.Addr)
	assert.Equal(t, 10*time.Minute, cfg.Records.CacheTTL())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://eeg.example.org/api/")
	t.Setenv("WS_BASE_URL", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", " http://a.local , ,http://b.local")
	t.Setenv("REDIS_DB", "not-a-number")
	t.Setenv("APP_ENV", "production")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "wss://eeg.example.org/api/eeg/stream", cfg.Upstream.StreamURL())
	assert.Equal(t, []string{"http://a.local", "http://b.local"}, cfg.Server.CORSAllowedOrigins)
	assert.Equal(t, 0, cfg.Redis.DB)
	assert.True(t, cfg.Log.IsProduction())
}
