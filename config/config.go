package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/neurales/dashboard/internal/acquisition"
)

// Config holds application configuration loaded from environment.
type Config struct {
	Server   ServerConfig
	Upstream UpstreamConfig
	Redis    RedisConfig
	Log      LogConfig
	Records  RecordsConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port               string
	ReadTimeout        int
	WriteTimeout       int
	CORSAllowedOrigins []string // "*" or a comma-separated list in env
}

// UpstreamConfig locates the EEG backend.
type UpstreamConfig struct {
	APIBaseURL         string
	WSBaseURL          string // empty = derived from APIBaseURL
	TimeoutSec         int
	StreamHandshakeSec int
}

// RedisConfig holds Redis connection settings. An empty Addr disables the
// cross-instance state fan-out.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Channel  string // acquisition state channel shared by the instances
}

// LogConfig selects log outputs.
type LogConfig struct {
	FilePath    string // empty = console only
	Environment string
}

// RecordsConfig tunes the patient/device/result mirrors.
type RecordsConfig struct {
	CacheTTLMinutes int
}

// StreamURL returns the live EEG stream endpoint.
func (c UpstreamConfig) StreamURL() string {
	return acquisition.BuildStreamURL(c.WSBaseURL, c.APIBaseURL)
}

func (c UpstreamConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSec) * time.Second
}

func (c UpstreamConfig) HandshakeTimeout() time.Duration {
	return time.Duration(c.StreamHandshakeSec) * time.Second
}

func (c LogConfig) IsProduction() bool {
	return c.Environment == "production"
}

func (c RecordsConfig) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLMinutes) * time.Minute
}

// Load reads configuration from environment, with optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:               getEnv("PORT", "8080"),
			ReadTimeout:        getEnvInt("READ_TIMEOUT_SEC", 30),
			WriteTimeout:       getEnvInt("WRITE_TIMEOUT_SEC", 30),
			CORSAllowedOrigins: splitTrim(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"), ","),
		},
		Upstream: UpstreamConfig{
			APIBaseURL:         getEnv("API_BASE_URL", "http://localhost:8000"),
			WSBaseURL:          getEnv("WS_BASE_URL", ""),
			TimeoutSec:         getEnvInt("UPSTREAM_TIMEOUT_SEC", 20),
			StreamHandshakeSec: getEnvInt("STREAM_HANDSHAKE_SEC", 45),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			Channel:  getEnv("REDIS_STATE_CHANNEL", "acquisition:state"),
		},
		Log: LogConfig{
			FilePath:    getEnv("LOG_FILE_PATH", ""),
			Environment: getEnv("APP_ENV", "development"),
		},
		Records: RecordsConfig{
			CacheTTLMinutes: getEnvInt("RECORDS_CACHE_TTL_MIN", 10),
		},
	}
	return cfg, nil
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func splitTrim(s, sep string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, v := range strings.Split(s, sep) {
		if t := strings.TrimSpace(v); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
