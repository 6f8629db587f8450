package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	ServerPort string
	GinMode    string
	LogLevel   string
	LogFormat  string

	// StreamURL is the exam streaming endpoint (ws:// or wss://).
	StreamURL string
	// StreamRole is announced to the server right after connecting.
	StreamRole string
	// ReconnectDelay is the fixed wait between reconnection attempts.
	ReconnectDelay time.Duration
	// MaxReconnectAttempts bounds automatic reconnection; exhausting it is
	// terminal until the operator restarts the view.
	MaxReconnectAttempts int
	// LoadingGrace delays the loading indicator after a close so fast
	// reconnects do not flicker.
	LoadingGrace time.Duration

	// TimerMode selects the countdown strategy: "local" or "server".
	TimerMode string

	// HelperToken is the auth provider's access token; its email claim
	// becomes the answeredBy identity. HelperID is the plain fallback.
	HelperToken string
	HelperID    string

	// Audit trail (optional; both must be set to enable it).
	RedisURL         string
	AuditDatabaseURL string
	MaxDBConns       int32

	// AllowedOrigins controls CORS on the projection API.
	// Empty slice means all origins are permitted (dev default).
	AllowedOrigins []string
}

// Load reads configuration from environment variables with sensible defaults.
// It loads .env file if present but does not fail if missing.
func Load() *Config {
	_ = godotenv.Load() // .env is optional

	return &Config{
		ServerPort:           getEnv("SERVER_PORT", "8090"),
		GinMode:              getEnv("GIN_MODE", "debug"),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		LogFormat:            getEnv("LOG_FORMAT", "pretty"),
		StreamURL:            getEnv("STREAM_URL", "wss://localhost:8443/stream"),
		StreamRole:           getEnv("STREAM_ROLE", "exam"),
		ReconnectDelay:       time.Duration(getEnvInt("RECONNECT_DELAY_MS", 3000)) * time.Millisecond,
		MaxReconnectAttempts: getEnvInt("MAX_RECONNECT_ATTEMPTS", 5),
		LoadingGrace:         time.Duration(getEnvInt("LOADING_GRACE_MS", 500)) * time.Millisecond,
		TimerMode:            getEnv("TIMER_MODE", "local"),
		HelperToken:          getEnv("HELPER_TOKEN", ""),
		HelperID:             getEnv("HELPER_ID", ""),
		RedisURL:             getEnv("REDIS_URL", ""),
		AuditDatabaseURL:     getEnv("AUDIT_DATABASE_URL", ""),
		MaxDBConns:           int32(getEnvInt("MAX_DB_CONNS", 4)),
		AllowedOrigins:       parseOrigins(getEnv("ALLOWED_ORIGINS", "")),
	}
}

// AuditEnabled reports whether the answer audit trail should run.
func (c *Config) AuditEnabled() bool {
	return c.RedisURL != "" && c.AuditDatabaseURL != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// parseOrigins splits a comma-separated origins string into a trimmed slice.
// Returns nil (allow-all) if the input is empty.
func parseOrigins(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
