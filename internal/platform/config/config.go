package config

import (
	"log/slog"
	"os"
	"time"
)

// Server captures process-level configuration.
type Server struct {
	Addr           string
	PostgresDSN    string
	RedisURL       string
	JWTSigningKey  string
	TokenTTL       time.Duration
	LogLevel       slog.Level
	IdempotencyTTL time.Duration
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("EAGLEBANK_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	tokenTTL := 15 * time.Minute
	if raw := os.Getenv("TOKEN_TTL"); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil {
			tokenTTL = parsed
		}
	}

	idempotencyTTL := 24 * time.Hour
	if raw := os.Getenv("IDEMPOTENCY_TTL"); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil {
			idempotencyTTL = parsed
		}
	}

	level := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		level = slog.LevelDebug
	}

	return Server{
		Addr:           addr,
		PostgresDSN:    os.Getenv("POSTGRES_DSN"),
		RedisURL:       os.Getenv("REDIS_URL"),
		JWTSigningKey:  jwtSigningKey,
		TokenTTL:       tokenTTL,
		LogLevel:       level,
		IdempotencyTTL: idempotencyTTL,
	}
}
