package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort     string
	MySQLDSN       string
	RedisAddr      string
	RedisDB        int
	RedisPass      string
	JWTSecret      string
	AllowedOrigins []string
}

// ErrMissingJWTSecret is returned when JWT_SECRET is not set. The server must
// refuse to start rather than sign tokens with an empty secret.
var ErrMissingJWTSecret = errors.New("JWT_SECRET is not set")

// Load builds Config from environment with sensible defaults.
// JWT_SECRET has no default and its absence is an error.
func Load() (*Config, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, ErrMissingJWTSecret
	}

	return &Config{
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		MySQLDSN:       getEnv("MYSQL_DSN", "user:password@tcp(localhost:3306)/bugtrail?charset=utf8mb4&parseTime=True&loc=Local"),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:        getEnvInt("REDIS_DB", 0),
		RedisPass:      os.Getenv("REDIS_PASSWORD"),
		JWTSecret:      secret,
		AllowedOrigins: splitOrigins(getEnv("ALLOWED_ORIGINS", "http://localhost:5173")),
	}, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func splitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
