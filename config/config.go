package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the process configuration, loaded from the environment
// (optionally seeded from a .env file).
type Config struct {
	Port               string
	DBPath             string
	JWTSecret          string
	TokenTTL           time.Duration
	UploadDir          string
	CORSAllowedOrigins []string
}

// Load reads the configuration from the environment
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		DBPath:             getEnv("DB_PATH", "data/badger"),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		TokenTTL:           time.Duration(getEnvInt("TOKEN_TTL_HOURS", 168)) * time.Hour,
		UploadDir:          getEnv("UPLOAD_DIR", "data/uploads"),
		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
	}

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	return cfg
}

func getEnv(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func getEnvInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Fatalf("%s must be an integer, got %q", key, value)
	}
	return n
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if item := strings.TrimSpace(part); item != "" {
			out = append(out, item)
		}
	}
	return out
}
