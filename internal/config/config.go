package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration values for the application
type Config struct {
	Port              string
	LogLevel          string
	Environment       string
	RedisURL          string
	SupabaseURL       string
	SupabaseAnonKey   string
	SupabaseJWTSecret string
	ViaCEPBaseURL     string
	RandomUserBaseURL string
	// SuggestedProxyURL, when set, relays the suggested-users request
	// through a CORS proxy the same way the hosted frontend did.
	SuggestedProxyURL    string
	SuggestedNationality string
	SessionTTL           time.Duration
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	return &Config{
		Port:                 getEnv("PORT", "8080"),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		Environment:          getEnv("ENVIRONMENT", "production"),
		RedisURL:             getEnv("REDIS_URL", ""),
		SupabaseURL:          getEnv("SUPABASE_URL", ""),
		SupabaseAnonKey:      getEnv("SUPABASE_ANON_KEY", ""),
		SupabaseJWTSecret:    getEnv("SUPABASE_JWT_SECRET", ""),
		ViaCEPBaseURL:        getEnv("VIACEP_BASE_URL", "https://viacep.com.br"),
		RandomUserBaseURL:    getEnv("RANDOMUSER_BASE_URL", "https://randomuser.me"),
		SuggestedProxyURL:    getEnv("SUGGESTED_PROXY_URL", ""),
		SuggestedNationality: getEnv("SUGGESTED_NATIONALITY", "br"),
		SessionTTL:           time.Duration(getIntEnv("SESSION_TTL_HOURS", 168)) * time.Hour,
	}, nil
}

// getEnv gets an environment variable with a fallback value
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getIntEnv gets an integer environment variable with a fallback value
func getIntEnv(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}
