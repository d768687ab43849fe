package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration values loaded from environment variables.
type Config struct {
	HTTPPort     string
	DatabaseURL  string
	OpenAIAPIKey string
	OpenAIModel  string
	AppPassword  string
	TokenTTL     time.Duration // 0 = tokens valid until process restart
}

// LoadConfig loads configuration from environment variables.
// It looks for a .env file first, then checks actual environment variables.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file (useful for development)
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Could not load .env file. Using environment variables only.", err)
		// Don't fail if .env is not present, might be in production
	}

	port := getEnv("HTTP_PORT", "8080")

	dbURL := getEnv("DATABASE_URL", "")
	if dbURL == "" {
		log.Fatal("FATAL: DATABASE_URL environment variable is not set.")
	}

	openAIKey := getEnv("OPENAI_API_KEY", "")
	if openAIKey == "" {
		log.Fatal("FATAL: OPENAI_API_KEY environment variable is not set.")
	}
	openAIModel := getEnv("OPENAI_MODEL", "gpt-5-mini")

	appPassword := getEnv("APP_PASSWORD", "")
	if appPassword == "" {
		log.Fatal("FATAL: APP_PASSWORD environment variable is not set.")
	}

	ttlStr := getEnv("TOKEN_TTL_HOURS", "0") // 0 keeps tokens valid until restart
	ttlHours, err := strconv.Atoi(ttlStr)
	if err != nil || ttlHours < 0 {
		log.Printf("Warning: Invalid TOKEN_TTL_HOURS '%s', disabling token expiry. Error: %v", ttlStr, err)
		ttlHours = 0
	}

	cfg := &Config{
		HTTPPort:     port,
		DatabaseURL:  dbURL,
		OpenAIAPIKey: openAIKey,
		OpenAIModel:  openAIModel,
		AppPassword:  appPassword,
		TokenTTL:     time.Hour * time.Duration(ttlHours),
	}

	log.Printf("Loaded config: Port=%s, DB_URL=***, Model=%s, TokenTTL=%s", cfg.HTTPPort, cfg.OpenAIModel, cfg.TokenTTL)

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
