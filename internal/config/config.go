package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	CORS     CORSConfig
	Market   MarketConfig
	Gemini   GeminiConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// MarketConfig holds market data provider configuration.
// Timeout bounds every provider call; a hung provider request expires
// and is treated as a failed fetch rather than blocking the request.
type MarketConfig struct {
	Timeout time.Duration
}

// GeminiConfig holds configuration for the narrative review generator.
// APIKey from the environment is a fallback; a key stored through the
// settings endpoint (encrypted at rest) takes precedence.
type GeminiConfig struct {
	Model     string
	APIKey    string
	FernetKey string
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	marketTimeout, err := time.ParseDuration(getEnv("MARKET_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid MARKET_TIMEOUT: %w", err)
	}

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/portfolio_tracker.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{
				"http://localhost:3000",
				"http://localhost",
			},
		},
		Market: MarketConfig{
			Timeout: marketTimeout,
		},
		Gemini: GeminiConfig{
			Model:     getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
			APIKey:    getEnv("GEMINI_API_KEY", ""),
			FernetKey: getEnv("FERNET_KEY", ""),
		},
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
