package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	ServerHost string `env:"SERVER_HOST" envDefault:"0.0.0.0"`
	ServerPort string `env:"SERVER_PORT" envDefault:"8000"`

	QdrantURL        string `env:"QDRANT_URL" envDefault:"http://localhost:6333"`
	QdrantCollection string `env:"QDRANT_COLLECTION" envDefault:"documents"`

	LLMBaseURL     string `env:"LLM_BASE_URL"`
	LLMAPIKey      string `env:"LLM_API_KEY"`
	EmbeddingModel string `env:"EMBEDDING_MODEL" envDefault:"text-embedding-3-small"`

	// Tokenize endpoint used for chunk sizing. Empty TokenizeURL means the
	// segmenter sizes chunks by word count from the start.
	TokenizeURL            string `env:"LLM_TOKENIZE_URL"`
	ModelName              string `env:"LLM_MODEL_NAME"`
	TokenizeConnectTimeout int    `env:"LLM_TOKENIZE_CONNECT_TIMEOUT" envDefault:"1"`
	TokenizeReadTimeout    int    `env:"LLM_TOKENIZE_TIMEOUT" envDefault:"3"`
	MaxTokenInput          int    `env:"LLM_MODEL_MAX_TOKEN_INPUT" envDefault:"2000"`

	UploadDir string `env:"UPLOAD_DIR" envDefault:"./uploads"`
	TopKLimit int    `env:"SEARCH_TOP_K_LIMIT" envDefault:"20"`
	DBPath    string `env:"DB_PATH" envDefault:"./data/docsection.db"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates required fields.
// If a .env file exists in the current directory or project root, it will be loaded automatically.
// Environment variables already set take precedence over .env file values.
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	// Check current directory first, then walk up to find project root (where go.mod is)
	_ = godotenv.Load() // Try current directory

	// Try to find project root by looking for a .env
	wd, err := os.Getwd()
	if err == nil {
		dir := wd
		for i := 0; i < 5; i++ { // Limit search depth
			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); err == nil {
				_ = godotenv.Load(envPath)
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break // Reached filesystem root
			}
			dir = parent
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if cfg.LLMAPIKey == "" {
		return nil, fmt.Errorf("LLM_API_KEY is required")
	}
	if cfg.MaxTokenInput <= 0 {
		return nil, fmt.Errorf("LLM_MODEL_MAX_TOKEN_INPUT must be greater than 0")
	}
	if cfg.TokenizeConnectTimeout < 0 || cfg.TokenizeReadTimeout < 0 {
		return nil, fmt.Errorf("tokenize timeouts must not be negative")
	}
	if cfg.TokenizeReadTimeout < cfg.TokenizeConnectTimeout {
		return nil, fmt.Errorf("LLM_TOKENIZE_TIMEOUT must not be below LLM_TOKENIZE_CONNECT_TIMEOUT")
	}

	// Create the data directory if it doesn't exist (for the DB file)
	dataDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

// Addr returns the host:port the HTTP server binds to.
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}

// SlogLevel maps the configured level name to a slog.Level, defaulting to
// info for unknown names.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
