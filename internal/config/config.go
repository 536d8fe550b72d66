package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port         string
	DatabaseURL  string
	LogLevel     string
	LogFile      string
	MaxBodyBytes int64

	// S3 archive for exported documents. Disabled when S3Endpoint is empty.
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3BucketName      string
	S3UseSSL          bool

	// OpenRouter
	OpenRouterAPIKey      string
	OpenRouterModel       string
	OpenRouterURL         string
	OpenRouterMaxTokens   int
	OpenRouterTemperature float64
	OpenRouterReasoning   bool
	AppReferer            string
	AppTitle              string

	// Client side
	RelayURL        string
	SummaryTimeout  time.Duration
	SummaryLanguage string
	FontURL         string
	OutputDir       string

	// Admin
	AdminAuthMode string
	AdminToken    string
}

const (
	DefaultModel   = "deepseek/deepseek-v3.2"
	DefaultFontURL = "https://cdnjs.cloudflare.com/ajax/libs/pdfmake/0.1.66/fonts/Roboto/Roboto-Regular.ttf"
)

// Load reads an optional .env file and then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	maxTokens, err := getInt("OPENROUTER_MAX_TOKENS", 8000)
	if err != nil {
		return nil, err
	}
	temperature, err := getFloat("OPENROUTER_TEMPERATURE", 0.7)
	if err != nil {
		return nil, err
	}
	timeout, err := getDuration("SUMMARY_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, err
	}
	maxBody, err := getInt("MAX_BODY_BYTES", 5<<20)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:                  getEnv("PORT", "8080"),
		DatabaseURL:           getEnv("DATABASE_URL", "data/mono.db"),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
		LogFile:               getEnv("LOG_FILE", "mono.log"),
		MaxBodyBytes:          int64(maxBody),
		S3Endpoint:            getEnv("S3_ENDPOINT", ""),
		S3AccessKeyID:         getEnv("S3_ACCESS_KEY_ID", "minioadmin"),
		S3SecretAccessKey:     getEnv("S3_SECRET_ACCESS_KEY", "minioadmin"),
		S3BucketName:          getEnv("S3_BUCKET_NAME", "summaries"),
		S3UseSSL:              getEnv("S3_USE_SSL", "false") == "true",
		OpenRouterAPIKey:      getEnv("OPENROUTER_API_KEY", ""),
		OpenRouterModel:       getEnv("OPENROUTER_MODEL", DefaultModel),
		OpenRouterURL:         getEnv("OPENROUTER_URL", "https://openrouter.ai/api/v1/chat/completions"),
		OpenRouterMaxTokens:   maxTokens,
		OpenRouterTemperature: temperature,
		OpenRouterReasoning:   getEnv("OPENROUTER_REASONING", "true") == "true",
		AppReferer:            getEnv("APP_REFERER", "https://mono-assistant.local"),
		AppTitle:              getEnv("APP_TITLE", "Mono-Assistant"),
		RelayURL:              getEnv("RELAY_URL", "http://localhost:8080/api/generate"),
		SummaryTimeout:        timeout,
		SummaryLanguage:       getEnv("SUMMARY_LANGUAGE", "English"),
		FontURL:               getEnv("FONT_URL", DefaultFontURL),
		OutputDir:             getEnv("OUTPUT_DIR", "exports"),
		AdminAuthMode:         strings.ToLower(getEnv("ADMIN_AUTH_MODE", "required")),
		AdminToken:            getEnv("ADMIN_TOKEN", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks values that would otherwise fail late. A missing
// OPENROUTER_API_KEY is deliberately allowed: the relay reports it per request.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.RelayURL == "" {
		return fmt.Errorf("RELAY_URL is required")
	}
	if c.SummaryTimeout <= 0 {
		return fmt.Errorf("SUMMARY_TIMEOUT must be positive")
	}
	if c.OpenRouterMaxTokens <= 0 {
		return fmt.Errorf("OPENROUTER_MAX_TOKENS must be positive")
	}
	switch c.AdminAuthMode {
	case "required", "optional", "disabled":
	default:
		return fmt.Errorf("ADMIN_AUTH_MODE must be required, optional or disabled, got %q", c.AdminAuthMode)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) (int, error) {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return n, nil
}

func getFloat(key string, defaultValue float64) (float64, error) {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return f, nil
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return d, nil
}
