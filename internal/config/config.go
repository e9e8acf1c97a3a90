// Package config loads runtime settings from the environment and optional .env files.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Provider names accepted by LLM_PROVIDER
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderMock   = "mock"
)

// Config holds every setting the commands need
type Config struct {
	Provider string

	GeminiAPIKey  string
	GeminiModel   string
	GeminiBaseURL string

	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string

	SystemInstruction string
	Temperature       float32
	TopP              float32
	TopK              float32
	MaxOutputTokens   int
	RequestTimeout    time.Duration

	IdleTimeout  time.Duration
	Port         string
	AccessSecret string
	LogLevel     string
}

// Load reads .env files (missing files are ignored) and then the process environment.
// Variables already set in the environment win over .env values.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", file, err)
		}
	}

	cfg := &Config{
		Provider:          strings.ToLower(getEnv("LLM_PROVIDER", ProviderGemini)),
		GeminiAPIKey:      os.Getenv("GEMINI_API_KEY"),
		GeminiModel:       os.Getenv("GEMINI_MODEL"),
		GeminiBaseURL:     os.Getenv("GEMINI_BASE_URL"),
		OpenAIAPIKey:      os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:       os.Getenv("OPENAI_MODEL"),
		OpenAIBaseURL:     os.Getenv("OPENAI_BASE_URL"),
		SystemInstruction: os.Getenv("CHAT_SYSTEM_INSTRUCTION"),
		Port:              getEnv("PORT", "8080"),
		AccessSecret:      os.Getenv("CHAT_ACCESS_SECRET"),
		LogLevel:          os.Getenv("LOG_LEVEL"),
	}

	var err error
	if cfg.Temperature, err = getFloat32("CHAT_TEMPERATURE", 0.7); err != nil {
		return nil, err
	}
	if cfg.TopP, err = getFloat32("CHAT_TOP_P", 0.8); err != nil {
		return nil, err
	}
	if cfg.TopK, err = getFloat32("CHAT_TOP_K", 40); err != nil {
		return nil, err
	}
	if cfg.MaxOutputTokens, err = getInt("CHAT_MAX_OUTPUT_TOKENS", 2048); err != nil {
		return nil, err
	}
	if cfg.RequestTimeout, err = getDuration("CHAT_REQUEST_TIMEOUT", 60*time.Second); err != nil {
		return nil, err
	}

	if cfg.IdleTimeout, err = getDuration("CHAT_IDLE_TIMEOUT", 30*time.Minute); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks values that would otherwise fail late
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderGemini, ProviderOpenAI, ProviderMock:
	default:
		return fmt.Errorf("unknown LLM_PROVIDER %q (want gemini, openai or mock)", c.Provider)
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("CHAT_REQUEST_TIMEOUT must be positive, got %s", c.RequestTimeout)
	}

	if c.IdleTimeout <= 0 {
		return fmt.Errorf("CHAT_IDLE_TIMEOUT must be positive, got %s", c.IdleTimeout)
	}

	if c.Port == "" {
		return errors.New("PORT must not be empty")
	}

	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getFloat32(key string, fallback float32) (float32, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return float32(f), nil
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return i, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		// Plain numbers are seconds
		secs, convErr := strconv.Atoi(v)
		if convErr != nil {
			return 0, fmt.Errorf("invalid %s: %w", key, err)
		}
		d = time.Duration(secs) * time.Second
	}
	return d, nil
}
