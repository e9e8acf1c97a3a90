package cli

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/satriahrh/gemchat/adapters/llm"
	"github.com/satriahrh/gemchat/domain/repositories"
	"github.com/satriahrh/gemchat/internal/config"
)

// newLogger builds a production zap logger writing to stderr.
// levelName overrides fallback when set; console encoding keeps terminal output readable.
func newLogger(levelName string, fallback zapcore.Level, encoding string) (*zap.Logger, error) {
	level := fallback
	if levelName != "" {
		parsed, err := zapcore.ParseLevel(levelName)
		if err != nil {
			return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
		}
		level = parsed
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.Encoding = encoding
	if encoding == "console" {
		cfg.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	}

	return cfg.Build()
}

// newLargeLanguageModel returns the provider selected by LLM_PROVIDER
func newLargeLanguageModel(cfg *config.Config, logger *zap.Logger) (repositories.LargeLanguageModel, error) {
	switch cfg.Provider {
	case config.ProviderGemini:
		gemini, err := llm.NewGeminiLLM(llm.GeminiConfig{
			APIKey:            cfg.GeminiAPIKey,
			BaseURL:           cfg.GeminiBaseURL,
			Model:             cfg.GeminiModel,
			SystemInstruction: cfg.SystemInstruction,
			Temperature:       &cfg.Temperature,
			TopP:              &cfg.TopP,
			TopK:              &cfg.TopK,
			MaxOutputTokens:   cfg.MaxOutputTokens,
		}, logger)
		if err != nil {
			return nil, err
		}
		return gemini, nil
	case config.ProviderOpenAI:
		return llm.NewOpenAILLM(llm.OpenAIConfig{
			APIKey:            cfg.OpenAIAPIKey,
			BaseURL:           cfg.OpenAIBaseURL,
			Model:             cfg.OpenAIModel,
			SystemInstruction: cfg.SystemInstruction,
			Temperature:       cfg.Temperature,
			TopP:              cfg.TopP,
			MaxOutputTokens:   cfg.MaxOutputTokens,
		}, logger), nil
	case config.ProviderMock:
		return llm.NewMockLLM(), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}
