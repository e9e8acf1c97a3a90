package llm

import (
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

const (
	defaultModel       = "gemini-2.0-flash"
	defaultTemperature = 0.7
	defaultTopP        = 0.8
	defaultTopK        = 40
	defaultMaxTokens   = 2048
)

// GeminiConfig holds the settings for the Gemini provider.
// Nil sampling fields and an empty model or zero MaxOutputTokens fall back to
// the package defaults; an explicit zero sampling value is sent as is.
type GeminiConfig struct {
	APIKey            string
	BaseURL           string
	Model             string
	SystemInstruction string
	Temperature       *float32
	TopP              *float32
	TopK              *float32
	MaxOutputTokens   int
}

// ValidateGeminiConfig validates the GeminiConfig.
// The API key is not checked here; a missing key fails the first remote call.
func ValidateGeminiConfig(config GeminiConfig) error {
	// Validate temperature is in the valid range
	if t := config.Temperature; t != nil && (*t < 0 || *t > 2) {
		return fmt.Errorf("temperature must be between 0 and 2, got %f", *t)
	}

	// Validate topP is in the valid range
	if p := config.TopP; p != nil && (*p < 0 || *p > 1) {
		return fmt.Errorf("topP must be between 0 and 1, got %f", *p)
	}

	if k := config.TopK; k != nil && *k < 0 {
		return fmt.Errorf("topK must be positive, got %f", *k)
	}

	if config.MaxOutputTokens < 0 {
		return fmt.Errorf("maxOutputTokens must be positive, got %d", config.MaxOutputTokens)
	}

	return nil
}

// withDefaults fills unset fields with the package defaults
func (c GeminiConfig) withDefaults(logger *zap.Logger) GeminiConfig {
	if c.Model == "" {
		c.Model = defaultModel
		logger.Info("Using default model", zap.String("model", c.Model))
	}

	if c.Temperature == nil {
		c.Temperature = genai.Ptr[float32](defaultTemperature)
		logger.Debug("Using default temperature", zap.Float32("temperature", *c.Temperature))
	}

	if c.TopP == nil {
		c.TopP = genai.Ptr[float32](defaultTopP)
		logger.Debug("Using default topP", zap.Float32("topP", *c.TopP))
	}

	if c.TopK == nil {
		c.TopK = genai.Ptr[float32](defaultTopK)
		logger.Debug("Using default topK", zap.Float32("topK", *c.TopK))
	}

	if c.MaxOutputTokens == 0 {
		c.MaxOutputTokens = defaultMaxTokens
		logger.Debug("Using default maxOutputTokens", zap.Int("maxOutputTokens", c.MaxOutputTokens))
	}

	return c
}
