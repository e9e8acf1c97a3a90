package llm

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/satriahrh/gemchat/domain/repositories"
)

// ErrMissingGeminiAPIKey is returned by the first remote call when no key is configured
var ErrMissingGeminiAPIKey = errors.New("GEMINI_API_KEY environment variable is not set")

// GeminiLLM implements the LargeLanguageModel interface using Google's Gemini API
type GeminiLLM struct {
	config GeminiConfig
	logger *zap.Logger

	mu     sync.Mutex
	client *genai.Client
}

// NewGeminiLLM creates a new Gemini LLM instance.
// The underlying client is created on first use so that credential problems
// surface as a failed call rather than a failed startup.
func NewGeminiLLM(config GeminiConfig, logger *zap.Logger) (*GeminiLLM, error) {
	if err := ValidateGeminiConfig(config); err != nil {
		return nil, err
	}

	return &GeminiLLM{
		config: config.withDefaults(logger),
		logger: logger,
	}, nil
}

// StartChat creates a chat session with an empty history
func (g *GeminiLLM) StartChat(ctx context.Context) (repositories.ChatSession, error) {
	return NewGeminiChatSession(g, g.logger), nil
}

// Model returns the configured model name
func (g *GeminiLLM) Model() string {
	return g.config.Model
}

func (g *GeminiLLM) getClient(ctx context.Context) (*genai.Client, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.client != nil {
		return g.client, nil
	}

	if g.config.APIKey == "" {
		return nil, ErrMissingGeminiAPIKey
	}

	clientConfig := &genai.ClientConfig{
		APIKey:  g.config.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if g.config.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: g.config.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	g.logger.Info("Gemini client created", zap.String("model", g.config.Model))
	g.client = client
	return client, nil
}

func (g *GeminiLLM) generateContentConfig() *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(*g.config.Temperature),
		TopP:            genai.Ptr(*g.config.TopP),
		TopK:            genai.Ptr(*g.config.TopK),
		MaxOutputTokens: int32(g.config.MaxOutputTokens),
	}
	if g.config.SystemInstruction != "" {
		config.SystemInstruction = genai.NewContentFromText(g.config.SystemInstruction, genai.RoleUser)
	}
	return config
}
