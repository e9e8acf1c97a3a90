package llm

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/satriahrh/gemchat/domain/repositories"
)

const defaultOpenAIModel = "gpt-4o-mini"

// ErrMissingOpenAIAPIKey is returned by the first remote call when no key is configured
var ErrMissingOpenAIAPIKey = errors.New("OPENAI_API_KEY environment variable is not set")

// OpenAIConfig holds the settings for the OpenAI provider
type OpenAIConfig struct {
	APIKey            string
	BaseURL           string
	Model             string
	SystemInstruction string
	Temperature       float32
	TopP              float32
	MaxOutputTokens   int
}

// OpenAILLM implements the LargeLanguageModel interface using the OpenAI chat completions API
type OpenAILLM struct {
	client *openai.Client
	config OpenAIConfig
	logger *zap.Logger
}

// NewOpenAILLM creates a new OpenAI LLM instance
func NewOpenAILLM(config OpenAIConfig, logger *zap.Logger) *OpenAILLM {
	if config.Model == "" {
		config.Model = defaultOpenAIModel
		logger.Info("Using default model", zap.String("model", config.Model))
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	return &OpenAILLM{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
		logger: logger,
	}
}

// StartChat creates a chat session with an empty history
func (o *OpenAILLM) StartChat(ctx context.Context) (repositories.ChatSession, error) {
	messages := make([]openai.ChatCompletionMessage, 0)
	if o.config.SystemInstruction != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: o.config.SystemInstruction,
		})
	}

	return &OpenAIChatSession{
		llm:      o,
		messages: messages,
	}, nil
}

// OpenAIChatSession implements the ChatSession interface
type OpenAIChatSession struct {
	llm      *OpenAILLM
	messages []openai.ChatCompletionMessage
}

// SendMessage sends the message with the accumulated history
func (s *OpenAIChatSession) SendMessage(ctx context.Context, message repositories.ChatMessage) (repositories.ChatMessage, error) {
	if s.llm.config.APIKey == "" {
		return repositories.ChatMessage{}, ErrMissingOpenAIAPIKey
	}

	userMessage := openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: message.Content,
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(s.messages)+1)
	messages = append(messages, s.messages...)
	messages = append(messages, userMessage)

	resp, err := s.llm.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       s.llm.config.Model,
		Messages:    messages,
		MaxTokens:   s.llm.config.MaxOutputTokens,
		Temperature: nonZero(s.llm.config.Temperature),
		TopP:        nonZero(s.llm.config.TopP),
	})
	if err != nil {
		return repositories.ChatMessage{}, fmt.Errorf("create chat completion: %w", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return repositories.ChatMessage{}, errors.New("empty response from OpenAI")
	}

	reply := resp.Choices[0].Message
	s.messages = append(s.messages, userMessage, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleAssistant,
		Content: reply.Content,
	})

	s.llm.logger.Debug("Chat session message processed",
		zap.String("response_preview", preview(reply.Content)),
		zap.Int("history_length", len(s.messages)))

	return repositories.ChatMessage{
		Role:    repositories.ModelRole,
		Content: reply.Content,
	}, nil
}

// History returns the exchanges sent so far, without the system instruction
func (s *OpenAIChatSession) History() ([]repositories.ChatMessage, error) {
	history := make([]repositories.ChatMessage, 0, len(s.messages))
	for _, m := range s.messages {
		switch m.Role {
		case openai.ChatMessageRoleUser:
			history = append(history, repositories.ChatMessage{Role: repositories.UserRole, Content: m.Content})
		case openai.ChatMessageRoleAssistant:
			history = append(history, repositories.ChatMessage{Role: repositories.ModelRole, Content: m.Content})
		}
	}
	return history, nil
}

// nonZero keeps an explicit zero on the wire. The request fields are omitempty,
// so a literal 0 would be dropped and the API default used instead.
func nonZero(v float32) float32 {
	if v == 0 {
		return math.SmallestNonzeroFloat32
	}
	return v
}
