package llm

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/satriahrh/gemchat/domain/repositories"
)

// GeminiChatSession implements the ChatSession interface.
// History only grows on successful exchanges.
type GeminiChatSession struct {
	llm     *GeminiLLM
	logger  *zap.Logger
	config  *genai.GenerateContentConfig
	history []*genai.Content
}

// NewGeminiChatSession creates a new chat session bound to llm
func NewGeminiChatSession(llm *GeminiLLM, logger *zap.Logger) *GeminiChatSession {
	return &GeminiChatSession{
		llm:     llm,
		logger:  logger,
		config:  llm.generateContentConfig(),
		history: make([]*genai.Content, 0),
	}
}

// SendMessage sends a message and gets a response, updating the history
func (s *GeminiChatSession) SendMessage(ctx context.Context, message repositories.ChatMessage) (repositories.ChatMessage, error) {
	client, err := s.llm.getClient(ctx)
	if err != nil {
		return repositories.ChatMessage{}, err
	}

	userContent := genai.NewContentFromText(message.Content, genai.RoleUser)

	contents := make([]*genai.Content, 0, len(s.history)+1)
	contents = append(contents, s.history...)
	contents = append(contents, userContent)

	response, err := client.Models.GenerateContent(ctx, s.llm.config.Model, contents, s.config)
	if err != nil {
		return repositories.ChatMessage{}, fmt.Errorf("generate content: %w", err)
	}

	responseText, err := extractResponseText(response)
	if err != nil {
		return repositories.ChatMessage{}, err
	}

	s.history = append(s.history, userContent, genai.NewContentFromText(responseText, genai.RoleModel))

	s.logger.Debug("Chat session message processed",
		zap.String("user_message", preview(message.Content)),
		zap.String("response_preview", preview(responseText)),
		zap.Int("history_length", len(s.history)))

	return repositories.ChatMessage{
		Role:    repositories.ModelRole,
		Content: responseText,
	}, nil
}

// History returns the current conversation history
func (s *GeminiChatSession) History() ([]repositories.ChatMessage, error) {
	return convertGeminiToRepositoryFormat(s.history), nil
}

func extractResponseText(response *genai.GenerateContentResponse) (string, error) {
	if response == nil {
		return "", errors.New("empty response from Gemini")
	}

	if len(response.Candidates) == 0 {
		if response.PromptFeedback != nil && response.PromptFeedback.BlockReason != "" {
			return "", fmt.Errorf("prompt blocked by Gemini: %s", response.PromptFeedback.BlockReason)
		}
		return "", errors.New("no candidates in Gemini response")
	}

	candidate := response.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content generated (finish reason %s)", candidate.FinishReason)
	}

	var text string
	for _, part := range candidate.Content.Parts {
		if part != nil && part.Text != "" {
			text += part.Text
		}
	}

	if text == "" {
		return "", errors.New("empty text in Gemini response")
	}

	return text, nil
}

// convertGeminiToRepositoryFormat converts Gemini content to repository messages
func convertGeminiToRepositoryFormat(contents []*genai.Content) []repositories.ChatMessage {
	messages := make([]repositories.ChatMessage, 0, len(contents))

	for _, content := range contents {
		var role repositories.Role
		switch content.Role {
		case string(genai.RoleModel):
			role = repositories.ModelRole
		default:
			role = repositories.UserRole
		}

		var text string
		for _, part := range content.Parts {
			if part != nil && part.Text != "" {
				text += part.Text
			}
		}

		if text != "" {
			messages = append(messages, repositories.ChatMessage{
				Role:    role,
				Content: text,
			})
		}
	}

	return messages
}

// preview truncates s for log fields
func preview(s string) string {
	runes := []rune(s)
	if len(runes) <= 50 {
		return s
	}
	return string(runes[:50])
}
