package llm

import (
	"context"
	"fmt"

	"github.com/satriahrh/gemchat/domain/repositories"
)

// MockLLM is an offline provider that answers without calling any service
type MockLLM struct{}

// NewMockLLM creates a new mock LLM
func NewMockLLM() *MockLLM {
	return &MockLLM{}
}

// StartChat implements repositories.LargeLanguageModel
func (m *MockLLM) StartChat(ctx context.Context) (repositories.ChatSession, error) {
	return &MockChatSession{}, nil
}

// MockChatSession implements repositories.ChatSession
type MockChatSession struct {
	history []repositories.ChatMessage
}

// SendMessage implements repositories.ChatSession
func (m *MockChatSession) SendMessage(ctx context.Context, message repositories.ChatMessage) (repositories.ChatMessage, error) {
	if err := ctx.Err(); err != nil {
		return repositories.ChatMessage{}, err
	}

	var response string
	switch {
	case len(m.history) == 0:
		response = fmt.Sprintf("Hello! I'm running in offline mode, so I can only repeat what you tell me. You said: %q", message.Content)
	default:
		response = fmt.Sprintf("You said: %q (message %d in this conversation)", message.Content, len(m.history)/2+1)
	}

	responseMessage := repositories.ChatMessage{
		Role:    repositories.ModelRole,
		Content: response,
	}

	m.history = append(m.history, message, responseMessage)

	return responseMessage, nil
}

// History implements repositories.ChatSession
func (m *MockChatSession) History() ([]repositories.ChatMessage, error) {
	history := make([]repositories.ChatMessage, len(m.history))
	copy(history, m.history)
	return history, nil
}
