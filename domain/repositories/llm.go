//go:generate mockgen -source=$GOFILE -destination=llm_mock.go -package=$GOPACKAGE

package repositories

import "context"

// LargeLanguageModel abstracts any hosted chat/LLM provider
type LargeLanguageModel interface {
	// StartChat opens a fresh remote conversation handle with no prior context.
	// It must not perform network I/O.
	StartChat(ctx context.Context) (ChatSession, error)
}

// ChatSession represents an ongoing remote conversation
type ChatSession interface {
	// SendMessage sends a message with all previous exchanges as context and returns the reply
	SendMessage(ctx context.Context, message ChatMessage) (ChatMessage, error)
	// History returns the exchanges the remote side has seen so far
	History() ([]ChatMessage, error)
}

// ChatMessage represents a single message in a conversation
type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Role defines the type of message sender
type Role string

const (
	UserRole   Role = "user"
	ModelRole  Role = "model"
	SystemRole Role = "system"
)
