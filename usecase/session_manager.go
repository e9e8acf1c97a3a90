package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/satriahrh/gemchat/domain/entities"
	"github.com/satriahrh/gemchat/domain/repositories"
)

// DefaultRequestTimeout bounds a single remote call when no timeout is configured
const DefaultRequestTimeout = 60 * time.Second

// Session is one live conversation: a remote chat handle plus its transcript.
// A Session is owned by exactly one interaction and is not safe for concurrent use.
type Session struct {
	ID         string
	CreatedAt  time.Time
	Transcript *entities.Transcript

	chat repositories.ChatSession
}

// SessionManager creates sessions and forwards user text to the remote model
type SessionManager struct {
	llm     repositories.LargeLanguageModel
	timeout time.Duration
	logger  *zap.Logger
}

// NewSessionManager creates a new session manager.
// A non-positive timeout selects DefaultRequestTimeout.
func NewSessionManager(llm repositories.LargeLanguageModel, timeout time.Duration, logger *zap.Logger) *SessionManager {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	return &SessionManager{
		llm:     llm,
		timeout: timeout,
		logger:  logger,
	}
}

// Initialize creates a session with an empty transcript and a fresh remote handle
func (m *SessionManager) Initialize(ctx context.Context) (*Session, error) {
	chat, err := m.llm.StartChat(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to start chat: %w", err)
	}

	session := &Session{
		ID:         uuid.NewString(),
		CreatedAt:  time.Now(),
		Transcript: entities.NewTranscript(),
		chat:       chat,
	}

	m.logger.Debug("Session initialized", zap.String("session_id", session.ID))

	return session, nil
}

// Send forwards text to the remote model and returns the reply.
// The user turn is always recorded; the assistant turn only on success.
// Every failure is returned as a *repositories.RemoteCallError.
func (m *SessionManager) Send(ctx context.Context, session *Session, text string) (reply string, err error) {
	if session == nil || session.Transcript == nil || session.chat == nil {
		return "", &repositories.RemoteCallError{Message: "no active session"}
	}

	session.Transcript.Append(entities.RoleUser, text)

	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("Remote call panicked",
				zap.String("session_id", session.ID),
				zap.Any("panic", r))
			reply = ""
			err = &repositories.RemoteCallError{Message: fmt.Sprintf("unexpected failure: %v", r)}
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	start := time.Now()
	response, sendErr := session.chat.SendMessage(ctx, repositories.ChatMessage{
		Role:    repositories.UserRole,
		Content: text,
	})
	if sendErr != nil {
		m.logger.Warn("Remote call failed",
			zap.String("session_id", session.ID),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(sendErr))
		return "", repositories.NewRemoteCallError(sendErr)
	}

	session.Transcript.Append(entities.RoleAssistant, response.Content)

	m.logger.Debug("Remote call completed",
		zap.String("session_id", session.ID),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("transcript_length", session.Transcript.Len()))

	return response.Content, nil
}

// Reset discards session and returns a new one with no prior context
func (m *SessionManager) Reset(ctx context.Context, session *Session) (*Session, error) {
	if session != nil {
		m.logger.Debug("Session discarded",
			zap.String("session_id", session.ID),
			zap.Int("transcript_length", session.Transcript.Len()))
	}
	return m.Initialize(ctx)
}
