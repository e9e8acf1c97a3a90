package usecase

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/satriahrh/gemchat/domain/repositories"
)

// User-facing texts shared by every surface
const (
	WelcomeMessage  = "🤖 Welcome to Gemini Chatbot!"
	ExitHintMessage = "Type 'quit' or 'exit' to end the conversation."
	FarewellMessage = "Goodbye! Have a great day! 👋"
	ResetMessage    = "Chat cleared. Starting a new conversation."
	ErrorPrefix     = "An error occurred: "
)

var exitCommands = map[string]struct{}{
	"quit": {},
	"exit": {},
}

// IsExitCommand reports whether input asks to end the conversation.
// Matching ignores case and surrounding whitespace.
func IsExitCommand(input string) bool {
	_, ok := exitCommands[strings.ToLower(strings.TrimSpace(input))]
	return ok
}

// State is the position of a Loop in its input/send/render cycle
type State int

const (
	StateIdle State = iota
	StateAwaitingInput
	StateSending
	StateRendering
	StateExiting
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingInput:
		return "awaiting_input"
	case StateSending:
		return "sending"
	case StateRendering:
		return "rendering"
	case StateExiting:
		return "exiting"
	default:
		return "unknown"
	}
}

// Action tells a surface what kind of output to render
type Action string

const (
	ActionReply Action = "reply"
	ActionError Action = "error"
	ActionExit  Action = "exit"
	ActionReset Action = "reset"
)

// Output is one rendered result of a loop step
type Output struct {
	Action Action
	Text   string
}

// Loop drives one conversation for one surface. It holds no session of its
// own; the caller passes the current Session in and keeps the one returned.
type Loop struct {
	manager *SessionManager
	state   State
	logger  *zap.Logger
}

// NewLoop creates a loop in the idle state
func NewLoop(manager *SessionManager, logger *zap.Logger) *Loop {
	return &Loop{
		manager: manager,
		state:   StateIdle,
		logger:  logger,
	}
}

// State returns the current loop state
func (l *Loop) State() State {
	return l.state
}

// Start creates the first session and moves the loop to awaiting input
func (l *Loop) Start(ctx context.Context) (*Session, error) {
	session, err := l.manager.Initialize(ctx)
	if err != nil {
		return nil, err
	}
	l.state = StateAwaitingInput
	return session, nil
}

// Step handles one line of user input.
// Exit commands end the loop without a remote call; anything else is sent
// and yields either the reply or an error description.
func (l *Loop) Step(ctx context.Context, session *Session, input string) (*Session, Output) {
	if l.state == StateExiting {
		return session, Output{Action: ActionExit, Text: FarewellMessage}
	}

	if IsExitCommand(input) {
		l.state = StateExiting
		l.logger.Debug("Exit requested")
		return session, Output{Action: ActionExit, Text: FarewellMessage}
	}

	if session == nil {
		var err error
		session, err = l.manager.Initialize(ctx)
		if err != nil {
			l.state = StateAwaitingInput
			return nil, Output{Action: ActionError, Text: ErrorText(err)}
		}
	}

	l.state = StateSending
	reply, err := l.manager.Send(ctx, session, input)

	l.state = StateRendering
	var out Output
	if err != nil {
		out = Output{Action: ActionError, Text: ErrorText(err)}
	} else {
		out = Output{Action: ActionReply, Text: reply}
	}

	l.state = StateAwaitingInput
	return session, out
}

// Reset discards session and starts a new one with an empty transcript.
// If a new session cannot be created the old one is kept.
func (l *Loop) Reset(ctx context.Context, session *Session) (*Session, Output) {
	if l.state == StateExiting {
		return session, Output{Action: ActionExit, Text: FarewellMessage}
	}

	fresh, err := l.manager.Reset(ctx, session)
	if err != nil {
		l.logger.Error("Failed to reset session", zap.Error(err))
		return session, Output{Action: ActionError, Text: ErrorText(err)}
	}

	l.state = StateAwaitingInput
	return fresh, Output{Action: ActionReset, Text: ResetMessage}
}

// ErrorText formats err for display in place of a reply
func ErrorText(err error) string {
	var remoteErr *repositories.RemoteCallError
	if errors.As(err, &remoteErr) {
		return ErrorPrefix + remoteErr.Message
	}
	return ErrorPrefix + err.Error()
}
