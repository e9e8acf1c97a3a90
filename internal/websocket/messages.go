package websocket

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/satriahrh/gemchat/domain/entities"
)

// Client message types
const (
	MessageTypeMessage = "message"
	MessageTypeReset   = "reset"
	MessageTypeHistory = "history"
)

// Server message types
const (
	MessageTypeWelcome  = "welcome"
	MessageTypeReply    = "reply"
	MessageTypeError    = "error"
	MessageTypeFarewell = "farewell"
)

// maxTextLength limits a single submission, in runes
const maxTextLength = 32 * 1024

// ClientMessage is a frame sent by the widget
type ClientMessage struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// ServerMessage is a frame sent to the widget
type ServerMessage struct {
	Type      string          `json:"type"`
	SessionID string          `json:"session_id,omitempty"`
	Text      string          `json:"text,omitempty"`
	HTML      string          `json:"html,omitempty"`
	Turns     []entities.Turn `json:"turns,omitempty"`
	Timestamp int64           `json:"timestamp"`
}

// NewServerMessage creates a server frame stamped with the current time
func NewServerMessage(msgType, sessionID, text string) ServerMessage {
	return ServerMessage{
		Type:      msgType,
		SessionID: sessionID,
		Text:      text,
		Timestamp: time.Now().Unix(),
	}
}

// MessageValidator provides validation for WebSocket messages
type MessageValidator struct {
	maxTextLength int
}

// NewMessageValidator creates a new message validator
func NewMessageValidator() *MessageValidator {
	return &MessageValidator{maxTextLength: maxTextLength}
}

// ValidateMessage parses and validates an incoming frame
func (v *MessageValidator) ValidateMessage(messageBytes []byte) (*ClientMessage, error) {
	var msg ClientMessage
	if err := json.Unmarshal(messageBytes, &msg); err != nil {
		return nil, fmt.Errorf("invalid JSON format: %w", err)
	}

	switch msg.Type {
	case MessageTypeMessage:
		if err := v.validateText(msg.Text); err != nil {
			return nil, err
		}
	case MessageTypeReset, MessageTypeHistory:
	case "":
		return nil, fmt.Errorf("type is required")
	default:
		return nil, fmt.Errorf("unsupported message type: %s", msg.Type)
	}

	return &msg, nil
}

func (v *MessageValidator) validateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("text is required")
	}
	if !utf8.ValidString(text) {
		return fmt.Errorf("text must be valid UTF-8")
	}
	if utf8.RuneCountInString(text) > v.maxTextLength {
		return fmt.Errorf("text must be at most %d characters", v.maxTextLength)
	}
	return nil
}
