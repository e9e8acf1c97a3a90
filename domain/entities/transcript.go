package entities

import (
	"errors"
	"time"
)

// Role represents who authored a turn
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn represents one message in a conversation
type Turn struct {
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Validate validates the turn data
func (t Turn) Validate() error {
	if t.Role != RoleUser && t.Role != RoleAssistant {
		return errors.New("invalid turn role")
	}
	return nil
}

// Transcript is the ordered history of turns for one session.
// It is append-only until cleared and is not safe for concurrent use.
type Transcript struct {
	turns []Turn
}

// NewTranscript creates an empty transcript
func NewTranscript() *Transcript {
	return &Transcript{
		turns: make([]Turn, 0),
	}
}

// Append adds a turn to the end of the transcript
func (t *Transcript) Append(role Role, text string) Turn {
	turn := Turn{
		Role:      role,
		Text:      text,
		Timestamp: time.Now(),
	}
	t.turns = append(t.turns, turn)
	return turn
}

// Turns returns a copy of the turns in chronological order
func (t *Transcript) Turns() []Turn {
	turns := make([]Turn, len(t.turns))
	copy(turns, t.turns)
	return turns
}

// Len returns the number of turns
func (t *Transcript) Len() int {
	return len(t.turns)
}

// Last returns the most recent turn
func (t *Transcript) Last() (Turn, bool) {
	if len(t.turns) == 0 {
		return Turn{}, false
	}
	return t.turns[len(t.turns)-1], true
}

// Clear removes every turn
func (t *Transcript) Clear() {
	t.turns = make([]Turn, 0)
}
