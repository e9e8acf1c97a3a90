package entities

import (
	"testing"
)

func TestTranscriptCreation(t *testing.T) {
	transcript := NewTranscript()

	if transcript.Len() != 0 {
		t.Errorf("Expected empty transcript, got %d turns", transcript.Len())
	}

	if _, ok := transcript.Last(); ok {
		t.Error("Expected no last turn on empty transcript")
	}
}

func TestTranscriptAppend(t *testing.T) {
	transcript := NewTranscript()

	transcript.Append(RoleUser, "Hello")
	transcript.Append(RoleAssistant, "Hi there!")

	if transcript.Len() != 2 {
		t.Fatalf("Expected 2 turns, got %d", transcript.Len())
	}

	turns := transcript.Turns()
	if turns[0].Role != RoleUser || turns[0].Text != "Hello" {
		t.Errorf("Unexpected first turn: %+v", turns[0])
	}

	if turns[1].Role != RoleAssistant || turns[1].Text != "Hi there!" {
		t.Errorf("Unexpected second turn: %+v", turns[1])
	}

	if turns[1].Timestamp.Before(turns[0].Timestamp) {
		t.Error("Expected turns in chronological order")
	}

	last, ok := transcript.Last()
	if !ok || last.Text != "Hi there!" {
		t.Errorf("Expected last turn to be the reply, got %+v", last)
	}
}

func TestTranscriptTurnsReturnsCopy(t *testing.T) {
	transcript := NewTranscript()
	transcript.Append(RoleUser, "Hello")

	turns := transcript.Turns()
	turns[0].Text = "changed"

	if transcript.Turns()[0].Text != "Hello" {
		t.Error("Turns should not expose internal storage")
	}
}

func TestTranscriptClear(t *testing.T) {
	transcript := NewTranscript()
	transcript.Append(RoleUser, "Hello")
	transcript.Append(RoleAssistant, "Hi there!")

	transcript.Clear()

	if transcript.Len() != 0 {
		t.Errorf("Expected empty transcript after clear, got %d turns", transcript.Len())
	}

	transcript.Append(RoleUser, "Again")
	if transcript.Len() != 1 {
		t.Errorf("Expected 1 turn after clear and append, got %d", transcript.Len())
	}
}

func TestTurnValidation(t *testing.T) {
	if err := (Turn{Role: RoleUser}).Validate(); err != nil {
		t.Errorf("User turn should be valid, got: %v", err)
	}

	if err := (Turn{Role: RoleAssistant}).Validate(); err != nil {
		t.Errorf("Assistant turn should be valid, got: %v", err)
	}

	if err := (Turn{Role: Role("system")}).Validate(); err == nil {
		t.Error("Turn with unknown role should have validation error")
	}
}
