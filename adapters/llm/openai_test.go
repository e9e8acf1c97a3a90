package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/satriahrh/gemchat/domain/repositories"
)

func fakeOpenAI(t *testing.T, status int, reply string) (*httptest.Server, *[]openai.ChatCompletionRequest) {
	t.Helper()

	var requests []openai.ChatCompletionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req openai.ChatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		requests = append(requests, req)

		w.Header().Set("Content-Type", "application/json")
		if status != http.StatusOK {
			w.WriteHeader(status)
			w.Write([]byte(`{"error":{"message":"Incorrect API key provided","type":"invalid_request_error"}}`))
			return
		}

		json.NewEncoder(w).Encode(map[string]any{
			"id":     "chatcmpl-1",
			"object": "chat.completion",
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": reply},
				"finish_reason": "stop",
			}},
		})
	}))
	t.Cleanup(srv.Close)

	return srv, &requests
}

func TestOpenAIChatSession_SendMessage(t *testing.T) {
	srv, requests := fakeOpenAI(t, http.StatusOK, "Hi there!")

	o := NewOpenAILLM(OpenAIConfig{
		APIKey:            "test-key",
		BaseURL:           srv.URL + "/v1",
		SystemInstruction: "Be brief.",
	}, zap.NewNop())

	chat, err := o.StartChat(context.Background())
	require.NoError(t, err)

	reply, err := chat.SendMessage(context.Background(), repositories.ChatMessage{Role: repositories.UserRole, Content: "Hello"})
	require.NoError(t, err)
	assert.Equal(t, "Hi there!", reply.Content)

	_, err = chat.SendMessage(context.Background(), repositories.ChatMessage{Role: repositories.UserRole, Content: "Again"})
	require.NoError(t, err)

	require.Len(t, *requests, 2)
	assert.Equal(t, defaultOpenAIModel, (*requests)[0].Model)
	assert.Len(t, (*requests)[0].Messages, 2)
	second := (*requests)[1].Messages
	require.Len(t, second, 4)
	assert.Equal(t, openai.ChatMessageRoleSystem, second[0].Role)
	assert.Equal(t, openai.ChatMessageRoleAssistant, second[2].Role)
	assert.Equal(t, "Again", second[3].Content)

	history, err := chat.History()
	require.NoError(t, err)
	assert.Len(t, history, 4)
	assert.Equal(t, repositories.UserRole, history[0].Role)
}

func TestOpenAIChatSession_SamplingValues(t *testing.T) {
	tests := []struct {
		name        string
		temperature float32
		topP        float32
	}{
		{name: "explicit zero", temperature: 0, topP: 0},
		{name: "configured values", temperature: 0.7, topP: 0.8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, requests := fakeOpenAI(t, http.StatusOK, "Hi")
			o := NewOpenAILLM(OpenAIConfig{
				APIKey:      "test-key",
				BaseURL:     srv.URL + "/v1",
				Temperature: tt.temperature,
				TopP:        tt.topP,
			}, zap.NewNop())
			chat, _ := o.StartChat(context.Background())

			_, err := chat.SendMessage(context.Background(), repositories.ChatMessage{Content: "Hello"})
			require.NoError(t, err)

			require.Len(t, *requests, 1)
			req := (*requests)[0]
			assert.InDelta(t, tt.temperature, req.Temperature, 1e-6)
			assert.InDelta(t, tt.topP, req.TopP, 1e-6)
			assert.NotZero(t, req.Temperature, "temperature must reach the API")
			assert.NotZero(t, req.TopP, "topP must reach the API")
		})
	}
}

func TestOpenAIChatSession_Errors(t *testing.T) {
	t.Run("missing api key", func(t *testing.T) {
		o := NewOpenAILLM(OpenAIConfig{}, zap.NewNop())
		chat, err := o.StartChat(context.Background())
		require.NoError(t, err)

		_, err = chat.SendMessage(context.Background(), repositories.ChatMessage{Content: "Hello"})
		assert.ErrorIs(t, err, ErrMissingOpenAIAPIKey)
	})

	t.Run("rejected credential", func(t *testing.T) {
		srv, _ := fakeOpenAI(t, http.StatusUnauthorized, "")
		o := NewOpenAILLM(OpenAIConfig{APIKey: "bad", BaseURL: srv.URL + "/v1"}, zap.NewNop())
		chat, _ := o.StartChat(context.Background())

		_, err := chat.SendMessage(context.Background(), repositories.ChatMessage{Content: "Hello"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Incorrect API key")

		history, _ := chat.History()
		assert.Empty(t, history)
	})
}

func TestMockChatSession(t *testing.T) {
	chat, err := NewMockLLM().StartChat(context.Background())
	require.NoError(t, err)

	reply, err := chat.SendMessage(context.Background(), repositories.ChatMessage{Role: repositories.UserRole, Content: "Hello"})
	require.NoError(t, err)
	assert.Contains(t, reply.Content, `"Hello"`)

	reply, err = chat.SendMessage(context.Background(), repositories.ChatMessage{Role: repositories.UserRole, Content: "Again"})
	require.NoError(t, err)
	assert.Contains(t, reply.Content, "message 2")

	history, err := chat.History()
	require.NoError(t, err)
	assert.Len(t, history, 4)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = chat.SendMessage(ctx, repositories.ChatMessage{Content: "late"})
	assert.ErrorIs(t, err, context.Canceled)
}
