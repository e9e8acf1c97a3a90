package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/satriahrh/gemchat/adapters/llm"
	"github.com/satriahrh/gemchat/internal/auth"
	"github.com/satriahrh/gemchat/internal/config"
	"github.com/satriahrh/gemchat/usecase"
)

// offlineEnv points every command at the offline provider
func offlineEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"GEMINI_API_KEY", "GEMINI_MODEL", "GEMINI_BASE_URL",
		"OPENAI_API_KEY", "OPENAI_MODEL", "OPENAI_BASE_URL",
		"CHAT_SYSTEM_INSTRUCTION", "CHAT_TEMPERATURE", "CHAT_TOP_P", "CHAT_TOP_K",
		"CHAT_MAX_OUTPUT_TOKENS", "CHAT_REQUEST_TIMEOUT", "CHAT_IDLE_TIMEOUT",
		"PORT", "CHAT_ACCESS_SECRET",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("LLM_PROVIDER", config.ProviderMock)
	t.Setenv("LOG_LEVEL", "error")
}

func TestRootCommand_Chat(t *testing.T) {
	offlineEnv(t)

	var out bytes.Buffer
	cmd := NewRootCommand().CobraCommand
	cmd.SetIn(strings.NewReader("Hello\nquit\n"))
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})

	require.NoError(t, cmd.Execute())

	output := out.String()
	assert.Contains(t, output, usecase.WelcomeMessage)
	assert.Contains(t, output, "You: ")
	assert.Contains(t, output, `Chatbot: Hello! I'm running in offline mode`)
	assert.Contains(t, output, usecase.FarewellMessage)
}

func TestRootCommand_RejectsArguments(t *testing.T) {
	offlineEnv(t)

	cmd := NewRootCommand().CobraCommand
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"hello"})

	assert.Error(t, cmd.Execute())
}

func TestTokenCommand(t *testing.T) {
	offlineEnv(t)
	t.Setenv("CHAT_ACCESS_SECRET", "test-secret")

	var out bytes.Buffer
	cmd := NewRootCommand().CobraCommand
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"token", "kiosk-1", "--ttl", "1h"})

	require.NoError(t, cmd.Execute())

	issuer, err := auth.NewTokenIssuer("test-secret")
	require.NoError(t, err)

	claims, err := issuer.ValidateToken(strings.TrimSpace(out.String()))
	require.NoError(t, err)
	assert.Equal(t, "kiosk-1", claims.ClientName)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestTokenCommand_RequiresSecret(t *testing.T) {
	offlineEnv(t)

	cmd := NewRootCommand().CobraCommand
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"token"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CHAT_ACCESS_SECRET")
}

func TestServe_StopsOnCancel(t *testing.T) {
	cfg := &config.Config{
		Provider:       config.ProviderMock,
		RequestTimeout: time.Second,
		IdleTimeout:    time.Minute,
		Port:           "0",
		AccessSecret:   "test-secret",
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()

	assert.NoError(t, serve(ctx, cfg, zap.NewNop()))
}

func TestServe_ListenFailure(t *testing.T) {
	cfg := &config.Config{
		Provider:       config.ProviderMock,
		RequestTimeout: time.Second,
		IdleTimeout:    time.Minute,
		Port:           "not-a-port",
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	assert.Error(t, serve(ctx, cfg, zap.NewNop()))
}

func TestNewLargeLanguageModel(t *testing.T) {
	logger := zap.NewNop()

	gemini, err := newLargeLanguageModel(&config.Config{Provider: config.ProviderGemini}, logger)
	require.NoError(t, err, "a missing key must not fail construction")
	assert.IsType(t, &llm.GeminiLLM{}, gemini)

	openai, err := newLargeLanguageModel(&config.Config{Provider: config.ProviderOpenAI}, logger)
	require.NoError(t, err)
	assert.IsType(t, &llm.OpenAILLM{}, openai)

	mock, err := newLargeLanguageModel(&config.Config{Provider: config.ProviderMock}, logger)
	require.NoError(t, err)
	assert.IsType(t, &llm.MockLLM{}, mock)

	_, err = newLargeLanguageModel(&config.Config{Provider: "llama"}, logger)
	assert.Error(t, err)

	_, err = newLargeLanguageModel(&config.Config{Provider: config.ProviderGemini, Temperature: 5}, logger)
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	logger, err := newLogger("", zapcore.WarnLevel, "console")
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))

	logger, err = newLogger("debug", zapcore.WarnLevel, "json")
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))

	_, err = newLogger("chatty", zapcore.InfoLevel, "json")
	assert.Error(t, err)
}
