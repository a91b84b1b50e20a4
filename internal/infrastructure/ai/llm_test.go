package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Agencia-api/pkg/config"
)

func TestAnthropicService_Draft(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))

		var req anthropicRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "system", req.System)
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "prompt", req.Messages[0].Content)

		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"Subject: Hola\n"},{"type":"text","text":"cuerpo"}]}`))
	}))
	defer srv.Close()

	s := NewAnthropicService("test-key", "")
	s.endpoint = srv.URL

	text, err := s.Draft(context.Background(), "system", "prompt")
	require.NoError(t, err)
	assert.Equal(t, "Subject: Hola\ncuerpo", text)
}

func TestAnthropicService_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"type":"rate_limit_error","message":"slow down"}}`))
	}))
	defer srv.Close()

	s := NewAnthropicService("test-key", "")
	s.endpoint = srv.URL

	_, err := s.Draft(context.Background(), "", "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate_limit_error")
}

func TestAnthropicService_NoAPIKey(t *testing.T) {
	_, err := NewAnthropicService("", "").Draft(context.Background(), "", "prompt")
	assert.ErrorContains(t, err, "ANTHROPIC_API_KEY")
}

func TestAnthropicService_ContextTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	s := NewAnthropicService("test-key", "")
	s.endpoint = srv.URL

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := s.Draft(ctx, "", "prompt")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestGeminiService_Draft(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/gemini-test:generateContent", r.URL.Path)
		assert.Equal(t, "g-key", r.URL.Query().Get("key"))

		var req geminiRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotNil(t, req.SystemInstruction)
		assert.Equal(t, "system", req.SystemInstruction.Parts[0].Text)

		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"borrador"}]}}]}`))
	}))
	defer srv.Close()

	s := NewGeminiService("g-key", "gemini-test")
	s.baseURL = srv.URL

	text, err := s.Draft(context.Background(), "system", "prompt")
	require.NoError(t, err)
	assert.Equal(t, "borrador", text)
}

func TestGeminiService_EmptyCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	s := NewGeminiService("g-key", "")
	s.baseURL = srv.URL

	_, err := s.Draft(context.Background(), "", "prompt")
	assert.ErrorContains(t, err, "candidatos")
}

func TestNewLLMService_SelectsProvider(t *testing.T) {
	_, ok := NewLLMService(config.AIConfig{Provider: config.AIProviderGemini}).(*GeminiService)
	assert.True(t, ok)

	_, ok = NewLLMService(config.AIConfig{Provider: config.AIProviderAnthropic}).(*AnthropicService)
	assert.True(t, ok)
}
