package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/fadilmartias/pitch-analyzer/internal/config"
	"github.com/fadilmartias/pitch-analyzer/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func testLLMConfig(baseURL string) *config.LLMConfig {
	return &config.LLMConfig{
		Provider:          config.ProviderGroq,
		APIKey:            "test-key",
		BaseURL:           baseURL,
		Model:             "llama-3.3-70b-versatile",
		Temperature:       0.7,
		ScoreMaxTokens:    500,
		DecisionMaxTokens: 1000,
	}
}

func TestChatCompletionService_Complete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "llama-3.3-70b-versatile", body["model"])
		assert.Equal(t, 0.7, body["temperature"])
		assert.Equal(t, float64(500), body["max_tokens"])
		messages := body["messages"].([]any)
		require.Len(t, messages, 2)
		assert.Equal(t, "system", messages[0].(map[string]any)["role"])
		assert.Equal(t, "score this", messages[1].(map[string]any)["content"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"{\"score\": 8}"}}]}`))
	}))
	defer srv.Close()

	m := metrics.New()
	svc := NewChatCompletionService(testLLMConfig(srv.URL), m, zaptest.NewLogger(t))

	out, err := svc.Complete(context.Background(), CompletionRequest{
		System:      analystSystemPrompt,
		Prompt:      "score this",
		Temperature: 0.7,
		MaxTokens:   500,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"score": 8}`, out)
	assert.Equal(t, config.ProviderGroq, svc.Provider())
	count, err := testutil.GatherAndCount(m.Gatherer(), "pitch_llm_completion_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestChatCompletionService_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"invalid api key"}}`))
	}))
	defer srv.Close()

	svc := NewChatCompletionService(testLLMConfig(srv.URL), nil, nil)
	_, err := svc.Complete(context.Background(), CompletionRequest{Prompt: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}

func TestChatCompletionService_EmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	svc := NewChatCompletionService(testLLMConfig(srv.URL), nil, nil)
	_, err := svc.Complete(context.Background(), CompletionRequest{Prompt: "x"})
	assert.ErrorIs(t, err, errEmptyCompletion)
}

func TestChatCompletionService_BreakerOpens(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	cfg := testLLMConfig(srv.URL)
	cfg.BreakerEnabled = true
	cfg.BreakerMaxFailures = 2
	svc := NewChatCompletionService(cfg, nil, nil)

	for i := 0; i < 2; i++ {
		_, err := svc.Complete(context.Background(), CompletionRequest{Prompt: "x"})
		require.Error(t, err)
	}
	_, err := svc.Complete(context.Background(), CompletionRequest{Prompt: "x"})
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, int32(2), hits.Load())
}
