package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fadilmartias/pitch-analyzer/internal/config"
	"github.com/fadilmartias/pitch-analyzer/internal/metrics"
	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker/v2"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

var errEmptyCompletion = errors.New("no response from LLM")

// ChatCompletionService talks to OpenAI-compatible chat completion endpoints
// (Groq, OpenRouter).
type ChatCompletionService struct {
	client   *resty.Client
	provider string
	model    string
	breaker  *gobreaker.CircuitBreaker[string]
	metrics  *metrics.Metrics
	log      *zap.Logger
}

func NewChatCompletionService(cfg *config.LLMConfig, m *metrics.Metrics, log *zap.Logger) *ChatCompletionService {
	if log == nil {
		log = zap.NewNop()
	}

	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetAuthToken(cfg.APIKey).
		SetHeader("Content-Type", "application/json")
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}
	if cfg.RetryCount > 0 {
		client.SetRetryCount(cfg.RetryCount).
			AddRetryCondition(func(r *resty.Response, err error) bool {
				return err != nil || r.StatusCode() == 429 || r.StatusCode() >= 500
			})
	}

	return &ChatCompletionService{
		client:   client,
		provider: cfg.Provider,
		model:    cfg.Model,
		breaker:  newBreaker(cfg, log),
		metrics:  m,
		log:      log,
	}
}

func (s *ChatCompletionService) Provider() string {
	return s.provider
}

func (s *ChatCompletionService) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	if s.breaker == nil {
		return s.complete(ctx, req)
	}
	return s.breaker.Execute(func() (string, error) {
		return s.complete(ctx, req)
	})
}

func (s *ChatCompletionService) complete(ctx context.Context, req CompletionRequest) (string, error) {
	start := time.Now()

	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(map[string]any{
			"model": s.model,
			"messages": []map[string]string{
				{"role": "system", "content": req.System},
				{"role": "user", "content": req.Prompt},
			},
			"temperature": req.Temperature,
			"max_tokens":  req.MaxTokens,
		}).
		Post("/chat/completions")
	if err != nil {
		s.metrics.ObserveCompletion(s.provider, "error", time.Since(start))
		return "", fmt.Errorf("completion request: %w", err)
	}
	if resp.IsError() {
		s.metrics.ObserveCompletion(s.provider, "error", time.Since(start))
		return "", fmt.Errorf("completion request: status %d: %s", resp.StatusCode(), resp.String())
	}

	s.metrics.ObserveCompletion(s.provider, "ok", time.Since(start))
	s.log.Debug("completion received",
		zap.String("provider", s.provider),
		zap.String("model", s.model),
		zap.Duration("elapsed", time.Since(start)),
	)

	content := gjson.Get(resp.String(), "choices.0.message.content")
	if !content.Exists() || content.String() == "" {
		return "", errEmptyCompletion
	}
	return content.String(), nil
}
