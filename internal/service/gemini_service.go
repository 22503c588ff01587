package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/fadilmartias/pitch-analyzer/internal/config"
	"github.com/fadilmartias/pitch-analyzer/internal/metrics"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

type GeminiService struct {
	Client         *genai.Client
	Model          string
	MaxRetries     int
	BaseDelay      time.Duration
	MaxDelay       time.Duration
	RequestTimeout time.Duration

	breaker *gobreaker.CircuitBreaker[string]
	metrics *metrics.Metrics
	log     *zap.Logger
}

func NewGeminiService(ctx context.Context, llm *config.LLMConfig, gemini *config.GeminiConfig, m *metrics.Metrics, log *zap.Logger) (*GeminiService, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if strings.TrimSpace(gemini.APIKey) == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY not set")
	}

	clientConfig := &genai.ClientConfig{
		APIKey:  gemini.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if gemini.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: gemini.BaseURL}
	}
	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &GeminiService{
		Client:         client,
		Model:          gemini.Model,
		MaxRetries:     llm.RetryCount,
		BaseDelay:      time.Second,
		MaxDelay:       30 * time.Second,
		RequestTimeout: llm.Timeout,
		breaker:        newBreaker(llm, log),
		metrics:        m,
		log:            log,
	}, nil
}

func (s *GeminiService) Provider() string {
	return config.ProviderGemini
}

func (s *GeminiService) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	if s.breaker == nil {
		return s.generate(ctx, req)
	}
	return s.breaker.Execute(func() (string, error) {
		return s.generate(ctx, req)
	})
}

func (s *GeminiService) generate(ctx context.Context, req CompletionRequest) (string, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return "", fmt.Errorf("prompt cannot be empty")
	}

	if s.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.RequestTimeout)
		defer cancel()
	}

	genConfig := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(req.System, genai.RoleUser),
		Temperature:       genai.Ptr(float32(req.Temperature)),
		MaxOutputTokens:   int32(req.MaxTokens),
	}

	var lastErr error
	for attempt := 0; attempt <= s.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := s.calculateBackoff(attempt)
			s.log.Info("retrying gemini request",
				zap.Int("attempt", attempt),
				zap.Int("max_retries", s.MaxRetries),
				zap.Duration("delay", delay),
			)

			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return "", fmt.Errorf("context done during retry: %w", ctx.Err())
			}
		}

		start := time.Now()
		result, err := s.Client.Models.GenerateContent(ctx, s.Model, genai.Text(req.Prompt), genConfig)
		if err == nil {
			if err := validateGenerateResponse(result); err != nil {
				s.metrics.ObserveCompletion(s.Provider(), "error", time.Since(start))
				return "", fmt.Errorf("invalid response: %w", err)
			}
			s.metrics.ObserveCompletion(s.Provider(), "ok", time.Since(start))
			return result.Text(), nil
		}

		s.metrics.ObserveCompletion(s.Provider(), "error", time.Since(start))
		lastErr = err

		if !isRetryableError(err) {
			return "", fmt.Errorf("generate content failed: %w", err)
		}
		s.log.Warn("retryable gemini error", zap.Int("attempt", attempt+1), zap.Error(err))
	}

	if s.MaxRetries == 0 {
		return "", fmt.Errorf("generate content failed: %w", lastErr)
	}
	return "", fmt.Errorf("max retries (%d) exceeded for GenerateContent: %w", s.MaxRetries, lastErr)
}

func (s *GeminiService) calculateBackoff(attempt int) time.Duration {
	delay := s.BaseDelay * time.Duration(math.Pow(2, float64(attempt-1)))
	if delay > s.MaxDelay {
		delay = s.MaxDelay
	}
	return delay
}

func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case 429, 500, 502, 503, 504:
			return true
		default:
			return false
		}
	}

	errMsg := err.Error()
	return strings.Contains(errMsg, "connection refused") ||
		strings.Contains(errMsg, "connection reset") ||
		strings.Contains(errMsg, "timeout") ||
		strings.Contains(errMsg, "EOF")
}

func validateGenerateResponse(resp *genai.GenerateContentResponse) error {
	if resp == nil {
		return fmt.Errorf("response is nil")
	}
	if len(resp.Candidates) == 0 {
		return fmt.Errorf("no candidates in response")
	}
	if resp.Candidates[0].Content == nil {
		return fmt.Errorf("candidate content is nil")
	}
	if len(resp.Candidates[0].Content.Parts) == 0 {
		return fmt.Errorf("no parts in content")
	}
	return nil
}
