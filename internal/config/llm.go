package config

import (
	"strings"
	"sync"
	"time"

	"github.com/fadilmartias/pitch-analyzer/internal/model"
)

const (
	ProviderGroq       = "groq"
	ProviderOpenRouter = "openrouter"
	ProviderGemini     = "gemini"
)

// LLMConfig describes the text-completion endpoint used for scoring.
// Timeout, RetryCount and BreakerEnabled are zero/off unless set explicitly.
type LLMConfig struct {
	Provider           string
	APIKey             string
	KeyEnv             string
	BaseURL            string
	Model              string
	Temperature        float64
	ScoreMaxTokens     int
	DecisionMaxTokens  int
	Timeout            time.Duration
	RetryCount         int
	BreakerEnabled     bool
	BreakerMaxFailures int
}

var (
	llmConfig *LLMConfig
	llmOnce   sync.Once
)

func LoadLLMConfig() *LLMConfig {
	llmOnce.Do(func() {
		llmConfig = newLLMConfig()
	})
	return llmConfig
}

func newLLMConfig() *LLMConfig {
	v := newEnv(map[string]any{
		"LLM_PROVIDER":             ProviderGroq,
		"LLM_TIMEOUT":              "0s",
		"LLM_RETRY_COUNT":          0,
		"LLM_BREAKER_ENABLED":      false,
		"LLM_BREAKER_MAX_FAILURES": 5,
	})

	cfg := &LLMConfig{
		Provider:           strings.ToLower(strings.TrimSpace(v.GetString("LLM_PROVIDER"))),
		Temperature:        0.7,
		ScoreMaxTokens:     500,
		DecisionMaxTokens:  1000,
		Timeout:            v.GetDuration("LLM_TIMEOUT"),
		RetryCount:         v.GetInt("LLM_RETRY_COUNT"),
		BreakerEnabled:     v.GetBool("LLM_BREAKER_ENABLED"),
		BreakerMaxFailures: v.GetInt("LLM_BREAKER_MAX_FAILURES"),
	}

	switch cfg.Provider {
	case ProviderOpenRouter:
		cfg.KeyEnv = "OPENROUTER_API_KEY"
		cfg.BaseURL = "https://openrouter.ai/api/v1"
		cfg.Model = "openai/gpt-4o-mini"
	case ProviderGemini:
		cfg.KeyEnv = "GEMINI_API_KEY"
		cfg.Model = "gemini-2.5-flash"
	default:
		cfg.Provider = ProviderGroq
		cfg.KeyEnv = "GROQ_API_KEY"
		cfg.BaseURL = "https://api.groq.com/openai/v1"
		cfg.Model = "llama-3.3-70b-versatile"
	}

	cfg.APIKey = v.GetString(cfg.KeyEnv)
	if key := v.GetString("LLM_API_KEY"); key != "" {
		cfg.APIKey = key
	}
	if base := v.GetString("LLM_BASE_URL"); base != "" {
		cfg.BaseURL = base
	}
	if m := v.GetString("LLM_MODEL"); m != "" {
		cfg.Model = m
	}
	return cfg
}

// CheckCredential reports ErrMissingCredential naming the variable to set.
func (c *LLMConfig) CheckCredential() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return &model.CredentialError{Variable: c.KeyEnv}
	}
	return nil
}
