package config

import (
	"sync"
)

type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

var (
	geminiConfig *GeminiConfig
	geminiOnce   sync.Once
)

func LoadGeminiConfig() *GeminiConfig {
	geminiOnce.Do(func() {
		geminiConfig = newGeminiConfig(LoadLLMConfig())
	})
	return geminiConfig
}

// newGeminiConfig reuses the LLM key when gemini is the selected provider.
// GEMINI_MODEL takes precedence over LLM_MODEL.
func newGeminiConfig(llm *LLMConfig) *GeminiConfig {
	v := newEnv(nil)
	cfg := &GeminiConfig{
		APIKey:  v.GetString("GEMINI_API_KEY"),
		Model:   "gemini-2.5-flash",
		BaseURL: v.GetString("LLM_BASE_URL"),
	}
	if llm.Provider == ProviderGemini {
		cfg.APIKey = llm.APIKey
		cfg.Model = llm.Model
	}
	if m := v.GetString("GEMINI_MODEL"); m != "" {
		cfg.Model = m
	}
	return cfg
}
