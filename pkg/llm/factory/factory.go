package factory

import (
	"fmt"
	"strings"
	"time"

	"studybuddy-be/pkg/llm"
	"studybuddy-be/pkg/llm/mock"
	"studybuddy-be/pkg/llm/ollama"
	"studybuddy-be/pkg/llm/openai"
)

type Config struct {
	Provider       string // "openai" or "ollama"
	ApiKey         string
	Model          string
	BaseURL        string
	MockLatencyMin time.Duration
	MockLatencyMax time.Duration
}

// NewLLMProvider picks the backend. OpenAI without a usable key falls back
// to the offline mock so the service runs without credentials.
func NewLLMProvider(cfg Config) (llm.LLMProvider, error) {
	switch cfg.Provider {
	case "ollama":
		return ollama.NewOllamaProvider(cfg.BaseURL, cfg.Model)
	case "openai", "":
		if IsPlaceholderKey(cfg.ApiKey) {
			return mock.NewMockProvider(cfg.MockLatencyMin, cfg.MockLatencyMax), nil
		}
		return openai.NewOpenAIProvider(cfg.ApiKey, cfg.Model)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}

// IsPlaceholderKey reports keys that are empty or obviously not real.
func IsPlaceholderKey(key string) bool {
	return key == "" ||
		strings.HasSuffix(key, "here") ||
		key == "your-api-key" ||
		strings.HasPrefix(key, "mock-") ||
		strings.Contains(strings.ToLower(key), "mock")
}
