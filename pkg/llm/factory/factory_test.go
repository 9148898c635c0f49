package factory

import (
	"testing"

	"studybuddy-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsPlaceholderKey(t *testing.T) {
	cases := map[string]bool{
		"":                        true,
		"sk-your-openai-key-here": true,
		"your-api-key":            true,
		"mock-123":                true,
		"sk-MOCKED":               true,
		"sk-live-abc123":          false,
	}
	for key, want := range cases {
		assert.Equal(t, want, IsPlaceholderKey(key), "key %q", key)
	}
}

func TestNewLLMProviderFallsBackToMock(t *testing.T) {
	p, err := NewLLMProvider(Config{Provider: "openai", ApiKey: "", Model: "gpt-3.5-turbo"})
	require.NoError(t, err)
	assert.True(t, llm.IsOffline(p))
}

func TestNewLLMProviderUsesOpenAIWithRealKey(t *testing.T) {
	p, err := NewLLMProvider(Config{Provider: "openai", ApiKey: "sk-live-abc123", Model: "gpt-3.5-turbo"})
	require.NoError(t, err)
	assert.False(t, llm.IsOffline(p))
}

func TestNewLLMProviderOllama(t *testing.T) {
	p, err := NewLLMProvider(Config{Provider: "ollama", Model: "llama3", BaseURL: "http://localhost:11434"})
	require.NoError(t, err)
	assert.False(t, llm.IsOffline(p))
}

func TestNewLLMProviderRejectsUnknown(t *testing.T) {
	_, err := NewLLMProvider(Config{Provider: "huggingface"})
	assert.Error(t, err)
}
