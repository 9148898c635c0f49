package ollama

import (
	"fmt"

	"studybuddy-be/pkg/llm"

	lcollama "github.com/tmc/langchaingo/llms/ollama"
)

func NewOllamaProvider(baseURL, modelName string) (*llm.LangChainProvider, error) {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	model, err := lcollama.New(
		lcollama.WithModel(modelName),
		lcollama.WithServerURL(baseURL),
	)
	if err != nil {
		return nil, fmt.Errorf("create ollama model: %w", err)
	}
	return llm.NewLangChainProvider(model, modelName), nil
}
