package openai

import (
	"fmt"

	"studybuddy-be/pkg/llm"

	lcopenai "github.com/tmc/langchaingo/llms/openai"
)

func NewOpenAIProvider(apiKey, modelName string) (*llm.LangChainProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key required")
	}
	model, err := lcopenai.New(
		lcopenai.WithToken(apiKey),
		lcopenai.WithModel(modelName),
	)
	if err != nil {
		return nil, fmt.Errorf("create openai model: %w", err)
	}
	return llm.NewLangChainProvider(model, modelName), nil
}
