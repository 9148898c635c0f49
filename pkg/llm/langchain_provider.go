package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/tmc/langchaingo/llms"
)

// LangChainProvider adapts any langchaingo chat model to LLMProvider.
type LangChainProvider struct {
	model     llms.Model
	modelName string
}

var _ LLMProvider = (*LangChainProvider)(nil)

func NewLangChainProvider(model llms.Model, modelName string) *LangChainProvider {
	return &LangChainProvider{
		model:     model,
		modelName: modelName,
	}
}

func (p *LangChainProvider) Chat(ctx context.Context, history []Message, opts ...Option) (*Completion, error) {
	options := ApplyOptions(opts...)

	model := p.modelName
	if options.Model != "" {
		model = options.Model
	}

	messages := make([]llms.MessageContent, 0, len(history))
	for _, msg := range history {
		messages = append(messages, llms.TextParts(chatMessageType(msg.Role), msg.Content))
	}

	callOpts := []llms.CallOption{
		llms.WithModel(model),
		llms.WithTemperature(options.Temperature),
	}
	if options.MaxTokens > 0 {
		callOpts = append(callOpts, llms.WithMaxTokens(options.MaxTokens))
	}

	start := time.Now()
	response, err := p.model.GenerateContent(ctx, messages, callOpts...)
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}
	if len(response.Choices) == 0 {
		return nil, ErrEmptyResponse
	}

	choice := response.Choices[0]
	return &Completion{
		Content:    choice.Content,
		TokensUsed: totalTokens(choice.GenerationInfo),
		Model:      model,
		Latency:    time.Since(start),
	}, nil
}

func (p *LangChainProvider) Generate(ctx context.Context, prompt string, opts ...Option) (*Completion, error) {
	return p.Chat(ctx, []Message{{Role: RoleUser, Content: prompt}}, opts...)
}

func chatMessageType(role string) llms.ChatMessageType {
	switch role {
	case RoleSystem:
		return llms.ChatMessageTypeSystem
	case RoleAssistant, "model":
		return llms.ChatMessageTypeAI
	default:
		return llms.ChatMessageTypeHuman
	}
}

// totalTokens reads the usage count backends report under GenerationInfo.
func totalTokens(info map[string]any) int {
	if v, ok := info["TotalTokens"]; ok {
		if n, ok := toInt(v); ok {
			return n
		}
	}
	prompt, _ := toInt(info["PromptTokens"])
	completion, _ := toInt(info["CompletionTokens"])
	return prompt + completion
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}
