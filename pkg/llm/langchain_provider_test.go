package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

type fakeModel struct {
	gotMessages []llms.MessageContent
	gotOptions  llms.CallOptions
	response    *llms.ContentResponse
	err         error
}

func (f *fakeModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	f.gotMessages = messages
	for _, opt := range options {
		opt(&f.gotOptions)
	}
	return f.response, f.err
}

func (f *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, f, prompt, options...)
}

func TestLangChainProviderMapsRolesAndUsage(t *testing.T) {
	model := &fakeModel{response: &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{
			Content:        "A derivative measures change.",
			GenerationInfo: map[string]any{"TotalTokens": 42},
		}},
	}}
	p := NewLangChainProvider(model, "gpt-3.5-turbo")

	c, err := p.Chat(context.Background(), []Message{
		{Role: RoleSystem, Content: "be helpful"},
		{Role: RoleUser, Content: "what is a derivative?"},
		{Role: RoleAssistant, Content: "earlier answer"},
	}, WithMaxTokens(1000), WithTemperature(0.2))
	require.NoError(t, err)

	assert.Equal(t, "A derivative measures change.", c.Content)
	assert.Equal(t, 42, c.TokensUsed)
	assert.Equal(t, "gpt-3.5-turbo", c.Model)

	require.Len(t, model.gotMessages, 3)
	assert.Equal(t, llms.ChatMessageTypeSystem, model.gotMessages[0].Role)
	assert.Equal(t, llms.ChatMessageTypeHuman, model.gotMessages[1].Role)
	assert.Equal(t, llms.ChatMessageTypeAI, model.gotMessages[2].Role)
	assert.Equal(t, 1000, model.gotOptions.MaxTokens)
	assert.InDelta(t, 0.2, model.gotOptions.Temperature, 1e-9)
}

func TestLangChainProviderSumsSplitUsage(t *testing.T) {
	model := &fakeModel{response: &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{
			Content:        "ok",
			GenerationInfo: map[string]any{"PromptTokens": 10, "CompletionTokens": 5},
		}},
	}}
	p := NewLangChainProvider(model, "llama3")

	c, err := p.Generate(context.Background(), "hi", WithModel("llama3:8b"))
	require.NoError(t, err)
	assert.Equal(t, 15, c.TokensUsed)
	assert.Equal(t, "llama3:8b", c.Model)
}

func TestLangChainProviderErrors(t *testing.T) {
	p := NewLangChainProvider(&fakeModel{err: errors.New("rate limited")}, "m")
	_, err := p.Generate(context.Background(), "hi")
	assert.ErrorContains(t, err, "rate limited")

	p = NewLangChainProvider(&fakeModel{response: &llms.ContentResponse{}}, "m")
	_, err = p.Generate(context.Background(), "hi")
	assert.ErrorIs(t, err, ErrEmptyResponse)
}
