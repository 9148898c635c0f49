package chatbot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"studybuddy-be/pkg/llm"
)

const (
	FallbackTitle  = "Study Session"
	maxTitleLength = 100
)

type Config struct {
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// Tutor frames student questions for the completion provider.
type Tutor struct {
	provider llm.LLMProvider
	cfg      Config
}

func NewTutor(provider llm.LLMProvider, cfg Config) *Tutor {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &Tutor{
		provider: provider,
		cfg:      cfg,
	}
}

// GenerateResponse answers prompt given the prior conversation. history is
// oldest first and may already end with prompt as its last user turn.
// subject is the display name of the study subject, empty for none.
func (t *Tutor) GenerateResponse(ctx context.Context, prompt string, history []llm.Message, subject string) (*llm.Completion, error) {
	ctx, cancel := context.WithTimeout(ctx, t.cfg.Timeout)
	defer cancel()

	system := systemPrompt
	if subject != "" {
		system += "\n\nCurrent subject context: " + subject
	}

	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: system})
	messages = append(messages, history...)
	if !endsWithPrompt(history, prompt) {
		messages = append(messages, llm.Message{Role: llm.RoleUser, Content: prompt})
	}

	opts := []llm.Option{
		llm.WithTemperature(t.cfg.Temperature),
		llm.WithSubject(subject),
	}
	if t.cfg.MaxTokens > 0 {
		opts = append(opts, llm.WithMaxTokens(t.cfg.MaxTokens))
	}

	completion, err := t.provider.Chat(ctx, messages, opts...)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("completion timed out after %s: %w", t.cfg.Timeout, err)
		}
		return nil, err
	}
	return completion, nil
}

// GenerateSessionTitle derives a short title from the first question.
func (t *Tutor) GenerateSessionTitle(ctx context.Context, firstMessage string) (string, error) {
	if llm.IsOffline(t.provider) {
		return headlineTitle(firstMessage), nil
	}

	ctx, cancel := context.WithTimeout(ctx, t.cfg.Timeout)
	defer cancel()

	completion, err := t.provider.Chat(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: titlePrompt},
		{Role: llm.RoleUser, Content: firstMessage},
	}, llm.WithMaxTokens(20), llm.WithTemperature(0.7))
	if err != nil {
		return "", err
	}

	title := strings.TrimSpace(completion.Content)
	if title == "" {
		return "", errors.New("empty title")
	}
	return truncateRunes(title, maxTitleLength), nil
}

func endsWithPrompt(history []llm.Message, prompt string) bool {
	if len(history) == 0 {
		return false
	}
	last := history[len(history)-1]
	return last.Role == llm.RoleUser && last.Content == prompt
}

// headlineTitle keeps the first five words, capped at 50 characters.
func headlineTitle(message string) string {
	words := strings.Fields(message)
	if len(words) > 5 {
		words = words[:5]
	}
	title := strings.Join(words, " ")
	if len([]rune(title)) > 50 {
		title = truncateRunes(title, 47) + "..."
	}
	if title == "" {
		return FallbackTitle
	}
	return title
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
