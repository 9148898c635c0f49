package mock

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"studybuddy-be/pkg/llm"
)

const ModelName = "mock-gpt-3.5-turbo"

var templates = []string{
	"Great question! Let me explain this concept step by step:\n\n1. First, we need to understand the basic principles\n2. Then, we can apply them to solve the problem\n3. Finally, let's look at some practical examples\n\nDoes this help clarify things?",

	"That's an interesting topic! Here's a simplified explanation:\n\nThe key concept is that everything connects to a fundamental principle. Think of it like building blocks - each piece fits together to form the complete picture.\n\nWould you like me to elaborate on any specific part?",

	"Excellent question for exam preparation! Here's what you need to know:\n\n**Main Points:**\n- Point 1: The foundational concept\n- Point 2: How it applies in practice\n- Point 3: Common mistakes to avoid\n\n**Example:** Imagine you have a real-world scenario...\n\nLet me know if you need more details!",

	"I'd be happy to help you understand this! Let me break it down:\n\n### Overview\nThis concept is fundamental to understanding the larger topic.\n\n### Key Details\n- It involves several interconnected ideas\n- Each part builds on the previous one\n- Practice is essential for mastery\n\n### Tips for Studying\n1. Review the basics first\n2. Work through examples\n3. Test yourself regularly\n\nWhat specific aspect would you like to explore further?",
}

// Provider returns canned tutoring replies after a simulated delay.
type Provider struct {
	minLatency time.Duration
	maxLatency time.Duration
}

var _ llm.LLMProvider = (*Provider)(nil)

func NewMockProvider(minLatency, maxLatency time.Duration) *Provider {
	if maxLatency < minLatency {
		maxLatency = minLatency
	}
	return &Provider{
		minLatency: minLatency,
		maxLatency: maxLatency,
	}
}

func (p *Provider) Offline() bool {
	return true
}

func (p *Provider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (*llm.Completion, error) {
	options := llm.ApplyOptions(opts...)

	start := time.Now()
	if err := p.wait(ctx); err != nil {
		return nil, err
	}

	content := templates[rand.IntN(len(templates))]
	if options.Subject != "" {
		content = fmt.Sprintf("**%s Study Topic**\n\n%s", options.Subject, content)
	}

	return &llm.Completion{
		Content:    content,
		TokensUsed: 150 + rand.IntN(151),
		Model:      ModelName,
		Latency:    time.Since(start),
	}, nil
}

func (p *Provider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (*llm.Completion, error) {
	return p.Chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, opts...)
}

// wait sleeps for a random duration in [min, max], returning early on cancellation.
func (p *Provider) wait(ctx context.Context) error {
	delay := p.minLatency
	if spread := p.maxLatency - p.minLatency; spread > 0 {
		delay += rand.N(spread + 1)
	}
	if delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
