package cardgen

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mnemo-cli/mnemo/internal/llm"
)

// LLMGenerator implements Generator using the LLM provider.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
}

// New creates a new LLMGenerator with the given provider and config.
func New(provider llm.Provider, cfg Config) *LLMGenerator {
	return &LLMGenerator{provider: provider, config: cfg}
}

// batchOutput is the raw LLM response before validation.
type batchOutput struct {
	Cards []struct {
		Front string   `json:"front"`
		Back  string   `json:"back"`
		Tags  []string `json:"tags"`
	} `json:"cards"`
}

// Generate produces a batch of cards for the given input.
func (g *LLMGenerator) Generate(ctx context.Context, input GenerateInput) ([]GeneratedCard, error) {
	if input.Count < 1 {
		return nil, fmt.Errorf("card count must be at least 1")
	}
	if g.config.MaxCards > 0 && input.Count > g.config.MaxCards {
		return nil, fmt.Errorf("card count %d exceeds the limit of %d", input.Count, g.config.MaxCards)
	}

	ctx = llm.WithPurpose(ctx, "card-gen")

	req := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(input, g.config)},
		},
		Schema:      CardBatchSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("LLM generation failed: %w", err)
	}

	var raw batchOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse LLM response: %w", err)
	}

	cards := make([]GeneratedCard, len(raw.Cards))
	for i, c := range raw.Cards {
		cards[i] = GeneratedCard{Front: c.Front, Back: c.Back, Tags: c.Tags}
	}

	// Run validators in order.
	for _, v := range g.config.Validators {
		if verr := v.Validate(cards, input); verr != nil {
			return nil, verr
		}
	}

	return cards, nil
}
