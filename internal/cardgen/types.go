// Package cardgen generates flashcards from a topic using an LLM
// provider, with validation of the returned batch.
package cardgen

import "context"

// GenerateInput is the context for one card generation request.
type GenerateInput struct {
	// Topic is the subject to generate cards for.
	Topic string

	// Count is the number of cards requested.
	Count int

	// DeckName frames the topic (e.g. "Spanish vocabulary").
	DeckName string

	// ExistingFronts lists card fronts already in the deck, for dedup.
	ExistingFronts []string

	// Notes is optional free-form guidance from the user.
	Notes string
}

// GeneratedCard is one card produced by the generator.
type GeneratedCard struct {
	Front string
	Back  string
	Tags  []string
}

// Generator produces a batch of cards for a topic.
type Generator interface {
	Generate(ctx context.Context, input GenerateInput) ([]GeneratedCard, error)
}
