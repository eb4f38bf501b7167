package cardgen

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are a flashcard author creating cards for spaced repetition study.

Rules:
- Generate exactly the requested number of cards for the given topic.
- Each card tests a single atomic fact. Never pack two facts onto one card.
- The front is a clear, self-contained question or prompt. The back is the answer, as short as possible while still complete.
- Use plain text. No markdown, no numbered lists inside a card.
- Fronts must be unique within the batch and must not repeat any card from the "already in deck" list.
- Prefer recall prompts ("What is X?") over recognition prompts ("Is X true?").
- Tags are short lowercase words grouping related cards; reuse the same tag for cards on the same subtopic.`

// buildUserMessage constructs the user message from GenerateInput and Config limits.
func buildUserMessage(input GenerateInput, cfg Config) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Topic: %s\n", input.Topic)
	fmt.Fprintf(&b, "Cards requested: %d\n", input.Count)
	if input.DeckName != "" {
		fmt.Fprintf(&b, "Deck: %s\n", input.DeckName)
	}

	b.WriteString("\nAlready in deck:\n")
	b.WriteString(buildExisting(input.ExistingFronts, cfg.MaxExistingFronts))

	if input.Notes != "" {
		b.WriteString("\n\nAdditional guidance:\n")
		b.WriteString(input.Notes)
	}

	return b.String()
}

// buildExisting formats existing card fronts for the prompt, respecting
// the max limit.
func buildExisting(fronts []string, max int) string {
	if len(fronts) == 0 {
		return "None"
	}

	// Keep only the most recent N fronts.
	if max > 0 && len(fronts) > max {
		fronts = fronts[len(fronts)-max:]
	}

	var b strings.Builder
	for i, f := range fronts {
		fmt.Fprintf(&b, "%d. %s\n", i+1, f)
	}
	return strings.TrimRight(b.String(), "\n")
}
