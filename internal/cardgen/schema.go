package cardgen

import "github.com/mnemo-cli/mnemo/internal/llm"

// CardBatchSchema defines the JSON schema for LLM card generation responses.
var CardBatchSchema = &llm.Schema{
	Name:        "flashcard-batch",
	Description: "A batch of flashcards for a study topic",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"cards": map[string]any{
				"type":        "array",
				"description": "The generated flashcards, one object per card",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"front": map[string]any{
							"type":        "string",
							"description": "The question or prompt side of the card, in plain text",
						},
						"back": map[string]any{
							"type":        "string",
							"description": "The answer side of the card. Concise; one fact per card.",
						},
						"tags": map[string]any{
							"type": "array",
							"items": map[string]any{
								"type": "string",
							},
							"description": "Zero or more short lowercase topic tags",
						},
					},
					"required":             []any{"front", "back", "tags"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"cards"},
		"additionalProperties": false,
	},
}
