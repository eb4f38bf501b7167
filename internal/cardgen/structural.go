package cardgen

import (
	"fmt"
	"strings"
)

// StructuralValidator checks that the batch has the requested size and
// every card has non-empty fields within length limits.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(cards []GeneratedCard, input GenerateInput) *ValidationError {
	if len(cards) == 0 {
		return &ValidationError{
			Validator: v.Name(),
			Message:   "batch is empty",
			Retryable: true,
		}
	}
	if len(cards) != input.Count {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("got %d cards, requested %d", len(cards), input.Count),
			Retryable: true,
		}
	}
	for i, c := range cards {
		if strings.TrimSpace(c.Front) == "" {
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("card %d: front is empty", i+1),
				Retryable: true,
			}
		}
		if strings.TrimSpace(c.Back) == "" {
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("card %d: back is empty", i+1),
				Retryable: true,
			}
		}
		if len(c.Front) > 500 {
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("card %d: front exceeds 500 characters", i+1),
				Retryable: true,
			}
		}
		if len(c.Back) > 1000 {
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("card %d: back exceeds 1000 characters", i+1),
				Retryable: true,
			}
		}
	}
	return nil
}

// DedupValidator rejects batches that repeat a front, either within the
// batch or against cards already in the deck.
type DedupValidator struct{}

func (v *DedupValidator) Name() string { return "dedup" }

func (v *DedupValidator) Validate(cards []GeneratedCard, input GenerateInput) *ValidationError {
	existing := make(map[string]bool, len(input.ExistingFronts))
	for _, f := range input.ExistingFronts {
		existing[normalizeFront(f)] = true
	}

	seen := make(map[string]bool, len(cards))
	for i, c := range cards {
		key := normalizeFront(c.Front)
		if existing[key] {
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("card %d duplicates an existing card: %q", i+1, c.Front),
				Retryable: true,
			}
		}
		if seen[key] {
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("card %d repeats a front within the batch: %q", i+1, c.Front),
				Retryable: true,
			}
		}
		seen[key] = true
	}
	return nil
}

func normalizeFront(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
