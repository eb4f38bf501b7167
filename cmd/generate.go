package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mnemo-cli/mnemo/internal/cardgen"
	"github.com/mnemo-cli/mnemo/internal/llm"
	"github.com/mnemo-cli/mnemo/internal/store"
)

var generateCmd = &cobra.Command{
	Use:   "generate <deck>",
	Short: "Generate cards for a deck with an LLM",
	Long: `Generate flashcards for a topic and add them to a deck.

The provider is taken from MNEMO_LLM_PROVIDER, or discovered from
standard API key env vars (GEMINI_API_KEY, OPENAI_API_KEY,
ANTHROPIC_API_KEY, OPENROUTER_API_KEY).`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringP("topic", "t", "", "Topic to generate cards for (defaults to the deck name)")
	generateCmd.Flags().IntP("count", "n", 10, "Number of cards to generate")
	generateCmd.Flags().String("notes", "", "Extra guidance for the generator")
	generateCmd.Flags().Bool("preview", false, "Print the generated cards without saving them")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	topic, _ := cmd.Flags().GetString("topic")
	count, _ := cmd.Flags().GetInt("count")
	notes, _ := cmd.Flags().GetString("notes")
	preview, _ := cmd.Flags().GetBool("preview")

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := cmd.Context()
	d, err := resolveDeck(ctx, st, args[0])
	if err != nil {
		return err
	}

	if topic == "" {
		topic = d.Name
	}

	existing, err := st.Cards().ListByDeck(ctx, d.ID)
	if err != nil {
		return fmt.Errorf("list existing cards: %w", err)
	}
	fronts := make([]string, len(existing))
	for i, c := range existing {
		fronts[i] = c.Front
	}

	provider, err := newLLMProvider(ctx, st)
	if err != nil {
		return err
	}

	gen := cardgen.New(provider, cardgen.DefaultConfig())

	fmt.Printf("Generating %d cards for %q (model %s)...\n", count, topic, provider.ModelID())
	cards, err := gen.Generate(ctx, cardgen.GenerateInput{
		Topic:          topic,
		Count:          count,
		DeckName:       d.Name,
		ExistingFronts: fronts,
		Notes:          notes,
	})
	if err != nil {
		return fmt.Errorf("generate cards: %w", err)
	}

	for i, c := range cards {
		fmt.Printf("\n── Card %d/%d ──\n", i+1, len(cards))
		fmt.Println("Q:", c.Front)
		fmt.Println("A:", c.Back)
	}

	if preview {
		fmt.Printf("\nPreview only — nothing saved.\n")
		return nil
	}

	newCards := make([]store.NewCard, len(cards))
	for i, c := range cards {
		newCards[i] = store.NewCard{Front: c.Front, Back: c.Back, Tags: c.Tags}
	}
	if _, err := st.Cards().Insert(ctx, d.ID, newCards, time.Now()); err != nil {
		return fmt.Errorf("save cards: %w", err)
	}

	fmt.Printf("\nAdded %d cards to %q.\n", len(cards), d.Name)
	return nil
}

// newLLMProvider builds a provider from env config, falling back to
// API key discovery. Requests are logged to the store.
func newLLMProvider(ctx context.Context, st *store.Store) (llm.Provider, error) {
	cfg := llm.ConfigFromEnv()
	if err := cfg.Validate(); err != nil {
		discovered, ok := llm.DiscoverConfig()
		if !ok {
			return nil, fmt.Errorf("no LLM provider configured: %w", err)
		}
		cfg = discovered
	}
	return llm.NewProvider(ctx, cfg, st.LLMLog())
}
