package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mnemo-cli/mnemo/internal/due"
	"github.com/mnemo-cli/mnemo/internal/llm"
	"github.com/mnemo-cli/mnemo/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats [deck]",
	Short: "Show review statistics and LLM usage",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := cmd.Context()

		if len(args) == 1 {
			d, err := resolveDeck(ctx, st, args[0])
			if err != nil {
				return err
			}
			if err := printDeckStats(cmd, st, d.ID, d.Name); err != nil {
				return err
			}
			fmt.Println()
		}

		return printLLMUsage(cmd, st)
	},
}

func printDeckStats(cmd *cobra.Command, st *store.Store, deckID, deckName string) error {
	ctx := cmd.Context()

	sel, err := due.NewSelector(st).Select(ctx, deckID, time.Now(), true, 0)
	if err != nil {
		return fmt.Errorf("select due cards: %w", err)
	}

	counts, err := st.Reviews().CountByDeck(ctx, deckID)
	if err != nil {
		return fmt.Errorf("count reviews: %w", err)
	}

	s := sel.Stats
	fmt.Printf("Deck: %s\n", deckName)
	fmt.Println(strings.Repeat("─", 40))
	fmt.Printf("Cards:        %d\n", s.TotalCards)
	fmt.Printf("Due now:      %d (%d new, %d review)\n", s.DueCards, s.NewCards, s.ReviewCards)

	var total int
	for _, n := range counts {
		total += n
	}
	fmt.Printf("Reviews:      %d\n", total)
	if total > 0 {
		correct := counts["good"] + counts["easy"]
		fmt.Printf("Correct:      %d (%.0f%%)\n", correct, float64(correct)/float64(total)*100)
		fmt.Printf("By answer:    again %d / hard %d / good %d / easy %d\n",
			counts["again"], counts["hard"], counts["good"], counts["easy"])
	}
	return nil
}

func printLLMUsage(cmd *cobra.Command, st *store.Store) error {
	usage, err := st.LLMLog().UsageByModel(cmd.Context())
	if err != nil {
		return fmt.Errorf("query llm usage: %w", err)
	}

	if len(usage) == 0 {
		fmt.Println("No LLM usage recorded yet.")
		return nil
	}

	fmt.Println("LLM Usage")
	fmt.Println(strings.Repeat("─", 78))
	fmt.Printf("%-32s  %6s  %10s  %10s  %9s\n",
		"Model", "Calls", "Input", "Output", "Cost")
	fmt.Println(strings.Repeat("─", 78))

	var totalCost float64
	var unknownModels []string
	for _, u := range usage {
		cost := llm.LookupCost(u.Model)
		if cost == nil {
			unknownModels = append(unknownModels, u.Model)
			fmt.Printf("%-32s  %6d  %10d  %10d  %9s\n",
				truncate(u.Model, 32), u.Calls, u.InputTokens, u.OutputTokens, "?")
			continue
		}
		c := cost.Cost(u.InputTokens, u.OutputTokens)
		totalCost += c
		fmt.Printf("%-32s  %6d  %10d  %10d  %9s\n",
			truncate(u.Model, 32), u.Calls, u.InputTokens, u.OutputTokens, formatCost(c))
	}

	fmt.Println(strings.Repeat("─", 78))
	label := "TOTAL"
	if len(unknownModels) > 0 {
		label = "TOTAL (partial)"
	}
	fmt.Printf("%-32s  %6s  %10s  %10s  %9s\n", label, "", "", "", formatCost(totalCost))

	if len(unknownModels) > 0 {
		fmt.Printf("\nPricing unavailable for: %s\n", strings.Join(unknownModels, ", "))
	}
	return nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}
