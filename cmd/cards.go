package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mnemo-cli/mnemo/internal/store"
)

var cardsCmd = &cobra.Command{
	Use:   "cards",
	Short: "Manage cards in a deck",
}

var cardsAddCmd = &cobra.Command{
	Use:   "add <deck>",
	Short: "Add a card to a deck",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		front, _ := cmd.Flags().GetString("front")
		back, _ := cmd.Flags().GetString("back")
		tags, _ := cmd.Flags().GetStringSlice("tags")

		if strings.TrimSpace(front) == "" || strings.TrimSpace(back) == "" {
			return fmt.Errorf("--front and --back are required")
		}

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

		cards, err := st.Cards().Insert(ctx, d.ID, []store.NewCard{
			{Front: front, Back: back, Tags: tags},
		}, time.Now())
		if err != nil {
			return fmt.Errorf("add card: %w", err)
		}

		fmt.Printf("Added card %s to %q\n", cards[0].ID, d.Name)
		return nil
	},
}

var cardsListCmd = &cobra.Command{
	Use:   "list <deck>",
	Short: "List the cards in a deck",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
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

		cards, err := st.Cards().ListByDeck(ctx, d.ID)
		if err != nil {
			return fmt.Errorf("list cards: %w", err)
		}

		if len(cards) == 0 {
			fmt.Printf("Deck %q has no cards.\n", d.Name)
			return nil
		}

		fmt.Printf("%-36s  %-40s  %4s  %s\n", "ID", "Front", "Reps", "Next review")
		fmt.Println(strings.Repeat("─", 104))
		for _, c := range cards {
			front := c.Front
			if len(front) > 40 {
				front = front[:37] + "..."
			}
			next := c.NextReviewDate.Local().Format("2006-01-02 15:04")
			if c.IsNew() {
				next = "(new)"
			}
			fmt.Printf("%-36s  %-40s  %4d  %s\n", c.ID, front, c.Repetitions, next)
		}
		fmt.Printf("\n%d cards\n", len(cards))
		return nil
	},
}

var cardsDeleteCmd = &cobra.Command{
	Use:   "delete <card-id>",
	Short: "Delete a card",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.Cards().Delete(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("delete card: %w", err)
		}

		fmt.Println("Deleted card", args[0])
		return nil
	},
}

func init() {
	cardsAddCmd.Flags().StringP("front", "f", "", "Card front (the prompt)")
	cardsAddCmd.Flags().StringP("back", "b", "", "Card back (the answer)")
	cardsAddCmd.Flags().StringSliceP("tags", "t", nil, "Comma-separated tags")

	cardsCmd.AddCommand(cardsAddCmd)
	cardsCmd.AddCommand(cardsListCmd)
	cardsCmd.AddCommand(cardsDeleteCmd)
}
