package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mnemo-cli/mnemo/internal/due"
)

var dueCmd = &cobra.Command{
	Use:   "due <deck>",
	Short: "Show the cards due for review in a deck",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		includeNew, _ := cmd.Flags().GetBool("include-new")

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

		sel, err := due.NewSelector(st).Select(ctx, d.ID, time.Now(), includeNew, limit)
		if err != nil {
			return fmt.Errorf("select due cards: %w", err)
		}

		if len(sel.Cards) == 0 {
			fmt.Printf("Nothing due in %q right now.\n", d.Name)
			return nil
		}

		fmt.Printf("%-40s  %-8s  %s\n", "Front", "Status", "Due")
		fmt.Println(strings.Repeat("─", 80))
		for _, c := range sel.Cards {
			front := c.Front
			if len(front) > 40 {
				front = front[:37] + "..."
			}
			status := "review"
			if c.IsNew {
				status = "new"
			}
			fmt.Printf("%-40s  %-8s  %s\n", front, status, c.TimeDisplay)
		}

		s := sel.Stats
		fmt.Printf("\n%d due (%d new, %d review) of %d cards\n",
			s.DueCards, s.NewCards, s.ReviewCards, s.TotalCards)
		return nil
	},
}

func init() {
	dueCmd.Flags().IntP("limit", "n", 0, "Maximum cards to show (0 = all)")
	dueCmd.Flags().Bool("include-new", true, "Include never-reviewed cards")
}
