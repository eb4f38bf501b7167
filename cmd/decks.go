package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var decksCmd = &cobra.Command{
	Use:   "decks",
	Short: "Manage decks",
}

var decksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all decks",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		decks, err := st.Decks().List(cmd.Context())
		if err != nil {
			return fmt.Errorf("list decks: %w", err)
		}

		if len(decks) == 0 {
			fmt.Println("No decks yet. Create one with: mnemo decks create <name>")
			return nil
		}

		fmt.Printf("%-36s  %-30s  %6s  %s\n", "ID", "Name", "Cards", "Updated")
		fmt.Println(strings.Repeat("─", 96))
		for _, d := range decks {
			name := d.Name
			if len(name) > 30 {
				name = name[:27] + "..."
			}
			fmt.Printf("%-36s  %-30s  %6d  %s\n",
				d.ID, name, d.CardCount,
				d.UpdatedAt.Local().Format("2006-01-02 15:04"))
		}
		fmt.Printf("\n%d decks\n", len(decks))
		return nil
	},
}

var decksCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a new deck",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		description, _ := cmd.Flags().GetString("description")

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		d, err := st.Decks().Create(cmd.Context(), args[0], description, time.Now())
		if err != nil {
			return fmt.Errorf("create deck: %w", err)
		}

		fmt.Printf("Created deck %q (%s)\n", d.Name, d.ID)
		return nil
	},
}

var decksDeleteCmd = &cobra.Command{
	Use:   "delete <deck>",
	Short: "Delete a deck and all its cards",
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

		if err := st.Decks().Delete(ctx, d.ID); err != nil {
			return fmt.Errorf("delete deck: %w", err)
		}

		fmt.Printf("Deleted deck %q (%d cards)\n", d.Name, d.CardCount)
		return nil
	},
}

func init() {
	decksCreateCmd.Flags().StringP("description", "d", "", "Deck description")

	decksCmd.AddCommand(decksListCmd)
	decksCmd.AddCommand(decksCreateCmd)
	decksCmd.AddCommand(decksDeleteCmd)
}
