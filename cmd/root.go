package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mnemo-cli/mnemo/internal/deck"
	"github.com/mnemo-cli/mnemo/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "mnemo",
	Short: "Spaced-repetition flashcards in the terminal",
	Long:  "Mnemo — terminal flashcards with spaced-repetition scheduling and AI card generation.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides MNEMO_DB env var)")

	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(decksCmd)
	rootCmd.AddCommand(cardsCmd)
	rootCmd.AddCommand(dueCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(updateCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then MNEMO_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// openStore resolves the database path and opens the store.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return st, nil
}

// resolveDeck finds a deck by ID first, then by case-insensitive name.
func resolveDeck(ctx context.Context, st *store.Store, val string) (*deck.Deck, error) {
	if d, err := st.Decks().Get(ctx, val); err == nil {
		return d, nil
	}

	decks, err := st.Decks().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list decks: %w", err)
	}
	for i := range decks {
		if strings.EqualFold(decks[i].Name, val) {
			return &decks[i], nil
		}
	}
	return nil, fmt.Errorf("no deck found for %q", val)
}
