package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mnemo-cli/mnemo/internal/app"
)

var reviewCmd = &cobra.Command{
	Use:   "review <deck>",
	Short: "Start a review session for a deck",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		d, err := resolveDeck(cmd.Context(), st, args[0])
		if err != nil {
			return err
		}

		return app.RunReview(st, d.ID)
	},
}
