package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mnemo-cli/mnemo/internal/app"
)

// runApp opens the store and launches the TUI on the deck list.
func runApp(cmd *cobra.Command) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	return app.Run(st)
}
