package cmd

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/mnemo-cli/mnemo/internal/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		gin.SetMode(gin.ReleaseMode)
		r := gin.Default()
		api.New(st).Register(r.Group("/api"))

		fmt.Println("Listening on", addr)
		return r.Run(addr)
	},
}

func init() {
	serveCmd.Flags().String("addr", ":8484", "Listen address")
}
