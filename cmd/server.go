package cmd

import (
	"github.com/spf13/cobra"
	"stream-backend/config"
	httpserver "stream-backend/server"
)

func server(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "server",
		Short: "start http server and reconcile worker",
		Run: func(cmd *cobra.Command, args []string) {
			httpserver.RunHttp(cfg)
		},
	}
}
