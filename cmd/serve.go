package cmd

import (
	"facegate.io/infrastructure"
	"github.com/spf13/cobra"
)

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		if servePort != "" {
			Config.Port = servePort
		}
		return infrastructure.StartServer(cmd.Context(), Config)
	},
}

func init() {
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "", "Port to listen on (overrides FACEGATE_PORT)")
	rootCmd.AddCommand(serveCmd)
}
