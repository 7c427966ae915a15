package cmd

import (
	"os/signal"
	"syscall"

	"redirectly/config"
	"redirectly/logger"

	"github.com/spf13/cobra"
)

var standaloneServerPort string

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Starts the REST API server (can be run standalone or as part of 'start')",
	RunE: func(cmd *cobra.Command, args []string) error {
		port := resolvePort(cmd.Flags().Changed("port"), standaloneServerPort, config.AppConfig.Server.Port, "8778")
		logger.Info("--- Server Command: Run ---")

		svc, err := newServices()
		if err != nil {
			return err
		}
		defer svc.close()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		svc.watch(ctx)

		return serveHTTP(ctx, port, svc.handler())
	},
}

func init() {
	serverCmd.Flags().StringVarP(&standaloneServerPort, "port", "p", "8778", "Port for the server to listen on (overrides config)")
	rootCmd.AddCommand(serverCmd)
}
