package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"redirectly/config"
	"redirectly/core"
	"redirectly/logger"

	"github.com/spf13/cobra"
)

var standaloneProxyPort string

var proxyCmd = &cobra.Command{
	Use:   "proxy",
	Short: "Manages the rule-enforcing MITM proxy (can be run standalone or as part of 'start')",
}

var proxyStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Starts the rule-enforcing proxy",
	Long: `Starts the proxy that applies the enabled rules to traffic sent through it.
You will need to configure your browser or system to use this proxy.
To rewrite HTTPS traffic, a CA certificate must be generated (using 'proxy init-ca') and trusted by your client.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		port := resolvePort(cmd.Flags().Changed("port"), standaloneProxyPort, config.AppConfig.Proxy.Port, "8777")

		svc, err := newServices()
		if err != nil {
			return err
		}
		defer svc.close()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		svc.watch(ctx)

		logger.ProxyInfo("Attempting to start proxy on port %s...", port)
		if err := core.StartMitmProxy(ctx, port, svc.engine, svc.badges, svc.proxyOptions()); err != nil {
			logger.ProxyError("Error running proxy: %v", err)
			return err
		}
		return nil
	},
}

var proxyInitCACmd = &cobra.Command{
	Use:   "init-ca",
	Short: "Initializes (generates) the root CA certificate and key for the proxy",
	RunE: func(cmd *cobra.Command, args []string) error {
		certPath := config.AppConfig.Proxy.CACertPath
		keyPath := config.AppConfig.Proxy.CAKeyPath
		if certPath == "" || keyPath == "" {
			return fmt.Errorf("CA certificate or key path is not defined in configuration")
		}

		if err := core.GenerateAndSaveCA(certPath, keyPath); err != nil {
			return fmt.Errorf("generating CA: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "CA certificate written to %s\n", certPath)
		fmt.Fprintln(cmd.OutOrStdout(), "Please import it into your browser/system's trust store.")
		return nil
	},
}

func init() {
	proxyStartCmd.Flags().StringVarP(&standaloneProxyPort, "port", "p", "8777", "Port for the proxy server to listen on (overrides config)")

	proxyCmd.AddCommand(proxyStartCmd)
	proxyCmd.AddCommand(proxyInitCACmd)
	rootCmd.AddCommand(proxyCmd)
}
