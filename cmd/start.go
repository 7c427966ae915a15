package cmd

import (
	"context"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"redirectly/config"
	"redirectly/core"
	"redirectly/logger"

	"github.com/spf13/cobra"
)

var (
	startServerPort string
	startProxyPort  string
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Starts all services (API server and proxy)",
	Long: `Starts both the REST API server and the rule-enforcing proxy, sharing one
rule engine. Press Ctrl+C to gracefully shut down all services.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.Info("--- Start Command: Run ---")
		serverPort := resolvePort(cmd.Flags().Changed("server-port"), startServerPort, config.AppConfig.Server.Port, "8778")
		proxyPort := resolvePort(cmd.Flags().Changed("proxy-port"), startProxyPort, config.AppConfig.Proxy.Port, "8777")
		logger.Info("Start Command: Final ports determined - Server: %s, Proxy: %s", serverPort, proxyPort)

		svc, err := newServices()
		if err != nil {
			return err
		}
		defer svc.close()

		sigCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		ctx, cancel := context.WithCancel(sigCtx)
		defer cancel()
		svc.watch(ctx)

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			if err := serveHTTP(ctx, serverPort, svc.handler()); err != nil {
				logger.Error("Start Command(API): %v", err)
				cancel()
			}
		}()
		go func() {
			defer wg.Done()
			if err := core.StartMitmProxy(ctx, proxyPort, svc.engine, svc.badges, svc.proxyOptions()); err != nil {
				logger.ProxyError("Start Command(Proxy): %v", err)
				cancel()
			}
		}()

		logger.Info("Start Command: All services launched. Press Ctrl+C to exit.")
		<-ctx.Done()
		logger.Info("Start Command: Initiating shutdown...")

		done := make(chan struct{})
		go func() {
			wg.Wait()
			close(done)
		}()
		select {
		case <-done:
			logger.Info("Start Command: All services shut down.")
		case <-time.After(10 * time.Second):
			logger.Error("Start Command: Shutdown timed out. Forcing exit.")
		}
		return nil
	},
}

func init() {
	startCmd.Flags().StringVar(&startServerPort, "server-port", "8778", "Port for the API server (overrides config)")
	startCmd.Flags().StringVar(&startProxyPort, "proxy-port", "8777", "Port for the proxy server (overrides config)")
	rootCmd.AddCommand(startCmd)
}
