package cmd

import (
	"fmt"

	"redirectly/config"
	"redirectly/database"
	"redirectly/logger"

	"github.com/spf13/cobra"
)

var (
	cfgFile          string
	dbPath           string // Bound to --dbpath flag
	appLogPathFlag   string
	proxyLogPathFlag string
	logLevelFlag     string
)

var rootCmd = &cobra.Command{
	Use:   "redirectly",
	Short: "Wildcard redirect and cookie rules enforced by a local proxy",
	Long: `Redirectly stores wildcard redirect and cookie-injection rules and enforces
them on traffic sent through its proxy. Rules can be managed from this CLI
or over the REST API served by 'redirectly server'.

Example:
  redirectly rule add --source 'https://api.example.com/*' --target 'http://localhost:3000/*'
  redirectly start`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Init(cfgFile, appLogPathFlag, proxyLogPathFlag, logLevelFlag); err != nil {
			return fmt.Errorf("failed to initialize config in PersistentPreRunE: %w", err)
		}

		finalDBPath := dbPath
		source := "--dbpath flag"
		if finalDBPath == "" {
			finalDBPath = config.AppConfig.Database.Path
			source = "config"
		}
		if expanded, err := config.ExpandTilde(finalDBPath); err != nil {
			logger.Error("Error expanding tilde in %s database path '%s': %v. Using original.", source, finalDBPath, err)
		} else {
			finalDBPath = expanded
		}
		if finalDBPath == "" {
			logger.Error("PersistentPreRunE: Database path is empty after checking flag and config! Falling back to 'redirectly.db' in CWD.")
			finalDBPath = "redirectly.db"
		}

		logger.Debug("PersistentPreRunE: Using database path from %s: '%s'", source, finalDBPath)
		if err := database.InitDB(finalDBPath); err != nil {
			return fmt.Errorf("failed to initialize database at %s: %w", finalDBPath, err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if err := database.Close(); err != nil {
			logger.Error("Error closing database: %v", err)
		}
	},
}

// Execute runs the root command. Cobra has already printed the error.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/redirectly/config.yaml or ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "dbpath", "", "path to SQLite database file (overrides config/default)")
	rootCmd.PersistentFlags().StringVar(&appLogPathFlag, "app-log", "", "path for the application log file (overrides config/default)")
	rootCmd.PersistentFlags().StringVar(&proxyLogPathFlag, "proxy-log", "", "path for the proxy log file (overrides config/default)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "log level: DEBUG, INFO, WARN, ERROR (overrides config/default)")
}
