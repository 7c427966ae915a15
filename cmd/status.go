package cmd

import (
	"fmt"

	"redirectly/core"
	"redirectly/database"

	"github.com/spf13/cobra"
)

var statusOutput string

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Summarize enabled rules and the global switch",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validateOutput(statusOutput); err != nil {
			return err
		}
		snap, err := database.LoadSnapshot()
		if err != nil {
			return fmt.Errorf("loading state: %w", err)
		}
		installed := len(core.BuildDirectives(snap.Rules, snap.GlobalEnabled))
		return printStatus(cmd.OutOrStdout(), statusOutput, core.BuildStatus(snap.Rules, snap.GlobalEnabled, installed))
	},
}

func init() {
	statusCmd.Flags().StringVarP(&statusOutput, "output", "o", outputTable, "Output format: table, json or yaml")
	rootCmd.AddCommand(statusCmd)
}
