package cmd

import (
	"fmt"

	"redirectly/core"
	"redirectly/database"

	"github.com/spf13/cobra"
)

var compileOutput string

var compileCmd = &cobra.Command{
	Use:   "compile",
	Short: "Print the directives the stored rules compile to",
	Long: `Compiles the stored rules exactly as the proxy does and prints the result.
The directives are also checked the way the engine checks an update, so a
rule whose pattern would be rejected is reported here.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validateOutput(compileOutput); err != nil {
			return err
		}
		snap, err := database.LoadSnapshot()
		if err != nil {
			return fmt.Errorf("loading state: %w", err)
		}

		directives := core.BuildDirectives(snap.Rules, snap.GlobalEnabled)
		if err := core.NewEngine(nil).UpdateDynamicRules(nil, directives); err != nil {
			return err
		}
		return writeStructured(cmd.OutOrStdout(), compileOutput, directives)
	},
}

func init() {
	compileCmd.Flags().StringVarP(&compileOutput, "output", "o", outputJSON, "Output format: json or yaml")
	rootCmd.AddCommand(compileCmd)
}
