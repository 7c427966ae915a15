package cmd

import (
	"fmt"

	"redirectly/database"

	"github.com/spf13/cobra"
)

var globalCmd = &cobra.Command{
	Use:   "global [on|off]",
	Short: "Show or set the switch that turns every rule on or off at once",
	Long: `Without an argument, prints whether rules are currently enforced.
With 'off', no rule is enforced regardless of its own enabled flag; 'on'
restores each rule's own state.`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"on", "off"},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			enabled, err := database.GetGlobalEnabled()
			if err != nil {
				return fmt.Errorf("reading global switch: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Rules are globally %s\n", onOff(enabled))
			return nil
		}

		var enabled bool
		switch args[0] {
		case "on":
			enabled = true
		case "off":
			enabled = false
		default:
			return fmt.Errorf("unknown state %q (want on or off)", args[0])
		}
		if err := database.SetGlobalEnabled(enabled); err != nil {
			return fmt.Errorf("saving global switch: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Rules are globally %s\n", onOff(enabled))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(globalCmd)
}
