package cmd

import (
	"fmt"

	"redirectly/database"
	"redirectly/models"

	"github.com/spf13/cobra"
)

var sortCmd = &cobra.Command{
	Use:       "sort [created|name]",
	Short:     "Show or set the default rule listing order",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{string(models.SortByCreated), string(models.SortByName)},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			order, err := database.GetSortPreference()
			if err != nil {
				return fmt.Errorf("reading sort preference: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Rules are listed by %s\n", order)
			return nil
		}

		order := models.SortOrder(args[0])
		if order != models.SortByCreated && order != models.SortByName {
			return fmt.Errorf("unknown sort order %q (want created or name)", args[0])
		}
		if err := database.SetSortPreference(order); err != nil {
			return fmt.Errorf("saving sort preference: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Rules are listed by %s\n", order)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sortCmd)
}
