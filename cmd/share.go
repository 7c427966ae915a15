package cmd

import (
	"fmt"

	"redirectly/core"
	"redirectly/database"

	"github.com/spf13/cobra"
)

var shareCmd = &cobra.Command{
	Use:   "share",
	Short: "Work with share links",
}

var shareIngestCmd = &cobra.Command{
	Use:   "ingest <url>",
	Short: "Import the rules encoded in a share link",
	Long: `Parses redirect= and setcookie= parameters from the URL, replaces stored
rules with the same source and appends the shared ones. Prints the URL with
the share parameters removed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cleaned, added, err := core.NewShareIngester(database.LocalStorage{}, nil).Ingest(args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(added) == 0 {
			fmt.Fprintln(out, "No shared rules found.")
			return nil
		}
		for _, r := range added {
			fmt.Fprintf(out, "Imported %s\n", r.DisplayTitle())
		}
		fmt.Fprintln(out, cleaned)
		return nil
	},
}

func init() {
	shareCmd.AddCommand(shareIngestCmd)
	rootCmd.AddCommand(shareCmd)
}
