package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"redirectly/database"
	"redirectly/models"

	"github.com/spf13/cobra"
)

var (
	matchesFilters models.MatchLogFilters
	matchesOutput  string
)

var matchesCmd = &cobra.Command{
	Use:   "matches",
	Short: "Show requests the proxy rewrote",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validateOutput(matchesOutput); err != nil {
			return err
		}
		filters := matchesFilters
		filters.Normalize()
		entries, total, err := database.GetMatchLogEntries(filters)
		if err != nil {
			return err
		}
		if matchesOutput != outputTable {
			return writeStructured(cmd.OutOrStdout(), matchesOutput, entries)
		}
		return printMatches(cmd.OutOrStdout(), entries, total)
	},
}

var matchesClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the whole match log",
	RunE: func(cmd *cobra.Command, args []string) error {
		deleted, err := database.ClearMatchLog()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d match log entries\n", deleted)
		return nil
	},
}

func printMatches(w io.Writer, entries []models.MatchLogEntry, total int64) error {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No matches recorded.")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tTAB\tDIRECTIVE\tACTION\tURL\tREDIRECT")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%s\n",
			e.Timestamp.Local().Format(time.DateTime), e.TabID, e.RuleID, e.Action, e.URL, e.RedirectURL)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "%d of %d matches\n", len(entries), total)
	return nil
}

func init() {
	matchesCmd.Flags().IntVar(&matchesFilters.Page, "page", 1, "Page number")
	matchesCmd.Flags().IntVarP(&matchesFilters.Limit, "limit", "n", 50, "Entries per page")
	matchesCmd.Flags().StringVar(&matchesFilters.SortOrder, "order", "desc", "Sort order: asc or desc")
	matchesCmd.Flags().StringVar(&matchesFilters.TabID, "tab", "", "Only matches from this tab")
	matchesCmd.Flags().IntVar(&matchesFilters.DirectiveID, "directive", 0, "Only matches of this directive id")
	matchesCmd.Flags().StringVar(&matchesFilters.Action, "action", "", "Only this action: redirect or modifyHeaders")
	matchesCmd.Flags().StringVar(&matchesFilters.SearchText, "search", "", "Substring of the request or redirect URL")
	matchesCmd.Flags().StringVarP(&matchesOutput, "output", "o", outputTable, "Output format: table, json or yaml")

	matchesCmd.AddCommand(matchesClearCmd)
	rootCmd.AddCommand(matchesCmd)
}
