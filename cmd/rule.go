package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"redirectly/core"
	"redirectly/database"
	"redirectly/logger"
	"redirectly/models"

	"github.com/spf13/cobra"
)

var (
	ruleListSort   string
	ruleListOutput string

	ruleTitle    string
	ruleSource   string
	ruleTarget   string
	ruleCookie   string
	ruleType     string
	ruleDisabled bool
	ruleEnabled  bool

	ruleExportFile string
	ruleShareBase  string
)

var ruleCmd = &cobra.Command{
	Use:   "rule",
	Short: "Manage redirect and cookie rules",
	Long: `Add, edit and remove rules. Rules are addressed by their stored index as
shown in the INDEX column of 'rule list', regardless of the listing order.`,
}

var ruleListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all rules",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validateOutput(ruleListOutput); err != nil {
			return err
		}
		rules, err := database.GetRules()
		if err != nil {
			return fmt.Errorf("fetching rules: %w", err)
		}

		order := models.ParseSortOrder(ruleListSort)
		if ruleListSort == "" {
			if order, err = database.GetSortPreference(); err != nil {
				logger.Error("rule list: reading sort preference: %v", err)
				order = models.SortByCreated
			}
		}

		indexed := make([]models.IndexedRule, 0, len(rules))
		for _, idx := range core.SortedIndexes(rules, order) {
			indexed = append(indexed, models.IndexedRule{Index: idx, Rule: rules[idx]})
		}
		return printRules(cmd.OutOrStdout(), ruleListOutput, indexed)
	},
}

var ruleAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a rule (an empty add creates a blank enabled redirect rule)",
	Example: `  redirectly rule add --title "Local API" --source 'https://api.example.com/*' --target 'http://localhost:3000/*'
  redirectly rule add --type setCookie --source 'https://app.example.com/*' --cookie 'session=dev'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rule := models.NewBlankRule()
		rule = rulePatchFromFlags(cmd).Apply(rule)
		if !rule.Type.Valid() {
			return fmt.Errorf("unknown rule type %q (want redirect or setCookie)", rule.Type)
		}

		index, err := database.AddRule(rule)
		if err != nil {
			return fmt.Errorf("adding rule: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added rule %d: %s\n", index, rule.DisplayTitle())
		return nil
	},
}

var ruleEditCmd = &cobra.Command{
	Use:   "edit <index>",
	Short: "Change fields of a rule; only the flags given are applied",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := parseRuleIndex(args[0])
		if err != nil {
			return err
		}
		patch := rulePatchFromFlags(cmd)
		if patch.Type != nil && !patch.Type.Valid() {
			return fmt.Errorf("unknown rule type %q (want redirect or setCookie)", *patch.Type)
		}

		rule, err := database.PatchRule(index, patch)
		if err != nil {
			return fmt.Errorf("editing rule %d: %w", index, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Updated rule %d: %s\n", index, rule.DisplayTitle())
		return nil
	},
}

var ruleDeleteCmd = &cobra.Command{
	Use:     "delete <index>",
	Aliases: []string{"rm"},
	Short:   "Delete a rule",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := parseRuleIndex(args[0])
		if err != nil {
			return err
		}
		if err := database.DeleteRule(index); err != nil {
			return fmt.Errorf("deleting rule %d: %w", index, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted rule %d\n", index)
		return nil
	},
}

var ruleDuplicateCmd = &cobra.Command{
	Use:   "duplicate <index>",
	Short: "Insert a copy of a rule right after it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := parseRuleIndex(args[0])
		if err != nil {
			return err
		}
		copyIndex, err := database.DuplicateRule(index)
		if err != nil {
			return fmt.Errorf("duplicating rule %d: %w", index, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Duplicated rule %d as %d\n", index, copyIndex)
		return nil
	},
}

func ruleToggleCmd(use string, enabled bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <index>",
		Short: fmt.Sprintf("Turn a rule %s", onOff(enabled)),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseRuleIndex(args[0])
			if err != nil {
				return err
			}
			if _, err := database.PatchRule(index, models.RulePatch{Enabled: &enabled}); err != nil {
				return fmt.Errorf("updating rule %d: %w", index, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Rule %d is now %s\n", index, onOff(enabled))
			return nil
		},
	}
}

var ruleExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write all rules to a JSON file (use --file - for stdout)",
	RunE: func(cmd *cobra.Command, args []string) error {
		rules, err := database.GetRules()
		if err != nil {
			return fmt.Errorf("fetching rules: %w", err)
		}
		data, err := core.ExportRules(rules)
		if err != nil {
			return err
		}
		if ruleExportFile == "-" {
			_, err := cmd.OutOrStdout().Write(append(data, '\n'))
			return err
		}
		if err := os.WriteFile(ruleExportFile, data, 0644); err != nil {
			return fmt.Errorf("writing %s: %w", ruleExportFile, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d rules to %s\n", len(rules), ruleExportFile)
		return nil
	},
}

var ruleImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace all rules with the contents of an exported file (use - for stdin)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var data []byte
		var err error
		if args[0] == "-" {
			data, err = io.ReadAll(cmd.InOrStdin())
		} else {
			data, err = os.ReadFile(args[0])
		}
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}

		rules, err := core.ImportRules(data)
		if err != nil {
			return err
		}
		if err := database.SetRules(rules); err != nil {
			return fmt.Errorf("saving imported rules: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d rules\n", len(rules))
		return nil
	},
}

var ruleShareCmd = &cobra.Command{
	Use:   "share [index...]",
	Short: "Print a share link encoding the given rules (all rules when none given)",
	RunE: func(cmd *cobra.Command, args []string) error {
		rules, err := database.GetRules()
		if err != nil {
			return fmt.Errorf("fetching rules: %w", err)
		}
		selected := rules
		if len(args) > 0 {
			selected = make([]models.Rule, 0, len(args))
			for _, arg := range args {
				index, err := parseRuleIndex(arg)
				if err != nil {
					return err
				}
				if index >= len(rules) {
					return fmt.Errorf("rule %d: %w", index, database.ErrRuleNotFound)
				}
				selected = append(selected, rules[index])
			}
		}

		link, err := core.BuildShareLink(ruleShareBase, selected)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), link)
		return nil
	},
}

// rulePatchFromFlags turns the rule flags the user actually set into a patch.
func rulePatchFromFlags(cmd *cobra.Command) models.RulePatch {
	var patch models.RulePatch
	flags := cmd.Flags()
	if flags.Changed("title") {
		patch.Title = &ruleTitle
	}
	if flags.Changed("source") {
		patch.Source = &ruleSource
	}
	if flags.Changed("target") {
		patch.Target = &ruleTarget
	}
	if flags.Changed("cookie") {
		patch.CookieValue = &ruleCookie
	}
	if flags.Changed("type") {
		t := models.RuleType(ruleType)
		patch.Type = &t
	}
	if flags.Changed("disabled") {
		enabled := !ruleDisabled
		patch.Enabled = &enabled
	}
	if flags.Changed("enabled") {
		patch.Enabled = &ruleEnabled
	}
	return patch
}

func parseRuleIndex(arg string) (int, error) {
	index, err := strconv.Atoi(arg)
	if err != nil || index < 0 {
		return 0, fmt.Errorf("invalid rule index %q", arg)
	}
	return index, nil
}

func addRuleFieldFlags(c *cobra.Command) {
	c.Flags().StringVar(&ruleTitle, "title", "", "Rule title")
	c.Flags().StringVarP(&ruleSource, "source", "s", "", "Source URL pattern; '*' matches one or more characters")
	c.Flags().StringVarP(&ruleTarget, "target", "t", "", "Redirect target; each '*' is replaced by the matching source wildcard")
	c.Flags().StringVarP(&ruleCookie, "cookie", "c", "", "Cookie header value for setCookie rules")
	c.Flags().StringVar(&ruleType, "type", string(models.RuleTypeRedirect), "Rule type: redirect or setCookie")
	c.Flags().BoolVar(&ruleDisabled, "disabled", false, "Store the rule turned off")
}

func init() {
	ruleListCmd.Flags().StringVar(&ruleListSort, "sort", "", "Listing order: created or name (default: stored preference)")
	ruleListCmd.Flags().StringVarP(&ruleListOutput, "output", "o", outputTable, "Output format: table, json or yaml")

	addRuleFieldFlags(ruleAddCmd)
	addRuleFieldFlags(ruleEditCmd)
	ruleEditCmd.Flags().BoolVar(&ruleEnabled, "enabled", true, "Turn the rule on or off")

	ruleExportCmd.Flags().StringVarP(&ruleExportFile, "file", "f", core.ExportFileName, "Destination file")
	ruleShareCmd.Flags().StringVar(&ruleShareBase, "base", "https://example.com/", "Page the share link opens")

	ruleCmd.AddCommand(ruleListCmd, ruleAddCmd, ruleEditCmd, ruleDeleteCmd, ruleDuplicateCmd,
		ruleToggleCmd("enable", true), ruleToggleCmd("disable", false),
		ruleExportCmd, ruleImportCmd, ruleShareCmd)
	rootCmd.AddCommand(ruleCmd)
}
