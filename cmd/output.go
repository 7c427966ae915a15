package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"redirectly/models"

	"gopkg.in/yaml.v3"
)

// Output formats accepted by --output.
const (
	outputTable = "table"
	outputJSON  = "json"
	outputYAML  = "yaml"
)

func validateOutput(format string) error {
	switch format {
	case outputTable, outputJSON, outputYAML:
		return nil
	}
	return fmt.Errorf("unknown output format %q (want table, json or yaml)", format)
}

// writeStructured renders v as JSON or YAML.
func writeStructured(w io.Writer, format string, v interface{}) error {
	switch format {
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
}

func printRules(w io.Writer, format string, rules []models.IndexedRule) error {
	if format != outputTable {
		return writeStructured(w, format, rules)
	}
	if len(rules) == 0 {
		fmt.Fprintln(w, "No rules stored.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "INDEX\tON\tTYPE\tTITLE\tSOURCE\tTARGET / COOKIE")
	for _, r := range rules {
		action := r.Target
		if r.Type == models.RuleTypeSetCookie {
			action = r.CookieValue
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", r.Index, onOff(r.Enabled), r.Type, r.DisplayTitle(), r.Source, action)
	}
	return tw.Flush()
}

func printStatus(w io.Writer, format string, status models.StatusResponse) error {
	if format != outputTable {
		return writeStructured(w, format, status)
	}
	fmt.Fprintf(w, "Rules:     %s enabled\n", status.Summary)
	fmt.Fprintf(w, "Global:    %s\n", onOff(status.GlobalEnabled))
	fmt.Fprintf(w, "Icon:      %s\n", status.Icon)
	fmt.Fprintf(w, "Compiled:  %d directives\n", status.Installed)
	return nil
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
