package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"redirectly/models"

	"github.com/tidwall/gjson"
)

// ExportFileName is the suggested name of an exported rule file.
const ExportFileName = "redirect-rules.json"

// ErrInvalidImport is returned (wrapped) for payloads that are not a JSON
// array of rules.
var ErrInvalidImport = errors.New("invalid rules file")

// ExportRules encodes rules as a JSON array indented with two spaces.
func ExportRules(rules []models.Rule) ([]byte, error) {
	if rules == nil {
		rules = []models.Rule{}
	}
	data, err := json.MarshalIndent(rules, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding rules: %w", err)
	}
	return data, nil
}

// ImportRules decodes an exported rule file. Every array element becomes a
// rule: missing or falsy fields become "" (false for enabled, "redirect" for
// type) and enabled follows JavaScript truthiness. Anything but a JSON array
// fails with ErrInvalidImport.
func ImportRules(data []byte) ([]models.Rule, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: error parsing JSON", ErrInvalidImport)
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsArray() {
		return nil, fmt.Errorf("%w: expected a JSON array of rules", ErrInvalidImport)
	}

	rules := []models.Rule{}
	doc.ForEach(func(_, el gjson.Result) bool {
		ruleType := models.RuleType(stringOr(el.Get("type"), ""))
		if ruleType == "" {
			ruleType = models.RuleTypeRedirect
		}
		rules = append(rules, models.Rule{
			Title:       stringOr(el.Get("title"), ""),
			Source:      stringOr(el.Get("source"), ""),
			Target:      stringOr(el.Get("target"), ""),
			CookieValue: stringOr(el.Get("cookieValue"), ""),
			Enabled:     truthy(el.Get("enabled")),
			Type:        ruleType,
		})
		return true
	})
	return rules, nil
}

// stringOr returns the string form of a truthy value, def otherwise.
func stringOr(v gjson.Result, def string) string {
	if !truthy(v) {
		return def
	}
	if v.Type == gjson.JSON {
		return v.Raw
	}
	return v.String()
}

func truthy(v gjson.Result) bool {
	switch v.Type {
	case gjson.True, gjson.JSON:
		return true
	case gjson.String:
		return v.Str != ""
	case gjson.Number:
		return v.Num != 0 && !math.IsNaN(v.Num)
	default:
		return false
	}
}
