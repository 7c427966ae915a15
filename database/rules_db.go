package database

import (
	"errors"
	"fmt"

	"redirectly/logger"
	"redirectly/models"
)

// ErrRuleNotFound is returned when a rule index is outside the stored list.
var ErrRuleNotFound = errors.New("rule not found")

// GetRules returns the stored rules in creation order.
func GetRules() ([]models.Rule, error) {
	rows, err := DB.Query(`SELECT title, type, source, target, cookie_value, enabled
	                       FROM rules ORDER BY position ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying rules: %w", err)
	}
	defer rows.Close()

	rules := []models.Rule{}
	for rows.Next() {
		var r models.Rule
		var ruleType string
		if err := rows.Scan(&r.Title, &ruleType, &r.Source, &r.Target, &r.CookieValue, &r.Enabled); err != nil {
			return nil, fmt.Errorf("scanning rule row: %w", err)
		}
		r.Type = models.RuleType(ruleType)
		rules = append(rules, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rule rows: %w", err)
	}
	return rules, nil
}

// SetRules replaces the whole stored list in one transaction and notifies
// subscribers.
func SetRules(rules []models.Rule) error {
	if err := writeRules(rules); err != nil {
		return err
	}
	publishKey(models.RulesKey, cloneRules(rules))
	return nil
}

func writeRules(rules []models.Rule) error {
	tx, err := DB.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM rules"); err != nil {
		return fmt.Errorf("clearing rules: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO rules (position, title, type, source, target, cookie_value, enabled)
	                         VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert rule statement: %w", err)
	}
	defer stmt.Close()

	for i, r := range rules {
		if _, err := stmt.Exec(i, r.Title, string(r.Type), r.Source, r.Target, r.CookieValue, r.Enabled); err != nil {
			return fmt.Errorf("inserting rule %d (source '%s'): %w", i, r.Source, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing rules: %w", err)
	}
	logger.Debug("SetRules: stored %d rules", len(rules))
	return nil
}

// UpdateRules runs a read-modify-write over the stored list. fn receives a
// copy it may mutate freely.
func UpdateRules(fn func([]models.Rule) ([]models.Rule, error)) ([]models.Rule, error) {
	current, err := GetRules()
	if err != nil {
		return nil, err
	}
	updated, err := fn(cloneRules(current))
	if err != nil {
		return nil, err
	}
	if err := SetRules(updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// GetRule returns the rule at index.
func GetRule(index int) (models.Rule, error) {
	rules, err := GetRules()
	if err != nil {
		return models.Rule{}, err
	}
	if index < 0 || index >= len(rules) {
		return models.Rule{}, fmt.Errorf("rule at index %d: %w", index, ErrRuleNotFound)
	}
	return rules[index], nil
}

// AddRule appends r and returns its index.
func AddRule(r models.Rule) (int, error) {
	var index int
	_, err := UpdateRules(func(rules []models.Rule) ([]models.Rule, error) {
		index = len(rules)
		return append(rules, r), nil
	})
	return index, err
}

// ReplaceRule overwrites the rule at index.
func ReplaceRule(index int, r models.Rule) error {
	_, err := UpdateRules(func(rules []models.Rule) ([]models.Rule, error) {
		if index < 0 || index >= len(rules) {
			return nil, fmt.Errorf("rule at index %d: %w", index, ErrRuleNotFound)
		}
		rules[index] = r
		return rules, nil
	})
	return err
}

// PatchRule applies a field-level edit to the rule at index.
func PatchRule(index int, patch models.RulePatch) (models.Rule, error) {
	var patched models.Rule
	_, err := UpdateRules(func(rules []models.Rule) ([]models.Rule, error) {
		if index < 0 || index >= len(rules) {
			return nil, fmt.Errorf("rule at index %d: %w", index, ErrRuleNotFound)
		}
		patched = patch.Apply(rules[index])
		rules[index] = patched
		return rules, nil
	})
	return patched, err
}

// DeleteRule removes the rule at index.
func DeleteRule(index int) error {
	_, err := UpdateRules(func(rules []models.Rule) ([]models.Rule, error) {
		if index < 0 || index >= len(rules) {
			return nil, fmt.Errorf("rule at index %d: %w", index, ErrRuleNotFound)
		}
		return append(rules[:index], rules[index+1:]...), nil
	})
	return err
}

// DuplicateRule inserts a copy of the rule at index directly after it and
// returns the copy's index.
func DuplicateRule(index int) (int, error) {
	_, err := UpdateRules(func(rules []models.Rule) ([]models.Rule, error) {
		if index < 0 || index >= len(rules) {
			return nil, fmt.Errorf("rule at index %d: %w", index, ErrRuleNotFound)
		}
		dup := rules[index]
		if dup.Title != "" {
			dup.Title += " (copy)"
		}
		out := make([]models.Rule, 0, len(rules)+1)
		out = append(out, rules[:index+1]...)
		out = append(out, dup)
		return append(out, rules[index+1:]...), nil
	})
	return index + 1, err
}

func cloneRules(rules []models.Rule) []models.Rule {
	out := make([]models.Rule, len(rules))
	copy(out, rules)
	return out
}
