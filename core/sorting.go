package core

import (
	"sort"
	"strings"

	"redirectly/models"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortRules returns rules in display order. SortByName orders by lower-cased
// display title using locale collation and keeps ties in stored order; any
// other order returns the stored order. The input is never modified.
func SortRules(rules []models.Rule, order models.SortOrder) []models.Rule {
	out := make([]models.Rule, len(rules))
	copy(out, rules)
	if order != models.SortByName {
		return out
	}

	col := collate.New(language.Und)
	keys := make([]string, len(out))
	for i, r := range out {
		keys[i] = strings.ToLower(r.DisplayTitle())
	}
	sort.Stable(byTitle{rules: out, keys: keys, col: col})
	return out
}

type byTitle struct {
	rules []models.Rule
	keys  []string
	col   *collate.Collator
}

func (s byTitle) Len() int { return len(s.rules) }
func (s byTitle) Less(i, j int) bool {
	return s.col.CompareString(s.keys[i], s.keys[j]) < 0
}
func (s byTitle) Swap(i, j int) {
	s.rules[i], s.rules[j] = s.rules[j], s.rules[i]
	s.keys[i], s.keys[j] = s.keys[j], s.keys[i]
}

// SortedIndexes returns, for each position of SortRules(rules, order), the
// index of that rule in the stored list. Edits made from a sorted listing use
// it to address the stored rule.
func SortedIndexes(rules []models.Rule, order models.SortOrder) []int {
	idx := make([]int, len(rules))
	for i := range idx {
		idx[i] = i
	}
	if order != models.SortByName {
		return idx
	}
	col := collate.New(language.Und)
	sort.SliceStable(idx, func(a, b int) bool {
		ka := strings.ToLower(rules[idx[a]].DisplayTitle())
		kb := strings.ToLower(rules[idx[b]].DisplayTitle())
		return col.CompareString(ka, kb) < 0
	})
	return idx
}
