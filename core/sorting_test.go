package core

import (
	"testing"

	"redirectly/models"

	"github.com/stretchr/testify/assert"
)

func titles(rules []models.Rule) []string {
	out := make([]string, len(rules))
	for i, r := range rules {
		out[i] = r.Title
	}
	return out
}

func TestSortRulesByName(t *testing.T) {
	rules := []models.Rule{
		{Title: "beta"},
		{Title: "Alpha"},
		{Title: ""},
		{Title: "alpha"},
		{Title: "Zulu"},
	}
	got := SortRules(rules, models.SortByName)
	assert.Equal(t, []string{"Alpha", "alpha", "beta", "", "Zulu"}, titles(got))
	// Input untouched.
	assert.Equal(t, []string{"beta", "Alpha", "", "alpha", "Zulu"}, titles(rules))
}

func TestSortRulesCreatedKeepsStoredOrder(t *testing.T) {
	rules := []models.Rule{{Title: "b"}, {Title: "a"}}
	assert.Equal(t, []string{"b", "a"}, titles(SortRules(rules, models.SortByCreated)))
	assert.Equal(t, []string{"b", "a"}, titles(SortRules(rules, "bogus")))
	assert.Empty(t, SortRules(nil, models.SortByName))
}

func TestSortedIndexes(t *testing.T) {
	rules := []models.Rule{{Title: "c"}, {Title: "a"}, {Title: "b"}}
	assert.Equal(t, []int{1, 2, 0}, SortedIndexes(rules, models.SortByName))
	assert.Equal(t, []int{0, 1, 2}, SortedIndexes(rules, models.SortByCreated))
}
