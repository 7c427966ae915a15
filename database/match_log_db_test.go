package database

import (
	"fmt"
	"testing"
	"time"

	"redirectly/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func logMatches(t *testing.T, n int) {
	t.Helper()
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	for i := 0; i < n; i++ {
		info := models.MatchInfo{
			RuleID:    1 + i%2,
			TabID:     fmt.Sprintf("tab-%d", i%3),
			URL:       fmt.Sprintf("https://a.com/p/%d", i),
			Type:      models.ResourceMainFrame,
			RequestID: fmt.Sprintf("req-%d", i),
			Timestamp: base.Add(time.Duration(i) * time.Second),
			Action:    models.ActionRedirect,
		}
		if i%2 == 1 {
			info.Action = models.ActionModifyHeaders
		} else {
			info.RedirectURL = fmt.Sprintf("https://b.com/p/%d", i)
		}
		_, err := LogRuleMatch(info)
		require.NoError(t, err)
	}
}

func TestMatchLogPagingAndFilters(t *testing.T) {
	setupDB(t)
	logMatches(t, 7)

	entries, total, err := GetMatchLogEntries(models.MatchLogFilters{Limit: 3})
	require.NoError(t, err)
	assert.Equal(t, int64(7), total)
	require.Len(t, entries, 3)
	assert.Equal(t, "req-6", entries[0].RequestID)
	assert.Equal(t, models.ActionRedirect, entries[0].Action)
	assert.Equal(t, "https://b.com/p/6", entries[0].RedirectURL)
	assert.Equal(t, time.Date(2026, 1, 2, 3, 4, 11, 0, time.UTC), entries[0].Timestamp.UTC())

	entries, _, err = GetMatchLogEntries(models.MatchLogFilters{Limit: 3, Page: 3})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "req-0", entries[0].RequestID)

	entries, total, err = GetMatchLogEntries(models.MatchLogFilters{SortOrder: "asc", TabID: "tab-1"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, "req-1", entries[0].RequestID)
	assert.Equal(t, "req-4", entries[1].RequestID)

	_, total, err = GetMatchLogEntries(models.MatchLogFilters{Action: string(models.ActionModifyHeaders)})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)

	_, total, err = GetMatchLogEntries(models.MatchLogFilters{DirectiveID: 1, SearchText: "B.COM"})
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
}

func TestMatchLogPruneAndClear(t *testing.T) {
	setupDB(t)
	logMatches(t, 5)

	removed, err := PruneMatchLog(2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), removed)

	entries, total, err := GetMatchLogEntries(models.MatchLogFilters{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, "req-4", entries[0].RequestID)

	deleted, err := ClearMatchLog()
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	entries, total, err = GetMatchLogEntries(models.MatchLogFilters{})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.NotNil(t, entries)
}
