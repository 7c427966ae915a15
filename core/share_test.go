package core

import (
	"errors"
	"net/url"
	"testing"

	"redirectly/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseShareLinkRedirect(t *testing.T) {
	rules, cleaned, err := ParseShareLink("https://example.org/page?redirect=%2Fapi%2F*?to=https%3A%2F%2Fexample.com%2F*")
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, models.Rule{
		Title:   "Shared redirect: /api/*",
		Type:    models.RuleTypeRedirect,
		Source:  "/api/*",
		Target:  "https://example.com/*",
		Enabled: true,
	}, rules[0])
	assert.Equal(t, "https://example.org/page", cleaned)
}

func TestParseShareLinkKeepsOtherParams(t *testing.T) {
	raw := "https://example.org/p?a=1&setcookie=https%3A%2F%2Fc.com%2F*%3Fto%3Dsid%253D42&b=x%20y&redirect=nope#frag"
	rules, cleaned, err := ParseShareLink(raw)
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, models.RuleTypeSetCookie, rules[0].Type)
	assert.Equal(t, "https://c.com/*", rules[0].Source)
	assert.Equal(t, "sid=42", rules[0].CookieValue)
	assert.Equal(t, "Shared cookie: https://c.com/*", rules[0].Title)
	// The entry without "to" is dropped but its parameter is still consumed.
	assert.Equal(t, "https://example.org/p?a=1&b=x%20y#frag", cleaned)
}

func TestParseShareLinkWithoutShareParams(t *testing.T) {
	raw := "https://example.org/p?a=1&b=2"
	rules, cleaned, err := ParseShareLink(raw)
	require.NoError(t, err)
	assert.Empty(t, rules)
	assert.Equal(t, raw, cleaned)

	rules, cleaned, err = ParseShareLink("https://example.org/p?redirect=%2Fonly-source")
	require.NoError(t, err)
	assert.Empty(t, rules)
	assert.Equal(t, "https://example.org/p?redirect=%2Fonly-source", cleaned)
}

func TestParseShareLinkSkipsEmptyTarget(t *testing.T) {
	for _, raw := range []string{
		"https://example.org/p?redirect=%2Fapi%2F*%3Fto%3D",
		"https://example.org/p?redirect=%2Fapi%2F*?to=",
		"https://example.org/p?setcookie=https%3A%2F%2Fa.com%2F*%3Fto%3D",
	} {
		rules, _, err := ParseShareLink(raw)
		require.NoError(t, err, raw)
		assert.Empty(t, rules, raw)
	}

	rules, _, err := ParseShareLink("https://example.org/p?redirect=%2Fa%2F*%3Fto%3D&redirect=%2Fb%2F*%3Fto%3Dhttps%253A%252F%252Fb.com%252F*")
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, "/b/*", rules[0].Source)
	assert.Equal(t, "https://b.com/*", rules[0].Target)
}

func TestParseShareLinkMalformed(t *testing.T) {
	raw := "https://example.org/p?redirect=%zz"
	_, cleaned, err := ParseShareLink(raw)
	assert.Error(t, err)
	assert.Equal(t, raw, cleaned)
}

func TestHasShareParams(t *testing.T) {
	u, _ := url.Parse("https://x/?a=1&setcookie=y")
	assert.True(t, HasShareParams(u))
	u, _ = url.Parse("https://x/?redirects=1")
	assert.False(t, HasShareParams(u))
}

func TestMergeRulesReplacesSameSource(t *testing.T) {
	existing := []models.Rule{
		redirectRule("keep", "https://keep/*", "x", true),
		redirectRule("old", "/api/*", "https://old/*", false),
	}
	incoming := []models.Rule{redirectRule("new", "/api/*", "https://new/*", true)}

	merged := MergeRules(existing, incoming)
	require.Len(t, merged, 2)
	assert.Equal(t, "keep", merged[0].Title)
	assert.Equal(t, "new", merged[1].Title)
	assert.Len(t, existing, 2)
}

func TestBuildShareLinkRoundTrip(t *testing.T) {
	rules := []models.Rule{
		redirectRule("r", "https://a.com/*", "https://b.com/*?q=1&x=%41", true),
		cookieRule("c", "https://c.com/*", "sid=1; theme=dark", true),
	}
	link, err := BuildShareLink("https://example.org/start?keep=1", rules)
	require.NoError(t, err)

	parsed, cleaned, err := ParseShareLink(link)
	require.NoError(t, err)
	assert.Equal(t, "https://example.org/start?keep=1", cleaned)
	require.Len(t, parsed, 2)
	assert.Equal(t, rules[0].Source, parsed[0].Source)
	assert.Equal(t, rules[0].Target, parsed[0].Target)
	assert.Equal(t, rules[1].CookieValue, parsed[1].CookieValue)
}

func TestShareIngesterMergesAndStores(t *testing.T) {
	store := newMemStore(redirectRule("old", "/api/*", "https://old/*", true))
	metrics := NewMetrics(prometheus.NewRegistry())
	ing := NewShareIngester(store, metrics)

	cleaned, added, err := ing.Ingest("https://example.org/?x=1&redirect=%2Fapi%2F*?to=https%3A%2F%2Fexample.com%2F*")
	require.NoError(t, err)
	assert.Equal(t, "https://example.org/?x=1", cleaned)
	require.Len(t, added, 1)

	stored, _ := store.Rules()
	require.Len(t, stored, 1)
	assert.Equal(t, "https://example.com/*", stored[0].Target)
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.SharedRulesImported))
}

func TestShareIngesterLeavesStateOnMalformedLink(t *testing.T) {
	store := newMemStore(redirectRule("old", "/api/*", "https://old/*", true))
	ing := NewShareIngester(store, nil)

	raw := "https://example.org/?redirect=%zz"
	cleaned, added, err := ing.Ingest(raw)
	require.NoError(t, err)
	assert.Equal(t, raw, cleaned)
	assert.Empty(t, added)
	stored, _ := store.Rules()
	assert.Equal(t, "https://old/*", stored[0].Target)
}

func TestShareIngesterStoreFailure(t *testing.T) {
	store := newMemStore()
	store.failSet = errors.New("disk full")
	ing := NewShareIngester(store, nil)

	raw := "https://example.org/?redirect=%2Fa?to=b"
	cleaned, _, err := ing.Ingest(raw)
	assert.Error(t, err)
	assert.Equal(t, raw, cleaned)
}
