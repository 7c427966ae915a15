package core

import (
	"errors"
	"testing"

	"redirectly/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func redirectDirective(id int, regex, substitution string) models.Directive {
	return models.Directive{
		ID:       id,
		Priority: 1,
		Action:   models.Action{Type: models.ActionRedirect, Redirect: &models.Redirect{RegexSubstitution: substitution}},
		Condition: models.Condition{
			RegexFilter:   regex,
			ResourceTypes: models.AllResourceTypes,
		},
	}
}

func TestEngineEvaluateRedirect(t *testing.T) {
	e := NewEngine(nil)
	add := BuildDirectives([]models.Rule{
		redirectRule("api", "https://*.old.com/*", "https://new.com/*/*", true),
	}, true)
	require.NoError(t, e.UpdateDynamicRules(nil, add))

	m, ok := e.Evaluate(Request{URL: "https://shop.old.com/cart?id=7", Type: models.ResourceXMLHTTPRequest})
	require.True(t, ok)
	assert.Equal(t, 1, m.Directive.ID)
	assert.Equal(t, "https://new.com/shop/cart?id=7", m.RedirectURL)

	_, ok = e.Evaluate(Request{URL: "https://old.com/", Type: models.ResourceXMLHTTPRequest})
	assert.False(t, ok)
}

func TestEngineMatchesCaseInsensitively(t *testing.T) {
	e := NewEngine(nil)
	require.NoError(t, e.UpdateDynamicRules(nil, BuildDirectives([]models.Rule{
		redirectRule("a", "https://A.com/*", "https://b.com/*", true),
	}, true)))

	m, ok := e.Evaluate(Request{URL: "HTTPS://a.COM/Path", Type: models.ResourceMainFrame})
	require.True(t, ok)
	assert.Equal(t, "https://b.com/Path", m.RedirectURL)
}

func TestEngineLowestIDWinsAcrossPrefixes(t *testing.T) {
	e := NewEngine(nil)
	require.NoError(t, e.UpdateDynamicRules(nil, []models.Directive{
		redirectDirective(2, `^https://a\.com/api/(.+)$`, `https://specific/\1`),
		redirectDirective(1, `^https://a\.com/(.+)$`, `https://general/\1`),
		redirectDirective(3, `^(.+)$`, `https://anything/`),
	}))

	m, ok := e.Evaluate(Request{URL: "https://a.com/api/x", Type: models.ResourceOther})
	require.True(t, ok)
	assert.Equal(t, 1, m.Directive.ID)
	assert.Equal(t, "https://general/api/x", m.RedirectURL)

	m, ok = e.Evaluate(Request{URL: "https://z.com/", Type: models.ResourceOther})
	require.True(t, ok)
	assert.Equal(t, 3, m.Directive.ID)
}

func TestEngineHigherPriorityWins(t *testing.T) {
	e := NewEngine(nil)
	low := redirectDirective(1, `^https://a\.com/(.+)$`, `https://low/`)
	high := redirectDirective(2, `^https://a\.com/(.+)$`, `https://high/`)
	high.Priority = 5
	require.NoError(t, e.UpdateDynamicRules(nil, []models.Directive{low, high}))

	m, ok := e.Evaluate(Request{URL: "https://a.com/x"})
	require.True(t, ok)
	assert.Equal(t, 2, m.Directive.ID)
}

func TestEngineResourceTypeFilter(t *testing.T) {
	e := NewEngine(nil)
	d := redirectDirective(1, `^https://a\.com/(.+)$`, `https://b/`)
	d.Condition.ResourceTypes = []models.ResourceType{models.ResourceScript}
	require.NoError(t, e.UpdateDynamicRules(nil, []models.Directive{d}))

	_, ok := e.Evaluate(Request{URL: "https://a.com/x", Type: models.ResourceImage})
	assert.False(t, ok)
	_, ok = e.Evaluate(Request{URL: "https://a.com/x", Type: models.ResourceScript})
	assert.True(t, ok)
}

func TestEngineRejectsInvalidBatchAtomically(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	e := NewEngine(metrics)

	good := redirectDirective(1, `^a$`, `b`)
	require.NoError(t, e.UpdateDynamicRules(nil, []models.Directive{good}))

	tests := []struct {
		name   string
		remove []int
		add    []models.Directive
	}{
		{"invalid regex", []int{1}, []models.Directive{redirectDirective(2, `^(unclosed$`, `x`)}},
		{"duplicate id", nil, []models.Directive{redirectDirective(1, `^c$`, `d`)}},
		{"zero id", []int{1}, []models.Directive{redirectDirective(0, `^c$`, `d`)}},
		{"redirect without details", []int{1}, []models.Directive{{ID: 4, Action: models.Action{Type: models.ActionRedirect}}}},
		{"headers without entries", []int{1}, []models.Directive{{ID: 5, Action: models.Action{Type: models.ActionModifyHeaders}}}},
		{"unknown action", []int{1}, []models.Directive{{ID: 6, Action: models.Action{Type: "block"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := e.UpdateDynamicRules(tt.remove, tt.add)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrBatchRejected))
			assert.Equal(t, []models.Directive{good}, e.GetDynamicRules())
		})
	}

	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.DirectiveUpdates.WithLabelValues("applied")))
	assert.Equal(t, float64(len(tests)), testutil.ToFloat64(metrics.DirectiveUpdates.WithLabelValues("rejected")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.InstalledDirectives))
}

func TestEngineRemoveAndAdd(t *testing.T) {
	e := NewEngine(nil)
	require.NoError(t, e.UpdateDynamicRules(nil, []models.Directive{
		redirectDirective(1, `^a$`, `x`),
		redirectDirective(2, `^b$`, `y`),
	}))
	require.NoError(t, e.UpdateDynamicRules([]int{1, 2, 99}, []models.Directive{redirectDirective(1, `^c$`, `z`)}))

	got := e.GetDynamicRules()
	require.Len(t, got, 1)
	assert.Equal(t, `^c$`, got[0].Condition.RegexFilter)
}

func TestEngineReportsMatches(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	e := NewEngine(metrics)
	require.NoError(t, e.UpdateDynamicRules(nil, BuildDirectives([]models.Rule{
		cookieRule("c", "https://c.com/*", "sid=1", true),
	}, true)))

	var got []models.MatchInfo
	e.OnRuleMatched(func(info models.MatchInfo) { got = append(got, info) })

	m, ok := e.Evaluate(Request{URL: "https://c.com/x", Type: models.ResourceImage, TabID: "7", RequestID: "r1"})
	require.True(t, ok)
	assert.Empty(t, m.RedirectURL)

	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].RuleID)
	assert.Equal(t, "7", got[0].TabID)
	assert.Equal(t, "r1", got[0].RequestID)
	assert.Equal(t, models.ResourceImage, got[0].Type)
	assert.False(t, got[0].Timestamp.IsZero())
	assert.Equal(t, models.ActionModifyHeaders, got[0].Action)
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.RuleMatches.WithLabelValues("modifyHeaders")))
}

func TestLiteralPrefix(t *testing.T) {
	tests := []struct {
		regex, want string
	}{
		{`^https://a\.com/(.+)$`, "https://a.com/"},
		{`^HTTPS://A\.com/x$`, "https://a.com/x"},
		{`^(.+)\.example\.com$`, ""},
		{`^$`, ""},
		{`https://a\.com/`, ""},
		{`^(unclosed`, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, literalPrefix(tt.regex), tt.regex)
	}
}
