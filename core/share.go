package core

import (
	"fmt"
	"net/url"
	"strings"

	"redirectly/logger"
	"redirectly/models"
)

// Share link query parameters.
const (
	ShareRedirectParam  = "redirect"
	ShareSetCookieParam = "setcookie"
	shareTargetParam    = "to"
)

// HasShareParams reports whether u carries redirect or setcookie parameters.
func HasShareParams(u *url.URL) bool {
	for _, pair := range splitQuery(u.RawQuery) {
		if _, ok := shareKey(pair); ok {
			return true
		}
	}
	return false
}

// ParseShareLink extracts the rules encoded in rawURL and returns them with
// the URL stripped of the consumed parameters. Each redirect/setcookie value
// has the form "<source>?to=<target or cookie>"; values with an empty "to" are
// ignored but still removed. When no rule is found the URL is returned as is.
func ParseShareLink(rawURL string) ([]models.Rule, string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, rawURL, fmt.Errorf("parsing share link: %w", err)
	}

	var rules []models.Rule
	var kept []string
	for _, pair := range splitQuery(u.RawQuery) {
		key, ok := shareKey(pair)
		if !ok {
			kept = append(kept, pair)
			continue
		}
		_, rawValue, _ := strings.Cut(pair, "=")
		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			return nil, rawURL, fmt.Errorf("decoding %s parameter: %w", key, err)
		}
		if rule, ok := shareRule(key, value); ok {
			rules = append(rules, rule)
		}
	}

	if len(rules) == 0 {
		return nil, rawURL, nil
	}
	u.RawQuery = strings.Join(kept, "&")
	u.ForceQuery = false
	return rules, u.String(), nil
}

func splitQuery(rawQuery string) []string {
	if rawQuery == "" {
		return nil
	}
	return strings.Split(rawQuery, "&")
}

// shareKey returns the decoded parameter name of pair if it is a share
// parameter.
func shareKey(pair string) (string, bool) {
	rawKey, _, _ := strings.Cut(pair, "=")
	key, err := url.QueryUnescape(rawKey)
	if err != nil {
		return "", false
	}
	if key == ShareRedirectParam || key == ShareSetCookieParam {
		return key, true
	}
	return "", false
}

func shareRule(key, value string) (models.Rule, bool) {
	source, rest, _ := strings.Cut(value, "?")
	inner, err := url.ParseQuery(rest)
	if err != nil {
		logger.Debug("ParseShareLink: partially malformed %s value %q: %v", key, value, err)
	}
	to := inner.Get(shareTargetParam)
	if to == "" {
		return models.Rule{}, false
	}

	if key == ShareRedirectParam {
		return models.Rule{
			Title:   "Shared redirect: " + source,
			Type:    models.RuleTypeRedirect,
			Source:  source,
			Target:  to,
			Enabled: true,
		}, true
	}
	return models.Rule{
		Title:       "Shared cookie: " + source,
		Type:        models.RuleTypeSetCookie,
		Source:      source,
		CookieValue: to,
		Enabled:     true,
	}, true
}

// MergeRules drops existing rules that share a source with any incoming rule
// and appends the incoming rules.
func MergeRules(existing, incoming []models.Rule) []models.Rule {
	sources := make(map[string]bool, len(incoming))
	for _, r := range incoming {
		sources[r.Source] = true
	}
	merged := make([]models.Rule, 0, len(existing)+len(incoming))
	for _, r := range existing {
		if !sources[r.Source] {
			merged = append(merged, r)
		}
	}
	return append(merged, incoming...)
}

// BuildShareLink appends one share parameter per rule to base. Rules of
// unknown type are skipped.
func BuildShareLink(base string, rules []models.Rule) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parsing base URL: %w", err)
	}
	pairs := splitQuery(u.RawQuery)
	for _, r := range rules {
		var key, to string
		switch r.Type {
		case models.RuleTypeRedirect:
			key, to = ShareRedirectParam, r.Target
		case models.RuleTypeSetCookie:
			key, to = ShareSetCookieParam, r.CookieValue
		default:
			continue
		}
		inner := url.Values{shareTargetParam: {to}}.Encode()
		pairs = append(pairs, key+"="+url.QueryEscape(r.Source+"?"+inner))
	}
	u.RawQuery = strings.Join(pairs, "&")
	return u.String(), nil
}

// ShareIngester imports share-link rules into storage.
type ShareIngester struct {
	store   Storage
	metrics *Metrics
}

// NewShareIngester returns an ingester writing to store. metrics may be nil.
func NewShareIngester(store Storage, metrics *Metrics) *ShareIngester {
	return &ShareIngester{store: store, metrics: metrics}
}

// Ingest merges the rules encoded in rawURL into the stored list and returns
// the cleaned URL the tab should navigate to. A malformed link is logged and
// leaves both the stored rules and the URL untouched.
func (s *ShareIngester) Ingest(rawURL string) (string, []models.Rule, error) {
	rules, cleaned, err := ParseShareLink(rawURL)
	if err != nil {
		logger.Warn("ShareIngester: ignoring share link: %v", err)
		return rawURL, nil, nil
	}
	if len(rules) == 0 {
		return rawURL, nil, nil
	}

	existing, err := s.store.Rules()
	if err != nil {
		return rawURL, nil, fmt.Errorf("loading rules: %w", err)
	}
	if err := s.store.SetRules(MergeRules(existing, rules)); err != nil {
		return rawURL, nil, fmt.Errorf("saving shared rules: %w", err)
	}
	if s.metrics != nil {
		s.metrics.SharedRulesImported.Add(float64(len(rules)))
	}
	logger.Info("ShareIngester: imported %d shared rules", len(rules))
	return cleaned, rules, nil
}
