package core

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWildcardRuleToDNRExample(t *testing.T) {
	regex, sub := WildcardRuleToDNR("https://a.com/*", "https://b.com/*")
	assert.Equal(t, `^https://a\.com/(.+)$`, regex)
	assert.Equal(t, `https://b.com/\1`, sub)
}

func TestWildcardRuleToDNRBackReferencesInOrder(t *testing.T) {
	regex, sub := WildcardRuleToDNR("https://*.example.com/*", "https://*.test/*/x")
	assert.Equal(t, `^https://(.+)\.example\.com/(.+)$`, regex)
	assert.Equal(t, `https://\1.test/\2/x`, sub)
}

func TestWildcardRuleToDNREdgeCases(t *testing.T) {
	tests := []struct {
		name, source, target string
		wantRegex, wantSub   string
	}{
		{"empty source", "", "", `^$`, ""},
		{"no wildcard", "http://x.com/a?b=c", "http://y.com/", `^http://x\.com/a\?b=c$`, "http://y.com/"},
		{"metacharacters", "a+b(c)[d]{e}|f^g$h.i", "t", `^a\+b\(c\)\[d\]\{e\}\|f\^g\$h\.i$`, "t"},
		{"only star", "*", "*", `^(.+)$`, `\1`},
		{"adjacent stars", "**", "*-*", `^(.+)(.+)$`, `\1-\2`},
		{"extra target stars are literal", "https://a.com/*", "https://b.com/*/*", `^https://a\.com/(.+)$`, `https://b.com/\1/*`},
		{"target without source groups", "https://a.com/", "https://b.com/*", `^https://a\.com/$`, `https://b.com/*`},
		{"backslash in target", "x/*", `c:\dir\*`, `^x/(.+)$`, `c:\\dir\\\1`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			regex, sub := WildcardRuleToDNR(tt.source, tt.target)
			assert.Equal(t, tt.wantRegex, regex)
			assert.Equal(t, tt.wantSub, sub)
		})
	}
}

func TestWildcardRuleToDNRCapsAtNineGroups(t *testing.T) {
	_, sub := WildcardRuleToDNR("**********", "**********")
	assert.Equal(t, `\1\2\3\4\5\6\7\8\9*`, sub)
}

func TestCompiledPatternMatchesGlob(t *testing.T) {
	tests := []struct {
		source  string
		input   string
		matches bool
	}{
		{"https://a.com/*", "https://a.com/x", true},
		{"https://a.com/*", "https://a.com/x/y?z=1", true},
		{"https://a.com/*", "https://a.com/", false}, // '*' needs at least one character
		{"https://a.com/*", "xhttps://a.com/x", false},
		{"https://a.com/*", "https://aXcom/x", false}, // '.' is literal
		{"*.example.com", "api.example.com", true},
		{"*.example.com", "api.example.com.evil", false},
		{"/api/*", "/api/v1", true},
		{"", "", true},
		{"", "x", false},
	}
	for _, tt := range tests {
		regex, _ := WildcardRuleToDNR(tt.source, tt.source)
		re, err := regexp.Compile(regex)
		require.NoError(t, err, regex)
		assert.Equal(t, tt.matches, re.MatchString(tt.input), "%q against %q", tt.source, tt.input)
	}
}

func TestCompiledPatternAlwaysValid(t *testing.T) {
	sources := []string{`\`, `(`, `[`, `*(*`, `a\*b`, "\x00*", "ü*ß", `$1*`}
	for _, s := range sources {
		regex, _ := WildcardRuleToDNR(s, s)
		_, err := regexp.Compile(regex)
		assert.NoError(t, err, "source %q produced %q", s, regex)
	}
}

func TestExpandSubstitution(t *testing.T) {
	re := regexp.MustCompile(`^https://(.+)\.a\.com/(.+)$`)
	m := re.FindStringSubmatch("https://api.a.com/v1/users")
	require.NotNil(t, m)

	assert.Equal(t, "https://b.com/api/v1/users", ExpandSubstitution(`https://b.com/\1/\2`, m))
	assert.Equal(t, "https://api.a.com/v1/users!", ExpandSubstitution(`\0!`, m))
	assert.Equal(t, `c:\api`, ExpandSubstitution(`c:\\\1`, m))
	assert.Equal(t, "x", ExpandSubstitution(`x\7`, m))
	assert.Equal(t, `trailing\`, ExpandSubstitution(`trailing\`, m))
}

func TestCompileThenExpandRoundTrip(t *testing.T) {
	regex, sub := WildcardRuleToDNR("https://*.old.com/*", "https://new.com/*/*")
	re := regexp.MustCompile("(?i)" + regex)
	m := re.FindStringSubmatch("https://shop.old.com/cart?id=7")
	require.NotNil(t, m)
	assert.Equal(t, "https://new.com/shop/cart?id=7", ExpandSubstitution(sub, m))
}
