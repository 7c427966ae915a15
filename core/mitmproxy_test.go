package core

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"

	"redirectly/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type proxyFixture struct {
	upstream *httptest.Server
	client   *http.Client
	engine   *Engine
	badges   *BadgeBoard
	store    *memStore
}

func newProxyFixture(t *testing.T, rules ...models.Rule) *proxyFixture {
	t.Helper()
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Seen-Cookie", r.Header.Get("Cookie"))
		w.Header().Set("X-Seen-Tab", r.Header.Get(DefaultTabHeader))
		io.WriteString(w, "upstream:"+r.URL.Path)
	}))
	t.Cleanup(upstream.Close)

	f := &proxyFixture{
		upstream: upstream,
		engine:   NewEngine(nil),
		badges:   NewBadgeBoard(),
		store:    newMemStore(),
	}
	f.engine.OnRuleMatched(f.badges.RuleMatched)
	require.NoError(t, f.store.SetRules(rules))
	bg := NewBackground(f.store, f.engine)
	require.NoError(t, bg.Start())
	t.Cleanup(bg.Stop)

	proxySrv := httptest.NewServer(NewProxy(f.engine, f.badges, ProxyOptions{
		Ingester: NewShareIngester(f.store, nil),
	}))
	t.Cleanup(proxySrv.Close)
	proxyURL, _ := url.Parse(proxySrv.URL)

	f.client = &http.Client{
		Transport: &http.Transport{Proxy: http.ProxyURL(proxyURL)},
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return f
}

func (f *proxyFixture) get(t *testing.T, rawURL, tab, dest string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	require.NoError(t, err)
	req.Header.Set(DefaultTabHeader, tab)
	if dest != "" {
		req.Header.Set("Sec-Fetch-Dest", dest)
	}
	resp, err := f.client.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestProxyRedirects(t *testing.T) {
	f := newProxyFixture(t)
	require.NoError(t, f.store.SetRules([]models.Rule{
		redirectRule("r", f.upstream.URL+"/old/*", f.upstream.URL+"/new/*", true),
	}))

	resp := f.get(t, f.upstream.URL+"/old/a/b?x=1", "tab-1", "script")
	assert.Equal(t, http.StatusTemporaryRedirect, resp.StatusCode)
	assert.Equal(t, f.upstream.URL+"/new/a/b?x=1", resp.Header.Get("Location"))
	assert.Equal(t, models.Badge{TabID: "tab-1", Text: BadgeText, Color: BadgeColor}, f.badges.Get("tab-1"))
}

func TestProxySetsCookieAndStripsTabHeader(t *testing.T) {
	f := newProxyFixture(t)
	require.NoError(t, f.store.SetRules([]models.Rule{
		cookieRule("c", f.upstream.URL+"/*", "sid=abc", true),
	}))

	resp := f.get(t, f.upstream.URL+"/page", "tab-2", "image")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "sid=abc", resp.Header.Get("X-Seen-Cookie"))
	assert.Empty(t, resp.Header.Get("X-Seen-Tab"))
	assert.Equal(t, BadgeText, f.badges.Get("tab-2").Text)
}

func TestProxyPassesUnmatched(t *testing.T) {
	f := newProxyFixture(t)
	resp := f.get(t, f.upstream.URL+"/plain", "tab-3", "script")
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "upstream:/plain", string(body))
	assert.Empty(t, f.badges.Get("tab-3").Text)
}

func TestProxyNavigationClearsBadge(t *testing.T) {
	f := newProxyFixture(t)
	f.badges.RuleMatched(models.MatchInfo{TabID: "tab-4"})

	f.get(t, f.upstream.URL+"/next", "tab-4", "document")
	assert.Empty(t, f.badges.Get("tab-4").Text)
}

func TestProxyIngestsShareLinkOnNavigation(t *testing.T) {
	f := newProxyFixture(t)

	link := f.upstream.URL + "/landing?keep=1&redirect=%2Fapi%2F*?to=https%3A%2F%2Fexample.com%2F*"
	resp := f.get(t, link, "tab-5", "document")
	assert.Equal(t, http.StatusTemporaryRedirect, resp.StatusCode)
	assert.Equal(t, f.upstream.URL+"/landing?keep=1", resp.Header.Get("Location"))

	stored, _ := f.store.Rules()
	require.Len(t, stored, 1)
	assert.Equal(t, "/api/*", stored[0].Source)
	assert.Equal(t, "https://example.com/*", stored[0].Target)
	assert.True(t, stored[0].Enabled)
	assert.Len(t, f.engine.GetDynamicRules(), 1)

	// Sub-resources never ingest.
	resp = f.get(t, link, "tab-5", "image")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestResourceTypeOf(t *testing.T) {
	tests := []struct {
		headers map[string]string
		want    models.ResourceType
	}{
		{map[string]string{"Sec-Fetch-Dest": "document"}, models.ResourceMainFrame},
		{map[string]string{"Sec-Fetch-Dest": "iframe"}, models.ResourceSubFrame},
		{map[string]string{"Sec-Fetch-Dest": "style"}, models.ResourceStylesheet},
		{map[string]string{"Sec-Fetch-Dest": "worker"}, models.ResourceScript},
		{map[string]string{"Sec-Fetch-Dest": "video"}, models.ResourceMedia},
		{map[string]string{"Sec-Fetch-Dest": "empty"}, models.ResourceXMLHTTPRequest},
		{map[string]string{"Sec-Fetch-Dest": "empty", "Ping-To": "https://x"}, models.ResourcePing},
		{map[string]string{"Upgrade": "websocket"}, models.ResourceWebSocket},
		{map[string]string{"Accept": "text/html,application/xhtml+xml"}, models.ResourceMainFrame},
		{map[string]string{"X-Requested-With": "XMLHttpRequest"}, models.ResourceXMLHTTPRequest},
		{map[string]string{}, models.ResourceOther},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "http://x/", nil)
		for k, v := range tt.headers {
			r.Header.Set(k, v)
		}
		assert.Equal(t, tt.want, ResourceTypeOf(r), "%v", tt.headers)
	}
}

func TestGenerateAndLoadCA(t *testing.T) {
	dir := t.TempDir()
	certPath := filepath.Join(dir, "ca", "redirectly-ca.crt")
	keyPath := filepath.Join(dir, "ca", "redirectly-ca.key")

	require.NoError(t, GenerateAndSaveCA(certPath, keyPath))
	ca, err := LoadCA(certPath, keyPath)
	require.NoError(t, err)
	require.NotNil(t, ca.Leaf)
	assert.True(t, ca.Leaf.IsCA)
	assert.Equal(t, caCommonName, ca.Leaf.Subject.CommonName)

	_, err = LoadCA(filepath.Join(dir, "missing.crt"), keyPath)
	assert.Error(t, err)
}
