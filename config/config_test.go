package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, _, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "8778", cfg.Server.Port)
	assert.Equal(t, "8777", cfg.Proxy.Port)
	assert.Equal(t, "X-Redirectly-Tab", cfg.Proxy.TabHeader)
	assert.True(t, cfg.Proxy.ShareLinks)
	assert.Equal(t, "INFO", cfg.Logging.Level)
	assert.Equal(t, "redirectly.db", filepath.Base(cfg.Database.Path))
	assert.True(t, cfg.MatchLog.Enabled)
	assert.Equal(t, 10000, cfg.MatchLog.MaxEntries)
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
server:
  port: "9001"
proxy:
  share_links: false
logging:
  level: debug
match_log:
  max_entries: 50
`), 0o600))
	t.Setenv("REDIRECTLY_PROXY_PORT", "9002")

	cfg, msg, err := Load(cfgPath)
	require.NoError(t, err)
	assert.Contains(t, msg, cfgPath)
	assert.Equal(t, "9001", cfg.Server.Port)
	assert.Equal(t, "9002", cfg.Proxy.Port)
	assert.False(t, cfg.Proxy.ShareLinks)
	assert.Equal(t, "DEBUG", cfg.Logging.Level)
	assert.Equal(t, 50, cfg.MatchLog.MaxEntries)
	assert.Equal(t, 256, cfg.MatchLog.BufferSize)
}

func TestExpandTilde(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := ExpandTilde("~/rules.db")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "rules.db"), got)

	got, err = ExpandTilde("/abs/rules.db")
	require.NoError(t, err)
	assert.Equal(t, "/abs/rules.db", got)
}
