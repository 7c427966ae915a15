package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	InitWriters(&buf, "warn")

	Debug("debug line")
	Info("info line")
	Warn("warn line")
	ProxyInfo("proxy info line")

	out := buf.String()
	assert.NotContains(t, out, "debug line")
	assert.NotContains(t, out, "info line")
	assert.NotContains(t, out, "proxy info line")
	assert.Contains(t, out, "WARN: warn line")
}

func TestUnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	InitWriters(&buf, "chatty")

	Debug("hidden")
	Info("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestInitGlobalLoggersWritesFiles(t *testing.T) {
	dir := t.TempDir()
	appPath := filepath.Join(dir, "logs", "app.log")
	proxyPath := filepath.Join(dir, "logs", "proxy.log")

	require.NoError(t, InitGlobalLoggers(appPath, proxyPath, "DEBUG"))
	Info("hello app")
	ProxyDebug("hello proxy")
	CloseLogFiles()

	app, err := os.ReadFile(appPath)
	require.NoError(t, err)
	assert.Contains(t, string(app), "hello app")

	proxy, err := os.ReadFile(proxyPath)
	require.NoError(t, err)
	assert.Contains(t, string(proxy), "hello proxy")
}
