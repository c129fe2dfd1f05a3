package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "knowledge", cfg.Knowledge.Dir)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.False(t, cfg.LLM.Keywords)
}

func TestLoadYAMLFile(t *testing.T) {
	path := writeConfig(t, `
server:
  host: 0.0.0.0
  port: 9090
  shutdown_timeout: 5s
llm:
  api_key: test-key
  model: gpt-4o
  keywords: true
knowledge:
  dir: /srv/kb
  watch: true
profile:
  db_path: /var/lib/chatd/profiles.db
logging:
  level: debug
  format: console
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "test-key", cfg.LLM.APIKey)
	assert.Equal(t, "gpt-4o", cfg.LLM.Model)
	assert.True(t, cfg.LLM.Keywords)
	assert.Equal(t, "/srv/kb", cfg.Knowledge.Dir)
	assert.True(t, cfg.Knowledge.Watch)
	assert.Equal(t, "/var/lib/chatd/profiles.db", cfg.Profile.DBPath)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
`)
	t.Setenv("SERVER_PORT", "7070")
	t.Setenv("LOGGING_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadEnvAPIKey(t *testing.T) {
	t.Setenv("LLM_API_KEY", "secret")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "secret", cfg.LLM.APIKey)
}

func TestLoadRejectsInvalidPort(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 99999
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
}

func TestLoadRejectsKeywordsWithoutKey(t *testing.T) {
	path := writeConfig(t, `
llm:
  keywords: true
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api_key")
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := writeConfig(t, "server: [")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidateLoggingFormat(t *testing.T) {
	cfg := &Config{Server: ServerConfig{Port: 8080}, Logging: LoggingConfig{Format: "xml"}}
	assert.Error(t, cfg.Validate())

	cfg.Logging.Format = "console"
	assert.NoError(t, cfg.Validate())
}
