package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/systmms/keyaudit/internal/config"
	kaerrors "github.com/systmms/keyaudit/internal/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "keyaudit.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFullConfig(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, `
version: 1
providers:
  - openai
  - github
timeout_seconds: 10
concurrency: 4
cache:
  ttl_seconds: 600
  max_size: 500
audit_log: /tmp/keyaudit/audit.log
redaction: hash
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"openai", "github"}, cfg.Providers)
	assert.Equal(t, 10.0, cfg.TimeoutSeconds)
	assert.Equal(t, 4, cfg.Concurrency)
	assert.Equal(t, 600, cfg.Cache.TTLSeconds)
	assert.Equal(t, 500, cfg.Cache.MaxSize)
	assert.Equal(t, "/tmp/keyaudit/audit.log", cfg.AuditLog)
	assert.Equal(t, "hash", cfg.Redaction)
}

func TestLoadAppliesDefaults(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, "version: 1\n")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoadMissingExplicitPathFails(t *testing.T) {
	t.Parallel()
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, kaerrors.IsUserError(err))
}

func TestLoadRejectsBadYAML(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, "version: [unclosed\n")
	_, err := config.Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid YAML")
}

func TestLoadRejectsSchemaViolations(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		content string
	}{
		{"wrong version", "version: 2\n"},
		{"unknown field", "version: 1\nunknown_field: true\n"},
		{"bad redaction level", "version: 1\nredaction: none\n"},
		{"negative concurrency", "version: 1\nconcurrency: -2\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := config.Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.True(t, kaerrors.IsUserError(err))
		})
	}
}

func TestDurations(t *testing.T) {
	t.Parallel()
	cfg := config.Default()
	assert.Equal(t, "30s", cfg.Timeout().String())
	assert.Equal(t, "1h0m0s", cfg.CacheTTL().String())
}
