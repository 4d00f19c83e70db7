package output_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/systmms/keyaudit/internal/audit"
	"github.com/systmms/keyaudit/internal/logging"
	"github.com/systmms/keyaudit/internal/output"
	"github.com/systmms/keyaudit/pkg/provider"
)

func sampleReport() audit.Report {
	return audit.Report{
		RunID: "run-1",
		Results: []provider.KeyResult{
			{
				Provider:       "openai",
				EnvVar:         "OPENAI_API_KEY",
				KeyFingerprint: provider.Fingerprint{Prefix: "sk-a", Suffix: "f3x9", Length: 51},
				Status:         provider.StatusValid,
				AccountInfo:    "12 models accessible",
				LatencyMS:      120.5,
			},
			{
				Provider:       "github",
				EnvVar:         "GH_BACKUP",
				KeyFingerprint: provider.Fingerprint{Prefix: "ghp_", Suffix: "z9y8", Length: 40},
				Status:         provider.StatusAuthFailed,
				ErrorDetail:    "Bad credentials",
				AutoDetected:   true,
			},
		},
		Summary: audit.Summary{
			TotalKeys:        2,
			Valid:            1,
			Failed:           1,
			ProvidersChecked: 2,
			CacheMisses:      2,
			AvgLatencyMS:     60.25,
			AutoDetected:     1,
		},
	}
}

func TestRenderTablePartialRedaction(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	output.NewRenderer(&buf, true, logging.RedactPartial).RenderTable(sampleReport())

	out := buf.String()
	assert.Contains(t, out, "sk-a...f3x9 (51)")
	assert.Contains(t, out, "GH_BACKUP (auto)")
	assert.Contains(t, out, "valid")
	assert.Contains(t, out, "Bad credentials")
	assert.Contains(t, out, "2 keys: 1 valid, 1 failed, 0 errors")
	assert.Contains(t, out, "1 credentials classified by key pattern")
	assert.NotContains(t, out, "\033[", "color must be off with noColor")
}

func TestRenderTableFullRedactionHidesFingerprint(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	output.NewRenderer(&buf, true, logging.RedactFull).RenderTable(sampleReport())

	out := buf.String()
	assert.Contains(t, out, "[REDACTED] (51)")
	assert.NotContains(t, out, "sk-a...f3x9")
}

func TestWriteJSONCanonicalOrder(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "results.json")
	require.NoError(t, output.WriteJSON(sampleReport(), path, false))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded audit.Report
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "run-1", decoded.RunID)
	assert.Len(t, decoded.Results, 2)

	// Null optional fields stay present so every record lists the same
	// eleven fields.
	assert.Contains(t, string(data), `"scopes": null`)
	assert.Contains(t, string(data), `"rate_limit": null`)

	fi, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), fi.Mode().Perm())
}

func TestWriteJSONRefusesWorldReadableTarget(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "results.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))

	err := output.WriteJSON(sampleReport(), path, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "world-readable")

	require.NoError(t, output.WriteJSON(sampleReport(), path, true))
}
