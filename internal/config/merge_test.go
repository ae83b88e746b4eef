package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/mazerion/internal/config"
)

// newDefaultTarget returns a Config with known non-zero values so tests can
// verify that absent overlay keys leave the original values intact.
func newDefaultTarget() *config.Config {
	return &config.Config{
		AppName: "Mazerion",
		Version: "0.1.0",
		Precision: config.PrecisionConfig{
			SGDecimals:   4,
			PHDecimals:   3,
			BrixDecimals: 2,
		},
		Logging: config.LoggingConfig{Level: "info", File: "/var/log/mazerion.log"},
		Logbook: config.LogbookConfig{Enabled: true, Path: "/data/logbook.db", RetentionDays: 365},
		Output:  config.OutputConfig{DefaultFormat: "table"},
	}
}

// writeOverlay writes YAML content to a temp file and returns its path.
func writeOverlay(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestShallowMergeYAML_SingleKeyOverride(t *testing.T) {
	target := newDefaultTarget()
	overlay := writeOverlay(t, `
output:
  default_format: json
`)

	require.NoError(t, config.ShallowMergeYAML(target, overlay))

	assert.Equal(t, "json", target.Output.DefaultFormat)
	assert.Equal(t, "info", target.Logging.Level)
	assert.Equal(t, 4, target.Precision.SGDecimals)
	assert.True(t, target.Logbook.Enabled)
}

func TestShallowMergeYAML_MultipleKeyOverride(t *testing.T) {
	target := newDefaultTarget()
	overlay := writeOverlay(t, `
app_name: Meadery
version: 1.2.3
precision:
  sg_decimals: 3
  ph_decimals: 2
  brix_decimals: 1
logbook:
  enabled: false
  path: /tmp/other.db
  retention_days: 30
`)

	require.NoError(t, config.ShallowMergeYAML(target, overlay))

	assert.Equal(t, "Meadery", target.AppName)
	assert.Equal(t, "1.2.3", target.Version)
	assert.Equal(t, config.PrecisionConfig{SGDecimals: 3, PHDecimals: 2, BrixDecimals: 1}, target.Precision)
	assert.Equal(t, config.LogbookConfig{Enabled: false, Path: "/tmp/other.db", RetentionDays: 30}, target.Logbook)
}

func TestShallowMergeYAML_PartialSectionKeepsOtherFields(t *testing.T) {
	target := newDefaultTarget()
	overlay := writeOverlay(t, `
logbook:
  path: /srv/logbook.db
logging:
  level: debug
`)

	require.NoError(t, config.ShallowMergeYAML(target, overlay))

	assert.Equal(t, "/srv/logbook.db", target.Logbook.Path)
	assert.True(t, target.Logbook.Enabled)
	assert.Equal(t, 365, target.Logbook.RetentionDays)
	assert.Equal(t, "debug", target.Logging.Level)
	assert.Equal(t, "/var/log/mazerion.log", target.Logging.File)
}

func TestShallowMergeYAML_ZeroValueFieldsReplaceDefaults(t *testing.T) {
	target := newDefaultTarget()
	overlay := writeOverlay(t, `
precision:
  sg_decimals: 0
logbook:
  enabled: false
  retention_days: 0
`)

	require.NoError(t, config.ShallowMergeYAML(target, overlay))

	assert.Equal(t, 0, target.Precision.SGDecimals)
	assert.Equal(t, 3, target.Precision.PHDecimals)
	assert.False(t, target.Logbook.Enabled)
	assert.Equal(t, 0, target.Logbook.RetentionDays)
}

func TestShallowMergeYAML_EmptyAndCommentOnlyFiles(t *testing.T) {
	for name, content := range map[string]string{
		"empty":        "",
		"comment only": "# nothing here\n# at all\n",
	} {
		t.Run(name, func(t *testing.T) {
			target := newDefaultTarget()
			original := *target
			require.NoError(t, config.ShallowMergeYAML(target, writeOverlay(t, content)))
			assert.Equal(t, original, *target)
		})
	}
}

func TestShallowMergeYAML_UnknownKeysIgnored(t *testing.T) {
	target := newDefaultTarget()
	overlay := writeOverlay(t, `
output:
  default_format: ndjson
unknown_section:
  foo: bar
extra_key: 42
`)

	require.NoError(t, config.ShallowMergeYAML(target, overlay))
	assert.Equal(t, "ndjson", target.Output.DefaultFormat)
	assert.Equal(t, "info", target.Logging.Level)
}

func TestShallowMergeYAML_Errors(t *testing.T) {
	tests := []struct {
		name    string
		path    func(t *testing.T) string
		wantMsg string
	}{
		{
			name:    "corrupted YAML",
			path:    func(t *testing.T) string { return writeOverlay(t, "{{{{not valid yaml at all") },
			wantMsg: "parsing config YAML",
		},
		{
			name:    "missing file",
			path:    func(*testing.T) string { return "/nonexistent/path/config.yaml" },
			wantMsg: "reading config file",
		},
		{
			name:    "wrong section type",
			path:    func(t *testing.T) string { return writeOverlay(t, "precision: high\n") },
			wantMsg: `applying config section "precision"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := config.ShallowMergeYAML(newDefaultTarget(), tt.path(t))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestShallowMergeYAML_NilTarget(t *testing.T) {
	err := config.ShallowMergeYAML(nil, "unused.yaml")
	require.Error(t, err)
}
