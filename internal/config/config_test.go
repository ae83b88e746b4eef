package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/mazerion/internal/config"
	"github.com/rshade/mazerion/internal/measure"
)

// isolate points the config directory at a temp dir and clears overrides.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv(config.EnvHome, home)
	t.Setenv(config.EnvConfigPath, "")
	t.Setenv(config.EnvLogLevel, "")
	t.Setenv(config.EnvOutputFormat, "")
	t.Setenv(config.EnvLogbookPath, "")
	return home
}

func TestNew_Defaults(t *testing.T) {
	home := isolate(t)
	cfg := config.New()

	assert.Equal(t, "Mazerion", cfg.AppName)
	assert.Equal(t, "0.1.0", cfg.Version)
	assert.Equal(t, config.PrecisionConfig{SGDecimals: 4, PHDecimals: 3, BrixDecimals: 2}, cfg.Precision)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Empty(t, cfg.Logging.File)
	assert.True(t, cfg.Logbook.Enabled)
	assert.Equal(t, filepath.Join(home, "logbook.db"), cfg.Logbook.Path)
	assert.Equal(t, 365, cfg.Logbook.RetentionDays)
	assert.Equal(t, "table", cfg.Output.DefaultFormat)
	assert.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	t.Run("missing file gives defaults", func(t *testing.T) {
		isolate(t)
		cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
		require.NoError(t, err)
		assert.Equal(t, config.New(), cfg)
	})

	t.Run("file overrides", func(t *testing.T) {
		isolate(t)
		path := writeOverlay(t, `
version: 2.0.0
precision:
  sg_decimals: 3
output:
  default_format: json
`)
		cfg, err := config.Load(path)
		require.NoError(t, err)
		assert.Equal(t, "2.0.0", cfg.Version)
		assert.Equal(t, 3, cfg.Precision.SGDecimals)
		assert.Equal(t, 3, cfg.Precision.PHDecimals)
		assert.Equal(t, "json", cfg.Output.DefaultFormat)
	})

	t.Run("environment wins over file", func(t *testing.T) {
		isolate(t)
		t.Setenv(config.EnvLogLevel, "DEBUG")
		t.Setenv(config.EnvOutputFormat, "ndjson")
		t.Setenv(config.EnvLogbookPath, "/tmp/env-logbook.db")

		path := writeOverlay(t, "logging:\n  level: warn\n")
		cfg, err := config.Load(path)
		require.NoError(t, err)
		assert.Equal(t, "debug", cfg.Logging.Level)
		assert.Equal(t, "ndjson", cfg.Output.DefaultFormat)
		assert.Equal(t, "/tmp/env-logbook.db", cfg.Logbook.Path)
	})

	t.Run("tilde logbook path expands", func(t *testing.T) {
		isolate(t)
		homeDir, err := os.UserHomeDir()
		require.NoError(t, err)

		cfg, err := config.Load(writeOverlay(t, "logbook:\n  path: ~/brews/log.db\n"))
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(homeDir, "brews", "log.db"), cfg.Logbook.Path)
	})

	t.Run("invalid file fails validation", func(t *testing.T) {
		isolate(t)
		_, err := config.Load(writeOverlay(t, "version: banana\n"))
		require.ErrorIs(t, err, config.ErrInvalidConfig)
		assert.Contains(t, err.Error(), "semantic version")
	})

	t.Run("corrupt file", func(t *testing.T) {
		isolate(t)
		_, err := config.Load(writeOverlay(t, "{{{"))
		require.Error(t, err)
		assert.NotErrorIs(t, err, config.ErrInvalidConfig)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *config.Config)
		wantErr bool
		wantMsg string
	}{
		{"defaults", func(*config.Config) {}, false, ""},
		{"prerelease version", func(c *config.Config) { c.Version = "1.0.0-beta.1" }, false, ""},
		{"zero decimals", func(c *config.Config) { c.Precision.PHDecimals = 0 }, false, ""},
		{"max decimals", func(c *config.Config) { c.Precision.SGDecimals = config.MaxDecimals }, false, ""},
		{"disabled logbook without path", func(c *config.Config) {
			c.Logbook.Enabled = false
			c.Logbook.Path = ""
		}, false, ""},
		{"empty app name", func(c *config.Config) { c.AppName = " " }, true, "app_name"},
		{"bad version", func(c *config.Config) { c.Version = "one" }, true, "version"},
		{"negative decimals", func(c *config.Config) { c.Precision.BrixDecimals = -1 }, true, "precision.brix_decimals"},
		{"too many decimals", func(c *config.Config) { c.Precision.SGDecimals = 9 }, true, "precision.sg_decimals"},
		{"bad log level", func(c *config.Config) { c.Logging.Level = "loud" }, true, "logging.level"},
		{"bad format", func(c *config.Config) { c.Output.DefaultFormat = "xml" }, true, "output.default_format"},
		{"enabled logbook without path", func(c *config.Config) { c.Logbook.Path = "" }, true, "logbook.path"},
		{"negative retention", func(c *config.Config) { c.Logbook.RetentionDays = -1 }, true, "retention_days"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			cfg := config.New()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, config.ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestValidate_ReportsAllProblems(t *testing.T) {
	isolate(t)
	cfg := config.New()
	cfg.Logging.Level = "loud"
	cfg.Output.DefaultFormat = "xml"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "logging.level")
	assert.Contains(t, err.Error(), "output.default_format")
}

func TestSaveAndLoad(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")

	cfg := config.New()
	cfg.AppName = "Cellar"
	cfg.Precision.SGDecimals = 3
	cfg.Logbook.RetentionDays = 90
	require.NoError(t, cfg.Save(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestFormatter(t *testing.T) {
	isolate(t)
	cfg := config.New()
	cfg.Precision.SGDecimals = 3
	cfg.Precision.BrixDecimals = 1

	f := cfg.Formatter()
	assert.Equal(t, "1.050 SG", f.Format(measure.New(decimal.RequireFromString("1.0503"), measure.SpecificGravity)))
	assert.Equal(t, "20.5 °Bx", f.Format(measure.New(decimal.RequireFromString("20.46"), measure.Brix)))
	assert.Equal(t, int32(3), f.Precision(measure.PH))
}

func TestRetention(t *testing.T) {
	cfg := &config.Config{Logbook: config.LogbookConfig{RetentionDays: 2}}
	assert.Equal(t, 48*time.Hour, cfg.Retention())
}

func TestResolvePath(t *testing.T) {
	home := isolate(t)

	got, err := config.ResolvePath("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "config.yaml"), got)

	t.Setenv(config.EnvConfigPath, "/etc/mazerion.yaml")
	got, err = config.ResolvePath("")
	require.NoError(t, err)
	assert.Equal(t, "/etc/mazerion.yaml", got)

	got, err = config.ResolvePath("/explicit.yaml")
	require.NoError(t, err)
	assert.Equal(t, "/explicit.yaml", got)
}

func TestExpandHome(t *testing.T) {
	homeDir, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		in   string
		want string
	}{
		{"~", homeDir},
		{"~/x/y.db", filepath.Join(homeDir, "x", "y.db")},
		{"/abs/path", "/abs/path"},
		{"relative/path", "relative/path"},
		{"~other/path", "~other/path"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := config.ExpandHome(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGlobalConfig(t *testing.T) {
	isolate(t)
	t.Cleanup(config.ResetGlobalConfigForTest)

	config.ResetGlobalConfigForTest()
	assert.Equal(t, config.New(), config.GetGlobalConfig())

	custom := config.New()
	custom.AppName = "Custom"
	config.SetGlobalConfig(custom)
	assert.Same(t, custom, config.GetGlobalConfig())
}
