package cli_test

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/mazerion/internal/cli"
	"github.com/rshade/mazerion/internal/config"
	"github.com/rshade/mazerion/internal/engine"
	"github.com/rshade/mazerion/internal/logbook"
	"github.com/rshade/mazerion/internal/measure"
)

// isolate points every mazerion path at a fresh temp dir and silences logs.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv(config.EnvHome, home)
	t.Setenv(config.EnvConfigPath, "")
	t.Setenv(config.EnvLogLevel, "")
	t.Setenv(config.EnvOutputFormat, "")
	t.Setenv(config.EnvLogbookPath, "")
	config.SetLogOutput(io.Discard)
	t.Cleanup(func() {
		config.SetLogOutput(nil)
		config.ResetGlobalConfigForTest()
	})
	return home
}

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	return executeWithInput(t, nil, args...)
}

func executeWithInput(t *testing.T, in io.Reader, args ...string) (string, string, error) {
	t.Helper()
	root := cli.NewRootCmd("1.2.3")
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	if in != nil {
		root.SetIn(in)
	}
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestList(t *testing.T) {
	isolate(t)

	t.Run("table lists every calculator", func(t *testing.T) {
		out, _, err := execute(t, "list")
		require.NoError(t, err)
		assert.Contains(t, out, "ID")
		assert.Contains(t, out, "abv")
		assert.Contains(t, out, "51 calculators")
	})

	t.Run("category filter ignores case", func(t *testing.T) {
		out, _, err := execute(t, "list", "--category", "mead styles", "-o", "json")
		require.NoError(t, err)
		var infos []engine.Info
		require.NoError(t, json.Unmarshal([]byte(out), &infos))
		assert.Len(t, infos, 13)
		for _, info := range infos {
			assert.Equal(t, "Mead Styles", info.Category)
		}
	})

	t.Run("search", func(t *testing.T) {
		out, _, err := execute(t, "list", "--search", "refractometer", "-o", "ndjson")
		require.NoError(t, err)
		assert.Contains(t, out, `"id":"refractometer"`)
	})

	t.Run("unknown category", func(t *testing.T) {
		_, _, err := execute(t, "list", "--category", "Cocktails")
		require.Error(t, err)
		assert.ErrorIs(t, err, measure.ErrValidation)
	})

	t.Run("unknown output format", func(t *testing.T) {
		_, _, err := execute(t, "list", "-o", "xml")
		require.Error(t, err)
		assert.ErrorIs(t, err, engine.ErrUnknownFormat)
	})
}

func TestDescribe(t *testing.T) {
	isolate(t)

	out, _, err := execute(t, "describe", "refractometer")
	require.NoError(t, err)
	assert.Contains(t, out, "(refractometer)")
	assert.Contains(t, out, "Category:")

	_, _, err = execute(t, "describe", "nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, engine.ErrCalculatorNotFound)
}

func TestRun(t *testing.T) {
	isolate(t)

	t.Run("abv is calculated and logged", func(t *testing.T) {
		out, _, err := execute(t, "run", "abv", "--param", "og=1.050", "--param", "fg=1.010", "-o", "json")
		require.NoError(t, err)

		var resp engine.Response
		require.NoError(t, json.Unmarshal([]byte(out), &resp))
		assert.Equal(t, "5.25 % ABV", resp.Display)
		assert.Equal(t, measure.ABV, resp.Unit)
		assert.Empty(t, resp.Warnings)
		assert.NotEmpty(t, resp.LogID)
	})

	t.Run("table output", func(t *testing.T) {
		out, _, err := execute(t, "run", "abv", "-p", "og=1.050", "-p", "fg=1.010", "--no-log")
		require.NoError(t, err)
		assert.Contains(t, out, "Result:")
		assert.Contains(t, out, "5.25 % ABV")
		assert.NotContains(t, out, "Logged:")
	})

	t.Run("measurement flag", func(t *testing.T) {
		out, _, err := execute(t, "run", "sg_to_brix", "--sg", "1.083", "--no-log", "-o", "json")
		require.NoError(t, err)
		var resp engine.Response
		require.NoError(t, json.Unmarshal([]byte(out), &resp))
		assert.Equal(t, measure.Brix, resp.Unit)
	})

	t.Run("missing input", func(t *testing.T) {
		_, _, err := execute(t, "run", "abv", "--param", "og=1.050", "--no-log")
		require.Error(t, err)
		assert.ErrorIs(t, err, measure.ErrMissingInput)
		assert.Contains(t, err.Error(), "running abv")
	})

	t.Run("out of range measurement", func(t *testing.T) {
		_, _, err := execute(t, "run", "sg_to_brix", "--sg", "3.0", "--no-log")
		require.Error(t, err)
		assert.ErrorIs(t, err, measure.ErrOutOfRange)
	})

	t.Run("malformed param", func(t *testing.T) {
		_, _, err := execute(t, "run", "abv", "--param", "og")
		require.Error(t, err)
		assert.ErrorIs(t, err, cli.ErrInvalidParam)
	})

	t.Run("flag conflicts with param", func(t *testing.T) {
		_, _, err := execute(t, "run", "sg_to_brix", "--sg", "1.050", "--param", "sg=1.060")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "conflicts")
	})

	t.Run("unknown calculator", func(t *testing.T) {
		_, _, err := execute(t, "run", "mystery", "--no-log")
		require.Error(t, err)
		assert.ErrorIs(t, err, engine.ErrCalculatorNotFound)
	})
}

func TestRun_DefaultFormatFromConfig(t *testing.T) {
	isolate(t)
	t.Setenv(config.EnvOutputFormat, "json")

	out, _, err := execute(t, "run", "abv", "-p", "og=1.050", "-p", "fg=1.010", "--no-log")
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(out)), "expected JSON, got %q", out)
}

func TestRun_LogbookDisabled(t *testing.T) {
	home := isolate(t)
	cfgPath := filepath.Join(home, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("logbook:\n  enabled: false\n"), 0600))

	out, _, err := execute(t, "run", "abv", "-p", "og=1.050", "-p", "fg=1.010", "-o", "json")
	require.NoError(t, err)
	var resp engine.Response
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Empty(t, resp.LogID)
	assert.NoFileExists(t, filepath.Join(home, "logbook.db"))
}

func TestBatch(t *testing.T) {
	home := isolate(t)

	requests := `[
  {"calculator_id": "abv", "params": {"og": "1.050", "fg": "1.010"}},
  {"calculator_id": "brix_to_sg", "params": {"brix": "20"}},
  {"calculator_id": "abv", "params": {"og": "1.010", "fg": "1.050"}}
]`
	file := filepath.Join(home, "requests.json")
	require.NoError(t, os.WriteFile(file, []byte(requests), 0600))

	t.Run("from file", func(t *testing.T) {
		out, _, err := execute(t, "batch", "--file", file, "--no-log", "-o", "json")
		require.NoError(t, err)

		var run engine.BatchRun
		require.NoError(t, json.Unmarshal([]byte(out), &run))
		assert.NotEmpty(t, run.ID)
		assert.Equal(t, 2, run.Succeeded)
		assert.Equal(t, 1, run.Failed)
		require.Len(t, run.Items, 3)
		assert.True(t, run.Items[0].OK())
		assert.Equal(t, "5.25 % ABV", run.Items[0].Response.Display)
		assert.False(t, run.Items[2].OK())
		assert.Equal(t, "validation error", run.Items[2].Kind)
	})

	t.Run("from stdin as table", func(t *testing.T) {
		out, _, err := executeWithInput(t, strings.NewReader(requests), "batch", "--file", "-", "--concurrency", "2", "--no-log")
		require.NoError(t, err)
		assert.Contains(t, out, "2 succeeded, 1 failed")
	})

	t.Run("ndjson", func(t *testing.T) {
		out, _, err := execute(t, "batch", "-f", file, "--no-log", "-o", "ndjson")
		require.NoError(t, err)
		lines := strings.Split(strings.TrimSpace(out), "\n")
		assert.Len(t, lines, 3)
	})

	t.Run("empty file", func(t *testing.T) {
		empty := filepath.Join(home, "empty.json")
		require.NoError(t, os.WriteFile(empty, []byte("[]"), 0600))
		_, _, err := execute(t, "batch", "--file", empty)
		assert.ErrorIs(t, err, cli.ErrNoRequests)
	})

	t.Run("malformed file", func(t *testing.T) {
		bad := filepath.Join(home, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0600))
		_, _, err := execute(t, "batch", "--file", bad)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parsing batch file")
	})

	t.Run("file flag required", func(t *testing.T) {
		_, _, err := execute(t, "batch")
		require.Error(t, err)
	})

	t.Run("negative concurrency", func(t *testing.T) {
		_, _, err := execute(t, "batch", "--file", file, "--concurrency", "-1")
		require.Error(t, err)
	})
}

func TestConvert(t *testing.T) {
	isolate(t)

	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr bool
	}{
		{name: "gallons to liters", args: []string{"5", "gallons", "liters"}, want: "5.00 gal = 18.93 L"},
		{name: "by symbol", args: []string{"5", "gal", "L"}, want: "18.93 L"},
		{name: "temperature", args: []string{"68", "fahrenheit", "celsius"}, want: "20.0 °C"},
		{name: "different dimensions", args: []string{"5", "gallons", "celsius"}, wantErr: true},
		{name: "unknown unit", args: []string{"5", "cubits", "liters"}, wantErr: true},
		{name: "bad value", args: []string{"five", "gallons", "liters"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := execute(t, append([]string{"convert"}, tt.args...)...)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, out, tt.want)
		})
	}

	t.Run("json", func(t *testing.T) {
		out, _, err := execute(t, "convert", "1", "kg", "g", "-o", "json")
		require.NoError(t, err)
		var got struct {
			Display string `json:"display"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		assert.Equal(t, "1,000.00 g", got.Display)
	})
}

func TestLogCommands(t *testing.T) {
	isolate(t)

	for range 3 {
		_, _, err := execute(t, "run", "abv", "-p", "og=1.050", "-p", "fg=1.010")
		require.NoError(t, err)
	}
	_, _, err := execute(t, "run", "brix_to_sg", "--brix", "20")
	require.NoError(t, err)

	t.Run("list", func(t *testing.T) {
		out, _, err := execute(t, "log", "list", "-o", "json")
		require.NoError(t, err)
		var entries []logbook.Entry
		require.NoError(t, json.Unmarshal([]byte(out), &entries))
		require.Len(t, entries, 4)
		assert.Equal(t, "brix_to_sg", entries[0].CalculatorID)
	})

	t.Run("list filtered", func(t *testing.T) {
		out, _, err := execute(t, "log", "list", "--calculator", "abv", "--limit", "2", "-o", "json")
		require.NoError(t, err)
		var entries []logbook.Entry
		require.NoError(t, json.Unmarshal([]byte(out), &entries))
		assert.Len(t, entries, 2)
	})

	t.Run("list table", func(t *testing.T) {
		out, _, err := execute(t, "log", "list", "--since", "1h")
		require.NoError(t, err)
		assert.Contains(t, out, "CALCULATOR")
		assert.Contains(t, out, "abv")
	})

	t.Run("export", func(t *testing.T) {
		out, _, err := execute(t, "log", "export")
		require.NoError(t, err)
		lines := strings.Split(strings.TrimSpace(out), "\n")
		require.Len(t, lines, 4)
		for _, line := range lines {
			var e logbook.Entry
			require.NoError(t, json.Unmarshal([]byte(line), &e))
			assert.NotEmpty(t, e.ID)
		}
	})

	t.Run("export filtered", func(t *testing.T) {
		out, _, err := execute(t, "log", "export", "--calculator", "brix_to_sg")
		require.NoError(t, err)
		assert.Equal(t, 1, strings.Count(out, "\n"))
	})

	t.Run("prune keeps recent entries", func(t *testing.T) {
		out, _, err := execute(t, "log", "prune", "--older-than", "30d")
		require.NoError(t, err)
		assert.Contains(t, out, "Removed 0 entries older than 30d")
	})

	t.Run("prune rejects bad age", func(t *testing.T) {
		_, _, err := execute(t, "log", "prune", "--older-than", "soon")
		assert.ErrorIs(t, err, cli.ErrInvalidAge)
	})
}

func TestConfigCommands(t *testing.T) {
	home := isolate(t)
	cfgPath := filepath.Join(home, "config.yaml")

	t.Run("init creates the file", func(t *testing.T) {
		out, _, err := execute(t, "config", "init")
		require.NoError(t, err)
		assert.Contains(t, out, cfgPath)
		assert.FileExists(t, cfgPath)
	})

	t.Run("init refuses to overwrite", func(t *testing.T) {
		_, _, err := execute(t, "config", "init")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "use --force")

		_, _, err = execute(t, "config", "init", "--force")
		require.NoError(t, err)
	})

	t.Run("validate", func(t *testing.T) {
		out, _, err := execute(t, "config", "validate", "--verbose")
		require.NoError(t, err)
		assert.Contains(t, out, "Configuration is valid")
		assert.Contains(t, out, "Logbook:")
	})

	t.Run("show yaml and json", func(t *testing.T) {
		out, _, err := execute(t, "config", "show")
		require.NoError(t, err)
		assert.Contains(t, out, "app_name: Mazerion")

		out, _, err = execute(t, "config", "show", "-o", "json")
		require.NoError(t, err)
		var cfg config.Config
		require.NoError(t, json.Unmarshal([]byte(out), &cfg))
		assert.Equal(t, config.DefaultAppName, cfg.AppName)
	})

	t.Run("invalid file", func(t *testing.T) {
		require.NoError(t, os.WriteFile(cfgPath, []byte("precision:\n  sg_decimals: 99\n"), 0600))

		_, _, err := execute(t, "config", "validate")
		require.Error(t, err)
		assert.ErrorIs(t, err, config.ErrInvalidConfig)
		assert.Contains(t, err.Error(), "configuration validation failed")

		_, _, err = execute(t, "list")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "loading configuration")

		_, _, err = execute(t, "config", "init", "--force")
		require.NoError(t, err)
		_, _, err = execute(t, "config", "validate")
		require.NoError(t, err)
	})

	t.Run("explicit config flag", func(t *testing.T) {
		other := filepath.Join(home, "nested", "other.yaml")
		_, _, err := execute(t, "config", "init", "--config", other)
		require.NoError(t, err)
		assert.FileExists(t, other)
	})
}

func TestVersion(t *testing.T) {
	isolate(t)

	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "mazerion 1.2.3")

	out, _, err = execute(t, "version", "-o", "json")
	require.NoError(t, err)
	var info struct {
		Major uint64 `json:"major"`
		Minor uint64 `json:"minor"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, uint64(1), info.Major)
	assert.Equal(t, uint64(2), info.Minor)
}

func TestBrowse_RequiresTerminal(t *testing.T) {
	isolate(t)

	_, _, err := execute(t, "browse")
	assert.ErrorIs(t, err, cli.ErrNotInteractive)
}

func TestLogFileFlag(t *testing.T) {
	home := isolate(t)
	logPath := filepath.Join(home, "logs", "mazerion.log")

	_, _, err := execute(t, "--debug", "--log-file", logPath, "list")
	require.NoError(t, err)

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "command started")
}
