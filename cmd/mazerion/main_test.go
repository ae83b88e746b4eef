package main

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rshade/mazerion/internal/cli"
	"github.com/rshade/mazerion/pkg/version"
)

func TestRun(t *testing.T) {
	t.Setenv("MAZERION_HOME", t.TempDir())
	t.Setenv("MAZERION_CONFIG", "")

	t.Run("version succeeds", func(t *testing.T) {
		assert.Equal(t, exitOK, run([]string{"version"}))
	})

	t.Run("unknown command fails", func(t *testing.T) {
		assert.Equal(t, exitError, run([]string{"no-such-command"}))
	})

	t.Run("calculation error fails", func(t *testing.T) {
		assert.Equal(t, exitError, run([]string{"run", "abv", "--param", "og=1.050", "--no-log"}))
	})
}

func TestMainComponents(t *testing.T) {
	t.Run("version available", func(t *testing.T) {
		assert.NotEmpty(t, version.GetVersion())
	})

	t.Run("cli root command", func(t *testing.T) {
		root := cli.NewRootCmd(version.GetVersion())
		if root == nil {
			t.Fatal("expected root command to be non-nil")
		}
		assert.Equal(t, "mazerion", root.Use)
		assert.Equal(t, version.GetVersion(), root.Version)
	})
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil error returns 0", err: nil, want: exitOK},
		{name: "generic error", err: errors.New("boom"), want: exitError},
		{name: "cancelled", err: context.Canceled, want: exitInterrupted},
		{name: "wrapped cancel", err: fmt.Errorf("running batch: %w", context.Canceled), want: exitInterrupted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}
