package config_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/mazerion/internal/config"
)

func TestWatch_ReloadsOnWrite(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("app_name: First\n"), 0600))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan *config.Config, 16)
	done := make(chan error, 1)
	go func() {
		done <- config.Watch(ctx, path, func(c *config.Config) { changes <- c },
			config.WithDebounce(20*time.Millisecond), config.WithWatchLogger(zerolog.Nop()))
	}()

	// The watcher may not be registered yet, so keep writing until a reload lands.
	var got *config.Config
	require.Eventually(t, func() bool {
		_ = os.WriteFile(path, []byte("app_name: Second\n"), 0600)
		select {
		case got = <-changes:
			return true
		default:
			return false
		}
	}, 5*time.Second, 100*time.Millisecond)
	assert.Equal(t, "Second", got.AppName)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}

func TestWatch_SkipsInvalidConfig(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("app_name: Valid\n"), 0600))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan *config.Config, 16)
	go func() {
		_ = config.Watch(ctx, path, func(c *config.Config) { changes <- c },
			config.WithDebounce(20*time.Millisecond), config.WithWatchLogger(zerolog.Nop()))
	}()

	// Writes to other files in the directory are ignored, and an invalid
	// config never reaches the callback.
	for i := range 5 {
		require.NoError(t, os.WriteFile(filepath.Join(dir, fmt.Sprintf("other-%d.yaml", i)), []byte("x: 1\n"), 0600))
		require.NoError(t, os.WriteFile(path, []byte("version: not-semver\n"), 0600))
		time.Sleep(50 * time.Millisecond)
	}

	select {
	case c := <-changes:
		t.Fatalf("unexpected reload: %+v", c)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatch_MissingDirectory(t *testing.T) {
	err := config.Watch(context.Background(), "/nonexistent/dir/config.yaml", func(*config.Config) {},
		config.WithWatchLogger(zerolog.Nop()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "watching config dir")
}
