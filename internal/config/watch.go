package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DefaultDebounce is how long Watch waits for writes to settle before reloading.
const DefaultDebounce = 100 * time.Millisecond

type watchOptions struct {
	debounce time.Duration
	logger   zerolog.Logger
}

// WatchOption configures Watch.
type WatchOption func(*watchOptions)

// WithDebounce sets the settle time between the last write and the reload.
func WithDebounce(d time.Duration) WatchOption {
	return func(o *watchOptions) {
		if d > 0 {
			o.debounce = d
		}
	}
}

// WithWatchLogger sets the logger for watcher events.
func WithWatchLogger(l zerolog.Logger) WatchOption {
	return func(o *watchOptions) { o.logger = l }
}

// Watch reloads the config file at path whenever it is written or recreated
// and passes each valid result to onChange. A file that fails to load is
// logged and skipped, so onChange only ever sees valid configurations.
// Watch blocks until ctx is done.
//
// The parent directory is watched rather than the file itself, so editors
// that save by renaming a temp file over the original are picked up.
func Watch(ctx context.Context, path string, onChange func(*Config), opts ...WatchOption) error {
	o := watchOptions{debounce: DefaultDebounce, logger: GetLogger()}
	for _, opt := range opts {
		opt(&o)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving config path %s: %w", path, err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating config watcher: %w", err)
	}
	defer fsw.Close()

	dir := filepath.Dir(abs)
	if err = fsw.Add(dir); err != nil {
		return fmt.Errorf("watching config dir %s: %w", dir, err)
	}
	o.logger.Info().Str("path", abs).Msg("watching config")

	fire := make(chan struct{}, 1)
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if timer == nil {
				timer = time.AfterFunc(o.debounce, func() {
					select {
					case fire <- struct{}{}:
					default:
					}
				})
			} else {
				timer.Reset(o.debounce)
			}

		case <-fire:
			cfg, loadErr := Load(abs)
			if loadErr != nil {
				o.logger.Warn().Err(loadErr).Str("path", abs).Msg("config reload failed, keeping previous config")
				continue
			}
			o.logger.Info().Str("path", abs).Msg("config reloaded")
			onChange(cfg)

		case watchErr, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			o.logger.Warn().Err(watchErr).Msg("config watcher error")
		}
	}
}
