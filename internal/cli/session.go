package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/mazerion/internal/calculators"
	"github.com/rshade/mazerion/internal/config"
	"github.com/rshade/mazerion/internal/engine"
	"github.com/rshade/mazerion/internal/logbook"
)

// annotationLenientConfig marks commands that must still run when the
// configuration file fails to load, such as config init and config validate.
const annotationLenientConfig = "mazerion/lenient-config"

type sessionKey struct{}

// session is the per-invocation state shared by every command.
type session struct {
	cfg  *config.Config
	path string
	// loadErr is the configuration error tolerated by a lenient command.
	loadErr error
}

// setupSession loads the configuration, applies the global flags, and
// stores the result on the command context.
func setupSession(cmd *cobra.Command) error {
	explicit, _ := cmd.Flags().GetString("config")
	path, err := config.ResolvePath(explicit)
	if err != nil {
		return fmt.Errorf("resolving config path: %w", err)
	}

	s := &session{path: path}
	s.cfg, err = config.Load(path)
	if err != nil {
		if cmd.Annotations[annotationLenientConfig] == "" {
			return fmt.Errorf("loading configuration: %w", err)
		}
		s.cfg = config.New()
		s.loadErr = err
	}

	if logFile, _ := cmd.Flags().GetString("log-file"); logFile != "" {
		s.cfg.Logging.File = logFile
	}

	cmd.SetContext(context.WithValue(cmd.Context(), sessionKey{}, s))
	setupLogging(cmd, s.cfg)
	return nil
}

// sessionFrom returns the session of cmd. Commands executed outside the
// root command get a session built from the defaults.
func sessionFrom(cmd *cobra.Command) *session {
	if ctx := cmd.Context(); ctx != nil {
		if s, ok := ctx.Value(sessionKey{}).(*session); ok {
			return s
		}
	}
	path, _ := config.ResolvePath("")
	return &session{cfg: config.New(), path: path}
}

// commandContext returns the command context, never nil.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// openLogbook opens the configured logbook.
func (s *session) openLogbook() (*logbook.Store, error) {
	store, err := logbook.Open(s.cfg.Logbook.Path, logbook.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("opening logbook: %w", err)
	}
	return store, nil
}

// newEngine builds an engine over the full calculator catalog. When record is
// set and the logbook is enabled, successful runs are saved to it. The
// returned close function releases the logbook and is always non-nil.
func (s *session) newEngine(record bool, opts ...engine.Option) (*engine.Engine, func(), error) {
	opts = append([]engine.Option{
		engine.WithLogger(logger),
		engine.WithFormatter(s.cfg.Formatter()),
	}, opts...)

	closeFn := func() {}
	if record && s.cfg.Logbook.Enabled {
		store, err := s.openLogbook()
		if err != nil {
			return nil, closeFn, err
		}
		opts = append(opts, engine.WithLogbook(store))
		closeFn = func() {
			if cerr := store.Close(); cerr != nil {
				logger.Warn().Err(cerr).Msg("closing logbook")
			}
		}
	}

	return engine.New(calculators.NewRegistry(), opts...), closeFn, nil
}

// outputFormat resolves the --output flag, falling back to the configured default.
func outputFormat(cmd *cobra.Command, flagValue string) (engine.OutputFormat, error) {
	if flagValue == "" {
		flagValue = sessionFrom(cmd).cfg.Output.DefaultFormat
	}
	return engine.ParseOutputFormat(flagValue)
}

// addOutputFlag registers the shared --output flag.
func addOutputFlag(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVarP(target, "output", "o", "",
		"output format: table, json or ndjson (default from config)")
}
