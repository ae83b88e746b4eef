package config

import (
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the process-wide logger.
//
//nolint:gochecknoglobals // Logger is intentionally global for application-wide structured logging
var Logger zerolog.Logger

//nolint:gochecknoglobals // Global logger state, guarded by logMu.
var (
	logFileHandle *os.File
	logConsole    io.Writer = os.Stderr
	logMu         sync.RWMutex
)

// InitLogger rebuilds the global Logger at level, writing to stderr and, when
// logToFile is set, also to the configured log file (mazerion.log in the
// temp directory when none is configured). An unknown level falls back to info.
func InitLogger(level string, logToFile bool) error {
	logMu.Lock()
	defer logMu.Unlock()

	closeLogFileLocked()
	writers := []io.Writer{newConsoleWriter()}

	if logToFile {
		if err := EnsureLogDir(); err != nil {
			return err
		}
		logPath := GetGlobalConfig().Logging.File
		if logPath == "" {
			logPath = filepath.Join(os.TempDir(), "mazerion.log")
		}
		f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
		if err != nil {
			return err
		}
		logFileHandle = f
		writers = append(writers, f)
	}

	Logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(parseLevel(level)).
		With().
		Timestamp().
		Logger()
	return nil
}

// SetupLogging installs cfg as the global configuration and initializes the
// logger from its logging section. debug forces the debug level.
func SetupLogging(cfg *Config, debug bool) error {
	SetGlobalConfig(cfg)
	level := cfg.Logging.Level
	if debug {
		level = zerolog.LevelDebugValue
	}
	return InitLogger(level, cfg.Logging.File != "")
}

// SetLogOutput redirects console log output, mainly so tests can capture it.
// It takes effect on the next InitLogger call.
func SetLogOutput(w io.Writer) {
	logMu.Lock()
	defer logMu.Unlock()
	if w == nil {
		w = os.Stderr
	}
	logConsole = w
}

// SetLogLevel changes the level of the global Logger. An unknown level falls back to info.
func SetLogLevel(level string) {
	logMu.Lock()
	defer logMu.Unlock()
	Logger = Logger.Level(parseLevel(level))
}

// CloseLogFile closes the log file, if any, and leaves a console-only Logger.
func CloseLogFile() {
	logMu.Lock()
	defer logMu.Unlock()
	closeLogFileLocked()
}

// closeLogFileLocked requires logMu.
func closeLogFileLocked() {
	if logFileHandle == nil {
		return
	}
	_ = logFileHandle.Close()
	logFileHandle = nil
	Logger = zerolog.New(newConsoleWriter()).
		Level(Logger.GetLevel()).
		With().
		Timestamp().
		Logger()
}

// GetLogger returns the global logger.
func GetLogger() zerolog.Logger {
	logMu.RLock()
	defer logMu.RUnlock()
	return Logger
}

func newConsoleWriter() zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{Out: logConsole, TimeFormat: time.RFC3339}
}

func parseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// init installs a console logger at info level so logging works before any
// configuration is loaded.
//
//nolint:gochecknoinits // intentional: package-level logger must be initialized before use
func init() {
	_ = InitLogger(DefaultLogLevel, false)
}
