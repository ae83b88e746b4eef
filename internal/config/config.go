// Package config loads, validates, and saves the mazerion configuration file
// and owns the process-wide logger.
//
// The file lives at ~/.mazerion/config.yaml unless MAZERION_CONFIG or the
// --config flag points elsewhere. Missing files are not an error: every field
// has a default, and a file only needs the sections it changes.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"

	"github.com/rshade/mazerion/internal/measure"
)

// Defaults.
const (
	DefaultAppName       = "Mazerion"
	DefaultVersion       = "0.1.0"
	DefaultLogLevel      = "info"
	DefaultOutputFormat  = "table"
	DefaultRetentionDays = 365

	// MaxDecimals bounds every precision setting.
	MaxDecimals = 8

	configFileName  = "config.yaml"
	logbookFileName = "logbook.db"
)

// Environment variables that override the file.
const (
	EnvConfigPath   = "MAZERION_CONFIG"
	EnvHome         = "MAZERION_HOME"
	EnvLogLevel     = "MAZERION_LOG_LEVEL"
	EnvOutputFormat = "MAZERION_OUTPUT_FORMAT"
	EnvLogbookPath  = "MAZERION_LOGBOOK_PATH"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

//nolint:gochecknoglobals // Immutable lookup tables.
var (
	validLogLevels     = []string{"trace", "debug", "info", "warn", "error", "fatal", "panic", "disabled"}
	validOutputFormats = []string{"table", "json", "ndjson"}
)

// Config is the full configuration file.
type Config struct {
	AppName   string          `yaml:"app_name"  json:"app_name"`
	Version   string          `yaml:"version"   json:"version"`
	Precision PrecisionConfig `yaml:"precision" json:"precision"`
	Logging   LoggingConfig   `yaml:"logging"   json:"logging"`
	Logbook   LogbookConfig   `yaml:"logbook"   json:"logbook"`
	Output    OutputConfig    `yaml:"output"    json:"output"`
}

// PrecisionConfig sets how many decimals the display uses per unit.
type PrecisionConfig struct {
	SGDecimals   int `yaml:"sg_decimals"   json:"sg_decimals"`
	PHDecimals   int `yaml:"ph_decimals"   json:"ph_decimals"`
	BrixDecimals int `yaml:"brix_decimals" json:"brix_decimals"`
}

// LoggingConfig controls the global logger.
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	// File, when set, receives log output in addition to stderr.
	File string `yaml:"file" json:"file"`
}

// LogbookConfig controls the calculation logbook.
type LogbookConfig struct {
	Enabled       bool   `yaml:"enabled"        json:"enabled"`
	Path          string `yaml:"path"           json:"path"`
	RetentionDays int    `yaml:"retention_days" json:"retention_days"`
}

// OutputConfig controls CLI output.
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format" json:"default_format"`
}

// New returns a Config holding the defaults.
func New() *Config {
	logbookPath := logbookFileName
	if dir, err := GetConfigDir(); err == nil {
		logbookPath = filepath.Join(dir, logbookFileName)
	}
	return &Config{
		AppName: DefaultAppName,
		Version: DefaultVersion,
		Precision: PrecisionConfig{
			SGDecimals:   int(measure.SpecificGravity.Precision()),
			PHDecimals:   int(measure.PH.Precision()),
			BrixDecimals: int(measure.Brix.Precision()),
		},
		Logging: LoggingConfig{Level: DefaultLogLevel},
		Logbook: LogbookConfig{
			Enabled:       true,
			Path:          logbookPath,
			RetentionDays: DefaultRetentionDays,
		},
		Output: OutputConfig{DefaultFormat: DefaultOutputFormat},
	}
}

// ResolvePath returns explicit when set, then MAZERION_CONFIG, then the
// default location under the config directory.
func ResolvePath(explicit string) (string, error) {
	if explicit != "" {
		return ExpandHome(explicit)
	}
	if env := os.Getenv(EnvConfigPath); env != "" {
		return ExpandHome(env)
	}
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// Load reads the file at path over the defaults, applies environment
// overrides, and validates the result. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := New()
	if path != "" {
		err := ShallowMergeYAML(cfg, path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}
	cfg.ApplyEnv()

	expanded, err := ExpandHome(cfg.Logbook.Path)
	if err != nil {
		return nil, err
	}
	cfg.Logbook.Path = expanded

	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overlays the MAZERION_* environment overrides.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = strings.ToLower(v)
	}
	if v := os.Getenv(EnvOutputFormat); v != "" {
		c.Output.DefaultFormat = strings.ToLower(v)
	}
	if v := os.Getenv(EnvLogbookPath); v != "" {
		c.Logbook.Path = v
	}
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.AppName) == "" {
		errs = append(errs, errors.New("app_name cannot be empty"))
	}
	if _, err := semver.NewVersion(c.Version); err != nil {
		errs = append(errs, fmt.Errorf("version %q is not a semantic version: %w", c.Version, err))
	}
	for name, v := range map[string]int{
		"precision.sg_decimals":   c.Precision.SGDecimals,
		"precision.ph_decimals":   c.Precision.PHDecimals,
		"precision.brix_decimals": c.Precision.BrixDecimals,
	} {
		if v < 0 || v > MaxDecimals {
			errs = append(errs, fmt.Errorf("%s must be between 0 and %d, got %d", name, MaxDecimals, v))
		}
	}
	if !slices.Contains(validLogLevels, c.Logging.Level) {
		errs = append(errs, fmt.Errorf("logging.level %q must be one of: %s",
			c.Logging.Level, strings.Join(validLogLevels, ", ")))
	}
	if !slices.Contains(validOutputFormats, c.Output.DefaultFormat) {
		errs = append(errs, fmt.Errorf("output.default_format %q must be one of: %s",
			c.Output.DefaultFormat, strings.Join(validOutputFormats, ", ")))
	}
	if c.Logbook.Enabled && strings.TrimSpace(c.Logbook.Path) == "" {
		errs = append(errs, errors.New("logbook.path is required when the logbook is enabled"))
	}
	if c.Logbook.RetentionDays < 0 {
		errs = append(errs, fmt.Errorf("logbook.retention_days cannot be negative, got %d", c.Logbook.RetentionDays))
	}

	if len(errs) == 0 {
		return nil
	}
	slices.SortFunc(errs, func(a, b error) int { return strings.Compare(a.Error(), b.Error()) })
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}

// Save writes c as YAML to path, creating the directory when needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err = os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}
	return nil
}

// Formatter returns a measurement formatter using the configured precisions.
func (c *Config) Formatter() *measure.Formatter {
	return measure.NewFormatter().
		WithPrecision(measure.SpecificGravity, int32(c.Precision.SGDecimals)).
		WithPrecision(measure.PH, int32(c.Precision.PHDecimals)).
		WithPrecision(measure.Brix, int32(c.Precision.BrixDecimals))
}

// Retention returns the logbook retention as a duration. Zero keeps entries forever.
func (c *Config) Retention() time.Duration {
	return time.Duration(c.Logbook.RetentionDays) * 24 * time.Hour
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
