package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Top-level YAML keys, one per Config section.
const (
	keyAppName   = "app_name"
	keyVersion   = "version"
	keyPrecision = "precision"
	keyLogging   = "logging"
	keyLogbook   = "logbook"
	keyOutput    = "output"
)

// knownTopLevelKeys lists the YAML keys that correspond to Config fields.
// Other keys are ignored during merge.
//
//nolint:gochecknoglobals // Compile-time constant lookup table.
var knownTopLevelKeys = map[string]bool{
	keyAppName:   true,
	keyVersion:   true,
	keyPrecision: true,
	keyLogging:   true,
	keyLogbook:   true,
	keyOutput:    true,
}

// ShallowMergeYAML loads a YAML file and merges its top-level keys onto
// target. A section absent from the file keeps its current value; within a
// section present in the file, only the fields the file sets change.
func ShallowMergeYAML(target *Config, overlayPath string) error {
	if target == nil {
		return errors.New("nil target *Config in ShallowMergeYAML")
	}

	data, err := os.ReadFile(overlayPath)
	if err != nil {
		return fmt.Errorf("reading config file %s: %w", overlayPath, err)
	}

	var overlay map[string]any
	if err = yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("parsing config YAML from %s: %w", overlayPath, err)
	}

	// Empty or comment-only file.
	if len(overlay) == 0 {
		return nil
	}

	for key, value := range overlay {
		if !knownTopLevelKeys[key] {
			continue
		}

		sectionBytes, marshalErr := yaml.Marshal(value)
		if marshalErr != nil {
			return fmt.Errorf("re-marshalling config section %q: %w", key, marshalErr)
		}

		if err = unmarshalSection(target, key, sectionBytes); err != nil {
			return fmt.Errorf("applying config section %q: %w", key, err)
		}
	}

	return nil
}

// unmarshalSection decodes one section onto a copy of its current value and
// stores the copy back only when decoding succeeds.
func unmarshalSection(target *Config, key string, data []byte) error {
	switch key {
	case keyAppName:
		return yaml.Unmarshal(data, &target.AppName)
	case keyVersion:
		return yaml.Unmarshal(data, &target.Version)
	case keyPrecision:
		v := target.Precision
		if err := yaml.Unmarshal(data, &v); err != nil {
			return err
		}
		target.Precision = v
		return nil
	case keyLogging:
		v := target.Logging
		if err := yaml.Unmarshal(data, &v); err != nil {
			return err
		}
		target.Logging = v
		return nil
	case keyLogbook:
		v := target.Logbook
		if err := yaml.Unmarshal(data, &v); err != nil {
			return err
		}
		target.Logbook = v
		return nil
	case keyOutput:
		v := target.Output
		if err := yaml.Unmarshal(data, &v); err != nil {
			return err
		}
		target.Output = v
		return nil
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
}
