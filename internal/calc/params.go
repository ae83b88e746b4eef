package calc

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rshade/mazerion/internal/measure"
)

// Decimal parses the required parameter key.
// It fails with MissingInput when absent and Parse when malformed.
func (in Input) Decimal(key string) (decimal.Decimal, error) {
	raw, ok := in.Param(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return decimal.Zero, measure.MissingInput(key)
	}
	v, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, measure.ParseError(key, raw)
	}
	return v, nil
}

// OptionalDecimal parses key when present and returns def otherwise.
// A present but malformed value is still a Parse error.
func (in Input) OptionalDecimal(key string, def decimal.Decimal) (decimal.Decimal, error) {
	raw, ok := in.Param(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return def, nil
	}
	v, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, measure.ParseError(key, raw)
	}
	return v, nil
}

// PositiveDecimal parses the required parameter key and requires it to be > 0.
func (in Input) PositiveDecimal(key string) (decimal.Decimal, error) {
	v, err := in.Decimal(key)
	if err != nil {
		return decimal.Zero, err
	}
	if !v.IsPositive() {
		return decimal.Zero, measure.Validation("%s must be greater than zero", key)
	}
	return v, nil
}

// NonNegativeDecimal parses key (defaulting to def) and requires it to be >= 0.
func (in Input) NonNegativeDecimal(key string, def decimal.Decimal) (decimal.Decimal, error) {
	v, err := in.OptionalDecimal(key, def)
	if err != nil {
		return decimal.Zero, err
	}
	if v.IsNegative() {
		return decimal.Zero, measure.Validation("%s must not be negative", key)
	}
	return v, nil
}

// Gravity parses the required parameter key as a specific gravity and applies
// the SG range rule.
func (in Input) Gravity(key string) (decimal.Decimal, error) {
	v, err := in.Decimal(key)
	if err != nil {
		return decimal.Zero, err
	}
	if err := measure.ValidateSG(v); err != nil {
		return decimal.Zero, err
	}
	return v, nil
}

// Choice returns the lower-cased parameter key, or def when absent or blank.
func (in Input) Choice(key, def string) string {
	raw, ok := in.Param(key)
	if !ok {
		return def
	}
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return def
	}
	return raw
}

// Require fails with MissingInput for the first key that is absent.
func (in Input) Require(keys ...string) error {
	for _, key := range keys {
		if raw, ok := in.Param(key); !ok || strings.TrimSpace(raw) == "" {
			return measure.MissingInput(key)
		}
	}
	return nil
}

// RequireMeasurement fails with MissingInput when no measurement of unit is present.
func (in Input) RequireMeasurement(unit measure.Unit) error {
	_, err := in.Measurement(unit)
	return err
}
