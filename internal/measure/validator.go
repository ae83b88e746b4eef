package measure

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Range is a closed interval [Min, Max] of legal values for a unit.
type Range struct {
	Min decimal.Decimal
	Max decimal.Decimal
}

// Contains reports whether v lies within the range, bounds included.
func (r Range) Contains(v decimal.Decimal) bool {
	return v.GreaterThanOrEqual(r.Min) && v.LessThanOrEqual(r.Max)
}

// Legal ranges for the units that have one. These are domain facts, not settings.
//
//nolint:gochecknoglobals // Immutable domain constants; decimal values cannot be const.
var (
	SGRange         = Range{decimal.New(6000, -4), decimal.New(20000, -4)}
	PHRange         = Range{decimal.New(150, -2), decimal.New(850, -2)}
	BrixRange       = Range{decimal.Zero, decimal.NewFromInt(70)}
	PlatoRange      = Range{decimal.Zero, decimal.NewFromInt(70)}
	CelsiusRange    = Range{decimal.NewFromInt(-5), decimal.NewFromInt(100)}
	FahrenheitRange = Range{decimal.NewFromInt(23), decimal.NewFromInt(212)}
	PercentRange    = Range{decimal.Zero, decimal.NewFromInt(100)}
	ABVRange        = Range{decimal.Zero, decimal.NewFromInt(100)}

	// sugarWarnThreshold is the Brix/Plato value above which readings are legal but unusual.
	sugarWarnThreshold = decimal.NewFromInt(45)
)

// RangeFor returns the legal range of u, if u has one.
func RangeFor(u Unit) (Range, bool) {
	switch u {
	case SpecificGravity:
		return SGRange, true
	case PH:
		return PHRange, true
	case Brix:
		return BrixRange, true
	case Plato:
		return PlatoRange, true
	case Celsius:
		return CelsiusRange, true
	case Fahrenheit:
		return FahrenheitRange, true
	case Percent:
		return PercentRange, true
	case ABV:
		return ABVRange, true
	default:
		return Range{}, false
	}
}

func checkRange(label string, v decimal.Decimal, r Range, suffix string) error {
	if r.Contains(v) {
		return nil
	}
	return OutOfRange("%s %s%s outside range %s–%s", label, v.String(), suffix, r.Min.String(), r.Max.String())
}

// ValidateSG checks a specific gravity reading.
func ValidateSG(v decimal.Decimal) error {
	if SGRange.Contains(v) {
		return nil
	}
	return OutOfRange("SG %s outside range 0.6000–2.0000", v.String())
}

// ValidatePH checks a pH reading.
func ValidatePH(v decimal.Decimal) error {
	if PHRange.Contains(v) {
		return nil
	}
	return OutOfRange("pH %s outside range 1.50–8.50", v.String())
}

// ValidateBrix checks a Brix reading.
func ValidateBrix(v decimal.Decimal) error {
	return checkRange("Brix", v, BrixRange, "")
}

// ValidatePlato checks a Plato reading.
func ValidatePlato(v decimal.Decimal) error {
	return checkRange("Plato", v, PlatoRange, "")
}

// ValidateCelsius checks a Celsius temperature.
func ValidateCelsius(v decimal.Decimal) error {
	return checkRange("Temperature", v, CelsiusRange, " °C")
}

// ValidateFahrenheit checks a Fahrenheit temperature.
func ValidateFahrenheit(v decimal.Decimal) error {
	return checkRange("Temperature", v, FahrenheitRange, " °F")
}

// ValidatePercent checks a plain percentage.
func ValidatePercent(v decimal.Decimal) error {
	return checkRange("Percentage", v, PercentRange, "")
}

// ValidateABV checks an alcohol-by-volume percentage.
func ValidateABV(v decimal.Decimal) error {
	return checkRange("ABV", v, ABVRange, "")
}

// BrixWarning returns an advisory when v is legal but above the typical range.
func BrixWarning(v decimal.Decimal) (string, bool) {
	if v.GreaterThan(sugarWarnThreshold) {
		return fmt.Sprintf("Brix %s above typical range (0–45)", v.String()), true
	}
	return "", false
}

// PlatoWarning returns an advisory when v is legal but above the typical range.
func PlatoWarning(v decimal.Decimal) (string, bool) {
	if v.GreaterThan(sugarWarnThreshold) {
		return fmt.Sprintf("Plato %s above typical range (0–45)", v.String()), true
	}
	return "", false
}

// Validate applies the rule for u to v. Units without a range accept any
// non-negative value; temperatures and gravities are covered by their ranges.
func Validate(u Unit, v decimal.Decimal) error {
	switch u {
	case SpecificGravity:
		return ValidateSG(v)
	case PH:
		return ValidatePH(v)
	case Brix:
		return ValidateBrix(v)
	case Plato:
		return ValidatePlato(v)
	case Celsius:
		return ValidateCelsius(v)
	case Fahrenheit:
		return ValidateFahrenheit(v)
	case Percent:
		return ValidatePercent(v)
	case ABV:
		return ValidateABV(v)
	default:
		if !u.Valid() {
			return Validation("unknown unit %d", int(u))
		}
		if v.IsNegative() {
			return OutOfRange("%s %s must not be negative", u.Symbol(), v.String())
		}
		return nil
	}
}
