package measure

import (
	"github.com/shopspring/decimal"
)

// Dimension groups units that can be converted into each other.
type Dimension int

const (
	// DimensionNone covers units with no conversions (gravity, pH, counts, ...).
	DimensionNone Dimension = iota
	// DimensionVolume covers liquid volumes.
	DimensionVolume
	// DimensionMass covers weights.
	DimensionMass
	// DimensionTemperature covers Celsius and Fahrenheit.
	DimensionTemperature
)

// Conversion factors.
//
//nolint:gochecknoglobals // Immutable conversion constants; decimal values cannot be const.
var (
	LitersPerGallon     = decimal.RequireFromString("3.78541")
	GallonsPerLiter     = decimal.RequireFromString("0.264172")
	GramsPerOunce       = decimal.RequireFromString("28.349523125")
	OuncesPerGram       = decimal.RequireFromString("0.035273962")
	KilogramsPerPound   = decimal.RequireFromString("0.45359237")
	PoundsPerKilogram   = decimal.RequireFromString("2.20462262")
	LitersPerQuart      = decimal.RequireFromString("0.946353")
	LitersPerPint       = decimal.RequireFromString("0.473176")
	LitersPerFluidOunce = decimal.RequireFromString("0.0295735")

	thousand = decimal.NewFromInt(1000)
	nine     = decimal.NewFromInt(9)
	five     = decimal.NewFromInt(5)
	freezeF  = decimal.NewFromInt(32)
)

// DimensionOf returns the conversion dimension of u.
func DimensionOf(u Unit) Dimension {
	switch u {
	case Liters, Milliliters, Gallons, Quarts, Pints, FluidOunces:
		return DimensionVolume
	case Grams, Kilograms, Ounces, Pounds:
		return DimensionMass
	case Celsius, Fahrenheit:
		return DimensionTemperature
	default:
		return DimensionNone
	}
}

// GallonsToLiters converts US gallons to liters.
func GallonsToLiters(gal decimal.Decimal) decimal.Decimal { return gal.Mul(LitersPerGallon) }

// LitersToGallons converts liters to US gallons.
func LitersToGallons(l decimal.Decimal) decimal.Decimal { return l.Mul(GallonsPerLiter) }

// FahrenheitToCelsius converts °F to °C.
func FahrenheitToCelsius(f decimal.Decimal) decimal.Decimal {
	return f.Sub(freezeF).Mul(five).Div(nine)
}

// CelsiusToFahrenheit converts °C to °F.
func CelsiusToFahrenheit(c decimal.Decimal) decimal.Decimal {
	return c.Mul(nine).Div(five).Add(freezeF)
}

// OuncesToGrams converts avoirdupois ounces to grams.
func OuncesToGrams(oz decimal.Decimal) decimal.Decimal { return oz.Mul(GramsPerOunce) }

// GramsToOunces converts grams to avoirdupois ounces.
func GramsToOunces(g decimal.Decimal) decimal.Decimal { return g.Mul(OuncesPerGram) }

// PoundsToKilograms converts pounds to kilograms.
func PoundsToKilograms(lb decimal.Decimal) decimal.Decimal { return lb.Mul(KilogramsPerPound) }

// KilogramsToPounds converts kilograms to pounds.
func KilogramsToPounds(kg decimal.Decimal) decimal.Decimal { return kg.Mul(PoundsPerKilogram) }

// toBase expresses a volume in liters or a mass in grams.
func toBase(v decimal.Decimal, u Unit) decimal.Decimal {
	switch u {
	case Milliliters:
		return v.Div(thousand)
	case Gallons:
		return GallonsToLiters(v)
	case Quarts:
		return v.Mul(LitersPerQuart)
	case Pints:
		return v.Mul(LitersPerPint)
	case FluidOunces:
		return v.Mul(LitersPerFluidOunce)
	case Kilograms:
		return v.Mul(thousand)
	case Ounces:
		return OuncesToGrams(v)
	case Pounds:
		return PoundsToKilograms(v).Mul(thousand)
	default:
		return v
	}
}

// fromBase is the inverse of toBase.
func fromBase(v decimal.Decimal, u Unit) decimal.Decimal {
	switch u {
	case Milliliters:
		return v.Mul(thousand)
	case Gallons:
		return LitersToGallons(v)
	case Quarts:
		return v.Div(LitersPerQuart)
	case Pints:
		return v.Div(LitersPerPint)
	case FluidOunces:
		return v.Div(LitersPerFluidOunce)
	case Kilograms:
		return v.Div(thousand)
	case Ounces:
		return GramsToOunces(v)
	case Pounds:
		return KilogramsToPounds(v.Div(thousand))
	default:
		return v
	}
}

// Convert expresses m in the unit to. Converting to the same unit returns m
// unchanged. Units of different dimensions cannot be converted.
func Convert(m Measurement, to Unit) (Measurement, error) {
	if m.Unit == to {
		return m, nil
	}

	from := DimensionOf(m.Unit)
	if from == DimensionNone || from != DimensionOf(to) {
		return Measurement{}, Validation("cannot convert %s to %s", m.Unit.Symbol(), to.Symbol())
	}

	if from == DimensionTemperature {
		var v decimal.Decimal
		if to == Celsius {
			v = FahrenheitToCelsius(m.Value)
		} else {
			v = CelsiusToFahrenheit(m.Value)
		}
		return Of(v, to)
	}

	return Of(fromBase(toBase(m.Value, m.Unit), to), to)
}
