package calculators

import (
	"github.com/shopspring/decimal"

	"github.com/rshade/mazerion/internal/calc"
	"github.com/rshade/mazerion/internal/measure"
)

// primingFactors are grams of sugar per liter per volume of CO2.
//
//nolint:gochecknoglobals // Immutable lookup table.
var primingFactors = map[string]decimal.Decimal{
	"table_sugar": dec("4.0"),
	"corn_sugar":  dec("3.86"),
	"honey":       dec("5.0"),
	"dme":         dec("4.6"),
}

//nolint:gochecknoglobals // Formula constants.
var (
	maxSafeCO2      = dec("4.5")
	sugarPerLiterOK = ten
)

// residualCO2 is the dissolved CO2, in volumes, left in a beverage fermented at tempF.
func residualCO2(tempF decimal.Decimal) decimal.Decimal {
	return dec("3.0378").
		Sub(dec("0.050062").Mul(tempF)).
		Add(dec("0.00026555").Mul(tempF.Mul(tempF)))
}

// kegPSI is the regulator pressure that holds co2 volumes at tempF.
func kegPSI(tempF, co2 decimal.Decimal) decimal.Decimal {
	psi := dec("-16.6999").
		Sub(dec("0.0101059").Mul(tempF)).
		Add(dec("0.00116512").Mul(tempF.Mul(tempF))).
		Add(dec("0.173354").Mul(tempF).Mul(co2)).
		Add(dec("4.24267").Mul(co2)).
		Sub(dec("0.0684226").Mul(co2.Mul(co2)))
	if psi.IsNegative() {
		return zero
	}
	return psi
}

// Carbonation computes priming sugar for bottle conditioning, or keg pressure
// when method=keg. Temperature is in °C.
type Carbonation struct{ calc.Base }

func (Carbonation) ID() string       { return "carbonation" }
func (Carbonation) Name() string     { return "Carbonation Calculator" }
func (Carbonation) Category() string { return calc.CategoryBrewing }
func (Carbonation) Description() string {
	return "Calculate priming sugar or keg pressure for carbonation"
}

func (Carbonation) Validate(in calc.Input) error {
	return in.Require("volume", "temperature", "target_co2")
}

func (c Carbonation) Calculate(in calc.Input) (calc.Result, error) {
	if err := c.Validate(in); err != nil {
		return fail(err)
	}
	vol, err := in.PositiveDecimal("volume")
	if err != nil {
		return fail(err)
	}
	tempC, err := in.Decimal("temperature")
	if err != nil {
		return fail(err)
	}
	if err := measure.ValidateCelsius(tempC); err != nil {
		return fail(err)
	}
	target, err := in.PositiveDecimal("target_co2")
	if err != nil {
		return fail(err)
	}

	tempF := measure.CelsiusToFahrenheit(tempC)
	residual := residualCO2(tempF)
	needed := target.Sub(residual)
	if needed.IsNegative() {
		return fail(measure.Validation("target CO2 already present at this temperature"))
	}

	method := in.Choice("method", "priming")
	switch method {
	case "keg":
		psi := kegPSI(tempF, target)
		res, err := output(psi, measure.PSI)
		if err != nil {
			return fail(err)
		}
		return res.
			WithMeta("method", "Force Carbonation (Keg)").
			WithMeta("psi", fixed(psi, 1)).
			WithMeta("target_co2", fixed(target, 1)+" volumes").
			WithMeta("residual_co2", fixed(residual, 2)+" volumes").
			WithMeta("temp_c", fixed(tempC, 1)+"°C").
			WithMeta("temp_f", fixed(tempF, 1)+"°F").
			WithWarningIf(target.GreaterThan(maxSafeCO2), "High carbonation (>4.5 vol) - check keg and line ratings"), nil
	case "priming":
	default:
		return fail(measure.Validation("unknown method %q (priming, keg)", method))
	}

	sugar := in.Choice("sugar_type", "table_sugar")
	factor, ok := primingFactors[sugar]
	if !ok {
		return fail(measure.Validation("unknown sugar_type %q (table_sugar, corn_sugar, honey, dme)", sugar))
	}
	grams := needed.Mul(factor).Mul(vol)

	res, err := output(grams, measure.Grams)
	if err != nil {
		return fail(err)
	}
	return res.
		WithMeta("method", "Bottle Priming").
		WithMeta("sugar_type", sugar).
		WithMeta("priming_sugar_g", fixed(grams, 1)+" g").
		WithMeta("target_co2", fixed(target, 1)+" volumes").
		WithMeta("residual_co2", fixed(residual, 2)+" volumes").
		WithMeta("co2_to_add", fixed(needed, 2)+" volumes").
		WithMeta("temp_c", fixed(tempC, 1)+"°C").
		WithMeta("temp_f", fixed(tempF, 1)+"°F").
		WithWarningIf(grams.GreaterThan(vol.Mul(sugarPerLiterOK)), "Very high priming sugar - double-check target CO2").
		WithWarningIf(target.GreaterThan(maxSafeCO2), "High carbonation (>4.5 vol) - risk of bottle bombs"), nil
}

// Priming sugar strength relative to corn sugar (dextrose = 1).
//
//nolint:gochecknoglobals // Immutable lookup table.
var primingEquivalents = map[string]decimal.Decimal{
	"corn_sugar":  one,
	"table_sugar": dec("0.91"),
	"dme":         dec("1.35"),
	"honey":       dec("1.25"),
}

//nolint:gochecknoglobals // Formula constants.
var (
	defaultPrimingGrams = hundred
	highPrimingGrams    = decimal.NewFromInt(200)
)

// PrimingAlternatives converts an amount of one priming sugar into the
// equivalent amounts of the others.
type PrimingAlternatives struct{ calc.Base }

func (PrimingAlternatives) ID() string       { return "priming_alternatives" }
func (PrimingAlternatives) Name() string     { return "Priming Sugar Alternatives" }
func (PrimingAlternatives) Category() string { return calc.CategoryUtilities }
func (PrimingAlternatives) Description() string {
	return "Convert between different priming sugar types"
}

// Validate accepts any input; every parameter has a default.
func (PrimingAlternatives) Validate(calc.Input) error { return nil }

func (c PrimingAlternatives) Calculate(in calc.Input) (calc.Result, error) {
	sugar := in.Choice("sugar_type", "corn_sugar")
	from, ok := primingEquivalents[sugar]
	if !ok {
		return fail(measure.Validation("unknown sugar_type %q (corn_sugar, table_sugar, dme, honey)", sugar))
	}
	amount, err := in.OptionalDecimal("amount", defaultPrimingGrams)
	if err != nil {
		return fail(err)
	}
	if !amount.IsPositive() {
		return fail(measure.Validation("amount must be greater than zero"))
	}

	corn := amount.Div(from)
	res, err := output(corn, measure.Grams)
	if err != nil {
		return fail(err)
	}
	return res.
		WithMeta("corn_sugar_g", fixed(corn, 1)).
		WithMeta("table_sugar_g", fixed(corn.Mul(primingEquivalents["table_sugar"]), 1)).
		WithMeta("dme_g", fixed(corn.Mul(primingEquivalents["dme"]), 1)).
		WithMeta("honey_g", fixed(corn.Mul(primingEquivalents["honey"]), 1)).
		WithMeta("input_type", sugar).
		WithMeta("input_amount", amount.String()).
		WithWarningIf(corn.GreaterThan(highPrimingGrams), "High sugar amount - risk of overcarbonation"), nil
}
