package calculators

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rshade/mazerion/internal/calc"
	"github.com/rshade/mazerion/internal/measure"
)

//nolint:gochecknoglobals // Formula constants.
var (
	tinsethBigness   = 1.65
	tinsethBase      = 0.000125
	tinsethTimeRate  = -0.04
	tinsethMaxUtil   = 4.15
	extremeIBU       = hundred
	highAlphaPercent = decimal.NewFromInt(20)
)

// IBU estimates bitterness from a single hop addition using the Tinseth formula.
type IBU struct{ calc.Base }

func (IBU) ID() string       { return "ibu" }
func (IBU) Name() string     { return "IBU Calculator" }
func (IBU) Category() string { return calc.CategoryBeer }
func (IBU) Description() string {
	return "Calculate International Bitterness Units using Tinseth formula"
}

func (IBU) Validate(in calc.Input) error {
	return in.Require("hop_weight_g", "alpha_acid", "boil_time", "volume_l", "boil_gravity")
}

func (c IBU) Calculate(in calc.Input) (calc.Result, error) {
	if err := c.Validate(in); err != nil {
		return fail(err)
	}
	weight, err := in.NonNegativeDecimal("hop_weight_g", zero)
	if err != nil {
		return fail(err)
	}
	alpha, err := in.Decimal("alpha_acid")
	if err != nil {
		return fail(err)
	}
	if err := measure.ValidatePercent(alpha); err != nil {
		return fail(err)
	}
	minutes, err := in.NonNegativeDecimal("boil_time", zero)
	if err != nil {
		return fail(err)
	}
	vol, err := in.PositiveDecimal("volume_l")
	if err != nil {
		return fail(err)
	}
	sg, err := in.Gravity("boil_gravity")
	if err != nil {
		return fail(err)
	}

	gravityFactor, err := powf(decimal.NewFromFloat(tinsethBase), sg.Sub(one).InexactFloat64())
	if err != nil {
		return fail(err)
	}
	decay, err := expf(tinsethTimeRate * minutes.InexactFloat64())
	if err != nil {
		return fail(err)
	}
	bigness := decimal.NewFromFloat(tinsethBigness).Mul(gravityFactor)
	boil := one.Sub(decay).Div(decimal.NewFromFloat(tinsethMaxUtil))
	utilization := bigness.Mul(boil)
	ibu := weight.Mul(alpha.Div(hundred)).Mul(utilization).Mul(thousand).Div(vol)

	res, err := output(ibu, measure.IBU)
	if err != nil {
		return fail(err)
	}
	return res.
		WithWarningIf(ibu.GreaterThan(extremeIBU), "IBU > 100 is extremely bitter").
		WithWarningIf(alpha.GreaterThan(highAlphaPercent), "Alpha acid > 20% is unusually high - verify value").
		WithMeta("ibu", fixed(ibu, 1)).
		WithMeta("utilization", fixed(utilization.Mul(hundred), 1)+"%").
		WithMeta("bigness_factor", fixed(bigness, 4)).
		WithMeta("boil_factor", fixed(boil, 4)).
		WithMeta("formula", "Tinseth").
		WithMeta("hop_weight", fixed(weight, 1)+" g").
		WithMeta("alpha_acid", fixed(alpha, 1)+"%").
		WithMeta("boil_time", fixed(minutes, 0)+" min"), nil
}

// srmColor is the upper bound (inclusive, whole SRM) of a named color band.
type srmColor struct {
	max  int
	name string
}

//nolint:gochecknoglobals // Immutable lookup table.
var srmColors = []srmColor{
	{3, "Pale Straw"},
	{6, "Straw to Pale Gold"},
	{9, "Deep Gold to Pale Amber"},
	{13, "Amber"},
	{17, "Deep Amber to Copper"},
	{20, "Copper to Light Brown"},
	{24, "Brown"},
	{30, "Dark Brown"},
	{40, "Very Dark Brown"},
}

// describeSRM names the color of a beer at srm.
func describeSRM(srm decimal.Decimal) string {
	whole := srm.Truncate(0)
	for _, c := range srmColors {
		if whole.LessThanOrEqual(decimal.NewFromInt(int64(c.max))) {
			return c.name
		}
	}
	return "Black"
}

//nolint:gochecknoglobals // Morey equation constants.
var (
	moreyFactor   = dec("1.4922")
	moreyExponent = 0.6859
	blackSRM      = decimal.NewFromInt(40)
)

// SRM estimates beer color with the Morey equation. Grain weight is in pounds,
// color in °Lovibond, and volume in gallons.
type SRM struct{ calc.Base }

func (SRM) ID() string       { return "srm" }
func (SRM) Name() string     { return "SRM Color Calculator" }
func (SRM) Category() string { return calc.CategoryBeer }
func (SRM) Description() string {
	return "Calculate beer color using Morey equation"
}

func (SRM) Validate(in calc.Input) error {
	return in.Require("grain_weight", "lovibond", "volume")
}

func (c SRM) Calculate(in calc.Input) (calc.Result, error) {
	if err := c.Validate(in); err != nil {
		return fail(err)
	}
	weight, err := in.PositiveDecimal("grain_weight")
	if err != nil {
		return fail(err)
	}
	lovibond, err := in.NonNegativeDecimal("lovibond", zero)
	if err != nil {
		return fail(err)
	}
	vol, err := in.PositiveDecimal("volume")
	if err != nil {
		return fail(err)
	}

	mcu := weight.Mul(lovibond).Div(vol)
	color, err := powf(mcu, moreyExponent)
	if err != nil {
		return fail(err)
	}
	srm := moreyFactor.Mul(color)

	res, err := output(srm, measure.SRM)
	if err != nil {
		return fail(err)
	}
	return res.
		WithMeta("srm", fixed(srm, 1)).
		WithMeta("mcu", fixed(mcu, 2)).
		WithMeta("color_description", describeSRM(srm)).
		WithMeta("formula", "Morey equation").
		WithWarningIf(srm.GreaterThan(blackSRM), "SRM >40 - beer will appear black"), nil
}

//nolint:gochecknoglobals // Formula constants.
var (
	mashThermal    = dec("0.2")
	hotStrikeC     = decimal.NewFromInt(80)
	coldStrikeC    = decimal.NewFromInt(50)
	thickMashRatio = dec("1.5")
	thinMashRatio  = decimal.NewFromInt(4)
)

// Mash computes strike water temperature and volume. Temperatures are in °C,
// grain weight in kg, and ratio in L/kg.
type Mash struct{ calc.Base }

func (Mash) ID() string       { return "mash" }
func (Mash) Name() string     { return "Mash Calculator" }
func (Mash) Category() string { return calc.CategoryBeer }
func (Mash) Description() string {
	return "Calculate strike water temperature and volume for mash"
}

func (Mash) Validate(in calc.Input) error {
	return in.Require("target_temp", "grain_temp", "grain_weight", "ratio")
}

func (c Mash) Calculate(in calc.Input) (calc.Result, error) {
	if err := c.Validate(in); err != nil {
		return fail(err)
	}
	target, err := in.Decimal("target_temp")
	if err != nil {
		return fail(err)
	}
	grainC, err := in.Decimal("grain_temp")
	if err != nil {
		return fail(err)
	}
	for _, t := range []decimal.Decimal{target, grainC} {
		if err := measure.ValidateCelsius(t); err != nil {
			return fail(err)
		}
	}
	weight, err := in.PositiveDecimal("grain_weight")
	if err != nil {
		return fail(err)
	}
	ratio, err := in.PositiveDecimal("ratio")
	if err != nil {
		return fail(err)
	}

	water := weight.Mul(ratio)
	strike := target.Add(mashThermal.Div(ratio).Mul(target.Sub(grainC)))

	res, err := output(strike, measure.Celsius)
	if err != nil {
		return fail(err)
	}
	return res.
		WithMeta("strike_temperature", fmt.Sprintf("%s°C / %s°F",
			fixed(strike, 1), fixed(measure.CelsiusToFahrenheit(strike), 1))).
		WithMeta("water_volume", fmt.Sprintf("%s L / %s gal", fixed(water, 2), fixed(measure.LitersToGallons(water), 2))).
		WithMeta("mash_ratio", fixed(ratio, 2)+" L/kg").
		WithMeta("target_mash_temp", fixed(target, 1)+"°C").
		WithMeta("grain_temperature", fixed(grainC, 1)+"°C").
		WithWarningIf(strike.GreaterThan(hotStrikeC), "Strike temp >80°C may extract tannins").
		WithWarningIf(strike.LessThan(coldStrikeC), "Strike temp <50°C may be too cold").
		WithWarningIf(ratio.LessThan(thickMashRatio), "Ratio <1.5 L/kg - very thick mash").
		WithWarningIf(ratio.GreaterThan(thinMashRatio), "Ratio >4 L/kg - very thin mash"), nil
}

// efficiencyGrade is the lower bound of a named efficiency band.
type efficiencyGrade struct {
	min  int64
	name string
}

//nolint:gochecknoglobals // Immutable lookup table, highest band first.
var efficiencyGrades = []efficiencyGrade{
	{80, "Excellent (80%+)"},
	{75, "Very Good (75-80%)"},
	{70, "Good (70-75%)"},
	{65, "Average (65-70%)"},
	{60, "Below Average (60-65%)"},
}

func gradeEfficiency(eff decimal.Decimal) string {
	for _, g := range efficiencyGrades {
		if eff.GreaterThanOrEqual(decimal.NewFromInt(g.min)) {
			return g.name
		}
	}
	return "Poor (<60%) - Check process"
}

// Efficiency computes brewhouse efficiency from grain potential (PPG, lb, gal)
// and the measured gravity.
type Efficiency struct{ calc.Base }

func (Efficiency) ID() string       { return "efficiency" }
func (Efficiency) Name() string     { return "Brewhouse Efficiency" }
func (Efficiency) Category() string { return calc.CategoryBeer }
func (Efficiency) Description() string {
	return "Calculate brewhouse efficiency from grain and gravity"
}

func (Efficiency) Validate(in calc.Input) error {
	return in.Require("grain_weight", "ppg", "measured_gravity", "volume")
}

func (c Efficiency) Calculate(in calc.Input) (calc.Result, error) {
	if err := c.Validate(in); err != nil {
		return fail(err)
	}
	weight, err := in.PositiveDecimal("grain_weight")
	if err != nil {
		return fail(err)
	}
	ppg, err := in.PositiveDecimal("ppg")
	if err != nil {
		return fail(err)
	}
	gravity, err := in.Gravity("measured_gravity")
	if err != nil {
		return fail(err)
	}
	vol, err := in.PositiveDecimal("volume")
	if err != nil {
		return fail(err)
	}

	pts := points(gravity)
	total := pts.Mul(vol)
	potential := weight.Mul(ppg)
	eff := percentOf(total, potential)
	// Readings below 1.000 yield a negative efficiency; report it as zero.
	reported := decimal.Max(eff, zero)
	// Efficiency above 100% means the inputs are inconsistent.
	if reported.GreaterThan(hundred) {
		return fail(measure.Validation("efficiency %s%% exceeds 100%%; check grain weight and PPG", fixed(eff, 1)))
	}

	res, err := output(reported, measure.Percent)
	if err != nil {
		return fail(err)
	}
	return res.
		WithMeta("efficiency", fixed(eff, 1)+"%").
		WithMeta("category", gradeEfficiency(eff)).
		WithMeta("gravity_points", fixed(pts, 1)).
		WithMeta("total_points", fixed(total, 1)).
		WithMeta("potential_points", fixed(potential, 1)).
		WithMeta("formula", "Brewhouse efficiency").
		WithWarningIf(eff.LessThan(decimal.NewFromInt(60)), "Efficiency <60% - check crush, mash pH, water chemistry").
		WithWarningIf(eff.GreaterThan(decimal.NewFromInt(85)), "Efficiency >85% - unusually high, verify measurements").
		WithWarningIf(gravity.LessThan(one), "Gravity <1.000 - check hydrometer calibration"), nil
}
