package calculators

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rshade/mazerion/internal/calc"
	"github.com/rshade/mazerion/internal/measure"
)

// tosnaStep is one nutrient addition of a TOSNA schedule.
type tosnaStep struct {
	key    string
	share  decimal.Decimal
	label  string
	timing string
}

// tosnaProtocol is a named TOSNA schedule. The shares sum to one.
type tosnaProtocol struct {
	name  string
	steps []tosnaStep
}

//nolint:gochecknoglobals // Immutable lookup tables.
var (
	tosnaProtocols = map[string]tosnaProtocol{
		"tosna_1": {"TOSNA 1.0", []tosnaStep{
			{"addition_1_24hrs", dec("0.33"), "33%", "At pitch + 24 hours"},
			{"addition_2_day_3", dec("0.33"), "33%", "Day 3"},
			{"addition_3_day_7", dec("0.34"), "34%", "Day 7"},
		}},
		"tosna_2": {"TOSNA 2.0", []tosnaStep{
			{"addition_1_24hrs", dec("0.25"), "25%", "24 hours after pitch"},
			{"addition_2_1/3_break", dec("0.50"), "50%", "1/3 sugar break (~1.070)"},
			{"addition_3_2/3_break", dec("0.25"), "25%", "2/3 sugar break (~1.040)"},
		}},
		"tosna_3": {"TOSNA 3.0", []tosnaStep{
			{"addition_1_24hrs", dec("0.05"), "5%", "24 hours after pitch"},
			{"addition_2_48hrs", dec("0.20"), "20%", "48 hours after pitch"},
			{"addition_3_1/3_break", dec("0.50"), "50%", "1/3 sugar break (~1.070)"},
			{"addition_4_2/3_break", dec("0.25"), "25%", "2/3 sugar break (~1.040)"},
		}},
	}

	// yanFactors is the YAN requirement in ppm per gravity point.
	yanFactors = map[string]decimal.Decimal{
		"low":    dec("0.9"),
		"medium": dec("1.2"),
		"high":   dec("1.5"),
	}

	abvToOGDivisor    = dec("111.5625")
	fermaidOPPMPerGL  = decimal.NewFromInt(24)
	nutritionMinABV   = decimal.NewFromInt(5)
	nutritionMaxABV   = decimal.NewFromInt(20)
	highGravityTOSNA3 = dec("1.100")
)

// Nutrition builds a TOSNA Fermaid-O schedule for a target ABV.
type Nutrition struct{ calc.Base }

func (Nutrition) ID() string       { return "nutrition" }
func (Nutrition) Name() string     { return "TOSNA Nutrition" }
func (Nutrition) Category() string { return calc.CategoryBrewing }
func (Nutrition) Description() string {
	return "Calculate TOSNA yeast nutrition schedule (1.0, 2.0, or 3.0 protocol)"
}

// Validate requires volume and target_abv, with the ABV between 5 and 20%.
func (Nutrition) Validate(in calc.Input) error {
	if err := in.Require("volume", "target_abv"); err != nil {
		return err
	}
	abv, err := in.Decimal("target_abv")
	if err != nil {
		return err
	}
	if abv.LessThan(nutritionMinABV) || abv.GreaterThan(nutritionMaxABV) {
		return measure.Validation("target ABV should be between 5-20%%")
	}
	return nil
}

func (c Nutrition) Calculate(in calc.Input) (calc.Result, error) {
	if err := c.Validate(in); err != nil {
		return fail(err)
	}
	vol, err := in.PositiveDecimal("volume")
	if err != nil {
		return fail(err)
	}
	abv, err := in.Decimal("target_abv")
	if err != nil {
		return fail(err)
	}
	requirement := in.Choice("yn_requirement", "medium")
	factor, ok := yanFactors[requirement]
	if !ok {
		return fail(measure.Validation("unknown yn_requirement %q (low, medium, high)", requirement))
	}
	protocolKey := in.Choice("protocol", "tosna_2")
	protocol, ok := tosnaProtocols[protocolKey]
	if !ok {
		return fail(measure.Validation("unknown protocol %q (tosna_1, tosna_2, tosna_3)", protocolKey))
	}

	og := one.Add(abv.Div(abvToOGDivisor))
	yan := points(og).Mul(factor)
	perLiter := yan.Div(fermaidOPPMPerGL)
	total := perLiter.Mul(vol)

	res, err := output(total, measure.Grams)
	if err != nil {
		return fail(err)
	}
	res = res.
		WithMeta("protocol", protocol.name).
		WithMeta("estimated_og", fixed(og, 3)).
		WithMeta("target_yan_ppm", fixed(yan, 0))

	remaining := total
	for i, step := range protocol.steps {
		amount := total.Mul(step.share)
		if i == len(protocol.steps)-1 {
			// The last addition absorbs rounding so the schedule sums to the total.
			amount = remaining
		}
		remaining = remaining.Sub(amount)
		res = res.WithMeta(step.key, fmt.Sprintf("%s g (%s) - %s", fixed(amount, 2), step.label, step.timing))
	}

	return res.
		WithMeta("total_fermaid_o", fixed(total, 2)+" g").
		WithWarningIf(protocolKey == "tosna_3" && og.LessThan(highGravityTOSNA3),
			"TOSNA 3.0 designed for high-gravity (OG >1.100) - consider TOSNA 2.0").
		WithWarningIf(protocolKey == "tosna_1",
			"TOSNA 1.0 is older protocol - TOSNA 2.0 or 3.0 recommended for better results").
		WithWarningIf(abv.GreaterThan(decimal.NewFromInt(18)), "ABV >18% - consider staggered yeast pitch or TOSNA 3.0").
		WithWarningIf(yan.GreaterThan(decimal.NewFromInt(400)), "YAN >400ppm - high nitrogen may cause off-flavors").
		WithWarningIf(yan.LessThan(decimal.NewFromInt(150)), "YAN <150ppm - may result in sluggish fermentation"), nil
}

// pitchRates are in million cells per mL per °P.
//
//nolint:gochecknoglobals // Immutable lookup table.
var pitchRates = map[string]decimal.Decimal{
	"ale":   dec("0.75"),
	"lager": dec("1.5"),
	"mead":  dec("0.5"),
}

//nolint:gochecknoglobals // Formula constants.
var (
	cellsPerPacket = decimal.NewFromInt(200)
	gramsPerPacket = decimal.NewFromInt(5)
)

// YeastPitch computes how many yeast cells a batch needs.
type YeastPitch struct{ calc.Base }

func (YeastPitch) ID() string       { return "yeast_pitch" }
func (YeastPitch) Name() string     { return "Yeast Pitch Rate" }
func (YeastPitch) Category() string { return calc.CategoryBrewing }
func (YeastPitch) Description() string {
	return "Calculate yeast pitch rate for optimal fermentation"
}

func (YeastPitch) Validate(in calc.Input) error {
	return in.Require("volume", "og")
}

func (c YeastPitch) Calculate(in calc.Input) (calc.Result, error) {
	if err := c.Validate(in); err != nil {
		return fail(err)
	}
	vol, err := in.PositiveDecimal("volume")
	if err != nil {
		return fail(err)
	}
	og, err := in.Gravity("og")
	if err != nil {
		return fail(err)
	}
	yeastType := in.Choice("yeast_type", "ale")
	rate, ok := pitchRates[yeastType]
	if !ok {
		return fail(measure.Validation("unknown yeast_type %q (ale, lager, mead)", yeastType))
	}

	volML := vol.Mul(thousand)
	plato := og.Sub(one).Mul(extractPerPoint)
	if plato.IsNegative() {
		plato = zero
	}
	cells := volML.Mul(plato).Mul(rate).Div(thousand)
	packets := cells.Div(cellsPerPacket)

	res, err := output(cells, measure.BillionCells)
	if err != nil {
		return fail(err)
	}
	return res.
		WithMeta("yeast_type", yeastType).
		WithMeta("cells_billion", fixed(cells, 0)+" billion cells").
		WithMeta("packets_5g", fixed(packets, 1)+" packets (5g ea)").
		WithMeta("grams_dry", fixed(packets.Mul(gramsPerPacket), 1)+" g").
		WithMeta("pitch_rate", fixed(rate, 2)+" M cells/mL/°P").
		WithMeta("plato", fixed(plato, 1)+"°P").
		WithWarningIf(packets.GreaterThan(gramsPerPacket), "High cell count needed - consider making a starter"), nil
}

//nolint:gochecknoglobals // Formula constants.
var (
	starterGrowth        = decimal.NewFromInt(3)
	cellsPerStarterLiter = decimal.NewFromInt(100)
	dmePerStarterLiter   = decimal.NewFromInt(100)
	defaultPackCells     = decimal.NewFromInt(100)
)

// YeastStarter sizes a starter to grow the missing yeast cells.
type YeastStarter struct{ calc.Base }

func (YeastStarter) ID() string       { return "yeast_starter" }
func (YeastStarter) Name() string     { return "Yeast Starter" }
func (YeastStarter) Category() string { return calc.CategoryBrewing }
func (YeastStarter) Description() string {
	return "Calculate yeast starter size and DME requirements"
}

func (YeastStarter) Validate(in calc.Input) error {
	return in.Require("cells_needed")
}

func (c YeastStarter) Calculate(in calc.Input) (calc.Result, error) {
	if err := c.Validate(in); err != nil {
		return fail(err)
	}
	target, err := in.PositiveDecimal("cells_needed")
	if err != nil {
		return fail(err)
	}
	available, err := in.NonNegativeDecimal("cells_available", defaultPackCells)
	if err != nil {
		return fail(err)
	}
	toGrow := target.Sub(available)
	if !toGrow.IsPositive() {
		return fail(measure.Validation("already have enough cells, no starter needed"))
	}

	liters := toGrow.Div(cellsPerStarterLiter)
	dme := liters.Mul(dmePerStarterLiter)
	final := available.Mul(starterGrowth)

	res, err := output(liters.Mul(thousand), measure.Milliliters)
	if err != nil {
		return fail(err)
	}
	return res.
		WithMeta("starter_volume_L", fixed(liters, 1)+" L").
		WithMeta("dme_needed_g", fmt.Sprintf("%s g (%s oz)", fixed(dme, 0), fixed(measure.GramsToOunces(dme), 2))).
		WithMeta("starting_cells", available.String()+" billion").
		WithMeta("target_cells", target.String()+" billion").
		WithMeta("expected_final", fixed(final, 0)+" billion").
		WithMeta("target_sg", "1.040").
		WithWarningIf(final.LessThan(target), "May need multiple starter steps to reach target cell count").
		WithWarningIf(liters.GreaterThan(decimal.NewFromInt(5)), "Large starter volume - consider stepped starter approach"), nil
}

//nolint:gochecknoglobals // Formula constants.
var (
	pointsPerDay      = decimal.NewFromInt(10)
	coolFermentC      = decimal.NewFromInt(18)
	warmFermentC      = decimal.NewFromInt(22)
	conditioningDays  = decimal.NewFromInt(5)
	longFermentDays   = decimal.NewFromInt(21)
	slowFermentTempC  = decimal.NewFromInt(15)
	defaultFermentC   = decimal.NewFromInt(20)
	yeastSpeedFactors = map[string]decimal.Decimal{
		"fast":   dec("0.8"),
		"medium": one,
		"slow":   dec("1.2"),
	}
)

// FermentationTimeline estimates primary fermentation length from the gravity drop.
type FermentationTimeline struct{ calc.Base }

func (FermentationTimeline) ID() string       { return "fermentation_timeline" }
func (FermentationTimeline) Name() string     { return "Fermentation Timeline" }
func (FermentationTimeline) Category() string { return calc.CategoryBrewing }
func (FermentationTimeline) Description() string {
	return "Estimate fermentation duration based on parameters"
}

func (FermentationTimeline) Validate(in calc.Input) error {
	return in.Require("og", "fg")
}

func (c FermentationTimeline) Calculate(in calc.Input) (calc.Result, error) {
	if err := c.Validate(in); err != nil {
		return fail(err)
	}
	og, err := in.Gravity("og")
	if err != nil {
		return fail(err)
	}
	fg, err := in.Gravity("fg")
	if err != nil {
		return fail(err)
	}
	if og.LessThan(fg) {
		return fail(measure.Validation("OG must be >= FG"))
	}
	temp, err := in.OptionalDecimal("temperature", defaultFermentC)
	if err != nil {
		return fail(err)
	}
	if err := measure.ValidateCelsius(temp); err != nil {
		return fail(err)
	}
	speed := in.Choice("yeast_speed", "medium")
	yeastFactor, ok := yeastSpeedFactors[speed]
	if !ok {
		return fail(measure.Validation("unknown yeast_speed %q (fast, medium, slow)", speed))
	}

	drop := og.Sub(fg).Mul(gravityPts)
	tempFactor := one
	switch {
	case temp.LessThan(coolFermentC):
		tempFactor = dec("1.4")
	case temp.GreaterThan(warmFermentC):
		tempFactor = dec("0.8")
	}
	days := drop.Div(pointsPerDay).Mul(tempFactor).Mul(yeastFactor)

	res, err := output(days, measure.Days)
	if err != nil {
		return fail(err)
	}
	return res.
		WithWarningIf(days.GreaterThan(longFermentDays), "Long fermentation - check for stuck fermentation").
		WithWarningIf(temp.LessThan(slowFermentTempC), "Temperature is low - fermentation may be very slow").
		WithMeta("primary_fermentation", fixed(days, 0)+" days").
		WithMeta("conditioning", conditioningDays.String()+" days").
		WithMeta("total_time", fixed(days.Add(conditioningDays), 0)+" days").
		WithMeta("gravity_points", fixed(drop, 0)).
		WithMeta("temperature", temp.String()+"°C"), nil
}
