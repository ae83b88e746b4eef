package calculators

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rshade/mazerion/internal/calc"
	"github.com/rshade/mazerion/internal/measure"
)

//nolint:gochecknoglobals // Formula constants.
var (
	gramsPerTsp       = decimal.NewFromInt(5)
	kmetaPerLiter     = dec("0.5")
	sorbatePerLiter   = dec("0.75")
	sorbateMaxPH      = dec("3.6")
	kmetaMgSO2PerGram = decimal.NewFromInt(576)
	highSO2Target     = decimal.NewFromInt(80)
	honeyKgPerLiter   = dec("1.425")
	honeySGPerKgLiter = dec("0.292")
)

// Stabilization doses potassium metabisulfite and sorbate for a batch.
type Stabilization struct{ calc.Base }

func (Stabilization) ID() string       { return "stabilization" }
func (Stabilization) Name() string     { return "Stabilization" }
func (Stabilization) Category() string { return calc.CategoryFinishing }
func (Stabilization) Description() string {
	return "Calculate K-meta and sorbate for stabilization"
}

func (Stabilization) Validate(in calc.Input) error {
	return in.Require("volume")
}

func (c Stabilization) Calculate(in calc.Input) (calc.Result, error) {
	if err := c.Validate(in); err != nil {
		return fail(err)
	}
	vol, err := in.PositiveDecimal("volume")
	if err != nil {
		return fail(err)
	}
	kmeta := vol.Mul(kmetaPerLiter)
	sorbate := vol.Mul(sorbatePerLiter)

	res, err := output(kmeta, measure.Grams)
	if err != nil {
		return fail(err)
	}
	res = res.
		WithMeta("kmeta_g", fixed(kmeta, 1)+" g").
		WithMeta("kmeta_tsp", fixed(kmeta.Div(gramsPerTsp), 2)+" tsp").
		WithMeta("sorbate_g", fixed(sorbate, 1)+" g").
		WithMeta("sorbate_tsp", fixed(sorbate.Div(gramsPerTsp), 2)+" tsp").
		WithMeta("volume_L", vol.String()+" L")
	if ph, err := in.Measurement(measure.PH); err == nil {
		res = res.WithWarningIf(ph.Value.GreaterThan(sorbateMaxPH),
			"pH > 3.6 - sorbate less effective, may produce geranium off-flavor")
	}
	return res.
		WithWarning("Add K-meta 24 hours before sorbate to kill remaining yeast").
		WithWarning("Stabilization prevents re-fermentation for backsweetening"), nil
}

// acid describes an acid's strength in g/L per 0.1 pH drop.
type acid struct {
	strength decimal.Decimal
	label    string
}

//nolint:gochecknoglobals // Immutable lookup table.
var acids = map[string]acid{
	"tartaric": {dec("0.15"), "Tartaric Acid (wine standard, strongest)"},
	"citric":   {dec("0.17"), "Citric Acid (bright, fruity character)"},
	"malic":    {dec("0.19"), "Malic Acid (soft, apple-like)"},
	"lactic":   {dec("0.22"), "Lactic Acid (smooth, creamy)"},
}

// AcidAddition computes the acid needed to lower pH to a target.
type AcidAddition struct{ calc.Base }

func (AcidAddition) ID() string       { return "acid_addition" }
func (AcidAddition) Name() string     { return "Acid Addition" }
func (AcidAddition) Category() string { return calc.CategoryFinishing }
func (AcidAddition) Description() string {
	return "Calculate acid additions to adjust pH - accounts for different acid strengths"
}

func (AcidAddition) Validate(in calc.Input) error {
	if err := in.RequireMeasurement(measure.PH); err != nil {
		return err
	}
	return in.Require("volume", "target_ph")
}

func (c AcidAddition) Calculate(in calc.Input) (calc.Result, error) {
	if err := c.Validate(in); err != nil {
		return fail(err)
	}
	phM, _ := in.Measurement(measure.PH)
	current := phM.Value
	vol, err := in.PositiveDecimal("volume")
	if err != nil {
		return fail(err)
	}
	target, err := in.Decimal("target_ph")
	if err != nil {
		return fail(err)
	}
	if err := measure.ValidatePH(target); err != nil {
		return fail(err)
	}
	if target.GreaterThanOrEqual(current) {
		return fail(measure.Validation("target pH must be lower than current pH (acid lowers pH)"))
	}
	kind := in.Choice("acid_type", "tartaric")
	a, ok := acids[kind]
	if !ok {
		return fail(measure.Validation("unknown acid_type %q (tartaric, citric, malic, lactic)", kind))
	}

	drop := current.Sub(target)
	grams := vol.Mul(drop).Mul(a.strength).Mul(ten)

	res, err := output(grams, measure.Grams)
	if err != nil {
		return fail(err)
	}
	return res.
		WithWarningIf(drop.GreaterThan(dec("0.5")), "Large pH drop (>0.5) - add in stages and taste between additions").
		WithWarningIf(drop.GreaterThan(one), "Very large pH drop (>1.0) - must add in multiple stages over days").
		WithWarningIf(target.LessThan(decimal.NewFromInt(3)), "Target pH <3.0 - will taste very tart/sour").
		WithWarning("Always add acid gradually - easy to add, impossible to remove").
		WithMeta("acid_type", a.label).
		WithMeta("acid_needed_g", fixed(grams, 2)).
		WithMeta("acid_needed_tsp", fixed(grams.Div(gramsPerTsp), 2)).
		WithMeta("current_ph", fixed(current, 2)).
		WithMeta("target_ph", fixed(target, 2)).
		WithMeta("ph_change", fixed(drop, 2)).
		WithMeta("strength_factor", fixed(a.strength, 2)).
		WithMeta("volume_liters", fixed(vol, 2)), nil
}

// Sulfite doses potassium metabisulfite for a free SO2 target.
type Sulfite struct{ calc.Base }

func (Sulfite) ID() string       { return "sulfite" }
func (Sulfite) Name() string     { return "Sulfite Calculator" }
func (Sulfite) Category() string { return calc.CategoryFinishing }
func (Sulfite) Description() string {
	return "Calculate K-meta additions with pH-dependent effectiveness"
}

func (Sulfite) Validate(in calc.Input) error {
	if err := in.RequireMeasurement(measure.PH); err != nil {
		return err
	}
	return in.Require("volume", "target_free_so2")
}

// so2Effectiveness grades how well free SO2 protects at a given pH.
func so2Effectiveness(ph decimal.Decimal) string {
	switch {
	case ph.LessThan(dec("3.0")):
		return "Very High (pH < 3.0)"
	case ph.LessThan(dec("3.5")):
		return "High (pH 3.0-3.5)"
	case ph.LessThan(dec("3.8")):
		return "Moderate (pH 3.5-3.8)"
	default:
		return "Low (pH > 3.8) - Consider adding more or lowering pH"
	}
}

func (c Sulfite) Calculate(in calc.Input) (calc.Result, error) {
	if err := c.Validate(in); err != nil {
		return fail(err)
	}
	phM, _ := in.Measurement(measure.PH)
	ph := phM.Value
	vol, err := in.PositiveDecimal("volume")
	if err != nil {
		return fail(err)
	}
	target, err := in.NonNegativeDecimal("target_free_so2", zero)
	if err != nil {
		return fail(err)
	}

	// ppm is mg/L; one gram of K-meta releases 576 mg of SO2.
	kmeta := vol.Mul(target).Div(kmetaMgSO2PerGram)
	res, err := output(kmeta, measure.Grams)
	if err != nil {
		return fail(err)
	}
	return res.
		WithMeta("kmeta_g", fixed(kmeta, 2)+" g").
		WithMeta("kmeta_tsp", fixed(kmeta.Div(gramsPerTsp), 2)+" tsp").
		WithMeta("volume_L", fixed(vol, 2)+" L").
		WithMeta("target_so2_ppm", target.String()+" ppm").
		WithMeta("ph", fixed(ph, 2)).
		WithMeta("effectiveness", so2Effectiveness(ph)).
		WithMeta("tip", "Add K-meta 24 hours before sorbate. Dissolve in small amount of water first.").
		WithWarningIf(ph.GreaterThan(dec("3.8")), "High pH reduces sulfite effectiveness - consider adjusting pH first").
		WithWarningIf(target.GreaterThan(highSO2Target), "High SO₂ target (>80 ppm) - may affect aroma and flavor"), nil
}

// Backsweetening computes the honey needed to raise a finished batch to a target gravity.
type Backsweetening struct{ calc.Base }

func (Backsweetening) ID() string       { return "backsweetening" }
func (Backsweetening) Name() string     { return "Backsweetening" }
func (Backsweetening) Category() string { return calc.CategoryFinishing }
func (Backsweetening) Description() string {
	return "Calculate sweetener needed to reach target gravity"
}

func (Backsweetening) Validate(in calc.Input) error {
	if err := in.RequireMeasurement(measure.SpecificGravity); err != nil {
		return err
	}
	return in.Require("volume", "target_sg")
}

func (c Backsweetening) Calculate(in calc.Input) (calc.Result, error) {
	if err := c.Validate(in); err != nil {
		return fail(err)
	}
	sgM, _ := in.Measurement(measure.SpecificGravity)
	current := sgM.Value
	vol, err := in.PositiveDecimal("volume")
	if err != nil {
		return fail(err)
	}
	target, err := in.Gravity("target_sg")
	if err != nil {
		return fail(err)
	}
	if target.LessThanOrEqual(current) {
		return fail(measure.Validation("target gravity must be greater than current gravity"))
	}

	diff := target.Sub(current)
	kg := vol.Mul(diff).Div(honeySGPerKgLiter)
	honeyL := kg.Div(honeyKgPerLiter)
	grams := kg.Mul(thousand)

	res, err := output(grams, measure.Grams)
	if err != nil {
		return fail(err)
	}
	return res.
		WithWarningIf(diff.GreaterThan(dec("0.040")), "Large gravity increase (>0.040) - consider backsweetening in stages").
		WithWarningIf(target.GreaterThan(dec("1.100")), "Final gravity >1.100 - ensure stabilization before backsweetening").
		WithMeta("honey_needed", fmt.Sprintf("%s kg (%s g)", fixed(kg, 2), fixed(grams, 0))).
		WithMeta("current_gravity", fixed(current, 3)).
		WithMeta("target_gravity", fixed(target, 3)).
		WithMeta("gravity_increase", fixed(diff, 3)).
		WithMeta("current_volume", fixed(vol, 2)+" L").
		WithMeta("honey_volume", fixed(honeyL, 2)+" L").
		WithMeta("final_volume", fixed(vol.Add(honeyL), 2)+" L").
		WithMeta("tip", "Always stabilize (sorbate + sulfite) before backsweetening to prevent refermentation"), nil
}

//nolint:gochecknoglobals // Formula constants.
var (
	lethalRateBase   = 1.393
	pasteurRefC      = decimal.NewFromInt(60)
	pasteurMaxC      = decimal.NewFromInt(75)
	pasteurHotC      = decimal.NewFromInt(70)
	defaultTargetPU  = decimal.NewFromInt(50)
	longHoldMinutes  = decimal.NewFromInt(30)
	shortHoldMinutes = decimal.NewFromInt(5)
	secondsPerMinute = decimal.NewFromInt(60)
)

// Pasteurization computes the in-bottle hold time needed to reach a PU target,
// where one PU is one minute at 60°C and the lethal rate is 1.393^(T-60).
type Pasteurization struct{ calc.Base }

func (Pasteurization) ID() string       { return "pasteurization" }
func (Pasteurization) Name() string     { return "Pasteurization" }
func (Pasteurization) Category() string { return calc.CategoryFinishing }
func (Pasteurization) Description() string {
	return "Calculate in-bottle pasteurization time using Pasteurization Units"
}

func (Pasteurization) Validate(in calc.Input) error {
	return in.Require("temperature")
}

// puLevel names the common PU targets.
func puLevel(pu decimal.Decimal) (string, bool) {
	switch {
	case pu.Equal(decimal.NewFromInt(30)):
		return "30 PU: Light pasteurization (minimal yeast control)", true
	case pu.Equal(defaultTargetPU):
		return "50 PU: Standard pasteurization (good yeast control)", true
	case pu.GreaterThanOrEqual(decimal.NewFromInt(76)):
		return "76+ PU: Heavy pasteurization (maximum yeast kill)", true
	}
	return "", false
}

func (c Pasteurization) Calculate(in calc.Input) (calc.Result, error) {
	if err := c.Validate(in); err != nil {
		return fail(err)
	}
	temp, err := in.Decimal("temperature")
	if err != nil {
		return fail(err)
	}
	target, err := in.OptionalDecimal("target_pu", defaultTargetPU)
	if err != nil {
		return fail(err)
	}
	if !target.IsPositive() {
		return fail(measure.Validation("target_pu must be greater than zero"))
	}
	if temp.LessThan(pasteurRefC) {
		return fail(measure.Validation("temperature too low for pasteurization (min 60°C / 140°F)"))
	}
	if temp.GreaterThan(pasteurMaxC) {
		return fail(measure.Validation("temperature too high - risk of flavor damage and bottle bombs (max 75°C / 167°F)"))
	}

	rate, err := powf(decimal.NewFromFloat(lethalRateBase), temp.Sub(pasteurRefC).InexactFloat64())
	if err != nil {
		return fail(err)
	}
	hold := target.Div(rate)

	res, err := output(hold, measure.Minutes)
	if err != nil {
		return fail(err)
	}
	res = res.
		WithMeta("hold_time_min", fixed(hold, 2)+" minutes").
		WithMeta("hold_time_sec", fixed(hold.Mul(secondsPerMinute), 0)+" seconds").
		WithMeta("temperature_c", fixed(temp, 1)+"°C").
		WithMeta("temperature_f", fixed(measure.CelsiusToFahrenheit(temp), 1)+"°F").
		WithMeta("target_pu", target.String()+" PU").
		WithMeta("lethal_rate", fixed(rate, 2)+" PU/min").
		WithMeta("method", "In-bottle pasteurization (PU-based hot water bath)").
		WithMeta("calculation", fmt.Sprintf("PU = t × 1.393^(T-60) = %s × %s = %s",
			fixed(hold, 1), fixed(rate, 2), fixed(hold.Mul(rate), 1))).
		WithMeta("purpose", "Beverage stabilization: primarily yeast control to prevent refermentation/over-carbonation").
		WithMeta("safety_note", "Reduces spoilage microbes (NOT sterilization)").
		WithWarning("Hold time starts when the internal liquid reaches target temp (use a probed bottle)").
		WithWarning("Use champagne bottles or bottles rated for pasteurization").
		WithWarning("Monitor temperature closely - exceeding temp risks flavor damage and bottle explosions").
		WithWarningIf(temp.GreaterThanOrEqual(pasteurHotC), "High temperature (≥70°C) - watch for caramelization and off-flavors")
	if level, ok := puLevel(target); ok {
		res = res.WithMeta("pu_level", level)
	}
	switch {
	case hold.GreaterThan(longHoldMinutes):
		res = res.WithWarning("Long hold time - consider higher temperature for shorter duration")
	case hold.LessThan(shortHoldMinutes):
		res = res.WithWarning("Very short hold time - ensure accurate temperature control")
	}
	return res, nil
}

//nolint:gochecknoglobals // Immutable lookup tables.
var (
	tanninDoses = map[string]decimal.Decimal{
		"low":    dec("0.05"),
		"medium": dec("0.10"),
		"high":   dec("0.15"),
	}
	tanninTypes = map[string]string{
		"wine_tannin":    "Wine Tannin (grape-derived, general purpose)",
		"ft_blanc":       "FT Blanc (oak, for white wines/meads)",
		"tannin_riche":   "Tannin Riche (adds body without astringency)",
		"tannin_complex": "Tannin Complex (mouthfeel enhancement)",
	}
)

// Tannin doses tannin for body and mouthfeel.
type Tannin struct{ calc.Base }

func (Tannin) ID() string       { return "tannin" }
func (Tannin) Name() string     { return "Tannin Addition" }
func (Tannin) Category() string { return calc.CategoryFinishing }
func (Tannin) Description() string {
	return "Calculate tannin additions for body and mouthfeel"
}

func (Tannin) Validate(in calc.Input) error {
	return in.Require("volume")
}

func (c Tannin) Calculate(in calc.Input) (calc.Result, error) {
	if err := c.Validate(in); err != nil {
		return fail(err)
	}
	vol, err := in.PositiveDecimal("volume")
	if err != nil {
		return fail(err)
	}
	level := in.Choice("tannin_level", "medium")
	dose, ok := tanninDoses[level]
	if !ok {
		return fail(measure.Validation("unknown tannin_level %q (low, medium, high)", level))
	}
	kind := in.Choice("tannin_type", "wine_tannin")
	label, ok := tanninTypes[kind]
	if !ok {
		return fail(measure.Validation("unknown tannin_type %q", kind))
	}

	grams := vol.Mul(dose)
	res, err := output(grams, measure.Grams)
	if err != nil {
		return fail(err)
	}
	return res.
		WithMeta("tannin_g", fixed(grams, 2)+" g").
		WithMeta("tannin_tsp", fixed(grams.Div(gramsPerTsp), 3)+" tsp").
		WithMeta("tannin_type", label).
		WithMeta("tannin_level", level).
		WithMeta("dosage", fixed(dose, 2)+" g/L").
		WithWarning("Add gradually, taste after 24 hours - easy to over-tannin").
		WithWarning("Tannin adds astringency/dryness - use sparingly in sweet meads"), nil
}

//nolint:gochecknoglobals // Formula constants.
var (
	defaultBottleML   = decimal.NewFromInt(750)
	defaultLossPct    = decimal.NewFromInt(3)
	bottlesPerCase    = decimal.NewFromInt(12)
	smallBottleML     = decimal.NewFromInt(375)
	bottleLeftoverCap = decimal.NewFromInt(200)
)

// Bottling counts the full bottles a batch fills after racking losses.
type Bottling struct{ calc.Base }

func (Bottling) ID() string       { return "bottling" }
func (Bottling) Name() string     { return "Bottling Calculator" }
func (Bottling) Category() string { return calc.CategoryFinishing }
func (Bottling) Description() string {
	return "Calculate bottles needed accounting for losses"
}

func (Bottling) Validate(in calc.Input) error {
	return in.Require("volume")
}

func (c Bottling) Calculate(in calc.Input) (calc.Result, error) {
	if err := c.Validate(in); err != nil {
		return fail(err)
	}
	vol, err := in.PositiveDecimal("volume")
	if err != nil {
		return fail(err)
	}
	bottleML, err := in.OptionalDecimal("bottle_size", defaultBottleML)
	if err != nil {
		return fail(err)
	}
	if !bottleML.IsPositive() {
		return fail(measure.Validation("bottle_size must be greater than zero"))
	}
	loss, err := in.OptionalDecimal("loss_percent", defaultLossPct)
	if err != nil {
		return fail(err)
	}
	if err := measure.ValidatePercent(loss); err != nil {
		return fail(err)
	}

	usable := vol.Mul(one.Sub(loss.Div(hundred)))
	usableML := usable.Mul(thousand)
	bottles := usableML.Div(bottleML).Floor()
	leftover := usableML.Sub(bottles.Mul(bottleML))
	cases := bottles.Div(bottlesPerCase).Floor()
	loose := bottles.Mod(bottlesPerCase)

	res, err := output(bottles, measure.Count)
	if err != nil {
		return fail(err)
	}
	return res.
		WithMeta("bottle_size_ml", bottleML.String()+" mL").
		WithMeta("bottles_needed", fixed(bottles, 0)+" bottles").
		WithMeta("cases_12", fmt.Sprintf("%s cases + %s loose", cases, loose)).
		WithMeta("usable_volume_L", fixed(usable, 2)+" L").
		WithMeta("loss_L", fmt.Sprintf("%s L (%s%%)", fixed(vol.Sub(usable), 2), loss)).
		WithMeta("leftover_ml", fixed(leftover, 0)+" mL").
		WithWarningIf(leftover.GreaterThan(bottleLeftoverCap), "Significant leftover - consider adding a smaller bottle").
		WithWarningIf(bottleML.LessThan(smallBottleML), "Small bottles - consider aging potential and oxidation"), nil
}
