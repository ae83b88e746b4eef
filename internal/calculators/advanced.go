package calculators

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rshade/mazerion/internal/calc"
	"github.com/rshade/mazerion/internal/measure"
)

// Refractometer corrects a refractometer reading taken in the presence of alcohol
// using the Terrill cubic. The original Brix is supplied as a measurement and the
// current reading as the current_brix parameter.
type Refractometer struct{ calc.Base }

func (Refractometer) ID() string       { return "refractometer" }
func (Refractometer) Name() string     { return "Refractometer Correction" }
func (Refractometer) Category() string { return calc.CategoryAdvanced }
func (Refractometer) Description() string {
	return "Correct refractometer readings for alcohol (Terrill cubic)"
}

func (Refractometer) Validate(in calc.Input) error {
	if err := in.RequireMeasurement(measure.Brix); err != nil {
		return err
	}
	return in.Require("current_brix")
}

func (c Refractometer) Calculate(in calc.Input) (calc.Result, error) {
	if err := c.Validate(in); err != nil {
		return fail(err)
	}
	obM, _ := in.Measurement(measure.Brix)
	ob := obM.Value
	cb, err := in.Decimal("current_brix")
	if err != nil {
		return fail(err)
	}
	if err := measure.ValidateBrix(cb); err != nil {
		return fail(err)
	}
	if !ob.IsPositive() {
		return fail(measure.Validation("original Brix must be greater than zero"))
	}
	if cb.GreaterThan(ob) {
		return fail(measure.Validation("current Brix cannot exceed original Brix"))
	}

	ob2, cb2 := ob.Mul(ob), cb.Mul(cb)
	sg := one.
		Sub(dec("0.0044993").Mul(ob)).
		Add(dec("0.011774").Mul(cb)).
		Add(dec("0.00027581").Mul(ob2)).
		Sub(dec("0.0012717").Mul(cb2)).
		Sub(dec("0.0000072800").Mul(ob2.Mul(ob))).
		Add(dec("0.000063293").Mul(cb2.Mul(cb)))

	res, err := output(sg, measure.SpecificGravity)
	if err != nil {
		return fail(err)
	}
	attenuation := percentOf(ob.Sub(cb), ob)
	switch {
	case attenuation.GreaterThan(decimal.NewFromInt(90)):
		res = res.WithWarning("Very high attenuation - verify fermentation complete")
	case attenuation.LessThan(decimal.NewFromInt(30)):
		res = res.WithWarning("Low attenuation - fermentation may still be active")
	}
	return res.
		WithMeta("original_brix", fixed(ob, 2)+"°Bx").
		WithMeta("current_brix", fixed(cb, 2)+"°Bx").
		WithMeta("apparent_attenuation", fixed(attenuation, 1)+"%").
		WithMeta("formula", "Terrill cubic equation"), nil
}

//nolint:gochecknoglobals // Formula constants.
var (
	extractPerPoint = decimal.NewFromInt(250)
	realExtractOG   = dec("0.1808")
	realExtractFG   = dec("0.8192")
	lowAttenuation  = decimal.NewFromInt(65)
	highAttenuation = decimal.NewFromInt(85)
)

// Attenuation computes apparent and real attenuation with the ASBC formulas.
type Attenuation struct{ calc.Base }

func (Attenuation) ID() string       { return "attenuation" }
func (Attenuation) Name() string     { return "Attenuation Calculator" }
func (Attenuation) Category() string { return calc.CategoryAdvanced }
func (Attenuation) Description() string {
	return "Calculate apparent and real attenuation (ASBC formulas)"
}

func (Attenuation) Validate(in calc.Input) error {
	return in.Require("og", "fg")
}

func (c Attenuation) Calculate(in calc.Input) (calc.Result, error) {
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
	if fg.GreaterThan(og) {
		return fail(measure.Validation("FG cannot be greater than OG"))
	}
	if og.LessThanOrEqual(one) {
		return fail(measure.Validation("OG must be greater than 1.000"))
	}

	apparent := og.Sub(fg).Div(og.Sub(one)).Mul(hundred)
	p0 := og.Sub(one).Mul(extractPerPoint)
	pf := fg.Sub(one).Mul(extractPerPoint)
	re := realExtractOG.Mul(p0).Add(realExtractFG.Mul(pf))
	realAtt := percentOf(p0.Sub(re), p0)

	res, err := output(apparent, measure.Percent)
	if err != nil {
		return fail(err)
	}
	return res.
		WithWarningIf(apparent.LessThan(lowAttenuation), "Low attenuation (<65%) - may be under-attenuated or stuck").
		WithWarningIf(apparent.GreaterThan(highAttenuation), "Very high attenuation (>85%) - check for contamination").
		WithMeta("apparent_attenuation", fixed(apparent, 1)+"%").
		WithMeta("real_attenuation", fixed(realAtt, 1)+"%").
		WithMeta("real_extract", fixed(re, 2)+"°P").
		WithMeta("original_extract", fixed(p0, 2)+"°P").
		WithMeta("original_gravity", fixed(og, 3)).
		WithMeta("final_gravity", fixed(fg, 3)).
		WithMeta("formula", "ASBC standard"), nil
}

// yeastStrain describes the fermentation limits of a yeast.
type yeastStrain struct {
	tolerance       decimal.Decimal
	temperature     string
	characteristics string
}

// yeastStrains maps normalized strain names (and their common aliases) to their limits.
//
//nolint:gochecknoglobals // Immutable lookup table.
var yeastStrains = func() map[string]yeastStrain {
	table := map[string]yeastStrain{}
	add := func(s yeastStrain, names ...string) {
		for _, n := range names {
			table[n] = s
		}
	}
	add(yeastStrain{decimal.NewFromInt(18), "15-30°C", "Champagne yeast, very clean, high tolerance"}, "ec-1118", "ec1118")
	add(yeastStrain{decimal.NewFromInt(18), "15-30°C", "Strong fermenter, good for meads"}, "k1-v1116", "k1v1116")
	add(yeastStrain{decimal.NewFromInt(14), "15-30°C", "Fruity, softens acid, good for melomels"}, "71b-1122", "71b1122", "71b")
	add(yeastStrain{decimal.NewFromInt(15), "15-20°C", "Tropical fruit notes, temperature sensitive"}, "d47")
	add(yeastStrain{decimal.NewFromInt(12), "15-24°C", "Clean American ale, neutral"}, "us-05", "us05")
	add(yeastStrain{decimal.NewFromInt(11), "15-24°C", "English ale, slightly fruity"}, "s-04", "s04")
	add(yeastStrain{decimal.NewFromInt(10), "18-24°C", "Hefeweizen, banana and clove"}, "wy3068", "wyeast3068")
	add(yeastStrain{decimal.NewFromInt(11), "18-28°C", "Belgian Saison, peppery"}, "safale_be-134", "be-134")
	add(yeastStrain{decimal.NewFromInt(16), "15-30°C", "Portuguese wine yeast, neutral"}, "qa23")
	add(yeastStrain{decimal.NewFromInt(16), "10-35°C", "Wide temperature range, champagne-like"}, "dv10")
	return table
}()

//nolint:gochecknoglobals // Fallback for unknown strains.
var genericStrain = yeastStrain{decimal.NewFromInt(12), "18-24°C", "Generic strain (estimate)"}

// AlcoholTolerance looks up the alcohol tolerance of a yeast strain and,
// given an OG, estimates the final gravity the yeast will stop at.
type AlcoholTolerance struct{ calc.Base }

func (AlcoholTolerance) ID() string       { return "alcohol_tolerance" }
func (AlcoholTolerance) Name() string     { return "Alcohol Tolerance" }
func (AlcoholTolerance) Category() string { return calc.CategoryAdvanced }
func (AlcoholTolerance) Description() string {
	return "Calculate maximum ABV and estimated FG for yeast strain"
}

func (AlcoholTolerance) Validate(in calc.Input) error {
	return in.Require("yeast_strain")
}

func (c AlcoholTolerance) Calculate(in calc.Input) (calc.Result, error) {
	if err := c.Validate(in); err != nil {
		return fail(err)
	}
	name := in.Choice("yeast_strain", "")
	strain, ok := yeastStrains[name]
	if !ok {
		strain = genericStrain
	}

	res, err := output(strain.tolerance, measure.ABV)
	if err != nil {
		return fail(err)
	}
	res = res.
		WithWarningIf(strain.tolerance.LessThan(decimal.NewFromInt(12)),
			"Low tolerance strain - not suitable for high-gravity brews").
		WithWarningIf(!ok, "Unknown yeast strain - using a generic estimate").
		WithMeta("max_abv", strain.tolerance.String()+"%").
		WithMeta("yeast_strain", name).
		WithMeta("temperature_range", strain.temperature).
		WithMeta("characteristics", strain.characteristics)

	if _, hasOG := in.Param("og"); hasOG {
		og, err := in.Gravity("og")
		if err != nil {
			return fail(err)
		}
		fg := og.Sub(strain.tolerance.Div(abvFactor))
		res = res.
			WithMeta("original_gravity", fixed(og, 3)).
			WithMeta("estimated_fg", fixed(fg, 3)).
			WithMeta("calculation", fmt.Sprintf("FG = %s - (%s / 131.25) = %s", fixed(og, 3), strain.tolerance, fixed(fg, 3))).
			WithWarningIf(fg.LessThan(one), "Yeast can ferment this must completely dry - expect a dry finish")
	}
	return res.WithMeta("tip", "Actual tolerance varies with nutrition and fermentation conditions"), nil
}

// BenchTrials scales a small bench-trial addition to the full batch.
type BenchTrials struct{ calc.Base }

func (BenchTrials) ID() string       { return "bench_trials" }
func (BenchTrials) Name() string     { return "Bench Trials" }
func (BenchTrials) Category() string { return calc.CategoryAdvanced }
func (BenchTrials) Description() string {
	return "Calculate bench trial additions and scaling to full batch"
}

func (BenchTrials) Validate(in calc.Input) error {
	return in.Require("trial_volume", "trial_addition", "batch_volume")
}

// Calculate takes trial_volume in mL, trial_addition in g, and batch_volume in L.
func (c BenchTrials) Calculate(in calc.Input) (calc.Result, error) {
	if err := c.Validate(in); err != nil {
		return fail(err)
	}
	trialML, err := in.PositiveDecimal("trial_volume")
	if err != nil {
		return fail(err)
	}
	trialG, err := in.NonNegativeDecimal("trial_addition", zero)
	if err != nil {
		return fail(err)
	}
	batchL, err := in.PositiveDecimal("batch_volume")
	if err != nil {
		return fail(err)
	}

	batchML := batchL.Mul(thousand)
	rate := trialG.Div(trialML)
	addition := rate.Mul(batchML)
	scale := batchML.Div(trialML)

	res, err := output(addition, measure.Grams)
	if err != nil {
		return fail(err)
	}
	return res.
		WithMeta("trial_volume_mL", trialML.String()+" mL").
		WithMeta("trial_addition_g", fixed(trialG, 2)+" g").
		WithMeta("dosage_rate", fixed(rate, 4)+" g/mL").
		WithMeta("batch_volume_L", batchL.String()+" L").
		WithMeta("batch_addition_g", fmt.Sprintf("%s g (%s kg)", fixed(addition, 1), fixed(addition.Div(thousand), 2))).
		WithMeta("scale_factor", fixed(scale, 0)+"x").
		WithWarningIf(scale.GreaterThan(decimal.NewFromInt(1000)),
			"Large scale factor - consider intermediate trials to verify dosage").
		WithWarningIf(trialML.LessThan(decimal.NewFromInt(50)),
			"Very small trial volume - measurement errors will be amplified"), nil
}
