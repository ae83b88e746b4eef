package calculators

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rshade/mazerion/internal/calc"
	"github.com/rshade/mazerion/internal/measure"
)

// Dilution computes the water needed to bring a batch down to a target ABV.
// It uses the default category.
type Dilution struct{ calc.Base }

func (Dilution) ID() string          { return "dilution" }
func (Dilution) Name() string        { return "Dilution Calculator" }
func (Dilution) Description() string { return "Calculate water needed to reduce ABV" }

func (Dilution) Validate(in calc.Input) error {
	return in.Require("current_volume", "current_abv", "target_abv")
}

func (c Dilution) Calculate(in calc.Input) (calc.Result, error) {
	if err := c.Validate(in); err != nil {
		return fail(err)
	}
	vol, err := in.PositiveDecimal("current_volume")
	if err != nil {
		return fail(err)
	}
	cur, err := in.Decimal("current_abv")
	if err != nil {
		return fail(err)
	}
	tgt, err := in.Decimal("target_abv")
	if err != nil {
		return fail(err)
	}
	if cur.LessThanOrEqual(tgt) {
		return fail(measure.Validation("current ABV must be greater than target ABV"))
	}
	if !tgt.IsPositive() {
		return fail(measure.Validation("target ABV must be positive"))
	}

	water := vol.Mul(cur.Div(tgt).Sub(one))
	res, err := output(water, measure.Liters)
	if err != nil {
		return fail(err)
	}
	return res.
		WithMeta("current_volume", vol.String()+" L").
		WithMeta("current_abv", cur.String()+"%").
		WithMeta("target_abv", tgt.String()+"%").
		WithMeta("final_volume", fixed(vol.Add(water), 2)+" L"), nil
}

// Blending computes the ABV of two batches mixed together.
// It uses the default category.
type Blending struct{ calc.Base }

func (Blending) ID() string          { return "blending" }
func (Blending) Name() string        { return "Blending Calculator" }
func (Blending) Description() string { return "Calculate final ABV when mixing two batches" }

func (Blending) Validate(in calc.Input) error {
	return in.Require("volume1", "abv1", "volume2", "abv2")
}

func (c Blending) Calculate(in calc.Input) (calc.Result, error) {
	if err := c.Validate(in); err != nil {
		return fail(err)
	}
	v1, err := in.NonNegativeDecimal("volume1", zero)
	if err != nil {
		return fail(err)
	}
	a1, err := in.Decimal("abv1")
	if err != nil {
		return fail(err)
	}
	v2, err := in.NonNegativeDecimal("volume2", zero)
	if err != nil {
		return fail(err)
	}
	a2, err := in.Decimal("abv2")
	if err != nil {
		return fail(err)
	}
	total := v1.Add(v2)
	if total.IsZero() {
		return fail(measure.Validation("total volume must be greater than zero"))
	}

	blended := v1.Mul(a1).Add(v2.Mul(a2)).Div(total)
	res, err := output(blended, measure.ABV)
	if err != nil {
		return fail(err)
	}
	return res.
		WithMeta("batch1", fmt.Sprintf("%s L @ %s%%", v1, a1)).
		WithMeta("batch2", fmt.Sprintf("%s L @ %s%%", v2, a2)).
		WithMeta("total_volume", total.String()+" L"), nil
}

// VolumeAdjustment computes the water needed to dilute a must to a lower gravity.
type VolumeAdjustment struct{ calc.Base }

func (VolumeAdjustment) ID() string       { return "volume_adjustment" }
func (VolumeAdjustment) Name() string     { return "Volume Adjustment" }
func (VolumeAdjustment) Category() string { return calc.CategoryAdvanced }
func (VolumeAdjustment) Description() string {
	return "Calculate volume adjustments for target gravity (dilution or concentration)"
}

func (VolumeAdjustment) Validate(in calc.Input) error {
	return in.Require("current_volume", "current_gravity", "target_gravity")
}

func (c VolumeAdjustment) Calculate(in calc.Input) (calc.Result, error) {
	if err := c.Validate(in); err != nil {
		return fail(err)
	}
	vol, err := in.PositiveDecimal("current_volume")
	if err != nil {
		return fail(err)
	}
	cur, err := in.Gravity("current_gravity")
	if err != nil {
		return fail(err)
	}
	tgt, err := in.Gravity("target_gravity")
	if err != nil {
		return fail(err)
	}
	if tgt.GreaterThanOrEqual(cur) {
		return fail(measure.Validation(
			"target gravity must be less than current gravity; use boiling to concentrate wort, not this calculator"))
	}

	// Dilution works on gravity points, not the raw SG ratio.
	curPts := points(cur)
	tgtPts := points(tgt)
	if !tgtPts.IsPositive() {
		return fail(measure.Validation("target gravity must be above 1.000"))
	}
	final := vol.Mul(curPts).Div(tgtPts)
	water := final.Sub(vol)

	res, err := output(water, measure.Liters)
	if err != nil {
		return fail(err)
	}
	return res.
		WithWarningIf(water.GreaterThan(vol), "Adding more water than original volume - double-check target").
		WithMeta("water_to_add", fixed(water, 2)+" L").
		WithMeta("final_volume", fixed(final, 2)+" L").
		WithMeta("current_gravity", fixed(cur, 3)).
		WithMeta("target_gravity", fixed(tgt, 3)), nil
}

// Fermentable sugar yield per ingredient, in gravity points per kg per liter.
//
//nolint:gochecknoglobals // Immutable lookup table.
var pointsPerKgPerLiter = map[string]decimal.Decimal{
	"honey":       decimal.NewFromInt(292),
	"table_sugar": decimal.NewFromInt(384),
	"dme":         decimal.NewFromInt(367),
	"maple_syrup": decimal.NewFromInt(250),
}

//nolint:gochecknoglobals // Formula constants.
var (
	honeyDensity   = dec("1.42")
	highGravityCap = dec("1.120")
	lowGravityCap  = dec("1.040")
)

// GravityFromIngredients estimates the gravity of a must from sugar mass and water volume.
type GravityFromIngredients struct{ calc.Base }

func (GravityFromIngredients) ID() string       { return "gravity_from_ingredients" }
func (GravityFromIngredients) Name() string     { return "Gravity from Ingredients" }
func (GravityFromIngredients) Category() string { return calc.CategoryBasic }
func (GravityFromIngredients) Description() string {
	return "Calculate expected gravity from honey/sugar and water volumes"
}

func (GravityFromIngredients) Validate(in calc.Input) error {
	return in.Require("water_volume", "honey_weight")
}

func (c GravityFromIngredients) Calculate(in calc.Input) (calc.Result, error) {
	if err := c.Validate(in); err != nil {
		return fail(err)
	}
	water, err := in.PositiveDecimal("water_volume")
	if err != nil {
		return fail(err)
	}
	kg, err := in.NonNegativeDecimal("honey_weight", zero)
	if err != nil {
		return fail(err)
	}
	ingredient := in.Choice("ingredient_type", "honey")
	ppkl, ok := pointsPerKgPerLiter[ingredient]
	if !ok {
		return fail(measure.Validation("unknown ingredient_type %q (honey, table_sugar, dme, maple_syrup)", ingredient))
	}

	concentration := kg.Div(water)
	gravityPoints := concentration.Mul(ppkl)
	sg := fromPoints(gravityPoints)

	res, err := output(sg, measure.SpecificGravity)
	if err != nil {
		return fail(err)
	}
	honeyVolume := kg.Div(honeyDensity)
	return res.
		WithMeta("ingredient_type", ingredient).
		WithMeta("ingredient_kg", fixed(kg, 2)+" kg").
		WithMeta("water_L", fixed(water, 2)+" L").
		WithMeta("honey_volume_L", fixed(honeyVolume, 2)+" L").
		WithMeta("total_volume", fixed(water.Add(honeyVolume), 2)+" L").
		WithMeta("concentration", fixed(concentration, 3)+" kg/L").
		WithMeta("gravity_points", fixed(gravityPoints, 1)+" points").
		WithMeta("estimated_sg", fixed(sg, 3)).
		WithMeta("formula", "Metric: (kg/L) × points_per_kg_per_L").
		WithWarningIf(sg.GreaterThan(highGravityCap),
			"Very high gravity (>1.120) - may stress yeast, consider stepped feeding").
		WithWarningIf(sg.LessThan(lowGravityCap), "Low gravity (<1.040) - will produce low ABV"), nil
}
