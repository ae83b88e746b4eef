package calculators

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/rshade/mazerion/internal/calc"
	"github.com/rshade/mazerion/internal/measure"
)

//nolint:gochecknoglobals // Formula constants.
var (
	defaultYeastCost    = decimal.NewFromInt(5)
	defaultNutrientCost = decimal.NewFromInt(3)
	defaultBottleCost   = dec("1.50")
	standardBottleML    = decimal.NewFromInt(750)
	highBottleCost      = decimal.NewFromInt(15)
)

// money renders an amount as dollars and cents.
func money(v decimal.Decimal) string {
	return "$" + fixed(v, 2)
}

// CostCalculator breaks down ingredient cost and per-bottle price.
type CostCalculator struct{ calc.Base }

func (CostCalculator) ID() string       { return "cost_calculator" }
func (CostCalculator) Name() string     { return "Cost Calculator" }
func (CostCalculator) Category() string { return calc.CategoryUtilities }
func (CostCalculator) Description() string {
	return "Calculate batch cost breakdown and per-bottle pricing"
}

func (CostCalculator) Validate(in calc.Input) error {
	return in.Require("volume", "honey_cost", "honey_kg")
}

func (c CostCalculator) Calculate(in calc.Input) (calc.Result, error) {
	if err := c.Validate(in); err != nil {
		return fail(err)
	}
	vol, err := in.PositiveDecimal("volume")
	if err != nil {
		return fail(err)
	}
	perKg, err := in.NonNegativeDecimal("honey_cost", zero)
	if err != nil {
		return fail(err)
	}
	kg, err := in.NonNegativeDecimal("honey_kg", zero)
	if err != nil {
		return fail(err)
	}
	yeast, err := in.NonNegativeDecimal("yeast_cost", defaultYeastCost)
	if err != nil {
		return fail(err)
	}
	nutrient, err := in.NonNegativeDecimal("nutrient_cost", defaultNutrientCost)
	if err != nil {
		return fail(err)
	}
	additive, err := in.NonNegativeDecimal("additive_cost", zero)
	if err != nil {
		return fail(err)
	}
	perBottle, err := in.NonNegativeDecimal("bottle_cost", defaultBottleCost)
	if err != nil {
		return fail(err)
	}

	honey := kg.Mul(perKg)
	total := honey.Add(yeast).Add(nutrient).Add(additive)
	bottles := vol.Mul(thousand).Div(standardBottleML).Floor()
	ingredientsPerBottle := zero
	if bottles.IsPositive() {
		ingredientsPerBottle = total.Div(bottles)
	}
	allIn := ingredientsPerBottle.Add(perBottle)

	res, err := output(total, measure.Currency)
	if err != nil {
		return fail(err)
	}
	return res.
		WithMeta("total_batch_cost", money(total)).
		WithMeta("honey_cost", money(honey)).
		WithMeta("yeast_cost", money(yeast)).
		WithMeta("nutrient_cost", money(nutrient)).
		WithMeta("additive_cost", money(additive)).
		WithMeta("bottles_750ml", fixed(bottles, 0)).
		WithMeta("cost_per_bottle_ingredients", money(ingredientsPerBottle)).
		WithMeta("cost_per_bottle_with_bottle", money(allIn)).
		WithMeta("total_with_bottles", money(total.Add(bottles.Mul(perBottle)))).
		WithWarningIf(allIn.GreaterThan(highBottleCost), "High per-bottle cost - consider bulk ingredient purchases"), nil
}

//nolint:gochecknoglobals // Formula constants.
var (
	defaultBottleCount  = decimal.NewFromInt(30)
	expensiveBottleCost = ten
	expensiveBatchCost  = decimal.NewFromInt(200)
)

// BatchCost totals ingredient costs and divides them across the bottles.
type BatchCost struct{ calc.Base }

func (BatchCost) ID() string       { return "batch_cost" }
func (BatchCost) Name() string     { return "Batch Cost Calculator" }
func (BatchCost) Category() string { return calc.CategoryUtilities }
func (BatchCost) Description() string {
	return "Calculate total cost per batch and per bottle"
}

// Validate accepts any input; every cost defaults to zero.
func (BatchCost) Validate(calc.Input) error { return nil }

func (c BatchCost) Calculate(in calc.Input) (calc.Result, error) {
	keys := []string{"honey_cost", "fruit_cost", "yeast_cost", "nutrients_cost", "other_cost"}
	costs := make([]decimal.Decimal, len(keys))
	total := zero
	for i, key := range keys {
		v, err := in.NonNegativeDecimal(key, zero)
		if err != nil {
			return fail(err)
		}
		costs[i] = v
		total = total.Add(v)
	}
	count, err := in.OptionalDecimal("bottles_count", defaultBottleCount)
	if err != nil {
		return fail(err)
	}
	if !count.IsPositive() {
		return fail(measure.Validation("bottle count must be greater than zero"))
	}
	perBottle := total.Div(count)

	res, err := output(total, measure.Currency)
	if err != nil {
		return fail(err)
	}
	res = res.
		WithMeta("total_batch_cost", money(total)).
		WithMeta("cost_per_bottle", money(perBottle)).
		WithMeta("bottle_count", count.String())
	for i, key := range keys {
		res = res.WithMeta(key, money(costs[i]))
	}
	return res.
		WithWarningIf(perBottle.GreaterThan(expensiveBottleCost), "Cost >$10/bottle - expensive batch").
		WithWarningIf(total.GreaterThan(expensiveBatchCost), "Total cost >$200 - verify ingredient prices"), nil
}

//nolint:gochecknoglobals // Formula constants.
var (
	lowCalciumPPM   = decimal.NewFromInt(50)
	highCalciumPPM  = decimal.NewFromInt(150)
	highSulfatePPM  = decimal.NewFromInt(400)
	highChloridePPM = decimal.NewFromInt(200)
	lowIonPPM       = decimal.NewFromInt(50)
	sulfateOnly     = decimal.NewFromInt(999)
)

// waterProfile names the flavor balance implied by a sulfate to chloride ratio.
func waterProfile(ratio decimal.Decimal) string {
	switch {
	case ratio.GreaterThan(decimal.NewFromInt(3)):
		return "Highly Bitter (IPA, Pale Ale)"
	case ratio.GreaterThan(dec("1.5")):
		return "Moderately Bitter (Amber, Brown)"
	case ratio.GreaterThan(dec("0.5")):
		return "Balanced"
	case ratio.IsPositive():
		return "Malty (Stout, Porter, Mead)"
	default:
		return "Chloride Dominant (Sweet)"
	}
}

// WaterChemistry reports the sulfate to chloride ratio of a water profile.
type WaterChemistry struct{ calc.Base }

func (WaterChemistry) ID() string       { return "water_chemistry" }
func (WaterChemistry) Name() string     { return "Water Chemistry" }
func (WaterChemistry) Category() string { return calc.CategoryUtilities }
func (WaterChemistry) Description() string {
	return "Calculate water profile and mineral additions"
}

// Validate accepts any input; missing ions count as 0 ppm.
func (WaterChemistry) Validate(calc.Input) error { return nil }

func (c WaterChemistry) Calculate(in calc.Input) (calc.Result, error) {
	ions := map[string]decimal.Decimal{}
	for _, key := range []string{"calcium", "magnesium", "sulfate", "chloride"} {
		v, err := in.NonNegativeDecimal(key, zero)
		if err != nil {
			return fail(err)
		}
		ions[key] = v
	}
	ca, mg, so4, cl := ions["calcium"], ions["magnesium"], ions["sulfate"], ions["chloride"]

	var ratio decimal.Decimal
	switch {
	case cl.IsPositive():
		ratio = so4.Div(cl)
	case so4.IsPositive():
		ratio = sulfateOnly
	default:
		ratio = one
	}

	mineral := "Water profile adequate"
	switch {
	case ca.LessThan(lowCalciumPPM):
		mineral = "Gypsum (CaSO4) or Calcium Chloride (CaCl2)"
	case so4.LessThan(lowIonPPM) && cl.LessThan(lowIonPPM):
		mineral = "Gypsum for bitter, CaCl2 for malty"
	}

	res, err := output(ratio, measure.Ratio)
	if err != nil {
		return fail(err)
	}
	return res.
		WithMeta("profile", waterProfile(ratio)).
		WithMeta("so4_cl_ratio", fixed(ratio, 2)+":1").
		WithMeta("calcium", ca.String()+" ppm").
		WithMeta("magnesium", mg.String()+" ppm").
		WithMeta("sulfate", so4.String()+" ppm").
		WithMeta("chloride", cl.String()+" ppm").
		WithMeta("mineral", mineral).
		WithMeta("ion_contribution", fmt.Sprintf("Ca: %sppm, Mg: %sppm, SO4: %sppm, Cl: %sppm", ca, mg, so4, cl)).
		WithWarningIf(ca.LessThan(lowCalciumPPM), "Calcium <50 ppm - may affect mash pH and yeast health").
		WithWarningIf(ca.GreaterThan(highCalciumPPM), "Calcium >150 ppm - may be excessive").
		WithWarningIf(so4.GreaterThan(highSulfatePPM), "Sulfate >400 ppm - may be too bitter/astringent").
		WithWarningIf(cl.GreaterThan(highChloridePPM), "Chloride >200 ppm - may be too sweet/minerally"), nil
}

// scaledIngredients are the optional recipe amounts Upscaling scales, in order.
//
//nolint:gochecknoglobals // Immutable list.
var scaledIngredients = []string{"honey", "water", "fruit", "nutrients", "spices", "yeast"}

// Upscaling scales a recipe from one batch volume to another.
type Upscaling struct{ calc.Base }

func (Upscaling) ID() string       { return "upscaling" }
func (Upscaling) Name() string     { return "Recipe Upscaling" }
func (Upscaling) Category() string { return calc.CategoryUtilities }
func (Upscaling) Description() string {
	return "Scale recipes up or down - maintains perfect proportions"
}

func (Upscaling) Validate(in calc.Input) error {
	return in.Require("current_volume", "target_volume")
}

func (c Upscaling) Calculate(in calc.Input) (calc.Result, error) {
	if err := c.Validate(in); err != nil {
		return fail(err)
	}
	current, err := in.PositiveDecimal("current_volume")
	if err != nil {
		return fail(err)
	}
	target, err := in.PositiveDecimal("target_volume")
	if err != nil {
		return fail(err)
	}
	scale := target.Div(current)

	res, err := output(scale, measure.Ratio)
	if err != nil {
		return fail(err)
	}
	res = res.
		WithMeta("original_volume", current.String()+" L").
		WithMeta("target_volume", target.String()+" L").
		WithMeta("scale_factor", fixed(scale, 2)+"x").
		WithMeta("scale_percentage", fixed(scale.Mul(hundred), 1)+"%")

	scaled := 0
	for _, name := range scaledIngredients {
		if _, ok := in.Param(name); !ok {
			continue
		}
		amount, err := in.NonNegativeDecimal(name, zero)
		if err != nil {
			return fail(err)
		}
		scaled++
		res = res.
			WithMeta(name+"_original", fixed(amount, 2)).
			WithMeta(name+"_scaled", fixed(amount.Mul(scale), 2))
	}
	return res.
		WithWarningIf(scale.GreaterThan(ten), "Large scale factor - verify equipment capacity").
		WithWarningIf(scale.LessThan(dec("0.1")), "Scaling down - small measurements may be difficult").
		WithWarningIf(scaled == 0, "No ingredients provided - showing scale factor only"), nil
}

// vesselLoss holds the sediment losses typical of a fermentation vessel.
type vesselLoss struct {
	grossLees decimal.Decimal
	fineLees  decimal.Decimal
}

//nolint:gochecknoglobals // Immutable lookup tables.
var (
	vesselLosses = map[string]vesselLoss{
		"bucket": {dec("0.08"), dec("0.03")},
		"carboy": {dec("0.06"), dec("0.02")},
		"keg":    {dec("0.05"), dec("0.015")},
		"barrel": {dec("0.07"), dec("0.025")},
	}
	clarificationLosses = map[string]decimal.Decimal{
		"filtered": dec("0.04"),
		"fined":    dec("0.02"),
		"standard": dec("0.01"),
		"none":     zero,
	}
	transferLoss     = dec("0.005")
	maxRackings      = decimal.NewFromInt(10)
	manyRackings     = 4
	highLossPercent  = decimal.NewFromInt(25)
	minRecoveryShare = dec("0.6")
)

// rackings reads num_rackings as a whole number between 0 and 10.
func rackings(in calc.Input, def int64) (int, error) {
	n, err := in.NonNegativeDecimal("num_rackings", decimal.NewFromInt(def))
	if err != nil {
		return 0, err
	}
	if !n.IsInteger() || n.GreaterThan(maxRackings) {
		return 0, measure.Validation("num_rackings must be a whole number from 0 to 10")
	}
	return int(n.IntPart()), nil
}

// lossSetup resolves the vessel and process choices shared by the loss calculators.
func lossSetup(in calc.Input) (string, vesselLoss, string, decimal.Decimal, error) {
	vessel := in.Choice("vessel_type", "carboy")
	vl, ok := vesselLosses[vessel]
	if !ok {
		return "", vesselLoss{}, "", zero, measure.Validation("unknown vessel_type %q (bucket, carboy, keg, barrel)", vessel)
	}
	process := in.Choice("process_type", "standard")
	clar, ok := clarificationLosses[process]
	if !ok {
		return "", vesselLoss{}, "", zero, measure.Validation("unknown process_type %q (standard, fined, filtered, none)", process)
	}
	return vessel, vl, process, clar, nil
}

// lossLine renders a loss in liters with its share of the starting volume.
func lossLine(loss, initial decimal.Decimal) string {
	return fmt.Sprintf("%s L (%s%%)", fixed(loss, 2), fixed(percentOf(loss, initial), 1))
}

// Waste estimates volume lost from fermenter to bottle with flat per-stage rates.
type Waste struct{ calc.Base }

func (Waste) ID() string       { return "waste" }
func (Waste) Name() string     { return "Waste/Loss Calculator" }
func (Waste) Category() string { return calc.CategoryUtilities }
func (Waste) Description() string {
	return "Calculate expected losses through brewing process from start to bottle"
}

func (Waste) Validate(in calc.Input) error {
	return in.Require("initial_volume")
}

func (c Waste) Calculate(in calc.Input) (calc.Result, error) {
	if err := c.Validate(in); err != nil {
		return fail(err)
	}
	vol, err := in.PositiveDecimal("initial_volume")
	if err != nil {
		return fail(err)
	}
	n, err := rackings(in, 3)
	if err != nil {
		return fail(err)
	}
	vessel, vl, process, clarRate, err := lossSetup(in)
	if err != nil {
		return fail(err)
	}

	gross := vol.Mul(vl.grossLees)
	finePer := vol.Mul(vl.fineLees)
	transferPer := vol.Mul(transferLoss)
	clarification := vol.Mul(clarRate)

	fine, transfers, racking := zero, zero, zero
	if n > 0 {
		fine = finePer.Mul(decimal.NewFromInt(int64(n - 1)))
		transfers = transferPer.Mul(decimal.NewFromInt(int64(n)))
		racking = gross.Add(fine).Add(transfers)
	}
	total := racking.Add(clarification)
	final := vol.Sub(total)
	lossPct := percentOf(total, vol)

	res, err := output(final, measure.Liters)
	if err != nil {
		return fail(err)
	}
	res = res.
		WithMeta("initial_volume", fixed(vol, 2)+" L").
		WithMeta("final_volume", fixed(final, 2)+" L").
		WithMeta("total_loss", lossLine(total, vol)).
		WithMeta("num_rackings", strconv.Itoa(n)).
		WithMeta("vessel_type", vessel).
		WithMeta("process_type", process)
	if n > 0 {
		res = res.WithMeta("loss_gross_lees", lossLine(gross, vol)+" - Primary fermentation sediment")
	}
	if n > 1 {
		res = res.WithMeta("loss_fine_lees", fmt.Sprintf("%s - %d secondary rackings", lossLine(fine, vol), n-1))
	}
	if n > 0 {
		res = res.
			WithMeta("loss_transfers", lossLine(transfers, vol)+" - Hose deadspace & spillage")
	}
	if clarification.IsPositive() {
		res = res.WithMeta("loss_clarification", lossLine(clarification, vol)+" - "+process)
	}
	if n > 0 {
		res = res.WithMeta("racking_1", fmt.Sprintf("Primary → Secondary: %s L loss (gross lees + transfer)",
			fixed(gross.Add(transferPer), 2)))
	}
	for i := 2; i <= n; i++ {
		res = res.WithMeta(fmt.Sprintf("racking_%d", i),
			fmt.Sprintf("Racking %d: %s L loss (fine lees + transfer)", i, fixed(finePer.Add(transferPer), 2)))
	}
	return res.
		WithWarningIf(lossPct.GreaterThan(highLossPercent), "High loss rate (>25%) - consider fewer rackings or different vessel").
		WithWarningIf(n > manyRackings, "Many rackings - ensure benefits outweigh losses").
		WithWarningIf(final.LessThan(vol.Mul(minRecoveryShare)), "Less than 60% recovery - process may be too aggressive"), nil
}

// bottleSize is one entry of the bottle count table.
type bottleSize struct {
	key     string
	ml      decimal.Decimal
	label   string
	perCase int64
}

//nolint:gochecknoglobals // Immutable lookup table.
var bottleSizes = []bottleSize{
	{"12oz", dec("354.88"), "12 oz / 355 mL", 24},
	{"375ml", decimal.NewFromInt(375), "375 mL / half-bottle", 12},
	{"500ml", decimal.NewFromInt(500), "500 mL", 0},
	{"750ml", decimal.NewFromInt(750), "750 mL / standard wine", 12},
	{"1L", decimal.NewFromInt(1000), "1 L / magnum", 12},
	{"1.5L", decimal.NewFromInt(1500), "1.5 L", 0},
	{"3L", decimal.NewFromInt(3000), "3 L / double magnum", 0},
	{"5L", decimal.NewFromInt(5000), "5 L / jeroboam", 0},
	{"6L", decimal.NewFromInt(6000), "6 L / imperial", 0},
}

//nolint:gochecknoglobals // Conversion factors for display.
var (
	quartsPerLiter      = dec("1.05669")
	fluidOuncesPerLiter = dec("33.8140")
)

// withBottleTable appends rounded bottle counts, case counts, and the volume in
// common units for liters of finished product.
func withBottleTable(res calc.Result, liters decimal.Decimal) calc.Result {
	ml := liters.Mul(thousand)
	var cases []calc.Meta
	for _, b := range bottleSizes {
		count := ml.Div(b.ml).Round(0)
		res = res.WithMeta("bottles_"+b.key, fmt.Sprintf("%s bottles (%s)", count, b.label))
		if b.perCase > 0 {
			per := decimal.NewFromInt(b.perCase)
			cases = append(cases, calc.Meta{
				Key:   "cases_" + b.key,
				Value: fmt.Sprintf("%s cases (%d × %s)", count.Div(per).Ceil(), b.perCase, b.key),
			})
		}
	}
	for _, m := range cases {
		res = res.WithMeta(m.Key, m.Value)
	}
	return res.
		WithMeta("volume_gallons", fixed(measure.LitersToGallons(liters), 2)+" gal").
		WithMeta("volume_liters", fixed(liters, 2)+" L").
		WithMeta("volume_quarts", fixed(liters.Mul(quartsPerLiter), 2)+" qt").
		WithMeta("volume_fluid_ounces", fixed(liters.Mul(fluidOuncesPerLiter), 1)+" fl oz")
}

// GallonsToBottles tabulates how many bottles of each common size a volume fills.
type GallonsToBottles struct{ calc.Base }

func (GallonsToBottles) ID() string       { return "gallons_to_bottles" }
func (GallonsToBottles) Name() string     { return "Gallons to Bottles" }
func (GallonsToBottles) Category() string { return calc.CategoryUtilities }
func (GallonsToBottles) Description() string {
	return "Calculate bottle count from volume"
}

func (GallonsToBottles) Validate(in calc.Input) error {
	return in.Require("volume")
}

// Calculate takes volume in liters.
func (c GallonsToBottles) Calculate(in calc.Input) (calc.Result, error) {
	if err := c.Validate(in); err != nil {
		return fail(err)
	}
	liters, err := in.PositiveDecimal("volume")
	if err != nil {
		return fail(err)
	}
	res, err := output(liters, measure.Liters)
	if err != nil {
		return fail(err)
	}
	return withBottleTable(res, liters), nil
}

//nolint:gochecknoglobals // Per-racking fine lees rates after the first racking.
var (
	firstRackingLoss  = dec("0.02")
	secondRackingLoss = dec("0.015")
	laterRackingLoss  = dec("0.01")
)

// GallonsToBottlesWithLosses compounds each stage's loss on the volume left
// after the previous stage, then tabulates bottle counts for what remains.
type GallonsToBottlesWithLosses struct{ calc.Base }

func (GallonsToBottlesWithLosses) ID() string       { return "gallons_to_bottles_with_losses" }
func (GallonsToBottlesWithLosses) Name() string     { return "Gallons to Bottles (with Losses)" }
func (GallonsToBottlesWithLosses) Category() string { return calc.CategoryUtilities }
func (GallonsToBottlesWithLosses) Description() string {
	return "Calculate bottle count accounting for brewing losses"
}

func (GallonsToBottlesWithLosses) Validate(in calc.Input) error {
	return in.Require("initial_volume")
}

func (c GallonsToBottlesWithLosses) Calculate(in calc.Input) (calc.Result, error) {
	if err := c.Validate(in); err != nil {
		return fail(err)
	}
	initial, err := in.PositiveDecimal("initial_volume")
	if err != nil {
		return fail(err)
	}
	n, err := rackings(in, 0)
	if err != nil {
		return fail(err)
	}
	vessel, vl, _, clarRate, err := lossSetup(in)
	if err != nil {
		return fail(err)
	}

	vol := initial
	gross := vol.Mul(vl.grossLees)
	vol = vol.Sub(gross)

	fine, transfers := zero, zero
	for i := range n {
		rate := laterRackingLoss
		switch i {
		case 0:
			rate = firstRackingLoss
		case 1:
			rate = secondRackingLoss
		}
		lees := vol.Mul(rate)
		fine = fine.Add(lees)
		vol = vol.Sub(lees)
		moved := vol.Mul(transferLoss)
		transfers = transfers.Add(moved)
		vol = vol.Sub(moved)
	}
	clarification := vol.Mul(clarRate)
	vol = vol.Sub(clarification)

	total := initial.Sub(vol)
	lossPct := percentOf(total, initial)
	recovery := percentOf(vol, initial)

	res, err := output(vol, measure.Liters)
	if err != nil {
		return fail(err)
	}
	res = res.
		WithMeta("initial_volume", fixed(initial, 2)+" L").
		WithMeta("final_volume", fixed(vol, 2)+" L").
		WithMeta("total_loss", lossLine(total, initial)).
		WithMeta("gross_lees_loss", lossLine(gross, initial)).
		WithMeta("fine_lees_loss", fixed(fine, 2)+" L").
		WithMeta("transfer_loss", fixed(transfers, 2)+" L").
		WithMeta("clarification_loss", fixed(clarification, 2)+" L").
		WithMeta("vessel_type", vessel).
		WithMeta("num_rackings", strconv.Itoa(n))
	return withBottleTable(res, vol).
		WithWarningIf(lossPct.GreaterThan(highLossPercent), fmt.Sprintf("High total loss: %s%%", fixed(lossPct, 1))).
		WithWarningIf(n > manyRackings, fmt.Sprintf("Many rackings (%d) - consider reducing", n)).
		WithWarningIf(recovery.LessThan(decimal.NewFromInt(60)), fmt.Sprintf("Low recovery: %s%%", fixed(recovery, 1))), nil
}
