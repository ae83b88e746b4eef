package calculators

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rshade/mazerion/internal/calc"
	"github.com/rshade/mazerion/internal/measure"
)

//nolint:gochecknoglobals // Formula constants shared by the mead styles.
var (
	// honeyPerLiterPerABV is grams of honey per liter of must per 1% ABV.
	honeyPerLiterPerABV = decimal.NewFromInt(33)
	// honeySugarShare is the fermentable fraction of honey by mass.
	honeySugarShare    = dec("0.8")
	honeyGramsPerLiter = decimal.NewFromInt(1420)
	fruitSugarShare    = dec("0.12")
	mapleSugarShare    = dec("0.672")
	appleJuiceABV      = dec("6.5")
	grapeJuiceABV      = decimal.NewFromInt(12)
)

// meadBase reads the volume and target ABV every style needs. A blank def
// makes target_abv required.
func meadBase(in calc.Input, def string) (vol, abv decimal.Decimal, err error) {
	vol, err = in.PositiveDecimal("volume")
	if err != nil {
		return zero, zero, err
	}
	if def == "" {
		abv, err = in.Decimal("target_abv")
	} else {
		abv, err = in.OptionalDecimal("target_abv", dec(def))
	}
	if err != nil {
		return zero, zero, err
	}
	if err := measure.ValidateABV(abv); err != nil {
		return zero, zero, err
	}
	return vol, abv, nil
}

// honeyFor is the honey, in grams, that ferments vol liters to abv percent.
func honeyFor(vol, abv decimal.Decimal) decimal.Decimal {
	return vol.Mul(abv).Mul(honeyPerLiterPerABV)
}

// percentParam reads key as a 0-100 percentage, defaulting to def when def is non-empty.
func percentParam(in calc.Input, key, def string) (decimal.Decimal, error) {
	var (
		v   decimal.Decimal
		err error
	)
	if def == "" {
		v, err = in.Decimal(key)
	} else {
		v, err = in.OptionalDecimal(key, dec(def))
	}
	if err != nil {
		return zero, err
	}
	if v.IsNegative() || v.GreaterThan(hundred) {
		return zero, measure.Validation("%s must be between 0 and 100", key)
	}
	return v, nil
}

// asKg renders grams as kilograms with two decimals.
func asKg(grams decimal.Decimal) string {
	return fixed(grams.Div(thousand), 2) + " kg"
}

// intensity looks a named intensity up in table.
func intensity(in calc.Input, key, def string, table map[string]decimal.Decimal) (string, decimal.Decimal, error) {
	name := in.Choice(key, def)
	v, ok := table[name]
	if !ok {
		return "", zero, measure.Validation("unknown %s %q", key, name)
	}
	return name, v, nil
}

// GreatMead sizes a traditional honey, water, and yeast mead.
type GreatMead struct{ calc.Base }

func (GreatMead) ID() string       { return "great_mead" }
func (GreatMead) Name() string     { return "Great Mead (Traditional)" }
func (GreatMead) Category() string { return calc.CategoryMeadStyles }
func (GreatMead) Description() string {
	return "Calculate ingredients for traditional mead (great mead)"
}

func (GreatMead) Validate(in calc.Input) error { return in.Require("volume") }

func (c GreatMead) Calculate(in calc.Input) (calc.Result, error) {
	if err := c.Validate(in); err != nil {
		return fail(err)
	}
	vol, abv, err := meadBase(in, "14")
	if err != nil {
		return fail(err)
	}
	honey := honeyFor(vol, abv)
	water := vol.Sub(honey.Div(honeyGramsPerLiter))

	res, err := output(honey, measure.Grams)
	if err != nil {
		return fail(err)
	}
	return res.
		WithMeta("honey", asKg(honey)).
		WithMeta("water", fixed(water, 2)+" L").
		WithMeta("target_abv", abv.String()+"%").
		WithMeta("style", "Traditional Great Mead"), nil
}

// Hydromel sizes a session-strength mead.
type Hydromel struct{ calc.Base }

func (Hydromel) ID() string       { return "hydromel" }
func (Hydromel) Name() string     { return "Hydromel (Session Mead)" }
func (Hydromel) Category() string { return calc.CategoryMeadStyles }
func (Hydromel) Description() string {
	return "Calculate ingredients for session mead (low ABV 3.5-7.5%)"
}

func (Hydromel) Validate(in calc.Input) error { return in.Require("volume", "target_abv") }

func (c Hydromel) Calculate(in calc.Input) (calc.Result, error) {
	if err := c.Validate(in); err != nil {
		return fail(err)
	}
	vol, abv, err := meadBase(in, "")
	if err != nil {
		return fail(err)
	}
	honey := honeyFor(vol, abv)
	res, err := output(honey, measure.Grams)
	if err != nil {
		return fail(err)
	}
	return res.
		WithMeta("honey_kg", asKg(honey)).
		WithWarningIf(abv.LessThan(dec("3.5")), "Very low ABV - may have fermentation issues").
		WithWarningIf(abv.GreaterThan(dec("7.5")), "High for hydromel - consider traditional mead"), nil
}

// Sack sizes a high-gravity dessert mead.
type Sack struct{ calc.Base }

func (Sack) ID() string       { return "sack" }
func (Sack) Name() string     { return "Sack Mead" }
func (Sack) Category() string { return calc.CategoryMeadStyles }
func (Sack) Description() string {
	return "Calculate ingredients for high-gravity dessert mead (14-18% ABV)"
}

func (Sack) Validate(in calc.Input) error { return in.Require("volume", "target_abv") }

func (c Sack) Calculate(in calc.Input) (calc.Result, error) {
	if err := c.Validate(in); err != nil {
		return fail(err)
	}
	vol, abv, err := meadBase(in, "")
	if err != nil {
		return fail(err)
	}
	honey := honeyFor(vol, abv)
	res, err := output(honey, measure.Grams)
	if err != nil {
		return fail(err)
	}
	return res.
		WithMeta("honey_kg", asKg(honey)).
		WithWarningIf(abv.LessThan(decimal.NewFromInt(14)), "Below typical sack mead range (14-18%)").
		WithWarningIf(abv.GreaterThan(decimal.NewFromInt(18)), "Very high ABV - ensure yeast tolerance"), nil
}

// Melomel sizes a fruit mead, crediting the fruit's sugar against the honey.
type Melomel struct{ calc.Base }

func (Melomel) ID() string       { return "melomel" }
func (Melomel) Name() string     { return "Melomel (Fruit Mead)" }
func (Melomel) Category() string { return calc.CategoryMeadStyles }
func (Melomel) Description() string {
	return "Calculate ingredients for fruit mead (melomel)"
}

func (Melomel) Validate(in calc.Input) error { return in.Require("volume") }

func (c Melomel) Calculate(in calc.Input) (calc.Result, error) {
	if err := c.Validate(in); err != nil {
		return fail(err)
	}
	vol, abv, err := meadBase(in, "12")
	if err != nil {
		return fail(err)
	}
	ratio, err := in.NonNegativeDecimal("fruit_ratio", dec("0.2"))
	if err != nil {
		return fail(err)
	}
	fruitKg := vol.Mul(ratio)
	// Fruit sugar replaces honey at honey's own sugar share.
	credit := fruitKg.Mul(fruitSugarShare).Mul(thousand).Div(honeySugarShare)
	honey := decimal.Max(honeyFor(vol, abv).Sub(credit), zero)

	res, err := output(honey, measure.Grams)
	if err != nil {
		return fail(err)
	}
	return res.
		WithMeta("honey", asKg(honey)).
		WithMeta("fruit", fixed(fruitKg, 2)+" kg").
		WithMeta("fruit_ratio", ratio.String()+" kg/L").
		WithMeta("target_abv", abv.String()+"%").
		WithWarningIf(honey.IsZero(), "Fruit alone reaches the target ABV - no honey needed"), nil
}

//nolint:gochecknoglobals // Immutable lookup table.
var caramelLoss = map[string]decimal.Decimal{
	"light":  decimal.NewFromInt(5),
	"medium": ten,
	"dark":   decimal.NewFromInt(15),
}

// Bochet sizes a caramelized honey mead, adding honey for the sugar lost to caramelization.
type Bochet struct{ calc.Base }

func (Bochet) ID() string       { return "bochet" }
func (Bochet) Name() string     { return "Bochet (Caramelized)" }
func (Bochet) Category() string { return calc.CategoryMeadStyles }
func (Bochet) Description() string {
	return "Calculate ingredients for caramelized honey mead (bochet) with sugar loss"
}

func (Bochet) Validate(in calc.Input) error { return in.Require("volume", "target_abv") }

func (c Bochet) Calculate(in calc.Input) (calc.Result, error) {
	if err := c.Validate(in); err != nil {
		return fail(err)
	}
	vol, abv, err := meadBase(in, "")
	if err != nil {
		return fail(err)
	}
	name, loss, err := intensity(in, "bochet_level", "medium", caramelLoss)
	if err != nil {
		return fail(err)
	}
	honey := honeyFor(vol, abv).Mul(one.Add(loss.Div(hundred)))

	res, err := output(honey, measure.Grams)
	if err != nil {
		return fail(err)
	}
	return res.
		WithMeta("caramel_level", name).
		WithMeta("sugar_loss", loss.String()+"%").
		WithMeta("honey_before_caramel_kg", asKg(honey)).
		WithMeta("expected_abv", abv.String()+"%").
		WithWarning("Caramelize honey before measuring - sugar loss accounted for in calculation"), nil
}

// juiceMead sizes a mead where part of the volume is fruit juice that brings
// its own fermentable sugar. potential is the ABV the juice reaches alone.
func juiceMead(in calc.Input, defPercent string, potential decimal.Decimal) (calc.Result, decimal.Decimal, error) {
	vol, abv, err := meadBase(in, "")
	if err != nil {
		return calc.Result{}, zero, err
	}
	pct, err := percentParam(in, "juice_percent", defPercent)
	if err != nil {
		return calc.Result{}, zero, err
	}
	juiceL := vol.Mul(pct).Div(hundred)
	fromJuice := potential.Mul(pct).Div(hundred)
	fromHoney := decimal.Max(abv.Sub(fromJuice), zero)
	honey := honeyFor(vol, fromHoney)

	res, err := output(honey, measure.Grams)
	if err != nil {
		return calc.Result{}, zero, err
	}
	return res.
		WithMeta("honey_g", fixed(honey, 0)+" g").
		WithMeta("honey_kg", asKg(honey)).
		WithMeta("juice_volume_L", fixed(juiceL, 2)+" L").
		WithMeta("water_volume_L", fixed(vol.Sub(juiceL), 2)+" L").
		WithMeta("juice_percent", fixed(pct, 0)+"%").
		WithMeta("abv_from_juice", fixed(fromJuice, 1)+"%").
		WithMeta("abv_from_honey", fixed(fromHoney, 1)+"%").
		WithMeta("total_abv", fixed(abv, 1)+"%"), pct, nil
}

// Cyser sizes an apple juice mead.
type Cyser struct{ calc.Base }

func (Cyser) ID() string       { return "cyser" }
func (Cyser) Name() string     { return "Cyser (Apple Mead)" }
func (Cyser) Category() string { return calc.CategoryMeadStyles }
func (Cyser) Description() string {
	return "Calculate ingredients for apple juice mead (cyser)"
}

func (Cyser) Validate(in calc.Input) error { return in.Require("volume", "target_abv") }

func (c Cyser) Calculate(in calc.Input) (calc.Result, error) {
	if err := c.Validate(in); err != nil {
		return fail(err)
	}
	res, pct, err := juiceMead(in, "50", appleJuiceABV)
	if err != nil {
		return fail(err)
	}
	return res.
		WithWarningIf(pct.LessThan(decimal.NewFromInt(30)), "Low juice ratio - may lack apple character").
		WithWarningIf(pct.GreaterThan(decimal.NewFromInt(70)), "High juice ratio - may be more cider than mead"), nil
}

// Pyment sizes a grape juice mead.
type Pyment struct{ calc.Base }

func (Pyment) ID() string       { return "pyment" }
func (Pyment) Name() string     { return "Pyment (Grape Mead)" }
func (Pyment) Category() string { return calc.CategoryMeadStyles }
func (Pyment) Description() string {
	return "Calculate ingredients for pyment (grape-honey wine)"
}

func (Pyment) Validate(in calc.Input) error { return in.Require("volume", "target_abv") }

func (c Pyment) Calculate(in calc.Input) (calc.Result, error) {
	if err := c.Validate(in); err != nil {
		return fail(err)
	}
	res, pct, err := juiceMead(in, "40", grapeJuiceABV)
	if err != nil {
		return fail(err)
	}
	abv, _ := in.Decimal("target_abv")
	return res.
		WithWarningIf(abv.LessThan(decimal.NewFromInt(8)), "Low ABV (<8%) - consider increasing target or juice percentage").
		WithWarningIf(abv.GreaterThan(decimal.NewFromInt(18)), "Very high ABV (>18%) - may require strong yeast strain").
		WithWarningIf(pct.LessThan(decimal.NewFromInt(30)), "Low juice percentage (<30%) - may lack grape character").
		WithWarningIf(pct.GreaterThan(decimal.NewFromInt(60)), "High juice percentage (>60%) - may lack honey character").
		WithMeta("tip", "Use quality grape juice or wine must. Red or white grapes both work."), nil
}

//nolint:gochecknoglobals // Immutable lookup tables, g/L.
var (
	spiceDoses = map[string]decimal.Decimal{
		"light":  dec("0.5"),
		"medium": one,
		"heavy":  two,
	}
	pepperDoses = map[string]decimal.Decimal{
		"mild":   dec("0.5"),
		"medium": one,
		"hot":    dec("1.5"),
	}
)

// dosedMead sizes a traditional base plus a per-liter adjunct dose.
func dosedMead(in calc.Input, key, def, adjunct string, table map[string]decimal.Decimal) (calc.Result, error) {
	vol, abv, err := meadBase(in, "")
	if err != nil {
		return fail(err)
	}
	name, dose, err := intensity(in, key, def, table)
	if err != nil {
		return fail(err)
	}
	honey := honeyFor(vol, abv)
	res, err := output(honey, measure.Grams)
	if err != nil {
		return fail(err)
	}
	return res.
		WithMeta("honey_kg", asKg(honey)).
		WithMeta(adjunct+"_g", fixed(vol.Mul(dose), 1)+" g").
		WithMeta(key, name).
		WithMeta("dosage", fixed(dose, 1)+" g/L"), nil
}

// Metheglin sizes a spiced mead.
type Metheglin struct{ calc.Base }

func (Metheglin) ID() string       { return "metheglin" }
func (Metheglin) Name() string     { return "Metheglin (Spiced Mead)" }
func (Metheglin) Category() string { return calc.CategoryMeadStyles }
func (Metheglin) Description() string {
	return "Calculate ingredients for spiced mead (metheglin) with spice dosage"
}

func (Metheglin) Validate(in calc.Input) error { return in.Require("volume", "target_abv") }

func (c Metheglin) Calculate(in calc.Input) (calc.Result, error) {
	if err := c.Validate(in); err != nil {
		return fail(err)
	}
	res, err := dosedMead(in, "spice_level", "medium", "spice", spiceDoses)
	if err != nil {
		return fail(err)
	}
	return res.WithWarning("Dosage varies by spice - start conservative, can always add more"), nil
}

// Capsicumel sizes a pepper mead.
type Capsicumel struct{ calc.Base }

func (Capsicumel) ID() string       { return "capsicumel" }
func (Capsicumel) Name() string     { return "Capsicumel (Pepper Mead)" }
func (Capsicumel) Category() string { return calc.CategoryMeadStyles }
func (Capsicumel) Description() string {
	return "Calculate ingredients for pepper mead (capsicumel) with heat dosage"
}

func (Capsicumel) Validate(in calc.Input) error { return in.Require("volume", "target_abv") }

func (c Capsicumel) Calculate(in calc.Input) (calc.Result, error) {
	if err := c.Validate(in); err != nil {
		return fail(err)
	}
	res, err := dosedMead(in, "heat_level", "medium", "pepper", pepperDoses)
	if err != nil {
		return fail(err)
	}
	return res.WithWarning("Add peppers in secondary, taste frequently - heat develops over time"), nil
}

// Acerglyn sizes a maple mead, splitting the sugar between honey and maple syrup.
type Acerglyn struct{ calc.Base }

func (Acerglyn) ID() string       { return "acerglyn" }
func (Acerglyn) Name() string     { return "Acerglyn (Maple Mead)" }
func (Acerglyn) Category() string { return calc.CategoryMeadStyles }
func (Acerglyn) Description() string {
	return "Calculate ingredients for maple mead"
}

func (Acerglyn) Validate(in calc.Input) error {
	return in.Require("volume", "target_abv", "maple_percent")
}

func (c Acerglyn) Calculate(in calc.Input) (calc.Result, error) {
	if err := c.Validate(in); err != nil {
		return fail(err)
	}
	vol, abv, err := meadBase(in, "")
	if err != nil {
		return fail(err)
	}
	pct, err := percentParam(in, "maple_percent", "")
	if err != nil {
		return fail(err)
	}
	total := honeyFor(vol, abv)
	mapleShare := total.Mul(pct).Div(hundred)
	honey := total.Sub(mapleShare)
	// Maple's share is counted in honey-equivalent sugar, then converted to syrup mass.
	syrup := mapleShare.Mul(honeySugarShare).Div(mapleSugarShare)

	res, err := output(honey, measure.Grams)
	if err != nil {
		return fail(err)
	}
	return res.
		WithMeta("honey_g", fixed(honey, 0)+" g").
		WithMeta("maple_syrup_g", fixed(syrup, 0)+" g").
		WithMeta("maple_percent", fixed(pct, 0)+"%").
		WithWarningIf(pct.GreaterThan(decimal.NewFromInt(50)), "Maple over half the sugar - honey character will be faint"), nil
}

// Braggot sizes the honey share of a honey-malt hybrid.
type Braggot struct{ calc.Base }

func (Braggot) ID() string       { return "braggot" }
func (Braggot) Name() string     { return "Braggot (Honey-Malt)" }
func (Braggot) Category() string { return calc.CategoryMeadStyles }
func (Braggot) Description() string {
	return "Calculate ingredients for honey-malt hybrid mead"
}

func (Braggot) Validate(in calc.Input) error {
	return in.Require("volume", "target_abv", "honey_percent")
}

func (c Braggot) Calculate(in calc.Input) (calc.Result, error) {
	if err := c.Validate(in); err != nil {
		return fail(err)
	}
	vol, abv, err := meadBase(in, "")
	if err != nil {
		return fail(err)
	}
	pct, err := percentParam(in, "honey_percent", "")
	if err != nil {
		return fail(err)
	}
	total := honeyFor(vol, abv)
	honey := total.Mul(pct).Div(hundred)
	// The malt share in honey-equivalent sugar; DME is about as fermentable as honey.
	malt := total.Sub(honey)

	res, err := output(honey, measure.Grams)
	if err != nil {
		return fail(err)
	}
	return res.
		WithMeta("honey_kg", asKg(honey)).
		WithMeta("honey_g", fixed(honey, 0)+" g").
		WithMeta("malt_extract_g", fixed(malt, 0)+" g").
		WithMeta("honey_percent", fixed(pct, 0)+"%").
		WithWarningIf(pct.LessThan(decimal.NewFromInt(50)), "Under 50% honey - closer to a honey beer than a braggot"), nil
}

//nolint:gochecknoglobals // Immutable lookup table, g/L.
var lactoseDoses = map[string]decimal.Decimal{
	"light":  decimal.NewFromInt(50),
	"medium": hundred,
	"heavy":  decimal.NewFromInt(150),
}

// Lactomel sizes a milk-sugar mead. Lactose does not ferment.
type Lactomel struct{ calc.Base }

func (Lactomel) ID() string       { return "lactomel" }
func (Lactomel) Name() string     { return "Lactomel (Milk Mead)" }
func (Lactomel) Category() string { return calc.CategoryMeadStyles }
func (Lactomel) Description() string {
	return "Calculate ingredients for lactomel (milk/lactose mead)"
}

func (Lactomel) Validate(in calc.Input) error { return in.Require("volume", "target_abv") }

func (c Lactomel) Calculate(in calc.Input) (calc.Result, error) {
	if err := c.Validate(in); err != nil {
		return fail(err)
	}
	vol, abv, err := meadBase(in, "")
	if err != nil {
		return fail(err)
	}
	name, gpl, err := intensity(in, "lactose_level", "medium", lactoseDoses)
	if err != nil {
		return fail(err)
	}
	honey := honeyFor(vol, abv)
	lactose := vol.Mul(gpl)

	res, err := output(honey, measure.Grams)
	if err != nil {
		return fail(err)
	}
	return res.
		WithWarningIf(abv.LessThan(decimal.NewFromInt(8)), "Low ABV (<8%) - lactomel typically 10-14% for balance").
		WithWarningIf(abv.GreaterThan(decimal.NewFromInt(16)), "High ABV (>16%) - may require strong yeast strain").
		WithWarningIf(gpl.GreaterThan(decimal.NewFromInt(120)), "High lactose (>120 g/L) - may be overly sweet and creamy").
		WithMeta("honey_g", fixed(honey, 0)+" g").
		WithMeta("honey_kg", asKg(honey)).
		WithMeta("lactose_g", fixed(lactose, 0)+" g").
		WithMeta("lactose_kg", asKg(lactose)).
		WithMeta("lactose_level", name).
		WithMeta("lactose_gpl", gpl.String()+" g/L").
		WithMeta("volume", fixed(vol, 2)+" L").
		WithMeta("target_abv", fixed(abv, 1)+"%").
		WithMeta("tip", "Lactose is non-fermentable. Add after fermentation or during boil."), nil
}

// oxymelBalance names the taste of a vinegar to honey ratio.
func oxymelBalance(ratio decimal.Decimal) string {
	switch {
	case ratio.GreaterThan(decimal.NewFromInt(5)):
		return "Very Tart (Digestive/Medicinal)"
	case ratio.GreaterThan(decimal.NewFromInt(3)):
		return "Tart (Traditional Oxymel)"
	case ratio.GreaterThan(two):
		return "Balanced Tart-Sweet"
	case ratio.GreaterThan(one):
		return "Mildly Tart"
	default:
		return "Sweet-Tart (Modern Style)"
	}
}

// Oxymel sizes an unfermented vinegar and honey beverage by volume share.
type Oxymel struct{ calc.Base }

func (Oxymel) ID() string       { return "oxymel" }
func (Oxymel) Name() string     { return "Oxymel (Vinegar-Honey)" }
func (Oxymel) Category() string { return calc.CategoryMeadStyles }
func (Oxymel) Description() string {
	return "Calculate ingredients for oxymel (vinegar-honey beverage)"
}

func (Oxymel) Validate(in calc.Input) error {
	return in.Require("volume", "vinegar_percent", "honey_percent")
}

func (c Oxymel) Calculate(in calc.Input) (calc.Result, error) {
	if err := c.Validate(in); err != nil {
		return fail(err)
	}
	vol, err := in.PositiveDecimal("volume")
	if err != nil {
		return fail(err)
	}
	vinegarPct, err := percentParam(in, "vinegar_percent", "")
	if err != nil {
		return fail(err)
	}
	honeyPct, err := percentParam(in, "honey_percent", "")
	if err != nil {
		return fail(err)
	}
	if vinegarPct.Add(honeyPct).GreaterThan(hundred) {
		return fail(measure.Validation("vinegar + honey percentages cannot exceed 100%%"))
	}

	vinegarL := vol.Mul(vinegarPct).Div(hundred)
	honeyL := vol.Mul(honeyPct).Div(hundred)
	honey := honeyL.Mul(honeyGramsPerLiter)
	ratio := sulfateOnly
	if honeyPct.IsPositive() {
		ratio = vinegarPct.Div(honeyPct)
	}

	res, err := output(honey, measure.Grams)
	if err != nil {
		return fail(err)
	}
	return res.
		WithWarningIf(vinegarPct.LessThan(ten), "Low vinegar (<10%) - may lack characteristic tang").
		WithWarningIf(vinegarPct.GreaterThan(decimal.NewFromInt(60)), "High vinegar (>60%) - may be too acidic").
		WithWarningIf(honeyPct.LessThan(ten), "Low honey (<10%) - may lack sweetness and body").
		WithWarningIf(honeyPct.GreaterThan(decimal.NewFromInt(40)), "High honey (>40%) - may be overly sweet").
		WithMeta("honey_g", fixed(honey, 0)+" g").
		WithMeta("honey_kg", asKg(honey)).
		WithMeta("vinegar_L", fixed(vinegarL, 2)+" L").
		WithMeta("water_L", fixed(vol.Sub(vinegarL).Sub(honeyL), 2)+" L").
		WithMeta("vinegar_percent", fixed(vinegarPct, 0)+"%").
		WithMeta("honey_percent", fixed(honeyPct, 0)+"%").
		WithMeta("ratio", fmt.Sprintf("%s:1 (vinegar:honey)", fixed(ratio, 1))).
		WithMeta("balance", oxymelBalance(ratio)).
		WithMeta("tip", "Use quality vinegar. Mix honey with water first, then add vinegar."), nil
}
