package calculators

import (
	"strings"

	"github.com/rshade/mazerion/internal/calc"
	"github.com/rshade/mazerion/internal/measure"
)

//nolint:gochecknoglobals // Formula constants.
var (
	abvFactor        = dec("131.25")
	abvHighThreshold = dec("20")
)

// ABV computes alcohol by volume from original and final gravity.
type ABV struct{ calc.Base }

func (ABV) ID() string       { return "abv" }
func (ABV) Name() string     { return "ABV Calculator" }
func (ABV) Category() string { return calc.CategoryBasic }
func (ABV) Description() string {
	return "Calculate alcohol by volume from original and final specific gravity"
}

// Validate requires both og and fg parameters.
func (ABV) Validate(in calc.Input) error {
	return in.Require("og", "fg")
}

func (c ABV) Calculate(in calc.Input) (calc.Result, error) {
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

	abv := og.Sub(fg).Mul(abvFactor)
	res, err := output(abv, measure.ABV)
	if err != nil {
		return fail(err)
	}

	rawOG, _ := in.Param("og")
	rawFG, _ := in.Param("fg")
	return res.
		WithWarningIf(abv.GreaterThan(abvHighThreshold), "ABV > 20% is unusually high").
		WithMeta("og", strings.TrimSpace(rawOG)).
		WithMeta("fg", strings.TrimSpace(rawFG)).
		WithMeta("formula", "Standard ABV = (OG - FG) × 131.25"), nil
}
