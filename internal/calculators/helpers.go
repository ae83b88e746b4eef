// Package calculators contains every calculator shipped with mazerion and the
// single registration step that catalogs them.
//
// Each calculator is a stateless value type embedding calc.Base. Calculate always
// re-runs Validate, parses parameters through the calc.Input helpers (which name
// the offending field on failure), and reports unusual-but-legal values as
// warnings rather than errors.
package calculators

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/rshade/mazerion/internal/calc"
	"github.com/rshade/mazerion/internal/measure"
)

// dec parses a decimal literal. It is only used with compile-time constants.
func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

//nolint:gochecknoglobals // Shared immutable decimal constants.
var (
	zero       = decimal.Zero
	one        = decimal.NewFromInt(1)
	two        = decimal.NewFromInt(2)
	ten        = decimal.NewFromInt(10)
	hundred    = decimal.NewFromInt(100)
	thousand   = decimal.NewFromInt(1000)
	gravityPts = decimal.NewFromInt(1000)
)

// fixed renders v with the given number of fractional digits.
func fixed(v decimal.Decimal, places int32) string {
	return v.StringFixed(places)
}

// points converts a specific gravity into gravity points, e.g. 1.050 -> 50.
func points(sg decimal.Decimal) decimal.Decimal {
	return sg.Sub(one).Mul(gravityPts)
}

// fromPoints converts gravity points back into a specific gravity.
func fromPoints(pts decimal.Decimal) decimal.Decimal {
	return one.Add(pts.Div(gravityPts))
}

// powf raises base to a real exponent. Decimal has no transcendental functions,
// so the computation goes through float64 and is rounded back to 10 places.
// Values outside the float64 range fail with a Calculation error.
func powf(base decimal.Decimal, exp float64) (decimal.Decimal, error) {
	b := base.InexactFloat64()
	if !finite(b) || !finite(exp) {
		return zero, measure.Calculation("%s^%g is outside the representable range", base, exp)
	}
	return fromFloat(math.Pow(b, exp))
}

// expf returns e^x for a float exponent, rounded to 10 places.
func expf(x float64) (decimal.Decimal, error) {
	if !finite(x) {
		return zero, measure.Calculation("exponent %g is outside the representable range", x)
	}
	return fromFloat(math.Exp(x))
}

func fromFloat(f float64) (decimal.Decimal, error) {
	if !finite(f) {
		return zero, measure.Calculation("result %g is outside the representable range", f)
	}
	return decimal.NewFromFloat(f).Round(10), nil
}

func finite(f float64) bool {
	return !math.IsInf(f, 0) && !math.IsNaN(f)
}

// fail returns the zero Result with err, for terse early returns.
func fail(err error) (calc.Result, error) {
	return calc.Result{}, err
}

// output wraps value in a measurement of unit after the unit's range check.
func output(value decimal.Decimal, unit measure.Unit) (calc.Result, error) {
	m, err := measure.Of(value, unit)
	if err != nil {
		return fail(err)
	}
	return calc.NewResult(m), nil
}

// percentOf returns part/whole*100, or zero when whole is zero.
func percentOf(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return zero
	}
	return part.Div(whole).Mul(hundred)
}
