package calculators

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rshade/mazerion/internal/calc"
	"github.com/rshade/mazerion/internal/measure"
)

//nolint:gochecknoglobals // Formula constants.
var (
	brixA          = dec("258.6")
	brixB          = dec("258.2")
	brixC          = dec("227.1")
	platoPerPoint  = dec("0.004")
	sgCorrPerDeg   = dec("0.00013")
	sgCalibrationC = decimal.NewFromInt(20)
	sgTempWarn     = decimal.NewFromInt(10)
	hydroTempWarn  = decimal.NewFromInt(15)
	defaultCalibF  = decimal.NewFromInt(68)
	brixNoise      = dec("-0.05")
)

// BrixToSG converts a Brix reading into specific gravity.
type BrixToSG struct{ calc.Base }

func (BrixToSG) ID() string          { return "brix_to_sg" }
func (BrixToSG) Name() string        { return "Brix to SG Converter" }
func (BrixToSG) Description() string { return "Convert Brix to specific gravity" }
func (BrixToSG) Category() string    { return calc.CategoryBasic }

func (BrixToSG) Validate(in calc.Input) error {
	return in.RequireMeasurement(measure.Brix)
}

func (c BrixToSG) Calculate(in calc.Input) (calc.Result, error) {
	if err := c.Validate(in); err != nil {
		return fail(err)
	}
	m, _ := in.Measurement(measure.Brix)
	brix := m.Value
	if err := measure.ValidateBrix(brix); err != nil {
		return fail(err)
	}

	// SG = Brix / (258.6 - (Brix / 258.2) * 227.1) + 1
	denominator := brixA.Sub(brix.Div(brixB).Mul(brixC))
	sg := brix.Div(denominator).Add(one)

	res, err := output(sg, measure.SpecificGravity)
	if err != nil {
		return fail(err)
	}
	if warning, ok := measure.BrixWarning(brix); ok {
		res = res.WithWarning(warning)
	}
	return res.
		WithMeta("brix", fixed(brix, 2)+"°Bx").
		WithMeta("sg", fixed(sg, 4)).
		WithMeta("formula", "Brew Your Own (accurate)").
		WithMeta("calculation", fmt.Sprintf("%s/(258.6 - (%s÷258.2)×227.1) + 1", brix, brix)), nil
}

// PlatoToSG converts degrees Plato into specific gravity.
type PlatoToSG struct{ calc.Base }

func (PlatoToSG) ID() string          { return "plato_to_sg" }
func (PlatoToSG) Name() string        { return "Plato to SG" }
func (PlatoToSG) Description() string { return "Convert degrees Plato to specific gravity" }
func (PlatoToSG) Category() string    { return calc.CategoryBasic }

func (PlatoToSG) Validate(in calc.Input) error {
	return in.RequireMeasurement(measure.Plato)
}

func (c PlatoToSG) Calculate(in calc.Input) (calc.Result, error) {
	if err := c.Validate(in); err != nil {
		return fail(err)
	}
	m, _ := in.Measurement(measure.Plato)
	plato := m.Value
	if err := measure.ValidatePlato(plato); err != nil {
		return fail(err)
	}

	sg := one.Add(plato.Mul(platoPerPoint))
	res, err := output(sg, measure.SpecificGravity)
	if err != nil {
		return fail(err)
	}
	if warning, ok := measure.PlatoWarning(plato); ok {
		res = res.WithWarning(warning)
	}
	return res.
		WithMeta("plato", fixed(plato, 2)+"°P").
		WithMeta("formula", "SG = 1 + °P × 0.004"), nil
}

// SGToBrix converts specific gravity into Brix.
type SGToBrix struct{ calc.Base }

func (SGToBrix) ID() string          { return "sg_to_brix" }
func (SGToBrix) Name() string        { return "SG to Brix Converter" }
func (SGToBrix) Description() string { return "Convert specific gravity to Brix" }
func (SGToBrix) Category() string    { return calc.CategoryBasic }

func (SGToBrix) Validate(in calc.Input) error {
	return in.RequireMeasurement(measure.SpecificGravity)
}

func (c SGToBrix) Calculate(in calc.Input) (calc.Result, error) {
	if err := c.Validate(in); err != nil {
		return fail(err)
	}
	m, _ := in.Measurement(measure.SpecificGravity)
	sg := m.Value
	if err := measure.ValidateSG(sg); err != nil {
		return fail(err)
	}

	// Brix = -676.67 + 1286.4·SG - 800.47·SG² + 190.74·SG³
	sg2 := sg.Mul(sg)
	sg3 := sg2.Mul(sg)
	brix := dec("-676.67").
		Add(dec("1286.4").Mul(sg)).
		Sub(dec("800.47").Mul(sg2)).
		Add(dec("190.74").Mul(sg3))
	// The polynomial dips slightly below zero around SG 1.000.
	if brix.IsNegative() && brix.GreaterThan(brixNoise) {
		brix = zero
	}

	res, err := output(brix, measure.Brix)
	if err != nil {
		return fail(err)
	}
	if warning, ok := measure.BrixWarning(brix); ok {
		res = res.WithWarning(warning)
	}
	return res.
		WithMeta("sg", fixed(sg, 4)).
		WithMeta("brix", fixed(brix, 2)+"°Bx").
		WithMeta("formula", "Cubic polynomial (accurate)").
		WithMeta("calculation", "−676.67 + 1286.4·SG − 800.47·SG² + 190.74·SG³"), nil
}

// SGCorrection corrects a gravity reading for sample temperature against a 20°C calibration.
type SGCorrection struct{ calc.Base }

func (SGCorrection) ID() string       { return "sg_correction" }
func (SGCorrection) Name() string     { return "SG Temperature Correction" }
func (SGCorrection) Category() string { return calc.CategoryBasic }
func (SGCorrection) Description() string {
	return "Correct specific gravity reading for temperature (calibrated at 20°C)"
}

func (SGCorrection) Validate(in calc.Input) error {
	if err := in.RequireMeasurement(measure.SpecificGravity); err != nil {
		return err
	}
	return in.RequireMeasurement(measure.Celsius)
}

func (c SGCorrection) Calculate(in calc.Input) (calc.Result, error) {
	if err := c.Validate(in); err != nil {
		return fail(err)
	}
	sgM, _ := in.Measurement(measure.SpecificGravity)
	tempM, _ := in.Measurement(measure.Celsius)

	diff := tempM.Value.Sub(sgCalibrationC)
	correction := sgCorrPerDeg.Mul(diff)
	corrected := sgM.Value.Add(correction)

	res, err := output(corrected, measure.SpecificGravity)
	if err != nil {
		return fail(err)
	}
	return res.
		WithWarningIf(diff.Abs().GreaterThan(sgTempWarn), "Large temperature deviation from calibration (20°C)").
		WithMeta("measured_sg", sgM.Value.String()).
		WithMeta("temperature", tempM.Value.String()+" °C").
		WithMeta("correction", correction.String()).
		WithMeta("calibration", "20°C"), nil
}

// HydrometerCorrection applies the general polynomial hydrometer correction
// for any calibration temperature, in °F.
type HydrometerCorrection struct{ calc.Base }

func (HydrometerCorrection) ID() string       { return "hydrometer_correction" }
func (HydrometerCorrection) Name() string     { return "Hydrometer Temperature Correction" }
func (HydrometerCorrection) Category() string { return calc.CategoryBasic }
func (HydrometerCorrection) Description() string {
	return "Correct hydrometer readings for temperature (general polynomial formula)"
}

func (HydrometerCorrection) Validate(in calc.Input) error {
	return in.Require("measured_sg", "sample_temp")
}

// hydrometerDensity is the relative water density polynomial at t °F.
func hydrometerDensity(t decimal.Decimal) decimal.Decimal {
	t2 := t.Mul(t)
	t3 := t2.Mul(t)
	return dec("1.00130346").
		Sub(dec("0.000134722124").Mul(t)).
		Add(dec("0.00000204052596").Mul(t2)).
		Sub(dec("0.00000000232820948").Mul(t3))
}

func (c HydrometerCorrection) Calculate(in calc.Input) (calc.Result, error) {
	if err := c.Validate(in); err != nil {
		return fail(err)
	}
	measured, err := in.Gravity("measured_sg")
	if err != nil {
		return fail(err)
	}
	sample, err := in.Decimal("sample_temp")
	if err != nil {
		return fail(err)
	}
	calibration, err := in.OptionalDecimal("calibration_temp", defaultCalibF)
	if err != nil {
		return fail(err)
	}
	if err := measure.ValidateFahrenheit(sample); err != nil {
		return fail(err)
	}
	if err := measure.ValidateFahrenheit(calibration); err != nil {
		return fail(err)
	}

	corrected := measured.Mul(hydrometerDensity(sample).Div(hydrometerDensity(calibration)))
	correction := corrected.Sub(measured)

	res, err := output(corrected, measure.SpecificGravity)
	if err != nil {
		return fail(err)
	}
	sign := ""
	if !correction.IsNegative() {
		sign = "+"
	}
	return res.
		WithWarningIf(sample.Sub(calibration).Abs().GreaterThan(hydroTempWarn),
			"Large temperature difference - ensure accurate reading").
		WithMeta("corrected_sg", fixed(corrected, 4)).
		WithMeta("measured_sg", measured.String()).
		WithMeta("sample_temp", sample.String()+"°F").
		WithMeta("calibration_temp", calibration.String()+"°F").
		WithMeta("correction", sign+fixed(correction, 5)).
		WithMeta("formula", "General polynomial (accurate for any calibration temp)"), nil
}
