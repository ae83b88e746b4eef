package measure

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Measurement is a decimal value tagged with a Unit.
// It is a value type; copies are independent.
type Measurement struct {
	Value decimal.Decimal `json:"value"`
	Unit  Unit            `json:"unit"`
}

// New builds a Measurement without range checks. Use it only when the value is
// already known to be legal, e.g. the output of a formula over checked inputs.
func New(value decimal.Decimal, unit Unit) Measurement {
	return Measurement{Value: value, Unit: unit}
}

// Of builds a Measurement after applying the rule for unit.
func Of(value decimal.Decimal, unit Unit) (Measurement, error) {
	if err := Validate(unit, value); err != nil {
		return Measurement{}, err
	}
	return New(value, unit), nil
}

// NewSG builds a checked specific gravity measurement.
func NewSG(value decimal.Decimal) (Measurement, error) {
	if err := ValidateSG(value); err != nil {
		return Measurement{}, err
	}
	return New(value, SpecificGravity), nil
}

// NewPH builds a checked pH measurement.
func NewPH(value decimal.Decimal) (Measurement, error) {
	if err := ValidatePH(value); err != nil {
		return Measurement{}, err
	}
	return New(value, PH), nil
}

// NewBrix builds a checked Brix measurement.
func NewBrix(value decimal.Decimal) (Measurement, error) {
	if err := ValidateBrix(value); err != nil {
		return Measurement{}, err
	}
	return New(value, Brix), nil
}

// NewPlato builds a checked Plato measurement.
func NewPlato(value decimal.Decimal) (Measurement, error) {
	if err := ValidatePlato(value); err != nil {
		return Measurement{}, err
	}
	return New(value, Plato), nil
}

// NewCelsius builds a checked Celsius measurement.
func NewCelsius(value decimal.Decimal) (Measurement, error) {
	if err := ValidateCelsius(value); err != nil {
		return Measurement{}, err
	}
	return New(value, Celsius), nil
}

// NewFahrenheit builds a checked Fahrenheit measurement.
func NewFahrenheit(value decimal.Decimal) (Measurement, error) {
	if err := ValidateFahrenheit(value); err != nil {
		return Measurement{}, err
	}
	return New(value, Fahrenheit), nil
}

// NewPercent builds a checked percentage measurement.
func NewPercent(value decimal.Decimal) (Measurement, error) {
	if err := ValidatePercent(value); err != nil {
		return Measurement{}, err
	}
	return New(value, Percent), nil
}

// NewABV builds a checked alcohol-by-volume measurement.
func NewABV(value decimal.Decimal) (Measurement, error) {
	if err := ValidateABV(value); err != nil {
		return Measurement{}, err
	}
	return New(value, ABV), nil
}

// Parse reads s as a decimal and builds a checked Measurement of unit.
func Parse(s string, unit Unit) (Measurement, error) {
	v, err := decimal.NewFromString(s)
	if err != nil {
		return Measurement{}, ParseError(unit.String(), s)
	}
	return Of(v, unit)
}

// Equal reports whether m and other have the same unit and numerically equal values.
func (m Measurement) Equal(other Measurement) bool {
	return m.Unit == other.Unit && m.Value.Equal(other.Value)
}

// Round returns m with its value rounded to the unit's display precision.
func (m Measurement) Round() Measurement {
	return New(m.Value.Round(m.Unit.Precision()), m.Unit)
}

// Text returns the value formatted with the unit's display precision, without symbol.
func (m Measurement) Text() string {
	return m.Value.StringFixed(m.Unit.Precision())
}

// String renders the measurement as "<value> <symbol>" using the unit precision.
func (m Measurement) String() string {
	return fmt.Sprintf("%s %s", m.Text(), m.Unit.Symbol())
}

// MarshalJSON encodes the value as a decimal string so no precision is lost.
func (m Measurement) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Value  string `json:"value"`
		Unit   Unit   `json:"unit"`
		Symbol string `json:"symbol"`
	}{
		Value:  m.Value.String(),
		Unit:   m.Unit,
		Symbol: m.Unit.Symbol(),
	})
}

// UnmarshalJSON decodes a measurement produced by MarshalJSON. No range check is
// applied; callers decoding untrusted input should re-check with Validate.
func (m *Measurement) UnmarshalJSON(data []byte) error {
	var aux struct {
		Value decimal.Decimal `json:"value"`
		Unit  Unit            `json:"unit"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	m.Value = aux.Value
	m.Unit = aux.Unit
	return nil
}
