package measure

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestValidate_RangeEdges(t *testing.T) {
	tests := []struct {
		name    string
		unit    Unit
		value   string
		wantErr bool
	}{
		{name: "sg lower bound", unit: SpecificGravity, value: "0.6000"},
		{name: "sg upper bound", unit: SpecificGravity, value: "2.0000"},
		{name: "sg below", unit: SpecificGravity, value: "0.5999", wantErr: true},
		{name: "sg above", unit: SpecificGravity, value: "2.0001", wantErr: true},
		{name: "ph lower bound", unit: PH, value: "1.50"},
		{name: "ph upper bound", unit: PH, value: "8.50"},
		{name: "ph below", unit: PH, value: "1.49", wantErr: true},
		{name: "ph above", unit: PH, value: "8.51", wantErr: true},
		{name: "brix zero", unit: Brix, value: "0"},
		{name: "brix upper bound", unit: Brix, value: "70"},
		{name: "brix negative", unit: Brix, value: "-0.01", wantErr: true},
		{name: "brix above", unit: Brix, value: "70.01", wantErr: true},
		{name: "plato upper bound", unit: Plato, value: "70"},
		{name: "plato above", unit: Plato, value: "71", wantErr: true},
		{name: "celsius lower bound", unit: Celsius, value: "-5"},
		{name: "celsius upper bound", unit: Celsius, value: "100"},
		{name: "celsius below", unit: Celsius, value: "-5.1", wantErr: true},
		{name: "celsius above", unit: Celsius, value: "100.1", wantErr: true},
		{name: "fahrenheit lower bound", unit: Fahrenheit, value: "23"},
		{name: "fahrenheit upper bound", unit: Fahrenheit, value: "212"},
		{name: "fahrenheit below", unit: Fahrenheit, value: "22.9", wantErr: true},
		{name: "fahrenheit above", unit: Fahrenheit, value: "212.1", wantErr: true},
		{name: "percent bounds", unit: Percent, value: "100"},
		{name: "percent above", unit: Percent, value: "100.5", wantErr: true},
		{name: "abv above", unit: ABV, value: "101", wantErr: true},
		{name: "grams non-negative", unit: Grams, value: "0"},
		{name: "grams negative", unit: Grams, value: "-1", wantErr: true},
		{name: "liters large", unit: Liters, value: "100000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.unit, d(tt.value))
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrOutOfRange)
				return
			}
			require.NoError(t, err)
		})
	}
}

// Every value inside a unit's range constructs; every value outside fails.
func TestOf_RangeInvariant(t *testing.T) {
	step := d("0.01")
	for _, u := range Units() {
		r, ok := RangeFor(u)
		if !ok {
			continue
		}
		t.Run(u.String(), func(t *testing.T) {
			_, err := Of(r.Min, u)
			require.NoError(t, err)
			_, err = Of(r.Max, u)
			require.NoError(t, err)

			mid := r.Min.Add(r.Max).Div(decimal.NewFromInt(2))
			m, err := Of(mid, u)
			require.NoError(t, err)
			assert.Equal(t, u, m.Unit)

			_, err = Of(r.Min.Sub(step), u)
			require.ErrorIs(t, err, ErrOutOfRange)
			_, err = Of(r.Max.Add(step), u)
			require.ErrorIs(t, err, ErrOutOfRange)
		})
	}
}

func TestValidateSG_Message(t *testing.T) {
	err := ValidateSG(d("2.5"))
	require.Error(t, err)
	assert.Equal(t, "out of range: SG 2.5 outside range 0.6000–2.0000", err.Error())
}

func TestSugarWarnings(t *testing.T) {
	msg, ok := BrixWarning(d("46"))
	assert.True(t, ok)
	assert.Contains(t, msg, "above typical range")

	_, ok = BrixWarning(d("45"))
	assert.False(t, ok)

	msg, ok = PlatoWarning(d("50"))
	assert.True(t, ok)
	assert.Contains(t, msg, "Plato 50")

	_, ok = PlatoWarning(d("12"))
	assert.False(t, ok)
}

func TestValidate_UnknownUnit(t *testing.T) {
	err := Validate(Unit(999), d("1"))
	require.ErrorIs(t, err, ErrValidation)
}
