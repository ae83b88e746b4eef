// Package measure provides the typed measurement model shared by every calculator.
//
// A Measurement pairs an arbitrary-precision decimal value with a Unit. Units are a
// closed set; each carries a display precision and a symbol. Checked constructors
// apply the unit's range rule so that a Measurement built through them never holds a
// value outside its unit's legal domain.
package measure

import (
	"fmt"
	"strings"
)

// Unit identifies a physical quantity.
type Unit int

// Supported units, in display order.
const (
	SpecificGravity Unit = iota
	PH
	Brix
	Plato
	Celsius
	Fahrenheit
	Percent
	ABV
	Grams
	Kilograms
	Ounces
	Pounds
	Liters
	Milliliters
	Gallons
	Quarts
	Pints
	FluidOunces
	PPM
	Days
	Minutes
	PSI
	IBU
	SRM
	Count
	Ratio
	BillionCells
	PasteurizationUnits
	Currency
)

// unitInfo holds the fixed attributes of a unit.
type unitInfo struct {
	key       string
	symbol    string
	precision int32
}

//nolint:gochecknoglobals // Immutable lookup table indexed by Unit.
var unitTable = [...]unitInfo{
	SpecificGravity:     {"sg", "SG", 4},
	PH:                  {"ph", "pH", 3},
	Brix:                {"brix", "°Bx", 2},
	Plato:               {"plato", "°P", 2},
	Celsius:             {"celsius", "°C", 1},
	Fahrenheit:          {"fahrenheit", "°F", 1},
	Percent:             {"percent", "%", 2},
	ABV:                 {"abv", "% ABV", 2},
	Grams:               {"grams", "g", 2},
	Kilograms:           {"kilograms", "kg", 3},
	Ounces:              {"ounces", "oz", 2},
	Pounds:              {"pounds", "lb", 2},
	Liters:              {"liters", "L", 2},
	Milliliters:         {"milliliters", "mL", 2},
	Gallons:             {"gallons", "gal", 2},
	Quarts:              {"quarts", "qt", 2},
	Pints:               {"pints", "pt", 2},
	FluidOunces:         {"fluid_ounces", "fl oz", 2},
	PPM:                 {"ppm", "ppm", 1},
	Days:                {"days", "days", 1},
	Minutes:             {"minutes", "min", 1},
	PSI:                 {"psi", "psi", 1},
	IBU:                 {"ibu", "IBU", 1},
	SRM:                 {"srm", "SRM", 1},
	Count:               {"count", "count", 0},
	Ratio:               {"ratio", "ratio", 2},
	BillionCells:        {"billion_cells", "B cells", 1},
	PasteurizationUnits: {"pu", "PU", 1},
	Currency:            {"currency", "$", 2},
}

// Units returns every supported unit in declaration order.
func Units() []Unit {
	out := make([]Unit, len(unitTable))
	for i := range unitTable {
		out[i] = Unit(i)
	}
	return out
}

// Valid reports whether u is one of the declared units.
func (u Unit) Valid() bool {
	return u >= 0 && int(u) < len(unitTable)
}

// Precision returns the number of fractional digits used when displaying values of u.
// It is never used for comparisons.
func (u Unit) Precision() int32 {
	if !u.Valid() {
		return 2 //nolint:mnd // Generic fallback precision.
	}
	return unitTable[u].precision
}

// Symbol returns the display symbol for u, e.g. "°Bx".
func (u Unit) Symbol() string {
	if !u.Valid() {
		return "?"
	}
	return unitTable[u].symbol
}

// String returns the stable key for u, e.g. "brix".
func (u Unit) String() string {
	if !u.Valid() {
		return fmt.Sprintf("Unit(%d)", int(u))
	}
	return unitTable[u].key
}

// MarshalText encodes the unit as its stable key.
func (u Unit) MarshalText() ([]byte, error) {
	if !u.Valid() {
		return nil, fmt.Errorf("%w: unknown unit %d", ErrParse, int(u))
	}
	return []byte(u.String()), nil
}

// UnmarshalText decodes a unit from its key or symbol.
func (u *Unit) UnmarshalText(text []byte) error {
	parsed, err := ParseUnit(string(text))
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}

// ParseUnit resolves a unit from its key or its symbol, ignoring case and
// surrounding whitespace.
func ParseUnit(s string) (Unit, error) {
	needle := strings.ToLower(strings.TrimSpace(s))
	if needle == "" {
		return 0, ParseError("unit", s)
	}
	for i, info := range unitTable {
		if needle == info.key || needle == strings.ToLower(info.symbol) {
			return Unit(i), nil
		}
	}
	return 0, ParseError("unit", s)
}
