package calc

import (
	"fmt"
	"slices"
	"strings"

	"github.com/rshade/mazerion/internal/measure"
)

// Calculator is implemented by every calculation unit.
//
// Calculate must not depend on Validate having been called: it re-checks its own
// inputs and fails rather than panicking on missing or malformed data. A
// Calculator holds no state between calls.
type Calculator interface {
	// ID is the stable lookup key. Changing it breaks callers.
	ID() string
	Name() string
	Description() string
	// Category is one of the values returned by Categories.
	Category() string
	Validate(in Input) error
	Calculate(in Input) (Result, error)
}

// Calculator categories, in display order.
const (
	CategoryBasic      = "Basic"
	CategoryAdvanced   = "Advanced"
	CategoryBrewing    = "Brewing"
	CategoryBeer       = "Beer"
	CategoryFinishing  = "Finishing"
	CategoryMeadStyles = "Mead Styles"
	CategoryUtilities  = "Utilities"
)

// Categories returns the valid categories in display order.
func Categories() []string {
	return []string{
		CategoryBasic,
		CategoryAdvanced,
		CategoryBrewing,
		CategoryBeer,
		CategoryFinishing,
		CategoryMeadStyles,
		CategoryUtilities,
	}
}

// ValidateCategory fails when category is not one of Categories.
func ValidateCategory(category string) error {
	valid := Categories()
	if slices.Contains(valid, category) {
		return nil
	}
	return measure.Validation("invalid category %q, must be one of: %s", category, strings.Join(valid, ", "))
}

// Base supplies the default parts of the Calculator contract. Embed it and
// override what the calculator needs.
type Base struct{}

// Category returns the generic bucket.
func (Base) Category() string {
	return CategoryUtilities
}

// Validate fails only when the input carries nothing at all.
func (Base) Validate(in Input) error {
	if in.IsEmpty() {
		return measure.MissingInputf("no measurements or parameters provided")
	}
	return nil
}

// Describe returns a one-line summary of c for logs and listings.
func Describe(c Calculator) string {
	return fmt.Sprintf("%s (%s): %s", c.Name(), c.ID(), c.Description())
}
