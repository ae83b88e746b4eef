package calculators

import (
	"github.com/rshade/mazerion/internal/calc"
	"github.com/rshade/mazerion/internal/registry"
)

// factories lists every calculator, grouped by category in display order.
//
//nolint:gochecknoglobals // Static catalog.
var factories = []registry.Factory{
	// Basic
	func() calc.Calculator { return ABV{} },
	func() calc.Calculator { return BrixToSG{} },
	func() calc.Calculator { return SGToBrix{} },
	func() calc.Calculator { return PlatoToSG{} },
	func() calc.Calculator { return SGCorrection{} },
	func() calc.Calculator { return HydrometerCorrection{} },
	func() calc.Calculator { return GravityFromIngredients{} },

	// Advanced
	func() calc.Calculator { return Refractometer{} },
	func() calc.Calculator { return Attenuation{} },
	func() calc.Calculator { return AlcoholTolerance{} },
	func() calc.Calculator { return BenchTrials{} },
	func() calc.Calculator { return VolumeAdjustment{} },

	// Brewing
	func() calc.Calculator { return Nutrition{} },
	func() calc.Calculator { return YeastPitch{} },
	func() calc.Calculator { return YeastStarter{} },
	func() calc.Calculator { return FermentationTimeline{} },
	func() calc.Calculator { return Carbonation{} },

	// Beer
	func() calc.Calculator { return IBU{} },
	func() calc.Calculator { return SRM{} },
	func() calc.Calculator { return Mash{} },
	func() calc.Calculator { return Efficiency{} },

	// Finishing
	func() calc.Calculator { return Stabilization{} },
	func() calc.Calculator { return AcidAddition{} },
	func() calc.Calculator { return Sulfite{} },
	func() calc.Calculator { return Backsweetening{} },
	func() calc.Calculator { return Bottling{} },
	func() calc.Calculator { return Tannin{} },
	func() calc.Calculator { return Pasteurization{} },

	// Mead Styles
	func() calc.Calculator { return GreatMead{} },
	func() calc.Calculator { return Hydromel{} },
	func() calc.Calculator { return Sack{} },
	func() calc.Calculator { return Melomel{} },
	func() calc.Calculator { return Bochet{} },
	func() calc.Calculator { return Cyser{} },
	func() calc.Calculator { return Pyment{} },
	func() calc.Calculator { return Metheglin{} },
	func() calc.Calculator { return Capsicumel{} },
	func() calc.Calculator { return Acerglyn{} },
	func() calc.Calculator { return Braggot{} },
	func() calc.Calculator { return Lactomel{} },
	func() calc.Calculator { return Oxymel{} },

	// Utilities and uncategorized
	func() calc.Calculator { return PrimingAlternatives{} },
	func() calc.Calculator { return CostCalculator{} },
	func() calc.Calculator { return BatchCost{} },
	func() calc.Calculator { return WaterChemistry{} },
	func() calc.Calculator { return Upscaling{} },
	func() calc.Calculator { return Waste{} },
	func() calc.Calculator { return GallonsToBottles{} },
	func() calc.Calculator { return GallonsToBottlesWithLosses{} },
	func() calc.Calculator { return Dilution{} },
	func() calc.Calculator { return Blending{} },
}

// Register adds every calculator to r.
func Register(r *registry.Registry) {
	for _, f := range factories {
		r.Register(f().ID(), f)
	}
}

// NewRegistry returns a frozen registry holding every calculator.
func NewRegistry() *registry.Registry {
	r := registry.New()
	Register(r)
	r.Freeze()
	return r
}
