package kalpha

import "math"

// sourceRatio pairs a characteristic anode wavelength in Ångströms with
// its tabulated Kα2/Kα1 wavelength ratio.
type sourceRatio struct {
	wavelength float64
	ratio      float64
}

// Tabulated common anodes. Copper dominates powder work; cobalt and
// molybdenum cover iron-rich and high-resolution setups.
var sourceRatios = []sourceRatio{
	{1.54184, 1.0025}, // Cu Kα (weighted mean)
	{1.54056, 1.0025}, // Cu Kα1
	{1.54439, 1.0025}, // Cu Kα2
	{1.79026, 1.0023}, // Co Kα
	{0.70932, 1.0018}, // Mo Kα
}

// RatioForWavelength returns the wavelength ratio of the tabulated source
// closest to the given wavelength. Useful when the acquisition records the
// wavelength but not the doublet ratio.
func RatioForWavelength(wavelength float64) float64 {
	best := sourceRatios[0]
	bestDist := math.Abs(wavelength - best.wavelength)

	for _, sr := range sourceRatios[1:] {
		d := math.Abs(wavelength - sr.wavelength)
		if d < bestDist {
			best = sr
			bestDist = d
		}
	}

	return best.ratio
}
