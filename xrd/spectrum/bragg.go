package spectrum

import "math"

// DSpacing converts a diffraction angle to the interplanar spacing via
// Bragg's law: d = λ / (2 sin θ). Returns false for non-positive inputs
// or angles at which sin θ vanishes.
func DSpacing(twoThetaDeg, wavelength float64) (float64, bool) {
	if twoThetaDeg <= 0 || wavelength <= 0 {
		return 0, false
	}

	sinTheta := math.Sin(twoThetaDeg / 2 * math.Pi / 180)
	if sinTheta <= 0 {
		return 0, false
	}

	return wavelength / (2 * sinTheta), true
}

// TwoThetaFromD converts an interplanar spacing to a diffraction angle via
// Bragg's law: 2θ = 2 asin(λ / 2d). Returns false when the reflection is
// unreachable at this wavelength (λ/2d > 1) or for non-positive inputs.
func TwoThetaFromD(d, wavelength float64) (float64, bool) {
	if d <= 0 || wavelength <= 0 {
		return 0, false
	}

	ratio := wavelength / (2 * d)
	if ratio > 1 {
		return 0, false
	}

	return 2 * math.Asin(ratio) * 180 / math.Pi, true
}
