package testutil

import (
	"math"
	"math/rand"
)

// AngleAxis returns n evenly spaced angles from lo to hi inclusive.
func AngleAxis(lo, hi float64, n int) []float64 {
	out := make([]float64, n)
	if n == 1 {
		out[0] = lo
		return out
	}
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	return out
}

// AddGaussianPeak adds a Gaussian profile of the given center (degrees),
// standard deviation, and amplitude to intensity in place.
func AddGaussianPeak(twoTheta, intensity []float64, center, sigma, amplitude float64) {
	for i, tt := range twoTheta {
		d := (tt - center) / sigma
		intensity[i] += amplitude * math.Exp(-0.5*d*d)
	}
}

// Polynomial evaluates the polynomial with the given coefficients
// (ascending power order) at each angle.
func Polynomial(twoTheta []float64, coeffs ...float64) []float64 {
	out := make([]float64, len(twoTheta))
	for i, tt := range twoTheta {
		v := 0.0
		for j := len(coeffs) - 1; j >= 0; j-- {
			v = v*tt + coeffs[j]
		}
		out[i] = v
	}
	return out
}

// SeededNoise generates uniform noise in [-amplitude, amplitude] with a
// fixed seed for reproducibility.
func SeededNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}
