package spectrum

import (
	"errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Errors returned by spectrum validation.
var (
	ErrTooShort           = errors.New("spectrum: need at least 2 samples")
	ErrLengthMismatch     = errors.New("spectrum: angle and intensity length mismatch")
	ErrAnglesNotAscending = errors.New("spectrum: angles must be strictly ascending")
	ErrNonFiniteAngle     = errors.New("spectrum: angle values must be finite")
)

// Spectrum is a powder diffraction pattern: aligned two-theta and intensity
// arrays plus the source wavelength in Ångströms.
//
// Angles are strictly ascending by contract; intensities may be negative
// after correction stages. Processing stages never mutate a Spectrum in
// place, they return fresh values.
type Spectrum struct {
	TwoTheta   []float64 // diffraction angles in degrees, strictly ascending
	Intensity  []float64 // measured counts, aligned to TwoTheta
	Wavelength float64   // source wavelength in Ångströms, 0 if unknown
}

// Validate checks the structural invariants interpolating stages rely on.
func (s Spectrum) Validate() error {
	if len(s.TwoTheta) != len(s.Intensity) {
		return ErrLengthMismatch
	}

	if len(s.TwoTheta) < 2 {
		return ErrTooShort
	}

	prev := math.Inf(-1)
	for _, tt := range s.TwoTheta {
		if math.IsNaN(tt) || math.IsInf(tt, 0) {
			return ErrNonFiniteAngle
		}

		if tt <= prev {
			return ErrAnglesNotAscending
		}

		prev = tt
	}

	return nil
}

// Len returns the number of samples.
func (s Spectrum) Len() int {
	return len(s.TwoTheta)
}

// Clone returns a deep copy sharing no backing arrays with s.
func (s Spectrum) Clone() Spectrum {
	out := Spectrum{
		TwoTheta:   make([]float64, len(s.TwoTheta)),
		Intensity:  make([]float64, len(s.Intensity)),
		Wavelength: s.Wavelength,
	}

	copy(out.TwoTheta, s.TwoTheta)
	copy(out.Intensity, s.Intensity)

	return out
}

// WithIntensity returns a spectrum on the same angle axis with a copy of
// the given intensity array. The angle axis is copied as well, so the
// result shares nothing with either input.
func (s Spectrum) WithIntensity(intensity []float64) Spectrum {
	out := Spectrum{
		TwoTheta:   make([]float64, len(s.TwoTheta)),
		Intensity:  make([]float64, len(intensity)),
		Wavelength: s.Wavelength,
	}

	copy(out.TwoTheta, s.TwoTheta)
	copy(out.Intensity, intensity)

	return out
}

// MaxIntensity returns the maximum intensity value, or 0 for an empty
// spectrum.
func (s Spectrum) MaxIntensity() float64 {
	if len(s.Intensity) == 0 {
		return 0
	}

	return floats.Max(s.Intensity)
}

// MeanStep returns the average angular spacing between adjacent samples.
func (s Spectrum) MeanStep() float64 {
	n := len(s.TwoTheta)
	if n < 2 {
		return 0
	}

	return (s.TwoTheta[n-1] - s.TwoTheta[0]) / float64(n-1)
}

// InterpolateAt returns the linearly interpolated intensity at the given
// angle. The second return is false when the angle falls outside the
// spectrum's range; no extrapolation is performed.
func (s Spectrum) InterpolateAt(twoTheta float64) (float64, bool) {
	n := len(s.TwoTheta)
	if n == 0 || twoTheta < s.TwoTheta[0] || twoTheta > s.TwoTheta[n-1] {
		return 0, false
	}

	// First index with angle >= twoTheta.
	i := sort.SearchFloat64s(s.TwoTheta, twoTheta)
	if i < n && s.TwoTheta[i] == twoTheta {
		return s.Intensity[i], true
	}

	lo, hi := i-1, i

	span := s.TwoTheta[hi] - s.TwoTheta[lo]
	frac := (twoTheta - s.TwoTheta[lo]) / span

	return s.Intensity[lo] + frac*(s.Intensity[hi]-s.Intensity[lo]), true
}
