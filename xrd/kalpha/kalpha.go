// Package kalpha removes the Kα2 component from a diffraction spectrum
// recorded with an unfiltered doublet source.
//
// Lab X-ray tubes emit two close wavelengths (Kα1 and Kα2) with a fixed
// intensity ratio, so every reflection appears twice with a small,
// angle-dependent separation. The Rachinger correction subtracts the
// scaled, shifted Kα2 contribution, leaving the Kα1 pattern.
package kalpha

import (
	"errors"
	"math"

	"github.com/srinikhil25/XRD-Scorer/xrd/spectrum"
)

// Errors returned by stripping.
var (
	ErrWavelengthRatio = errors.New("kalpha: wavelength ratio must be in (1, 1.1)")
	ErrIntensityRatio  = errors.New("kalpha: intensity ratio must be in (0, 1]")
	ErrIterations      = errors.New("kalpha: iteration count must be positive")
)

// maxWavelengthRatio is a sanity bound; real doublet separations are a
// fraction of a percent.
const maxWavelengthRatio = 1.1

// Config holds Rachinger correction parameters. Zero values select the
// copper-source defaults.
type Config struct {
	// WavelengthRatio is λ(Kα2)/λ(Kα1), strictly above 1.
	WavelengthRatio float64

	// IntensityRatio is I(Kα2)/I(Kα1) in (0, 1].
	IntensityRatio float64

	// Iterations is the number of stripping passes; each pass feeds on the
	// previous pass's output and suppresses residual Kα2 leakage.
	Iterations int
}

const (
	defaultWavelengthRatio = 1.0025
	defaultIntensityRatio  = 0.5
	defaultIterations      = 3
)

func normalizeConfig(cfg Config) Config {
	if cfg.WavelengthRatio == 0 {
		cfg.WavelengthRatio = defaultWavelengthRatio
	}

	if cfg.IntensityRatio == 0 {
		cfg.IntensityRatio = defaultIntensityRatio
	}

	if cfg.Iterations == 0 {
		cfg.Iterations = defaultIterations
	}

	return cfg
}

func (cfg Config) validate() error {
	if cfg.WavelengthRatio <= 1 || cfg.WavelengthRatio >= maxWavelengthRatio {
		return ErrWavelengthRatio
	}

	if cfg.IntensityRatio <= 0 || cfg.IntensityRatio > 1 {
		return ErrIntensityRatio
	}

	if cfg.Iterations < 1 {
		return ErrIterations
	}

	return nil
}

// Strip applies the iterative Rachinger correction and returns the Kα1
// spectrum. Negative corrected intensities are preserved.
func Strip(s spectrum.Spectrum, cfg Config) (spectrum.Spectrum, error) {
	cfg = normalizeConfig(cfg)

	if err := cfg.validate(); err != nil {
		return spectrum.Spectrum{}, err
	}

	if err := s.Validate(); err != nil {
		return spectrum.Spectrum{}, err
	}

	out := s
	for i := 0; i < cfg.Iterations; i++ {
		out = stripPass(out, cfg.WavelengthRatio, cfg.IntensityRatio)
	}

	return out, nil
}

// StripOnce applies a single Rachinger pass.
func StripOnce(s spectrum.Spectrum, cfg Config) (spectrum.Spectrum, error) {
	cfg = normalizeConfig(cfg)

	if err := cfg.validate(); err != nil {
		return spectrum.Spectrum{}, err
	}

	if err := s.Validate(); err != nil {
		return spectrum.Spectrum{}, err
	}

	return stripPass(s, cfg.WavelengthRatio, cfg.IntensityRatio), nil
}

// stripPass corrects every sample against the unmodified input spectrum;
// sampling a partially corrected array mid-pass would distort the
// low-angle side.
func stripPass(s spectrum.Spectrum, wavelengthRatio, intensityRatio float64) spectrum.Spectrum {
	corrected := make([]float64, s.Len())

	for i, twoTheta := range s.TwoTheta {
		// Angular separation of the doublet from Bragg's law under the
		// small-angle approximation: Δ(2θ) = 2 atan(tan θ (r - 1)).
		theta := twoTheta / 2 * math.Pi / 180
		delta := 2 * math.Atan(math.Tan(theta)*(wavelengthRatio-1)) * 180 / math.Pi

		// The Kα2 line observed at 2θ originates from the Kα1 reflection
		// at 2θ - Δ. Outside the recorded range the contribution is zero.
		secondary, ok := s.InterpolateAt(twoTheta - delta)
		if !ok {
			secondary = 0
		}

		corrected[i] = s.Intensity[i] - intensityRatio*secondary
	}

	return s.WithIntensity(corrected)
}
