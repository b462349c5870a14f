// Package background estimates and removes the slowly varying baseline of
// a diffraction spectrum.
//
// Five estimators are available, selectable per call:
//
//   - Polynomial: single least-squares polynomial fit
//   - Iterative polynomial: Sonneveld-Visser fit with peak exclusion
//   - Rolling ball: morphological opening followed by Gaussian smoothing
//   - Top-hat: morphological opening alone
//   - SNIP: iterative shrinking-window clipping
//
// Every estimator returns the baseline aligned to the input angle axis and
// the corrected spectrum, computed as original minus baseline with negative
// values preserved.
package background

import (
	"errors"
	"fmt"

	"github.com/srinikhil25/XRD-Scorer/xrd/spectrum"
)

// Errors returned by background estimation.
var (
	ErrUnknownMethod     = errors.New("background: unknown method")
	ErrInvalidDegree     = errors.New("background: polynomial degree must be positive")
	ErrInvalidIterations = errors.New("background: iteration count must be positive")
	ErrInvalidThreshold  = errors.New("background: exclusion threshold must be positive")
	ErrInvalidReduction  = errors.New("background: reduction factor must be in (0, 1)")
	ErrInvalidRadius     = errors.New("background: structuring radius must be positive")
	ErrWindowTooLarge    = errors.New("background: structuring window exceeds sample count")
	ErrInsufficientData  = errors.New("background: spectrum too short for method")
	ErrDegenerateFit     = errors.New("background: least-squares system is singular")
)

// Method selects a background estimation algorithm.
type Method int

const (
	// MethodIterativePolynomial is the Sonneveld-Visser iterative fit and
	// the recommended default.
	MethodIterativePolynomial Method = iota
	MethodPolynomial
	MethodRollingBall
	MethodTopHat
	MethodSNIP
)

var methodNames = map[string]Method{
	"iterative_polynomial": MethodIterativePolynomial,
	"polynomial":           MethodPolynomial,
	"rolling_ball":         MethodRollingBall,
	"tophat":               MethodTopHat,
	"snip":                 MethodSNIP,
}

// ParseMethod resolves a method by its canonical name.
func ParseMethod(name string) (Method, error) {
	m, ok := methodNames[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownMethod, name)
	}

	return m, nil
}

// String returns the canonical method name.
func (m Method) String() string {
	for name, v := range methodNames {
		if v == m {
			return name
		}
	}

	return fmt.Sprintf("Method(%d)", int(m))
}

// Config holds background estimation parameters. Zero values select the
// documented defaults.
type Config struct {
	Method Method

	// Degree is the polynomial degree for the polynomial methods.
	Degree int

	// Iterations is the round count for the iterative polynomial and SNIP
	// methods.
	Iterations int

	// Threshold is the peak exclusion threshold of the iterative polynomial
	// method, as a fraction of the global intensity maximum.
	Threshold float64

	// Radius is the structuring window width in samples for the rolling
	// ball and top-hat methods. Zero derives max(50, 5% of N).
	Radius int

	// ReductionFactor is the per-round window shrink factor of SNIP.
	ReductionFactor float64
}

const (
	defaultDegree          = 6
	defaultPolyIterations  = 10
	defaultSNIPIterations  = 100
	defaultThreshold       = 0.1
	defaultReductionFactor = 0.5
)

func normalizeConfig(cfg Config) Config {
	if cfg.Degree == 0 {
		cfg.Degree = defaultDegree
	}

	if cfg.Iterations == 0 {
		if cfg.Method == MethodSNIP {
			cfg.Iterations = defaultSNIPIterations
		} else {
			cfg.Iterations = defaultPolyIterations
		}
	}

	if cfg.Threshold == 0 {
		cfg.Threshold = defaultThreshold
	}

	if cfg.ReductionFactor == 0 {
		cfg.ReductionFactor = defaultReductionFactor
	}

	return cfg
}

// Result holds a background estimate on the input's angle axis and the
// corrected spectrum.
type Result struct {
	// Background is the baseline estimate, aligned to the input angle axis.
	Background []float64

	// Corrected is original minus background, negatives preserved.
	Corrected spectrum.Spectrum

	// Iterations is the number of rounds the iterative methods actually ran.
	Iterations int

	// MaskCollapsed reports that the iterative polynomial inclusion mask
	// shrank below degree+1 points and iteration stopped early. This is a
	// normal result state, not a failure.
	MaskCollapsed bool
}

// Estimate computes the background of s using the configured method.
func Estimate(s spectrum.Spectrum, cfg Config) (Result, error) {
	if err := s.Validate(); err != nil {
		return Result{}, err
	}

	cfg = normalizeConfig(cfg)

	var (
		res Result
		err error
	)

	switch cfg.Method {
	case MethodPolynomial:
		res, err = polynomialBackground(s, cfg)
	case MethodIterativePolynomial:
		res, err = iterativePolynomialBackground(s, cfg)
	case MethodRollingBall:
		res, err = rollingBallBackground(s, cfg)
	case MethodTopHat:
		res, err = topHatBackground(s, cfg)
	case MethodSNIP:
		res, err = snipBackground(s, cfg)
	default:
		return Result{}, fmt.Errorf("%w: %d", ErrUnknownMethod, int(cfg.Method))
	}

	if err != nil {
		return Result{}, err
	}

	res.Corrected = subtract(s, res.Background)

	return res, nil
}

// subtract returns a fresh spectrum holding original minus background.
func subtract(s spectrum.Spectrum, bg []float64) spectrum.Spectrum {
	corrected := make([]float64, s.Len())
	for i := range corrected {
		corrected[i] = s.Intensity[i] - bg[i]
	}

	return s.WithIntensity(corrected)
}
