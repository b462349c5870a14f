// Package peaks locates diffraction peaks and quantifies their widths.
//
// Four detectors are available: prominence-based (the recommended
// default), plain threshold, first-derivative sign change, and
// Savitzky-Golay smoothing followed by prominence detection. Every
// detector returns peaks in ascending angle order with the full width at
// half maximum attached where the data range allows computing it.
package peaks

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/srinikhil25/XRD-Scorer/xrd/spectrum"
)

// Errors returned by peak detection.
var (
	ErrUnknownMethod  = errors.New("peaks: unknown method")
	ErrMinDistance    = errors.New("peaks: minimum distance must be positive")
	ErrThreshold      = errors.New("peaks: threshold must be positive")
	ErrProminence     = errors.New("peaks: prominence must be positive")
	ErrWindowEven     = errors.New("peaks: smoothing window length must be odd")
	ErrWindowTooSmall = errors.New("peaks: smoothing window length must be at least 3")
	ErrWindowTooLarge = errors.New("peaks: smoothing window exceeds sample count")
	ErrInvalidOrder   = errors.New("peaks: polynomial order must be non-negative")
	ErrOrderTooHigh   = errors.New("peaks: polynomial order must be below window length")
)

// Method selects a peak detection algorithm.
type Method int

const (
	// MethodProminence keeps local maxima whose prominence clears a
	// threshold and is the recommended default.
	MethodProminence Method = iota
	MethodThreshold
	MethodDerivative
	MethodSavitzkyGolay
)

var methodNames = map[string]Method{
	"prominence": MethodProminence,
	"threshold":  MethodThreshold,
	"derivative": MethodDerivative,
	"savgol":     MethodSavitzkyGolay,
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

// Config holds peak detection parameters. Zero values auto-derive the
// documented defaults; negative values are rejected.
type Config struct {
	Method Method

	// Prominence is the minimum peak prominence for the prominence-based
	// detectors. Zero derives 5% of the searched array's maximum.
	Prominence float64

	// Threshold is the minimum peak intensity for the threshold and
	// derivative detectors. Zero derives 10% of the maximum.
	Threshold float64

	// MinDistance is the minimum spacing between reported peaks in
	// samples. Zero derives max(1, 0.1° / mean sample spacing).
	MinDistance int

	// WindowLength is the Savitzky-Golay window length, odd, default 11.
	WindowLength int

	// PolyOrder is the Savitzky-Golay polynomial order, default 3.
	PolyOrder int
}

const (
	defaultWindowLength = 11
	defaultPolyOrder    = 3
	autoProminenceFrac  = 0.05
	autoThresholdFrac   = 0.10
	autoDistanceDegrees = 0.1
)

// Peak is a detected diffraction peak. Values refer to the spectrum that
// was searched.
type Peak struct {
	TwoTheta   float64 // peak angle in degrees
	Intensity  float64 // peak intensity
	Index      int     // sample index into the searched spectrum
	Prominence float64 // height above the higher flanking valley
	Width      float64 // FWHM expressed in samples, NaN when undefined
	FWHM       float64 // full width at half maximum in degrees, NaN when undefined
}

// HasFWHM reports whether both half-maximum crossings fell inside the
// data range.
func (p Peak) HasFWHM() bool {
	return !math.IsNaN(p.FWHM)
}

// Detect locates peaks in s using the configured method. Peaks are
// returned in ascending angle order.
func Detect(s spectrum.Spectrum, cfg Config) ([]Peak, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	if cfg.Prominence < 0 {
		return nil, ErrProminence
	}

	if cfg.Threshold < 0 {
		return nil, ErrThreshold
	}

	if cfg.MinDistance < 0 {
		return nil, ErrMinDistance
	}

	var (
		found []Peak
		err   error
	)

	switch cfg.Method {
	case MethodProminence:
		found, err = detectProminence(s.TwoTheta, s.Intensity, cfg)
	case MethodThreshold:
		found, err = detectThreshold(s.TwoTheta, s.Intensity, cfg)
	case MethodDerivative:
		found, err = detectDerivative(s.TwoTheta, s.Intensity, cfg)
	case MethodSavitzkyGolay:
		found, err = detectSavitzkyGolay(s, cfg)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownMethod, int(cfg.Method))
	}

	if err != nil {
		return nil, err
	}

	sort.Slice(found, func(i, j int) bool {
		return found[i].TwoTheta < found[j].TwoTheta
	})

	step := s.MeanStep()

	for i := range found {
		found[i].FWHM = fwhmAt(s.TwoTheta, s.Intensity, found[i].Index)
		found[i].Width = found[i].FWHM / step
	}

	return found, nil
}

// resolveMinDistance derives the minimum peak spacing in samples from the
// angular sampling when unset.
func resolveMinDistance(cfg Config, meanStep float64) int {
	if cfg.MinDistance > 0 {
		return cfg.MinDistance
	}

	if meanStep <= 0 {
		return 1
	}

	return max(1, int(autoDistanceDegrees/meanStep))
}

func meanStepOf(twoTheta []float64) float64 {
	n := len(twoTheta)
	if n < 2 {
		return 0
	}

	return (twoTheta[n-1] - twoTheta[0]) / float64(n-1)
}
