package background

import (
	"fmt"
	"math"

	"github.com/srinikhil25/XRD-Scorer/internal/conv"
	"github.com/srinikhil25/XRD-Scorer/xrd/spectrum"
)

func rollingBallBackground(s spectrum.Spectrum, cfg Config) (Result, error) {
	radius, err := structuringRadius(s, cfg)
	if err != nil {
		return Result{}, err
	}

	opened := opening(s.Intensity, radius)

	smoothed, err := gaussianSmooth(opened, float64(radius)/10)
	if err != nil {
		return Result{}, err
	}

	return Result{Background: smoothed}, nil
}

func topHatBackground(s spectrum.Spectrum, cfg Config) (Result, error) {
	radius, err := structuringRadius(s, cfg)
	if err != nil {
		return Result{}, err
	}

	return Result{Background: opening(s.Intensity, radius)}, nil
}

// structuringRadius resolves the structuring window width, deriving
// max(50, 5% of N) when unset.
func structuringRadius(s spectrum.Spectrum, cfg Config) (int, error) {
	radius := cfg.Radius
	if radius < 0 {
		return 0, ErrInvalidRadius
	}

	if radius == 0 {
		radius = max(50, s.Len()/20)
	}

	if radius > s.Len() {
		return 0, fmt.Errorf("%w: window %d, samples %d", ErrWindowTooLarge, radius, s.Len())
	}

	return radius, nil
}

// opening performs a grey morphological opening: a sliding-window erosion
// (minimum) followed by a dilation (maximum), both over a flat structuring
// element of the given width. Windows are clamped at the data boundaries.
func opening(values []float64, width int) []float64 {
	return slidingExtremum(slidingExtremum(values, width, math.Min), width, math.Max)
}

func slidingExtremum(values []float64, width int, pick func(a, b float64) float64) []float64 {
	n := len(values)
	out := make([]float64, n)

	left := width / 2
	right := width - left - 1

	for i := range values {
		lo := max(i-left, 0)
		hi := min(i+right, n-1)

		v := values[lo]
		for j := lo + 1; j <= hi; j++ {
			v = pick(v, values[j])
		}

		out[i] = v
	}

	return out
}

// gaussianSmooth convolves values with a normalized Gaussian kernel,
// truncated at four standard deviations. Edges are handled by reflecting
// the signal about its endpoints before convolving, so the output length
// matches the input.
func gaussianSmooth(values []float64, sigma float64) ([]float64, error) {
	if sigma <= 0 {
		return append([]float64(nil), values...), nil
	}

	radius := int(math.Ceil(4 * sigma))
	if radius < 1 {
		radius = 1
	}

	kernel := make([]float64, 2*radius+1)
	sum := 0.0

	for i := range kernel {
		d := float64(i-radius) / sigma
		kernel[i] = math.Exp(-0.5 * d * d)
		sum += kernel[i]
	}

	for i := range kernel {
		kernel[i] /= sum
	}

	padded := reflectPad(values, radius)

	full, err := conv.Convolve(padded, kernel)
	if err != nil {
		return nil, err
	}

	// The sample aligned with values[i] sits at full[i + 2*radius]: one
	// radius of padding plus one radius of kernel offset.
	out := make([]float64, len(values))
	copy(out, full[2*radius:2*radius+len(values)])

	return out, nil
}

// reflectPad extends values by radius samples on each side, mirroring
// about the end points.
func reflectPad(values []float64, radius int) []float64 {
	n := len(values)
	out := make([]float64, n+2*radius)

	for i := 0; i < radius; i++ {
		out[i] = values[reflectIndex(i-radius, n)]
	}

	copy(out[radius:radius+n], values)

	for i := 0; i < radius; i++ {
		out[radius+n+i] = values[reflectIndex(n+i, n)]
	}

	return out
}

// reflectIndex maps an out-of-range index into [0, n) by mirroring at the
// boundaries (scipy "reflect" convention: d c b a | a b c d | d c b a).
func reflectIndex(i, n int) int {
	if n == 1 {
		return 0
	}

	period := 2 * n
	i %= period
	if i < 0 {
		i += period
	}

	if i >= n {
		i = period - 1 - i
	}

	return i
}
