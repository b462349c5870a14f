package peaks

import (
	"fmt"

	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/srinikhil25/XRD-Scorer/xrd/spectrum"
)

// detectSavitzkyGolay smooths the intensity array with a local polynomial
// fit, runs the prominence detector on the smoothed array, and reports
// angle and intensity from the original spectrum at the detected indices.
func detectSavitzkyGolay(s spectrum.Spectrum, cfg Config) ([]Peak, error) {
	window := cfg.WindowLength
	if window == 0 {
		window = defaultWindowLength
	}

	order := cfg.PolyOrder
	if order == 0 {
		order = defaultPolyOrder
	}

	switch {
	case window < 3:
		return nil, ErrWindowTooSmall
	case window%2 == 0:
		return nil, ErrWindowEven
	case window > s.Len():
		return nil, fmt.Errorf("%w: window %d, samples %d", ErrWindowTooLarge, window, s.Len())
	case order < 0:
		return nil, ErrInvalidOrder
	case order >= window:
		return nil, ErrOrderTooHigh
	}

	kernel, err := savgolKernel(window, order)
	if err != nil {
		return nil, err
	}

	smoothed := applyKernel(s.Intensity, kernel)

	found, err := detectProminence(s.TwoTheta, smoothed, cfg)
	if err != nil {
		return nil, err
	}

	// Report from the unsmoothed data; the smoothed array only steered
	// the detection.
	for i := range found {
		found[i].TwoTheta = s.TwoTheta[found[i].Index]
		found[i].Intensity = s.Intensity[found[i].Index]
	}

	return found, nil
}

// savgolKernel computes the Savitzky-Golay smoothing weights: the value at
// the window center of the least-squares polynomial fit over the window.
// With A the Vandermonde matrix of sample offsets, the weight vector is
// A (AᵀA)⁻¹ e₀.
func savgolKernel(window, order int) ([]float64, error) {
	half := window / 2

	a := mat.NewDense(window, order+1, nil)
	for i := 0; i < window; i++ {
		x := float64(i - half)
		p := 1.0

		for j := 0; j <= order; j++ {
			a.Set(i, j, p)
			p *= x
		}
	}

	var ata mat.Dense
	ata.Mul(a.T(), a)

	e0 := mat.NewVecDense(order+1, nil)
	e0.SetVec(0, 1)

	var z mat.VecDense

	err := z.SolveVec(&ata, e0)
	if err != nil {
		return nil, fmt.Errorf("peaks: savitzky-golay system is singular: %w", err)
	}

	var w mat.VecDense
	w.MulVec(a, &z)

	kernel := make([]float64, window)
	for i := range kernel {
		kernel[i] = w.AtVec(i)
	}

	return kernel, nil
}

// applyKernel computes the windowed product of the kernel with the signal
// at every sample, replicating edge values so the output length matches
// the input.
func applyKernel(values, kernel []float64) []float64 {
	n := len(values)
	half := len(kernel) / 2

	padded := make([]float64, n+2*half)
	for i := 0; i < half; i++ {
		padded[i] = values[0]
		padded[half+n+i] = values[n-1]
	}

	copy(padded[half:half+n], values)

	out := make([]float64, n)
	scratch := make([]float64, len(kernel))

	for i := range out {
		vecmath.MulBlock(scratch, padded[i:i+len(kernel)], kernel)
		out[i] = floats.Sum(scratch)
	}

	return out
}
