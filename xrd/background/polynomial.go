package background

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/srinikhil25/XRD-Scorer/xrd/spectrum"
)

func polynomialBackground(s spectrum.Spectrum, cfg Config) (Result, error) {
	if cfg.Degree < 1 {
		return Result{}, ErrInvalidDegree
	}

	if s.Len() < cfg.Degree+1 {
		return Result{}, fmt.Errorf("%w: need %d samples for degree %d, have %d",
			ErrInsufficientData, cfg.Degree+1, cfg.Degree, s.Len())
	}

	coeffs, err := polyfit(s.TwoTheta, s.Intensity, cfg.Degree)
	if err != nil {
		return Result{}, err
	}

	return Result{Background: polyval(coeffs, s.TwoTheta)}, nil
}

func iterativePolynomialBackground(s spectrum.Spectrum, cfg Config) (Result, error) {
	if cfg.Degree < 1 {
		return Result{}, ErrInvalidDegree
	}

	if cfg.Iterations < 1 {
		return Result{}, ErrInvalidIterations
	}

	if cfg.Threshold <= 0 {
		return Result{}, ErrInvalidThreshold
	}

	n := s.Len()
	if n < cfg.Degree+1 {
		return Result{}, fmt.Errorf("%w: need %d samples for degree %d, have %d",
			ErrInsufficientData, cfg.Degree+1, cfg.Degree, n)
	}

	exclusionLevel := cfg.Threshold * s.MaxIntensity()

	mask := make([]bool, n)
	for i := range mask {
		mask[i] = true
	}

	// Scratch for the masked subset.
	xs := make([]float64, 0, n)
	ys := make([]float64, 0, n)

	var background []float64

	rounds := 0
	collapsed := false

	for round := 0; round < cfg.Iterations; round++ {
		xs = xs[:0]
		ys = ys[:0]

		for i := range mask {
			if mask[i] {
				xs = append(xs, s.TwoTheta[i])
				ys = append(ys, s.Intensity[i])
			}
		}

		coeffs, err := polyfit(xs, ys, cfg.Degree)
		if err != nil {
			return Result{}, err
		}

		background = polyval(coeffs, s.TwoTheta)
		rounds++

		if round == cfg.Iterations-1 {
			break
		}

		// Exclude samples rising above the current fit by more than the
		// exclusion level; those are peak regions, not background.
		next := make([]bool, n)
		included := 0

		for i := range next {
			next[i] = s.Intensity[i]-background[i] < exclusionLevel
			if next[i] {
				included++
			}
		}

		// Refuse to shrink below a solvable system; keep the previous mask
		// and stop early.
		if included < cfg.Degree+1 {
			collapsed = true
			break
		}

		mask = next
	}

	return Result{
		Background:    background,
		Iterations:    rounds,
		MaskCollapsed: collapsed,
	}, nil
}

// polyfit computes least-squares polynomial coefficients in ascending power
// order by QR decomposition of the Vandermonde system.
func polyfit(x, y []float64, degree int) ([]float64, error) {
	rows := len(x)
	cols := degree + 1

	a := mat.NewDense(rows, cols, nil)
	for i, xv := range x {
		p := 1.0
		for j := 0; j < cols; j++ {
			a.Set(i, j, p)
			p *= xv
		}
	}

	var qr mat.QR
	qr.Factorize(a)

	var sol mat.VecDense

	err := qr.SolveVecTo(&sol, false, mat.NewVecDense(rows, y))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDegenerateFit, err)
	}

	coeffs := make([]float64, cols)
	for j := range coeffs {
		coeffs[j] = sol.AtVec(j)
	}

	return coeffs, nil
}

// polyval evaluates the polynomial at every angle using Horner's scheme.
func polyval(coeffs, x []float64) []float64 {
	out := make([]float64, len(x))
	for i, xv := range x {
		v := 0.0
		for j := len(coeffs) - 1; j >= 0; j-- {
			v = v*xv + coeffs[j]
		}

		out[i] = v
	}

	return out
}
