package background

import (
	"github.com/srinikhil25/XRD-Scorer/xrd/spectrum"
)

// snipBackground implements the SNIP estimator: the background starts as
// the raw intensity and is repeatedly clipped to the minimum over a window
// whose width shrinks geometrically each round. Every update can only
// lower or hold an estimate, so the background converges onto a peak-free
// envelope from above.
func snipBackground(s spectrum.Spectrum, cfg Config) (Result, error) {
	if cfg.Iterations < 1 {
		return Result{}, ErrInvalidIterations
	}

	if cfg.ReductionFactor <= 0 || cfg.ReductionFactor >= 1 {
		return Result{}, ErrInvalidReduction
	}

	n := s.Len()

	background := make([]float64, n)
	copy(background, s.Intensity)

	window := float64(n)
	rounds := 0

	for round := 0; round < cfg.Iterations; round++ {
		width := int(window)
		if width < 3 {
			break
		}

		for j := range background {
			lo := max(j-width/2, 0)
			hi := min(j+width/2, n-1)

			v := background[lo]
			for k := lo + 1; k <= hi; k++ {
				if background[k] < v {
					v = background[k]
				}
			}

			if v < background[j] {
				background[j] = v
			}
		}

		rounds++
		window *= cfg.ReductionFactor
	}

	return Result{Background: background, Iterations: rounds}, nil
}
