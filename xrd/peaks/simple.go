package peaks

import "gonum.org/v1/gonum/floats"

// detectThreshold implements the plain threshold detector: a sample is a
// peak when it clears the intensity threshold and is the maximum over a
// symmetric window of half-width minDistance centered on it.
func detectThreshold(twoTheta, intensity []float64, cfg Config) ([]Peak, error) {
	threshold := cfg.Threshold
	if threshold == 0 {
		threshold = autoThresholdFrac * floats.Max(intensity)
	}

	minDistance := cfg.MinDistance
	if minDistance == 0 {
		minDistance = 5
	}

	n := len(intensity)

	var out []Peak

	for i := minDistance; i < n-minDistance; i++ {
		if intensity[i] <= threshold {
			continue
		}

		isPeak := true

		for j := max(i-minDistance, 0); j <= min(i+minDistance, n-1); j++ {
			if j != i && intensity[j] >= intensity[i] {
				isPeak = false
				break
			}
		}

		if isPeak {
			out = append(out, Peak{
				TwoTheta:  twoTheta[i],
				Intensity: intensity[i],
				Index:     i,
			})
		}
	}

	return out, nil
}

// detectDerivative implements the first-difference detector: a peak is a
// rising-to-falling sign change of the intensity difference that clears
// the intensity threshold and the minimum spacing.
func detectDerivative(twoTheta, intensity []float64, cfg Config) ([]Peak, error) {
	threshold := cfg.Threshold
	if threshold == 0 {
		threshold = autoThresholdFrac * floats.Max(intensity)
	}

	minDistance := resolveMinDistance(cfg, meanStepOf(twoTheta))

	n := len(intensity)

	var out []Peak

	for i := 1; i < n-1; i++ {
		rising := intensity[i]-intensity[i-1] > 0
		falling := intensity[i+1]-intensity[i] <= 0

		if !rising || !falling {
			continue
		}

		if intensity[i] <= threshold {
			continue
		}

		if len(out) > 0 && i-out[len(out)-1].Index < minDistance {
			continue
		}

		out = append(out, Peak{
			TwoTheta:  twoTheta[i],
			Intensity: intensity[i],
			Index:     i,
		})
	}

	return out, nil
}
