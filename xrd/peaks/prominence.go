package peaks

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// detectProminence implements the prominence detector: every strict local
// maximum is a candidate, its prominence is measured against the higher of
// the two flanking valleys, and a greedy pass keeps the strongest peaks
// subject to the minimum spacing.
func detectProminence(twoTheta, intensity []float64, cfg Config) ([]Peak, error) {
	minProminence := cfg.Prominence
	if minProminence == 0 {
		minProminence = autoProminenceFrac * floats.Max(intensity)
	}

	minDistance := resolveMinDistance(cfg, meanStepOf(twoTheta))

	var candidates []Peak

	for _, i := range localMaxima(intensity) {
		prom := prominenceAt(intensity, i)
		if prom < minProminence {
			continue
		}

		candidates = append(candidates, Peak{
			TwoTheta:   twoTheta[i],
			Intensity:  intensity[i],
			Index:      i,
			Prominence: prom,
		})
	}

	return filterByDistance(candidates, minDistance), nil
}

// localMaxima returns indices of strict local maxima. Boundary samples
// count when they exceed their single interior neighbor.
func localMaxima(intensity []float64) []int {
	n := len(intensity)

	var out []int

	if intensity[0] > intensity[1] {
		out = append(out, 0)
	}

	for i := 1; i < n-1; i++ {
		if intensity[i] > intensity[i-1] && intensity[i] > intensity[i+1] {
			out = append(out, i)
		}
	}

	if intensity[n-1] > intensity[n-2] {
		out = append(out, n-1)
	}

	return out
}

// prominenceAt measures how far the peak at index i rises above the higher
// of its two flanking valleys. Each valley is the minimum reached while
// descending toward the nearest higher sample on that side; when no higher
// sample exists the walk runs to the spectrum boundary.
func prominenceAt(intensity []float64, i int) float64 {
	height := intensity[i]

	leftBase := math.Inf(1)
	for j := i - 1; j >= 0; j-- {
		if intensity[j] > height {
			break
		}

		if intensity[j] < leftBase {
			leftBase = intensity[j]
		}
	}

	rightBase := math.Inf(1)
	for j := i + 1; j < len(intensity); j++ {
		if intensity[j] > height {
			break
		}

		if intensity[j] < rightBase {
			rightBase = intensity[j]
		}
	}

	base := math.Max(leftBase, rightBase)
	if math.IsInf(base, 1) {
		// A boundary peak has no samples on one side; measure against the
		// side that exists.
		base = math.Min(leftBase, rightBase)
	}

	return height - base
}

// filterByDistance resolves spacing conflicts with a closed greedy pass:
// candidates are ranked by prominence descending and accepted unless an
// already accepted peak sits within minDistance samples. The survivors are
// returned in ascending index order.
func filterByDistance(candidates []Peak, minDistance int) []Peak {
	if minDistance <= 1 || len(candidates) < 2 {
		return candidates
	}

	ranked := make([]Peak, len(candidates))
	copy(ranked, candidates)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Prominence > ranked[j].Prominence
	})

	var accepted []Peak

	for _, c := range ranked {
		ok := true

		for _, a := range accepted {
			if abs(c.Index-a.Index) < minDistance {
				ok = false
				break
			}
		}

		if ok {
			accepted = append(accepted, c)
		}
	}

	sort.Slice(accepted, func(i, j int) bool {
		return accepted[i].Index < accepted[j].Index
	})

	return accepted
}

func abs(v int) int {
	if v < 0 {
		return -v
	}

	return v
}
