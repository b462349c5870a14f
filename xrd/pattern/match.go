package pattern

import (
	"math"
	"sort"

	"github.com/srinikhil25/XRD-Scorer/xrd/peaks"
)

// Pair is one committed assignment between a detected peak and a
// reference peak.
type Pair struct {
	Detected  peaks.Peak
	Reference ReferencePeak
}

// MatchResult is a one-to-one assignment between detected and reference
// peaks plus the unmatched remainder of each side.
type MatchResult struct {
	Pairs              []Pair
	UnmatchedDetected  []peaks.Peak
	UnmatchedReference []ReferencePeak

	// Score is the percentage of reference peaks that found a detected
	// partner, in [0, 100]. Zero when the reference list is empty.
	Score float64
}

// Match assigns detected peaks to reference peaks greedily: detected peaks
// are processed in ascending angle order, each takes the closest unmatched
// reference peak within tolerance. Ties between equidistant reference
// peaks resolve to the lower angle. The assignment is one-to-one but not
// a global optimum: of two detected peaks competing for one reference
// peak, the lower-angle one wins.
func Match(detected []peaks.Peak, reference []ReferencePeak, tolerance float64) (MatchResult, error) {
	if tolerance <= 0 {
		return MatchResult{}, ErrTolerance
	}

	ordered := make([]peaks.Peak, len(detected))
	copy(ordered, detected)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].TwoTheta < ordered[j].TwoTheta
	})

	// Scan references in ascending angle order regardless of input order,
	// so the strict less-than below makes the lower angle win exact ties.
	refOrder := make([]int, len(reference))
	for i := range refOrder {
		refOrder[i] = i
	}
	sort.Slice(refOrder, func(i, j int) bool {
		return reference[refOrder[i]].TwoTheta < reference[refOrder[j]].TwoTheta
	})

	consumed := make([]bool, len(reference))

	res := MatchResult{}

	for _, det := range ordered {
		best := -1
		bestDist := math.Inf(1)

		for _, i := range refOrder {
			if consumed[i] {
				continue
			}

			dist := math.Abs(det.TwoTheta - reference[i].TwoTheta)
			if dist < bestDist {
				best = i
				bestDist = dist
			}
		}

		if best >= 0 && bestDist <= tolerance {
			consumed[best] = true
			res.Pairs = append(res.Pairs, Pair{Detected: det, Reference: reference[best]})
		} else {
			res.UnmatchedDetected = append(res.UnmatchedDetected, det)
		}
	}

	for i, ref := range reference {
		if !consumed[i] {
			res.UnmatchedReference = append(res.UnmatchedReference, ref)
		}
	}

	if len(reference) > 0 {
		res.Score = float64(len(res.Pairs)) / float64(len(reference)) * 100
	}

	return res, nil
}
