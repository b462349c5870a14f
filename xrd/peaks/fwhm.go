package peaks

import "math"

// fwhmAt computes the full width at half maximum of the peak at the given
// index. It scans outward on each side for the first sample at or below
// half the peak intensity and linearly interpolates the exact crossing
// angle. Returns NaN when either scan reaches a data boundary without
// crossing, which is a normal result state for edge peaks.
func fwhmAt(twoTheta, intensity []float64, index int) float64 {
	half := intensity[index] / 2

	left := math.NaN()

	for j := index - 1; j >= 0; j-- {
		if intensity[j] <= half {
			left = crossingAngle(twoTheta, intensity, j, j+1, half)
			break
		}
	}

	right := math.NaN()

	for j := index + 1; j < len(intensity); j++ {
		if intensity[j] <= half {
			right = crossingAngle(twoTheta, intensity, j, j-1, half)
			break
		}
	}

	return right - left
}

// crossingAngle interpolates the angle at which the intensity crosses
// level between samples outer (at or below) and inner (above).
func crossingAngle(twoTheta, intensity []float64, outer, inner int, level float64) float64 {
	yo := intensity[outer]
	yi := intensity[inner]

	if yi == yo {
		return twoTheta[outer]
	}

	frac := (level - yo) / (yi - yo)

	return twoTheta[outer] + frac*(twoTheta[inner]-twoTheta[outer])
}
