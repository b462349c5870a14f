// Package pattern holds reference diffraction patterns and matches them
// against detected peak lists for phase identification.
package pattern

import (
	"errors"

	"github.com/srinikhil25/XRD-Scorer/xrd/spectrum"
)

// Errors returned by pattern operations.
var (
	ErrTolerance = errors.New("pattern: tolerance must be positive")
	ErrNoPeaks   = errors.New("pattern: pattern has no peaks")
	ErrRange     = errors.New("pattern: invalid angle range")
)

// ReferencePeak is one reflection of a reference pattern. DSpacing and HKL
// are carried as metadata and take no part in matching.
type ReferencePeak struct {
	TwoTheta  float64 // diffraction angle in degrees
	Intensity float64 // relative intensity, arbitrary scale
	DSpacing  float64 // interplanar spacing in Ångströms, 0 if unknown
	HKL       [3]int  // Miller indices, zero if unknown
}

// Pattern is a named reference pattern, typically loaded from an ICDD or
// Materials Project entry by the caller.
type Pattern struct {
	Name       string
	Wavelength float64 // Ångströms, used to resolve angles from d-spacings
	Peaks      []ReferencePeak
}

// Normalize returns a copy of p with intensities scaled to a 0-100 range.
// Patterns with no positive intensity are returned unchanged.
func (p Pattern) Normalize() Pattern {
	out := p.clone()
	if len(out.Peaks) == 0 {
		return out
	}

	maxIntensity := out.Peaks[0].Intensity
	for _, pk := range out.Peaks[1:] {
		if pk.Intensity > maxIntensity {
			maxIntensity = pk.Intensity
		}
	}

	if maxIntensity <= 0 {
		return out
	}

	for i := range out.Peaks {
		out.Peaks[i].Intensity = out.Peaks[i].Intensity / maxIntensity * 100
	}

	return out
}

// ResolveAngles returns a copy of p with missing peak angles computed from
// their d-spacings via Bragg's law. Reflections that are unreachable at
// the pattern wavelength (λ/2d > 1) are dropped.
func (p Pattern) ResolveAngles() Pattern {
	out := p.clone()
	resolved := out.Peaks[:0]

	for _, pk := range out.Peaks {
		if pk.TwoTheta == 0 && pk.DSpacing > 0 {
			tt, ok := spectrum.TwoThetaFromD(pk.DSpacing, out.Wavelength)
			if !ok {
				continue
			}

			pk.TwoTheta = tt
		}

		resolved = append(resolved, pk)
	}

	out.Peaks = resolved

	return out
}

func (p Pattern) clone() Pattern {
	out := p
	out.Peaks = make([]ReferencePeak, len(p.Peaks))
	copy(out.Peaks, p.Peaks)

	return out
}
