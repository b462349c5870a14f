package pattern

import (
	"math"

	"github.com/srinikhil25/XRD-Scorer/xrd/spectrum"
)

// Continuous renders the discrete pattern as a continuous spectrum on a
// linear angle grid by summing a Gaussian profile per reflection. Callers
// use it to overlay reference patterns on measured data; width is the
// Gaussian standard deviation in degrees.
func Continuous(p Pattern, lo, hi float64, n int, width float64) (spectrum.Spectrum, error) {
	if len(p.Peaks) == 0 {
		return spectrum.Spectrum{}, ErrNoPeaks
	}

	if n < 2 || hi <= lo || width <= 0 {
		return spectrum.Spectrum{}, ErrRange
	}

	twoTheta := make([]float64, n)
	intensity := make([]float64, n)

	step := (hi - lo) / float64(n-1)
	for i := range twoTheta {
		twoTheta[i] = lo + float64(i)*step
	}

	for _, pk := range p.Peaks {
		for i, tt := range twoTheta {
			d := (tt - pk.TwoTheta) / width
			intensity[i] += pk.Intensity * math.Exp(-0.5*d*d)
		}
	}

	return spectrum.Spectrum{
		TwoTheta:   twoTheta,
		Intensity:  intensity,
		Wavelength: p.Wavelength,
	}, nil
}
