package peaks

import (
	"testing"

	"github.com/srinikhil25/XRD-Scorer/internal/testutil"
	"github.com/srinikhil25/XRD-Scorer/xrd/spectrum"
)

func BenchmarkDetect(b *testing.B) {
	twoTheta := testutil.AngleAxis(10, 90, 4000)
	intensity := make([]float64, len(twoTheta))

	for _, center := range []float64{22.5, 31, 45.5, 56.2, 66, 75.3} {
		testutil.AddGaussianPeak(twoTheta, intensity, center, 0.15, 1000)
	}

	noise := testutil.SeededNoise(1, 15, len(intensity))
	for i := range intensity {
		intensity[i] += noise[i]
	}

	s := spectrum.Spectrum{TwoTheta: twoTheta, Intensity: intensity}

	for _, m := range []Method{MethodProminence, MethodThreshold, MethodDerivative, MethodSavitzkyGolay} {
		b.Run(m.String(), func(b *testing.B) {
			b.ReportAllocs()
			b.ResetTimer()

			for range b.N {
				_, _ = Detect(s, Config{Method: m})
			}
		})
	}
}
