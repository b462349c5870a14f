package background

import (
	"errors"
	"math"
	"testing"

	"github.com/srinikhil25/XRD-Scorer/internal/testutil"
	"github.com/srinikhil25/XRD-Scorer/xrd/spectrum"
)

func testSpectrum(n int) spectrum.Spectrum {
	twoTheta := testutil.AngleAxis(10, 90, n)
	intensity := testutil.Polynomial(twoTheta, 100, -1, 0.02)
	testutil.AddGaussianPeak(twoTheta, intensity, 31, 0.15, 800)
	testutil.AddGaussianPeak(twoTheta, intensity, 45.5, 0.2, 1200)
	testutil.AddGaussianPeak(twoTheta, intensity, 56.2, 0.18, 500)

	return spectrum.Spectrum{TwoTheta: twoTheta, Intensity: intensity, Wavelength: 1.54056}
}

func TestCorrectedIsExactlyOriginalMinusBackground(t *testing.T) {
	s := testSpectrum(2000)

	for _, m := range []Method{
		MethodPolynomial,
		MethodIterativePolynomial,
		MethodRollingBall,
		MethodTopHat,
		MethodSNIP,
	} {
		t.Run(m.String(), func(t *testing.T) {
			res, err := Estimate(s, Config{Method: m})
			if err != nil {
				t.Fatal(err)
			}

			if len(res.Background) != s.Len() {
				t.Fatalf("background length = %d, want %d", len(res.Background), s.Len())
			}

			testutil.RequireFinite(t, res.Background)

			for i := range res.Background {
				want := s.Intensity[i] - res.Background[i]
				if res.Corrected.Intensity[i] != want {
					t.Fatalf("index %d: corrected = %v, want %v (no clipping allowed)",
						i, res.Corrected.Intensity[i], want)
				}
			}
		})
	}
}

func TestPolynomialReproducesPolynomialInput(t *testing.T) {
	twoTheta := testutil.AngleAxis(10, 80, 500)
	intensity := testutil.Polynomial(twoTheta, 3, -0.5, 0.01, 0.0002)
	s := spectrum.Spectrum{TwoTheta: twoTheta, Intensity: intensity}

	res, err := Estimate(s, Config{Method: MethodPolynomial, Degree: 3})
	if err != nil {
		t.Fatal(err)
	}

	testutil.RequireSliceNearlyEqual(t, res.Background, intensity, 1e-6)

	for _, v := range res.Corrected.Intensity {
		if math.Abs(v) > 1e-6 {
			t.Fatalf("corrected should vanish on pure polynomial input, got %v", v)
		}
	}
}

func TestIterativePolynomialExcludesPeaks(t *testing.T) {
	twoTheta := testutil.AngleAxis(10, 70, 1200)
	baseline := testutil.Polynomial(twoTheta, 20, 0.5)

	intensity := make([]float64, len(baseline))
	copy(intensity, baseline)
	testutil.AddGaussianPeak(twoTheta, intensity, 40, 0.3, 1000)

	s := spectrum.Spectrum{TwoTheta: twoTheta, Intensity: intensity}

	res, err := Estimate(s, Config{Method: MethodIterativePolynomial, Degree: 1})
	if err != nil {
		t.Fatal(err)
	}

	if res.MaskCollapsed {
		t.Fatal("mask unexpectedly collapsed")
	}

	if res.Iterations == 0 {
		t.Fatal("no iterations reported")
	}

	// Far from the peak the fit should sit on the true baseline; the plain
	// polynomial fit would be dragged upward by the peak.
	for i, tt := range twoTheta {
		if tt > 35 && tt < 45 {
			continue
		}

		if math.Abs(res.Background[i]-baseline[i]) > 2 {
			t.Fatalf("angle %v: background %v, baseline %v", tt, res.Background[i], baseline[i])
		}
	}
}

func TestIterativePolynomialMaskCollapse(t *testing.T) {
	// All-negative intensities put the exclusion level below every
	// residual, so the first mask update empties and the previous mask is
	// kept.
	twoTheta := testutil.AngleAxis(10, 30, 40)
	intensity := testutil.Polynomial(twoTheta, -20, -0.1)
	s := spectrum.Spectrum{TwoTheta: twoTheta, Intensity: intensity}

	res, err := Estimate(s, Config{Method: MethodIterativePolynomial, Degree: 2, Threshold: 0.5})
	if err != nil {
		t.Fatal(err)
	}

	if !res.MaskCollapsed {
		t.Fatal("expected MaskCollapsed")
	}

	if res.Iterations != 1 {
		t.Errorf("iterations = %d, want 1", res.Iterations)
	}

	if len(res.Background) != s.Len() {
		t.Fatalf("background missing despite collapse")
	}
}

func TestTopHatBackgroundBelowSignal(t *testing.T) {
	s := testSpectrum(1500)

	res, err := Estimate(s, Config{Method: MethodTopHat})
	if err != nil {
		t.Fatal(err)
	}

	// A morphological opening never exceeds the signal.
	for i := range res.Background {
		if res.Background[i] > s.Intensity[i]+1e-9 {
			t.Fatalf("index %d: opening %v above signal %v", i, res.Background[i], s.Intensity[i])
		}
	}
}

func TestMorphologicalMethodsOnConstantSignal(t *testing.T) {
	twoTheta := testutil.AngleAxis(10, 60, 400)
	intensity := testutil.Polynomial(twoTheta, 7)
	s := spectrum.Spectrum{TwoTheta: twoTheta, Intensity: intensity}

	for _, m := range []Method{MethodRollingBall, MethodTopHat} {
		t.Run(m.String(), func(t *testing.T) {
			res, err := Estimate(s, Config{Method: m})
			if err != nil {
				t.Fatal(err)
			}

			// Constant in, constant background out, zero corrected.
			testutil.RequireSliceNearlyEqual(t, res.Background, intensity, 1e-9)
			for _, v := range res.Corrected.Intensity {
				if math.Abs(v) > 1e-9 {
					t.Fatalf("corrected = %v, want 0", v)
				}
			}
		})
	}
}

func TestSNIPMonotoneAcrossIterations(t *testing.T) {
	s := testSpectrum(800)

	var prev []float64

	for _, iters := range []int{1, 2, 4, 8, 16} {
		res, err := Estimate(s, Config{Method: MethodSNIP, Iterations: iters})
		if err != nil {
			t.Fatal(err)
		}

		// Each round can only lower or hold an estimate.
		if prev != nil {
			for i := range res.Background {
				if res.Background[i] > prev[i]+1e-12 {
					t.Fatalf("index %d: background rose from %v to %v", i, prev[i], res.Background[i])
				}
			}
		}

		// The envelope stays at or below the data it clips.
		for i := range res.Background {
			if res.Background[i] > s.Intensity[i]+1e-12 {
				t.Fatalf("index %d: background %v above signal %v", i, res.Background[i], s.Intensity[i])
			}
		}

		prev = res.Background
	}
}

func TestEstimateParameterValidation(t *testing.T) {
	s := testSpectrum(100)

	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{"negative degree", Config{Method: MethodPolynomial, Degree: -1}, ErrInvalidDegree},
		{"negative iterations", Config{Method: MethodIterativePolynomial, Iterations: -3}, ErrInvalidIterations},
		{"negative threshold", Config{Method: MethodIterativePolynomial, Threshold: -0.1}, ErrInvalidThreshold},
		{"reduction too large", Config{Method: MethodSNIP, ReductionFactor: 1.5}, ErrInvalidReduction},
		{"negative reduction", Config{Method: MethodSNIP, ReductionFactor: -0.5}, ErrInvalidReduction},
		{"negative radius", Config{Method: MethodTopHat, Radius: -5}, ErrInvalidRadius},
		{"window too large", Config{Method: MethodRollingBall, Radius: 500}, ErrWindowTooLarge},
		{"unknown method", Config{Method: Method(42)}, ErrUnknownMethod},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Estimate(s, tt.cfg)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestEstimateInsufficientData(t *testing.T) {
	s := spectrum.Spectrum{
		TwoTheta:  []float64{10, 20, 30},
		Intensity: []float64{1, 2, 3},
	}

	// Default degree 6 needs at least 7 samples.
	_, err := Estimate(s, Config{Method: MethodPolynomial})
	if !errors.Is(err, ErrInsufficientData) {
		t.Errorf("err = %v, want ErrInsufficientData", err)
	}
}

func TestParseMethod(t *testing.T) {
	for name, want := range methodNames {
		got, err := ParseMethod(name)
		if err != nil {
			t.Fatalf("ParseMethod(%q): %v", name, err)
		}

		if got != want {
			t.Errorf("ParseMethod(%q) = %v, want %v", name, got, want)
		}
	}

	if _, err := ParseMethod("bogus"); !errors.Is(err, ErrUnknownMethod) {
		t.Errorf("err = %v, want ErrUnknownMethod", err)
	}
}

func TestEstimateDoesNotMutateInput(t *testing.T) {
	s := testSpectrum(300)

	before := make([]float64, s.Len())
	copy(before, s.Intensity)

	_, err := Estimate(s, Config{Method: MethodSNIP})
	if err != nil {
		t.Fatal(err)
	}

	for i := range before {
		if s.Intensity[i] != before[i] {
			t.Fatal("Estimate mutated its input spectrum")
		}
	}
}
