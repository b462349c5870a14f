package pattern

import (
	"errors"
	"math"
	"testing"

	"github.com/srinikhil25/XRD-Scorer/xrd/peaks"
)

func detectedAt(angles ...float64) []peaks.Peak {
	out := make([]peaks.Peak, len(angles))
	for i, a := range angles {
		out[i] = peaks.Peak{TwoTheta: a, Intensity: 100}
	}

	return out
}

func referenceAt(angles ...float64) []ReferencePeak {
	out := make([]ReferencePeak, len(angles))
	for i, a := range angles {
		out[i] = ReferencePeak{TwoTheta: a, Intensity: 100}
	}

	return out
}

func TestMatchGreedyAssignment(t *testing.T) {
	res, err := Match(detectedAt(10.0, 20.0, 30.0), referenceAt(10.05, 25.0), 0.2)
	if err != nil {
		t.Fatal(err)
	}

	if len(res.Pairs) != 1 {
		t.Fatalf("pairs = %d, want 1", len(res.Pairs))
	}

	if res.Pairs[0].Detected.TwoTheta != 10.0 || res.Pairs[0].Reference.TwoTheta != 10.05 {
		t.Errorf("pair = (%v, %v), want (10, 10.05)",
			res.Pairs[0].Detected.TwoTheta, res.Pairs[0].Reference.TwoTheta)
	}

	if len(res.UnmatchedDetected) != 2 {
		t.Errorf("unmatched detected = %d, want 2", len(res.UnmatchedDetected))
	}

	if len(res.UnmatchedReference) != 1 || res.UnmatchedReference[0].TwoTheta != 25.0 {
		t.Errorf("unmatched reference = %v, want [25.0]", res.UnmatchedReference)
	}

	if res.Score != 50 {
		t.Errorf("score = %v, want 50", res.Score)
	}
}

func TestMatchToleranceBoundary(t *testing.T) {
	// Exactly at tolerance matches; strictly beyond does not.
	res, err := Match(detectedAt(10.0), referenceAt(10.2), 0.2)
	if err != nil {
		t.Fatal(err)
	}

	if len(res.Pairs) != 1 {
		t.Errorf("distance == tolerance should match, got %d pairs", len(res.Pairs))
	}

	res, err = Match(detectedAt(10.0), referenceAt(10.2001), 0.2)
	if err != nil {
		t.Fatal(err)
	}

	if len(res.Pairs) != 0 {
		t.Errorf("distance > tolerance should not match, got %d pairs", len(res.Pairs))
	}
}

func TestMatchOneToOne(t *testing.T) {
	// Two detected peaks compete for one reference peak; the lower angle
	// is processed first and wins.
	res, err := Match(detectedAt(10.1, 10.0), referenceAt(10.05), 0.2)
	if err != nil {
		t.Fatal(err)
	}

	if len(res.Pairs) != 1 {
		t.Fatalf("pairs = %d, want 1", len(res.Pairs))
	}

	if res.Pairs[0].Detected.TwoTheta != 10.0 {
		t.Errorf("winner = %v, want 10.0 (lower angle processed first)", res.Pairs[0].Detected.TwoTheta)
	}

	if len(res.UnmatchedDetected) != 1 || res.UnmatchedDetected[0].TwoTheta != 10.1 {
		t.Errorf("unmatched detected = %v, want [10.1]", res.UnmatchedDetected)
	}
}

func TestMatchEquidistantReferenceTieBreak(t *testing.T) {
	// Two reference peaks equidistant from one detected peak: the lower
	// angle wins.
	res, err := Match(detectedAt(20.0), referenceAt(19.9, 20.1), 0.2)
	if err != nil {
		t.Fatal(err)
	}

	if len(res.Pairs) != 1 {
		t.Fatalf("pairs = %d, want 1", len(res.Pairs))
	}

	if res.Pairs[0].Reference.TwoTheta != 19.9 {
		t.Errorf("matched reference = %v, want 19.9", res.Pairs[0].Reference.TwoTheta)
	}

	// Same outcome when the reference list arrives unsorted.
	res, err = Match(detectedAt(20.0), referenceAt(20.1, 19.9), 0.2)
	if err != nil {
		t.Fatal(err)
	}

	if len(res.Pairs) != 1 || res.Pairs[0].Reference.TwoTheta != 19.9 {
		t.Errorf("unsorted reference: matched %v, want 19.9", res.Pairs[0].Reference.TwoTheta)
	}
}

func TestMatchEmptyReference(t *testing.T) {
	res, err := Match(detectedAt(10.0, 20.0), nil, 0.2)
	if err != nil {
		t.Fatal(err)
	}

	if res.Score != 0 {
		t.Errorf("score = %v, want 0 for empty reference", res.Score)
	}

	if len(res.UnmatchedDetected) != 2 {
		t.Errorf("unmatched detected = %d, want 2", len(res.UnmatchedDetected))
	}
}

func TestMatchInvalidTolerance(t *testing.T) {
	for _, tol := range []float64{0, -0.5} {
		if _, err := Match(detectedAt(10.0), referenceAt(10.0), tol); !errors.Is(err, ErrTolerance) {
			t.Errorf("tolerance %v: err = %v, want ErrTolerance", tol, err)
		}
	}
}

func TestMatchScoreBounds(t *testing.T) {
	// Every reference matched: score 100.
	res, err := Match(detectedAt(10.0, 20.0), referenceAt(10.0, 20.0), 0.1)
	if err != nil {
		t.Fatal(err)
	}

	if res.Score != 100 {
		t.Errorf("score = %v, want 100", res.Score)
	}

	if math.IsNaN(res.Score) || res.Score < 0 || res.Score > 100 {
		t.Errorf("score %v out of [0, 100]", res.Score)
	}
}

func TestMatchDoesNotMutateInputs(t *testing.T) {
	detected := detectedAt(30.0, 10.0, 20.0)
	reference := referenceAt(20.05)

	_, err := Match(detected, reference, 0.2)
	if err != nil {
		t.Fatal(err)
	}

	// The caller's detected slice keeps its original order; Match sorts a
	// copy.
	if detected[0].TwoTheta != 30.0 || detected[2].TwoTheta != 20.0 {
		t.Error("Match reordered the caller's slice")
	}
}
