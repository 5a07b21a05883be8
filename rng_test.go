package gofugue

import "testing"

func TestDeterministicRNGSameSeedSameSequence(t *testing.T) {
	a := NewDeterministicRNG(42)
	b := NewDeterministicRNG(42)
	for i := 0; i < 20; i++ {
		fa, fb := a.Float64(), b.Float64()
		if fa != fb {
			t.Fatalf("draw %d diverged: %v vs %v", i, fa, fb)
		}
	}
}

func TestDeterministicRNGDifferentSeedsDiverge(t *testing.T) {
	a := NewDeterministicRNG(1)
	b := NewDeterministicRNG(2)
	same := true
	for i := 0; i < 10; i++ {
		if a.Float64() != b.Float64() {
			same = false
		}
	}
	if same {
		t.Errorf("expected different seeds to diverge across 10 draws")
	}
}

func TestDeterministicRNGDrawsCounted(t *testing.T) {
	r := NewDeterministicRNG(7)
	if r.Draws() != 0 {
		t.Fatalf("fresh RNG should report 0 draws, got %d", r.Draws())
	}
	r.Float64()
	r.Intn(10)
	r.Bool(0.5)
	if r.Draws() != 3 {
		t.Errorf("Draws() = %d, want 3 after Float64+Intn+Bool", r.Draws())
	}
}

func TestDeterministicRNGBoolDegenerateProbabilitiesStillDraw(t *testing.T) {
	r := NewDeterministicRNG(3)
	if got := r.Bool(0); got {
		t.Errorf("Bool(0) should always return false")
	}
	if got := r.Bool(1); !got {
		t.Errorf("Bool(1) should always return true")
	}
	if r.Draws() != 2 {
		t.Errorf("Draws() = %d, want 2 (degenerate probabilities must still consume a draw)", r.Draws())
	}
}

func TestDeterministicRNGIntnNonPositive(t *testing.T) {
	r := NewDeterministicRNG(5)
	if got := r.Intn(0); got != 0 {
		t.Errorf("Intn(0) = %d, want 0", got)
	}
}

func TestDeterministicRNGWeightedChoiceRespectsZeroWeights(t *testing.T) {
	r := NewDeterministicRNG(9)
	weights := []float64{0, 0, 5}
	for i := 0; i < 20; i++ {
		idx := r.WeightedChoice(weights)
		if idx != 2 {
			t.Errorf("WeightedChoice with only index 2 nonzero returned %d, want 2", idx)
		}
	}
}

func TestDeterministicRNGWeightedChoiceZeroSumFallsBackToZero(t *testing.T) {
	r := NewDeterministicRNG(11)
	if got := r.WeightedChoice([]float64{0, 0, 0}); got != 0 {
		t.Errorf("WeightedChoice with all-zero weights = %d, want 0", got)
	}
}

func TestDeterministicRNGWeightedChoiceStaysInBounds(t *testing.T) {
	r := NewDeterministicRNG(13)
	weights := []float64{1, 1, 1, 1}
	for i := 0; i < 100; i++ {
		idx := r.WeightedChoice(weights)
		if idx < 0 || idx >= len(weights) {
			t.Fatalf("WeightedChoice returned out-of-bounds index %d", idx)
		}
	}
}
