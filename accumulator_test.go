package gofugue

import "testing"

func TestSectionAccumulatorRecordCountsMatchTotal(t *testing.T) {
	acc := NewSectionAccumulator(DefaultRhythmReference, DefaultHarmonyReference)
	acc.Record(480, 0) // quarter note, tonic
	acc.Record(240, 4) // eighth note, dominant
	acc.Record(480, 0)

	rCounts := acc.RhythmCounts()
	hCounts := acc.HarmonyCounts()
	rTotal, hTotal := 0, 0
	for _, c := range rCounts {
		rTotal += c
	}
	for _, c := range hCounts {
		hTotal += c
	}
	if rTotal != 3 || hTotal != 3 {
		t.Errorf("expected 3 recorded notes in both histograms, got rhythm=%d harmony=%d", rTotal, hTotal)
	}
}

func TestJSDIdenticalDistributionsIsZero(t *testing.T) {
	d := DefaultRhythmReference
	if got := jsd(d, d); got > 1e-9 {
		t.Errorf("jsd(d, d) = %v, want ~0", got)
	}
}

func TestJSDDisjointDistributionsIsOne(t *testing.T) {
	var p, q [histogramBins]float64
	p[0] = 1.0
	q[1] = 1.0
	if got := jsd(p, q); got < 0.99 || got > 1.01 {
		t.Errorf("jsd of two disjoint point masses = %v, want ~1.0", got)
	}
}

func TestSectionAccumulatorEmptyIsNeutral(t *testing.T) {
	acc := NewSectionAccumulator(DefaultRhythmReference, DefaultHarmonyReference)
	// With no notes recorded, normalize falls back to a uniform distribution
	// rather than dividing by zero.
	if got := acc.JSDRhythm(); got < 0 || got > 1 {
		t.Errorf("JSDRhythm() on an empty accumulator = %v, want a value in [0,1]", got)
	}
}

func TestDecayFactorRelaxesNearCadence(t *testing.T) {
	far := DecayFactor(900, TicksPerBar, 0.5, false)
	near := DecayFactor(60, TicksPerBar, 0.5, false)
	if near >= far {
		t.Errorf("expected the decay factor to shrink as tickToCadence approaches 0: far=%v, near=%v", far, near)
	}
}

func TestDecayFactorClampedToRange(t *testing.T) {
	got := DecayFactor(0, TicksPerBar, 1.0, true)
	if got < 0.3 || got > 1.0 {
		t.Errorf("DecayFactor() = %v, want a value in [0.3, 1.0]", got)
	}
}
