package gofugue

import "testing"

func TestProbabilityTableRowSumValid(t *testing.T) {
	pt := NewProbabilityTable(2, 4)
	pt.SetRowFromWeights(0, []float64{1, 1, 1, 1})
	// row 1 left all-zero on purpose: an all-zero row is "no data" and must
	// not fail the row-sum check.
	if !pt.RowSumValid() {
		t.Errorf("RowSumValid() = false, want true for a uniform row plus an empty row")
	}
}

func TestProbabilityTableScoreZeroRow(t *testing.T) {
	pt := NewProbabilityTable(1, 4)
	if got := pt.score(0, 0); got != 0 {
		t.Errorf("score on all-zero row = %v, want 0", got)
	}
}

func TestProbabilityTablePackUnpackRoundTrip(t *testing.T) {
	pt := NewProbabilityTable(3, 5)
	pt.SetRowFromWeights(0, []float64{5, 4, 3, 2, 1})
	pt.SetRowFromWeights(2, []float64{1, 1, 1, 1, 1})

	packed, err := pt.Pack()
	if err != nil {
		t.Fatalf("Pack() error: %v", err)
	}
	restored, err := UnpackProbabilityTable(packed, 3, 5)
	if err != nil {
		t.Fatalf("UnpackProbabilityTable() error: %v", err)
	}
	for r := 0; r < 3; r++ {
		for c := 0; c < 5; c++ {
			if pt.data[r][c] != restored.data[r][c] {
				t.Errorf("round trip mismatch at [%d][%d]: got %d, want %d", r, c, restored.data[r][c], pt.data[r][c])
			}
		}
	}
}

func TestMelodicTableRowSumValid(t *testing.T) {
	m := NewMelodicTable()
	if !m.RowSumValid() {
		t.Errorf("MelodicTable.RowSumValid() = false, want true")
	}
}

// TestMelodicTableLeadingTonePull verifies Testable Property 11: the
// dominant/leading-tone degree class strongly favors the +1 step.
func TestMelodicTableLeadingTonePull(t *testing.T) {
	m := NewMelodicTable()
	ctx := MelodicContext{PrevDegreeStep: 0, PrevDegreeClass: ClassDominant, BeatPosition: PosBar}
	upScore := m.Score(ctx, 1)
	downScore := m.Score(ctx, -1)
	if upScore <= downScore {
		t.Errorf("leading-tone pull: Score(+1)=%v should exceed Score(-1)=%v", upScore, downScore)
	}
}

// TestMelodicTableAsymmetricBaseline verifies Testable Property 12: the
// upward/downward step-1 asymmetry is not uniform across contexts (it varies
// with beat position and degree class).
func TestMelodicTableAsymmetricBaseline(t *testing.T) {
	m := NewMelodicTable()
	diffAt := func(beat BeatPosition) float32 {
		ctx := MelodicContext{PrevDegreeStep: 0, PrevDegreeClass: ClassStable, BeatPosition: beat}
		return m.Score(ctx, 1) - m.Score(ctx, -1)
	}
	d1 := diffAt(PosBar)
	d2 := diffAt(PosOff16)
	if d1 == d2 {
		t.Errorf("expected the up/down asymmetry to vary by beat position, got identical diffs %v", d1)
	}
}

func TestDurationTableRowSumValid(t *testing.T) {
	d := NewDurationTable()
	if !d.RowSumValid() {
		t.Errorf("DurationTable.RowSumValid() = false, want true")
	}
}

func TestDurationTableLeapFavorsRecovery(t *testing.T) {
	d := NewDurationTable()
	leap := d.Score(DurQuarter, IntervalLeapUp, Dur8th)
	sustain := d.Score(DurQuarter, IntervalLeapUp, DurHalfPlus)
	if leap <= sustain {
		t.Errorf("expected a leap to favor recovery into a shorter duration: Score(8th)=%v, Score(half+)=%v", leap, sustain)
	}
}

func TestVerticalTableRowSumValid(t *testing.T) {
	v := NewVerticalTable()
	if !v.RowSumValid() {
		t.Errorf("VerticalTable.RowSumValid() = false, want true")
	}
}

func TestVerticalTableConsonancePreference(t *testing.T) {
	v := NewVerticalTable()
	fifth := v.Score(0, PosBar, Bin2Voices, FuncTonic, 7)
	tritone := v.Score(0, PosBar, Bin2Voices, FuncTonic, 6)
	if fifth <= tritone {
		t.Errorf("expected the fifth to outscore the tritone on a tonic downbeat: fifth=%v, tritone=%v", fifth, tritone)
	}
}

func TestIsConsonantOffset(t *testing.T) {
	consonant := []int{0, 3, 4, 5, 7, 8, 9}
	for _, offset := range consonant {
		if !IsConsonantOffset(offset) {
			t.Errorf("IsConsonantOffset(%d) = false, want true", offset)
		}
	}
	dissonant := []int{1, 2, 6, 10, 11}
	for _, offset := range dissonant {
		if IsConsonantOffset(offset) {
			t.Errorf("IsConsonantOffset(%d) = true, want false", offset)
		}
	}
	if !IsConsonantOffset(-5) { // -5 mod 12 = 7, a fifth
		t.Errorf("IsConsonantOffset(-5) = false, want true (normalizes to the fifth)")
	}
}

func TestVerticalTableProbabilitySumsToOne(t *testing.T) {
	v := NewVerticalTable()
	total := 0.0
	for offset := 0; offset < 12; offset++ {
		total += v.Probability(0, PosBeat, Bin3Voices, FuncTonic, offset)
	}
	if total < 0.99 || total > 1.01 {
		t.Errorf("probabilities across all 12 offsets summed to %v, want ~1.0", total)
	}
}

func TestVocabularyOracleExactMatch(t *testing.T) {
	voc := NewVocabularyOracle()
	// Sigh figure: step down by 1, then leap/step recovering. Use the exact
	// compiled figure signature so an exact match scores at its ceiling.
	sighIntervals := [4]int{-1, 1, -1, 1}
	score := voc.Score(sighIntervals)
	if score <= 0 {
		t.Errorf("expected a known figure signature to score positively, got %v", score)
	}
}

func TestVocabularyOracleUnknownFigureScoresLow(t *testing.T) {
	voc := NewVocabularyOracle()
	noise := [4]int{11, -11, 11, -11}
	score := voc.Score(noise)
	known := voc.Score([4]int{-1, 1, -1, 1})
	if score >= known {
		t.Errorf("expected an unrecognized figure to score below a known one: unknown=%v, known=%v", score, known)
	}
}
