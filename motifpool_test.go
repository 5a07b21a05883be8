package gofugue

import "testing"

func sampleSubject() []Note {
	return []Note{
		{Start: 0, Duration: 480, Pitch: 60, Voice: 0},
		{Start: 480, Duration: 480, Pitch: 64, Voice: 0},
		{Start: 960, Duration: 240, Pitch: 67, Voice: 0},
		{Start: 1200, Duration: 240, Pitch: 65, Voice: 0},
		{Start: 1440, Duration: 480, Pitch: 60, Voice: 0},
		{Start: 1920, Duration: 480, Pitch: 62, Voice: 0},
	}
}

func TestBuildMotifPoolPriorityOrder(t *testing.T) {
	pool := BuildMotifPool(sampleSubject(), nil)
	if pool.Len() == 0 {
		t.Fatal("expected a non-empty pool for a non-empty subject")
	}
	best := pool.Best()
	if best.Tag != TagHead {
		t.Errorf("Best() tag = %v, want TagHead", best.Tag)
	}
	for i := 1; i < pool.Len(); i++ {
		if pool.ByRank(i).Score > pool.ByRank(i-1).Score {
			t.Errorf("pool entries must be ordered by descending score: entry %d (%v) > entry %d (%v)",
				i, pool.ByRank(i).Score, i-1, pool.ByRank(i-1).Score)
		}
	}
}

func TestBuildMotifPoolHeadIsFirstFourNotesNormalized(t *testing.T) {
	subject := sampleSubject()
	pool := BuildMotifPool(subject, nil)
	head := pool.ByRank(0)
	if len(head.Notes) != 4 {
		t.Fatalf("head length = %d, want 4", len(head.Notes))
	}
	if head.Notes[0].Start != 0 {
		t.Errorf("head notes must be normalized to start at tick 0, got %d", head.Notes[0].Start)
	}
	for i, n := range head.Notes {
		if n.Pitch != subject[i].Pitch {
			t.Errorf("head note %d pitch = %d, want %d", i, n.Pitch, subject[i].Pitch)
		}
	}
}

func TestBuildMotifPoolWithCountersubjectHint(t *testing.T) {
	subject := sampleSubject()
	counter := []Note{
		{Start: 0, Duration: 240, Pitch: 55, Voice: 1},
		{Start: 240, Duration: 240, Pitch: 57, Voice: 1},
		{Start: 480, Duration: 480, Pitch: 60, Voice: 1},
		{Start: 960, Duration: 480, Pitch: 59, Voice: 1},
	}
	pool := BuildMotifPoolWithHint(subject, CountersubjectHint{Notes: counter})

	var foundHead, foundTail bool
	for i := 0; i < pool.Len(); i++ {
		switch pool.ByRank(i).Tag {
		case TagCountersubjectHead:
			foundHead = true
		case TagCountersubjectTail:
			foundTail = true
		}
	}
	if !foundHead {
		t.Errorf("expected a TagCountersubjectHead entry when a countersubject hint is supplied")
	}
	if !foundTail {
		t.Errorf("expected a TagCountersubjectTail entry when the hint has >= 3 notes")
	}
}

func TestBuildMotifPoolEmptySubject(t *testing.T) {
	pool := BuildMotifPool(nil, nil)
	if pool.Len() != 0 {
		t.Errorf("expected an empty pool for an empty subject, got %d entries", pool.Len())
	}
	if pool.Best() != nil {
		t.Errorf("Best() on an empty pool should return nil")
	}
}

func TestMotifPoolForOperationFragment(t *testing.T) {
	pool := BuildMotifPool(sampleSubject(), nil)
	entry := pool.ForOperation(OpFragmentOp)
	if entry == nil || entry.Tag != TagFragment {
		t.Errorf("ForOperation(OpFragmentOp) should return a TagFragment entry")
	}
}

func TestMotifPoolForOperationDefaultsToHead(t *testing.T) {
	pool := BuildMotifPool(sampleSubject(), nil)
	entry := pool.ForOperation(OpInvert)
	if entry == nil || entry.Tag != TagHead {
		t.Errorf("ForOperation(OpInvert) should return the head entry")
	}
}

func TestNormalizeNotesShiftsToZero(t *testing.T) {
	notes := []Note{{Start: 960, Pitch: 60}, {Start: 1200, Pitch: 62}}
	out := normalizeNotes(notes)
	if out[0].Start != 0 || out[1].Start != 240 {
		t.Errorf("normalizeNotes() = %+v, want starts shifted to [0, 240]", out)
	}
}

func TestBestCharacteristicWindowPrefersLeapAndVariety(t *testing.T) {
	subject := []Note{
		{Start: 0, Duration: 480, Pitch: 60},
		{Start: 480, Duration: 480, Pitch: 61},
		{Start: 960, Duration: 480, Pitch: 62},
		{Start: 1440, Duration: 480, Pitch: 63},
		{Start: 1920, Duration: 240, Pitch: 60},
		{Start: 2160, Duration: 240, Pitch: 72},
		{Start: 2400, Duration: 240, Pitch: 60},
	}
	window := bestCharacteristicWindow(subject)
	if window == nil {
		t.Fatal("expected a non-nil window for a subject with >= 4 notes")
	}
	if len(window) != 4 {
		t.Errorf("window length = %d, want 4", len(window))
	}
	// The window starting at tick 480 (61, 62, 63, 60) is the earliest with
	// both a leap of 3+ semitones and two different durations.
	if window[0].Start != 480 {
		t.Errorf("window starts at tick %d, want 480", window[0].Start)
	}
}
