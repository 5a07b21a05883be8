package gofugue

// VocabularyOracle scores a 4-interval melodic window against a compiled-in
// attestation set of Baroque melodic figures (e.g. scalar runs, turns,
// circle-of-fifths outlines). Used as the Gravity scorer's vocabulary
// sub-score (§4.5 item 4).
type VocabularyOracle struct {
	figures map[[4]int]float64
}

// intervalSignature reduces a 4-interval window to a coarse bucket
// (-1 down-step, 0 repeat, +1 up-step, 2 leap-up, -2 leap-down) so that
// transposed and slightly-varied instances of a figure still match.
func intervalSignature(semitones int) int {
	switch {
	case semitones <= -5:
		return -2
	case semitones < 0:
		return -1
	case semitones == 0:
		return 0
	case semitones < 5:
		return 1
	default:
		return 2
	}
}

// NewVocabularyOracle builds the compiled-in attestation set: scalar runs
// (stepwise up/down over 4 intervals), turn figures, and a circle-of-fifths
// outline, each with a fixed attestation weight reflecting how often it
// appears in the reference corpus.
func NewVocabularyOracle() *VocabularyOracle {
	v := &VocabularyOracle{figures: make(map[[4]int]float64)}
	add := func(fig [4]int, weight float64) { v.figures[fig] = weight }

	add([4]int{1, 1, 1, 1}, 1.0)     // ascending scalar run
	add([4]int{-1, -1, -1, -1}, 1.0) // descending scalar run
	add([4]int{1, 1, -1, -1}, 0.8)   // turn up-then-down
	add([4]int{-1, -1, 1, 1}, 0.8)   // turn down-then-up
	add([4]int{1, -1, 1, -1}, 0.6)   // neighbor-tone oscillation
	add([4]int{-1, 1, -1, 1}, 0.6)
	add([4]int{2, -1, -1, -1}, 0.7) // leap then scalar descent (common cadential figure)
	add([4]int{-2, 1, 1, 1}, 0.7)
	add([4]int{-1, -1, -1, 1}, 0.5) // circle-of-fifths-ish bass outline
	add([4]int{1, 1, 1, -1}, 0.5)
	return v
}

// Score returns a figure-match score in [0,1] for a window of four directed
// melodic intervals (in semitones).
func (v *VocabularyOracle) Score(intervals [4]int) float64 {
	var sig [4]int
	for i, iv := range intervals {
		sig[i] = intervalSignature(iv)
	}
	if w, ok := v.figures[sig]; ok {
		return w
	}
	// Partial credit: count how many of the 4 intervals' directions
	// (not the exact magnitude bucket) match a known figure's sign pattern.
	best := 0.0
	for fig, w := range v.figures {
		matches := 0
		for i := 0; i < 4; i++ {
			if sign(fig[i]) == sign(sig[i]) {
				matches++
			}
		}
		partial := w * float64(matches) / 4.0
		if partial > best {
			best = partial
		}
	}
	return best
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
