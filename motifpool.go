package gofugue

import "github.com/GeoffreyPlitt/debuggo"

var motifDebug = debuggo.Debug("gofugue:motifpool")

// MotifTag is the pool-entry tag, one of {head, tail, characteristic,
// countersubject, fragment}.
type MotifTag int

const (
	TagHead MotifTag = iota
	TagCharacteristic
	TagTail
	TagCountersubjectHead
	TagFragment
	TagCountersubjectTail // derived from the countersubject's closing notes
)

// MotifOperation names a transformation a Fortspinnung step may request.
type MotifOperation int

const (
	OpOriginal MotifOperation = iota
	OpInvert
	OpRetrograde
	OpAugment
	OpDiminish
	OpFragmentOp
	OpSequence
)

// MotifPoolEntry is a normalized note-sequence (first note at tick 0), a
// characteristic score in [0,1], and its tag.
type MotifPoolEntry struct {
	Notes []Note
	Score float64
	Tag   MotifTag
}

// MotifPool is a ranked, immutable set of motif entries built once from a
// subject (and optional countersubject), ordered by descending score.
type MotifPool struct {
	entries []MotifPoolEntry
}

// CountersubjectHint optionally supplies a full countersubject note list
// (not just its head) so BuildMotifPool can additionally derive a
// countersubject-tail entry.
type CountersubjectHint struct {
	Notes []Note
}

// BuildMotifPool builds the pool in the fixed priority order of §4.7: head,
// characteristic, tail, countersubject head (if present), fragments.
func BuildMotifPool(subject []Note, countersubject []Note) *MotifPool {
	return BuildMotifPoolWithHint(subject, CountersubjectHint{Notes: countersubject})
}

// BuildMotifPoolWithHint is BuildMotifPool with the countersubject-tail
// entry additionally derived from hint, when one is supplied.
func BuildMotifPoolWithHint(subject []Note, hint CountersubjectHint) *MotifPool {
	pool := &MotifPool{}
	if len(subject) == 0 {
		return pool
	}

	if len(subject) >= 4 {
		pool.entries = append(pool.entries, MotifPoolEntry{Notes: normalizeNotes(subject[:4]), Score: 1.0, Tag: TagHead})
	} else {
		pool.entries = append(pool.entries, MotifPoolEntry{Notes: normalizeNotes(subject), Score: 1.0, Tag: TagHead})
	}

	if window := bestCharacteristicWindow(subject); window != nil {
		pool.entries = append(pool.entries, MotifPoolEntry{Notes: normalizeNotes(window), Score: 0.9, Tag: TagCharacteristic})
	}

	if len(subject) >= 3 {
		pool.entries = append(pool.entries, MotifPoolEntry{Notes: normalizeNotes(subject[len(subject)-3:]), Score: 0.8, Tag: TagTail})
	} else {
		pool.entries = append(pool.entries, MotifPoolEntry{Notes: normalizeNotes(subject), Score: 0.8, Tag: TagTail})
	}

	if len(hint.Notes) > 0 {
		headLen := 4
		if headLen > len(hint.Notes) {
			headLen = len(hint.Notes)
		}
		pool.entries = append(pool.entries, MotifPoolEntry{Notes: normalizeNotes(hint.Notes[:headLen]), Score: 0.7, Tag: TagCountersubjectHead})

		if len(hint.Notes) >= 3 {
			tailLen := 3
			pool.entries = append(pool.entries, MotifPoolEntry{Notes: normalizeNotes(hint.Notes[len(hint.Notes)-tailLen:]), Score: 0.65, Tag: TagCountersubjectTail})
		}
	}

	half := len(subject) / 2
	if half > 0 {
		pool.entries = append(pool.entries,
			MotifPoolEntry{Notes: normalizeNotes(subject[:half]), Score: 0.6, Tag: TagFragment},
			MotifPoolEntry{Notes: normalizeNotes(subject[half:]), Score: 0.6, Tag: TagFragment},
		)
	}

	motifDebug("built motif pool with %d entries", len(pool.entries))
	return pool
}

// bestCharacteristicWindow picks the best-scoring contiguous 4-note window
// by the fixed rule in §4.7: +0.3 rhythmic diversity, +0.3 leap>=3
// semitones, +0.2 proximity to start, +0.2 containing root pitch class
// (approximated here as subject[0]'s pitch class).
func bestCharacteristicWindow(subject []Note) []Note {
	if len(subject) < 4 {
		return nil
	}
	rootPC := ((subject[0].Pitch % 12) + 12) % 12
	bestIdx := 0
	bestScore := -1.0
	for start := 0; start+4 <= len(subject); start++ {
		window := subject[start : start+4]
		score := 0.0

		durs := map[int]bool{}
		for _, n := range window {
			durs[n.Duration] = true
		}
		if len(durs) >= 2 {
			score += 0.3
		}

		hasLeap := false
		for i := 1; i < len(window); i++ {
			d := window[i].Pitch - window[i-1].Pitch
			if d < 0 {
				d = -d
			}
			if d >= 3 {
				hasLeap = true
				break
			}
		}
		if hasLeap {
			score += 0.3
		}

		proximity := 1.0 - float64(start)/float64(len(subject))
		score += 0.2 * proximity

		hasRoot := false
		for _, n := range window {
			if ((n.Pitch % 12) + 12)%12 == rootPC {
				hasRoot = true
				break
			}
		}
		if hasRoot {
			score += 0.2
		}

		if score > bestScore {
			bestScore = score
			bestIdx = start
		}
	}
	return subject[bestIdx : bestIdx+4]
}

// normalizeNotes returns a copy of notes shifted so the first note starts at
// tick 0.
func normalizeNotes(notes []Note) []Note {
	if len(notes) == 0 {
		return nil
	}
	minStart := notes[0].Start
	for _, n := range notes {
		if n.Start < minStart {
			minStart = n.Start
		}
	}
	out := make([]Note, len(notes))
	for i, n := range notes {
		n.Start -= minStart
		out[i] = n
	}
	return out
}

// Best returns the highest-ranked entry, or nil if the pool is empty.
func (p *MotifPool) Best() *MotifPoolEntry {
	if len(p.entries) == 0 {
		return nil
	}
	return &p.entries[0]
}

// ByRank returns the k-th entry (0-based), or nil if out of range.
func (p *MotifPool) ByRank(k int) *MotifPoolEntry {
	if k < 0 || k >= len(p.entries) {
		return nil
	}
	return &p.entries[k]
}

// Len reports the number of entries in the pool.
func (p *MotifPool) Len() int { return len(p.entries) }

// ForOperation returns the canonical entry for op: fragment operations
// return the first fragment entry, everything else returns the head.
func (p *MotifPool) ForOperation(op MotifOperation) *MotifPoolEntry {
	if op == OpFragmentOp {
		for i := range p.entries {
			if p.entries[i].Tag == TagFragment {
				return &p.entries[i]
			}
		}
	}
	for i := range p.entries {
		if p.entries[i].Tag == TagHead {
			return &p.entries[i]
		}
	}
	return p.Best()
}
