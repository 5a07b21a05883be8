package gofugue

import "github.com/GeoffreyPlitt/debuggo"

var transformDebug = debuggo.Debug("gofugue:transform")

// MotifDuration returns max(note.Start+note.Duration) - min(note.Start), the
// motif's total span in ticks.
func MotifDuration(notes []Note) int {
	if len(notes) == 0 {
		return 0
	}
	minStart, maxEnd := notes[0].Start, notes[0].End()
	for _, n := range notes {
		if n.Start < minStart {
			minStart = n.Start
		}
		if n.End() > maxEnd {
			maxEnd = n.End()
		}
	}
	return maxEnd - minStart
}

func copyNotes(notes []Note) []Note {
	out := make([]Note, len(notes))
	copy(out, notes)
	return out
}

// Invert mirrors notes chromatically around pivotPitch: new = 2*pivot - old,
// clamped to [0,127].
func Invert(notes []Note, pivotPitch int) []Note {
	out := copyNotes(notes)
	for i := range out {
		out[i].Pitch = clampInt(2*pivotPitch-out[i].Pitch, 0, 127)
	}
	return normalizeNotes(out)
}

// InvertDiatonic mirrors notes in scale-degree space around pivotDegree
// (an absolute scale degree, as returned by PitchToDegree).
func InvertDiatonic(notes []Note, pivotDegree int, key Key, mode Mode) []Note {
	out := copyNotes(notes)
	for i := range out {
		_, absDegree := PitchToDegree(out[i].Pitch, key, mode)
		newDegree := 2*pivotDegree - absDegree
		out[i].Pitch = DegreeToPitch(newDegree, key, mode)
	}
	return normalizeNotes(out)
}

// Retrograde reverses the pitch order while preserving inter-onset gaps and
// durations in the reversed order, re-anchored at startTick.
func Retrograde(notes []Note, startTick int) []Note {
	if len(notes) == 0 {
		return nil
	}
	norm := normalizeNotes(notes)
	n := len(norm)
	out := make([]Note, n)
	// Reversed pitch/duration order, but gaps (inter-onset intervals)
	// between reversed notes mirror the original's gaps in reverse.
	cursor := 0
	for i := 0; i < n; i++ {
		src := norm[n-1-i]
		out[i] = src
		out[i].Start = startTick + cursor
		if i+1 < n {
			gap := norm[n-1-i].Start - norm[n-2-i].Start
			cursor += gap
		}
	}
	return out
}

// Augment scales both note offsets and durations by factor (default 2),
// re-anchored at startTick.
func Augment(notes []Note, startTick int, factor int) []Note {
	if factor <= 0 {
		factor = 2
	}
	norm := normalizeNotes(notes)
	out := make([]Note, len(norm))
	for i, n := range norm {
		out[i] = n
		out[i].Start = startTick + n.Start*factor
		out[i].Duration = n.Duration * factor
	}
	return out
}

// Diminish divides both note offsets and durations by factor (default 2),
// durations floored to 1 tick, re-anchored at startTick.
func Diminish(notes []Note, startTick int, factor int) []Note {
	if factor <= 0 {
		factor = 2
	}
	norm := normalizeNotes(notes)
	out := make([]Note, len(norm))
	for i, n := range norm {
		out[i] = n
		out[i].Start = startTick + n.Start/factor
		d := n.Duration / factor
		if d < 1 {
			d = 1
		}
		out[i].Duration = d
	}
	return out
}

// Transpose adds semitones to every pitch, clamped to [0,127].
func Transpose(notes []Note, semitones int) []Note {
	out := copyNotes(notes)
	for i := range out {
		out[i].Pitch = clampInt(out[i].Pitch+semitones, 0, 127)
	}
	return out
}

// TransposeDiatonic translates notes by degreeSteps in scale-degree space.
func TransposeDiatonic(notes []Note, degreeSteps int, key Key, mode Mode) []Note {
	out := copyNotes(notes)
	for i := range out {
		_, absDegree := PitchToDegree(out[i].Pitch, key, mode)
		out[i].Pitch = DegreeToPitch(absDegree+degreeSteps, key, mode)
	}
	return out
}

// Sequence concatenates reps copies of motif; copy r (counting from 0) is
// transposed by r*intervalStep semitones and placed at startTick +
// r*motifDuration.
func Sequence(motif []Note, reps int, intervalStep int, startTick int) []Note {
	norm := normalizeNotes(motif)
	dur := MotifDuration(norm)
	var out []Note
	for r := 0; r < reps; r++ {
		shifted := Transpose(norm, r*intervalStep)
		base := startTick + r*dur
		for _, n := range shifted {
			n.Start += base
			out = append(out, n)
		}
	}
	return out
}

// SequenceDiatonic is Sequence's diatonic variant: copy r is translated by
// r*intervalStep scale-degree steps rather than semitones.
func SequenceDiatonic(motif []Note, reps int, intervalStep int, startTick int, key Key, mode Mode) []Note {
	norm := normalizeNotes(motif)
	dur := MotifDuration(norm)
	var out []Note
	for r := 0; r < reps; r++ {
		shifted := TransposeDiatonic(norm, r*intervalStep, key, mode)
		base := startTick + r*dur
		for _, n := range shifted {
			n.Start += base
			out = append(out, n)
		}
	}
	return out
}

// Fragment splits notes evenly into numFragments slices, each itself a
// note-vector (normalized to start at tick 0).
func Fragment(notes []Note, numFragments int) [][]Note {
	if numFragments <= 0 || len(notes) == 0 {
		return nil
	}
	if numFragments > len(notes) {
		numFragments = len(notes)
	}
	out := make([][]Note, numFragments)
	base := len(notes) / numFragments
	extra := len(notes) % numFragments
	idx := 0
	for f := 0; f < numFragments; f++ {
		size := base
		if f < extra {
			size++
		}
		out[f] = normalizeNotes(notes[idx : idx+size])
		idx += size
	}
	return out
}
