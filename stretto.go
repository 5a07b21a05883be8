package gofugue

import (
	"sort"

	"github.com/GeoffreyPlitt/debuggo"
)

var strettoDebug = debuggo.Debug("gofugue:stretto")

// StrettoEntry is one voice's staggered restatement of the subject within a
// StrettoPlan.
type StrettoEntry struct {
	Voice     int
	EntryTick int
	Notes     []Note
}

// StrettoPlan is the climax device that layers num_voices copies of the
// subject at a shared entry interval, alternating original and inverted
// forms.
type StrettoPlan struct {
	StartTick int
	EndTick   int
	Key       Key
	Entries   []StrettoEntry
}

// AllNotes flattens every entry's notes, sorted by (start tick, voice).
func (s StrettoPlan) AllNotes() []Note {
	var all []Note
	for _, e := range s.Entries {
		all = append(all, e.Notes...)
	}
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Start != all[j].Start {
			return all[i].Start < all[j].Start
		}
		return all[i].Voice < all[j].Voice
	})
	return all
}

// BuildStrettoPlan stacks voiceCount staggered entries of subject (transposed
// from subjectKey to homeKey) starting at startTick, alternating the original
// and chromatic-inverted forms on odd-indexed entries. voiceCount is clamped
// to [2,5]. The entry interval is subject length divided by voiceCount,
// floored to a beat and no shorter than one bar.
func BuildStrettoPlan(subject []Note, subjectKey, homeKey Key, startTick, voiceCount int) StrettoPlan {
	plan := StrettoPlan{StartTick: startTick, Key: homeKey}

	if voiceCount < 2 {
		voiceCount = 2
	}
	if voiceCount > 5 {
		voiceCount = 5
	}

	if len(subject) == 0 {
		plan.EndTick = startTick
		return plan
	}
	subjectLength := MotifDuration(subject)
	if subjectLength == 0 {
		plan.EndTick = startTick
		return plan
	}

	entryInterval := subjectLength / voiceCount
	if entryInterval < TicksPerBar {
		entryInterval = TicksPerBar
	}
	entryInterval = (entryInterval / TicksPerBeat) * TicksPerBeat
	if entryInterval == 0 {
		entryInterval = TicksPerBar
	}

	semitones := int(homeKey) - int(subjectKey)
	transposed := normalizeNotes(Transpose(subject, semitones))
	pivot := 0
	if len(transposed) > 0 {
		pivot = transposed[0].Pitch
	}
	inverted := Invert(transposed, pivot)

	plan.Entries = make([]StrettoEntry, voiceCount)
	for idx := 0; idx < voiceCount; idx++ {
		entry := StrettoEntry{Voice: idx, EntryTick: startTick + idx*entryInterval}
		source := transposed
		if idx%2 != 0 {
			source = inverted
		}
		entry.Notes = make([]Note, len(source))
		for i, n := range source {
			placed := n
			placed.Start = n.Start + entry.EntryTick
			placed.Voice = idx
			entry.Notes[i] = placed
		}
		plan.Entries[idx] = entry
	}

	plan.EndTick = startTick + (voiceCount-1)*entryInterval + subjectLength
	strettoDebug("built stretto plan voices=%d interval=%d end=%d", voiceCount, entryInterval, plan.EndTick)
	return plan
}
