package gofugue

// MelodicContext is the packet consumed by the melodic oracle (C1).
type MelodicContext struct {
	PrevPitch            int
	PrevDurationCategory DurationCategory
	PrevDegreeStep       int // clamped to [-9,+9]
	PrevDegreeClass      DegreeClass
	BeatPosition         BeatPosition
	Key                  Key
	Mode                 Mode
}

// VerticalSnapshot captures, for a given tick, the pitch currently sounding
// in each voice (0 = silence) plus the voice count, built on demand from the
// placed-notes list.
type VerticalSnapshot struct {
	Tick        int
	VoicePitch  []int // index by voice, 0 = silence
	VoiceCount  int   // count of currently sounding (non-silent) voices
}

// BassPitchClass returns the pitch class of the lowest sounding voice, or -1
// if no voice is sounding.
func (v VerticalSnapshot) BassPitchClass() int {
	lowest := -1
	for _, p := range v.VoicePitch {
		if p <= 0 {
			continue
		}
		if lowest == -1 || p < lowest {
			lowest = p
		}
	}
	if lowest == -1 {
		return -1
	}
	return ((lowest % 12) + 12) % 12
}

// BuildVerticalSnapshot scans placed for all notes sounding at tick.
func BuildVerticalSnapshot(placed []Note, tick, voiceCount int) VerticalSnapshot {
	snap := VerticalSnapshot{Tick: tick, VoicePitch: make([]int, voiceCount)}
	for _, n := range placed {
		if n.Voice < 0 || n.Voice >= voiceCount {
			continue
		}
		if n.Start <= tick && tick < n.End() {
			snap.VoicePitch[n.Voice] = n.Pitch
		}
	}
	for _, p := range snap.VoicePitch {
		if p > 0 {
			snap.VoiceCount++
		}
	}
	return snap
}
