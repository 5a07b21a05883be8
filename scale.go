package gofugue

import "github.com/GeoffreyPlitt/debuggo"

var scaleDebug = debuggo.Debug("gofugue:scale")

// Mode is one of the three modes this engine understands.
type Mode int

const (
	Major Mode = iota
	NaturalMinor
	HarmonicMinor
)

// Key is a tonic pitch class, 0-11 (0 = C).
type Key int

// intervals, in semitones from the tonic, for each scale degree 0..6.
var modeIntervals = map[Mode][7]int{
	Major:         {0, 2, 4, 5, 7, 9, 11},
	NaturalMinor:  {0, 2, 3, 5, 7, 8, 10},
	HarmonicMinor: {0, 2, 3, 5, 7, 8, 11},
}

// pitchClasses returns the set of pitch classes (0-11) belonging to key/mode.
func pitchClasses(key Key, mode Mode) [7]int {
	ivs := modeIntervals[mode]
	var out [7]int
	for i, iv := range ivs {
		out[i] = int(key+Key(iv)) % 12
		if out[i] < 0 {
			out[i] += 12
		}
	}
	return out
}

// IsDiatonic reports whether pitch's pitch class is a member of key/mode.
func IsDiatonic(pitch int, key Key, mode Mode) bool {
	pc := ((pitch % 12) + 12) % 12
	for _, m := range pitchClasses(key, mode) {
		if m == pc {
			return true
		}
	}
	return false
}

// NearestScaleTone snaps pitch to the closest member of key/mode, preferring
// the lower tone on an exact tie (stable, deterministic).
func NearestScaleTone(pitch int, key Key, mode Mode) int {
	if IsDiatonic(pitch, key, mode) {
		return pitch
	}
	for d := 1; d <= 6; d++ {
		if IsDiatonic(pitch-d, key, mode) {
			return pitch - d
		}
		if IsDiatonic(pitch+d, key, mode) {
			return pitch + d
		}
	}
	return pitch
}

// PitchToDegree returns the 0-based scale degree (0..6) of pitch's pitch
// class within key/mode, and the octave-relative absolute degree (degree +
// 7*octave) usable for diatonic arithmetic. If pitch is not diatonic it is
// snapped to the nearest scale tone first.
func PitchToDegree(pitch int, key Key, mode Mode) (degree int, absoluteDegree int) {
	snapped := NearestScaleTone(pitch, key, mode)
	pcs := pitchClasses(key, mode)
	pc := ((snapped % 12) + 12) % 12
	octave := (snapped - int(key)) / 12
	for i, m := range pcs {
		if m == pc {
			degree = i
			absoluteDegree = octave*7 + i
			return
		}
	}
	return 0, 0
}

// DegreeToPitch converts an absolute scale degree (degree + 7*octave,
// possibly negative) back to a MIDI pitch in key/mode, anchored so that
// absolute degree 0 maps to key's tonic pitch class in the octave containing
// MIDI pitch `key` itself (i.e. 0 <= tonicPitch < 12... generalized below via
// octaveBase so callers can anchor near an existing register).
func DegreeToPitch(absoluteDegree int, key Key, mode Mode) int {
	return degreeToPitchAnchored(absoluteDegree, key, mode, 0)
}

// degreeToPitchAnchored is DegreeToPitch but lets the caller choose which
// MIDI octave absolute degree 0 resolves to, via octaveBase (octaveBase=5
// puts degree 0 near MIDI 60).
func degreeToPitchAnchored(absoluteDegree int, key Key, mode Mode, octaveBase int) int {
	ivs := modeIntervals[mode]
	octave := absoluteDegree / 7
	idx := absoluteDegree % 7
	if idx < 0 {
		idx += 7
		octave--
	}
	return int(key) + 12*(octave+octaveBase) + ivs[idx]
}

// DegreeStep returns the signed scale-degree distance from `from` to `to`
// (both MIDI pitches), clamped to [-9, +9] per the Degree step glossary
// entry. Large leaps bin into the +-9 catch-all.
func DegreeStep(from, to int, key Key, mode Mode) int {
	_, fromAbs := PitchToDegree(from, key, mode)
	_, toAbs := PitchToDegree(to, key, mode)
	step := toAbs - fromAbs
	return clampInt(step, -9, 9)
}

// HarmonicFunction classifies a scale degree (0-6, any octave/sign,
// normalized mod 7) per §4.1: degrees 0/2/5 -> tonic, 1/3 -> subdominant,
// 4/6 -> dominant.
type HarmonicFunction int

const (
	FuncTonic HarmonicFunction = iota
	FuncSubdominant
	FuncDominant
)

func ClassifyHarmonicFunction(degree int) HarmonicFunction {
	d := ((degree % 7) + 7) % 7
	switch d {
	case 0, 2, 5:
		return FuncTonic
	case 1, 3:
		return FuncSubdominant
	default: // 4, 6
		return FuncDominant
	}
}

// DegreeClass classifies a scale degree's melodic tendency: stable tones
// (1,3), dominant-function tones (5,7), motion tones (2,4,6). Degree is
// 0-based (0 = scale degree 1).
type DegreeClass int

const (
	ClassStable DegreeClass = iota
	ClassDominant
	ClassMotion
)

func ClassifyDegree(degree int) DegreeClass {
	d := ((degree % 7) + 7) % 7
	switch d {
	case 0, 2:
		return ClassStable
	case 4, 6:
		return ClassDominant
	default: // 1, 3, 5
		return ClassMotion
	}
}

// BeatPosition classifies a tick's metric weight in 4/4.
type BeatPosition int

const (
	PosBar BeatPosition = iota
	PosBeat
	PosOff8
	PosOff16
)

func ClassifyBeatPosition(tick int) BeatPosition {
	t := tick % TicksPerBar
	if t < 0 {
		t += TicksPerBar
	}
	switch {
	case t%TicksPerBar == 0:
		return PosBar
	case t%TicksPerBeat == 0:
		return PosBeat
	case t%240 == 0:
		return PosOff8
	default:
		return PosOff16
	}
}

// DurationCategory classifies a raw tick count per §4.1's fixed cutoffs.
type DurationCategory int

const (
	Dur16th DurationCategory = iota
	Dur8th
	DurDotted8th
	DurQuarter
	DurHalfPlus
)

func ClassifyDuration(ticks int) DurationCategory {
	switch {
	case ticks < 180:
		return Dur16th
	case ticks < 300:
		return Dur8th
	case ticks < 480:
		return DurDotted8th
	case ticks < 960:
		return DurQuarter
	default:
		return DurHalfPlus
	}
}

// DirectedIntervalClass classifies the directed melodic motion between two
// pitches for the duration-transition table's column axis.
type DirectedIntervalClass int

const (
	IntervalStepUp DirectedIntervalClass = iota
	IntervalStepDown
	IntervalSkipUp
	IntervalSkipDown
	IntervalLeapUp
	IntervalLeapDown
)

func ClassifyDirectedInterval(semitones int) DirectedIntervalClass {
	abs := semitones
	if abs < 0 {
		abs = -abs
	}
	switch {
	case abs <= 2:
		if semitones >= 0 {
			return IntervalStepUp
		}
		return IntervalStepDown
	case abs <= 4:
		if semitones >= 0 {
			return IntervalSkipUp
		}
		return IntervalSkipDown
	default:
		if semitones >= 0 {
			return IntervalLeapUp
		}
		return IntervalLeapDown
	}
}

// VoiceCountBin bins the number of currently sounding voices for the
// vertical-interval table's row axis.
type VoiceCountBin int

const (
	Bin2Voices VoiceCountBin = iota
	Bin3Voices
	Bin4PlusVoices
)

func ClassifyVoiceCount(n int) VoiceCountBin {
	switch {
	case n <= 2:
		return Bin2Voices
	case n == 3:
		return Bin3Voices
	default:
		return Bin4PlusVoices
	}
}
