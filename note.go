package gofugue

import "github.com/GeoffreyPlitt/debuggo"

var noteDebug = debuggo.Debug("gofugue:note")

// MinNoteDuration is the shortest duration, in ticks, that survives to the
// output. Notes shorter than this are discarded downstream (outside this
// package's scope, but callers that build their own Note values should
// respect it).
const MinNoteDuration = 120

// Ticks-per-unit conventions (4/4 time).
const (
	TicksPerSixteenth = 120
	TicksPerBeat      = 480
	TicksPerBar       = 1920
)

// SourceTag identifies the subsystem that produced a Note. It is a closed
// enumeration; downstream post-processing (out of scope here) branches on it
// to decide whether a note may be rewritten.
type SourceTag int

const (
	TagUnspecified SourceTag = iota
	TagFugueSubject
	TagFugueAnswer
	TagCountersubject
	TagEpisodeMaterial
	TagFreeCounterpoint
	TagOrnament
	TagPedalPoint
	// Goldberg-specific tags.
	TagSoggetto
	TagFigura
	TagDance
	TagBass
	TagOverture
	TagInvention
	TagFughetta
	TagSuspension
	// Canon tags.
	TagCanonDux
	TagCanonComes
	TagFreeBass
	TagQuodlibetMelody
)

func (t SourceTag) String() string {
	switch t {
	case TagFugueSubject:
		return "FugueSubject"
	case TagFugueAnswer:
		return "FugueAnswer"
	case TagCountersubject:
		return "Countersubject"
	case TagEpisodeMaterial:
		return "EpisodeMaterial"
	case TagFreeCounterpoint:
		return "FreeCounterpoint"
	case TagOrnament:
		return "Ornament"
	case TagPedalPoint:
		return "PedalPoint"
	case TagSoggetto:
		return "Soggetto"
	case TagFigura:
		return "Figura"
	case TagDance:
		return "Dance"
	case TagBass:
		return "Bass"
	case TagOverture:
		return "Overture"
	case TagInvention:
		return "Invention"
	case TagFughetta:
		return "Fughetta"
	case TagSuspension:
		return "Suspension"
	case TagCanonDux:
		return "CanonDux"
	case TagCanonComes:
		return "CanonComes"
	case TagFreeBass:
		return "FreeBass"
	case TagQuodlibetMelody:
		return "QuodlibetMelody"
	default:
		return "Unspecified"
	}
}

// ProtectionLevel tells downstream finalization whether a tagged note may be
// rewritten.
type ProtectionLevel int

const (
	Immutable ProtectionLevel = iota
	Structural
	Flexible
)

// protectionByTag is the tag -> protection-level table §6 describes.
var protectionByTag = map[SourceTag]ProtectionLevel{
	TagFugueSubject:     Immutable,
	TagFugueAnswer:      Immutable,
	TagCountersubject:   Structural,
	TagEpisodeMaterial:  Flexible,
	TagFreeCounterpoint: Flexible,
	TagOrnament:         Flexible,
	TagPedalPoint:       Flexible,
	TagSoggetto:         Immutable,
	TagFigura:           Structural,
	TagDance:            Flexible,
	TagBass:             Structural,
	TagOverture:         Immutable,
	TagInvention:        Structural,
	TagFughetta:         Structural,
	TagSuspension:       Structural,
	TagCanonDux:         Immutable,
	TagCanonComes:       Structural,
	TagFreeBass:         Flexible,
	TagQuodlibetMelody:  Structural,
}

// Protection returns the protection level associated with a source tag.
// Unknown tags are treated as Flexible (the conservative "may be rewritten"
// default), matching Bass/held-tone notes emitted by the episode generator
// which §6 says are tagged EpisodeMaterial (Flexible).
func (t SourceTag) Protection() ProtectionLevel {
	if lvl, ok := protectionByTag[t]; ok {
		return lvl
	}
	return Flexible
}

// Note is an immutable placed note event.
type Note struct {
	Start    int // ticks, >= 0
	Duration int // ticks, >= 1
	Pitch    int // MIDI pitch 0-127
	Velocity int // 1-127
	Voice    int // 0..N-1
	Source   SourceTag
}

// End returns Start+Duration, the tick one past the note's last sounding
// moment.
func (n Note) End() int {
	return n.Start + n.Duration
}

// clampInt clamps v into [lo, hi].
func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
