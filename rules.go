package gofugue

// ParallelPerfectChecker and CrossingChecker are the two species-counterpoint
// rule capabilities the constraint evaluator is polymorphic over; the
// concrete fugue-rules evaluator (FugueRuleEvaluator) implements both.

// ParallelPerfectChecker detects forbidden parallel fifths/octaves between a
// candidate placement and any previously-sounding voice.
type ParallelPerfectChecker interface {
	// HasParallelPerfect reports whether voice's move from the prior snapshot
	// (pitches sounding just before this placement) to the next snapshot
	// (which already holds the candidate pitch) creates a parallel fifth or
	// octave against any other currently-sounding voice.
	HasParallelPerfect(prior, next VerticalSnapshot, voice int) bool
}

// CrossingChecker detects a candidate pitch crossing another voice's
// current pitch in the wrong direction (voice order is assumed
// high-to-low by increasing voice index, §4.10's "voices 0 and 1" convention).
type CrossingChecker interface {
	Crosses(candidatePitch, voice int, snapshot VerticalSnapshot) bool
}

// motionClass classifies the relationship between two voices' simultaneous
// melodic motion, grounded on species_rules.cpp's contrary/similar/oblique
// classification.
type motionClass int

const (
	motionContrary motionClass = iota
	motionSimilar
	motionOblique
	motionParallel
)

func classifyMotion(aPrev, aNext, bPrev, bNext int) motionClass {
	da := aNext - aPrev
	db := bNext - bPrev
	switch {
	case da == 0 || db == 0:
		return motionOblique
	case sign(da) != sign(db):
		return motionContrary
	case da == db:
		return motionParallel
	default:
		return motionSimilar
	}
}

// isPerfectInterval reports whether the interval between two pitches (mod
// 12) is a unison/octave (0) or a fifth (7).
func isPerfectInterval(a, b int) bool {
	iv := ((a - b) % 12 + 12) % 12
	return iv == 0 || iv == 7
}

// FugueRuleEvaluator is the concrete rule evaluator, grounded on
// species_rules.cpp. The counterpoint-state context it's handed (a
// VerticalSnapshot) is a read-only view, per §9.
type FugueRuleEvaluator struct{}

func NewFugueRuleEvaluator() *FugueRuleEvaluator { return &FugueRuleEvaluator{} }

func (FugueRuleEvaluator) HasParallelPerfect(prior, next VerticalSnapshot, voice int) bool {
	if voice < 0 || voice >= len(next.VoicePitch) {
		return false
	}
	aPrev, aNext := prior.VoicePitch[voice], next.VoicePitch[voice]
	if aNext == 0 {
		return false
	}
	for other := range next.VoicePitch {
		if other == voice {
			continue
		}
		bPrev, bNext := prior.VoicePitch[other], next.VoicePitch[other]
		if bPrev == 0 || bNext == 0 || aPrev == 0 {
			continue
		}
		if !isPerfectInterval(aPrev, bPrev) || !isPerfectInterval(aNext, bNext) {
			continue
		}
		if classifyMotion(aPrev, aNext, bPrev, bNext) == motionParallel {
			return true
		}
	}
	return false
}

func (FugueRuleEvaluator) Crosses(candidatePitch, voice int, snapshot VerticalSnapshot) bool {
	// Voice index convention: lower index = higher voice (§4.10's "voices 0
	// and 1"). Crossing occurs when the candidate inverts that order
	// relative to another currently-sounding voice.
	for other, p := range snapshot.VoicePitch {
		if other == voice || p == 0 {
			continue
		}
		if other < voice && candidatePitch > p {
			return true // a higher-indexed (lower) voice now sounds above a higher voice
		}
		if other > voice && candidatePitch < p {
			return true // a lower-indexed (higher) voice now sounds below a lower voice
		}
	}
	return false
}
