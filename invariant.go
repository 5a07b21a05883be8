package gofugue

import "github.com/GeoffreyPlitt/debuggo"

var invariantDebug = debuggo.Debug("gofugue:invariant")

// InvariantFlags is the composite per-kind result of a checker pass. A
// single hard flag suffices to reject the candidate; soft flags raise
// recovery obligations but never reject.
type InvariantFlags struct {
	HardRange     bool
	HardParallel  bool
	HardCrossing  bool
	SoftCrossing  bool
	HardRepeat    bool
	SoftSpacing   bool
}

// Hard reports whether any hard flag is set.
func (f InvariantFlags) Hard() bool {
	return f.HardRange || f.HardParallel || f.HardCrossing || f.HardRepeat
}

// InvariantChecker runs the per-note hard/soft rule evaluation of C3, with
// short-circuit on hard failure as ordered in §4.3.
type InvariantChecker struct {
	parallel ParallelPerfectChecker
	crossing CrossingChecker
}

func NewInvariantChecker(parallel ParallelPerfectChecker, crossing CrossingChecker) *InvariantChecker {
	return &InvariantChecker{parallel: parallel, crossing: crossing}
}

// recentPitches is a small fixed-capacity ring of a voice's most recently
// placed pitches, most-recent last, used for the hard-repeat check.
type recentPitches []int

// Check runs the ordered invariant evaluation for placing pitch in voice at
// tick, given prior (the snapshot just before this placement) and the
// candidate's resulting snapshot next, the voice's recent pitch history,
// and the active invariant set.
func (c *InvariantChecker) Check(pitch, voice int, prior, next VerticalSnapshot, recent recentPitches, inv InvariantSet) InvariantFlags {
	var flags InvariantFlags

	// 1. Range (hard) — short-circuits everything else.
	if pitch < inv.RangeLo || pitch > inv.RangeHi {
		flags.HardRange = true
		invariantDebug("voice=%d pitch=%d hard range violation [%d,%d]", voice, pitch, inv.RangeLo, inv.RangeHi)
		return flags
	}

	// 2. Parallel perfect (hard).
	if c.parallel != nil && c.parallel.HasParallelPerfect(prior, next, voice) {
		flags.HardParallel = true
		invariantDebug("voice=%d pitch=%d hard parallel-perfect violation", voice, pitch)
		return flags
	}

	// 3. Crossing (hard if reject policy, else soft).
	if c.crossing != nil && c.crossing.Crosses(pitch, voice, prior) {
		if inv.CrossingPolicy == RejectCrossing {
			flags.HardCrossing = true
			invariantDebug("voice=%d pitch=%d hard crossing violation", voice, pitch)
			return flags
		}
		flags.SoftCrossing = true
	}

	// 4. Hard repeat (hard).
	limit := inv.HardRepeatLimit
	if limit <= 0 {
		limit = DefaultHardRepeatLimit
	}
	if consecutiveRepeats(recent, pitch) >= limit {
		flags.HardRepeat = true
		invariantDebug("voice=%d pitch=%d hard repeat violation (limit %d)", voice, pitch, limit)
		return flags
	}

	// 5. Adjacent-voice spacing (soft).
	if adjacentSpacingExceeded(next, voice, inv.MaxAdjacentSpacing) {
		flags.SoftSpacing = true
	}

	return flags
}

// consecutiveRepeats counts how many trailing entries of recent equal pitch,
// plus the candidate itself (i.e. the run length placing pitch would create).
func consecutiveRepeats(recent recentPitches, pitch int) int {
	run := 1
	for i := len(recent) - 1; i >= 0; i-- {
		if recent[i] == pitch {
			run++
		} else {
			break
		}
	}
	return run
}

// adjacentSpacingExceeded reports whether voice and its immediate neighbor
// (voice-1, the next-higher voice by the §4.10 index convention) would
// exceed the configured semitone cap.
func adjacentSpacingExceeded(snap VerticalSnapshot, voice, capSemitones int) bool {
	if capSemitones <= 0 {
		capSemitones = 24
	}
	if voice <= 0 || voice >= len(snap.VoicePitch) {
		return false
	}
	higher := snap.VoicePitch[voice-1]
	lower := snap.VoicePitch[voice]
	if higher == 0 || lower == 0 {
		return false
	}
	gap := higher - lower
	if gap < 0 {
		gap = -gap
	}
	return gap > capSemitones
}
