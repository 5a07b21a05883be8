package gofugue

import "github.com/GeoffreyPlitt/debuggo"

var constraintDebug = debuggo.Debug("gofugue:constraint")

// RejectedScore is the negative-infinity sentinel Evaluate returns for a
// hard-rejected candidate.
const RejectedScore = -1e18

// perVoiceState is the small per-voice bookkeeping the constraint state
// needs to run the invariant checker (the recent-pitch ring).
type perVoiceState struct {
	recent recentPitches
}

const recentPitchRingLength = 8

func pushRecent(r recentPitches, pitch int) recentPitches {
	r = append(r, pitch)
	if len(r) > recentPitchRingLength {
		r = r[len(r)-recentPitchRingLength:]
	}
	return r
}

// lastPitch returns the most recently placed pitch in r, or 0 if r is empty.
func (r recentPitches) lastPitch() int {
	if len(r) == 0 {
		return 0
	}
	return r[len(r)-1]
}

// crossedNeighbor scans prior (the snapshot just before this placement) for
// the other voice that candidatePitch in voice now crosses, per the
// high-to-low-by-increasing-index convention (see rules.go's Crosses).
// Returns -1 if no voice is crossed.
func crossedNeighbor(prior VerticalSnapshot, voice, candidatePitch int) int {
	for other, p := range prior.VoicePitch {
		if other == voice || p == 0 {
			continue
		}
		if other < voice && candidatePitch > p {
			return other
		}
		if other > voice && candidatePitch < p {
			return other
		}
	}
	return -1
}

// ConstraintState is the composite C6 bundle exposed to the episode
// generator: obligations, soft-violation count, total-note count, the
// invariant set, the section accumulator, the gravity configuration, the
// ordered cadence-tick list, and the total piece duration.
type ConstraintState struct {
	Ledger       *ObligationLedger
	Accumulator  *SectionAccumulator
	Invariants   InvariantSet // voice 0's set; kept for callers that inspect a representative range
	InvariantsByVoice []InvariantSet
	Gravity      GravityConfig
	CadenceTicks []int
	PieceDuration int

	checker *InvariantChecker
	scorer  *GravityScorer

	SoftViolationCount int
	TotalNoteCount     int

	voices      []perVoiceState
	currentTick int
}

// NewConstraintState constructs a fresh constraint state for one episode.
// invariantsByVoice must have one entry per voice (see EngineConfig.InvariantSetFor);
// any voice the slice does not cover (including every voice, for a nil
// slice) falls back to inv.
func NewConstraintState(inv InvariantSet, gravity GravityConfig, cadenceTicks []int, pieceDuration, voiceCount int, rules FugueRuleEvaluator, invariantsByVoice ...InvariantSet) *ConstraintState {
	acc := NewSectionAccumulator(DefaultRhythmReference, DefaultHarmonyReference)
	perVoice := make([]InvariantSet, voiceCount)
	for v := range perVoice {
		if v < len(invariantsByVoice) {
			perVoice[v] = invariantsByVoice[v]
		} else {
			perVoice[v] = inv
		}
	}
	return &ConstraintState{
		Ledger:        NewObligationLedger(),
		Accumulator:   acc,
		Invariants:    inv,
		InvariantsByVoice: perVoice,
		Gravity:       gravity,
		CadenceTicks:  cadenceTicks,
		PieceDuration: pieceDuration,
		checker:       NewInvariantChecker(rules, rules),
		scorer:        NewGravityScorer(gravity, acc),
		voices:        make([]perVoiceState, voiceCount),
	}
}

// invariantsFor returns the range/spacing invariant set that applies to
// voice, falling back to Invariants if voice is out of band.
func (s *ConstraintState) invariantsFor(voice int) InvariantSet {
	if voice >= 0 && voice < len(s.InvariantsByVoice) {
		return s.InvariantsByVoice[voice]
	}
	return s.Invariants
}

// SetInvariantsByVoice replaces the per-voice invariant bands (used when an
// episode inherits a ConstraintState from a prior section and must refresh
// bands for the new form profile or voice count).
func (s *ConstraintState) SetInvariantsByVoice(perVoice []InvariantSet) {
	s.InvariantsByVoice = perVoice
	if len(perVoice) > 0 {
		s.Invariants = perVoice[0]
	}
}

// CandidateEvaluation is the input bundle for Evaluate.
type CandidateEvaluation struct {
	Pitch      int
	Duration   int
	Voice      int
	Tick       int
	MelodicCtx MelodicContext
	Vertical   VerticalSnapshot // snapshot BEFORE placing this candidate
	FigureWindow [4]int
}

// tickToCadence returns the distance (in ticks) from tick to the nearest
// upcoming cadence tick, or -1 if none remain.
func (s *ConstraintState) tickToCadence(tick int) int {
	best := -1
	for _, c := range s.CadenceTicks {
		if c >= tick {
			d := c - tick
			if best == -1 || d < best {
				best = d
			}
		}
	}
	return best
}

// Evaluate runs the invariant check first; on any hard flag it returns
// RejectedScore. Otherwise it computes the Gravity score and returns it
// (RejectedScore again if the vertical-probability gate rejects). When the
// candidate raises a soft crossing or spacing flag, Evaluate adds a flexible
// recovery obligation to the ledger; it never updates the accumulator or the
// voice history, which is Advance's job.
func (s *ConstraintState) Evaluate(c CandidateEvaluation) float64 {
	if c.Voice < 0 || c.Voice >= len(s.voices) {
		return RejectedScore
	}
	next := c.Vertical
	if c.Voice < len(next.VoicePitch) {
		next.VoicePitch = append([]int(nil), next.VoicePitch...)
		next.VoicePitch[c.Voice] = c.Pitch
	}

	voiceInv := s.invariantsFor(c.Voice)
	flags := s.checker.Check(c.Pitch, c.Voice, c.Vertical, next, s.voices[c.Voice].recent, voiceInv)
	if flags.Hard() {
		return RejectedScore
	}

	bassDegree, _ := PitchToDegree(c.Vertical.BassPitchClass(), Key(0), Major)
	harmFunc := ClassifyHarmonicFunction(bassDegree)
	voiceBin := ClassifyVoiceCount(c.Vertical.VoiceCount + 1)
	verticalOffset := ((c.Pitch % 12) - c.Vertical.BassPitchClass() + 12) % 12

	cadenceDist := s.tickToCadence(c.Tick)
	cadenceWindow := TicksPerBar

	inputs := GravityInputs{
		MelodicCtx:       c.MelodicCtx,
		CandidateStep:    DegreeStep(c.MelodicCtx.PrevPitch, c.Pitch, c.MelodicCtx.Key, c.MelodicCtx.Mode),
		PrevDuration:     c.MelodicCtx.PrevDurationCategory,
		DirectedInterval: ClassifyDirectedInterval(c.Pitch - c.MelodicCtx.PrevPitch),
		CandidateDurCat:  ClassifyDuration(c.Duration),
		BassDegree:       bassDegree,
		Beat:             ClassifyBeatPosition(c.Tick),
		VoiceBin:         voiceBin,
		HarmonicFunc:     harmFunc,
		VerticalOffset:   verticalOffset,
		TickToCadence:    cadenceDist,
		CadenceWindow:    cadenceWindow,
		AtPhraseBoundary: cadenceDist >= 0 && cadenceDist <= TicksPerBeat,
		FigureWindow:     c.FigureWindow,
	}

	score, ok := s.scorer.Score(inputs)
	if !ok {
		return RejectedScore
	}

	if flags.SoftCrossing {
		if other := crossedNeighbor(c.Vertical, c.Voice, c.Pitch); other >= 0 {
			s.Ledger.Add(Obligation{Kind: RecoverCrossing, Voice: c.Voice, OtherVoice: other, Origin: c.Tick, Deadline: c.Tick + TicksPerBar, Severity: SeverityFlexible})
		}
	}
	if flags.SoftSpacing {
		s.Ledger.Add(Obligation{Kind: RecoverSpacing, Voice: c.Voice, OtherVoice: c.Voice - 1, Origin: c.Tick, Deadline: c.Tick + TicksPerBar, Severity: SeverityFlexible, SpacingCap: voiceInv.MaxAdjacentSpacing})
	}

	return score
}

// Advance runs the ledger's tick() pass, records the placed note into the
// accumulator, increments the total-note counter, and increments the
// soft-violation counter if raisedSoft is true (the caller tracks whether
// the evaluation that led to this placement raised soft flags).
func (s *ConstraintState) Advance(tick, placedPitch, placedVoice, duration int, key Key, mode Mode, raisedSoft bool) {
	s.currentTick = tick

	voicePitches := make([]int, len(s.voices))
	for v := range s.voices {
		voicePitches[v] = s.voices[v].recent.lastPitch()
	}
	if placedVoice >= 0 && placedVoice < len(voicePitches) {
		voicePitches[placedVoice] = placedPitch
	}
	s.Ledger.Tick(tick, placedPitch, placedVoice, duration, key, mode, voicePitches)
	degree, _ := PitchToDegree(placedPitch, key, mode)
	s.Accumulator.Record(duration, degree)
	s.TotalNoteCount++
	if raisedSoft {
		s.SoftViolationCount++
	}
	if placedVoice >= 0 && placedVoice < len(s.voices) {
		s.voices[placedVoice].recent = pushRecent(s.voices[placedVoice].recent, placedPitch)
	}
	constraintDebug("advance tick=%d voice=%d pitch=%d total=%d soft=%d", tick, placedVoice, placedPitch, s.TotalNoteCount, s.SoftViolationCount)
}

// IsDead reports whether any structural obligation has expired unsatisfied.
// IsDead reports the ledger's state as of the last Advance; IsDeadAt(tick)
// additionally checks the active structural obligations against tick so a
// caller checking ahead of the next Advance still sees freshly-expired ones.
func (s *ConstraintState) IsDead() bool {
	return s.Ledger.IsDead()
}

// IsDeadAt is the tick-aware variant of IsDead: it marks the state dead if
// any active structural obligation has a deadline at or before tick, then
// reports deadness. It does not remove any obligation from the ledger.
func (s *ConstraintState) IsDeadAt(tick int) bool {
	for _, o := range s.Ledger.Active() {
		if o.Severity == SeverityStructural && tick >= o.Deadline {
			s.Ledger.dead = true
			break
		}
	}
	return s.Ledger.IsDead()
}
