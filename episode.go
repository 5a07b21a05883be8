package gofugue

import (
	"errors"
	"sort"

	"github.com/GeoffreyPlitt/debuggo"
)

var episodeDebug = debuggo.Debug("gofugue:episode")

// ErrInvalidRequest names the request-validation failure: empty motif pool,
// zero duration, or voice count outside 1-6. GenerateEpisode never returns a
// Go error and does not return this value; it reports an invalid request as
// EpisodeResult.Success=false with no notes.
var ErrInvalidRequest = errors.New("gofugue: invalid episode request")

// ChordAt is the harmonic-timeline lookup signature: chord_at(tick) ->
// {root_pitch, quality}.
type ChordAt func(tick int) (rootPitch int, quality HarmonicFunction, ok bool)

// EpisodeRequest is the input to GenerateEpisode (§6).
type EpisodeRequest struct {
	StartKey, EndKey Key
	Mode             Mode
	StartTick        int
	Duration         int
	VoiceCount       int
	Character        Character
	Grammar          Grammar
	EpisodeIndex     int
	Energy           float64
	Seed             uint32

	Pool *MotifPool

	EntryState        *ConstraintState
	PipelineAccumulator *SectionAccumulator
	HarmonicTimeline  ChordAt
	LastPitches       []int // optional, per-voice
	PedalPitch        *int

	Rules  FugueRuleEvaluator
	Config *EngineConfig
	Profile FormProfile

	CadenceTicks []int
}

// EpisodeResult is the output of GenerateEpisode (§6).
type EpisodeResult struct {
	Notes       []Note
	ExitState   *ConstraintState
	KeyAchieved Key
	Success     bool
}

type voiceRuntimeState struct {
	lastPitch      int
	lastDuration   int
	lastDissonant  bool // whether lastPitch sounded dissonant against the bass when placed
	recentPitches  recentPitches
	sixteenthCount map[int]int // bar index -> count of sixteenth-or-shorter notes
}

// GenerateEpisode is the public entry point for C10.
func GenerateEpisode(req EpisodeRequest) EpisodeResult {
	if req.Pool == nil || req.Pool.Len() == 0 || req.Duration <= 0 || req.VoiceCount < 1 || req.VoiceCount > 6 {
		episodeDebug("invalid request: pool=%v duration=%d voices=%d", req.Pool, req.Duration, req.VoiceCount)
		return EpisodeResult{Success: false}
	}

	cfg := req.Config
	if cfg == nil {
		cfg = DefaultEngineConfig()
	}
	profile := req.Profile
	if profile == "" {
		profile = FormProfileDefault
	}
	req.Config = cfg
	req.Profile = profile

	rng := NewDeterministicRNG(req.Seed)

	// 1. Plan.
	plan0 := PlanEpisode(req.Pool, req.StartTick, req.Duration, req.Character, req.Grammar, 0)
	plan1 := PlanEpisode(req.Pool, req.StartTick, req.Duration, req.Character, req.Grammar, 1)
	if len(plan0) == 0 && len(plan1) == 0 {
		return EpisodeResult{Success: false}
	}

	invariantsByVoice := make([]InvariantSet, req.VoiceCount)
	for v := range invariantsByVoice {
		invariantsByVoice[v] = cfg.InvariantSetFor(profile, v, req.VoiceCount)
	}
	invariants := invariantsByVoice[0]

	state := req.EntryState
	gravityWeights := cfg.Gravity
	if state == nil {
		gravity := GravityConfig{
			Oracles:    DefaultOracleTables(),
			Vocabulary: NewVocabularyOracle(),
			Weights:    gravityWeights,
			Phase:      PhaseEstablish,
			Energy:     req.Energy,
		}
		state = NewConstraintState(invariants, gravity, req.CadenceTicks, req.Duration, req.VoiceCount, req.Rules, invariantsByVoice...)
	} else {
		// Override order per §9: entry state loaded first, then overrides
		// applied (invariant set, gravity phase/energy, voice range, cadence
		// ticks, piece duration are the wider-piece's, not the prior
		// episode's).
		state.SetInvariantsByVoice(invariantsByVoice)
		state.Gravity.Phase = PhaseEstablish
		state.Gravity.Energy = req.Energy
		state.Gravity.Oracles = DefaultOracleTables()
		state.Gravity.Vocabulary = NewVocabularyOracle()
		state.Gravity.Weights = gravityWeights
		state.CadenceTicks = req.CadenceTicks
		state.PieceDuration = req.Duration
		state.scorer = NewGravityScorer(state.Gravity, state.Accumulator)
	}

	// 2. Initialize per-voice runtime state.
	voices := make([]voiceRuntimeState, req.VoiceCount)
	for v := range voices {
		voices[v] = voiceRuntimeState{sixteenthCount: map[int]int{}}
		if req.LastPitches != nil && v < len(req.LastPitches) && req.LastPitches[v] > 0 {
			voices[v].lastPitch = req.LastPitches[v]
		} else if best := req.Pool.Best(); best != nil && len(best.Notes) > 0 {
			voices[v].lastPitch = best.Notes[0].Pitch
		} else {
			lo, hi := invariantsByVoice[v].RangeLo, invariantsByVoice[v].RangeHi
			voices[v].lastPitch = (lo + hi) / 2
		}
		voices[v].lastDuration = TicksPerBeat
	}

	var placed []Note
	dead := false

	runVoicePlan := func(plan []PlanStep, voice int) {
		for _, step := range plan {
			if dead {
				return
			}
			if step.Tick >= req.StartTick+req.Duration {
				break
			}
			entry := req.Pool.ByRank(step.MotifRank)
			if entry == nil {
				continue
			}
			transformed := applyOperation(entry.Notes, step, req.StartKey, req.Mode)
			if voice == 1 && req.Character == Noble {
				transformed = Transpose(transformed, -12)
			}

			for _, mn := range transformed {
				tick := step.Tick + mn.Start
				if tick >= req.StartTick+req.Duration {
					break
				}

				progress := float64(tick-req.StartTick) / float64(req.Duration)
				modKey := modulationKey(req.StartKey, req.EndKey, progress)

				offsets := []int{0, -1, 1}
				if step.Phase != PlanKernel {
					offsets = []int{0, -1, 1, -2, 2}
				}

				vertSnap := BuildVerticalSnapshot(placed, tick, req.VoiceCount)
				melCtx := MelodicContext{
					PrevPitch:            voices[voice].lastPitch,
					PrevDurationCategory: ClassifyDuration(voices[voice].lastDuration),
					PrevDegreeStep:       DegreeStep(voices[voice].lastPitch, mn.Pitch, modKey, req.Mode),
					PrevDegreeClass:      ClassifyDegree(func() int { d, _ := PitchToDegree(voices[voice].lastPitch, modKey, req.Mode); return d }()),
					BeatPosition:         ClassifyBeatPosition(tick),
					Key:                  modKey,
					Mode:                 req.Mode,
				}

				voiceInv := invariantsByVoice[voice]
				bestScore := RejectedScore
				bestPitch := -1
				for _, off := range offsets {
					base := mn.Pitch + off
					clamped := clampInt(base, voiceInv.RangeLo, voiceInv.RangeHi)
					if clamped != base {
						continue
					}
					snapped := NearestScaleTone(clamped, modKey, req.Mode)
					if snapped < voiceInv.RangeLo || snapped > voiceInv.RangeHi {
						continue
					}

					figWindow := figureWindow(voices[voice].recentPitches, snapped)
					score := state.Evaluate(CandidateEvaluation{
						Pitch: snapped, Duration: mn.Duration, Voice: voice, Tick: tick,
						MelodicCtx: melCtx, Vertical: vertSnap, FigureWindow: figWindow,
					})
					if score <= RejectedScore {
						continue
					}
					score += postHocBonus(step.Phase, off, snapped, mn.Pitch, vertSnap, voice, req.PedalPitch, tick)
					if snapped == voices[voice].lastPitch {
						score -= 0.4
					}
					if score > bestScore {
						bestScore = score
						bestPitch = snapped
					}
				}

				if bestPitch == -1 {
					continue // note-skip: tick advances but no note placed
				}

				currentDissonant := false
				if bass := vertSnap.BassPitchClass(); bass >= 0 {
					currentDissonant = !IsConsonantOffset(bestPitch - bass)
				}
				duration := effectiveDuration(mn.Duration, step.Phase, req.Energy, tick, voices[voice].lastDuration, voices[voice].lastDissonant, !currentDissonant, rng)
				duration = capSixteenthBudget(duration, tick, voices[voice].sixteenthCount)

				note := Note{Start: tick, Duration: duration, Pitch: bestPitch, Velocity: 80, Voice: voice, Source: TagEpisodeMaterial}
				placed = append(placed, note)
				state.Advance(tick, bestPitch, voice, duration, modKey, req.Mode, false)
				voices[voice].lastPitch = bestPitch
				voices[voice].lastDuration = duration
				voices[voice].lastDissonant = currentDissonant
				voices[voice].recentPitches = pushRecent(voices[voice].recentPitches, bestPitch)

				if state.IsDeadAt(tick) {
					dead = true
					return
				}
			}
		}
	}

	runVoicePlan(plan0, 0)
	if req.VoiceCount > 1 {
		runVoicePlan(plan1, 1)
	}

	result := EpisodeResult{Notes: placed, ExitState: state, KeyAchieved: req.EndKey, Success: !dead}

	if !dead {
		// 4-5. Resting voice + held tones (4+ voices).
		if req.VoiceCount >= 4 {
			placeHeldTones(&result, req, state, invariants, rng)
		}
		// 6. Bass fragments (3+ voices).
		if req.VoiceCount >= 3 {
			placeBassFragments(&result, req, state, invariants, rng)
		}
		// 7. Pedal voice (4+ voices).
		if req.VoiceCount >= 4 {
			placePedalVoice(&result, req, state, invariants, rng)
		}
	}

	// 8. Invertible counterpoint.
	if req.VoiceCount >= 2 && req.EpisodeIndex%2 == 1 {
		p := invertibleCounterpointProbability(req.Character)
		if rng.Bool(p) {
			for i := range result.Notes {
				if result.Notes[i].Voice == 0 {
					result.Notes[i].Voice = 1
				} else if result.Notes[i].Voice == 1 {
					result.Notes[i].Voice = 0
				}
			}
		}
	}

	// 9. Final sort by (start_tick, voice).
	sort.SliceStable(result.Notes, func(i, j int) bool {
		a, b := result.Notes[i], result.Notes[j]
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		return a.Voice < b.Voice
	})

	return result
}

// applyOperation applies a plan step's requested transformation to a motif's
// note list.
func applyOperation(notes []Note, step PlanStep, key Key, mode Mode) []Note {
	switch step.Operation {
	case OpInvert:
		if len(notes) == 0 {
			return notes
		}
		return Invert(notes, notes[0].Pitch)
	case OpRetrograde:
		return Retrograde(notes, 0)
	case OpAugment:
		return Augment(notes, 0, 2)
	case OpDiminish:
		return Diminish(notes, 0, 2)
	case OpSequence:
		return TransposeDiatonic(notes, step.Transposition, key, mode)
	case OpFragmentOp:
		frags := Fragment(notes, 2)
		if len(frags) == 0 {
			return notes
		}
		return frags[0]
	default:
		return notes
	}
}

// modulationKey returns start for the first half of the episode and end from
// the midpoint on. It switches in one step at progress 0.5; it does not pass
// through intermediate keys.
func modulationKey(start, end Key, progress float64) Key {
	if start == end || progress < 0.5 {
		return start
	}
	if progress >= 1.0 {
		return end
	}
	return end
}

// effectiveDuration applies phase-dependent diminution, gated by a strong-beat
// guard, an 8th/16th rhythm-consistency softening, and resolution protection:
// a note following a dissonant one is never diminished if it lands
// consonant, since shortening it would undercut the resolution it's there to
// provide. prevDissonant is whether the previous note in this voice sounded
// dissonant against the bass when it was placed; currentConsonant is whether
// the candidate about to be placed does not.
func effectiveDuration(base int, phase PlanPhase, energy float64, tick, prevDuration int, prevDissonant, currentConsonant bool, rng *DeterministicRNG) int {
	pDiminish := 0.0
	switch phase {
	case PlanKernel:
		pDiminish = 0.0
	case PlanSequence:
		pDiminish = 0.5
	case PlanDissolution:
		pDiminish = 0.55 + 0.15*energy
	}

	strongBeat := ClassifyBeatPosition(tick) == PosBar || ClassifyBeatPosition(tick) == PosBeat
	if strongBeat && phase != PlanDissolution {
		pDiminish = 0
	}

	prevCat := ClassifyDuration(prevDuration)
	baseCat := ClassifyDuration(base)
	if (prevCat == Dur8th && baseCat == Dur16th) || (prevCat == Dur16th && baseCat == Dur8th) {
		pDiminish *= 0.5
	}

	if prevDissonant && currentConsonant {
		pDiminish = 0
	}

	duration := base
	if pDiminish > 0 && rng.Bool(pDiminish) {
		duration = base / 2
	}
	if duration < TicksPerSixteenth {
		duration = TicksPerSixteenth
	}
	return duration
}

// capSixteenthBudget enforces the hard per-bar sixteenth-note budget (75% of
// a bar).
func capSixteenthBudget(duration, tick int, counts map[int]int) int {
	bar := tick / TicksPerBar
	if duration < 180 { // sixteenth-or-shorter
		maxPerBar := (TicksPerBar * 3 / 4) / TicksPerSixteenth
		if counts[bar] >= maxPerBar {
			return TicksPerSixteenth * 2 // bump up to an eighth to stay under budget
		}
		counts[bar]++
	}
	return duration
}

// figureWindow builds a 4-interval directed window from recent + candidate.
func figureWindow(recent recentPitches, candidate int) [4]int {
	seq := append(append(recentPitches{}, recent...), candidate)
	var win [4]int
	n := len(seq)
	for i := 0; i < 4; i++ {
		idx := n - 4 + i
		if idx <= 0 || idx >= n {
			continue
		}
		win[i] = seq[idx] - seq[idx-1]
	}
	return win
}

// postHocBonus applies the candidate-scoring bonuses of §4.10 step 3.5.
func postHocBonus(phase PlanPhase, offset, candidatePitch, motifPitch int, snap VerticalSnapshot, voice int, pedalPitch *int, tick int) float64 {
	bonus := 0.0
	switch phase {
	case PlanKernel:
		if offset == 0 {
			bonus += 0.5
		}
		bonus += minAdjacentSpacingBonus(snap, voice, candidatePitch, 0.4)
	case PlanSequence:
		if candidatePitch == motifPitch {
			bonus += 0.3
		}
	}
	if pedalPitch != nil {
		strongBeat := ClassifyBeatPosition(tick) == PosBar || ClassifyBeatPosition(tick) == PosBeat
		if strongBeat {
			iv := ((candidatePitch-*pedalPitch)%12 + 12) % 12
			if iv == 0 || iv == 7 || iv == 4 || iv == 3 {
				bonus += 0.3
			} else {
				bonus -= 0.3
			}
		}
	}
	cap := 0.5
	switch phase {
	case PlanSequence:
		cap = 0.45
	case PlanDissolution:
		cap = 0.35
	}
	bonus += minAdjacentSpacingBonus(snap, voice, candidatePitch, cap)
	return bonus
}

func minAdjacentSpacingBonus(snap VerticalSnapshot, voice, candidatePitch int, cap float64) float64 {
	if voice <= 0 || voice >= len(snap.VoicePitch) {
		return 0
	}
	other := snap.VoicePitch[voice-1]
	if other == 0 {
		return 0
	}
	gap := other - candidatePitch
	if gap < 0 {
		gap = -gap
	}
	v := float64(gap) / 24.0
	if v > cap {
		v = cap
	}
	return v
}

// invertibleCounterpointProbability returns the character-specific
// probability of swapping voices 0/1 (§4.10 step 8).
func invertibleCounterpointProbability(ch Character) float64 {
	switch ch {
	case Severe:
		return 0.75
	case Noble:
		return 0.70
	case Restless:
		return 0.65
	default: // Playful
		return 0.60
	}
}
