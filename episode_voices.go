package gofugue

import "github.com/GeoffreyPlitt/debuggo"

var episodeVoicesDebug = debuggo.Debug("gofugue:episode_voices")

// restingVoiceIndex selects one inner voice (not voice 0/1 or the bass, the
// last voice) to rest, rotating across episodes by episode_index mod
// inner_voice_count (§4.10 step 4).
func restingVoiceIndex(voiceCount, episodeIndex int) int {
	if voiceCount < 4 {
		return -1
	}
	innerVoices := voiceCount - 3 // exclude voice 0, voice 1, and the bass/last voice
	if innerVoices <= 0 {
		return 2
	}
	return 2 + episodeIndex%innerVoices
}

// placeHeldTones places half-note tones on the resting voice,
// centered on its range and snapped to scale, each validated through
// ConstraintState (§4.10 step 5).
func placeHeldTones(result *EpisodeResult, req EpisodeRequest, state *ConstraintState, inv InvariantSet, rng *DeterministicRNG) {
	voice := restingVoiceIndex(req.VoiceCount, req.EpisodeIndex)
	if voice < 0 || voice >= req.VoiceCount {
		return
	}
	restInv := inv
	if req.Config != nil {
		restInv = req.Config.InvariantSetFor(req.Profile, voice, req.VoiceCount)
	}
	center := (restInv.RangeLo + restInv.RangeHi) / 2
	lastPitch := center
	holdDur := TicksPerBar / 2 // half note

	for tick := req.StartTick; tick < req.StartTick+req.Duration; tick += holdDur {
		snapped := NearestScaleTone(center, req.StartKey, req.Mode)
		vertSnap := BuildVerticalSnapshot(result.Notes, tick, req.VoiceCount)
		melCtx := MelodicContext{
			PrevPitch:            lastPitch,
			PrevDurationCategory: ClassifyDuration(holdDur),
			PrevDegreeStep:       DegreeStep(lastPitch, snapped, req.StartKey, req.Mode),
			BeatPosition:         ClassifyBeatPosition(tick),
			Key:                  req.StartKey,
			Mode:                 req.Mode,
		}
		score := state.Evaluate(CandidateEvaluation{
			Pitch: snapped, Duration: holdDur, Voice: voice, Tick: tick, MelodicCtx: melCtx, Vertical: vertSnap,
		})
		if score <= RejectedScore {
			continue
		}
		note := Note{Start: tick, Duration: holdDur, Pitch: snapped, Velocity: 70, Voice: voice, Source: TagEpisodeMaterial}
		result.Notes = append(result.Notes, note)
		state.Advance(tick, snapped, voice, holdDur, req.StartKey, req.Mode, false)
		lastPitch = snapped
	}
	episodeVoicesDebug("placed held tones on resting voice=%d", voice)
}

// circleOfFifthsFallback is the descending I -> IV -> vii -> V -> iii -> vi
// -> ii -> V pattern truncated to 5 steps (§4.10 step 6), expressed as
// scale-degree roots (0-based).
var circleOfFifthsFallback = []int{0, 3, 6, 4, 2}

// placeBassFragments extracts the tail of voice 0's output (up to 3 notes),
// maps it into voice 2's range with octave folding, adds duration jitter,
// and alternates with anchor notes per §4.10 step 6.
func placeBassFragments(result *EpisodeResult, req EpisodeRequest, state *ConstraintState, inv InvariantSet, rng *DeterministicRNG) {
	bassVoice := 2
	if bassVoice >= req.VoiceCount {
		return
	}
	bassInv := inv
	if req.Config != nil {
		bassInv = req.Config.InvariantSetFor(req.Profile, bassVoice, req.VoiceCount)
	}

	var voice0Notes []Note
	for _, n := range result.Notes {
		if n.Voice == 0 {
			voice0Notes = append(voice0Notes, n)
		}
	}
	tailLen := 3
	if tailLen > len(voice0Notes) {
		tailLen = len(voice0Notes)
	}
	var tail []Note
	if tailLen > 0 {
		tail = voice0Notes[len(voice0Notes)-tailLen:]
	}

	lastPitch := (bassInv.RangeLo + bassInv.RangeHi) / 2
	fragmentTurn := true
	anchorIdx := 0
	tick := req.StartTick
	for tick < req.StartTick+req.Duration {
		var pitch int
		var duration int

		sustainedFiguration := upperVoicesSustainedFiguration(result.Notes, tick)

		if fragmentTurn && len(tail) > 0 {
			src := tail[anchorIdx%len(tail)]
			pitch = foldIntoRange(src.Pitch, bassInv.RangeLo, bassInv.RangeHi)
			jitter := rng.Intn(41) - 20 // +-20 ticks
			duration = src.Duration + jitter
			if duration < TicksPerSixteenth {
				duration = TicksPerSixteenth
			}
		} else {
			var root int
			beat := ClassifyBeatPosition(tick)
			if req.HarmonicTimeline != nil {
				if r, _, ok := req.HarmonicTimeline(tick); ok {
					root = r
				} else {
					root = circleOfFifthsRoot(req.StartKey, req.Mode, anchorIdx)
				}
			} else {
				root = circleOfFifthsRoot(req.StartKey, req.Mode, anchorIdx)
			}
			if beat == PosBar || beat == PosBeat {
				pitch = foldIntoRange(root, bassInv.RangeLo, bassInv.RangeHi)
			} else {
				// weak beat: linearly-interpolated diatonic passing tone
				passing := NearestScaleTone(lastPitch+(root-lastPitch)/2, req.StartKey, req.Mode)
				pitch = foldIntoRange(passing, bassInv.RangeLo, bassInv.RangeHi)
			}
			duration = anchorDuration(req.Grammar, anchorIdx, rng)
			if sustainedFiguration && duration < TicksPerBeat {
				duration = TicksPerBeat
			}
			anchorIdx++
		}

		vertSnap := BuildVerticalSnapshot(result.Notes, tick, req.VoiceCount)
		melCtx := MelodicContext{
			PrevPitch:            lastPitch,
			PrevDurationCategory: ClassifyDuration(duration),
			PrevDegreeStep:       DegreeStep(lastPitch, pitch, req.StartKey, req.Mode),
			BeatPosition:         ClassifyBeatPosition(tick),
			Key:                  req.StartKey,
			Mode:                 req.Mode,
		}
		score := state.Evaluate(CandidateEvaluation{
			Pitch: pitch, Duration: duration, Voice: bassVoice, Tick: tick, MelodicCtx: melCtx, Vertical: vertSnap,
		})
		if score > RejectedScore {
			note := Note{Start: tick, Duration: duration, Pitch: pitch, Velocity: 75, Voice: bassVoice, Source: TagEpisodeMaterial}
			result.Notes = append(result.Notes, note)
			state.Advance(tick, pitch, bassVoice, duration, req.StartKey, req.Mode, false)
			lastPitch = pitch
		}

		tick += duration
		fragmentTurn = !fragmentTurn
	}
}

func foldIntoRange(pitch, lo, hi int) int {
	for pitch < lo {
		pitch += 12
	}
	for pitch > hi {
		pitch -= 12
	}
	return clampInt(pitch, lo, hi)
}

func circleOfFifthsRoot(key Key, mode Mode, step int) int {
	degree := circleOfFifthsFallback[step%len(circleOfFifthsFallback)]
	return degreeToPitchAnchored(degree, key, mode, 1)
}

// anchorDuration returns a half-beat anchor with probability 0.3 and a full
// beat otherwise. The draw is the same in every Fortspinnung phase: grammar
// and idx are not consulted.
func anchorDuration(grammar Grammar, idx int, rng *DeterministicRNG) int {
	if rng.Bool(0.3) {
		return TicksPerBeat / 2
	}
	return TicksPerBeat
}

// upperVoicesSustainedFiguration reports whether voices 0/1 have had >= 4
// eighth-or-shorter notes in the last 2 beats (the bass anchor floor rule).
func upperVoicesSustainedFiguration(notes []Note, tick int) bool {
	count := 0
	windowStart := tick - 2*TicksPerBeat
	for _, n := range notes {
		if (n.Voice == 0 || n.Voice == 1) && n.Start >= windowStart && n.Start < tick && n.Duration <= 300 {
			count++
		}
	}
	return count >= 4
}

// placePedalVoice alternates tonic/dominant anchor notes on the last voice
// for 4+ voice episodes (§4.10 step 7).
func placePedalVoice(result *EpisodeResult, req EpisodeRequest, state *ConstraintState, inv InvariantSet, rng *DeterministicRNG) {
	pedalVoice := req.VoiceCount - 1
	if pedalVoice < 3 {
		return
	}
	pedalInv := inv
	if req.Config != nil {
		pedalInv = req.Config.InvariantSetFor(req.Profile, pedalVoice, req.VoiceCount)
	}
	tonic := foldIntoRange(int(req.StartKey), pedalInv.RangeLo, pedalInv.RangeHi)
	dominant := foldIntoRange(int(req.StartKey)+7, pedalInv.RangeLo, pedalInv.RangeHi)
	subdominant := foldIntoRange(int(req.StartKey)+5, pedalInv.RangeLo, pedalInv.RangeHi)

	lastPlaced := req.StartTick
	tick := req.StartTick
	for tick < req.StartTick+req.Duration {
		progress := float64(tick-req.StartTick) / float64(req.Duration)
		var weights []float64
		if progress >= 0.75 {
			weights = []float64{0.25, 0.60, 0.15} // tonic, dominant, subdominant
		} else {
			weights = []float64{0.5, 0.35, 0.15}
		}
		emit := rng.Bool(0.6)
		forced := tick-lastPlaced >= 4*TicksPerBar
		if emit || forced {
			choice := rng.WeightedChoice(weights)
			var pitch int
			switch choice {
			case 0:
				pitch = tonic
			case 1:
				pitch = dominant
			default:
				pitch = subdominant
			}
			duration := TicksPerBar
			vertSnap := BuildVerticalSnapshot(result.Notes, tick, req.VoiceCount)
			melCtx := MelodicContext{PrevPitch: pitch, BeatPosition: ClassifyBeatPosition(tick), Key: req.StartKey, Mode: req.Mode}
			score := state.Evaluate(CandidateEvaluation{Pitch: pitch, Duration: duration, Voice: pedalVoice, Tick: tick, MelodicCtx: melCtx, Vertical: vertSnap})
			if score > RejectedScore {
				note := Note{Start: tick, Duration: duration, Pitch: pitch, Velocity: 65, Voice: pedalVoice, Source: TagPedalPoint}
				result.Notes = append(result.Notes, note)
				state.Advance(tick, pitch, pedalVoice, duration, req.StartKey, req.Mode, false)
				lastPlaced = tick
			}
		}
		tick += TicksPerBar
	}
}
