package gofugue

import "github.com/GeoffreyPlitt/debuggo"

var fortspinnungDebug = debuggo.Debug("gofugue:fortspinnung")

// Character is the four-valued subject-character tag that parameterizes
// episode style.
type Character int

const (
	Severe Character = iota
	Playful
	Noble
	Restless
)

func (c Character) String() string {
	switch c {
	case Playful:
		return "Playful"
	case Noble:
		return "Noble"
	case Restless:
		return "Restless"
	default:
		return "Severe"
	}
}

// Grammar is the three Kernel/Sequence/Dissolution phase ratios (summing to
// 1.0) plus dissolution tuning parameters.
type Grammar struct {
	KernelRatio      float64
	SequenceRatio    float64
	DissolutionRatio float64

	DissolutionIOIGrowth     float64 // multiplier applied per dissolution step, default 1.2
	DissolutionLengthenLast  float64 // factor applied to the final 1-2 note durations, default ~1.5
}

// CharacterProfile is the fixed design table of §4.8: per-character
// operation sequence, imitation delay range (in beats), and sequence step
// (scale degrees).
type CharacterProfile struct {
	Operations          [3]MotifOperation `toml:"-"`
	OperationNames       [3]string        `toml:"operations"`
	ImitationDelayLowBeats  float64       `toml:"imitation_delay_low_beats"`
	ImitationDelayHighBeats float64       `toml:"imitation_delay_high_beats"`
	SequenceStep         int              `toml:"sequence_step"`
	Grammar              Grammar          `toml:"-"`
}

func operationFromName(name string) MotifOperation {
	switch name {
	case "Invert":
		return OpInvert
	case "Retrograde":
		return OpRetrograde
	case "Augment":
		return OpAugment
	case "Diminish":
		return OpDiminish
	case "Fragment":
		return OpFragmentOp
	case "Sequence":
		return OpSequence
	case "None":
		return -1
	default:
		return OpOriginal
	}
}

// defaultCharacterProfiles returns the fixed design table from §4.8.
func defaultCharacterProfiles() map[string]CharacterProfile {
	mk := func(ops [3]string, lo, hi float64, step int) CharacterProfile {
		p := CharacterProfile{OperationNames: ops, ImitationDelayLowBeats: lo, ImitationDelayHighBeats: hi, SequenceStep: step}
		for i, n := range ops {
			p.Operations[i] = operationFromName(n)
		}
		p.Grammar = Grammar{DissolutionIOIGrowth: 1.2, DissolutionLengthenLast: 1.5}
		return p
	}
	return map[string]CharacterProfile{
		"Severe":   mk([3]string{"Original", "Invert", "Original"}, 1.5, 2.5, -1),
		"Playful":  mk([3]string{"Retrograde", "Invert", "None"}, 0.5, 1.5, -2),
		"Noble":    mk([3]string{"Original", "Augment", "Retrograde"}, 1.5, 2.5, -1),
		"Restless": mk([3]string{"Fragment", "Diminish", "None"}, 0.5, 1.5, -2),
	}
}

// defaultGrammarFor returns the default Kernel/Sequence/Dissolution phase
// ratios per character, per §4.8's example ratios (Severe 30/45/25, Playful
// 20/55/25; Noble 25/50/25 lies between them, Restless uses 20/50/30).
func defaultGrammarFor(ch Character) Grammar {
	switch ch {
	case Playful:
		return Grammar{KernelRatio: 0.20, SequenceRatio: 0.55, DissolutionRatio: 0.25, DissolutionIOIGrowth: 1.2, DissolutionLengthenLast: 1.5}
	case Noble:
		return Grammar{KernelRatio: 0.25, SequenceRatio: 0.50, DissolutionRatio: 0.25, DissolutionIOIGrowth: 1.2, DissolutionLengthenLast: 1.5}
	case Restless:
		return Grammar{KernelRatio: 0.20, SequenceRatio: 0.50, DissolutionRatio: 0.30, DissolutionIOIGrowth: 1.2, DissolutionLengthenLast: 1.5}
	default: // Severe
		return Grammar{KernelRatio: 0.30, SequenceRatio: 0.45, DissolutionRatio: 0.25, DissolutionIOIGrowth: 1.2, DissolutionLengthenLast: 1.5}
	}
}

// PlanPhase tags which of the three Fortspinnung regions a step belongs to.
type PlanPhase int

const (
	PlanKernel PlanPhase = iota
	PlanSequence
	PlanDissolution
)

// PlanStep is one emitted Fortspinnung step.
type PlanStep struct {
	Tick              int
	Voice             int
	MotifRank         int
	Operation         MotifOperation
	Phase             PlanPhase
	SuggestedDuration int
	Transposition     int // semitone or degree-step offset, operation-dependent
}

// PlanEpisode produces the ordered step list spanning one episode, per the
// step-emission algorithm of §4.8.
func PlanEpisode(pool *MotifPool, startTick, duration int, character Character, grammar Grammar, voice int) []PlanStep {
	if pool == nil || pool.Len() == 0 || duration <= 0 {
		return nil
	}
	profile := defaultCharacterProfiles()[character.String()]
	if grammar.KernelRatio == 0 && grammar.SequenceRatio == 0 && grammar.DissolutionRatio == 0 {
		grammar = defaultGrammarFor(character)
	}
	if grammar.DissolutionIOIGrowth <= 0 {
		grammar.DissolutionIOIGrowth = 1.2
	}
	if grammar.DissolutionLengthenLast <= 0 {
		grammar.DissolutionLengthenLast = 1.5
	}

	kernelEnd := startTick + int(float64(duration)*grammar.KernelRatio)
	sequenceEnd := startTick + int(float64(duration)*(grammar.KernelRatio+grammar.SequenceRatio))
	episodeEnd := startTick + duration

	kernel := pool.Best()
	if kernel == nil {
		return nil
	}
	motifDur := MotifDuration(kernel.Notes)
	if motifDur <= 0 {
		motifDur = TicksPerBeat
	}

	var steps []PlanStep

	// 1. Kernel region: establish motivic material with minimal transformation.
	for tick := startTick; tick < kernelEnd; tick += motifDur {
		steps = append(steps, PlanStep{Tick: tick, Voice: voice, MotifRank: 0, Operation: OpOriginal, Phase: PlanKernel, SuggestedDuration: motifDur})
	}

	// 2. Sequence region: restatements at the character-specific imitation
	// delay, each transposed by one further SequenceStep scale degrees.
	delayBeats := (profile.ImitationDelayLowBeats + profile.ImitationDelayHighBeats) / 2
	delayTicks := int(delayBeats * TicksPerBeat)
	if delayTicks <= 0 {
		delayTicks = TicksPerBeat
	}
	rep := 1
	for tick := kernelEnd; tick < sequenceEnd; tick += delayTicks {
		steps = append(steps, PlanStep{
			Tick: tick, Voice: voice, MotifRank: 0, Operation: OpSequence, Phase: PlanSequence,
			SuggestedDuration: motifDur, Transposition: rep * profile.SequenceStep,
		})
		rep++
	}

	// 3. Dissolution region: fragment material, expanding inter-onset
	// intervals by DissolutionIOIGrowth per step, lengthening the final 1-2
	// suggested durations by DissolutionLengthenLast.
	ioi := float64(motifDur) / 2
	if ioi < TicksPerSixteenth {
		ioi = TicksPerSixteenth
	}
	var dissolutionSteps []PlanStep
	for tick := float64(sequenceEnd); tick < float64(episodeEnd); tick += ioi {
		dissolutionSteps = append(dissolutionSteps, PlanStep{
			Tick: int(tick), Voice: voice, MotifRank: 0, Operation: OpFragmentOp, Phase: PlanDissolution,
			SuggestedDuration: int(ioi),
		})
		ioi *= grammar.DissolutionIOIGrowth
	}
	for i := len(dissolutionSteps) - 1; i >= 0 && i >= len(dissolutionSteps)-2; i-- {
		dissolutionSteps[i].SuggestedDuration = int(float64(dissolutionSteps[i].SuggestedDuration) * grammar.DissolutionLengthenLast)
	}
	steps = append(steps, dissolutionSteps...)

	fortspinnungDebug("planned %d steps for character=%s voice=%d", len(steps), character, voice)
	return steps
}
