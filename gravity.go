package gofugue

import "github.com/GeoffreyPlitt/debuggo"

var gravityDebug = debuggo.Debug("gofugue:gravity")

// GravityWeights are the phase-specific sub-score weights of §4.5. Sum of
// weights is 1.0 per phase.
type GravityWeights struct {
	Melodic    float64 `toml:"melodic"`
	Vertical   float64 `toml:"vertical"`
	JSD        float64 `toml:"jsd"`
	Vocabulary float64 `toml:"vocabulary"`
}

// defaultGravityWeights returns the compiled-in phase-weight table: Establish
// leans melodic/vertical, Develop is balanced, Resolve is vertical-heavy,
// Conclude is vocabulary+vertical-heavy, per §4.5.
func defaultGravityWeights() map[string]GravityWeights {
	return map[string]GravityWeights{
		"Establish": {Melodic: 0.40, Vertical: 0.35, JSD: 0.15, Vocabulary: 0.10},
		"Develop":   {Melodic: 0.28, Vertical: 0.28, JSD: 0.22, Vocabulary: 0.22},
		"Resolve":   {Melodic: 0.20, Vertical: 0.45, JSD: 0.20, Vocabulary: 0.15},
		"Conclude":  {Melodic: 0.15, Vertical: 0.35, JSD: 0.15, Vocabulary: 0.35},
	}
}

func phaseName(p Phase) string {
	switch p {
	case PhaseEstablish:
		return "Establish"
	case PhaseDevelop:
		return "Develop"
	case PhaseResolve:
		return "Resolve"
	default:
		return "Conclude"
	}
}

// melodicWeights are the fugue-upper-voice alpha/beta melodic sub-score
// weights of §4.5 item 1.
type melodicWeights struct{ alpha, beta float64 }

var defaultMelodicWeights = melodicWeights{alpha: 0.45, beta: 0.20}

// GravityConfig bundles the pointers/parameters the Gravity scorer needs:
// the oracle tables, current phase, and energy.
type GravityConfig struct {
	Oracles    *OracleTables
	Vocabulary *VocabularyOracle
	Weights    map[string]GravityWeights
	Phase      Phase
	Energy     float64
	InCadenceZone bool
}

// GravityScorer composes the melodic, vertical, JSD and vocabulary
// sub-scores into one weighted number (C5).
type GravityScorer struct {
	cfg GravityConfig
	acc *SectionAccumulator
}

func NewGravityScorer(cfg GravityConfig, acc *SectionAccumulator) *GravityScorer {
	return &GravityScorer{cfg: cfg, acc: acc}
}

// GravityInputs bundles everything Score needs for one candidate.
type GravityInputs struct {
	MelodicCtx       MelodicContext
	CandidateStep    int // scale-degree step from previous pitch
	PrevDuration     DurationCategory
	DirectedInterval DirectedIntervalClass
	CandidateDurCat  DurationCategory

	BassDegree       int
	Beat             BeatPosition
	VoiceBin         VoiceCountBin
	HarmonicFunc     HarmonicFunction
	VerticalOffset   int // candidate pitch class - bass pitch class, mod 12

	TickToCadence    int
	CadenceWindow    int
	AtPhraseBoundary bool

	FigureWindow [4]int // directed intervals for the vocabulary window
}

// minVerticalProbability and minVerticalProbabilityCadence are the
// vertical-probability gates below which Score rejects the candidate outright
// via ok=false (§4.5 item 2); the stricter one applies in cadence zones.
const minVerticalProbability = 0.05
const minVerticalProbabilityCadence = 0.10

// Score composes the four sub-scores into the phase-weighted Gravity score.
// ok is false if the vertical-probability gate rejects the candidate (a hard
// rejection, not merely a low score).
func (g *GravityScorer) Score(in GravityInputs) (score float64, ok bool) {
	gate := minVerticalProbability
	if in.AtPhraseBoundary || (in.CadenceWindow > 0 && in.TickToCadence >= 0 && in.TickToCadence <= in.CadenceWindow) {
		gate = minVerticalProbabilityCadence
	}
	vProb := g.cfg.Oracles.Vertical.Probability(in.BassDegree, in.Beat, in.VoiceBin, in.HarmonicFunc, in.VerticalOffset)
	if vProb < gate {
		return 0, false
	}

	melodic := defaultMelodicWeights.alpha*float64(g.cfg.Oracles.Melodic.Score(in.MelodicCtx, in.CandidateStep)) +
		defaultMelodicWeights.beta*float64(g.cfg.Oracles.Duration.Score(in.PrevDuration, in.DirectedInterval, in.CandidateDurCat))

	vertical := float64(g.cfg.Oracles.Vertical.Score(in.BassDegree, in.Beat, in.VoiceBin, in.HarmonicFunc, in.VerticalOffset))

	jsdPenalty := 0.0
	if g.acc != nil {
		decay := DecayFactor(in.TickToCadence, in.CadenceWindow, g.cfg.Energy, in.AtPhraseBoundary)
		jsdPenalty = -((g.acc.JSDRhythm() + g.acc.JSDHarmony()) / 2) * decay
	}

	vocabulary := 0.0
	if g.cfg.Vocabulary != nil {
		vocabulary = g.cfg.Vocabulary.Score(in.FigureWindow)
	}

	w, ok2 := g.cfg.Weights[phaseName(g.cfg.Phase)]
	if !ok2 {
		w = defaultGravityWeights()[phaseName(g.cfg.Phase)]
	}

	total := w.Melodic*melodic + w.Vertical*vertical + w.JSD*jsdPenalty + w.Vocabulary*vocabulary
	return total, true
}
