package gofugue

import (
	"math"

	"github.com/GeoffreyPlitt/debuggo"
)

var accumulatorDebug = debuggo.Debug("gofugue:accumulator")

const histogramBins = 7

// Phase is the section accumulator's coarse structural position, affecting
// Gravity's scoring weights (§4.5).
type Phase int

const (
	PhaseEstablish Phase = iota
	PhaseDevelop
	PhaseResolve
	PhaseConclude
)

// ReferenceDistribution is a compiled-in 7-bin reference probability
// distribution drawn from a Bach corpus, used as the JSD target.
type ReferenceDistribution [histogramBins]float64

// DefaultRhythmReference and DefaultHarmonyReference are plausible compiled
// default reference distributions (quarter/eighth-note-dominant rhythm,
// tonic/dominant-dominant harmony), standing in for the corpus-measured
// tables the original statically compiles.
var (
	DefaultRhythmReference = ReferenceDistribution{0.10, 0.30, 0.10, 0.25, 0.15, 0.05, 0.05}
	DefaultHarmonyReference = ReferenceDistribution{0.28, 0.10, 0.12, 0.10, 0.22, 0.08, 0.10}
)

// SectionAccumulator holds running rhythm/harmony histograms compared via
// Jensen-Shannon divergence to reference distributions (C4).
type SectionAccumulator struct {
	rhythmCounts  [histogramBins]int
	harmonyCounts [histogramBins]int
	rhythmTotal   int
	harmonyTotal  int
	phase         Phase

	rhythmRef  ReferenceDistribution
	harmonyRef ReferenceDistribution
}

// NewSectionAccumulator builds an accumulator against the given reference
// distributions.
func NewSectionAccumulator(rhythmRef, harmonyRef ReferenceDistribution) *SectionAccumulator {
	return &SectionAccumulator{rhythmRef: rhythmRef, harmonyRef: harmonyRef}
}

// Phase returns the current phase tag.
func (a *SectionAccumulator) Phase() Phase { return a.phase }

// SetPhase updates the phase tag (the episode generator advances this as it
// moves through Kernel/Sequence/Dissolution and the wider fugue's macro
// structure).
func (a *SectionAccumulator) SetPhase(p Phase) { a.phase = p }

// Record adds one placed note's duration/harmony bin to the running
// histograms.
func (a *SectionAccumulator) Record(durationTicks int, scaleDegree int) {
	rb := rhythmBin(durationTicks)
	hb := ((scaleDegree % 7) + 7) % 7
	a.rhythmCounts[rb]++
	a.rhythmTotal++
	a.harmonyCounts[hb]++
	a.harmonyTotal++
}

// rhythmBin maps a raw duration in ticks onto one of 7 bins. The first 3
// bins match DurationCategory (16th, 8th, dotted-8th); the quarter category
// is split into quarter and dotted-quarter bins, and half+ into half and
// whole-note-plus bins, giving finer resolution at the long end where the
// reference corpus shows more differentiation.
func rhythmBin(ticks int) int {
	switch {
	case ticks < 180:
		return 0
	case ticks < 300:
		return 1
	case ticks < 480:
		return 2
	case ticks < 720:
		return 3
	case ticks < 960:
		return 4
	case ticks < 1920:
		return 5
	default:
		return 6
	}
}

// RhythmCounts and HarmonyCounts expose the raw bin counts (for the "bin
// counts equal placed notes" invariant).
func (a *SectionAccumulator) RhythmCounts() [histogramBins]int  { return a.rhythmCounts }
func (a *SectionAccumulator) HarmonyCounts() [histogramBins]int { return a.harmonyCounts }

func normalize(counts [histogramBins]int, total int) [histogramBins]float64 {
	var p [histogramBins]float64
	if total == 0 {
		for i := range p {
			p[i] = 1.0 / histogramBins
		}
		return p
	}
	for i, c := range counts {
		p[i] = float64(c) / float64(total)
	}
	return p
}

// jsd computes the base-2 Jensen-Shannon divergence between p and q,
// normalized to [0,1] by dividing by ln 2.
func jsd(p, q [histogramBins]float64) float64 {
	var m [histogramBins]float64
	for i := range m {
		m[i] = (p[i] + q[i]) / 2
	}
	kl := func(a, b [histogramBins]float64) float64 {
		sum := 0.0
		for i := range a {
			if a[i] <= 0 {
				continue
			}
			if b[i] <= 0 {
				continue
			}
			sum += a[i] * math.Log(a[i]/b[i])
		}
		return sum
	}
	divergence := 0.5*kl(p, m) + 0.5*kl(q, m)
	return divergence / math.Ln2
}

// JSDRhythm returns the Jensen-Shannon divergence of the running rhythm
// histogram against the reference distribution, in [0,1].
func (a *SectionAccumulator) JSDRhythm() float64 {
	return jsd(normalize(a.rhythmCounts, a.rhythmTotal), a.rhythmRef)
}

// JSDHarmony returns the Jensen-Shannon divergence of the running harmony
// histogram against the reference distribution, in [0,1].
func (a *SectionAccumulator) JSDHarmony() float64 {
	return jsd(normalize(a.harmonyCounts, a.harmonyTotal), a.harmonyRef)
}

// DecayFactor computes the JSD decay factor from §4.4: 1.0 baseline,
// relaxed as cadences approach, at the energy peak, and at phrase
// boundaries.
func DecayFactor(tickToCadence, cadenceWindow int, energy float64, atPhraseBoundary bool) float64 {
	factor := 1.0
	if cadenceWindow > 0 && tickToCadence >= 0 && tickToCadence <= cadenceWindow {
		ratio := float64(tickToCadence) / float64(cadenceWindow)
		factor *= math.Max(0.3, ratio)
	}
	if energy >= 0.95 {
		factor *= 1.0 - 0.5*energy
	}
	if atPhraseBoundary {
		factor *= 0.8
	}
	if factor < 0.3 {
		factor = 0.3
	}
	if factor > 1.0 {
		factor = 1.0
	}
	return factor
}
