package gofugue

// VerticalTable is the oracle's vertical-interval table: rows keyed by
// (bass_degree, beat_position, voice_count_bin, harmonic_function) -> 252
// rows, 12 columns (pitch-class offset from bass, mod 12).
type VerticalTable struct {
	t *ProbabilityTable
}

const verticalOffsetRange = 12

func verticalRow(bassDegree int, beat BeatPosition, voices VoiceCountBin, fn HarmonicFunction) int {
	d := ((bassDegree % 7) + 7) % 7
	return ((d*4+int(beat))*3+int(voices))*3 + int(fn)
}

// consonanceRank ranks pitch-class offsets from the bass by decreasing
// structural consonance: unison/octave and fifth are most favored, then the
// thirds, then the rest. It is one ranking for every harmonic function;
// NewVerticalTable applies the function-specific reweighting.
var consonanceRank = [12]float64{
	0:  1.00, // unison/octave
	7:  0.85, // fifth
	4:  0.55, // major third
	3:  0.50, // minor third
	5:  0.30, // fourth (contextually dissonant above the bass)
	9:  0.35, // major sixth
	8:  0.30, // minor sixth
	2:  0.15,
	10: 0.12,
	1:  0.05,
	6:  0.05, // tritone
	11: 0.08,
}

// IsConsonantOffset reports whether a pitch-class offset from the bass (mod
// 12) counts as consonant for the rhythm guards that gate diminution on
// resolution (unison/octave, fifth, fourth, thirds, and sixths: every offset
// whose consonanceRank is at least 0.3; seconds, sevenths, and the tritone
// are dissonant).
func IsConsonantOffset(offset int) bool {
	offset = ((offset % 12) + 12) % 12
	return consonanceRank[offset] >= 0.3
}

// NewVerticalTable builds the compiled-in vertical-interval table: the
// harmonic function of the bass degree reweights the consonance ranking
// (dominant contexts favor the leading-tone third and seventh more than
// tonic contexts do), and 4+ voice textures spread probability mass across
// more simultaneous offsets than 2-voice textures.
func NewVerticalTable() *VerticalTable {
	pt := NewProbabilityTable(252, verticalOffsetRange)
	for bassDegree := 0; bassDegree < 7; bassDegree++ {
		for beat := BeatPosition(0); beat <= PosOff16; beat++ {
			for voices := Bin2Voices; voices <= Bin4PlusVoices; voices++ {
				for fn := FuncTonic; fn <= FuncDominant; fn++ {
					row := verticalRow(bassDegree, beat, voices, fn)
					weights := make([]float64, verticalOffsetRange)
					for col := 0; col < verticalOffsetRange; col++ {
						w := consonanceRank[col] + 0.02
						if fn == FuncDominant && (col == 4 || col == 10) {
							w *= 1.6 // leading tone / minor seventh emphasis
						}
						if voices >= Bin3Voices {
							w += 0.05 // flatten slightly: more voices, more varied offsets
						}
						if beat == PosBar && col != 0 && col != 7 {
							w *= 0.6 // downbeats favor root/fifth
						}
						weights[col] = w
					}
					pt.SetRowFromWeights(row, weights)
				}
			}
		}
	}
	return &VerticalTable{t: pt}
}

// Score returns the oracle score for a candidate pitch-class offset from the
// bass given the row context.
func (v *VerticalTable) Score(bassDegree int, beat BeatPosition, voices VoiceCountBin, fn HarmonicFunction, offset int) float32 {
	offset = ((offset % 12) + 12) % 12
	row := verticalRow(bassDegree, beat, voices, fn)
	return v.t.score(row, offset)
}

// Probability returns the raw probability (0..1) for offset, used by the
// Gravity scorer's minimum-probability gate (§4.5).
func (v *VerticalTable) Probability(bassDegree int, beat BeatPosition, voices VoiceCountBin, fn HarmonicFunction, offset int) float64 {
	offset = ((offset % 12) + 12) % 12
	row := verticalRow(bassDegree, beat, voices, fn)
	row = clampInt(row, 0, v.t.rows-1)
	return float64(v.t.data[row][offset]) / 10000.0
}

// TopN returns up to n pitch-class offsets from the bass (0-11) for the row,
// in descending probability order. No filtering is applied; turning an
// offset into a pitch class or an absolute MIDI pitch is the caller's job.
func (v *VerticalTable) TopN(bassDegree int, beat BeatPosition, voices VoiceCountBin, fn HarmonicFunction, n int) []int {
	row := verticalRow(bassDegree, beat, voices, fn)
	return v.t.topNIndices(row, n, nil)
}

func (v *VerticalTable) RowSumValid() bool { return v.t.RowSumValid() }
