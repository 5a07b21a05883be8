package gofugue

import "math"

// MelodicTable is the oracle's pitch-transition table: rows keyed by
// (prev_degree_step, degree_class, beat_position) -> 228 rows, columns the
// 19 possible next degree steps in [-9,+9].
type MelodicTable struct {
	t *ProbabilityTable
}

const melodicStepRange = 19 // -9..+9

func stepToCol(step int) int { return clampInt(step, -9, 9) + 9 }
func colToStep(col int) int  { return col - 9 }

func melodicRow(prevStep int, class DegreeClass, beat BeatPosition) int {
	s := stepToCol(prevStep)
	return (s*3+int(class))*4 + int(beat)
}

// NewMelodicTable builds the compiled-in melodic transition table. The
// weighting formula favors small steps over leaps (Gaussian-like decay),
// gives the dominant/leading-tone degree class a strong upward pull
// (Testable Property 11), and biases all contexts asymmetrically in favor
// of upward continuation, with magnitude varying by beat position and
// degree class so the asymmetry is not uniform (Testable Property 12).
func NewMelodicTable() *MelodicTable {
	pt := NewProbabilityTable(228, melodicStepRange)
	for prevStep := -9; prevStep <= 9; prevStep++ {
		for class := DegreeClass(0); class <= ClassMotion; class++ {
			for beat := BeatPosition(0); beat <= PosOff16; beat++ {
				row := melodicRow(prevStep, class, beat)
				weights := make([]float64, melodicStepRange)
				for col := 0; col < melodicStepRange; col++ {
					step := colToStep(col)
					w := math.Exp(-math.Abs(float64(step)) / 2.0)
					// Momentum: continuing the previous direction gets a
					// mild boost proportional to beat weight (stronger on
					// strong beats).
					beatWeight := 1.0 + 0.15*float64(3-int(beat))/3.0
					if prevStep > 0 && step > 0 {
						w *= 1.0 + 0.15*beatWeight
					} else if prevStep < 0 && step < 0 {
						w *= 1.0 + 0.15*beatWeight
					}
					// Leading-tone / dominant-class pull toward +1.
					if class == ClassDominant {
						if step == 1 {
							w *= 2.2
						}
						if step == -1 {
							w *= 0.6
						}
					}
					// Baseline asymmetry: a gentle, context-varying upward
					// bias so prevStep=0 never produces a symmetric table.
					if step == 1 {
						w *= 1.05 + 0.02*float64(beat)
					}
					if step == -1 {
						w *= 0.97 - 0.01*float64(class)
					}
					weights[col] = w
				}
				pt.SetRowFromWeights(row, weights)
			}
		}
	}
	return &MelodicTable{t: pt}
}

// Score returns the oracle score in (-1, +1) (with the compiled-in weights,
// roughly -0.9 for a +-9 step up to about +0.7 for the likeliest steps) for
// transitioning by candidateStep semitone-equivalent scale-degree steps away from ctx.
func (m *MelodicTable) Score(ctx MelodicContext, candidateStep int) float32 {
	row := melodicRow(ctx.PrevDegreeStep, ctx.PrevDegreeClass, ctx.BeatPosition)
	col := stepToCol(candidateStep)
	return m.t.score(row, col)
}

// TopN returns up to n candidate next-degree-steps for ctx, sorted by
// descending probability, restricted to steps whose resulting pitch (computed
// by the caller via DegreeToPitch) would fall in [rangeLo, rangeHi]. The
// caller supplies a predicate because the table only knows steps, not
// absolute pitches.
func (m *MelodicTable) TopN(ctx MelodicContext, n int, keepStep func(step int) bool) []int {
	row := melodicRow(ctx.PrevDegreeStep, ctx.PrevDegreeClass, ctx.BeatPosition)
	cols := m.t.topNIndices(row, n, func(col int) bool {
		if keepStep == nil {
			return true
		}
		return keepStep(colToStep(col))
	})
	steps := make([]int, len(cols))
	for i, c := range cols {
		steps[i] = colToStep(c)
	}
	return steps
}

// RowSumValid exposes the underlying table's row-sum validity check.
func (m *MelodicTable) RowSumValid() bool { return m.t.RowSumValid() }
