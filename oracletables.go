package gofugue

import (
	"bytes"
	"fmt"
	"math"
	"sort"

	"github.com/GeoffreyPlitt/debuggo"
	"github.com/icza/bitio"
)

var oracleDebug = debuggo.Debug("gofugue:oracle")

// probabilityBits is the bit width used to pack a single cell of a
// probability table. Values run 0-10000, which fits in 14 bits.
const probabilityBits = 14

// ProbabilityTable is a rectangular table of uint16 probabilities x 10000,
// shared by the melodic, duration and vertical oracle tables (C1). Each
// non-zero row is expected to sum to ~10000 (tolerance +-100); an all-zero
// row means "no data" and scores 0.
type ProbabilityTable struct {
	rows int
	cols int
	data [][]uint16
}

// NewProbabilityTable allocates a zeroed table.
func NewProbabilityTable(rows, cols int) *ProbabilityTable {
	data := make([][]uint16, rows)
	for i := range data {
		data[i] = make([]uint16, cols)
	}
	return &ProbabilityTable{rows: rows, cols: cols, data: data}
}

// SetRowFromWeights fills one row from a weight vector, proportionally scaled so the row
// sums to exactly 10000 (the remainder of integer rounding is assigned to
// the highest-weighted column, keeping the +-1% tolerance trivially).
func (t *ProbabilityTable) SetRowFromWeights(row int, weights []float64) {
	if row < 0 || row >= t.rows || len(weights) != t.cols {
		return
	}
	total := 0.0
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		for c := range t.data[row] {
			t.data[row][c] = 0
		}
		return
	}
	assigned := 0
	best := 0
	for c, w := range weights {
		v := int(math.Round(w / total * 10000))
		if v < 0 {
			v = 0
		}
		t.data[row][c] = uint16(v)
		assigned += v
		if weights[c] > weights[best] {
			best = c
		}
	}
	diff := 10000 - assigned
	newVal := int(t.data[row][best]) + diff
	if newVal < 0 {
		newVal = 0
	}
	t.data[row][best] = uint16(newVal)
}

// rowSum returns the sum of a row's raw counts.
func (t *ProbabilityTable) rowSum(row int) int {
	sum := 0
	for _, v := range t.data[row] {
		sum += int(v)
	}
	return sum
}

// score implements the shared tanh(0.5*(ln p - ln uniform)) formula from
// §4.1. An all-zero row (no data) scores 0. Out-of-range row/col indices
// clamp rather than fault, per §7 ("out-of-range oracle lookup... silently
// clamped; returns score 0" for the degenerate cases).
func (t *ProbabilityTable) score(row, col int) float32 {
	row = clampInt(row, 0, t.rows-1)
	col = clampInt(col, 0, t.cols-1)
	sum := t.rowSum(row)
	if sum == 0 {
		return 0
	}
	p := float64(t.data[row][col]) / 10000.0
	uniform := 1.0 / float64(t.cols)
	if p <= 0 {
		// ln(0) = -Inf; tanh(-Inf) = -1, finite and in-range, no NaN.
		return float32(math.Tanh(0.5 * (math.Inf(-1) - math.Log(uniform))))
	}
	return float32(math.Tanh(0.5 * (math.Log(p) - math.Log(uniform))))
}

// topNIndices returns up to n column indices for row sorted by descending
// probability, restricted to columns for which keep(col) is true. Ties keep
// the original (stable) column order.
func (t *ProbabilityTable) topNIndices(row, n int, keep func(col int) bool) []int {
	row = clampInt(row, 0, t.rows-1)
	type cand struct {
		col  int
		prob uint16
	}
	var cands []cand
	for c, p := range t.data[row] {
		if keep == nil || keep(c) {
			cands = append(cands, cand{c, p})
		}
	}
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].prob > cands[j].prob })
	if n > 0 && n < len(cands) {
		cands = cands[:n]
	}
	out := make([]int, len(cands))
	for i, c := range cands {
		out[i] = c.col
	}
	return out
}

// RowSumValid reports whether every non-zero row sums to within +-100 of
// 10000 (Testable Property 1).
func (t *ProbabilityTable) RowSumValid() bool {
	for r := 0; r < t.rows; r++ {
		sum := t.rowSum(r)
		if sum == 0 {
			continue
		}
		if sum < 9900 || sum > 10100 {
			return false
		}
	}
	return true
}

// Pack encodes the table into a compact bit-packed byte slice using bitio,
// storing each cell as a 14-bit fixed-point probability so a full oracle
// table set fits in a small compiled-in blob.
func (t *ProbabilityTable) Pack() ([]byte, error) {
	var buf bytes.Buffer
	w := bitio.NewWriter(&buf)
	for r := 0; r < t.rows; r++ {
		for c := 0; c < t.cols; c++ {
			if err := w.WriteBits(uint64(t.data[r][c]), probabilityBits); err != nil {
				return nil, fmt.Errorf("pack oracle table row %d col %d: %w", r, c, err)
			}
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close oracle table writer: %w", err)
	}
	return buf.Bytes(), nil
}

// UnpackProbabilityTable decodes bytes produced by Pack back into a table of
// the given shape.
func UnpackProbabilityTable(data []byte, rows, cols int) (*ProbabilityTable, error) {
	t := NewProbabilityTable(rows, cols)
	r := bitio.NewReader(bytes.NewReader(data))
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			v, err := r.ReadBits(probabilityBits)
			if err != nil {
				return nil, fmt.Errorf("unpack oracle table row %d col %d: %w", row, col, err)
			}
			t.data[row][col] = uint16(v)
		}
	}
	return t, nil
}
