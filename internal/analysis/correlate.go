package analysis

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// ErrUnknownColumn is returned when a caller names a column the table does
// not have.
var ErrUnknownColumn = errors.New("unknown column")

// CorrMatrix holds a symmetric Pearson correlation matrix across numeric columns.
type CorrMatrix struct {
	Columns []string    `json:"columns" yaml:"columns"`
	Values  [][]float64 `json:"values" yaml:"values"` // row-major, Values[i][j]
}

// Correlate computes pairwise Pearson coefficients for the named columns.
//
// Each column's series keeps only its parseable cells, so series lengths may
// differ; a pair is compared over the first min(len) positions of both
// series, using each series' own mean and sample deviation. A pair with a
// zero deviation scores 0 and the diagonal is always 1.
func Correlate(t *Table, names []string) (*CorrMatrix, error) {
	k := len(names)
	series := make([][]float64, k)
	means := make([]float64, k)
	stds := make([]float64, k)
	for i, name := range names {
		idx := t.Index(name)
		if idx < 0 {
			return nil, fmt.Errorf("correlate %q: %w", name, ErrUnknownColumn)
		}
		series[i] = numericValues(t.Column(idx).Values)
		if len(series[i]) > 0 {
			means[i] = stat.Mean(series[i], nil)
		}
		stds[i] = sampleStd(series[i])
	}

	mat := make([][]float64, k)
	for i := range mat {
		mat[i] = make([]float64, k)
		mat[i][i] = 1
	}
	for i := 0; i < k; i++ {
		for j := i + 1; j < k; j++ {
			r := pearson(series[i], series[j], means[i], means[j], stds[i], stds[j])
			mat[i][j] = r
			mat[j][i] = r
		}
	}
	cols := make([]string, k)
	copy(cols, names)
	return &CorrMatrix{Columns: cols, Values: mat}, nil
}

func pearson(x, y []float64, mx, my, sx, sy float64) float64 {
	if sx == 0 || sy == 0 {
		return 0
	}
	n := min(len(x), len(y))
	if n < 2 {
		return 0
	}
	var sum float64
	for t := 0; t < n; t++ {
		sum += (x[t] - mx) * (y[t] - my)
	}
	r := sum / float64(n-1) / (sx * sy)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}
	return r
}

// PairCorr is a simple correlation pair summary.
type PairCorr struct {
	A, B string
	R    float64
}

// TopPairs lists the off-diagonal pairs ordered by descending |r|.
func (m *CorrMatrix) TopPairs(limit int) []PairCorr {
	var pairs []PairCorr
	n := len(m.Columns)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			pairs = append(pairs, PairCorr{A: m.Columns[i], B: m.Columns[j], R: m.Values[i][j]})
		}
	}
	sortPairs(pairs)
	if limit > 0 && len(pairs) > limit {
		pairs = pairs[:limit]
	}
	return pairs
}
