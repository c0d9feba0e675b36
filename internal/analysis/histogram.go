package analysis

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// ErrInvalidBinPercent is returned for bin widths outside (0, 1].
var ErrInvalidBinPercent = errors.New("bin percent must be in (0, 1]")

// DefaultBinPercent is used when the caller passes a zero bin width.
const DefaultBinPercent = 0.10

// BinPercentOptions are the bin widths offered to users, as fractions of
// the value range.
var BinPercentOptions = []float64{0.02, 0.05, 0.10, 0.20, 0.25}

// minBinWidth keeps a constant column from producing a zero-width bin.
const minBinWidth = 1e-9

// Bin is one histogram bar. Lo and Hi are set for numeric bins only.
type Bin struct {
	Label string   `json:"label" yaml:"label"`
	Count int      `json:"count" yaml:"count"`
	Ratio float64  `json:"ratio" yaml:"ratio"`
	Lo    *float64 `json:"lo,omitempty" yaml:"lo,omitempty"`
	Hi    *float64 `json:"hi,omitempty" yaml:"hi,omitempty"`
}

// HistogramResult is the distribution of one column.
type HistogramResult struct {
	Column     string  `json:"column" yaml:"column"`
	Kind       Kind    `json:"kind" yaml:"kind"`
	BinPercent float64 `json:"bin_percent,omitempty" yaml:"bin_percent,omitempty"`
	BinWidth   float64 `json:"bin_width,omitempty" yaml:"bin_width,omitempty"`
	Total      int     `json:"total" yaml:"total"`
	Bins       []Bin   `json:"bins" yaml:"bins"`
}

// Histogram computes the distribution of column. The column is binned
// numerically when at least half of its non-missing values parse as
// numbers, and counted by category otherwise. binPercent is the bin width
// as a fraction of the value range; 0 selects DefaultBinPercent.
func Histogram(t *Table, column string, binPercent float64) (*HistogramResult, error) {
	idx := t.Index(column)
	if idx < 0 {
		return nil, fmt.Errorf("histogram %q: %w", column, ErrUnknownColumn)
	}
	if binPercent == 0 {
		binPercent = DefaultBinPercent
	}
	if binPercent < 0 || binPercent > 1 || math.IsNaN(binPercent) {
		return nil, fmt.Errorf("histogram %q: %w (got %g)", column, ErrInvalidBinPercent, binPercent)
	}
	values := t.Column(idx).NonMissing()
	nums := numericValues(values)
	if mostlyNumeric(len(nums), len(values)) {
		return numericHistogram(column, nums, binPercent), nil
	}
	return categoricalHistogram(column, values), nil
}

func categoricalHistogram(column string, values []string) *HistogramResult {
	res := &HistogramResult{Column: column, Kind: KindCategorical, Total: len(values)}
	counts := make(map[string]int)
	var order []string
	for _, v := range values {
		if _, ok := counts[v]; !ok {
			order = append(order, v)
		}
		counts[v]++
	}
	sort.SliceStable(order, func(i, j int) bool { return counts[order[i]] > counts[order[j]] })
	total := float64(max(len(values), 1))
	res.Bins = make([]Bin, 0, len(order))
	for _, v := range order {
		res.Bins = append(res.Bins, Bin{Label: v, Count: counts[v], Ratio: float64(counts[v]) / total})
	}
	return res
}

func numericHistogram(column string, values []float64, binPercent float64) *HistogramResult {
	res := &HistogramResult{Column: column, Kind: KindNumeric, BinPercent: binPercent, Total: len(values)}
	if len(values) == 0 {
		return res
	}
	lo, hi := floats.Min(values), floats.Max(values)
	span := hi - lo
	width := math.Max(span*binPercent, minBinWidth)
	numBins := max(1, int(math.Ceil(span/width)))
	res.BinWidth = width

	counts := make([]int, numBins)
	for _, v := range values {
		i := int(math.Floor((v - lo) / width))
		if i >= numBins {
			i = numBins - 1
		}
		counts[i]++
	}
	total := float64(len(values))
	res.Bins = make([]Bin, numBins)
	for i, c := range counts {
		start := lo + float64(i)*width
		end := start + width
		res.Bins[i] = Bin{
			Label: fmt.Sprintf("%.2f ~ %.2f", start, end),
			Count: c,
			Ratio: float64(c) / total,
			Lo:    &start,
			Hi:    &end,
		}
	}
	return res
}
