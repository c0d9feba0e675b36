package analysis

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// NumericSummary holds descriptive statistics of a numeric column.
// StdDev is nil when fewer than two numeric values exist.
type NumericSummary struct {
	Count  int      `json:"count" yaml:"count"`
	Mean   float64  `json:"mean" yaml:"mean"`
	StdDev *float64 `json:"std_dev,omitempty" yaml:"std_dev,omitempty"`
	Min    float64  `json:"min" yaml:"min"`
	Max    float64  `json:"max" yaml:"max"`
}

// Describe computes a NumericSummary for every numeric profile. Cells that
// do not parse are skipped.
func Describe(t *Table, profiles []ColumnProfile) map[string]NumericSummary {
	out := make(map[string]NumericSummary)
	for _, p := range profiles {
		if p.Kind != KindNumeric {
			continue
		}
		idx := t.Index(p.Name)
		if idx < 0 {
			continue
		}
		vals := numericValues(t.Column(idx).Values)
		if len(vals) == 0 {
			continue
		}
		s := NumericSummary{
			Count: len(vals),
			Mean:  stat.Mean(vals, nil),
			Min:   floats.Min(vals),
			Max:   floats.Max(vals),
		}
		if len(vals) >= 2 {
			sd := stat.StdDev(vals, nil)
			s.StdDev = &sd
		}
		out[p.Name] = s
	}
	return out
}

// sampleStd is the n-1 standard deviation, or 0 for fewer than two values.
func sampleStd(vals []float64) float64 {
	if len(vals) < 2 {
		return 0
	}
	return stat.StdDev(vals, nil)
}
