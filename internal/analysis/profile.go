package analysis

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Kind is the inferred type of a column.
type Kind int

const (
	KindNumeric Kind = iota
	KindCategorical
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindCategorical:
		return "categorical"
	case KindText:
		return "text"
	default:
		return "unknown"
	}
}

// MarshalText encodes the kind by name for JSON/YAML reports.
func (k Kind) MarshalText() ([]byte, error) {
	switch k {
	case KindNumeric, KindCategorical, KindText:
		return []byte(k.String()), nil
	default:
		return nil, fmt.Errorf("invalid column kind %d", int(k))
	}
}

// UnmarshalText decodes a kind name written by MarshalText.
func (k *Kind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "numeric":
		*k = KindNumeric
	case "categorical":
		*k = KindCategorical
	case "text":
		*k = KindText
	default:
		return fmt.Errorf("unknown column kind %q", string(b))
	}
	return nil
}

const (
	// numericShare is the fraction of values that must parse as numbers for
	// a column to be treated as numeric.
	numericShare = 0.5
	// minCategoricalLevels is the distinct-value ceiling below which a
	// non-numeric column is always categorical.
	minCategoricalLevels = 20
	// categoricalShare scales the ceiling with row count.
	categoricalShare = 0.05
)

// ColumnProfile is the inferred kind and missing ratio of one column.
type ColumnProfile struct {
	Name         string  `json:"name" yaml:"name"`
	Kind         Kind    `json:"kind" yaml:"kind"`
	MissingRatio float64 `json:"missing_ratio" yaml:"missing_ratio"`
}

// Profile classifies every column of t. The numeric share is measured
// against the total row count, so sparse columns with many blanks fall back
// to categorical/text.
func Profile(t *Table) []ColumnProfile {
	out := make([]ColumnProfile, 0, t.Cols())
	n := float64(max(t.Len(), 1))
	for idx := range t.Header {
		col := t.Column(idx)
		missing := 0
		numeric := 0
		distinct := make(map[string]struct{})
		for _, v := range col.Values {
			if v == "" {
				missing++
				continue
			}
			distinct[v] = struct{}{}
			if _, ok := parseNumber(v); ok {
				numeric++
			}
		}
		p := ColumnProfile{Name: col.Name, MissingRatio: float64(missing) / n}
		switch {
		case mostlyNumeric(numeric, t.Len()):
			p.Kind = KindNumeric
		case len(distinct) <= categoricalLimit(n):
			p.Kind = KindCategorical
		default:
			p.Kind = KindText
		}
		out = append(out, p)
	}
	return out
}

func categoricalLimit(n float64) int {
	return max(minCategoricalLevels, int(math.Round(categoricalShare*n)))
}

// NumericColumns returns the names of numeric profiles in column order.
func NumericColumns(profiles []ColumnProfile) []string {
	var names []string
	for _, p := range profiles {
		if p.Kind == KindNumeric {
			names = append(names, p.Name)
		}
	}
	return names
}

// MissingByRatio returns the profiles ordered by descending missing ratio.
// Columns with equal ratios keep their header order.
func MissingByRatio(profiles []ColumnProfile) []ColumnProfile {
	out := make([]ColumnProfile, len(profiles))
	copy(out, profiles)
	sort.SliceStable(out, func(i, j int) bool { return out[i].MissingRatio > out[j].MissingRatio })
	return out
}

// TargetKind names the baseline family a column would select as target.
func TargetKind(p ColumnProfile) string {
	switch p.Kind {
	case KindNumeric:
		return "numeric"
	case KindCategorical, KindText:
		return "categorical"
	}
	panic(fmt.Sprintf("analysis: unhandled column kind %d", int(p.Kind)))
}

// Overview is the dataset-level shape shown at the top of a report.
type Overview struct {
	Rows        int `json:"rows" yaml:"rows"`
	Columns     int `json:"columns" yaml:"columns"`
	Numeric     int `json:"numeric" yaml:"numeric"`
	Categorical int `json:"categorical" yaml:"categorical"`
	Text        int `json:"text" yaml:"text"`
}

// Summarize counts rows, columns and columns per kind.
func Summarize(t *Table, profiles []ColumnProfile) Overview {
	o := Overview{Rows: t.Len(), Columns: t.Cols()}
	for _, p := range profiles {
		switch p.Kind {
		case KindNumeric:
			o.Numeric++
		case KindCategorical:
			o.Categorical++
		case KindText:
			o.Text++
		}
	}
	return o
}

// parseNumber reports whether s is a finite base-10 floating-point number.
// Hex literals, digit separators, NaN and infinities are rejected.
func parseNumber(s string) (float64, bool) {
	if s == "" || strings.ContainsAny(s, "xX_") {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// numericValues parses vals and returns the finite numbers among them.
func numericValues(vals []string) []float64 {
	out := make([]float64, 0, len(vals))
	for _, v := range vals {
		if f, ok := parseNumber(v); ok {
			out = append(out, f)
		}
	}
	return out
}

// mostlyNumeric reports whether numeric parseable values make up at least
// numericShare of of. Profile passes the total row count; histograms and
// baselines pass the non-missing count. No parseable value is never numeric.
func mostlyNumeric(numeric, of int) bool {
	return numeric > 0 && float64(numeric) >= numericShare*float64(of)
}
