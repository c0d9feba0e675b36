package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Options controls which sections Analyze produces.
type Options struct {
	// Name labels the dataset, usually the file name.
	Name string
	// SizeBytes is the size of the source, shown when positive.
	SizeBytes int64
	// Target selects the baseline target column; empty means none.
	Target string
	// Neighbors is k for the classification baseline; 0 means DefaultNeighbors.
	Neighbors int
	// BinPercent is the numeric bin width fraction; 0 means DefaultBinPercent.
	BinPercent float64
	// Histograms names the columns to include histograms for.
	Histograms []string
	// Correlations computes the Pearson matrix among numeric columns.
	Correlations bool
	// MaxBaselineRows skips the baseline for larger tables; 0 means unlimited.
	MaxBaselineRows int
}

// DefaultOptions returns reasonable defaults for dataset analysis.
func DefaultOptions() Options {
	return Options{
		BinPercent:      DefaultBinPercent,
		Neighbors:       DefaultNeighbors,
		Correlations:    true,
		MaxBaselineRows: 5000,
	}
}

// Report is a markdown-friendly analysis of a tabular dataset.
type Report struct {
	Name       string                    `json:"name" yaml:"name"`
	SizeBytes  int64                     `json:"size_bytes,omitempty" yaml:"size_bytes,omitempty"`
	Overview   Overview                  `json:"overview" yaml:"overview"`
	Profiles   []ColumnProfile           `json:"profiles" yaml:"profiles"`
	Summaries  map[string]NumericSummary `json:"summaries" yaml:"summaries"`
	Missing    []ColumnProfile           `json:"missing" yaml:"missing"`
	Corr       *CorrMatrix               `json:"correlations,omitempty" yaml:"correlations,omitempty"`
	Histograms []*HistogramResult        `json:"histograms,omitempty" yaml:"histograms,omitempty"`
	Baseline   *BaselineResult           `json:"baseline,omitempty" yaml:"baseline,omitempty"`
	Warnings   []string                  `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Analyze runs every requested component over t. Components are
// independent; a histogram request for an unknown column becomes a warning
// rather than failing the report.
func Analyze(t *Table, opt Options) *Report {
	profiles := Profile(t)
	rep := &Report{
		Name:      opt.Name,
		SizeBytes: opt.SizeBytes,
		Overview:  Summarize(t, profiles),
		Profiles:  profiles,
		Summaries: Describe(t, profiles),
		Missing:   MissingByRatio(profiles),
	}
	if opt.Correlations {
		if names := NumericColumns(profiles); len(names) >= 2 {
			m, err := Correlate(t, names)
			if err != nil {
				rep.Warnings = append(rep.Warnings, err.Error())
			} else {
				rep.Corr = m
			}
		}
	}
	for _, col := range opt.Histograms {
		h, err := Histogram(t, col, opt.BinPercent)
		if err != nil {
			rep.Warnings = append(rep.Warnings, err.Error())
			continue
		}
		rep.Histograms = append(rep.Histograms, h)
	}
	switch {
	case opt.Target == "":
	case opt.MaxBaselineRows > 0 && t.Len() > opt.MaxBaselineRows:
		rep.Warnings = append(rep.Warnings, fmt.Sprintf("baseline skipped: %d rows exceeds limit of %d", t.Len(), opt.MaxBaselineRows))
	default:
		b := EvaluateBaseline(t, BaselineOptions{Target: opt.Target, Neighbors: opt.Neighbors})
		rep.Baseline = &b
	}
	return rep
}

// Markdown renders a compact report suitable for terminals or standalone docs.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	if r.SizeBytes > 0 {
		b.WriteString(fmt.Sprintf("Size: %s\n", FormatSize(r.SizeBytes)))
	}
	o := r.Overview
	b.WriteString(fmt.Sprintf("Rows: %d\n", o.Rows))
	b.WriteString(fmt.Sprintf("Columns: %d (numeric %d, categorical %d, text %d)\n\n", o.Columns, o.Numeric, o.Categorical, o.Text))

	b.WriteString("[SCHEMA]\n")
	for _, p := range r.Profiles {
		b.WriteString(fmt.Sprintf("- %s: %s (missing %.1f%%)", safeName(p.Name), p.Kind, p.MissingRatio*100))
		if s, ok := r.Summaries[p.Name]; ok && p.Kind == KindNumeric {
			b.WriteString(fmt.Sprintf(" — mean %.4g, std %s, min %.4g, max %.4g", s.Mean, formatOptional(s.StdDev), s.Min, s.Max))
		}
		b.WriteString("\n")
	}

	if len(r.Missing) > 0 && r.Missing[0].MissingRatio > 0 {
		b.WriteString("\n[MISSING VALUES]\n")
		for _, p := range r.Missing {
			if p.MissingRatio == 0 {
				break
			}
			b.WriteString(fmt.Sprintf("- %s: %.1f%%\n", safeName(p.Name), p.MissingRatio*100))
		}
	}

	if r.Corr != nil && len(r.Corr.Columns) >= 2 {
		b.WriteString("\n[CORRELATIONS]\n")
		b.WriteString(r.Corr.Markdown())
	}

	for _, h := range r.Histograms {
		b.WriteString(fmt.Sprintf("\n[HISTOGRAM: %s]\n", safeName(h.Column)))
		b.WriteString(h.Markdown())
	}

	if r.Baseline != nil {
		b.WriteString("\n[BASELINE]\n")
		b.WriteString(r.Baseline.Markdown())
	}

	if len(r.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range r.Warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// Markdown renders the bins as a table of label, count and share.
func (h *HistogramResult) Markdown() string {
	var b strings.Builder
	if h.Kind == KindNumeric && h.BinPercent > 0 {
		b.WriteString(fmt.Sprintf("Numeric, %d values, bin width %.4g (%.0f%% of range)\n", h.Total, h.BinWidth, h.BinPercent*100))
	} else {
		b.WriteString(fmt.Sprintf("%s, %d values\n", capitalize(h.Kind.String()), h.Total))
	}
	if len(h.Bins) == 0 {
		b.WriteString("(no values)\n")
		return b.String()
	}
	b.WriteString("| bin | count | ratio |\n| --- | --- | --- |\n")
	for _, bin := range h.Bins {
		b.WriteString(fmt.Sprintf("| %s | %d | %.1f%% |\n", safeVal(bin.Label), bin.Count, bin.Ratio*100))
	}
	return b.String()
}

// Markdown renders the outcome of one baseline run.
func (br BaselineResult) Markdown() string {
	var b strings.Builder
	switch br.Status {
	case StatusNoTarget:
		b.WriteString("No target selected.\n")
		if br.Reason != "" {
			b.WriteString(fmt.Sprintf("Reason: %s\n", br.Reason))
		}
		b.WriteString("Pick a target column (categorical → classification, numeric → regression).\n")
	case StatusNoUsableFeatures:
		b.WriteString(fmt.Sprintf("Target: %s (categorical)\n", br.Target))
		b.WriteString(fmt.Sprintf("Cannot run the classifier: %s.\n", br.Reason))
	case StatusInsufficientData:
		b.WriteString(fmt.Sprintf("Target: %s\n", br.Target))
		b.WriteString(fmt.Sprintf("Not enough valid rows to evaluate: %s.\n", br.Reason))
	case StatusRegression:
		m := br.Regression
		b.WriteString(fmt.Sprintf("Target: %s (numeric)\n", br.Target))
		b.WriteString("Baseline: mean predictor\n")
		b.WriteString(fmt.Sprintf("- RMSE: %.3f\n- MAE: %.3f\n- R²: %.3f\n- Target mean: %.3f\n- Rows used: %d\n",
			m.RMSE, m.MAE, m.R2, m.TargetMean, m.RowsUsed))
	case StatusClassification:
		c := br.Classification
		b.WriteString(fmt.Sprintf("Target: %s (categorical)\n", br.Target))
		b.WriteString(fmt.Sprintf("Baseline: k-NN (k=%d) on %d z-scored numeric features, leave-one-out\n", c.Neighbors, c.FeatureCount))
		b.WriteString(fmt.Sprintf("- Accuracy: %.1f%%\n- Macro F1: %.3f\n- Rows used: %d\n- Features: %s\n",
			c.Accuracy*100, c.MacroF1, c.RowsUsed, strings.Join(c.Features, ", ")))
		b.WriteString("\nClass distribution:\n")
		for _, m := range c.PerClass {
			b.WriteString(fmt.Sprintf("- %s: %d (%.1f%%) — precision %.3f, recall %.3f, F1 %.3f\n",
				safeVal(m.Class), m.Support, m.Ratio*100, m.Precision, m.Recall, m.F1))
		}
		b.WriteString("\nConfusion matrix (rows = actual, columns = predicted):\n")
		b.WriteString("| actual \\ predicted |")
		for _, cl := range c.Classes {
			b.WriteString(" " + safeVal(cl) + " |")
		}
		b.WriteString("\n| --- |")
		for range c.Classes {
			b.WriteString(" --- |")
		}
		b.WriteString("\n")
		for i, cl := range c.Classes {
			b.WriteString("| " + safeVal(cl) + " |")
			for j := range c.Classes {
				b.WriteString(fmt.Sprintf(" %d |", c.Confusion[i][j]))
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}

// Markdown renders the matrix followed by its strongest pairs.
func (m *CorrMatrix) Markdown() string {
	var b strings.Builder
	b.WriteString("| |")
	for _, c := range m.Columns {
		b.WriteString(" " + safeName(c) + " |")
	}
	b.WriteString("\n| --- |")
	for range m.Columns {
		b.WriteString(" --- |")
	}
	b.WriteString("\n")
	for i, c := range m.Columns {
		b.WriteString("| " + safeName(c) + " |")
		for j := range m.Columns {
			b.WriteString(fmt.Sprintf(" %.2f |", m.Values[i][j]))
		}
		b.WriteString("\n")
	}
	if pairs := m.TopPairs(10); len(pairs) > 0 {
		b.WriteString("\nStrongest pairs:\n")
		for _, p := range pairs {
			b.WriteString(fmt.Sprintf("- %s ~ %s: r=%.3f\n", p.A, p.B, p.R))
		}
	}
	return b.String()
}

func sortPairs(pairs []PairCorr) {
	sort.Slice(pairs, func(i, j int) bool {
		ai := math.Abs(pairs[i].R)
		aj := math.Abs(pairs[j].R)
		if ai == aj {
			return pairs[i].A+pairs[i].B < pairs[j].A+pairs[j].B
		}
		return ai > aj
	})
}

// FormatSize renders a byte count the way the upload overview shows it.
func FormatSize(n int64) string {
	if n < 1024 {
		return fmt.Sprintf("%d B", n)
	}
	return fmt.Sprintf("%.1f KB", float64(n)/1024)
}

func formatOptional(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.4g", *v)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
