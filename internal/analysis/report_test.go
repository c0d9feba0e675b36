package analysis

import (
	"reflect"
	"strings"
	"testing"
)

func TestAnalyzeProducesAllSections(t *testing.T) {
	opt := DefaultOptions()
	opt.Name = "points.csv"
	opt.SizeBytes = 2048
	opt.Target = "label"
	opt.Histograms = []string{"f1", "label", "missing_col"}
	rep := Analyze(Parse(separated), opt)

	if rep.Overview.Rows != 8 || rep.Overview.Numeric != 2 || rep.Overview.Categorical != 1 {
		t.Fatalf("overview = %+v", rep.Overview)
	}
	if rep.Corr == nil || len(rep.Corr.Columns) != 2 {
		t.Fatalf("correlations = %+v", rep.Corr)
	}
	if len(rep.Histograms) != 2 || len(rep.Warnings) != 1 {
		t.Fatalf("histograms %d, warnings %v", len(rep.Histograms), rep.Warnings)
	}
	if rep.Baseline == nil || rep.Baseline.Status != StatusClassification {
		t.Fatalf("baseline = %+v", rep.Baseline)
	}

	md := rep.Markdown()
	for _, want := range []string{
		"[DATASET SUMMARY]",
		"File: points.csv",
		"Size: 2.0 KB",
		"[SCHEMA]",
		"- f1: numeric",
		"[CORRELATIONS]",
		"[HISTOGRAM: f1]",
		"[HISTOGRAM: label]",
		"[BASELINE]",
		"Accuracy: 100.0%",
		"Macro F1: 1.000",
		"| A | 4 | 0 |",
		"[NOTES]",
		"unknown column",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("markdown missing %q:\n%s", want, md)
		}
	}
	if strings.Contains(md, "[MISSING VALUES]") {
		t.Fatalf("no column has missing values:\n%s", md)
	}
}

func TestAnalyzeMissingSectionAndRegression(t *testing.T) {
	opt := DefaultOptions()
	opt.Target = "y"
	rep := Analyze(Parse("y,note\n1,\n2,b\n3,\n"), opt)
	md := rep.Markdown()
	for _, want := range []string{"[MISSING VALUES]", "- note: 66.7%", "Baseline: mean predictor", "R²: 0.000"} {
		if !strings.Contains(md, want) {
			t.Fatalf("markdown missing %q:\n%s", want, md)
		}
	}
	if rep.Corr != nil {
		t.Fatalf("a single numeric column has no correlation matrix")
	}
}

func TestAnalyzeSkipsLargeBaseline(t *testing.T) {
	opt := DefaultOptions()
	opt.Target = "label"
	opt.MaxBaselineRows = 4
	rep := Analyze(Parse(separated), opt)
	if rep.Baseline != nil {
		t.Fatalf("baseline should be skipped: %+v", rep.Baseline)
	}
	if len(rep.Warnings) != 1 || !strings.Contains(rep.Warnings[0], "exceeds limit of 4") {
		t.Fatalf("warnings = %v", rep.Warnings)
	}
}

func TestAnalyzeEmptyInput(t *testing.T) {
	rep := Analyze(Parse(""), DefaultOptions())
	if rep.Overview != (Overview{}) || len(rep.Profiles) != 0 {
		t.Fatalf("report = %+v", rep)
	}
	if !strings.Contains(rep.Markdown(), "Rows: 0") {
		t.Fatalf("markdown = %s", rep.Markdown())
	}
}

func TestAnalyzeIsIdempotent(t *testing.T) {
	tbl := Parse(separated)
	opt := DefaultOptions()
	opt.Target = "label"
	opt.Histograms = []string{"f2"}
	a, b := Analyze(tbl, opt), Analyze(tbl, opt)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("reports differ")
	}
	if a.Markdown() != b.Markdown() {
		t.Fatalf("markdown differs")
	}
}

func TestBaselineMarkdownOutcomes(t *testing.T) {
	cases := map[BaselineStatus]string{
		StatusNoTarget:         "No target selected.",
		StatusNoUsableFeatures: "Cannot run the classifier",
		StatusInsufficientData: "Not enough valid rows",
	}
	for status, want := range cases {
		md := BaselineResult{Status: status, Target: "t", Reason: "why"}.Markdown()
		if !strings.Contains(md, want) {
			t.Fatalf("%s markdown = %q", status, md)
		}
	}
}

func TestFormatSize(t *testing.T) {
	if got := FormatSize(512); got != "512 B" {
		t.Fatalf("FormatSize(512) = %q", got)
	}
	if got := FormatSize(1536); got != "1.5 KB" {
		t.Fatalf("FormatSize(1536) = %q", got)
	}
}
