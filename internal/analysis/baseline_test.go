package analysis

import (
	"math"
	"reflect"
	"strings"
	"testing"
)

func TestBaselineScenarioCRegression(t *testing.T) {
	res := EvaluateBaseline(Parse("y\n1\n2\n3\n"), BaselineOptions{Target: "y"})
	if res.Status != StatusRegression || res.Regression == nil || res.Classification != nil {
		t.Fatalf("result = %+v", res)
	}
	m := res.Regression
	if !approx(m.TargetMean, 2) || !approx(m.MAE, 2.0/3) || !approx(m.RMSE, math.Sqrt(2.0/3)) || m.R2 != 0 {
		t.Fatalf("metrics = %+v", m)
	}
	if m.RowsUsed != 3 || m.MAE > m.RMSE {
		t.Fatalf("metrics = %+v", m)
	}
}

func TestBaselineRegressionConstantTarget(t *testing.T) {
	res := EvaluateBaseline(Parse("y,x\n4,a\n4,b\n"), BaselineOptions{Target: "y"})
	m := res.Regression
	if res.Status != StatusRegression || m.MAE != 0 || m.RMSE != 0 || m.R2 != 0 {
		t.Fatalf("result = %+v", res)
	}
}

const separated = "f1,f2,label\n" +
	"0,0,A\n0.1,0.2,A\n0.2,0.1,A\n0.1,0.1,A\n" +
	"10,10,B\n10.1,9.9,B\n9.8,10.2,B\n10,10.1,B\n"

func TestBaselineScenarioDSeparatedClasses(t *testing.T) {
	res := EvaluateBaseline(Parse(separated), BaselineOptions{Target: "label"})
	if res.Status != StatusClassification {
		t.Fatalf("status = %s (%s)", res.Status, res.Reason)
	}
	c := res.Classification
	if c.Accuracy != 1 || c.MacroF1 != 1 {
		t.Fatalf("accuracy %v, macro F1 %v", c.Accuracy, c.MacroF1)
	}
	if !reflect.DeepEqual(c.Classes, []string{"A", "B"}) {
		t.Fatalf("classes = %v", c.Classes)
	}
	if !reflect.DeepEqual(c.Confusion, [][]int{{4, 0}, {0, 4}}) {
		t.Fatalf("confusion = %v", c.Confusion)
	}
	if c.FeatureCount != 2 || c.Neighbors != DefaultNeighbors || c.RowsUsed != 8 {
		t.Fatalf("classification = %+v", c)
	}
	for _, m := range c.PerClass {
		if m.Support != 4 || m.Ratio != 0.5 || m.F1 != 1 {
			t.Fatalf("per-class = %+v", m)
		}
	}
}

func TestBaselineConfusionInvariants(t *testing.T) {
	csv := "x,y,kind\n" +
		"1,1,a\n2,1,a\n1,2,b\n5,5,b\n6,5,c\n5,6,a\n9,9,c\n8,9,c\n,3,a\n2,x,b\n3,3,\n"
	res := EvaluateBaseline(Parse(csv), BaselineOptions{Target: "kind", Neighbors: 3})
	if res.Status != StatusClassification {
		t.Fatalf("status = %s (%s)", res.Status, res.Reason)
	}
	c := res.Classification
	// Rows with a blank feature, an unparsable feature or a blank label are dropped.
	if c.RowsUsed != 8 {
		t.Fatalf("rows used = %d, want 8", c.RowsUsed)
	}
	total, trace := 0, 0
	for i, row := range c.Confusion {
		sum := 0
		for _, v := range row {
			sum += v
		}
		if sum != c.PerClass[i].Support {
			t.Fatalf("row %d sums to %d, support %d", i, sum, c.PerClass[i].Support)
		}
		total += sum
		trace += row[i]
	}
	if total != c.RowsUsed {
		t.Fatalf("confusion total %d, rows used %d", total, c.RowsUsed)
	}
	if !approx(c.Accuracy, float64(trace)/float64(total)) {
		t.Fatalf("accuracy %v, trace/total %v", c.Accuracy, float64(trace)/float64(total))
	}
	if c.Accuracy < 0 || c.Accuracy > 1 || c.MacroF1 < 0 || c.MacroF1 > 1 {
		t.Fatalf("scores out of range: %+v", c)
	}
}

func TestMajorityTieGoesToNearestLabel(t *testing.T) {
	y := []string{"a", "b", "c", "d"}
	// Three labels with one vote each: the nearest neighbour decides.
	if got := majority([]neighbor{{row: 2}, {row: 0}, {row: 1}}, y); got != "c" {
		t.Fatalf("three-way tie = %q, want c", got)
	}
	// Two votes each: b ranks first.
	if got := majority([]neighbor{{row: 1}, {row: 0}, {row: 0}, {row: 1}}, y); got != "b" {
		t.Fatalf("two-way tie = %q, want b", got)
	}
	if got := majority([]neighbor{{row: 3}, {row: 0}, {row: 0}}, y); got != "a" {
		t.Fatalf("clear majority = %q, want a", got)
	}
}

func TestBaselineTieBreakEndToEnd(t *testing.T) {
	// Leaving out A leaves B, C and D as its three neighbours, one vote each;
	// B is nearest so A is predicted as B.
	csv := "x,label\n0,A\n10,B\n11,C\n12,D\n"
	res := EvaluateBaseline(Parse(csv), BaselineOptions{Target: "label"})
	if res.Status != StatusClassification {
		t.Fatalf("status = %s (%s)", res.Status, res.Reason)
	}
	if got := res.Classification.Confusion[0][1]; got != 1 {
		t.Fatalf("confusion row A = %v, want prediction B", res.Classification.Confusion[0])
	}
}

func TestBaselineNoTarget(t *testing.T) {
	tbl := Parse(scenarioA)
	if res := EvaluateBaseline(tbl, BaselineOptions{}); res.Status != StatusNoTarget {
		t.Fatalf("empty target: %+v", res)
	}
	res := EvaluateBaseline(tbl, BaselineOptions{Target: "ghost"})
	if res.Status != StatusNoTarget || !strings.Contains(res.Reason, "ghost") {
		t.Fatalf("unknown target: %+v", res)
	}
}

func TestBaselineNoUsableFeatures(t *testing.T) {
	res := EvaluateBaseline(Parse("name,label\nann,a\nbob,b\ncy,a\n"), BaselineOptions{Target: "label"})
	if res.Status != StatusNoUsableFeatures || res.Classification != nil {
		t.Fatalf("result = %+v", res)
	}
}

func TestBaselineInsufficientData(t *testing.T) {
	res := EvaluateBaseline(Parse("x,label\n1,a\n,b\n"), BaselineOptions{Target: "label"})
	if res.Status != StatusInsufficientData || !strings.Contains(res.Reason, "found 1") {
		t.Fatalf("result = %+v", res)
	}
	res = EvaluateBaseline(Parse("x,label\n1,\n2,\n"), BaselineOptions{Target: "label"})
	if res.Status != StatusInsufficientData {
		t.Fatalf("empty target column: %+v", res)
	}
}

func TestBaselineIsDeterministic(t *testing.T) {
	tbl := Parse(separated)
	a := EvaluateBaseline(tbl, BaselineOptions{Target: "label"})
	b := EvaluateBaseline(tbl, BaselineOptions{Target: "label"})
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("runs differ:\n%+v\n%+v", a, b)
	}
}

func TestZScoreFloorsConstantFeature(t *testing.T) {
	out := zScore([][]float64{{1, 3}, {2, 3}, {3, 3}})
	for _, row := range out {
		if math.IsNaN(row[1]) || math.IsInf(row[1], 0) || row[1] != 0 {
			t.Fatalf("constant feature scaled to %v", row[1])
		}
	}
	if !approx(out[0][0], -1) || !approx(out[2][0], 1) {
		t.Fatalf("scaled = %v", out)
	}
}

func TestBaselineStatusText(t *testing.T) {
	var s BaselineStatus
	if err := s.UnmarshalText([]byte("insufficient_data")); err != nil || s != StatusInsufficientData {
		t.Fatalf("unmarshal = %v, %v", s, err)
	}
	if err := s.UnmarshalText([]byte("bogus")); err == nil {
		t.Fatalf("expected error for unknown status")
	}
}
