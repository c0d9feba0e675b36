package analysis

import (
	"errors"
	"math"
	"testing"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestDescribeScenarioA(t *testing.T) {
	tbl := Parse(scenarioA)
	sums := Describe(tbl, Profile(tbl))
	s, ok := sums["a"]
	if !ok {
		t.Fatalf("missing summary for a: %+v", sums)
	}
	if s.Count != 3 || !approx(s.Mean, 2) || s.Min != 1 || s.Max != 3 {
		t.Fatalf("summary = %+v", s)
	}
	if s.StdDev == nil || !approx(*s.StdDev, 1) {
		t.Fatalf("std = %v, want 1", s.StdDev)
	}
	if _, ok := sums["b"]; ok {
		t.Fatalf("categorical column must not be described")
	}
}

func TestDescribeSingleValueHasNoStdDev(t *testing.T) {
	tbl := Parse("v,w\n5,x\n,y\n")
	profiles := []ColumnProfile{{Name: "v", Kind: KindNumeric}, {Name: "w", Kind: KindCategorical}}
	s := Describe(tbl, profiles)["v"]
	if s.Count != 1 || s.StdDev != nil || s.Min != 5 || s.Max != 5 {
		t.Fatalf("summary = %+v", s)
	}
}

func TestDescribeIgnoresUnparsableCells(t *testing.T) {
	tbl := Parse("v\n1\n2\nbad\n3\n")
	s := Describe(tbl, Profile(tbl))["v"]
	if s.Count != 3 || !approx(s.Mean, 2) || s.Min > s.Mean || s.Mean > s.Max {
		t.Fatalf("summary = %+v", s)
	}
}

func TestCorrelatePerfectAndConstant(t *testing.T) {
	tbl := Parse("x,y,z,c\n1,2,4,7\n2,4,3,7\n3,6,2,7\n4,8,1,7\n")
	m, err := Correlate(tbl, []string{"x", "y", "z", "c"})
	if err != nil {
		t.Fatalf("Correlate: %v", err)
	}
	for i := range m.Columns {
		if m.Values[i][i] != 1 {
			t.Fatalf("diagonal[%d] = %v", i, m.Values[i][i])
		}
		for j := range m.Columns {
			if m.Values[i][j] != m.Values[j][i] {
				t.Fatalf("matrix not symmetric at %d,%d", i, j)
			}
			if m.Values[i][j] < -1 || m.Values[i][j] > 1 {
				t.Fatalf("value out of range at %d,%d: %v", i, j, m.Values[i][j])
			}
		}
	}
	if !approx(m.Values[0][1], 1) {
		t.Fatalf("r(x,y) = %v, want 1", m.Values[0][1])
	}
	if !approx(m.Values[0][2], -1) {
		t.Fatalf("r(x,z) = %v, want -1", m.Values[0][2])
	}
	if m.Values[0][3] != 0 {
		t.Fatalf("r(x,c) = %v, want 0 for a constant column", m.Values[0][3])
	}
}

func TestCorrelateAlignsByPosition(t *testing.T) {
	// b drops its blank first cell, so a[0..1] is paired with b's 5 and 7.
	tbl := Parse("a,b\n1,\n2,5\n3,7\n")
	m, err := Correlate(tbl, []string{"a", "b"})
	if err != nil {
		t.Fatalf("Correlate: %v", err)
	}
	if want := 1 / math.Sqrt2; math.Abs(m.Values[0][1]-want) > 1e-9 {
		t.Fatalf("r(a,b) = %v, want %v", m.Values[0][1], want)
	}
}

func TestCorrelateUnknownColumn(t *testing.T) {
	_, err := Correlate(Parse(scenarioA), []string{"a", "nope"})
	if !errors.Is(err, ErrUnknownColumn) {
		t.Fatalf("err = %v, want ErrUnknownColumn", err)
	}
}

func TestTopPairsOrdersByStrength(t *testing.T) {
	m := &CorrMatrix{
		Columns: []string{"a", "b", "c"},
		Values: [][]float64{
			{1, 0.2, -0.9},
			{0.2, 1, 0.5},
			{-0.9, 0.5, 1},
		},
	}
	pairs := m.TopPairs(2)
	if len(pairs) != 2 || pairs[0].B != "c" || pairs[1].A != "b" {
		t.Fatalf("pairs = %+v", pairs)
	}
}
