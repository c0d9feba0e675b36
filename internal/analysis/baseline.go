package analysis

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// DefaultNeighbors is the k of the k-NN classification baseline.
const DefaultNeighbors = 3

// minScale floors a feature's deviation so constant features do not blow
// up the z-scores.
const minScale = 1e-9

// BaselineStatus tells which branch a baseline run ended in.
type BaselineStatus int

const (
	StatusNoTarget BaselineStatus = iota
	StatusRegression
	StatusClassification
	StatusNoUsableFeatures
	StatusInsufficientData
)

func (s BaselineStatus) String() string {
	switch s {
	case StatusNoTarget:
		return "no_target"
	case StatusRegression:
		return "regression"
	case StatusClassification:
		return "classification"
	case StatusNoUsableFeatures:
		return "no_usable_features"
	case StatusInsufficientData:
		return "insufficient_data"
	default:
		return "unknown"
	}
}

// MarshalText encodes the status by name.
func (s BaselineStatus) MarshalText() ([]byte, error) {
	if s < StatusNoTarget || s > StatusInsufficientData {
		return nil, fmt.Errorf("invalid baseline status %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText decodes a status name written by MarshalText.
func (s *BaselineStatus) UnmarshalText(b []byte) error {
	for c := StatusNoTarget; c <= StatusInsufficientData; c++ {
		if c.String() == string(b) {
			*s = c
			return nil
		}
	}
	return fmt.Errorf("unknown baseline status %q", string(b))
}

// BaselineOptions configures one baseline run. The caller owns the target
// choice; the engine never looks it up elsewhere.
type BaselineOptions struct {
	Target    string
	Neighbors int
}

// BaselineResult is exactly one of the BaselineStatus outcomes. Regression
// is set only for StatusRegression and Classification only for
// StatusClassification; Reason explains the other outcomes.
type BaselineResult struct {
	Status         BaselineStatus  `json:"status" yaml:"status"`
	Target         string          `json:"target,omitempty" yaml:"target,omitempty"`
	Reason         string          `json:"reason,omitempty" yaml:"reason,omitempty"`
	Regression     *Regression     `json:"regression,omitempty" yaml:"regression,omitempty"`
	Classification *Classification `json:"classification,omitempty" yaml:"classification,omitempty"`
}

// Regression is the mean-predictor baseline. R2 is always 0 because the
// prediction is the target mean itself.
type Regression struct {
	TargetMean float64 `json:"target_mean" yaml:"target_mean"`
	MAE        float64 `json:"mae" yaml:"mae"`
	RMSE       float64 `json:"rmse" yaml:"rmse"`
	R2         float64 `json:"r2" yaml:"r2"`
	RowsUsed   int     `json:"rows_used" yaml:"rows_used"`
}

// Classification is the leave-one-out k-NN baseline. Confusion rows are
// actual classes, columns predicted classes, both in Classes order.
type Classification struct {
	Classes      []string       `json:"classes" yaml:"classes"`
	Confusion    [][]int        `json:"confusion" yaml:"confusion"`
	Accuracy     float64        `json:"accuracy" yaml:"accuracy"`
	MacroF1      float64        `json:"macro_f1" yaml:"macro_f1"`
	RowsUsed     int            `json:"rows_used" yaml:"rows_used"`
	FeatureCount int            `json:"feature_count" yaml:"feature_count"`
	Features     []string       `json:"features" yaml:"features"`
	Neighbors    int            `json:"neighbors" yaml:"neighbors"`
	PerClass     []ClassMetrics `json:"per_class" yaml:"per_class"`
}

// ClassMetrics are one class's scores derived from the confusion matrix.
// Support is the number of rows whose actual label is the class.
type ClassMetrics struct {
	Class     string  `json:"class" yaml:"class"`
	Support   int     `json:"support" yaml:"support"`
	Ratio     float64 `json:"ratio" yaml:"ratio"`
	Precision float64 `json:"precision" yaml:"precision"`
	Recall    float64 `json:"recall" yaml:"recall"`
	F1        float64 `json:"f1" yaml:"f1"`
}

// EvaluateBaseline runs the baseline for opt.Target. A mostly numeric target
// gets the mean-predictor regression; anything else gets the k-NN
// classifier over the mostly numeric feature columns, scored leave-one-out.
func EvaluateBaseline(t *Table, opt BaselineOptions) BaselineResult {
	if opt.Target == "" {
		return BaselineResult{Status: StatusNoTarget, Reason: "no target column selected"}
	}
	targetIdx := t.Index(opt.Target)
	if targetIdx < 0 {
		return BaselineResult{
			Status: StatusNoTarget,
			Target: opt.Target,
			Reason: fmt.Sprintf("target column %q not found", opt.Target),
		}
	}
	labels := t.Column(targetIdx).NonMissing()
	if len(labels) == 0 {
		return BaselineResult{
			Status: StatusInsufficientData,
			Target: opt.Target,
			Reason: "target column has no values",
		}
	}
	y := numericValues(labels)
	if mostlyNumeric(len(y), len(labels)) {
		return BaselineResult{Status: StatusRegression, Target: opt.Target, Regression: meanBaseline(y)}
	}
	k := opt.Neighbors
	if k <= 0 {
		k = DefaultNeighbors
	}
	return knnBaseline(t, targetIdx, k)
}

func meanBaseline(y []float64) *Regression {
	mean := stat.Mean(y, nil)
	var absSum, sqSum float64
	for _, v := range y {
		e := v - mean
		absSum += math.Abs(e)
		sqSum += e * e
	}
	n := float64(len(y))
	sst := sqSum
	sse := sst
	r2 := 0.0
	if sst > 0 {
		r2 = 1 - sse/sst
	}
	return &Regression{
		TargetMean: mean,
		MAE:        absSum / n,
		RMSE:       math.Sqrt(sqSum / n),
		R2:         r2,
		RowsUsed:   len(y),
	}
}

func knnBaseline(t *Table, targetIdx, k int) BaselineResult {
	target := t.Header[targetIdx]
	var features []int
	for idx := range t.Header {
		if idx == targetIdx {
			continue
		}
		vals := t.Column(idx).NonMissing()
		nums := numericValues(vals)
		if mostlyNumeric(len(nums), len(vals)) {
			features = append(features, idx)
		}
	}
	if len(features) == 0 {
		return BaselineResult{
			Status: StatusNoUsableFeatures,
			Target: target,
			Reason: "no numeric feature columns available",
		}
	}

	var X [][]float64
	var y []string
	for r := range t.Rows {
		label := t.Cell(r, targetIdx)
		if label == "" {
			continue
		}
		row := make([]float64, len(features))
		ok := true
		for j, idx := range features {
			v, good := parseNumber(t.Cell(r, idx))
			if !good {
				ok = false
				break
			}
			row[j] = v
		}
		if ok {
			X = append(X, row)
			y = append(y, label)
		}
	}
	if len(X) < 2 {
		return BaselineResult{
			Status: StatusInsufficientData,
			Target: target,
			Reason: fmt.Sprintf("need at least 2 complete rows, found %d", len(X)),
		}
	}

	X = zScore(X)
	classes := distinctSorted(y)
	classIdx := make(map[string]int, len(classes))
	for i, c := range classes {
		classIdx[c] = i
	}
	conf := make([][]int, len(classes))
	for i := range conf {
		conf[i] = make([]int, len(classes))
	}
	for i := range X {
		pred := predictLeaveOneOut(X, y, i, k)
		conf[classIdx[y[i]]][classIdx[pred]]++
	}

	names := make([]string, len(features))
	for j, idx := range features {
		names[j] = t.Header[idx]
	}
	c := &Classification{
		Classes:      classes,
		Confusion:    conf,
		RowsUsed:     len(X),
		FeatureCount: len(features),
		Features:     names,
		Neighbors:    k,
	}
	c.Accuracy, c.MacroF1, c.PerClass = confusionMetrics(classes, conf)
	return BaselineResult{Status: StatusClassification, Target: target, Classification: c}
}

// zScore scales every column by its mean and sample deviation over the rows
// of X. Deviations below minScale are floored.
func zScore(X [][]float64) [][]float64 {
	d := len(X[0])
	col := make([]float64, len(X))
	means := make([]float64, d)
	scales := make([]float64, d)
	for j := 0; j < d; j++ {
		for i := range X {
			col[i] = X[i][j]
		}
		means[j], scales[j] = stat.MeanStdDev(col, nil)
		if !(scales[j] >= minScale) {
			scales[j] = minScale
		}
	}
	out := make([][]float64, len(X))
	for i, row := range X {
		out[i] = make([]float64, d)
		for j, v := range row {
			out[i][j] = (v - means[j]) / scales[j]
		}
	}
	return out
}

type neighbor struct {
	row  int
	dist float64
}

// predictLeaveOneOut votes among the k rows nearest to row i, excluding i.
// Neighbours are ordered by squared Euclidean distance, equal distances by
// row order. When labels tie on votes, the tied label whose closest
// neighbour ranks first wins.
func predictLeaveOneOut(X [][]float64, y []string, i, k int) string {
	nbrs := make([]neighbor, 0, len(X)-1)
	for j := range X {
		if j == i {
			continue
		}
		nbrs = append(nbrs, neighbor{row: j, dist: euclidSquared(X[i], X[j])})
	}
	sort.SliceStable(nbrs, func(a, b int) bool { return nbrs[a].dist < nbrs[b].dist })
	if len(nbrs) > k {
		nbrs = nbrs[:k]
	}
	return majority(nbrs, y)
}

// majority returns the most frequent label among nbrs, which must be in
// rank order. Ties go to the label seen first.
func majority(nbrs []neighbor, y []string) string {
	votes := make(map[string]int, len(nbrs))
	var order []string
	for _, n := range nbrs {
		l := y[n.row]
		if _, ok := votes[l]; !ok {
			order = append(order, l)
		}
		votes[l]++
	}
	best := order[0]
	for _, l := range order[1:] {
		if votes[l] > votes[best] {
			best = l
		}
	}
	return best
}

// euclidSquared computes the squared Euclidean distance between two vectors.
func euclidSquared(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

func distinctSorted(vals []string) []string {
	seen := make(map[string]struct{}, len(vals))
	var out []string
	for _, v := range vals {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// confusionMetrics derives accuracy, macro F1 and per-class scores. Any
// zero denominator scores 0.
func confusionMetrics(classes []string, conf [][]int) (accuracy, macroF1 float64, per []ClassMetrics) {
	k := len(classes)
	total := 0
	correct := 0
	for a := 0; a < k; a++ {
		for p := 0; p < k; p++ {
			total += conf[a][p]
		}
		correct += conf[a][a]
	}
	if total > 0 {
		accuracy = float64(correct) / float64(total)
	}
	per = make([]ClassMetrics, k)
	var f1Sum float64
	for c := 0; c < k; c++ {
		tp := float64(conf[c][c])
		var fp, fn float64
		support := 0
		for r := 0; r < k; r++ {
			support += conf[c][r]
			if r == c {
				continue
			}
			fp += float64(conf[r][c])
			fn += float64(conf[c][r])
		}
		m := ClassMetrics{Class: classes[c], Support: support}
		if total > 0 {
			m.Ratio = float64(support) / float64(total)
		}
		if tp+fp > 0 {
			m.Precision = tp / (tp + fp)
		}
		if tp+fn > 0 {
			m.Recall = tp / (tp + fn)
		}
		if m.Precision+m.Recall > 0 {
			m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
		}
		f1Sum += m.F1
		per[c] = m
	}
	if k > 0 {
		macroF1 = f1Sum / float64(k)
	}
	return accuracy, macroF1, per
}
