package cmd

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/KaramelBytes/autoeda/internal/analysis"
	cfgpkg "github.com/KaramelBytes/autoeda/internal/config"
	"github.com/KaramelBytes/autoeda/internal/utils"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	outFormat string
	outPath   string
)

// addOutputFlags registers --format and --output on a command.
func addOutputFlags(c *cobra.Command) {
	c.Flags().StringVar(&outFormat, "format", "", "output format: markdown | json | yaml | table (default from config)")
	c.Flags().StringVarP(&outPath, "output", "o", "", "optional path to write the result")
}

// view is one renderable result: Markdown text, a value for JSON/YAML and
// a tablewriter rendering.
type view struct {
	markdown func() string
	value    any
	table    func(w io.Writer)
}

// emit renders v in the selected format to --output or the command's
// stdout.
func emit(cmd *cobra.Command, what string, v view) error {
	format := strings.ToLower(strings.TrimSpace(outFormat))
	if format == "" {
		format = cfg.OutputFormat
	}
	if format == "" || format == "md" {
		format = "markdown"
	}
	if !cfgpkg.ValidFormat(format) {
		return fmt.Errorf("invalid --format: %s (use %s)", format, strings.Join(cfgpkg.Formats, "|"))
	}

	var body []byte
	switch format {
	case "markdown":
		body = []byte(v.markdown())
	case "json":
		b, err := utils.PrettyJSON(v.value)
		if err != nil {
			return err
		}
		body = append(b, '\n')
	case "yaml":
		b, err := yaml.Marshal(v.value)
		if err != nil {
			return fmt.Errorf("marshal yaml: %w", err)
		}
		body = b
	case "table":
		var buf bytes.Buffer
		v.table(&buf)
		body = buf.Bytes()
	}

	if outPath != "" {
		if err := utils.SafeWriteFile(outPath, body); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s to %s\n", what, outPath)
		return nil
	}
	_, err := cmd.OutOrStdout().Write(body)
	return err
}

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	t := tablewriter.NewWriter(w)
	t.SetHeader(header)
	t.SetAutoWrapText(false)
	return t
}

func reportTables(w io.Writer, rep *analysis.Report) {
	o := rep.Overview
	fmt.Fprintf(w, "%s: %d rows, %d columns (numeric %d, categorical %d, text %d)\n",
		displayName(rep.Name), o.Rows, o.Columns, o.Numeric, o.Categorical, o.Text)
	schemaTable(w, rep)
	if rep.Corr != nil {
		fmt.Fprintln(w, "\nCorrelations")
		corrTable(w, rep.Corr)
	}
	for _, h := range rep.Histograms {
		fmt.Fprintf(w, "\nHistogram: %s\n", h.Column)
		histTable(w, h)
	}
	if rep.Baseline != nil {
		fmt.Fprintln(w, "\nBaseline")
		baselineTable(w, *rep.Baseline)
	}
	for _, n := range rep.Warnings {
		fmt.Fprintf(w, "note: %s\n", n)
	}
}

func schemaTable(w io.Writer, rep *analysis.Report) {
	t := newTable(w, "Column", "Kind", "Missing", "Count", "Mean", "Std", "Min", "Max")
	for _, p := range rep.Profiles {
		row := []string{p.Name, p.Kind.String(), fmt.Sprintf("%.1f%%", p.MissingRatio*100), "", "", "", "", ""}
		if s, ok := rep.Summaries[p.Name]; ok {
			row[3] = strconv.Itoa(s.Count)
			row[4] = num(s.Mean)
			if s.StdDev != nil {
				row[5] = num(*s.StdDev)
			}
			row[6] = num(s.Min)
			row[7] = num(s.Max)
		}
		t.Append(row)
	}
	t.Render()
}

func corrTable(w io.Writer, m *analysis.CorrMatrix) {
	t := newTable(w, append([]string{""}, m.Columns...)...)
	for i, c := range m.Columns {
		row := []string{c}
		for j := range m.Columns {
			row = append(row, fmt.Sprintf("%.2f", m.Values[i][j]))
		}
		t.Append(row)
	}
	t.Render()
}

func histTable(w io.Writer, h *analysis.HistogramResult) {
	t := newTable(w, "Bin", "Count", "Ratio")
	for _, b := range h.Bins {
		t.Append([]string{b.Label, strconv.Itoa(b.Count), fmt.Sprintf("%.1f%%", b.Ratio*100)})
	}
	t.SetFooter([]string{"total", strconv.Itoa(h.Total), ""})
	t.Render()
}

func baselineTable(w io.Writer, b analysis.BaselineResult) {
	t := newTable(w, "Metric", "Value")
	t.Append([]string{"status", b.Status.String()})
	if b.Target != "" {
		t.Append([]string{"target", b.Target})
	}
	if b.Reason != "" {
		t.Append([]string{"reason", b.Reason})
	}
	switch b.Status {
	case analysis.StatusRegression:
		m := b.Regression
		t.Append([]string{"target mean", num(m.TargetMean)})
		t.Append([]string{"MAE", fmt.Sprintf("%.3f", m.MAE)})
		t.Append([]string{"RMSE", fmt.Sprintf("%.3f", m.RMSE)})
		t.Append([]string{"R²", fmt.Sprintf("%.3f", m.R2)})
		t.Append([]string{"rows used", strconv.Itoa(m.RowsUsed)})
	case analysis.StatusClassification:
		c := b.Classification
		t.Append([]string{"k", strconv.Itoa(c.Neighbors)})
		t.Append([]string{"accuracy", fmt.Sprintf("%.1f%%", c.Accuracy*100)})
		t.Append([]string{"macro F1", fmt.Sprintf("%.3f", c.MacroF1)})
		t.Append([]string{"rows used", strconv.Itoa(c.RowsUsed)})
		t.Append([]string{"features", strings.Join(c.Features, ", ")})
	}
	t.Render()
	if b.Status != analysis.StatusClassification {
		return
	}
	c := b.Classification
	ct := newTable(w, append([]string{"actual \\ predicted"}, c.Classes...)...)
	for i, cl := range c.Classes {
		row := []string{cl}
		for j := range c.Classes {
			row = append(row, strconv.Itoa(c.Confusion[i][j]))
		}
		ct.Append(row)
	}
	ct.Render()
}

func num(v float64) string { return strconv.FormatFloat(v, 'g', 6, 64) }

func displayName(name string) string {
	if name == "" {
		return "dataset"
	}
	return name
}
