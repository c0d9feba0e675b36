package cmd

import (
	"fmt"
	"io"

	"github.com/KaramelBytes/autoeda/internal/analysis"
	"github.com/spf13/cobra"
)

var (
	histColumn string
	histBin    float64
)

var histCmd = &cobra.Command{
	Use:   "hist [file] --column <name>",
	Short: "Show the distribution of one column",
	Long: fmt.Sprintf(`Hist bins a numeric column into equal-width bins of --bin percent of its
range, or counts the values of a categorical column. Suggested bin
widths: %v.`, binChoices()),
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if histColumn == "" {
			return fmt.Errorf("--column is required")
		}
		doc, err := loadDataset(cmd, args)
		if err != nil {
			return err
		}
		bin, err := binFraction(histBin)
		if err != nil {
			return err
		}
		h, err := analysis.Histogram(doc.Table, histColumn, bin)
		if err != nil {
			return err
		}
		return emit(cmd, "histogram", view{
			markdown: func() string { return fmt.Sprintf("[HISTOGRAM: %s]\n%s", h.Column, h.Markdown()) },
			value:    h,
			table:    func(w io.Writer) { histTable(w, h) },
		})
	},
}

func binChoices() []string {
	out := make([]string, len(analysis.BinPercentOptions))
	for i, p := range analysis.BinPercentOptions {
		out[i] = fmt.Sprintf("%g%%", p*100)
	}
	return out
}

func init() {
	rootCmd.AddCommand(histCmd)
	histCmd.Flags().StringVarP(&histColumn, "column", "c", "", "column to bin (required)")
	histCmd.Flags().Float64Var(&histBin, "bin", 0, "numeric bin width as a percentage of the range (default from config)")
	addSheetFlags(histCmd)
	addOutputFlags(histCmd)
}
