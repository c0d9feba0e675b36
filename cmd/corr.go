package cmd

import (
	"fmt"
	"io"

	"github.com/KaramelBytes/autoeda/internal/analysis"
	"github.com/spf13/cobra"
)

var corrColumns []string

var corrCmd = &cobra.Command{
	Use:   "corr [file]",
	Short: "Compute the Pearson correlation matrix of numeric columns",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := loadDataset(cmd, args)
		if err != nil {
			return err
		}
		names := corrColumns
		if len(names) == 0 {
			names = analysis.NumericColumns(analysis.Profile(doc.Table))
		}
		if len(names) < 2 {
			return fmt.Errorf("need at least 2 numeric columns, found %d", len(names))
		}
		m, err := analysis.Correlate(doc.Table, names)
		if err != nil {
			return err
		}
		return emit(cmd, "correlations", view{
			markdown: func() string { return "[CORRELATIONS]\n" + m.Markdown() },
			value:    m,
			table:    func(w io.Writer) { corrTable(w, m) },
		})
	},
}

func init() {
	rootCmd.AddCommand(corrCmd)
	corrCmd.Flags().StringSliceVar(&corrColumns, "columns", nil, "comma-separated columns to correlate (default: all numeric)")
	addSheetFlags(corrCmd)
	addOutputFlags(corrCmd)
}
