package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/KaramelBytes/autoeda/internal/analysis"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	blTarget    string
	blNeighbors int
)

var baselineCmd = &cobra.Command{
	Use:   "baseline [file]",
	Short: "Score a baseline model for the target column",
	Long: `Baseline runs a mean predictor for a numeric target, or a leave-one-out
k-NN classifier over z-scored numeric features for a categorical target.
The target defaults to the one stored with 'autoeda target set'.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := loadDataset(cmd, args)
		if err != nil {
			return err
		}
		target := blTarget
		if target == "" {
			target = cfg.TargetColumn
		}
		if limit := cfg.MaxBaselineRows; limit > 0 && doc.Table.Len() > limit {
			return fmt.Errorf("%s has %d rows, above max_baseline_rows=%d", doc.Name, doc.Table.Len(), limit)
		}
		start := time.Now()
		res := analysis.EvaluateBaseline(doc.Table, analysis.BaselineOptions{Target: target, Neighbors: neighbors(blNeighbors)})
		log.Debug().Str("status", res.Status.String()).Dur("took", time.Since(start)).Msg("baseline evaluated")
		return emit(cmd, "baseline", view{
			markdown: func() string { return "[BASELINE]\n" + res.Markdown() },
			value:    res,
			table:    func(w io.Writer) { baselineTable(w, res) },
		})
	},
}

func init() {
	rootCmd.AddCommand(baselineCmd)
	baselineCmd.Flags().StringVarP(&blTarget, "target", "t", "", "target column (default from config)")
	baselineCmd.Flags().IntVar(&blNeighbors, "k", 0, "neighbours for the k-NN baseline (default from config)")
	addSheetFlags(baselineCmd)
	addOutputFlags(baselineCmd)
}
