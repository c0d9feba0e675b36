package cmd

import (
	"io"

	"github.com/KaramelBytes/autoeda/internal/analysis"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	anaTarget    string
	anaHist      []string
	anaBin       float64
	anaCorr      bool
	anaNeighbors int
	anaSave      bool
	anaNoTarget  bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Analyze a CSV/XLSX and produce a full EDA report",
	Long: `Analyze profiles every column, summarizes numeric columns, computes the
correlation matrix, renders the requested histograms and scores a baseline
for the target column. Without a file, the last analyzed file is used; '-'
reads CSV from stdin.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := loadDataset(cmd, args)
		if err != nil {
			return err
		}
		bin, err := binFraction(anaBin)
		if err != nil {
			return err
		}
		opt := analysis.DefaultOptions()
		opt.Name = doc.Name
		opt.SizeBytes = doc.SizeBytes
		opt.Target = anaTarget
		if opt.Target == "" && !anaNoTarget {
			opt.Target = cfg.TargetColumn
		}
		opt.Neighbors = neighbors(anaNeighbors)
		opt.BinPercent = bin
		opt.Histograms = anaHist
		opt.Correlations = anaCorr
		opt.MaxBaselineRows = cfg.MaxBaselineRows

		rep := analysis.Analyze(doc.Table, opt)
		for _, w := range rep.Warnings {
			log.Warn().Str("file", doc.Name).Msg(w)
		}

		if anaSave {
			src := doc.Path
			if src == "" {
				src = doc.Name
			}
			arc, err := openArchive()
			if err != nil {
				return err
			}
			e, err := arc.Save(src, rep)
			if err != nil {
				return err
			}
			log.Info().Str("id", e.ID).Msg("report saved")
			cmd.Printf("✓ Saved report %s\n", e.ID)
		}

		return emit(cmd, "analysis", view{
			markdown: rep.Markdown,
			value:    rep,
			table:    func(w io.Writer) { reportTables(w, rep) },
		})
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&anaTarget, "target", "t", "", "target column for the baseline (default from config)")
	analyzeCmd.Flags().BoolVar(&anaNoTarget, "no-target", false, "skip the baseline even when a target is configured")
	analyzeCmd.Flags().StringArrayVar(&anaHist, "hist", nil, "column to include a histogram for (repeatable)")
	analyzeCmd.Flags().Float64Var(&anaBin, "bin", 0, "numeric bin width as a percentage of the range (default from config)")
	analyzeCmd.Flags().BoolVar(&anaCorr, "correlations", true, "compute Pearson correlations among numeric columns")
	analyzeCmd.Flags().IntVar(&anaNeighbors, "k", 0, "neighbours for the k-NN baseline (default from config)")
	analyzeCmd.Flags().BoolVar(&anaSave, "save", false, "save the report to history")
	addSheetFlags(analyzeCmd)
	addOutputFlags(analyzeCmd)
}
