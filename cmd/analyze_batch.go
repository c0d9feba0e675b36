package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/KaramelBytes/autoeda/internal/analysis"
	"github.com/KaramelBytes/autoeda/internal/source"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	abOutDir  string
	abTarget  string
	abBin     float64
	abHist    []string
	abCorr    bool
	abSave    bool
	abQuiet   bool
	abSheet   string
	abSheetNo int
)

var analyzeBatchCmd = &cobra.Command{
	Use:   "analyze-batch <files...>",
	Short: "Analyze multiple CSV/XLSX files and write one Markdown report per file",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureConfig(); err != nil {
			return err
		}
		files := expandInputs(args)
		if len(files) == 0 {
			return fmt.Errorf("no input files matched")
		}
		bin, err := binFraction(abBin)
		if err != nil {
			return err
		}
		if abOutDir != "" {
			if err := os.MkdirAll(abOutDir, 0o755); err != nil {
				return fmt.Errorf("create output dir: %w", err)
			}
		}

		opt := analysis.DefaultOptions()
		opt.Target = abTarget
		opt.BinPercent = bin
		opt.Histograms = abHist
		opt.Correlations = abCorr
		opt.Neighbors = cfg.Neighbors
		opt.MaxBaselineRows = cfg.MaxBaselineRows
		sheetOpt := source.Options{SheetName: abSheet, SheetIndex: abSheetNo}

		total := len(files)
		for i, path := range files {
			if !abQuiet {
				cmd.Printf("[%d/%d] Processing %s...\n", i+1, total, filepath.Base(path))
			}
			doc, err := source.LoadFile(path, sheetOpt)
			if err != nil {
				return err
			}
			o := opt
			o.Name = doc.Name
			o.SizeBytes = doc.SizeBytes
			rep := analysis.Analyze(doc.Table, o)
			for _, w := range rep.Warnings {
				log.Warn().Str("file", doc.Name).Msg(w)
			}
			if abSave {
				arc, err := openArchive()
				if err != nil {
					return err
				}
				if _, err := arc.Save(path, rep); err != nil {
					return err
				}
			}

			md := rep.Markdown()
			if abOutDir == "" {
				if !abQuiet {
					cmd.Println(md)
				}
				continue
			}
			outFile := uniqueReportPath(abOutDir, reportBase(path, abSheet))
			if err := os.WriteFile(outFile, []byte(md), 0o644); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			if !abQuiet {
				cmd.Printf("✓ Wrote %s\n", filepath.Base(outFile))
			}
		}
		return nil
	},
}

// expandInputs globs every argument, keeps literal paths that exist, and
// returns the sorted, de-duplicated list.
func expandInputs(args []string) []string {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			if _, err := os.Stat(arg); err == nil {
				matches = []string{arg}
			}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	sort.Strings(files)
	return files
}

// reportBase names a report after its file, plus a slug of the sheet name
// for workbooks.
func reportBase(path, sheet string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if sheet == "" {
		return base
	}
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(sheet)) {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteRune('-')
		}
	}
	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		slug = "sheet"
	}
	return base + "__sheet-" + slug
}

// uniqueReportPath returns dir/base.report.md, or the first free
// dir/base__N.report.md when that exists.
func uniqueReportPath(dir, base string) string {
	out := filepath.Join(dir, base+".report.md")
	if _, err := os.Stat(out); err != nil {
		return out
	}
	for idx := 2; ; idx++ {
		cand := filepath.Join(dir, fmt.Sprintf("%s__%d.report.md", base, idx))
		if _, err := os.Stat(cand); os.IsNotExist(err) {
			log.Warn().Str("file", filepath.Base(cand)).Msg("report exists, writing alongside")
			return cand
		}
	}
}

func init() {
	rootCmd.AddCommand(analyzeBatchCmd)
	analyzeBatchCmd.Flags().StringVarP(&abOutDir, "out-dir", "d", "", "directory for per-file reports (default: print to stdout)")
	analyzeBatchCmd.Flags().StringVarP(&abTarget, "target", "t", "", "target column for the baseline in every file")
	analyzeBatchCmd.Flags().Float64Var(&abBin, "bin", 0, "numeric bin width as a percentage of the range (default from config)")
	analyzeBatchCmd.Flags().StringArrayVar(&abHist, "hist", nil, "column to include a histogram for (repeatable)")
	analyzeBatchCmd.Flags().BoolVar(&abCorr, "correlations", true, "compute Pearson correlations among numeric columns")
	analyzeBatchCmd.Flags().BoolVar(&abSave, "save", false, "also save every report to history")
	analyzeBatchCmd.Flags().BoolVar(&abQuiet, "quiet", false, "suppress progress and non-essential output")
	analyzeBatchCmd.Flags().StringVar(&abSheet, "sheet-name", "", "XLSX: sheet name to analyze")
	analyzeBatchCmd.Flags().IntVar(&abSheetNo, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
}
