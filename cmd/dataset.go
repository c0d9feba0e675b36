package cmd

import (
	"errors"
	"fmt"
	"time"

	cfgpkg "github.com/KaramelBytes/autoeda/internal/config"
	"github.com/KaramelBytes/autoeda/internal/source"
	"github.com/KaramelBytes/autoeda/internal/utils"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	sheetName  string
	sheetIndex int
)

var errNoDataset = errors.New("no dataset given and no previous file remembered (pass a path or '-' for stdin)")

// addSheetFlags registers the XLSX sheet selectors on a dataset command.
func addSheetFlags(c *cobra.Command) {
	c.Flags().StringVar(&sheetName, "sheet-name", "", "XLSX: sheet name to analyze")
	c.Flags().IntVar(&sheetIndex, "sheet-index", 0, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
}

// loadDataset reads the dataset named by args[0], falling back to the last
// remembered file. Explicit paths are remembered when the config asks for it.
func loadDataset(cmd *cobra.Command, args []string) (*source.Document, error) {
	if err := ensureConfig(); err != nil {
		return nil, err
	}
	explicit := len(args) > 0 && args[0] != ""
	path := cfg.LastCSVPath
	if explicit {
		path = args[0]
	}
	if path == "" {
		return nil, errNoDataset
	}

	start := time.Now()
	if path == source.StdinName {
		doc, err := source.LoadReader(cmd.InOrStdin(), "stdin")
		if err != nil {
			return nil, err
		}
		log.Debug().Int("rows", doc.Table.Len()).Dur("took", time.Since(start)).Msg("read stdin")
		return doc, nil
	}

	abs, err := utils.AbsPath(path)
	if err != nil {
		return nil, err
	}
	opt := source.Options{SheetName: cfg.SheetName, SheetIndex: cfg.SheetIndex}
	if sheetName != "" {
		opt.SheetName = sheetName
	}
	if sheetIndex > 0 {
		opt.SheetIndex = sheetIndex
		if sheetName == "" {
			opt.SheetName = ""
		}
	}
	doc, err := source.LoadFile(abs, opt)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("file", abs).Dur("took", time.Since(start)).Msg("dataset ready")

	if explicit && cfg.RememberLastFile && cfg.LastCSVPath != abs {
		cfg.LastCSVPath = abs
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			log.Warn().Err(err).Msg("could not remember last file")
		}
	}
	return doc, nil
}

// neighbors returns k from a flag value or the config.
func neighbors(flag int) int {
	if flag > 0 {
		return flag
	}
	return cfg.Neighbors
}

// binFraction converts a --bin percentage to a fraction, falling back to the
// configured bin width.
func binFraction(percent float64) (float64, error) {
	if percent == 0 {
		return cfg.BinPercent, nil
	}
	if percent < 0 || percent > 100 {
		return 0, fmt.Errorf("invalid --bin %g (use a percentage in (0, 100], e.g. 2, 5, 10, 20 or 25)", percent)
	}
	return percent / 100, nil
}
