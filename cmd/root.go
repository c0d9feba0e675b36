package cmd

import (
	"fmt"
	"os"

	cfgpkg "github.com/KaramelBytes/autoeda/internal/config"
	"github.com/KaramelBytes/autoeda/internal/logging"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	debug   bool

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "autoeda",
	Short: "autoeda: quick exploratory analysis of CSV datasets",
	Long: `autoeda profiles a CSV (or XLSX sheet), summarizes its numeric columns,
computes correlations and histograms, and scores a baseline model for a
chosen target column.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.autoeda/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

func loadConfig() {
	logging.Init(debug)
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to built-in defaults
		log.Warn().Err(err).Msg("failed to load config")
		c = defaultConfig()
	}
	cfg = c
}

// defaultConfig mirrors the viper defaults for when the config cannot be read.
func defaultConfig() *cfgpkg.Global {
	return &cfgpkg.Global{
		RememberLastFile: true,
		BinPercent:       0.10,
		Neighbors:        3,
		MaxBaselineRows:  5000,
		OutputFormat:     "markdown",
		SheetIndex:       1,
	}
}

// ensureConfig loads the configuration when a command runs before
// OnInitialize has fired, as in tests.
func ensureConfig() error {
	if cfg != nil {
		return nil
	}
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		return err
	}
	cfg = c
	return nil
}
