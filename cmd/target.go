package cmd

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/autoeda/internal/analysis"
	cfgpkg "github.com/KaramelBytes/autoeda/internal/config"
	"github.com/spf13/cobra"
)

var targetCmd = &cobra.Command{
	Use:   "target",
	Short: "Choose the column the baseline predicts",
}

var targetSetCmd = &cobra.Command{
	Use:   "set <column> [file]",
	Short: "Validate a column against the dataset header and store it as the target",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		column := strings.TrimSpace(args[0])
		doc, err := loadDataset(cmd, args[1:])
		if err != nil {
			return err
		}
		idx := doc.Table.Index(column)
		if idx < 0 {
			return fmt.Errorf("column %q not in %s (columns: %s): %w",
				column, doc.Name, strings.Join(doc.Table.Header, ", "), analysis.ErrUnknownColumn)
		}
		var kind string
		for _, p := range analysis.Profile(doc.Table) {
			if p.Name == column {
				kind = analysis.TargetKind(p)
				break
			}
		}
		cfg.TargetColumn = column
		cfg.TargetType = kind
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		task := "classification"
		if kind == "numeric" {
			task = "regression"
		}
		cmd.Printf("✓ Target set to %s (%s → %s)\n", column, kind, task)
		return nil
	},
}

var targetClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget the stored target column",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureConfig(); err != nil {
			return err
		}
		cfg.TargetColumn = ""
		cfg.TargetType = ""
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		cmd.Println("Target cleared")
		return nil
	},
}

var targetShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the stored target column",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureConfig(); err != nil {
			return err
		}
		if cfg.TargetColumn == "" {
			cmd.Println("No target set")
			return nil
		}
		cmd.Printf("%s (%s)\n", cfg.TargetColumn, cfg.TargetType)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(targetCmd)
	targetCmd.AddCommand(targetSetCmd, targetClearCmd, targetShowCmd)
	addSheetFlags(targetSetCmd)
}
