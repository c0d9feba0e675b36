package cmd

import (
	"fmt"
	"strconv"
	"strings"

	cfgpkg "github.com/KaramelBytes/autoeda/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set autoeda configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureConfig(); err != nil {
			return err
		}
		cmd.Printf("target_column: %s\n", cfg.TargetColumn)
		if cfg.TargetType != "" {
			cmd.Printf("target_type: %s\n", cfg.TargetType)
		}
		cmd.Printf("last_csv_path: %s\n", cfg.LastCSVPath)
		cmd.Printf("remember_last_file: %t\n", cfg.RememberLastFile)
		cmd.Printf("bin_percent: %.2f\n", cfg.BinPercent)
		cmd.Printf("neighbors: %d\n", cfg.Neighbors)
		cmd.Printf("max_baseline_rows: %d\n", cfg.MaxBaselineRows)
		cmd.Printf("output_format: %s\n", cfg.OutputFormat)
		cmd.Printf("history_dir: %s\n", cfg.HistoryDir)
		if cfg.SheetName != "" {
			cmd.Printf("sheet_name: %s\n", cfg.SheetName)
		}
		cmd.Printf("sheet_index: %d\n", cfg.SheetIndex)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if err := ensureConfig(); err != nil {
			return err
		}
		switch key {
		case "target_column":
			cfg.TargetColumn = val
			cfg.TargetType = ""
		case "last_csv_path":
			cfg.LastCSVPath = val
		case "remember_last_file":
			b, err := strconv.ParseBool(val)
			if err != nil {
				return fmt.Errorf("invalid bool for remember_last_file: %w", err)
			}
			cfg.RememberLastFile = b
		case "bin_percent":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || f <= 0 || f > 1 {
				return fmt.Errorf("invalid bin_percent: %v (use a fraction in (0, 1], e.g. 0.10)", val)
			}
			cfg.BinPercent = f
		case "neighbors":
			i, err := strconv.Atoi(val)
			if err != nil || i < 1 {
				return fmt.Errorf("invalid int for neighbors: %v", val)
			}
			cfg.Neighbors = i
		case "max_baseline_rows":
			i, err := strconv.Atoi(val)
			if err != nil || i < 0 {
				return fmt.Errorf("invalid int for max_baseline_rows: %v", val)
			}
			cfg.MaxBaselineRows = i
		case "output_format":
			f := strings.ToLower(val)
			if !cfgpkg.ValidFormat(f) {
				return fmt.Errorf("invalid output_format: %s (use %s)", val, strings.Join(cfgpkg.Formats, "|"))
			}
			cfg.OutputFormat = f
		case "history_dir":
			cfg.HistoryDir = val
		case "sheet_name":
			cfg.SheetName = val
		case "sheet_index":
			i, err := strconv.Atoi(val)
			if err != nil || i < 1 {
				return fmt.Errorf("invalid int for sheet_index: %v", val)
			}
			cfg.SheetIndex = i
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		cmd.Println("Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
