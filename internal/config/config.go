package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/KaramelBytes/autoeda/internal/utils"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const appDir = ".autoeda"

// Global configuration structure. It doubles as the preference store for
// the chosen target column and the last analyzed file.
type Global struct {
	TargetColumn     string  `mapstructure:"target_column" yaml:"target_column"`
	TargetType       string  `mapstructure:"target_type" yaml:"target_type"`
	LastCSVPath      string  `mapstructure:"last_csv_path" yaml:"last_csv_path"`
	RememberLastFile bool    `mapstructure:"remember_last_file" yaml:"remember_last_file"`
	BinPercent       float64 `mapstructure:"bin_percent" yaml:"bin_percent"`
	Neighbors        int     `mapstructure:"neighbors" yaml:"neighbors"`
	MaxBaselineRows  int     `mapstructure:"max_baseline_rows" yaml:"max_baseline_rows"`
	OutputFormat     string  `mapstructure:"output_format" yaml:"output_format"`
	HistoryDir       string  `mapstructure:"history_dir" yaml:"history_dir"`

	// XLSX sheet selection
	SheetName  string `mapstructure:"sheet_name" yaml:"sheet_name"`
	SheetIndex int    `mapstructure:"sheet_index" yaml:"sheet_index"`
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.autoeda/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		dir, err := Dir()
		if err != nil {
			return err
		}
		if err := utils.EnsureDir(dir); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := utils.SafeWriteFile(path, b); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Dir returns ~/.autoeda.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, appDir), nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("AUTOEDA")
	v.AutomaticEnv()

	v.SetDefault("target_column", "")
	v.SetDefault("target_type", "")
	v.SetDefault("last_csv_path", "")
	v.SetDefault("remember_last_file", true)
	v.SetDefault("bin_percent", 0.10)
	v.SetDefault("neighbors", 3)
	v.SetDefault("max_baseline_rows", 5000)
	v.SetDefault("output_format", "markdown")
	v.SetDefault("history_dir", "")
	v.SetDefault("sheet_name", "")
	v.SetDefault("sheet_index", 1)

	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.HistoryDir == "" {
		c.HistoryDir = filepath.Join(dir, "history")
	}
	return &c, nil
}

// Formats lists the accepted output_format values.
var Formats = []string{"markdown", "json", "yaml", "table"}

// ValidFormat reports whether f is one of Formats.
func ValidFormat(f string) bool {
	for _, s := range Formats {
		if s == f {
			return true
		}
	}
	return false
}
