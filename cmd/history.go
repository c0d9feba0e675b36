package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	cfgpkg "github.com/KaramelBytes/autoeda/internal/config"
	"github.com/KaramelBytes/autoeda/internal/history"
	"github.com/KaramelBytes/autoeda/internal/utils"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List, show or remove saved reports",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved reports, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		arc, err := openArchive()
		if err != nil {
			return err
		}
		entries, err := arc.List()
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			cmd.Println("No saved reports")
			return nil
		}
		t := newTable(cmd.OutOrStdout(), "ID", "Saved", "Source", "Rows", "Target")
		for _, e := range entries {
			rows := ""
			if e.Report != nil {
				rows = strconv.Itoa(e.Report.Overview.Rows)
			}
			t.Append([]string{e.ID[:min(8, len(e.ID))], e.CreatedAt.Format("2006-01-02 15:04"), filepath.Base(e.Source), rows, e.Target})
		}
		t.Render()
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a saved report (id or unique id prefix)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		arc, err := openArchive()
		if err != nil {
			return err
		}
		e, err := arc.Load(args[0])
		if err != nil {
			return err
		}
		if e.Report == nil {
			return fmt.Errorf("entry %s has no report", e.ID)
		}
		return emit(cmd, "report", view{
			markdown: e.Report.Markdown,
			value:    e,
			table:    func(w io.Writer) { reportTables(w, e.Report) },
		})
	},
}

var historyRmCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"remove"},
	Short:   "Delete a saved report",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		arc, err := openArchive()
		if err != nil {
			return err
		}
		id, err := arc.Remove(args[0])
		if err != nil {
			return err
		}
		cmd.Printf("✓ Removed %s\n", id)
		return nil
	},
}

// openArchive resolves history_dir, defaulting to ~/.autoeda/history.
func openArchive() (*history.Archive, error) {
	if err := ensureConfig(); err != nil {
		return nil, err
	}
	dir := cfg.HistoryDir
	if dir == "" {
		base, err := cfgpkg.Dir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(base, "history")
	}
	dir, err := utils.ExpandHome(dir)
	if err != nil {
		return nil, err
	}
	return history.Open(dir), nil
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd, historyShowCmd, historyRmCmd)
	addOutputFlags(historyShowCmd)
}
