package cmd

import (
	"io"

	"github.com/KaramelBytes/autoeda/internal/analysis"
	"github.com/spf13/cobra"
)

var profileCmd = &cobra.Command{
	Use:   "profile [file]",
	Short: "Show the schema, column kinds, missing values and numeric stats",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := loadDataset(cmd, args)
		if err != nil {
			return err
		}
		rep := analysis.Analyze(doc.Table, analysis.Options{Name: doc.Name, SizeBytes: doc.SizeBytes})
		return emit(cmd, "profile", view{
			markdown: rep.Markdown,
			value:    rep,
			table:    func(w io.Writer) { reportTables(w, rep) },
		})
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
	addSheetFlags(profileCmd)
	addOutputFlags(profileCmd)
}
