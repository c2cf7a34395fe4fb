// internal/commands/check.go
package edumetrics

import (
	"strings"

	"github.com/mwiater/edumetrics/internal/console"
	"github.com/mwiater/edumetrics/internal/metrics"
	"github.com/mwiater/edumetrics/internal/pipeline"
	"github.com/spf13/cobra"
)

// checkCmd groups validation commands that never write output files.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate inputs without writing outputs",
}

// dataCheck is the JSON view of a checked table.
type dataCheck struct {
	Source        metrics.SourceInfo `json:"source"`
	MetaColumns   []string           `json:"metaColumns"`
	Subjects      []string           `json:"subjects"`
	EmptySubjects []string           `json:"emptySubjects"`
	Issues        []metrics.Issue    `json:"issues"`
}

// checkDataCmd loads the table and reports inferred columns and data-quality issues.
var checkDataCmd = &cobra.Command{
	Use:   "data",
	Short: "Load a marks table and report its subjects and data-quality issues",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := pipelineOptions(GetConfig())
		if err != nil {
			return err
		}
		ds, err := pipeline.Prepare(opts.DataPath, opts.Meta)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if JSONModeEnabled() {
			return console.PrintJSON(out, dataCheck{
				Source:        ds.Source,
				MetaColumns:   ds.MetaColumns,
				Subjects:      ds.Subjects,
				EmptySubjects: ds.EmptySubjects,
				Issues:        ds.Issues,
			})
		}

		console.Heading(out, ds.Source.Path)
		console.Note(out, "%s, %d rows, %d columns", ds.Source.Format, ds.Source.Rows, len(ds.Source.Columns))
		console.Info(out, "meta columns: %s", strings.Join(ds.MetaColumns, ", "))
		console.Info(out, "subjects: %s", strings.Join(ds.Subjects, ", "))
		if len(ds.Subjects) == 0 {
			console.Warning(out, "no subject columns found")
		}
		if len(ds.EmptySubjects) > 0 {
			console.Warning(out, "subjects with no marks: %s", strings.Join(ds.EmptySubjects, ", "))
		}
		console.Issues(out, ds.Issues)
		return nil
	},
}

func init() {
	checkCmd.AddCommand(checkDataCmd)
	rootCmd.AddCommand(checkCmd)
}
