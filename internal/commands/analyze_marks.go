// internal/commands/analyze_marks.go
package edumetrics

import (
	"github.com/mwiater/edumetrics/internal/console"
	"github.com/mwiater/edumetrics/internal/metrics"
	"github.com/mwiater/edumetrics/internal/pipeline"
	"github.com/spf13/cobra"
)

var previewRows int

// marksRunSummary is printed in JSON mode.
type marksRunSummary struct {
	Status   pipeline.Status        `json:"status"`
	Subjects []string               `json:"subjects"`
	Written  []string               `json:"written"`
	Error    string                 `json:"error,omitempty"`
	Top      []metrics.RankingEntry `json:"topPerformers"`
	Issues   []metrics.Issue        `json:"issues"`
}

// analyzeMarksCmd runs the full pipeline and writes every enabled artifact.
var analyzeMarksCmd = &cobra.Command{
	Use:   "marks",
	Short: "Compute results, statistics and reports from a marks table",
	Long: `Load the marks table named by --data (or "data" in the config), infer the
subject columns, compute totals, percentages and grades, and write
summary.csv, subject_stats.csv, student_semester_percentages.csv, analysis.json,
report.html and, with --workbook, summary.xlsx into the output directory.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := pipelineOptions(GetConfig())
		if err != nil {
			return err
		}

		outcome, runErr := pipeline.Run(opts)
		out := cmd.OutOrStdout()

		if JSONModeEnabled() {
			summary := marksRunSummary{
				Status:  outcome.Status,
				Written: outcome.Written,
				Top:     outcome.Analysis.TopPerformers,
				Issues:  outcome.Analysis.Issues,
			}
			if outcome.Dataset != nil {
				summary.Subjects = outcome.Dataset.Subjects
			}
			if runErr != nil {
				summary.Error = runErr.Error()
			}
			if err := console.PrintJSON(out, summary); err != nil {
				return err
			}
			return runErr
		}

		if outcome.Dataset == nil {
			console.Failure(out, "analysis failed: %v", runErr)
			return runErr
		}

		console.Note(out, "Subjects: %v", outcome.Dataset.Subjects)
		console.Preview(out, outcome.Performances, previewRows)
		console.Ranking(out, outcome.Analysis.TopPerformers)
		console.SubjectStats(out, outcome.Analysis.SubjectStats)
		console.Issues(out, outcome.Analysis.Issues)

		for _, path := range outcome.Written {
			console.Success(out, "wrote %s", path)
		}
		if runErr != nil {
			console.Failure(out, "%v", runErr)
			return runErr
		}
		console.Info(out, "status: %s", outcome.Status)
		return nil
	},
}

func init() {
	analyzeMarksCmd.Flags().IntVar(&previewRows, "preview", 5, "number of processed rows to preview (0 for all)")
	analyzeCmd.AddCommand(analyzeMarksCmd)
}
