// internal/commands/show_views.go
package edumetrics

import (
	"fmt"
	"io"

	"github.com/mwiater/edumetrics/internal/console"
	"github.com/mwiater/edumetrics/internal/grading"
	"github.com/mwiater/edumetrics/internal/metrics"
	"github.com/mwiater/edumetrics/internal/pipeline"
	"github.com/spf13/cobra"
)

var topGrades []string

// analysisView renders one part of an analysis in the requested format.
type analysisView func(out io.Writer, format string, outcome *pipeline.Outcome) error

// newViewCommand builds a 'show <view>' command that analyzes the
// configured table without writing any artifacts.
func newViewCommand(use, short string, view analysisView) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if JSONModeEnabled() {
				format = console.FormatJSON
			}
			if !console.ValidFormat(format) {
				return fmt.Errorf("unsupported format %q (use table, json or yaml)", format)
			}
			opts, err := pipelineOptions(GetConfig())
			if err != nil {
				return err
			}
			outcome, err := pipeline.Analyze(opts)
			if err != nil {
				return err
			}
			return view(cmd.OutOrStdout(), format, outcome)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", console.FormatTable, "output format: table, json or yaml")
	return cmd
}

var showTopCmd = newViewCommand("top", "Show the top performers by percentage",
	func(out io.Writer, format string, outcome *pipeline.Outcome) error {
		perfs := outcome.Performances
		if len(topGrades) > 0 {
			grades := make([]grading.Grade, 0, len(topGrades))
			for _, g := range topGrades {
				grades = append(grades, grading.Grade(g))
			}
			perfs = metrics.FilterByGrade(perfs, grades...)
		}
		entries := metrics.RankingEntries(metrics.Rank(perfs, outcome.Analysis.Config.TopN))
		return console.Print(out, format, entries, func() { console.Ranking(out, entries) })
	})

var showStatsCmd = newViewCommand("stats", "Show per-subject statistics",
	func(out io.Writer, format string, outcome *pipeline.Outcome) error {
		stats := outcome.Analysis.SubjectStats
		return console.Print(out, format, stats, func() { console.SubjectStats(out, stats) })
	})

var showPivotCmd = newViewCommand("pivot", "Show percentages by student and semester",
	func(out io.Writer, format string, outcome *pipeline.Outcome) error {
		pivot := outcome.Analysis.Pivot
		return console.Print(out, format, pivot, func() { console.Pivot(out, pivot) })
	})

var showOverviewCmd = newViewCommand("overview", "Show the class overview and grade distribution",
	func(out io.Writer, format string, outcome *pipeline.Outcome) error {
		ov := outcome.Analysis.Overview
		return console.Print(out, format, ov, func() {
			console.Overview(out, ov)
			console.Issues(out, outcome.Analysis.Issues)
		})
	})

func init() {
	showTopCmd.Flags().StringSliceVar(&topGrades, "grade", nil, "only rank students with these grades (e.g. A+,A)")
	showCmd.AddCommand(showTopCmd, showStatsCmd, showPivotCmd, showOverviewCmd)
}
