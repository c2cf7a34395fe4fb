// internal/console/views.go
package console

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/mwiater/edumetrics/internal/grading"
	"github.com/mwiater/edumetrics/internal/marks"
	"github.com/mwiater/edumetrics/internal/metrics"
	"github.com/mwiater/edumetrics/internal/performance"
)

const maxNameWidth = 28

var gradeStyles = map[grading.Grade]lipgloss.Style{
	"A+": lipgloss.NewStyle().Background(lipgloss.Color("28")).Foreground(lipgloss.Color("230")).Padding(0, 1),
	"A":  lipgloss.NewStyle().Background(lipgloss.Color("34")).Foreground(lipgloss.Color("230")).Padding(0, 1),
	"B":  lipgloss.NewStyle().Background(lipgloss.Color("33")).Foreground(lipgloss.Color("230")).Padding(0, 1),
	"C":  lipgloss.NewStyle().Background(lipgloss.Color("39")).Foreground(lipgloss.Color("0")).Padding(0, 1),
	"D":  lipgloss.NewStyle().Background(lipgloss.Color("220")).Foreground(lipgloss.Color("0")).Padding(0, 1),
	"F":  lipgloss.NewStyle().Background(lipgloss.Color("160")).Foreground(lipgloss.Color("230")).Padding(0, 1),
}

var naStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Background(lipgloss.Color("235")).Padding(0, 1)

// GradeBadge renders a grade as a coloured badge.
func GradeBadge(g grading.Grade) string {
	if style, ok := gradeStyles[g]; ok {
		return style.Render(string(g))
	}
	return naStyle.Render(string(g))
}

func display(v marks.Value) string {
	if !v.Valid {
		return "—"
	}
	return strconv.FormatFloat(v.Float64, 'f', 2, 64)
}

// Ranking prints the top performers.
func Ranking(out io.Writer, entries []metrics.RankingEntry) {
	Heading(out, fmt.Sprintf("Top %d performers", len(entries)))
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			strconv.Itoa(e.Position),
			e.StudentID,
			truncate(e.Name, maxNameWidth),
			e.Semester,
			display(e.Total),
			display(e.Percentage),
			GradeBadge(e.Grade),
		})
	}
	Table(out, []string{"#", "Student ID", "Name", "Semester", "Total", "Percentage", "Grade"}, rows)
}

// SubjectStats prints per-subject statistics.
func SubjectStats(out io.Writer, stats []metrics.SubjectStatistic) {
	Heading(out, "Subject statistics")
	rows := make([][]string, 0, len(stats))
	for _, s := range stats {
		name := s.Subject
		if s.NoData() {
			name += " (no data)"
		}
		rows = append(rows, []string{
			name,
			strconv.Itoa(s.Count),
			display(s.Mean),
			display(s.Median),
			display(s.Max),
			display(s.Min),
			display(s.StdDev),
		})
	}
	Table(out, []string{"Subject", "Count", "Average", "Median", "Max", "Min", "Std Dev"}, rows)
}

// Pivot prints percentages by student and semester.
func Pivot(out io.Writer, pivot metrics.Pivot) {
	Heading(out, "Percentage by semester")
	headers := append([]string{"Student ID", "Name"}, pivot.Semesters...)
	rows := make([][]string, 0, len(pivot.Rows))
	for _, r := range pivot.Rows {
		row := []string{r.ID, truncate(r.Name, maxNameWidth)}
		for _, sem := range pivot.Semesters {
			v, ok := r.Cell(sem)
			if !ok {
				row = append(row, "")
				continue
			}
			row = append(row, display(v))
		}
		rows = append(rows, row)
	}
	Table(out, headers, rows)
}

// Overview prints the class summary and grade distribution.
func Overview(out io.Writer, ov metrics.Overview) {
	Heading(out, "Class overview")
	fmt.Fprintf(out, "Records: %d  Students: %d  Semesters: %d  Graded: %d\n", ov.Records, ov.Students, ov.Semesters, ov.Graded)
	fmt.Fprintf(out, "Class average: %s%%\n", display(ov.ClassAverage))
	if ov.TopPerformer != nil {
		fmt.Fprintf(out, "Top performer: %s (%s) %s%% %s\n",
			ov.TopPerformer.Name, ov.TopPerformer.StudentID, display(ov.TopPerformer.Percentage), GradeBadge(ov.TopPerformer.Grade))
	}
	rows := make([][]string, 0, len(ov.GradeDistribution))
	for _, gc := range ov.GradeDistribution {
		rows = append(rows, []string{GradeBadge(gc.Grade), strconv.Itoa(gc.Count), strconv.FormatFloat(gc.Share*100, 'f', 1, 64)})
	}
	Table(out, []string{"Grade", "Count", "Share %"}, rows)
}

// Preview prints the first n processed records.
func Preview(out io.Writer, perfs []performance.Performance, n int) {
	if n <= 0 || n > len(perfs) {
		n = len(perfs)
	}
	Heading(out, "Processed data preview")
	rows := make([][]string, 0, n)
	for _, p := range perfs[:n] {
		rows = append(rows, []string{
			truncate(p.Name, maxNameWidth),
			p.Semester,
			display(p.Total),
			display(p.Percentage),
			GradeBadge(p.Grade),
		})
	}
	Table(out, []string{"Name", "Semester", "Total", "Percentage", "Grade"}, rows)
}

// Issues prints data-quality issues, or a success line when there are none.
func Issues(out io.Writer, issues []metrics.Issue) {
	if len(issues) == 0 {
		Success(out, "no data-quality issues")
		return
	}
	for _, issue := range issues {
		if issue.Severity == "warning" {
			Warning(out, "%s", issue.Message)
		} else {
			Info(out, "%s", issue.Message)
		}
	}
}
