// internal/metrics/analysis.go
package metrics

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mwiater/edumetrics/internal/grading"
	"github.com/mwiater/edumetrics/internal/marks"
	"github.com/mwiater/edumetrics/internal/performance"
)

// IssueKind names a recoverable data-quality condition.
type IssueKind string

const (
	IssueUnparseableValues IssueKind = "unparseable_values"
	IssueEmptySubject      IssueKind = "empty_subject"
	IssueDuplicatePivotKey IssueKind = "duplicate_pivot_key"
	IssueMissingPercentage IssueKind = "missing_percentage"
)

// Issue is a recoverable condition recorded during a run.
type Issue struct {
	Kind     IssueKind `json:"kind"`
	Subject  string    `json:"subject,omitempty"`
	Severity string    `json:"severity"`
	Count    int       `json:"count,omitempty"`
	Message  string    `json:"message"`
}

// SourceInfo describes the input table.
type SourceInfo struct {
	Path    string       `json:"path"`
	Format  marks.Format `json:"format"`
	Rows    int          `json:"rows"`
	Columns []string     `json:"columns"`
}

// ConfigSummary records the settings a run used.
type ConfigSummary struct {
	MissingPolicy      performance.Policy `json:"missingPolicy"`
	MaxMarksPerSubject float64            `json:"maxMarksPerSubject"`
	GradingScheme      string             `json:"gradingScheme"`
	PivotDuplicates    DuplicatePolicy    `json:"pivotDuplicates"`
	TopN               int                `json:"topN"`
	MetaColumns        marks.MetaColumns  `json:"metaColumns"`
}

// Analysis is the complete result document of one run.
type Analysis struct {
	RunID         string             `json:"runId"`
	GeneratedAt   time.Time          `json:"generatedAt"`
	Source        SourceInfo         `json:"source"`
	Config        ConfigSummary      `json:"config"`
	Subjects      []string           `json:"subjects"`
	Overview      Overview           `json:"overview"`
	SubjectStats  []SubjectStatistic `json:"subjectStats"`
	TopPerformers []RankingEntry     `json:"topPerformers"`
	Pivot         Pivot              `json:"pivot"`
	Trends        []StudentTrend     `json:"trends"`
	Issues        []Issue            `json:"issues"`
}

// AnalysisOptions controls AnalyzePerformance.
type AnalysisOptions struct {
	Source     SourceInfo
	Config     performance.Config
	Meta       marks.MetaColumns
	Duplicates DuplicatePolicy
	TopN       int
	Now        func() time.Time
}

// AnalyzePerformance derives every view over aggregated records and
// flags empty subjects, duplicate pivot keys and missing percentages.
func AnalyzePerformance(perfs []performance.Performance, subjects []string, opts AnalysisOptions) Analysis {
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	scheme := opts.Config.Scheme
	if len(scheme.Bands) == 0 {
		scheme = grading.SixBand
	}

	records := make([]marks.Record, len(perfs))
	for i, p := range perfs {
		records[i] = p.Record
	}

	pivot, duplicates := BuildPivot(perfs, opts.Duplicates)
	analysis := Analysis{
		RunID:       uuid.NewString(),
		GeneratedAt: now().UTC(),
		Source:      opts.Source,
		Config: ConfigSummary{
			MissingPolicy:      opts.Config.Policy,
			MaxMarksPerSubject: opts.Config.MaxMarksPerSubject,
			GradingScheme:      scheme.Name,
			PivotDuplicates:    opts.Duplicates,
			TopN:               opts.TopN,
			MetaColumns:        opts.Meta,
		},
		Subjects:      subjects,
		Overview:      BuildOverview(perfs, scheme),
		SubjectStats:  SubjectStatistics(records, subjects),
		TopPerformers: RankingEntries(Rank(perfs, opts.TopN)),
		Pivot:         pivot,
		Trends:        Trends(perfs),
	}
	analysis.Issues = detectIssues(analysis, duplicates)
	return analysis
}

func detectIssues(analysis Analysis, duplicates []Duplicate) []Issue {
	var issues []Issue
	for _, stat := range analysis.SubjectStats {
		if stat.NoData() {
			issues = append(issues, Issue{
				Kind:     IssueEmptySubject,
				Subject:  stat.Subject,
				Severity: "warning",
				Message:  fmt.Sprintf("subject %q has no marks; statistics are empty", stat.Subject),
			})
		}
	}
	for _, d := range duplicates {
		issues = append(issues, Issue{
			Kind:     IssueDuplicatePivotKey,
			Severity: "warning",
			Count:    len(d.Records),
			Message: fmt.Sprintf("student %q (%s) has %d records for semester %q; kept %s",
				d.ID, d.Name, len(d.Records), d.Semester, analysis.Config.PivotDuplicates),
		})
	}
	if missing := analysis.Overview.Records - analysis.Overview.Graded; missing > 0 {
		issues = append(issues, Issue{
			Kind:     IssueMissingPercentage,
			Severity: "info",
			Count:    missing,
			Message:  fmt.Sprintf("%d of %d records have no percentage under the %s policy", missing, analysis.Overview.Records, analysis.Config.MissingPolicy),
		})
	}
	return issues
}
