// internal/pipeline/pipeline.go
// Package pipeline runs the marks analysis from source file to artifacts.
package pipeline

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/mwiater/edumetrics/internal/logging"
	"github.com/mwiater/edumetrics/internal/marks"
	"github.com/mwiater/edumetrics/internal/metrics"
	"github.com/mwiater/edumetrics/internal/performance"
	"github.com/mwiater/edumetrics/internal/report"
	"github.com/rs/zerolog/log"
)

// Status summarises how a run ended.
type Status string

const (
	// StatusOK means every step succeeded without data-quality issues.
	StatusOK Status = "ok"
	// StatusDegraded means outputs were written but issues were recorded.
	StatusDegraded Status = "degraded"
	// StatusFailed means the run stopped early or an output could not be written.
	StatusFailed Status = "failed"
)

// Options controls a run.
type Options struct {
	DataPath     string
	OutputDir    string
	Meta         marks.MetaColumns
	Performance  performance.Config
	Duplicates   metrics.DuplicatePolicy
	TopN         int
	HTML         bool
	AnalysisJSON bool
	Workbook     bool
	Now          func() time.Time
}

// Dataset is a loaded table with its inferred subjects and records.
type Dataset struct {
	Table         *marks.Table
	Source        metrics.SourceInfo
	MetaColumns   []string
	Subjects      []string
	EmptySubjects []string
	Records       []marks.Record
	Issues        []metrics.Issue
}

// Outcome is the result of Analyze or Run.
type Outcome struct {
	Status       Status
	Dataset      *Dataset
	Performances []performance.Performance
	Analysis     metrics.Analysis
	Written      []string
}

// Prepare loads the table, infers subjects and builds records. Subject
// columns are coerced exactly once.
func Prepare(path string, meta marks.MetaColumns) (*Dataset, error) {
	table, err := marks.Load(path)
	if err != nil {
		return nil, err
	}
	format, _ := marks.DetectFormat(path)
	meta = meta.WithDefaults()

	subjects := marks.InferSubjects(table, meta)
	ds := &Dataset{
		Table: table,
		Source: metrics.SourceInfo{
			Path:    path,
			Format:  format,
			Rows:    table.Len(),
			Columns: table.Columns,
		},
		MetaColumns:   meta.Resolve(table).Columns(table),
		Subjects:      subjects,
		EmptySubjects: marks.EmptySubjects(table, subjects),
		Records:       marks.BuildRecords(table, subjects, meta),
	}

	for _, s := range subjects {
		if n := table.Unparseable(s); n > 0 {
			ds.Issues = append(ds.Issues, metrics.Issue{
				Kind:     metrics.IssueUnparseableValues,
				Subject:  s,
				Severity: "warning",
				Count:    n,
				Message:  fmt.Sprintf("column %q has %d non-numeric value(s) treated as missing", s, n),
			})
			log.Warn().Str("subject", s).Int("cells", n).Msg("non-numeric marks treated as missing")
		}
	}
	for _, s := range ds.EmptySubjects {
		log.Warn().Str("subject", s).Msg("subject column has no marks")
	}

	logging.LogEvent("loaded %s: %d rows, %d subjects", path, table.Len(), len(subjects))
	return ds, nil
}

// Analyze prepares the dataset, aggregates every record and derives the
// statistics, pivot, ranking, overview and trends without writing files.
func Analyze(opts Options) (*Outcome, error) {
	if err := opts.Performance.Validate(); err != nil {
		return &Outcome{Status: StatusFailed}, err
	}

	ds, err := Prepare(opts.DataPath, opts.Meta)
	if err != nil {
		return &Outcome{Status: StatusFailed}, err
	}

	perfs, err := performance.Aggregate(ds.Records, ds.Subjects, opts.Performance)
	if err != nil {
		return &Outcome{Status: StatusFailed, Dataset: ds}, err
	}

	analysis := metrics.AnalyzePerformance(perfs, ds.Subjects, metrics.AnalysisOptions{
		Source:     ds.Source,
		Config:     opts.Performance,
		Meta:       opts.Meta.WithDefaults(),
		Duplicates: opts.Duplicates,
		TopN:       opts.TopN,
		Now:        opts.Now,
	})
	analysis.Issues = append(append([]metrics.Issue(nil), ds.Issues...), analysis.Issues...)

	outcome := &Outcome{
		Status:       StatusOK,
		Dataset:      ds,
		Performances: perfs,
		Analysis:     analysis,
	}
	if len(analysis.Issues) > 0 {
		outcome.Status = StatusDegraded
	}
	return outcome, nil
}

// Run analyzes the source and writes every enabled artifact into the
// output directory. Each artifact is written independently; failures are
// joined and mark the outcome failed without touching files already written.
func Run(opts Options) (*Outcome, error) {
	outcome, err := Analyze(opts)
	if err != nil {
		return outcome, err
	}

	ds := outcome.Dataset
	dir := opts.OutputDir
	path := func(name string) string { return filepath.Join(dir, name) }

	type step struct {
		path  string
		write func(string) error
	}
	steps := []step{
		{path(report.SummaryFile), func(p string) error {
			return report.WriteSummary(p, ds.MetaColumns, ds.Subjects, outcome.Performances)
		}},
		{path(report.StatsFile), func(p string) error {
			return report.WriteSubjectStats(p, outcome.Analysis.SubjectStats)
		}},
		{path(report.PivotFile), func(p string) error {
			return report.WritePivot(p, outcome.Analysis.Pivot)
		}},
	}
	if opts.AnalysisJSON {
		steps = append(steps, step{path(report.AnalysisFile), func(p string) error {
			return report.WriteAnalysisJSON(p, outcome.Analysis)
		}})
	}
	if opts.HTML {
		steps = append(steps, step{path(report.HTMLFile), func(p string) error {
			return report.WriteHTML(p, outcome.Analysis)
		}})
	}
	if opts.Workbook {
		steps = append(steps, step{path(report.WorkbookFile), func(p string) error {
			return report.WriteWorkbook(p, ds.MetaColumns, ds.Subjects, outcome.Performances, outcome.Analysis)
		}})
	}

	var errs []error
	for _, s := range steps {
		if err := s.write(s.path); err != nil {
			log.Error().Err(err).Str("path", s.path).Msg("output not written")
			errs = append(errs, err)
			continue
		}
		outcome.Written = append(outcome.Written, s.path)
		logging.LogEvent("wrote %s", s.path)
	}

	if len(errs) > 0 {
		outcome.Status = StatusFailed
		return outcome, errors.Join(errs...)
	}
	return outcome, nil
}
