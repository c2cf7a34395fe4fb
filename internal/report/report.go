// internal/report/report.go
// Package report writes the flat output artifacts of an analysis run.
package report

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrOutputWrite is wrapped by every OutputError.
var ErrOutputWrite = errors.New("output write failed")

// Artifact file names inside the output directory.
const (
	SummaryFile  = "summary.csv"
	StatsFile    = "subject_stats.csv"
	PivotFile    = "student_semester_percentages.csv"
	AnalysisFile = "analysis.json"
	HTMLFile     = "report.html"
	WorkbookFile = "summary.xlsx"
)

// Column names appended to the summary after the subjects.
const (
	TotalColumn      = "total_marks"
	PercentageColumn = "percentage"
	GradeColumn      = "grade"
)

// StatsHeader is the header row of subject_stats.csv.
var StatsHeader = []string{"subject", "count", "avg", "median", "max", "min", "std"}

// OutputError reports a single artifact that could not be written.
type OutputError struct {
	Artifact string
	Path     string
	Err      error
}

func (e *OutputError) Error() string {
	return fmt.Sprintf("write %s (%s): %v", e.Artifact, e.Path, e.Err)
}

// Unwrap exposes both ErrOutputWrite and the underlying cause.
func (e *OutputError) Unwrap() []error {
	return []error{ErrOutputWrite, e.Err}
}

func outputError(artifact, path string, err error) error {
	if err == nil {
		return nil
	}
	return &OutputError{Artifact: artifact, Path: path, Err: err}
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("unable to create directory for %s: %w", path, err)
	}
	return nil
}
