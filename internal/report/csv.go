// internal/report/csv.go
package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/mwiater/edumetrics/internal/grading"
	"github.com/mwiater/edumetrics/internal/marks"
	"github.com/mwiater/edumetrics/internal/metrics"
	"github.com/mwiater/edumetrics/internal/performance"
)

// SummaryHeader is the meta columns, then the subjects, then total,
// percentage and grade.
func SummaryHeader(metaColumns, subjects []string) []string {
	header := make([]string, 0, len(metaColumns)+len(subjects)+3)
	header = append(header, metaColumns...)
	header = append(header, subjects...)
	return append(header, TotalColumn, PercentageColumn, GradeColumn)
}

// SummaryRows renders one row per record. Missing values are empty cells.
func SummaryRows(metaColumns, subjects []string, perfs []performance.Performance) [][]string {
	rows := make([][]string, 0, len(perfs)+1)
	rows = append(rows, SummaryHeader(metaColumns, subjects))
	for _, p := range perfs {
		row := make([]string, 0, len(metaColumns)+len(subjects)+3)
		for _, c := range metaColumns {
			row = append(row, p.Meta[c])
		}
		for _, s := range subjects {
			row = append(row, p.Mark(s).String())
		}
		row = append(row, p.Total.String(), p.Percentage.String(), string(p.Grade))
		rows = append(rows, row)
	}
	return rows
}

// WriteSummary writes summary.csv.
func WriteSummary(path string, metaColumns, subjects []string, perfs []performance.Performance) error {
	return outputError(SummaryFile, path, writeCSV(path, SummaryRows(metaColumns, subjects, perfs)))
}

// StatsRows renders subject_stats.csv. Subjects without marks keep their
// count and leave every statistic empty.
func StatsRows(stats []metrics.SubjectStatistic) [][]string {
	rows := make([][]string, 0, len(stats)+1)
	rows = append(rows, StatsHeader)
	for _, s := range stats {
		rows = append(rows, []string{
			s.Subject,
			strconv.Itoa(s.Count),
			s.Mean.String(),
			s.Median.String(),
			s.Max.String(),
			s.Min.String(),
			s.StdDev.String(),
		})
	}
	return rows
}

// WriteSubjectStats writes subject_stats.csv.
func WriteSubjectStats(path string, stats []metrics.SubjectStatistic) error {
	return outputError(StatsFile, path, writeCSV(path, StatsRows(stats)))
}

// PivotRows renders the student by semester matrix with empty cells for
// absent pairs.
func PivotRows(pivot metrics.Pivot) [][]string {
	rows := make([][]string, 0, len(pivot.Rows)+1)
	header := append([]string{"student_id", "name"}, pivot.Semesters...)
	rows = append(rows, header)
	for _, r := range pivot.Rows {
		row := make([]string, 0, len(header))
		row = append(row, r.ID, r.Name)
		for _, sem := range pivot.Semesters {
			v, _ := r.Cell(sem)
			row = append(row, v.String())
		}
		rows = append(rows, row)
	}
	return rows
}

// WritePivot writes student_semester_percentages.csv.
func WritePivot(path string, pivot metrics.Pivot) error {
	return outputError(PivotFile, path, writeCSV(path, PivotRows(pivot)))
}

func writeCSV(path string, rows [][]string) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create CSV file: %w", err)
	}
	writer := csv.NewWriter(file)
	if err := writer.WriteAll(rows); err != nil {
		file.Close()
		return fmt.Errorf("write CSV rows: %w", err)
	}
	return file.Close()
}

// SummaryRow is one parsed line of summary.csv.
type SummaryRow struct {
	Meta       map[string]string
	Marks      map[string]marks.Value
	Total      marks.Value
	Percentage marks.Value
	Grade      grading.Grade
}

// Summary is a parsed summary.csv.
type Summary struct {
	Header   []string
	Subjects []string
	Rows     []SummaryRow
}

// ReadSummary parses a summary.csv written by WriteSummary. Columns named
// in metaColumns are read as text; every other column before the trailing
// total, percentage and grade is a subject.
func ReadSummary(path string, metaColumns []string) (*Summary, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open summary %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read summary %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("read summary %s: %w: no header row", path, marks.ErrMalformedTable)
	}

	header := records[0]
	n := len(header)
	if n < 3 || header[n-3] != TotalColumn || header[n-2] != PercentageColumn || header[n-1] != GradeColumn {
		return nil, fmt.Errorf("read summary %s: %w: header does not end with %s,%s,%s",
			path, marks.ErrMalformedTable, TotalColumn, PercentageColumn, GradeColumn)
	}

	isMeta := make(map[string]bool, len(metaColumns))
	for _, c := range metaColumns {
		isMeta[c] = true
	}
	summary := &Summary{Header: header}
	for _, c := range header[:n-3] {
		if !isMeta[c] {
			summary.Subjects = append(summary.Subjects, c)
		}
	}

	for line, rec := range records[1:] {
		row := SummaryRow{
			Meta:  make(map[string]string),
			Marks: make(map[string]marks.Value),
			Grade: grading.Grade(rec[n-1]),
		}
		for i, c := range header[:n-3] {
			if isMeta[c] {
				row.Meta[c] = rec[i]
				continue
			}
			v, ok := marks.ParseValue(rec[i])
			if !ok {
				return nil, fmt.Errorf("read summary %s line %d: %w: %s=%q is not a number", path, line+2, marks.ErrMalformedTable, c, rec[i])
			}
			row.Marks[c] = v
		}
		var ok bool
		if row.Total, ok = marks.ParseValue(rec[n-3]); !ok {
			return nil, fmt.Errorf("read summary %s line %d: %w: bad total %q", path, line+2, marks.ErrMalformedTable, rec[n-3])
		}
		if row.Percentage, ok = marks.ParseValue(rec[n-2]); !ok {
			return nil, fmt.Errorf("read summary %s line %d: %w: bad percentage %q", path, line+2, marks.ErrMalformedTable, rec[n-2])
		}
		summary.Rows = append(summary.Rows, row)
	}
	return summary, nil
}
