// internal/report/output.go
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/mwiater/edumetrics/internal/metrics"
	"github.com/mwiater/edumetrics/internal/performance"
	"github.com/xuri/excelize/v2"
)

// WriteAnalysisJSON writes the analysis document as indented JSON.
func WriteAnalysisJSON(path string, analysis metrics.Analysis) error {
	return outputError(AnalysisFile, path, writeAnalysisJSON(path, analysis))
}

func writeAnalysisJSON(path string, analysis metrics.Analysis) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	data, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		return fmt.Errorf("unable to marshal analysis JSON: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("unable to write analysis JSON %s: %w", path, err)
	}
	return nil
}

// WriteHTML renders and writes the HTML report.
func WriteHTML(path string, analysis metrics.Analysis) error {
	return outputError(HTMLFile, path, writeHTML(path, analysis))
}

func writeHTML(path string, analysis metrics.Analysis) error {
	html, err := metrics.GenerateReport(analysis)
	if err != nil {
		return fmt.Errorf("failed generating HTML report: %w", err)
	}
	if err := ensureDir(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
		return fmt.Errorf("unable to write HTML report %s: %w", path, err)
	}
	return nil
}

// Workbook sheet names.
const (
	SummarySheet   = "Summary"
	StatsSheet     = "Subject Stats"
	SemestersSheet = "Semesters"
)

// WriteWorkbook writes the summary, subject statistics and pivot as three
// sheets of one XLSX workbook. Numeric cells are stored as numbers.
func WriteWorkbook(path string, metaColumns, subjects []string, perfs []performance.Performance, analysis metrics.Analysis) error {
	return outputError(WorkbookFile, path, writeWorkbook(path, metaColumns, subjects, perfs, analysis))
}

func writeWorkbook(path string, metaColumns, subjects []string, perfs []performance.Performance, analysis metrics.Analysis) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return fmt.Errorf("rename default sheet: %w", err)
	}
	if _, err := f.NewSheet(StatsSheet); err != nil {
		return fmt.Errorf("create sheet %s: %w", StatsSheet, err)
	}
	if _, err := f.NewSheet(SemestersSheet); err != nil {
		return fmt.Errorf("create sheet %s: %w", SemestersSheet, err)
	}

	sheets := []struct {
		name    string
		numeric func(col int) bool
		rows    [][]string
	}{
		{
			name:    SummarySheet,
			numeric: func(col int) bool { return col >= len(metaColumns) && col < len(metaColumns)+len(subjects)+2 },
			rows:    SummaryRows(metaColumns, subjects, perfs),
		},
		{
			name:    StatsSheet,
			numeric: func(col int) bool { return col > 0 },
			rows:    StatsRows(analysis.SubjectStats),
		},
		{
			name:    SemestersSheet,
			numeric: func(col int) bool { return col > 1 },
			rows:    PivotRows(analysis.Pivot),
		},
	}

	for _, sheet := range sheets {
		for r, row := range sheet.rows {
			cells := make([]interface{}, len(row))
			for c, raw := range row {
				cells[c] = workbookCell(raw, r > 0 && sheet.numeric(c))
			}
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(sheet.name, cell, &cells); err != nil {
				return fmt.Errorf("write sheet %s row %d: %w", sheet.name, r+1, err)
			}
		}
	}

	f.SetActiveSheet(0)
	return f.SaveAs(path)
}

// workbookCell stores parseable numbers as numbers and blanks as nil so
// missing values stay empty cells.
func workbookCell(raw string, numeric bool) interface{} {
	if raw == "" {
		return nil
	}
	if numeric {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			return v
		}
	}
	return raw
}
