package report

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mwiater/edumetrics/internal/grading"
	"github.com/mwiater/edumetrics/internal/marks"
	"github.com/mwiater/edumetrics/internal/metrics"
	"github.com/mwiater/edumetrics/internal/performance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const fixtureCSV = `student_id,name,semester,math,science,art
1,Asha,1,95,85,
2,Ben,1,40,30,
3,Cy,2,70,,
1,Asha,2,33.3,66.7,
`

type fixture struct {
	meta     []string
	subjects []string
	perfs    []performance.Performance
	analysis metrics.Analysis
}

func loadFixture(t *testing.T, cfg performance.Config) fixture {
	t.Helper()
	table, err := marks.ReadCSV(strings.NewReader(fixtureCSV))
	require.NoError(t, err)
	meta := marks.DefaultMetaColumns()
	subjects := marks.InferSubjects(table, meta)
	records := marks.BuildRecords(table, subjects, meta)
	perfs, err := performance.Aggregate(records, subjects, cfg)
	require.NoError(t, err)
	analysis := metrics.AnalyzePerformance(perfs, subjects, metrics.AnalysisOptions{
		Config:     cfg,
		Meta:       meta,
		Duplicates: metrics.KeepLast,
		TopN:       10,
	})
	return fixture{
		meta:     meta.Resolve(table).Columns(table),
		subjects: subjects,
		perfs:    perfs,
		analysis: analysis,
	}
}

func TestSummaryRoundTrip(t *testing.T) {
	for _, policy := range []performance.Policy{performance.Strict, performance.ZeroFill} {
		cfg := performance.DefaultConfig()
		cfg.Policy = policy
		fx := loadFixture(t, cfg)

		path := filepath.Join(t.TempDir(), "out", SummaryFile)
		require.NoError(t, WriteSummary(path, fx.meta, fx.subjects, fx.perfs))

		summary, err := ReadSummary(path, fx.meta)
		require.NoError(t, err)
		assert.Equal(t, fx.subjects, summary.Subjects)
		require.Len(t, summary.Rows, len(fx.perfs))

		for i, p := range fx.perfs {
			row := summary.Rows[i]
			assert.Equal(t, p.ID, row.Meta["student_id"])
			assert.Equal(t, p.Name, row.Meta["name"])
			for _, s := range fx.subjects {
				assert.Equal(t, p.Mark(s), row.Marks[s], "%s row %d %s", policy, i, s)
			}
			assert.Equal(t, p.Total, row.Total, "%s row %d", policy, i)
			assert.Equal(t, p.Percentage, row.Percentage, "%s row %d", policy, i)
			assert.Equal(t, p.Grade, row.Grade, "%s row %d", policy, i)
		}
	}
}

func TestSummaryMissingValuesAreEmpty(t *testing.T) {
	fx := loadFixture(t, performance.DefaultConfig())
	rows := SummaryRows(fx.meta, fx.subjects, fx.perfs)

	assert.Equal(t, []string{"student_id", "name", "semester", "math", "science", "art", "total_marks", "percentage", "grade"}, rows[0])
	assert.Equal(t, []string{"1", "Asha", "1", "95", "85", "", "", "", "NA"}, rows[1])
}

func TestReadSummaryRejectsForeignHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	require.NoError(t, os.WriteFile(path, []byte("a,b\n1,2\n"), 0o644))
	_, err := ReadSummary(path, nil)
	assert.ErrorIs(t, err, marks.ErrMalformedTable)
}

func TestSubjectStatsCSV(t *testing.T) {
	cfg := performance.DefaultConfig()
	cfg.Policy = performance.ZeroFill
	fx := loadFixture(t, cfg)

	rows := StatsRows(fx.analysis.SubjectStats)
	assert.Equal(t, StatsHeader, rows[0])
	assert.Equal(t, []string{"math", "4", "59.575", "55", "95", "33.3", rows[1][6]}, rows[1])
	assert.Equal(t, []string{"art", "0", "", "", "", "", ""}, rows[3], "no-data subject keeps empty stats")

	path := filepath.Join(t.TempDir(), StatsFile)
	require.NoError(t, WriteSubjectStats(path, fx.analysis.SubjectStats))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "subject,count,avg,median,max,min,std\n"))
}

func TestPivotCSV(t *testing.T) {
	cfg := performance.DefaultConfig()
	cfg.Policy = performance.ZeroFill
	fx := loadFixture(t, cfg)

	rows := PivotRows(fx.analysis.Pivot)
	assert.Equal(t, []string{"student_id", "name", "1", "2"}, rows[0])
	assert.Equal(t, "Asha", rows[1][1])
	assert.Equal(t, "60", rows[1][2])
	assert.Equal(t, "Ben", rows[2][1])
	assert.Equal(t, "", rows[2][3], "Ben has no semester 2 record")
	assert.Equal(t, "", rows[3][2], "Cy has no semester 1 record")

	path := filepath.Join(t.TempDir(), PivotFile)
	require.NoError(t, WritePivot(path, fx.analysis.Pivot))
	_, err := os.Stat(path)
	require.NoError(t, err)
}

func TestWriteAnalysisJSONAndHTML(t *testing.T) {
	fx := loadFixture(t, performance.DefaultConfig())
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "nested", AnalysisFile)
	require.NoError(t, WriteAnalysisJSON(jsonPath, fx.analysis))
	data, err := os.ReadFile(jsonPath)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, fx.analysis.RunID, decoded["runId"])
	assert.Contains(t, decoded, "subjectStats")
	assert.Contains(t, decoded, "pivot")

	htmlPath := filepath.Join(dir, HTMLFile)
	require.NoError(t, WriteHTML(htmlPath, fx.analysis))
	html, err := os.ReadFile(htmlPath)
	require.NoError(t, err)
	assert.Contains(t, string(html), "Asha")
}

func TestWriteWorkbook(t *testing.T) {
	cfg := performance.DefaultConfig()
	cfg.Policy = performance.ZeroFill
	cfg.Scheme = grading.FiveBand
	fx := loadFixture(t, cfg)

	path := filepath.Join(t.TempDir(), WorkbookFile)
	require.NoError(t, WriteWorkbook(path, fx.meta, fx.subjects, fx.perfs, fx.analysis))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{SummarySheet, StatsSheet, SemestersSheet}, f.GetSheetList())

	rows, err := f.GetRows(SummarySheet)
	require.NoError(t, err)
	require.Len(t, rows, len(fx.perfs)+1)
	assert.Equal(t, "grade", rows[0][len(rows[0])-1])
	assert.Equal(t, "C", rows[1][len(rows[1])-1])
	assert.Equal(t, "180", rows[1][6])

	stats, err := f.GetRows(StatsSheet)
	require.NoError(t, err)
	assert.Equal(t, StatsHeader, stats[0])
}

func TestOutputErrorWrapsSentinel(t *testing.T) {
	dir := t.TempDir()
	blocked := filepath.Join(dir, "taken")
	require.NoError(t, os.Mkdir(blocked, 0o755))

	err := WriteSubjectStats(blocked, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOutputWrite))

	var outErr *OutputError
	require.True(t, errors.As(err, &outErr))
	assert.Equal(t, StatsFile, outErr.Artifact)
	assert.Equal(t, blocked, outErr.Path)
	assert.Contains(t, err.Error(), StatsFile)
}
