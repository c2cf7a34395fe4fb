package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/mwiater/edumetrics/internal/grading"
	"github.com/mwiater/edumetrics/internal/marks"
	"github.com/mwiater/edumetrics/internal/performance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func perf(index int, id, name, semester string, pct marks.Value, grade grading.Grade) performance.Performance {
	return performance.Performance{
		Record: marks.Record{Index: index, ID: id, Name: name, Semester: semester},
		Result: performance.Result{Percentage: pct, Total: pct, Grade: grade},
	}
}

func TestHelperStats(t *testing.T) {
	sorted := []float64{70, 80, 90}
	if got := mean(sorted); got != 80 {
		t.Fatalf("mean=%v want 80", got)
	}
	if got := median(sorted); got != 80 {
		t.Fatalf("median=%v want 80", got)
	}
	if got := median([]float64{1, 2, 3, 4}); got != 2.5 {
		t.Fatalf("even median=%v want 2.5", got)
	}
	if got := sampleStdDev(sorted, 80); got != 10 {
		t.Fatalf("stddev=%v want 10", got)
	}
}

func TestDescribeLeavesInputOrder(t *testing.T) {
	values := []float64{80, 90, 70}
	stat := describe("math", values)
	assert.Equal(t, marks.Some(70), stat.Min)
	assert.Equal(t, marks.Some(90), stat.Max)
	assert.Equal(t, []float64{80, 90, 70}, values)
}

func TestCompareNatural(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"2", "10", -1},
		{"10", "2", 1},
		{"1", "Fall", -1},
		{"Fall", "Spring", -1},
		{"3", "3", 0},
		{"Sem 2", "Sem 10", -1},
		{"Sem 10", "Sem 2", 1},
		{"2023-S2", "2023-S10", -1},
		{"Sem 2", "Sem 2b", -1},
		{"02", "2", -1},
		{"99999999999999999999", "100000000000000000000", -1},
	}
	for _, tt := range tests {
		if got := compareNatural(tt.a, tt.b); got != tt.want {
			t.Fatalf("compareNatural(%q,%q)=%d want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestSubjectStatistics(t *testing.T) {
	records := []marks.Record{
		{Marks: map[string]marks.Value{"math": marks.Some(80), "art": marks.Missing(), "bio": marks.Some(50)}},
		{Marks: map[string]marks.Value{"math": marks.Some(90), "art": marks.Missing()}},
		{Marks: map[string]marks.Value{"math": marks.Some(70), "art": marks.Missing()}},
	}
	stats := SubjectStatistics(records, []string{"math", "art", "bio"})
	require.Len(t, stats, 3)

	math := stats[0]
	assert.Equal(t, "math", math.Subject)
	assert.Equal(t, 3, math.Count)
	assert.Equal(t, marks.Some(80), math.Mean)
	assert.Equal(t, marks.Some(80), math.Median)
	assert.Equal(t, marks.Some(90), math.Max)
	assert.Equal(t, marks.Some(70), math.Min)
	assert.Equal(t, marks.Some(10), math.StdDev)
	assert.False(t, math.NoData())

	art := stats[1]
	assert.True(t, art.NoData())
	for _, v := range []marks.Value{art.Mean, art.Median, art.Max, art.Min, art.StdDev} {
		assert.False(t, v.Valid)
	}

	bio := stats[2]
	assert.Equal(t, 1, bio.Count)
	assert.Equal(t, marks.Some(50), bio.Mean)
	assert.False(t, bio.StdDev.Valid, "one mark has no sample deviation")
}

func TestSubjectStatisticsOrdering(t *testing.T) {
	records := []marks.Record{
		{Marks: map[string]marks.Value{"a": marks.Some(12), "b": marks.Some(3)}},
		{Marks: map[string]marks.Value{"a": marks.Some(7), "b": marks.Missing()}},
		{Marks: map[string]marks.Value{"a": marks.Some(99), "b": marks.Some(41)}},
	}
	for _, s := range SubjectStatistics(records, []string{"a", "b"}) {
		assert.LessOrEqual(t, s.Min.Float64, s.Median.Float64, s.Subject)
		assert.LessOrEqual(t, s.Median.Float64, s.Max.Float64, s.Subject)
		assert.LessOrEqual(t, s.Min.Float64, s.Mean.Float64, s.Subject)
		assert.LessOrEqual(t, s.Mean.Float64, s.Max.Float64, s.Subject)
	}
}

func pivotFixture() []performance.Performance {
	return []performance.Performance{
		perf(0, "1", "Ann", "2", marks.Some(80), "A"),
		perf(1, "1", "Ann", "10", marks.Some(90), "A+"),
		perf(2, "2", "Bob", "1", marks.Some(70), "B"),
		perf(3, "1", "Ann", "2", marks.Some(60), "C"),
		perf(4, "10", "Cy", "1", marks.Missing(), grading.NA),
	}
}

func TestBuildPivotLayout(t *testing.T) {
	pivot, dups := BuildPivot(pivotFixture(), KeepLast)

	assert.Equal(t, []string{"1", "2", "10"}, pivot.Semesters)
	require.Len(t, pivot.Rows, 3)
	assert.Equal(t, StudentKey{ID: "1", Name: "Ann"}, pivot.Rows[0].StudentKey)
	assert.Equal(t, StudentKey{ID: "2", Name: "Bob"}, pivot.Rows[1].StudentKey)
	assert.Equal(t, StudentKey{ID: "10", Name: "Cy"}, pivot.Rows[2].StudentKey)

	v, ok := pivot.Rows[0].Cell("2")
	assert.True(t, ok)
	assert.Equal(t, marks.Some(60), v)

	_, ok = pivot.Rows[1].Cell("2")
	assert.False(t, ok, "absent pair has no cell")

	v, ok = pivot.Rows[2].Cell("1")
	assert.True(t, ok, "missing percentage still yields a cell")
	assert.False(t, v.Valid)

	require.Len(t, dups, 1)
	assert.Equal(t, "2", dups[0].Semester)
	assert.Equal(t, []int{0, 3}, dups[0].Records)
}

func TestBuildPivotDuplicatePolicies(t *testing.T) {
	tests := []struct {
		policy DuplicatePolicy
		want   marks.Value
	}{
		{KeepLast, marks.Some(60)},
		{KeepFirst, marks.Some(80)},
		{MeanOfDuplicates, marks.Some(70)},
	}
	for _, tt := range tests {
		pivot, _ := BuildPivot(pivotFixture(), tt.policy)
		got, _ := pivot.Rows[0].Cell("2")
		if got != tt.want {
			t.Fatalf("policy %s: cell=%v want %v", tt.policy, got, tt.want)
		}
	}
}

func TestBuildPivotNoDuplicatesMatchesPercentages(t *testing.T) {
	perfs := []performance.Performance{
		perf(0, "1", "Ann", "1", marks.Some(55.5), "D"),
		perf(1, "1", "Ann", "2", marks.Some(61.25), "C"),
		perf(2, "2", "Bob", "2", marks.Some(99), "A+"),
	}
	pivot, dups := BuildPivot(perfs, KeepLast)
	assert.Empty(t, dups)

	rows := make(map[StudentKey]PivotRow)
	for _, r := range pivot.Rows {
		rows[r.StudentKey] = r
	}
	for _, p := range perfs {
		got, ok := rows[StudentKey{ID: p.ID, Name: p.Name}].Cell(p.Semester)
		require.True(t, ok)
		assert.Equal(t, p.Percentage, got)
	}
}

func TestParseDuplicatePolicy(t *testing.T) {
	p, err := ParseDuplicatePolicy("")
	require.NoError(t, err)
	assert.Equal(t, KeepLast, p)

	p, err = ParseDuplicatePolicy("MEAN")
	require.NoError(t, err)
	assert.Equal(t, MeanOfDuplicates, p)

	_, err = ParseDuplicatePolicy("sum")
	assert.Error(t, err)
}

func TestRank(t *testing.T) {
	perfs := []performance.Performance{
		perf(0, "1", "Ann", "1", marks.Some(90), "A+"),
		perf(1, "2", "Bob", "1", marks.Missing(), grading.NA),
		perf(2, "3", "Cy", "1", marks.Some(35), "F"),
		perf(3, "4", "Di", "1", marks.Some(90), "A+"),
	}

	all := Rank(perfs, 0)
	require.Len(t, all, 4)
	gotIdx := []int{all[0].Index, all[1].Index, all[2].Index, all[3].Index}
	assert.Equal(t, []int{0, 3, 2, 1}, gotIdx)
	for i, r := range all {
		assert.Equal(t, i+1, r.Position)
	}

	top := Rank(perfs, 1)
	require.Len(t, top, 1)
	assert.Equal(t, 0, top[0].Index)

	assert.Len(t, Rank(perfs, 10), 4)
	assert.Empty(t, Rank(nil, 3))
	assert.Equal(t, 1, perfs[1].Index, "input order untouched")
	assert.Equal(t, 2, perfs[2].Index, "input order untouched")
}

func TestRankIsNonIncreasing(t *testing.T) {
	perfs := []performance.Performance{
		perf(0, "a", "a", "1", marks.Some(12.5), "F"),
		perf(1, "b", "b", "1", marks.Some(77), "B"),
		perf(2, "c", "c", "1", marks.Missing(), grading.NA),
		perf(3, "d", "d", "1", marks.Some(77), "B"),
		perf(4, "e", "e", "1", marks.Some(100), "A+"),
	}
	ranked := Rank(perfs, 0)
	for i := 1; i < len(ranked); i++ {
		prev, cur := ranked[i-1].Percentage, ranked[i].Percentage
		if !cur.Valid {
			continue
		}
		require.True(t, prev.Valid)
		assert.GreaterOrEqual(t, prev.Float64, cur.Float64)
	}
	assert.Equal(t, 1, ranked[1].Index)
	assert.Equal(t, 3, ranked[2].Index)
}

func TestBuildOverview(t *testing.T) {
	perfs := []performance.Performance{
		perf(0, "1", "Ann", "1", marks.Some(90), "A+"),
		perf(1, "1", "Ann", "2", marks.Some(70), "B"),
		perf(2, "2", "Bob", "1", marks.Missing(), grading.NA),
		perf(3, "3", "Cy", "1", marks.Some(50), "D"),
	}
	ov := BuildOverview(perfs, grading.SixBand)
	assert.Equal(t, 4, ov.Records)
	assert.Equal(t, 3, ov.Students)
	assert.Equal(t, 2, ov.Semesters)
	assert.Equal(t, 3, ov.Graded)
	assert.Equal(t, marks.Some(70), ov.ClassAverage)
	require.NotNil(t, ov.TopPerformer)
	assert.Equal(t, "Ann", ov.TopPerformer.Name)

	require.Len(t, ov.GradeDistribution, 7)
	assert.Equal(t, grading.Grade("A+"), ov.GradeDistribution[0].Grade)
	assert.Equal(t, 1, ov.GradeDistribution[0].Count)
	assert.Equal(t, 0.25, ov.GradeDistribution[0].Share)
	assert.Equal(t, grading.NA, ov.GradeDistribution[6].Grade)
	assert.Equal(t, 1, ov.GradeDistribution[6].Count)

	empty := BuildOverview(nil, grading.FiveBand)
	assert.Nil(t, empty.TopPerformer)
	assert.False(t, empty.ClassAverage.Valid)
}

func TestFilterByGrade(t *testing.T) {
	perfs := pivotFixture()
	got := FilterByGrade(perfs, "a+", "A")
	require.Len(t, got, 2)
	assert.Equal(t, 0, got[0].Index)
	assert.Equal(t, 1, got[1].Index)

	assert.Len(t, FilterByGrade(perfs, grading.NA), 1)
	assert.Empty(t, FilterByGrade(perfs))
}

func TestTrends(t *testing.T) {
	trends := Trends(pivotFixture())
	require.Len(t, trends, 2, "students without percentages are omitted")

	ann := trends[0]
	assert.Equal(t, "Ann", ann.Name)
	semesters := make([]string, len(ann.Points))
	for i, p := range ann.Points {
		semesters[i] = p.Semester
	}
	assert.Equal(t, []string{"2", "2", "10"}, semesters)
	assert.Equal(t, 80.0, ann.Points[0].Percentage)
	assert.Equal(t, "Bob", trends[1].Name)
}

func TestAnalyzePerformance(t *testing.T) {
	perfs := pivotFixture()
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	analysis := AnalyzePerformance(perfs, []string{"math", "art"}, AnalysisOptions{
		Source:     SourceInfo{Path: "marks.csv", Format: marks.FormatCSV, Rows: len(perfs)},
		Config:     performance.DefaultConfig(),
		Meta:       marks.DefaultMetaColumns(),
		Duplicates: KeepLast,
		TopN:       2,
		Now:        func() time.Time { return fixed },
	})

	assert.NotEmpty(t, analysis.RunID)
	assert.Equal(t, fixed, analysis.GeneratedAt)
	assert.Equal(t, grading.SixBandName, analysis.Config.GradingScheme)
	assert.Len(t, analysis.TopPerformers, 2)
	assert.Equal(t, 1, analysis.TopPerformers[0].Position)
	assert.Len(t, analysis.SubjectStats, 2)

	kinds := make(map[IssueKind]int)
	for _, issue := range analysis.Issues {
		kinds[issue.Kind]++
	}
	assert.Equal(t, 2, kinds[IssueEmptySubject], "records carry no marks")
	assert.Equal(t, 1, kinds[IssueDuplicatePivotKey])
	assert.Equal(t, 1, kinds[IssueMissingPercentage])
}

func TestGenerateReport(t *testing.T) {
	perfs := []performance.Performance{
		perf(0, "1", "<Ann>", "1", marks.Some(90), "A+"),
		perf(1, "2", "Bob", "1", marks.Missing(), grading.NA),
	}
	analysis := AnalyzePerformance(perfs, nil, AnalysisOptions{Config: performance.DefaultConfig(), TopN: 5})

	html, err := GenerateReport(analysis)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(html, "<!DOCTYPE html>"))
	assert.Contains(t, html, "Student Performance Report")
	assert.Contains(t, html, "&lt;Ann&gt;")
	assert.NotContains(t, html, "<td><Ann></td>")
	assert.Contains(t, html, `id="analysis-data"`)
	assert.Contains(t, html, analysis.RunID)
}
