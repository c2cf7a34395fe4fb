// internal/metrics/overview.go
package metrics

import (
	"slices"
	"strings"

	"github.com/mwiater/edumetrics/internal/grading"
	"github.com/mwiater/edumetrics/internal/marks"
	"github.com/mwiater/edumetrics/internal/performance"
)

// GradeCount is the number of records holding one grade.
type GradeCount struct {
	Grade grading.Grade `json:"grade"`
	Count int           `json:"count"`
	Share float64       `json:"share"`
}

// Overview summarises a whole class.
type Overview struct {
	Records           int           `json:"records"`
	Students          int           `json:"students"`
	Semesters         int           `json:"semesters"`
	Graded            int           `json:"graded"`
	ClassAverage      marks.Value   `json:"classAverage"`
	TopPerformer      *RankingEntry `json:"topPerformer,omitempty"`
	GradeDistribution []GradeCount  `json:"gradeDistribution"`
}

// BuildOverview counts records and students, averages the present
// percentages and tallies grades in scheme order followed by NA.
func BuildOverview(perfs []performance.Performance, scheme grading.Scheme) Overview {
	ov := Overview{Records: len(perfs)}

	students := make(map[StudentKey]struct{})
	semesters := make(map[string]struct{})
	counts := make(map[grading.Grade]int)
	var present []float64
	for _, p := range perfs {
		students[StudentKey{ID: p.ID, Name: p.Name}] = struct{}{}
		semesters[p.Semester] = struct{}{}
		counts[p.Grade]++
		if v, ok := p.Percentage.Get(); ok {
			present = append(present, v)
		}
	}
	ov.Students = len(students)
	ov.Semesters = len(semesters)
	ov.Graded = len(present)
	if len(present) > 0 {
		ov.ClassAverage = marks.Some(mean(present))
	}

	if top := Rank(perfs, 1); len(top) == 1 && top[0].Percentage.Valid {
		entry := top[0].Entry()
		ov.TopPerformer = &entry
	}

	labels := append(scheme.Labels(), grading.NA)
	for _, label := range labels {
		gc := GradeCount{Grade: label, Count: counts[label]}
		if len(perfs) > 0 {
			gc.Share = float64(gc.Count) / float64(len(perfs))
		}
		ov.GradeDistribution = append(ov.GradeDistribution, gc)
	}
	return ov
}

// FilterByGrade keeps the records holding any of the given grades, in
// input order. No grades keeps nothing.
func FilterByGrade(perfs []performance.Performance, grades ...grading.Grade) []performance.Performance {
	want := make(map[grading.Grade]bool, len(grades))
	for _, g := range grades {
		want[grading.Grade(strings.ToUpper(strings.TrimSpace(string(g))))] = true
	}
	var out []performance.Performance
	for _, p := range perfs {
		if want[grading.Grade(strings.ToUpper(string(p.Grade)))] {
			out = append(out, p)
		}
	}
	return out
}

// TrendPoint is one semester's percentage.
type TrendPoint struct {
	Semester   string  `json:"semester"`
	Percentage float64 `json:"percentage"`
}

// StudentTrend is a student's percentages across semesters.
type StudentTrend struct {
	StudentKey
	Points []TrendPoint `json:"points"`
}

// Trends groups present percentages per student, ordered by semester.
// Students without any present percentage are omitted.
func Trends(perfs []performance.Performance) []StudentTrend {
	index := make(map[StudentKey]int)
	var trends []StudentTrend
	for _, p := range perfs {
		v, ok := p.Percentage.Get()
		if !ok {
			continue
		}
		key := StudentKey{ID: p.ID, Name: p.Name}
		i, seen := index[key]
		if !seen {
			i = len(trends)
			index[key] = i
			trends = append(trends, StudentTrend{StudentKey: key})
		}
		trends[i].Points = append(trends[i].Points, TrendPoint{Semester: p.Semester, Percentage: v})
	}

	for i := range trends {
		slices.SortStableFunc(trends[i].Points, func(a, b TrendPoint) int {
			return compareNatural(a.Semester, b.Semester)
		})
	}
	slices.SortStableFunc(trends, func(a, b StudentTrend) int {
		if c := compareNatural(a.ID, b.ID); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
	return trends
}
