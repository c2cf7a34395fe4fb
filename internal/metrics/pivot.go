// internal/metrics/pivot.go
package metrics

import (
	"fmt"
	"slices"
	"strings"

	"github.com/mwiater/edumetrics/internal/marks"
	"github.com/mwiater/edumetrics/internal/performance"
	"github.com/rs/zerolog/log"
)

// DuplicatePolicy resolves several records sharing a (student, semester) cell.
type DuplicatePolicy string

const (
	// KeepLast keeps the percentage of the last record in input order.
	KeepLast DuplicatePolicy = "last"
	// KeepFirst keeps the percentage of the first record in input order.
	KeepFirst DuplicatePolicy = "first"
	// MeanOfDuplicates averages the present percentages.
	MeanOfDuplicates DuplicatePolicy = "mean"
)

// ParseDuplicatePolicy resolves a policy name. An empty name selects KeepLast.
func ParseDuplicatePolicy(name string) (DuplicatePolicy, error) {
	switch DuplicatePolicy(strings.ToLower(strings.TrimSpace(name))) {
	case "", KeepLast:
		return KeepLast, nil
	case KeepFirst:
		return KeepFirst, nil
	case MeanOfDuplicates:
		return MeanOfDuplicates, nil
	default:
		return "", fmt.Errorf("unknown pivot duplicate policy %q (want last, first or mean)", name)
	}
}

// StudentKey identifies a student across semesters.
type StudentKey struct {
	ID   string `json:"studentId"`
	Name string `json:"name"`
}

// PivotRow is one student's percentage per semester. Semesters without a
// record have no cell; a record with a missing percentage has a missing cell.
type PivotRow struct {
	StudentKey
	Cells map[string]marks.Value `json:"cells"`
}

// Cell returns the cell for a semester and whether a record exists for it.
func (r PivotRow) Cell(semester string) (marks.Value, bool) {
	v, ok := r.Cells[semester]
	return v, ok
}

// Pivot is the student by semester percentage matrix.
type Pivot struct {
	Semesters []string   `json:"semesters"`
	Rows      []PivotRow `json:"rows"`
}

// Duplicate describes records that collided on one pivot cell.
type Duplicate struct {
	StudentKey
	Semester string `json:"semester"`
	Records  []int  `json:"records"`
}

// BuildPivot reshapes percentages into a student by semester matrix. Rows
// are ordered by student id then name, semesters in natural order.
func BuildPivot(perfs []performance.Performance, policy DuplicatePolicy) (Pivot, []Duplicate) {
	type cellKey struct {
		student  StudentKey
		semester string
	}

	var (
		students  []StudentKey
		seen      = make(map[StudentKey]bool)
		semesters []string
		seenSem   = make(map[string]bool)
		cells     = make(map[cellKey][]performance.Performance)
		cellOrder []cellKey
	)

	for _, p := range perfs {
		key := StudentKey{ID: p.ID, Name: p.Name}
		if !seen[key] {
			seen[key] = true
			students = append(students, key)
		}
		if !seenSem[p.Semester] {
			seenSem[p.Semester] = true
			semesters = append(semesters, p.Semester)
		}
		ck := cellKey{student: key, semester: p.Semester}
		if _, ok := cells[ck]; !ok {
			cellOrder = append(cellOrder, ck)
		}
		cells[ck] = append(cells[ck], p)
	}

	slices.SortStableFunc(students, func(a, b StudentKey) int {
		if c := compareNatural(a.ID, b.ID); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
	slices.SortStableFunc(semesters, compareNatural)

	rows := make(map[StudentKey]*PivotRow, len(students))
	pivot := Pivot{Semesters: semesters, Rows: make([]PivotRow, len(students))}
	for i, s := range students {
		pivot.Rows[i] = PivotRow{StudentKey: s, Cells: make(map[string]marks.Value)}
		rows[s] = &pivot.Rows[i]
	}

	var duplicates []Duplicate
	for _, ck := range cellOrder {
		group := cells[ck]
		rows[ck.student].Cells[ck.semester] = resolveCell(group, policy)
		if len(group) < 2 {
			continue
		}
		dup := Duplicate{StudentKey: ck.student, Semester: ck.semester}
		for _, p := range group {
			dup.Records = append(dup.Records, p.Index)
		}
		duplicates = append(duplicates, dup)
		log.Warn().
			Str("student_id", ck.student.ID).
			Str("name", ck.student.Name).
			Str("semester", ck.semester).
			Int("records", len(group)).
			Str("policy", string(policy)).
			Msg("duplicate student/semester records in pivot")
	}

	return pivot, duplicates
}

func resolveCell(group []performance.Performance, policy DuplicatePolicy) marks.Value {
	switch policy {
	case KeepFirst:
		return group[0].Percentage
	case MeanOfDuplicates:
		var values []float64
		for _, p := range group {
			if v, ok := p.Percentage.Get(); ok {
				values = append(values, v)
			}
		}
		if len(values) == 0 {
			return marks.Missing()
		}
		return marks.Some(mean(values))
	default:
		return group[len(group)-1].Percentage
	}
}
