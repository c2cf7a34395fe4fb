// internal/metrics/rank.go
package metrics

import (
	"sort"

	"github.com/mwiater/edumetrics/internal/grading"
	"github.com/mwiater/edumetrics/internal/marks"
	"github.com/mwiater/edumetrics/internal/performance"
)

// Ranked is a performance with its 1-based position in a ranking.
type Ranked struct {
	Position int `json:"position"`
	performance.Performance
}

// RankingEntry is the condensed form of a ranked record used in reports.
type RankingEntry struct {
	Position   int           `json:"position"`
	StudentID  string        `json:"studentId"`
	Name       string        `json:"name"`
	Semester   string        `json:"semester"`
	Total      marks.Value   `json:"totalMarks"`
	Percentage marks.Value   `json:"percentage"`
	Grade      grading.Grade `json:"grade"`
}

// Entry condenses a ranked record.
func (r Ranked) Entry() RankingEntry {
	return RankingEntry{
		Position:   r.Position,
		StudentID:  r.ID,
		Name:       r.Name,
		Semester:   r.Semester,
		Total:      r.Total,
		Percentage: r.Percentage,
		Grade:      r.Grade,
	}
}

// Rank orders records by percentage descending and returns the first n.
// Ties keep input order and missing percentages sort last. A non-positive n
// returns every record.
func Rank(perfs []performance.Performance, n int) []Ranked {
	ordered := make([]performance.Performance, len(perfs))
	copy(ordered, perfs)
	sort.SliceStable(ordered, func(i, j int) bool {
		pi, okI := ordered[i].Percentage.Get()
		pj, okJ := ordered[j].Percentage.Get()
		if okI != okJ {
			return okI
		}
		return okI && pi > pj
	})

	if n <= 0 || n > len(ordered) {
		n = len(ordered)
	}
	out := make([]Ranked, n)
	for i := 0; i < n; i++ {
		out[i] = Ranked{Position: i + 1, Performance: ordered[i]}
	}
	return out
}

// RankingEntries condenses a ranking.
func RankingEntries(ranked []Ranked) []RankingEntry {
	out := make([]RankingEntry, len(ranked))
	for i, r := range ranked {
		out[i] = r.Entry()
	}
	return out
}
