// internal/metrics/stats.go
package metrics

import (
	"cmp"
	"math"
	"slices"
	"strings"

	"github.com/mwiater/edumetrics/internal/marks"
)

// SubjectStatistic holds the descriptive statistics of one subject. Missing
// marks are excluded; a subject with no marks has every value missing.
type SubjectStatistic struct {
	Subject string      `json:"subject"`
	Count   int         `json:"count"`
	Mean    marks.Value `json:"avg"`
	Median  marks.Value `json:"median"`
	Max     marks.Value `json:"max"`
	Min     marks.Value `json:"min"`
	StdDev  marks.Value `json:"std"`
}

// NoData reports whether the subject had no present marks.
func (s SubjectStatistic) NoData() bool { return s.Count == 0 }

// SubjectStatistics computes one statistic per subject, in subject order.
func SubjectStatistics(records []marks.Record, subjects []string) []SubjectStatistic {
	out := make([]SubjectStatistic, 0, len(subjects))
	for _, subject := range subjects {
		values := make([]float64, 0, len(records))
		for _, rec := range records {
			if v, ok := rec.Mark(subject).Get(); ok {
				values = append(values, v)
			}
		}
		out = append(out, describe(subject, values))
	}
	return out
}

func describe(subject string, values []float64) SubjectStatistic {
	stat := SubjectStatistic{Subject: subject, Count: len(values)}
	if len(values) == 0 {
		return stat
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)

	avg := mean(sorted)
	stat.Mean = marks.Some(avg)
	stat.Median = marks.Some(median(sorted))
	stat.Min = marks.Some(sorted[0])
	stat.Max = marks.Some(sorted[len(sorted)-1])
	if len(sorted) > 1 {
		stat.StdDev = marks.Some(sampleStdDev(sorted, avg))
	}
	return stat
}

// mean expects a non-empty slice.
func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// median expects a sorted, non-empty slice.
func median(sorted []float64) float64 {
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

// sampleStdDev divides by n-1 and expects at least two values.
func sampleStdDev(values []float64, avg float64) float64 {
	var sq float64
	for _, v := range values {
		sq += (v - avg) * (v - avg)
	}
	return math.Sqrt(sq / float64(len(values)-1))
}

// compareNatural splits labels into digit and text runs. Digit runs compare
// by numeric value and sort before text runs, so "Sem 2" precedes "Sem 10"
// and "2" precedes "Fall". Labels equal by value fall back to byte order.
func compareNatural(a, b string) int {
	ra, rb := labelRuns(strings.TrimSpace(a)), labelRuns(strings.TrimSpace(b))
	for i := 0; i < len(ra) && i < len(rb); i++ {
		x, y := ra[i], rb[i]
		dx, dy := isDigits(x), isDigits(y)
		switch {
		case dx && dy:
			if c := compareDigits(x, y); c != 0 {
				return c
			}
		case dx:
			return -1
		case dy:
			return 1
		default:
			if c := strings.Compare(x, y); c != 0 {
				return c
			}
		}
	}
	if c := cmp.Compare(len(ra), len(rb)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

// labelRuns splits s into maximal runs of ASCII digits and non-digits.
func labelRuns(s string) []string {
	var runs []string
	start := 0
	for i := 1; i <= len(s); i++ {
		if i == len(s) || isDigit(s[i]) != isDigit(s[start]) {
			runs = append(runs, s[start:i])
			start = i
		}
	}
	return runs
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isDigits(run string) bool { return run != "" && isDigit(run[0]) }

// compareDigits compares digit runs of any length by value.
func compareDigits(x, y string) int {
	x = strings.TrimLeft(x, "0")
	y = strings.TrimLeft(y, "0")
	if c := cmp.Compare(len(x), len(y)); c != 0 {
		return c
	}
	return strings.Compare(x, y)
}
