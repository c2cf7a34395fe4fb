// internal/grading/grading.go
// Package grading maps percentages to letter grades through ordered bands.
package grading

import (
	"fmt"
	"math"
	"strings"

	"github.com/mwiater/edumetrics/internal/marks"
)

// Grade is a letter grade label.
type Grade string

// NA is the grade of a record whose percentage is missing.
const NA Grade = "NA"

// Band assigns Label to every percentage at or above Min.
type Band struct {
	Label Grade   `json:"label"`
	Min   float64 `json:"min"`
}

// Matches reports whether p falls in the band.
func (b Band) Matches(p float64) bool { return p >= b.Min }

// Scheme is an ordered list of bands. The first matching band wins and
// Fallback covers everything below the last band.
type Scheme struct {
	Name     string `json:"name"`
	Bands    []Band `json:"bands"`
	Fallback Grade  `json:"fallback"`
}

const (
	// FiveBandName selects FiveBand.
	FiveBandName = "5-band"
	// SixBandName selects SixBand.
	SixBandName = "6-band"
)

// FiveBand is A+ >= 90, A >= 80, B >= 70, C >= 60, else F.
var FiveBand = Scheme{
	Name: FiveBandName,
	Bands: []Band{
		{Label: "A+", Min: 90},
		{Label: "A", Min: 80},
		{Label: "B", Min: 70},
		{Label: "C", Min: 60},
	},
	Fallback: "F",
}

// SixBand is FiveBand with a D band covering [45, 60).
var SixBand = Scheme{
	Name: SixBandName,
	Bands: []Band{
		{Label: "A+", Min: 90},
		{Label: "A", Min: 80},
		{Label: "B", Min: 70},
		{Label: "C", Min: 60},
		{Label: "D", Min: 45},
	},
	Fallback: "F",
}

// ParseScheme resolves a scheme name. An empty name selects SixBand.
func ParseScheme(name string) (Scheme, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", SixBandName, "6", "six", "six-band":
		return SixBand, nil
	case FiveBandName, "5", "five", "five-band":
		return FiveBand, nil
	default:
		return Scheme{}, fmt.Errorf("unknown grading scheme %q (want %s or %s)", name, FiveBandName, SixBandName)
	}
}

// Classify returns the grade for a percentage. A missing percentage is NA
// and never reaches the bands; 0 is an ordinary percentage.
func (s Scheme) Classify(p marks.Value) Grade {
	v, ok := p.Get()
	if !ok {
		return NA
	}
	for _, b := range s.Bands {
		if b.Matches(v) {
			return b.Label
		}
	}
	return s.Fallback
}

// ClassifySentinel classifies a raw float where any negative value or NaN
// encodes a missing percentage.
func (s Scheme) ClassifySentinel(p float64) Grade {
	if math.IsNaN(p) || p < 0 {
		return NA
	}
	return s.Classify(marks.Some(p))
}

// Labels lists the scheme's grades from best to worst, excluding NA.
func (s Scheme) Labels() []Grade {
	out := make([]Grade, 0, len(s.Bands)+1)
	for _, b := range s.Bands {
		out = append(out, b.Label)
	}
	return append(out, s.Fallback)
}
