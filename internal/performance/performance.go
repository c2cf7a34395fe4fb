// internal/performance/performance.go
// Package performance computes per-record totals, percentages and grades.
package performance

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mwiater/edumetrics/internal/grading"
	"github.com/mwiater/edumetrics/internal/marks"
)

// ErrInvalidConfig is returned for an unusable aggregation config.
var ErrInvalidConfig = errors.New("invalid performance config")

// Policy decides how missing marks affect a record's total.
type Policy string

const (
	// Strict leaves total and percentage missing when any mark is missing.
	Strict Policy = "strict"
	// ZeroFill counts missing marks as zero.
	ZeroFill Policy = "zero-fill"
)

// DefaultMaxMarks is the maximum mark of a single subject.
const DefaultMaxMarks = 100.0

// ParsePolicy resolves a policy name. An empty name selects Strict.
func ParsePolicy(name string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", string(Strict):
		return Strict, nil
	case string(ZeroFill), "zerofill", "zero":
		return ZeroFill, nil
	default:
		return "", fmt.Errorf("%w: unknown missing-data policy %q (want %s or %s)", ErrInvalidConfig, name, Strict, ZeroFill)
	}
}

// Config is the aggregation configuration. Every subject shares the same
// maximum mark.
type Config struct {
	Policy             Policy         `json:"policy"`
	MaxMarksPerSubject float64        `json:"maxMarksPerSubject"`
	Scheme             grading.Scheme `json:"scheme"`
}

// DefaultConfig is strict, out of 100, six-band.
func DefaultConfig() Config {
	return Config{
		Policy:             Strict,
		MaxMarksPerSubject: DefaultMaxMarks,
		Scheme:             grading.SixBand,
	}
}

// Validate checks the policy, maximum mark and scheme.
func (c Config) Validate() error {
	if c.Policy != Strict && c.Policy != ZeroFill {
		return fmt.Errorf("%w: unknown missing-data policy %q", ErrInvalidConfig, c.Policy)
	}
	if !(c.MaxMarksPerSubject > 0) {
		return fmt.Errorf("%w: max marks per subject must be positive, got %v", ErrInvalidConfig, c.MaxMarksPerSubject)
	}
	if len(c.Scheme.Bands) == 0 {
		return fmt.Errorf("%w: grading scheme has no bands", ErrInvalidConfig)
	}
	return nil
}

// Result is the derived metrics of one record.
type Result struct {
	Total        marks.Value   `json:"totalMarks"`
	Percentage   marks.Value   `json:"percentage"`
	Grade        grading.Grade `json:"grade"`
	MissingMarks int           `json:"missingMarks"`
}

// Compute derives total, percentage and grade for one record.
func Compute(rec marks.Record, subjects []string, cfg Config) Result {
	var (
		sum     float64
		missing int
	)
	for _, s := range subjects {
		v, ok := rec.Mark(s).Get()
		if !ok {
			missing++
			continue
		}
		sum += v
	}

	res := Result{MissingMarks: missing}
	if missing == 0 || cfg.Policy == ZeroFill {
		res.Total = marks.Some(sum)
	}
	if res.Total.Valid && len(subjects) > 0 && cfg.MaxMarksPerSubject > 0 {
		possible := float64(len(subjects)) * cfg.MaxMarksPerSubject
		res.Percentage = marks.Some(sum * 100 / possible)
	}
	res.Grade = cfg.Scheme.Classify(res.Percentage)
	return res
}

// Performance pairs a record with its derived metrics.
type Performance struct {
	marks.Record
	Result
}

// Aggregate computes every record in input order.
func Aggregate(records []marks.Record, subjects []string, cfg Config) ([]Performance, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	out := make([]Performance, len(records))
	for i, rec := range records {
		out[i] = Performance{Record: rec, Result: Compute(rec, subjects, cfg)}
	}
	return out, nil
}
