// internal/marks/value.go
package marks

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Value is an optional number used for marks, totals, percentages and
// statistics. The zero Value is missing.
type Value struct {
	Float64 float64
	Valid   bool
}

// Some returns a present Value. NaN and infinities are never present.
func Some(v float64) Value {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Value{}
	}
	return Value{Float64: v, Valid: true}
}

// Missing returns the missing Value.
func Missing() Value { return Value{} }

// Get returns the number and whether it is present.
func (v Value) Get() (float64, bool) { return v.Float64, v.Valid }

// Or returns the number, or def when the value is missing.
func (v Value) Or(def float64) float64 {
	if !v.Valid {
		return def
	}
	return v.Float64
}

// String renders the shortest decimal that parses back to the same float,
// or an empty string when missing.
func (v Value) String() string {
	if !v.Valid {
		return ""
	}
	return strconv.FormatFloat(v.Float64, 'f', -1, 64)
}

// MarshalJSON encodes missing values as null.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(v.Float64)
}

// UnmarshalJSON accepts a number or null.
func (v *Value) UnmarshalJSON(data []byte) error {
	if strings.TrimSpace(string(data)) == "null" {
		*v = Value{}
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*v = Some(f)
	return nil
}

// MarshalYAML encodes missing values as null.
func (v Value) MarshalYAML() (any, error) {
	if !v.Valid {
		return nil, nil
	}
	return v.Float64, nil
}

// naTokens are cell contents read as blank rather than as unparseable text.
var naTokens = map[string]struct{}{
	"":     {},
	"na":   {},
	"n/a":  {},
	"nan":  {},
	"-nan": {},
	"null": {},
	"none": {},
	"#n/a": {},
}

// ParseValue converts a raw cell into a Value. Blank cells and cells that do
// not hold a finite number are missing; ok is false only for the latter, so
// callers can count genuinely unparseable input.
func ParseValue(raw string) (v Value, ok bool) {
	trimmed := strings.TrimSpace(raw)
	if _, blank := naTokens[strings.ToLower(trimmed)]; blank {
		return Value{}, true
	}
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return Value{}, false
	}
	return Some(f), true
}
