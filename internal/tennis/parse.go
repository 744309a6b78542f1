package tennis

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the canonical match date format.
const DateLayout = "2006-01-02"

// DefaultDurationHours applies when the duration field is left blank.
const DefaultDurationHours = 1.0

// FormValue is a numeric form field that may arrive as a JSON string,
// a JSON number or null.
type FormValue string

func (v *FormValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*v = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = FormValue(s)
	default:
		*v = FormValue(data)
	}
	return nil
}

// Blank reports whether nothing was entered.
func (v FormValue) Blank() bool {
	return strings.TrimSpace(string(v)) == ""
}

// ParseScore reads a game count. Decimal text such as "6.0" is truncated
// to its integer part. ok is false for blank or non-numeric text; the
// returned score is then 0. Negative numbers clamp to 0.
func ParseScore(v FormValue) (score int, ok bool) {
	s := strings.TrimSpace(string(v))
	if n, err := strconv.Atoi(s); err == nil {
		return max(n, 0), true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int(min(max(math.Trunc(f), 0), math.MaxInt32)), true
}

// ParseFloat reads a decimal amount, accepting a comma as the decimal
// separator. Anything unparsable, infinite or NaN yields 0.
func ParseFloat(v FormValue) float64 {
	s := strings.ReplaceAll(strings.TrimSpace(string(v)), ",", ".")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// ParseDuration reads a duration in hours. Blank means
// DefaultDurationHours; unparsable or negative text means 0.
func ParseDuration(v FormValue) float64 {
	if v.Blank() {
		return DefaultDurationHours
	}
	return max(ParseFloat(v), 0)
}

// NormalizeSets converts form sets to integer sets. An empty list yields
// a single 0-0 set so every match has at least one.
func NormalizeSets(inputs []SetInput) []Set {
	if len(inputs) == 0 {
		return []Set{{}}
	}
	sets := make([]Set, len(inputs))
	for i, in := range inputs {
		s1, _ := ParseScore(in.S1)
		s2, _ := ParseScore(in.S2)
		sets[i] = Set{S1: s1, S2: s2, TieBreak: in.TieBreak}
	}
	return sets
}

// NormalizeDate returns the match date as YYYY-MM-DD in local time.
// Blank means today; RFC 3339 timestamps are converted to their local date.
func NormalizeDate(raw string, now time.Time) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return now.In(time.Local).Format(DateLayout), nil
	}
	if d, err := time.ParseInLocation(DateLayout, raw, time.Local); err == nil {
		return d.Format(DateLayout), nil
	}
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return ts.In(time.Local).Format(DateLayout), nil
	}
	return "", ErrInvalidDate
}

// RoundMoney rounds to two decimal places.
func RoundMoney(amount float64) float64 {
	return math.Round(amount*100) / 100
}
