// Package scoring flags set scores that are unlikely in a real tennis set.
// Warnings are advisory and never block a save.
package scoring

import (
	"fmt"

	"github.com/mauv0809/tennis-ledger/internal/tennis"
)

// Warning is an advisory message about a single set. Set is 1-based.
type Warning struct {
	Set     int    `json:"set"`
	Message string `json:"message"`
}

func (w Warning) String() string {
	return w.Message
}

// Validate checks every set whose two scores are numeric and returns at
// most one warning per set, in set order.
func Validate(sets []tennis.SetInput) []Warning {
	warnings := []Warning{}
	for i, set := range sets {
		s1, ok1 := tennis.ParseScore(set.S1)
		s2, ok2 := tennis.ParseScore(set.S2)
		if !ok1 || !ok2 {
			continue
		}
		if msg := check(s1, s2, set.TieBreak); msg != "" {
			n := i + 1
			warnings = append(warnings, Warning{Set: n, Message: fmt.Sprintf("Set %d: %s", n, msg)})
		}
	}
	return warnings
}

// Last returns the message of the last warning, or "" when the sets look
// fine.
func Last(sets []tennis.SetInput) string {
	warnings := Validate(sets)
	if len(warnings) == 0 {
		return ""
	}
	return warnings[len(warnings)-1].Message
}

func check(s1, s2 int, tieBreak bool) string {
	high, low := max(s1, s2), min(s1, s2)
	margin := high - low

	if tieBreak {
		switch {
		case margin < 2:
			return "tie-break needs 2-point margin"
		case high < 7:
			return "score too low for a tie-break"
		}
		return ""
	}

	switch {
	case high == 6 && margin < 2:
		return "unusual score, a set at 6 needs a 2-game margin (7-5 or tie-break at 7-6)"
	case high == 7 && margin > 2 && low != 0:
		return "unusual score for a 7-game set"
	case high > 7:
		return "high score, mark the set as a tie-break"
	}
	return ""
}
