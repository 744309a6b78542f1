package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mauv0809/tennis-ledger/internal/tennis"
)

func set(s1, s2 string, tieBreak bool) tennis.SetInput {
	return tennis.SetInput{S1: tennis.FormValue(s1), S2: tennis.FormValue(s2), TieBreak: tieBreak}
}

func TestValidate_SingleSet(t *testing.T) {
	tests := []struct {
		name string
		in   tennis.SetInput
		want string
	}{
		{"clean six love", set("6", "0", false), ""},
		{"seven five", set("7", "5", false), ""},
		{"six five", set("6", "5", false), "Set 1: unusual score, a set at 6 needs a 2-game margin (7-5 or tie-break at 7-6)"},
		{"six all", set("6", "6", false), "Set 1: unusual score, a set at 6 needs a 2-game margin (7-5 or tie-break at 7-6)"},
		{"seven three", set("3", "7", false), "Set 1: unusual score for a 7-game set"},
		{"seven love", set("7", "0", false), ""},
		{"nine seven", set("9", "7", false), "Set 1: high score, mark the set as a tie-break"},
		{"tie-break fine", set("10", "8", true), ""},
		{"tie-break margin", set("7", "6", true), "Set 1: tie-break needs 2-point margin"},
		{"tie-break too low", set("5", "3", true), "Set 1: score too low for a tie-break"},
		{"partial entry ignored", set("6", "", false), ""},
		{"non-numeric ignored", set("x", "9", false), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Last([]tennis.SetInput{tt.in}))
		})
	}
}

func TestValidate_AllWarningsInOrder(t *testing.T) {
	sets := []tennis.SetInput{
		set("6", "5", false),
		set("6", "2", false),
		set("9", "7", false),
	}

	warnings := Validate(sets)

	assert.Len(t, warnings, 2)
	assert.Equal(t, 1, warnings[0].Set)
	assert.Equal(t, 3, warnings[1].Set)
	assert.Equal(t, "Set 3: high score, mark the set as a tie-break", Last(sets))
}

func TestValidate_Empty(t *testing.T) {
	assert.Empty(t, Validate(nil))
	assert.Equal(t, "", Last(nil))
}
