package tennis

import (
	"cmp"
	"slices"
)

// SetTally counts sets won by each side. Level sets count for neither.
func SetTally(sets []Set) (won, lost int) {
	for _, s := range sets {
		switch {
		case s.S1 > s.S2:
			won++
		case s.S2 > s.S1:
			lost++
		}
	}
	return won, lost
}

// UserWon applies the strict-majority rule: the owner wins only with more
// sets won than lost. An even split is a loss.
func UserWon(sets []Set) bool {
	won, lost := SetTally(sets)
	return won > lost
}

// SortMatches orders matches most recent first: by date descending, then
// by creation time descending.
func SortMatches(matches []Match) {
	slices.SortStableFunc(matches, func(a, b Match) int {
		if c := cmp.Compare(b.Date, a.Date); c != 0 {
			return c
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	})
}
