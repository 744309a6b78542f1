// Package stats aggregates an owner's match history into the figures shown
// on the stats screen.
package stats

import (
	"math"
	"slices"

	"github.com/mauv0809/tennis-ledger/internal/cost"
	"github.com/mauv0809/tennis-ledger/internal/tennis"
)

// RecentFormSize is how many matches the recent form covers.
const RecentFormSize = 5

type Outcome string

const (
	Win  Outcome = "W"
	Loss Outcome = "L"
)

const (
	DirectionWin  = "win"
	DirectionLoss = "loss"
)

// Rival is an opponent grouped by display name.
type Rival struct {
	Name   string `json:"name"`
	Played int    `json:"played"`
	Won    int    `json:"won"`
	Lost   int    `json:"lost"`
}

type Stats struct {
	Total            int       `json:"total"`
	Wins             int       `json:"wins"`
	Losses           int       `json:"losses"`
	WinRate          int       `json:"winRate"`
	Streak           int       `json:"streak"`
	StreakDirection  string    `json:"streakDirection"`
	LongestWinStreak int       `json:"longestWinStreak"`
	RecentForm       []Outcome `json:"recentForm"`
	Rivals           []Rival   `json:"rivals"`
	SetsWon          int       `json:"setsWon"`
	SetsLost         int       `json:"setsLost"`
	GamesWon         int       `json:"gamesWon"`
	GamesLost        int       `json:"gamesLost"`
	TotalSpent       float64   `json:"totalSpent"`
	AvgCost          float64   `json:"avgCost"`
	AvgCostText      string    `json:"avgCostText"`
}

// Default is the all-zero Stats used for an empty or unavailable history.
func Default() Stats {
	return Stats{
		RecentForm:  []Outcome{},
		Rivals:      []Rival{},
		AvgCostText: cost.Format(0),
	}
}

// Aggregate computes Stats from matches, which must already be in
// tennis.SortMatches order (most recent first). The result depends only on
// the input slice.
func Aggregate(matches []tennis.Match) Stats {
	s := Default()
	s.Total = len(matches)
	if s.Total == 0 {
		return s
	}

	rivals := make(map[string]*Rival)
	var order []string
	run := 0
	// Oldest first so the longest run is counted in play order.
	for i := len(matches) - 1; i >= 0; i-- {
		m := matches[i]
		if m.UserWon {
			s.Wins++
			run++
			s.LongestWinStreak = max(s.LongestWinStreak, run)
		} else {
			s.Losses++
			run = 0
		}

		for _, set := range m.Sets {
			s.GamesWon += set.S1
			s.GamesLost += set.S2
		}
		won, lost := tennis.SetTally(m.Sets)
		s.SetsWon += won
		s.SetsLost += lost

		s.TotalSpent += m.TotalCost

		r, ok := rivals[m.Player2Name]
		if !ok {
			r = &Rival{Name: m.Player2Name}
			rivals[m.Player2Name] = r
			order = append(order, m.Player2Name)
		}
		r.Played++
		if m.UserWon {
			r.Won++
		} else {
			r.Lost++
		}
	}

	s.WinRate = int(math.Round(100 * float64(s.Wins) / float64(s.Total)))
	s.Streak, s.StreakDirection = streak(matches)
	s.RecentForm = recentForm(matches)

	for _, name := range order {
		s.Rivals = append(s.Rivals, *rivals[name])
	}
	slices.SortStableFunc(s.Rivals, func(a, b Rival) int {
		return b.Played - a.Played
	})

	s.TotalSpent = tennis.RoundMoney(s.TotalSpent)
	s.AvgCost = tennis.RoundMoney(s.TotalSpent / float64(s.Total))
	s.AvgCostText = cost.Format(s.AvgCost)
	return s
}

func streak(matches []tennis.Match) (int, string) {
	direction := DirectionLoss
	if matches[0].UserWon {
		direction = DirectionWin
	}
	n := 0
	for _, m := range matches {
		if m.UserWon != matches[0].UserWon {
			break
		}
		n++
	}
	return n, direction
}

// recentForm returns the latest RecentFormSize outcomes, oldest first.
func recentForm(matches []tennis.Match) []Outcome {
	n := min(len(matches), RecentFormSize)
	form := make([]Outcome, n)
	for i := range n {
		outcome := Loss
		if matches[i].UserWon {
			outcome = Win
		}
		form[n-1-i] = outcome
	}
	return form
}
