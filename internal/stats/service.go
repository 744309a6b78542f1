package stats

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/mauv0809/tennis-ledger/internal/metrics"
	"github.com/mauv0809/tennis-ledger/internal/tennis"
)

// MatchLister returns the current owner's matches, most recent first.
type MatchLister interface {
	List(ctx context.Context) ([]tennis.Match, error)
}

type Service struct {
	matches MatchLister
	metrics metrics.Metrics
}

func NewService(matches MatchLister, metrics metrics.Metrics) *Service {
	return &Service{matches: matches, metrics: metrics}
}

// ForOwner aggregates the current owner's history. When the history cannot
// be fetched it returns Default() together with the error.
func (s *Service) ForOwner(ctx context.Context) (Stats, error) {
	matches, err := s.matches.List(ctx)
	if err != nil {
		log.Error("Failed to fetch matches for stats", "error", err)
		return Default(), err
	}
	s.metrics.IncStatsComputed()
	return Aggregate(matches), nil
}
