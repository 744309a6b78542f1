package notifier

import (
	"context"

	"github.com/mauv0809/tennis-ledger/internal/stats"
	"github.com/mauv0809/tennis-ledger/internal/tennis"
)

// Notifier defines a high-level interface for sending notifications about business events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// For newly recorded matches
	SendMatchResult(ctx context.Context, match *tennis.Match) error
	// For the owner's stats summary
	SendStatsSummary(ctx context.Context, owner string, summary stats.Stats) error
}

type dryRunKey struct{}

// WithDryRun marks ctx so notifiers log messages instead of sending them.
func WithDryRun(ctx context.Context, dryRun bool) context.Context {
	return context.WithValue(ctx, dryRunKey{}, dryRun)
}

// IsDryRun reports whether ctx was marked with WithDryRun(ctx, true).
func IsDryRun(ctx context.Context) bool {
	dryRun, ok := ctx.Value(dryRunKey{}).(bool)
	return ok && dryRun
}

// Noop discards every notification. It is used when Slack is not configured.
type Noop struct{}

var _ Notifier = Noop{}

func (Noop) SendMatchResult(ctx context.Context, match *tennis.Match) error {
	return nil
}

func (Noop) SendStatsSummary(ctx context.Context, owner string, summary stats.Stats) error {
	return nil
}
