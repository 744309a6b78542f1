package recorder

import (
	"context"

	"github.com/mauv0809/tennis-ledger/internal/notifier"
	"github.com/mauv0809/tennis-ledger/internal/tennis"
)

// Resolver turns display names into shared entity records.
type Resolver interface {
	ResolvePlayer(ctx context.Context, nickname string) (*tennis.Player, error)
	ResolveVenue(ctx context.Context, name string) (*tennis.Venue, error)
}

// PlayerLookup finds the player record linked to a session user.
type PlayerLookup interface {
	PlayerByUID(ctx context.Context, uid string) (*tennis.Player, error)
}

// Notifier defines the notification operations required by the recorder.
type Notifier interface {
	notifier.Notifier
}
