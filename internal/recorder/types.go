package recorder

import (
	"github.com/mauv0809/tennis-ledger/internal/clock"
	"github.com/mauv0809/tennis-ledger/internal/docstore"
	"github.com/mauv0809/tennis-ledger/internal/metrics"
	"github.com/mauv0809/tennis-ledger/internal/pubsub"
	"github.com/mauv0809/tennis-ledger/internal/scoring"
	"github.com/mauv0809/tennis-ledger/internal/session"
	"github.com/mauv0809/tennis-ledger/internal/tennis"
)

// DefaultPlayer1Name is used when the session user has no player record.
const DefaultPlayer1Name = "Me"

// Recorder builds, persists and reads back the current owner's matches.
type Recorder struct {
	store    docstore.Store
	resolver Resolver
	players  PlayerLookup
	session  session.Provider
	clock    clock.Clock
	metrics  metrics.Metrics
	pubsub   pubsub.PubSubClient
	notifier Notifier
}

// RecordResult is a persisted match plus the advisory score warnings for
// the submitted sets.
type RecordResult struct {
	Match    *tennis.Match     `json:"match"`
	Warnings []scoring.Warning `json:"warnings"`
}
