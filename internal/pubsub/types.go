package pubsub

import (
	"time"

	"cloud.google.com/go/pubsub"
)

type client struct {
	client   *pubsub.Client
	teardown func() error
}

// EventType represents the type of event/message sent via pubsub. It is
// also the topic name.
type EventType string

const (
	EventMatchRecorded EventType = "match-recorded"
	EventMatchRevised  EventType = "match-revised"
	EventMatchDeleted  EventType = "match-deleted"
)

// MatchEvent is the payload of every match lifecycle event.
type MatchEvent struct {
	MatchID    string    `msgpack:"matchId"`
	OwnerID    string    `msgpack:"ownerId"`
	Opponent   string    `msgpack:"opponent,omitempty"`
	Venue      string    `msgpack:"venue,omitempty"`
	Date       string    `msgpack:"date,omitempty"`
	UserWon    bool      `msgpack:"userWon"`
	TotalCost  float64   `msgpack:"totalCost"`
	OccurredAt time.Time `msgpack:"occurredAt"`
}
