package recorder

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mauv0809/tennis-ledger/internal/clock"
	"github.com/mauv0809/tennis-ledger/internal/cost"
	"github.com/mauv0809/tennis-ledger/internal/docstore"
	"github.com/mauv0809/tennis-ledger/internal/metrics"
	"github.com/mauv0809/tennis-ledger/internal/pubsub"
	"github.com/mauv0809/tennis-ledger/internal/scoring"
	"github.com/mauv0809/tennis-ledger/internal/session"
	"github.com/mauv0809/tennis-ledger/internal/tennis"
)

// New creates a new Recorder.
func New(store docstore.Store, resolver Resolver, players PlayerLookup, sessions session.Provider, clock clock.Clock, metrics metrics.Metrics, pubsub pubsub.PubSubClient, notifier Notifier) *Recorder {
	return &Recorder{
		store:    store,
		resolver: resolver,
		players:  players,
		session:  sessions,
		clock:    clock,
		metrics:  metrics,
		pubsub:   pubsub,
		notifier: notifier,
	}
}

// Record validates input, resolves the players and venue it names and
// stores a new match for the current owner.
//
// Entities are resolved before the match is written and are not rolled
// back if that write fails.
func (r *Recorder) Record(ctx context.Context, input tennis.MatchInput) (*RecordResult, error) {
	owner, err := session.Require(ctx, r.session)
	if err != nil {
		return nil, err
	}
	start := r.clock.Now()
	date, err := validate(input, start)
	if err != nil {
		return nil, err
	}

	match, err := r.build(ctx, owner, date, input)
	if err != nil {
		return nil, err
	}
	match.CreatedAt = r.clock.Now()

	id, err := r.store.Create(ctx, tennis.CollectionMatches, match.Document())
	if err != nil {
		log.Error("Failed to save match", "error", err, "owner", owner)
		return nil, fmt.Errorf("saving match: %w", err)
	}
	match.ID = id

	warnings := r.warnings(input)
	r.metrics.IncMatchesRecorded()
	r.metrics.ObserveSaveDuration(r.clock.Now().Sub(start).Seconds())
	log.Info("Recorded match", "matchID", id, "owner", owner, "opponent", match.Player2Name, "userWon", match.UserWon)

	r.publish(ctx, pubsub.EventMatchRecorded, match)
	if err := r.notifier.SendMatchResult(ctx, match); err != nil {
		log.Error("Failed to send match notification", "error", err, "matchID", id)
	}

	return &RecordResult{Match: match, Warnings: warnings}, nil
}

// Revise replaces an existing match of the current owner with input. The
// id and creation time are kept; names are resolved again.
func (r *Recorder) Revise(ctx context.Context, id string, input tennis.MatchInput) (*RecordResult, error) {
	owner, err := session.Require(ctx, r.session)
	if err != nil {
		return nil, err
	}
	start := r.clock.Now()
	date, err := validate(input, start)
	if err != nil {
		return nil, err
	}

	existing, err := r.get(ctx, owner, id)
	if err != nil {
		return nil, err
	}

	match, err := r.build(ctx, owner, date, input)
	if err != nil {
		return nil, err
	}
	match.ID = id
	match.CreatedAt = existing.CreatedAt
	match.UpdatedAt = r.clock.Now()

	if err := r.store.Update(ctx, tennis.CollectionMatches, id, match.Document()); err != nil {
		log.Error("Failed to update match", "error", err, "matchID", id)
		return nil, fmt.Errorf("updating match %s: %w", id, err)
	}

	warnings := r.warnings(input)
	r.metrics.IncMatchesRevised()
	r.metrics.ObserveSaveDuration(r.clock.Now().Sub(start).Seconds())
	log.Info("Revised match", "matchID", id, "owner", owner)

	r.publish(ctx, pubsub.EventMatchRevised, match)
	return &RecordResult{Match: match, Warnings: warnings}, nil
}

// Get returns one of the current owner's matches. Matches of other owners
// are reported as docstore.ErrNotFound.
func (r *Recorder) Get(ctx context.Context, id string) (*tennis.Match, error) {
	owner, err := session.Require(ctx, r.session)
	if err != nil {
		return nil, err
	}
	return r.get(ctx, owner, id)
}

// List returns the current owner's matches, most recent first.
func (r *Recorder) List(ctx context.Context) ([]tennis.Match, error) {
	owner, err := session.Require(ctx, r.session)
	if err != nil {
		return nil, err
	}
	return r.list(ctx, owner)
}

func (r *Recorder) Delete(ctx context.Context, id string) error {
	owner, err := session.Require(ctx, r.session)
	if err != nil {
		return err
	}
	match, err := r.get(ctx, owner, id)
	if err != nil {
		return err
	}
	if err := r.store.Delete(ctx, tennis.CollectionMatches, id); err != nil {
		return fmt.Errorf("deleting match %s: %w", id, err)
	}
	r.metrics.IncMatchesDeleted(1)
	log.Info("Deleted match", "matchID", id, "owner", owner)
	r.publish(ctx, pubsub.EventMatchDeleted, match)
	return nil
}

// DeleteAll removes every match of the current owner and returns how many
// were deleted. Players and venues are shared and stay.
func (r *Recorder) DeleteAll(ctx context.Context) (int, error) {
	owner, err := session.Require(ctx, r.session)
	if err != nil {
		return 0, err
	}
	matches, err := r.list(ctx, owner)
	if err != nil {
		return 0, err
	}

	deleted := 0
	for i := range matches {
		m := &matches[i]
		err := r.store.Delete(ctx, tennis.CollectionMatches, m.ID)
		if errors.Is(err, docstore.ErrNotFound) {
			continue
		}
		if err != nil {
			r.metrics.IncMatchesDeleted(deleted)
			return deleted, fmt.Errorf("deleting match %s: %w", m.ID, err)
		}
		deleted++
		r.publish(ctx, pubsub.EventMatchDeleted, m)
	}
	r.metrics.IncMatchesDeleted(deleted)
	log.Info("Deleted all matches", "owner", owner, "count", deleted)
	return deleted, nil
}

func (r *Recorder) get(ctx context.Context, owner, id string) (*tennis.Match, error) {
	doc, err := r.store.Get(ctx, tennis.CollectionMatches, id)
	if err != nil {
		return nil, fmt.Errorf("getting match %s: %w", id, err)
	}
	match := tennis.MatchFromDocument(doc)
	if match.OwnerID != owner {
		return nil, fmt.Errorf("getting match %s: %w", id, docstore.ErrNotFound)
	}
	return match, nil
}

func (r *Recorder) list(ctx context.Context, owner string) ([]tennis.Match, error) {
	docs, err := r.store.Query(ctx, tennis.CollectionMatches,
		[]docstore.Filter{docstore.Eq("ownerId", owner)},
		docstore.Sort{Field: "date", Direction: docstore.Descending})
	if err != nil {
		return nil, fmt.Errorf("listing matches: %w", err)
	}
	matches := make([]tennis.Match, 0, len(docs))
	for _, doc := range docs {
		matches = append(matches, *tennis.MatchFromDocument(doc))
	}
	tennis.SortMatches(matches)
	return matches, nil
}

// validate rejects input that must never reach the store and returns the
// normalised match date.
func validate(input tennis.MatchInput, now time.Time) (string, error) {
	if strings.TrimSpace(input.Player2Name) == "" {
		return "", tennis.ErrMissingOpponent
	}
	return tennis.NormalizeDate(input.Date, now)
}

// build resolves player 1, player 2 and the venue in that order and
// assembles the match without touching its id or timestamps.
func (r *Recorder) build(ctx context.Context, owner, date string, input tennis.MatchInput) (*tennis.Match, error) {
	player1Name := strings.TrimSpace(input.Player1Name)
	if player1Name == "" {
		player1Name = r.defaultPlayer1Name(ctx, owner)
	}
	player1, err := r.resolver.ResolvePlayer(ctx, player1Name)
	if err != nil {
		return nil, fmt.Errorf("resolving player 1: %w", err)
	}
	player2, err := r.resolver.ResolvePlayer(ctx, input.Player2Name)
	if err != nil {
		return nil, fmt.Errorf("resolving player 2: %w", err)
	}

	var venue *tennis.Venue
	if strings.TrimSpace(input.Location) != "" {
		venue, err = r.resolver.ResolveVenue(ctx, input.Location)
		if err != nil {
			return nil, fmt.Errorf("resolving venue: %w", err)
		}
	}

	sets := tennis.NormalizeSets(input.Sets)
	match := &tennis.Match{
		Player1ID:     player1.ID,
		Player1Name:   player1.Nickname,
		Player2ID:     player2.ID,
		Player2Name:   player2.Nickname,
		Date:          date,
		Sets:          sets,
		Notes:         input.Notes,
		UserWon:       tennis.UserWon(sets),
		DurationHours: tennis.ParseDuration(input.Duration),
		UseLights:     input.UseLights,
		UseHeating:    input.UseHeating,
		IsGuest:       input.IsGuest,
		OwnerID:       owner,
	}
	if venue != nil {
		match.VenueID = &venue.ID
		match.VenueName = &venue.Name
	}
	match.TotalCost = totalCost(venue, match, input.TotalCost)
	return match, nil
}

// totalCost prefers an entered amount over the venue's rates.
func totalCost(venue *tennis.Venue, match *tennis.Match, override tennis.FormValue) float64 {
	if !override.Blank() {
		return tennis.RoundMoney(max(tennis.ParseFloat(override), 0))
	}
	if amount, ok := cost.Compute(venue, match.DurationHours, match.UseLights, match.UseHeating, match.IsGuest); ok {
		return amount
	}
	return 0
}

func (r *Recorder) defaultPlayer1Name(ctx context.Context, owner string) string {
	player, err := r.players.PlayerByUID(ctx, owner)
	if err != nil {
		if !errors.Is(err, docstore.ErrNotFound) {
			log.Warn("Failed to look up session player, using default name", "error", err, "owner", owner)
		}
		return DefaultPlayer1Name
	}
	if player.Nickname == "" {
		return DefaultPlayer1Name
	}
	return player.Nickname
}

func (r *Recorder) warnings(input tennis.MatchInput) []scoring.Warning {
	warnings := scoring.Validate(input.Sets)
	if len(warnings) > 0 {
		r.metrics.AddValidationWarnings(len(warnings))
	}
	return warnings
}

func (r *Recorder) publish(ctx context.Context, event pubsub.EventType, match *tennis.Match) {
	payload := pubsub.MatchEvent{
		MatchID:    match.ID,
		OwnerID:    match.OwnerID,
		Opponent:   match.Player2Name,
		Date:       match.Date,
		UserWon:    match.UserWon,
		TotalCost:  match.TotalCost,
		OccurredAt: r.clock.Now(),
	}
	if match.VenueName != nil {
		payload.Venue = *match.VenueName
	}
	if err := r.pubsub.SendMessage(ctx, event, payload); err != nil {
		log.Error("Failed to publish match event", "error", err, "event", event, "matchID", match.ID)
	}
}
