package recorder

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mauv0809/tennis-ledger/internal/clock"
	"github.com/mauv0809/tennis-ledger/internal/docstore"
	"github.com/mauv0809/tennis-ledger/internal/docstore/memory"
	"github.com/mauv0809/tennis-ledger/internal/metrics"
	"github.com/mauv0809/tennis-ledger/internal/notifier"
	"github.com/mauv0809/tennis-ledger/internal/pubsub"
	"github.com/mauv0809/tennis-ledger/internal/resolver"
	"github.com/mauv0809/tennis-ledger/internal/session"
	"github.com/mauv0809/tennis-ledger/internal/stats"
	"github.com/mauv0809/tennis-ledger/internal/tennis"
)

const owner = "user-1"

var testTime = time.Date(2024, 6, 15, 18, 0, 0, 0, time.Local)

// countingStore counts every call that reaches the wrapped store.
type countingStore struct {
	docstore.Store
	calls atomic.Int32
}

func (s *countingStore) Create(ctx context.Context, collection string, doc docstore.Document) (string, error) {
	s.calls.Add(1)
	return s.Store.Create(ctx, collection, doc)
}

func (s *countingStore) Get(ctx context.Context, collection, id string) (docstore.Document, error) {
	s.calls.Add(1)
	return s.Store.Get(ctx, collection, id)
}

func (s *countingStore) Update(ctx context.Context, collection, id string, partial docstore.Document) error {
	s.calls.Add(1)
	return s.Store.Update(ctx, collection, id, partial)
}

func (s *countingStore) Delete(ctx context.Context, collection, id string) error {
	s.calls.Add(1)
	return s.Store.Delete(ctx, collection, id)
}

func (s *countingStore) Query(ctx context.Context, collection string, filters []docstore.Filter, sort docstore.Sort) ([]docstore.Document, error) {
	s.calls.Add(1)
	return s.Store.Query(ctx, collection, filters, sort)
}

type fixture struct {
	store    *countingStore
	clock    *clock.MockClock
	metrics  *metrics.Mock
	pubsub   *pubsub.MockPubSubClient
	notifier *notifier.Mock
	dir      *resolver.Directory
	resolver *resolver.Resolver
	recorder *Recorder
}

func newFixture(t *testing.T, userID string) *fixture {
	t.Helper()
	f := &fixture{
		store:    &countingStore{Store: memory.New()},
		clock:    clock.NewMock(testTime),
		metrics:  metrics.NewMock(),
		pubsub:   pubsub.NewMock(),
		notifier: notifier.NewMock(),
	}
	f.dir = resolver.NewDirectory(f.store, f.clock)
	f.resolver = resolver.New(f.store, f.metrics, f.clock)
	f.recorder = New(f.store, f.resolver, f.dir, session.Static{UserID: userID}, f.clock, f.metrics, f.pubsub, f.notifier)
	return f
}

// priceVenue creates a venue with the rates used across these tests.
func (f *fixture) priceVenue(t *testing.T, name string) *tennis.Venue {
	t.Helper()
	ctx := context.Background()
	venue, err := f.resolver.ResolveVenue(ctx, name)
	require.NoError(t, err)
	member, guest, light, heat := 10.0, 15.0, 2.0, 3.0
	venue, err = f.dir.UpdateVenue(ctx, venue.ID, resolver.VenueUpdate{
		PriceMember:  &member,
		PriceGuest:   &guest,
		PriceLight:   &light,
		PriceHeating: &heat,
	})
	require.NoError(t, err)
	return venue
}

func sets(pairs ...[2]string) []tennis.SetInput {
	out := make([]tennis.SetInput, len(pairs))
	for i, p := range pairs {
		out[i] = tennis.SetInput{S1: tennis.FormValue(p[0]), S2: tennis.FormValue(p[1])}
	}
	return out
}

func TestRecord_BuildsAndPersistsMatch(t *testing.T) {
	f := newFixture(t, owner)
	venue := f.priceVenue(t, "Riverside Courts")
	ctx := context.Background()

	result, err := f.recorder.Record(ctx, tennis.MatchInput{
		Player2Name: " Bob ",
		Date:        "2024-06-10",
		Location:    "Riverside Courts",
		Sets:        sets([2]string{"6", "4"}, [2]string{"3", "6"}, [2]string{"6", "2"}),
		Notes:       "good rallies",
		Duration:    "2",
		UseLights:   true,
		IsGuest:     true,
	})
	require.NoError(t, err)

	m := result.Match
	assert.NotEmpty(t, m.ID)
	assert.Equal(t, DefaultPlayer1Name, m.Player1Name)
	assert.Equal(t, "Bob", m.Player2Name)
	assert.Equal(t, venue.ID, *m.VenueID)
	assert.Equal(t, "Riverside Courts", *m.VenueName)
	assert.Equal(t, "2024-06-10", m.Date)
	assert.True(t, m.UserWon)
	assert.Equal(t, 2.0, m.DurationHours)
	assert.Equal(t, 34.0, m.TotalCost)
	assert.Equal(t, owner, m.OwnerID)
	assert.True(t, testTime.Equal(m.CreatedAt))
	assert.Empty(t, result.Warnings)

	stored, err := f.recorder.Get(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, m.Sets, stored.Sets)
	assert.Equal(t, m.TotalCost, stored.TotalCost)

	assert.Equal(t, 1, f.metrics.MatchesRecorded())
	assert.Len(t, f.metrics.SaveDurations(), 1)
	calls := f.pubsub.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, pubsub.EventMatchRecorded, calls[0].Topic)
	require.Len(t, f.notifier.MatchResults(), 1)
	assert.Equal(t, m.ID, f.notifier.MatchResults()[0].Match.ID)
}

func TestRecord_Defaults(t *testing.T) {
	f := newFixture(t, owner)

	result, err := f.recorder.Record(context.Background(), tennis.MatchInput{Player2Name: "Bob"})
	require.NoError(t, err)

	m := result.Match
	assert.Equal(t, "Me", m.Player1Name)
	assert.Equal(t, "2024-06-15", m.Date)
	assert.Equal(t, []tennis.Set{{S1: 0, S2: 0}}, m.Sets)
	assert.False(t, m.UserWon)
	assert.Equal(t, tennis.DefaultDurationHours, m.DurationHours)
	assert.Nil(t, m.VenueID)
	assert.Zero(t, m.TotalCost)
}

func TestRecord_Player1DefaultsToSessionNickname(t *testing.T) {
	f := newFixture(t, owner)
	ctx := context.Background()

	doc := tennis.NewPlayerDocument("Ada", testTime)
	doc["uid"] = owner
	_, err := f.store.Create(ctx, tennis.CollectionPlayers, doc)
	require.NoError(t, err)

	result, err := f.recorder.Record(ctx, tennis.MatchInput{Player2Name: "Bob"})
	require.NoError(t, err)
	assert.Equal(t, "Ada", result.Match.Player1Name)
	assert.Equal(t, 1, f.metrics.EntitiesCreated(tennis.CollectionPlayers), "only Bob is created")
}

func TestRecord_RejectsBeforeTouchingStore(t *testing.T) {
	tests := []struct {
		name  string
		user  string
		input tennis.MatchInput
		err   error
	}{
		{"missing opponent", owner, tennis.MatchInput{Player1Name: "Me", Player2Name: "   "}, tennis.ErrMissingOpponent},
		{"invalid date", owner, tennis.MatchInput{Player2Name: "Bob", Date: "tomorrow"}, tennis.ErrInvalidDate},
		{"signed out", "", tennis.MatchInput{Player2Name: "Bob"}, session.ErrUnauthenticated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.user)

			_, err := f.recorder.Record(context.Background(), tt.input)

			assert.ErrorIs(t, err, tt.err)
			assert.Zero(t, f.store.calls.Load(), "no store call expected")
			assert.Empty(t, f.pubsub.Calls())
		})
	}
}

func TestRecord_MissingOpponentIsValidationError(t *testing.T) {
	f := newFixture(t, owner)
	_, err := f.recorder.Record(context.Background(), tennis.MatchInput{})
	assert.ErrorIs(t, err, tennis.ErrValidation)
}

func TestRecord_CostOverrideWins(t *testing.T) {
	f := newFixture(t, owner)
	f.priceVenue(t, "Club")

	result, err := f.recorder.Record(context.Background(), tennis.MatchInput{
		Player2Name: "Bob",
		Location:    "Club",
		Duration:    "2",
		TotalCost:   "12,5",
	})
	require.NoError(t, err)
	assert.Equal(t, 12.5, result.Match.TotalCost)
}

func TestRecord_UnpricedVenueKeepsZeroCost(t *testing.T) {
	f := newFixture(t, owner)

	result, err := f.recorder.Record(context.Background(), tennis.MatchInput{
		Player2Name: "Bob",
		Location:    "New Park",
		Duration:    "2",
		UseLights:   true,
	})
	require.NoError(t, err)
	assert.Zero(t, result.Match.TotalCost)
	assert.Equal(t, 1, f.metrics.EntitiesCreated(tennis.CollectionVenues))
}

func TestRecord_ReturnsWarningsWithoutBlocking(t *testing.T) {
	f := newFixture(t, owner)

	result, err := f.recorder.Record(context.Background(), tennis.MatchInput{
		Player2Name: "Bob",
		Sets:        sets([2]string{"6", "5"}, [2]string{"9", "7"}),
	})
	require.NoError(t, err)
	require.Len(t, result.Warnings, 2)
	assert.Equal(t, "Set 2: high score, mark the set as a tie-break", result.Warnings[1].Message)
	assert.Equal(t, 2, f.metrics.ValidationWarnings())
	assert.NotEmpty(t, result.Match.ID)
}

func TestRecord_SideEffectFailuresAreLoggedOnly(t *testing.T) {
	f := newFixture(t, owner)
	f.pubsub.SendMessageFunc = func(topic pubsub.EventType, data any) error {
		return errors.New("pubsub down")
	}
	f.notifier.SendMatchResultFunc = func(match *tennis.Match) error {
		return errors.New("slack down")
	}

	result, err := f.recorder.Record(context.Background(), tennis.MatchInput{Player2Name: "Bob"})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Match.ID)
}

func TestRecord_StoreFailureSurfaces(t *testing.T) {
	f := newFixture(t, owner)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.recorder.Record(ctx, tennis.MatchInput{Player2Name: "Bob"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, f.metrics.MatchesRecorded())
}

func TestRevise_KeepsIdentityAndCreationTime(t *testing.T) {
	f := newFixture(t, owner)
	ctx := context.Background()

	created, err := f.recorder.Record(ctx, tennis.MatchInput{
		Player2Name: "Bob",
		Sets:        sets([2]string{"2", "6"}),
	})
	require.NoError(t, err)

	f.clock.Advance(2 * time.Hour)
	revised, err := f.recorder.Revise(ctx, created.Match.ID, tennis.MatchInput{
		Player2Name: "Robert",
		Sets:        sets([2]string{"6", "2"}),
	})
	require.NoError(t, err)

	m := revised.Match
	assert.Equal(t, created.Match.ID, m.ID)
	assert.True(t, created.Match.CreatedAt.Equal(m.CreatedAt))
	assert.True(t, testTime.Add(2*time.Hour).Equal(m.UpdatedAt))
	assert.Equal(t, "Robert", m.Player2Name)
	assert.True(t, m.UserWon)

	stored, err := f.recorder.Get(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "Robert", stored.Player2Name)
	assert.True(t, stored.UserWon)
	assert.True(t, created.Match.CreatedAt.Equal(stored.CreatedAt))
	assert.True(t, m.UpdatedAt.Equal(stored.UpdatedAt))

	all, err := f.recorder.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
	assert.Equal(t, 1, f.metrics.MatchesRevised())
	calls := f.pubsub.Calls()
	assert.Equal(t, pubsub.EventMatchRevised, calls[len(calls)-1].Topic)
	assert.Len(t, f.notifier.MatchResults(), 1, "revisions are not announced")
}

func TestRevise_ClearsVenue(t *testing.T) {
	f := newFixture(t, owner)
	ctx := context.Background()

	created, err := f.recorder.Record(ctx, tennis.MatchInput{Player2Name: "Bob", Location: "Club"})
	require.NoError(t, err)
	require.NotNil(t, created.Match.VenueID)

	_, err = f.recorder.Revise(ctx, created.Match.ID, tennis.MatchInput{Player2Name: "Bob"})
	require.NoError(t, err)

	stored, err := f.recorder.Get(ctx, created.Match.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.VenueID)
	assert.Nil(t, stored.VenueName)
}

func TestOwnerScoping(t *testing.T) {
	f := newFixture(t, owner)
	ctx := context.Background()

	mine, err := f.recorder.Record(ctx, tennis.MatchInput{Player2Name: "Bob"})
	require.NoError(t, err)

	other := New(f.store, f.resolver, f.dir, session.Static{UserID: "user-2"}, f.clock, f.metrics, f.pubsub, f.notifier)
	theirs, err := other.Record(ctx, tennis.MatchInput{Player2Name: "Bob"})
	require.NoError(t, err)

	_, err = f.recorder.Get(ctx, theirs.Match.ID)
	assert.ErrorIs(t, err, docstore.ErrNotFound)
	_, err = f.recorder.Revise(ctx, theirs.Match.ID, tennis.MatchInput{Player2Name: "Eve"})
	assert.ErrorIs(t, err, docstore.ErrNotFound)
	assert.ErrorIs(t, f.recorder.Delete(ctx, theirs.Match.ID), docstore.ErrNotFound)

	list, err := f.recorder.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, mine.Match.ID, list[0].ID)

	n, err := f.recorder.DeleteAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	remaining, err := other.List(ctx)
	require.NoError(t, err)
	assert.Len(t, remaining, 1)
}

func TestList_MostRecentFirst(t *testing.T) {
	f := newFixture(t, owner)
	ctx := context.Background()

	for _, date := range []string{"2024-05-01", "2024-06-01", "2024-05-01"} {
		_, err := f.recorder.Record(ctx, tennis.MatchInput{Player2Name: "Bob", Date: date})
		require.NoError(t, err)
		f.clock.Advance(time.Minute)
	}

	list, err := f.recorder.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "2024-06-01", list[0].Date)
	assert.Equal(t, "2024-05-01", list[1].Date)
	assert.True(t, list[1].CreatedAt.After(list[2].CreatedAt))
}

func TestDelete(t *testing.T) {
	f := newFixture(t, owner)
	ctx := context.Background()

	created, err := f.recorder.Record(ctx, tennis.MatchInput{Player2Name: "Bob"})
	require.NoError(t, err)

	require.NoError(t, f.recorder.Delete(ctx, created.Match.ID))
	_, err = f.recorder.Get(ctx, created.Match.ID)
	assert.ErrorIs(t, err, docstore.ErrNotFound)
	assert.Equal(t, 1, f.metrics.MatchesDeleted())

	calls := f.pubsub.Calls()
	assert.Equal(t, pubsub.EventMatchDeleted, calls[len(calls)-1].Topic)
}

func TestRoundTripThroughStoreAndStats(t *testing.T) {
	f := newFixture(t, owner)
	f.priceVenue(t, "Club")
	ctx := context.Background()

	input := tennis.MatchInput{
		Player2Name: "Bob",
		Location:    "Club",
		Sets:        sets([2]string{"6", "4"}, [2]string{"3", "6"}, [2]string{"6", "2"}),
		Duration:    "1.5",
		UseHeating:  true,
	}
	result, err := f.recorder.Record(ctx, input)
	require.NoError(t, err)

	svc := stats.NewService(f.recorder, f.metrics)
	s, err := svc.ForOwner(ctx)
	require.NoError(t, err)

	list, err := f.recorder.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, result.Match.UserWon, list[0].UserWon)
	assert.Equal(t, result.Match.TotalCost, list[0].TotalCost)
	assert.Equal(t, 19.5, list[0].TotalCost)
	assert.Equal(t, 1, s.Wins)
	assert.Equal(t, result.Match.TotalCost, s.TotalSpent)
}
