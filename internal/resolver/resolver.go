// Package resolver turns display names into Player and Venue records,
// creating a record the first time a name is seen.
//
// Resolution is find-or-create without a uniqueness constraint: two
// concurrent first resolutions of the same new name can both miss the
// query and create two records. Later resolutions return the older one.
package resolver

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mauv0809/tennis-ledger/internal/clock"
	"github.com/mauv0809/tennis-ledger/internal/docstore"
	"github.com/mauv0809/tennis-ledger/internal/metrics"
	"github.com/mauv0809/tennis-ledger/internal/tennis"
)

// Kind describes a resolvable collection.
type Kind struct {
	Collection string
	NameField  string
	newDoc     func(name string, now time.Time) docstore.Document
}

var (
	PlayerKind = Kind{Collection: tennis.CollectionPlayers, NameField: "nickname", newDoc: tennis.NewPlayerDocument}
	VenueKind  = Kind{Collection: tennis.CollectionVenues, NameField: "name", newDoc: tennis.NewVenueDocument}
)

type Resolver struct {
	store   docstore.Store
	metrics metrics.Metrics
	clock   clock.Clock
}

func New(store docstore.Store, metrics metrics.Metrics, clock clock.Clock) *Resolver {
	return &Resolver{
		store:   store,
		metrics: metrics,
		clock:   clock,
	}
}

// Resolve returns the oldest record of kind whose name field equals the
// trimmed name, creating one when none exists.
func (r *Resolver) Resolve(ctx context.Context, kind Kind, name string) (docstore.Document, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, tennis.ErrEmptyName
	}

	found, err := r.store.Query(ctx, kind.Collection,
		[]docstore.Filter{docstore.Eq(kind.NameField, name)},
		docstore.Sort{Field: "createdAt", Direction: docstore.Ascending})
	if err != nil {
		return nil, fmt.Errorf("querying %s by name: %w", kind.Collection, err)
	}
	if len(found) > 0 {
		if len(found) > 1 {
			log.Debug("Name resolves to several records, using the oldest", "collection", kind.Collection, "name", name, "count", len(found))
		}
		return found[0], nil
	}

	doc := kind.newDoc(name, r.clock.Now())
	id, err := r.store.Create(ctx, kind.Collection, doc)
	if err != nil {
		return nil, fmt.Errorf("creating %s %q: %w", kind.Collection, name, err)
	}
	doc[docstore.IDField] = id
	r.metrics.IncEntitiesCreated(kind.Collection)
	log.Info("Created record from name", "collection", kind.Collection, "name", name, "id", id)
	return doc, nil
}

func (r *Resolver) ResolvePlayer(ctx context.Context, nickname string) (*tennis.Player, error) {
	doc, err := r.Resolve(ctx, PlayerKind, nickname)
	if err != nil {
		return nil, err
	}
	return tennis.PlayerFromDocument(doc), nil
}

func (r *Resolver) ResolveVenue(ctx context.Context, name string) (*tennis.Venue, error) {
	doc, err := r.Resolve(ctx, VenueKind, name)
	if err != nil {
		return nil, err
	}
	return tennis.VenueFromDocument(doc), nil
}
