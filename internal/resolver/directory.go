package resolver

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/mauv0809/tennis-ledger/internal/clock"
	"github.com/mauv0809/tennis-ledger/internal/docstore"
	"github.com/mauv0809/tennis-ledger/internal/tennis"
)

// PlayerUpdate is a partial player edit. Nil fields are left unchanged.
type PlayerUpdate struct {
	Nickname          *string `json:"nickname,omitempty"`
	FirstName         *string `json:"firstName,omitempty"`
	LastName          *string `json:"lastName,omitempty"`
	Email             *string `json:"email,omitempty"`
	Phone             *string `json:"phone,omitempty"`
	IsDefaultOpponent *bool   `json:"isDefaultOpponent,omitempty"`
}

// document returns the fields to merge. A nickname that is set must not
// be blank.
func (u PlayerUpdate) document() (docstore.Document, error) {
	doc := docstore.Document{}
	if u.Nickname != nil {
		nickname := strings.TrimSpace(*u.Nickname)
		if nickname == "" {
			return nil, tennis.ErrEmptyName
		}
		doc["nickname"] = nickname
	}
	for key, v := range map[string]*string{
		"firstName": u.FirstName,
		"lastName":  u.LastName,
		"email":     u.Email,
		"phone":     u.Phone,
	} {
		if v != nil {
			doc[key] = *v
		}
	}
	if u.IsDefaultOpponent != nil {
		doc["isDefaultOpponent"] = *u.IsDefaultOpponent
	}
	return doc, nil
}

// VenueUpdate is a partial venue edit. Nil fields are left unchanged.
type VenueUpdate struct {
	Address      *string  `json:"address,omitempty"`
	City         *string  `json:"city,omitempty"`
	Phone        *string  `json:"phone,omitempty"`
	Latitude     *float64 `json:"lat,omitempty"`
	Longitude    *float64 `json:"lng,omitempty"`
	Surface      *string  `json:"surface,omitempty"`
	PriceMember  *float64 `json:"priceMember,omitempty"`
	PriceGuest   *float64 `json:"priceGuest,omitempty"`
	PriceLight   *float64 `json:"priceLight,omitempty"`
	PriceHeating *float64 `json:"priceHeating,omitempty"`
	IsDefault    *bool    `json:"isDefault,omitempty"`
}

func (u VenueUpdate) document() docstore.Document {
	doc := docstore.Document{}
	setString := func(key string, v *string) {
		if v != nil {
			doc[key] = *v
		}
	}
	setFloat := func(key string, v *float64) {
		if v != nil {
			doc[key] = *v
		}
	}
	setString("address", u.Address)
	setString("city", u.City)
	setString("phone", u.Phone)
	setString("surface", u.Surface)
	setFloat("lat", u.Latitude)
	setFloat("lng", u.Longitude)
	setFloat("priceMember", u.PriceMember)
	setFloat("priceGuest", u.PriceGuest)
	setFloat("priceLight", u.PriceLight)
	setFloat("priceHeating", u.PriceHeating)
	if u.IsDefault != nil {
		doc["isDefault"] = *u.IsDefault
	}
	return doc
}

// Directory reads and edits the shared player and venue records.
// Edits are unsynchronised: the last writer wins.
type Directory struct {
	store docstore.Store
	clock clock.Clock
}

func NewDirectory(store docstore.Store, clock clock.Clock) *Directory {
	return &Directory{store: store, clock: clock}
}

func (d *Directory) ListPlayers(ctx context.Context) ([]tennis.Player, error) {
	docs, err := d.store.Query(ctx, tennis.CollectionPlayers, nil, docstore.Sort{Field: PlayerKind.NameField})
	if err != nil {
		return nil, fmt.Errorf("listing players: %w", err)
	}
	players := make([]tennis.Player, 0, len(docs))
	for _, doc := range docs {
		players = append(players, *tennis.PlayerFromDocument(doc))
	}
	return players, nil
}

func (d *Directory) ListVenues(ctx context.Context) ([]tennis.Venue, error) {
	docs, err := d.store.Query(ctx, tennis.CollectionVenues, nil, docstore.Sort{Field: VenueKind.NameField})
	if err != nil {
		return nil, fmt.Errorf("listing venues: %w", err)
	}
	venues := make([]tennis.Venue, 0, len(docs))
	for _, doc := range docs {
		venues = append(venues, *tennis.VenueFromDocument(doc))
	}
	return venues, nil
}

// PlayerByUID returns the player carrying the given client token, or
// docstore.ErrNotFound.
func (d *Directory) PlayerByUID(ctx context.Context, uid string) (*tennis.Player, error) {
	docs, err := d.store.Query(ctx, tennis.CollectionPlayers,
		[]docstore.Filter{docstore.Eq("uid", uid)},
		docstore.Sort{Field: "createdAt"})
	if err != nil {
		return nil, fmt.Errorf("looking up player by uid: %w", err)
	}
	if len(docs) == 0 {
		return nil, docstore.ErrNotFound
	}
	return tennis.PlayerFromDocument(docs[0]), nil
}

// FindVenueByName returns the oldest venue with the given name without
// creating one. It returns nil when the name is unknown.
func (d *Directory) FindVenueByName(ctx context.Context, name string) (*tennis.Venue, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}
	docs, err := d.store.Query(ctx, tennis.CollectionVenues,
		[]docstore.Filter{docstore.Eq(VenueKind.NameField, name)},
		docstore.Sort{Field: "createdAt"})
	if err != nil {
		return nil, fmt.Errorf("looking up venue by name: %w", err)
	}
	if len(docs) == 0 {
		return nil, nil
	}
	return tennis.VenueFromDocument(docs[0]), nil
}

func (d *Directory) GetPlayer(ctx context.Context, id string) (*tennis.Player, error) {
	doc, err := d.store.Get(ctx, tennis.CollectionPlayers, id)
	if err != nil {
		return nil, fmt.Errorf("getting player %s: %w", id, err)
	}
	return tennis.PlayerFromDocument(doc), nil
}

// UpdatePlayer applies the set fields of update and returns the result.
// Matches keep the nickname they were recorded with.
func (d *Directory) UpdatePlayer(ctx context.Context, id string, update PlayerUpdate) (*tennis.Player, error) {
	partial, err := update.document()
	if err != nil {
		return nil, err
	}
	partial["updatedAt"] = tennis.FormatTimestamp(d.clock.Now())
	if err := d.store.Update(ctx, tennis.CollectionPlayers, id, partial); err != nil {
		return nil, fmt.Errorf("updating player %s: %w", id, err)
	}
	return d.GetPlayer(ctx, id)
}

// DeletePlayer removes a player record. Matches referencing it are kept.
func (d *Directory) DeletePlayer(ctx context.Context, id string) error {
	if err := d.store.Delete(ctx, tennis.CollectionPlayers, id); err != nil {
		return fmt.Errorf("deleting player %s: %w", id, err)
	}
	log.Info("Deleted player", "playerID", id)
	return nil
}

// DeleteVenue removes a venue record. Matches referencing it are kept.
func (d *Directory) DeleteVenue(ctx context.Context, id string) error {
	if err := d.store.Delete(ctx, tennis.CollectionVenues, id); err != nil {
		return fmt.Errorf("deleting venue %s: %w", id, err)
	}
	log.Info("Deleted venue", "venueID", id)
	return nil
}

func (d *Directory) GetVenue(ctx context.Context, id string) (*tennis.Venue, error) {
	doc, err := d.store.Get(ctx, tennis.CollectionVenues, id)
	if err != nil {
		return nil, fmt.Errorf("getting venue %s: %w", id, err)
	}
	return tennis.VenueFromDocument(doc), nil
}

// UpdateVenue applies the set fields of update and returns the result.
func (d *Directory) UpdateVenue(ctx context.Context, id string, update VenueUpdate) (*tennis.Venue, error) {
	partial := update.document()
	partial["updatedAt"] = tennis.FormatTimestamp(d.clock.Now())
	if err := d.store.Update(ctx, tennis.CollectionVenues, id, partial); err != nil {
		return nil, fmt.Errorf("updating venue %s: %w", id, err)
	}
	return d.GetVenue(ctx, id)
}
