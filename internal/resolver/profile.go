package resolver

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/mauv0809/tennis-ledger/internal/docstore"
	"github.com/mauv0809/tennis-ledger/internal/tennis"
)

// SetupProfile binds uid to a player and applies update to it.
//
// When a player already carries uid it is edited in place. Otherwise the
// nickname in update is resolved like any other name and the resulting
// player takes over uid, so matches already recorded against that
// nickname become the user's own history.
func (r *Resolver) SetupProfile(ctx context.Context, uid string, update PlayerUpdate) (*tennis.Player, error) {
	if uid == "" {
		return nil, tennis.ErrMissingUID
	}

	found, err := r.store.Query(ctx, tennis.CollectionPlayers,
		[]docstore.Filter{docstore.Eq("uid", uid)},
		docstore.Sort{Field: "createdAt", Direction: docstore.Ascending})
	if err != nil {
		return nil, fmt.Errorf("looking up profile: %w", err)
	}

	var id string
	if len(found) > 0 {
		id = tennis.PlayerFromDocument(found[0]).ID
	} else {
		var nickname string
		if update.Nickname != nil {
			nickname = *update.Nickname
		}
		doc, err := r.Resolve(ctx, PlayerKind, nickname)
		if err != nil {
			return nil, err
		}
		id = tennis.PlayerFromDocument(doc).ID
		update.Nickname = nil
	}

	partial, err := update.document()
	if err != nil {
		return nil, err
	}
	partial["uid"] = uid
	partial["updatedAt"] = tennis.FormatTimestamp(r.clock.Now())
	if err := r.store.Update(ctx, tennis.CollectionPlayers, id, partial); err != nil {
		return nil, fmt.Errorf("updating profile %s: %w", id, err)
	}

	doc, err := r.store.Get(ctx, tennis.CollectionPlayers, id)
	if err != nil {
		return nil, fmt.Errorf("getting profile %s: %w", id, err)
	}
	player := tennis.PlayerFromDocument(doc)
	log.Info("Profile saved", "uid", uid, "playerID", id, "nickname", player.Nickname)
	return player, nil
}
