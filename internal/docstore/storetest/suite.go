// Package storetest holds the behaviour every docstore.Store backend must share.
package storetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mauv0809/tennis-ledger/internal/docstore"
)

// Suite runs the common contract against the store returned by NewStore.
// NewStore is called before every test with that test's *testing.T.
type Suite struct {
	suite.Suite
	NewStore func(t *testing.T) docstore.Store

	store docstore.Store
	ctx   context.Context
}

func (s *Suite) SetupTest() {
	s.store = s.NewStore(s.T())
	s.ctx = context.Background()
}

func (s *Suite) TestCreateAndGet() {
	id, err := s.store.Create(s.ctx, "players", docstore.Document{
		"nickname": "Rafa",
		"level":    3.5,
		"wins":     12,
		"active":   true,
		"email":    nil,
	})
	s.Require().NoError(err)
	s.NotEmpty(id)

	doc, err := s.store.Get(s.ctx, "players", id)
	s.Require().NoError(err)
	s.Equal(id, doc[docstore.IDField])
	s.Equal("Rafa", doc["nickname"])
	s.Equal(0, docstore.Compare(12, doc["wins"]))
	s.Equal(0, docstore.Compare(3.5, doc["level"]))
	s.Equal(true, doc["active"])
	s.Nil(doc["email"])
}

func (s *Suite) TestCreateIgnoresIDField() {
	id, err := s.store.Create(s.ctx, "players", docstore.Document{docstore.IDField: "forged", "nickname": "Novak"})
	s.Require().NoError(err)
	s.NotEqual("forged", id)

	_, err = s.store.Get(s.ctx, "players", "forged")
	s.ErrorIs(err, docstore.ErrNotFound)
}

func (s *Suite) TestNestedValuesRoundTrip() {
	id, err := s.store.Create(s.ctx, "matches", docstore.Document{
		"sets": []any{
			map[string]any{"s1": 6, "s2": 4, "tieBreak": false},
			map[string]any{"s1": 7, "s2": 6, "tieBreak": true},
		},
	})
	s.Require().NoError(err)

	doc, err := s.store.Get(s.ctx, "matches", id)
	s.Require().NoError(err)
	sets, ok := doc["sets"].([]any)
	s.Require().True(ok)
	s.Require().Len(sets, 2)
	second, ok := sets[1].(map[string]any)
	s.Require().True(ok)
	s.Equal(0, docstore.Compare(7, second["s1"]))
	s.Equal(true, second["tieBreak"])
}

func (s *Suite) TestGetMissing() {
	_, err := s.store.Get(s.ctx, "players", "does-not-exist")
	s.ErrorIs(err, docstore.ErrNotFound)
}

func (s *Suite) TestUpdateMergesFields() {
	id, err := s.store.Create(s.ctx, "venues", docstore.Document{"name": "Club", "priceMember": 0.0, "surface": "clay"})
	s.Require().NoError(err)

	err = s.store.Update(s.ctx, "venues", id, docstore.Document{"priceMember": 12.5})
	s.Require().NoError(err)

	doc, err := s.store.Get(s.ctx, "venues", id)
	s.Require().NoError(err)
	s.Equal("Club", doc["name"])
	s.Equal("clay", doc["surface"])
	s.Equal(0, docstore.Compare(12.5, doc["priceMember"]))
}

func (s *Suite) TestUpdateMissing() {
	err := s.store.Update(s.ctx, "venues", "nope", docstore.Document{"name": "x"})
	s.ErrorIs(err, docstore.ErrNotFound)
}

func (s *Suite) TestDelete() {
	id, err := s.store.Create(s.ctx, "matches", docstore.Document{"ownerId": "u1"})
	s.Require().NoError(err)

	s.Require().NoError(s.store.Delete(s.ctx, "matches", id))

	_, err = s.store.Get(s.ctx, "matches", id)
	s.ErrorIs(err, docstore.ErrNotFound)
	s.ErrorIs(s.store.Delete(s.ctx, "matches", id), docstore.ErrNotFound)

	docs, err := s.store.Query(s.ctx, "matches", nil, docstore.Sort{})
	s.Require().NoError(err)
	s.Empty(docs)
}

func (s *Suite) TestQueryFiltersAndSorts() {
	seed := []docstore.Document{
		{"ownerId": "u1", "date": "2024-05-02", "totalCost": 10},
		{"ownerId": "u2", "date": "2024-05-03", "totalCost": 20},
		{"ownerId": "u1", "date": "2024-05-04", "totalCost": 30.5},
		{"ownerId": "u1", "date": "2024-05-01", "totalCost": 0},
	}
	for _, doc := range seed {
		_, err := s.store.Create(s.ctx, "matches", doc)
		s.Require().NoError(err)
	}

	docs, err := s.store.Query(s.ctx, "matches",
		[]docstore.Filter{docstore.Eq("ownerId", "u1")},
		docstore.Sort{Field: "date", Direction: docstore.Descending},
	)
	s.Require().NoError(err)
	s.Require().Len(docs, 3)
	s.Equal("2024-05-04", docs[0]["date"])
	s.Equal("2024-05-02", docs[1]["date"])
	s.Equal("2024-05-01", docs[2]["date"])
	for _, doc := range docs {
		s.NotEmpty(doc[docstore.IDField])
	}

	docs, err = s.store.Query(s.ctx, "matches", nil, docstore.Sort{Field: "totalCost"})
	s.Require().NoError(err)
	s.Require().Len(docs, 4)
	s.Equal("2024-05-01", docs[0]["date"])
	s.Equal("2024-05-04", docs[3]["date"])
}

func (s *Suite) TestQueryNumericFilterAcrossWidths() {
	_, err := s.store.Create(s.ctx, "venues", docstore.Document{"name": "A", "priceMember": 15})
	s.Require().NoError(err)

	docs, err := s.store.Query(s.ctx, "venues", []docstore.Filter{docstore.Eq("priceMember", int64(15))}, docstore.Sort{})
	s.Require().NoError(err)
	s.Len(docs, 1)
}

func (s *Suite) TestQueryEmptyCollection() {
	docs, err := s.store.Query(s.ctx, "nothing-here", nil, docstore.Sort{})
	s.Require().NoError(err)
	s.NotNil(docs)
	s.Empty(docs)
}
