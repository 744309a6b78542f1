package memory

import (
	"context"
	"sync"

	"github.com/mauv0809/tennis-ledger/internal/docstore"
)

// Store is an in-memory document store. Documents are held encoded so
// callers never share maps with the store.
type Store struct {
	mu          sync.RWMutex
	collections map[string]*collection
}

type collection struct {
	order []string
	docs  map[string][]byte
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{collections: make(map[string]*collection)}
}

// Ensure Store implements the interface
var _ docstore.Store = (*Store)(nil)

func (s *Store) Create(ctx context.Context, name string, doc docstore.Document) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := docstore.Encode(doc)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.collection(name)
	id := docstore.NewID()
	c.docs[id] = data
	c.order = append(c.order, id)
	return id, nil
}

func (s *Store) Get(ctx context.Context, name, id string) (docstore.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.collections[name]
	if !ok {
		return nil, docstore.ErrNotFound
	}
	data, ok := c.docs[id]
	if !ok {
		return nil, docstore.ErrNotFound
	}
	return decodeWithID(data, id)
}

func (s *Store) Update(ctx context.Context, name, id string, partial docstore.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.collections[name]
	if !ok {
		return docstore.ErrNotFound
	}
	data, ok := c.docs[id]
	if !ok {
		return docstore.ErrNotFound
	}
	doc, err := docstore.Decode(data)
	if err != nil {
		return err
	}
	docstore.Merge(doc, partial)
	updated, err := docstore.Encode(doc)
	if err != nil {
		return err
	}
	c.docs[id] = updated
	return nil
}

func (s *Store) Delete(ctx context.Context, name, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.collections[name]
	if !ok {
		return docstore.ErrNotFound
	}
	if _, ok := c.docs[id]; !ok {
		return docstore.ErrNotFound
	}
	delete(c.docs, id)
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *Store) Query(ctx context.Context, name string, filters []docstore.Filter, sort docstore.Sort) ([]docstore.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.collections[name]
	if !ok {
		return []docstore.Document{}, nil
	}

	results := make([]docstore.Document, 0, len(c.order))
	for _, id := range c.order {
		doc, err := decodeWithID(c.docs[id], id)
		if err != nil {
			return nil, err
		}
		if docstore.Matches(doc, filters) {
			results = append(results, doc)
		}
	}
	docstore.SortDocuments(results, sort)
	return results, nil
}

func (s *Store) collection(name string) *collection {
	c, ok := s.collections[name]
	if !ok {
		c = &collection{docs: make(map[string][]byte)}
		s.collections[name] = c
	}
	return c
}

func decodeWithID(data []byte, id string) (docstore.Document, error) {
	doc, err := docstore.Decode(data)
	if err != nil {
		return nil, err
	}
	doc[docstore.IDField] = id
	return doc, nil
}
