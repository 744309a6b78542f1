package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/tennis-ledger/internal/docstore"
)

// store keeps documents as msgpack blobs in the documents table.
// Filtering and sorting happen in memory after a collection scan.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a document store on top of an initialised database.
func New(db *sql.DB) docstore.Store {
	return &store{
		db: db,
	}
}

func (s *store) Create(ctx context.Context, collection string, doc docstore.Document) (string, error) {
	body, err := docstore.Encode(doc)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := docstore.NewID()
	now := time.Now().UnixNano()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO documents (collection, id, body, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		collection, id, body, now, now,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert into %s: %w", collection, err)
	}
	log.Debug("Created document", "collection", collection, "id", id)
	return id, nil
}

func (s *store) Get(ctx context.Context, collection, id string) (docstore.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getLocked(ctx, s.db, collection, id)
}

func (s *store) Update(ctx context.Context, collection, id string, partial docstore.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	doc, err := s.getLocked(ctx, tx, collection, id)
	if err != nil {
		return err
	}
	docstore.Merge(doc, partial)
	body, err := docstore.Encode(doc)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx,
		`UPDATE documents SET body = ?, updated_at = ? WHERE collection = ? AND id = ?`,
		body, time.Now().UnixNano(), collection, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update %s/%s: %w", collection, id, err)
	}
	return tx.Commit()
}

func (s *store) Delete(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE collection = ? AND id = ?`, collection, id)
	if err != nil {
		return fmt.Errorf("failed to delete %s/%s: %w", collection, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return docstore.ErrNotFound
	}
	return nil
}

func (s *store) Query(ctx context.Context, collection string, filters []docstore.Filter, sort docstore.Sort) ([]docstore.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, body FROM documents WHERE collection = ? ORDER BY created_at, id`,
		collection,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", collection, err)
	}
	defer rows.Close()

	results := []docstore.Document{}
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			log.Error("Failed to scan document row", "error", err, "collection", collection)
			continue
		}
		if docstore.Matches(doc, filters) {
			results = append(results, doc)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	docstore.SortDocuments(results, sort)
	return results, nil
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *store) getLocked(ctx context.Context, q queryRower, collection, id string) (docstore.Document, error) {
	row := q.QueryRowContext(ctx, `SELECT id, body FROM documents WHERE collection = ? AND id = ?`, collection, id)
	doc, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, docstore.ErrNotFound
		}
		return nil, err
	}
	return doc, nil
}

// scanDocument is a helper function to scan a single document row.
func scanDocument(scanner interface{ Scan(...any) error }) (docstore.Document, error) {
	var id string
	var body []byte
	if err := scanner.Scan(&id, &body); err != nil {
		return nil, err
	}
	doc, err := docstore.Decode(body)
	if err != nil {
		return nil, err
	}
	doc[docstore.IDField] = id
	return doc, nil
}
