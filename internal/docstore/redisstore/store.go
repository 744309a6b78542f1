package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"

	"github.com/mauv0809/tennis-ledger/internal/docstore"
)

// Store is a Redis-backed document store. Each document is a msgpack
// string; each collection keeps a sorted set of its ids.
type Store struct {
	client *redis.Client
}

// New connects to Redis and verifies the connection.
func New(cfg Config) (*Store, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	return &Store{client: client}, nil
}

// NewWithClient creates a Redis store with an existing client (for testing)
func NewWithClient(client *redis.Client) *Store {
	return &Store{client: client}
}

// Close closes the Redis connection
func (s *Store) Close() error {
	return s.client.Close()
}

// Ensure Store implements the interface
var _ docstore.Store = (*Store)(nil)

func (s *Store) Create(ctx context.Context, collection string, doc docstore.Document) (string, error) {
	body, err := docstore.Encode(doc)
	if err != nil {
		return "", err
	}
	id := docstore.NewID()

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, documentKey(collection, id), body, 0)
		pipe.ZAdd(ctx, collectionIndexKey(collection), redis.Z{
			Score:  float64(time.Now().UnixMicro()),
			Member: id,
		})
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to create document in %s: %w", collection, err)
	}
	return id, nil
}

func (s *Store) Get(ctx context.Context, collection, id string) (docstore.Document, error) {
	body, err := s.client.Get(ctx, documentKey(collection, id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, docstore.ErrNotFound
		}
		return nil, err
	}
	return decodeWithID(body, id)
}

// maxUpdateAttempts bounds the optimistic retries of Update.
const maxUpdateAttempts = 3

// Update merges partial into the stored body under WATCH, so a document
// deleted between the read and the write stays deleted.
func (s *Store) Update(ctx context.Context, collection, id string, partial docstore.Document) error {
	key := documentKey(collection, id)
	update := func(tx *redis.Tx) error {
		body, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return docstore.ErrNotFound
			}
			return err
		}
		doc, err := decodeWithID(body, id)
		if err != nil {
			return err
		}
		docstore.Merge(doc, partial)
		merged, err := docstore.Encode(doc)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, merged, 0)
			return nil
		})
		return err
	}

	for range maxUpdateAttempts {
		err := s.client.Watch(ctx, update, key)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
		log.Debug("Document changed during update, retrying", "collection", collection, "id", id)
	}
	return fmt.Errorf("failed to update %s/%s: %w", collection, id, redis.TxFailedErr)
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	var del *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		del = pipe.Del(ctx, documentKey(collection, id))
		pipe.ZRem(ctx, collectionIndexKey(collection), id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s/%s: %w", collection, id, err)
	}
	if del.Val() == 0 {
		return docstore.ErrNotFound
	}
	return nil
}

func (s *Store) Query(ctx context.Context, collection string, filters []docstore.Filter, sort docstore.Sort) ([]docstore.Document, error) {
	ids, err := s.client.ZRange(ctx, collectionIndexKey(collection), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	results := []docstore.Document{}
	if len(ids) == 0 {
		return results, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = documentKey(collection, id)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			// Index entry without a body; the document was deleted mid-scan.
			continue
		}
		doc, err := decodeWithID([]byte(raw), ids[i])
		if err != nil {
			log.Error("Failed to decode document", "error", err, "collection", collection, "id", ids[i])
			continue
		}
		if docstore.Matches(doc, filters) {
			results = append(results, doc)
		}
	}
	docstore.SortDocuments(results, sort)
	return results, nil
}

func decodeWithID(body []byte, id string) (docstore.Document, error) {
	doc, err := docstore.Decode(body)
	if err != nil {
		return nil, err
	}
	doc[docstore.IDField] = id
	return doc, nil
}
