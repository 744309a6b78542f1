package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// timeoutStore bounds every write with a deadline so a stalled backend
// surfaces as ErrTimeout instead of hanging the caller.
type timeoutStore struct {
	next    Store
	timeout time.Duration
}

// WithTimeout wraps store so that Create, Update and Delete fail with
// ErrTimeout once d has elapsed. Reads run under the caller's context.
// A non-positive d returns store unchanged.
func WithTimeout(store Store, d time.Duration) Store {
	if d <= 0 {
		return store
	}
	return &timeoutStore{next: store, timeout: d}
}

func (s *timeoutStore) Create(ctx context.Context, collection string, doc Document) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	id, err := s.next.Create(ctx, collection, doc)
	return id, s.wrap(ctx, "create", collection, err)
}

func (s *timeoutStore) Get(ctx context.Context, collection, id string) (Document, error) {
	return s.next.Get(ctx, collection, id)
}

func (s *timeoutStore) Update(ctx context.Context, collection, id string, partial Document) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.wrap(ctx, "update", collection, s.next.Update(ctx, collection, id, partial))
}

func (s *timeoutStore) Delete(ctx context.Context, collection, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.wrap(ctx, "delete", collection, s.next.Delete(ctx, collection, id))
}

func (s *timeoutStore) Query(ctx context.Context, collection string, filters []Filter, sort Sort) ([]Document, error) {
	return s.next.Query(ctx, collection, filters, sort)
}

func (s *timeoutStore) wrap(ctx context.Context, op, collection string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%s %s after %s: %w", op, collection, s.timeout, ErrTimeout)
	}
	return err
}
