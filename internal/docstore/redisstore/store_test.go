package redisstore

import (
	"context"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/mauv0809/tennis-ledger/internal/docstore"
	"github.com/mauv0809/tennis-ledger/internal/docstore/storetest"
)

func TestStoreSuite(t *testing.T) {
	suite.Run(t, &storetest.Suite{NewStore: func(t *testing.T) docstore.Store {
		mini := miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: mini.Addr()})
		store := NewWithClient(client)
		t.Cleanup(func() { _ = store.Close() })
		return store
	}})
}

func TestNew(t *testing.T) {
	mini := miniredis.RunT(t)

	cfg := DefaultConfig()
	cfg.URL = "redis://" + mini.Addr()
	store, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	mini.Close()
	_, err = New(cfg)
	assert.Error(t, err, "an unreachable server fails the ping")

	cfg.URL = "not-a-url"
	_, err = New(cfg)
	assert.Error(t, err)
}

// afterFirstGet runs fn once, right after the first GET the hooked client
// completes.
type afterFirstGet struct {
	once sync.Once
	fn   func()
}

func (h *afterFirstGet) DialHook(next redis.DialHook) redis.DialHook {
	return next
}

func (h *afterFirstGet) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		err := next(ctx, cmd)
		if cmd.Name() == "get" {
			h.once.Do(h.fn)
		}
		return err
	}
}

func (h *afterFirstGet) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

// racingStores returns a store whose first read inside Update is followed
// by race running against a second store on the same server.
func racingStores(t *testing.T) (hooked, other *Store, hook *afterFirstGet) {
	t.Helper()
	mini := miniredis.RunT(t)

	other = NewWithClient(redis.NewClient(&redis.Options{Addr: mini.Addr()}))
	t.Cleanup(func() { _ = other.Close() })

	client := redis.NewClient(&redis.Options{Addr: mini.Addr()})
	hook = &afterFirstGet{}
	client.AddHook(hook)
	hooked = NewWithClient(client)
	t.Cleanup(func() { _ = hooked.Close() })
	return hooked, other, hook
}

func TestUpdate_DeletedMidUpdateStaysDeleted(t *testing.T) {
	ctx := context.Background()
	hooked, other, hook := racingStores(t)

	id, err := other.Create(ctx, "players", docstore.Document{"nickname": "Bob"})
	require.NoError(t, err)
	hook.fn = func() {
		require.NoError(t, other.Delete(ctx, "players", id))
	}

	err = hooked.Update(ctx, "players", id, docstore.Document{"nickname": "Bobby"})
	assert.ErrorIs(t, err, docstore.ErrNotFound)

	_, err = other.Get(ctx, "players", id)
	assert.ErrorIs(t, err, docstore.ErrNotFound, "the body is not written back")
	docs, err := other.Query(ctx, "players", nil, docstore.Sort{})
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestUpdate_RetriesAfterConcurrentWrite(t *testing.T) {
	ctx := context.Background()
	hooked, other, hook := racingStores(t)

	id, err := other.Create(ctx, "venues", docstore.Document{"name": "Club"})
	require.NoError(t, err)
	hook.fn = func() {
		require.NoError(t, other.Update(ctx, "venues", id, docstore.Document{"surface": "clay"}))
	}

	require.NoError(t, hooked.Update(ctx, "venues", id, docstore.Document{"priceMember": 10.0}))

	doc, err := other.Get(ctx, "venues", id)
	require.NoError(t, err)
	assert.Equal(t, "clay", doc["surface"])
	assert.Equal(t, "Club", doc["name"])
	assert.NotNil(t, doc["priceMember"])
}
