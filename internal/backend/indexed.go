package backend

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"budgetbot/internal/core"
	"budgetbot/internal/log"
	"budgetbot/internal/store"
)

// Indexer creates the unique indexes a store's upserts rely on.
type Indexer interface {
	EnsureIndexes(ctx context.Context) error
}

// indexedStore holds back user and budget inserts until the unique indexes
// exist, retrying index creation on every such write and after every
// successful ping until it succeeds once.
type indexedStore struct {
	store.Store
	indexer Indexer
	logger  *log.Logger

	mu    sync.Mutex
	ready atomic.Bool
}

func newIndexedStore(st store.Store, indexer Indexer, logger *log.Logger) *indexedStore {
	return &indexedStore{Store: st, indexer: indexer, logger: logger}
}

func (s *indexedStore) ensureIndexes(ctx context.Context) error {
	if s.ready.Load() {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ready.Load() {
		return nil
	}
	if err := s.indexer.EnsureIndexes(ctx); err != nil {
		return err
	}
	s.ready.Store(true)
	s.logger.InfoContext(ctx, "Store indexes ensured")
	return nil
}

func (s *indexedStore) Ping(ctx context.Context) error {
	if err := s.Store.Ping(ctx); err != nil {
		return err
	}
	if err := s.ensureIndexes(ctx); err != nil {
		s.logger.WarnContext(ctx, "Failed to ensure store indexes", log.FieldError, err)
	}
	return nil
}

func (s *indexedStore) CreateUser(ctx context.Context, u core.User) error {
	if err := s.ensureIndexes(ctx); err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}
	return s.Store.CreateUser(ctx, u)
}

func (s *indexedStore) UpsertBudget(ctx context.Context, b core.Budget) error {
	if err := s.ensureIndexes(ctx); err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}
	return s.Store.UpsertBudget(ctx, b)
}
