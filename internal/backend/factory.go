package backend

import (
	"context"
	"fmt"

	"budgetbot/internal/log"
	"budgetbot/internal/store/memory"
	"budgetbot/internal/store/mongodb"
	"budgetbot/internal/store/sqlite"
)

type DefaultFactory struct {
	logger *log.Logger
}

func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &DefaultFactory{logger: logger.WithComponent(log.ComponentBackend)}
}

func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case MongoBackend:
		return f.createMongoBackend(ctx, config)
	case SQLiteBackend:
		return f.createSQLiteBackend(config)
	case MemoryBackend:
		return f.createMemoryBackend()
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

// createMongoBackend does not require the server to be reachable. Index
// creation is attempted here and retried by the returned store until it
// succeeds.
func (f *DefaultFactory) createMongoBackend(ctx context.Context, config Config) (*BackendResult, error) {
	st, err := mongodb.New(config.MongoURI, config.MongoDatabase, config.MongoTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize MongoDB store: %w", err)
	}

	idxCtx, cancel := context.WithTimeout(ctx, config.MongoTimeout)
	defer cancel()
	indexed := newIndexedStore(st, st, f.logger)
	if err := indexed.ensureIndexes(idxCtx); err != nil {
		f.logger.Warn("Failed to ensure MongoDB indexes, will retry before the first write", log.FieldError, err)
	}

	f.logger.Info("Initialized MongoDB backend", "database", config.MongoDatabase)

	return &BackendResult{
		Store:   indexed,
		Cleanup: st.Close,
	}, nil
}

func (f *DefaultFactory) createSQLiteBackend(config Config) (*BackendResult, error) {
	repo, err := sqlite.NewRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)

	return &BackendResult{
		Store:   repo,
		Cleanup: func(context.Context) error { return repo.Close() },
	}, nil
}

func (f *DefaultFactory) createMemoryBackend() (*BackendResult, error) {
	f.logger.Info("Initialized memory backend")

	return &BackendResult{
		Store:   memory.New(),
		Cleanup: func(context.Context) error { return nil },
	}, nil
}
