package backend

import (
	"context"
	"time"

	"budgetbot/internal/store"
)

// CleanupFunc releases the resources held by a backend.
type CleanupFunc func(ctx context.Context) error

// BackendResult contains the store and its cleanup function.
type BackendResult struct {
	Store   store.Store
	Cleanup CleanupFunc
}

// Factory creates stores based on configuration.
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

type Config struct {
	Type BackendType

	// MongoDB specific
	MongoURI      string
	MongoDatabase string
	MongoTimeout  time.Duration

	// SQLite specific
	SQLiteDBPath string
}

type BackendType string

const (
	MongoBackend  BackendType = "mongo"
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

func (bt BackendType) String() string {
	return string(bt)
}

func (bt BackendType) IsValid() bool {
	switch bt {
	case MongoBackend, SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
