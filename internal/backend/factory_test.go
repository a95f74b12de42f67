package backend

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"budgetbot/internal/config"
	"budgetbot/internal/store/memory"
	"budgetbot/internal/store/sqlite"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietFactory() Factory {
	return NewFactory(quietLogger())
}

func TestFromAppConfig(t *testing.T) {
	_, err := FromAppConfig(nil)
	require.Error(t, err)

	_, err = FromAppConfig(&config.Config{DataBackend: "postgres"})
	require.Error(t, err)

	cfg, err := FromAppConfig(&config.Config{
		DataBackend:   "mongo",
		MongoURI:      "mongodb://localhost:27017",
		MongoDatabase: "budgetbot",
		MongoTimeout:  time.Second,
	})
	require.NoError(t, err)
	assert.Equal(t, MongoBackend, cfg.Type)
	assert.Equal(t, "budgetbot", cfg.MongoDatabase)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"mongo", Config{Type: MongoBackend, MongoURI: "mongodb://x", MongoDatabase: "db"}, false},
		{"mongo without uri", Config{Type: MongoBackend, MongoDatabase: "db"}, true},
		{"sqlite without path", Config{Type: SQLiteBackend}, true},
		{"memory", Config{Type: MemoryBackend}, false},
		{"unknown", Config{Type: "sheets"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			assert.Equal(t, tt.wantErr, err != nil, "err = %v", err)
		})
	}
}

func TestCreateBackend(t *testing.T) {
	ctx := context.Background()
	f := quietFactory()

	t.Run("memory", func(t *testing.T) {
		res, err := f.CreateBackend(ctx, Config{Type: MemoryBackend})
		require.NoError(t, err)
		assert.IsType(t, &memory.Store{}, res.Store)
		assert.NoError(t, res.Cleanup(ctx))
	})

	t.Run("sqlite", func(t *testing.T) {
		res, err := f.CreateBackend(ctx, Config{Type: SQLiteBackend, SQLiteDBPath: filepath.Join(t.TempDir(), "b.db")})
		require.NoError(t, err)
		assert.IsType(t, &sqlite.Repository{}, res.Store)
		assert.NoError(t, res.Store.Ping(ctx))
		assert.NoError(t, res.Cleanup(ctx))
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := f.CreateBackend(ctx, Config{Type: SQLiteBackend})
		require.Error(t, err)
	})
}
