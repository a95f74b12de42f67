package backend

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"budgetbot/internal/core"
	"budgetbot/internal/log"
	"budgetbot/internal/store"
	"budgetbot/internal/store/memory"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakyIndexer fails the first failures calls, then succeeds.
type flakyIndexer struct {
	mu       sync.Mutex
	failures int
	calls    int
}

func (f *flakyIndexer) EnsureIndexes(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.calls <= f.failures {
		return errors.New("server selection error")
	}
	return nil
}

func (f *flakyIndexer) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func quietLogger() *log.Logger {
	cfg := log.DefaultConfig()
	cfg.Output = &bytes.Buffer{}
	return log.New(cfg)
}

func TestIndexedStoreRetriesBeforeWrites(t *testing.T) {
	ctx := context.Background()
	mem := memory.New()
	ix := &flakyIndexer{failures: 2}
	st := newIndexedStore(mem, ix, quietLogger())

	// boot attempt
	require.Error(t, st.ensureIndexes(ctx))

	b := core.Budget{UserID: 42, Username: "alice", Month: core.NewMonth(2024, 5), Amount: decimal.NewFromInt(500), CreatedAt: time.Now().UTC()}
	err := st.UpsertBudget(ctx, b)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ensure indexes")
	_, err = mem.FindBudget(ctx, 42, b.Month)
	assert.ErrorIs(t, err, store.ErrNotFound, "no write without indexes")

	require.NoError(t, st.UpsertBudget(ctx, b))
	require.NoError(t, st.CreateUser(ctx, core.NewUser(42, "alice")))
	require.NoError(t, st.UpsertBudget(ctx, b))
	assert.Equal(t, 3, ix.Calls(), "indexes are created once")
	assert.Equal(t, 1, mem.BudgetCount())
}

func TestIndexedStorePingRetriesIndexes(t *testing.T) {
	ctx := context.Background()
	ix := &flakyIndexer{failures: 1}
	st := newIndexedStore(memory.New(), ix, quietLogger())

	require.NoError(t, st.Ping(ctx), "index failure does not fail the probe")
	require.NoError(t, st.Ping(ctx))
	require.NoError(t, st.Ping(ctx))
	assert.Equal(t, 2, ix.Calls())
	assert.True(t, st.ready.Load())
}

func TestIndexedStoreConcurrentFirstWrites(t *testing.T) {
	ctx := context.Background()
	ix := &flakyIndexer{}
	st := newIndexedStore(memory.New(), ix, quietLogger())

	var wg sync.WaitGroup
	for i := int64(1); i <= 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, st.CreateUser(ctx, core.NewUser(i, "")))
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, ix.Calls())
}
