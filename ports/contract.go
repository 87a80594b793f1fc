package ports

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/matchcycle/model"
)

// RunHistoryStoreContract verifies that a HistoryStore implementation honours
// the interface contract. The store must start empty.
func RunHistoryStoreContract(t *testing.T, store HistoryStore) {
	ctx := context.Background()

	t.Run("Empty", func(t *testing.T) {
		recs, err := store.LoadHistory(ctx)
		require.NoError(t, err)
		assert.Empty(t, recs)
	})

	t.Run("Append and Load", func(t *testing.T) {
		err := store.AppendHistory(ctx, []model.HistoryRecord{
			{A: "bob", B: "alice", LastCycle: 3},
			{A: "carol", B: "dave", LastCycle: 3},
		})
		require.NoError(t, err)

		idx := model.IndexHistory(mustLoad(t, store))
		assert.Len(t, idx, 2)
		assert.Equal(t, int64(3), idx[model.NewPairKey("alice", "bob")])
		assert.Equal(t, int64(3), idx[model.NewPairKey("carol", "dave")])
	})

	t.Run("Newer cycle wins", func(t *testing.T) {
		require.NoError(t, store.AppendHistory(ctx, []model.HistoryRecord{{A: "alice", B: "bob", LastCycle: 5}}))
		require.NoError(t, store.AppendHistory(ctx, []model.HistoryRecord{{A: "bob", B: "alice", LastCycle: 4}}))

		idx := model.IndexHistory(mustLoad(t, store))
		assert.Equal(t, int64(5), idx[model.NewPairKey("alice", "bob")])
	})

	t.Run("Empty append is a no-op", func(t *testing.T) {
		before := len(mustLoad(t, store))
		require.NoError(t, store.AppendHistory(ctx, nil))
		assert.Len(t, mustLoad(t, store), before)
	})
}

func mustLoad(t *testing.T, store HistoryStore) []model.HistoryRecord {
	t.Helper()
	recs, err := store.LoadHistory(context.Background())
	require.NoError(t, err)
	return recs
}
