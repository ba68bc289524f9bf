package clickhouse_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goz-scoring/internal/domain"
	"goz-scoring/internal/idhash"
	"goz-scoring/internal/storage"
	"goz-scoring/internal/storage/clickhouse"
)

func teamScore(runID, team string, hub, fromHub, external, total uint64) *domain.TeamScore {
	s := domain.Score{
		HubOpaquePackets:   hub,
		PacketsFromHub:     fromHub,
		OpaquePacketsTx:    external,
		OpaquePacketsTotal: total,
	}
	return &domain.TeamScore{
		RecordID:           idhash.ComputeTeamScoreID(runID, team),
		RunID:              runID,
		Team:               team,
		HubOpaquePackets:   hub,
		PacketsFromHub:     fromHub,
		OpaquePacketsTx:    external,
		OpaquePacketsTotal: total,
		TotalScore:         s.WeightedTotal(),
		CreatedAt:          1760875200000,
	}
}

func TestTeamScoreStore(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := clickhouse.NewTeamScoreStore(conn)

	t.Run("InsertBulk and GetByRunID", func(t *testing.T) {
		err := store.InsertBulk(ctx, []*domain.TeamScore{
			teamScore("run-1", "beta", 0, 0, 1, 1),
			teamScore("run-1", "Team Alpha", 2, 1, 3, 7),
		})
		require.NoError(t, err)

		got, err := store.GetByRunID(ctx, "run-1")
		require.NoError(t, err)
		require.Len(t, got, 2)

		assert.Equal(t, "Team Alpha", got[0].Team)
		assert.Equal(t, uint64(7), got[0].OpaquePacketsTotal)
		assert.InDelta(t, 2.8, got[0].TotalScore, 1e-9)
		assert.Equal(t, "beta", got[1].Team)
		assert.Equal(t, uint64(1), got[1].OpaquePacketsTx)
	})

	t.Run("duplicate rejects whole batch", func(t *testing.T) {
		err := store.InsertBulk(ctx, []*domain.TeamScore{
			teamScore("run-1", "gamma", 1, 0, 0, 1),
			teamScore("run-1", "beta", 5, 0, 0, 5),
		})
		assert.ErrorIs(t, err, storage.ErrDuplicateKey)

		got, err := store.GetByRunID(ctx, "run-1")
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("intra-batch duplicate", func(t *testing.T) {
		err := store.InsertBulk(ctx, []*domain.TeamScore{
			teamScore("run-2", "alpha", 1, 0, 0, 1),
			teamScore("run-2", "alpha", 1, 0, 0, 1),
		})
		assert.ErrorIs(t, err, storage.ErrDuplicateKey)
	})

	t.Run("ListRuns", func(t *testing.T) {
		runs, err := store.ListRuns(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"run-1"}, runs)
	})
}
