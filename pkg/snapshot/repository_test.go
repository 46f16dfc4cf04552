package snapshot

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/finboard/finboard/internal/test_utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshotAt(kind string, generatedAt time.Time) Snapshot {
	return Snapshot{
		Kind:        kind,
		From:        time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		To:          time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC),
		GeneratedAt: generatedAt,
		Payload:     json.RawMessage(`{"total":42}`),
	}
}

func TestRepositoryImpl(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)

	t.Run("should store and read a snapshot", func(t *testing.T) {
		// given
		repo := NewRepository(test_utils.SetupTestDB(t))

		// when
		id, err := repo.Store(ctx, snapshotAt("categories", base))
		require.NoError(t, err)
		stored, err := repo.Get(ctx, id)

		// then
		require.NoError(t, err)
		assert.Equal(t, id, stored.Id)
		assert.Equal(t, "categories", stored.Kind)
		assert.True(t, base.Equal(stored.GeneratedAt))
		assert.Equal(t, 31, stored.To.Day())
		assert.JSONEq(t, `{"total":42}`, string(stored.Payload))
	})

	t.Run("should return not found for unknown id", func(t *testing.T) {
		repo := NewRepository(test_utils.SetupTestDB(t))

		_, err := repo.Get(ctx, uuid.New())

		assert.ErrorIs(t, err, ErrSnapshotNotFound)
	})

	t.Run("should list newest first filtered by kind and limited", func(t *testing.T) {
		// given
		repo := NewRepository(test_utils.SetupTestDB(t))
		for i, kind := range []string{"categories", "income-expense", "categories", "categories"} {
			_, err := repo.Store(ctx, snapshotAt(kind, base.Add(time.Duration(i)*time.Hour)))
			require.NoError(t, err)
		}

		// when
		all, err := repo.List(ctx, "", 0)
		require.NoError(t, err)
		categories, err := repo.List(ctx, "categories", 2)
		require.NoError(t, err)

		// then
		assert.Len(t, all, 4)
		require.Len(t, categories, 2)
		assert.True(t, categories[0].GeneratedAt.Equal(base.Add(3*time.Hour)))
		assert.True(t, categories[1].GeneratedAt.Equal(base.Add(2*time.Hour)))
	})

	t.Run("should delete a snapshot once", func(t *testing.T) {
		// given
		repo := NewRepository(test_utils.SetupTestDB(t))
		id, err := repo.Store(ctx, snapshotAt("wallet-balances", base))
		require.NoError(t, err)

		// when
		err = repo.Delete(ctx, id)

		// then
		require.NoError(t, err)
		_, err = repo.Get(ctx, id)
		assert.ErrorIs(t, err, ErrSnapshotNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, id), ErrSnapshotNotFound)
	})
}
