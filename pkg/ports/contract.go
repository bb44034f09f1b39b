package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/delta/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunAlgorithmStoreContract runs a suite of tests to verify that an AlgorithmStore
// implementation adheres to the defined interface contract.
// The store is expected to be empty.
func RunAlgorithmStoreContract(t *testing.T, store AlgorithmStore) {
	ctx := context.Background()
	stamp := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)

	record := func(id int64) *domain.Record {
		return &domain.Record{
			LocalID:    id,
			RemoteID:   id * 100,
			Owner:      true,
			Name:       "contract",
			Icon:       "default",
			LastUpdate: stamp,
			Lines:      "input \"x\" default \"1\"\nprint \"x\"",
			Notes:      "notes",
			Public:     true,
			Status:     domain.SyncFailed,
		}
	}

	t.Run("Save and Load", func(t *testing.T) {
		rec := record(1)
		require.NoError(t, store.Save(ctx, rec), "Save should not return error")

		loaded, err := store.Load(ctx, 1)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, rec.LocalID, loaded.LocalID)
		assert.Equal(t, rec.RemoteID, loaded.RemoteID)
		assert.Equal(t, rec.Owner, loaded.Owner)
		assert.Equal(t, rec.Name, loaded.Name)
		assert.Equal(t, rec.Icon, loaded.Icon)
		assert.Equal(t, rec.Lines, loaded.Lines)
		assert.Equal(t, rec.Notes, loaded.Notes)
		assert.Equal(t, rec.Public, loaded.Public)
		assert.Equal(t, rec.Status, loaded.Status)
		assert.True(t, rec.LastUpdate.Equal(loaded.LastUpdate), "LastUpdate should survive persistence")

		_ = store.Delete(ctx, 1)
	})

	t.Run("Save Overwrites", func(t *testing.T) {
		rec := record(2)
		require.NoError(t, store.Save(ctx, rec))
		rec.Name = "renamed"
		require.NoError(t, store.Save(ctx, rec))

		loaded, err := store.Load(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, "renamed", loaded.Name)

		_ = store.Delete(ctx, 2)
	})

	t.Run("Loaded Record Is A Copy", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, record(3)))
		loaded, err := store.Load(ctx, 3)
		require.NoError(t, err)
		loaded.Name = "mutated"

		again, err := store.Load(ctx, 3)
		require.NoError(t, err)
		assert.Equal(t, "contract", again.Name)

		_ = store.Delete(ctx, 3)
	})

	t.Run("Save Without ID", func(t *testing.T) {
		err := store.Save(ctx, record(0))
		assert.ErrorIs(t, err, domain.ErrInvalidID)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, 4040)
		assert.ErrorIs(t, err, domain.ErrAlgorithmNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, record(5)))

		require.NoError(t, store.Delete(ctx, 5), "Delete should not return error")

		_, err := store.Load(ctx, 5)
		assert.ErrorIs(t, err, domain.ErrAlgorithmNotFound, "Load after Delete should return ErrAlgorithmNotFound")

		assert.NoError(t, store.Delete(ctx, 5), "Deleting twice should not fail")
	})

	t.Run("List", func(t *testing.T) {
		for _, id := range []int64{12, 7, 30} {
			require.NoError(t, store.Save(ctx, record(id)))
		}
		defer func() {
			for _, id := range []int64{12, 7, 30} {
				_ = store.Delete(ctx, id)
			}
		}()

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []int64{7, 12, 30}, ids)
	})
}
