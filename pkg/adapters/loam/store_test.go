package loam_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/delta/internal/testutils"
	loamstore "github.com/aretw0/delta/pkg/adapters/loam"
	"github.com/aretw0/delta/pkg/domain"
	"github.com/aretw0/delta/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ports.AlgorithmStore = (*loamstore.Store)(nil)

func TestLoamStore_Contract(t *testing.T) {
	dir, repo := testutils.SetupTestRepo(t)
	ports.RunAlgorithmStoreContract(t, loamstore.New(dir, repo))
}

func TestLoamStore_DocumentLayout(t *testing.T) {
	dir, repo := testutils.SetupTestRepo(t)
	store := loamstore.New(dir, repo)
	ctx := context.Background()

	rec := &domain.Record{
		LocalID:    7,
		Owner:      true,
		Name:       "Squares",
		LastUpdate: time.Date(2023, 5, 6, 7, 8, 9, 0, time.UTC),
		Lines:      "for \"i\" in \"{1, 2, 3}\" {\n    print \"i ^ 2\"\n}",
	}
	require.NoError(t, store.Save(ctx, rec))

	data, err := os.ReadFile(filepath.Join(dir, "7.md"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Squares")
	assert.Contains(t, string(data), "print \"i ^ 2\"")

	loaded, err := store.Load(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, rec.Lines, loaded.Lines)
	assert.True(t, rec.LastUpdate.Equal(loaded.LastUpdate))
}

func TestLoamStore_ListSkipsForeignDocuments(t *testing.T) {
	dir, repo := testutils.SetupTestRepo(t)
	store := loamstore.New(dir, repo)
	ctx := context.Background()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.md"), []byte("---\nname: readme\n---\nhello"), 0644))
	require.NoError(t, store.Save(ctx, &domain.Record{LocalID: 2, Name: "two"}))

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, ids)
}

func TestLoamStore_Open(t *testing.T) {
	store, err := loamstore.Open(t.TempDir())
	require.NoError(t, err)

	ids, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids)
}
