package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/delta/pkg/adapters/file"
	"github.com/aretw0/delta/pkg/domain"
	"github.com/aretw0/delta/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ports.AlgorithmStore = (*file.Store)(nil)

func TestFileStore_Contract(t *testing.T) {
	store := file.New(t.TempDir())
	ports.RunAlgorithmStoreContract(t, store)
}

func TestFileStore_DefaultPath(t *testing.T) {
	store := file.New("")
	assert.Equal(t, filepath.Join(".delta", "algorithms"), store.BasePath)
}

func TestFileStore_ListMissingDir(t *testing.T) {
	store := file.New(filepath.Join(t.TempDir(), "nope"))
	ids, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestFileStore_IgnoresForeignFiles(t *testing.T) {
	dir := t.TempDir()
	store := file.New(dir)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &domain.Record{LocalID: 3, Name: "three"}))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "abc.yaml"), []byte("name: x"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "9.yaml"), 0755))

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{3}, ids)
}

func TestFileStore_WritesReadableYAML(t *testing.T) {
	dir := t.TempDir()
	store := file.New(dir)
	ctx := context.Background()

	rec := &domain.Record{
		LocalID:    1,
		Owner:      true,
		Name:       "Doubler",
		LastUpdate: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		Lines:      "input \"x\" default \"2\"\nprint \"x * 2\"",
	}
	require.NoError(t, store.Save(ctx, rec))

	data, err := os.ReadFile(filepath.Join(dir, "1.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "name: Doubler")
	assert.Contains(t, string(data), "print \"x * 2\"")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestFileStore_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	store := file.New(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "4.yaml"), []byte("name: [unclosed"), 0644))

	_, err := store.Load(context.Background(), 4)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrAlgorithmNotFound)
}
