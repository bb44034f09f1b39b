package registry_test

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/delta/pkg/action"
	"github.com/aretw0/delta/pkg/adapters/memory"
	"github.com/aretw0/delta/pkg/algorithm"
	"github.com/aretw0/delta/pkg/domain"
	"github.com/aretw0/delta/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ algorithm.Remote = (*registry.Registry)(nil)

var stamp = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

func defaults() []*domain.Record {
	var recs []*domain.Record
	for _, a := range algorithm.Defaults() {
		recs = append(recs, a.Record())
	}
	return recs
}

func TestRegistry_SeedOnlyWhenEmpty(t *testing.T) {
	ctx := context.Background()
	reg := registry.NewRegistry(memory.NewStore())

	require.NoError(t, reg.Seed(ctx, defaults()...))
	list, err := reg.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 4)
	assert.Equal(t, "Even or odd", list[0].Name)
	assert.Empty(t, list[0].Lines, "listing carries metadata only")
	assert.Equal(t, int64(1), list[0].RemoteID)
	assert.Zero(t, list[0].LocalID)

	require.NoError(t, reg.Seed(ctx, &domain.Record{RemoteID: 99, Name: "late", Lines: `print "x"`}))
	list, err = reg.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 4)
}

func TestRegistry_UploadAssignsIDs(t *testing.T) {
	ctx := context.Background()
	reg := registry.NewRegistry(memory.NewStore(), registry.WithClock(func() time.Time { return stamp }))

	first, err := reg.Upload(ctx, &domain.Record{LocalID: 17, Owner: true, Name: "a", Lines: `print "1"`, Status: domain.SyncUploading})
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.RemoteID)
	assert.Zero(t, first.LocalID)
	assert.False(t, first.Owner)
	assert.Empty(t, first.Status, "the sync status belongs to the local copy")
	assert.Equal(t, stamp, first.LastUpdate, "missing dates are stamped")

	second, err := reg.Upload(ctx, &domain.Record{Name: "b", Lines: `print "2"`, LastUpdate: stamp.Add(time.Hour)})
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.RemoteID)
	assert.Equal(t, stamp.Add(time.Hour), second.LastUpdate)

	again, err := reg.Upload(ctx, &domain.Record{RemoteID: 1, Name: "a2", Lines: `print "1"`})
	require.NoError(t, err)
	assert.Equal(t, int64(1), again.RemoteID)

	got, err := reg.Download(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "a2", got.Name)
	assert.Equal(t, `print "1"`, got.Lines)
	assert.Empty(t, got.Status)
}

func TestRegistry_RejectsBrokenPrograms(t *testing.T) {
	reg := registry.NewRegistry(memory.NewStore())
	_, err := reg.Upload(context.Background(), &domain.Record{Name: "bad", Lines: "if \"x\" {"})
	assert.Error(t, err)

	_, err = reg.Upload(context.Background(), nil)
	assert.Error(t, err)
}

func TestRegistry_CheckAndMissing(t *testing.T) {
	ctx := context.Background()
	reg := registry.NewRegistry(memory.NewStore())
	require.NoError(t, reg.Seed(ctx, defaults()...))

	meta, err := reg.Check(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "Fibonacci", meta.Name)
	assert.Empty(t, meta.Lines)

	_, err = reg.Check(ctx, 0)
	assert.ErrorIs(t, err, domain.ErrAlgorithmNotFound)
	_, err = reg.Download(ctx, 50)
	assert.ErrorIs(t, err, domain.ErrAlgorithmNotFound)

	require.NoError(t, reg.Delete(ctx, 2))
	_, err = reg.Download(ctx, 2)
	assert.ErrorIs(t, err, domain.ErrAlgorithmNotFound)
}

func TestRegistry_SyncRoundTrip(t *testing.T) {
	ctx := context.Background()
	reg := registry.NewRegistry(memory.NewStore())
	published, err := reg.Upload(ctx, &domain.Record{Name: "shared", Lines: `print "v1"`, LastUpdate: stamp})
	require.NoError(t, err)

	// A stale local copy downloads the newer remote program.
	local := algorithm.New(3, published.RemoteID, true, "shared", stamp.Add(-time.Hour), "", action.NewRoot(action.NewPrint(`"old"`)))
	var latest *algorithm.Algorithm
	outcome := local.CheckForUpdate(ctx, reg, func(a *algorithm.Algorithm) { latest = a })
	assert.Equal(t, algorithm.SyncDownload, outcome)
	require.NotNil(t, latest)
	assert.Equal(t, int64(3), latest.LocalID)
	assert.Equal(t, `print "v1"`, latest.String())

	// Editing it locally makes the local side newer, so it uploads.
	latest.LastUpdate = stamp.Add(time.Hour)
	latest.Root.Append(action.NewPrint("2"))
	outcome = latest.CheckForUpdate(ctx, reg, nil)
	assert.Equal(t, algorithm.SyncUpload, outcome)

	got, err := reg.Download(ctx, published.RemoteID)
	require.NoError(t, err)
	assert.Equal(t, "print \"v1\"\nprint \"2\"", got.Lines)
	assert.Equal(t, stamp.Add(time.Hour), got.LastUpdate)

	// Dates now match.
	outcome = latest.CheckForUpdate(ctx, reg, nil)
	assert.Equal(t, algorithm.SyncUpToDate, outcome)
	assert.Equal(t, domain.SyncSynchro, latest.Status)
}
