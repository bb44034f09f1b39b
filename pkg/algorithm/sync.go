package algorithm

import (
	"context"

	"github.com/aretw0/delta/pkg/domain"
)

// Remote is the server side copy of shared algorithms.
type Remote interface {
	// Check returns the remote record metadata. Lines may be left empty.
	Check(ctx context.Context, remoteID int64) (*domain.Record, error)
	// Download returns the full remote record.
	Download(ctx context.Context, remoteID int64) (*domain.Record, error)
	// Upload stores rec remotely and returns the record as the remote saw it.
	Upload(ctx context.Context, rec *domain.Record) (*domain.Record, error)
}

// SyncOutcome is the result of CheckForUpdate.
type SyncOutcome int

const (
	SyncUpToDate SyncOutcome = iota
	SyncDownload
	SyncUpload
	SyncFailed
)

func (o SyncOutcome) String() string {
	switch o {
	case SyncDownload:
		return "download"
	case SyncUpload:
		return "upload"
	case SyncFailed:
		return "failed"
	}
	return "up_to_date"
}

// CheckForUpdate compares the local and remote last update dates and brings
// the older side up to date. changed is called on every status transition with
// the algorithm that now represents the local copy: the receiver itself, or a
// replacement built from the downloaded or uploaded record.
//
// Algorithms that were never uploaded are not checked.
func (a *Algorithm) CheckForUpdate(ctx context.Context, remote Remote, changed func(*Algorithm)) SyncOutcome {
	if a.RemoteID == 0 {
		return SyncUpToDate
	}
	notify := func(alg *Algorithm) {
		if changed != nil {
			changed(alg)
		}
	}
	fail := func() SyncOutcome {
		a.Status = domain.SyncFailed
		notify(a)
		return SyncFailed
	}

	a.Status = domain.SyncCheckingForUpdate
	notify(a)

	meta, err := remote.Check(ctx, a.RemoteID)
	if err != nil || meta == nil || meta.LastUpdate.IsZero() {
		return fail()
	}

	switch {
	case a.LastUpdate.Before(meta.LastUpdate):
		a.Status = domain.SyncDownloading
		notify(a)
		rec, err := remote.Download(ctx, a.RemoteID)
		if err != nil {
			return fail()
		}
		updated, err := a.replacement(rec)
		if err != nil {
			return fail()
		}
		notify(updated)
		return SyncDownload

	case a.LastUpdate.After(meta.LastUpdate):
		a.Status = domain.SyncUploading
		notify(a)
		rec, err := remote.Upload(ctx, a.Record())
		if err != nil {
			return fail()
		}
		updated, err := a.replacement(rec)
		if err != nil {
			return fail()
		}
		notify(updated)
		return SyncUpload
	}

	a.Status = domain.SyncSynchro
	notify(a)
	return SyncUpToDate
}

// replacement builds the local algorithm for a record received from the
// remote, keeping the local identity.
func (a *Algorithm) replacement(rec *domain.Record) (*Algorithm, error) {
	if rec == nil {
		return nil, errNilRecord
	}
	r := *rec
	r.LocalID = a.LocalID
	r.Owner = a.Owner
	if r.RemoteID == 0 {
		r.RemoteID = a.RemoteID
	}
	if r.Lines == "" {
		r.Lines = a.String()
	}
	updated, err := FromRecord(&r)
	if err != nil {
		return nil, err
	}
	updated.Status = domain.SyncSynchro
	return updated, nil
}
