package domain

// SyncStatus is the synchronization state of an algorithm.
type SyncStatus string

const (
	SyncLocal             SyncStatus = "local"               // Never uploaded
	SyncSynchro           SyncStatus = "synchro"             // Local and remote copies match
	SyncCheckingForUpdate SyncStatus = "checking_for_update" // Remote timestamp requested
	SyncDownloading       SyncStatus = "downloading"         // Remote copy is newer
	SyncUploading         SyncStatus = "uploading"           // Local copy is newer
	SyncFailed            SyncStatus = "failed"              // Remote unreachable
)

// Busy reports whether a synchronization step is in flight.
func (s SyncStatus) Busy() bool {
	switch s {
	case SyncCheckingForUpdate, SyncDownloading, SyncUploading:
		return true
	}
	return false
}
