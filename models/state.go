package models

// SyncState tracks where an entity is in its local-to-server lifecycle.
// Lists, items and shares all share the same state machine:
//
//	ToSync  -> Syncing -> Synced | SyncError
//	Delete  -> Syncing -> removed from store | SyncError
//	SyncError -> Syncing (retry) | removed from store (server confirms gone)
type SyncState int

const (
	// StateSynced means the local copy matches the server; no action needed.
	StateSynced SyncState = iota
	// StateToSync marks an entity created or modified locally and not yet pushed.
	StateToSync
	// StateSyncing marks an entity with a push currently in flight.
	StateSyncing
	// StateDelete marks an entity deleted locally, pending server confirmation.
	StateDelete
	// StateError marks an entity whose last push was rejected; it must be
	// reconciled against server truth before another attempt.
	StateError
)

func (s SyncState) String() string {
	switch s {
	case StateSynced:
		return "synced"
	case StateToSync:
		return "to_sync"
	case StateSyncing:
		return "syncing"
	case StateDelete:
		return "delete"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Dirty reports whether the entity needs attention from the sync engine.
func (s SyncState) Dirty() bool {
	return s == StateToSync || s == StateDelete || s == StateError
}
