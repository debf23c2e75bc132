package models

// SnapshotVersion is the current persistence format. Version 1 is the legacy
// flat list of announced ids, which has no envelope at all.
const SnapshotVersion = 2

// Snapshot is the persisted form of every scope.
type Snapshot struct {
	Version int                    `json:"version"`
	Scopes  map[string]*ScopeState `json:"scopes"`
}

func NewSnapshot() *Snapshot {
	return &Snapshot{
		Version: SnapshotVersion,
		Scopes:  make(map[string]*ScopeState),
	}
}
