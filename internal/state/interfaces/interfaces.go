package interfaces

import "freegames/internal/models"

type CompressorInterface interface {
	Compress(val []byte) ([]byte, error)
	Decompress(val []byte) ([]byte, error)
	Close()
}

// StoreInterface loads and writes the whole registry at once.
// Load on a store that has never been written returns an empty snapshot.
type StoreInterface interface {
	Load() (*models.Snapshot, error)
	Save(snapshot *models.Snapshot) error
	Close() error
}

type SchedulerInterface interface {
	Init()
	Stop()
	Restore() error
	Persist() error
}
