package state

import (
	"fmt"
	"freegames/internal/models"
	"freegames/internal/providers"
	"freegames/internal/state/interfaces"
	json "github.com/goccy/go-json"
	"os"
	"path/filepath"
	"time"
)

// FileStore keeps the whole snapshot in a single file, optionally zstd
// compressed. Plain JSON files are always readable.
type FileStore struct {
	path       string
	compress   bool
	compressor interfaces.CompressorInterface
	logger     providers.Logger
	now        func() time.Time
}

func NewFileStore(path string, compress bool, compressor interfaces.CompressorInterface, logger providers.Logger) *FileStore {
	return &FileStore{
		path:       path,
		compress:   compress,
		compressor: compressor,
		logger:     logger,
		now:        time.Now,
	}
}

func (f *FileStore) Load() (*models.Snapshot, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return models.NewSnapshot(), nil
		}
		return nil, err
	}
	if len(data) == 0 {
		return models.NewSnapshot(), nil
	}

	if isCompressed(data) {
		data, err = f.compressor.Decompress(data)
		if err != nil {
			return nil, fmt.Errorf("decompress %s: %w", f.path, err)
		}
	}

	snapshot, migrated, err := decodeSnapshot(data, f.now().UTC())
	if err != nil {
		return nil, err
	}
	if migrated {
		f.logger.Warnf(providers.TypeApp, "Legacy state found in %s, migrated %d scopes to version %d", f.path, len(snapshot.Scopes), models.SnapshotVersion)
	}
	return snapshot, nil
}

func (f *FileStore) Save(snapshot *models.Snapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	if f.compress {
		data, err = f.compressor.Compress(data)
		if err != nil {
			return err
		}
	}

	if err = os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return err
	}

	tmpFile := f.path + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, f.path)
}

func (f *FileStore) Close() error {
	f.compressor.Close()
	return nil
}
