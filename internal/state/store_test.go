package state

import (
	"freegames/internal/structures"
	"freegames/internal/testutil"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storeConfig(driver, path string) *structures.Config {
	return &structures.Config{
		Persistence: structures.Persistence{Driver: driver, FilePath: path},
	}
}

func TestNewStore_FileDriver(t *testing.T) {
	store, err := NewStore(storeConfig("file", filepath.Join(t.TempDir(), "s.json")), &testutil.MockCompressor{}, &testutil.MockLogger{})
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, store)
}

func TestNewStore_DefaultsToFile(t *testing.T) {
	store, err := NewStore(storeConfig("", filepath.Join(t.TempDir(), "s.json")), &testutil.MockCompressor{}, &testutil.MockLogger{})
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, store)
}

func TestNewStore_SQLiteDriver(t *testing.T) {
	store, err := NewStore(storeConfig("sqlite", filepath.Join(t.TempDir(), "s.db")), &testutil.MockCompressor{}, &testutil.MockLogger{})
	require.NoError(t, err)
	defer store.Close()
	assert.IsType(t, &SQLiteStore{}, store)
}

func TestNewStore_UnknownDriver(t *testing.T) {
	_, err := NewStore(storeConfig("redis", "x"), &testutil.MockCompressor{}, &testutil.MockLogger{})
	assert.ErrorIs(t, err, ErrUnsupportedDriver)
}
