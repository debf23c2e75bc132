package state

import (
	"errors"
	"fmt"
	"freegames/internal/providers"
	"freegames/internal/state/interfaces"
	"freegames/internal/structures"
)

var ErrUnsupportedDriver = errors.New("unsupported persistence driver")

// NewStore picks the persistence driver named in the config.
func NewStore(conf *structures.Config, compressor interfaces.CompressorInterface, logger providers.Logger) (interfaces.StoreInterface, error) {
	switch conf.Persistence.Driver {
	case "", "file":
		return NewFileStore(conf.Persistence.FilePath, conf.Persistence.Compress, compressor, logger), nil
	case "sqlite":
		return NewSQLiteStore(conf.Persistence.FilePath, logger)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, conf.Persistence.Driver)
	}
}
