package storage

import (
	"fmt"
	"vehlog/internal/providers"
	"vehlog/internal/storage/interfaces"
	"vehlog/internal/structures"
)

const (
	DriverFile   = "file"
	DriverBadger = "badger"
	DriverSqlite = "sqlite"
	DriverMemory = "memory"
)

// NewKeyValueProvider opens the driver selected by persistence.driver.
// The returned cleanup closes it.
func NewKeyValueProvider(conf *structures.Config, logger providers.Logger) (interfaces.KeyValueInterface, func(), error) {
	var (
		kv  interfaces.KeyValueInterface
		err error
	)
	path := conf.Persistence.Path

	switch conf.Persistence.Driver {
	case DriverFile, "":
		var compressor interfaces.CompressorInterface
		compressor, err = NewZstdCompressor(conf.Persistence.Compression)
		if err != nil {
			return nil, nil, err
		}
		kv, err = NewFileKV(path, compressor, logger)
		if err != nil {
			compressor.Close()
		}
	case DriverBadger:
		kv, err = NewBadgerKV(path, logger)
	case DriverSqlite:
		kv, err = NewSqliteKV(path)
	case DriverMemory:
		kv = NewMemoryKV()
	default:
		err = fmt.Errorf("unknown persistence driver %q", conf.Persistence.Driver)
	}
	if err != nil {
		return nil, nil, err
	}

	logger.Infof(providers.TypeStore, "Persistence driver %q opened at %q", conf.Persistence.Driver, path)
	cleanup := func() {
		if err := kv.Close(); err != nil {
			logger.Errorf(providers.TypeStore, "Error closing persistence: %s", err)
		}
	}
	return kv, cleanup, nil
}
