package storage

import (
	"fmt"
	"statekeeper/internal/providers"
	"statekeeper/internal/structures"
)

// NewBackendProvider builds the configured backend, wrapped with the blob
// cache when it is enabled. The returned cleanup closes database handles.
func NewBackendProvider(conf *structures.Config, logger providers.Logger, clock providers.TimeSource, cache providers.CacheProviderInterface) (Backend, func(), error) {
	var (
		backend Backend
		cleanup = func() {}
	)

	switch conf.Storage.Backend {
	case "file":
		fb, err := NewFileBackend(conf.Storage.Path, logger)
		if err != nil {
			return nil, nil, err
		}
		backend = fb
	case "badger":
		bb, err := OpenBadgerBackend(conf.Storage.Path, logger)
		if err != nil {
			return nil, nil, err
		}
		backend = bb
		cleanup = func() {
			if err := bb.Close(); err != nil {
				logger.Errorf(providers.TypeStore, "Failed to close badger: %s", err)
			}
		}
	case "sqlite":
		sb, err := OpenSQLiteBackend(conf.Storage.Path, clock)
		if err != nil {
			return nil, nil, err
		}
		backend = sb
		cleanup = func() {
			if err := sb.Close(); err != nil {
				logger.Errorf(providers.TypeStore, "Failed to close sqlite: %s", err)
			}
		}
	case "memory":
		backend = NewMemoryBackend()
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", conf.Storage.Backend)
	}

	logger.Infof(providers.TypeStore, "Storage backend %s at %q", conf.Storage.Backend, conf.Storage.Path)
	if conf.Cache.Enabled && conf.Cache.Size > 0 {
		backend = NewCachedBackend(backend, cache)
	}
	return backend, cleanup, nil
}
