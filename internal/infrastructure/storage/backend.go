package storage

import (
	"fmt"

	"github.com/ecoscan/backend/internal/domain"
)

// Open selects a backend by configured type. path is a directory for the
// file backend and a database file for sqlite; the memory backend ignores it.
func Open(storageType, path string) (domain.StorageBackend, error) {
	switch storageType {
	case "memory":
		return NewMemoryStore(), nil
	case "file":
		return NewFileStore(path)
	case "sqlite":
		return NewSQLiteStore(path)
	default:
		return nil, fmt.Errorf("unknown storage type: %s", storageType)
	}
}
