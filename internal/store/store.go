// Package store provides the key-value stores the pet engine persists its save record to.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNotFound is returned by Get when no value exists for the key
var ErrNotFound = errors.New("store: key not found")

// Store is a durable key-value store. Implementations are not required to be safe
// for concurrent use; the engine serializes its calls.
type Store interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
	Close() error
}

// Backend names accepted by Open
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// DefaultDir returns ~/.config/mimi
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", "mimi"), nil
}

// Open creates the store for the named backend rooted at dir
func Open(backend, dir string) (Store, error) {
	switch backend {
	case BackendMemory:
		return NewMemory(), nil
	case BackendFile, "":
		return NewFile(dir)
	case BackendSQLite:
		return OpenSQLite(filepath.Join(dir, "mimi.db"))
	default:
		return nil, fmt.Errorf("unknown store backend %q", backend)
	}
}
