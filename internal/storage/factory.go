package storage

import (
	"errors"
	"fmt"
	"strings"
)

// Backend names accepted by NewStore.
const (
	KindMemory = "memory"
	KindSQLite = "sqlite"
)

var ErrUnsupportedBackend = errors.New("unsupported store backend")

// NewStore opens the named backend. The sqlite backend is only available in
// binaries built with the sqlite tag.
func NewStore(kind, sqlitePath string) (Store, error) {
	switch NormalizeKind(kind) {
	case KindMemory:
		return NewMemoryStore(), nil
	case KindSQLite:
		return newSQLiteStore(sqlitePath)
	default:
		return nil, fmt.Errorf("%w: %q (want %s or %s)", ErrUnsupportedBackend, kind, KindMemory, KindSQLite)
	}
}

// NormalizeKind folds case and whitespace; an empty kind means memory.
func NormalizeKind(kind string) string {
	kind = strings.ToLower(strings.TrimSpace(kind))
	if kind == "" {
		return KindMemory
	}
	return kind
}

// Persistent reports whether runs saved through kind outlive the process.
func Persistent(kind string) bool {
	return NormalizeKind(kind) != KindMemory
}

// Close releases backends holding resources and is a no-op for the others.
func Close(store Store) error {
	if c, ok := store.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
