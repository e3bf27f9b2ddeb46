package storage

import (
	"errors"
	"testing"
)

func TestNewStoreMemory(t *testing.T) {
	for _, kind := range []string{"", "memory", " Memory "} {
		store, err := NewStore(kind, "")
		if err != nil {
			t.Fatalf("new store %q: %v", kind, err)
		}
		if _, ok := store.(*MemoryStore); !ok {
			t.Fatalf("kind %q: expected memory store, got %T", kind, store)
		}
		if err := Close(store); err != nil {
			t.Fatalf("close: %v", err)
		}
	}
}

func TestNewStoreUnsupported(t *testing.T) {
	_, err := NewStore("unknown", "")
	if !errors.Is(err, ErrUnsupportedBackend) {
		t.Fatalf("expected unsupported backend error, got %v", err)
	}
}

func TestPersistent(t *testing.T) {
	if Persistent("") || Persistent(KindMemory) {
		t.Fatal("memory store must not report persistence")
	}
	if !Persistent(KindSQLite) {
		t.Fatal("sqlite store must report persistence")
	}
}
