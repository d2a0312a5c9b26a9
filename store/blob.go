// Package store persists the tables produced by each pipeline stage as
// timestamp-versioned artifacts over a pluggable blob store.
package store

import (
	"context"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// BlobStore is key addressed storage. It knows nothing of versions.
type BlobStore interface {
	// List the keys beginning with prefix, in no particular order.
	List(ctx context.Context, prefix string) ([]string, error)
	// Read the value of key. Absent keys are ErrBlobNotFound.
	Read(ctx context.Context, key string) ([]byte, error)
	// Write the value of key, replacing any existing value.
	Write(ctx context.Context, key string, value []byte) error
}

// ConditionalWriter is implemented by a BlobStore that can natively write a
// key only if it does not already exist.
type ConditionalWriter interface {
	// WriteNew writes key, failing with ErrBlobExists if it is present.
	WriteNew(ctx context.Context, key string, value []byte) error
}

// MemoryStore is a BlobStore held in a map.
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemoryStore creates an empty in-memory blob store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string][]byte)}
}

func (m *MemoryStore) List(ctx context.Context, prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var keys []string
	for k := range m.blobs {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

func (m *MemoryStore) Read(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.blobs[key]
	if !ok {
		return nil, errors.Wrap(ErrBlobNotFound, key)
	}
	return append([]byte(nil), b...), nil
}

func (m *MemoryStore) Write(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[key] = append([]byte(nil), value...)
	return nil
}

func (m *MemoryStore) WriteNew(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.blobs[key]; ok {
		return errors.Wrap(ErrBlobExists, key)
	}
	m.blobs[key] = append([]byte(nil), value...)
	return nil
}
