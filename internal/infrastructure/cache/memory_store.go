package cache

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/privat-admin-api/internal/application/directory"
)

var _ directory.SnapshotStore = (*MemoryStore)(nil)

// MemoryStore snapshot en memoria del proceso (una sola instancia del API).
// El vencimiento lo decide directory.Cache con su reloj; ttl se ignora.
type MemoryStore struct {
	mu   sync.RWMutex
	snap *directory.Snapshot
}

// NewMemoryStore crea el store vacío.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load devuelve el snapshot guardado o nil.
func (s *MemoryStore) Load(context.Context) (*directory.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap, nil
}

// Save reemplaza el snapshot.
func (s *MemoryStore) Save(_ context.Context, snap *directory.Snapshot, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = snap
	return nil
}

// Clear descarta el snapshot.
func (s *MemoryStore) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = nil
	return nil
}
