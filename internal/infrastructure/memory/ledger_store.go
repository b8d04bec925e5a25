// Package memory implementaciones en memoria de los puertos de persistencia y del directorio de
// identidades para los tests de los casos de uso, del router y del backfill.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/privat-admin-api/internal/application/credits"
	"github.com/jhoicas/privat-admin-api/internal/domain"
	"github.com/jhoicas/privat-admin-api/internal/domain/entity"
	"github.com/jhoicas/privat-admin-api/internal/domain/repository"
)

var (
	_ credits.LedgerTxRunner              = (*LedgerStore)(nil)
	_ repository.CreditLedgerRepository   = (*LedgerStore)(nil)
	_ repository.ProcessedEventRepository = (*LedgerStore)(nil)
)

// LedgerStore ledger en memoria. RunLedger serializa todas las transacciones (equivale a bloquear
// cualquier cuenta) y restaura el estado previo si fn falla.
type LedgerStore struct {
	txMu sync.Mutex

	mu        sync.RWMutex
	accounts  map[string]entity.CreditAccount
	history   map[string][]entity.CreditTransaction
	events    map[string]bool
	eventRefs map[string]bool
}

// NewLedgerStore crea un ledger vacío.
func NewLedgerStore() *LedgerStore {
	return &LedgerStore{
		accounts:  map[string]entity.CreditAccount{},
		history:   map[string][]entity.CreditTransaction{},
		events:    map[string]bool{},
		eventRefs: map[string]bool{},
	}
}

// RunLedger ejecuta fn con el propio store como repos; error => rollback al snapshot.
func (s *LedgerStore) RunLedger(ctx context.Context, fn func(
	ledger repository.CreditLedgerRepository,
	events repository.ProcessedEventRepository,
) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	snap := s.snapshot()
	if err := fn(s, s); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

// EnsureAccount crea la cuenta en 0 si no existe.
func (s *LedgerStore) EnsureAccount(_ context.Context, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[userID]; ok {
		return false, nil
	}
	s.accounts[userID] = entity.CreditAccount{UserID: userID, UpdatedAt: time.Now().UTC()}
	return true, nil
}

// LockAccount en memoria el bloqueo ya lo da RunLedger.
func (s *LedgerStore) LockAccount(_ context.Context, userID string) (*entity.CreditAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &a, nil
}

// GetAccount lectura; (nil, nil) si no existe.
func (s *LedgerStore) GetAccount(_ context.Context, userID string) (*entity.CreditAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[userID]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

// UpdateAccount guarda saldo y versión.
func (s *LedgerStore) UpdateAccount(_ context.Context, a *entity.CreditAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[a.UserID]; !ok {
		return domain.ErrNotFound
	}
	s.accounts[a.UserID] = *a
	return nil
}

// Append asigna Seq y agrega el movimiento.
func (s *LedgerStore) Append(_ context.Context, t *entity.CreditTransaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t.Seq = int64(len(s.history[t.UserID])) + 1
	s.history[t.UserID] = append(s.history[t.UserID], *t)
	return nil
}

// ListByUser copia de la historia en orden de inserción.
func (s *LedgerStore) ListByUser(_ context.Context, userID string) ([]entity.CreditTransaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entity.CreditTransaction(nil), s.history[userID]...), nil
}

// MarkProcessed mismas reglas que el índice único de Postgres: event_id o (kind, reference).
func (s *LedgerStore) MarkProcessed(_ context.Context, eventID, kind, reference string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	refKey := kind + "|" + reference
	if s.events[eventID] || (reference != "" && s.eventRefs[refKey]) {
		return false, nil
	}
	s.events[eventID] = true
	if reference != "" {
		s.eventRefs[refKey] = true
	}
	return true, nil
}

type ledgerSnapshot struct {
	accounts  map[string]entity.CreditAccount
	history   map[string][]entity.CreditTransaction
	events    map[string]bool
	eventRefs map[string]bool
}

func (s *LedgerStore) snapshot() ledgerSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := ledgerSnapshot{
		accounts:  make(map[string]entity.CreditAccount, len(s.accounts)),
		history:   make(map[string][]entity.CreditTransaction, len(s.history)),
		events:    make(map[string]bool, len(s.events)),
		eventRefs: make(map[string]bool, len(s.eventRefs)),
	}
	for k, v := range s.accounts {
		snap.accounts[k] = v
	}
	for k, v := range s.history {
		snap.history[k] = append([]entity.CreditTransaction(nil), v...)
	}
	for k, v := range s.events {
		snap.events[k] = v
	}
	for k, v := range s.eventRefs {
		snap.eventRefs[k] = v
	}
	return snap
}

func (s *LedgerStore) restore(snap ledgerSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts = snap.accounts
	s.history = snap.history
	s.events = snap.events
	s.eventRefs = snap.eventRefs
}
