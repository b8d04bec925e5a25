package repository

import (
	"context"

	"github.com/jhoicas/privat-admin-api/internal/domain/entity"
)

// CreditLedgerRepository persistencia del ledger de créditos (una fila por movimiento) y
// de la proyección de saldo. Los métodos de escritura deben usarse dentro de una transacción.
type CreditLedgerRepository interface {
	// EnsureAccount crea la cuenta con saldo 0 si no existe; created indica si fue creada ahora.
	EnsureAccount(ctx context.Context, userID string) (created bool, err error)
	// LockAccount lee la cuenta bloqueando la fila (SELECT FOR UPDATE) hasta el fin de la transacción.
	LockAccount(ctx context.Context, userID string) (*entity.CreditAccount, error)
	UpdateAccount(ctx context.Context, account *entity.CreditAccount) error
	// Append inserta el movimiento asignando Seq = último Seq del usuario + 1.
	Append(ctx context.Context, tx *entity.CreditTransaction) error
	// GetAccount lectura sin bloqueo; (nil, nil) si no existe.
	GetAccount(ctx context.Context, userID string) (*entity.CreditAccount, error)
	// ListByUser historia en orden de inserción (Seq asc).
	ListByUser(ctx context.Context, userID string) ([]entity.CreditTransaction, error)
}

// ProcessedEventRepository registro de eventos externos ya aplicados (idempotencia de webhooks).
type ProcessedEventRepository interface {
	// MarkProcessed registra el evento; devuelve false si ya estaba registrado (replay).
	MarkProcessed(ctx context.Context, eventID, kind, reference string) (bool, error)
}
