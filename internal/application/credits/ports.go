package credits

import (
	"context"
	"time"

	"github.com/jhoicas/privat-admin-api/internal/domain/repository"
)

// LedgerTxRunner ejecuta fn dentro de una transacción de BD con los repos del ledger atados a ella.
// Si fn devuelve error se hace Rollback de todo (movimiento, saldo y evento procesado).
type LedgerTxRunner interface {
	RunLedger(ctx context.Context, fn func(
		ledger repository.CreditLedgerRepository,
		events repository.ProcessedEventRepository,
	) error) error
}

// CacheInvalidator invalida el snapshot del directorio de usuarios después de cada escritura.
type CacheInvalidator interface {
	Invalidate(ctx context.Context) error
}

// EventPublisher publica los movimientos confirmados (Redis pub/sub, Kafka o no-op).
type EventPublisher interface {
	PublishCreditEvent(ctx context.Context, evt CreditEvent) error
}

// CreditEvent mensaje publicado tras cada movimiento confirmado.
type CreditEvent struct {
	TransactionID string    `json:"transactionId"`
	UserID        string    `json:"userId"`
	Type          string    `json:"type"`
	Amount        int64     `json:"amount"`
	Balance       int64     `json:"balance"`
	Source        string    `json:"source"`
	Reference     string    `json:"reference,omitempty"`
	Description   string    `json:"description"`
	OccurredAt    time.Time `json:"occurredAt"`
}
