package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReferralCode código de referido emitido a un usuario.
type ReferralCode struct {
	ID        string
	Code      string
	UserID    string
	Uses      int
	MaxUses   *int
	CreatedAt time.Time
	ExpiresAt *time.Time
}

// SubscriptionHistoryItem fila de subscription_history.
type SubscriptionHistoryItem struct {
	ID        string
	UserID    string
	Plan      string
	Status    string
	StartedAt time.Time
	EndedAt   *time.Time
	Amount    decimal.NullDecimal
	Currency  string
}
