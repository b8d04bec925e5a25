package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AddCreditsRequest POST /api/users/:id/credits. Credits llega como número JSON;
// se valida entero positivo en el handler.
type AddCreditsRequest struct {
	Credits     *float64 `json:"credits"`
	PackageName string   `json:"packageName"`
}

// DeductCreditsRequest POST /api/users/:id/credits/deduct.
type DeductCreditsRequest struct {
	Credits   *float64 `json:"credits"`
	Reason    string   `json:"reason"`
	Reference string   `json:"reference,omitempty"` // job id cuando es un desbloqueo de lead
}

// CreditsResponse saldo después de un movimiento.
type CreditsResponse struct {
	OK      bool  `json:"ok"`
	Credits int64 `json:"credits"`
}

// CreditTransactionResponse movimiento del ledger.
type CreditTransactionResponse struct {
	ID          string    `json:"id,omitempty"`
	Type        string    `json:"type"`
	Amount      int64     `json:"amount"`
	Description string    `json:"description"`
	Source      string    `json:"source"`
	Reference   string    `json:"reference,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CreditStatementResponse GET /api/users/:id/credits.
type CreditStatementResponse struct {
	UserID  string                      `json:"userId"`
	Credits int64                       `json:"credits"`
	History []CreditTransactionResponse `json:"history"`
}

// CreditPackageResponse paquete del catálogo. PriceConfigured indica si hay price id de Paddle.
type CreditPackageResponse struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Credits         int64           `json:"credits"`
	Price           decimal.Decimal `json:"price"`
	PerCredit       decimal.Decimal `json:"perCredit"`
	Currency        string          `json:"currency"`
	PriceConfigured bool            `json:"priceConfigured"`
}
