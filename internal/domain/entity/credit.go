package entity

import "time"

// Tipos de movimiento del ledger de créditos.
const (
	CreditTypeAdd    = "add"
	CreditTypeDeduct = "deduct"
)

// Origen del movimiento.
const (
	CreditSourceAdmin   = "admin"
	CreditSourcePayment = "payment"
	CreditSourceUnlock  = "unlock"
	CreditSourceLegacy  = "legacy" // importado desde creditHistory de la metadata
)

// CreditTransaction es una entrada inmutable del ledger. Seq es el orden de inserción por usuario.
type CreditTransaction struct {
	ID          string
	UserID      string
	Seq         int64
	Type        string
	Amount      int64 // magnitud, siempre > 0
	Description string
	Source      string
	Reference   string // transaction id de Paddle, job id, etc.
	CreatedAt   time.Time
}

// Signed devuelve el efecto del movimiento sobre el saldo.
func (t CreditTransaction) Signed() int64 {
	if t.Type == CreditTypeDeduct {
		return -t.Amount
	}
	return t.Amount
}

// CreditAccount proyección materializada del saldo. Version crece con cada movimiento.
// MetadataEntries es el largo de creditHistory en la metadata la última vez que el ledger la
// leyó o escribió; -1 si la cuenta es anterior a ese seguimiento.
type CreditAccount struct {
	UserID          string
	Credits         int64
	Version         int64
	MetadataEntries int
	UpdatedAt       time.Time
}

// ReplayBalance recalcula el saldo aplicando la historia completa en orden.
func ReplayBalance(history []CreditTransaction) int64 {
	var total int64
	for _, t := range history {
		total += t.Signed()
	}
	return total
}

// CreditHistoryEntry serializa un movimiento con la forma que espera la app móvil
// ({type, amount, createdAt, description}).
func CreditHistoryEntry(t CreditTransaction) map[string]any {
	return map[string]any{
		"type":        t.Type,
		"amount":      t.Amount,
		"createdAt":   t.CreatedAt.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		"description": t.Description,
	}
}
