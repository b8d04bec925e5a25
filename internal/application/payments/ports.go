package payments

import (
	"context"

	"github.com/jhoicas/privat-admin-api/internal/application/credits"
)

// PaymentGateway crea transacciones en el procesador de pagos (Paddle Billing).
type PaymentGateway interface {
	// CreateTransaction crea una transacción de una unidad del precio dado y devuelve su id.
	CreateTransaction(ctx context.Context, priceID string, customData map[string]string) (string, error)
}

// WebhookVerifier valida la firma de un webhook sobre el cuerpo crudo.
type WebhookVerifier interface {
	Verify(rawBody []byte, signatureHeader string) error
}

// PaymentGranter acredita compras confirmadas (lo implementa el ledger de créditos).
type PaymentGranter interface {
	GrantCreditsFromPayment(ctx context.Context, g credits.PaymentGrant) (int64, bool, error)
}
