package paddle

import (
	"context"
	"errors"
	"fmt"
	"time"

	paddlesdk "github.com/PaddleHQ/paddle-go-sdk/v4"
	"github.com/jhoicas/privat-admin-api/internal/application/payments"
	"github.com/jhoicas/privat-admin-api/pkg/metrics"
)

// Verificar en tiempo de compilación que Client implementa PaymentGateway.
var _ payments.PaymentGateway = (*Client)(nil)

const (
	ProductionBaseURL = "https://api.paddle.com"
	SandboxBaseURL    = "https://sandbox-api.paddle.com"
)

// BaseURLFor devuelve la URL del API según el entorno ("production" o cualquier otro => sandbox).
func BaseURLFor(environment string) string {
	if environment == "production" {
		return ProductionBaseURL
	}
	return SandboxBaseURL
}

// Client adaptador de Paddle Billing sobre el SDK oficial.
type Client struct {
	sdk *paddlesdk.SDK
	err error
}

// NewClient construye el adaptador. Si apiKey está vacío o el SDK no se puede crear, las
// llamadas devuelven ese error; el API arranca igual sin checkout.
func NewClient(apiKey, baseURL string) *Client {
	if apiKey == "" {
		return &Client{err: errors.New("paddle: PADDLE_API_KEY no configurado")}
	}
	sdk, err := paddlesdk.New(apiKey, paddlesdk.WithBaseURL(baseURL))
	if err != nil {
		return &Client{err: fmt.Errorf("paddle: crear cliente: %w", err)}
	}
	return &Client{sdk: sdk}
}

// CreateTransaction crea una transacción con un único ítem de catálogo (quantity 1).
func (c *Client) CreateTransaction(ctx context.Context, priceID string, customData map[string]string) (string, error) {
	if c.err != nil {
		return "", c.err
	}
	req := &paddlesdk.CreateTransactionRequest{
		Items: []paddlesdk.CreateTransactionItems{
			*paddlesdk.NewCreateTransactionItemsTransactionItemFromCatalog(&paddlesdk.TransactionItemFromCatalog{
				PriceID:  priceID,
				Quantity: 1,
			}),
		},
	}
	if len(customData) > 0 {
		req.CustomData = make(paddlesdk.CustomData, len(customData))
		for k, v := range customData {
			req.CustomData[k] = v
		}
	}

	started := time.Now()
	txn, err := c.sdk.CreateTransaction(ctx, req)
	metrics.UpstreamDuration.WithLabelValues("paddle", "create_transaction").Observe(time.Since(started).Seconds())
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("paddle: timeout o cancelación: %w", ctx.Err())
		}
		return "", fmt.Errorf("paddle: crear transacción: %w", err)
	}
	if txn == nil || txn.ID == "" {
		return "", errors.New("paddle: respuesta sin id de transacción")
	}
	return txn.ID, nil
}
