package payments

import (
	"context"
	"fmt"

	"github.com/jhoicas/privat-admin-api/internal/domain"
	"github.com/jhoicas/privat-admin-api/internal/domain/entity"
	"github.com/jhoicas/privat-admin-api/pkg/logger"
)

// CheckoutUseCase abre transacciones de Paddle para comprar un paquete de créditos.
type CheckoutUseCase struct {
	gateway  PaymentGateway
	priceIDs map[string]string
	log      *logger.Logger
}

// NewCheckoutUseCase priceIDs: packageId -> price id de Paddle.
func NewCheckoutUseCase(gateway PaymentGateway, priceIDs map[string]string, log *logger.Logger) *CheckoutUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &CheckoutUseCase{gateway: gateway, priceIDs: priceIDs, log: log.Component("checkout")}
}

// CreateCheckout devuelve el id de la transacción creada. userId y packageId viajan como
// custom_data y vuelven en el webhook transaction.completed.
func (uc *CheckoutUseCase) CreateCheckout(ctx context.Context, userID, packageID string) (string, error) {
	if userID == "" || packageID == "" {
		return "", domain.ErrInvalidInput
	}
	pkg, ok := entity.FindCreditPackage(packageID)
	if !ok {
		return "", domain.ErrUnknownPackage
	}
	priceID := uc.priceIDs[pkg.ID]
	if priceID == "" {
		uc.log.Error().Str("package_id", pkg.ID).Msg("paquete sin price id de Paddle")
		return "", domain.ErrPriceNotConfigured
	}
	txnID, err := uc.gateway.CreateTransaction(ctx, priceID, map[string]string{
		"userId":    userID,
		"packageId": pkg.ID,
	})
	if err != nil {
		return "", fmt.Errorf("%w: crear transacción: %v", domain.ErrUpstream, err)
	}
	uc.log.Info().Str("user_id", userID).Str("package_id", pkg.ID).Str("transaction_id", txnID).
		Msg("checkout creado")
	return txnID, nil
}
