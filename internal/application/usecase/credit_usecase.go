package usecase

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/jhoicas/privat-admin-api/internal/application/credits"
	"github.com/jhoicas/privat-admin-api/internal/application/dto"
	"github.com/jhoicas/privat-admin-api/internal/domain"
	"github.com/jhoicas/privat-admin-api/internal/domain/entity"
)

// maxCreditAmount tope por movimiento manual.
const maxCreditAmount = 1_000_000

// CreditUseCase operaciones de créditos del dashboard sobre el ledger.
type CreditUseCase struct {
	ledger   *credits.LedgerUseCase
	priceIDs map[string]string
}

// NewCreditUseCase construye el caso de uso. priceIDs solo se usa para informar qué paquetes
// se pueden vender.
func NewCreditUseCase(ledger *credits.LedgerUseCase, priceIDs map[string]string) *CreditUseCase {
	return &CreditUseCase{ledger: ledger, priceIDs: priceIDs}
}

// AddCredits acreditación manual del admin. La descripción queda "Added (<paquete>)".
func (uc *CreditUseCase) AddCredits(ctx context.Context, userID string, in dto.AddCreditsRequest) (*dto.CreditsResponse, error) {
	amount, err := creditAmount(in.Credits)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.PackageName)
	if name == "" {
		name = "Manual"
	}
	balance, err := uc.ledger.GrantCredits(ctx, userID, amount, fmt.Sprintf("Added (%s)", name))
	if err != nil {
		return nil, err
	}
	return &dto.CreditsResponse{OK: true, Credits: balance}, nil
}

// DeductCredits descuento manual o por desbloqueo de lead (cuando trae reference).
func (uc *CreditUseCase) DeductCredits(ctx context.Context, userID string, in dto.DeductCreditsRequest) (*dto.CreditsResponse, error) {
	amount, err := creditAmount(in.Credits)
	if err != nil {
		return nil, err
	}
	source := entity.CreditSourceAdmin
	description := strings.TrimSpace(in.Reason)
	if in.Reference != "" {
		source = entity.CreditSourceUnlock
		if description == "" {
			description = fmt.Sprintf("Lead unlocked (%s)", in.Reference)
		}
	}
	if description == "" {
		description = "Deducted"
	}
	balance, err := uc.ledger.DeductCredits(ctx, userID, amount, description, source, in.Reference)
	if err != nil {
		return nil, err
	}
	return &dto.CreditsResponse{OK: true, Credits: balance}, nil
}

// Statement saldo e historia en orden de inserción.
func (uc *CreditUseCase) Statement(ctx context.Context, userID string) (*dto.CreditStatementResponse, error) {
	st, err := uc.ledger.Statement(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toCreditStatementResponse(st), nil
}

// Packages catálogo de paquetes de créditos.
func (uc *CreditUseCase) Packages() []dto.CreditPackageResponse {
	out := make([]dto.CreditPackageResponse, 0, len(entity.CreditPackages))
	for _, p := range entity.CreditPackages {
		out = append(out, dto.CreditPackageResponse{
			ID:              p.ID,
			Name:            p.Name,
			Credits:         p.Credits,
			Price:           p.Price,
			PerCredit:       p.PerCredit,
			Currency:        "EUR",
			PriceConfigured: uc.priceIDs[p.ID] != "",
		})
	}
	return out
}

// creditAmount acepta solo enteros positivos representables.
func creditAmount(v *float64) (int64, error) {
	if v == nil {
		return 0, fmt.Errorf("%w: credits es obligatorio", domain.ErrInvalidInput)
	}
	f := *v
	if math.IsNaN(f) || f <= 0 || f != math.Trunc(f) || f > maxCreditAmount {
		return 0, fmt.Errorf("%w: credits debe ser un entero positivo", domain.ErrInvalidInput)
	}
	return int64(f), nil
}

func toCreditStatementResponse(st *credits.Statement) *dto.CreditStatementResponse {
	out := &dto.CreditStatementResponse{
		UserID:  st.UserID,
		Credits: st.Credits,
		History: make([]dto.CreditTransactionResponse, 0, len(st.History)),
	}
	for _, t := range st.History {
		out.History = append(out.History, dto.CreditTransactionResponse{
			ID:          t.ID,
			Type:        t.Type,
			Amount:      t.Amount,
			Description: t.Description,
			Source:      t.Source,
			Reference:   t.Reference,
			CreatedAt:   t.CreatedAt,
		})
	}
	return out
}
