package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/privat-admin-api/internal/domain/entity"
	"github.com/jhoicas/privat-admin-api/internal/domain/repository"
)

var (
	_ repository.ReferralCodeRepository        = (*ReferralRepo)(nil)
	_ repository.SubscriptionHistoryRepository = (*ReferralRepo)(nil)
)

// ReferralRepo lecturas de referral_codes y subscription_history para el detalle de usuario.
type ReferralRepo struct {
	q Querier
}

// NewReferralRepository construye el adaptador.
func NewReferralRepository(q Querier) *ReferralRepo {
	return &ReferralRepo{q: q}
}

// ListReferralCodes códigos del usuario, más recientes primero. Tabla ausente => lista vacía.
func (r *ReferralRepo) ListReferralCodes(ctx context.Context, userID string) ([]*entity.ReferralCode, error) {
	query := `
		SELECT id::text, code, user_id::text, COALESCE(uses, 0), max_uses, created_at, expires_at
		FROM referral_codes WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.q.Query(ctx, query, userID)
	if err != nil {
		if isUndefinedTable(err) {
			return []*entity.ReferralCode{}, nil
		}
		return nil, fmt.Errorf("list referral codes: %w", err)
	}
	defer rows.Close()
	list := []*entity.ReferralCode{}
	for rows.Next() {
		var c entity.ReferralCode
		if err := rows.Scan(&c.ID, &c.Code, &c.UserID, &c.Uses, &c.MaxUses, &c.CreatedAt, &c.ExpiresAt); err != nil {
			return nil, fmt.Errorf("scan referral code: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

// ListSubscriptionHistory historial de suscripciones por started_at desc.
func (r *ReferralRepo) ListSubscriptionHistory(ctx context.Context, userID string) ([]*entity.SubscriptionHistoryItem, error) {
	query := `
		SELECT id::text, user_id::text, COALESCE(plan, ''), COALESCE(status, ''), started_at, ended_at, amount, currency
		FROM subscription_history WHERE user_id = $1 ORDER BY started_at DESC`
	rows, err := r.q.Query(ctx, query, userID)
	if err != nil {
		if isUndefinedTable(err) {
			return []*entity.SubscriptionHistoryItem{}, nil
		}
		return nil, fmt.Errorf("list subscription history: %w", err)
	}
	defer rows.Close()
	list := []*entity.SubscriptionHistoryItem{}
	for rows.Next() {
		var s entity.SubscriptionHistoryItem
		var currency *string
		if err := rows.Scan(&s.ID, &s.UserID, &s.Plan, &s.Status, &s.StartedAt, &s.EndedAt, &s.Amount, &currency); err != nil {
			return nil, fmt.Errorf("scan subscription history: %w", err)
		}
		s.Currency = derefString(currency)
		list = append(list, &s)
	}
	return list, rows.Err()
}
