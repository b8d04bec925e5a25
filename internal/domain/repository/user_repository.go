package repository

import (
	"context"

	"github.com/jhoicas/privat-admin-api/internal/domain/entity"
)

// IdentityRepository puerto hacia el directorio de identidades (Supabase Auth admin).
// GetByID devuelve (nil, nil) si la identidad no existe.
type IdentityRepository interface {
	ListPage(ctx context.Context, page, perPage int) ([]*entity.Identity, error)
	GetByID(ctx context.Context, id string) (*entity.Identity, error)
	// UpdateUserMetadata reemplaza la bolsa user_metadata completa.
	UpdateUserMetadata(ctx context.Context, id string, metadata entity.Metadata) error
	Delete(ctx context.Context, id string) error
}

// ReferralCodeRepository lectura de referral_codes por usuario (más recientes primero).
type ReferralCodeRepository interface {
	ListReferralCodes(ctx context.Context, userID string) ([]*entity.ReferralCode, error)
}

// SubscriptionHistoryRepository lectura de subscription_history por usuario (started_at desc).
type SubscriptionHistoryRepository interface {
	ListSubscriptionHistory(ctx context.Context, userID string) ([]*entity.SubscriptionHistoryItem, error)
}
