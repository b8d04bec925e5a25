package repository

import (
	"context"

	"github.com/jhoicas/privat-admin-api/internal/domain/entity"
)

// JobRepository consultas de solo lectura sobre jobs. Todas ordenan por created_at desc.
type JobRepository interface {
	ListByCustomer(ctx context.Context, userID string) ([]*entity.Job, error)
	ListByIDs(ctx context.Context, ids []string) ([]*entity.Job, error)
	ListByAssignedProvider(ctx context.Context, providerID string) ([]*entity.Job, error)
}

// QuoteRepository cotizaciones de un proveedor con su Job padre (join), created_at desc.
type QuoteRepository interface {
	ListByProviderWithJob(ctx context.Context, providerID string) ([]*entity.Quote, error)
}
