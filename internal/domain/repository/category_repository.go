package repository

import (
	"context"

	"github.com/jhoicas/privat-admin-api/internal/domain/entity"
)

// CategoryRepository define el puerto de persistencia para service_categories (DIP).
// GetByID y Update devuelven (nil, nil) si la categoría no existe.
type CategoryRepository interface {
	List(ctx context.Context) ([]*entity.ServiceCategory, error)
	GetByID(ctx context.Context, id string) (*entity.ServiceCategory, error)
	Create(ctx context.Context, category *entity.ServiceCategory) error
	Update(ctx context.Context, id string, patch CategoryPatch) (*entity.ServiceCategory, error)
	Delete(ctx context.Context, id string) error
}

// CategoryPatch campos opcionales de una actualización parcial.
type CategoryPatch struct {
	NameEN   *string
	NameIT   *string
	Icon     *string
	ImageURI *string
	Credits  *int
	Hidden   *bool
}
