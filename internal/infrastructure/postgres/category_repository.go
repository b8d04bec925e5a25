package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/privat-admin-api/internal/domain"
	"github.com/jhoicas/privat-admin-api/internal/domain/entity"
	"github.com/jhoicas/privat-admin-api/internal/domain/repository"
)

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

const categoryColumns = `id, name_en, name_it, COALESCE(icon, ''), COALESCE(image_uri, ''), COALESCE(credits, 0), COALESCE(hidden, false)`

// CategoryRepo implementación del puerto CategoryRepository sobre service_categories.
type CategoryRepo struct {
	q Querier
}

// NewCategoryRepository construye el adaptador de categorías.
func NewCategoryRepository(q Querier) *CategoryRepo {
	return &CategoryRepo{q: q}
}

// List categorías ordenadas por name_en.
func (r *CategoryRepo) List(ctx context.Context) ([]*entity.ServiceCategory, error) {
	rows, err := r.q.Query(ctx, `SELECT `+categoryColumns+` FROM service_categories ORDER BY name_en ASC`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()
	list := []*entity.ServiceCategory{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// GetByID obtiene una categoría; (nil, nil) si no existe.
func (r *CategoryRepo) GetByID(ctx context.Context, id string) (*entity.ServiceCategory, error) {
	c, err := scanCategory(r.q.QueryRow(ctx, `SELECT `+categoryColumns+` FROM service_categories WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

// Create inserta la categoría; id repetido devuelve domain.ErrDuplicate.
func (r *CategoryRepo) Create(ctx context.Context, c *entity.ServiceCategory) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO service_categories (id, name_en, name_it, icon, image_uri, credits, hidden)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		c.ID, c.NameEN, c.NameIT, c.Icon, c.ImageURI, c.Credits, c.Hidden,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

// Update aplica solo los campos presentes en el patch (COALESCE sobre parámetros NULL).
func (r *CategoryRepo) Update(ctx context.Context, id string, p repository.CategoryPatch) (*entity.ServiceCategory, error) {
	query := `
		UPDATE service_categories SET
			name_en = COALESCE($2, name_en),
			name_it = COALESCE($3, name_it),
			icon = COALESCE($4, icon),
			image_uri = COALESCE($5, image_uri),
			credits = COALESCE($6, credits),
			hidden = COALESCE($7, hidden)
		WHERE id = $1
		RETURNING ` + categoryColumns
	c, err := scanCategory(r.q.QueryRow(ctx, query, id, p.NameEN, p.NameIT, p.Icon, p.ImageURI, p.Credits, p.Hidden))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("update category: %w", err)
	}
	return c, nil
}

// Delete elimina una categoría por ID. Borrar un id inexistente no es error.
func (r *CategoryRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM service_categories WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

func scanCategory(row pgx.Row) (*entity.ServiceCategory, error) {
	var c entity.ServiceCategory
	if err := row.Scan(&c.ID, &c.NameEN, &c.NameIT, &c.Icon, &c.ImageURI, &c.Credits, &c.Hidden); err != nil {
		return nil, err
	}
	return &c, nil
}
