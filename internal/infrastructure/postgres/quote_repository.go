package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/privat-admin-api/internal/domain/entity"
	"github.com/jhoicas/privat-admin-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.QuoteRepository = (*QuoteRepo)(nil)

// QuoteRepo lecturas sobre quotes con join a jobs.
type QuoteRepo struct {
	q Querier
}

// NewQuoteRepository construye el adaptador de cotizaciones.
func NewQuoteRepository(q Querier) *QuoteRepo {
	return &QuoteRepo{q: q}
}

// ListByProviderWithJob cotizaciones del proveedor. LEFT JOIN: la cotización cuyo trabajo ya
// no existe vuelve con Job nil y la decide el caso de uso.
func (r *QuoteRepo) ListByProviderWithJob(ctx context.Context, providerID string) ([]*entity.Quote, error) {
	query := `
		SELECT q.id::text, q.job_id::text, q.service_provider_id::text, q.provider_name, q.provider_avatar, q.description,
			q.estimated_duration, q.status, q.min_amount, q.max_amount, q.created_at,
			j.id IS NOT NULL,` + jobColumnsNullable + `
		FROM quotes q
		LEFT JOIN jobs j ON j.id = q.job_id
		WHERE q.service_provider_id = $1
		ORDER BY q.created_at DESC`
	rows, err := r.q.Query(ctx, query, providerID)
	if err != nil {
		return nil, fmt.Errorf("list quotes by provider: %w", err)
	}
	defer rows.Close()

	list := []*entity.Quote{}
	for rows.Next() {
		var qt entity.Quote
		var providerName, providerAvatar, description, duration, status *string
		var minAmount, maxAmount decimal.NullDecimal
		var hasJob bool
		jr := nullableJobRow{}
		dest := append([]any{
			&qt.ID, &qt.JobID, &qt.ServiceProviderID, &providerName, &providerAvatar, &description,
			&duration, &status, &minAmount, &maxAmount, &qt.CreatedAt,
			&hasJob,
		}, jr.dest()...)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan quote: %w", err)
		}
		qt.ProviderName = derefString(providerName)
		qt.ProviderAvatar = derefString(providerAvatar)
		qt.Description = derefString(description)
		qt.EstimatedDuration = derefString(duration)
		qt.Status = derefString(status)
		if qt.Status == "" {
			qt.Status = entity.QuoteStatusPending
		}
		qt.MinAmount = minAmount.Decimal
		qt.MaxAmount = maxAmount.Decimal
		if hasJob {
			qt.Job = jr.job()
		}
		list = append(list, &qt)
	}
	return list, rows.Err()
}

// jobColumnsNullable mismas columnas que jobColumns sin COALESCE sobre claves: con LEFT JOIN
// todas pueden venir NULL.
const jobColumnsNullable = `
	j.id::text, j.user_id::text, j.title, j.description, j.category, j.location,
	j.latitude, j.longitude, j.preferred_date::text, j.preferred_time::text, j.budget,
	j.project_size, j.priority, j.images, j.status, j.assigned_provider_id::text,
	j.job_credits, j.category_name_en, j.category_name_it, j.job_started_time,
	j.created_at, j.updated_at`

type nullableJobRow struct {
	id, userID, title, description, category, location *string
	latitude, longitude                                *float64
	prefDate, prefTime                                 *string
	budget                                             decimal.NullDecimal
	projectSize, priority                              *string
	images                                             []string
	status, assigned                                   *string
	credits                                            *int
	nameEN, nameIT                                     *string
	startedAt, createdAt, updatedAt                    *time.Time
}

func (n *nullableJobRow) dest() []any {
	return []any{
		&n.id, &n.userID, &n.title, &n.description, &n.category, &n.location,
		&n.latitude, &n.longitude, &n.prefDate, &n.prefTime, &n.budget,
		&n.projectSize, &n.priority, &n.images, &n.status, &n.assigned,
		&n.credits, &n.nameEN, &n.nameIT, &n.startedAt,
		&n.createdAt, &n.updatedAt,
	}
}

func (n *nullableJobRow) job() *entity.Job {
	j := &entity.Job{
		ID:                 derefString(n.id),
		UserID:             derefString(n.userID),
		Title:              derefString(n.title),
		Description:        derefString(n.description),
		Category:           derefString(n.category),
		Location:           derefString(n.location),
		Latitude:           n.latitude,
		Longitude:          n.longitude,
		PreferredDate:      derefString(n.prefDate),
		PreferredTime:      derefString(n.prefTime),
		Budget:             n.budget,
		ProjectSize:        derefString(n.projectSize),
		Priority:           derefString(n.priority),
		Images:             n.images,
		Status:             derefString(n.status),
		AssignedProviderID: derefString(n.assigned),
		CategoryNameEN:     derefString(n.nameEN),
		CategoryNameIT:     derefString(n.nameIT),
		JobStartedTime:     n.startedAt,
	}
	if n.credits != nil {
		j.JobCredits = *n.credits
	}
	if n.createdAt != nil {
		j.CreatedAt = *n.createdAt
	}
	if n.updatedAt != nil {
		j.UpdatedAt = *n.updatedAt
	} else {
		j.UpdatedAt = j.CreatedAt
	}
	return j
}
