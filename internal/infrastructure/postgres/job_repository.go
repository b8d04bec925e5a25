package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/privat-admin-api/internal/domain/entity"
	"github.com/jhoicas/privat-admin-api/internal/domain/repository"
)

var _ repository.JobRepository = (*JobRepo)(nil)

// jobColumns columnas de jobs en el orden que espera scanJob. Las fechas libres se leen como texto.
const jobColumns = `
	j.id::text, j.user_id::text, COALESCE(j.title, ''), j.description, COALESCE(j.category, ''), COALESCE(j.location, ''),
	j.latitude, j.longitude, j.preferred_date::text, j.preferred_time::text, j.budget,
	j.project_size, j.priority, COALESCE(j.images, '{}'), COALESCE(j.status, ''), j.assigned_provider_id::text,
	COALESCE(j.job_credits, 0), j.category_name_en, j.category_name_it, j.job_started_time,
	j.created_at, COALESCE(j.updated_at, j.created_at)`

// JobRepo lecturas sobre la tabla jobs.
type JobRepo struct {
	q Querier
}

// NewJobRepository construye el adaptador de lectura de trabajos.
func NewJobRepository(q Querier) *JobRepo {
	return &JobRepo{q: q}
}

// ListByCustomer trabajos publicados por el cliente.
func (r *JobRepo) ListByCustomer(ctx context.Context, userID string) ([]*entity.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs j WHERE j.user_id = $1 ORDER BY j.created_at DESC`
	return r.list(ctx, "list jobs by customer", query, userID)
}

// ListByIDs trabajos por id (leads pagados). Lista vacía no consulta la BD.
func (r *JobRepo) ListByIDs(ctx context.Context, ids []string) ([]*entity.Job, error) {
	if len(ids) == 0 {
		return []*entity.Job{}, nil
	}
	query := `SELECT ` + jobColumns + ` FROM jobs j WHERE j.id::text = ANY($1) ORDER BY j.created_at DESC`
	return r.list(ctx, "list jobs by ids", query, ids)
}

// ListByAssignedProvider trabajos asignados al proveedor.
func (r *JobRepo) ListByAssignedProvider(ctx context.Context, providerID string) ([]*entity.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs j WHERE j.assigned_provider_id = $1 ORDER BY j.created_at DESC`
	return r.list(ctx, "list jobs by provider", query, providerID)
}

func (r *JobRepo) list(ctx context.Context, op, query string, args ...any) ([]*entity.Job, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()
	list := []*entity.Job{}
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		list = append(list, j)
	}
	return list, rows.Err()
}

// scanJob lee una fila con jobColumns.
func scanJob(row pgx.Row) (*entity.Job, error) {
	var j entity.Job
	var description, prefDate, prefTime, projectSize, priority, assigned, nameEN, nameIT *string
	err := row.Scan(
		&j.ID, &j.UserID, &j.Title, &description, &j.Category, &j.Location,
		&j.Latitude, &j.Longitude, &prefDate, &prefTime, &j.Budget,
		&projectSize, &priority, &j.Images, &j.Status, &assigned,
		&j.JobCredits, &nameEN, &nameIT, &j.JobStartedTime,
		&j.CreatedAt, &j.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	j.Description = derefString(description)
	j.PreferredDate = derefString(prefDate)
	j.PreferredTime = derefString(prefTime)
	j.ProjectSize = derefString(projectSize)
	j.Priority = derefString(priority)
	j.AssignedProviderID = derefString(assigned)
	j.CategoryNameEN = derefString(nameEN)
	j.CategoryNameIT = derefString(nameIT)
	return &j, nil
}
