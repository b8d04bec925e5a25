package usecase

import (
	"context"

	"github.com/jhoicas/privat-admin-api/internal/application/dto"
	"github.com/jhoicas/privat-admin-api/internal/application/jobs"
	"github.com/jhoicas/privat-admin-api/internal/domain/entity"
)

// JobsUseCase buckets de trabajos por rol con la forma JSON del dashboard.
type JobsUseCase struct {
	agg *jobs.Aggregator
}

// NewJobsUseCase construye el caso de uso.
func NewJobsUseCase(agg *jobs.Aggregator) *JobsUseCase {
	return &JobsUseCase{agg: agg}
}

// CustomerJobs trabajos publicados por el cliente.
func (uc *JobsUseCase) CustomerJobs(ctx context.Context, userID string) (*dto.CustomerJobsResponse, error) {
	b, err := uc.agg.CustomerBuckets(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &dto.CustomerJobsResponse{
		Open:      toJobResponses(b.Open),
		Active:    toJobResponses(b.Active),
		Completed: toJobResponses(b.Completed),
	}, nil
}

// ProviderJobs leads, cotizaciones y trabajos asignados del proveedor.
func (uc *JobsUseCase) ProviderJobs(ctx context.Context, userID string) (*dto.ProviderJobsResponse, error) {
	b, err := uc.agg.ProviderBuckets(ctx, userID)
	if err != nil {
		return nil, err
	}
	quoted := make([]dto.JobResponse, 0, len(b.Quotes))
	for _, q := range b.Quotes {
		if q.Job == nil {
			continue
		}
		j := toJobResponse(q.Job)
		j.Quotes = []dto.QuoteResponse{toQuoteResponse(q)}
		quoted = append(quoted, j)
	}
	return &dto.ProviderJobsResponse{
		Leads:     toJobResponses(b.Leads),
		Quotes:    quoted,
		Active:    toJobResponses(b.Active),
		Completed: toJobResponses(b.Completed),
	}, nil
}

func toJobResponses(list []*entity.Job) []dto.JobResponse {
	out := make([]dto.JobResponse, 0, len(list))
	for _, j := range list {
		out = append(out, toJobResponse(j))
	}
	return out
}

func toJobResponse(j *entity.Job) dto.JobResponse {
	out := dto.JobResponse{
		ID:                 j.ID,
		UserID:             j.UserID,
		Title:              j.Title,
		Description:        j.Description,
		Category:           j.Category,
		Location:           j.Location,
		Latitude:           j.Latitude,
		Longitude:          j.Longitude,
		PreferredDate:      j.PreferredDate,
		PreferredTime:      j.PreferredTime,
		ProjectSize:        j.ProjectSize,
		Priority:           j.Priority,
		Images:             j.Images,
		Status:             j.Status,
		AssignedProviderID: j.AssignedProviderID,
		JobCredits:         j.JobCredits,
		CategoryNameEN:     j.CategoryNameEN,
		CategoryNameIT:     j.CategoryNameIT,
		JobStartedTime:     j.JobStartedTime,
		CreatedAt:          j.CreatedAt,
		UpdatedAt:          j.UpdatedAt,
	}
	if j.Budget.Valid {
		b := j.Budget.Decimal.InexactFloat64()
		out.Budget = &b
	}
	return out
}

func toQuoteResponse(q *entity.Quote) dto.QuoteResponse {
	status := q.Status
	if status == "" {
		status = entity.QuoteStatusPending
	}
	return dto.QuoteResponse{
		ID:                q.ID,
		JobID:             q.JobID,
		ServiceProviderID: q.ServiceProviderID,
		ProviderName:      q.ProviderName,
		ProviderAvatar:    q.ProviderAvatar,
		Description:       q.Description,
		EstimatedDuration: q.EstimatedDuration,
		Status:            status,
		CreatedAt:         q.CreatedAt,
		MinAmount:         q.MinAmount.InexactFloat64(),
		MaxAmount:         q.MaxAmount.InexactFloat64(),
	}
}
