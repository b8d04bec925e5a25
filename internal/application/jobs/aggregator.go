package jobs

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/privat-admin-api/internal/domain"
	"github.com/jhoicas/privat-admin-api/internal/domain/entity"
	"github.com/jhoicas/privat-admin-api/internal/domain/repository"
	"github.com/jhoicas/privat-admin-api/pkg/logger"
)

// CustomerBuckets trabajos de un cliente agrupados por estado, más recientes primero.
type CustomerBuckets struct {
	Open      []*entity.Job
	Active    []*entity.Job
	Completed []*entity.Job
}

// ProviderBuckets vista de un proveedor. Quotes lleva cada cotización con su Job padre.
type ProviderBuckets struct {
	Leads     []*entity.Job
	Quotes    []*entity.Quote
	Active    []*entity.Job
	Completed []*entity.Job
}

// Aggregator arma los buckets por rol. Cada consulta que falla deja solo su bucket vacío.
type Aggregator struct {
	jobs     repository.JobRepository
	quotes   repository.QuoteRepository
	identity repository.IdentityRepository
	log      *logger.Logger
}

// NewAggregator construye el agregador.
func NewAggregator(
	jobs repository.JobRepository,
	quotes repository.QuoteRepository,
	identity repository.IdentityRepository,
	log *logger.Logger,
) *Aggregator {
	if log == nil {
		log = logger.Nop()
	}
	return &Aggregator{jobs: jobs, quotes: quotes, identity: identity, log: log.Component("jobs")}
}

// CustomerBuckets agrupa los trabajos publicados por el cliente.
func (a *Aggregator) CustomerBuckets(ctx context.Context, userID string) (*CustomerBuckets, error) {
	if userID == "" {
		return nil, domain.ErrInvalidInput
	}
	out := &CustomerBuckets{Open: []*entity.Job{}, Active: []*entity.Job{}, Completed: []*entity.Job{}}
	list, err := a.jobs.ListByCustomer(ctx, userID)
	if err != nil {
		a.log.Error().Err(err).Str("user_id", userID).Msg("listar trabajos del cliente")
		return out, nil
	}
	for _, j := range newestFirst(list) {
		bucket, ok := entity.JobBucket(j.Status)
		if !ok {
			a.unclassified(userID, j)
			continue
		}
		switch bucket {
		case entity.BucketOpen:
			out.Open = append(out.Open, j)
		case entity.BucketActive:
			out.Active = append(out.Active, j)
		case entity.BucketCompleted:
			out.Completed = append(out.Completed, j)
		}
	}
	return out, nil
}

// ProviderBuckets leads = jobLeadsPaid menos jobsQuoted; quotes desde la tabla quotes;
// active/completed desde los trabajos asignados. Solo falla si no se puede leer la identidad.
func (a *Aggregator) ProviderBuckets(ctx context.Context, userID string) (*ProviderBuckets, error) {
	if userID == "" {
		return nil, domain.ErrInvalidInput
	}
	ident, err := a.identity.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("leer proveedor: %w", err)
	}
	if ident == nil {
		return nil, domain.ErrUserNotFound
	}
	profile := entity.ParseProfile(ident.UserMetadata)
	leadIDs := LeadJobIDs(profile.JobLeadsPaid, profile.JobsQuoted)

	type jobsResult struct {
		rows []*entity.Job
		err  error
	}
	type quotesResult struct {
		rows []*entity.Quote
		err  error
	}
	leadsChan := make(chan jobsResult, 1)
	assignedChan := make(chan jobsResult, 1)
	quotesChan := make(chan quotesResult, 1)

	go func() {
		rows, err := a.jobs.ListByIDs(ctx, leadIDs)
		leadsChan <- jobsResult{rows, err}
	}()
	go func() {
		rows, err := a.jobs.ListByAssignedProvider(ctx, userID)
		assignedChan <- jobsResult{rows, err}
	}()
	go func() {
		rows, err := a.quotes.ListByProviderWithJob(ctx, userID)
		quotesChan <- quotesResult{rows, err}
	}()

	leadsRes := <-leadsChan
	assignedRes := <-assignedChan
	quotesRes := <-quotesChan

	out := &ProviderBuckets{
		Leads:     []*entity.Job{},
		Quotes:    []*entity.Quote{},
		Active:    []*entity.Job{},
		Completed: []*entity.Job{},
	}

	if leadsRes.err != nil {
		a.log.Error().Err(leadsRes.err).Str("user_id", userID).Msg("listar leads del proveedor")
	} else {
		out.Leads = append(out.Leads, newestFirst(leadsRes.rows)...)
	}

	if quotesRes.err != nil {
		a.log.Error().Err(quotesRes.err).Str("user_id", userID).Msg("listar cotizaciones del proveedor")
	} else {
		for _, q := range quotesRes.rows {
			if q.Job == nil {
				a.log.Warn().Str("user_id", userID).Str("quote_id", q.ID).Str("job_id", q.JobID).
					Msg("cotización sin trabajo, se omite")
				continue
			}
			out.Quotes = append(out.Quotes, q)
		}
		sort.SliceStable(out.Quotes, func(i, j int) bool {
			return out.Quotes[i].CreatedAt.After(out.Quotes[j].CreatedAt)
		})
	}

	if assignedRes.err != nil {
		a.log.Error().Err(assignedRes.err).Str("user_id", userID).Msg("listar trabajos asignados")
	} else {
		for _, j := range newestFirst(assignedRes.rows) {
			bucket, ok := entity.JobBucket(j.Status)
			if !ok {
				a.unclassified(userID, j)
				continue
			}
			switch bucket {
			case entity.BucketActive:
				out.Active = append(out.Active, j)
			case entity.BucketCompleted:
				out.Completed = append(out.Completed, j)
			}
		}
	}
	return out, nil
}

// LeadJobIDs ids pagados que todavía no tienen cotización, en el orden de jobLeadsPaid y sin repetir.
func LeadJobIDs(paid, quoted []entity.JobRef) []string {
	skip := make(map[string]struct{}, len(quoted)+len(paid))
	for _, q := range quoted {
		skip[q.JobID] = struct{}{}
	}
	ids := make([]string, 0, len(paid))
	for _, p := range paid {
		if _, ok := skip[p.JobID]; ok {
			continue
		}
		skip[p.JobID] = struct{}{}
		ids = append(ids, p.JobID)
	}
	return ids
}

func (a *Aggregator) unclassified(userID string, j *entity.Job) {
	a.log.Warn().Str("user_id", userID).Str("job_id", j.ID).Str("status", j.Status).
		Msg("estado de trabajo sin clasificar")
}

func newestFirst(list []*entity.Job) []*entity.Job {
	sorted := append([]*entity.Job(nil), list...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	return sorted
}
