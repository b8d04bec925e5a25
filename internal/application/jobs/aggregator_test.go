package jobs_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/privat-admin-api/internal/application/jobs"
	"github.com/jhoicas/privat-admin-api/internal/domain"
	"github.com/jhoicas/privat-admin-api/internal/domain/entity"
	"github.com/jhoicas/privat-admin-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes
// ──────────────────────────────────────────────────────────────────────────────

type fakeJobs struct {
	all         []*entity.Job
	customerErr error
	idsErr      error
	assignedErr error
	askedIDs    []string
}

func (f *fakeJobs) ListByCustomer(_ context.Context, userID string) ([]*entity.Job, error) {
	if f.customerErr != nil {
		return nil, f.customerErr
	}
	var out []*entity.Job
	for _, j := range f.all {
		if j.UserID == userID {
			out = append(out, j)
		}
	}
	return out, nil
}

func (f *fakeJobs) ListByIDs(_ context.Context, ids []string) ([]*entity.Job, error) {
	f.askedIDs = ids
	if f.idsErr != nil {
		return nil, f.idsErr
	}
	want := map[string]bool{}
	for _, id := range ids {
		want[id] = true
	}
	var out []*entity.Job
	for _, j := range f.all {
		if want[j.ID] {
			out = append(out, j)
		}
	}
	return out, nil
}

func (f *fakeJobs) ListByAssignedProvider(_ context.Context, providerID string) ([]*entity.Job, error) {
	if f.assignedErr != nil {
		return nil, f.assignedErr
	}
	var out []*entity.Job
	for _, j := range f.all {
		if j.AssignedProviderID == providerID {
			out = append(out, j)
		}
	}
	return out, nil
}

type fakeQuotes struct {
	rows []*entity.Quote
	err  error
}

func (f *fakeQuotes) ListByProviderWithJob(context.Context, string) ([]*entity.Quote, error) {
	return f.rows, f.err
}

var base = time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)

func job(id, status string, ageHours int) *entity.Job {
	return &entity.Job{ID: id, UserID: "cust-1", Status: status, CreatedAt: base.Add(-time.Duration(ageHours) * time.Hour)}
}

func jobIDs(list []*entity.Job) []string {
	out := []string{}
	for _, j := range list {
		out = append(out, j.ID)
	}
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Cliente
// ──────────────────────────────────────────────────────────────────────────────

func TestCustomerBuckets_ParticionPorEstado(t *testing.T) {
	repo := &fakeJobs{all: []*entity.Job{
		job("j-draft", entity.JobStatusDraft, 9),
		job("j-open", entity.JobStatusOpen, 1),
		job("j-quoted", entity.JobStatusQuoted, 5),
		job("j-acc", entity.JobStatusAccepted, 3),
		job("j-prog", entity.JobStatusInProgress, 2),
		job("j-rev", entity.JobStatusInReview, 8),
		job("j-done", entity.JobStatusCompleted, 4),
		job("j-canc", entity.JobStatusCancelled, 6),
		job("j-weird", "on_hold", 7),
	}}
	agg := jobs.NewAggregator(repo, &fakeQuotes{}, memory.NewIdentityDirectory(), nil)

	b, err := agg.CustomerBuckets(context.Background(), "cust-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"j-open", "j-quoted", "j-draft"}, jobIDs(b.Open))
	assert.Equal(t, []string{"j-prog", "j-acc", "j-rev"}, jobIDs(b.Active))
	assert.Equal(t, []string{"j-done", "j-canc"}, jobIDs(b.Completed))
	assert.Equal(t, 8, len(b.Open)+len(b.Active)+len(b.Completed), "el estado desconocido no cae en ningún bucket")
}

func TestCustomerBuckets_FalloDevuelveBucketsVacios(t *testing.T) {
	agg := jobs.NewAggregator(&fakeJobs{customerErr: errors.New("db down")}, &fakeQuotes{}, memory.NewIdentityDirectory(), nil)

	b, err := agg.CustomerBuckets(context.Background(), "cust-1")
	require.NoError(t, err)
	assert.NotNil(t, b.Open)
	assert.Empty(t, b.Open)
	assert.Empty(t, b.Active)
	assert.Empty(t, b.Completed)
}

// ──────────────────────────────────────────────────────────────────────────────
// Proveedor
// ──────────────────────────────────────────────────────────────────────────────

func providerIdentity() *entity.Identity {
	return &entity.Identity{ID: "prov-1", UserMetadata: entity.Metadata{
		"role": entity.RoleServiceProvider,
		"jobLeadsPaid": []any{
			map[string]any{"jobId": "j1"},
			map[string]any{"jobId": "j2"},
			map[string]any{"jobId": "j3"},
		},
		"jobsQuoted": []any{map[string]any{"jobId": "j2"}},
	}}
}

func TestLeadJobIDs_DiferenciaDeConjuntos(t *testing.T) {
	paid := []entity.JobRef{{JobID: "j1"}, {JobID: "j2"}, {JobID: "j3"}, {JobID: "j1"}}
	quoted := []entity.JobRef{{JobID: "j2"}, {JobID: "j9"}}
	assert.Equal(t, []string{"j1", "j3"}, jobs.LeadJobIDs(paid, quoted))
	assert.Empty(t, jobs.LeadJobIDs(nil, quoted))
}

func TestProviderBuckets_LeadsCotizacionesYAsignados(t *testing.T) {
	assignedActive := job("j5", entity.JobStatusInProgress, 1)
	assignedActive.AssignedProviderID = "prov-1"
	assignedDone := job("j6", entity.JobStatusCompleted, 2)
	assignedDone.AssignedProviderID = "prov-1"
	assignedOpen := job("j7", entity.JobStatusOpen, 3)
	assignedOpen.AssignedProviderID = "prov-1"

	repo := &fakeJobs{all: []*entity.Job{
		job("j1", entity.JobStatusOpen, 10),
		job("j2", entity.JobStatusQuoted, 11),
		job("j3", entity.JobStatusOpen, 4),
		assignedActive, assignedDone, assignedOpen,
	}}
	quotes := &fakeQuotes{rows: []*entity.Quote{
		{ID: "q-old", JobID: "j2", Status: entity.QuoteStatusPending, CreatedAt: base.Add(-5 * time.Hour), Job: job("j2", entity.JobStatusQuoted, 11)},
		{ID: "q-orphan", JobID: "gone", CreatedAt: base},
		{ID: "q-new", JobID: "j5", Status: entity.QuoteStatusAccepted, CreatedAt: base.Add(-time.Hour), Job: assignedActive},
	}}
	agg := jobs.NewAggregator(repo, quotes, memory.NewIdentityDirectory(providerIdentity()), nil)

	b, err := agg.ProviderBuckets(context.Background(), "prov-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"j1", "j3"}, repo.askedIDs)
	assert.Equal(t, []string{"j3", "j1"}, jobIDs(b.Leads))
	require.Len(t, b.Quotes, 2)
	assert.Equal(t, "q-new", b.Quotes[0].ID)
	assert.Equal(t, "q-old", b.Quotes[1].ID)
	assert.Equal(t, []string{"j5"}, jobIDs(b.Active))
	assert.Equal(t, []string{"j6"}, jobIDs(b.Completed))
}

func TestProviderBuckets_FalloParcialSoloVaciaSuBucket(t *testing.T) {
	done := job("j6", entity.JobStatusCompleted, 2)
	done.AssignedProviderID = "prov-1"
	repo := &fakeJobs{all: []*entity.Job{job("j1", entity.JobStatusOpen, 1), done}, idsErr: errors.New("timeout")}
	agg := jobs.NewAggregator(repo, &fakeQuotes{err: errors.New("relation quotes")}, memory.NewIdentityDirectory(providerIdentity()), nil)

	b, err := agg.ProviderBuckets(context.Background(), "prov-1")
	require.NoError(t, err)
	assert.Empty(t, b.Leads)
	assert.NotNil(t, b.Quotes)
	assert.Empty(t, b.Quotes)
	assert.Equal(t, []string{"j6"}, jobIDs(b.Completed))
}

func TestProviderBuckets_IdentidadInexistente(t *testing.T) {
	agg := jobs.NewAggregator(&fakeJobs{}, &fakeQuotes{}, memory.NewIdentityDirectory(), nil)
	_, err := agg.ProviderBuckets(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestProviderBuckets_FalloAlLeerIdentidad(t *testing.T) {
	dir := memory.NewIdentityDirectory(providerIdentity())
	dir.GetErr = errors.New("supabase 500")
	agg := jobs.NewAggregator(&fakeJobs{}, &fakeQuotes{}, dir, nil)

	_, err := agg.ProviderBuckets(context.Background(), "prov-1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrUserNotFound)
}
