package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/privat-admin-api/internal/application/credits"
	"github.com/jhoicas/privat-admin-api/internal/application/directory"
	"github.com/jhoicas/privat-admin-api/internal/application/jobs"
	"github.com/jhoicas/privat-admin-api/internal/application/payments"
	"github.com/jhoicas/privat-admin-api/internal/application/reports"
	"github.com/jhoicas/privat-admin-api/internal/application/usecase"
	"github.com/jhoicas/privat-admin-api/internal/domain/entity"
	"github.com/jhoicas/privat-admin-api/internal/infrastructure/cache"
	"github.com/jhoicas/privat-admin-api/internal/infrastructure/memory"
	"github.com/jhoicas/privat-admin-api/internal/infrastructure/paddle"
	"github.com/jhoicas/privat-admin-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/privat-admin-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/privat-admin-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixture: router completo sobre stores en memoria
// ──────────────────────────────────────────────────────────────────────────────

const testWebhookSecret = "whsec_router"

type noJobs struct{}

func (noJobs) ListByCustomer(context.Context, string) ([]*entity.Job, error)         { return nil, nil }
func (noJobs) ListByIDs(context.Context, []string) ([]*entity.Job, error)            { return nil, nil }
func (noJobs) ListByAssignedProvider(context.Context, string) ([]*entity.Job, error) { return nil, nil }
func (noJobs) ListByProviderWithJob(context.Context, string) ([]*entity.Quote, error) {
	return nil, nil
}

type noReferrals struct{}

func (noReferrals) ListReferralCodes(context.Context, string) ([]*entity.ReferralCode, error) {
	return nil, nil
}

func (noReferrals) ListSubscriptionHistory(context.Context, string) ([]*entity.SubscriptionHistoryItem, error) {
	return nil, nil
}

type stubGateway struct{}

func (stubGateway) CreateTransaction(_ context.Context, priceID string, _ map[string]string) (string, error) {
	return "txn_" + priceID, nil
}

type routerFixture struct {
	app *fiber.App
	dir *memory.IdentityDirectory
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()
	dir := memory.NewIdentityDirectory(
		&entity.Identity{ID: "admin-1", Email: "admin@privat.test", UserMetadata: entity.Metadata{"role": entity.RoleAdmin}},
		&entity.Identity{ID: "cust-1", Email: "anna@example.com", CreatedAt: time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
			UserMetadata: entity.Metadata{"role": entity.RoleCustomer, "full_name": "Anna Rossi"}},
		&entity.Identity{ID: "prov-1", Email: "marco@example.com", CreatedAt: time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC),
			UserMetadata: entity.Metadata{"role": entity.RoleServiceProvider, "full_name": "Marco Bianchi", "credits": float64(10)}},
	)
	snapshots := directory.NewCache(dir, cache.NewMemoryStore(), nil)
	store := memory.NewLedgerStore()
	ledger := credits.NewLedgerUseCase(store, store, dir, snapshots, nil, nil)
	users := directory.NewUserService(snapshots, dir, noReferrals{}, noReferrals{}, ledger, nil)
	prices := map[string]string{"starter": "pri_starter", "medium": "pri_medium", "pro": "pri_pro"}

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		UserUC:     usecase.NewUserUseCase(users),
		CreditUC:   usecase.NewCreditUseCase(ledger, prices),
		JobsUC:     usecase.NewJobsUseCase(jobs.NewAggregator(noJobs{}, noJobs{}, dir, nil)),
		CategoryUC: usecase.NewCategoryUseCase(memory.NewCategoryStore()),
		Exports:    reports.NewExportUseCase(snapshots, ledger, pdf.NewMarotoPDFGenerator()),
		Checkout:   payments.NewCheckoutUseCase(stubGateway{}, prices, nil),
		Webhook:    payments.NewWebhookUseCase(paddle.NewSignatureVerifier(testWebhookSecret, 0), ledger, nil),
		JWTSecret:  testJWTSecret,
		JWTIssuer:  testIssuer,
	})
	return &routerFixture{app: app, dir: dir}
}

func bearer(t *testing.T, userID, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, userID, userID+"@privat.test", role, testIssuer, testExpMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

func (f *routerFixture) do(t *testing.T, method, path, auth, body string) (*http.Response, []byte) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, out
}

// ──────────────────────────────────────────────────────────────────────────────
// Usuarios
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_ListadoDeUsuariosSoloAdmin(t *testing.T) {
	f := newRouterFixture(t)

	resp, body := f.do(t, http.MethodGet, "/api/users", bearer(t, "admin-1", "admin"), "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var users []map[string]any
	require.NoError(t, json.Unmarshal(body, &users))
	assert.Len(t, users, 2, "los admins no aparecen en el listado")

	resp, _ = f.do(t, http.MethodGet, "/api/users", bearer(t, "cust-1", "customer"), "")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = f.do(t, http.MethodGet, "/api/users", "", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRouter_DetalleUsuarioInexistente404(t *testing.T) {
	f := newRouterFixture(t)
	resp, body := f.do(t, http.MethodGet, "/api/users/ghost", bearer(t, "admin-1", "admin"), "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, string(body), "USER_NOT_FOUND")
}

func TestRouter_CambioDeEstado(t *testing.T) {
	f := newRouterFixture(t)
	resp, body := f.do(t, http.MethodPatch, "/api/users/cust-1/status", bearer(t, "admin-1", "admin"), `{"status":"blocked"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"ok":true}`, string(body))
	assert.Equal(t, entity.StatusBlocked, f.dir.Metadata("cust-1").String("status"))
}

func TestRouter_ExportCSVNoChocaConID(t *testing.T) {
	f := newRouterFixture(t)
	resp, body := f.do(t, http.MethodGet, "/api/users/export?format=csv", bearer(t, "admin-1", "admin"), "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/csv")
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "users_")
	assert.True(t, strings.HasPrefix(string(body), "Name,Email,Phone,Role,Status,Credits,Business,Created"))
	assert.Contains(t, string(body), "Marco Bianchi")
}

func TestRouter_ExportFormatoDesconocido400(t *testing.T) {
	f := newRouterFixture(t)
	resp, _ := f.do(t, http.MethodGet, "/api/users/export?format=xlsx", bearer(t, "admin-1", "admin"), "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Créditos
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_AcreditarYDescontar(t *testing.T) {
	f := newRouterFixture(t)
	admin := bearer(t, "admin-1", "admin")

	resp, body := f.do(t, http.MethodPost, "/api/users/prov-1/credits", admin, `{"credits":15,"packageName":"Top-up"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.JSONEq(t, `{"ok":true,"credits":25}`, string(body))

	resp, body = f.do(t, http.MethodPost, "/api/users/prov-1/credits/deduct", admin, `{"credits":5,"reason":"Correction"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.JSONEq(t, `{"ok":true,"credits":20}`, string(body))

	resp, body = f.do(t, http.MethodPost, "/api/users/prov-1/credits/deduct", admin, `{"credits":500}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, string(body), "INSUFFICIENT_CREDITS")

	resp, body = f.do(t, http.MethodGet, "/api/users/prov-1/credits", admin, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var st map[string]any
	require.NoError(t, json.Unmarshal(body, &st))
	assert.Equal(t, float64(20), st["credits"])
}

func TestRouter_AcreditarValidaCantidad(t *testing.T) {
	f := newRouterFixture(t)
	admin := bearer(t, "admin-1", "admin")
	for _, body := range []string{`{"credits":0}`, `{"credits":-3}`, `{"credits":1.5}`, `{}`} {
		resp, _ := f.do(t, http.MethodPost, "/api/users/prov-1/credits", admin, body)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, body)
	}
}

func TestRouter_Paquetes(t *testing.T) {
	f := newRouterFixture(t)
	resp, body := f.do(t, http.MethodGet, "/api/packages", bearer(t, "admin-1", "admin"), "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var pkgs []map[string]any
	require.NoError(t, json.Unmarshal(body, &pkgs))
	assert.NotEmpty(t, pkgs)
}

// ──────────────────────────────────────────────────────────────────────────────
// Paddle
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_CheckoutValidaYAutoriza(t *testing.T) {
	f := newRouterFixture(t)

	resp, body := f.do(t, http.MethodPost, "/api/paddle/create-checkout", bearer(t, "prov-1", "service_provider"), `{"userId":"prov-1"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), "Missing userId or packageId")

	resp, _ = f.do(t, http.MethodPost, "/api/paddle/create-checkout", bearer(t, "prov-1", "service_provider"), `{"userId":"cust-1","packageId":"starter"}`)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body = f.do(t, http.MethodPost, "/api/paddle/create-checkout", bearer(t, "prov-1", "service_provider"), `{"userId":"prov-1","packageId":"starter"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"transactionId":"txn_pri_starter"}`, string(body))

	resp, _ = f.do(t, http.MethodPost, "/api/paddle/create-checkout", bearer(t, "admin-1", "admin"), `{"userId":"prov-1","packageId":"mega"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = f.do(t, http.MethodPost, "/api/paddle/create-checkout", "", `{"userId":"prov-1","packageId":"starter"}`)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func (f *routerFixture) webhook(t *testing.T, body, signature string) (*http.Response, []byte) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/paddle/webhook", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(apphttp.PaddleSignatureHeader, signature)
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, out
}

func TestRouter_WebhookFirmadoAcredita(t *testing.T) {
	f := newRouterFixture(t)
	body := `{"event_id":"evt_1","event_type":"transaction.completed","data":{"id":"txn_1","custom_data":{"userId":"prov-1","packageId":"starter"}}}`

	resp, out := f.webhook(t, body, "ts=1;h1=deadbeef")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, string(out), "INVALID_SIGNATURE")

	sig := paddle.SignatureHeader(testWebhookSecret, time.Now(), []byte(body))
	resp, out = f.webhook(t, body, sig)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(out))
	assert.JSONEq(t, `{"ok":true}`, string(out))
	n, _ := f.dir.Metadata("prov-1").Int64("credits")
	assert.Equal(t, int64(35), n)

	// Reentrega del mismo evento: sin doble abono.
	resp, _ = f.webhook(t, body, sig)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	n, _ = f.dir.Metadata("prov-1").Int64("credits")
	assert.Equal(t, int64(35), n)
}

func TestRouter_WebhookUsuarioInexistente500(t *testing.T) {
	f := newRouterFixture(t)
	body := `{"event_id":"evt_2","event_type":"transaction.completed","data":{"id":"txn_2","custom_data":{"userId":"ghost","packageId":"starter"}}}`
	resp, _ := f.webhook(t, body, paddle.SignatureHeader(testWebhookSecret, time.Now(), []byte(body)))
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Trabajos y categorías
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_TrabajosDeProveedor(t *testing.T) {
	f := newRouterFixture(t)
	admin := bearer(t, "admin-1", "admin")

	resp, body := f.do(t, http.MethodGet, "/api/users/prov-1/provider-jobs", admin, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"leads":[],"quotes":[],"active":[],"completed":[]}`, string(body))

	resp, _ = f.do(t, http.MethodGet, "/api/users/ghost/provider-jobs", admin, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = f.do(t, http.MethodGet, "/api/users/cust-1/customer-jobs", admin, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"open":[],"active":[],"completed":[]}`, string(body))
}

func TestRouter_CrudDeCategorias(t *testing.T) {
	f := newRouterFixture(t)
	admin := bearer(t, "admin-1", "admin")

	resp, _ := f.do(t, http.MethodGet, "/api/categories/plumbing", admin, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body := f.do(t, http.MethodPost, "/api/categories", admin,
		`{"id":"plumbing","name_en":"Plumbing","name_it":"Idraulica","icon":"wrench","image_uri":"https://cdn/p.png","credits":3}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	resp, _ = f.do(t, http.MethodPost, "/api/categories", admin, `{"id":"plumbing","name_en":"Plumbing","name_it":"Idraulica","icon":"wrench","image_uri":"x"}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, body = f.do(t, http.MethodPut, "/api/categories/plumbing", admin, `{"hidden":true}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"hidden":true`)

	resp, _ = f.do(t, http.MethodPut, "/api/categories/ghost", admin, `{"hidden":true}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = f.do(t, http.MethodDelete, "/api/categories/plumbing", admin, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"success":true}`, string(body))
}
