package payments_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/privat-admin-api/internal/application/credits"
	"github.com/jhoicas/privat-admin-api/internal/application/payments"
	"github.com/jhoicas/privat-admin-api/internal/domain"
	"github.com/jhoicas/privat-admin-api/internal/domain/entity"
	"github.com/jhoicas/privat-admin-api/internal/infrastructure/memory"
	"github.com/jhoicas/privat-admin-api/internal/infrastructure/paddle"
)

// ──────────────────────────────────────────────────────────────────────────────
// Checkout
// ──────────────────────────────────────────────────────────────────────────────

type fakeGateway struct {
	priceID    string
	customData map[string]string
	err        error
}

func (g *fakeGateway) CreateTransaction(_ context.Context, priceID string, customData map[string]string) (string, error) {
	g.priceID, g.customData = priceID, customData
	if g.err != nil {
		return "", g.err
	}
	return "txn_" + priceID, nil
}

func TestCreateCheckout(t *testing.T) {
	prices := map[string]string{"starter": "pri_starter", "medium": "pri_medium"}

	t.Run("ok", func(t *testing.T) {
		gw := &fakeGateway{}
		id, err := payments.NewCheckoutUseCase(gw, prices, nil).CreateCheckout(context.Background(), "u1", "medium")
		require.NoError(t, err)
		assert.Equal(t, "txn_pri_medium", id)
		assert.Equal(t, map[string]string{"userId": "u1", "packageId": "medium"}, gw.customData)
	})

	cases := []struct {
		name      string
		userID    string
		packageID string
		gwErr     error
		want      error
	}{
		{"sin usuario", "", "starter", nil, domain.ErrInvalidInput},
		{"sin paquete", "u1", "", nil, domain.ErrInvalidInput},
		{"paquete desconocido", "u1", "mega", nil, domain.ErrUnknownPackage},
		{"precio no configurado", "u1", "business", nil, domain.ErrPriceNotConfigured},
		{"fallo de paddle", "u1", "starter", errors.New("503"), domain.ErrUpstream},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			uc := payments.NewCheckoutUseCase(&fakeGateway{err: tc.gwErr}, prices, nil)
			_, err := uc.CreateCheckout(context.Background(), tc.userID, tc.packageID)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Webhook
// ──────────────────────────────────────────────────────────────────────────────

const webhookSecret = "whsec_test"

type webhookFixture struct {
	uc    *payments.WebhookUseCase
	dir   *memory.IdentityDirectory
	store *memory.LedgerStore
}

func newWebhookFixture() *webhookFixture {
	dir := memory.NewIdentityDirectory(&entity.Identity{
		ID:           "prov-1",
		UserMetadata: entity.Metadata{"role": entity.RoleServiceProvider, "credits": float64(0)},
	})
	store := memory.NewLedgerStore()
	ledger := credits.NewLedgerUseCase(store, store, dir, nil, nil, nil)
	return &webhookFixture{
		uc:    payments.NewWebhookUseCase(paddle.NewSignatureVerifier(webhookSecret, 0), ledger, nil),
		dir:   dir,
		store: store,
	}
}

func completedEvent(eventID, txnID, userID, packageID string) []byte {
	return []byte(fmt.Sprintf(`{"event_id":%q,"event_type":"transaction.completed","occurred_at":"2026-04-02T15:00:00Z",`+
		`"data":{"id":%q,"status":"completed","custom_data":{"userId":%q,"packageId":%q}}}`, eventID, txnID, userID, packageID))
}

func sign(body []byte) string {
	return paddle.SignatureHeader(webhookSecret, time.Now(), body)
}

func TestHandleWebhook_AcreditaUnaSolaVez(t *testing.T) {
	f := newWebhookFixture()
	body := completedEvent("evt_1", "txn_1", "prov-1", "pro")

	res, err := f.uc.HandleWebhook(context.Background(), body, sign(body))
	require.NoError(t, err)
	assert.Equal(t, payments.OutcomeGranted, res.Outcome)
	assert.Equal(t, int64(350), res.Balance)

	res, err = f.uc.HandleWebhook(context.Background(), body, sign(body))
	require.NoError(t, err)
	assert.Equal(t, payments.OutcomeReplay, res.Outcome)

	n, _ := f.dir.Metadata("prov-1").Int64("credits")
	assert.Equal(t, int64(350), n)
	history, err := f.store.ListByUser(context.Background(), "prov-1")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "Purchased (Pro)", history[0].Description)
}

func TestHandleWebhook_FirmaInvalida(t *testing.T) {
	f := newWebhookFixture()
	body := completedEvent("evt_1", "txn_1", "prov-1", "pro")

	res, err := f.uc.HandleWebhook(context.Background(), body, "ts=1;h1=00")
	assert.ErrorIs(t, err, domain.ErrInvalidSignature)
	assert.Equal(t, payments.OutcomeRejected, res.Outcome)
	_, has := f.dir.Metadata("prov-1").Int64("credits")
	assert.True(t, has)
	acc, _ := f.store.GetAccount(context.Background(), "prov-1")
	assert.Nil(t, acc)
}

func TestHandleWebhook_EventosIgnorados(t *testing.T) {
	cases := map[string][]byte{
		"otro evento":       []byte(`{"event_id":"evt_9","event_type":"subscription.created","data":{"id":"sub_1"}}`),
		"sin custom_data":   []byte(`{"event_id":"evt_9","event_type":"transaction.completed","data":{"id":"txn_9"}}`),
		"paquete invalido":  completedEvent("evt_9", "txn_9", "prov-1", "mega"),
		"custom_data vacio": completedEvent("evt_9", "txn_9", "", "pro"),
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			f := newWebhookFixture()
			res, err := f.uc.HandleWebhook(context.Background(), body, sign(body))
			require.NoError(t, err)
			assert.Equal(t, payments.OutcomeIgnored, res.Outcome)
			acc, _ := f.store.GetAccount(context.Background(), "prov-1")
			assert.Nil(t, acc)
		})
	}
}

func TestHandleWebhook_UsuarioInexistenteDevuelveError(t *testing.T) {
	f := newWebhookFixture()
	body := completedEvent("evt_1", "txn_1", "ghost", "starter")

	res, err := f.uc.HandleWebhook(context.Background(), body, sign(body))
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	assert.Equal(t, payments.OutcomeError, res.Outcome)
}

func TestHandleWebhook_CuerpoMalformado(t *testing.T) {
	f := newWebhookFixture()
	body := []byte(`{"event_id":`)
	_, err := f.uc.HandleWebhook(context.Background(), body, sign(body))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
