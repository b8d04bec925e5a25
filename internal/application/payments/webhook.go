package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jhoicas/privat-admin-api/internal/application/credits"
	"github.com/jhoicas/privat-admin-api/internal/domain"
	"github.com/jhoicas/privat-admin-api/internal/domain/entity"
	"github.com/jhoicas/privat-admin-api/pkg/logger"
	"github.com/jhoicas/privat-admin-api/pkg/metrics"
)

// EventTransactionCompleted único evento de Paddle que mueve créditos.
const EventTransactionCompleted = "transaction.completed"

// Resultado del procesamiento de un webhook.
const (
	OutcomeGranted  = "granted"
	OutcomeReplay   = "replay"
	OutcomeIgnored  = "ignored"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// paddleEvent campos del sobre de notificación de Paddle Billing que se usan aquí.
type paddleEvent struct {
	EventID   string `json:"event_id"`
	EventType string `json:"event_type"`
	Data      struct {
		ID         string         `json:"id"`
		CustomData map[string]any `json:"custom_data"`
	} `json:"data"`
}

// WebhookResult resultado para logs y tests.
type WebhookResult struct {
	Outcome   string
	EventType string
	UserID    string
	Balance   int64
}

// WebhookUseCase verifica y aplica las notificaciones de Paddle.
type WebhookUseCase struct {
	verifier WebhookVerifier
	granter  PaymentGranter
	log      *logger.Logger
}

// NewWebhookUseCase construye el caso de uso.
func NewWebhookUseCase(verifier WebhookVerifier, granter PaymentGranter, log *logger.Logger) *WebhookUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &WebhookUseCase{verifier: verifier, granter: granter, log: log.Component("paddle_webhook")}
}

// HandleWebhook firma inválida => domain.ErrInvalidSignature. Eventos ajenos, sin custom_data o
// con paquete desconocido se ignoran sin error para que Paddle no reintente. Cualquier otro
// error se devuelve para responder 5xx y forzar el reintento; el ledger absorbe los duplicados.
func (uc *WebhookUseCase) HandleWebhook(ctx context.Context, rawBody []byte, signature string) (*WebhookResult, error) {
	if err := uc.verifier.Verify(rawBody, signature); err != nil {
		metrics.WebhookEvents.WithLabelValues("unknown", OutcomeRejected).Inc()
		uc.log.Warn().Err(err).Msg("firma de webhook rechazada")
		return &WebhookResult{Outcome: OutcomeRejected}, fmt.Errorf("%w: %v", domain.ErrInvalidSignature, err)
	}

	var evt paddleEvent
	if err := json.Unmarshal(rawBody, &evt); err != nil {
		metrics.WebhookEvents.WithLabelValues("unknown", OutcomeRejected).Inc()
		return &WebhookResult{Outcome: OutcomeRejected}, fmt.Errorf("%w: cuerpo de webhook: %v", domain.ErrInvalidInput, err)
	}
	res := &WebhookResult{EventType: evt.EventType}

	if evt.EventType != EventTransactionCompleted {
		return uc.ignore(res, evt, "evento no manejado"), nil
	}
	userID, _ := evt.Data.CustomData["userId"].(string)
	packageID, _ := evt.Data.CustomData["packageId"].(string)
	res.UserID = userID
	if userID == "" || packageID == "" {
		return uc.ignore(res, evt, "transacción sin custom_data de la app"), nil
	}
	if _, ok := entity.FindCreditPackage(packageID); !ok {
		uc.log.Error().Str("event_id", evt.EventID).Str("package_id", packageID).Msg("webhook con paquete desconocido")
		return uc.ignore(res, evt, "paquete desconocido"), nil
	}

	balance, applied, err := uc.granter.GrantCreditsFromPayment(ctx, credits.PaymentGrant{
		EventID:       evt.EventID,
		TransactionID: evt.Data.ID,
		UserID:        userID,
		PackageID:     packageID,
	})
	if err != nil {
		metrics.WebhookEvents.WithLabelValues(evt.EventType, OutcomeError).Inc()
		ev := uc.log.Error()
		if errors.Is(err, domain.ErrUserNotFound) {
			ev = uc.log.Warn()
		}
		ev.Err(err).Str("event_id", evt.EventID).Str("transaction_id", evt.Data.ID).Str("user_id", userID).
			Msg("no se pudo acreditar la compra")
		res.Outcome = OutcomeError
		return res, err
	}
	res.Balance = balance
	res.Outcome = OutcomeGranted
	if !applied {
		res.Outcome = OutcomeReplay
	}
	metrics.WebhookEvents.WithLabelValues(evt.EventType, res.Outcome).Inc()
	uc.log.Info().Str("event_id", evt.EventID).Str("transaction_id", evt.Data.ID).Str("user_id", userID).
		Str("package_id", packageID).Str("outcome", res.Outcome).Int64("balance", balance).
		Msg("webhook de Paddle procesado")
	return res, nil
}

func (uc *WebhookUseCase) ignore(res *WebhookResult, evt paddleEvent, reason string) *WebhookResult {
	metrics.WebhookEvents.WithLabelValues(evt.EventType, OutcomeIgnored).Inc()
	uc.log.Debug().Str("event_id", evt.EventID).Str("event_type", evt.EventType).Str("reason", reason).
		Msg("webhook ignorado")
	res.Outcome = OutcomeIgnored
	return res
}
