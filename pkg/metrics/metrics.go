// Package metrics centraliza los colectores Prometheus del API de administración.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CreditTransactions movimientos escritos en el ledger por tipo y origen.
	CreditTransactions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "credit_transactions_total",
			Help: "Movimientos de créditos escritos en el ledger",
		},
		[]string{"type", "source"},
	)

	// CreditAmount créditos movidos por tipo.
	CreditAmount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "credit_amount_total",
			Help: "Créditos sumados o descontados",
		},
		[]string{"type"},
	)

	// WebhookEvents eventos de Paddle por tipo y resultado (granted, replay, ignored, rejected, error).
	WebhookEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "paddle_webhook_events_total",
			Help: "Eventos de webhook de Paddle procesados",
		},
		[]string{"event_type", "outcome"},
	)

	// DirectoryCache aciertos, fallos e invalidaciones del snapshot de usuarios.
	DirectoryCache = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "directory_cache_requests_total",
			Help: "Lecturas del snapshot del directorio de usuarios",
		},
		[]string{"result"},
	)

	// CreditEventsPublished eventos del ledger enviados al bus por backend y resultado.
	CreditEventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "credit_events_published_total",
			Help: "Eventos de créditos publicados",
		},
		[]string{"backend", "result"},
	)

	// UpstreamDuration latencia de llamadas a Supabase y Paddle.
	UpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_request_duration_seconds",
			Help:    "Duración de llamadas a proveedores externos",
			Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2, 5, 10},
		},
		[]string{"provider", "operation"},
	)
)
