// Package events publica los movimientos confirmados del ledger de créditos
// para consumidores externos (app móvil, notificaciones, contabilidad).
package events

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"

	"github.com/jhoicas/privat-admin-api/internal/application/credits"
	"github.com/jhoicas/privat-admin-api/pkg/config"
	"github.com/jhoicas/privat-admin-api/pkg/logger"
	"github.com/jhoicas/privat-admin-api/pkg/metrics"
)

// Backends soportados (CREDIT_EVENTS_BACKEND).
const (
	BackendNone  = "none"
	BackendRedis = "redis"
	BackendKafka = "kafka"
)

// Publisher publicador con cierre de recursos.
type Publisher interface {
	credits.EventPublisher
	Close() error
}

// NoopPublisher descarta los eventos.
type NoopPublisher struct{}

func (NoopPublisher) PublishCreditEvent(context.Context, credits.CreditEvent) error { return nil }
func (NoopPublisher) Close() error { return nil }

// New construye el publicador configurado. rdb solo se usa con el backend redis.
func New(cfg config.EventsConfig, rdb redis.UniversalClient, log *logger.Logger) (Publisher, error) {
	switch cfg.Backend {
	case "", BackendNone:
		return NoopPublisher{}, nil
	case BackendRedis:
		if rdb == nil {
			return nil, fmt.Errorf("events: backend redis sin cliente redis")
		}
		return NewRedisPublisher(rdb, cfg.RedisChannel), nil
	case BackendKafka:
		if len(cfg.KafkaBrokers) == 0 {
			return nil, fmt.Errorf("events: KAFKA_BROKERS vacío")
		}
		w := &kafka.Writer{
			Addr:         kafka.TCP(cfg.KafkaBrokers...),
			Topic:        cfg.KafkaTopic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			MaxAttempts:  3,
			BatchTimeout: 50 * time.Millisecond,
			// Async: WriteMessages solo encola; el resultado de la entrega llega a Completion.
			Async:      true,
			Completion: kafkaCompletion(log),
			Logger: kafka.LoggerFunc(func(msg string, args ...interface{}) {
				if log != nil {
					log.Debug().Msgf(msg, args...)
				}
			}),
			ErrorLogger: kafka.LoggerFunc(func(msg string, args ...interface{}) {
				if log != nil {
					log.Error().Msgf(msg, args...)
				}
			}),
		}
		return NewKafkaPublisher(w), nil
	default:
		return nil, fmt.Errorf("events: backend desconocido %q", cfg.Backend)
	}
}

// kafkaCompletion cuenta y registra el resultado de cada lote entregado por el writer asíncrono.
func kafkaCompletion(log *logger.Logger) func([]kafka.Message, error) {
	return func(msgs []kafka.Message, err error) {
		if err != nil {
			metrics.CreditEventsPublished.WithLabelValues(BackendKafka, "error").Add(float64(len(msgs)))
			if log != nil {
				log.Error().Err(err).Int("messages", len(msgs)).Msg("entregar eventos de créditos a kafka")
			}
			return
		}
		metrics.CreditEventsPublished.WithLabelValues(BackendKafka, "ok").Add(float64(len(msgs)))
	}
}
