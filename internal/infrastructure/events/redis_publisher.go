package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/privat-admin-api/internal/application/credits"
	"github.com/jhoicas/privat-admin-api/pkg/metrics"
)

// redisPublishing subconjunto de redis.UniversalClient usado aquí.
type redisPublishing interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// RedisPublisher publica cada evento como JSON en un canal pub/sub.
type RedisPublisher struct {
	rdb     redisPublishing
	channel string
}

// NewRedisPublisher crea el publicador sobre el canal dado.
func NewRedisPublisher(rdb redisPublishing, channel string) *RedisPublisher {
	if channel == "" {
		channel = "credit_events"
	}
	return &RedisPublisher{rdb: rdb, channel: channel}
}

// PublishCreditEvent serializa y publica el evento.
func (p *RedisPublisher) PublishCreditEvent(ctx context.Context, evt credits.CreditEvent) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("events: serializar evento: %w", err)
	}
	if err := p.rdb.Publish(ctx, p.channel, payload).Err(); err != nil {
		metrics.CreditEventsPublished.WithLabelValues(BackendRedis, "error").Inc()
		return fmt.Errorf("events: publicar en %s: %w", p.channel, err)
	}
	metrics.CreditEventsPublished.WithLabelValues(BackendRedis, "ok").Inc()
	return nil
}

// Close el cliente redis lo cierra quien lo creó.
func (p *RedisPublisher) Close() error { return nil }
