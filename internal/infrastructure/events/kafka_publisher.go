package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"github.com/jhoicas/privat-admin-api/internal/application/credits"
	"github.com/jhoicas/privat-admin-api/pkg/metrics"
)

// messageWriter subconjunto de *kafka.Writer.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher escribe un mensaje por movimiento, con clave userId para
// conservar el orden por usuario dentro de la partición.
type KafkaPublisher struct {
	w messageWriter
}

// NewKafkaPublisher envuelve un writer ya configurado.
func NewKafkaPublisher(w messageWriter) *KafkaPublisher {
	return &KafkaPublisher{w: w}
}

// PublishCreditEvent entrega el evento al writer. Con el writer asíncrono de New solo se encola
// y las métricas de entrega las registra Completion; aquí se cuentan los fallos al encolar.
func (p *KafkaPublisher) PublishCreditEvent(ctx context.Context, evt credits.CreditEvent) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("events: serializar evento: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(evt.UserID),
		Value: payload,
		Time:  evt.OccurredAt,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(evt.Type)},
			{Key: "source", Value: []byte(evt.Source)},
		},
	}
	if err := p.w.WriteMessages(ctx, msg); err != nil {
		metrics.CreditEventsPublished.WithLabelValues(BackendKafka, "error").Inc()
		return fmt.Errorf("events: escribir en kafka: %w", err)
	}
	return nil
}

// Close vacía y cierra el writer.
func (p *KafkaPublisher) Close() error {
	return p.w.Close()
}
