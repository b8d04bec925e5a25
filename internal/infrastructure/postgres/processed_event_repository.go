package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/privat-admin-api/internal/domain/repository"
)

var _ repository.ProcessedEventRepository = (*ProcessedEventRepo)(nil)

// ProcessedEventRepo tabla processed_events: un registro por evento externo aplicado.
type ProcessedEventRepo struct {
	q Querier
}

// NewProcessedEventRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProcessedEventRepository(q Querier) *ProcessedEventRepo {
	return &ProcessedEventRepo{q: q}
}

// MarkProcessed inserta el evento. El índice único (kind, reference) cubre reintentos
// de Paddle que llegan con otro event_id para la misma transacción.
func (r *ProcessedEventRepo) MarkProcessed(ctx context.Context, eventID, kind, reference string) (bool, error) {
	tag, err := r.q.Exec(ctx, `
		INSERT INTO processed_events (event_id, kind, reference, processed_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT DO NOTHING`, eventID, kind, reference)
	if err != nil {
		if isUniqueViolation(err) {
			return false, nil
		}
		return false, fmt.Errorf("mark processed event: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
