package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/privat-admin-api/internal/domain"
	"github.com/jhoicas/privat-admin-api/internal/domain/entity"
	"github.com/jhoicas/privat-admin-api/internal/domain/repository"
)

var _ repository.CreditLedgerRepository = (*CreditLedgerRepo)(nil)

// CreditLedgerRepo tablas credit_accounts y credit_transactions (usable con pool o tx).
type CreditLedgerRepo struct {
	q Querier
}

// NewCreditLedgerRepository construye el adaptador del ledger. Pasar pool o tx (Querier).
func NewCreditLedgerRepository(q Querier) *CreditLedgerRepo {
	return &CreditLedgerRepo{q: q}
}

// EnsureAccount crea la cuenta en 0 si no existe.
func (r *CreditLedgerRepo) EnsureAccount(ctx context.Context, userID string) (bool, error) {
	tag, err := r.q.Exec(ctx, `
		INSERT INTO credit_accounts (user_id, credits, version, metadata_entries, updated_at)
		VALUES ($1, 0, 0, 0, now())
		ON CONFLICT (user_id) DO NOTHING`, userID)
	if err != nil {
		return false, fmt.Errorf("ensure credit account: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// LockAccount bloquea la fila de la cuenta (SELECT FOR UPDATE).
func (r *CreditLedgerRepo) LockAccount(ctx context.Context, userID string) (*entity.CreditAccount, error) {
	query := `
		SELECT user_id, credits, version, metadata_entries, updated_at
		FROM credit_accounts WHERE user_id = $1
		FOR UPDATE`
	var a entity.CreditAccount
	err := r.q.QueryRow(ctx, query, userID).Scan(&a.UserID, &a.Credits, &a.Version, &a.MetadataEntries, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("lock credit account: %w", err)
	}
	return &a, nil
}

// GetAccount lectura sin bloqueo.
func (r *CreditLedgerRepo) GetAccount(ctx context.Context, userID string) (*entity.CreditAccount, error) {
	query := `SELECT user_id, credits, version, metadata_entries, updated_at FROM credit_accounts WHERE user_id = $1`
	var a entity.CreditAccount
	err := r.q.QueryRow(ctx, query, userID).Scan(&a.UserID, &a.Credits, &a.Version, &a.MetadataEntries, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get credit account: %w", err)
	}
	return &a, nil
}

// UpdateAccount escribe saldo, versión y largo conocido de la réplica.
func (r *CreditLedgerRepo) UpdateAccount(ctx context.Context, a *entity.CreditAccount) error {
	_, err := r.q.Exec(ctx, `
		UPDATE credit_accounts SET credits = $2, version = $3, metadata_entries = $4, updated_at = $5
		WHERE user_id = $1`, a.UserID, a.Credits, a.Version, a.MetadataEntries, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update credit account: %w", err)
	}
	return nil
}

// Append inserta el movimiento; el seq se calcula en la misma sentencia (la cuenta ya está bloqueada).
func (r *CreditLedgerRepo) Append(ctx context.Context, t *entity.CreditTransaction) error {
	query := `
		INSERT INTO credit_transactions (id, user_id, seq, type, amount, description, source, reference, created_at)
		SELECT $1, $2, COALESCE(MAX(seq), 0) + 1, $3, $4, $5, $6, $7, $8
		FROM credit_transactions WHERE user_id = $2
		RETURNING seq`
	err := r.q.QueryRow(ctx, query,
		t.ID, t.UserID, t.Type, t.Amount, t.Description, t.Source, nullIfEmpty(t.Reference), t.CreatedAt,
	).Scan(&t.Seq)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert credit transaction: %w", err)
	}
	return nil
}

// ListByUser historia completa en orden de inserción.
func (r *CreditLedgerRepo) ListByUser(ctx context.Context, userID string) ([]entity.CreditTransaction, error) {
	query := `
		SELECT id, user_id, seq, type, amount, description, source, reference, created_at
		FROM credit_transactions WHERE user_id = $1 ORDER BY seq ASC`
	rows, err := r.q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list credit transactions: %w", err)
	}
	defer rows.Close()
	var list []entity.CreditTransaction
	for rows.Next() {
		var t entity.CreditTransaction
		var ref *string
		if err := rows.Scan(&t.ID, &t.UserID, &t.Seq, &t.Type, &t.Amount, &t.Description, &t.Source, &ref, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan credit transaction: %w", err)
		}
		t.Reference = derefString(ref)
		list = append(list, t)
	}
	return list, rows.Err()
}
