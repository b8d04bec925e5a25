package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// isUndefinedTable tablas opcionales (referral_codes, subscription_history) pueden no existir.
func isUndefinedTable(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "42P01"
}

// derefString columnas TEXT nullable.
func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// nullIfEmpty inverso de derefString para escrituras.
func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
