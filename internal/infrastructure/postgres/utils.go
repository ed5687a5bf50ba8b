package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolation = "23505"

// isUniqueViolation detecta el choque contra un constraint UNIQUE; los
// repos lo traducen al error de dominio que corresponda (ErrConflict,
// ErrAlreadyRated, ErrEmailAlreadyExists).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// nullIfEmpty convierte "" a NULL para columnas opcionales con FK.
func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
