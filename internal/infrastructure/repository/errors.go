package repository

import (
	"errors"

	"github.com/attarhouse/attarhouse-api/pkg/apperror"
	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolation = "23505"

// translateError turns constraint violations into conflict errors and leaves
// everything else untouched
func translateError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return apperror.NewConflictError("Record already exists: " + pgErr.ConstraintName)
	}
	return err
}
