package repository

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"contacts-service/internal/apperr"
)

const uniqueViolation = "23505"

// mapWriteError translates storage-level constraint violations into the
// domain taxonomy after every write, so handlers never inspect pg error codes.
func mapWriteError(err error, conflictMessage string) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return apperr.Conflict(conflictMessage)
	}

	return err
}

func mapReadError(err error, notFoundMessage string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFound(notFoundMessage)
	}

	return err
}

func checkAffected(res sql.Result, notFoundMessage string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperr.NotFound(notFoundMessage)
	}

	return nil
}
