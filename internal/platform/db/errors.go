package db

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/sportportal/portal/internal/platform/httpx"
)

const uniqueViolation = "23505"

// MapError translates driver errors into the httpx sentinels. what names the
// record for the message, e.g. "news article".
func MapError(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %s", httpx.ErrNotFound, what)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s already exists", httpx.ErrDuplicate, what)
	}
	return err
}
