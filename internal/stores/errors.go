// Package stores holds the PostgreSQL queries for users and links.
package stores

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")

	// ErrShortUrlTaken is a duplicate of the generated short identifier, the insert may be retried with a new one.
	ErrShortUrlTaken = fmt.Errorf("%w: short url taken", ErrDuplicate)
)

const shortUrlConstraint = "urls_short_url_key"

// mapError translates driver errors into the sentinel errors of this package.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		if pgErr.ConstraintName == shortUrlConstraint {
			return ErrShortUrlTaken
		}
		return fmt.Errorf("%w: %s", ErrDuplicate, pgErr.ConstraintName)
	}
	return err
}
