package shortener

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/sundayezeilo/shortlinks/internal/errx"
)

const (
	pgUniqueViolation    = "23505"
	slugUniqueConstraint = "links_slug_unique"

	// SQLSTATE classes for rows the database refused on their content.
	pgClassDataException      = "22"
	pgClassIntegrityViolation = "23"
)

func isSlugUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == slugUniqueConstraint
}

// mapRepoError translates a pgx failure into the repository's error kinds.
// Anything the database did not reject on content is treated as the store
// being unavailable.
func mapRepoError(op string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return errx.Errorf(op, errx.NotFound, "%w: %w", ErrNotFound, err)
	}
	if isSlugUniqueViolation(err) {
		return errx.Errorf(op, errx.Conflict, "%w: %w", ErrDuplicateSlug, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) &&
		(strings.HasPrefix(pgErr.Code, pgClassDataException) || strings.HasPrefix(pgErr.Code, pgClassIntegrityViolation)) {
		return errx.E(op, errx.Invalid, err)
	}
	return errx.E(op, errx.Unavailable, err)
}
