package store

import (
	"errors"
	"fmt"

	"github.com/JonMunkholm/factoscope/internal/core"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes the store translates.
const (
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// moduleFKey is the default name Postgres gives cours.id_module's constraint.
const moduleFKey = "cours_id_module_fkey"

// mapErr wraps err with what and translates driver errors into core
// sentinels: no rows becomes core.ErrNotFound, a missing parent course
// becomes core.ErrCourseNotFound.
func mapErr(what string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, core.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgForeignKeyViolation:
			if pgErr.ConstraintName == moduleFKey {
				return fmt.Errorf("%s: module: %w", what, core.ErrNotFound)
			}
			return fmt.Errorf("%s: %w (%s)", what, core.ErrCourseNotFound, pgErr.ConstraintName)
		case pgCheckViolation:
			return fmt.Errorf("%s: %w (%s)", what, core.ErrInvalidRange, pgErr.ConstraintName)
		}
	}
	return fmt.Errorf("%s: %w", what, err)
}
