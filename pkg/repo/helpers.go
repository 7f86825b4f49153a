// Package repo holds small shared helpers for pgx-backed repositories.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/iota-uz/timesheet/pkg/serrors"
)

// Tx is the subset of pgx.Tx that repositories need. *pgxpool.Pool satisfies
// it too, so reads can run outside an explicit transaction.
type Tx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// FormatLimitOffset returns a LIMIT/OFFSET clause for the given values,
// omitting either part when it is not positive.
func FormatLimitOffset(limit, offset int) string {
	if limit > 0 && offset > 0 {
		return fmt.Sprintf("LIMIT %d OFFSET %d", limit, offset)
	}
	if limit > 0 {
		return fmt.Sprintf("LIMIT %d", limit)
	}
	if offset > 0 {
		return fmt.Sprintf("OFFSET %d", offset)
	}
	return ""
}

// IsUniqueViolation reports whether err is a Postgres unique constraint error.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// TranslateDBError maps low-level store failures to the service error
// taxonomy. pgx.ErrNoRows is left to the caller, which knows which aggregate
// was missing.
func TranslateDBError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return serrors.Storage(err)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if IsUniqueViolation(err) {
			return serrors.Conflict(pgErr.Detail)
		}
		return serrors.Storage(err)
	}
	return serrors.Storage(err)
}
