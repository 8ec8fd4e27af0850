package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Domenick1991/boatbooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the part of *pgxpool.Pool the repositories use.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const (
	codeExclusionViolation  = "23P01"
	codeCheckViolation      = "23514"
	codeForeignKeyViolation = "23503"
)

var checkMessages = map[string]domain.FieldError{
	"bookings_end_after_start":          {Field: "end_at", Message: "must be after the start time"},
	"bookings_deposit_within_total":     {Field: "deposit_received", Message: "must not exceed the total amount"},
	"bookings_passenger_count_positive": {Field: "passenger_count", Message: "must be greater than 0"},
}

// mapError translates driver errors into the domain error classes.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case codeExclusionViolation:
		return &domain.ConflictError{}
	case codeCheckViolation:
		if fe, ok := checkMessages[pgErr.ConstraintName]; ok {
			return domain.NewValidationError(fe)
		}
		return domain.NewValidationError(domain.FieldError{Field: pgErr.ColumnName, Message: "is invalid"})
	case codeForeignKeyViolation:
		return domain.NewValidationError(domain.FieldError{
			Field:   foreignKeyField(pgErr.TableName, pgErr.ConstraintName),
			Message: "refers to a record that does not exist",
		})
	}
	return fmt.Errorf("postgres %s: %w", pgErr.Code, err)
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeForeignKeyViolation
}

// foreignKeyField recovers the column from Postgres' default "<table>_<column>_fkey" naming.
func foreignKeyField(table, constraint string) string {
	field := strings.TrimSuffix(constraint, "_fkey")
	field = strings.TrimPrefix(field, table+"_")
	if field == "" {
		return "id"
	}
	return field
}

// placeholders accumulates positional arguments for dynamically built statements.
type placeholders struct {
	args []any
}

func (p *placeholders) add(v any) string {
	p.args = append(p.args, v)
	return fmt.Sprintf("$%d", len(p.args))
}
