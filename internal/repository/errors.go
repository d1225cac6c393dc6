package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/enrollment-service/internal/record"
)

const uniqueViolation = "23505"

type notFoundError struct{}

func (notFoundError) Error() string  { return "record not found" }
func (notFoundError) NotFound() bool { return true }

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound error = notFoundError{}

// ErrConstraintViolation matches remote errors caused by a unique constraint.
var ErrConstraintViolation = errors.New("constraint violation")

// RemoteError is a transport or backend failure of a remote store call.
// When Constraint is set the failure was a unique-constraint conflict and the
// error also matches ErrConstraintViolation.
type RemoteError struct {
	Table      string
	Op         string
	Code       string
	Constraint string
	Err        error
}

func (e *RemoteError) Error() string {
	if e.Constraint != "" {
		return fmt.Sprintf("%s %s: duplicate value violates %s", e.Table, e.Op, e.Constraint)
	}
	return fmt.Sprintf("%s %s: %v", e.Table, e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrConstraintViolation) match unique conflicts.
func (e *RemoteError) Is(target error) bool {
	return target == ErrConstraintViolation && e.Constraint != ""
}

// ConstraintName returns the violated constraint when err is a unique conflict.
func ConstraintName(err error) (string, bool) {
	var remote *RemoteError
	if errors.As(err, &remote) && remote.Constraint != "" {
		return remote.Constraint, true
	}
	return "", false
}

// IsRemote reports whether err came from the remote store (including
// constraint violations) rather than from a missing record or invalid input.
func IsRemote(err error) bool {
	var remote *RemoteError
	return errors.As(err, &remote)
}

func classify(table, op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, ErrNotFound) {
		return fmt.Errorf("%s %s: %w", table, op, ErrNotFound)
	}
	var verr *record.ValidationError
	if errors.As(err, &verr) {
		return err
	}
	remote := &RemoteError{Table: table, Op: op, Err: err}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		remote.Code = pgErr.Code
		if pgErr.Code == uniqueViolation {
			remote.Constraint = pgErr.ConstraintName
			if remote.Constraint == "" {
				remote.Constraint = table + "_unique"
			}
		}
	}
	return remote
}
