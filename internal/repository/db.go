package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/enrollment-service/internal/observability"
	"github.com/spec-kit/enrollment-service/internal/record"
)

// DBTX is the subset of pgxpool.Pool the repositories need.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Client bundles one sub-client per table over a single connection pool.
type Client struct {
	Persons      PersonRepository
	Units        UnitRepository
	Admins       AdminRepository
	Staff        StaffRepository
	Enrollments  EnrollmentRepository
	Certificates CertificateRepository
	Settings     SettingRepository
	Stats        StatsRepository
}

// NewClient returns Postgres-backed sub-clients sharing db.
func NewClient(db DBTX, metrics *observability.Metrics) *Client {
	return &Client{
		Persons:      NewPersonRepository(db, metrics),
		Units:        NewUnitRepository(db, metrics),
		Admins:       NewAdminRepository(db, metrics),
		Staff:        NewStaffRepository(db, metrics),
		Enrollments:  NewEnrollmentRepository(db, metrics),
		Certificates: NewCertificateRepository(db, metrics),
		Settings:     NewSettingRepository(db, metrics),
		Stats:        NewStatsRepository(db, metrics),
	}
}

var serverColumns = []string{"created_at", "updated_at"}

// table implements the SQL shared by every sub-client for row type R.
type table[R any] struct {
	db      DBTX
	metrics *observability.Metrics
	name    string
	columns string
}

func newTable[R any](db DBTX, metrics *observability.Metrics, name string) table[R] {
	var zero R
	return table[R]{
		db:      db,
		metrics: metrics,
		name:    name,
		columns: strings.Join(record.Columns(zero), ", "),
	}
}

func (t table[R]) finish(op string, started time.Time, err error) error {
	err = classify(t.name, op, err)
	t.metrics.ObserveRemote(t.name, op, started, err)
	return err
}

// one returns the single row matching where. Zero rows is ErrNotFound and more
// than one row is a RemoteError.
func (t table[R]) one(ctx context.Context, op, where string, args ...any) (R, error) {
	started := time.Now()
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s", t.columns, t.name, where)

	var row R
	rows, err := t.db.Query(ctx, query, args...)
	if err == nil {
		row, err = pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[R])
	}
	return row, t.finish(op, started, err)
}

func (t table[R]) many(ctx context.Context, op, where, orderBy string, args ...any) ([]R, error) {
	started := time.Now()
	query := fmt.Sprintf("SELECT %s FROM %s", t.columns, t.name)
	if where != "" {
		query += " WHERE " + where
	}
	if orderBy != "" {
		query += " ORDER BY " + orderBy
	}

	var result []R
	rows, err := t.db.Query(ctx, query, args...)
	if err == nil {
		result, err = pgx.CollectRows(rows, pgx.RowToStructByName[R])
	}
	if err := t.finish(op, started, err); err != nil {
		return nil, err
	}
	if result == nil {
		result = []R{}
	}
	return result, nil
}

// insert writes row with a generated id and returns it with server timestamps.
func (t table[R]) insert(ctx context.Context, row R) (R, error) {
	started := time.Now()
	if err := record.Validate(t.name, row); err != nil {
		return row, t.finish("create", started, err)
	}

	values := record.Fields(row, serverColumns...)
	for i := range values {
		if values[i].Column == "id" {
			if id, _ := values[i].Value.(string); id == "" {
				values[i].Value = uuid.NewString()
			}
		}
	}
	placeholders := make([]string, len(values))
	for i := range values {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
		t.name,
		strings.Join(values.Columns(), ", "),
		strings.Join(placeholders, ", "),
		t.columns,
	)

	var stored R
	rows, err := t.db.Query(ctx, query, values.Values()...)
	if err == nil {
		stored, err = pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[R])
	}
	return stored, t.finish("create", started, err)
}

// update applies patch to the row with the given id. The current row is read
// and the patched copy validated before anything is written.
func (t table[R]) update(ctx context.Context, id string, patch record.Patch) (R, error) {
	patch = patch.Without(append([]string{"id"}, serverColumns...)...)
	current, err := t.one(ctx, "update", "id=$1", id)
	if err != nil {
		return current, err
	}

	started := time.Now()
	if err := record.ApplyPatch(&current, patch); err != nil {
		return current, t.finish("update", started, err)
	}
	if err := record.Validate(t.name, current); err != nil {
		return current, t.finish("update", started, err)
	}

	query, args := buildUpdate(t.name, t.columns, id, patch)
	var stored R
	rows, err := t.db.Query(ctx, query, args...)
	if err == nil {
		stored, err = pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[R])
	}
	return stored, t.finish("update", started, err)
}

// mark runs a soft-delete style assignment and reports whether the row exists.
// Postgres counts matched rows, so repeating it keeps returning true.
func (t table[R]) mark(ctx context.Context, op, set, id string) (bool, error) {
	started := time.Now()
	query := fmt.Sprintf("UPDATE %s SET %s, updated_at=NOW() WHERE id=$1", t.name, set)
	cmd, err := t.db.Exec(ctx, query, id)
	if err := t.finish(op, started, err); err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func buildUpdate(tableName, returning, id string, patch record.Patch) (string, []any) {
	sets := make([]string, 0, len(patch)+1)
	args := make([]any, 0, len(patch)+1)
	for _, a := range patch {
		args = append(args, a.Value)
		sets = append(sets, fmt.Sprintf("%s=$%d", a.Column, len(args)))
	}
	sets = append(sets, "updated_at=NOW()")
	args = append(args, id)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id=$%d RETURNING %s",
		tableName, strings.Join(sets, ", "), len(args), returning)
	return query, args
}
