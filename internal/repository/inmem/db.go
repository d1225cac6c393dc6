// Package inmem keeps the remote store tables in memory. It backs
// STORE_BACKEND=memory and the package tests of the layers above the
// repositories.
package inmem

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/enrollment-service/internal/record"
	"github.com/spec-kit/enrollment-service/internal/repository"
)

// DB holds every table behind one lock.
type DB struct {
	mu  sync.RWMutex
	now func() time.Time

	persons      *table[record.PersonRow]
	units        *table[record.UnitRow]
	admins       *table[record.AdminRow]
	staff        *table[record.StaffRow]
	enrollments  *table[record.EnrollmentRow]
	certificates *table[record.CertificateRow]
	settings     *table[record.SettingRow]
}

// New returns an empty database.
func New() *DB {
	db := &DB{now: func() time.Time { return time.Now().UTC() }}
	db.persons = newTable[record.PersonRow](db, record.TablePersons, "cpf")
	db.persons.uniqueWhere = func(r record.PersonRow) bool { return r.IsActive }
	db.units = newTable[record.UnitRow](db, record.TableUnits)
	db.admins = newTable[record.AdminRow](db, record.TableAdmins, "email", "cpf")
	db.staff = newTable[record.StaffRow](db, record.TableStaff, "cpf")
	db.enrollments = newTable[record.EnrollmentRow](db, record.TableEnrollments)
	db.certificates = newTable[record.CertificateRow](db, record.TableCertificates, "certificate_number")
	db.settings = newTable[record.SettingRow](db, record.TableSettings, "key")
	return db
}

// Client exposes the tables through the repository interfaces.
func (db *DB) Client() *repository.Client {
	return &repository.Client{
		Persons:      &personRepository{db: db},
		Units:        &unitRepository{db: db},
		Admins:       &adminRepository{db: db},
		Staff:        &staffRepository{db: db},
		Enrollments:  &enrollmentRepository{db: db},
		Certificates: &certificateRepository{db: db},
		Settings:     &settingRepository{db: db},
		Stats:        &statsRepository{db: db},
	}
}

type table[R any] struct {
	db     *DB
	name   string
	unique []string
	rows   map[string]R

	// uniqueWhere limits the unique columns to matching rows, like a
	// partial unique index.
	uniqueWhere func(R) bool
}

func newTable[R any](db *DB, name string, unique ...string) *table[R] {
	return &table[R]{db: db, name: name, unique: unique, rows: make(map[string]R)}
}

func (t *table[R]) notFound(op string) error {
	return fmt.Errorf("%s %s: %w", t.name, op, repository.ErrNotFound)
}

func (t *table[R]) list(keep func(R) bool, less func(a, b R) bool) []R {
	t.db.mu.RLock()
	defer t.db.mu.RUnlock()

	out := make([]R, 0, len(t.rows))
	for _, row := range t.rows {
		if keep == nil || keep(row) {
			out = append(out, row)
		}
	}
	if less != nil {
		sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	}
	return out
}

func (t *table[R]) get(op, id string) (R, error) {
	t.db.mu.RLock()
	defer t.db.mu.RUnlock()

	row, ok := t.rows[id]
	if !ok {
		return row, t.notFound(op)
	}
	return row, nil
}

// find returns the only row matching. More than one match is a remote error
// the same way the Postgres client reports it.
func (t *table[R]) find(op string, match func(R) bool) (R, error) {
	matches := t.list(match, nil)
	switch len(matches) {
	case 0:
		var zero R
		return zero, t.notFound(op)
	case 1:
		return matches[0], nil
	default:
		var zero R
		return zero, &repository.RemoteError{Table: t.name, Op: op, Err: errors.New("more than one row matched")}
	}
}

func (t *table[R]) insert(row R) (R, error) {
	if err := record.Validate(t.name, row); err != nil {
		return row, err
	}

	t.db.mu.Lock()
	defer t.db.mu.Unlock()

	id, _ := column(row, "id").(string)
	if id == "" {
		id = uuid.NewString()
	}
	if _, exists := t.rows[id]; exists {
		return row, t.conflict("create", "pkey")
	}
	now := t.db.now()
	if err := record.ApplyPatch(&row, record.Patch{
		{Column: "id", Value: id},
		{Column: "created_at", Value: now},
		{Column: "updated_at", Value: now},
	}); err != nil {
		return row, err
	}
	if err := t.checkUnique("create", id, row); err != nil {
		return row, err
	}
	t.rows[id] = row
	return row, nil
}

func (t *table[R]) update(op, id string, patch record.Patch) (R, error) {
	t.db.mu.Lock()
	defer t.db.mu.Unlock()

	row, ok := t.rows[id]
	if !ok {
		return row, t.notFound(op)
	}
	patch = patch.Without("id", "created_at", "updated_at")
	patch.Set("updated_at", t.db.now())
	if err := record.ApplyPatch(&row, patch); err != nil {
		return row, &repository.RemoteError{Table: t.name, Op: op, Err: err}
	}
	if err := record.Validate(t.name, row); err != nil {
		return row, err
	}
	if err := t.checkUnique(op, id, row); err != nil {
		return row, err
	}
	t.rows[id] = row
	return row, nil
}

// mark applies a soft-delete assignment and reports whether the id exists.
func (t *table[R]) mark(op, id string, patch record.Patch) (bool, error) {
	if _, err := t.update(op, id, patch); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (t *table[R]) checkUnique(op, id string, row R) error {
	if t.uniqueWhere != nil && !t.uniqueWhere(row) {
		return nil
	}
	for _, col := range t.unique {
		value := column(row, col)
		for otherID, other := range t.rows {
			if otherID == id || (t.uniqueWhere != nil && !t.uniqueWhere(other)) {
				continue
			}
			if equalKey(column(other, col), value) {
				return t.conflict(op, col+"_key")
			}
		}
	}
	return nil
}

func (t *table[R]) conflict(op, suffix string) error {
	return &repository.RemoteError{
		Table:      t.name,
		Op:         op,
		Code:       "23505",
		Constraint: t.name + "_" + suffix,
		Err:        errors.New("duplicate key value violates unique constraint"),
	}
}

func column(row any, name string) any {
	for _, a := range record.Fields(row) {
		if a.Column == name {
			return a.Value
		}
	}
	return nil
}

func equalKey(a, b any) bool {
	sa, okA := a.(string)
	sb, okB := b.(string)
	if okA && okB {
		return sa != "" && strings.EqualFold(sa, sb)
	}
	return false
}
