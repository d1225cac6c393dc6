package repository

import (
	"context"

	"github.com/spec-kit/enrollment-service/internal/observability"
	"github.com/spec-kit/enrollment-service/internal/record"
)

// EnrollmentRepository handles persistence for enrollments. Cancelled rows
// are the soft-deleted ones.
type EnrollmentRepository interface {
	ListActive(ctx context.Context) ([]record.EnrollmentRow, error)
	ListByPerson(ctx context.Context, personID string) ([]record.EnrollmentRow, error)
	ListByUnit(ctx context.Context, unitID string) ([]record.EnrollmentRow, error)
	GetByID(ctx context.Context, id string) (record.EnrollmentRow, error)
	Create(ctx context.Context, row record.EnrollmentRow) (record.EnrollmentRow, error)
	Update(ctx context.Context, id string, patch record.Patch) (record.EnrollmentRow, error)
	SoftDelete(ctx context.Context, id string) (bool, error)
}

type enrollmentRepository struct {
	table[record.EnrollmentRow]
}

// NewEnrollmentRepository instantiates the repository.
func NewEnrollmentRepository(db DBTX, metrics *observability.Metrics) EnrollmentRepository {
	return &enrollmentRepository{newTable[record.EnrollmentRow](db, metrics, record.TableEnrollments)}
}

func (r *enrollmentRepository) ListActive(ctx context.Context) ([]record.EnrollmentRow, error) {
	return r.many(ctx, "list_active", "status <> 'cancelled'", "student_name ASC")
}

func (r *enrollmentRepository) ListByPerson(ctx context.Context, personID string) ([]record.EnrollmentRow, error) {
	return r.many(ctx, "list_by_person", "student_id=$1", "enrollment_date DESC", personID)
}

func (r *enrollmentRepository) ListByUnit(ctx context.Context, unitID string) ([]record.EnrollmentRow, error) {
	return r.many(ctx, "list_by_unit", "polo_id=$1 AND status <> 'cancelled'", "student_name ASC", unitID)
}

func (r *enrollmentRepository) GetByID(ctx context.Context, id string) (record.EnrollmentRow, error) {
	return r.one(ctx, "get_by_id", "id=$1", id)
}

func (r *enrollmentRepository) Create(ctx context.Context, row record.EnrollmentRow) (record.EnrollmentRow, error) {
	return r.insert(ctx, row)
}

func (r *enrollmentRepository) Update(ctx context.Context, id string, patch record.Patch) (record.EnrollmentRow, error) {
	return r.update(ctx, id, patch)
}

func (r *enrollmentRepository) SoftDelete(ctx context.Context, id string) (bool, error) {
	return r.mark(ctx, "cancel", "status='cancelled'", id)
}
