package repository

import (
	"context"

	"github.com/spec-kit/enrollment-service/internal/observability"
	"github.com/spec-kit/enrollment-service/internal/record"
)

// StaffRepository handles persistence for staff members.
type StaffRepository interface {
	ListActive(ctx context.Context) ([]record.StaffRow, error)
	ListByUnit(ctx context.Context, unitID string) ([]record.StaffRow, error)
	GetByID(ctx context.Context, id string) (record.StaffRow, error)
	GetByTaxID(ctx context.Context, cpf string) (record.StaffRow, error)
	Create(ctx context.Context, row record.StaffRow) (record.StaffRow, error)
	Update(ctx context.Context, id string, patch record.Patch) (record.StaffRow, error)
	SoftDelete(ctx context.Context, id string) (bool, error)
}

type staffRepository struct {
	table[record.StaffRow]
}

// NewStaffRepository instantiates the repository.
func NewStaffRepository(db DBTX, metrics *observability.Metrics) StaffRepository {
	return &staffRepository{newTable[record.StaffRow](db, metrics, record.TableStaff)}
}

func (r *staffRepository) ListActive(ctx context.Context) ([]record.StaffRow, error) {
	return r.many(ctx, "list_active", "is_active = true", "name ASC")
}

func (r *staffRepository) ListByUnit(ctx context.Context, unitID string) ([]record.StaffRow, error) {
	return r.many(ctx, "list_by_unit", "polo_id=$1 AND is_active = true", "name ASC", unitID)
}

func (r *staffRepository) GetByID(ctx context.Context, id string) (record.StaffRow, error) {
	return r.one(ctx, "get_by_id", "id=$1", id)
}

func (r *staffRepository) GetByTaxID(ctx context.Context, cpf string) (record.StaffRow, error) {
	return r.one(ctx, "get_by_cpf", "cpf=$1", cpf)
}

func (r *staffRepository) Create(ctx context.Context, row record.StaffRow) (record.StaffRow, error) {
	return r.insert(ctx, row)
}

func (r *staffRepository) Update(ctx context.Context, id string, patch record.Patch) (record.StaffRow, error) {
	return r.update(ctx, id, patch)
}

func (r *staffRepository) SoftDelete(ctx context.Context, id string) (bool, error) {
	return r.mark(ctx, "soft_delete", "is_active=false", id)
}
