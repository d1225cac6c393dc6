package repository

import (
	"context"

	"github.com/spec-kit/enrollment-service/internal/observability"
	"github.com/spec-kit/enrollment-service/internal/record"
)

// UnitRepository handles persistence for teaching units.
type UnitRepository interface {
	ListActive(ctx context.Context) ([]record.UnitRow, error)
	GetByID(ctx context.Context, id string) (record.UnitRow, error)
	Create(ctx context.Context, row record.UnitRow) (record.UnitRow, error)
	Update(ctx context.Context, id string, patch record.Patch) (record.UnitRow, error)
	SoftDelete(ctx context.Context, id string) (bool, error)
}

type unitRepository struct {
	table[record.UnitRow]
}

// NewUnitRepository instantiates the repository.
func NewUnitRepository(db DBTX, metrics *observability.Metrics) UnitRepository {
	return &unitRepository{newTable[record.UnitRow](db, metrics, record.TableUnits)}
}

func (r *unitRepository) ListActive(ctx context.Context) ([]record.UnitRow, error) {
	return r.many(ctx, "list_active", "is_active = true", "name ASC")
}

func (r *unitRepository) GetByID(ctx context.Context, id string) (record.UnitRow, error) {
	return r.one(ctx, "get_by_id", "id=$1", id)
}

func (r *unitRepository) Create(ctx context.Context, row record.UnitRow) (record.UnitRow, error) {
	return r.insert(ctx, row)
}

func (r *unitRepository) Update(ctx context.Context, id string, patch record.Patch) (record.UnitRow, error) {
	return r.update(ctx, id, patch)
}

func (r *unitRepository) SoftDelete(ctx context.Context, id string) (bool, error) {
	return r.mark(ctx, "soft_delete", "is_active=false", id)
}
