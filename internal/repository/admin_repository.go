package repository

import (
	"context"

	"github.com/spec-kit/enrollment-service/internal/observability"
	"github.com/spec-kit/enrollment-service/internal/record"
)

// AdminRepository handles persistence for admin identities.
type AdminRepository interface {
	ListActive(ctx context.Context) ([]record.AdminRow, error)
	GetByID(ctx context.Context, id string) (record.AdminRow, error)
	GetByEmail(ctx context.Context, email string) (record.AdminRow, error)
	Create(ctx context.Context, row record.AdminRow) (record.AdminRow, error)
	Update(ctx context.Context, id string, patch record.Patch) (record.AdminRow, error)
	SoftDelete(ctx context.Context, id string) (bool, error)
}

type adminRepository struct {
	table[record.AdminRow]
}

// NewAdminRepository instantiates the repository.
func NewAdminRepository(db DBTX, metrics *observability.Metrics) AdminRepository {
	return &adminRepository{newTable[record.AdminRow](db, metrics, record.TableAdmins)}
}

func (r *adminRepository) ListActive(ctx context.Context) ([]record.AdminRow, error) {
	return r.many(ctx, "list_active", "is_active = true", "name ASC")
}

func (r *adminRepository) GetByID(ctx context.Context, id string) (record.AdminRow, error) {
	return r.one(ctx, "get_by_id", "id=$1", id)
}

func (r *adminRepository) GetByEmail(ctx context.Context, email string) (record.AdminRow, error) {
	return r.one(ctx, "get_by_email", "LOWER(email)=LOWER($1) AND is_active = true", email)
}

func (r *adminRepository) Create(ctx context.Context, row record.AdminRow) (record.AdminRow, error) {
	return r.insert(ctx, row)
}

func (r *adminRepository) Update(ctx context.Context, id string, patch record.Patch) (record.AdminRow, error) {
	return r.update(ctx, id, patch)
}

func (r *adminRepository) SoftDelete(ctx context.Context, id string) (bool, error) {
	return r.mark(ctx, "soft_delete", "is_active=false", id)
}
