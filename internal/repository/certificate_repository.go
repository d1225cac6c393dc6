package repository

import (
	"context"

	"github.com/spec-kit/enrollment-service/internal/observability"
	"github.com/spec-kit/enrollment-service/internal/record"
)

// CertificateRepository handles persistence for certificates. Certificates
// are never updated; invalidation is the soft delete.
type CertificateRepository interface {
	ListActive(ctx context.Context) ([]record.CertificateRow, error)
	ListByPerson(ctx context.Context, personID string) ([]record.CertificateRow, error)
	GetByID(ctx context.Context, id string) (record.CertificateRow, error)
	GetByNumber(ctx context.Context, number string) (record.CertificateRow, error)
	Create(ctx context.Context, row record.CertificateRow) (record.CertificateRow, error)
	SoftDelete(ctx context.Context, id string) (bool, error)
}

type certificateRepository struct {
	table[record.CertificateRow]
}

// NewCertificateRepository instantiates the repository.
func NewCertificateRepository(db DBTX, metrics *observability.Metrics) CertificateRepository {
	return &certificateRepository{newTable[record.CertificateRow](db, metrics, record.TableCertificates)}
}

func (r *certificateRepository) ListActive(ctx context.Context) ([]record.CertificateRow, error) {
	return r.many(ctx, "list_active", "is_valid = true", "issue_date DESC")
}

func (r *certificateRepository) ListByPerson(ctx context.Context, personID string) ([]record.CertificateRow, error) {
	return r.many(ctx, "list_by_person", "student_id=$1 AND is_valid = true", "issue_date DESC", personID)
}

func (r *certificateRepository) GetByID(ctx context.Context, id string) (record.CertificateRow, error) {
	return r.one(ctx, "get_by_id", "id=$1", id)
}

func (r *certificateRepository) GetByNumber(ctx context.Context, number string) (record.CertificateRow, error) {
	return r.one(ctx, "get_by_number", "certificate_number=$1", number)
}

func (r *certificateRepository) Create(ctx context.Context, row record.CertificateRow) (record.CertificateRow, error) {
	return r.insert(ctx, row)
}

func (r *certificateRepository) SoftDelete(ctx context.Context, id string) (bool, error) {
	return r.mark(ctx, "invalidate", "is_valid=false", id)
}
