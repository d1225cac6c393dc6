package repository

import (
	"context"

	"github.com/spec-kit/enrollment-service/internal/observability"
	"github.com/spec-kit/enrollment-service/internal/record"
)

// PersonRepository handles persistence for students.
type PersonRepository interface {
	ListActive(ctx context.Context) ([]record.PersonRow, error)
	GetByID(ctx context.Context, id string) (record.PersonRow, error)
	GetByTaxID(ctx context.Context, cpf string) (record.PersonRow, error)
	Create(ctx context.Context, row record.PersonRow) (record.PersonRow, error)
	Update(ctx context.Context, id string, patch record.Patch) (record.PersonRow, error)
	SoftDelete(ctx context.Context, id string) (bool, error)
}

type personRepository struct {
	table[record.PersonRow]
}

// NewPersonRepository instantiates the repository.
func NewPersonRepository(db DBTX, metrics *observability.Metrics) PersonRepository {
	return &personRepository{newTable[record.PersonRow](db, metrics, record.TablePersons)}
}

func (r *personRepository) ListActive(ctx context.Context) ([]record.PersonRow, error) {
	return r.many(ctx, "list_active", "is_active = true", "name ASC")
}

func (r *personRepository) GetByID(ctx context.Context, id string) (record.PersonRow, error) {
	return r.one(ctx, "get_by_id", "id=$1", id)
}

func (r *personRepository) GetByTaxID(ctx context.Context, cpf string) (record.PersonRow, error) {
	return r.one(ctx, "get_by_cpf", "cpf=$1 AND is_active = true", cpf)
}

func (r *personRepository) Create(ctx context.Context, row record.PersonRow) (record.PersonRow, error) {
	return r.insert(ctx, row)
}

func (r *personRepository) Update(ctx context.Context, id string, patch record.Patch) (record.PersonRow, error) {
	return r.update(ctx, id, patch.Without("cpf"))
}

func (r *personRepository) SoftDelete(ctx context.Context, id string) (bool, error) {
	return r.mark(ctx, "soft_delete", "is_active=false", id)
}
