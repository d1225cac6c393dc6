package repository_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/enrollment-service/internal/domain"
	"github.com/spec-kit/enrollment-service/internal/persistence"
	"github.com/spec-kit/enrollment-service/internal/record"
	"github.com/spec-kit/enrollment-service/internal/repository"
)

// openTestClient connects to POSTGRES_TEST_DSN and applies migrations.
func openTestClient(t *testing.T) *repository.Client {
	t.Helper()
	dsn := os.Getenv("POSTGRES_TEST_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_TEST_DSN not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, persistence.RunMigrations(ctx, pool, persistence.DefaultNotifyChannel, zap.NewNop()))
	return repository.NewClient(pool, nil)
}

func uniqueTaxID() string {
	return fmt.Sprintf("%011d", time.Now().UnixNano()%100000000000)
}

func integrationPerson(taxID string) record.PersonRow {
	return record.FromPerson(domain.Person{
		Name:      "Integração " + taxID,
		BirthDate: time.Date(2012, 3, 4, 0, 0, 0, 0, time.UTC),
		TaxID:     taxID,
		Gender:    domain.GenderMale,
		Phone:     "(63) 90000-0000",
		Address: domain.Address{
			ZipCode:      "77000-000",
			Street:       "Rua 1",
			Number:       "10",
			Neighborhood: "Centro",
			City:         "Palmas",
			State:        "TO",
		},
		Guardians: domain.Guardians{
			FatherName:  "Pai",
			MotherName:  "Mãe",
			Phone:       "(63) 91111-1111",
			FatherTaxID: "111.222.333-44",
			MotherTaxID: "555.666.777-88",
		},
		Active: true,
	})
}

func TestPostgresPersonLifecycle(t *testing.T) {
	client := openTestClient(t)
	ctx := context.Background()

	created, err := client.Persons.Create(ctx, integrationPerson(uniqueTaxID()))
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := client.Persons.GetByTaxID(ctx, created.CPF)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	var patch record.Patch
	patch.Set("name", "Renomeado")
	updated, err := client.Persons.Update(ctx, created.ID, patch)
	require.NoError(t, err)
	assert.Equal(t, "Renomeado", updated.Name)

	matched, err := client.Persons.SoftDelete(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, matched)

	_, err = client.Persons.GetByTaxID(ctx, created.CPF)
	assert.True(t, errors.Is(err, repository.ErrNotFound))

	row, err := client.Persons.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, row.IsActive)
}

func TestPostgresDuplicateTaxID(t *testing.T) {
	client := openTestClient(t)
	ctx := context.Background()
	taxID := uniqueTaxID()

	_, err := client.Persons.Create(ctx, integrationPerson(taxID))
	require.NoError(t, err)

	_, err = client.Persons.Create(ctx, integrationPerson(taxID))
	require.Error(t, err)
	assert.True(t, errors.Is(err, repository.ErrConstraintViolation))
	constraint, ok := repository.ConstraintName(err)
	require.True(t, ok)
	assert.Equal(t, "students_cpf_key", constraint)
}

func TestPostgresGetByIDMissing(t *testing.T) {
	client := openTestClient(t)

	_, err := client.Units.GetByID(context.Background(), "00000000-0000-0000-0000-000000000000")
	assert.True(t, errors.Is(err, repository.ErrNotFound))
}
