package inmem

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/enrollment-service/internal/record"
	"github.com/spec-kit/enrollment-service/internal/repository"
)

func personRow(name, cpf string) record.PersonRow {
	return record.PersonRow{
		Name:         name,
		BirthDate:    time.Date(2012, 3, 1, 0, 0, 0, 0, time.UTC),
		CPF:          cpf,
		Gender:       "male",
		Phone:        "63999990000",
		CEP:          "77000-000",
		Street:       "Rua A",
		Number:       "10",
		Neighborhood: "Centro",
		City:         "Palmas",
		State:        "TO",
		FatherName:   "Pai",
		MotherName:   "Mae",
		ParentsPhone: "63988880000",
		FatherCPF:    "111.111.111-11",
		MotherCPF:    "222.222.222-22",
		IsActive:     true,
	}
}

func TestCreateAssignsIdentityAndTimestamps(t *testing.T) {
	client := New().Client()

	row, err := client.Persons.Create(context.Background(), personRow("Bia", "123.456.789-00"))
	require.NoError(t, err)
	assert.NotEmpty(t, row.ID)
	assert.False(t, row.CreatedAt.IsZero())
	assert.Equal(t, row.CreatedAt, row.UpdatedAt)
}

func TestDuplicateTaxIDIsConstraintViolation(t *testing.T) {
	ctx := context.Background()
	client := New().Client()

	_, err := client.Persons.Create(ctx, personRow("Bia", "123.456.789-00"))
	require.NoError(t, err)
	_, err = client.Persons.Create(ctx, personRow("Caio", "123.456.789-00"))

	require.ErrorIs(t, err, repository.ErrConstraintViolation)
	name, _ := repository.ConstraintName(err)
	assert.Equal(t, "students_cpf_key", name)

	rows, err := client.Persons.ListActive(ctx)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestCreateRejectsInvalidRow(t *testing.T) {
	row := personRow("Bia", "not-a-cpf")
	_, err := New().Client().Persons.Create(context.Background(), row)

	var verr *record.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestListActiveOrdersByName(t *testing.T) {
	ctx := context.Background()
	client := New().Client()
	for i, name := range []string{"Carla", "Ana", "Bruno"} {
		_, err := client.Persons.Create(ctx, personRow(name, []string{"11111111111", "22222222222", "33333333333"}[i]))
		require.NoError(t, err)
	}

	rows, err := client.Persons.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Ana", "Bruno", "Carla"}, []string{rows[0].Name, rows[1].Name, rows[2].Name})
}

func TestSoftDeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	client := New().Client()
	row, err := client.Persons.Create(ctx, personRow("Bia", "123.456.789-00"))
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		matched, err := client.Persons.SoftDelete(ctx, row.ID)
		require.NoError(t, err)
		assert.True(t, matched)
	}

	stored, err := client.Persons.GetByID(ctx, row.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)

	_, err = client.Persons.GetByTaxID(ctx, row.CPF)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	matched, err := client.Persons.SoftDelete(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, matched)
}

func TestUpdateKeepsTaxIDAndReportsMissing(t *testing.T) {
	ctx := context.Background()
	client := New().Client()
	row, err := client.Persons.Create(ctx, personRow("Bia", "123.456.789-00"))
	require.NoError(t, err)

	patch := record.Patch{{Column: "name", Value: "Beatriz"}, {Column: "cpf", Value: "999.999.999-99"}}
	updated, err := client.Persons.Update(ctx, row.ID, patch)
	require.NoError(t, err)
	assert.Equal(t, "Beatriz", updated.Name)
	assert.Equal(t, "123.456.789-00", updated.CPF)

	_, err = client.Persons.Update(ctx, "missing", patch)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUpdateRejectsInvalidMergedRow(t *testing.T) {
	ctx := context.Background()
	client := New().Client()
	row, err := client.Persons.Create(ctx, personRow("Bia", "123.456.789-00"))
	require.NoError(t, err)

	_, err = client.Persons.Update(ctx, row.ID, record.Patch{{Column: "name", Value: ""}})
	var verr *record.ValidationError
	require.ErrorAs(t, err, &verr)

	stored, err := client.Persons.GetByID(ctx, row.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bia", stored.Name)
}

func TestTaxIDReusableAfterSoftDelete(t *testing.T) {
	ctx := context.Background()
	client := New().Client()
	first, err := client.Persons.Create(ctx, personRow("Bia", "123.456.789-00"))
	require.NoError(t, err)
	_, err = client.Persons.SoftDelete(ctx, first.ID)
	require.NoError(t, err)

	second, err := client.Persons.Create(ctx, personRow("Bia", "123.456.789-00"))
	require.NoError(t, err)

	found, err := client.Persons.GetByTaxID(ctx, "123.456.789-00")
	require.NoError(t, err)
	assert.Equal(t, second.ID, found.ID)

	_, err = client.Persons.Update(ctx, first.ID, record.Patch{{Column: "is_active", Value: true}})
	assert.ErrorIs(t, err, repository.ErrConstraintViolation)
}

func TestEnrollmentCancelHidesFromActiveList(t *testing.T) {
	ctx := context.Background()
	client := New().Client()
	row, err := client.Enrollments.Create(ctx, record.EnrollmentRow{
		StudentID:      "p1",
		StudentName:    "Bia",
		Level:          "NIVEL_II",
		PoloID:         "u1",
		EnrollmentDate: time.Now(),
		Status:         "active",
	})
	require.NoError(t, err)

	matched, err := client.Enrollments.SoftDelete(ctx, row.ID)
	require.NoError(t, err)
	assert.True(t, matched)

	active, err := client.Enrollments.ListActive(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)

	byPerson, err := client.Enrollments.ListByPerson(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, byPerson, 1)
	assert.Equal(t, "cancelled", byPerson[0].Status)
}

func TestSettingsUpsertAndFallback(t *testing.T) {
	ctx := context.Background()
	settings := New().Client().Settings

	value, err := settings.GetValue(ctx, "max_students_per_class", "30")
	require.NoError(t, err)
	assert.Equal(t, "30", value)

	first, err := settings.Upsert(ctx, record.SettingRow{Key: "max_students_per_class", Value: "25", Category: "academic"})
	require.NoError(t, err)
	second, err := settings.Upsert(ctx, record.SettingRow{Key: "max_students_per_class", Value: "20", Category: "academic"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	value, err = settings.GetValue(ctx, "max_students_per_class", "30")
	require.NoError(t, err)
	assert.Equal(t, "20", value)
}

func TestAdminEmailLookupIgnoresCase(t *testing.T) {
	ctx := context.Background()
	client := New().Client()
	_, err := client.Admins.Create(ctx, record.AdminRow{
		Name:         "Coord",
		Email:        "Coord@ibuc.org",
		CPF:          "12345678900",
		Phone:        "63999990000",
		Role:         "coordenador_geral",
		AccessLevel:  "geral",
		IsActive:     true,
		PasswordHash: "hash",
	})
	require.NoError(t, err)

	row, err := client.Admins.GetByEmail(ctx, "coord@IBUC.org")
	require.NoError(t, err)
	assert.Equal(t, "Coord", row.Name)
}
