package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/enrollment-service/internal/auth"
	"github.com/spec-kit/enrollment-service/internal/domain"
	"github.com/spec-kit/enrollment-service/internal/events"
	"github.com/spec-kit/enrollment-service/internal/record"
	"github.com/spec-kit/enrollment-service/internal/repository"
	"github.com/spec-kit/enrollment-service/internal/repository/inmem"
)

func samplePerson(name, taxID string) domain.Person {
	return domain.Person{
		Name:      name,
		BirthDate: time.Date(2013, 7, 9, 0, 0, 0, 0, time.UTC),
		TaxID:     taxID,
		Gender:    domain.GenderFemale,
		Phone:     "(63) 99999-1111",
		Address: domain.Address{
			ZipCode:      "77000-000",
			Street:       "Rua das Flores",
			Number:       "123",
			Neighborhood: "Centro",
			City:         "Palmas",
			State:        "TO",
		},
		Guardians: domain.Guardians{
			FatherName:  "João",
			MotherName:  "Maria",
			Phone:       "(63) 98888-2222",
			FatherTaxID: "111.222.333-44",
			MotherTaxID: "555.666.777-88",
		},
	}
}

func sampleUnit(name string) domain.Unit {
	return domain.Unit{
		Name: name,
		Address: domain.Address{
			ZipCode:      "77000-000",
			Street:       "Av. JK",
			Number:       "100",
			Neighborhood: "Centro",
			City:         "Palmas",
			State:        "TO",
		},
		Pastor:          "Pr. Carlos",
		Coordinator:     domain.Officer{Name: "Coord", TaxID: "999.888.777-66"},
		AvailableLevels: []domain.Level{domain.LevelI, domain.LevelII},
	}
}

type harness struct {
	db     *inmem.DB
	client *repository.Client
	store  *Store
}

func newHarness(t *testing.T, opts ...Option) harness {
	t.Helper()
	db := inmem.New()
	client := db.Client()
	hash, err := auth.HashPassword("s3cret", bcrypt.MinCost)
	require.NoError(t, err)

	_, err = client.Admins.Create(context.Background(), record.AdminRow{
		Name:         "Diretoria",
		Email:        "admin@example.org",
		CPF:          "000.000.000-00",
		Phone:        "(62) 99999-9999",
		Role:         string(domain.RoleGeneralDirector),
		AccessLevel:  string(domain.AccessGeneral),
		IsActive:     true,
		PasswordHash: hash,
	})
	require.NoError(t, err)

	s := New(Deps{
		Remote:   client,
		Verifier: auth.NewAuthenticator(client.Admins, client.Persons, hash, nil),
	}, opts...)
	return harness{db: db, client: client, store: s}
}

type failingEnrollments struct {
	repository.EnrollmentRepository
}

func (failingEnrollments) ListActive(context.Context) ([]record.EnrollmentRow, error) {
	return nil, &repository.RemoteError{Table: record.TableEnrollments, Op: "list_active", Err: errors.New("connection reset")}
}

type slowPersons struct {
	repository.PersonRepository
	started chan struct{}
	release chan struct{}
}

func (p slowPersons) ListActive(ctx context.Context) ([]record.PersonRow, error) {
	close(p.started)
	<-p.release
	return p.PersonRepository.ListActive(ctx)
}

func (p slowPersons) Create(ctx context.Context, _ record.PersonRow) (record.PersonRow, error) {
	<-ctx.Done()
	return record.PersonRow{}, ctx.Err()
}

func TestLoadAllPopulatesProjection(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	_, err := h.client.Persons.Create(ctx, record.FromPerson(func() domain.Person {
		p := samplePerson("Ana", "123.456.789-00")
		p.Active = true
		return p
	}()))
	require.NoError(t, err)
	_, err = h.client.Units.Create(ctx, record.FromUnit(func() domain.Unit {
		u := sampleUnit("Polo Central")
		u.Active = true
		return u
	}()))
	require.NoError(t, err)

	h.store.LoadAll(ctx)

	assert.Len(t, h.store.Persons(), 1)
	assert.Len(t, h.store.Units(), 1)
	assert.Empty(t, h.store.Enrollments())
	assert.False(t, h.store.IsLoading())
}

func TestLoadAllKeepsPriorCollectionOnPartialFailure(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	person, err := h.store.AddPerson(ctx, samplePerson("Ana", "123.456.789-00"))
	require.NoError(t, err)
	unit, err := h.store.AddUnit(ctx, sampleUnit("Polo Central"))
	require.NoError(t, err)
	_, err = h.store.AddEnrollment(ctx, domain.Enrollment{PersonID: person.ID, UnitID: unit.ID, Level: domain.LevelI})
	require.NoError(t, err)

	fresh := New(Deps{Remote: &repository.Client{
		Persons:     h.client.Persons,
		Units:       h.client.Units,
		Enrollments: failingEnrollments{h.client.Enrollments},
	}})
	fresh.LoadAll(ctx)

	assert.Len(t, fresh.Persons(), 1)
	assert.Len(t, fresh.Units(), 1)
	assert.Empty(t, fresh.Enrollments())
	assert.False(t, fresh.IsLoading())

	h.store.remote = &repository.Client{
		Persons:     h.client.Persons,
		Units:       h.client.Units,
		Enrollments: failingEnrollments{h.client.Enrollments},
	}
	h.store.Refresh(ctx)
	assert.Len(t, h.store.Enrollments(), 1)
}

func TestIsLoadingDuringBatch(t *testing.T) {
	h := newHarness(t)
	slow := slowPersons{PersonRepository: h.client.Persons, started: make(chan struct{}), release: make(chan struct{})}
	h.store.remote = &repository.Client{Persons: slow, Units: h.client.Units, Enrollments: h.client.Enrollments}

	done := make(chan struct{})
	go func() {
		h.store.LoadAll(context.Background())
		close(done)
	}()

	<-slow.started
	assert.True(t, h.store.IsLoading())
	close(slow.release)
	<-done
	assert.False(t, h.store.IsLoading())
}

func TestRemoteTimeoutBoundsMutations(t *testing.T) {
	h := newHarness(t, WithRemoteTimeout(20*time.Millisecond))
	h.store.remote = &repository.Client{Persons: slowPersons{PersonRepository: h.client.Persons}}

	_, err := h.store.AddPerson(context.Background(), samplePerson("Ana", "123.456.789-00"))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Empty(t, h.store.Persons())
}

func TestAddPersonDuplicateTaxID(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	_, err := h.store.AddPerson(ctx, samplePerson("Ana", "123.456.789-00"))
	require.NoError(t, err)
	_, err = h.store.AddPerson(ctx, samplePerson("Bia", "123.456.789-00"))

	assert.ErrorIs(t, err, repository.ErrConstraintViolation)
	assert.Len(t, h.store.Persons(), 1)
}

func TestUpdatePersonReplacesCachedCopy(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	person, err := h.store.AddPerson(ctx, samplePerson("Ana", "123.456.789-00"))
	require.NoError(t, err)

	name := "Ana Clara"
	updated, err := h.store.UpdatePerson(ctx, person.ID, domain.PersonUpdate{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Ana Clara", updated.Name)
	assert.Equal(t, "123.456.789-00", updated.TaxID)

	cached, ok := h.store.Person(person.ID)
	require.True(t, ok)
	assert.Equal(t, "Ana Clara", cached.Name)
}

func TestFailedUpdateLeavesProjectionUntouched(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	person, err := h.store.AddPerson(ctx, samplePerson("Ana", "123.456.789-00"))
	require.NoError(t, err)

	name := "Outra"
	_, err = h.store.UpdatePerson(ctx, "missing", domain.PersonUpdate{Name: &name})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	cached, _ := h.store.Person(person.ID)
	assert.Equal(t, "Ana", cached.Name)
}

func TestRemovePersonTwice(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	person, err := h.store.AddPerson(ctx, samplePerson("Ana", "123.456.789-00"))
	require.NoError(t, err)

	require.NoError(t, h.store.RemovePerson(ctx, person.ID))
	require.NoError(t, h.store.RemovePerson(ctx, person.ID))

	row, err := h.client.Persons.GetByID(ctx, person.ID)
	require.NoError(t, err)
	assert.False(t, row.IsActive)
	assert.Empty(t, h.store.Persons())

	assert.ErrorIs(t, h.store.RemovePerson(ctx, "missing"), repository.ErrNotFound)
}

func TestUnitLifecycle(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	unit, err := h.store.AddUnit(ctx, sampleUnit("Polo Norte"))
	require.NoError(t, err)
	assert.True(t, unit.Active)

	unit.Name = "Polo Norte II"
	unit.Active = false
	updated, err := h.store.UpdateUnit(ctx, unit.ID, unit)
	require.NoError(t, err)
	assert.Equal(t, "Polo Norte II", updated.Name)
	assert.True(t, updated.Active)

	require.NoError(t, h.store.RemoveUnit(ctx, unit.ID))
	_, ok := h.store.Unit(unit.ID)
	assert.False(t, ok)
}

func TestUpdateUnitRejectsInvalidValues(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	unit, err := h.store.AddUnit(ctx, sampleUnit("Polo Norte"))
	require.NoError(t, err)

	cases := map[string]func(u *domain.Unit){
		"unknown level":     func(u *domain.Unit) { u.AvailableLevels = []domain.Level{"NIVEL_IX"} },
		"empty name":        func(u *domain.Unit) { u.Name = "" },
		"malformed officer": func(u *domain.Unit) { u.Coordinator.TaxID = "bogus" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			changed := unit
			changed.AvailableLevels = append([]domain.Level(nil), unit.AvailableLevels...)
			mutate(&changed)

			_, err := h.store.UpdateUnit(ctx, unit.ID, changed)
			var verr *record.ValidationError
			require.ErrorAs(t, err, &verr)

			row, err := h.client.Units.GetByID(ctx, unit.ID)
			require.NoError(t, err)
			assert.Equal(t, "Polo Norte", row.Name)
			assert.Equal(t, "999.888.777-66", row.CoordinatorCPF)
			assert.Equal(t, []string{"NIVEL_I", "NIVEL_II"}, row.AvailableLevels)

			cached, ok := h.store.Unit(unit.ID)
			require.True(t, ok)
			assert.Equal(t, "Polo Norte", cached.Name)
		})
	}
}

func TestProjectionOmitsCredentialHash(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	p := samplePerson("Ana", "123.456.789-00")
	p.SecretHash = "$2a$04$notarealhashbutlongenoughforthistest000000000000000000"
	person, err := h.store.AddPerson(ctx, p)
	require.NoError(t, err)

	row, err := h.client.Persons.GetByID(ctx, person.ID)
	require.NoError(t, err)
	require.NotNil(t, row.PasswordHash)

	cached, ok := h.store.Person(person.ID)
	require.True(t, ok)
	assert.Empty(t, cached.SecretHash)

	h.store.LoadAll(ctx)
	cached, ok = h.store.Person(person.ID)
	require.True(t, ok)
	assert.Empty(t, cached.SecretHash)
}

func TestUpdatePersonRejectsEmptyName(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	person, err := h.store.AddPerson(ctx, samplePerson("Ana", "123.456.789-00"))
	require.NoError(t, err)

	empty := ""
	_, err = h.store.UpdatePerson(ctx, person.ID, domain.PersonUpdate{Name: &empty})
	var verr *record.ValidationError
	require.ErrorAs(t, err, &verr)

	cached, _ := h.store.Person(person.ID)
	assert.Equal(t, "Ana", cached.Name)
}

func TestReAddPersonAfterRemoval(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	first, err := h.store.AddPerson(ctx, samplePerson("Ana", "123.456.789-00"))
	require.NoError(t, err)
	require.NoError(t, h.store.RemovePerson(ctx, first.ID))

	second, err := h.store.AddPerson(ctx, samplePerson("Ana", "123.456.789-00"))
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Len(t, h.store.Persons(), 1)
}

func TestAddEnrollmentUnknownUnitHasEmptySnapshot(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	person, err := h.store.AddPerson(ctx, samplePerson("Ana", "123.456.789-00"))
	require.NoError(t, err)

	enrollment, err := h.store.AddEnrollment(ctx, domain.Enrollment{
		PersonID: person.ID,
		UnitID:   "unit-not-cached",
		Level:    domain.LevelII,
	})
	require.NoError(t, err)
	assert.Equal(t, "", enrollment.UnitName)
	assert.Equal(t, "Ana", enrollment.StudentName)
	assert.Equal(t, domain.EnrollmentActive, enrollment.Status)
	assert.Len(t, h.store.Enrollments(), 1)
}

func TestAddEnrollmentSnapshotsUnitName(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	person, err := h.store.AddPerson(ctx, samplePerson("Ana", "123.456.789-00"))
	require.NoError(t, err)
	unit, err := h.store.AddUnit(ctx, sampleUnit("Polo Central"))
	require.NoError(t, err)

	enrollment, err := h.store.AddEnrollment(ctx, domain.Enrollment{PersonID: person.ID, UnitID: unit.ID, Level: domain.LevelI})
	require.NoError(t, err)
	assert.Equal(t, "Polo Central", enrollment.UnitName)

	unit.Name = "Polo Renomeado"
	_, err = h.store.UpdateUnit(ctx, unit.ID, unit)
	require.NoError(t, err)
	cached, _ := h.store.Enrollment(enrollment.ID)
	assert.Equal(t, "Polo Central", cached.UnitName)
}

func TestCancelEnrollment(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	person, err := h.store.AddPerson(ctx, samplePerson("Ana", "123.456.789-00"))
	require.NoError(t, err)
	enrollment, err := h.store.AddEnrollment(ctx, domain.Enrollment{PersonID: person.ID, UnitID: "u1", Level: domain.LevelI})
	require.NoError(t, err)

	require.NoError(t, h.store.CancelEnrollment(ctx, enrollment.ID))
	assert.Empty(t, h.store.Enrollments())

	row, err := h.client.Enrollments.GetByID(ctx, enrollment.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.EnrollmentCancelled), row.Status)
}

func TestUpdateEnrollmentToCompleted(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	enrollment, err := h.store.AddEnrollment(ctx, domain.Enrollment{PersonID: "p1", StudentName: "Ana", UnitID: "u1", Level: domain.LevelI})
	require.NoError(t, err)

	status := domain.EnrollmentCompleted
	done := time.Date(2024, 12, 1, 15, 30, 0, 0, time.UTC)
	updated, err := h.store.UpdateEnrollment(ctx, enrollment.ID, domain.EnrollmentUpdate{Status: &status, CompletionDate: &done})
	require.NoError(t, err)
	assert.Equal(t, domain.EnrollmentCompleted, updated.Status)
	require.NotNil(t, updated.CompletionDate)
	assert.Equal(t, time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC), *updated.CompletionDate)
}

func TestAuthenticateWrongPasswordStaysUnauthenticated(t *testing.T) {
	h := newHarness(t)

	ok := h.store.Authenticate(context.Background(), "admin@example.org", "wrongpass", domain.SessionAdmin)
	assert.False(t, ok)
	assert.Nil(t, h.store.Session())
	_, hasLevel := h.store.CurrentAccessLevel()
	assert.False(t, hasLevel)
}

func TestAuthenticateAdminGrantsGeneralAccess(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	unit, err := h.store.AddUnit(ctx, sampleUnit("Polo Central"))
	require.NoError(t, err)

	require.True(t, h.store.Authenticate(ctx, "admin@example.org", "s3cret", domain.SessionAdmin))
	assert.True(t, h.store.HasGeneralAccess())
	assert.True(t, h.store.HasAccessToUnit("created-later"))
	assert.Equal(t, []string{unit.ID}, h.store.AllowedUnitIDs())

	h.store.EndSession()
	assert.Nil(t, h.store.Session())
	assert.False(t, h.store.HasGeneralAccess())
}

func TestNoDirectSwitchBetweenSessionKinds(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	_, err := h.store.AddPerson(ctx, samplePerson("Ana", "123.456.789-00"))
	require.NoError(t, err)

	require.True(t, h.store.Authenticate(ctx, "admin@example.org", "s3cret", domain.SessionAdmin))
	assert.False(t, h.store.Authenticate(ctx, "123.456.789-00", "s3cret", domain.SessionStudent))
	assert.Equal(t, domain.SessionAdmin, h.store.Session().Kind)

	h.store.EndSession()
	require.True(t, h.store.Authenticate(ctx, "123.456.789-00", "s3cret", domain.SessionStudent))
	assert.Equal(t, domain.SessionStudent, h.store.Session().Kind)
	assert.Empty(t, h.store.AllowedUnitIDs())
}

func TestOnChangeReceivesLocalMutations(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	var got []events.Event
	h.store.OnChange(record.TablePersons, func(_ context.Context, e events.Event) error {
		got = append(got, e)
		return nil
	})

	person, err := h.store.AddPerson(ctx, samplePerson("Ana", "123.456.789-00"))
	require.NoError(t, err)
	require.NoError(t, h.store.RemovePerson(ctx, person.ID))

	require.Len(t, got, 2)
	assert.Equal(t, events.EventInsert, got[0].Type)
	assert.Equal(t, events.SourceLocal, got[1].Source)
	assert.Equal(t, person.ID, got[1].RecordID)
}
