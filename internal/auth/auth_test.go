package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/enrollment-service/internal/domain"
	"github.com/spec-kit/enrollment-service/internal/record"
	"github.com/spec-kit/enrollment-service/internal/repository"
	"github.com/spec-kit/enrollment-service/internal/repository/inmem"
	apperrors "github.com/spec-kit/enrollment-service/pkg/util/errorutil"
)

func mustHash(t *testing.T, plain string) string {
	t.Helper()
	hash, err := HashPassword(plain, bcrypt.MinCost)
	require.NoError(t, err)
	return hash
}

type fixture struct {
	client  *repository.Client
	admin   record.AdminRow
	student record.PersonRow
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	client := inmem.New().Client()

	admin, err := client.Admins.Create(ctx, record.AdminRow{
		Name:         "Coordenação Geral",
		Email:        "coord@ibuc.org",
		CPF:          "123.456.789-00",
		Phone:        "63999990000",
		Role:         string(domain.RoleGeneralCoordinator),
		AccessLevel:  string(domain.AccessGeneral),
		IsActive:     true,
		PasswordHash: mustHash(t, "s3cret"),
	})
	require.NoError(t, err)

	student, err := client.Persons.Create(ctx, record.PersonRow{
		Name:         "Ana",
		BirthDate:    time.Date(2012, 1, 1, 0, 0, 0, 0, time.UTC),
		CPF:          "987.654.321-00",
		Gender:       "female",
		Phone:        "63999990001",
		CEP:          "77000-000",
		Street:       "Rua B",
		Number:       "1",
		Neighborhood: "Centro",
		City:         "Palmas",
		State:        "TO",
		FatherName:   "Pai",
		MotherName:   "Mae",
		ParentsPhone: "63988880000",
		FatherCPF:    "111.111.111-11",
		MotherCPF:    "222.222.222-22",
		IsActive:     true,
	})
	require.NoError(t, err)

	return fixture{client: client, admin: admin, student: student}
}

func TestAuthenticateAdmin(t *testing.T) {
	f := newFixture(t)
	a := NewAuthenticator(f.client.Admins, f.client.Persons, "", nil)

	session, ok := a.Authenticate(context.Background(), "coord@ibuc.org", "s3cret", domain.SessionAdmin)
	require.True(t, ok)
	assert.True(t, session.IsAdmin())
	assert.Equal(t, f.admin.ID, session.SubjectID())
}

func TestAuthenticateAdminWrongPassword(t *testing.T) {
	f := newFixture(t)
	a := NewAuthenticator(f.client.Admins, f.client.Persons, "", nil)

	session, ok := a.Authenticate(context.Background(), "coord@ibuc.org", "wrong", domain.SessionAdmin)
	assert.False(t, ok)
	assert.Nil(t, session)

	_, ok = a.Authenticate(context.Background(), "nobody@ibuc.org", "s3cret", domain.SessionAdmin)
	assert.False(t, ok)
}

func TestAuthenticateInactiveAdmin(t *testing.T) {
	f := newFixture(t)
	_, err := f.client.Admins.SoftDelete(context.Background(), f.admin.ID)
	require.NoError(t, err)
	a := NewAuthenticator(f.client.Admins, f.client.Persons, "", nil)

	_, ok := a.Authenticate(context.Background(), "coord@ibuc.org", "s3cret", domain.SessionAdmin)
	assert.False(t, ok)
}

func TestAuthenticateStudentWithDefaultSecret(t *testing.T) {
	f := newFixture(t)
	a := NewAuthenticator(f.client.Admins, f.client.Persons, mustHash(t, "ibuc2024"), nil)

	session, ok := a.Authenticate(context.Background(), "987.654.321-00", "ibuc2024", domain.SessionStudent)
	require.True(t, ok)
	assert.Equal(t, domain.SessionStudent, session.Kind)
	assert.Equal(t, f.student.ID, session.SubjectID())

	_, ok = a.Authenticate(context.Background(), "987.654.321-00", "other", domain.SessionStudent)
	assert.False(t, ok)
}

func TestAuthenticateStudentOwnSecretWins(t *testing.T) {
	f := newFixture(t)
	_, err := f.client.Persons.Update(context.Background(), f.student.ID, record.Patch{
		{Column: "password_hash", Value: mustHash(t, "mine")},
	})
	require.NoError(t, err)
	a := NewAuthenticator(f.client.Admins, f.client.Persons, mustHash(t, "ibuc2024"), nil)

	_, ok := a.Authenticate(context.Background(), "987.654.321-00", "ibuc2024", domain.SessionStudent)
	assert.False(t, ok)
	_, ok = a.Authenticate(context.Background(), "987.654.321-00", "mine", domain.SessionStudent)
	assert.True(t, ok)
}

func TestAuthenticateStudentWithoutAnySecret(t *testing.T) {
	f := newFixture(t)
	a := NewAuthenticator(f.client.Admins, f.client.Persons, "", nil)

	_, ok := a.Authenticate(context.Background(), "987.654.321-00", "anything", domain.SessionStudent)
	assert.False(t, ok)
}

func TestAuthenticateUnknownKind(t *testing.T) {
	f := newFixture(t)
	a := NewAuthenticator(f.client.Admins, f.client.Persons, "", nil)

	_, ok := a.Authenticate(context.Background(), "coord@ibuc.org", "s3cret", domain.SessionKind("guest"))
	assert.False(t, ok)
}

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", time.Minute)

	token, issued, err := tm.GenerateToken("a1", domain.SessionAdmin)
	require.NoError(t, err)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "a1", claims.Subject)
	assert.Equal(t, domain.SessionAdmin, claims.Kind)
	assert.Equal(t, issued.ID, claims.ID)

	_, err = NewTokenManager("other", time.Minute).ParseToken(token)
	assert.Error(t, err)
}

func TestExpiredTokenRejected(t *testing.T) {
	tm := NewTokenManager("secret", time.Minute)
	tm.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, _, err := tm.GenerateToken("a1", domain.SessionAdmin)
	require.NoError(t, err)
	_, err = tm.ParseToken(token)
	assert.Error(t, err)
}

func TestMemorySessionRegistry(t *testing.T) {
	ctx := context.Background()
	reg := NewMemorySessionRegistry()
	rec := SessionRecord{Kind: domain.SessionStudent, SubjectID: "p1"}

	require.NoError(t, reg.Register(ctx, "t1", rec, time.Minute))
	got, err := reg.Lookup(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, rec, got)

	require.NoError(t, reg.Revoke(ctx, "t1"))
	_, err = reg.Lookup(ctx, "t1")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	require.NoError(t, reg.Register(ctx, "t2", rec, -time.Second))
	_, err = reg.Lookup(ctx, "t2")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func newApp(m *AuthMiddleware, guards ...fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			de := apperrors.ToDomainError(err)
			return c.Status(de.HTTPStatus).JSON(fiber.Map{"code": de.Code})
		},
	})
	handlers := append([]fiber.Handler{m.Handle}, guards...)
	handlers = append(handlers, func(c *fiber.Ctx) error {
		session, _ := SessionFromContext(c)
		return c.SendString(session.SubjectID())
	})
	app.Get("/me", handlers...)
	return app
}

func TestMiddlewareResolvesRegisteredSession(t *testing.T) {
	f := newFixture(t)
	tm := NewTokenManager("secret", time.Minute)
	reg := NewMemorySessionRegistry()
	m := NewAuthMiddleware(tm, reg, NewAuthenticator(f.client.Admins, f.client.Persons, "", nil))
	app := newApp(m, RequireGeneralAccess())

	token, claims, err := tm.GenerateToken(f.admin.ID, domain.SessionAdmin)
	require.NoError(t, err)
	require.NoError(t, reg.Register(context.Background(), claims.ID, SessionRecord{Kind: domain.SessionAdmin, SubjectID: f.admin.ID}, time.Minute))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, reg.Revoke(context.Background(), claims.ID))
	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestMiddlewareRejectsMissingHeader(t *testing.T) {
	f := newFixture(t)
	m := NewAuthMiddleware(NewTokenManager("secret", time.Minute), NewMemorySessionRegistry(),
		NewAuthenticator(f.client.Admins, f.client.Persons, "", nil))

	resp, err := newApp(m).Test(httptest.NewRequest(http.MethodGet, "/me", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestStudentBlockedFromAdminRoutes(t *testing.T) {
	f := newFixture(t)
	tm := NewTokenManager("secret", time.Minute)
	reg := NewMemorySessionRegistry()
	m := NewAuthMiddleware(tm, reg, NewAuthenticator(f.client.Admins, f.client.Persons, "", nil))
	app := newApp(m, RequireAdmin())

	token, claims, err := tm.GenerateToken(f.student.ID, domain.SessionStudent)
	require.NoError(t, err)
	require.NoError(t, reg.Register(context.Background(), claims.ID, SessionRecord{Kind: domain.SessionStudent, SubjectID: f.student.ID}, time.Minute))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
