package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/enrollment-service/internal/api/http/handlers"
	"github.com/spec-kit/enrollment-service/internal/auth"
	"github.com/spec-kit/enrollment-service/internal/config"
	"github.com/spec-kit/enrollment-service/internal/domain"
	"github.com/spec-kit/enrollment-service/internal/observability"
	"github.com/spec-kit/enrollment-service/internal/record"
	"github.com/spec-kit/enrollment-service/internal/repository/inmem"
	"github.com/spec-kit/enrollment-service/internal/service"
	"github.com/spec-kit/enrollment-service/internal/store"
)

type testServer struct {
	app *fiber.App
}

func newTestServer(t *testing.T) testServer {
	t.Helper()
	ctx := context.Background()
	logger := zap.NewNop()
	metrics := observability.NewMetrics("test")
	cfg := config.Config{Auth: config.AuthConfig{BcryptCost: bcrypt.MinCost}}

	client := inmem.New().Client()
	adminHash, err := auth.HashPassword("admin123", bcrypt.MinCost)
	require.NoError(t, err)
	_, err = client.Admins.Create(ctx, record.AdminRow{
		Name:         "Administrador Sistema",
		Email:        "admin@ibuc.com.br",
		CPF:          "000.000.000-00",
		Phone:        "(62) 99999-9999",
		Role:         string(domain.RoleGeneralDirector),
		AccessLevel:  string(domain.AccessGeneral),
		IsActive:     true,
		PasswordHash: adminHash,
	})
	require.NoError(t, err)

	studentHash, err := auth.HashPassword("ibuc2024", bcrypt.MinCost)
	require.NoError(t, err)
	authenticator := auth.NewAuthenticator(client.Admins, client.Persons, studentHash, logger)
	st := store.New(store.Deps{Remote: client, Verifier: authenticator, Logger: logger, Metrics: metrics})
	st.LoadAll(ctx)

	tokens := auth.NewTokenManager("test-secret", time.Hour)
	registry := auth.NewMemorySessionRegistry()
	authService := service.NewAuthService(cfg, service.AuthDependencies{
		Authenticator: authenticator,
		Tokens:        tokens,
		Registry:      registry,
		AdminRepo:     client.Admins,
		PersonRepo:    client.Persons,
		Logger:        logger,
	})
	enrollments := service.NewEnrollmentService(st)

	app := NewApp("test", logger, metrics, time.Second, RouteConfig{
		Health:       handlers.NewHealthHandler("test", "dev", st, nil),
		Auth:         handlers.NewAuthHandler(authService, st),
		Persons:      handlers.NewPersonsHandler(enrollments),
		Units:        handlers.NewUnitsHandler(enrollments),
		Enrollments:  handlers.NewEnrollmentsHandler(enrollments),
		Certificates: handlers.NewCertificatesHandler(service.NewCertificateService(client.Certificates, st, logger)),
		Staff: handlers.NewStaffHandler(service.NewStaffService(cfg, service.StaffDependencies{
			AdminRepo: client.Admins, StaffRepo: client.Staff, UnitRepo: client.Units,
		})),
		Settings:       handlers.NewSettingsHandler(service.NewSettingsService(client.Settings, client.Stats)),
		AuthMiddleware: auth.NewAuthMiddleware(tokens, registry, authenticator),
	})
	return testServer{app: app}
}

func (s testServer) do(t *testing.T, method, path, token string, body any) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp.StatusCode, out
}

func (s testServer) login(t *testing.T, identifier, password, kind string) string {
	t.Helper()
	status, body := s.do(t, http.MethodPost, "/auth/login", "", map[string]any{
		"identifier": identifier, "password": password, "kind": kind,
	})
	require.Equal(t, http.StatusOK, status, body)
	data := body["data"].(map[string]any)
	return data["auth"].(map[string]any)["token"].(string)
}

func data(body map[string]any) map[string]any {
	return body["data"].(map[string]any)
}

func errorCode(body map[string]any) string {
	return body["error"].(map[string]any)["code"].(string)
}

var unitPayload = map[string]any{
	"name": "Igreja Central - Palmas",
	"address": map[string]any{
		"cep": "77001-000", "street": "Av. JK", "number": "100",
		"neighborhood": "Centro", "city": "Palmas", "state": "TO",
	},
	"pastor":           "Pr. João Silva",
	"coordinator":      map[string]any{"name": "Maria Santos", "cpf": "123.456.789-00"},
	"available_levels": []string{"NIVEL_I", "NIVEL_II"},
}

var studentPayload = map[string]any{
	"name":       "Ana Silva Santos",
	"birth_date": "2015-03-15",
	"cpf":        "123.456.789-00",
	"gender":     "female",
	"phone":      "(63) 99999-0000",
	"address": map[string]any{
		"cep": "77001-000", "street": "Rua A", "number": "10",
		"neighborhood": "Centro", "city": "Palmas", "state": "TO",
	},
	"guardians": map[string]any{
		"father_name": "José", "mother_name": "Maria", "phone": "(63) 98888-0000",
		"father_cpf": "111.111.111-11", "mother_cpf": "222.222.222-22",
	},
}

func TestHealthLive(t *testing.T) {
	s := newTestServer(t)
	status, body := s.do(t, http.MethodGet, "/health/live", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "alive", body["status"])
}

func TestProtectedRouteWithoutToken(t *testing.T) {
	s := newTestServer(t)
	status, body := s.do(t, http.MethodGet, "/students", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", errorCode(body))
}

func TestLoginRejectsBadPayloadAndCredentials(t *testing.T) {
	s := newTestServer(t)
	status, body := s.do(t, http.MethodPost, "/auth/login", "", map[string]any{"identifier": "admin@ibuc.com.br"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(body))

	status, body = s.do(t, http.MethodPost, "/auth/login", "", map[string]any{
		"identifier": "admin@ibuc.com.br", "password": "wrong", "kind": "admin",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", errorCode(body))
}

func TestEnrollmentFlow(t *testing.T) {
	s := newTestServer(t)
	admin := s.login(t, "admin@ibuc.com.br", "admin123", "admin")

	status, body := s.do(t, http.MethodGet, "/me", admin, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, data(body)["general_access"])
	assert.NotContains(t, data(body)["admin"], "password_hash")

	status, body = s.do(t, http.MethodPost, "/units", admin, unitPayload)
	require.Equal(t, http.StatusCreated, status, body)
	unitID := data(body)["id"].(string)

	status, body = s.do(t, http.MethodPost, "/students", admin, studentPayload)
	require.Equal(t, http.StatusCreated, status, body)
	studentID := data(body)["id"].(string)
	assert.Equal(t, "2015-03-15", data(body)["birth_date"])

	status, body = s.do(t, http.MethodPost, "/students", admin, studentPayload)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "CONFLICT", errorCode(body))

	status, body = s.do(t, http.MethodPost, "/enrollments", admin, map[string]any{
		"student_id": studentID, "polo_id": unitID, "level": "NIVEL_III",
	})
	assert.Equal(t, http.StatusBadRequest, status, body)

	status, body = s.do(t, http.MethodPost, "/enrollments", admin, map[string]any{
		"student_id": studentID, "polo_id": unitID, "level": "NIVEL_II",
	})
	require.Equal(t, http.StatusCreated, status, body)
	enrollmentID := data(body)["id"].(string)
	assert.Equal(t, "Igreja Central - Palmas", data(body)["polo_name"])
	assert.Equal(t, "Ana Silva Santos", data(body)["student_name"])

	status, body = s.do(t, http.MethodPost, "/certificates", admin, map[string]any{
		"enrollment_id": enrollmentID, "grade": 9.5, "hours_completed": 40, "issue_date": "2024-12-01",
	})
	require.Equal(t, http.StatusCreated, status, body)
	number := data(body)["certificate_number"].(string)
	assert.Regexp(t, `^IBUC-2024-\d{4}$`, number)

	status, body = s.do(t, http.MethodGet, "/certificates/verify/"+number, "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, enrollmentID, data(body)["enrollment_id"])

	student := s.login(t, "123.456.789-00", "ibuc2024", "student")
	status, body = s.do(t, http.MethodGet, "/enrollments", student, nil)
	require.Equal(t, http.StatusOK, status)
	list := body["data"].([]any)
	require.Len(t, list, 1)
	assert.Equal(t, true, list[0].(map[string]any)["certificate_issued"])

	status, _ = s.do(t, http.MethodGet, "/students", student, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = s.do(t, http.MethodPost, "/auth/logout", student, nil)
	assert.Equal(t, http.StatusNoContent, status)
	status, _ = s.do(t, http.MethodGet, "/me", student, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestGeneralRoutesRejectUnitAdmins(t *testing.T) {
	s := newTestServer(t)
	admin := s.login(t, "admin@ibuc.com.br", "admin123", "admin")

	status, body := s.do(t, http.MethodPost, "/units", admin, unitPayload)
	require.Equal(t, http.StatusCreated, status, body)
	unitID := data(body)["id"].(string)

	status, body = s.do(t, http.MethodPost, "/admins", admin, map[string]any{
		"name": "Coordenação Polo", "email": "polo@ibuc.com.br", "cpf": "333.444.555-66",
		"phone": "(63) 3333-0000", "role": "coordenador_polo", "access_level": "polo_especifico",
		"polo_id": unitID, "password": "polo1234",
	})
	require.Equal(t, http.StatusCreated, status, body)
	assert.NotContains(t, data(body), "password_hash")

	local := s.login(t, "polo@ibuc.com.br", "polo1234", "admin")
	status, _ = s.do(t, http.MethodGet, "/admins", local, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = s.do(t, http.MethodPut, "/settings/website", local, map[string]any{"value": "https://ibuc.org"})
	assert.Equal(t, http.StatusForbidden, status)

	status, body = s.do(t, http.MethodGet, "/units", local, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["data"].([]any), 1)

	status, body = s.do(t, http.MethodGet, "/me", local, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "polo_especifico", data(body)["access_level"])
	assert.Equal(t, []any{unitID}, data(body)["allowed_unit_ids"])
}

func TestSettingsArePublicToRead(t *testing.T) {
	s := newTestServer(t)
	admin := s.login(t, "admin@ibuc.com.br", "admin123", "admin")

	status, body := s.do(t, http.MethodPut, "/settings/website", admin, map[string]any{
		"value": "https://ibuc.org", "category": "institution",
	})
	require.Equal(t, http.StatusOK, status, body)

	status, body = s.do(t, http.MethodGet, "/settings?category=institution", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["data"].([]any), 1)

	status, body = s.do(t, http.MethodGet, "/settings/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", errorCode(body))
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodGet, "/health/live", "", nil)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), "test_http_requests_total")
}
