package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/enrollment-service/internal/repository"
	apperrors "github.com/spec-kit/enrollment-service/pkg/util/errorutil"
)

func TestConflictField(t *testing.T) {
	cases := map[string]string{
		"students_cpf_key":                    "cpf",
		"admin_users_email_key":               "email",
		"certificates_certificate_number_key": "certificate_number",
		"system_settings_key_key":             "key",
		"students_pkey":                       "",
		"unknown_table_cpf_key":               "",
	}
	for constraint, want := range cases {
		assert.Equal(t, want, conflictField(constraint), constraint)
	}
}

func TestResponseError(t *testing.T) {
	remoteTimeout := &repository.RemoteError{Table: "students", Op: "list_active", Err: context.DeadlineExceeded}
	conflict := &repository.RemoteError{Table: "students", Op: "create", Constraint: "students_cpf_key", Err: errors.New("dup")}

	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"deadline", apperrors.MapError(remoteTimeout), http.StatusGatewayTimeout, "TIMEOUT"},
		{"cancelled", fmt.Errorf("load: %w", context.Canceled), statusClientClosed, "CLIENT_CLOSED"},
		{"route", fiber.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"payload", fiber.NewError(http.StatusBadRequest, "invalid payload"), http.StatusBadRequest, "VALIDATION_FAILED"},
		{"conflict", apperrors.MapError(conflict), http.StatusConflict, "CONFLICT"},
		{"domain", apperrors.NewForbidden("no access"), http.StatusForbidden, "FORBIDDEN"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			derr := responseError(tc.err)
			assert.Equal(t, tc.status, derr.HTTPStatus)
			assert.Equal(t, tc.code, derr.Code)
		})
	}

	derr := responseError(apperrors.MapError(conflict))
	assert.Equal(t, "cpf already registered", derr.Message)
	assert.Equal(t, "cpf", derr.Details["field"])
}

func TestErrorMiddlewareRendersEnvelope(t *testing.T) {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	RegisterMiddlewares(app, zap.NewNop(), nil, time.Second)
	app.Get("/conflict", func(*fiber.Ctx) error {
		return &repository.RemoteError{Table: "polos", Op: "create", Constraint: "admin_users_email_key", Err: errors.New("dup")}
	})
	app.Get("/panic", func(*fiber.Ctx) error {
		panic("boom")
	})

	decode := func(path string) (int, map[string]any) {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set(fiber.HeaderXRequestID, "req-1")
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		defer resp.Body.Close()
		body := map[string]any{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		return resp.StatusCode, body
	}

	status, body := decode("/conflict")
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "req-1", body["request_id"])
	errBody := body["error"].(map[string]any)
	assert.Equal(t, "CONFLICT", errBody["code"])
	assert.Equal(t, "email", errBody["details"].(map[string]any)["field"])

	status, body = decode("/panic")
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "INTERNAL_ERROR", body["error"].(map[string]any)["code"])

	status, body = decode("/missing")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", body["error"].(map[string]any)["code"])
}
