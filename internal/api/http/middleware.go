package http

import (
	"context"
	"errors"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/enrollment-service/internal/observability"
	"github.com/spec-kit/enrollment-service/internal/record"
	"github.com/spec-kit/enrollment-service/internal/repository"
	apperrors "github.com/spec-kit/enrollment-service/pkg/util/errorutil"
)

// statusClientClosed is logged when the caller went away before the response.
const statusClientClosed = 499

var constraintTables = []string{
	record.TablePersons,
	record.TableUnits,
	record.TableAdmins,
	record.TableStaff,
	record.TableEnrollments,
	record.TableCertificates,
	record.TableSettings,
}

// RegisterMiddlewares installs, outermost first, the request logger, the
// error renderer and the per-request deadline.
func RegisterMiddlewares(app *fiber.App, logger *zap.Logger, metrics *observability.Metrics, timeout time.Duration) {
	app.Use(observability.RequestLogger(logger, metrics))
	app.Use(errorMiddleware(logger, metrics))
	if timeout > 0 {
		app.Use(deadlineMiddleware(timeout))
	}
}

// deadlineMiddleware bounds the remote store calls a handler makes through
// c.UserContext().
func deadlineMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

func errorMiddleware(logger *zap.Logger, metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
				err = apperrors.NewInternalError(nil)
			}
			if err == nil {
				return
			}
			derr := responseError(err)
			metrics.RecordError(c.Route().Path, c.Method(), derr.Code)
			logFailure(logger, c, derr)

			body := fiber.Map{"code": derr.Code, "message": derr.Message}
			if len(derr.Details) > 0 {
				body["details"] = derr.Details
			}
			err = c.Status(derr.HTTPStatus).JSON(fiber.Map{
				"error":      body,
				"request_id": c.GetRespHeader(fiber.HeaderXRequestID),
			})
		}()
		return c.Next()
	}
}

// responseError turns a handler failure into the error returned to clients.
func responseError(err error) *apperrors.DomainError {
	var fiberErr *fiber.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.NewDomainError("TIMEOUT", "request timed out", http.StatusGatewayTimeout, nil)
	case errors.Is(err, context.Canceled):
		return apperrors.NewDomainError("CLIENT_CLOSED", "request cancelled", statusClientClosed, nil)
	case errors.As(err, &fiberErr):
		return apperrors.NewDomainError(fiberCode(fiberErr.Code), fiberErr.Message, fiberErr.Code, nil)
	}

	derr := apperrors.ToDomainError(err)
	if name, ok := repository.ConstraintName(err); ok {
		if field := conflictField(name); field != "" {
			details := map[string]any{"constraint": name, "field": field}
			derr = apperrors.NewDomainError(derr.Code, field+" already registered", derr.HTTPStatus, details)
		}
	}
	return derr
}

// conflictField extracts the column from a unique constraint such as
// students_cpf_key or certificates_certificate_number_key.
func conflictField(constraint string) string {
	name, ok := strings.CutSuffix(constraint, "_key")
	if !ok {
		return ""
	}
	for _, table := range constraintTables {
		if field, found := strings.CutPrefix(name, table+"_"); found {
			return field
		}
	}
	return ""
}

func fiberCode(status int) string {
	switch status {
	case fiber.StatusBadRequest, fiber.StatusUnprocessableEntity:
		return "VALIDATION_FAILED"
	case fiber.StatusUnauthorized:
		return "UNAUTHORIZED"
	case fiber.StatusForbidden:
		return "FORBIDDEN"
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case fiber.StatusRequestEntityTooLarge:
		return "PAYLOAD_TOO_LARGE"
	}
	if status >= fiber.StatusInternalServerError {
		return "INTERNAL_ERROR"
	}
	return "HTTP_ERROR"
}

func logFailure(logger *zap.Logger, c *fiber.Ctx, derr *apperrors.DomainError) {
	fields := []zap.Field{
		zap.String("request_id", c.GetRespHeader(fiber.HeaderXRequestID)),
		zap.String("path", c.Path()),
		zap.String("code", derr.Code),
	}
	if derr.Err != nil {
		fields = append(fields, zap.NamedError("cause", derr.Err))
	}
	switch {
	case derr.HTTPStatus >= http.StatusInternalServerError:
		logger.Error("request failed", fields...)
	case derr.HTTPStatus == statusClientClosed:
		logger.Debug("client went away", fields...)
	}
}
