package errorutil

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/spec-kit/enrollment-service/internal/record"
	"github.com/spec-kit/enrollment-service/internal/repository"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError("VALIDATION_FAILED", message, http.StatusBadRequest, details)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

func NewUnauthorized(message string) error {
	return NewDomainError("UNAUTHORIZED", message, http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError("FORBIDDEN", message, http.StatusForbidden, nil)
}

func NewConflict(message string, details map[string]any) error {
	return NewDomainError("CONFLICT", message, http.StatusConflict, details)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// NewRemoteError reports a backend failure to the caller without its details.
func NewRemoteError(err error) error {
	return &DomainError{
		Code:       "REMOTE_STORE_ERROR",
		Message:    "remote store unavailable",
		HTTPStatus: http.StatusBadGateway,
		Err:        err,
	}
}

// ToDomainError converts repository and validation errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}

	var verr *record.ValidationError
	switch {
	case errors.Is(err, repository.ErrNotFound):
		de := NewNotFound("resource", nil).(*DomainError)
		de.Err = err
		return de
	case errors.Is(err, repository.ErrConstraintViolation):
		name, _ := repository.ConstraintName(err)
		de := NewConflict("duplicate value", map[string]any{"constraint": name}).(*DomainError)
		de.Err = err
		return de
	case errors.As(err, &verr):
		details := make(map[string]any, len(verr.Fields))
		for _, f := range verr.Fields {
			details[f.Field] = f.Rule
		}
		de := NewValidationError("invalid "+verr.Table+" data", details).(*DomainError)
		de.Err = err
		return de
	case repository.IsRemote(err):
		return NewRemoteError(err).(*DomainError)
	}
	return NewInternalError(err).(*DomainError)
}

// MapError converts generic errors to DomainError.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	return ToDomainError(err)
}
