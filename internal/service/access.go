package service

import (
	"github.com/spec-kit/enrollment-service/internal/access"
	"github.com/spec-kit/enrollment-service/internal/domain"
	apperrors "github.com/spec-kit/enrollment-service/pkg/util/errorutil"
)

func requireAdmin(actor *domain.Session) error {
	if !actor.IsAdmin() {
		return apperrors.NewForbidden("admin session required")
	}
	return nil
}

func requireGeneral(actor *domain.Session) error {
	if !access.HasGeneralAccess(actor) {
		return apperrors.NewForbidden("general access required")
	}
	return nil
}

func requireUnit(actor *domain.Session, unitID string) error {
	if !access.HasAccessToUnit(actor, unitID) {
		return apperrors.NewForbidden("no access to unit")
	}
	return nil
}
