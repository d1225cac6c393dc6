package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/enrollment-service/internal/access"
	"github.com/spec-kit/enrollment-service/internal/domain"
	apperrors "github.com/spec-kit/enrollment-service/pkg/util/errorutil"
)

// RequireAdmin ensures an admin identity is authenticated.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, ok := SessionFromContext(c)
		if !ok || !session.IsAdmin() {
			return apperrors.NewForbidden("admin required")
		}
		return c.Next()
	}
}

// RequireGeneralAccess ensures the admin has institution-wide access.
func RequireGeneralAccess() fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, _ := SessionFromContext(c)
		if !access.HasGeneralAccess(session) {
			return apperrors.NewForbidden("general access required")
		}
		return c.Next()
	}
}

// RequireRole ensures the admin holds one of the allowed roles.
func RequireRole(allowed ...domain.Role) fiber.Handler {
	allowedSet := make(map[domain.Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		session, ok := SessionFromContext(c)
		if !ok || !session.IsAdmin() {
			return apperrors.NewForbidden("admin required")
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[session.Admin.Role]; !exists {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}

// RequireAnySession ensures caller is authenticated (admin or student).
func RequireAnySession() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := SessionFromContext(c); !ok {
			return apperrors.NewUnauthorized("session required")
		}
		return c.Next()
	}
}
