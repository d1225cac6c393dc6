package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/enrollment-service/internal/domain"
	"github.com/spec-kit/enrollment-service/internal/repository"
	apperrors "github.com/spec-kit/enrollment-service/pkg/util/errorutil"
)

const (
	sessionKey = "auth_session"
	claimsKey  = "auth_claims"
)

// AuthMiddleware validates bearer tokens and rebuilds the caller's session.
type AuthMiddleware struct {
	tokens   *TokenManager
	registry SessionRegistry
	resolver *Authenticator
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, registry SessionRegistry, resolver *Authenticator) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, registry: registry, resolver: resolver}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	rec, err := m.registry.Lookup(c.UserContext(), claims.ID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return apperrors.NewUnauthorized("session ended")
		}
		return apperrors.NewRemoteError(err)
	}
	if rec.Kind != claims.Kind || rec.SubjectID != claims.Subject {
		return apperrors.NewUnauthorized("session mismatch")
	}

	session, err := m.resolver.Resolve(c.UserContext(), claims.Kind, claims.Subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, ErrInactive) {
			return apperrors.NewUnauthorized("identity no longer active")
		}
		return apperrors.MapError(err)
	}

	c.Locals(sessionKey, session)
	c.Locals(claimsKey, claims)
	return c.Next()
}

// SessionFromContext retrieves the authenticated session.
func SessionFromContext(c *fiber.Ctx) (*domain.Session, bool) {
	session, ok := c.Locals(sessionKey).(*domain.Session)
	return session, ok && session != nil
}

// ClaimsFromContext returns the token claims of the request.
func ClaimsFromContext(c *fiber.Ctx) (*Claims, bool) {
	claims, ok := c.Locals(claimsKey).(*Claims)
	return claims, ok && claims != nil
}
