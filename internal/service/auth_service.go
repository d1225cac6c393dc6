package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/enrollment-service/internal/auth"
	"github.com/spec-kit/enrollment-service/internal/config"
	"github.com/spec-kit/enrollment-service/internal/domain"
	"github.com/spec-kit/enrollment-service/internal/record"
	"github.com/spec-kit/enrollment-service/internal/repository"
	apperrors "github.com/spec-kit/enrollment-service/pkg/util/errorutil"
)

const minPasswordLength = 6

// AuthService coordinates login, logout and credential changes for HTTP
// clients.
type AuthService struct {
	authenticator *auth.Authenticator
	tokens        *auth.TokenManager
	registry      auth.SessionRegistry
	admins        repository.AdminRepository
	persons       repository.PersonRepository
	bcryptCost    int
	logger        *zap.Logger
}

// AuthDependencies encapsulates requirements for auth service.
type AuthDependencies struct {
	Authenticator *auth.Authenticator
	Tokens        *auth.TokenManager
	Registry      auth.SessionRegistry
	AdminRepo     repository.AdminRepository
	PersonRepo    repository.PersonRepository
	Logger        *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		authenticator: deps.Authenticator,
		tokens:        deps.Tokens,
		registry:      deps.Registry,
		admins:        deps.AdminRepo,
		persons:       deps.PersonRepo,
		bcryptCost:    cfg.Auth.BcryptCost,
		logger:        logger,
	}
}

// Login verifies the credentials, issues a token and registers its session.
func (s *AuthService) Login(ctx context.Context, identifier, secret string, kind domain.SessionKind) (*domain.Session, string, time.Time, error) {
	session, ok := s.authenticator.Authenticate(ctx, identifier, secret, kind)
	if !ok {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}

	token, claims, err := s.tokens.GenerateToken(session.SubjectID(), kind)
	if err != nil {
		return nil, "", time.Time{}, apperrors.NewInternalError(err)
	}
	rec := auth.SessionRecord{Kind: kind, SubjectID: session.SubjectID()}
	if err := s.registry.Register(ctx, claims.ID, rec, s.tokens.TTL()); err != nil {
		return nil, "", time.Time{}, apperrors.NewRemoteError(err)
	}
	s.logger.Info("login", zap.String("kind", string(kind)), zap.String("subject", rec.SubjectID))
	return session, token, claims.ExpiresAt.Time, nil
}

// Logout revokes the session registered for the token.
func (s *AuthService) Logout(ctx context.Context, tokenID string) error {
	if err := s.registry.Revoke(ctx, tokenID); err != nil {
		return apperrors.NewRemoteError(err)
	}
	return nil
}

// ChangePassword verifies the current secret before storing the new hash.
func (s *AuthService) ChangePassword(ctx context.Context, session *domain.Session, currentPassword, newPassword string) error {
	if session == nil {
		return apperrors.NewUnauthorized("session required")
	}
	if len(newPassword) < minPasswordLength {
		return apperrors.NewValidationError("password too short", map[string]any{"min_length": minPasswordLength})
	}

	identifier := ""
	switch session.Kind {
	case domain.SessionAdmin:
		identifier = session.Admin.Email
	case domain.SessionStudent:
		identifier = session.Person.TaxID
	}
	if _, ok := s.authenticator.Authenticate(ctx, identifier, currentPassword, session.Kind); !ok {
		return apperrors.NewUnauthorized("invalid credentials")
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	patch := record.Patch{{Column: "password_hash", Value: hash}}
	if session.Kind == domain.SessionAdmin {
		_, err = s.admins.Update(ctx, session.SubjectID(), patch)
	} else {
		_, err = s.persons.Update(ctx, session.SubjectID(), patch)
	}
	return apperrors.MapError(err)
}
