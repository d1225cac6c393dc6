package auth

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/enrollment-service/internal/domain"
	"github.com/spec-kit/enrollment-service/internal/record"
	"github.com/spec-kit/enrollment-service/internal/repository"
)

// ErrInactive is returned when a session points to a deactivated identity.
var ErrInactive = errors.New("identity is inactive")

// Authenticator verifies credentials against the remote store.
type Authenticator struct {
	admins             repository.AdminRepository
	persons            repository.PersonRepository
	defaultStudentHash string
	logger             *zap.Logger
}

// NewAuthenticator builds an authenticator. defaultStudentHash is the bcrypt
// hash checked for students without their own credential; empty disables it.
func NewAuthenticator(admins repository.AdminRepository, persons repository.PersonRepository, defaultStudentHash string, logger *zap.Logger) *Authenticator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Authenticator{
		admins:             admins,
		persons:            persons,
		defaultStudentHash: defaultStudentHash,
		logger:             logger,
	}
}

// Authenticate checks identifier and secret for the given kind. Admins are
// identified by email and students by tax id. Every failure, including
// backend errors, is reported as false.
func (a *Authenticator) Authenticate(ctx context.Context, identifier, secret string, kind domain.SessionKind) (*domain.Session, bool) {
	if identifier == "" || secret == "" {
		burn(secret)
		return nil, false
	}

	switch kind {
	case domain.SessionAdmin:
		row, err := a.admins.GetByEmail(ctx, identifier)
		if err != nil {
			a.lookupFailed(kind, err)
			burn(secret)
			return nil, false
		}
		if ComparePassword(row.PasswordHash, secret) != nil {
			return nil, false
		}
		admin := record.ToAdmin(row)
		return &domain.Session{Kind: domain.SessionAdmin, Admin: &admin}, true

	case domain.SessionStudent:
		row, err := a.persons.GetByTaxID(ctx, identifier)
		if err != nil {
			a.lookupFailed(kind, err)
			burn(secret)
			return nil, false
		}
		hash := a.defaultStudentHash
		if row.PasswordHash != nil && *row.PasswordHash != "" {
			hash = *row.PasswordHash
		}
		if hash == "" {
			burn(secret)
			return nil, false
		}
		if ComparePassword(hash, secret) != nil {
			return nil, false
		}
		person := record.ToPerson(row)
		return &domain.Session{Kind: domain.SessionStudent, Person: &person}, true
	}

	burn(secret)
	return nil, false
}

// Resolve rebuilds the session of an already authenticated identity.
func (a *Authenticator) Resolve(ctx context.Context, kind domain.SessionKind, subjectID string) (*domain.Session, error) {
	switch kind {
	case domain.SessionAdmin:
		row, err := a.admins.GetByID(ctx, subjectID)
		if err != nil {
			return nil, err
		}
		if !row.IsActive {
			return nil, ErrInactive
		}
		admin := record.ToAdmin(row)
		return &domain.Session{Kind: kind, Admin: &admin}, nil
	case domain.SessionStudent:
		row, err := a.persons.GetByID(ctx, subjectID)
		if err != nil {
			return nil, err
		}
		if !row.IsActive {
			return nil, ErrInactive
		}
		person := record.ToPerson(row)
		return &domain.Session{Kind: kind, Person: &person}, nil
	}
	return nil, fmt.Errorf("unknown session kind %q", kind)
}

func (a *Authenticator) lookupFailed(kind domain.SessionKind, err error) {
	if errors.Is(err, repository.ErrNotFound) {
		a.logger.Debug("authentication lookup found no identity", zap.String("kind", string(kind)))
		return
	}
	a.logger.Warn("authentication lookup failed", zap.String("kind", string(kind)), zap.Error(err))
}
