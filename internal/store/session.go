package store

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/enrollment-service/internal/access"
	"github.com/spec-kit/enrollment-service/internal/domain"
)

// Authenticate verifies the credentials and opens a session of the given
// kind. It fails while another session is open; callers end it first.
func (s *Store) Authenticate(ctx context.Context, identifier, secret string, kind domain.SessionKind) bool {
	if s.Session() != nil {
		return false
	}

	rctx, cancel := s.remoteCtx(ctx)
	defer cancel()
	session, ok := s.verifier.Authenticate(rctx, identifier, secret, kind)
	if !ok || session == nil || session.Kind != kind {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session != nil {
		return false
	}
	s.session = session
	s.logger.Info("session started", zap.String("kind", string(kind)), zap.String("subject", session.SubjectID()))
	return true
}

// EndSession returns the store to the unauthenticated state.
func (s *Store) EndSession() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = nil
}

// Session returns the current session, or nil when unauthenticated.
func (s *Store) Session() *domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

// HasGeneralAccess evaluates the current session.
func (s *Store) HasGeneralAccess() bool {
	return access.HasGeneralAccess(s.Session())
}

// HasAccessToUnit evaluates the current session against unitID.
func (s *Store) HasAccessToUnit(unitID string) bool {
	return access.HasAccessToUnit(s.Session(), unitID)
}

// CurrentAccessLevel reports the access level of an admin session.
func (s *Store) CurrentAccessLevel() (domain.AccessLevel, bool) {
	return access.CurrentAccessLevel(s.Session())
}

// AllowedUnitIDs lists the cached units the current session may act on.
func (s *Store) AllowedUnitIDs() []string {
	return access.AllowedUnitIDs(s.Session(), s.Units())
}
